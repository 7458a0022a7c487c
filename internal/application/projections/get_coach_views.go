package projections

import (
	"context"

	"runtrack/internal/domain/apperr"
	"runtrack/internal/domain/coach"
	"runtrack/internal/domain/user"
)

// CoachAthleteLister lists the athletes linked to a coach.
type CoachAthleteLister interface {
	ListAthletes(ctx context.Context, coachID string) ([]user.User, error)
}

// AthleteNoteLister lists notes written about an athlete.
type AthleteNoteLister interface {
	ListNotesByAthlete(ctx context.Context, athleteID string) ([]coach.Note, error)
}

// CoachViewDeps holds dependencies for the coach projections.
type CoachViewDeps struct {
	UserStore UserGetter
	LinkStore CoachAthleteLister
	NoteStore AthleteNoteLister
}

// QueryCoachAthletes lists a coach's athletes ordered by display name.
// PRE: coachID names a user with role coach
// POST: returns an empty slice when the coach has no athletes
func QueryCoachAthletes(ctx context.Context, coachID string, deps CoachViewDeps) ([]user.User, error) {
	if err := checkUserID(coachID); err != nil {
		return nil, err
	}
	c, err := deps.UserStore.GetByID(ctx, coachID)
	if err != nil {
		return nil, requireUser(err)
	}
	if c.Role != user.RoleCoach {
		return nil, apperr.Wrap(apperr.ErrValidation, coach.ErrNotCoach)
	}
	athletes, err := deps.LinkStore.ListAthletes(ctx, coachID)
	if err != nil {
		return nil, err
	}
	if athletes == nil {
		athletes = []user.User{}
	}
	return athletes, nil
}

// QueryAthleteNotes lists notes about an athlete, newest first.
func QueryAthleteNotes(ctx context.Context, athleteID string, deps CoachViewDeps) ([]coach.Note, error) {
	if err := checkUserID(athleteID); err != nil {
		return nil, err
	}
	if _, err := deps.UserStore.GetByID(ctx, athleteID); err != nil {
		return nil, requireUser(err)
	}
	notes, err := deps.NoteStore.ListNotesByAthlete(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []coach.Note{}
	}
	return notes, nil
}

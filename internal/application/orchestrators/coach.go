package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"runtrack/internal/domain/apperr"
	"runtrack/internal/domain/coach"
	"runtrack/internal/domain/user"
)

// CoachUserStore looks users up by ID or athlete code.
type CoachUserStore interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByCode(ctx context.Context, code int) (user.User, error)
}

// CoachLinkStore defines the link store interface needed by coach orchestrators.
type CoachLinkStore interface {
	Link(ctx context.Context, l coach.Link) (bool, error)
	IsLinked(ctx context.Context, coachID, athleteID string) (bool, error)
}

// CoachNoteStore persists coach notes.
type CoachNoteStore interface {
	CreateNote(ctx context.Context, n coach.Note) error
}

// CoachDeps holds dependencies for the coach orchestrators.
type CoachDeps struct {
	UserStore  CoachUserStore
	LinkStore  CoachLinkStore
	NoteStore  CoachNoteStore
	GenerateID func() string
	Now        func() time.Time
}

func requireCoach(ctx context.Context, coachID string, users CoachUserStore) (user.User, error) {
	c, err := ExecuteGetUser(ctx, coachID, users)
	if err != nil {
		return user.User{}, err
	}
	if !c.IsCoach() {
		return user.User{}, invalid(coach.ErrNotCoach)
	}
	return c, nil
}

// --- Bind Athlete ---

// BindAthleteInput carries input for the bind athlete orchestrator.
type BindAthleteInput struct {
	CoachID     string
	AthleteCode int
}

// BindAthleteResult reports the bound athlete and whether the link is new.
type BindAthleteResult struct {
	Athlete user.User
	Created bool
}

// ExecuteBindAthlete links the athlete carrying AthleteCode to the coach.
// PRE: CoachID identifies a coach; AthleteCode is in 1..10000
// POST: exactly one link exists for the pair
// INVARIANT: binding an existing pair is a no-op, not an error
func ExecuteBindAthlete(ctx context.Context, input BindAthleteInput, deps CoachDeps) (BindAthleteResult, error) {
	if input.AthleteCode < user.MinCode || input.AthleteCode > user.MaxCode {
		return BindAthleteResult{}, invalid(user.ErrInvalidCode)
	}
	c, err := requireCoach(ctx, input.CoachID, deps.UserStore)
	if err != nil {
		return BindAthleteResult{}, err
	}
	athlete, err := deps.UserStore.GetByCode(ctx, input.AthleteCode)
	if errors.Is(err, user.ErrNotFound) {
		return BindAthleteResult{}, apperr.NotFound("no athlete with code %d", input.AthleteCode)
	}
	if err != nil {
		return BindAthleteResult{}, err
	}

	l := coach.Link{CoachID: c.ID, AthleteID: athlete.ID, CreatedAt: deps.Now()}
	if err := l.Validate(); err != nil {
		return BindAthleteResult{}, invalid(err)
	}
	created, err := deps.LinkStore.Link(ctx, l)
	if err != nil {
		return BindAthleteResult{}, err
	}
	if created {
		slog.Info("coach_event", "event", "athlete_bound", "coach_id", c.ID, "athlete_id", athlete.ID)
	}
	return BindAthleteResult{Athlete: athlete, Created: created}, nil
}

// --- Create Coach Note ---

// CreateCoachNoteInput carries input for the create coach note orchestrator.
type CreateCoachNoteInput struct {
	CoachID   string
	AthleteID string
	Content   string
}

// ExecuteCreateCoachNote stores a markdown note from a coach about a linked athlete.
// PRE: the coach is linked to the athlete; Content is non-empty
// POST: note persisted
func ExecuteCreateCoachNote(ctx context.Context, input CreateCoachNoteInput, deps CoachDeps) (coach.Note, error) {
	n := coach.Note{
		ID:        deps.GenerateID(),
		CoachID:   input.CoachID,
		AthleteID: input.AthleteID,
		Content:   strings.TrimSpace(input.Content),
		CreatedAt: deps.Now(),
	}
	if err := n.Validate(); err != nil {
		return coach.Note{}, invalid(err)
	}
	if _, err := requireCoach(ctx, input.CoachID, deps.UserStore); err != nil {
		return coach.Note{}, err
	}
	linked, err := deps.LinkStore.IsLinked(ctx, input.CoachID, input.AthleteID)
	if err != nil {
		return coach.Note{}, err
	}
	if !linked {
		return coach.Note{}, invalid(coach.ErrNotLinked)
	}
	if err := deps.NoteStore.CreateNote(ctx, n); err != nil {
		return coach.Note{}, err
	}
	slog.Info("coach_event", "event", "note_created", "note_id", n.ID, "coach_id", n.CoachID, "athlete_id", n.AthleteID)
	return n, nil
}

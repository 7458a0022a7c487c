package orchestrators

import (
	"context"
	"errors"
	"testing"

	"runtrack/internal/domain/apperr"
)

// TestBindAthlete covers idempotent binding and role checks.
func TestBindAthlete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.register(t, "Coach Kim", "coach")
	ana := e.register(t, "Ana", "")
	deps := e.coachDeps()

	first, err := ExecuteBindAthlete(ctx, BindAthleteInput{CoachID: c.ID, AthleteCode: ana.Code}, deps)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if !first.Created || first.Athlete.ID != ana.ID {
		t.Errorf("first bind = %+v", first)
	}
	again, err := ExecuteBindAthlete(ctx, BindAthleteInput{CoachID: c.ID, AthleteCode: ana.Code}, deps)
	if err != nil {
		t.Fatalf("rebind: %v", err)
	}
	if again.Created {
		t.Error("second bind reported a new link")
	}
	athletes, err := e.coach.ListAthletes(ctx, c.ID)
	if err != nil || len(athletes) != 1 {
		t.Errorf("athletes = %v, %v; want exactly one", athletes, err)
	}

	tests := []struct {
		name  string
		input BindAthleteInput
		want  error
	}{
		{"athlete as coach", BindAthleteInput{CoachID: ana.ID, AthleteCode: ana.Code}, apperr.ErrValidation},
		{"unknown coach", BindAthleteInput{CoachID: "ghost", AthleteCode: ana.Code}, apperr.ErrNotFound},
		{"unknown code", BindAthleteInput{CoachID: c.ID, AthleteCode: 9999}, apperr.ErrNotFound},
		{"code out of range", BindAthleteInput{CoachID: c.ID, AthleteCode: 0}, apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExecuteBindAthlete(ctx, tt.input, deps); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestCreateCoachNote requires a link between coach and athlete.
func TestCreateCoachNote(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.register(t, "Coach Kim", "coach")
	ana := e.register(t, "Ana", "")
	bo := e.register(t, "Bo", "")
	deps := e.coachDeps()

	if _, err := ExecuteBindAthlete(ctx, BindAthleteInput{CoachID: c.ID, AthleteCode: ana.Code}, deps); err != nil {
		t.Fatalf("bind: %v", err)
	}

	n, err := ExecuteCreateCoachNote(ctx, CreateCoachNoteInput{CoachID: c.ID, AthleteID: ana.ID, Content: "**Great** tempo work"}, deps)
	if err != nil {
		t.Fatalf("note: %v", err)
	}
	notes, _ := e.coach.ListNotesByAthlete(ctx, ana.ID)
	if len(notes) != 1 || notes[0].ID != n.ID {
		t.Errorf("notes = %+v", notes)
	}

	if _, err := ExecuteCreateCoachNote(ctx, CreateCoachNoteInput{CoachID: c.ID, AthleteID: bo.ID, Content: "hi"}, deps); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("unlinked error = %v, want validation", err)
	}
	if _, err := ExecuteCreateCoachNote(ctx, CreateCoachNoteInput{CoachID: c.ID, AthleteID: ana.ID, Content: "   "}, deps); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("empty note error = %v, want validation", err)
	}
}

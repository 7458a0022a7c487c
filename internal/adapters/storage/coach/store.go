package coach

import (
	"context"

	domain "runtrack/internal/domain/coach"
	domainUser "runtrack/internal/domain/user"
)

// LinkStore persists coach/athlete links.
type LinkStore interface {
	Link(ctx context.Context, l domain.Link) (bool, error)
	IsLinked(ctx context.Context, coachID, athleteID string) (bool, error)
	ListAthletes(ctx context.Context, coachID string) ([]domainUser.User, error)
}

// NoteStore persists coach notes.
type NoteStore interface {
	CreateNote(ctx context.Context, n domain.Note) error
	ListNotesByAthlete(ctx context.Context, athleteID string) ([]domain.Note, error)
}

package coach

import (
	"errors"
	"strings"
	"time"
)

// MaxNoteLength bounds coach note content.
const MaxNoteLength = 4000

// Domain errors
var (
	ErrEmptyCoachID   = errors.New("coach ID is required")
	ErrEmptyAthleteID = errors.New("athlete ID is required")
	ErrSelfLink       = errors.New("a coach cannot be linked to themselves")
	ErrEmptyContent   = errors.New("note content cannot be empty")
	ErrContentTooLong = errors.New("note content cannot exceed 4000 characters")
	ErrNotCoach       = errors.New("user is not a coach")
	ErrNotLinked      = errors.New("athlete is not linked to this coach")
)

// Link binds an athlete to a coach. The pair is unique; binding again is a no-op.
type Link struct {
	CoachID   string
	AthleteID string
	CreatedAt time.Time
}

// Validate checks if the Link has valid data.
// PRE: Link struct is populated
// POST: Returns nil if valid, error otherwise
func (l *Link) Validate() error {
	if l.CoachID == "" {
		return ErrEmptyCoachID
	}
	if l.AthleteID == "" {
		return ErrEmptyAthleteID
	}
	if l.CoachID == l.AthleteID {
		return ErrSelfLink
	}
	return nil
}

// Note is a coach's markdown comment on one of their athletes.
type Note struct {
	ID        string
	CoachID   string
	AthleteID string
	Content   string // markdown
	CreatedAt time.Time
}

// Validate checks if the Note has valid data.
// PRE: Note struct is populated
// POST: Returns nil if valid, error otherwise
func (n *Note) Validate() error {
	if n.CoachID == "" {
		return ErrEmptyCoachID
	}
	if n.AthleteID == "" {
		return ErrEmptyAthleteID
	}
	if strings.TrimSpace(n.Content) == "" {
		return ErrEmptyContent
	}
	if len(n.Content) > MaxNoteLength {
		return ErrContentTooLong
	}
	if n.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}

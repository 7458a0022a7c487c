package calendar

import (
	"errors"
	"time"

	"runtrack/internal/domain/civil"
)

// Max length constants.
const (
	MaxActivityLength    = 200
	MaxDescriptionLength = 2000
	MaxDurationMinutes   = 24 * 60
)

// Domain errors
var (
	ErrEmptyUserID      = errors.New("user ID is required")
	ErrInvalidDuration  = errors.New("duration minutes must be positive")
	ErrDurationTooLong  = errors.New("duration cannot exceed one day")
	ErrNegativeDistance = errors.New("distance cannot be negative")
	ErrActivityTooLong  = errors.New("activity label cannot exceed 200 characters")
	ErrDescTooLong      = errors.New("description cannot exceed 2000 characters")
	ErrNotFound         = errors.New("calendar entry not found")
)

// Entry is one planned activity on a civil date. Recurrence is never stored:
// the planner expands templates into independent entries at write time.
type Entry struct {
	ID              string
	UserID          string
	Date            string // YYYY-MM-DD, civil
	StartTime       string // HH:MM, civil
	DurationMinutes int
	Distance        float64
	Activity        string
	Description     string
	CreatedAt       time.Time
}

// Validate checks if the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if e.UserID == "" {
		return ErrEmptyUserID
	}
	if _, err := civil.ParseDate(e.Date); err != nil {
		return err
	}
	if _, err := civil.ParseTimeOfDay(e.StartTime); err != nil {
		return err
	}
	if e.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	if e.DurationMinutes > MaxDurationMinutes {
		return ErrDurationTooLong
	}
	if e.Distance < 0 {
		return ErrNegativeDistance
	}
	if len(e.Activity) > MaxActivityLength {
		return ErrActivityTooLong
	}
	if len(e.Description) > MaxDescriptionLength {
		return ErrDescTooLong
	}
	return nil
}

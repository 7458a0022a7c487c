// Package session models a single tracked run from start to finish and the
// incremental measurements recorded while it is open.
package session

import (
	"errors"
	"time"
)

// MaxNoteLength limits the free-text note on a session.
const MaxNoteLength = 500

// Domain errors
var (
	ErrEmptyUserID         = errors.New("user ID is required")
	ErrActiveSessionExists = errors.New("an active session already exists for this user")
	ErrNoActiveSession     = errors.New("no active session for this user")
	ErrNotFound            = errors.New("session not found")
	ErrInvalidDistance     = errors.New("distance must be positive")
	ErrNegativeDistance    = errors.New("distance cannot be negative")
	ErrInvalidDuration     = errors.New("duration must be positive")
	ErrNegativeElapsed     = errors.New("elapsed seconds cannot be negative")
	ErrInvalidRate         = errors.New("captured energy rate must be positive")
	ErrNoteTooLong         = errors.New("note cannot exceed 500 characters")
	ErrIntervalOrder       = errors.New("measurement end cannot be before its start")
	ErrEndBeforeStart      = errors.New("session end cannot be before its start")
)

// Session is one run. EndedAt is zero while the session is active.
// INVARIANT: at most one active session per user (enforced by the store)
// INVARIANT: EnergyPerHour is captured at start and never changes
type Session struct {
	ID                   string
	UserID               string
	StartedAt            time.Time
	EndedAt              time.Time
	TotalDistance        float64 // km
	TotalDurationSeconds int
	TotalEnergy          float64
	EnergyPerHour        float64
	Note                 string
}

// Measurement is an append-only increment recorded against an active session.
type Measurement struct {
	ID              string
	SessionID       string
	Distance        float64
	DurationSeconds int
	StartedAt       time.Time // optional
	EndedAt         time.Time // optional
	RecordedAt      time.Time
}

// Validate checks if the Session has valid data.
// PRE: Session struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Session) Validate() error {
	if s.UserID == "" {
		return ErrEmptyUserID
	}
	if s.StartedAt.IsZero() {
		return errors.New("start instant must be set")
	}
	if !s.EndedAt.IsZero() && s.EndedAt.Before(s.StartedAt) {
		return ErrEndBeforeStart
	}
	if s.EnergyPerHour <= 0 {
		return ErrInvalidRate
	}
	if s.TotalDistance < 0 {
		return ErrNegativeDistance
	}
	if s.TotalDurationSeconds < 0 {
		return ErrNegativeElapsed
	}
	if len(s.Note) > MaxNoteLength {
		return ErrNoteTooLong
	}
	return nil
}

// IsActive reports whether the session has not been finished.
func (s *Session) IsActive() bool {
	return s.EndedAt.IsZero()
}

// ElapsedSeconds returns whole seconds between the start and now, never negative.
func (s *Session) ElapsedSeconds(now time.Time) int {
	d := now.Sub(s.StartedAt)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

// Finish closes the session.
// PRE: elapsed and finalDistance, when non-nil, are non-negative
// POST: EndedAt is set (kept if already set), totals are final
func (s *Session) Finish(now time.Time, finalDistance *float64, elapsed *int) {
	if s.EndedAt.IsZero() {
		s.EndedAt = now
	}
	s.TotalDurationSeconds = ResolveDuration(elapsed, s.TotalDurationSeconds, s.StartedAt, s.EndedAt)
	s.TotalEnergy = Energy(s.TotalDurationSeconds, s.EnergyPerHour)
	if finalDistance != nil {
		s.TotalDistance = *finalDistance
	}
}

// Validate checks if the Measurement has valid data.
// PRE: Measurement struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Measurement) Validate() error {
	if m.Distance <= 0 {
		return ErrInvalidDistance
	}
	if m.DurationSeconds <= 0 {
		return ErrInvalidDuration
	}
	if !m.StartedAt.IsZero() && !m.EndedAt.IsZero() && m.EndedAt.Before(m.StartedAt) {
		return ErrIntervalOrder
	}
	return nil
}

// Energy converts a duration to energy at the given hourly rate. Never rounded.
func Energy(durationSeconds int, ratePerHour float64) float64 {
	return float64(durationSeconds) / 3600.0 * ratePerHour
}

// ResolveDuration picks the final duration of a session: an explicit elapsed
// value wins, then the accumulated measurement duration, then wall time.
// POST: result >= 0
func ResolveDuration(elapsed *int, accumulated int, start, end time.Time) int {
	if elapsed != nil {
		return *elapsed
	}
	if accumulated > 0 {
		return accumulated
	}
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

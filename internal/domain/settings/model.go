package settings

import (
	"errors"
	"time"
)

// DefaultEnergyPerHour is the rate given to settings created on first access.
const DefaultEnergyPerHour = 600.0

// Domain errors
var (
	ErrEmptyUserID = errors.New("user ID is required")
	ErrInvalidRate = errors.New("energy per hour must be positive")
)

// Settings holds per-user tunables. There is exactly one row per user.
type Settings struct {
	UserID        string
	EnergyPerHour float64
	UpdatedAt     time.Time
}

// Default returns settings for a user who has never changed them.
// PRE: userID is non-empty
// POST: EnergyPerHour == DefaultEnergyPerHour
func Default(userID string, now time.Time) Settings {
	return Settings{UserID: userID, EnergyPerHour: DefaultEnergyPerHour, UpdatedAt: now}
}

// Validate checks if the Settings has valid data.
// PRE: Settings struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Settings) Validate() error {
	if s.UserID == "" {
		return ErrEmptyUserID
	}
	if s.EnergyPerHour <= 0 {
		return ErrInvalidRate
	}
	return nil
}

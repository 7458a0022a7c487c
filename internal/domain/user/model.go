package user

import (
	"errors"
	"strings"
	"time"
)

// Role constants
const (
	RoleAthlete = "athlete"
	RoleCoach   = "coach"
)

// Athlete code bounds and field limits.
const (
	MinCode       = 1
	MaxCode       = 10000
	MaxNameLength = 100
)

// Domain errors
var (
	ErrEmptyName    = errors.New("display name cannot be empty")
	ErrNameTooLong  = errors.New("display name cannot exceed 100 characters")
	ErrInvalidRole  = errors.New("role must be athlete or coach")
	ErrInvalidCode  = errors.New("athlete code must be between 1 and 10000")
	ErrCoachCode    = errors.New("coaches do not carry an athlete code")
	ErrNameTaken    = errors.New("display name already taken")
	ErrCodeTaken    = errors.New("athlete code already taken")
	ErrNotFound     = errors.New("user not found")
	ErrCodeExhaust  = errors.New("could not allocate a unique athlete code")
	ErrEmptyCreated = errors.New("created_at must be set")
)

// User is an athlete or a coach. Athletes are addressed by coaches through
// their short numeric Code.
type User struct {
	ID        string
	Name      string
	Role      string
	Code      int // 0 when unset
	CreatedAt time.Time
}

// ParseRole normalizes a role string. Empty input means athlete.
// PRE: none
// POST: returns RoleAthlete or RoleCoach, or ErrInvalidRole
func ParseRole(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", RoleAthlete:
		return RoleAthlete, nil
	case RoleCoach:
		return RoleCoach, nil
	}
	return "", ErrInvalidRole
}

// Validate checks if the User has valid data.
// PRE: User struct is populated
// POST: Returns nil if valid, error otherwise
// INVARIANT: only athletes carry a code
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if len(u.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if u.Role != RoleAthlete && u.Role != RoleCoach {
		return ErrInvalidRole
	}
	if u.Role == RoleCoach && u.Code != 0 {
		return ErrCoachCode
	}
	if u.Code != 0 && (u.Code < MinCode || u.Code > MaxCode) {
		return ErrInvalidCode
	}
	if u.CreatedAt.IsZero() {
		return ErrEmptyCreated
	}
	return nil
}

// IsCoach reports whether the user has the coach role.
func (u *User) IsCoach() bool {
	return u.Role == RoleCoach
}

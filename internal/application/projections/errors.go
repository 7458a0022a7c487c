package projections

import (
	"errors"
	"strings"
	"time"

	"runtrack/internal/domain/apperr"
	"runtrack/internal/domain/civil"
	"runtrack/internal/domain/user"
)

func requireUser(err error) error {
	if errors.Is(err, user.ErrNotFound) {
		return apperr.Wrap(apperr.ErrNotFound, err)
	}
	return err
}

func checkUserID(id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.Validation("user ID is required")
	}
	return nil
}

func zone(name string, fallback *time.Location) (*time.Location, error) {
	if fallback == nil {
		fallback = time.UTC
	}
	loc, err := civil.LoadLocation(name, fallback)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrValidation, err)
	}
	return loc, nil
}

func nowOr(now time.Time) time.Time {
	if now.IsZero() {
		return time.Now()
	}
	return now
}

package orchestrators

import (
	"errors"

	"runtrack/internal/domain/apperr"
	"runtrack/internal/domain/calendar"
	"runtrack/internal/domain/plan"
	"runtrack/internal/domain/session"
	"runtrack/internal/domain/user"
)

// classify maps store-level domain errors onto application error kinds.
// Errors that already carry a kind, and unknown errors, pass through.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrConflict),
		errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrUpstream):
		return err
	case errors.Is(err, session.ErrActiveSessionExists),
		errors.Is(err, user.ErrNameTaken),
		errors.Is(err, user.ErrCodeTaken):
		return apperr.Wrap(apperr.ErrConflict, err)
	case errors.Is(err, session.ErrNoActiveSession),
		errors.Is(err, session.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, calendar.ErrNotFound),
		errors.Is(err, plan.ErrPlanNotFound),
		errors.Is(err, plan.ErrPlanEntryNotFound):
		return apperr.Wrap(apperr.ErrNotFound, err)
	}
	return err
}

func invalid(err error) error {
	return apperr.Wrap(apperr.ErrValidation, err)
}

package projections

import (
	"context"
	"time"

	"runtrack/internal/domain/calendar"
	"runtrack/internal/domain/session"
	"runtrack/internal/domain/user"
)

// UserGetter looks a user up by ID.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// FinishedSessionLister lists ended sessions whose start lies in [from, to).
type FinishedSessionLister interface {
	ListFinishedBetween(ctx context.Context, userID string, from, to time.Time) ([]session.Session, error)
}

// CalendarRangeLister lists calendar entries with from <= date < toExclusive.
type CalendarRangeLister interface {
	ListByDateRange(ctx context.Context, userID, from, toExclusive string) ([]calendar.Entry, error)
}

// CalendarDayLister lists calendar entries on one date.
type CalendarDayLister interface {
	ListByDate(ctx context.Context, userID, date string) ([]calendar.Entry, error)
}

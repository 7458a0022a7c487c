package calendar

import (
	"context"

	domain "runtrack/internal/domain/calendar"
)

// Store persists calendar Entries.
type Store interface {
	Create(ctx context.Context, e domain.Entry) error
	Delete(ctx context.Context, userID, id string) error
	ListByDate(ctx context.Context, userID, date string) ([]domain.Entry, error)
	ListByDateRange(ctx context.Context, userID, from, toExclusive string) ([]domain.Entry, error)
	ReplaceDay(ctx context.Context, userID, date string, entries []domain.Entry) (bool, error)
}

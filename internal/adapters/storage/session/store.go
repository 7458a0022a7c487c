package session

import (
	"context"
	"time"

	domain "runtrack/internal/domain/session"
)

// Store persists Sessions and their Measurements.
type Store interface {
	// Create inserts an active session. A second active session for the same
	// user is rejected by the database with ErrActiveSessionExists.
	Create(ctx context.Context, s domain.Session) error
	GetByID(ctx context.Context, id string) (domain.Session, error)
	FindActive(ctx context.Context, userID string) (domain.Session, error)
	AddMeasurement(ctx context.Context, userID string, m domain.Measurement) (domain.Session, error)
	FinishActive(ctx context.Context, userID string, finish func(*domain.Session)) (domain.Session, error)
	CreateCompleted(ctx context.Context, s domain.Session, m domain.Measurement) error
	ListFinishedBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Session, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]domain.Session, error)
	ListMeasurements(ctx context.Context, sessionID string) ([]domain.Measurement, error)
}

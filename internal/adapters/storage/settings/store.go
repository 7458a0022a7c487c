package settings

import (
	"context"

	domain "runtrack/internal/domain/settings"
)

// Store persists per-user Settings.
type Store interface {
	GetOrCreate(ctx context.Context, def domain.Settings) (domain.Settings, error)
	Save(ctx context.Context, s domain.Settings) error
}

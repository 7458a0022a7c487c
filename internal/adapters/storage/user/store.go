package user

import (
	"context"

	domain "runtrack/internal/domain/user"
)

// Store persists User state.
type Store interface {
	Create(ctx context.Context, u domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByName(ctx context.Context, name string) (domain.User, error)
	GetByCode(ctx context.Context, code int) (domain.User, error)
}

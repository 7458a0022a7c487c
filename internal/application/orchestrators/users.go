package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"runtrack/internal/domain/apperr"
	"runtrack/internal/domain/user"
)

// MaxCodeAttempts bounds random athlete code allocation.
const MaxCodeAttempts = 50

// UserStoreForOrchestrator defines the user store interface needed by orchestrators.
type UserStoreForOrchestrator interface {
	Create(ctx context.Context, u user.User) error
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByName(ctx context.Context, name string) (user.User, error)
}

// UserGetter looks a user up by ID.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// RandomAthleteCode draws a code uniformly from the athlete code range.
func RandomAthleteCode() int {
	return user.MinCode + rand.IntN(user.MaxCode-user.MinCode+1)
}

// --- Register User ---

// RegisterUserInput carries input for the register user orchestrator.
type RegisterUserInput struct {
	Name string
	Role string // "" means athlete
}

// RegisterUserDeps holds dependencies for RegisterUser and ResolveUser.
type RegisterUserDeps struct {
	UserStore  UserStoreForOrchestrator
	GenerateID func() string
	Now        func() time.Time
	RandomCode func() int
}

// ExecuteRegisterUser creates a new user.
// PRE: Name is non-empty; Role is athlete, coach or empty
// POST: User persisted; athletes carry a unique code in 1..10000
// INVARIANT: a duplicate display name is a ConflictError
func ExecuteRegisterUser(ctx context.Context, input RegisterUserInput, deps RegisterUserDeps) (user.User, error) {
	u, err := createUser(ctx, input, deps)
	if err != nil {
		return user.User{}, classify(err)
	}
	return u, nil
}

// ExecuteResolveUser returns the user with the given display name, creating it when absent.
// PRE: Name is non-empty
// POST: Returns an existing or newly created user
func ExecuteResolveUser(ctx context.Context, input RegisterUserInput, deps RegisterUserDeps) (user.User, error) {
	name := strings.TrimSpace(input.Name)
	existing, err := deps.UserStore.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return user.User{}, err
	}

	u, err := createUser(ctx, input, deps)
	if errors.Is(err, user.ErrNameTaken) {
		// Lost a race with a concurrent resolve of the same name.
		return deps.UserStore.GetByName(ctx, name)
	}
	if err != nil {
		return user.User{}, classify(err)
	}
	return u, nil
}

func createUser(ctx context.Context, input RegisterUserInput, deps RegisterUserDeps) (user.User, error) {
	role, err := user.ParseRole(input.Role)
	if err != nil {
		return user.User{}, invalid(err)
	}
	randomCode := deps.RandomCode
	if randomCode == nil {
		randomCode = RandomAthleteCode
	}

	for attempt := 0; attempt < MaxCodeAttempts; attempt++ {
		u := user.User{
			ID:        deps.GenerateID(),
			Name:      strings.TrimSpace(input.Name),
			Role:      role,
			CreatedAt: deps.Now(),
		}
		if role == user.RoleAthlete {
			u.Code = randomCode()
		}
		if err := u.Validate(); err != nil {
			return user.User{}, invalid(err)
		}

		err := deps.UserStore.Create(ctx, u)
		if errors.Is(err, user.ErrCodeTaken) {
			continue
		}
		if err != nil {
			return user.User{}, err
		}
		slog.Info("user_event", "event", "user_created", "user_id", u.ID, "role", u.Role)
		return u, nil
	}
	return user.User{}, user.ErrCodeExhaust
}

// --- Get User ---

// ExecuteGetUser loads a user by ID.
// PRE: id is non-empty
// POST: Returns the user or a NotFoundError
func ExecuteGetUser(ctx context.Context, id string, users UserGetter) (user.User, error) {
	if strings.TrimSpace(id) == "" {
		return user.User{}, apperr.Validation("user ID is required")
	}
	u, err := users.GetByID(ctx, id)
	if err != nil {
		return user.User{}, classify(err)
	}
	return u, nil
}

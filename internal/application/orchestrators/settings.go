package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"runtrack/internal/domain/settings"
)

// SettingsStoreForOrchestrator defines the settings store interface needed by orchestrators.
type SettingsStoreForOrchestrator interface {
	GetOrCreate(ctx context.Context, def settings.Settings) (settings.Settings, error)
	Save(ctx context.Context, s settings.Settings) error
}

// SettingsDeps holds dependencies for the settings orchestrators.
type SettingsDeps struct {
	UserStore     UserGetter
	SettingsStore SettingsStoreForOrchestrator
	Now           func() time.Time
	DefaultRate   float64 // 0 means settings.DefaultEnergyPerHour
}

func loadSettings(ctx context.Context, store SettingsStoreForOrchestrator, userID string, rate float64, now time.Time) (settings.Settings, error) {
	def := settings.Default(userID, now)
	if rate > 0 {
		def.EnergyPerHour = rate
	}
	return store.GetOrCreate(ctx, def)
}

// ExecuteGetSettings returns the user's settings, creating defaults on first access.
// PRE: userID identifies an existing user
// POST: a settings row exists for the user
func ExecuteGetSettings(ctx context.Context, userID string, deps SettingsDeps) (settings.Settings, error) {
	if _, err := ExecuteGetUser(ctx, userID, deps.UserStore); err != nil {
		return settings.Settings{}, err
	}
	return loadSettings(ctx, deps.SettingsStore, userID, deps.DefaultRate, deps.Now())
}

// SetEnergyRateInput carries input for the set energy rate orchestrator.
type SetEnergyRateInput struct {
	UserID        string
	EnergyPerHour float64
}

// ExecuteSetEnergyRate updates the energy-per-hour coefficient.
// PRE: EnergyPerHour > 0
// POST: future sessions capture the new rate; finished sessions are untouched
func ExecuteSetEnergyRate(ctx context.Context, input SetEnergyRateInput, deps SettingsDeps) (settings.Settings, error) {
	s := settings.Settings{UserID: input.UserID, EnergyPerHour: input.EnergyPerHour, UpdatedAt: deps.Now()}
	if err := s.Validate(); err != nil {
		return settings.Settings{}, invalid(err)
	}
	if _, err := ExecuteGetUser(ctx, input.UserID, deps.UserStore); err != nil {
		return settings.Settings{}, err
	}
	if err := deps.SettingsStore.Save(ctx, s); err != nil {
		return settings.Settings{}, err
	}
	slog.Info("settings_event", "event", "energy_rate_updated", "user_id", s.UserID, "energy_per_hour", s.EnergyPerHour)
	return s, nil
}

package settings

import (
	"context"
	"fmt"

	"runtrack/internal/adapters/storage"
	domain "runtrack/internal/domain/settings"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
// PRE: db is a valid, open database connection with migrations applied
// POST: store is ready for use
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetOrCreate returns the user's settings, inserting def on first access.
// PRE: def.UserID references an existing user; def is valid
// POST: exactly one settings row exists for def.UserID
func (s *SQLiteStore) GetOrCreate(ctx context.Context, def domain.Settings) (domain.Settings, error) {
	if _, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO settings (user_id, energy_per_hour, updated_at) VALUES (?, ?, ?)",
		def.UserID, def.EnergyPerHour, storage.FormatInstant(def.UpdatedAt),
	); err != nil {
		return domain.Settings{}, fmt.Errorf("insert default settings: %w", err)
	}

	var out domain.Settings
	var updated string
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id, energy_per_hour, updated_at FROM settings WHERE user_id = ?", def.UserID,
	).Scan(&out.UserID, &out.EnergyPerHour, &updated)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if out.UpdatedAt, err = storage.ParseInstant(updated); err != nil {
		return domain.Settings{}, err
	}
	return out, nil
}

// Save inserts or updates settings.
// PRE: s has been validated
// POST: settings row reflects s
func (s *SQLiteStore) Save(ctx context.Context, st domain.Settings) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (user_id, energy_per_hour, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET energy_per_hour = excluded.energy_per_hour, updated_at = excluded.updated_at`,
		st.UserID, st.EnergyPerHour, storage.FormatInstant(st.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

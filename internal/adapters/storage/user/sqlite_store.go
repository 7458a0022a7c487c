package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"runtrack/internal/adapters/storage"
	domain "runtrack/internal/domain/user"
)

const selectColumns = "SELECT id, name, role, code, created_at FROM users"

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

// Create inserts a new user.
// PRE: u has been validated
// POST: user is persisted, or ErrNameTaken / ErrCodeTaken on a unique clash
func (s *SQLiteStore) Create(ctx context.Context, u domain.User) error {
	var code any
	if u.Code != 0 {
		code = u.Code
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, role, code, created_at) VALUES (?, ?, ?, ?, ?)",
		u.ID, u.Name, u.Role, code, storage.FormatInstant(u.CreatedAt),
	)
	if storage.IsUniqueViolation(err) {
		if strings.Contains(err.Error(), "users.code") {
			return domain.ErrCodeTaken
		}
		return domain.ErrNameTaken
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
// PRE: id is non-empty
// POST: Returns the user or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	return s.getOne(ctx, selectColumns+" WHERE id = ?", id)
}

// GetByName retrieves a user by unique display name.
// PRE: name is non-empty
// POST: Returns the user or ErrNotFound
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (domain.User, error) {
	return s.getOne(ctx, selectColumns+" WHERE name = ?", name)
}

// GetByCode retrieves an athlete by short numeric code.
// PRE: code in [MinCode, MaxCode]
// POST: Returns the user or ErrNotFound
func (s *SQLiteStore) GetByCode(ctx context.Context, code int) (domain.User, error) {
	return s.getOne(ctx, selectColumns+" WHERE code = ?", code)
}

func (s *SQLiteStore) getOne(ctx context.Context, query string, arg any) (domain.User, error) {
	u, err := ScanUser(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	return u, err
}

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanUser reads a user row selected as (id, name, role, code, created_at).
// Stores that join against users reuse it.
func ScanUser(row Scanner) (domain.User, error) {
	var u domain.User
	var code sql.NullInt64
	var created string
	if err := row.Scan(&u.ID, &u.Name, &u.Role, &code, &created); err != nil {
		return domain.User{}, err
	}
	if code.Valid {
		u.Code = int(code.Int64)
	}
	t, err := storage.ParseInstant(created)
	if err != nil {
		return domain.User{}, err
	}
	u.CreatedAt = t
	return u, nil
}

package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// InstantLayout is the stored form of every instant. Fixed width and always
// UTC, so string comparison in SQL matches chronological order.
const InstantLayout = "2006-01-02T15:04:05.000000Z"

// dsnPragmas are applied to every connection. _txlock=immediate takes the
// write lock at BEGIN so read-then-write transactions cannot deadlock.
const dsnPragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)&_txlock=immediate"

// Open opens the SQLite database at path and verifies the connection.
// PRE: path is a writable file path
// POST: returns a pooled connection with WAL, foreign keys and busy timeout enabled
func Open(path string) (*sql.DB, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite", path+sep+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}

// MigrateDB applies all pending schema migrations.
// PRE: db is a valid database connection
// POST: schema is at the latest version; db stays open
func MigrateDB(db *sql.DB) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	drv, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to init migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return fmt.Errorf("failed to init migrator: %w", err)
	}
	// m.Close would close db as well; only the source is released here.
	defer src.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// FormatInstant renders t for storage.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(InstantLayout)
}

// NullInstant renders t for storage, NULL when zero.
func NullInstant(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return FormatInstant(t)
}

// ParseInstant reads a stored instant.
// PRE: value was written by FormatInstant
// POST: returns a UTC time
func ParseInstant(value string) (time.Time, error) {
	t, err := time.Parse(InstantLayout, value)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, value)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse instant %q: %w", value, err)
		}
	}
	return t.UTC(), nil
}

// ParseNullInstant reads an optional stored instant; NULL becomes the zero time.
func ParseNullInstant(value sql.NullString) (time.Time, error) {
	if !value.Valid {
		return time.Time{}, nil
	}
	return ParseInstant(value.String)
}

// IsUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY constraint failure.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Package storagetest opens isolated, migrated databases for tests.
package storagetest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"runtrack/internal/adapters/storage"
)

// Open returns a migrated database in a fresh file under t.TempDir. A file is
// used rather than :memory: so every pooled connection sees the same data.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "runtrack.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

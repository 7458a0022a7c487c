package calendar

import (
	"context"
	"database/sql"
	"fmt"

	"runtrack/internal/adapters/storage"
	domain "runtrack/internal/domain/calendar"
)

const entryColumns = "id, user_id, entry_date, start_time, duration_minutes, distance, activity, description, created_at"

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

// Create inserts one calendar entry.
// PRE: e has been validated
// POST: entry is persisted
func (s *SQLiteStore) Create(ctx context.Context, e domain.Entry) error {
	return insertEntry(ctx, s.db, e)
}

// Delete removes an entry owned by userID.
// PRE: id and userID are non-empty
// POST: entry removed, or ErrNotFound when no such entry belongs to the user
func (s *SQLiteStore) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM calendar_entry WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete calendar entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByDate returns the user's entries on one date ordered by start time.
// PRE: date is YYYY-MM-DD
// POST: returns an empty slice when there are none
func (s *SQLiteStore) ListByDate(ctx context.Context, userID, date string) ([]domain.Entry, error) {
	return s.list(ctx,
		"SELECT "+entryColumns+" FROM calendar_entry WHERE user_id = ? AND entry_date = ? ORDER BY start_time ASC, created_at ASC",
		userID, date,
	)
}

// ListByDateRange returns the user's entries with from <= date < toExclusive.
// PRE: dates are YYYY-MM-DD
// POST: ordered by date then start time
func (s *SQLiteStore) ListByDateRange(ctx context.Context, userID, from, toExclusive string) ([]domain.Entry, error) {
	return s.list(ctx,
		"SELECT "+entryColumns+" FROM calendar_entry WHERE user_id = ? AND entry_date >= ? AND entry_date < ? ORDER BY entry_date ASC, start_time ASC, created_at ASC",
		userID, from, toExclusive,
	)
}

// ReplaceDay deletes every entry of the user on date and inserts entries, in
// one transaction. It reports whether anything was deleted.
// PRE: every entry is validated and carries the same userID and date
// POST: readers observe either the old or the new set for the date, never a mix
func (s *SQLiteStore) ReplaceDay(ctx context.Context, userID, date string, entries []domain.Entry) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM calendar_entry WHERE user_id = ? AND entry_date = ?", userID, date)
	if err != nil {
		return false, fmt.Errorf("clear %s: %w", date, err)
	}
	cleared, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.UserID != userID || e.Date != date {
			return false, fmt.Errorf("entry %s does not belong to %s on %s", e.ID, userID, date)
		}
		if err := insertEntry(ctx, tx, e); err != nil {
			return false, err
		}
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return cleared > 0, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertEntry(ctx context.Context, db execer, e domain.Entry) error {
	_, err := db.ExecContext(ctx,
		"INSERT INTO calendar_entry ("+entryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.UserID, e.Date, e.StartTime, e.DurationMinutes, e.Distance, e.Activity, e.Description,
		storage.FormatInstant(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert calendar entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Entry{}
	for rows.Next() {
		var e domain.Entry
		var created string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.StartTime, &e.DurationMinutes, &e.Distance,
			&e.Activity, &e.Description, &created); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = storage.ParseInstant(created); err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

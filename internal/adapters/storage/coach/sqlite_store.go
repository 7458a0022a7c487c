package coach

import (
	"context"
	"fmt"

	"runtrack/internal/adapters/storage"
	userStore "runtrack/internal/adapters/storage/user"
	domain "runtrack/internal/domain/coach"
	domainUser "runtrack/internal/domain/user"
)

// SQLiteStore implements LinkStore and NoteStore using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
// PRE: db is a valid, open database connection with migrations applied
// POST: store is ready for use
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Link records the pair. It reports false, without error, when the pair already exists.
// PRE: l has been validated
// POST: exactly one row exists for (CoachID, AthleteID)
func (s *SQLiteStore) Link(ctx context.Context, l domain.Link) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO coach_link (coach_id, athlete_id, created_at) VALUES (?, ?, ?)",
		l.CoachID, l.AthleteID, storage.FormatInstant(l.CreatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("insert coach link: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsLinked reports whether the athlete is bound to the coach.
func (s *SQLiteStore) IsLinked(ctx context.Context, coachID, athleteID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM coach_link WHERE coach_id = ? AND athlete_id = ?", coachID, athleteID,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListAthletes returns the coach's athletes ordered by display name.
// PRE: coachID is non-empty
// POST: returns an empty slice when there are none
func (s *SQLiteStore) ListAthletes(ctx context.Context, coachID string) ([]domainUser.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.name, u.role, u.code, u.created_at
		 FROM coach_link l JOIN users u ON u.id = l.athlete_id
		 WHERE l.coach_id = ?
		 ORDER BY u.name ASC`,
		coachID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domainUser.User{}
	for rows.Next() {
		u, err := userStore.ScanUser(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

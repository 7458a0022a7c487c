package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"runtrack/internal/adapters/storage"
	domain "runtrack/internal/domain/session"
)

const sessionColumns = "id, user_id, started_at, ended_at, total_distance, total_duration_seconds, total_energy, energy_per_hour, note"

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

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Create inserts an active session.
// PRE: s has been validated and s.EndedAt is zero
// POST: session persisted, or ErrActiveSessionExists if the user already has one open
// INVARIANT: the partial unique index idx_session_one_active decides races
func (s *SQLiteStore) Create(ctx context.Context, sess domain.Session) error {
	err := insertSession(ctx, s.db, sess)
	if storage.IsUniqueViolation(err) {
		return domain.ErrActiveSessionExists
	}
	return err
}

// GetByID retrieves a session by ID.
// PRE: id is non-empty
// POST: Returns the session or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Session, error) {
	sess, err := scanSession(s.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM session WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, domain.ErrNotFound
	}
	return sess, err
}

// FindActive returns the user's open session.
// PRE: userID is non-empty
// POST: Returns the session or ErrNoActiveSession
func (s *SQLiteStore) FindActive(ctx context.Context, userID string) (domain.Session, error) {
	return findActive(ctx, s.db, userID)
}

// AddMeasurement appends m to the user's open session and recomputes the
// session totals from the sum of all its measurements, in one transaction.
// PRE: m has been validated; m.SessionID is ignored
// POST: returns the updated session, or ErrNoActiveSession
func (s *SQLiteStore) AddMeasurement(ctx context.Context, userID string, m domain.Measurement) (domain.Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Session{}, err
	}
	defer tx.Rollback()

	sess, err := findActive(ctx, tx, userID)
	if err != nil {
		return domain.Session{}, err
	}
	m.SessionID = sess.ID
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO measurement (id, session_id, distance, duration_seconds, started_at, ended_at, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		m.ID, m.SessionID, m.Distance, m.DurationSeconds,
		storage.NullInstant(m.StartedAt), storage.NullInstant(m.EndedAt), storage.FormatInstant(m.RecordedAt),
	); err != nil {
		return domain.Session{}, fmt.Errorf("insert measurement: %w", err)
	}

	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(distance), 0), COALESCE(SUM(duration_seconds), 0) FROM measurement WHERE session_id = ?",
		sess.ID,
	).Scan(&sess.TotalDistance, &sess.TotalDurationSeconds); err != nil {
		return domain.Session{}, fmt.Errorf("sum measurements: %w", err)
	}
	sess.TotalEnergy = domain.Energy(sess.TotalDurationSeconds, sess.EnergyPerHour)

	if err := updateTotals(ctx, tx, sess); err != nil {
		return domain.Session{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

// FinishActive loads the user's open session, applies finish, and persists
// the result in one transaction.
// PRE: finish sets EndedAt
// POST: the session is closed and returned, or ErrNoActiveSession
func (s *SQLiteStore) FinishActive(ctx context.Context, userID string, finish func(*domain.Session)) (domain.Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Session{}, err
	}
	defer tx.Rollback()

	sess, err := findActive(ctx, tx, userID)
	if err != nil {
		return domain.Session{}, err
	}
	finish(&sess)
	if sess.EndedAt.IsZero() {
		return domain.Session{}, errors.New("finish left the session open")
	}
	if err := updateTotals(ctx, tx, sess); err != nil {
		return domain.Session{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

// CreateCompleted inserts an already-finished session with its single measurement.
// PRE: s is validated and has EndedAt set; m is validated
// POST: both rows persisted atomically
func (s *SQLiteStore) CreateCompleted(ctx context.Context, sess domain.Session, m domain.Measurement) error {
	if sess.EndedAt.IsZero() {
		return errors.New("completed session must have an end instant")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertSession(ctx, tx, sess); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO measurement (id, session_id, distance, duration_seconds, started_at, ended_at, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		m.ID, sess.ID, m.Distance, m.DurationSeconds,
		storage.NullInstant(m.StartedAt), storage.NullInstant(m.EndedAt), storage.FormatInstant(m.RecordedAt),
	); err != nil {
		return fmt.Errorf("insert measurement: %w", err)
	}
	return tx.Commit()
}

// ListFinishedBetween returns finished sessions whose start lies in [from, to), oldest first.
// PRE: from <= to
// POST: every returned session has EndedAt set
func (s *SQLiteStore) ListFinishedBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Session, error) {
	return s.list(ctx,
		"SELECT "+sessionColumns+" FROM session WHERE user_id = ? AND ended_at IS NOT NULL AND started_at >= ? AND started_at < ? ORDER BY started_at ASC",
		userID, storage.FormatInstant(from), storage.FormatInstant(to),
	)
}

// ListRecent returns the user's sessions, newest first.
// PRE: limit > 0
// POST: at most limit sessions
func (s *SQLiteStore) ListRecent(ctx context.Context, userID string, limit int) ([]domain.Session, error) {
	return s.list(ctx,
		"SELECT "+sessionColumns+" FROM session WHERE user_id = ? ORDER BY started_at DESC LIMIT ?",
		userID, limit,
	)
}

// ListMeasurements returns a session's measurements in recording order.
// PRE: sessionID is non-empty
// POST: returns an empty slice when there are none
func (s *SQLiteStore) ListMeasurements(ctx context.Context, sessionID string) ([]domain.Measurement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, session_id, distance, duration_seconds, started_at, ended_at, recorded_at FROM measurement WHERE session_id = ? ORDER BY recorded_at ASC, rowid ASC",
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Measurement{}
	for rows.Next() {
		var m domain.Measurement
		var started, ended sql.NullString
		var recorded string
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Distance, &m.DurationSeconds, &started, &ended, &recorded); err != nil {
			return nil, err
		}
		if m.StartedAt, err = storage.ParseNullInstant(started); err != nil {
			return nil, err
		}
		if m.EndedAt, err = storage.ParseNullInstant(ended); err != nil {
			return nil, err
		}
		if m.RecordedAt, err = storage.ParseInstant(recorded); err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, sess)
	}
	return results, rows.Err()
}

func insertSession(ctx context.Context, db execer, sess domain.Session) error {
	_, err := db.ExecContext(ctx,
		"INSERT INTO session ("+sessionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		sess.ID, sess.UserID, storage.FormatInstant(sess.StartedAt), storage.NullInstant(sess.EndedAt),
		sess.TotalDistance, sess.TotalDurationSeconds, sess.TotalEnergy, sess.EnergyPerHour, sess.Note,
	)
	if err != nil && !storage.IsUniqueViolation(err) {
		return fmt.Errorf("insert session: %w", err)
	}
	return err
}

func findActive(ctx context.Context, db rowQuerier, userID string) (domain.Session, error) {
	sess, err := scanSession(db.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM session WHERE user_id = ? AND ended_at IS NULL", userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, domain.ErrNoActiveSession
	}
	return sess, err
}

func updateTotals(ctx context.Context, db execer, sess domain.Session) error {
	_, err := db.ExecContext(ctx,
		"UPDATE session SET ended_at = ?, total_distance = ?, total_duration_seconds = ?, total_energy = ? WHERE id = ?",
		storage.NullInstant(sess.EndedAt), sess.TotalDistance, sess.TotalDurationSeconds, sess.TotalEnergy, sess.ID,
	)
	if err != nil {
		return fmt.Errorf("update session totals: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (domain.Session, error) {
	var sess domain.Session
	var started string
	var ended sql.NullString
	if err := row.Scan(&sess.ID, &sess.UserID, &started, &ended,
		&sess.TotalDistance, &sess.TotalDurationSeconds, &sess.TotalEnergy, &sess.EnergyPerHour, &sess.Note,
	); err != nil {
		return domain.Session{}, err
	}
	var err error
	if sess.StartedAt, err = storage.ParseInstant(started); err != nil {
		return domain.Session{}, err
	}
	if sess.EndedAt, err = storage.ParseNullInstant(ended); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

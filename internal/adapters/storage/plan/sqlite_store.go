package plan

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"runtrack/internal/adapters/storage"
	domain "runtrack/internal/domain/plan"
)

const (
	planColumns  = "id, user_id, name, goal_type, target_event_date, meta, generated, created_at"
	entryColumns = "id, plan_id, day_index, entry_date, focus, target_distance, target_duration_seconds, " +
		"intensity, warmup, workout, cooldown, nutrition, notes, linked_session_id"
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

// Create inserts a plan and its entries.
// PRE: p has been validated; every entry has an ID
// POST: readers see the plan with all of its entries or not at all
func (s *SQLiteStore) Create(ctx context.Context, p domain.TrainingPlan) error {
	var meta any
	if p.Meta != nil {
		raw, err := json.Marshal(p.Meta)
		if err != nil {
			return fmt.Errorf("encode plan meta: %w", err)
		}
		meta = string(raw)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO training_plan ("+planColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.UserID, p.Name, p.GoalType, nullString(p.TargetEventDate), meta, p.Generated,
		storage.FormatInstant(p.CreatedAt),
	); err != nil {
		return fmt.Errorf("insert training plan: %w", err)
	}
	for _, e := range p.Entries {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO plan_entry ("+entryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			e.ID, p.ID, e.DayIndex, nullString(e.Date), e.Focus, e.TargetDistance, e.TargetDurationSeconds,
			e.Intensity, e.Warmup, e.Workout, e.Cooldown, e.Nutrition, e.Notes, nullString(e.LinkedSessionID),
		); err != nil {
			return fmt.Errorf("insert plan entry %d: %w", e.DayIndex, err)
		}
	}
	return tx.Commit()
}

// GetByID returns a plan with its entries.
// PRE: id is non-empty
// POST: returns ErrPlanNotFound when no such plan exists
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.TrainingPlan, error) {
	p, err := scanPlan(s.db.QueryRowContext(ctx, "SELECT "+planColumns+" FROM training_plan WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TrainingPlan{}, domain.ErrPlanNotFound
	}
	if err != nil {
		return domain.TrainingPlan{}, err
	}
	if p.Entries, err = s.listEntries(ctx, id); err != nil {
		return domain.TrainingPlan{}, err
	}
	return p, nil
}

// ListByUser returns up to limit plan headers, newest first.
// PRE: limit > 0
// POST: Entries is nil on every returned plan
func (s *SQLiteStore) ListByUser(ctx context.Context, userID string, limit int) ([]domain.TrainingPlan, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+planColumns+" FROM training_plan WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?",
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.TrainingPlan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// LinkEntry records that entryID of planID was run as sessionID.
// PRE: the session exists
// POST: returns ErrPlanEntryNotFound when the entry is not part of the plan
func (s *SQLiteStore) LinkEntry(ctx context.Context, planID, entryID, sessionID string) (domain.PlanEntry, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE plan_entry SET linked_session_id = ? WHERE id = ? AND plan_id = ?",
		sessionID, entryID, planID,
	)
	if err != nil {
		return domain.PlanEntry{}, fmt.Errorf("link plan entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.PlanEntry{}, err
	}
	if n == 0 {
		return domain.PlanEntry{}, domain.ErrPlanEntryNotFound
	}
	return scanEntry(s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM plan_entry WHERE id = ?", entryID))
}

// GetWeekRule returns the saved rule for userID.
// POST: returns ErrWeekRuleNotFound when the user never saved one
func (s *SQLiteStore) GetWeekRule(ctx context.Context, userID string) (domain.WeekRule, error) {
	var r domain.WeekRule
	var updated string
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id, weekday, start_time, duration_minutes, distance, updated_at FROM week_rule WHERE user_id = ?",
		userID,
	).Scan(&r.UserID, &r.Weekday, &r.StartTime, &r.DurationMinutes, &r.Distance, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.WeekRule{}, domain.ErrWeekRuleNotFound
	}
	if err != nil {
		return domain.WeekRule{}, err
	}
	if r.UpdatedAt, err = storage.ParseInstant(updated); err != nil {
		return domain.WeekRule{}, err
	}
	return r, nil
}

// SaveWeekRule inserts or replaces the user's rule.
// PRE: r has been validated
func (s *SQLiteStore) SaveWeekRule(ctx context.Context, r domain.WeekRule) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO week_rule (user_id, weekday, start_time, duration_minutes, distance, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET weekday = excluded.weekday, start_time = excluded.start_time,
		 duration_minutes = excluded.duration_minutes, distance = excluded.distance, updated_at = excluded.updated_at`,
		r.UserID, r.Weekday, r.StartTime, r.DurationMinutes, r.Distance, storage.FormatInstant(r.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save week rule: %w", err)
	}
	return nil
}

func (s *SQLiteStore) listEntries(ctx context.Context, planID string) ([]domain.PlanEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM plan_entry WHERE plan_id = ? ORDER BY day_index ASC, id ASC", planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.PlanEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(row scanner) (domain.TrainingPlan, error) {
	var p domain.TrainingPlan
	var target, meta sql.NullString
	var created string
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.GoalType, &target, &meta, &p.Generated, &created); err != nil {
		return domain.TrainingPlan{}, err
	}
	p.TargetEventDate = target.String
	if meta.Valid && meta.String != "" {
		if err := json.Unmarshal([]byte(meta.String), &p.Meta); err != nil {
			return domain.TrainingPlan{}, fmt.Errorf("decode plan meta: %w", err)
		}
	}
	var err error
	if p.CreatedAt, err = storage.ParseInstant(created); err != nil {
		return domain.TrainingPlan{}, err
	}
	return p, nil
}

func scanEntry(row scanner) (domain.PlanEntry, error) {
	var e domain.PlanEntry
	var date, linked sql.NullString
	var distance sql.NullFloat64
	var duration sql.NullInt64
	if err := row.Scan(&e.ID, &e.PlanID, &e.DayIndex, &date, &e.Focus, &distance, &duration,
		&e.Intensity, &e.Warmup, &e.Workout, &e.Cooldown, &e.Nutrition, &e.Notes, &linked); err != nil {
		return domain.PlanEntry{}, err
	}
	e.Date = date.String
	e.LinkedSessionID = linked.String
	if distance.Valid {
		e.TargetDistance = &distance.Float64
	}
	if duration.Valid {
		d := int(duration.Int64)
		e.TargetDurationSeconds = &d
	}
	return e, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

package coach

import (
	"context"
	"fmt"

	"runtrack/internal/adapters/storage"
	domain "runtrack/internal/domain/coach"
)

// CreateNote inserts a coach note.
// PRE: n has been validated
// POST: note is persisted
func (s *SQLiteStore) CreateNote(ctx context.Context, n domain.Note) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO coach_note (id, coach_id, athlete_id, content, created_at) VALUES (?, ?, ?, ?, ?)",
		n.ID, n.CoachID, n.AthleteID, n.Content, storage.FormatInstant(n.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert coach note: %w", err)
	}
	return nil
}

// ListNotesByAthlete returns notes about an athlete, newest first.
// PRE: athleteID is non-empty
// POST: returns an empty slice when there are none
func (s *SQLiteStore) ListNotesByAthlete(ctx context.Context, athleteID string) ([]domain.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, coach_id, athlete_id, content, created_at FROM coach_note WHERE athlete_id = ? ORDER BY created_at DESC, id DESC",
		athleteID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Note{}
	for rows.Next() {
		var n domain.Note
		var created string
		if err := rows.Scan(&n.ID, &n.CoachID, &n.AthleteID, &n.Content, &created); err != nil {
			return nil, err
		}
		if n.CreatedAt, err = storage.ParseInstant(created); err != nil {
			return nil, err
		}
		results = append(results, n)
	}
	return results, rows.Err()
}

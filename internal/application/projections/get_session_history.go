package projections

import (
	"context"

	"runtrack/internal/domain/apperr"
	"runtrack/internal/domain/session"
)

// History limits.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

// SessionHistoryStore reads recent sessions and their measurements.
type SessionHistoryStore interface {
	ListRecent(ctx context.Context, userID string, limit int) ([]session.Session, error)
	ListMeasurements(ctx context.Context, sessionID string) ([]session.Measurement, error)
}

// GetSessionHistoryQuery carries input for the session history projection.
type GetSessionHistoryQuery struct {
	UserID string
	Limit  int // 0 means DefaultHistoryLimit
}

// SessionWithMeasurements pairs a session with its measurements in recorded order.
type SessionWithMeasurements struct {
	Session      session.Session
	Measurements []session.Measurement
}

// GetSessionHistoryResult carries the output of the session history projection.
type GetSessionHistoryResult struct {
	Sessions        []SessionWithMeasurements
	TotalDistance   float64
	SessionCount    int
	AverageDistance float64
}

// GetSessionHistoryDeps holds dependencies for the session history projection.
type GetSessionHistoryDeps struct {
	UserStore    UserGetter
	SessionStore SessionHistoryStore
}

// QueryGetSessionHistory lists the most recent sessions, newest first, with a summary.
// PRE: Limit in 0..MaxHistoryLimit
// POST: summary covers exactly the returned sessions, active ones included
func QueryGetSessionHistory(ctx context.Context, query GetSessionHistoryQuery, deps GetSessionHistoryDeps) (GetSessionHistoryResult, error) {
	if err := checkUserID(query.UserID); err != nil {
		return GetSessionHistoryResult{}, err
	}
	limit := query.Limit
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if limit < 0 || limit > MaxHistoryLimit {
		return GetSessionHistoryResult{}, apperr.Validation("limit must be between 1 and %d", MaxHistoryLimit)
	}
	if _, err := deps.UserStore.GetByID(ctx, query.UserID); err != nil {
		return GetSessionHistoryResult{}, requireUser(err)
	}

	sessions, err := deps.SessionStore.ListRecent(ctx, query.UserID, limit)
	if err != nil {
		return GetSessionHistoryResult{}, err
	}
	result := GetSessionHistoryResult{Sessions: make([]SessionWithMeasurements, 0, len(sessions))}
	for _, s := range sessions {
		ms, err := deps.SessionStore.ListMeasurements(ctx, s.ID)
		if err != nil {
			return GetSessionHistoryResult{}, err
		}
		result.Sessions = append(result.Sessions, SessionWithMeasurements{Session: s, Measurements: ms})
		result.TotalDistance += s.TotalDistance
	}
	result.SessionCount = len(sessions)
	if result.SessionCount > 0 {
		result.AverageDistance = result.TotalDistance / float64(result.SessionCount)
	}
	return result, nil
}

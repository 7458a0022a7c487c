package projections

import (
	"context"
	"sort"
	"time"

	"runtrack/internal/domain/calendar"
	"runtrack/internal/domain/coach"
	"runtrack/internal/domain/plan"
	"runtrack/internal/domain/session"
	"runtrack/internal/domain/settings"
	"runtrack/internal/domain/user"
)

// Friday 2026-10-16, 12:00 UTC (07:00 in Chicago).
var queryNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

type mockUsers map[string]user.User

func (m mockUsers) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := m[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func usersOf(ids ...string) mockUsers {
	m := mockUsers{}
	for _, id := range ids {
		m[id] = user.User{ID: id, Name: id, Role: user.RoleAthlete}
	}
	return m
}

// mockSessions mirrors the SQLite store's filters and ordering.
type mockSessions struct {
	sessions     []session.Session
	measurements map[string][]session.Measurement
}

func (m *mockSessions) ListFinishedBetween(_ context.Context, userID string, from, to time.Time) ([]session.Session, error) {
	var out []session.Session
	for _, s := range m.sessions {
		if s.UserID == userID && !s.EndedAt.IsZero() && !s.StartedAt.Before(from) && s.StartedAt.Before(to) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

func (m *mockSessions) FindActive(_ context.Context, userID string) (session.Session, error) {
	for _, s := range m.sessions {
		if s.UserID == userID && s.EndedAt.IsZero() {
			return s, nil
		}
	}
	return session.Session{}, session.ErrNoActiveSession
}

func (m *mockSessions) ListRecent(_ context.Context, userID string, limit int) ([]session.Session, error) {
	var out []session.Session
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockSessions) ListMeasurements(_ context.Context, sessionID string) ([]session.Measurement, error) {
	return m.measurements[sessionID], nil
}

// run builds a finished session started at the given instant.
func run(id, userID string, start time.Time, km float64, seconds int) session.Session {
	return session.Session{
		ID: id, UserID: userID, StartedAt: start, EndedAt: start.Add(time.Duration(seconds) * time.Second),
		TotalDistance: km, TotalDurationSeconds: seconds, TotalEnergy: float64(seconds) / 3600 * 600, EnergyPerHour: 600,
	}
}

type mockCalendar struct {
	entries []calendar.Entry
}

func (m *mockCalendar) ListByDate(_ context.Context, userID, date string) ([]calendar.Entry, error) {
	var out []calendar.Entry
	for _, e := range m.entries {
		if e.UserID == userID && e.Date == date {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockCalendar) ListByDateRange(_ context.Context, userID, from, toExclusive string) ([]calendar.Entry, error) {
	var out []calendar.Entry
	for _, e := range m.entries {
		if e.UserID == userID && e.Date >= from && e.Date < toExclusive {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockSettings struct {
	rows map[string]settings.Settings
}

func (m *mockSettings) GetOrCreate(_ context.Context, def settings.Settings) (settings.Settings, error) {
	if m.rows == nil {
		m.rows = map[string]settings.Settings{}
	}
	if st, ok := m.rows[def.UserID]; ok {
		return st, nil
	}
	m.rows[def.UserID] = def
	return def, nil
}

type mockCoach struct {
	athletes map[string][]user.User
	notes    []coach.Note
}

func (m *mockCoach) ListAthletes(_ context.Context, coachID string) ([]user.User, error) {
	return m.athletes[coachID], nil
}

func (m *mockCoach) ListNotesByAthlete(_ context.Context, athleteID string) ([]coach.Note, error) {
	var out []coach.Note
	for _, n := range m.notes {
		if n.AthleteID == athleteID {
			out = append(out, n)
		}
	}
	return out, nil
}

// mockPlans mirrors the SQLite store's ordering: newest plans first.
type mockPlans struct {
	plans []plan.TrainingPlan
	rules map[string]plan.WeekRule
}

func (m *mockPlans) GetByID(_ context.Context, id string) (plan.TrainingPlan, error) {
	for _, p := range m.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return plan.TrainingPlan{}, plan.ErrPlanNotFound
}

func (m *mockPlans) ListByUser(_ context.Context, userID string, limit int) ([]plan.TrainingPlan, error) {
	var out []plan.TrainingPlan
	for _, p := range m.plans {
		if p.UserID == userID {
			p.Entries = nil
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockPlans) GetWeekRule(_ context.Context, userID string) (plan.WeekRule, error) {
	r, ok := m.rules[userID]
	if !ok {
		return plan.WeekRule{}, plan.ErrWeekRuleNotFound
	}
	return r, nil
}

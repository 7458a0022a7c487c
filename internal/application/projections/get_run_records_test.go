package projections

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"runtrack/internal/domain/apperr"
	"runtrack/internal/domain/calendar"
	"runtrack/internal/domain/session"
	"runtrack/internal/domain/settings"
)

var chicago, _ = time.LoadLocation("America/Chicago")

func todayDeps(sessions *mockSessions, cal *mockCalendar) GetTodayRecordDeps {
	return GetTodayRecordDeps{
		UserStore:     usersOf("u1"),
		SettingsStore: &mockSettings{},
		SessionStore:  sessions,
		CalendarStore: cal,
		DefaultZone:   chicago,
	}
}

func TestQueryGetTodayRecord(t *testing.T) {
	// queryNow is 07:00 on 2026-10-16 in Chicago, so today began at 05:00 UTC.
	sessions := &mockSessions{sessions: []session.Session{
		run("yesterday-local", "u1", time.Date(2026, 10, 16, 4, 30, 0, 0, time.UTC), 3, 900),
		run("today", "u1", time.Date(2026, 10, 16, 11, 0, 0, 0, time.UTC), 5, 1800),
		{ID: "open", UserID: "u1", StartedAt: queryNow.Add(-5 * time.Minute), EnergyPerHour: 600},
	}}
	cal := &mockCalendar{entries: []calendar.Entry{
		entry("e1", "u1", "2026-10-16", "07:00", 20),
		entry("e2", "u1", "2026-10-16", "18:00", 25),
	}}

	got, err := QueryGetTodayRecord(context.Background(), GetTodayRecordQuery{UserID: "u1", Now: queryNow}, todayDeps(sessions, cal))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Date != "2026-10-16" || got.TimeZone != "America/Chicago" {
		t.Errorf("date/zone = %s %s", got.Date, got.TimeZone)
	}
	if got.Totals.Sessions != 1 || got.Sessions[0].ID != "today" {
		t.Errorf("sessions = %+v, want only today", got.Sessions)
	}
	if got.GoalSeconds != 45*60 {
		t.Errorf("GoalSeconds = %d, want 2700", got.GoalSeconds)
	}
	if got.Active == nil || got.Active.ID != "open" {
		t.Errorf("Active = %+v, want open", got.Active)
	}
	if got.EnergyPerHour != settings.DefaultEnergyPerHour {
		t.Errorf("EnergyPerHour = %v, want default", got.EnergyPerHour)
	}
}

func TestQueryGetTodayRecord_DefaultGoal(t *testing.T) {
	deps := todayDeps(&mockSessions{}, &mockCalendar{})
	deps.DefaultRate = 720

	got, err := QueryGetTodayRecord(context.Background(), GetTodayRecordQuery{UserID: "u1", TimeZone: "UTC", Now: queryNow}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.GoalSeconds != DefaultGoalSeconds || got.Active != nil {
		t.Errorf("got goal %d active %v, want %d and nil", got.GoalSeconds, got.Active, DefaultGoalSeconds)
	}
	if got.EnergyPerHour != 720 {
		t.Errorf("EnergyPerHour = %v, want configured 720", got.EnergyPerHour)
	}
}

func TestQueryGetRecordList(t *testing.T) {
	store := &mockSessions{sessions: []session.Session{
		run("before", "u1", time.Date(2026, 10, 10, 4, 0, 0, 0, time.UTC), 1, 300), // 10-09 in Chicago
		run("first", "u1", time.Date(2026, 10, 10, 12, 0, 0, 0, time.UTC), 2, 600),
		run("last", "u1", time.Date(2026, 10, 13, 4, 0, 0, 0, time.UTC), 3, 900), // 10-12 23:00 in Chicago
		run("after", "u1", time.Date(2026, 10, 13, 6, 0, 0, 0, time.UTC), 4, 1200),
	}}
	deps := GetRecordListDeps{UserStore: usersOf("u1"), SessionStore: store, DefaultZone: chicago}

	got, err := QueryGetRecordList(context.Background(),
		GetRecordListQuery{UserID: "u1", StartDate: "2026-10-10", EndDate: "2026-10-12"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Sessions) != 2 || got.Sessions[0].ID != "first" || got.Sessions[1].ID != "last" {
		t.Errorf("sessions = %+v, want first and last", got.Sessions)
	}
	if math.Abs(got.Totals.Distance-5) > 1e-9 || got.Totals.DurationSeconds != 1500 {
		t.Errorf("totals = %+v", got.Totals)
	}

	// A single-day range is inclusive.
	one, err := QueryGetRecordList(context.Background(),
		GetRecordListQuery{UserID: "u1", StartDate: "2026-10-12", EndDate: "2026-10-12"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(one.Sessions) != 1 {
		t.Errorf("single day has %d sessions, want 1", len(one.Sessions))
	}
}

func TestQueryGetRecordList_Errors(t *testing.T) {
	deps := GetRecordListDeps{UserStore: usersOf("u1"), SessionStore: &mockSessions{}}
	tests := []struct {
		name  string
		query GetRecordListQuery
		want  error
	}{
		{name: "bad start", query: GetRecordListQuery{UserID: "u1", StartDate: "x", EndDate: "2026-10-01"}, want: apperr.ErrValidation},
		{name: "reversed", query: GetRecordListQuery{UserID: "u1", StartDate: "2026-10-02", EndDate: "2026-10-01"}, want: apperr.ErrValidation},
		{name: "too long", query: GetRecordListQuery{UserID: "u1", StartDate: "2025-01-01", EndDate: "2026-10-01"}, want: apperr.ErrValidation},
		{name: "unknown user", query: GetRecordListQuery{UserID: "ghost", StartDate: "2026-10-01", EndDate: "2026-10-01"}, want: apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := QueryGetRecordList(context.Background(), tt.query, deps)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestQueryGetRecordCalendar(t *testing.T) {
	store := &mockSessions{sessions: []session.Session{
		run("a", "u1", time.Date(2026, 10, 1, 3, 0, 0, 0, time.UTC), 1, 300), // 09-30 in Chicago
		run("b", "u1", time.Date(2026, 10, 5, 12, 0, 0, 0, time.UTC), 2, 600),
		run("c", "u1", time.Date(2026, 10, 5, 23, 0, 0, 0, time.UTC), 3, 900),
		run("d", "u1", time.Date(2026, 11, 1, 4, 0, 0, 0, time.UTC), 4, 1200), // 10-31 in Chicago
	}}
	deps := GetRecordListDeps{UserStore: usersOf("u1"), SessionStore: store, DefaultZone: chicago}

	got, err := QueryGetRecordCalendar(context.Background(), GetRecordCalendarQuery{UserID: "u1", Year: 2026, Month: 10}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Days) != 2 {
		t.Fatalf("Days = %+v, want 2 dates", got.Days)
	}
	if got.Days[0].Date != "2026-10-05" || got.Days[0].Sessions != 2 || math.Abs(got.Days[0].Distance-5) > 1e-9 {
		t.Errorf("Days[0] = %+v", got.Days[0])
	}
	if got.Days[1].Date != "2026-10-31" {
		t.Errorf("Days[1] = %+v, want 2026-10-31", got.Days[1])
	}

	empty, err := QueryGetRecordCalendar(context.Background(), GetRecordCalendarQuery{UserID: "u1", Year: 2026, Month: 2}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty.Days == nil || len(empty.Days) != 0 {
		t.Errorf("Days = %+v, want empty non-nil", empty.Days)
	}
}

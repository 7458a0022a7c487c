package projections

import (
	"context"
	"errors"
	"testing"
	"time"

	"runtrack/internal/domain/apperr"
	"runtrack/internal/domain/calendar"
)

func entry(id, userID, date, start string, minutes int) calendar.Entry {
	return calendar.Entry{ID: id, UserID: userID, Date: date, StartTime: start, DurationMinutes: minutes, Distance: 5, Activity: "Run"}
}

func TestQueryGetMonthCalendar(t *testing.T) {
	cal := &mockCalendar{entries: []calendar.Entry{
		entry("e1", "u1", "2026-10-01", "07:00", 30),
		entry("e2", "u1", "2026-10-16", "07:00", 20),
		entry("e3", "u1", "2026-10-16", "18:00", 40),
		entry("e4", "u1", "2026-11-01", "07:00", 30),
		entry("e5", "u2", "2026-10-16", "07:00", 30),
	}}
	deps := GetMonthCalendarDeps{UserStore: usersOf("u1"), CalendarStore: cal, DefaultZone: time.UTC}

	got, err := QueryGetMonthCalendar(context.Background(),
		GetMonthCalendarQuery{UserID: "u1", Year: 2026, Month: 10, Now: queryNow}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Days) != 31 {
		t.Fatalf("len(Days) = %d, want 31", len(got.Days))
	}
	// October 1st 2026 is a Thursday.
	if got.Days[0].Date != "2026-10-01" || got.Days[0].Weekday != 3 {
		t.Errorf("Days[0] = %+v, want Thursday 2026-10-01", got.Days[0])
	}
	if len(got.Days[0].Entries) != 1 {
		t.Errorf("Days[0] has %d entries, want 1", len(got.Days[0].Entries))
	}
	today := got.Days[15]
	if !today.IsToday || len(today.Entries) != 2 {
		t.Errorf("Days[15] = %+v, want today with 2 entries", today)
	}
	for _, d := range got.Days {
		if d.Entries == nil {
			t.Errorf("%s has nil entries", d.Date)
		}
		if d.IsToday && d.Date != "2026-10-16" {
			t.Errorf("%s unexpectedly marked today", d.Date)
		}
	}
}

func TestQueryGetMonthCalendar_TodayFollowsZone(t *testing.T) {
	// 03:00 UTC on the 1st is still September 30th in Chicago.
	now := time.Date(2026, 10, 1, 3, 0, 0, 0, time.UTC)
	deps := GetMonthCalendarDeps{UserStore: usersOf("u1"), CalendarStore: &mockCalendar{}}

	got, err := QueryGetMonthCalendar(context.Background(),
		GetMonthCalendarQuery{UserID: "u1", Year: 2026, Month: 10, TimeZone: "America/Chicago", Now: now}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, d := range got.Days {
		if d.IsToday {
			t.Errorf("%s marked today, want none in October", d.Date)
		}
	}
}

func TestQueryGetMonthCalendar_Errors(t *testing.T) {
	deps := GetMonthCalendarDeps{UserStore: usersOf("u1"), CalendarStore: &mockCalendar{}}
	tests := []struct {
		name  string
		query GetMonthCalendarQuery
		want  error
	}{
		{name: "month 13", query: GetMonthCalendarQuery{UserID: "u1", Year: 2026, Month: 13}, want: apperr.ErrValidation},
		{name: "month 0", query: GetMonthCalendarQuery{UserID: "u1", Year: 2026}, want: apperr.ErrValidation},
		{name: "bad zone", query: GetMonthCalendarQuery{UserID: "u1", Year: 2026, Month: 1, TimeZone: "Nowhere"}, want: apperr.ErrValidation},
		{name: "unknown user", query: GetMonthCalendarQuery{UserID: "ghost", Year: 2026, Month: 1}, want: apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := QueryGetMonthCalendar(context.Background(), tt.query, deps)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestQueryGetDayEntries(t *testing.T) {
	cal := &mockCalendar{entries: []calendar.Entry{
		entry("e1", "u1", "2026-10-16", "07:00", 20),
		entry("e2", "u1", "2026-10-17", "07:00", 20),
	}}
	deps := GetDayEntriesDeps{UserStore: usersOf("u1"), CalendarStore: cal}

	got, err := QueryGetDayEntries(context.Background(), "u1", "2026-10-16", deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "e1" {
		t.Errorf("got %+v, want only e1", got)
	}

	if _, err := QueryGetDayEntries(context.Background(), "u1", "16/10/2026", deps); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("bad date err = %v, want validation", err)
	}
	if _, err := QueryGetDayEntries(context.Background(), "ghost", "2026-10-16", deps); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown user err = %v, want not found", err)
	}
}

package projections

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"runtrack/internal/domain/apperr"
	"runtrack/internal/domain/session"
)

func TestQueryGetSessionHistory(t *testing.T) {
	store := &mockSessions{
		sessions: []session.Session{
			run("s1", "u1", queryNow.Add(-72*time.Hour), 4, 1200),
			run("s2", "u1", queryNow.Add(-48*time.Hour), 6, 1800),
			{ID: "s3", UserID: "u1", StartedAt: queryNow.Add(-time.Hour), EnergyPerHour: 600, TotalDistance: 2, TotalDurationSeconds: 600},
		},
		measurements: map[string][]session.Measurement{
			"s3": {{ID: "m1", SessionID: "s3", Distance: 2, DurationSeconds: 600}},
		},
	}
	deps := GetSessionHistoryDeps{UserStore: usersOf("u1"), SessionStore: store}

	got, err := QueryGetSessionHistory(context.Background(), GetSessionHistoryQuery{UserID: "u1"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SessionCount != 3 || got.Sessions[0].Session.ID != "s3" {
		t.Fatalf("got %d sessions starting with %q, want 3 newest first", got.SessionCount, got.Sessions[0].Session.ID)
	}
	if len(got.Sessions[0].Measurements) != 1 {
		t.Errorf("s3 has %d measurements, want 1", len(got.Sessions[0].Measurements))
	}
	if math.Abs(got.TotalDistance-12) > 1e-9 || math.Abs(got.AverageDistance-4) > 1e-9 {
		t.Errorf("summary = %v / %v, want 12 / 4", got.TotalDistance, got.AverageDistance)
	}

	limited, err := QueryGetSessionHistory(context.Background(), GetSessionHistoryQuery{UserID: "u1", Limit: 2}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limited.SessionCount != 2 || math.Abs(limited.TotalDistance-8) > 1e-9 {
		t.Errorf("limited = %d sessions / %v km, want 2 / 8", limited.SessionCount, limited.TotalDistance)
	}
}

func TestQueryGetSessionHistory_Empty(t *testing.T) {
	got, err := QueryGetSessionHistory(context.Background(), GetSessionHistoryQuery{UserID: "u1"},
		GetSessionHistoryDeps{UserStore: usersOf("u1"), SessionStore: &mockSessions{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Sessions == nil || got.SessionCount != 0 || got.AverageDistance != 0 {
		t.Errorf("got %+v, want empty non-nil history", got)
	}
}

func TestQueryGetSessionHistory_Limits(t *testing.T) {
	deps := GetSessionHistoryDeps{UserStore: usersOf("u1"), SessionStore: &mockSessions{}}
	for _, limit := range []int{-1, MaxHistoryLimit + 1} {
		t.Run(fmt.Sprint(limit), func(t *testing.T) {
			_, err := QueryGetSessionHistory(context.Background(), GetSessionHistoryQuery{UserID: "u1", Limit: limit}, deps)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("err = %v, want validation", err)
			}
		})
	}
}

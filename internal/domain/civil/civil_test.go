package civil_test

import (
	"errors"
	"testing"
	"time"

	"runtrack/internal/domain/civil"
)

// TestParseTimeOfDay covers valid and malformed HH:MM values.
func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"07:40", 460, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"7:40", 0, true},
		{"07:60", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := civil.ParseTimeOfDay(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, civil.ErrInvalidTime) {
				t.Errorf("expected ErrInvalidTime, got %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

// TestFormatMinutes checks zero padding and wrap-around.
func TestFormatMinutes(t *testing.T) {
	cases := map[int]string{0: "00:00", 460: "07:40", 1439: "23:59", 1440: "00:00", 1500: "01:00", -60: "23:00"}
	for in, want := range cases {
		if got := civil.FormatMinutes(in); got != want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", in, got, want)
		}
	}
}

// TestWeekday verifies Monday is 0 and Sunday is 6.
func TestWeekday(t *testing.T) {
	monday := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		if got := civil.Weekday(monday.AddDate(0, 0, i)); got != i {
			t.Errorf("day +%d: got %d, want %d", i, got, i)
		}
	}
}

// TestToday_UsesZone verifies the civil date depends on the zone.
func TestToday_UsesZone(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	now := time.Date(2026, 10, 16, 3, 0, 0, 0, time.UTC) // 22:00 on the 15th in Chicago
	if got := civil.FormatDate(civil.Today(now, chicago)); got != "2026-10-15" {
		t.Errorf("Chicago today = %s, want 2026-10-15", got)
	}
	if got := civil.FormatDate(civil.Today(now, time.UTC)); got != "2026-10-16" {
		t.Errorf("UTC today = %s, want 2026-10-16", got)
	}
}

// TestRangeToUTC converts a civil day in Chicago (CDT, UTC-5) to instants.
func TestRangeToUTC(t *testing.T) {
	chicago, _ := time.LoadLocation("America/Chicago")
	start, _ := civil.ParseDate("2026-10-16")
	from, to := civil.RangeToUTC(start, civil.AddDays(start, 1), chicago)
	if want := time.Date(2026, 10, 16, 5, 0, 0, 0, time.UTC); !from.Equal(want) {
		t.Errorf("from = %v, want %v", from, want)
	}
	if want := time.Date(2026, 10, 17, 5, 0, 0, 0, time.UTC); !to.Equal(want) {
		t.Errorf("to = %v, want %v", to, want)
	}
}

// TestMonthBounds covers December rollover and bad months.
func TestMonthBounds(t *testing.T) {
	first, next, err := civil.MonthBounds(2026, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if civil.FormatDate(first) != "2026-12-01" || civil.FormatDate(next) != "2027-01-01" {
		t.Errorf("got %s..%s", civil.FormatDate(first), civil.FormatDate(next))
	}
	if len(civil.Dates(first, next)) != 31 {
		t.Errorf("expected 31 dates in December")
	}
	if _, _, err := civil.MonthBounds(2026, 13); !errors.Is(err, civil.ErrInvalidMonth) {
		t.Errorf("expected ErrInvalidMonth, got %v", err)
	}
}

// TestLoadLocation covers fallback and unknown zones.
func TestLoadLocation(t *testing.T) {
	loc, err := civil.LoadLocation("", time.UTC)
	if err != nil || loc != time.UTC {
		t.Errorf("expected fallback UTC, got %v, %v", loc, err)
	}
	if _, err := civil.LoadLocation("Mars/Olympus", time.UTC); !errors.Is(err, civil.ErrInvalidTimeZone) {
		t.Errorf("expected ErrInvalidTimeZone, got %v", err)
	}
}

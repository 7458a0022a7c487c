package plan

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"runtrack/internal/domain/civil"
)

// TestSplitWindow_FortyMinutes checks the 07:00-07:40 regular-tier example.
func TestSplitWindow_FortyMinutes(t *testing.T) {
	acts := SplitWindow(7*60, 40, PaceKmh(LevelRegular))
	if len(acts) != 3 {
		t.Fatalf("expected 3 activities, got %d", len(acts))
	}
	wantMinutes := []int{13, 14, 13}
	wantStarts := []string{"07:00", "07:13", "07:27"}
	for i, a := range acts {
		if a.DurationMinutes != wantMinutes[i] {
			t.Errorf("activity %d minutes = %d, want %d", i, a.DurationMinutes, wantMinutes[i])
		}
		if a.StartTime != wantStarts[i] {
			t.Errorf("activity %d start = %s, want %s", i, a.StartTime, wantStarts[i])
		}
	}
	if math.Abs(acts[1].Distance-2.1) > 1e-9 {
		t.Errorf("main distance = %v, want 2.1", acts[1].Distance)
	}
	if acts[0].Distance != 0 || acts[2].Distance != 0 {
		t.Error("warm-up and cooldown must carry zero distance")
	}
	if acts[0].Activity != WarmupLabel || acts[1].Activity != MainLabel || acts[2].Activity != CooldownLabel {
		t.Errorf("unexpected labels: %+v", acts)
	}
}

// TestSplitWindow_ShortWindowKeepsOnlyMain verifies zero-minute blocks are omitted.
func TestSplitWindow_ShortWindowKeepsOnlyMain(t *testing.T) {
	for _, length := range []int{1, 2} {
		acts := SplitWindow(6*60, length, PaceKmh(LevelBeginner))
		if len(acts) != 1 {
			t.Fatalf("length %d: got %d activities, want 1", length, len(acts))
		}
		if acts[0].Activity != MainLabel || acts[0].DurationMinutes != length || acts[0].StartTime != "06:00" {
			t.Errorf("length %d: got %+v", length, acts[0])
		}
		day := Day{Weekday: 0, Activities: acts}
		if err := day.Validate(); err != nil {
			t.Errorf("length %d: short split must stay valid: %v", length, err)
		}
	}
}

// TestSplitWindow_Properties checks the split sums to the window and stays contiguous.
func TestSplitWindow_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("blocks sum to window length and are contiguous", prop.ForAll(
		func(start, length int) bool {
			acts := SplitWindow(start, length, 9.0)
			total := 0
			at := start
			for _, a := range acts {
				s, err := civil.ParseTimeOfDay(a.StartTime)
				if err != nil || s != at%(24*60) {
					return false
				}
				total += a.DurationMinutes
				at += a.DurationMinutes
			}
			return total == length
		},
		gen.IntRange(0, 20*60),
		gen.IntRange(1, 4*60),
	))

	properties.Property("main block gets the remainder", prop.ForAll(
		func(length int) bool {
			acts := SplitWindow(0, length, 7.0)
			return acts[1].DurationMinutes == length/3+length%3 &&
				acts[0].DurationMinutes == length/3 &&
				acts[2].DurationMinutes == length/3
		},
		gen.IntRange(3, 600),
	))

	properties.TestingRun(t)
}

// TestBuildDeterministic_RestDays verifies weekdays without windows stay empty.
func TestBuildDeterministic_RestDays(t *testing.T) {
	windows := []Window{
		{Weekday: 0, StartTime: "07:00", EndTime: "07:40"},
		{Weekday: 2, StartTime: "18:00", EndTime: "18:00"}, // zero length
		{Weekday: 4, StartTime: "19:00", EndTime: "20:00"},
		{Weekday: 4, StartTime: "06:00", EndTime: "06:30"},
	}
	tmpl, err := BuildDeterministic(Profile{FitnessLevel: "regular"}, windows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for wd, day := range tmpl {
		if day.Weekday != wd {
			t.Errorf("day %d has weekday %d", wd, day.Weekday)
		}
		if day.Activities == nil {
			t.Errorf("day %d activities must be an empty list, not nil", wd)
		}
		if err := day.Validate(); err != nil {
			t.Errorf("day %d invalid: %v", wd, err)
		}
	}
	if len(tmpl[0].Activities) != 3 || len(tmpl[4].Activities) != 6 {
		t.Errorf("unexpected counts: mon=%d fri=%d", len(tmpl[0].Activities), len(tmpl[4].Activities))
	}
	for _, wd := range []int{1, 2, 3, 5, 6} {
		if len(tmpl[wd].Activities) != 0 {
			t.Errorf("weekday %d should be a rest day", wd)
		}
	}
	if tmpl[4].Activities[0].StartTime != "06:00" {
		t.Errorf("windows must be processed in start order, got %s first", tmpl[4].Activities[0].StartTime)
	}
}

// TestBuildDeterministic_BadInput rejects unknown tiers and weekdays.
func TestBuildDeterministic_BadInput(t *testing.T) {
	if _, err := BuildDeterministic(Profile{FitnessLevel: "elite"}, nil); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("expected ErrInvalidLevel, got %v", err)
	}
	if _, err := BuildDeterministic(Profile{}, []Window{{Weekday: 7, StartTime: "07:00", EndTime: "08:00"}}); !errors.Is(err, ErrInvalidWeekday) {
		t.Errorf("expected ErrInvalidWeekday, got %v", err)
	}
	if _, err := BuildDeterministic(Profile{}, []Window{{Weekday: 1, StartTime: "7:00", EndTime: "08:00"}}); !errors.Is(err, civil.ErrInvalidTime) {
		t.Errorf("expected ErrInvalidTime, got %v", err)
	}
}

// TestDay_Validate covers ordering and overlap.
func TestDay_Validate(t *testing.T) {
	tests := []struct {
		name string
		acts []Activity
		want error
	}{
		{"ordered", []Activity{{StartTime: "07:00", DurationMinutes: 10}, {StartTime: "07:10", DurationMinutes: 5}}, nil},
		{"overlap", []Activity{{StartTime: "07:00", DurationMinutes: 10}, {StartTime: "07:05", DurationMinutes: 5}}, ErrOverlap},
		{"out of order", []Activity{{StartTime: "08:00", DurationMinutes: 10}, {StartTime: "07:00", DurationMinutes: 5}}, ErrOverlap},
		{"zero minutes", []Activity{{StartTime: "07:00"}}, ErrInvalidDuration},
		{"past midnight", []Activity{{StartTime: "23:50", DurationMinutes: 20}}, ErrPastMidnight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Day{Weekday: 1, Activities: tt.acts}.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

// TestNewTemplate fills missing days and rejects duplicates.
func TestNewTemplate(t *testing.T) {
	tmpl, err := NewTemplate([]Day{{Weekday: 3, Activities: []Activity{{StartTime: "06:00", DurationMinutes: 30}}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tmpl[3].Activities) != 1 || len(tmpl[0].Activities) != 0 {
		t.Errorf("unexpected template: %+v", tmpl)
	}
	_, err = NewTemplate([]Day{{Weekday: 1}, {Weekday: 1}})
	if !errors.Is(err, ErrDuplicateDay) {
		t.Errorf("expected ErrDuplicateDay, got %v", err)
	}
}

// TestFitsWindows checks window containment.
func TestFitsWindows(t *testing.T) {
	windows := []Window{{Weekday: 1, StartTime: "07:00", EndTime: "08:00"}}
	inside := []Activity{{StartTime: "07:00", DurationMinutes: 60}}
	if err := FitsWindows(inside, windows); err != nil {
		t.Errorf("expected fit, got %v", err)
	}
	outside := []Activity{{StartTime: "07:30", DurationMinutes: 45}}
	if err := FitsWindows(outside, windows); !errors.Is(err, ErrOutsideWindow) {
		t.Errorf("expected ErrOutsideWindow, got %v", err)
	}
}

// Package plan holds the weekly planning vocabulary: runner profiles,
// availability windows, activities and the per-weekday template.
package plan

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"runtrack/internal/domain/civil"
)

// Fitness tiers
const (
	LevelBeginner = "beginner"
	LevelRegular  = "regular"
	LevelAthlete  = "athlete"
)

// DaysPerWeek is the number of weekdays in a template. Weekday 0 is Monday.
const DaysPerWeek = 7

// Domain errors
var (
	ErrInvalidWeekday  = errors.New("weekday must be between 0 and 6")
	ErrInvalidLevel    = errors.New("fitness level must be beginner, regular or athlete")
	ErrInvalidDuration = errors.New("activity duration must be positive")
	ErrNegativeDist    = errors.New("activity distance cannot be negative")
	ErrOverlap         = errors.New("activities must be in chronological order without overlap")
	ErrPastMidnight    = errors.New("activity cannot run past midnight")
	ErrDuplicateDay    = errors.New("weekday listed more than once in template")
	ErrOutsideWindow   = errors.New("activity falls outside every availability window")
)

// Profile describes the runner a plan is built for.
type Profile struct {
	HeightCm        float64
	WeightKg        float64
	Age             int
	GoalType        string
	TargetDistanceM *float64
	TargetWeightKg  *float64
	FitnessLevel    string
}

// Level returns the normalized fitness tier, beginner when unset.
// PRE: none
// POST: returns a known tier or ErrInvalidLevel
func (p Profile) Level() (string, error) {
	switch strings.ToLower(strings.TrimSpace(p.FitnessLevel)) {
	case "", LevelBeginner:
		return LevelBeginner, nil
	case LevelRegular:
		return LevelRegular, nil
	case LevelAthlete:
		return LevelAthlete, nil
	}
	return "", ErrInvalidLevel
}

// PaceKmh is the planning speed for a tier.
func PaceKmh(level string) float64 {
	switch level {
	case LevelAthlete:
		return 11.0
	case LevelRegular:
		return 9.0
	default:
		return 7.0
	}
}

// Window is a local interval on a weekday during which activities may be scheduled.
type Window struct {
	Weekday   int
	StartTime string // HH:MM
	EndTime   string // HH:MM
}

// Bounds returns the window in minutes since midnight.
// PRE: none
// POST: returns an error for a bad weekday or time; end may be <= start
func (w Window) Bounds() (int, int, error) {
	if w.Weekday < 0 || w.Weekday >= DaysPerWeek {
		return 0, 0, ErrInvalidWeekday
	}
	start, err := civil.ParseTimeOfDay(w.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err := civil.ParseTimeOfDay(w.EndTime)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// Activity is one continuous planned segment.
type Activity struct {
	StartTime       string // HH:MM
	DurationMinutes int
	Distance        float64
	Activity        string
	Description     string
}

// Span returns the activity's start and end in minutes since midnight.
func (a Activity) Span() (int, int, error) {
	start, err := civil.ParseTimeOfDay(a.StartTime)
	if err != nil {
		return 0, 0, err
	}
	return start, start + a.DurationMinutes, nil
}

// Day is the ordered activity list for one weekday. An empty list is a rest day.
type Day struct {
	Weekday    int
	Activities []Activity
}

// Validate checks that activities are well formed, ordered and non-overlapping.
// PRE: none
// POST: returns nil if valid, error otherwise
// INVARIANT: each activity starts at or after the previous one ends
func (d Day) Validate() error {
	if d.Weekday < 0 || d.Weekday >= DaysPerWeek {
		return ErrInvalidWeekday
	}
	prevEnd := -1
	for i, a := range d.Activities {
		if a.DurationMinutes <= 0 {
			return fmt.Errorf("activity %d: %w", i, ErrInvalidDuration)
		}
		if a.Distance < 0 {
			return fmt.Errorf("activity %d: %w", i, ErrNegativeDist)
		}
		start, end, err := a.Span()
		if err != nil {
			return fmt.Errorf("activity %d: %w", i, err)
		}
		if end > 24*60 {
			return fmt.Errorf("activity %d: %w", i, ErrPastMidnight)
		}
		if start < prevEnd {
			return fmt.Errorf("activity %d: %w", i, ErrOverlap)
		}
		prevEnd = end
	}
	return nil
}

// WeeklyTemplate holds exactly one Day per weekday, indexed by weekday.
type WeeklyTemplate [DaysPerWeek]Day

// NewTemplate builds a template from a sparse day list. Missing weekdays are rest days.
// PRE: none
// POST: every day is validated; duplicates are rejected
func NewTemplate(days []Day) (WeeklyTemplate, error) {
	var t WeeklyTemplate
	seen := make(map[int]bool, len(days))
	for i := range t {
		t[i] = Day{Weekday: i, Activities: []Activity{}}
	}
	for _, d := range days {
		if err := d.Validate(); err != nil {
			return WeeklyTemplate{}, fmt.Errorf("weekday %d: %w", d.Weekday, err)
		}
		if seen[d.Weekday] {
			return WeeklyTemplate{}, fmt.Errorf("weekday %d: %w", d.Weekday, ErrDuplicateDay)
		}
		seen[d.Weekday] = true
		if d.Activities != nil {
			t[d.Weekday].Activities = d.Activities
		}
	}
	return t, nil
}

// WindowsByDay groups windows by weekday, each group sorted by start time.
// PRE: none
// POST: returns ErrInvalidWeekday or a time error for malformed windows
func WindowsByDay(windows []Window) ([DaysPerWeek][]Window, error) {
	var out [DaysPerWeek][]Window
	for _, w := range windows {
		if _, _, err := w.Bounds(); err != nil {
			return out, err
		}
		out[w.Weekday] = append(out[w.Weekday], w)
	}
	for i := range out {
		sort.SliceStable(out[i], func(a, b int) bool {
			return out[i][a].StartTime < out[i][b].StartTime
		})
	}
	return out, nil
}

// FitsWindows reports whether every activity of a day lies inside one of the windows.
// PRE: windows are for the same weekday as the activities
func FitsWindows(activities []Activity, windows []Window) error {
	for i, a := range activities {
		start, end, err := a.Span()
		if err != nil {
			return fmt.Errorf("activity %d: %w", i, err)
		}
		inside := false
		for _, w := range windows {
			ws, we, err := w.Bounds()
			if err != nil {
				return err
			}
			if start >= ws && end <= we {
				inside = true
				break
			}
		}
		if !inside {
			return fmt.Errorf("activity %d (%s): %w", i, a.StartTime, ErrOutsideWindow)
		}
	}
	return nil
}

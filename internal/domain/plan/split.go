package plan

import (
	"math"

	"runtrack/internal/domain/civil"
)

// Labels and guidance used by the deterministic split.
const (
	WarmupLabel   = "Warm-up & mobility"
	MainLabel     = "Main run"
	CooldownLabel = "Cooldown & stretching"

	warmupDescription = "Easy jog or brisk walk with dynamic mobility drills to " +
		"activate joints and muscles before the main session."
	mainDescription = "Run at a comfortable, conversational pace. " +
		"You should feel like you could keep going a bit longer at the end."
	cooldownDescription = "Gradually slow down to an easy walk, then do static stretches " +
		"for calves, quads, hamstrings and hips to support recovery."
)

// SplitWindow divides a window of length minutes starting at startMin into
// warm-up, main and cooldown blocks. The base block is length/3; the remainder
// goes to the main block, so the three always sum to length. Blocks of zero
// minutes (windows shorter than three minutes) are omitted.
// PRE: length > 0
// POST: activities are contiguous and chronological
func SplitWindow(startMin, length int, paceKmh float64) []Activity {
	base := length / 3
	main := base + length%3

	blocks := []struct {
		minutes int
		label   string
		desc    string
		dist    float64
	}{
		{base, WarmupLabel, warmupDescription, 0},
		{main, MainLabel, mainDescription, roundTo(float64(main)*paceKmh/60.0, 2)},
		{base, CooldownLabel, cooldownDescription, 0},
	}

	out := make([]Activity, 0, 3)
	at := startMin
	for _, b := range blocks {
		if b.minutes == 0 {
			continue
		}
		out = append(out, Activity{
			StartTime:       civil.FormatMinutes(at),
			DurationMinutes: b.minutes,
			Distance:        b.dist,
			Activity:        b.label,
			Description:     b.desc,
		})
		at += b.minutes
	}
	return out
}

// BuildDeterministic produces a template by splitting every window. Weekdays
// without windows stay empty and windows with length <= 0 are skipped.
// PRE: windows have been checked with WindowsByDay
// POST: the template has DaysPerWeek days, each valid
func BuildDeterministic(profile Profile, windows []Window) (WeeklyTemplate, error) {
	level, err := profile.Level()
	if err != nil {
		return WeeklyTemplate{}, err
	}
	byDay, err := WindowsByDay(windows)
	if err != nil {
		return WeeklyTemplate{}, err
	}
	pace := PaceKmh(level)

	var t WeeklyTemplate
	for wd := 0; wd < DaysPerWeek; wd++ {
		acts := []Activity{}
		for _, w := range byDay[wd] {
			start, end, _ := w.Bounds()
			if end-start <= 0 {
				continue
			}
			acts = append(acts, SplitWindow(start, end-start, pace)...)
		}
		t[wd] = Day{Weekday: wd, Activities: acts}
	}
	return t, nil
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Package stats rolls finished sessions up into read-only views: an overview,
// per-day totals, a time-of-day distribution and weekly training load.
// Nothing here is rounded; rounding happens at presentation.
package stats

import (
	"fmt"
	"sort"
	"time"

	"runtrack/internal/domain/civil"
	"runtrack/internal/domain/session"
)

// Presentation constants. The overview energy is a coarse estimate and is
// distinct from the energy captured on each session.
const (
	EnergyPerKm = 60.0
	LoadPerKm   = 100.0
)

// Time-of-day bucket names, in reporting order.
const (
	BucketMorning   = "morning"
	BucketForenoon  = "forenoon"
	BucketAfternoon = "afternoon"
	BucketEvening   = "evening"
	BucketNight     = "night"
)

var bucketOrder = []string{BucketMorning, BucketForenoon, BucketAfternoon, BucketEvening, BucketNight}

// Overview totals a trailing window.
type Overview struct {
	RangeDays       int
	Sessions        int
	Distance        float64
	DurationSeconds int
	EstimatedEnergy float64
}

// DayTotal aggregates the sessions started on one civil date.
type DayTotal struct {
	Date            string
	Sessions        int
	Distance        float64
	DurationSeconds int
	Energy          float64
}

// Bucket aggregates sessions by the hour they started.
type Bucket struct {
	Name            string
	Sessions        int
	Distance        float64
	DurationSeconds int
	Share           float64
}

// WeekLoad is the training load of one ISO week.
type WeekLoad struct {
	Week      string // 2026-W42
	WeekStart string // Monday, YYYY-MM-DD
	Load      float64
}

// Load summarizes weekly training load.
type Load struct {
	RangeWeeks int
	Weeks      []WeekLoad
	Latest     float64
	Mean       float64
}

// Summarize builds the overview for sessions in a window of rangeDays.
func Summarize(rangeDays int, sessions []session.Session) Overview {
	o := Overview{RangeDays: rangeDays, Sessions: len(sessions)}
	for _, s := range sessions {
		o.Distance += s.TotalDistance
		o.DurationSeconds += s.TotalDurationSeconds
	}
	o.EstimatedEnergy = o.Distance * EnergyPerKm
	return o
}

// Daily groups sessions by the civil date of their start in loc, ascending.
func Daily(sessions []session.Session, loc *time.Location) []DayTotal {
	byDate := map[string]*DayTotal{}
	for _, s := range sessions {
		date := s.StartedAt.In(loc).Format(civil.DateLayout)
		d, ok := byDate[date]
		if !ok {
			d = &DayTotal{Date: date}
			byDate[date] = d
		}
		d.Sessions++
		d.Distance += s.TotalDistance
		d.DurationSeconds += s.TotalDurationSeconds
		d.Energy += s.TotalEnergy
	}
	out := make([]DayTotal, 0, len(byDate))
	for _, d := range byDate {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// BucketForHour names the time-of-day bucket for an hour 0..23.
func BucketForHour(hour int) string {
	switch {
	case hour >= 5 && hour < 10:
		return BucketMorning
	case hour >= 10 && hour < 14:
		return BucketForenoon
	case hour >= 14 && hour < 18:
		return BucketAfternoon
	case hour >= 18 && hour < 22:
		return BucketEvening
	}
	return BucketNight
}

// TimeOfDay distributes sessions over the five buckets by start hour in loc.
// POST: always five buckets; shares sum to 1 when sessions exist, else all 0
func TimeOfDay(sessions []session.Session, loc *time.Location) []Bucket {
	idx := make(map[string]int, len(bucketOrder))
	out := make([]Bucket, len(bucketOrder))
	for i, name := range bucketOrder {
		idx[name] = i
		out[i] = Bucket{Name: name}
	}
	for _, s := range sessions {
		b := &out[idx[BucketForHour(s.StartedAt.In(loc).Hour())]]
		b.Sessions++
		b.Distance += s.TotalDistance
		b.DurationSeconds += s.TotalDurationSeconds
	}
	if total := len(sessions); total > 0 {
		for i := range out {
			out[i].Share = float64(out[i].Sessions) / float64(total)
		}
	}
	return out
}

// WeekKey returns the ISO week label and its Monday for t.
func WeekKey(t time.Time) (string, string) {
	year, week := t.ISOWeek()
	monday := civil.AddDays(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), -civil.Weekday(t))
	return fmt.Sprintf("%04d-W%02d", year, week), civil.FormatDate(monday)
}

// TrainingLoad sums distance x LoadPerKm per ISO week of the start instant in loc.
// POST: weeks sorted by key; Latest and Mean are 0 when there are no weeks
func TrainingLoad(rangeWeeks int, sessions []session.Session, loc *time.Location) Load {
	byWeek := map[string]*WeekLoad{}
	for _, s := range sessions {
		key, start := WeekKey(s.StartedAt.In(loc))
		w, ok := byWeek[key]
		if !ok {
			w = &WeekLoad{Week: key, WeekStart: start}
			byWeek[key] = w
		}
		w.Load += s.TotalDistance * LoadPerKm
	}

	l := Load{RangeWeeks: rangeWeeks, Weeks: make([]WeekLoad, 0, len(byWeek))}
	for _, w := range byWeek {
		l.Weeks = append(l.Weeks, *w)
	}
	sort.Slice(l.Weeks, func(i, j int) bool { return l.Weeks[i].Week < l.Weeks[j].Week })
	if n := len(l.Weeks); n > 0 {
		l.Latest = l.Weeks[n-1].Load
		sum := 0.0
		for _, w := range l.Weeks {
			sum += w.Load
		}
		l.Mean = sum / float64(n)
	}
	return l
}

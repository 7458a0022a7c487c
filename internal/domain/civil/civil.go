// Package civil converts between a user's local calendar (dates and times of
// day without a zone) and absolute instants. Everything here is a pure function.
package civil

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata" // zone database for hosts without one
)

// Layouts for civil values.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

const minutesPerDay = 24 * 60

// Domain errors
var (
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
	ErrInvalidTime     = errors.New("time must be HH:MM")
	ErrInvalidTimeZone = errors.New("unknown time zone")
	ErrInvalidMonth    = errors.New("month must be between 1 and 12")
)

// ParseDate parses a YYYY-MM-DD civil date. The result is midnight UTC of that
// date and carries no zone meaning.
// PRE: none
// POST: returns the date or ErrInvalidDate
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// FormatDate renders the calendar date portion of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseTimeOfDay parses HH:MM into minutes since midnight.
// PRE: none
// POST: returns 0..1439 or ErrInvalidTime
func ParseTimeOfDay(s string) (int, error) {
	if len(s) != 5 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatMinutes renders minutes since midnight as HH:MM, wrapping past midnight.
func FormatMinutes(total int) string {
	total = ((total % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Weekday returns 0 for Monday through 6 for Sunday.
func Weekday(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// LoadLocation resolves an IANA zone name. An empty name yields fallback.
// PRE: fallback is non-nil
// POST: returns a location or ErrInvalidTimeZone
func LoadLocation(name string, fallback *time.Location) (*time.Location, error) {
	if name == "" {
		return fallback, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeZone, name)
	}
	return loc, nil
}

// Today returns the civil date of now in loc as midnight UTC of that date.
func Today(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// AddDays shifts a civil date by n days.
func AddDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// StartOfDay returns the instant at which civil date d begins in loc.
func StartOfDay(d time.Time, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc).UTC()
}

// RangeToUTC converts the civil range [start, endExclusive) into the absolute
// instants bounding it in loc.
// PRE: start is not after endExclusive
// POST: returned instants are UTC
func RangeToUTC(start, endExclusive time.Time, loc *time.Location) (time.Time, time.Time) {
	return StartOfDay(start, loc), StartOfDay(endExclusive, loc)
}

// MonthBounds returns the first day of the month and the first day of the next.
// PRE: none
// POST: returns ErrInvalidMonth when month is outside 1..12
func MonthBounds(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, 0), nil
}

// Dates lists every civil date in [start, endExclusive).
func Dates(start, endExclusive time.Time) []time.Time {
	var out []time.Time
	for d := start; d.Before(endExclusive); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

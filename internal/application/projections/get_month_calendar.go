package projections

import (
	"context"
	"time"

	"runtrack/internal/domain/apperr"
	"runtrack/internal/domain/calendar"
	"runtrack/internal/domain/civil"
)

// GetMonthCalendarQuery carries input for the month calendar projection.
type GetMonthCalendarQuery struct {
	UserID   string
	Year     int
	Month    int
	TimeZone string    // empty means DefaultZone
	Now      time.Time // optional: if zero, time.Now() is used
}

// CalendarDay is one date of the month view.
type CalendarDay struct {
	Date    string
	Weekday int // 0 = Monday
	IsToday bool
	Entries []calendar.Entry // never nil
}

// GetMonthCalendarResult carries the output of the month calendar projection.
type GetMonthCalendarResult struct {
	Year     int
	Month    int
	TimeZone string
	Days     []CalendarDay
}

// GetMonthCalendarDeps holds dependencies for the month calendar projection.
type GetMonthCalendarDeps struct {
	UserStore     UserGetter
	CalendarStore CalendarRangeLister
	DefaultZone   *time.Location
}

// QueryGetMonthCalendar lists every date of a month with its planned entries.
// PRE: Month in 1..12
// POST: one CalendarDay per date; IsToday compares civil dates in the zone
func QueryGetMonthCalendar(ctx context.Context, query GetMonthCalendarQuery, deps GetMonthCalendarDeps) (GetMonthCalendarResult, error) {
	if err := checkUserID(query.UserID); err != nil {
		return GetMonthCalendarResult{}, err
	}
	first, next, err := civil.MonthBounds(query.Year, query.Month)
	if err != nil || query.Year < 1 || query.Year > 9999 {
		return GetMonthCalendarResult{}, apperr.Validation("year and month must name a calendar month")
	}
	loc, err := zone(query.TimeZone, deps.DefaultZone)
	if err != nil {
		return GetMonthCalendarResult{}, err
	}
	if _, err := deps.UserStore.GetByID(ctx, query.UserID); err != nil {
		return GetMonthCalendarResult{}, requireUser(err)
	}

	entries, err := deps.CalendarStore.ListByDateRange(ctx, query.UserID, civil.FormatDate(first), civil.FormatDate(next))
	if err != nil {
		return GetMonthCalendarResult{}, err
	}
	byDate := map[string][]calendar.Entry{}
	for _, e := range entries {
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	today := civil.FormatDate(civil.Today(nowOr(query.Now), loc))
	result := GetMonthCalendarResult{Year: query.Year, Month: query.Month, TimeZone: loc.String()}
	for _, d := range civil.Dates(first, next) {
		ds := civil.FormatDate(d)
		day := CalendarDay{Date: ds, Weekday: civil.Weekday(d), IsToday: ds == today, Entries: byDate[ds]}
		if day.Entries == nil {
			day.Entries = []calendar.Entry{}
		}
		result.Days = append(result.Days, day)
	}
	return result, nil
}

// GetDayEntriesDeps holds dependencies for the day entries projection.
type GetDayEntriesDeps struct {
	UserStore     UserGetter
	CalendarStore CalendarDayLister
}

// QueryGetDayEntries lists a user's entries on one date ordered by start time.
// PRE: date is YYYY-MM-DD
// POST: returns an empty slice when there are none
func QueryGetDayEntries(ctx context.Context, userID, date string, deps GetDayEntriesDeps) ([]calendar.Entry, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	if _, err := civil.ParseDate(date); err != nil {
		return nil, apperr.Wrap(apperr.ErrValidation, err)
	}
	if _, err := deps.UserStore.GetByID(ctx, userID); err != nil {
		return nil, requireUser(err)
	}
	return deps.CalendarStore.ListByDate(ctx, userID, date)
}

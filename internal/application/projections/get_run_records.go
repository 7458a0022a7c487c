package projections

import (
	"context"
	"errors"
	"time"

	"runtrack/internal/domain/apperr"
	"runtrack/internal/domain/civil"
	"runtrack/internal/domain/session"
	"runtrack/internal/domain/settings"
	"runtrack/internal/domain/stats"
)

// DefaultGoalSeconds is today's goal when nothing is planned.
const DefaultGoalSeconds = 3600

// MaxRecordRangeDays bounds a record list request.
const MaxRecordRangeDays = 366

// ActiveSessionFinder looks up the open session of a user.
type ActiveSessionFinder interface {
	FindActive(ctx context.Context, userID string) (session.Session, error)
}

// SettingsReader returns settings, creating the default row on first access.
type SettingsReader interface {
	GetOrCreate(ctx context.Context, def settings.Settings) (settings.Settings, error)
}

// RecordTotals sums a set of finished sessions.
type RecordTotals struct {
	Sessions        int
	Distance        float64
	DurationSeconds int
	Energy          float64
}

func totals(sessions []session.Session) RecordTotals {
	var t RecordTotals
	for _, s := range sessions {
		t.Sessions++
		t.Distance += s.TotalDistance
		t.DurationSeconds += s.TotalDurationSeconds
		t.Energy += s.TotalEnergy
	}
	return t
}

// --- Today ---

// GetTodayRecordQuery carries input for the today record projection.
type GetTodayRecordQuery struct {
	UserID   string
	TimeZone string
	Now      time.Time // optional: if zero, time.Now() is used
}

// GetTodayRecordResult carries the output of the today record projection.
type GetTodayRecordResult struct {
	Date          string
	TimeZone      string
	EnergyPerHour float64
	Sessions      []session.Session
	Totals        RecordTotals
	Active        *session.Session
	GoalSeconds   int
}

// GetTodayRecordDeps holds dependencies for the today record projection.
type GetTodayRecordDeps struct {
	UserStore     UserGetter
	SettingsStore SettingsReader
	SessionStore  interface {
		FinishedSessionLister
		ActiveSessionFinder
	}
	CalendarStore CalendarDayLister
	DefaultZone   *time.Location
	DefaultRate   float64
}

// QueryGetTodayRecord reports today's finished runs and the goal for the day.
// PRE: TimeZone is empty or an IANA name
// POST: GoalSeconds is the sum of today's planned minutes x 60, or DefaultGoalSeconds
func QueryGetTodayRecord(ctx context.Context, query GetTodayRecordQuery, deps GetTodayRecordDeps) (GetTodayRecordResult, error) {
	if err := checkUserID(query.UserID); err != nil {
		return GetTodayRecordResult{}, err
	}
	loc, err := zone(query.TimeZone, deps.DefaultZone)
	if err != nil {
		return GetTodayRecordResult{}, err
	}
	if _, err := deps.UserStore.GetByID(ctx, query.UserID); err != nil {
		return GetTodayRecordResult{}, requireUser(err)
	}

	now := nowOr(query.Now)
	def := settings.Default(query.UserID, now)
	if deps.DefaultRate > 0 {
		def.EnergyPerHour = deps.DefaultRate
	}
	st, err := deps.SettingsStore.GetOrCreate(ctx, def)
	if err != nil {
		return GetTodayRecordResult{}, err
	}

	today := civil.Today(now, loc)
	from, to := civil.RangeToUTC(today, civil.AddDays(today, 1), loc)
	sessions, err := deps.SessionStore.ListFinishedBetween(ctx, query.UserID, from, to)
	if err != nil {
		return GetTodayRecordResult{}, err
	}
	date := civil.FormatDate(today)
	planned, err := deps.CalendarStore.ListByDate(ctx, query.UserID, date)
	if err != nil {
		return GetTodayRecordResult{}, err
	}

	result := GetTodayRecordResult{
		Date:          date,
		TimeZone:      loc.String(),
		EnergyPerHour: st.EnergyPerHour,
		Sessions:      sessions,
		Totals:        totals(sessions),
		GoalSeconds:   DefaultGoalSeconds,
	}
	if len(planned) > 0 {
		minutes := 0
		for _, e := range planned {
			minutes += e.DurationMinutes
		}
		result.GoalSeconds = minutes * 60
	}

	active, err := deps.SessionStore.FindActive(ctx, query.UserID)
	switch {
	case err == nil:
		result.Active = &active
	case !errors.Is(err, session.ErrNoActiveSession):
		return GetTodayRecordResult{}, err
	}
	return result, nil
}

// --- Range ---

// GetRecordListQuery carries input for the record list projection.
type GetRecordListQuery struct {
	UserID    string
	StartDate string // YYYY-MM-DD, inclusive
	EndDate   string // YYYY-MM-DD, inclusive
	TimeZone  string
}

// GetRecordListResult carries the output of the record list projection.
type GetRecordListResult struct {
	StartDate string
	EndDate   string
	TimeZone  string
	Sessions  []session.Session
	Totals    RecordTotals
}

// GetRecordListDeps holds dependencies for the record list projection.
type GetRecordListDeps struct {
	UserStore    UserGetter
	SessionStore FinishedSessionLister
	DefaultZone  *time.Location
}

// QueryGetRecordList lists finished sessions started within an inclusive civil range.
// PRE: StartDate <= EndDate, both YYYY-MM-DD
// POST: no mutation
func QueryGetRecordList(ctx context.Context, query GetRecordListQuery, deps GetRecordListDeps) (GetRecordListResult, error) {
	if err := checkUserID(query.UserID); err != nil {
		return GetRecordListResult{}, err
	}
	start, err := civil.ParseDate(query.StartDate)
	if err != nil {
		return GetRecordListResult{}, apperr.Wrap(apperr.ErrValidation, err)
	}
	end, err := civil.ParseDate(query.EndDate)
	if err != nil {
		return GetRecordListResult{}, apperr.Wrap(apperr.ErrValidation, err)
	}
	if end.Before(start) {
		return GetRecordListResult{}, apperr.Validation("end date cannot be before start date")
	}
	if end.Sub(start) >= MaxRecordRangeDays*24*time.Hour {
		return GetRecordListResult{}, apperr.Validation("range cannot exceed %d days", MaxRecordRangeDays)
	}
	loc, err := zone(query.TimeZone, deps.DefaultZone)
	if err != nil {
		return GetRecordListResult{}, err
	}
	if _, err := deps.UserStore.GetByID(ctx, query.UserID); err != nil {
		return GetRecordListResult{}, requireUser(err)
	}

	from, to := civil.RangeToUTC(start, civil.AddDays(end, 1), loc)
	sessions, err := deps.SessionStore.ListFinishedBetween(ctx, query.UserID, from, to)
	if err != nil {
		return GetRecordListResult{}, err
	}
	return GetRecordListResult{
		StartDate: civil.FormatDate(start),
		EndDate:   civil.FormatDate(end),
		TimeZone:  loc.String(),
		Sessions:  sessions,
		Totals:    totals(sessions),
	}, nil
}

// --- Month ---

// GetRecordCalendarQuery carries input for the record calendar projection.
type GetRecordCalendarQuery struct {
	UserID   string
	Year     int
	Month    int
	TimeZone string
}

// GetRecordCalendarResult carries the output of the record calendar projection.
type GetRecordCalendarResult struct {
	Year     int
	Month    int
	TimeZone string
	Days     []stats.DayTotal // dates with at least one session, ascending
}

// QueryGetRecordCalendar aggregates finished sessions per local date of a month.
// PRE: Month in 1..12
// POST: a session counts toward the local date of its start instant
func QueryGetRecordCalendar(ctx context.Context, query GetRecordCalendarQuery, deps GetRecordListDeps) (GetRecordCalendarResult, error) {
	if err := checkUserID(query.UserID); err != nil {
		return GetRecordCalendarResult{}, err
	}
	first, next, err := civil.MonthBounds(query.Year, query.Month)
	if err != nil || query.Year < 1 || query.Year > 9999 {
		return GetRecordCalendarResult{}, apperr.Validation("year and month must name a calendar month")
	}
	loc, err := zone(query.TimeZone, deps.DefaultZone)
	if err != nil {
		return GetRecordCalendarResult{}, err
	}
	if _, err := deps.UserStore.GetByID(ctx, query.UserID); err != nil {
		return GetRecordCalendarResult{}, requireUser(err)
	}

	from, to := civil.RangeToUTC(first, next, loc)
	sessions, err := deps.SessionStore.ListFinishedBetween(ctx, query.UserID, from, to)
	if err != nil {
		return GetRecordCalendarResult{}, err
	}
	days := stats.Daily(sessions, loc)
	if days == nil {
		days = []stats.DayTotal{}
	}
	return GetRecordCalendarResult{Year: query.Year, Month: query.Month, TimeZone: loc.String(), Days: days}, nil
}

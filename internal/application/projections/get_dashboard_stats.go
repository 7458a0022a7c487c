package projections

import (
	"context"
	"time"

	"runtrack/internal/domain/apperr"
	"runtrack/internal/domain/stats"
)

// Dashboard window bounds.
const (
	DefaultDashboardDays  = 30
	DefaultDashboardWeeks = 8
	MaxDashboardDays      = 366
	MaxDashboardWeeks     = 104
)

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	UserID   string
	Days     int       // 0 means DefaultDashboardDays
	Weeks    int       // 0 means DefaultDashboardWeeks
	TimeZone string    // empty means UTC
	Now      time.Time // optional: if zero, time.Now() is used
}

// GetDashboardResult composes the four rollups.
type GetDashboardResult struct {
	TimeZone     string
	Overview     stats.Overview
	Daily        []stats.DayTotal
	TimeOfDay    []stats.Bucket
	TrainingLoad stats.Load
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	UserStore    UserGetter
	SessionStore FinishedSessionLister
}

// QueryGetDashboard rolls up finished sessions over trailing windows.
// PRE: Days in 0..MaxDashboardDays; Weeks in 0..MaxDashboardWeeks
// POST: no mutation; overview, daily and time-of-day cover Days, load covers Weeks
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (GetDashboardResult, error) {
	if err := checkUserID(query.UserID); err != nil {
		return GetDashboardResult{}, err
	}
	days, weeks := query.Days, query.Weeks
	if days == 0 {
		days = DefaultDashboardDays
	}
	if weeks == 0 {
		weeks = DefaultDashboardWeeks
	}
	if days < 0 || days > MaxDashboardDays {
		return GetDashboardResult{}, apperr.Validation("days must be between 1 and %d", MaxDashboardDays)
	}
	if weeks < 0 || weeks > MaxDashboardWeeks {
		return GetDashboardResult{}, apperr.Validation("weeks must be between 1 and %d", MaxDashboardWeeks)
	}
	loc, err := zone(query.TimeZone, time.UTC)
	if err != nil {
		return GetDashboardResult{}, err
	}
	if _, err := deps.UserStore.GetByID(ctx, query.UserID); err != nil {
		return GetDashboardResult{}, requireUser(err)
	}

	now := nowOr(query.Now)
	until := now.Add(time.Second)
	recent, err := deps.SessionStore.ListFinishedBetween(ctx, query.UserID, now.AddDate(0, 0, -days), until)
	if err != nil {
		return GetDashboardResult{}, err
	}
	loadWindow, err := deps.SessionStore.ListFinishedBetween(ctx, query.UserID, now.AddDate(0, 0, -7*weeks), until)
	if err != nil {
		return GetDashboardResult{}, err
	}

	return GetDashboardResult{
		TimeZone:     loc.String(),
		Overview:     stats.Summarize(days, recent),
		Daily:        stats.Daily(recent, loc),
		TimeOfDay:    stats.TimeOfDay(recent, loc),
		TrainingLoad: stats.TrainingLoad(weeks, loadWindow, loc),
	}, nil
}

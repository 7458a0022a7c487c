package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"runtrack/internal/adapters/planner"
	"runtrack/internal/domain/apperr"
	"runtrack/internal/domain/calendar"
	"runtrack/internal/domain/civil"
	"runtrack/internal/domain/plan"
)

// Apply range limits.
const (
	DefaultApplyDays = 30
	MaxApplyDays     = 366
)

// WeeklyPlanner produces a weekly template, falling back internally on provider failure.
type WeeklyPlanner interface {
	Plan(ctx context.Context, req planner.Request) (planner.Result, error)
}

// --- Preview Plan ---

// PreviewPlanInput carries input for the preview plan orchestrator.
type PreviewPlanInput struct {
	Profile plan.Profile
	Windows []plan.Window
}

// PreviewPlanDeps holds dependencies for PreviewPlan.
type PreviewPlanDeps struct {
	Planner WeeklyPlanner
}

// ExecutePreviewPlan generates a weekly template without writing anything.
// PRE: windows carry weekdays 0..6 and HH:MM times
// POST: returns seven days; an upstream failure is never returned
func ExecutePreviewPlan(ctx context.Context, input PreviewPlanInput, deps PreviewPlanDeps) (planner.Result, error) {
	return deps.Planner.Plan(ctx, planner.Request{Profile: input.Profile, Windows: input.Windows})
}

// --- Apply Weekly Template ---

// CalendarReplacer swaps out every entry of a user on one date.
type CalendarReplacer interface {
	ReplaceDay(ctx context.Context, userID, date string, entries []calendar.Entry) (bool, error)
}

// ApplyTemplateInput carries input for the apply template orchestrator.
type ApplyTemplateInput struct {
	UserID    string
	Days      []plan.Day // sparse; missing weekdays are rest days
	StartDate string     // YYYY-MM-DD; empty means tomorrow in the zone
	NumDays   int        // 0 means DefaultApplyDays
	TimeZone  string     // empty means DefaultZone
}

// ApplyTemplateDeps holds dependencies for ApplyTemplate.
type ApplyTemplateDeps struct {
	UserStore     UserGetter
	CalendarStore CalendarReplacer
	GenerateID    func() string
	Now           func() time.Time
	DefaultZone   *time.Location
}

// ApplyResult reports what an application wrote.
type ApplyResult struct {
	TimeZone     string
	StartDate    string
	EndDate      string // inclusive
	Created      []calendar.Entry
	ClearedDates []string
}

// ExecuteApplyTemplate materializes a weekly template onto [start, start+days).
// PRE: template days are valid; NumDays in 0..MaxApplyDays
// POST: every date in range holds exactly the template's activities for its weekday
// INVARIANT: each date is replaced atomically; re-applying yields the same rows
func ExecuteApplyTemplate(ctx context.Context, input ApplyTemplateInput, deps ApplyTemplateDeps) (ApplyResult, error) {
	tmpl, err := plan.NewTemplate(input.Days)
	if err != nil {
		return ApplyResult{}, invalid(err)
	}
	days := input.NumDays
	if days == 0 {
		days = DefaultApplyDays
	}
	if days < 0 || days > MaxApplyDays {
		return ApplyResult{}, apperr.Validation("days must be between 1 and %d", MaxApplyDays)
	}
	loc, err := civil.LoadLocation(input.TimeZone, deps.DefaultZone)
	if err != nil {
		return ApplyResult{}, invalid(err)
	}

	now := deps.Now()
	start := civil.AddDays(civil.Today(now, loc), 1)
	if input.StartDate != "" {
		if start, err = civil.ParseDate(input.StartDate); err != nil {
			return ApplyResult{}, invalid(err)
		}
	}
	end := civil.AddDays(start, days)

	if _, err := ExecuteGetUser(ctx, input.UserID, deps.UserStore); err != nil {
		return ApplyResult{}, err
	}

	// Build and validate everything before the first write.
	dates := civil.Dates(start, end)
	perDate := make([][]calendar.Entry, len(dates))
	for i, d := range dates {
		ds := civil.FormatDate(d)
		acts := tmpl[civil.Weekday(d)].Activities
		entries := make([]calendar.Entry, 0, len(acts))
		for _, a := range acts {
			e := calendar.Entry{
				ID:              deps.GenerateID(),
				UserID:          input.UserID,
				Date:            ds,
				StartTime:       a.StartTime,
				DurationMinutes: a.DurationMinutes,
				Distance:        a.Distance,
				Activity:        a.Activity,
				Description:     a.Description,
				CreatedAt:       now,
			}
			if err := e.Validate(); err != nil {
				return ApplyResult{}, invalid(err)
			}
			entries = append(entries, e)
		}
		perDate[i] = entries
	}

	result := ApplyResult{
		TimeZone:     loc.String(),
		StartDate:    civil.FormatDate(start),
		EndDate:      civil.FormatDate(civil.AddDays(end, -1)),
		Created:      []calendar.Entry{},
		ClearedDates: []string{},
	}
	for i, d := range dates {
		ds := civil.FormatDate(d)
		cleared, err := deps.CalendarStore.ReplaceDay(ctx, input.UserID, ds, perDate[i])
		if err != nil {
			slog.Warn("plan_event", "event", "template_apply_failed", "user_id", input.UserID,
				"date", ds, "applied_through", appliedThrough(dates, i))
			return ApplyResult{}, fmt.Errorf("apply %s: %w", ds, err)
		}
		if cleared {
			result.ClearedDates = append(result.ClearedDates, ds)
		}
		result.Created = append(result.Created, perDate[i]...)
	}

	slog.Info("plan_event", "event", "template_applied", "user_id", input.UserID,
		"start_date", result.StartDate, "end_date", result.EndDate,
		"created", len(result.Created), "cleared", len(result.ClearedDates))
	return result, nil
}

// appliedThrough names the last date committed before index i, or "" when none was.
func appliedThrough(dates []time.Time, i int) string {
	if i == 0 {
		return ""
	}
	return civil.FormatDate(dates[i-1])
}

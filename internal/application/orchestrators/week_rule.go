package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"runtrack/internal/domain/apperr"
	"runtrack/internal/domain/calendar"
	"runtrack/internal/domain/civil"
	"runtrack/internal/domain/plan"
)

// WeekRuleStore reads and writes the per-user week rule.
type WeekRuleStore interface {
	GetWeekRule(ctx context.Context, userID string) (plan.WeekRule, error)
	SaveWeekRule(ctx context.Context, r plan.WeekRule) error
}

// WeekRuleDeps holds dependencies for the week rule and month batch orchestrators.
type WeekRuleDeps struct {
	UserStore     UserGetter
	RuleStore     WeekRuleStore
	CalendarStore DayEntryStore
	GenerateID    func() string
	Now           func() time.Time
}

// --- Set Week Rule ---

// ExecuteSetWeekRule saves the user's recurring slot, replacing any previous one.
// PRE: rule.UserID names an existing user
// POST: rule persisted with UpdatedAt set to now
func ExecuteSetWeekRule(ctx context.Context, rule plan.WeekRule, deps WeekRuleDeps) (plan.WeekRule, error) {
	if err := rule.Validate(); err != nil {
		return plan.WeekRule{}, invalid(err)
	}
	if _, err := ExecuteGetUser(ctx, rule.UserID, deps.UserStore); err != nil {
		return plan.WeekRule{}, err
	}
	rule.UpdatedAt = deps.Now()
	if err := deps.RuleStore.SaveWeekRule(ctx, rule); err != nil {
		return plan.WeekRule{}, err
	}
	slog.Info("plan_event", "event", "week_rule_saved", "user_id", rule.UserID, "weekday", rule.Weekday)
	return rule, nil
}

// --- Batch Month ---

// BatchMonthInput carries input for the month batch orchestrator.
type BatchMonthInput struct {
	UserID   string
	Year     int
	Month    int
	Rule     *plan.WeekRule // nil means the user's saved rule, or the default
	Activity string
}

// BatchMonthResult reports the rule used and the entries written.
type BatchMonthResult struct {
	Rule    plan.WeekRule
	Created []calendar.Entry
}

// ExecuteBatchMonth adds one calendar entry on every date of the month that
// falls on the rule's weekday. Existing entries are kept.
// PRE: Year in 1..9999; Month in 1..12
// POST: every entry is validated before the first write; a write failure names its date
func ExecuteBatchMonth(ctx context.Context, input BatchMonthInput, deps WeekRuleDeps) (BatchMonthResult, error) {
	if input.Year < 1 || input.Year > 9999 {
		return BatchMonthResult{}, apperr.Validation("year must be between 1 and 9999")
	}
	if _, err := ExecuteGetUser(ctx, input.UserID, deps.UserStore); err != nil {
		return BatchMonthResult{}, err
	}

	var rule plan.WeekRule
	if input.Rule != nil {
		rule = *input.Rule
		rule.UserID = input.UserID
	} else {
		saved, err := deps.RuleStore.GetWeekRule(ctx, input.UserID)
		switch {
		case errors.Is(err, plan.ErrWeekRuleNotFound):
			rule = plan.DefaultWeekRule(input.UserID)
		case err != nil:
			return BatchMonthResult{}, err
		default:
			rule = saved
		}
	}
	if err := rule.Validate(); err != nil {
		return BatchMonthResult{}, invalid(err)
	}
	dates, err := rule.MonthDates(input.Year, input.Month)
	if err != nil {
		return BatchMonthResult{}, invalid(err)
	}

	now := deps.Now()
	entries := make([]calendar.Entry, 0, len(dates))
	for _, d := range dates {
		e := calendar.Entry{
			ID:              deps.GenerateID(),
			UserID:          input.UserID,
			Date:            civil.FormatDate(d),
			StartTime:       rule.StartTime,
			DurationMinutes: rule.DurationMinutes,
			Distance:        rule.Distance,
			Activity:        strings.TrimSpace(input.Activity),
			CreatedAt:       now,
		}
		if err := e.Validate(); err != nil {
			return BatchMonthResult{}, invalid(err)
		}
		entries = append(entries, e)
	}
	for _, e := range entries {
		if err := deps.CalendarStore.Create(ctx, e); err != nil {
			return BatchMonthResult{}, fmt.Errorf("batch %s: %w", e.Date, err)
		}
	}

	slog.Info("calendar_event", "event", "month_batched", "user_id", input.UserID,
		"year", input.Year, "month", input.Month, "weekday", rule.Weekday, "created", len(entries))
	return BatchMonthResult{Rule: rule, Created: entries}, nil
}

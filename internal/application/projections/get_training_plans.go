package projections

import (
	"context"
	"errors"

	"runtrack/internal/domain/apperr"
	"runtrack/internal/domain/plan"
)

// Plan list limits.
const (
	DefaultPlanListLimit = 10
	MaxPlanListLimit     = 100
)

// TrainingPlanReader reads stored training plans.
type TrainingPlanReader interface {
	GetByID(ctx context.Context, id string) (plan.TrainingPlan, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]plan.TrainingPlan, error)
}

// WeekRuleReader reads a user's saved week rule.
type WeekRuleReader interface {
	GetWeekRule(ctx context.Context, userID string) (plan.WeekRule, error)
}

// TrainingPlanViewDeps holds dependencies for the training plan projections.
type TrainingPlanViewDeps struct {
	UserStore UserGetter
	PlanStore TrainingPlanReader
	RuleStore WeekRuleReader
}

// QueryListPlans lists a user's plan headers, newest first.
// PRE: limit in 0..MaxPlanListLimit; 0 means DefaultPlanListLimit
// POST: returns an empty slice when the user has no plans; Entries are not loaded
func QueryListPlans(ctx context.Context, userID string, limit int, deps TrainingPlanViewDeps) ([]plan.TrainingPlan, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = DefaultPlanListLimit
	}
	if limit < 0 || limit > MaxPlanListLimit {
		return nil, apperr.Validation("limit must be between 1 and %d", MaxPlanListLimit)
	}
	if _, err := deps.UserStore.GetByID(ctx, userID); err != nil {
		return nil, requireUser(err)
	}
	plans, err := deps.PlanStore.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []plan.TrainingPlan{}
	}
	return plans, nil
}

// QueryGetPlanDetail returns one plan with its entries ordered by day index.
// POST: NotFoundError for an unknown plan
func QueryGetPlanDetail(ctx context.Context, planID string, deps TrainingPlanViewDeps) (plan.TrainingPlan, error) {
	if planID == "" {
		return plan.TrainingPlan{}, apperr.Validation("plan ID is required")
	}
	p, err := deps.PlanStore.GetByID(ctx, planID)
	if errors.Is(err, plan.ErrPlanNotFound) {
		return plan.TrainingPlan{}, apperr.Wrap(apperr.ErrNotFound, err)
	}
	if err != nil {
		return plan.TrainingPlan{}, err
	}
	if p.Entries == nil {
		p.Entries = []plan.PlanEntry{}
	}
	return p, nil
}

// QueryWeekRule returns the user's saved rule, or the default when none was saved.
// Reading never stores the default.
func QueryWeekRule(ctx context.Context, userID string, deps TrainingPlanViewDeps) (plan.WeekRule, error) {
	if err := checkUserID(userID); err != nil {
		return plan.WeekRule{}, err
	}
	if _, err := deps.UserStore.GetByID(ctx, userID); err != nil {
		return plan.WeekRule{}, requireUser(err)
	}
	r, err := deps.RuleStore.GetWeekRule(ctx, userID)
	if errors.Is(err, plan.ErrWeekRuleNotFound) {
		return plan.DefaultWeekRule(userID), nil
	}
	return r, err
}

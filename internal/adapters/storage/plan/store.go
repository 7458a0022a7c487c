package plan

import (
	"context"

	domain "runtrack/internal/domain/plan"
)

// Store persists training plans, their entries and the per-user week rule.
type Store interface {
	// Create inserts the plan and every entry in one transaction.
	Create(ctx context.Context, p domain.TrainingPlan) error
	// GetByID returns the plan with its entries ordered by day index.
	GetByID(ctx context.Context, id string) (domain.TrainingPlan, error)
	// ListByUser returns plan headers without entries, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.TrainingPlan, error)
	LinkEntry(ctx context.Context, planID, entryID, sessionID string) (domain.PlanEntry, error)
	GetWeekRule(ctx context.Context, userID string) (domain.WeekRule, error)
	SaveWeekRule(ctx context.Context, r domain.WeekRule) error
}

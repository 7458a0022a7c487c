package orchestrators

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"runtrack/internal/domain/apperr"
	"runtrack/internal/domain/civil"
	"runtrack/internal/domain/plan"
	"runtrack/internal/domain/session"
)

// History window used by the history-based generator.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// TrainingPlanStore defines the plan store interface needed by the training plan orchestrators.
type TrainingPlanStore interface {
	Create(ctx context.Context, p plan.TrainingPlan) error
	GetByID(ctx context.Context, id string) (plan.TrainingPlan, error)
	LinkEntry(ctx context.Context, planID, entryID, sessionID string) (plan.PlanEntry, error)
}

// PlanSessionReader reads the sessions a plan is built from or linked to.
type PlanSessionReader interface {
	GetByID(ctx context.Context, id string) (session.Session, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]session.Session, error)
}

// TrainingPlanDeps holds dependencies for the training plan orchestrators.
type TrainingPlanDeps struct {
	UserStore    UserGetter
	PlanStore    TrainingPlanStore
	SessionStore PlanSessionReader
	GenerateID   func() string
	Now          func() time.Time
}

// --- Create Plan ---

// CreatePlanInput carries input for the create plan orchestrator.
type CreatePlanInput struct {
	UserID          string
	Name            string
	GoalType        string
	TargetEventDate string
	StartDate       string // optional; dates every entry as StartDate + DayIndex
	Meta            map[string]any
	Entries         []plan.PlanEntry
}

// ExecuteCreatePlan stores a caller-authored plan with its entries.
// PRE: entries carry DayIndex >= 0
// POST: plan and entries persisted together; entry IDs are assigned here
func ExecuteCreatePlan(ctx context.Context, input CreatePlanInput, deps TrainingPlanDeps) (plan.TrainingPlan, error) {
	p := plan.TrainingPlan{
		UserID:          input.UserID,
		Name:            strings.TrimSpace(input.Name),
		GoalType:        strings.TrimSpace(input.GoalType),
		TargetEventDate: input.TargetEventDate,
		Meta:            input.Meta,
		Entries:         input.Entries,
	}
	return storePlan(ctx, p, input.StartDate, deps)
}

// --- Generate From History ---

// GenerateHistoryPlanInput carries input for the history-based generator.
type GenerateHistoryPlanInput struct {
	UserID       string
	Weeks        int // 0 means plan.DefaultPlanWeeks
	HistoryLimit int // 0 means DefaultHistoryLimit
	Notes        string
	StartDate    string
}

// ExecuteGenerateHistoryPlan summarizes recent sessions and stores a general
// fitness plan built from them.
// PRE: HistoryLimit in 0..MaxHistoryLimit
// POST: stored plan is marked generated and carries the summary in Meta
func ExecuteGenerateHistoryPlan(ctx context.Context, input GenerateHistoryPlanInput, deps TrainingPlanDeps) (plan.TrainingPlan, error) {
	limit := input.HistoryLimit
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if limit < 0 || limit > MaxHistoryLimit {
		return plan.TrainingPlan{}, apperr.Validation("history limit must be between 1 and %d", MaxHistoryLimit)
	}
	if _, err := ExecuteGetUser(ctx, input.UserID, deps.UserStore); err != nil {
		return plan.TrainingPlan{}, err
	}
	recent, err := deps.SessionStore.ListRecent(ctx, input.UserID, limit)
	if err != nil {
		return plan.TrainingPlan{}, err
	}

	p, err := plan.HistoryPlan(input.Weeks, strings.TrimSpace(input.Notes), historySummary(recent))
	if err != nil {
		return plan.TrainingPlan{}, invalid(err)
	}
	p.UserID = input.UserID
	return storePlan(ctx, p, input.StartDate, deps)
}

func historySummary(sessions []session.Session) map[string]any {
	var distance, energy float64
	var seconds int
	for _, s := range sessions {
		distance += s.TotalDistance
		seconds += s.TotalDurationSeconds
		energy += s.TotalEnergy
	}
	avg := 0.0
	if len(sessions) > 0 {
		avg = distance / float64(len(sessions))
	}
	return map[string]any{
		"sessions":               len(sessions),
		"total_distance":         roundTo(distance, 2),
		"total_duration_seconds": seconds,
		"total_energy":           roundTo(energy, 1),
		"avg_distance":           roundTo(avg, 2),
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// --- Generate From Goal ---

// GenerateGoalPlanInput carries input for the goal-based generator.
type GenerateGoalPlanInput struct {
	UserID    string
	Goal      plan.GoalRequest
	StartDate string
}

// ExecuteGenerateGoalPlan stores a plan shaped by the goal type.
// PRE: Goal.Weeks in 0..plan.MaxPlanWeeks
// POST: stored plan is marked generated
func ExecuteGenerateGoalPlan(ctx context.Context, input GenerateGoalPlanInput, deps TrainingPlanDeps) (plan.TrainingPlan, error) {
	p, err := plan.GoalPlan(input.Goal)
	if err != nil {
		return plan.TrainingPlan{}, invalid(err)
	}
	p.UserID = input.UserID
	return storePlan(ctx, p, input.StartDate, deps)
}

func storePlan(ctx context.Context, p plan.TrainingPlan, startDate string, deps TrainingPlanDeps) (plan.TrainingPlan, error) {
	if startDate != "" {
		start, err := civil.ParseDate(startDate)
		if err != nil {
			return plan.TrainingPlan{}, invalid(err)
		}
		p.AssignDates(start)
	}
	if err := p.Validate(); err != nil {
		return plan.TrainingPlan{}, invalid(err)
	}
	if _, err := ExecuteGetUser(ctx, p.UserID, deps.UserStore); err != nil {
		return plan.TrainingPlan{}, err
	}

	p.ID = deps.GenerateID()
	p.CreatedAt = deps.Now()
	entries := make([]plan.PlanEntry, len(p.Entries))
	for i, e := range p.Entries {
		e.ID = deps.GenerateID()
		e.PlanID = p.ID
		e.LinkedSessionID = ""
		entries[i] = e
	}
	p.Entries = entries

	if err := deps.PlanStore.Create(ctx, p); err != nil {
		return plan.TrainingPlan{}, err
	}
	slog.Info("plan_event", "event", "training_plan_created", "plan_id", p.ID, "user_id", p.UserID,
		"goal_type", p.GoalType, "entries", len(p.Entries), "generated", p.Generated)
	return p, nil
}

// --- Link Plan Entry ---

// LinkPlanEntryInput carries input for the link plan entry orchestrator.
type LinkPlanEntryInput struct {
	PlanID    string
	EntryID   string
	SessionID string
}

// ExecuteLinkPlanEntry records that a plan day was run as a session. Relinking
// replaces the previous session.
// PRE: all IDs are non-empty
// POST: NotFoundError for an unknown plan, entry or session; ValidationError
// when the session belongs to someone other than the plan's user
func ExecuteLinkPlanEntry(ctx context.Context, input LinkPlanEntryInput, deps TrainingPlanDeps) (plan.PlanEntry, error) {
	if input.PlanID == "" || input.EntryID == "" || input.SessionID == "" {
		return plan.PlanEntry{}, apperr.Validation("plan ID, entry ID and session ID are required")
	}
	p, err := deps.PlanStore.GetByID(ctx, input.PlanID)
	if err != nil {
		return plan.PlanEntry{}, classify(err)
	}
	if _, ok := p.Entry(input.EntryID); !ok {
		return plan.PlanEntry{}, apperr.Wrap(apperr.ErrNotFound, plan.ErrPlanEntryNotFound)
	}
	sess, err := deps.SessionStore.GetByID(ctx, input.SessionID)
	if err != nil {
		return plan.PlanEntry{}, classify(err)
	}
	if sess.UserID != p.UserID {
		return plan.PlanEntry{}, invalid(plan.ErrSessionNotOwned)
	}

	e, err := deps.PlanStore.LinkEntry(ctx, p.ID, input.EntryID, sess.ID)
	if err != nil {
		return plan.PlanEntry{}, classify(err)
	}
	slog.Info("plan_event", "event", "entry_linked", "plan_id", p.ID, "entry_id", e.ID, "session_id", sess.ID)
	return e, nil
}

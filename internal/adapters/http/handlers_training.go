package web

import (
	"net/http"

	"runtrack/internal/application/orchestrators"
	"runtrack/internal/application/projections"
	"runtrack/internal/domain/plan"
)

// handleCreatePlan handles POST /plans
func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID          string         `json:"user_id" validate:"required"`
		Name            string         `json:"name" validate:"required,max=200"`
		GoalType        string         `json:"goal_type" validate:"required,max=50"`
		TargetEventDate string         `json:"target_event_date"`
		StartDate       string         `json:"start_date"`
		Meta            map[string]any `json:"meta"`
		Entries         []planEntryDTO `json:"entries" validate:"max=364,dive"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := orchestrators.ExecuteCreatePlan(r.Context(), orchestrators.CreatePlanInput{
		UserID:          req.UserID,
		Name:            req.Name,
		GoalType:        req.GoalType,
		TargetEventDate: req.TargetEventDate,
		StartDate:       req.StartDate,
		Meta:            req.Meta,
		Entries:         toPlanEntries(req.Entries),
	}, s.trainingPlanDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, presentTrainingPlan(p))
}

// handleGenerateHistoryPlan handles POST /plans/generate/history
func (s *Server) handleGenerateHistoryPlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID       string `json:"user_id" validate:"required"`
		Weeks        int    `json:"weeks" validate:"gte=0,lte=52"`
		HistoryLimit int    `json:"history_limit" validate:"gte=0,lte=500"`
		Notes        string `json:"notes" validate:"max=2000"`
		StartDate    string `json:"start_date"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := orchestrators.ExecuteGenerateHistoryPlan(r.Context(), orchestrators.GenerateHistoryPlanInput{
		UserID:       req.UserID,
		Weeks:        req.Weeks,
		HistoryLimit: req.HistoryLimit,
		Notes:        req.Notes,
		StartDate:    req.StartDate,
	}, s.trainingPlanDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, presentTrainingPlan(p))
}

// handleGenerateGoalPlan handles POST /plans/generate/goal
func (s *Server) handleGenerateGoalPlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID                string   `json:"user_id" validate:"required"`
		GoalType              string   `json:"goal_type" validate:"max=50"`
		TargetEventDate       string   `json:"target_event_date"`
		Weeks                 int      `json:"weeks" validate:"gte=0,lte=52"`
		CurrentWeeklyDistance *float64 `json:"current_weekly_distance" validate:"omitempty,gte=0"`
		ExperienceLevel       string   `json:"experience_level" validate:"max=50"`
		Notes                 string   `json:"notes" validate:"max=2000"`
		StartDate             string   `json:"start_date"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := orchestrators.ExecuteGenerateGoalPlan(r.Context(), orchestrators.GenerateGoalPlanInput{
		UserID: req.UserID,
		Goal: plan.GoalRequest{
			GoalType:              req.GoalType,
			TargetEventDate:       req.TargetEventDate,
			Weeks:                 req.Weeks,
			CurrentWeeklyDistance: req.CurrentWeeklyDistance,
			ExperienceLevel:       req.ExperienceLevel,
			Notes:                 req.Notes,
		},
		StartDate: req.StartDate,
	}, s.trainingPlanDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, presentTrainingPlan(p))
}

// handleListPlans handles GET /users/{userId}/plans?limit=
func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	plans, err := projections.QueryListPlans(r.Context(), r.PathValue("userId"), limit, s.planViewDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentTrainingPlans(plans))
}

// handleGetPlan handles GET /plans/{planId}
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	p, err := projections.QueryGetPlanDetail(r.Context(), r.PathValue("planId"), s.planViewDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentTrainingPlan(p))
}

// handleLinkPlanEntry handles POST /plans/{planId}/entries/{entryId}/link
func (s *Server) handleLinkPlanEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id" validate:"required"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	e, err := orchestrators.ExecuteLinkPlanEntry(r.Context(), orchestrators.LinkPlanEntryInput{
		PlanID:    r.PathValue("planId"),
		EntryID:   r.PathValue("entryId"),
		SessionID: req.SessionID,
	}, s.trainingPlanDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentPlanEntry(e))
}

// handleGetWeekRule handles GET /users/{userId}/week-rule
func (s *Server) handleGetWeekRule(w http.ResponseWriter, r *http.Request) {
	rule, err := projections.QueryWeekRule(r.Context(), r.PathValue("userId"), s.planViewDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentWeekRule(rule))
}

// handleSetWeekRule handles PUT /users/{userId}/week-rule
func (s *Server) handleSetWeekRule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Weekday         int     `json:"weekday" validate:"gte=0,lte=6"`
		StartTime       string  `json:"start_time" validate:"required"`
		DurationMinutes int     `json:"duration_minutes" validate:"gt=0,lte=1440"`
		Distance        float64 `json:"distance" validate:"gte=0"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	rule, err := orchestrators.ExecuteSetWeekRule(r.Context(), plan.WeekRule{
		UserID:          r.PathValue("userId"),
		Weekday:         req.Weekday,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Distance:        req.Distance,
	}, s.weekRuleDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentWeekRule(rule))
}

// handleBatchMonth handles POST /calendar/{userId}/batch. Without a weekday
// the saved rule (or the default) is used and the other rule fields are ignored.
func (s *Server) handleBatchMonth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Year            int     `json:"year" validate:"required"`
		Month           int     `json:"month" validate:"gte=1,lte=12"`
		Weekday         *int    `json:"weekday" validate:"omitempty,gte=0,lte=6"`
		StartTime       string  `json:"start_time"`
		DurationMinutes int     `json:"duration_minutes" validate:"gte=0,lte=1440"`
		Distance        float64 `json:"distance" validate:"gte=0"`
		Activity        string  `json:"activity" validate:"max=200"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	input := orchestrators.BatchMonthInput{
		UserID:   r.PathValue("userId"),
		Year:     req.Year,
		Month:    req.Month,
		Activity: req.Activity,
	}
	if req.Weekday != nil {
		input.Rule = &plan.WeekRule{
			Weekday:         *req.Weekday,
			StartTime:       req.StartTime,
			DurationMinutes: req.DurationMinutes,
			Distance:        req.Distance,
		}
	}
	res, err := orchestrators.ExecuteBatchMonth(r.Context(), input, s.weekRuleDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, presentBatch(res))
}

package web

import (
	"net/http"

	"runtrack/internal/application/orchestrators"
	"runtrack/internal/domain/plan"
)

type profileDTO struct {
	HeightCm        float64  `json:"height_cm" validate:"gte=0,lte=300"`
	WeightKg        float64  `json:"weight_kg" validate:"gte=0,lte=500"`
	Age             int      `json:"age" validate:"gte=0,lte=120"`
	GoalType        string   `json:"goal_type" validate:"max=100"`
	TargetDistanceM *float64 `json:"target_distance_m" validate:"omitempty,gt=0"`
	TargetWeightKg  *float64 `json:"target_weight_kg" validate:"omitempty,gt=0"`
	FitnessLevel    string   `json:"fitness_level" validate:"max=20"`
}

type windowDTO struct {
	Weekday   int    `json:"weekday" validate:"gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// handlePlanPreview handles POST /plan/preview
func (s *Server) handlePlanPreview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Profile     profileDTO  `json:"profile"`
		WeeklySlots []windowDTO `json:"weekly_slots" validate:"max=50,dive"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	windows := make([]plan.Window, 0, len(req.WeeklySlots))
	for _, ws := range req.WeeklySlots {
		windows = append(windows, plan.Window{Weekday: ws.Weekday, StartTime: ws.StartTime, EndTime: ws.EndTime})
	}
	p := req.Profile
	res, err := orchestrators.ExecutePreviewPlan(r.Context(), orchestrators.PreviewPlanInput{
		Profile: plan.Profile{
			HeightCm: p.HeightCm, WeightKg: p.WeightKg, Age: p.Age, GoalType: p.GoalType,
			TargetDistanceM: p.TargetDistanceM, TargetWeightKg: p.TargetWeightKg, FitnessLevel: p.FitnessLevel,
		},
		Windows: windows,
	}, orchestrators.PreviewPlanDeps{Planner: s.planner})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentPreview(res))
}

// handlePlanApply handles POST /plan/apply
func (s *Server) handlePlanApply(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID         string   `json:"user_id" validate:"required"`
		WeeklyTemplate []dayDTO `json:"weekly_template" validate:"max=7,dive"`
		StartDate      string   `json:"start_date"`
		Days           int      `json:"days" validate:"gte=0"`
		TimeZone       string   `json:"tz"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := orchestrators.ExecuteApplyTemplate(r.Context(), orchestrators.ApplyTemplateInput{
		UserID:    req.UserID,
		Days:      toDays(req.WeeklyTemplate),
		StartDate: req.StartDate,
		NumDays:   req.Days,
		TimeZone:  req.TimeZone,
	}, orchestrators.ApplyTemplateDeps{
		UserStore:     s.stores.UserStore,
		CalendarStore: s.stores.CalendarStore,
		GenerateID:    generateID,
		Now:           timeNow,
		DefaultZone:   s.opts.DefaultZone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentApply(res))
}

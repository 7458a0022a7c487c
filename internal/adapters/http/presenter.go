package web

import (
	"time"

	"runtrack/internal/adapters/planner"
	"runtrack/internal/application/orchestrators"
	"runtrack/internal/application/projections"
	"runtrack/internal/domain/calendar"
	"runtrack/internal/domain/coach"
	"runtrack/internal/domain/plan"
	"runtrack/internal/domain/session"
	"runtrack/internal/domain/settings"
	"runtrack/internal/domain/stats"
	"runtrack/internal/domain/user"
)

// Presentation precision. Values are stored unrounded.
const (
	distancePlaces = 3
	energyPlaces   = 1
	sharePlaces    = 4
	loadPlaces     = 1
)

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Code      int       `json:"code,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func presentUser(u user.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Role: u.Role, Code: u.Code, CreatedAt: u.CreatedAt}
}

func presentUsers(us []user.User) []userResponse {
	out := make([]userResponse, 0, len(us))
	for _, u := range us {
		out = append(out, presentUser(u))
	}
	return out
}

type settingsResponse struct {
	UserID        string    `json:"user_id"`
	EnergyPerHour float64   `json:"energy_per_hour"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func presentSettings(s settings.Settings) settingsResponse {
	return settingsResponse{UserID: s.UserID, EnergyPerHour: s.EnergyPerHour, UpdatedAt: s.UpdatedAt}
}

type sessionResponse struct {
	ID                   string     `json:"id"`
	UserID               string     `json:"user_id"`
	StartedAt            time.Time  `json:"started_at"`
	EndedAt              *time.Time `json:"ended_at"`
	Active               bool       `json:"active"`
	TotalDistance        float64    `json:"total_distance"`
	TotalDurationSeconds int        `json:"total_duration_seconds"`
	TotalEnergy          float64    `json:"total_energy"`
	EnergyPerHour        float64    `json:"energy_per_hour"`
	Note                 string     `json:"note,omitempty"`
}

func presentSession(s session.Session) sessionResponse {
	return sessionResponse{
		ID:                   s.ID,
		UserID:               s.UserID,
		StartedAt:            s.StartedAt,
		EndedAt:              optionalTime(s.EndedAt),
		Active:               s.IsActive(),
		TotalDistance:        round(s.TotalDistance, distancePlaces),
		TotalDurationSeconds: s.TotalDurationSeconds,
		TotalEnergy:          round(s.TotalEnergy, energyPlaces),
		EnergyPerHour:        s.EnergyPerHour,
		Note:                 s.Note,
	}
}

func presentSessions(ss []session.Session) []sessionResponse {
	out := make([]sessionResponse, 0, len(ss))
	for _, s := range ss {
		out = append(out, presentSession(s))
	}
	return out
}

type measurementResponse struct {
	ID              string     `json:"id"`
	Distance        float64    `json:"distance"`
	DurationSeconds int        `json:"duration_seconds"`
	StartedAt       *time.Time `json:"start_time,omitempty"`
	EndedAt         *time.Time `json:"end_time,omitempty"`
	RecordedAt      time.Time  `json:"recorded_at"`
}

type historySessionResponse struct {
	sessionResponse
	Measurements []measurementResponse `json:"measurements"`
}

type historyResponse struct {
	Sessions        []historySessionResponse `json:"sessions"`
	TotalDistance   float64                  `json:"total_distance"`
	SessionCount    int                      `json:"session_count"`
	AverageDistance float64                  `json:"average_distance"`
}

func presentHistory(h projections.GetSessionHistoryResult) historyResponse {
	out := historyResponse{
		Sessions:        make([]historySessionResponse, 0, len(h.Sessions)),
		TotalDistance:   round(h.TotalDistance, distancePlaces),
		SessionCount:    h.SessionCount,
		AverageDistance: round(h.AverageDistance, distancePlaces),
	}
	for _, s := range h.Sessions {
		ms := make([]measurementResponse, 0, len(s.Measurements))
		for _, m := range s.Measurements {
			ms = append(ms, measurementResponse{
				ID:              m.ID,
				Distance:        round(m.Distance, distancePlaces),
				DurationSeconds: m.DurationSeconds,
				StartedAt:       optionalTime(m.StartedAt),
				EndedAt:         optionalTime(m.EndedAt),
				RecordedAt:      m.RecordedAt,
			})
		}
		out.Sessions = append(out.Sessions, historySessionResponse{sessionResponse: presentSession(s.Session), Measurements: ms})
	}
	return out
}

type probeResponse struct {
	SessionID      string    `json:"session_id"`
	StartedAt      time.Time `json:"started_at"`
	EnergyPerHour  float64   `json:"energy_per_hour"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	Paused         bool      `json:"paused"`
}

func presentProbe(p orchestrators.ProbeResult) probeResponse {
	return probeResponse{SessionID: p.SessionID, StartedAt: p.StartedAt, EnergyPerHour: p.EnergyPerHour, ElapsedSeconds: p.ElapsedSeconds, Paused: p.Paused}
}

// --- Stats ---

type overviewResponse struct {
	RangeDays       int     `json:"range_days"`
	Sessions        int     `json:"sessions"`
	Distance        float64 `json:"distance"`
	DurationSeconds int     `json:"duration_seconds"`
	EstimatedEnergy float64 `json:"estimated_energy"`
}

type dayTotalResponse struct {
	Date            string  `json:"date"`
	Sessions        int     `json:"sessions"`
	Distance        float64 `json:"distance"`
	DurationSeconds int     `json:"duration_seconds"`
	Energy          float64 `json:"energy"`
}

type bucketResponse struct {
	Bucket          string  `json:"bucket"`
	Sessions        int     `json:"sessions"`
	Distance        float64 `json:"distance"`
	DurationSeconds int     `json:"duration_seconds"`
	Share           float64 `json:"share"`
}

type weekLoadResponse struct {
	Week      string  `json:"week"`
	WeekStart string  `json:"week_start"`
	Load      float64 `json:"load"`
}

type loadResponse struct {
	RangeWeeks int                `json:"range_weeks"`
	Weeks      []weekLoadResponse `json:"weeks"`
	Latest     float64            `json:"latest"`
	Mean       float64            `json:"mean"`
}

type dashboardResponse struct {
	TimeZone     string             `json:"time_zone"`
	Overview     overviewResponse   `json:"overview"`
	Daily        []dayTotalResponse `json:"daily"`
	TimeOfDay    []bucketResponse   `json:"time_of_day"`
	TrainingLoad loadResponse       `json:"training_load"`
}

func presentDays(days []stats.DayTotal) []dayTotalResponse {
	out := make([]dayTotalResponse, 0, len(days))
	for _, d := range days {
		out = append(out, dayTotalResponse{
			Date: d.Date, Sessions: d.Sessions, Distance: round(d.Distance, distancePlaces),
			DurationSeconds: d.DurationSeconds, Energy: round(d.Energy, energyPlaces),
		})
	}
	return out
}

func presentDashboard(d projections.GetDashboardResult) dashboardResponse {
	out := dashboardResponse{
		TimeZone: d.TimeZone,
		Overview: overviewResponse{
			RangeDays:       d.Overview.RangeDays,
			Sessions:        d.Overview.Sessions,
			Distance:        round(d.Overview.Distance, distancePlaces),
			DurationSeconds: d.Overview.DurationSeconds,
			EstimatedEnergy: round(d.Overview.EstimatedEnergy, energyPlaces),
		},
		Daily:     presentDays(d.Daily),
		TimeOfDay: make([]bucketResponse, 0, len(d.TimeOfDay)),
		TrainingLoad: loadResponse{
			RangeWeeks: d.TrainingLoad.RangeWeeks,
			Weeks:      make([]weekLoadResponse, 0, len(d.TrainingLoad.Weeks)),
			Latest:     round(d.TrainingLoad.Latest, loadPlaces),
			Mean:       round(d.TrainingLoad.Mean, loadPlaces),
		},
	}
	for _, b := range d.TimeOfDay {
		out.TimeOfDay = append(out.TimeOfDay, bucketResponse{
			Bucket: b.Name, Sessions: b.Sessions, Distance: round(b.Distance, distancePlaces),
			DurationSeconds: b.DurationSeconds, Share: round(b.Share, sharePlaces),
		})
	}
	for _, w := range d.TrainingLoad.Weeks {
		out.TrainingLoad.Weeks = append(out.TrainingLoad.Weeks, weekLoadResponse{Week: w.Week, WeekStart: w.WeekStart, Load: round(w.Load, loadPlaces)})
	}
	return out
}

// --- Records ---

type totalsResponse struct {
	Sessions        int     `json:"sessions"`
	Distance        float64 `json:"distance"`
	DurationSeconds int     `json:"duration_seconds"`
	Energy          float64 `json:"energy"`
}

func presentTotals(t projections.RecordTotals) totalsResponse {
	return totalsResponse{Sessions: t.Sessions, Distance: round(t.Distance, distancePlaces), DurationSeconds: t.DurationSeconds, Energy: round(t.Energy, energyPlaces)}
}

type todayResponse struct {
	Date          string            `json:"date"`
	TimeZone      string            `json:"time_zone"`
	EnergyPerHour float64           `json:"energy_per_hour"`
	Sessions      []sessionResponse `json:"sessions"`
	Totals        totalsResponse    `json:"totals"`
	Active        *sessionResponse  `json:"active"`
	GoalSeconds   int               `json:"goal_seconds"`
}

func presentToday(r projections.GetTodayRecordResult) todayResponse {
	out := todayResponse{
		Date: r.Date, TimeZone: r.TimeZone, EnergyPerHour: r.EnergyPerHour,
		Sessions: presentSessions(r.Sessions), Totals: presentTotals(r.Totals), GoalSeconds: r.GoalSeconds,
	}
	if r.Active != nil {
		a := presentSession(*r.Active)
		out.Active = &a
	}
	return out
}

type recordListResponse struct {
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	TimeZone  string            `json:"time_zone"`
	Sessions  []sessionResponse `json:"sessions"`
	Totals    totalsResponse    `json:"totals"`
}

type recordCalendarResponse struct {
	Year     int                `json:"year"`
	Month    int                `json:"month"`
	TimeZone string             `json:"time_zone"`
	Days     []dayTotalResponse `json:"days"`
}

// --- Plan & calendar ---

type activityDTO struct {
	StartTime       string  `json:"start_time" validate:"required,len=5"`
	DurationMinutes int     `json:"duration_minutes" validate:"gt=0,lte=1440"`
	DistanceKm      float64 `json:"distance_km" validate:"gte=0"`
	Activity        string  `json:"activity" validate:"max=200"`
	Description     string  `json:"description" validate:"max=2000"`
}

type dayDTO struct {
	Weekday    int           `json:"weekday" validate:"gte=0,lte=6"`
	Activities []activityDTO `json:"activities" validate:"dive"`
}

func presentTemplate(t plan.WeeklyTemplate) []dayDTO {
	out := make([]dayDTO, 0, len(t))
	for _, d := range t {
		acts := make([]activityDTO, 0, len(d.Activities))
		for _, a := range d.Activities {
			acts = append(acts, activityDTO{
				StartTime: a.StartTime, DurationMinutes: a.DurationMinutes,
				DistanceKm: round(a.Distance, distancePlaces), Activity: a.Activity, Description: a.Description,
			})
		}
		out = append(out, dayDTO{Weekday: d.Weekday, Activities: acts})
	}
	return out
}

func toDays(in []dayDTO) []plan.Day {
	out := make([]plan.Day, 0, len(in))
	for _, d := range in {
		acts := make([]plan.Activity, 0, len(d.Activities))
		for _, a := range d.Activities {
			acts = append(acts, plan.Activity{
				StartTime: a.StartTime, DurationMinutes: a.DurationMinutes, Distance: a.DistanceKm,
				Activity: a.Activity, Description: a.Description,
			})
		}
		out = append(out, plan.Day{Weekday: d.Weekday, Activities: acts})
	}
	return out
}

type previewResponse struct {
	Source         string   `json:"source"`
	WeeklyTemplate []dayDTO `json:"weekly_template"`
}

func presentPreview(r planner.Result) previewResponse {
	return previewResponse{Source: r.Source, WeeklyTemplate: presentTemplate(r.Template)}
}

type entryResponse struct {
	ID              string  `json:"id"`
	Date            string  `json:"date"`
	StartTime       string  `json:"start_time"`
	DurationMinutes int     `json:"duration_minutes"`
	Distance        float64 `json:"distance"`
	Activity        string  `json:"activity"`
	Description     string  `json:"description"`
}

func presentEntry(e calendar.Entry) entryResponse {
	return entryResponse{
		ID: e.ID, Date: e.Date, StartTime: e.StartTime, DurationMinutes: e.DurationMinutes,
		Distance: round(e.Distance, distancePlaces), Activity: e.Activity, Description: e.Description,
	}
}

func presentEntries(es []calendar.Entry) []entryResponse {
	out := make([]entryResponse, 0, len(es))
	for _, e := range es {
		out = append(out, presentEntry(e))
	}
	return out
}

type applyResponse struct {
	TimeZone     string          `json:"time_zone"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	Created      []entryResponse `json:"created"`
	ClearedDates []string        `json:"cleared_dates"`
}

func presentApply(r orchestrators.ApplyResult) applyResponse {
	out := applyResponse{
		TimeZone: r.TimeZone, StartDate: r.StartDate, EndDate: r.EndDate,
		Created: presentEntries(r.Created), ClearedDates: r.ClearedDates,
	}
	if out.ClearedDates == nil {
		out.ClearedDates = []string{}
	}
	return out
}

type calendarDayResponse struct {
	Date    string          `json:"date"`
	Weekday int             `json:"weekday"`
	IsToday bool            `json:"is_today"`
	Entries []entryResponse `json:"entries"`
}

type monthResponse struct {
	Year     int                   `json:"year"`
	Month    int                   `json:"month"`
	TimeZone string                `json:"time_zone"`
	Days     []calendarDayResponse `json:"days"`
}

func presentMonth(m projections.GetMonthCalendarResult) monthResponse {
	out := monthResponse{Year: m.Year, Month: m.Month, TimeZone: m.TimeZone, Days: make([]calendarDayResponse, 0, len(m.Days))}
	for _, d := range m.Days {
		out.Days = append(out.Days, calendarDayResponse{Date: d.Date, Weekday: d.Weekday, IsToday: d.IsToday, Entries: presentEntries(d.Entries)})
	}
	return out
}

// --- Coach ---

type bindResponse struct {
	Athlete userResponse `json:"athlete"`
	Created bool         `json:"created"`
}

type noteResponse struct {
	ID          string    `json:"id"`
	CoachID     string    `json:"coach_id"`
	AthleteID   string    `json:"athlete_id"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html"`
	CreatedAt   time.Time `json:"created_at"`
}

func presentNote(n coach.Note) (noteResponse, error) {
	html, err := renderMarkdown(n.Content)
	if err != nil {
		return noteResponse{}, err
	}
	return noteResponse{ID: n.ID, CoachID: n.CoachID, AthleteID: n.AthleteID, Content: n.Content, ContentHTML: html, CreatedAt: n.CreatedAt}, nil
}

type planEntryDTO struct {
	ID                    string   `json:"id,omitempty"`
	DayIndex              int      `json:"day_index" validate:"gte=0,lt=364"`
	Date                  string   `json:"date,omitempty"`
	Focus                 string   `json:"focus,omitempty" validate:"max=50"`
	TargetDistance        *float64 `json:"target_distance,omitempty" validate:"omitempty,gte=0"`
	TargetDurationSeconds *int     `json:"target_duration_seconds,omitempty" validate:"omitempty,gte=0"`
	Intensity             string   `json:"intensity,omitempty" validate:"max=50"`
	Warmup                string   `json:"warmup,omitempty" validate:"max=2000"`
	Workout               string   `json:"workout,omitempty" validate:"max=2000"`
	Cooldown              string   `json:"cooldown,omitempty" validate:"max=2000"`
	Nutrition             string   `json:"nutrition,omitempty" validate:"max=2000"`
	Notes                 string   `json:"notes,omitempty" validate:"max=2000"`
	LinkedSessionID       string   `json:"linked_session_id,omitempty"`
}

func presentPlanEntry(e plan.PlanEntry) planEntryDTO {
	return planEntryDTO{
		ID:                    e.ID,
		DayIndex:              e.DayIndex,
		Date:                  e.Date,
		Focus:                 e.Focus,
		TargetDistance:        e.TargetDistance,
		TargetDurationSeconds: e.TargetDurationSeconds,
		Intensity:             e.Intensity,
		Warmup:                e.Warmup,
		Workout:               e.Workout,
		Cooldown:              e.Cooldown,
		Nutrition:             e.Nutrition,
		Notes:                 e.Notes,
		LinkedSessionID:       e.LinkedSessionID,
	}
}

func toPlanEntries(in []planEntryDTO) []plan.PlanEntry {
	out := make([]plan.PlanEntry, 0, len(in))
	for _, e := range in {
		out = append(out, plan.PlanEntry{
			DayIndex:              e.DayIndex,
			Date:                  e.Date,
			Focus:                 e.Focus,
			TargetDistance:        e.TargetDistance,
			TargetDurationSeconds: e.TargetDurationSeconds,
			Intensity:             e.Intensity,
			Warmup:                e.Warmup,
			Workout:               e.Workout,
			Cooldown:              e.Cooldown,
			Nutrition:             e.Nutrition,
			Notes:                 e.Notes,
		})
	}
	return out
}

type trainingPlanResponse struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	Name            string         `json:"name"`
	GoalType        string         `json:"goal_type"`
	TargetEventDate string         `json:"target_event_date,omitempty"`
	Meta            map[string]any `json:"meta,omitempty"`
	Generated       bool           `json:"generated"`
	CreatedAt       time.Time      `json:"created_at"`
	Entries         []planEntryDTO `json:"entries,omitempty"`
}

func presentTrainingPlan(p plan.TrainingPlan) trainingPlanResponse {
	out := trainingPlanResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		Name:            p.Name,
		GoalType:        p.GoalType,
		TargetEventDate: p.TargetEventDate,
		Meta:            p.Meta,
		Generated:       p.Generated,
		CreatedAt:       p.CreatedAt,
	}
	if p.Entries != nil {
		out.Entries = make([]planEntryDTO, 0, len(p.Entries))
		for _, e := range p.Entries {
			out.Entries = append(out.Entries, presentPlanEntry(e))
		}
	}
	return out
}

func presentTrainingPlans(ps []plan.TrainingPlan) []trainingPlanResponse {
	out := make([]trainingPlanResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, presentTrainingPlan(p))
	}
	return out
}

type weekRuleResponse struct {
	UserID          string     `json:"user_id"`
	Weekday         int        `json:"weekday"`
	StartTime       string     `json:"start_time"`
	DurationMinutes int        `json:"duration_minutes"`
	Distance        float64    `json:"distance"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

func presentWeekRule(r plan.WeekRule) weekRuleResponse {
	return weekRuleResponse{
		UserID:          r.UserID,
		Weekday:         r.Weekday,
		StartTime:       r.StartTime,
		DurationMinutes: r.DurationMinutes,
		Distance:        r.Distance,
		UpdatedAt:       optionalTime(r.UpdatedAt),
	}
}

type batchResponse struct {
	Rule    weekRuleResponse `json:"rule"`
	Created []entryResponse  `json:"created"`
	Count   int              `json:"count"`
}

func presentBatch(r orchestrators.BatchMonthResult) batchResponse {
	return batchResponse{Rule: presentWeekRule(r.Rule), Created: presentEntries(r.Created), Count: len(r.Created)}
}

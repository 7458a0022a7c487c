package plan

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"runtrack/internal/domain/civil"
)

// Goal types understood by the heuristic generators. Stored plans may carry any
// non-empty goal type.
const (
	GoalGeneralFitness = "general_fitness"
	GoalWeightLoss     = "weight_loss"
	Goal5K             = "5k_race"
	Goal10K            = "10k_race"
)

// Day focus values written by the generators.
const (
	FocusRest     = "rest"
	FocusEasy     = "easy_run"
	FocusLong     = "long_run"
	FocusInterval = "interval"
	FocusTempo    = "tempo_run"
)

// Intensity values written by the generators.
const (
	IntensityEasy     = "easy"
	IntensityModerate = "moderate"
)

// Training plan limits.
const (
	DefaultPlanWeeks  = 8
	MaxPlanWeeks      = 52
	MaxPlanEntries    = MaxPlanWeeks * DaysPerWeek
	MaxPlanNameLength = 200
	MaxGoalTypeLength = 50
	MaxPlanTextLength = 2000
	maxPlanTagLength  = 50
)

// Meta sources recorded by the generators.
const (
	SourceHistory = "analyze_history"
	SourceGoal    = "goal_based_plan"
)

// Training plan errors
var (
	ErrPlanNotFound      = errors.New("training plan not found")
	ErrPlanEntryNotFound = errors.New("plan entry not found")
	ErrWeekRuleNotFound  = errors.New("week rule not found")
	ErrEmptyPlanUser     = errors.New("user ID is required")
	ErrEmptyPlanName     = errors.New("plan name is required")
	ErrPlanNameTooLong   = errors.New("plan name cannot exceed 200 characters")
	ErrEmptyGoalType     = errors.New("goal type is required")
	ErrGoalTypeTooLong   = errors.New("goal type cannot exceed 50 characters")
	ErrTooManyEntries    = errors.New("plan cannot have more than 364 entries")
	ErrInvalidWeeks      = errors.New("weeks must be between 1 and 52")
	ErrNegativeDayIndex  = errors.New("day index cannot be negative")
	ErrNegativeTarget    = errors.New("targets cannot be negative")
	ErrPlanTextTooLong   = errors.New("plan text fields cannot exceed 2000 characters")
	ErrSessionNotOwned   = errors.New("session belongs to another user")
)

// TrainingPlan is a named multi-week plan stored with its per-day entries.
// Entries are independent of the calendar; linking one to a session records
// that the day was run.
type TrainingPlan struct {
	ID              string
	UserID          string
	Name            string
	GoalType        string
	TargetEventDate string // YYYY-MM-DD or empty
	Meta            map[string]any
	Generated       bool
	CreatedAt       time.Time
	Entries         []PlanEntry
}

// PlanEntry is one day of a training plan. DayIndex counts from the plan's
// first day; Date is optional.
type PlanEntry struct {
	ID                    string
	PlanID                string
	DayIndex              int
	Date                  string // YYYY-MM-DD or empty
	Focus                 string
	TargetDistance        *float64 // km
	TargetDurationSeconds *int
	Intensity             string
	Warmup                string
	Workout               string
	Cooldown              string
	Nutrition             string
	Notes                 string
	LinkedSessionID       string
}

// Validate checks the plan header and every entry.
// PRE: none
// POST: returns nil if valid, error otherwise
func (p *TrainingPlan) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return ErrEmptyPlanUser
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyPlanName
	}
	if len(p.Name) > MaxPlanNameLength {
		return ErrPlanNameTooLong
	}
	if strings.TrimSpace(p.GoalType) == "" {
		return ErrEmptyGoalType
	}
	if len(p.GoalType) > MaxGoalTypeLength {
		return ErrGoalTypeTooLong
	}
	if p.TargetEventDate != "" {
		if _, err := civil.ParseDate(p.TargetEventDate); err != nil {
			return fmt.Errorf("target event date: %w", err)
		}
	}
	if len(p.Entries) > MaxPlanEntries {
		return ErrTooManyEntries
	}
	for i, e := range p.Entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks a single entry.
func (e PlanEntry) Validate() error {
	if e.DayIndex < 0 {
		return ErrNegativeDayIndex
	}
	if e.Date != "" {
		if _, err := civil.ParseDate(e.Date); err != nil {
			return err
		}
	}
	if (e.TargetDistance != nil && *e.TargetDistance < 0) ||
		(e.TargetDurationSeconds != nil && *e.TargetDurationSeconds < 0) {
		return ErrNegativeTarget
	}
	if len(e.Focus) > maxPlanTagLength || len(e.Intensity) > maxPlanTagLength {
		return ErrPlanTextTooLong
	}
	for _, text := range []string{e.Warmup, e.Workout, e.Cooldown, e.Nutrition, e.Notes} {
		if len(text) > MaxPlanTextLength {
			return ErrPlanTextTooLong
		}
	}
	return nil
}

// Entry returns the entry with the given ID.
func (p *TrainingPlan) Entry(id string) (PlanEntry, bool) {
	for _, e := range p.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return PlanEntry{}, false
}

// AssignDates fills Date on every entry as start + DayIndex.
func (p *TrainingPlan) AssignDates(start time.Time) {
	for i := range p.Entries {
		p.Entries[i].Date = civil.FormatDate(civil.AddDays(start, p.Entries[i].DayIndex))
	}
}

func checkWeeks(weeks int) (int, error) {
	if weeks == 0 {
		return DefaultPlanWeeks, nil
	}
	if weeks < 0 || weeks > MaxPlanWeeks {
		return 0, ErrInvalidWeeks
	}
	return weeks, nil
}

func km(v float64) *float64 { return &v }

func minutes(m int) *int {
	s := m * 60
	return &s
}

// day is the per-day shape shared by both generators before common text is added.
type day struct {
	focus    string
	distance *float64
	duration *int
	workout  string
}

func restDay(workout string) day {
	return day{focus: FocusRest, workout: workout}
}

// HistoryPlan builds a general fitness plan of weeks*7 days with rest on days
// 0 and 3, intervals on day 2 and a long run on day 5. summary is stored in
// Meta as the snapshot the plan was built from. Weeks of 0 means
// DefaultPlanWeeks.
// PRE: none
// POST: Generated is true; entries are ordered by DayIndex
func HistoryPlan(weeks int, notes string, summary map[string]any) (TrainingPlan, error) {
	weeks, err := checkWeeks(weeks)
	if err != nil {
		return TrainingPlan{}, err
	}

	entries := make([]PlanEntry, 0, weeks*DaysPerWeek)
	for i := 0; i < weeks*DaysPerWeek; i++ {
		var d day
		switch i % DaysPerWeek {
		case 0, 3:
			d = restDay("Rest day with light stretching or walking.")
		case 5:
			d = day{FocusLong, km(8), minutes(60), "Long easy run, keep the pace comfortable."}
		case 2:
			d = day{FocusInterval, km(5), minutes(45), "Interval training such as 5x800m slightly faster than usual pace."}
		default:
			d = day{FocusEasy, km(5), minutes(40), "Easy run at conversational pace."}
		}
		intensity := IntensityModerate
		if d.focus == FocusEasy || d.focus == FocusLong {
			intensity = IntensityEasy
		}
		entries = append(entries, PlanEntry{
			DayIndex:              i,
			Focus:                 d.focus,
			TargetDistance:        d.distance,
			TargetDurationSeconds: d.duration,
			Intensity:             intensity,
			Warmup:                "5-10 minutes of easy jogging and dynamic stretching.",
			Workout:               d.workout,
			Cooldown:              "5 minutes of easy jogging, then lower-body stretching.",
			Nutrition:             "Stay hydrated and include carbs and protein around training.",
			Notes:                 notes,
		})
	}

	meta := map[string]any{"source": SourceHistory, "overall_stats": summary}
	if notes != "" {
		meta["extra_notes"] = notes
	}
	return TrainingPlan{
		Name:      fmt.Sprintf("Auto plan from history (%d weeks)", weeks),
		GoalType:  GoalGeneralFitness,
		Meta:      meta,
		Generated: true,
		Entries:   entries,
	}, nil
}

// GoalRequest parameterizes GoalPlan.
type GoalRequest struct {
	GoalType              string
	TargetEventDate       string
	Weeks                 int // 0 means DefaultPlanWeeks
	CurrentWeeklyDistance *float64
	ExperienceLevel       string
	Notes                 string
}

// GoalPlan builds a plan shaped by the goal type. Weight loss and general
// fitness rest on days 0 and 3; race goals rest on day 0 only and add tempo
// and interval days. Unknown goal types get the general fitness shape but keep
// their own GoalType.
// PRE: none
// POST: Generated is true; entries are ordered by DayIndex
func GoalPlan(req GoalRequest) (TrainingPlan, error) {
	weeks, err := checkWeeks(req.Weeks)
	if err != nil {
		return TrainingPlan{}, err
	}
	goal := strings.TrimSpace(req.GoalType)
	if goal == "" {
		goal = GoalGeneralFitness
	}
	if req.TargetEventDate != "" {
		if _, err := civil.ParseDate(req.TargetEventDate); err != nil {
			return TrainingPlan{}, fmt.Errorf("target event date: %w", err)
		}
	}

	var (
		name      string
		base      float64
		intensity string
		nutrition string
		dayFor    func(dow int) day
	)
	switch goal {
	case GoalWeightLoss:
		name = fmt.Sprintf("Weight loss plan (%d weeks)", weeks)
		base, intensity = 4, IntensityEasy
		nutrition = "Moderate calorie deficit, high protein, plenty of vegetables."
		dayFor = func(dow int) day {
			if dow == 0 || dow == 3 {
				return restDay("Rest or 20-30 minutes of walking.")
			}
			return day{FocusEasy, km(base), minutes(45), "Low to moderate intensity continuous running."}
		}
	case Goal5K, Goal10K:
		name = fmt.Sprintf("%s training plan (%d weeks)", strings.ToUpper(goal), weeks)
		base, intensity = 5, IntensityModerate
		if goal == Goal10K {
			base = 8
		}
		nutrition = "Carb-focused meals around key sessions, avoid heavy or fatty foods before a run."
		dayFor = func(dow int) day {
			switch dow {
			case 0:
				return restDay("Rest day with light stretching.")
			case 2:
				return day{FocusInterval, km(base), minutes(40), "Intervals: short fast repeats with easy jog recovery."}
			case 4:
				return day{FocusTempo, km(base - 1), minutes(35), "Tempo run slightly faster than normal pace."}
			case 5:
				return day{FocusLong, km(base + 3), minutes(60), "Long easy run to build endurance."}
			}
			return day{FocusEasy, km(base - 2), minutes(30), "Easy run for recovery."}
		}
	default:
		name = fmt.Sprintf("General training plan (%d weeks)", weeks)
		base, intensity = 5, IntensityEasy
		nutrition = "Balanced diet, regular meals, more water and less sugar."
		dayFor = func(dow int) day {
			switch dow {
			case 0, 3:
				return restDay("Rest or light activity.")
			case 5:
				return day{FocusLong, km(base + 3), minutes(60), "Long easy run."}
			}
			return day{FocusEasy, km(base), minutes(40), "Easy run."}
		}
	}

	entries := make([]PlanEntry, 0, weeks*DaysPerWeek)
	for i := 0; i < weeks*DaysPerWeek; i++ {
		d := dayFor(i % DaysPerWeek)
		entries = append(entries, PlanEntry{
			DayIndex:              i,
			Focus:                 d.focus,
			TargetDistance:        d.distance,
			TargetDurationSeconds: d.duration,
			Intensity:             intensity,
			Warmup:                "5-10 minutes easy jog and dynamic stretching.",
			Workout:               d.workout,
			Cooldown:              "5-10 minutes easy walk and static stretching.",
			Nutrition:             nutrition,
			Notes:                 req.Notes,
		})
	}

	meta := map[string]any{"source": SourceGoal, "goal_type": goal}
	if req.TargetEventDate != "" {
		meta["target_event_date"] = req.TargetEventDate
	}
	if req.CurrentWeeklyDistance != nil {
		meta["current_weekly_distance"] = *req.CurrentWeeklyDistance
	}
	if req.ExperienceLevel != "" {
		meta["experience_level"] = req.ExperienceLevel
	}
	if req.Notes != "" {
		meta["extra_notes"] = req.Notes
	}
	return TrainingPlan{
		Name:            name,
		GoalType:        goal,
		TargetEventDate: req.TargetEventDate,
		Meta:            meta,
		Generated:       true,
		Entries:         entries,
	}, nil
}

// WeekRule is a user's single recurring slot used to batch-fill a month.
type WeekRule struct {
	UserID          string
	Weekday         int    // 0 = Monday
	StartTime       string // HH:MM
	DurationMinutes int
	Distance        float64
	UpdatedAt       time.Time // zero for the default rule
}

// DefaultWeekRule is returned for users who never saved a rule.
func DefaultWeekRule(userID string) WeekRule {
	return WeekRule{UserID: userID, Weekday: 0, StartTime: "07:00", DurationMinutes: 45, Distance: 5}
}

// Validate checks the rule.
// PRE: none
// POST: returns nil if valid, error otherwise
func (r WeekRule) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrEmptyPlanUser
	}
	if r.Weekday < 0 || r.Weekday >= DaysPerWeek {
		return ErrInvalidWeekday
	}
	start, err := civil.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return err
	}
	if r.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	if start+r.DurationMinutes > 24*60 {
		return ErrPastMidnight
	}
	if r.Distance < 0 {
		return ErrNegativeDist
	}
	return nil
}

// MonthDates returns every date of the civil month that falls on the rule's weekday.
// PRE: year and month form a valid month
func (r WeekRule) MonthDates(year, month int) ([]time.Time, error) {
	first, next, err := civil.MonthBounds(year, month)
	if err != nil {
		return nil, err
	}
	var out []time.Time
	for _, d := range civil.Dates(first, next) {
		if civil.Weekday(d) == r.Weekday {
			out = append(out, d)
		}
	}
	return out, nil
}

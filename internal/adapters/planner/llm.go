package planner

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"runtrack/internal/domain/apperr"
	"runtrack/internal/domain/plan"
)

//go:embed schema.json
var templateSchema []byte

const systemPrompt = `You are an experienced running coach. You design realistic, safe weekly running plans.
A day may hold zero or more activities. Do not add explicit rest activities; rest is shown by leaving gaps.
Every activity must lie fully inside one of that weekday's availability windows.
Activities on a day are in chronological order and never overlap.
Weekday 0 is Monday and weekday 6 is Sunday.
Answer with strict JSON only.`

const userPromptPrefix = "Design a 7-day weekly running plan. Return ONLY JSON, with no explanations. Here is the input:\n\n"

// Completer sends one system and user prompt pair to a language model and
// returns the raw text of its reply.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// LLM generates templates by delegating to a language model and checking the
// reply against the template schema and the requested windows.
type LLM struct {
	completer Completer
	schema    *jsonschema.Schema
}

// NewLLM compiles the embedded template schema and wraps c.
// PRE: c is non-nil
// POST: the generator is ready for use
func NewLLM(c Completer) (*LLM, error) {
	if c == nil {
		return nil, errors.New("planner: completer is required")
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(templateSchema))
	if err != nil {
		return nil, fmt.Errorf("planner: parse schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("weekly_template.json", doc); err != nil {
		return nil, fmt.Errorf("planner: add schema: %w", err)
	}
	schema, err := compiler.Compile("weekly_template.json")
	if err != nil {
		return nil, fmt.Errorf("planner: compile schema: %w", err)
	}
	return &LLM{completer: c, schema: schema}, nil
}

type promptWindow struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type promptProfile struct {
	HeightCm        float64  `json:"height_cm"`
	WeightKg        float64  `json:"weight_kg"`
	Age             int      `json:"age"`
	GoalType        string   `json:"goal_type"`
	TargetDistanceM *float64 `json:"target_distance_m"`
	TargetWeightKg  *float64 `json:"target_weight_kg"`
	FitnessLevel    string   `json:"fitness_level"`
}

type promptPayload struct {
	RunnerProfile promptProfile  `json:"runner_profile"`
	WeeklySlots   []promptWindow `json:"weekly_slots"`
	OutputFormat  any            `json:"output_format"`
	Constraints   []string       `json:"constraints"`
}

var outputFormat = map[string]any{
	"weekly_template": []map[string]any{{
		"weekday": 0,
		"activities": []map[string]any{{
			"start_time":       "HH:MM",
			"duration_minutes": 30,
			"distance_km":      4.5,
			"activity":         "short title",
			"description":      "what to do",
		}},
	}},
}

var constraints = []string{
	"Use only the weekdays and windows listed in weekly_slots.",
	"Place 2 to 4 activities in each window you use.",
	"Use roughly 70% to 90% of a window's length.",
	"Keep some days easy or free for recovery.",
	"Distances must be realistic for the runner's fitness level.",
}

// BuildUserPrompt renders the request as the JSON payload sent to the model.
func BuildUserPrompt(req Request) (string, error) {
	level, err := req.Profile.Level()
	if err != nil {
		return "", err
	}
	p := promptPayload{
		RunnerProfile: promptProfile{
			HeightCm:        req.Profile.HeightCm,
			WeightKg:        req.Profile.WeightKg,
			Age:             req.Profile.Age,
			GoalType:        req.Profile.GoalType,
			TargetDistanceM: req.Profile.TargetDistanceM,
			TargetWeightKg:  req.Profile.TargetWeightKg,
			FitnessLevel:    level,
		},
		WeeklySlots:  make([]promptWindow, 0, len(req.Windows)),
		OutputFormat: outputFormat,
		Constraints:  constraints,
	}
	for _, w := range req.Windows {
		p.WeeklySlots = append(p.WeeklySlots, promptWindow{Weekday: w.Weekday, StartTime: w.StartTime, EndTime: w.EndTime})
	}
	body, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}
	return userPromptPrefix + string(body), nil
}

type replyActivity struct {
	StartTime       string  `json:"start_time"`
	DurationMinutes int     `json:"duration_minutes"`
	DistanceKm      float64 `json:"distance_km"`
	Activity        string  `json:"activity"`
	Description     string  `json:"description"`
}

type replyDay struct {
	Weekday    int             `json:"weekday"`
	Activities []replyActivity `json:"activities"`
}

type reply struct {
	WeeklyTemplate []replyDay `json:"weekly_template"`
}

// Generate implements WeeklyPlanGenerator.
// PRE: req has passed window validation
// POST: any failure is an UpstreamError; a returned template fits the windows
func (l *LLM) Generate(ctx context.Context, req Request) (plan.WeeklyTemplate, error) {
	prompt, err := BuildUserPrompt(req)
	if err != nil {
		return plan.WeeklyTemplate{}, apperr.Upstream(err, "build prompt")
	}
	raw, err := l.completer.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return plan.WeeklyTemplate{}, apperr.Upstream(err, "model request failed")
	}
	tmpl, err := l.parse(raw)
	if err != nil {
		return plan.WeeklyTemplate{}, apperr.Upstream(err, "model reply rejected")
	}

	byDay, err := plan.WindowsByDay(req.Windows)
	if err != nil {
		return plan.WeeklyTemplate{}, apperr.Upstream(err, "windows")
	}
	for wd, day := range tmpl {
		if err := plan.FitsWindows(day.Activities, byDay[wd]); err != nil {
			return plan.WeeklyTemplate{}, apperr.Upstream(err, "weekday %d does not fit its windows", wd)
		}
		logUtilization(wd, day.Activities, byDay[wd])
	}
	return tmpl, nil
}

func (l *LLM) parse(raw string) (plan.WeeklyTemplate, error) {
	body, err := ExtractJSON(raw)
	if err != nil {
		return plan.WeeklyTemplate{}, err
	}
	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(body))
	if err != nil {
		return plan.WeeklyTemplate{}, fmt.Errorf("decode reply: %w", err)
	}
	if err := l.schema.Validate(inst); err != nil {
		return plan.WeeklyTemplate{}, fmt.Errorf("schema: %w", err)
	}

	var r reply
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return plan.WeeklyTemplate{}, fmt.Errorf("decode reply: %w", err)
	}
	days := make([]plan.Day, 0, len(r.WeeklyTemplate))
	for _, d := range r.WeeklyTemplate {
		acts := make([]plan.Activity, 0, len(d.Activities))
		for _, a := range d.Activities {
			acts = append(acts, plan.Activity{
				StartTime:       a.StartTime,
				DurationMinutes: a.DurationMinutes,
				Distance:        a.DistanceKm,
				Activity:        strings.TrimSpace(a.Activity),
				Description:     strings.TrimSpace(a.Description),
			})
		}
		days = append(days, plan.Day{Weekday: d.Weekday, Activities: acts})
	}
	return plan.NewTemplate(days)
}

// ExtractJSON strips markdown fences and returns the outermost JSON object in s.
func ExtractJSON(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return "", errors.New("no JSON object in reply")
	}
	return s[start : end+1], nil
}

func logUtilization(weekday int, acts []plan.Activity, windows []plan.Window) {
	total := 0
	for _, w := range windows {
		s, e, _ := w.Bounds()
		if e > s {
			total += e - s
		}
	}
	if total == 0 {
		return
	}
	used := 0
	for _, a := range acts {
		used += a.DurationMinutes
	}
	if share := float64(used) / float64(total); share < 0.7 || share > 0.9 {
		slog.Debug("plan_utilization", "weekday", weekday, "share", share)
	}
}

// Package planner turns a runner profile and weekly availability windows into
// a weekly template. A delegated generator backed by a language model is tried
// first when configured; the deterministic split is always the fallback.
package planner

import (
	"context"
	"log/slog"
	"time"

	"runtrack/internal/domain/apperr"
	"runtrack/internal/domain/plan"
)

// Sources reported with a generated template.
const (
	SourceDeterministic = "deterministic"
	SourceOpenAI        = "openai"
	SourceAnthropic     = "anthropic"
)

// Defaults for delegated generation.
const (
	DefaultTimeout     = 20 * time.Second
	DefaultTemperature = 0.6
	DefaultMaxTokens   = 4096
)

// Options tunes a provider completer. Zero fields take the defaults.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

func (o Options) withDefaults(model string) Options {
	if o.Model == "" {
		o.Model = model
	}
	if o.Temperature <= 0 {
		o.Temperature = DefaultTemperature
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	return o
}

// Request is the input shared by every generator.
type Request struct {
	Profile plan.Profile
	Windows []plan.Window
}

// WeeklyPlanGenerator produces a weekly template for a request.
type WeeklyPlanGenerator interface {
	Generate(ctx context.Context, req Request) (plan.WeeklyTemplate, error)
}

// Deterministic splits every window into warm-up, main run and cooldown.
type Deterministic struct{}

// Generate implements WeeklyPlanGenerator.
func (Deterministic) Generate(_ context.Context, req Request) (plan.WeeklyTemplate, error) {
	return plan.BuildDeterministic(req.Profile, req.Windows)
}

// Result is a template tagged with the generator that produced it.
type Result struct {
	Template plan.WeeklyTemplate
	Source   string
}

// Fallback tries Primary under a timeout and falls back to the deterministic
// generator on any failure. A nil Primary means deterministic only.
type Fallback struct {
	Primary     WeeklyPlanGenerator
	PrimaryName string
	Timeout     time.Duration
}

// Plan validates the request, then generates a template.
// PRE: none
// POST: returns a ValidationError for malformed input; never returns an upstream failure
func (f *Fallback) Plan(ctx context.Context, req Request) (Result, error) {
	if _, err := req.Profile.Level(); err != nil {
		return Result{}, apperr.Wrap(apperr.ErrValidation, err)
	}
	if _, err := plan.WindowsByDay(req.Windows); err != nil {
		return Result{}, apperr.Wrap(apperr.ErrValidation, err)
	}

	if f.Primary != nil {
		timeout := f.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		tmpl, err := f.generate(ctx, req, timeout)
		if err == nil {
			slog.Info("plan_generated", "source", f.PrimaryName, "windows", len(req.Windows))
			return Result{Template: tmpl, Source: f.PrimaryName}, nil
		}
		slog.Warn("planner_fallback", "provider", f.PrimaryName, "error", err)
	}

	tmpl, err := Deterministic{}.Generate(ctx, req)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.ErrValidation, err)
	}
	slog.Info("plan_generated", "source", SourceDeterministic, "windows", len(req.Windows))
	return Result{Template: tmpl, Source: SourceDeterministic}, nil
}

type generated struct {
	tmpl plan.WeeklyTemplate
	err  error
}

// generate runs Primary under timeout. A generator that ignores cancellation
// is abandoned; its result is dropped into the buffered channel and discarded.
func (f *Fallback) generate(ctx context.Context, req Request, timeout time.Duration) (plan.WeeklyTemplate, error) {
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan generated, 1)
	go func() {
		tmpl, err := f.Primary.Generate(pctx, req)
		done <- generated{tmpl: tmpl, err: err}
	}()

	select {
	case res := <-done:
		return res.tmpl, res.err
	case <-pctx.Done():
		return plan.WeeklyTemplate{}, pctx.Err()
	}
}

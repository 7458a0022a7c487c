// Package web exposes the run tracking and planning operations as a JSON API.
package web

import (
	"net/http"
	"time"

	"runtrack/internal/adapters/http/middleware"
	"runtrack/internal/adapters/http/perf"
	calendarStore "runtrack/internal/adapters/storage/calendar"
	coachStore "runtrack/internal/adapters/storage/coach"
	planStore "runtrack/internal/adapters/storage/plan"
	sessionStore "runtrack/internal/adapters/storage/session"
	settingsStore "runtrack/internal/adapters/storage/settings"
	userStore "runtrack/internal/adapters/storage/user"
	"runtrack/internal/application/orchestrators"
	"runtrack/internal/application/projections"
)

// Stores holds all storage dependencies.
type Stores struct {
	UserStore      userStore.Store
	SettingsStore  settingsStore.Store
	SessionStore   sessionStore.Store
	CalendarStore  calendarStore.Store
	CoachLinkStore coachStore.LinkStore
	CoachNoteStore coachStore.NoteStore
	PlanStore      planStore.Store
}

// Options tunes request handling. Zero values take safe defaults.
type Options struct {
	DefaultZone        *time.Location // nil means UTC
	DefaultRate        float64        // 0 means the settings default
	RateLimitPerSecond float64        // 0 means 10
	SlowRequest        time.Duration
	CSRFKey            []byte // 32 bytes; required
	SecureCookies      bool
}

// Server owns the dependencies shared by every handler.
type Server struct {
	stores    *Stores
	planner   orchestrators.WeeklyPlanner
	collector *perf.Collector
	opts      Options
}

// NewServer wires a Server.
// PRE: s and planner are non-nil; collector may be nil
// POST: Handler is ready to serve
func NewServer(s *Stores, planner orchestrators.WeeklyPlanner, collector *perf.Collector, opts Options) *Server {
	if opts.DefaultZone == nil {
		opts.DefaultZone = time.UTC
	}
	if opts.RateLimitPerSecond <= 0 {
		opts.RateLimitPerSecond = 10
	}
	return &Server{stores: s, planner: planner, collector: collector, opts: opts}
}

// Handler returns the routed API wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	limiter := middleware.NewRateLimiter(s.opts.RateLimitPerSecond, 0)

	// Apply middleware: Timing -> SecurityHeaders -> RateLimit -> CSRF -> Mux
	return middleware.Chain(mux,
		middleware.CSRF(s.opts.CSRFKey, s.opts.SecureCookies),
		middleware.RateLimit(limiter),
		middleware.SecurityHeaders,
		middleware.Timing(s.collector, s.opts.SlowRequest),
	)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /users/resolve", s.handleResolveUser)
	mux.HandleFunc("POST /users", s.handleRegisterUser)
	mux.HandleFunc("GET /users/{userId}", s.handleGetUser)
	mux.HandleFunc("GET /users/{userId}/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /users/{userId}/settings", s.handleSetSettings)
	mux.HandleFunc("GET /users/{userId}/history", s.handleHistory)

	mux.HandleFunc("POST /session/start", s.handleStartSession)
	mux.HandleFunc("POST /session/measurement", s.handleRecordMeasurement)
	mux.HandleFunc("POST /session/stop", s.handleStopSession)
	mux.HandleFunc("POST /session/pause", s.handleProbe(true))
	mux.HandleFunc("POST /session/resume", s.handleProbe(false))
	mux.HandleFunc("POST /session/import", s.handleImportSession)

	mux.HandleFunc("GET /dashboard/{userId}", s.handleDashboard)
	mux.HandleFunc("GET /records/{userId}", s.handleRecordList)
	mux.HandleFunc("GET /records/{userId}/today", s.handleTodayRecord)
	mux.HandleFunc("GET /records/{userId}/calendar", s.handleRecordCalendar)

	mux.HandleFunc("POST /plan/preview", s.handlePlanPreview)
	mux.HandleFunc("POST /plan/apply", s.handlePlanApply)

	mux.HandleFunc("GET /calendar/{userId}", s.handleMonthCalendar)
	mux.HandleFunc("GET /calendar/{userId}/day", s.handleDayEntries)
	mux.HandleFunc("POST /calendar/{userId}/entries", s.handleCreateDayEntry)
	mux.HandleFunc("DELETE /calendar/{userId}/entries/{entryId}", s.handleDeleteDayEntry)
	mux.HandleFunc("POST /calendar/{userId}/batch", s.handleBatchMonth)

	mux.HandleFunc("POST /plans", s.handleCreatePlan)
	mux.HandleFunc("POST /plans/generate/history", s.handleGenerateHistoryPlan)
	mux.HandleFunc("POST /plans/generate/goal", s.handleGenerateGoalPlan)
	mux.HandleFunc("GET /plans/{planId}", s.handleGetPlan)
	mux.HandleFunc("POST /plans/{planId}/entries/{entryId}/link", s.handleLinkPlanEntry)
	mux.HandleFunc("GET /users/{userId}/plans", s.handleListPlans)
	mux.HandleFunc("GET /users/{userId}/week-rule", s.handleGetWeekRule)
	mux.HandleFunc("PUT /users/{userId}/week-rule", s.handleSetWeekRule)

	mux.HandleFunc("POST /coach/{coachId}/athletes", s.handleBindAthlete)
	mux.HandleFunc("GET /coach/{coachId}/athletes", s.handleCoachAthletes)
	mux.HandleFunc("POST /coach/{coachId}/notes", s.handleCreateNote)
	mux.HandleFunc("GET /athletes/{athleteId}/notes", s.handleAthleteNotes)

	mux.HandleFunc("GET /csrf", s.handleCSRFToken)
	mux.HandleFunc("GET /debug/perf", s.handlePerf)
}

// --- Deps builders ---

func (s *Server) userDeps() orchestrators.RegisterUserDeps {
	return orchestrators.RegisterUserDeps{
		UserStore:  s.stores.UserStore,
		GenerateID: generateID,
		Now:        timeNow,
		RandomCode: orchestrators.RandomAthleteCode,
	}
}

func (s *Server) settingsDeps() orchestrators.SettingsDeps {
	return orchestrators.SettingsDeps{
		UserStore:     s.stores.UserStore,
		SettingsStore: s.stores.SettingsStore,
		Now:           timeNow,
		DefaultRate:   s.opts.DefaultRate,
	}
}

func (s *Server) sessionDeps() orchestrators.SessionDeps {
	return orchestrators.SessionDeps{
		UserStore:     s.stores.UserStore,
		SettingsStore: s.stores.SettingsStore,
		SessionStore:  s.stores.SessionStore,
		GenerateID:    generateID,
		Now:           timeNow,
		DefaultRate:   s.opts.DefaultRate,
	}
}

func (s *Server) dayEntryDeps() orchestrators.DayEntryDeps {
	return orchestrators.DayEntryDeps{
		UserStore:     s.stores.UserStore,
		CalendarStore: s.stores.CalendarStore,
		GenerateID:    generateID,
		Now:           timeNow,
	}
}

func (s *Server) coachDeps() orchestrators.CoachDeps {
	return orchestrators.CoachDeps{
		UserStore:  s.stores.UserStore,
		LinkStore:  s.stores.CoachLinkStore,
		NoteStore:  s.stores.CoachNoteStore,
		GenerateID: generateID,
		Now:        timeNow,
	}
}

func (s *Server) trainingPlanDeps() orchestrators.TrainingPlanDeps {
	return orchestrators.TrainingPlanDeps{
		UserStore:    s.stores.UserStore,
		PlanStore:    s.stores.PlanStore,
		SessionStore: s.stores.SessionStore,
		GenerateID:   generateID,
		Now:          timeNow,
	}
}

func (s *Server) weekRuleDeps() orchestrators.WeekRuleDeps {
	return orchestrators.WeekRuleDeps{
		UserStore:     s.stores.UserStore,
		RuleStore:     s.stores.PlanStore,
		CalendarStore: s.stores.CalendarStore,
		GenerateID:    generateID,
		Now:           timeNow,
	}
}

func (s *Server) planViewDeps() projections.TrainingPlanViewDeps {
	return projections.TrainingPlanViewDeps{
		UserStore: s.stores.UserStore,
		PlanStore: s.stores.PlanStore,
		RuleStore: s.stores.PlanStore,
	}
}

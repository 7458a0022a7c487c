package main

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	web "runtrack/internal/adapters/http"
	"runtrack/internal/adapters/http/perf"
	"runtrack/internal/adapters/planner"
	"runtrack/internal/adapters/storage"
	calendarStore "runtrack/internal/adapters/storage/calendar"
	coachStore "runtrack/internal/adapters/storage/coach"
	planStore "runtrack/internal/adapters/storage/plan"
	sessionStore "runtrack/internal/adapters/storage/session"
	settingsStore "runtrack/internal/adapters/storage/settings"
	userStore "runtrack/internal/adapters/storage/user"
	"runtrack/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	setupLogging(cfg)

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	slog.Info("database_ready", "path", cfg.DBPath)

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQueryThreshold())

	coaches := coachStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		UserStore:      userStore.NewSQLiteStore(timedDB),
		SettingsStore:  settingsStore.NewSQLiteStore(timedDB),
		SessionStore:   sessionStore.NewSQLiteStore(timedDB),
		CalendarStore:  calendarStore.NewSQLiteStore(timedDB),
		CoachLinkStore: coaches,
		CoachNoteStore: coaches,
		PlanStore:      planStore.NewSQLiteStore(timedDB),
	}

	plans, err := buildPlanner(cfg.Planner)
	if err != nil {
		log.Fatalf("failed to configure planner: %v", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("invalid default timezone: %v", err)
	}

	srv := web.NewServer(stores, plans, collector, web.Options{
		DefaultZone:        loc,
		DefaultRate:        cfg.DefaultCaloriesPerHour,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		SlowRequest:        cfg.SlowRequestThreshold(),
		CSRFKey:            csrfKey(cfg),
		SecureCookies:      cfg.IsProduction(),
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env,
			"timezone", loc.String(), "planner", cfg.Planner.Provider)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("server_shutdown", "error", err)
	}
}

func setupLogging(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		opts.Level = slog.LevelDebug
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

// buildPlanner wraps the configured provider in the deterministic fallback.
func buildPlanner(pc config.PlannerConfig) (*planner.Fallback, error) {
	opts := planner.Options{Model: pc.Model, Temperature: pc.Temperature, MaxTokens: pc.MaxTokens}

	var (
		completer planner.Completer
		err       error
	)
	switch pc.Provider {
	case config.ProviderOpenAI:
		completer, err = planner.NewOpenAIFromAPIKey(pc.APIKey, opts)
	case config.ProviderAnthropic:
		completer, err = planner.NewAnthropicFromAPIKey(pc.APIKey, opts)
	default:
		return &planner.Fallback{}, nil
	}
	if err != nil {
		return nil, err
	}
	llm, err := planner.NewLLM(completer)
	if err != nil {
		return nil, err
	}
	return &planner.Fallback{Primary: llm, PrimaryName: pc.Provider, Timeout: pc.Timeout}, nil
}

// csrfKey returns the configured key, or a per-process random key outside production.
func csrfKey(cfg config.Config) []byte {
	if len(cfg.CSRFKey) >= 32 {
		return []byte(cfg.CSRFKey)[:32]
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	slog.Warn("csrf_key_generated", "reason", "RUNTRACK_CSRF_KEY is not set; form tokens reset on restart")
	return key
}

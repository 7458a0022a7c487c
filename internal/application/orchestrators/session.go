package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"runtrack/internal/domain/apperr"
	"runtrack/internal/domain/session"
)

// SessionStoreForOrchestrator defines the session store interface needed by orchestrators.
type SessionStoreForOrchestrator interface {
	Create(ctx context.Context, s session.Session) error
	FindActive(ctx context.Context, userID string) (session.Session, error)
	AddMeasurement(ctx context.Context, userID string, m session.Measurement) (session.Session, error)
	FinishActive(ctx context.Context, userID string, finish func(*session.Session)) (session.Session, error)
	CreateCompleted(ctx context.Context, s session.Session, m session.Measurement) error
}

// SessionDeps holds dependencies for the session lifecycle orchestrators.
type SessionDeps struct {
	UserStore     UserGetter
	SettingsStore SettingsStoreForOrchestrator
	SessionStore  SessionStoreForOrchestrator
	GenerateID    func() string
	Now           func() time.Time
	DefaultRate   float64
}

// --- Start Session ---

// StartSessionInput carries input for the start session orchestrator.
type StartSessionInput struct {
	UserID string
	Note   string
}

// ExecuteStartSession opens a session and captures the user's current energy rate.
// PRE: UserID identifies an existing user
// POST: one active session exists for the user, or a ConflictError is returned
// INVARIANT: concurrent starts are decided by the store, exactly one succeeds
func ExecuteStartSession(ctx context.Context, input StartSessionInput, deps SessionDeps) (session.Session, error) {
	if _, err := ExecuteGetUser(ctx, input.UserID, deps.UserStore); err != nil {
		return session.Session{}, err
	}
	now := deps.Now()
	st, err := loadSettings(ctx, deps.SettingsStore, input.UserID, deps.DefaultRate, now)
	if err != nil {
		return session.Session{}, err
	}

	s := session.Session{
		ID:            deps.GenerateID(),
		UserID:        input.UserID,
		StartedAt:     now,
		EnergyPerHour: st.EnergyPerHour,
		Note:          strings.TrimSpace(input.Note),
	}
	if err := s.Validate(); err != nil {
		return session.Session{}, invalid(err)
	}
	if err := deps.SessionStore.Create(ctx, s); err != nil {
		return session.Session{}, classify(err)
	}

	slog.Info("session_event", "event", "session_started", "session_id", s.ID, "user_id", s.UserID, "energy_per_hour", s.EnergyPerHour)
	return s, nil
}

// --- Record Measurement ---

// RecordMeasurementInput carries input for the record measurement orchestrator.
type RecordMeasurementInput struct {
	UserID          string
	Distance        float64
	DurationSeconds int
	StartedAt       time.Time // optional
	EndedAt         time.Time // optional
}

// ExecuteRecordMeasurement appends a measurement to the user's active session.
// PRE: Distance > 0; DurationSeconds > 0
// POST: session totals equal the sum over all of its measurements
func ExecuteRecordMeasurement(ctx context.Context, input RecordMeasurementInput, deps SessionDeps) (session.Session, error) {
	if input.UserID == "" {
		return session.Session{}, apperr.Validation("user ID is required")
	}
	m := session.Measurement{
		ID:              deps.GenerateID(),
		Distance:        input.Distance,
		DurationSeconds: input.DurationSeconds,
		StartedAt:       input.StartedAt,
		EndedAt:         input.EndedAt,
		RecordedAt:      deps.Now(),
	}
	if err := m.Validate(); err != nil {
		return session.Session{}, invalid(err)
	}

	s, err := deps.SessionStore.AddMeasurement(ctx, input.UserID, m)
	if err != nil {
		return session.Session{}, classify(err)
	}
	slog.Info("session_event", "event", "measurement_recorded", "session_id", s.ID, "user_id", input.UserID,
		"total_distance", s.TotalDistance, "total_duration_seconds", s.TotalDurationSeconds)
	return s, nil
}

// --- Finish Session ---

// FinishSessionInput carries input for the finish session orchestrator.
type FinishSessionInput struct {
	UserID         string
	FinalDistance  *float64
	ElapsedSeconds *int
}

// ExecuteFinishSession closes the user's active session.
// PRE: FinalDistance and ElapsedSeconds, when set, are non-negative
// POST: the session has an end instant; duration resolves elapsed, then accumulated, then wall time
func ExecuteFinishSession(ctx context.Context, input FinishSessionInput, deps SessionDeps) (session.Session, error) {
	if input.UserID == "" {
		return session.Session{}, apperr.Validation("user ID is required")
	}
	if input.FinalDistance != nil && *input.FinalDistance < 0 {
		return session.Session{}, invalid(session.ErrNegativeDistance)
	}
	if input.ElapsedSeconds != nil && *input.ElapsedSeconds < 0 {
		return session.Session{}, invalid(session.ErrNegativeElapsed)
	}

	now := deps.Now()
	s, err := deps.SessionStore.FinishActive(ctx, input.UserID, func(s *session.Session) {
		s.Finish(now, input.FinalDistance, input.ElapsedSeconds)
	})
	if err != nil {
		return session.Session{}, classify(err)
	}
	slog.Info("session_event", "event", "session_finished", "session_id", s.ID, "user_id", s.UserID,
		"total_distance", s.TotalDistance, "total_duration_seconds", s.TotalDurationSeconds, "total_energy", s.TotalEnergy)
	return s, nil
}

// --- Probe Active ---

// ProbeResult describes the active session without changing it.
type ProbeResult struct {
	SessionID      string
	StartedAt      time.Time
	EnergyPerHour  float64
	ElapsedSeconds int
	Paused         bool
}

// ExecuteProbeActive reports on the active session for pause and resume.
// Pausing is advisory: nothing is written and accrual continues.
// PRE: userID is non-empty
// POST: no mutation; Paused echoes the caller's flag
func ExecuteProbeActive(ctx context.Context, userID string, paused bool, deps SessionDeps) (ProbeResult, error) {
	if userID == "" {
		return ProbeResult{}, apperr.Validation("user ID is required")
	}
	s, err := deps.SessionStore.FindActive(ctx, userID)
	if err != nil {
		return ProbeResult{}, classify(err)
	}
	return ProbeResult{
		SessionID:      s.ID,
		StartedAt:      s.StartedAt,
		EnergyPerHour:  s.EnergyPerHour,
		ElapsedSeconds: s.ElapsedSeconds(deps.Now()),
		Paused:         paused,
	}, nil
}

// --- Import Completed Session ---

// ImportSessionInput carries input for the import session orchestrator.
type ImportSessionInput struct {
	UserID          string
	StartedAt       time.Time
	DurationSeconds int
	Distance        float64
	Energy          *float64 // nil means hours x captured rate
}

// ExecuteImportSession stores an already finished session with a single measurement.
// PRE: DurationSeconds > 0; Distance > 0; StartedAt is set
// POST: an ended session exists; an open session of the same user is untouched
func ExecuteImportSession(ctx context.Context, input ImportSessionInput, deps SessionDeps) (session.Session, error) {
	if input.StartedAt.IsZero() {
		return session.Session{}, apperr.Validation("start instant is required")
	}
	if input.Energy != nil && *input.Energy < 0 {
		return session.Session{}, apperr.Validation("energy cannot be negative")
	}
	now := deps.Now()
	start := input.StartedAt.UTC()
	end := start.Add(time.Duration(input.DurationSeconds) * time.Second)

	m := session.Measurement{
		ID:              deps.GenerateID(),
		Distance:        input.Distance,
		DurationSeconds: input.DurationSeconds,
		StartedAt:       start,
		EndedAt:         end,
		RecordedAt:      now,
	}
	if err := m.Validate(); err != nil {
		return session.Session{}, invalid(err)
	}
	if _, err := ExecuteGetUser(ctx, input.UserID, deps.UserStore); err != nil {
		return session.Session{}, err
	}
	st, err := loadSettings(ctx, deps.SettingsStore, input.UserID, deps.DefaultRate, now)
	if err != nil {
		return session.Session{}, err
	}

	s := session.Session{
		ID:                   deps.GenerateID(),
		UserID:               input.UserID,
		StartedAt:            start,
		EndedAt:              end,
		TotalDistance:        input.Distance,
		TotalDurationSeconds: input.DurationSeconds,
		TotalEnergy:          session.Energy(input.DurationSeconds, st.EnergyPerHour),
		EnergyPerHour:        st.EnergyPerHour,
	}
	if input.Energy != nil {
		s.TotalEnergy = *input.Energy
	}
	if err := s.Validate(); err != nil {
		return session.Session{}, invalid(err)
	}
	if err := deps.SessionStore.CreateCompleted(ctx, s, m); err != nil {
		return session.Session{}, classify(err)
	}

	slog.Info("session_event", "event", "session_imported", "session_id", s.ID, "user_id", s.UserID, "started_at", s.StartedAt)
	return s, nil
}

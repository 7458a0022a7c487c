package orchestrators

import (
	"context"
	"fmt"
	"testing"
	"time"

	calendarStore "runtrack/internal/adapters/storage/calendar"
	coachStore "runtrack/internal/adapters/storage/coach"
	planStore "runtrack/internal/adapters/storage/plan"
	sessionStore "runtrack/internal/adapters/storage/session"
	settingsStore "runtrack/internal/adapters/storage/settings"
	"runtrack/internal/adapters/storage/storagetest"
	userStore "runtrack/internal/adapters/storage/user"
	"runtrack/internal/domain/user"
)

// Friday 2026-10-16, 12:00 UTC (07:00 in Chicago).
var fixedTime = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%03d", prefix, n)
	}
}

func sequentialCodes() func() int {
	n := 100
	return func() int {
		n++
		return n
	}
}

// env wires every orchestrator to real SQLite stores on a private database.
type env struct {
	users    *userStore.SQLiteStore
	settings *settingsStore.SQLiteStore
	sessions *sessionStore.SQLiteStore
	calendar *calendarStore.SQLiteStore
	coach    *coachStore.SQLiteStore
	plans    *planStore.SQLiteStore
	clock    *clock
	ids      func() string
	codes    func() int
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := storagetest.Open(t)
	return &env{
		users:    userStore.NewSQLiteStore(db),
		settings: settingsStore.NewSQLiteStore(db),
		sessions: sessionStore.NewSQLiteStore(db),
		calendar: calendarStore.NewSQLiteStore(db),
		coach:    coachStore.NewSQLiteStore(db),
		plans:    planStore.NewSQLiteStore(db),
		clock:    &clock{now: fixedTime},
		ids:      sequentialIDs("id"),
		codes:    sequentialCodes(),
	}
}

func (e *env) registerDeps() RegisterUserDeps {
	return RegisterUserDeps{UserStore: e.users, GenerateID: e.ids, Now: e.clock.Now, RandomCode: e.codes}
}

func (e *env) settingsDeps() SettingsDeps {
	return SettingsDeps{UserStore: e.users, SettingsStore: e.settings, Now: e.clock.Now}
}

func (e *env) sessionDeps() SessionDeps {
	return SessionDeps{
		UserStore: e.users, SettingsStore: e.settings, SessionStore: e.sessions,
		GenerateID: e.ids, Now: e.clock.Now,
	}
}

func (e *env) applyDeps() ApplyTemplateDeps {
	chicago, _ := time.LoadLocation("America/Chicago")
	return ApplyTemplateDeps{UserStore: e.users, CalendarStore: e.calendar, GenerateID: e.ids, Now: e.clock.Now, DefaultZone: chicago}
}

func (e *env) dayEntryDeps() DayEntryDeps {
	return DayEntryDeps{UserStore: e.users, CalendarStore: e.calendar, GenerateID: e.ids, Now: e.clock.Now}
}

func (e *env) coachDeps() CoachDeps {
	return CoachDeps{UserStore: e.users, LinkStore: e.coach, NoteStore: e.coach, GenerateID: e.ids, Now: e.clock.Now}
}

func (e *env) trainingPlanDeps() TrainingPlanDeps {
	return TrainingPlanDeps{UserStore: e.users, PlanStore: e.plans, SessionStore: e.sessions, GenerateID: e.ids, Now: e.clock.Now}
}

func (e *env) weekRuleDeps() WeekRuleDeps {
	return WeekRuleDeps{UserStore: e.users, RuleStore: e.plans, CalendarStore: e.calendar, GenerateID: e.ids, Now: e.clock.Now}
}

func (e *env) register(t *testing.T, name, role string) user.User {
	t.Helper()
	u, err := ExecuteRegisterUser(context.Background(), RegisterUserInput{Name: name, Role: role}, e.registerDeps())
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return u
}

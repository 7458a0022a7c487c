package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"runtrack/internal/domain/apperr"
	"runtrack/internal/domain/calendar"
)

// DayEntryStore defines the calendar store interface needed by the day entry orchestrators.
type DayEntryStore interface {
	Create(ctx context.Context, e calendar.Entry) error
	Delete(ctx context.Context, userID, id string) error
}

// DayEntryDeps holds dependencies for the day entry orchestrators.
type DayEntryDeps struct {
	UserStore     UserGetter
	CalendarStore DayEntryStore
	GenerateID    func() string
	Now           func() time.Time
}

// CreateDayEntryInput carries input for the create day entry orchestrator.
type CreateDayEntryInput struct {
	UserID          string
	Date            string
	StartTime       string
	DurationMinutes int
	Distance        float64
	Activity        string
	Description     string
}

// ExecuteCreateDayEntry adds a single entry to a date.
// PRE: DurationMinutes > 0; Distance >= 0; Date and StartTime are civil strings
// POST: entry persisted alongside any existing entries of the date
func ExecuteCreateDayEntry(ctx context.Context, input CreateDayEntryInput, deps DayEntryDeps) (calendar.Entry, error) {
	e := calendar.Entry{
		ID:              deps.GenerateID(),
		UserID:          input.UserID,
		Date:            input.Date,
		StartTime:       input.StartTime,
		DurationMinutes: input.DurationMinutes,
		Distance:        input.Distance,
		Activity:        strings.TrimSpace(input.Activity),
		Description:     strings.TrimSpace(input.Description),
		CreatedAt:       deps.Now(),
	}
	if err := e.Validate(); err != nil {
		return calendar.Entry{}, invalid(err)
	}
	if _, err := ExecuteGetUser(ctx, input.UserID, deps.UserStore); err != nil {
		return calendar.Entry{}, err
	}
	if err := deps.CalendarStore.Create(ctx, e); err != nil {
		return calendar.Entry{}, err
	}
	slog.Info("calendar_event", "event", "entry_created", "entry_id", e.ID, "user_id", e.UserID, "date", e.Date)
	return e, nil
}

// ExecuteDeleteDayEntry removes one of the user's entries.
// PRE: userID and entryID are non-empty
// POST: entry removed, or NotFoundError when it is unknown or owned by someone else
func ExecuteDeleteDayEntry(ctx context.Context, userID, entryID string, deps DayEntryDeps) error {
	if userID == "" || entryID == "" {
		return apperr.Validation("user ID and entry ID are required")
	}
	if err := deps.CalendarStore.Delete(ctx, userID, entryID); err != nil {
		return classify(err)
	}
	slog.Info("calendar_event", "event", "entry_deleted", "entry_id", entryID, "user_id", userID)
	return nil
}

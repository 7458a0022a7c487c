package calendar

import (
	"errors"
	"strings"
	"testing"

	"runtrack/internal/domain/civil"
)

// TestEntry_Validate tests Entry validation rules.
func TestEntry_Validate(t *testing.T) {
	valid := Entry{
		ID:              "e1",
		UserID:          "u1",
		Date:            "2026-10-19",
		StartTime:       "07:00",
		DurationMinutes: 13,
		Activity:        "Warm-up & mobility",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid entry, got: %v", err)
	}

	tests := []struct {
		name    string
		modify  func(e *Entry)
		wantErr error
	}{
		{"missing user", func(e *Entry) { e.UserID = "" }, ErrEmptyUserID},
		{"bad date", func(e *Entry) { e.Date = "19/10/2026" }, civil.ErrInvalidDate},
		{"bad time", func(e *Entry) { e.StartTime = "7am" }, civil.ErrInvalidTime},
		{"zero duration", func(e *Entry) { e.DurationMinutes = 0 }, ErrInvalidDuration},
		{"over a day", func(e *Entry) { e.DurationMinutes = MaxDurationMinutes + 1 }, ErrDurationTooLong},
		{"negative distance", func(e *Entry) { e.Distance = -1 }, ErrNegativeDistance},
		{"long activity", func(e *Entry) { e.Activity = strings.Repeat("x", MaxActivityLength+1) }, ErrActivityTooLong},
		{"long description", func(e *Entry) { e.Description = strings.Repeat("x", MaxDescriptionLength+1) }, ErrDescTooLong},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := valid
			tc.modify(&e)
			if err := e.Validate(); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

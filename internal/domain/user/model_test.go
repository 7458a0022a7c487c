package user

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// TestUser_Validate tests User validation rules.
func TestUser_Validate(t *testing.T) {
	valid := User{ID: "u1", Name: "Ana", Role: RoleAthlete, Code: 42, CreatedAt: time.Now()}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid user, got: %v", err)
	}

	tests := []struct {
		name    string
		modify  func(u *User)
		wantErr error
	}{
		{"empty name", func(u *User) { u.Name = "  " }, ErrEmptyName},
		{"long name", func(u *User) { u.Name = strings.Repeat("a", MaxNameLength+1) }, ErrNameTooLong},
		{"bad role", func(u *User) { u.Role = "admin" }, ErrInvalidRole},
		{"coach with code", func(u *User) { u.Role = RoleCoach }, ErrCoachCode},
		{"code too high", func(u *User) { u.Code = MaxCode + 1 }, ErrInvalidCode},
		{"negative code", func(u *User) { u.Code = -3 }, ErrInvalidCode},
		{"no created_at", func(u *User) { u.CreatedAt = time.Time{} }, ErrEmptyCreated},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := valid
			tc.modify(&u)
			if err := u.Validate(); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

// TestParseRole tests role normalization.
func TestParseRole(t *testing.T) {
	cases := map[string]string{"": RoleAthlete, "athlete": RoleAthlete, "Coach": RoleCoach, " coach ": RoleCoach}
	for in, want := range cases {
		got, err := ParseRole(in)
		if err != nil || got != want {
			t.Errorf("ParseRole(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseRole("runner"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

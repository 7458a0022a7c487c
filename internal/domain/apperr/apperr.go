// Package apperr classifies failures that cross the application boundary.
// Callers match on the kind sentinels with errors.Is; the message is meant for
// the client.
package apperr

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrUpstream   = errors.New("upstream failure")
)

// Error carries a client-facing message tagged with one of the kinds above.
type Error struct {
	Kind  error
	Msg   string
	Cause error
}

// Error returns the client-facing message.
func (e *Error) Error() string {
	return e.Msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Validation reports malformed input. Nothing has been written when it is returned.
func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// Conflict reports a state clash such as a second open session.
func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Msg: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing user, session, entry or link.
func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Upstream wraps a failure from an external service.
func Upstream(cause error, format string, args ...any) error {
	return &Error{Kind: ErrUpstream, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// Wrap tags cause with kind, keeping cause's message.
func Wrap(kind error, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: cause.Error(), Cause: cause}
}

// Package apperr defines the client-facing failures returned by the user and
// slot accessors. Each failure wraps one of the sentinel errors so callers can
// branch with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrConflict      = errors.New("conflict")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyBooked = errors.New("already booked")
)

type Kind string

const (
	KindValidation    Kind = "validation_error"
	KindConflict      Kind = "conflict"
	KindNotFound      Kind = "not_found"
	KindAlreadyBooked Kind = "already_booked"
)

var sentinels = map[Kind]error{
	KindValidation:    ErrValidation,
	KindConflict:      ErrConflict,
	KindNotFound:      ErrNotFound,
	KindAlreadyBooked: ErrAlreadyBooked,
}

// Error is a typed failure carrying a human readable message and, for
// validation failures, per-field details keyed by JSON field name.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return sentinels[e.Kind]
}

func Validation(msg string, details map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

func Validationf(format string, args ...any) *Error {
	return Validation(fmt.Sprintf(format, args...), nil)
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func AlreadyBookedf(format string, args ...any) *Error {
	return &Error{Kind: KindAlreadyBooked, Message: fmt.Sprintf(format, args...)}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

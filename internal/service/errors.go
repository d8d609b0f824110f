package service

import (
	"errors"
	"fmt"
	"math"
)

// Error kinds. Every error a service returns for an expected failure wraps
// exactly one of these; anything else is an internal failure.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidState    = errors.New("invalid state")
)

// Error pairs a kind with the message shown to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func invalidInput(format string, args ...interface{}) error {
	return newError(ErrInvalidInput, format, args...)
}

func notFound(what string) error { return newError(ErrNotFound, "%s not found", what) }

// PublicMessage returns the caller-facing text of err, or "" when err is
// not a service Error.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

// validAmount rejects negative, NaN and infinite money values.
func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

package custody

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrNotAcceptable = errors.New("not acceptable")
	ErrConflict      = errors.New("conflict")
	ErrInvariant     = errors.New("invariant violation")
)

// Error carries a caller-facing message. Kind is one of the sentinels above,
// so errors.Is(err, ErrNotFound) works on the result of any operation.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...interface{}) *Error {
	return newError(ErrValidation, format, args...)
}

func notFound(format string, args ...interface{}) *Error {
	return newError(ErrNotFound, format, args...)
}

func notAcceptable(format string, args ...interface{}) *Error {
	return newError(ErrNotAcceptable, format, args...)
}

func conflict(format string, args ...interface{}) *Error {
	return newError(ErrConflict, format, args...)
}

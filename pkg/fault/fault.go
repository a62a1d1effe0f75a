// Package fault defines the error taxonomy shared by the data-access layer
// and the domain services. Every error surfaced out of a service is one of
// these kinds; translation to transport status codes happens elsewhere.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicate is returned when a create would violate a uniqueness
	// invariant such as a category name or a user email.
	ErrDuplicate = errors.New("duplicate record")

	// ErrNotFound is returned when a specific id was looked up and does
	// not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNoData is returned when a collection-returning query matched zero
	// records. Distinct from ErrNotFound: callers must be able to tell a
	// missing id from an empty result set.
	ErrNoData = errors.New("no data retrieved")

	// ErrInvalid is returned when a caller-supplied value fails validation.
	ErrInvalid = errors.New("invalid argument")

	// ErrUnauthorized is returned when an operation requiring an
	// authenticated subject was invoked without one.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict is returned when an operation is structurally valid but
	// blocked by a cross-entity rule, e.g. deleting a product that is still
	// referenced by an order detail.
	ErrConflict = errors.New("conflict with existing data")
)

// Error carries a kind sentinel plus a human-readable message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Msg
}

// Unwrap exposes the kind for errors.Is checks.
func (e *Error) Unwrap() error { return e.Kind }

// New creates an error of the given kind with a formatted message.
func New(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Duplicated creates an ErrDuplicate error.
func Duplicated(format string, args ...any) error {
	return New(ErrDuplicate, format, args...)
}

// NotFound creates an ErrNotFound error.
func NotFound(format string, args ...any) error {
	return New(ErrNotFound, format, args...)
}

// NoData creates an ErrNoData error.
func NoData(format string, args ...any) error {
	return New(ErrNoData, format, args...)
}

// Invalid creates an ErrInvalid error.
func Invalid(format string, args ...any) error {
	return New(ErrInvalid, format, args...)
}

// Unauthorized creates an ErrUnauthorized error.
func Unauthorized(format string, args ...any) error {
	return New(ErrUnauthorized, format, args...)
}

// Conflict creates an ErrConflict error.
func Conflict(format string, args ...any) error {
	return New(ErrConflict, format, args...)
}

// Package apperr defines the error kinds surfaced to API callers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
)

// NotFound reports a missing resource, e.g. NotFound("debate").
func NotFound(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

func Forbidden(reason string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, reason)
}

func InvalidState(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, reason)
}

func Conflict(reason string) error {
	return fmt.Errorf("%w: %s", ErrConflict, reason)
}

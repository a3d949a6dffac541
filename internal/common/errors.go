// Package common defines sentinel errors and small shared types used across
// the marketplace server. Callers should use errors.Is / errors.As to match
// these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrDenied is returned when the caller's role does not permit the action.
	// It deliberately carries no hint about which role would have succeeded.
	ErrDenied = errors.New("denied")

	// ErrInvalidTransition is returned when a listing is not in a state the
	// requested action can start from, including a lost race with a
	// concurrent transition.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ValidationError reports a caller-correctable problem with one input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError is a shorthand for &ValidationError{Field: field, Reason: reason}.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ErrStatusConflict is returned by repositories when a conditional write
// found the row in a different state than expected.
var ErrStatusConflict = errors.New("status conflict")

package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates a missing or malformed required field.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the referenced user or movie does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the user already has a movie with the same external id.
	ErrAlreadyExists = errors.New("already exists")

	// ErrPersistence wraps failures of the underlying store.
	ErrPersistence = errors.New("persistence failure")
)

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError returns a ValidationError that matches ErrValidation.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

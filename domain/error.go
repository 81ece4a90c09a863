package domain

import (
	"errors"
	"fmt"
)

// ValidationError is returned when product input data breaks an invariant.
// Reason is the human-readable message surfaced to the user.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface for ValidationError
func (e *ValidationError) Error() string {
	return e.Reason
}

// Is allows proper error type checking with errors.Is()
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// StorageError is returned when the backing file cannot be read or written.
// The in-memory collection stays usable either way.
type StorageError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

// Error implements the error interface for StorageError
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: path=%s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes the underlying I/O error
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is allows proper error type checking with errors.Is()
func (e *StorageError) Is(target error) bool {
	_, ok := target.(*StorageError)
	return ok
}

// Helper functions for creating errors with context

// NewValidationError creates a new ValidationError
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NewStorageError creates a new StorageError wrapping err
func NewStorageError(op, path string, err error) error {
	return &StorageError{Op: op, Path: path, Err: err}
}

// Type assertion helpers for use with errors.As()

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStorageError checks if an error is a StorageError
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

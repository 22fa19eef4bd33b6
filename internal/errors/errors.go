// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated caller doesn't have permission.
	ErrForbidden = errors.New("forbidden")

	// ErrStateConflict indicates the requested transition conflicts with current
	// state (e.g., deactivating a domain that was never activated).
	ErrStateConflict = errors.New("state conflict")

	// ErrPersistence indicates the record store rejected a write. Writes are never
	// retried automatically; the caller must resubmit.
	ErrPersistence = errors.New("persistence failure")

	// ErrUpstream indicates a third-party API call failed (transport error or non-2xx).
	ErrUpstream = errors.New("upstream failure")

	// ErrNoConfiguration indicates a required configuration value is missing.
	ErrNoConfiguration = errors.New("missing configuration")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// CodedError attaches a machine-readable API error code to an error while
// preserving the wrapped sentinel for HTTP status mapping. Handlers surface
// the code in the response body (e.g., "key_expired", "limit_reached").
type CodedError struct {
	Code string
	Err  error
}

// Error returns the message of the wrapped error.
func (e *CodedError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error for errors.Is/As traversal.
func (e *CodedError) Unwrap() error {
	return e.Err
}

// WithCode wraps an error with an API error code.
func WithCode(err error, code string) error {
	if err == nil {
		return nil
	}
	return &CodedError{Code: code, Err: err}
}

// Code extracts the API error code from an error tree, or returns "" when
// no CodedError is present.
func Code(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

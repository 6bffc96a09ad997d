// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Selection errors.
	ErrEmptySelection  = errors.New("no documents selected")
	ErrNotSelectable   = errors.New("document is not selectable")
	ErrUnknownDocument = errors.New("unknown document")

	// Job errors.
	ErrJobNotFound   = errors.New("analysis job not found")
	ErrTrackerActive = errors.New("analysis already in progress")

	// Configuration errors.
	ErrConfigUnavailable = errors.New("pricing config unavailable")
	ErrInvalidConfig     = errors.New("invalid configuration")

	// Storage errors.
	ErrNotFound = errors.New("not found")
)

// ValidationError represents invalid caller input. It is surfaced
// synchronously and never retried automatically.
type ValidationError struct {
	Err     error
	Message string
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, err error) error {
	return &ValidationError{Message: message, Err: err}
}

// TransportError wraps a network or API failure from a remote collaborator.
// Fetch callers surface it for an explicit user retry; the poll loop swallows
// it and tries again on the next tick.
type TransportError struct {
	Err       error
	Operation string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps err as a transport failure of the named operation.
func NewTransportError(operation string, err error) error {
	return &TransportError{Operation: operation, Err: err}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var transportErr *TransportError
	return errors.As(err, &transportErr) || errors.Is(err, context.DeadlineExceeded)
}

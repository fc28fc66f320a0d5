package apperr

import (
	"errors"
	"fmt"
)

// Closed set of application error tags. Services wrap these with context via
// %w; handlers map them to HTTP status codes with errors.Is, keeping transport
// concerns out of the domain layer.

var (
	// ErrInvalidOperation indicates malformed or nonsensical input
	// (self-request, unknown status value)
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data
	// (duplicate active request, duplicate email)
	ErrConflict = errors.New("conflict")

	// ErrForbidden indicates the caller may not perform this action
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized indicates missing or invalid authentication
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")
)

// InvalidOperation creates an invalid operation error with context
func InvalidOperation(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrInvalidOperation)
}

// NotFound creates a not found error naming the missing resource
func NotFound(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// Conflict creates a conflict error with context
func Conflict(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrConflict)
}

// Forbidden creates a forbidden error with context
func Forbidden(reason string) error {
	if reason == "" {
		return ErrForbidden
	}
	return fmt.Errorf("%s: %w", reason, ErrForbidden)
}

// Unauthorized creates an unauthorized error with context
func Unauthorized(reason string) error {
	if reason == "" {
		return ErrUnauthorized
	}
	return fmt.Errorf("%s: %w", reason, ErrUnauthorized)
}

// Internal wraps an unexpected error so storage detail never reaches clients
func Internal(msg string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %v: %w", msg, err, ErrInternal)
	}
	return fmt.Errorf("%s: %w", msg, ErrInternal)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}

/*
errors.go - Centralized error types for the analytics layer

PURPOSE:
  Derivations are total and never fail over well-formed input. Errors only
  appear when a caller asks for something that does not exist (an unknown
  id) or hands over input that cannot be interpreted at all. Domain packages
  wrap these sentinels with their own context.

USAGE:

    if errors.Is(err, analytics.ErrNotFound) {
        // map to 404
    }

SEE ALSO:
  - welfare/errors.go: domain-specific wrappers
  - api/handlers.go: maps the predicates below to HTTP status codes
*/
package analytics

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is the root of every "unknown id" failure.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a query parameter cannot be parsed.
	ErrInvalidInput = errors.New("invalid input")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError names the kind and key of a missing entity.
type NotFoundError struct {
	Kind string // e.g. "company", "service"
	Key  string
	// Sentinel is an optional domain sentinel also matched by errors.Is.
	Sentinel error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

func (e *NotFoundError) Unwrap() []error {
	if e.Sentinel != nil {
		return []error{ErrNotFound, e.Sentinel}
	}
	return []error{ErrNotFound}
}

// InputError describes a rejected parameter.
type InputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error is an unknown-id failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsClientError returns true if the error was caused by the caller's input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

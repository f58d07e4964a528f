// Package ports defines interfaces for external service communication.
package ports

import "errors"

// Sentinel errors shared across port implementations.
var (
	// ErrNotFound is returned when a record or remote resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAuthRequired is returned when a provider rejects the call for lack
	// of credentials. Callers fall back to the next strategy instead of
	// retrying.
	ErrAuthRequired = errors.New("authentication required")

	// ErrUnparseable is returned when a structured-output call produced a
	// response that failed schema validation. Treated like any other
	// transient source failure.
	ErrUnparseable = errors.New("unparseable structured response")
)

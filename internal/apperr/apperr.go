// Package apperr defines the error taxonomy shared across the workflow.
// Components raise the most specific error they can detect; only the HTTP
// boundary translates these into status codes and response bodies.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates an unknown share or payment session identifier.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition indicates an attempted backward status move that
	// was not routed through the privileged reset.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrGateway indicates the external payment gateway failed or was
	// unreachable. Safe to retry later; never retried automatically.
	ErrGateway = errors.New("payment gateway failure")

	// ErrMissingUser indicates a privileged operation was invoked without a
	// user id.
	ErrMissingUser = errors.New("user id is required")
)

// ValidationError reports client-fixable input problems with per-field detail.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return "validation failed: missing " + strings.Join(e.Fields, ", ")
}

// ResetError wraps a failed privileged reset. Partial reports whether the
// store may have applied some of the teardown before failing; a partial reset
// needs operator intervention rather than a client-side retry.
type ResetError struct {
	Partial bool
	Err     error
}

func (e *ResetError) Error() string {
	if e.Partial {
		return fmt.Sprintf("reset partially applied: %v", e.Err)
	}
	return fmt.Sprintf("reset failed: %v", e.Err)
}

func (e *ResetError) Unwrap() error {
	return e.Err
}

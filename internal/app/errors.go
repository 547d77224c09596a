package app

import (
	"github.com/cockroachdb/errors"

	"github.com/cylin-ms/scenara-sub003/internal/config"
)

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	// ErrCancelled is returned when the caller's context ends mid-analysis.
	// The error also matches the context's own error.
	ErrCancelled = errors.New("analysis cancelled")

	// ErrInvariantViolation indicates a bug: ingested or classified
	// interactions broke a data-model invariant.
	ErrInvariantViolation = errors.New("internal invariant violation")
)

func cancelled(cause error, phase string) error {
	return errors.Mark(errors.Wrapf(cause, "analyze cancelled before %s", phase), ErrCancelled)
}

func invalidRequest(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), config.ErrInvalidConfig)
}

func violation(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvariantViolation)
}

package usecase

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/riskibarqy/matchday/internal/platform/resilience"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrConflict              = errors.New("conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// dependencyError marks a store failure as retryable for the caller.
func dependencyError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDependencyUnavailable, op, err)
}

func isDependencyError(err error) bool {
	return errors.Is(err, ErrDependencyUnavailable)
}

// writeNeverSent reports whether a failed store write provably never reached
// the database. Timeouts and dropped connections leave the outcome unknown.
func writeNeverSent(err error) bool {
	return errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, syscall.ECONNREFUSED)
}

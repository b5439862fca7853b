/*
errors.go - Centralized error types for the lease engine

PURPOSE:
  All engine error types in one place. Engine functions never catch their
  own errors - they raise and let the caller decide whether to report or
  abort. The caller is responsible for formatting and display.

ERROR CATEGORIES:
  1. InvalidInput - malformed or out-of-domain arguments
  2. InconsistentLength - payment stream does not match the declared term
  3. ModificationTiming - modification dated on or before lease start

USAGE:
  Callers classify with errors.Is:

    if errors.Is(err, engine.ErrInvalidInput) {
        // 400, not 500
    }
*/
package engine

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned for malformed or out-of-domain arguments:
	// empty payment list, negative rate, non-positive ROU asset, residual
	// at or above the ROU asset, zero calendar-day span, term below 1.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInconsistentLength is returned when the payment sequence length
	// does not match the declared term length. Raised before any
	// computation proceeds.
	ErrInconsistentLength = errors.New("payment stream length does not match term")

	// ErrModificationTiming is returned when a modification effective date
	// is not strictly after the lease start. This is a user-input timing
	// mistake rather than a programming error.
	ErrModificationTiming = errors.New("modification must be dated after lease start")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInputError describes which argument violated its domain.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// InconsistentLengthError carries the declared and actual stream lengths.
type InconsistentLengthError struct {
	Declared int
	Actual   int
}

func (e *InconsistentLengthError) Error() string {
	return fmt.Sprintf("payment stream has %d entries but term declares %d months", e.Actual, e.Declared)
}

func (e *InconsistentLengthError) Unwrap() error { return ErrInconsistentLength }

// ModificationTimingError carries the offending dates.
type ModificationTimingError struct {
	EffectiveDate time.Time
	LeaseStart    time.Time
}

func (e *ModificationTimingError) Error() string {
	return fmt.Sprintf("modification effective %s is not after lease start %s",
		e.EffectiveDate.Format("2006-01-02"), e.LeaseStart.Format("2006-01-02"))
}

func (e *ModificationTimingError) Unwrap() error { return ErrModificationTiming }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input
// rather than an internal fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInconsistentLength) ||
		errors.Is(err, ErrModificationTiming)
}

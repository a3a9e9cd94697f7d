/*
errors.go - Centralized error types for the premium engine

PURPOSE:
  All sentinel errors in one place for consistency and discoverability.
  Validation findings are NOT errors - they are ValidationError values
  collected into a list. Go errors are reserved for contract breaches:
  missing reference data that validation should have caught, misconfigured
  coefficient bands, and storage failures.

ERROR CATEGORIES:
  1. Reference errors  - Lookups that found nothing (unknown/inactive code)
  2. Configuration errors - Reference data that cannot answer a valid request
  3. Request errors    - No usable pricing basis

USAGE:
  if errors.Is(err, quote.ErrAgeBandNotConfigured) {
      // reference data gap: fatal for this request, not retried
  }

SEE ALSO:
  - refdata/repository.go: Lookups returning these errors
  - engine/engine.go: Maps them to request outcomes
*/
package quote

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrCountryNotFound is returned when no country record is active for
	// the requested code on the as-of date.
	ErrCountryNotFound = errors.New("country not found")

	// ErrCoverageLevelNotFound is returned when no coverage level record is
	// active for the requested code on the as-of date.
	ErrCoverageLevelNotFound = errors.New("coverage level not found")

	// ErrRiskTypeNotFound is returned when a selected risk code has no
	// active record.
	ErrRiskTypeNotFound = errors.New("risk type not found")

	// ErrAgeBandNotConfigured indicates a gap in the age coefficient bands.
	// Bands are contiguous and non-overlapping; an unmatched age is a
	// configuration error, not a client error.
	ErrAgeBandNotConfigured = errors.New("no age coefficient band configured for age")

	// ErrDurationBandNotConfigured indicates a gap in the duration
	// coefficient bands.
	ErrDurationBandNotConfigured = errors.New("no duration coefficient band configured for day count")

	// ErrNoPricingBasis is returned when country-default mode is selected,
	// no default rate exists, and no coverage level code is available to
	// fall back to.
	ErrNoPricingBasis = errors.New("no pricing basis: no default rate and no coverage level to fall back to")

	// ErrPromoExhausted is returned by the redeemer when the usage cap is
	// already reached. The discount resolver drops the promo silently.
	ErrPromoExhausted = errors.New("promo code usage cap reached")

	// ErrDecisionLogFailed wraps audit persistence failures. Logged, never
	// surfaced to the caller.
	ErrDecisionLogFailed = errors.New("decision log append failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ReferenceError reports a failed effective-dated lookup with the code that
// missed. A reference miss after validation passed is a contract breach and
// is fatal for the request.
type ReferenceError struct {
	Kind string // "country", "coverage_level", "risk_type"
	Code string
	Err  error
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Code, e.Err)
}

func (e *ReferenceError) Unwrap() error { return e.Err }

// ConfigError reports reference data that cannot serve a valid request
// (band gaps, missing tunables with no fallback).
type ConfigError struct {
	Detail string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration inconsistency: %s: %v", e.Detail, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether the error is a reference miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCountryNotFound) ||
		errors.Is(err, ErrCoverageLevelNotFound) ||
		errors.Is(err, ErrRiskTypeNotFound)
}

// IsConfigError reports whether the error indicates inconsistent reference
// configuration - an unrecoverable request failure, never retried.
func IsConfigError(err error) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return true
	}
	return errors.Is(err, ErrAgeBandNotConfigured) ||
		errors.Is(err, ErrDurationBandNotConfigured) ||
		errors.Is(err, ErrNoPricingBasis)
}

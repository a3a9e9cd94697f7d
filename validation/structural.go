/*
structural.go - Structural validation rules (order band 10-99)

PURPOSE:
  Presence, shape, and length checks. All structural findings are CRITICAL:
  every later rule assumes these fields exist, so in practice the first
  failing field stops the request entirely.

RULES:
  10  personName not blank, length <= 200
  20  birthDate present
  30  tripStart and tripEnd present
  40  countryCode present, ISO alpha-2 shape
  50  pricing-mode invariant: coverage level code required unless the
      country-default flag is set

SEE ALSO:
  - pipeline.go: Execution model
  - business.go: Value-range rules that run after these
*/
package validation

import (
	"context"
	"strings"

	"github.com/warp/premium-engine/quote"
)

const maxPersonNameLength = 200

// =============================================================================
// 10 - PERSON NAME
// =============================================================================

type personNameRule struct{}

func (r *personNameRule) Name() string   { return "person-name" }
func (r *personNameRule) Order() int     { return 10 }
func (r *personNameRule) Critical() bool { return true }

func (r *personNameRule) Evaluate(_ context.Context, req *quote.Request, _ *quote.TripContext) []quote.ValidationError {
	name := strings.TrimSpace(req.PersonName)
	if name == "" {
		return []quote.ValidationError{critical("personName", "must not be blank")}
	}
	if len(name) > maxPersonNameLength {
		return []quote.ValidationError{withParams(
			critical("personName", "must not exceed maximum length"),
			map[string]string{"maxLength": "200"},
		)}
	}
	return nil
}

// =============================================================================
// 20 - BIRTH DATE PRESENT
// =============================================================================

type birthDatePresentRule struct{}

func (r *birthDatePresentRule) Name() string   { return "birth-date-present" }
func (r *birthDatePresentRule) Order() int     { return 20 }
func (r *birthDatePresentRule) Critical() bool { return true }

func (r *birthDatePresentRule) Evaluate(_ context.Context, req *quote.Request, _ *quote.TripContext) []quote.ValidationError {
	if req.BirthDate.IsZero() {
		return []quote.ValidationError{critical("birthDate", "must not be empty")}
	}
	return nil
}

// =============================================================================
// 30 - TRIP DATES PRESENT
// =============================================================================

type tripDatesPresentRule struct{}

func (r *tripDatesPresentRule) Name() string   { return "trip-dates-present" }
func (r *tripDatesPresentRule) Order() int     { return 30 }
func (r *tripDatesPresentRule) Critical() bool { return true }

func (r *tripDatesPresentRule) Evaluate(_ context.Context, req *quote.Request, _ *quote.TripContext) []quote.ValidationError {
	var out []quote.ValidationError
	if req.TripStart.IsZero() {
		out = append(out, critical("tripStart", "must not be empty"))
	}
	if req.TripEnd.IsZero() {
		out = append(out, critical("tripEnd", "must not be empty"))
	}
	return out
}

// =============================================================================
// 40 - COUNTRY CODE SHAPE
// =============================================================================

type countryCodeShapeRule struct{}

func (r *countryCodeShapeRule) Name() string   { return "country-code-shape" }
func (r *countryCodeShapeRule) Order() int     { return 40 }
func (r *countryCodeShapeRule) Critical() bool { return true }

func (r *countryCodeShapeRule) Evaluate(_ context.Context, req *quote.Request, _ *quote.TripContext) []quote.ValidationError {
	code := req.CountryCode
	if code == "" {
		return []quote.ValidationError{critical("countryCode", "must not be empty")}
	}
	if !isISOAlpha2(code) {
		return []quote.ValidationError{withParams(
			critical("countryCode", "must be an ISO 3166-1 alpha-2 code"),
			map[string]string{"value": code},
		)}
	}
	return nil
}

func isISOAlpha2(code string) bool {
	if len(code) != 2 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

// =============================================================================
// 50 - PRICING MODE INVARIANT
// =============================================================================

// pricingModeRule enforces "exactly one pricing mode is active": a coverage
// level code is required unless the country-default flag is set.
type pricingModeRule struct{}

func (r *pricingModeRule) Name() string   { return "pricing-mode" }
func (r *pricingModeRule) Order() int     { return 50 }
func (r *pricingModeRule) Critical() bool { return true }

func (r *pricingModeRule) Evaluate(_ context.Context, req *quote.Request, _ *quote.TripContext) []quote.ValidationError {
	if req.CoverageLevelCode == "" && !req.UseCountryDefault {
		return []quote.ValidationError{critical("coverageLevelCode",
			"must be provided unless country default rate is requested")}
	}
	return nil
}

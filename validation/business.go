/*
business.go - Business validation rules (order band 100-199)

PURPOSE:
  Value-range and policy checks that run once the structural tier has
  guaranteed field presence. Findings are ERROR (collected, non-halting)
  except the advisory date warnings.

RULES:
  100  birth date must be in the past
  110  trip date ordering; start-in-past and start-too-far-ahead warnings
  120  age bounds 0-80 (writes Age into the context)
  130  trip duration 1-365 days, end - start (writes TripDays)
  140  mandatory risks must not be selected explicitly
  150  duplicate risk codes, one finding per duplicated index

DURATION CONVENTION:
  Duration here is end - start in whole days (exclusive). The same
  convention feeds the duration-coefficient lookup and both strategies'
  day count, so a 1st-to-15th trip validates and prices as 14 days.

SEE ALSO:
  - structural.go: Presence checks these rules rely on
  - reference.go: Reference-data existence checks
*/
package validation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/warp/premium-engine/quote"
)

const (
	minInsurableAge = 0
	maxInsurableAge = 80

	maxTripDays = 365

	// maxStartLeadDays is how far ahead a trip may start before the
	// pipeline raises an advisory warning (not an error).
	maxStartLeadDays = 365
)

// =============================================================================
// 100 - BIRTH DATE IN PAST
// =============================================================================

type birthDateInPastRule struct{}

func (r *birthDateInPastRule) Name() string   { return "birth-date-in-past" }
func (r *birthDateInPastRule) Order() int     { return 100 }
func (r *birthDateInPastRule) Critical() bool { return false }

func (r *birthDateInPastRule) Evaluate(_ context.Context, req *quote.Request, _ *quote.TripContext) []quote.ValidationError {
	if req.BirthDate.IsZero() {
		return nil
	}
	if !req.BirthDate.Before(time.Now()) {
		return []quote.ValidationError{fieldError("birthDate", "must be in the past")}
	}
	return nil
}

// =============================================================================
// 110 - TRIP DATE ORDERING
// =============================================================================

type tripDateOrderRule struct{}

func (r *tripDateOrderRule) Name() string   { return "trip-date-order" }
func (r *tripDateOrderRule) Order() int     { return 110 }
func (r *tripDateOrderRule) Critical() bool { return false }

func (r *tripDateOrderRule) Evaluate(_ context.Context, req *quote.Request, _ *quote.TripContext) []quote.ValidationError {
	if req.TripStart.IsZero() || req.TripEnd.IsZero() {
		return nil
	}

	var out []quote.ValidationError
	if req.TripEnd.Before(req.TripStart) {
		out = append(out, fieldError("tripStart", "must not be after tripEnd"))
	}

	today := time.Now().Truncate(24 * time.Hour)
	if req.TripStart.Before(today) {
		out = append(out, warning("tripStart", "trip start date is already in the past"))
	}
	if req.TripStart.After(today.AddDate(0, 0, maxStartLeadDays)) {
		out = append(out, withParams(
			warning("tripStart", "trip starts more than a year ahead"),
			map[string]string{"maxLeadDays": strconv.Itoa(maxStartLeadDays)},
		))
	}
	return out
}

// =============================================================================
// 120 - AGE BOUNDS
// =============================================================================

// ageBoundsRule computes the applicant's age at trip start and checks the
// insurable range. Within bounds, the age is written into the context for
// reuse by pricing and underwriting.
type ageBoundsRule struct{}

func (r *ageBoundsRule) Name() string   { return "age-bounds" }
func (r *ageBoundsRule) Order() int     { return 120 }
func (r *ageBoundsRule) Critical() bool { return false }

func (r *ageBoundsRule) Evaluate(_ context.Context, req *quote.Request, tctx *quote.TripContext) []quote.ValidationError {
	if req.BirthDate.IsZero() || req.TripStart.IsZero() {
		return nil
	}

	age := quote.AgeAt(req.BirthDate, req.TripStart)
	if age < minInsurableAge || age > maxInsurableAge {
		return []quote.ValidationError{withParams(
			fieldError("birthDate", fmt.Sprintf("age at trip start must be between %d and %d", minInsurableAge, maxInsurableAge)),
			map[string]string{"age": strconv.Itoa(age), "min": strconv.Itoa(minInsurableAge), "max": strconv.Itoa(maxInsurableAge)},
		)}
	}

	tctx.Age = &age
	return nil
}

// =============================================================================
// 130 - TRIP DURATION
// =============================================================================

type tripDurationRule struct{}

func (r *tripDurationRule) Name() string   { return "trip-duration" }
func (r *tripDurationRule) Order() int     { return 130 }
func (r *tripDurationRule) Critical() bool { return false }

func (r *tripDurationRule) Evaluate(_ context.Context, req *quote.Request, tctx *quote.TripContext) []quote.ValidationError {
	if req.TripStart.IsZero() || req.TripEnd.IsZero() || req.TripEnd.Before(req.TripStart) {
		return nil
	}

	days := quote.WholeDays(req.TripStart, req.TripEnd)
	if days < 1 {
		return []quote.ValidationError{fieldError("tripEnd", "trip must last at least one day")}
	}
	if days > maxTripDays {
		return []quote.ValidationError{withParams(
			fieldError("tripEnd", fmt.Sprintf("trip duration must not exceed %d days", maxTripDays)),
			map[string]string{"days": strconv.Itoa(days), "max": strconv.Itoa(maxTripDays)},
		)}
	}

	tctx.TripDays = &days
	return nil
}

// =============================================================================
// 140 - MANDATORY RISK EXCLUSION
// =============================================================================

// mandatoryRiskExclusionRule rejects risks that are always covered and must
// not be selected explicitly (e.g. TRAVEL_MEDICAL).
type mandatoryRiskExclusionRule struct{}

// MandatoryRiskCodes are always part of every agreement. Seed data marks
// them Mandatory as well; this list lets the rule fire without a reference
// round-trip and regardless of other fields.
var MandatoryRiskCodes = map[string]bool{
	"TRAVEL_MEDICAL": true,
}

func (r *mandatoryRiskExclusionRule) Name() string   { return "mandatory-risk-exclusion" }
func (r *mandatoryRiskExclusionRule) Order() int     { return 140 }
func (r *mandatoryRiskExclusionRule) Critical() bool { return false }

func (r *mandatoryRiskExclusionRule) Evaluate(_ context.Context, req *quote.Request, _ *quote.TripContext) []quote.ValidationError {
	var out []quote.ValidationError
	for i, code := range req.RiskCodes {
		if MandatoryRiskCodes[code] {
			out = append(out, withParams(
				fieldError(fmt.Sprintf("riskCodes[%d]", i), fmt.Sprintf("risk %s is mandatory and must not be selected", code)),
				map[string]string{"code": code},
			))
		}
	}
	return out
}

// =============================================================================
// 150 - DUPLICATE RISK DETECTION
// =============================================================================

// duplicateRiskRule flags every repeated occurrence of a risk code. The
// first occurrence is fine; each later duplicate gets its own finding
// naming its index.
type duplicateRiskRule struct{}

func (r *duplicateRiskRule) Name() string   { return "duplicate-risks" }
func (r *duplicateRiskRule) Order() int     { return 150 }
func (r *duplicateRiskRule) Critical() bool { return false }

func (r *duplicateRiskRule) Evaluate(_ context.Context, req *quote.Request, _ *quote.TripContext) []quote.ValidationError {
	seen := make(map[string]bool, len(req.RiskCodes))
	var out []quote.ValidationError
	for i, code := range req.RiskCodes {
		if seen[code] {
			out = append(out, withParams(
				fieldError(fmt.Sprintf("riskCodes[%d]", i), fmt.Sprintf("duplicate risk code %s", code)),
				map[string]string{"code": code, "index": strconv.Itoa(i)},
			))
			continue
		}
		seen[code] = true
	}
	return out
}

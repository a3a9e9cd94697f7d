/*
rules.go - The five underwriting rules

PURPOSE:
  One file per concern would be overkill here: each rule is a small struct
  holding its tunables source, per the composition-over-inheritance rule
  chain design.

RULES (by order):
  1  age:                  >80 BLOCKING, >=75 REVIEW_REQUIRED
  2  country-risk:         VERY_HIGH BLOCKING, HIGH REVIEW, MEDIUM WARNING
  3  medical-coverage-age: age>75 & coverage>200k BLOCKING,
                           age>=70 & coverage>100k REVIEW
  4  trip-duration:        >180 days BLOCKING, >90 REVIEW
  5  additional-risks:     EXTREME_SPORT only - age>70 or VERY_HIGH
                           destination BLOCKING, age>=60 REVIEW

SEE ALSO:
  - engine.go: Rule contract, aggregation, tunable resolution
*/
package underwriting

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/premium-engine/quote"
	"github.com/warp/premium-engine/refdata"
)

// ExtremeSportRiskCode gates the additional-risks rule.
const ExtremeSportRiskCode = "EXTREME_SPORT"

// Fallback defaults for the tunable thresholds.
const (
	defaultAgeMax    = 80
	defaultAgeReview = 75

	defaultMedicalBlockAge  = 75
	defaultMedicalReviewAge = 70

	defaultDurationMax    = 180
	defaultDurationReview = 90

	defaultExtremeSportAgeMax    = 70
	defaultExtremeSportAgeReview = 60
)

var (
	defaultMedicalBlockAmount  = decimal.NewFromInt(200000)
	defaultMedicalReviewAmount = decimal.NewFromInt(100000)
)

func pass(name string, order int) quote.RuleResult {
	return quote.RuleResult{Rule: name, Severity: quote.RulePass, Order: order}
}

// =============================================================================
// 1 - AGE
// =============================================================================

type ageRule struct {
	params
}

func (r *ageRule) Name() string       { return "age" }
func (r *ageRule) Order() int         { return 1 }
func (r *ageRule) Applies(Input) bool { return true }

func (r *ageRule) Evaluate(ctx context.Context, in Input) quote.RuleResult {
	max := r.intOr(ctx, r.Name(), "maxAge", in.AsOf, defaultAgeMax)
	review := r.intOr(ctx, r.Name(), "reviewAge", in.AsOf, defaultAgeReview)

	switch {
	case in.Age > max:
		return quote.RuleResult{Rule: r.Name(), Order: r.Order(), Severity: quote.RuleBlocking,
			Message: fmt.Sprintf("applicant age %d exceeds insurable maximum %d", in.Age, max)}
	case in.Age >= review:
		return quote.RuleResult{Rule: r.Name(), Order: r.Order(), Severity: quote.RuleReviewRequired,
			Message: fmt.Sprintf("applicant age %d requires manual review", in.Age)}
	default:
		return pass(r.Name(), r.Order())
	}
}

// =============================================================================
// 2 - COUNTRY RISK
// =============================================================================

type countryRiskRule struct{}

func (r *countryRiskRule) Name() string          { return "country-risk" }
func (r *countryRiskRule) Order() int            { return 2 }
func (r *countryRiskRule) Applies(in Input) bool { return in.Country != nil }

func (r *countryRiskRule) Evaluate(_ context.Context, in Input) quote.RuleResult {
	switch in.Country.RiskGroup {
	case refdata.RiskVeryHigh:
		return quote.RuleResult{Rule: r.Name(), Order: r.Order(), Severity: quote.RuleBlocking,
			Message: fmt.Sprintf("destination %s has a very high risk classification", in.Country.Code)}
	case refdata.RiskHigh:
		return quote.RuleResult{Rule: r.Name(), Order: r.Order(), Severity: quote.RuleReviewRequired,
			Message: fmt.Sprintf("destination %s has a high risk classification", in.Country.Code)}
	case refdata.RiskMedium:
		return quote.RuleResult{Rule: r.Name(), Order: r.Order(), Severity: quote.RuleWarning,
			Message: fmt.Sprintf("destination %s has a medium risk classification", in.Country.Code)}
	default:
		return pass(r.Name(), r.Order())
	}
}

// =============================================================================
// 3 - MEDICAL COVERAGE VS AGE
// =============================================================================

// medicalCoverageAgeRule flags high coverage amounts at high ages. With no
// coverage amount (country-default mode) the rule passes trivially.
type medicalCoverageAgeRule struct {
	params
}

func (r *medicalCoverageAgeRule) Name() string       { return "medical-coverage-age" }
func (r *medicalCoverageAgeRule) Order() int         { return 3 }
func (r *medicalCoverageAgeRule) Applies(Input) bool { return true }

func (r *medicalCoverageAgeRule) Evaluate(ctx context.Context, in Input) quote.RuleResult {
	if in.CoverageAmount == nil {
		return pass(r.Name(), r.Order())
	}

	blockAge := r.intOr(ctx, r.Name(), "blockingAge", in.AsOf, defaultMedicalBlockAge)
	blockAmount := r.decimalOr(ctx, r.Name(), "blockingAmount", in.AsOf, defaultMedicalBlockAmount)
	reviewAge := r.intOr(ctx, r.Name(), "reviewAge", in.AsOf, defaultMedicalReviewAge)
	reviewAmount := r.decimalOr(ctx, r.Name(), "reviewAmount", in.AsOf, defaultMedicalReviewAmount)

	switch {
	case in.Age > blockAge && in.CoverageAmount.GreaterThan(blockAmount):
		return quote.RuleResult{Rule: r.Name(), Order: r.Order(), Severity: quote.RuleBlocking,
			Message: fmt.Sprintf("coverage %s is not available above age %d", in.CoverageAmount.StringFixed(0), blockAge)}
	case in.Age >= reviewAge && in.CoverageAmount.GreaterThan(reviewAmount):
		return quote.RuleResult{Rule: r.Name(), Order: r.Order(), Severity: quote.RuleReviewRequired,
			Message: fmt.Sprintf("coverage %s at age %d requires manual review", in.CoverageAmount.StringFixed(0), in.Age)}
	default:
		return pass(r.Name(), r.Order())
	}
}

// =============================================================================
// 4 - TRIP DURATION
// =============================================================================

type tripDurationRule struct {
	params
}

func (r *tripDurationRule) Name() string       { return "trip-duration" }
func (r *tripDurationRule) Order() int         { return 4 }
func (r *tripDurationRule) Applies(Input) bool { return true }

func (r *tripDurationRule) Evaluate(ctx context.Context, in Input) quote.RuleResult {
	max := r.intOr(ctx, r.Name(), "maxDays", in.AsOf, defaultDurationMax)
	review := r.intOr(ctx, r.Name(), "reviewDays", in.AsOf, defaultDurationReview)

	switch {
	case in.TripDays > max:
		return quote.RuleResult{Rule: r.Name(), Order: r.Order(), Severity: quote.RuleBlocking,
			Message: fmt.Sprintf("trip duration %d days exceeds underwriting maximum %d", in.TripDays, max)}
	case in.TripDays > review:
		return quote.RuleResult{Rule: r.Name(), Order: r.Order(), Severity: quote.RuleReviewRequired,
			Message: fmt.Sprintf("trip duration %d days requires manual review", in.TripDays)}
	default:
		return pass(r.Name(), r.Order())
	}
}

// =============================================================================
// 5 - ADDITIONAL RISKS (EXTREME SPORT)
// =============================================================================

// additionalRisksRule only participates when EXTREME_SPORT is selected.
type additionalRisksRule struct {
	params
}

func (r *additionalRisksRule) Name() string { return "additional-risks" }
func (r *additionalRisksRule) Order() int   { return 5 }

func (r *additionalRisksRule) Applies(in Input) bool {
	for _, c := range in.RiskCodes {
		if c == ExtremeSportRiskCode {
			return true
		}
	}
	return false
}

func (r *additionalRisksRule) Evaluate(ctx context.Context, in Input) quote.RuleResult {
	max := r.intOr(ctx, r.Name(), "maxAge", in.AsOf, defaultExtremeSportAgeMax)
	review := r.intOr(ctx, r.Name(), "reviewAge", in.AsOf, defaultExtremeSportAgeReview)

	switch {
	case in.Age > max:
		return quote.RuleResult{Rule: r.Name(), Order: r.Order(), Severity: quote.RuleBlocking,
			Message: fmt.Sprintf("extreme sport coverage is not available above age %d", max)}
	case in.Country != nil && in.Country.RiskGroup == refdata.RiskVeryHigh:
		return quote.RuleResult{Rule: r.Name(), Order: r.Order(), Severity: quote.RuleBlocking,
			Message: fmt.Sprintf("extreme sport coverage is not available for destination %s", in.Country.Code)}
	case in.Age >= review:
		return quote.RuleResult{Rule: r.Name(), Order: r.Order(), Severity: quote.RuleReviewRequired,
			Message: fmt.Sprintf("extreme sport coverage at age %d requires manual review", in.Age)}
	default:
		return pass(r.Name(), r.Order())
	}
}

/*
Package quote provides the core types of the premium determination engine.

PURPOSE:
  This package contains the request, result, and decision types shared by
  the validation pipeline, the pricing strategies, and the underwriting
  engine. Every monetary amount and coefficient is a decimal.Decimal to
  avoid floating-point drift in premium arithmetic.

KEY CONCEPTS IN THIS FILE (types.go):
  - Request: Immutable quote input (person, trip, coverage selection)
  - TripContext: Per-request scratch state written by validation rules
  - ValidationError: A single validation finding with a severity
  - PremiumResult: The full pricing breakdown produced by a strategy
  - Decision: The aggregated underwriting outcome

DESIGN PRINCIPLES:
  1. Immutability: Request and PremiumResult are never mutated after creation
  2. Precision: decimal.Decimal for all money and coefficients
  3. Typed scratch state: TripContext has named fields, not a map
  4. One clock: every effective-dated lookup uses the trip start date

USAGE:
  req := quote.Request{
      PersonName: "Jane Traveler",
      BirthDate:  birth,
      TripStart:  start,
      TripEnd:    end,
      CountryCode: "ES",
      CoverageLevelCode: "LEVEL_10000",
  }

SEE ALSO:
  - errors.go: Sentinel errors and classification helpers
  - validation/pipeline.go: Produces ValidationError lists
  - pricing/strategy.go: Produces PremiumResult
*/
package quote

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Rounding conventions for premium arithmetic
// =============================================================================

// MinPremium is the global floor applied after discounts when the base
// premium is positive.
var MinPremium = decimal.RequireFromString("10.00")

// RoundMoney rounds a non-negative monetary amount to 2 decimal places,
// half up. Applied at the payout-correction step, the bundle-discount step,
// and the final premium - nowhere else.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MustDecimal parses a decimal literal. Panics on malformed input, so it is
// only for constants and seed data.
func MustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// =============================================================================
// REQUEST - Immutable quote input
// =============================================================================

// Request is the input to a single premium determination. Exactly one pricing
// mode is active: CoverageLevelCode is required unless UseCountryDefault is
// set (and then it may still be present as the fallback basis).
type Request struct {
	PersonName string
	BirthDate  time.Time

	TripStart time.Time
	TripEnd   time.Time

	// Destination ISO country code (2 uppercase letters).
	CountryCode string

	// Coverage selection: either a coverage level code or the
	// country-default-rate flag.
	CoverageLevelCode string
	UseCountryDefault bool

	// Optional override for the age coefficient. Nil means "use the engine
	// default" (enabled).
	AgeCoefficientEnabled *bool

	// Selected optional risk codes (e.g. SPORT_ACTIVITIES).
	RiskCodes []string

	// Display currency. Blank defaults to EUR. Cosmetic only - all
	// arithmetic happens in a single currency.
	Currency string

	PromoCode    string
	PersonsCount int
	Corporate    bool
}

// AsOf returns the effective date for all reference-data lookups of this
// request: the trip start date.
func (r Request) AsOf() time.Time {
	return r.TripStart
}

// HasRisk reports whether the given optional risk code was selected.
func (r Request) HasRisk(code string) bool {
	for _, c := range r.RiskCodes {
		if c == code {
			return true
		}
	}
	return false
}

// =============================================================================
// TRIP CONTEXT - Per-request derived state
// =============================================================================

// TripContext carries values derived by earlier validation rules for reuse by
// later rules and by the calculation stage. Named optional fields keep the
// contract statically checkable. Lifetime is one request.
//
// Duration convention: TripDays = TripEnd - TripStart in whole days
// (exclusive). A trip from the 1st to the 15th is 14 days.
type TripContext struct {
	Age      *int
	TripDays *int

	// Resolved reference snapshots, written by the reference-tier rules so
	// calculation does not refetch them.
	CountryCode       string
	CoverageLevelCode string
}

// WholeDays returns end-start in whole days.
func WholeDays(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// AgeAt returns whole years between birth and asOf.
func AgeAt(birth, asOf time.Time) int {
	age := asOf.Year() - birth.Year()
	anniversary := time.Date(asOf.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	if asOf.Before(anniversary) {
		age--
	}
	return age
}

// =============================================================================
// VALIDATION FINDINGS
// =============================================================================

// Severity classifies a validation finding.
type Severity string

const (
	// SeverityWarning is advisory. Never blocks calculation.
	SeverityWarning Severity = "WARNING"

	// SeverityError blocks calculation but lets the remaining rules run.
	SeverityError Severity = "ERROR"

	// SeverityCritical halts the pipeline when stop-on-critical is set.
	SeverityCritical Severity = "CRITICAL"
)

// ValidationError is a single validation finding. It is a value, not a Go
// error: validation findings are always recovered into a list and returned
// to the caller.
type ValidationError struct {
	Field    string
	Message  string
	Severity Severity

	// Params carries machine-readable details (limits, indexes) for
	// debugging and client-side localization.
	Params map[string]string
}

// Blocking reports whether this finding prevents pricing and underwriting.
func (v ValidationError) Blocking() bool {
	return v.Severity == SeverityError || v.Severity == SeverityCritical
}

// HasBlocking reports whether any finding in the list blocks calculation.
func HasBlocking(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Blocking() {
			return true
		}
	}
	return false
}

// Warnings returns only the advisory findings.
func Warnings(errs []ValidationError) []ValidationError {
	var out []ValidationError
	for _, e := range errs {
		if e.Severity == SeverityWarning {
			out = append(out, e)
		}
	}
	return out
}

// =============================================================================
// UNDERWRITING - Rule results and aggregated decision
// =============================================================================

// RuleSeverity is the outcome of a single underwriting rule.
type RuleSeverity string

const (
	RulePass           RuleSeverity = "PASS"
	RuleWarning        RuleSeverity = "WARNING"
	RuleReviewRequired RuleSeverity = "REVIEW_REQUIRED"
	RuleBlocking       RuleSeverity = "BLOCKING"
)

// RuleResult records one underwriting rule evaluation. Order is the rule's
// execution order, used as a tie-breaker for reporting only - all applicable
// rules always run.
type RuleResult struct {
	Rule     string
	Severity RuleSeverity
	Message  string
	Order    int
}

// Decision is the aggregated underwriting outcome.
type Decision string

const (
	DecisionApproved     Decision = "APPROVED"
	DecisionManualReview Decision = "REQUIRES_MANUAL_REVIEW"
	DecisionDeclined     Decision = "DECLINED"
)

// UnderwritingResult is the aggregate of all rule evaluations. Reason is the
// first blocking (or, failing that, first review) message by rule order;
// empty when approved.
type UnderwritingResult struct {
	Decision Decision
	Reason   string
	Rules    []RuleResult
}

// =============================================================================
// PREMIUM RESULT - Full pricing breakdown
// =============================================================================

// StrategyName tags which pricing algorithm produced a result.
type StrategyName string

const (
	StrategyCoverageLevel  StrategyName = "coverage_level"
	StrategyCountryDefault StrategyName = "country_default"
)

// RiskLoad is the per-risk contribution to the additional-risk coefficient.
type RiskLoad struct {
	Code            string
	BaseCoefficient decimal.Decimal
	AgeMultiplier   decimal.Decimal
	Effective       decimal.Decimal
}

// AppliedDiscount records one discount that contributed to the final premium.
type AppliedDiscount struct {
	Kind   string // "promo", "group", "corporate"
	Code   string // promo code, empty otherwise
	Amount decimal.Decimal
}

// PremiumResult is the full pricing breakdown for one request. Created once
// by a strategy, then extended by the discount resolver; immutable afterward.
//
// CountryCoefficient is always reported for display, even in country-default
// mode where it is not part of the arithmetic (the default rate already
// embeds it).
type PremiumResult struct {
	Strategy StrategyName

	BaseRate       decimal.Decimal  // daily rate or country default rate
	CoverageAmount *decimal.Decimal // nil in country-default mode

	AgeCoefficient       decimal.Decimal
	AgeDescription       string
	CountryCoefficient   decimal.Decimal
	DurationCoefficient  decimal.Decimal
	RiskCoefficient      decimal.Decimal // sum of per-risk effective loads
	TotalCoefficient     decimal.Decimal // product actually applied to the base
	Days                 int
	RiskBreakdown        []RiskLoad

	PayoutLimitApplied bool
	PayoutLimitFactor  decimal.Decimal // maxPayout/coverage when applied, 1 otherwise

	BundleCode     string
	BundleDiscount decimal.Decimal

	// PremiumBeforeDiscounts is the strategy output: payout-corrected and
	// bundle-discounted, before promo/group/corporate resolution.
	PremiumBeforeDiscounts decimal.Decimal

	AppliedDiscounts []AppliedDiscount
	TotalDiscount    decimal.Decimal
	FinalPremium     decimal.Decimal

	Currency string
}

/*
repository.go - Point-in-time lookup interfaces for reference data

PURPOSE:
  Defines the interface between the engine core and reference-data storage.
  Every read is an idempotent point-in-time lookup keyed by the request's
  as-of date (trip start). The core must not assume caching - only that two
  reads of the same record with the same as-of date agree.

KEY INTERFACES:
  Repository:   Effective-dated reads (countries, coverage, bands, promos)
  PromoRedeemer: Atomic check-cap-and-increment for promo usage
  DecisionLog:  Append-only audit of rendered decisions

NOT-FOUND CONTRACT:
  Lookups return (nil, nil) when no record is active for the date. The
  caller decides severity: a miss during validation is a field error, a
  miss during calculation is a fatal contract breach.

PROMO ATOMICITY:
  "Check cap, then increment" must be a single serialized operation per
  promo-code identity. Two concurrent redemptions of a code with one use
  left must not both succeed. Implementations use a conditional update
  (sqlite) or a write lock (memory).

IMPLEMENTATIONS:
  - memory.go: In-memory, for tests and demo mode
  - store/sqlite: Production SQLite

SEE ALSO:
  - entities.go: Record definitions and ActiveOn semantics
  - pricing/discount.go: The only PromoRedeemer caller
*/
package refdata

import (
	"context"
	"time"
)

// =============================================================================
// REPOSITORY - Effective-dated reads
// =============================================================================

// Repository provides point-in-time reference lookups. All methods are
// read-only and idempotent for a fixed asOf date.
type Repository interface {
	// CountryByCode returns the country active on asOf, or (nil, nil).
	CountryByCode(ctx context.Context, code string, asOf time.Time) (*Country, error)

	// CoverageLevelByCode returns the coverage level active on asOf, or (nil, nil).
	CoverageLevelByCode(ctx context.Context, code string, asOf time.Time) (*CoverageLevel, error)

	// RiskTypeByCode returns the risk type active on asOf, or (nil, nil).
	RiskTypeByCode(ctx context.Context, code string, asOf time.Time) (*RiskType, error)

	// AgeCoefficientFor returns the band containing age, or (nil, nil) when
	// the bands have a gap (a configuration error for the caller).
	AgeCoefficientFor(ctx context.Context, age int, asOf time.Time) (*AgeCoefficient, error)

	// AgeRiskModifierFor returns the modifier for a risk code and age, or
	// (nil, nil) when none is defined (multiplier defaults to 1.0).
	AgeRiskModifierFor(ctx context.Context, riskCode string, age int, asOf time.Time) (*AgeRiskModifier, error)

	// DurationCoefficientFor returns the band containing days. Overlaps are
	// broken by the highest DaysFrom that still contains days.
	DurationCoefficientFor(ctx context.Context, days int, asOf time.Time) (*DurationCoefficient, error)

	// RiskBundles returns all bundles active on asOf.
	RiskBundles(ctx context.Context, asOf time.Time) ([]RiskBundle, error)

	// CountryDefaultRateFor returns the default daily rate active on asOf,
	// or (nil, nil). Absence triggers the coverage-level fallback.
	CountryDefaultRateFor(ctx context.Context, countryCode string, asOf time.Time) (*CountryDefaultRate, error)

	// PromoCodeByCode returns the promo record active on asOf, or (nil, nil).
	// This is a read; redemption goes through PromoRedeemer.
	PromoCodeByCode(ctx context.Context, code string, asOf time.Time) (*PromoCode, error)

	// RuleParameter returns the tunable for rule+param active on asOf, or
	// (nil, nil) when the rule's hard-coded default applies.
	RuleParameter(ctx context.Context, ruleName, paramName string, asOf time.Time) (*RuleParameter, error)
}

// =============================================================================
// PROMO REDEMPTION - The one shared-mutation hazard
// =============================================================================

// PromoRedeemer atomically consumes one use of a promo code.
type PromoRedeemer interface {
	// RedeemPromo increments the code's usage counter iff the cap is not yet
	// reached. Returns (true, nil) when a use was consumed, (false, nil)
	// when the cap is exhausted or the code is unknown. Check and increment
	// are one serialized operation per code.
	RedeemPromo(ctx context.Context, code string) (bool, error)
}

// =============================================================================
// DECISION LOG - Append-only audit of rendered decisions
// =============================================================================

// DecisionEntry is one rendered underwriting decision with its premium.
type DecisionEntry struct {
	QuoteID     string
	At          time.Time
	PersonName  string
	CountryCode string
	Decision    string
	Reason      string
	Premium     string // final premium as a decimal string
	Currency    string
}

// DecisionLog persists decisions for audit. Append-only; failures are logged
// by the caller and never fail the quote.
type DecisionLog interface {
	AppendDecision(ctx context.Context, entry DecisionEntry) error
}

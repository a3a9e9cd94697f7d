/*
Package refdata provides effective-dated reference data for premium
determination.

PURPOSE:
  Defines the reference entities the engine reads (countries, coverage
  levels, risk types, coefficient bands, bundles, promo codes, default
  rates, rule tunables) and the window semantics that make a record
  "active" for a given date. The core treats these as read-only
  point-in-time snapshots; it never mutates them and never assumes caching.

EFFECTIVE DATING:
  A record is active for date d iff:
    validFrom <= d  AND  (validTo absent OR validTo >= d)  AND  isActive

  Every entity embeds Window, which implements this check once.

KEY CONCEPTS:
  - Country: destination with a risk group and a standalone risk coefficient
  - CoverageLevel: daily rate + coverage amount + optional payout cap
  - RiskType: optional (or mandatory) extra risk with a base coefficient
  - AgeCoefficient / AgeRiskModifier: age-band multipliers
  - DurationCoefficient: trip-length-band multipliers
  - RiskBundle: discount for jointly selecting a required risk set
  - PromoCode: windowed, capped promotional discount
  - CountryDefaultRate: per-country daily rate with risk already folded in
  - RuleParameter: tunable threshold for underwriting rules

SEE ALSO:
  - repository.go: Point-in-time lookup interfaces
  - memory.go: In-memory implementation for tests and demo mode
  - store/sqlite: Production implementation
*/
package refdata

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// EFFECTIVE-DATED WINDOW
// =============================================================================

// Window is the validity window shared by all reference entities.
type Window struct {
	ValidFrom time.Time
	ValidTo   *time.Time
	Active    bool
}

// ActiveOn reports whether the record is active for date d.
func (w Window) ActiveOn(d time.Time) bool {
	if !w.Active {
		return false
	}
	if d.Before(w.ValidFrom) {
		return false
	}
	if w.ValidTo != nil && d.After(*w.ValidTo) {
		return false
	}
	return true
}

// Forever returns a window active from the given date with no end.
func Forever(from time.Time) Window {
	return Window{ValidFrom: from, Active: true}
}

// =============================================================================
// COUNTRIES
// =============================================================================

// RiskGroup classifies a destination country.
type RiskGroup string

const (
	RiskLow      RiskGroup = "LOW"
	RiskMedium   RiskGroup = "MEDIUM"
	RiskHigh     RiskGroup = "HIGH"
	RiskVeryHigh RiskGroup = "VERY_HIGH"
)

// Country is a destination with its risk classification. RiskCoefficient is
// the standalone multiplier used by the coverage-level strategy; the
// country-default strategy reports it but never multiplies by it.
type Country struct {
	Window
	Code            string // ISO 3166-1 alpha-2
	Name            string
	RiskGroup       RiskGroup
	RiskCoefficient decimal.Decimal
}

// CountryDefaultRate is a per-country daily rate with the country risk
// coefficient already folded in.
type CountryDefaultRate struct {
	Window
	CountryCode string
	DailyRate   decimal.Decimal
}

// =============================================================================
// COVERAGE
// =============================================================================

// CoverageLevel is a medical coverage tier. MaxPayoutAmount, when present and
// lower than CoverageAmount, triggers the payout-limit correction.
type CoverageLevel struct {
	Window
	Code            string
	Name            string
	CoverageAmount  decimal.Decimal
	DailyRate       decimal.Decimal
	MaxPayoutAmount *decimal.Decimal
}

// =============================================================================
// RISKS
// =============================================================================

// RiskType is an insurable risk. Mandatory risks are always covered and must
// not appear in the request's optional selection.
type RiskType struct {
	Window
	Code            string
	Name            string
	BaseCoefficient decimal.Decimal
	Mandatory       bool
}

// AgeRiskModifier scales a specific risk's base coefficient for an age band.
// When no modifier matches, the multiplier defaults to 1.0.
type AgeRiskModifier struct {
	Window
	RiskCode   string
	AgeFrom    int
	AgeTo      int
	Multiplier decimal.Decimal
}

// RiskBundle grants a percentage discount when ALL required risk codes are
// jointly selected.
type RiskBundle struct {
	Window
	Code              string
	Name              string
	DiscountPercent   decimal.Decimal // e.g. 10 means 10%
	RequiredRiskCodes []string
}

// AppliesTo reports whether every required code is in the selection.
func (b RiskBundle) AppliesTo(selected []string) bool {
	have := make(map[string]bool, len(selected))
	for _, c := range selected {
		have[c] = true
	}
	for _, req := range b.RequiredRiskCodes {
		if !have[req] {
			return false
		}
	}
	return true
}

// =============================================================================
// COEFFICIENT BANDS
// =============================================================================

// AgeCoefficient maps an inclusive age band to a multiplier. Bands are
// contiguous and non-overlapping; a gap is a configuration error.
type AgeCoefficient struct {
	Window
	AgeFrom     int
	AgeTo       int
	Coefficient decimal.Decimal
	Description string
}

// Contains reports whether the band covers the given age.
func (a AgeCoefficient) Contains(age int) bool {
	return age >= a.AgeFrom && age <= a.AgeTo
}

// DurationCoefficient maps an inclusive day-range band to a multiplier.
// When bands overlap, the one with the highest DaysFrom that still contains
// the day count wins (most-specific match).
type DurationCoefficient struct {
	Window
	DaysFrom    int
	DaysTo      int
	Coefficient decimal.Decimal
}

// Contains reports whether the band covers the given day count.
func (d DurationCoefficient) Contains(days int) bool {
	return days >= d.DaysFrom && days <= d.DaysTo
}

// =============================================================================
// PROMO CODES
// =============================================================================

// PromoDiscountType selects how a promo code's value is interpreted.
type PromoDiscountType string

const (
	PromoPercentage  PromoDiscountType = "PERCENTAGE"
	PromoFixedAmount PromoDiscountType = "FIXED_AMOUNT"
)

// PromoCode is a windowed, optionally capped promotional discount.
// UsageCount is the only mutable field in the reference model; incrementing
// it against UsageCap must be a single serialized operation per code.
type PromoCode struct {
	Window
	Code        string
	Type        PromoDiscountType
	Value       decimal.Decimal  // percent (e.g. 15) or fixed amount
	MaxDiscount *decimal.Decimal // optional cap on the computed discount
	MinPremium  *decimal.Decimal // optional minimum base premium to qualify
	UsageCap    *int             // nil = unlimited
	UsageCount  int
}

// =============================================================================
// RULE TUNABLES
// =============================================================================

// RuleParameter is a tunable threshold for an underwriting rule, keyed by
// rule name + parameter name. Rules carry hard-coded fallback defaults for
// missing parameters.
type RuleParameter struct {
	Window
	RuleName  string
	ParamName string
	Value     decimal.Decimal
}

// =============================================================================
// CURRENCIES
// =============================================================================

// DefaultCurrency is used when the request leaves currency blank.
const DefaultCurrency = "EUR"

// SupportedCurrencies is the display-currency whitelist. Cosmetic only;
// no conversion happens anywhere.
var SupportedCurrencies = map[string]bool{
	"EUR": true,
	"USD": true,
	"GBP": true,
}

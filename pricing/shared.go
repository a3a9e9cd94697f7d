/*
Package pricing implements premium calculation for travel-insurance quotes.

PURPOSE:
  Contains the shared calculators (age, duration, additional risks), the
  two interchangeable pricing strategies, the payout-limit corrector, the
  bundle-discount resolver, and the promo/group/corporate discount
  resolver. Everything is decimal arithmetic; rounding happens only at the
  payout-correction step, the bundle-discount step, and the final premium.

KEY CONCEPTS IN THIS FILE (shared.go):
  - CalculateAge: whole-year age + age-band coefficient
  - DurationCoefficientFor: trip-length-band multiplier
  - CalculateAdditionalRisks: per-risk loads with age-specific modifiers

FORMULA SHAPE (coverage-level strategy):
  premium = dailyRate * ageC * countryC * durC * (1 + sum(riskC)) * days
            -> payout correction -> bundle discount

SEE ALSO:
  - strategy.go: Strategy selection and the two algorithms
  - discount.go: Promo and group/corporate resolution
*/
package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/premium-engine/quote"
	"github.com/warp/premium-engine/refdata"
)

// =============================================================================
// AGE
// =============================================================================

// AgeOutcome is the result of the age calculation.
type AgeOutcome struct {
	Age         int
	Coefficient decimal.Decimal
	Description string
}

// CalculateAge computes the applicant's whole-year age at the as-of date and
// resolves the age-band coefficient. When the coefficient is disabled
// (request override or engine default), the coefficient is 1.0 regardless of
// band. An unmatched age is a configuration error: bands are contiguous and
// non-overlapping by contract.
func CalculateAge(ctx context.Context, birth, asOf time.Time, enabled bool, repo refdata.Repository) (AgeOutcome, error) {
	age := quote.AgeAt(birth, asOf)

	if !enabled {
		return AgeOutcome{
			Age:         age,
			Coefficient: decimal.NewFromInt(1),
			Description: "age coefficient disabled",
		}, nil
	}

	band, err := repo.AgeCoefficientFor(ctx, age, asOf)
	if err != nil {
		return AgeOutcome{}, fmt.Errorf("age coefficient lookup: %w", err)
	}
	if band == nil {
		return AgeOutcome{}, &quote.ConfigError{
			Detail: fmt.Sprintf("age %d", age),
			Err:    quote.ErrAgeBandNotConfigured,
		}
	}

	return AgeOutcome{Age: age, Coefficient: band.Coefficient, Description: band.Description}, nil
}

// =============================================================================
// DURATION
// =============================================================================

// DurationCoefficientFor resolves the trip-length-band multiplier for a day
// count (end - start, exclusive). Overlapping bands resolve to the one with
// the highest lower bound that still contains the day count.
func DurationCoefficientFor(ctx context.Context, days int, asOf time.Time, repo refdata.Repository) (decimal.Decimal, error) {
	band, err := repo.DurationCoefficientFor(ctx, days, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("duration coefficient lookup: %w", err)
	}
	if band == nil {
		return decimal.Zero, &quote.ConfigError{
			Detail: fmt.Sprintf("%d days", days),
			Err:    quote.ErrDurationBandNotConfigured,
		}
	}
	return band.Coefficient, nil
}

// =============================================================================
// ADDITIONAL RISKS
// =============================================================================

// CalculateAdditionalRisks aggregates the selected optional risks into one
// coefficient. Each risk contributes its base coefficient scaled by the
// age-specific multiplier for the applicant (1.0 when none is defined).
// The total enters the premium formula as (1 + total).
func CalculateAdditionalRisks(ctx context.Context, riskCodes []string, age int, asOf time.Time, repo refdata.Repository) (decimal.Decimal, []quote.RiskLoad, error) {
	total := decimal.Zero
	var breakdown []quote.RiskLoad

	for _, code := range riskCodes {
		risk, err := repo.RiskTypeByCode(ctx, code, asOf)
		if err != nil {
			return decimal.Zero, nil, fmt.Errorf("risk type lookup: %w", err)
		}
		if risk == nil {
			// Validation vouched for every code; a vanished record is a
			// contract breach, fatal for this request.
			return decimal.Zero, nil, &quote.ReferenceError{Kind: "risk_type", Code: code, Err: quote.ErrRiskTypeNotFound}
		}

		multiplier := decimal.NewFromInt(1)
		if mod, err := repo.AgeRiskModifierFor(ctx, code, age, asOf); err != nil {
			return decimal.Zero, nil, fmt.Errorf("age risk modifier lookup: %w", err)
		} else if mod != nil {
			multiplier = mod.Multiplier
		}

		effective := risk.BaseCoefficient.Mul(multiplier)
		total = total.Add(effective)
		breakdown = append(breakdown, quote.RiskLoad{
			Code:            code,
			BaseCoefficient: risk.BaseCoefficient,
			AgeMultiplier:   multiplier,
			Effective:       effective,
		})
	}

	return total, breakdown, nil
}

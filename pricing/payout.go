/*
payout.go - Payout-limit correction

PURPOSE:
  A coverage level may carry a maximum payout amount below its nominal
  coverage amount. When it does, the insurer's liability is capped and the
  premium shrinks proportionally. The corrector runs on the strategy's raw
  premium; the corrected value - not the raw one - feeds the bundle
  discount, so discounts are computed on the capped base.

SEE ALSO:
  - strategy.go: Call site, between the raw formula and the bundle step
*/
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/warp/premium-engine/quote"
)

// PayoutCorrection is the outcome of the payout-limit check.
type PayoutCorrection struct {
	Premium decimal.Decimal
	Factor  decimal.Decimal // maxPayout/coverage when applied, 1 otherwise
	Applied bool
}

// ApplyPayoutLimit caps the raw premium when maxPayout is present and below
// the coverage amount: adjusted = raw * (maxPayout / coverage), rounded
// half-up to 2 decimals. Everything else is a no-op returning the input
// unchanged. Country-default mode has no coverage amount, so the corrector
// never applies there.
func ApplyPayoutLimit(raw decimal.Decimal, coverage, maxPayout *decimal.Decimal) PayoutCorrection {
	one := decimal.NewFromInt(1)

	if coverage == nil || maxPayout == nil {
		return PayoutCorrection{Premium: raw, Factor: one}
	}
	if coverage.IsZero() || maxPayout.GreaterThanOrEqual(*coverage) {
		return PayoutCorrection{Premium: raw, Factor: one}
	}

	factor := maxPayout.Div(*coverage)
	return PayoutCorrection{
		Premium: quote.RoundMoney(raw.Mul(factor)),
		Factor:  factor,
		Applied: true,
	}
}

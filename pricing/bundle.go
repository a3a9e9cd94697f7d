/*
bundle.go - Risk-bundle discount resolution

PURPOSE:
  A bundle grants a percentage discount when ALL of its required risk codes
  appear in the selection. When several bundles qualify, the one yielding
  the largest discount amount wins. The discount is computed on the
  payout-corrected premium and rounded half-up to 2 decimals at this step.

SEE ALSO:
  - refdata/entities.go: RiskBundle.AppliesTo
  - strategy.go: Applies the resolved discount
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

var oneHundred = decimal.NewFromInt(100)

// ResolveBundleDiscount finds the best qualifying bundle for the selection.
// Returns (nil, 0) when no bundle qualifies.
func ResolveBundleDiscount(ctx context.Context, riskCodes []string, premium decimal.Decimal, asOf time.Time, repo refdata.Repository) (*refdata.RiskBundle, decimal.Decimal, error) {
	if len(riskCodes) == 0 {
		return nil, decimal.Zero, nil
	}

	bundles, err := repo.RiskBundles(ctx, asOf)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("risk bundle lookup: %w", err)
	}

	var best *refdata.RiskBundle
	bestDiscount := decimal.Zero
	for i := range bundles {
		b := bundles[i]
		if !b.AppliesTo(riskCodes) {
			continue
		}
		discount := quote.RoundMoney(premium.Mul(b.DiscountPercent).Div(oneHundred))
		if best == nil || discount.GreaterThan(bestDiscount) {
			tmp := b
			best = &tmp
			bestDiscount = discount
		}
	}

	return best, bestDiscount, nil
}

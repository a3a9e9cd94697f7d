/*
discount.go - Promo, group, and corporate discount resolution

PURPOSE:
  Resolves the discounts applied AFTER the strategy has produced its
  premium. Two independent tracks:

    1. Promo code: validated (active window, minimum-premium threshold,
       usage cap), then redeemed atomically. Invalid, expired, or
       exhausted codes are silently dropped and logged - a bad promo is
       never a hard error.
    2. Group vs corporate: persons >=5/-10%, >=10/-15%, >=20/-20%;
       corporate -20% when the premium meets the minimum. The larger
       magnitude of the two wins; they never stack.

  Total discount = promo + winner. The final premium is floored at the
  global minimum (10.00) when the base is positive, and at 0 otherwise.

CONCURRENCY:
  The usage-cap check and the counter increment are one serialized
  operation inside PromoRedeemer - two concurrent redemptions of a code
  with one use left cannot both succeed.

SEE ALSO:
  - refdata/repository.go: PromoRedeemer contract
  - engine/engine.go: Call site after strategy calculation
*/
package pricing

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/premium-engine/quote"
	"github.com/warp/premium-engine/refdata"
)

// =============================================================================
// GROUP / CORPORATE TIERS
// =============================================================================

var (
	groupTiers = []struct {
		MinPersons int
		Percent    decimal.Decimal
	}{
		{20, decimal.NewFromInt(20)},
		{10, decimal.NewFromInt(15)},
		{5, decimal.NewFromInt(10)},
	}

	corporatePercent = decimal.NewFromInt(20)

	// corporateMinPremium is the smallest base premium eligible for the
	// corporate discount.
	corporateMinPremium = quote.MustDecimal("100.00")
)

// =============================================================================
// RESOLVER
// =============================================================================

// DiscountOutcome is the result of discount resolution.
type DiscountOutcome struct {
	Applied      []quote.AppliedDiscount
	Total        decimal.Decimal
	FinalPremium decimal.Decimal
}

// ApplyDiscounts resolves all post-calculation discounts against the base
// premium (the strategy output). See the file header for the rules.
func ApplyDiscounts(ctx context.Context, req *quote.Request, base decimal.Decimal, asOf time.Time, repo refdata.Repository, redeemer refdata.PromoRedeemer) (DiscountOutcome, error) {
	out := DiscountOutcome{Total: decimal.Zero}

	if req.PromoCode != "" {
		promo, err := resolvePromo(ctx, req.PromoCode, base, asOf, repo, redeemer)
		if err != nil {
			return DiscountOutcome{}, err
		}
		if promo != nil {
			out.Applied = append(out.Applied, *promo)
			out.Total = out.Total.Add(promo.Amount)
		}
	}

	if best := bestGroupOrCorporate(req, base); best != nil {
		out.Applied = append(out.Applied, *best)
		out.Total = out.Total.Add(best.Amount)
	}

	out.FinalPremium = floorPremium(base, base.Sub(out.Total))
	return out, nil
}

// resolvePromo validates and atomically redeems a promo code. A nil result
// means the code was dropped (logged, no error).
func resolvePromo(ctx context.Context, code string, base decimal.Decimal, asOf time.Time, repo refdata.Repository, redeemer refdata.PromoRedeemer) (*quote.AppliedDiscount, error) {
	promo, err := repo.PromoCodeByCode(ctx, code, asOf)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		log.Printf("promo %s dropped: unknown or outside validity window", code)
		return nil, nil
	}
	if promo.MinPremium != nil && base.LessThan(*promo.MinPremium) {
		log.Printf("promo %s dropped: premium below minimum %s", code, promo.MinPremium.StringFixed(2))
		return nil, nil
	}

	var amount decimal.Decimal
	switch promo.Type {
	case refdata.PromoPercentage:
		amount = quote.RoundMoney(base.Mul(promo.Value).Div(oneHundred))
	case refdata.PromoFixedAmount:
		amount = promo.Value
	default:
		log.Printf("promo %s dropped: unknown discount type %s", code, promo.Type)
		return nil, nil
	}

	if promo.MaxDiscount != nil && amount.GreaterThan(*promo.MaxDiscount) {
		amount = *promo.MaxDiscount
	}
	if amount.GreaterThan(base) {
		amount = base
	}
	if !amount.IsPositive() {
		return nil, nil
	}

	// Check-cap-and-increment is one serialized operation per code.
	redeemed, err := redeemer.RedeemPromo(ctx, code)
	if err != nil {
		return nil, err
	}
	if !redeemed {
		log.Printf("promo %s dropped: usage cap reached", code)
		return nil, nil
	}

	return &quote.AppliedDiscount{Kind: "promo", Code: code, Amount: amount}, nil
}

// bestGroupOrCorporate picks the larger of the group and corporate
// discounts. They never stack.
func bestGroupOrCorporate(req *quote.Request, base decimal.Decimal) *quote.AppliedDiscount {
	var group, corporate decimal.Decimal

	for _, tier := range groupTiers {
		if req.PersonsCount >= tier.MinPersons {
			group = quote.RoundMoney(base.Mul(tier.Percent).Div(oneHundred))
			break
		}
	}
	if req.Corporate && base.GreaterThanOrEqual(corporateMinPremium) {
		corporate = quote.RoundMoney(base.Mul(corporatePercent).Div(oneHundred))
	}

	switch {
	case corporate.IsPositive() && corporate.GreaterThanOrEqual(group):
		return &quote.AppliedDiscount{Kind: "corporate", Amount: corporate}
	case group.IsPositive():
		return &quote.AppliedDiscount{Kind: "group", Amount: group}
	default:
		return nil
	}
}

// floorPremium enforces the global minimum premium: 10.00 when the base is
// positive, 0 when the base itself is not.
func floorPremium(base, discounted decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	if discounted.LessThan(quote.MinPremium) {
		return quote.MinPremium
	}
	return discounted
}

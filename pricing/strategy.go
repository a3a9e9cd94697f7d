/*
strategy.go - Pricing strategies and strategy selection

PURPOSE:
  Two interchangeable algorithms produce the pricing breakdown:

    CoverageLevel:  premium = dailyRate * ageC * countryC * durC
                              * (1 + sum(riskC)) * days
    CountryDefault: premium = countryDefaultRate * ageC * durC
                              * (1 + sum(riskC)) * days

  The country-default rate already embeds the destination risk, so that
  strategy never multiplies by the standalone country coefficient - it only
  reports it for display. Both strategies then run the raw premium through
  the payout-limit corrector and the bundle-discount step.

SELECTION:
  ResolveStrategy is the explicit, testable decision function: the request
  flag picks country-default mode; a missing default rate silently falls
  back to the coverage-level strategy when a coverage code is present
  (logged, not erred); with no fallback basis the request fails fatally.

SEE ALSO:
  - shared.go: The calculators both strategies compose
  - payout.go, bundle.go: The finishing steps
*/
package pricing

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/premium-engine/quote"
	"github.com/warp/premium-engine/refdata"
)

// =============================================================================
// STRATEGY CONTRACT
// =============================================================================

// Strategy is one pricing algorithm. Implementations are stateless per
// request and safe for concurrent use.
type Strategy interface {
	Name() quote.StrategyName
	Calculate(ctx context.Context, req *quote.Request, tctx *quote.TripContext) (*quote.PremiumResult, error)
}

// =============================================================================
// STRATEGY SELECTION
// =============================================================================

// ResolveStrategy resolves the pricing mode once per request.
//
// Fallback rule: country-default mode with no active default rate uses the
// coverage-level strategy when a coverage code is available; otherwise there
// is no pricing basis and the request fails.
func ResolveStrategy(ctx context.Context, req *quote.Request, repo refdata.Repository, ageCoeffDefault bool) (Strategy, error) {
	if !req.UseCountryDefault {
		return &CoverageLevelStrategy{Repo: repo, AgeCoefficientDefault: ageCoeffDefault}, nil
	}

	rate, err := repo.CountryDefaultRateFor(ctx, req.CountryCode, req.AsOf())
	if err != nil {
		return nil, fmt.Errorf("country default rate lookup: %w", err)
	}
	if rate != nil {
		return &CountryDefaultStrategy{Repo: repo, Rate: *rate, AgeCoefficientDefault: ageCoeffDefault}, nil
	}

	if req.CoverageLevelCode != "" {
		log.Printf("no default rate for country %s on %s, falling back to coverage level %s",
			req.CountryCode, req.AsOf().Format("2006-01-02"), req.CoverageLevelCode)
		return &CoverageLevelStrategy{Repo: repo, AgeCoefficientDefault: ageCoeffDefault}, nil
	}

	return nil, &quote.ConfigError{
		Detail: fmt.Sprintf("country %s", req.CountryCode),
		Err:    quote.ErrNoPricingBasis,
	}
}

// ageEnabled resolves the per-request override against the engine default.
func ageEnabled(req *quote.Request, def bool) bool {
	if req.AgeCoefficientEnabled != nil {
		return *req.AgeCoefficientEnabled
	}
	return def
}

// tripDays prefers the validated day count from the context.
func tripDays(req *quote.Request, tctx *quote.TripContext) int {
	if tctx != nil && tctx.TripDays != nil {
		return *tctx.TripDays
	}
	return quote.WholeDays(req.TripStart, req.TripEnd)
}

func currencyOf(req *quote.Request) string {
	if req.Currency != "" {
		return req.Currency
	}
	return refdata.DefaultCurrency
}

// =============================================================================
// COVERAGE-LEVEL STRATEGY
// =============================================================================

// CoverageLevelStrategy prices from the selected medical coverage level.
type CoverageLevelStrategy struct {
	Repo                  refdata.Repository
	AgeCoefficientDefault bool
}

func (s *CoverageLevelStrategy) Name() quote.StrategyName { return quote.StrategyCoverageLevel }

func (s *CoverageLevelStrategy) Calculate(ctx context.Context, req *quote.Request, tctx *quote.TripContext) (*quote.PremiumResult, error) {
	asOf := req.AsOf()

	level, err := s.Repo.CoverageLevelByCode(ctx, req.CoverageLevelCode, asOf)
	if err != nil {
		return nil, fmt.Errorf("coverage level lookup: %w", err)
	}
	if level == nil {
		return nil, &quote.ReferenceError{Kind: "coverage_level", Code: req.CoverageLevelCode, Err: quote.ErrCoverageLevelNotFound}
	}

	country, err := s.Repo.CountryByCode(ctx, req.CountryCode, asOf)
	if err != nil {
		return nil, fmt.Errorf("country lookup: %w", err)
	}
	if country == nil {
		return nil, &quote.ReferenceError{Kind: "country", Code: req.CountryCode, Err: quote.ErrCountryNotFound}
	}

	ageOut, err := CalculateAge(ctx, req.BirthDate, asOf, ageEnabled(req, s.AgeCoefficientDefault), s.Repo)
	if err != nil {
		return nil, err
	}

	days := tripDays(req, tctx)
	durCoeff, err := DurationCoefficientFor(ctx, days, asOf, s.Repo)
	if err != nil {
		return nil, err
	}

	riskCoeff, breakdown, err := CalculateAdditionalRisks(ctx, req.RiskCodes, ageOut.Age, asOf, s.Repo)
	if err != nil {
		return nil, err
	}

	one := decimal.NewFromInt(1)
	riskFactor := one.Add(riskCoeff)
	totalCoeff := ageOut.Coefficient.Mul(country.RiskCoefficient).Mul(durCoeff).Mul(riskFactor)

	raw := level.DailyRate.
		Mul(totalCoeff).
		Mul(decimal.NewFromInt(int64(days)))

	coverage := level.CoverageAmount
	result := &quote.PremiumResult{
		Strategy:            quote.StrategyCoverageLevel,
		BaseRate:            level.DailyRate,
		CoverageAmount:      &coverage,
		AgeCoefficient:      ageOut.Coefficient,
		AgeDescription:      ageOut.Description,
		CountryCoefficient:  country.RiskCoefficient,
		DurationCoefficient: durCoeff,
		RiskCoefficient:     riskCoeff,
		TotalCoefficient:    totalCoeff,
		Days:                days,
		RiskBreakdown:       breakdown,
		Currency:            currencyOf(req),
	}

	if err := finishPremium(ctx, s.Repo, req, result, raw, &coverage, level.MaxPayoutAmount, asOf); err != nil {
		return nil, err
	}
	return result, nil
}

// =============================================================================
// COUNTRY-DEFAULT STRATEGY
// =============================================================================

// CountryDefaultStrategy prices from the destination's default daily rate.
// The rate embeds the country risk, so the country coefficient is reported
// but never multiplied; there is no coverage amount, so the payout-limit
// corrector never applies.
type CountryDefaultStrategy struct {
	Repo                  refdata.Repository
	Rate                  refdata.CountryDefaultRate
	AgeCoefficientDefault bool
}

func (s *CountryDefaultStrategy) Name() quote.StrategyName { return quote.StrategyCountryDefault }

func (s *CountryDefaultStrategy) Calculate(ctx context.Context, req *quote.Request, tctx *quote.TripContext) (*quote.PremiumResult, error) {
	asOf := req.AsOf()

	country, err := s.Repo.CountryByCode(ctx, req.CountryCode, asOf)
	if err != nil {
		return nil, fmt.Errorf("country lookup: %w", err)
	}
	if country == nil {
		return nil, &quote.ReferenceError{Kind: "country", Code: req.CountryCode, Err: quote.ErrCountryNotFound}
	}

	ageOut, err := CalculateAge(ctx, req.BirthDate, asOf, ageEnabled(req, s.AgeCoefficientDefault), s.Repo)
	if err != nil {
		return nil, err
	}

	days := tripDays(req, tctx)
	durCoeff, err := DurationCoefficientFor(ctx, days, asOf, s.Repo)
	if err != nil {
		return nil, err
	}

	riskCoeff, breakdown, err := CalculateAdditionalRisks(ctx, req.RiskCodes, ageOut.Age, asOf, s.Repo)
	if err != nil {
		return nil, err
	}

	one := decimal.NewFromInt(1)
	riskFactor := one.Add(riskCoeff)
	totalCoeff := ageOut.Coefficient.Mul(durCoeff).Mul(riskFactor)

	raw := s.Rate.DailyRate.
		Mul(totalCoeff).
		Mul(decimal.NewFromInt(int64(days)))

	result := &quote.PremiumResult{
		Strategy:            quote.StrategyCountryDefault,
		BaseRate:            s.Rate.DailyRate,
		CoverageAmount:      nil, // not applicable in this mode
		AgeCoefficient:      ageOut.Coefficient,
		AgeDescription:      ageOut.Description,
		CountryCoefficient:  country.RiskCoefficient, // display only
		DurationCoefficient: durCoeff,
		RiskCoefficient:     riskCoeff,
		TotalCoefficient:    totalCoeff,
		Days:                days,
		RiskBreakdown:       breakdown,
		Currency:            currencyOf(req),
	}

	if err := finishPremium(ctx, s.Repo, req, result, raw, nil, nil, asOf); err != nil {
		return nil, err
	}
	return result, nil
}

// =============================================================================
// SHARED FINISHING STEPS - Payout correction, then bundle discount
// =============================================================================

// finishPremium applies the payout-limit correction and the bundle-discount
// step, then seals the strategy premium. The corrected premium - not the
// raw one - is the bundle-discount base.
func finishPremium(ctx context.Context, repo refdata.Repository, req *quote.Request, result *quote.PremiumResult, raw decimal.Decimal, coverage, maxPayout *decimal.Decimal, asOf time.Time) error {
	corrected := ApplyPayoutLimit(quote.RoundMoney(raw), coverage, maxPayout)
	result.PayoutLimitApplied = corrected.Applied
	result.PayoutLimitFactor = corrected.Factor

	bundle, discount, err := ResolveBundleDiscount(ctx, req.RiskCodes, corrected.Premium, asOf, repo)
	if err != nil {
		return err
	}
	if bundle != nil {
		result.BundleCode = bundle.Code
		result.BundleDiscount = discount
	} else {
		result.BundleDiscount = decimal.Zero
	}

	result.PremiumBeforeDiscounts = quote.RoundMoney(corrected.Premium.Sub(result.BundleDiscount))
	return nil
}

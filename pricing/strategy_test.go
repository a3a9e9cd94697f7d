package pricing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/premium-engine/pricing"
	"github.com/warp/premium-engine/quote"
	"github.com/warp/premium-engine/refdata"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var (
	tripStart = time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	tripEnd   = tripStart.AddDate(0, 0, 14) // 14 whole days
)

func dec(s string) decimal.Decimal { return quote.MustDecimal(s) }

// newPricingRepo builds a repository with neutral coefficients so the
// formula terms can be asserted one at a time.
func newPricingRepo() *refdata.Memory {
	w := refdata.Window{Active: true}
	payout8000 := dec("8000")

	repo := refdata.NewMemory()
	repo.Import(refdata.Dataset{
		Countries: []refdata.Country{
			{Window: w, Code: "ES", Name: "Spain", RiskGroup: refdata.RiskLow, RiskCoefficient: dec("1.0")},
			{Window: w, Code: "EG", Name: "Egypt", RiskGroup: refdata.RiskHigh, RiskCoefficient: dec("1.6")},
			{Window: w, Code: "AF", Name: "Afghanistan", RiskGroup: refdata.RiskVeryHigh, RiskCoefficient: dec("2.5")},
		},
		CoverageLevels: []refdata.CoverageLevel{
			{Window: w, Code: "PLAIN", Name: "Plain", CoverageAmount: dec("10000"), DailyRate: dec("2.00")},
			{Window: w, Code: "CAPPED", Name: "Capped", CoverageAmount: dec("10000"), DailyRate: dec("1.90"), MaxPayoutAmount: &payout8000},
		},
		RiskTypes: []refdata.RiskType{
			{Window: w, Code: "SPORT_ACTIVITIES", Name: "Sport", BaseCoefficient: dec("0.30")},
			{Window: w, Code: "EXTREME_SPORT", Name: "Extreme", BaseCoefficient: dec("0.80")},
			{Window: w, Code: "LUGGAGE_LOSS", Name: "Luggage", BaseCoefficient: dec("0.10")},
		},
		AgeCoefficients: []refdata.AgeCoefficient{
			{Window: w, AgeFrom: 0, AgeTo: 64, Coefficient: dec("1.00"), Description: "adult"},
			{Window: w, AgeFrom: 65, AgeTo: 80, Coefficient: dec("1.30"), Description: "senior"},
		},
		AgeRiskModifiers: []refdata.AgeRiskModifier{
			{Window: w, RiskCode: "EXTREME_SPORT", AgeFrom: 50, AgeTo: 80, Multiplier: dec("1.5")},
		},
		DurationCoefficients: []refdata.DurationCoefficient{
			{Window: w, DaysFrom: 1, DaysTo: 365, Coefficient: dec("1.00")},
		},
		Bundles: []refdata.RiskBundle{
			{Window: w, Code: "ACTIVE_HOLIDAY", Name: "Active holiday", DiscountPercent: dec("10"),
				RequiredRiskCodes: []string{"SPORT_ACTIVITIES", "LUGGAGE_LOSS"}},
			{Window: w, Code: "ADVENTURER", Name: "Adventurer", DiscountPercent: dec("15"),
				RequiredRiskCodes: []string{"SPORT_ACTIVITIES", "EXTREME_SPORT"}},
		},
		DefaultRates: []refdata.CountryDefaultRate{
			{Window: w, CountryCode: "AF", DailyRate: dec("2.00")},
		},
	})
	return repo
}

func baseRequest() *quote.Request {
	return &quote.Request{
		PersonName:        "Jane Traveler",
		BirthDate:         tripStart.AddDate(-30, 0, -40),
		TripStart:         tripStart,
		TripEnd:           tripEnd,
		CountryCode:       "ES",
		CoverageLevelCode: "PLAIN",
	}
}

func calculate(t *testing.T, req *quote.Request) *quote.PremiumResult {
	t.Helper()
	repo := newPricingRepo()
	strategy, err := pricing.ResolveStrategy(context.Background(), req, repo, true)
	require.NoError(t, err)
	premium, err := strategy.Calculate(context.Background(), req, &quote.TripContext{})
	require.NoError(t, err)
	return premium
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "want %s, got %s", want, got.StringFixed(2))
}

// =============================================================================
// COVERAGE-LEVEL FORMULA
// =============================================================================

func TestCoverageLevel_NeutralCoefficients_FormulaCheck(t *testing.T) {
	// GIVEN: Daily rate 2.00, all coefficients 1.0, 14 whole trip days
	// WHEN: The coverage-level strategy prices the request
	// THEN: premium = 2.00 * 1.0 * 1.0 * 1.0 * 1.0 * 14 = 28.00

	premium := calculate(t, baseRequest())

	assert.Equal(t, quote.StrategyCoverageLevel, premium.Strategy)
	assert.Equal(t, 14, premium.Days)
	assertMoney(t, "28.00", premium.PremiumBeforeDiscounts)
	assert.False(t, premium.PayoutLimitApplied)
	assert.Empty(t, premium.BundleCode)
}

func TestCoverageLevel_CountryCoefficientMultiplies(t *testing.T) {
	// GIVEN: The same request headed to a 1.6-coefficient destination
	// WHEN: Priced
	// THEN: 28.00 * 1.6 = 44.80

	req := baseRequest()
	req.CountryCode = "EG"

	premium := calculate(t, req)

	assertMoney(t, "44.80", premium.PremiumBeforeDiscounts)
	assertMoney(t, "1.6", premium.CountryCoefficient)
}

func TestCoverageLevel_RiskLoadsAdditive(t *testing.T) {
	// GIVEN: Sport (0.30) and luggage (0.10) risks for a 30-year-old
	// WHEN: Priced
	// THEN: Risk factor is (1 + 0.40); the qualifying bundle discounts 10%

	req := baseRequest()
	req.RiskCodes = []string{"SPORT_ACTIVITIES", "LUGGAGE_LOSS"}

	premium := calculate(t, req)

	// 2.00 * 1.40 * 14 = 39.20, then 10% ACTIVE_HOLIDAY discount
	assertMoney(t, "0.40", premium.RiskCoefficient)
	assert.Equal(t, "ACTIVE_HOLIDAY", premium.BundleCode)
	assertMoney(t, "3.92", premium.BundleDiscount)
	assertMoney(t, "35.28", premium.PremiumBeforeDiscounts)
	require.Len(t, premium.RiskBreakdown, 2)
	assertMoney(t, "0.30", premium.RiskBreakdown[0].Effective)
}

func TestCoverageLevel_AgeModifierScalesRiskLoad(t *testing.T) {
	// GIVEN: EXTREME_SPORT (0.80) selected by a 55-year-old (modifier 1.5)
	// WHEN: Priced
	// THEN: The effective load is 1.20, not 0.80

	req := baseRequest()
	req.BirthDate = tripStart.AddDate(-55, 0, -40)
	req.RiskCodes = []string{"EXTREME_SPORT"}

	premium := calculate(t, req)

	require.Len(t, premium.RiskBreakdown, 1)
	assertMoney(t, "0.80", premium.RiskBreakdown[0].BaseCoefficient)
	assertMoney(t, "1.5", premium.RiskBreakdown[0].AgeMultiplier)
	assertMoney(t, "1.20", premium.RiskBreakdown[0].Effective)
	// 2.00 * 2.20 * 14 = 61.60
	assertMoney(t, "61.60", premium.PremiumBeforeDiscounts)
}

func TestCoverageLevel_AgeCoefficientDisabled_ForcesOne(t *testing.T) {
	// GIVEN: A 70-year-old (band coefficient 1.30) opting out of the age
	//        coefficient
	// WHEN: Priced
	// THEN: The coefficient reports 1 and the premium stays flat

	off := false
	req := baseRequest()
	req.BirthDate = tripStart.AddDate(-70, 0, -40)
	req.AgeCoefficientEnabled = &off

	premium := calculate(t, req)

	assertMoney(t, "1", premium.AgeCoefficient)
	assert.Equal(t, "age coefficient disabled", premium.AgeDescription)
	assertMoney(t, "28.00", premium.PremiumBeforeDiscounts)
}

// =============================================================================
// PAYOUT-LIMIT CORRECTION
// =============================================================================

func TestCoverageLevel_PayoutLimit_ShrinksProportionally(t *testing.T) {
	// GIVEN: A capped level: coverage 10000, max payout 8000, raw 26.60
	// WHEN: Priced
	// THEN: 26.60 * 0.8 = 21.28, flagged as corrected

	req := baseRequest()
	req.CoverageLevelCode = "CAPPED"

	premium := calculate(t, req)

	assert.True(t, premium.PayoutLimitApplied)
	assertMoney(t, "0.8", premium.PayoutLimitFactor)
	assertMoney(t, "21.28", premium.PremiumBeforeDiscounts)
}

func TestApplyPayoutLimit_NoOpCases(t *testing.T) {
	raw := dec("26.60")
	coverage := dec("10000")
	equalPayout := dec("10000")
	higherPayout := dec("12000")

	// No coverage amount (country-default mode)
	out := pricing.ApplyPayoutLimit(raw, nil, &equalPayout)
	assert.False(t, out.Applied)
	assertMoney(t, "26.60", out.Premium)

	// No payout cap
	out = pricing.ApplyPayoutLimit(raw, &coverage, nil)
	assert.False(t, out.Applied)

	// Cap equal to coverage
	out = pricing.ApplyPayoutLimit(raw, &coverage, &equalPayout)
	assert.False(t, out.Applied)
	assertMoney(t, "1", out.Factor)

	// Cap above coverage
	out = pricing.ApplyPayoutLimit(raw, &coverage, &higherPayout)
	assert.False(t, out.Applied)
}

// =============================================================================
// BUNDLE RESOLUTION
// =============================================================================

func TestResolveBundleDiscount_LargestDiscountWins(t *testing.T) {
	// GIVEN: A selection qualifying for both the 10% and the 15% bundle
	// WHEN: Resolved against a 100.00 premium
	// THEN: The 15% bundle wins

	repo := newPricingRepo()
	bundle, discount, err := pricing.ResolveBundleDiscount(context.Background(),
		[]string{"SPORT_ACTIVITIES", "LUGGAGE_LOSS", "EXTREME_SPORT"},
		dec("100.00"), tripStart, repo)

	require.NoError(t, err)
	require.NotNil(t, bundle)
	assert.Equal(t, "ADVENTURER", bundle.Code)
	assertMoney(t, "15.00", discount)
}

func TestResolveBundleDiscount_PartialSelection_NoBundle(t *testing.T) {
	// GIVEN: Only one of the two codes a bundle requires
	// WHEN: Resolved
	// THEN: No bundle applies

	repo := newPricingRepo()
	bundle, discount, err := pricing.ResolveBundleDiscount(context.Background(),
		[]string{"SPORT_ACTIVITIES"}, dec("100.00"), tripStart, repo)

	require.NoError(t, err)
	assert.Nil(t, bundle)
	assert.True(t, discount.IsZero())
}

// =============================================================================
// COUNTRY-DEFAULT STRATEGY
// =============================================================================

func TestCountryDefault_RateEmbedsCountryRisk(t *testing.T) {
	// GIVEN: A very-high-risk destination (coefficient 2.5) with a default
	//        daily rate of 2.00
	// WHEN: Priced in country-default mode
	// THEN: premium = 2.00 * 14 = 28.00; the 2.5 is reported, never applied

	req := baseRequest()
	req.CountryCode = "AF"
	req.CoverageLevelCode = ""
	req.UseCountryDefault = true

	premium := calculate(t, req)

	assert.Equal(t, quote.StrategyCountryDefault, premium.Strategy)
	assertMoney(t, "28.00", premium.PremiumBeforeDiscounts)
	assertMoney(t, "2.5", premium.CountryCoefficient)
	assertMoney(t, "1", premium.TotalCoefficient)
	assert.Nil(t, premium.CoverageAmount)
	assert.False(t, premium.PayoutLimitApplied)
}

// =============================================================================
// STRATEGY SELECTION
// =============================================================================

func TestResolveStrategy_FlagOff_CoverageLevel(t *testing.T) {
	repo := newPricingRepo()
	strategy, err := pricing.ResolveStrategy(context.Background(), baseRequest(), repo, true)

	require.NoError(t, err)
	assert.Equal(t, quote.StrategyCoverageLevel, strategy.Name())
}

func TestResolveStrategy_FlagOn_RateFound_CountryDefault(t *testing.T) {
	req := baseRequest()
	req.CountryCode = "AF"
	req.UseCountryDefault = true

	repo := newPricingRepo()
	strategy, err := pricing.ResolveStrategy(context.Background(), req, repo, true)

	require.NoError(t, err)
	assert.Equal(t, quote.StrategyCountryDefault, strategy.Name())
}

func TestResolveStrategy_NoRate_FallsBackToCoverageLevel(t *testing.T) {
	// GIVEN: Country-default mode for a country with no default rate, but a
	//        coverage level code present as fallback
	// WHEN: The strategy is resolved
	// THEN: The coverage-level strategy is selected silently

	req := baseRequest()
	req.CountryCode = "ES" // no default rate configured
	req.UseCountryDefault = true

	repo := newPricingRepo()
	strategy, err := pricing.ResolveStrategy(context.Background(), req, repo, true)

	require.NoError(t, err)
	assert.Equal(t, quote.StrategyCoverageLevel, strategy.Name())
}

func TestResolveStrategy_NoBasisAtAll_Fatal(t *testing.T) {
	// GIVEN: Country-default mode, no default rate, no fallback code
	// WHEN: The strategy is resolved
	// THEN: A configuration error wrapping ErrNoPricingBasis

	req := baseRequest()
	req.CountryCode = "ES"
	req.CoverageLevelCode = ""
	req.UseCountryDefault = true

	repo := newPricingRepo()
	_, err := pricing.ResolveStrategy(context.Background(), req, repo, true)

	require.Error(t, err)
	assert.True(t, errors.Is(err, quote.ErrNoPricingBasis))
	assert.True(t, quote.IsConfigError(err))
}

// =============================================================================
// CONFIGURATION GAPS
// =============================================================================

func TestCalculateAge_BandGap_ConfigError(t *testing.T) {
	// GIVEN: An empty repository, so no age band matches
	// WHEN: The age calculator runs with the coefficient enabled
	// THEN: A configuration error wrapping ErrAgeBandNotConfigured

	repo := refdata.NewMemory()
	_, err := pricing.CalculateAge(context.Background(), tripStart.AddDate(-30, 0, 0), tripStart, true, repo)

	require.Error(t, err)
	assert.True(t, errors.Is(err, quote.ErrAgeBandNotConfigured))
}

func TestDurationCoefficientFor_BandGap_ConfigError(t *testing.T) {
	repo := refdata.NewMemory()
	_, err := pricing.DurationCoefficientFor(context.Background(), 14, tripStart, repo)

	require.Error(t, err)
	assert.True(t, errors.Is(err, quote.ErrDurationBandNotConfigured))
}

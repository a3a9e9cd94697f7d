package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/premium-engine/engine"
	"github.com/warp/premium-engine/factory"
	"github.com/warp/premium-engine/quote"
	"github.com/warp/premium-engine/refdata"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestEngine() (*engine.Engine, *refdata.Memory) {
	repo := refdata.NewMemory()
	repo.Import(factory.DefaultSeed())
	return engine.New(repo, repo, repo), repo
}

// spainRequest is a clean request the demo dataset approves: 30-year-old,
// 14 days in Spain on the basic level.
func spainRequest() *quote.Request {
	start := time.Now().AddDate(0, 2, 0).Truncate(24 * time.Hour)
	return &quote.Request{
		PersonName:        "Jane Traveler",
		BirthDate:         start.AddDate(-30, 0, -40),
		TripStart:         start,
		TripEnd:           start.AddDate(0, 0, 14),
		CountryCode:       "ES",
		CoverageLevelCode: "LEVEL_10000",
	}
}

// =============================================================================
// END TO END
// =============================================================================

func TestEngine_CleanRequest_ApprovedWithPremium(t *testing.T) {
	// GIVEN: The demo dataset and a clean request
	// WHEN: The quote runs end to end
	// THEN: APPROVED with the full breakdown:
	//       2.00 * 1.0 * 1.0 * 0.95 * 1.0 * 14 = 26.60
	//       payout cap 8000/10000 -> 26.60 * 0.8 = 21.28

	eng, _ := newTestEngine()
	outcome, err := eng.Quote(context.Background(), spainRequest())

	require.NoError(t, err)
	require.False(t, outcome.Failed())
	assert.NotEmpty(t, outcome.QuoteID)
	assert.Empty(t, outcome.Warnings)

	require.NotNil(t, outcome.Premium)
	assert.True(t, outcome.Premium.PayoutLimitApplied)
	assert.Equal(t, "21.28", outcome.Premium.PremiumBeforeDiscounts.StringFixed(2))
	assert.Equal(t, "21.28", outcome.Premium.FinalPremium.StringFixed(2))
	assert.Equal(t, "EUR", outcome.Premium.Currency)

	require.NotNil(t, outcome.Underwriting)
	assert.Equal(t, quote.DecisionApproved, outcome.Underwriting.Decision)
}

func TestEngine_SameRequestTwice_SamePremium(t *testing.T) {
	// GIVEN: The same request submitted twice
	// WHEN: Both quotes run
	// THEN: Identical premiums and decisions; only the quote IDs differ

	eng, _ := newTestEngine()
	req := spainRequest()

	first, err := eng.Quote(context.Background(), req)
	require.NoError(t, err)
	second, err := eng.Quote(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Premium.FinalPremium.String(), second.Premium.FinalPremium.String())
	assert.Equal(t, first.Premium.TotalCoefficient.String(), second.Premium.TotalCoefficient.String())
	assert.Equal(t, first.Underwriting.Decision, second.Underwriting.Decision)
	assert.NotEqual(t, first.QuoteID, second.QuoteID)
}

func TestEngine_ValidationFailure_NoPremiumNoDecision(t *testing.T) {
	// GIVEN: A request with a blank name
	// WHEN: The quote runs
	// THEN: Findings only; no premium, no underwriting, no decision logged

	eng, repo := newTestEngine()
	req := spainRequest()
	req.PersonName = ""

	outcome, err := eng.Quote(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, outcome.Failed())
	assert.Nil(t, outcome.Premium)
	assert.Nil(t, outcome.Underwriting)
	assert.Empty(t, outcome.QuoteID)
	assert.Empty(t, repo.Decisions)
}

func TestEngine_DeclinedDestination_IsAnOutcomeNotAnError(t *testing.T) {
	// GIVEN: A trip to a very-high-risk destination
	// WHEN: The quote runs
	// THEN: DECLINED with the premium still fully calculated

	eng, _ := newTestEngine()
	req := spainRequest()
	req.CountryCode = "AF"

	outcome, err := eng.Quote(context.Background(), req)

	require.NoError(t, err)
	require.False(t, outcome.Failed())
	assert.Equal(t, quote.DecisionDeclined, outcome.Underwriting.Decision)
	assert.NotEmpty(t, outcome.Underwriting.Reason)
	require.NotNil(t, outcome.Premium)
	assert.True(t, outcome.Premium.FinalPremium.IsPositive())
}

func TestEngine_WarningsSurviveToOutcome(t *testing.T) {
	// GIVEN: A trip that started yesterday (advisory warning)
	// WHEN: The quote runs
	// THEN: The quote succeeds and carries the warning

	eng, _ := newTestEngine()
	req := spainRequest()
	req.TripStart = time.Now().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	req.TripEnd = req.TripStart.AddDate(0, 0, 14)
	req.BirthDate = req.TripStart.AddDate(-30, 0, -40)

	outcome, err := eng.Quote(context.Background(), req)

	require.NoError(t, err)
	require.False(t, outcome.Failed())
	require.NotEmpty(t, outcome.Warnings)
	assert.Equal(t, quote.SeverityWarning, outcome.Warnings[0].Severity)
}

func TestEngine_CountryDefaultMode_EndToEnd(t *testing.T) {
	// GIVEN: Country-default mode for Spain (default rate 1.80)
	// WHEN: The quote runs
	// THEN: 1.80 * 1.0 * 0.95 * 14 = 23.94, no payout correction

	eng, _ := newTestEngine()
	req := spainRequest()
	req.CoverageLevelCode = ""
	req.UseCountryDefault = true

	outcome, err := eng.Quote(context.Background(), req)

	require.NoError(t, err)
	require.False(t, outcome.Failed())
	assert.Equal(t, quote.StrategyCountryDefault, outcome.Premium.Strategy)
	assert.Equal(t, "23.94", outcome.Premium.FinalPremium.StringFixed(2))
	assert.False(t, outcome.Premium.PayoutLimitApplied)
	assert.Nil(t, outcome.Premium.CoverageAmount)
}

func TestEngine_CountryDefaultFallback_UsesCoverageLevel(t *testing.T) {
	// GIVEN: Country-default mode for Japan, which has no default rate, with
	//        a coverage level present as fallback
	// WHEN: The quote runs
	// THEN: The coverage-level strategy prices the request

	eng, _ := newTestEngine()
	req := spainRequest()
	req.CountryCode = "JP"
	req.UseCountryDefault = true

	outcome, err := eng.Quote(context.Background(), req)

	require.NoError(t, err)
	require.False(t, outcome.Failed())
	assert.Equal(t, quote.StrategyCoverageLevel, outcome.Premium.Strategy)
}

// =============================================================================
// DECISION AUDIT
// =============================================================================

func TestEngine_DecisionLogged(t *testing.T) {
	// GIVEN: A successful quote
	// WHEN: It completes
	// THEN: One audit entry matches the outcome

	eng, repo := newTestEngine()
	outcome, err := eng.Quote(context.Background(), spainRequest())
	require.NoError(t, err)

	require.Len(t, repo.Decisions, 1)
	entry := repo.Decisions[0]
	assert.Equal(t, outcome.QuoteID, entry.QuoteID)
	assert.Equal(t, "Jane Traveler", entry.PersonName)
	assert.Equal(t, "ES", entry.CountryCode)
	assert.Equal(t, string(quote.DecisionApproved), entry.Decision)
	assert.Equal(t, "21.28", entry.Premium)
	assert.False(t, entry.At.IsZero())
}

// =============================================================================
// PROMO INTEGRATION
// =============================================================================

func TestEngine_PromoApplied_ReducesFinalPremium(t *testing.T) {
	// GIVEN: The WELCOME10 percentage promo on a premium above its minimum
	// WHEN: The quote runs
	// THEN: 10% off 21.28 -> 2.13 discount, final 19.15

	eng, _ := newTestEngine()
	req := spainRequest()
	req.PromoCode = "WELCOME10"

	outcome, err := eng.Quote(context.Background(), req)

	require.NoError(t, err)
	require.False(t, outcome.Failed())
	require.Len(t, outcome.Premium.AppliedDiscounts, 1)
	assert.Equal(t, "promo", outcome.Premium.AppliedDiscounts[0].Kind)
	assert.Equal(t, "2.13", outcome.Premium.TotalDiscount.StringFixed(2))
	assert.Equal(t, "19.15", outcome.Premium.FinalPremium.StringFixed(2))
}

package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/premium-engine/factory"
	"github.com/warp/premium-engine/quote"
	"github.com/warp/premium-engine/refdata"
	"github.com/warp/premium-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var asOf = time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Import(context.Background(), factory.DefaultSeed()))
	return store
}

// =============================================================================
// EFFECTIVE-DATED READS
// =============================================================================

func TestStore_CountryByCode_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	country, err := store.CountryByCode(context.Background(), "ES", asOf)
	require.NoError(t, err)
	require.NotNil(t, country)
	assert.Equal(t, "Spain", country.Name)
	assert.Equal(t, refdata.RiskLow, country.RiskGroup)
	assert.True(t, country.RiskCoefficient.Equal(quote.MustDecimal("1.0")))
}

func TestStore_UnknownCode_NilNil(t *testing.T) {
	store := newTestStore(t)

	country, err := store.CountryByCode(context.Background(), "ZZ", asOf)
	require.NoError(t, err)
	assert.Nil(t, country)
}

func TestStore_ExpiredRecord_NotReturned(t *testing.T) {
	// GIVEN: A country whose validity window closed before the as-of date
	// WHEN: Looked up on the as-of date and inside the window
	// THEN: Not found after the window, found inside it

	ended := asOf.AddDate(0, -1, 0)
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Import(context.Background(), refdata.Dataset{
		Countries: []refdata.Country{{
			Window:          refdata.Window{Active: true, ValidTo: &ended},
			Code:            "XK",
			Name:            "Ephemeral",
			RiskGroup:       refdata.RiskLow,
			RiskCoefficient: decimal.NewFromInt(1),
		}},
	}))

	country, err := store.CountryByCode(context.Background(), "XK", asOf)
	require.NoError(t, err)
	assert.Nil(t, country, "closed window must hide the record")

	country, err = store.CountryByCode(context.Background(), "XK", asOf.AddDate(0, -2, 0))
	require.NoError(t, err)
	assert.NotNil(t, country)
}

func TestStore_InactiveRecord_NotReturned(t *testing.T) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Import(context.Background(), refdata.Dataset{
		Countries: []refdata.Country{{
			Window:          refdata.Window{Active: false},
			Code:            "XI",
			Name:            "Inactive",
			RiskGroup:       refdata.RiskLow,
			RiskCoefficient: decimal.NewFromInt(1),
		}},
	}))

	country, err := store.CountryByCode(context.Background(), "XI", asOf)
	require.NoError(t, err)
	assert.Nil(t, country)
}

func TestStore_CoverageLevel_PayoutCapSurvives(t *testing.T) {
	store := newTestStore(t)

	level, err := store.CoverageLevelByCode(context.Background(), "LEVEL_10000", asOf)
	require.NoError(t, err)
	require.NotNil(t, level)
	require.NotNil(t, level.MaxPayoutAmount)
	assert.True(t, level.MaxPayoutAmount.Equal(quote.MustDecimal("8000")))

	level, err = store.CoverageLevelByCode(context.Background(), "LEVEL_20000", asOf)
	require.NoError(t, err)
	require.NotNil(t, level)
	assert.Nil(t, level.MaxPayoutAmount)
}

func TestStore_AgeAndDurationBands(t *testing.T) {
	store := newTestStore(t)

	band, err := store.AgeCoefficientFor(context.Background(), 70, asOf)
	require.NoError(t, err)
	require.NotNil(t, band)
	assert.True(t, band.Coefficient.Equal(quote.MustDecimal("1.30")))

	dur, err := store.DurationCoefficientFor(context.Background(), 14, asOf)
	require.NoError(t, err)
	require.NotNil(t, dur)
	assert.Equal(t, 8, dur.DaysFrom)
	assert.True(t, dur.Coefficient.Equal(quote.MustDecimal("0.95")))
}

func TestStore_DurationOverlap_HighestLowerBoundWins(t *testing.T) {
	// GIVEN: Two overlapping bands both containing 20 days
	// WHEN: Looked up
	// THEN: The band with the higher DaysFrom wins

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	w := refdata.Window{Active: true}
	require.NoError(t, store.Import(context.Background(), refdata.Dataset{
		DurationCoefficients: []refdata.DurationCoefficient{
			{Window: w, DaysFrom: 1, DaysTo: 30, Coefficient: quote.MustDecimal("1.00")},
			{Window: w, DaysFrom: 15, DaysTo: 30, Coefficient: quote.MustDecimal("0.90")},
		},
	}))

	dur, err := store.DurationCoefficientFor(context.Background(), 20, asOf)
	require.NoError(t, err)
	require.NotNil(t, dur)
	assert.Equal(t, 15, dur.DaysFrom)
}

func TestStore_RiskBundles_RequiredCodesRoundTrip(t *testing.T) {
	store := newTestStore(t)

	bundles, err := store.RiskBundles(context.Background(), asOf)
	require.NoError(t, err)
	require.Len(t, bundles, 2)

	byCode := map[string][]string{}
	for _, b := range bundles {
		byCode[b.Code] = b.RequiredRiskCodes
	}
	assert.ElementsMatch(t, []string{"SPORT_ACTIVITIES", "EXTREME_SPORT"}, byCode["ADVENTURER"])
}

func TestStore_RuleParameter(t *testing.T) {
	store := newTestStore(t)

	param, err := store.RuleParameter(context.Background(), "age", "maxAge", asOf)
	require.NoError(t, err)
	require.NotNil(t, param)
	assert.Equal(t, int64(80), param.Value.IntPart())

	param, err = store.RuleParameter(context.Background(), "age", "nope", asOf)
	require.NoError(t, err)
	assert.Nil(t, param)
}

// =============================================================================
// PROMO REDEMPTION - Conditional update semantics
// =============================================================================

func TestStore_RedeemPromo_CapIsHard(t *testing.T) {
	// GIVEN: A promo with a usage cap of 1
	// WHEN: Redeemed twice
	// THEN: First succeeds, second is refused

	capOne := 1
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Import(context.Background(), refdata.Dataset{
		PromoCodes: []refdata.PromoCode{{
			Window:   refdata.Window{Active: true},
			Code:     "LAST_ONE",
			Type:     refdata.PromoPercentage,
			Value:    quote.MustDecimal("10"),
			UsageCap: &capOne,
		}},
	}))

	ok, err := store.RedeemPromo(context.Background(), "LAST_ONE")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.RedeemPromo(context.Background(), "LAST_ONE")
	require.NoError(t, err)
	assert.False(t, ok)

	promo, err := store.PromoCodeByCode(context.Background(), "LAST_ONE", asOf)
	require.NoError(t, err)
	require.NotNil(t, promo)
	assert.Equal(t, 1, promo.UsageCount)
}

func TestStore_RedeemPromo_UncappedNeverRefuses(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 3; i++ {
		ok, err := store.RedeemPromo(context.Background(), "WELCOME10")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestStore_RedeemPromo_UnknownCode_False(t *testing.T) {
	store := newTestStore(t)

	ok, err := store.RedeemPromo(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.False(t, ok)
}

// =============================================================================
// DECISION LOG
// =============================================================================

func TestStore_DecisionLog_AppendAndList(t *testing.T) {
	store := newTestStore(t)

	entry := refdata.DecisionEntry{
		QuoteID:     "q-1",
		At:          asOf,
		PersonName:  "Jane Traveler",
		CountryCode: "ES",
		Decision:    "APPROVED",
		Premium:     "21.28",
		Currency:    "EUR",
	}
	require.NoError(t, store.AppendDecision(context.Background(), entry))

	entries, err := store.ListDecisions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "q-1", entries[0].QuoteID)
	assert.Equal(t, "21.28", entries[0].Premium)
	assert.True(t, entries[0].At.Equal(asOf))
}

// =============================================================================
// IMPORT
// =============================================================================

func TestStore_Import_ReplacesReferenceKeepsAudit(t *testing.T) {
	// GIVEN: A store with the demo seed and one logged decision
	// WHEN: A smaller dataset is imported
	// THEN: Reference data is replaced; the audit trail survives

	store := newTestStore(t)
	require.NoError(t, store.AppendDecision(context.Background(), refdata.DecisionEntry{
		QuoteID: "q-keep", At: asOf, PersonName: "x", CountryCode: "ES",
		Decision: "APPROVED", Premium: "10.00", Currency: "EUR",
	}))

	require.NoError(t, store.Import(context.Background(), refdata.Dataset{
		Countries: []refdata.Country{{
			Window:          refdata.Window{Active: true},
			Code:            "IS",
			Name:            "Iceland",
			RiskGroup:       refdata.RiskLow,
			RiskCoefficient: decimal.NewFromInt(1),
		}},
	}))

	old, err := store.CountryByCode(context.Background(), "ES", asOf)
	require.NoError(t, err)
	assert.Nil(t, old, "previous reference rows must be gone")

	fresh, err := store.CountryByCode(context.Background(), "IS", asOf)
	require.NoError(t, err)
	assert.NotNil(t, fresh)

	entries, err := store.ListDecisions(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

/*
demo.go - Built-in demo reference dataset

PURPOSE:
  A complete, self-consistent reference snapshot for local runs and tests
  when no seed file is given. The numbers are illustrative, not actuarial.

SEE ALSO:
  - seed.go: JSON-based seed loading for real deployments
*/
package factory

import (
	"github.com/shopspring/decimal"

	"github.com/warp/premium-engine/quote"
	"github.com/warp/premium-engine/refdata"
)

// DefaultSeed returns the built-in demo dataset. All records are active
// from the epoch with no end date.
func DefaultSeed() refdata.Dataset {
	w := refdata.Window{Active: true}
	dec := quote.MustDecimal

	cap100 := 100
	payout8000 := dec("8000")
	maxDiscount50 := dec("50.00")
	minPremium20 := dec("20.00")
	minPremium100 := dec("100.00")

	return refdata.Dataset{
		Countries: []refdata.Country{
			{Window: w, Code: "ES", Name: "Spain", RiskGroup: refdata.RiskLow, RiskCoefficient: dec("1.0")},
			{Window: w, Code: "IT", Name: "Italy", RiskGroup: refdata.RiskLow, RiskCoefficient: dec("1.1")},
			{Window: w, Code: "JP", Name: "Japan", RiskGroup: refdata.RiskLow, RiskCoefficient: dec("1.0")},
			{Window: w, Code: "US", Name: "United States", RiskGroup: refdata.RiskMedium, RiskCoefficient: dec("1.2")},
			{Window: w, Code: "TH", Name: "Thailand", RiskGroup: refdata.RiskMedium, RiskCoefficient: dec("1.3")},
			{Window: w, Code: "EG", Name: "Egypt", RiskGroup: refdata.RiskHigh, RiskCoefficient: dec("1.6")},
			{Window: w, Code: "AF", Name: "Afghanistan", RiskGroup: refdata.RiskVeryHigh, RiskCoefficient: dec("2.5")},
			{Window: w, Code: "SY", Name: "Syria", RiskGroup: refdata.RiskVeryHigh, RiskCoefficient: dec("2.5")},
		},
		CoverageLevels: []refdata.CoverageLevel{
			{Window: w, Code: "LEVEL_10000", Name: "Basic", CoverageAmount: dec("10000"), DailyRate: dec("2.00"), MaxPayoutAmount: &payout8000},
			{Window: w, Code: "LEVEL_20000", Name: "Standard", CoverageAmount: dec("20000"), DailyRate: dec("2.50")},
			{Window: w, Code: "LEVEL_50000", Name: "Comfort", CoverageAmount: dec("50000"), DailyRate: dec("3.50")},
			{Window: w, Code: "LEVEL_150000", Name: "Premium", CoverageAmount: dec("150000"), DailyRate: dec("5.00")},
			{Window: w, Code: "LEVEL_300000", Name: "Platinum", CoverageAmount: dec("300000"), DailyRate: dec("7.50")},
		},
		RiskTypes: []refdata.RiskType{
			{Window: w, Code: "TRAVEL_MEDICAL", Name: "Medical expenses", BaseCoefficient: dec("0"), Mandatory: true},
			{Window: w, Code: "SPORT_ACTIVITIES", Name: "Sport activities", BaseCoefficient: dec("0.30")},
			{Window: w, Code: "EXTREME_SPORT", Name: "Extreme sport", BaseCoefficient: dec("0.80")},
			{Window: w, Code: "LUGGAGE_LOSS", Name: "Luggage loss", BaseCoefficient: dec("0.10")},
			{Window: w, Code: "TRIP_CANCELLATION", Name: "Trip cancellation", BaseCoefficient: dec("0.20")},
		},
		AgeCoefficients: []refdata.AgeCoefficient{
			{Window: w, AgeFrom: 0, AgeTo: 17, Coefficient: dec("0.70"), Description: "minor"},
			{Window: w, AgeFrom: 18, AgeTo: 64, Coefficient: dec("1.00"), Description: "adult"},
			{Window: w, AgeFrom: 65, AgeTo: 74, Coefficient: dec("1.30"), Description: "senior"},
			{Window: w, AgeFrom: 75, AgeTo: 80, Coefficient: dec("1.80"), Description: "elder"},
		},
		AgeRiskModifiers: []refdata.AgeRiskModifier{
			{Window: w, RiskCode: "EXTREME_SPORT", AgeFrom: 50, AgeTo: 80, Multiplier: dec("1.5")},
			{Window: w, RiskCode: "SPORT_ACTIVITIES", AgeFrom: 60, AgeTo: 80, Multiplier: dec("1.2")},
		},
		DurationCoefficients: []refdata.DurationCoefficient{
			{Window: w, DaysFrom: 1, DaysTo: 7, Coefficient: dec("1.00")},
			{Window: w, DaysFrom: 8, DaysTo: 30, Coefficient: dec("0.95")},
			{Window: w, DaysFrom: 31, DaysTo: 90, Coefficient: dec("0.90")},
			{Window: w, DaysFrom: 91, DaysTo: 180, Coefficient: dec("0.85")},
			{Window: w, DaysFrom: 181, DaysTo: 365, Coefficient: dec("0.80")},
		},
		Bundles: []refdata.RiskBundle{
			{Window: w, Code: "ACTIVE_HOLIDAY", Name: "Active holiday", DiscountPercent: dec("10"),
				RequiredRiskCodes: []string{"SPORT_ACTIVITIES", "LUGGAGE_LOSS"}},
			{Window: w, Code: "ADVENTURER", Name: "Adventurer", DiscountPercent: dec("15"),
				RequiredRiskCodes: []string{"SPORT_ACTIVITIES", "EXTREME_SPORT"}},
		},
		DefaultRates: []refdata.CountryDefaultRate{
			{Window: w, CountryCode: "ES", DailyRate: dec("1.80")},
			{Window: w, CountryCode: "IT", DailyRate: dec("2.00")},
			{Window: w, CountryCode: "TH", DailyRate: dec("2.60")},
		},
		PromoCodes: []refdata.PromoCode{
			{Window: w, Code: "WELCOME10", Type: refdata.PromoPercentage, Value: dec("10"),
				MaxDiscount: &maxDiscount50, MinPremium: &minPremium20},
			{Window: w, Code: "SUMMER25", Type: refdata.PromoFixedAmount, Value: dec("25.00"),
				MinPremium: &minPremium100, UsageCap: &cap100},
		},
		RuleParameters: []refdata.RuleParameter{
			{Window: w, RuleName: "age", ParamName: "maxAge", Value: decimal.NewFromInt(80)},
			{Window: w, RuleName: "age", ParamName: "reviewAge", Value: decimal.NewFromInt(75)},
			{Window: w, RuleName: "trip-duration", ParamName: "maxDays", Value: decimal.NewFromInt(180)},
		},
	}
}

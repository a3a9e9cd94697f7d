/*
Package factory provides JSON to Go reference-data conversion.

PURPOSE:
  Converts JSON seed documents into refdata records. This enables product
  configuration without code changes - actuaries can adjust rates, bands,
  bundles, and promos in JSON, and the factory builds the proper Go
  structs. A built-in demo dataset covers local runs and tests.

JSON SCHEMA (excerpt):
  {
    "countries": [
      {"code": "ES", "name": "Spain", "risk_group": "LOW",
       "risk_coefficient": "1.0", "valid_from": "2020-01-01"}
    ],
    "coverage_levels": [
      {"code": "LEVEL_10000", "coverage_amount": "10000",
       "daily_rate": "2.00", "valid_from": "2020-01-01"}
    ],
    ...
  }

  Decimal fields are JSON strings to keep exact values; dates are
  "2006-01-02". Records omitting valid_from are active from the epoch.

USAGE:
  ds, err := factory.Load("./seed.json")    // or factory.DefaultSeed()
  repo := refdata.NewMemory()
  repo.Import(ds)

SEE ALSO:
  - refdata/dataset.go: The neutral carrier both stores import
  - cmd/server/main.go: Seed selection at startup
*/
package factory

import (
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/warp/premium-engine/refdata"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// SeedConfig is the JSON representation of a reference snapshot.
type SeedConfig struct {
	Countries            []CountryJSON             `json:"countries"`
	CoverageLevels       []CoverageLevelJSON       `json:"coverage_levels"`
	RiskTypes            []RiskTypeJSON            `json:"risk_types"`
	AgeCoefficients      []AgeCoefficientJSON      `json:"age_coefficients"`
	AgeRiskModifiers     []AgeRiskModifierJSON     `json:"age_risk_modifiers"`
	DurationCoefficients []DurationCoefficientJSON `json:"duration_coefficients"`
	RiskBundles          []RiskBundleJSON          `json:"risk_bundles"`
	CountryDefaultRates  []CountryDefaultRateJSON  `json:"country_default_rates"`
	PromoCodes           []PromoCodeJSON           `json:"promo_codes"`
	RuleParameters       []RuleParameterJSON       `json:"rule_parameters"`
}

// WindowJSON is the shared effective-dating fields.
type WindowJSON struct {
	ValidFrom string `json:"valid_from,omitempty"`
	ValidTo   string `json:"valid_to,omitempty"`
	Inactive  bool   `json:"inactive,omitempty"`
}

type CountryJSON struct {
	WindowJSON
	Code            string `json:"code"`
	Name            string `json:"name"`
	RiskGroup       string `json:"risk_group"`
	RiskCoefficient string `json:"risk_coefficient"`
}

type CoverageLevelJSON struct {
	WindowJSON
	Code            string `json:"code"`
	Name            string `json:"name"`
	CoverageAmount  string `json:"coverage_amount"`
	DailyRate       string `json:"daily_rate"`
	MaxPayoutAmount string `json:"max_payout_amount,omitempty"`
}

type RiskTypeJSON struct {
	WindowJSON
	Code            string `json:"code"`
	Name            string `json:"name"`
	BaseCoefficient string `json:"base_coefficient"`
	Mandatory       bool   `json:"mandatory,omitempty"`
}

type AgeCoefficientJSON struct {
	WindowJSON
	AgeFrom     int    `json:"age_from"`
	AgeTo       int    `json:"age_to"`
	Coefficient string `json:"coefficient"`
	Description string `json:"description,omitempty"`
}

type AgeRiskModifierJSON struct {
	WindowJSON
	RiskCode   string `json:"risk_code"`
	AgeFrom    int    `json:"age_from"`
	AgeTo      int    `json:"age_to"`
	Multiplier string `json:"multiplier"`
}

type DurationCoefficientJSON struct {
	WindowJSON
	DaysFrom    int    `json:"days_from"`
	DaysTo      int    `json:"days_to"`
	Coefficient string `json:"coefficient"`
}

type RiskBundleJSON struct {
	WindowJSON
	Code              string   `json:"code"`
	Name              string   `json:"name"`
	DiscountPercent   string   `json:"discount_percent"`
	RequiredRiskCodes []string `json:"required_risk_codes"`
}

type CountryDefaultRateJSON struct {
	WindowJSON
	CountryCode string `json:"country_code"`
	DailyRate   string `json:"daily_rate"`
}

type PromoCodeJSON struct {
	WindowJSON
	Code        string `json:"code"`
	Type        string `json:"type"` // PERCENTAGE | FIXED_AMOUNT
	Value       string `json:"value"`
	MaxDiscount string `json:"max_discount,omitempty"`
	MinPremium  string `json:"min_premium,omitempty"`
	UsageCap    *int   `json:"usage_cap,omitempty"`
}

type RuleParameterJSON struct {
	WindowJSON
	RuleName  string `json:"rule_name"`
	ParamName string `json:"param_name"`
	Value     string `json:"value"`
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads and converts a seed file.
func Load(path string) (refdata.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return refdata.Dataset{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

// Parse converts a JSON seed document into a dataset.
func Parse(raw []byte) (refdata.Dataset, error) {
	var cfg SeedConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return refdata.Dataset{}, fmt.Errorf("parse seed config: %w", err)
	}
	return cfg.Dataset()
}

// Dataset converts the parsed config into refdata records.
func (c *SeedConfig) Dataset() (refdata.Dataset, error) {
	var ds refdata.Dataset
	conv := &converter{}

	for _, j := range c.Countries {
		ds.Countries = append(ds.Countries, refdata.Country{
			Window:          conv.window(j.WindowJSON),
			Code:            j.Code,
			Name:            j.Name,
			RiskGroup:       refdata.RiskGroup(j.RiskGroup),
			RiskCoefficient: conv.dec(j.RiskCoefficient, "country risk_coefficient"),
		})
	}
	for _, j := range c.CoverageLevels {
		ds.CoverageLevels = append(ds.CoverageLevels, refdata.CoverageLevel{
			Window:          conv.window(j.WindowJSON),
			Code:            j.Code,
			Name:            j.Name,
			CoverageAmount:  conv.dec(j.CoverageAmount, "coverage_amount"),
			DailyRate:       conv.dec(j.DailyRate, "daily_rate"),
			MaxPayoutAmount: conv.decPtr(j.MaxPayoutAmount, "max_payout_amount"),
		})
	}
	for _, j := range c.RiskTypes {
		ds.RiskTypes = append(ds.RiskTypes, refdata.RiskType{
			Window:          conv.window(j.WindowJSON),
			Code:            j.Code,
			Name:            j.Name,
			BaseCoefficient: conv.dec(j.BaseCoefficient, "base_coefficient"),
			Mandatory:       j.Mandatory,
		})
	}
	for _, j := range c.AgeCoefficients {
		ds.AgeCoefficients = append(ds.AgeCoefficients, refdata.AgeCoefficient{
			Window:      conv.window(j.WindowJSON),
			AgeFrom:     j.AgeFrom,
			AgeTo:       j.AgeTo,
			Coefficient: conv.dec(j.Coefficient, "age coefficient"),
			Description: j.Description,
		})
	}
	for _, j := range c.AgeRiskModifiers {
		ds.AgeRiskModifiers = append(ds.AgeRiskModifiers, refdata.AgeRiskModifier{
			Window:     conv.window(j.WindowJSON),
			RiskCode:   j.RiskCode,
			AgeFrom:    j.AgeFrom,
			AgeTo:      j.AgeTo,
			Multiplier: conv.dec(j.Multiplier, "age risk multiplier"),
		})
	}
	for _, j := range c.DurationCoefficients {
		ds.DurationCoefficients = append(ds.DurationCoefficients, refdata.DurationCoefficient{
			Window:      conv.window(j.WindowJSON),
			DaysFrom:    j.DaysFrom,
			DaysTo:      j.DaysTo,
			Coefficient: conv.dec(j.Coefficient, "duration coefficient"),
		})
	}
	for _, j := range c.RiskBundles {
		ds.Bundles = append(ds.Bundles, refdata.RiskBundle{
			Window:            conv.window(j.WindowJSON),
			Code:              j.Code,
			Name:              j.Name,
			DiscountPercent:   conv.dec(j.DiscountPercent, "bundle discount_percent"),
			RequiredRiskCodes: j.RequiredRiskCodes,
		})
	}
	for _, j := range c.CountryDefaultRates {
		ds.DefaultRates = append(ds.DefaultRates, refdata.CountryDefaultRate{
			Window:      conv.window(j.WindowJSON),
			CountryCode: j.CountryCode,
			DailyRate:   conv.dec(j.DailyRate, "default daily_rate"),
		})
	}
	for _, j := range c.PromoCodes {
		ds.PromoCodes = append(ds.PromoCodes, refdata.PromoCode{
			Window:      conv.window(j.WindowJSON),
			Code:        j.Code,
			Type:        refdata.PromoDiscountType(j.Type),
			Value:       conv.dec(j.Value, "promo value"),
			MaxDiscount: conv.decPtr(j.MaxDiscount, "promo max_discount"),
			MinPremium:  conv.decPtr(j.MinPremium, "promo min_premium"),
			UsageCap:    j.UsageCap,
		})
	}
	for _, j := range c.RuleParameters {
		ds.RuleParameters = append(ds.RuleParameters, refdata.RuleParameter{
			Window:    conv.window(j.WindowJSON),
			RuleName:  j.RuleName,
			ParamName: j.ParamName,
			Value:     conv.dec(j.Value, "rule parameter value"),
		})
	}

	if conv.err != nil {
		return refdata.Dataset{}, conv.err
	}
	return ds, nil
}

// converter accumulates the first conversion error instead of threading
// errors through every field.
type converter struct {
	err error
}

func (c *converter) window(j WindowJSON) refdata.Window {
	w := refdata.Window{Active: !j.Inactive}
	if j.ValidFrom == "" {
		w.ValidFrom = time.Time{} // active from the epoch
	} else {
		w.ValidFrom = c.date(j.ValidFrom, "valid_from")
	}
	if j.ValidTo != "" {
		to := c.date(j.ValidTo, "valid_to")
		w.ValidTo = &to
	}
	return w
}

func (c *converter) date(s, field string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil && c.err == nil {
		c.err = fmt.Errorf("%s %q: %w", field, s, err)
	}
	return t
}

func (c *converter) dec(s, field string) decimal.Decimal {
	if s == "" {
		if c.err == nil {
			c.err = fmt.Errorf("%s: missing decimal value", field)
		}
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil && c.err == nil {
		c.err = fmt.Errorf("%s %q: %w", field, s, err)
	}
	return d
}

func (c *converter) decPtr(s, field string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	d := c.dec(s, field)
	return &d
}

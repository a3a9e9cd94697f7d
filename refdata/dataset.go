/*
dataset.go - Neutral carrier for a full reference snapshot

PURPOSE:
  Bundles one complete set of reference records so the seed factory can
  hand the same data to either repository implementation (memory for
  tests/demo, sqlite for production) without depending on either.

SEE ALSO:
  - factory/seed.go: Builds datasets from JSON or the built-in demo seed
  - memory.go: Import
  - store/sqlite: Import
*/
package refdata

// Dataset is one complete reference snapshot.
type Dataset struct {
	Countries            []Country
	CoverageLevels       []CoverageLevel
	RiskTypes            []RiskType
	AgeCoefficients      []AgeCoefficient
	AgeRiskModifiers     []AgeRiskModifier
	DurationCoefficients []DurationCoefficient
	Bundles              []RiskBundle
	DefaultRates         []CountryDefaultRate
	PromoCodes           []PromoCode
	RuleParameters       []RuleParameter
}

// Import replaces the repository contents with the dataset.
func (m *Memory) Import(ds Dataset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Countries = ds.Countries
	m.CoverageLevels = ds.CoverageLevels
	m.RiskTypes = ds.RiskTypes
	m.AgeCoefficients = ds.AgeCoefficients
	m.AgeRiskModifiers = ds.AgeRiskModifiers
	m.DurationCoefficients = ds.DurationCoefficients
	m.Bundles = ds.Bundles
	m.DefaultRates = ds.DefaultRates
	m.PromoCodes = ds.PromoCodes
	m.RuleParameters = ds.RuleParameters
}

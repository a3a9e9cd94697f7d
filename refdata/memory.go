/*
memory.go - In-memory reference repository (for testing/demo)

PURPOSE:
  Implements Repository, PromoRedeemer, and DecisionLog over plain slices.
  Used by unit tests and by demo mode when no database path is given.

CONCURRENCY:
  Reads take an RLock; promo redemption takes the write lock so that
  check-cap-and-increment is one serialized operation per store.

SEE ALSO:
  - repository.go: Interface contracts
  - store/sqlite: Production implementation
*/
package refdata

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// MEMORY REPOSITORY
// =============================================================================

type Memory struct {
	mu sync.RWMutex

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

	Decisions []DecisionEntry
}

func NewMemory() *Memory {
	return &Memory{}
}

// =============================================================================
// REPOSITORY IMPLEMENTATION
// =============================================================================

func (m *Memory) CountryByCode(_ context.Context, code string, asOf time.Time) (*Country, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.Countries {
		c := m.Countries[i]
		if c.Code == code && c.ActiveOn(asOf) {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *Memory) CoverageLevelByCode(_ context.Context, code string, asOf time.Time) (*CoverageLevel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.CoverageLevels {
		c := m.CoverageLevels[i]
		if c.Code == code && c.ActiveOn(asOf) {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *Memory) RiskTypeByCode(_ context.Context, code string, asOf time.Time) (*RiskType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.RiskTypes {
		r := m.RiskTypes[i]
		if r.Code == code && r.ActiveOn(asOf) {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *Memory) AgeCoefficientFor(_ context.Context, age int, asOf time.Time) (*AgeCoefficient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.AgeCoefficients {
		a := m.AgeCoefficients[i]
		if a.ActiveOn(asOf) && a.Contains(age) {
			return &a, nil
		}
	}
	return nil, nil
}

func (m *Memory) AgeRiskModifierFor(_ context.Context, riskCode string, age int, asOf time.Time) (*AgeRiskModifier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.AgeRiskModifiers {
		a := m.AgeRiskModifiers[i]
		if a.RiskCode == riskCode && a.ActiveOn(asOf) && age >= a.AgeFrom && age <= a.AgeTo {
			return &a, nil
		}
	}
	return nil, nil
}

// DurationCoefficientFor prefers the matching band with the highest DaysFrom
// (ORDER BY days_from DESC semantics).
func (m *Memory) DurationCoefficientFor(_ context.Context, days int, asOf time.Time) (*DurationCoefficient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best *DurationCoefficient
	for i := range m.DurationCoefficients {
		d := m.DurationCoefficients[i]
		if !d.ActiveOn(asOf) || !d.Contains(days) {
			continue
		}
		if best == nil || d.DaysFrom > best.DaysFrom {
			tmp := d
			best = &tmp
		}
	}
	return best, nil
}

func (m *Memory) RiskBundles(_ context.Context, asOf time.Time) ([]RiskBundle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []RiskBundle
	for _, b := range m.Bundles {
		if b.ActiveOn(asOf) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *Memory) CountryDefaultRateFor(_ context.Context, countryCode string, asOf time.Time) (*CountryDefaultRate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.DefaultRates {
		r := m.DefaultRates[i]
		if r.CountryCode == countryCode && r.ActiveOn(asOf) {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *Memory) PromoCodeByCode(_ context.Context, code string, asOf time.Time) (*PromoCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.PromoCodes {
		p := m.PromoCodes[i]
		if p.Code == code && p.ActiveOn(asOf) {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *Memory) RuleParameter(_ context.Context, ruleName, paramName string, asOf time.Time) (*RuleParameter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.RuleParameters {
		p := m.RuleParameters[i]
		if p.RuleName == ruleName && p.ParamName == paramName && p.ActiveOn(asOf) {
			return &p, nil
		}
	}
	return nil, nil
}

// =============================================================================
// PROMO REDEMPTION - Serialized under the write lock
// =============================================================================

func (m *Memory) RedeemPromo(_ context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.PromoCodes {
		p := &m.PromoCodes[i]
		if p.Code != code {
			continue
		}
		if p.UsageCap != nil && p.UsageCount >= *p.UsageCap {
			return false, nil
		}
		p.UsageCount++
		return true, nil
	}
	return false, nil
}

// =============================================================================
// DECISION LOG
// =============================================================================

func (m *Memory) AppendDecision(_ context.Context, entry DecisionEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Decisions = append(m.Decisions, entry)
	return nil
}

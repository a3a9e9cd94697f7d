/*
reference.go - Reference-data validation rules (order band 200-299)

PURPOSE:
  Existence and activity checks against effective-dated reference data,
  keyed by the trip start date. A miss here is an ERROR: the request names
  something the product catalog does not offer on that date.

RULES:
  200  destination country exists and is active
  210  coverage level exists and is active (skipped in country-default mode)
  220  every selected risk code exists and is active
  230  currency is in the supported display set

SEE ALSO:
  - refdata/repository.go: The lookup contract
  - business.go: The mandatory-risk exclusion that precedes rule 220
*/
package validation

import (
	"context"
	"fmt"

	"github.com/warp/premium-engine/quote"
	"github.com/warp/premium-engine/refdata"
)

// =============================================================================
// 200 - COUNTRY EXISTS
// =============================================================================

type countryExistsRule struct {
	repo refdata.Repository
}

func (r *countryExistsRule) Name() string   { return "country-exists" }
func (r *countryExistsRule) Order() int     { return 200 }
func (r *countryExistsRule) Critical() bool { return false }

func (r *countryExistsRule) Evaluate(ctx context.Context, req *quote.Request, tctx *quote.TripContext) []quote.ValidationError {
	if req.CountryCode == "" || req.TripStart.IsZero() {
		return nil
	}

	country, err := r.repo.CountryByCode(ctx, req.CountryCode, req.AsOf())
	if err != nil {
		panic(fmt.Sprintf("country lookup: %v", err)) // surfaces as a critical pipeline failure
	}
	if country == nil {
		return []quote.ValidationError{withParams(
			fieldError("countryCode", fmt.Sprintf("country %s is unknown or not active for the trip date", req.CountryCode)),
			map[string]string{"code": req.CountryCode},
		)}
	}

	tctx.CountryCode = country.Code
	return nil
}

// =============================================================================
// 210 - COVERAGE LEVEL EXISTS
// =============================================================================

type coverageLevelExistsRule struct {
	repo refdata.Repository
}

func (r *coverageLevelExistsRule) Name() string   { return "coverage-level-exists" }
func (r *coverageLevelExistsRule) Order() int     { return 210 }
func (r *coverageLevelExistsRule) Critical() bool { return false }

func (r *coverageLevelExistsRule) Evaluate(ctx context.Context, req *quote.Request, tctx *quote.TripContext) []quote.ValidationError {
	// Country-default mode prices from the default rate; the coverage level
	// code, if present at all, is only the fallback basis and is resolved
	// at strategy-selection time.
	if req.UseCountryDefault || req.CoverageLevelCode == "" || req.TripStart.IsZero() {
		return nil
	}

	level, err := r.repo.CoverageLevelByCode(ctx, req.CoverageLevelCode, req.AsOf())
	if err != nil {
		panic(fmt.Sprintf("coverage level lookup: %v", err))
	}
	if level == nil {
		return []quote.ValidationError{withParams(
			fieldError("coverageLevelCode", fmt.Sprintf("coverage level %s is unknown or not active for the trip date", req.CoverageLevelCode)),
			map[string]string{"code": req.CoverageLevelCode},
		)}
	}

	tctx.CoverageLevelCode = level.Code
	return nil
}

// =============================================================================
// 220 - RISK CODES EXIST
// =============================================================================

type riskCodesExistRule struct {
	repo refdata.Repository
}

func (r *riskCodesExistRule) Name() string   { return "risk-codes-exist" }
func (r *riskCodesExistRule) Order() int     { return 220 }
func (r *riskCodesExistRule) Critical() bool { return false }

func (r *riskCodesExistRule) Evaluate(ctx context.Context, req *quote.Request, _ *quote.TripContext) []quote.ValidationError {
	if req.TripStart.IsZero() {
		return nil
	}

	var out []quote.ValidationError
	for i, code := range req.RiskCodes {
		if MandatoryRiskCodes[code] {
			continue // already rejected by the mandatory-risk exclusion rule
		}
		risk, err := r.repo.RiskTypeByCode(ctx, code, req.AsOf())
		if err != nil {
			panic(fmt.Sprintf("risk type lookup: %v", err))
		}
		switch {
		case risk == nil:
			out = append(out, withParams(
				fieldError(fmt.Sprintf("riskCodes[%d]", i), fmt.Sprintf("risk %s is unknown or not active for the trip date", code)),
				map[string]string{"code": code},
			))
		case risk.Mandatory:
			out = append(out, withParams(
				fieldError(fmt.Sprintf("riskCodes[%d]", i), fmt.Sprintf("risk %s is mandatory and must not be selected", code)),
				map[string]string{"code": code},
			))
		}
	}
	return out
}

// =============================================================================
// 230 - CURRENCY SUPPORTED
// =============================================================================

type currencySupportedRule struct{}

func (r *currencySupportedRule) Name() string   { return "currency-supported" }
func (r *currencySupportedRule) Order() int     { return 230 }
func (r *currencySupportedRule) Critical() bool { return false }

func (r *currencySupportedRule) Evaluate(_ context.Context, req *quote.Request, _ *quote.TripContext) []quote.ValidationError {
	if req.Currency == "" {
		return nil // defaults to EUR downstream
	}
	if !refdata.SupportedCurrencies[req.Currency] {
		return []quote.ValidationError{withParams(
			fieldError("currency", fmt.Sprintf("currency %s is not supported", req.Currency)),
			map[string]string{"currency": req.Currency},
		)}
	}
	return nil
}

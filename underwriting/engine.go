/*
Package underwriting renders the risk decision for a validated quote.

PURPOSE:
  A set of independent, side-effect-free rules each evaluates one risk
  factor and yields a severity (PASS, WARNING, REVIEW_REQUIRED, BLOCKING).
  The engine runs ALL applicable rules - order is a reporting tie-breaker,
  never a short-circuit - and aggregates the worst severity into one
  decision:

    any BLOCKING         -> DECLINED
    any REVIEW_REQUIRED  -> REQUIRES_MANUAL_REVIEW
    otherwise            -> APPROVED

  A WARNING never escalates the decision. The reason surfaced with a
  non-approved decision is the first blocking (or first review) message by
  rule order.

TUNABLES:
  Thresholds come from effective-dated RuleParameter records, with
  hard-coded fallback defaults per rule. Underwriting blocking/review is a
  normal, expected outcome, not an error.

SEE ALSO:
  - rules.go: The five rules
  - refdata/entities.go: RuleParameter
*/
package underwriting

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/premium-engine/quote"
	"github.com/warp/premium-engine/refdata"
)

// =============================================================================
// RULE CONTRACT
// =============================================================================

// Input is the per-request snapshot the rules evaluate. CoverageAmount is
// nil in country-default mode; Country is the resolved destination record.
type Input struct {
	Age            int
	TripDays       int
	CoverageAmount *decimal.Decimal
	Country        *refdata.Country
	RiskCodes      []string
	AsOf           time.Time
}

// Rule is one independent underwriting check.
type Rule interface {
	Name() string
	Order() int

	// Applies reports whether the rule participates for this input.
	Applies(in Input) bool

	// Evaluate returns the rule's severity and message. Rules are
	// side-effect-free; tunables are read through the repository.
	Evaluate(ctx context.Context, in Input) quote.RuleResult
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine runs the registered rules and aggregates their severities.
type Engine struct {
	rules []Rule
}

// NewEngine builds the standard engine with all five rules registered.
func NewEngine(repo refdata.Repository) *Engine {
	e := &Engine{}
	e.Register(
		&ageRule{params: params{repo}},
		&countryRiskRule{},
		&medicalCoverageAgeRule{params: params{repo}},
		&tripDurationRule{params: params{repo}},
		&additionalRisksRule{params: params{repo}},
	)
	return e
}

// Register adds rules and keeps them sorted by order.
func (e *Engine) Register(rules ...Rule) {
	e.rules = append(e.rules, rules...)
	sort.SliceStable(e.rules, func(i, j int) bool {
		return e.rules[i].Order() < e.rules[j].Order()
	})
}

// Evaluate runs every applicable rule and aggregates the decision.
func (e *Engine) Evaluate(ctx context.Context, in Input) quote.UnderwritingResult {
	var results []quote.RuleResult
	for _, rule := range e.rules {
		if !rule.Applies(in) {
			continue
		}
		results = append(results, rule.Evaluate(ctx, in))
	}
	return Aggregate(results)
}

// Aggregate folds rule results into one decision. Results are assumed to be
// in rule order; the first blocking (or first review) message becomes the
// reason.
func Aggregate(results []quote.RuleResult) quote.UnderwritingResult {
	out := quote.UnderwritingResult{Decision: quote.DecisionApproved, Rules: results}

	for _, r := range results {
		if r.Severity == quote.RuleBlocking {
			out.Decision = quote.DecisionDeclined
			out.Reason = r.Message
			return out
		}
	}
	for _, r := range results {
		if r.Severity == quote.RuleReviewRequired {
			out.Decision = quote.DecisionManualReview
			out.Reason = r.Message
			return out
		}
	}
	return out
}

// =============================================================================
// TUNABLE PARAMETERS
// =============================================================================

// params resolves RuleParameter tunables with hard-coded fallbacks.
type params struct {
	repo refdata.Repository
}

// intOr returns the tunable as an int, or the fallback when the parameter
// is absent or the lookup fails. A broken tunable must not turn a normal
// underwriting pass into a request failure.
func (p params) intOr(ctx context.Context, rule, name string, asOf time.Time, fallback int) int {
	if p.repo == nil {
		return fallback
	}
	rec, err := p.repo.RuleParameter(ctx, rule, name, asOf)
	if err != nil || rec == nil {
		return fallback
	}
	return int(rec.Value.IntPart())
}

// decimalOr returns the tunable as a decimal, or the fallback.
func (p params) decimalOr(ctx context.Context, rule, name string, asOf time.Time, fallback decimal.Decimal) decimal.Decimal {
	if p.repo == nil {
		return fallback
	}
	rec, err := p.repo.RuleParameter(ctx, rule, name, asOf)
	if err != nil || rec == nil {
		return fallback
	}
	return rec.Value
}

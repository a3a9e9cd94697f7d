/*
Package validation provides the ordered, severity-aware validation pipeline.

PURPOSE:
  Gates malformed or policy-violating quote requests before any pricing or
  underwriting happens. The pipeline is a composite of small, individually
  testable rules, each with a name, a numeric execution order, and a
  criticality flag.

RULE TIERS (by order band):
  structural (10-99):   presence, shape, and length checks. CRITICAL -
                        later rules assume these fields exist.
  business (100-199):   date ordering, age bounds, duration limits,
                        mandatory-risk exclusion, duplicate detection.
  reference (200-299):  existence/activity of country, coverage level,
                        risk codes, supported currency.

EXECUTION:
  Rules run in ascending order. Findings accumulate in evaluation order
  (duplicate-field findings may repeat, one per offending index). When a
  CRITICAL finding fires and stop-on-critical is set (the default), the
  remaining rules are skipped. A rule that panics is recorded as a CRITICAL
  failure naming the rule.

SIDE EFFECTS:
  Passing rules write derived values (age, trip day count) into the shared
  TripContext so the calculation stage does not recompute them.

SEE ALSO:
  - structural.go, business.go, reference.go: Rule implementations
  - quote/types.go: ValidationError and TripContext
*/
package validation

import (
	"context"
	"fmt"
	"sort"

	"github.com/warp/premium-engine/quote"
	"github.com/warp/premium-engine/refdata"
)

// =============================================================================
// RULE CONTRACT
// =============================================================================

// Rule is one validation check. Rules are independent and side-effect-free
// except for writes into the TripContext.
type Rule interface {
	// Name identifies the rule in logs and panic reports.
	Name() string

	// Order is the ascending execution order. Bands: 10-99 structural,
	// 100-199 business, 200-299 reference.
	Order() int

	// Critical marks rules whose findings halt the pipeline.
	Critical() bool

	// Evaluate returns the rule's findings, possibly none.
	Evaluate(ctx context.Context, req *quote.Request, tctx *quote.TripContext) []quote.ValidationError
}

// =============================================================================
// PIPELINE
// =============================================================================

// Pipeline runs a registered rule list in order.
type Pipeline struct {
	rules []Rule

	// StopOnCritical skips remaining rules after a CRITICAL finding.
	StopOnCritical bool
}

// NewPipeline builds the standard pipeline with all rules registered.
// Reference-tier rules read through the given repository.
func NewPipeline(repo refdata.Repository) *Pipeline {
	p := &Pipeline{StopOnCritical: true}
	p.Register(
		&personNameRule{},
		&birthDatePresentRule{},
		&tripDatesPresentRule{},
		&countryCodeShapeRule{},
		&pricingModeRule{},
		&birthDateInPastRule{},
		&tripDateOrderRule{},
		&ageBoundsRule{},
		&tripDurationRule{},
		&mandatoryRiskExclusionRule{},
		&duplicateRiskRule{},
		&countryExistsRule{repo: repo},
		&coverageLevelExistsRule{repo: repo},
		&riskCodesExistRule{repo: repo},
		&currencySupportedRule{},
	)
	return p
}

// Register adds rules and keeps the list sorted by Order.
func (p *Pipeline) Register(rules ...Rule) {
	p.rules = append(p.rules, rules...)
	sort.SliceStable(p.rules, func(i, j int) bool {
		return p.rules[i].Order() < p.rules[j].Order()
	})
}

// Validate runs all rules against the request. It returns the accumulated
// findings in evaluation order and the context populated by passing rules.
func (p *Pipeline) Validate(ctx context.Context, req *quote.Request) ([]quote.ValidationError, *quote.TripContext) {
	tctx := &quote.TripContext{}
	var findings []quote.ValidationError

	for _, rule := range p.rules {
		results := p.evaluate(ctx, rule, req, tctx)
		findings = append(findings, results...)

		if p.StopOnCritical && hasCritical(results) {
			break
		}
	}
	return findings, tctx
}

// evaluate runs one rule, converting a panic into a CRITICAL finding that
// names the failing rule.
func (p *Pipeline) evaluate(ctx context.Context, rule Rule, req *quote.Request, tctx *quote.TripContext) (results []quote.ValidationError) {
	defer func() {
		if r := recover(); r != nil {
			results = []quote.ValidationError{{
				Field:    "request",
				Message:  fmt.Sprintf("validation rule %s failed unexpectedly", rule.Name()),
				Severity: quote.SeverityCritical,
				Params:   map[string]string{"rule": rule.Name(), "panic": fmt.Sprint(r)},
			}}
		}
	}()
	return rule.Evaluate(ctx, req, tctx)
}

func hasCritical(results []quote.ValidationError) bool {
	for _, r := range results {
		if r.Severity == quote.SeverityCritical {
			return true
		}
	}
	return false
}

// =============================================================================
// FINDING HELPERS - Shared by the rule files
// =============================================================================

func critical(field, message string) quote.ValidationError {
	return quote.ValidationError{Field: field, Message: message, Severity: quote.SeverityCritical}
}

func fieldError(field, message string) quote.ValidationError {
	return quote.ValidationError{Field: field, Message: message, Severity: quote.SeverityError}
}

func warning(field, message string) quote.ValidationError {
	return quote.ValidationError{Field: field, Message: message, Severity: quote.SeverityWarning}
}

func withParams(v quote.ValidationError, params map[string]string) quote.ValidationError {
	v.Params = params
	return v
}

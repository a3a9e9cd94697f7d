/*
Package engine orchestrates a single premium determination.

PURPOSE:
  Sequences the stages of one quote request:

    validation -> strategy selection -> premium calculation
    -> discount resolution -> underwriting -> response assembly

  Each request is an independent, synchronous, stateless computation: no
  stage holds cross-request mutable state, and all reference reads are
  point-in-time snapshots keyed by the trip start date. The one shared
  mutation (promo usage) lives behind the PromoRedeemer contract.

OUTCOMES:
  - Validation failure (any ERROR/CRITICAL): findings only, no pricing.
  - Otherwise: full pricing breakdown + underwriting decision (+ any
    advisory warnings). DECLINED and REQUIRES_MANUAL_REVIEW are normal
    outcomes, not errors.
  - Configuration inconsistencies (band gaps, vanished records, no pricing
    basis) are fatal for the request and never retried.

SEE ALSO:
  - validation/pipeline.go, pricing/strategy.go, underwriting/engine.go
  - api/handlers.go: HTTP status mapping of the outcomes
*/
package engine

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/premium-engine/pricing"
	"github.com/warp/premium-engine/quote"
	"github.com/warp/premium-engine/refdata"
	"github.com/warp/premium-engine/underwriting"
	"github.com/warp/premium-engine/validation"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine wires the pipeline stages together. Safe for concurrent use.
type Engine struct {
	Repo      refdata.Repository
	Redeemer  refdata.PromoRedeemer
	Decisions refdata.DecisionLog

	Validator    *validation.Pipeline
	Underwriting *underwriting.Engine

	// AgeCoefficientDefault is the global default for the age coefficient
	// when the request carries no override.
	AgeCoefficientDefault bool
}

// New builds an engine over a repository that also redeems promos and logs
// decisions (both Memory and the sqlite store do).
func New(repo refdata.Repository, redeemer refdata.PromoRedeemer, decisions refdata.DecisionLog) *Engine {
	return &Engine{
		Repo:                  repo,
		Redeemer:              redeemer,
		Decisions:             decisions,
		Validator:             validation.NewPipeline(repo),
		Underwriting:          underwriting.NewEngine(repo),
		AgeCoefficientDefault: true,
	}
}

// QuoteOutcome is the assembled response for one request.
type QuoteOutcome struct {
	QuoteID string

	// ValidationErrors is non-empty only on validation failure; Warnings
	// accompany successful quotes.
	ValidationErrors []quote.ValidationError
	Warnings         []quote.ValidationError

	Premium      *quote.PremiumResult
	Underwriting *quote.UnderwritingResult
}

// Failed reports whether validation blocked the request.
func (o *QuoteOutcome) Failed() bool { return len(o.ValidationErrors) > 0 }

// =============================================================================
// QUOTE - The one entry point
// =============================================================================

// Quote runs the full determination for one request. The returned error is
// reserved for contract breaches (configuration inconsistencies, storage
// failures); validation failures and declined decisions are outcomes.
func (e *Engine) Quote(ctx context.Context, req *quote.Request) (*QuoteOutcome, error) {
	findings, tctx := e.Validator.Validate(ctx, req)

	if quote.HasBlocking(findings) {
		return &QuoteOutcome{ValidationErrors: findings}, nil
	}

	strategy, err := pricing.ResolveStrategy(ctx, req, e.Repo, e.AgeCoefficientDefault)
	if err != nil {
		return nil, err
	}

	premium, err := strategy.Calculate(ctx, req, tctx)
	if err != nil {
		return nil, err
	}

	discounts, err := pricing.ApplyDiscounts(ctx, req, premium.PremiumBeforeDiscounts, req.AsOf(), e.Repo, e.Redeemer)
	if err != nil {
		return nil, err
	}
	premium.AppliedDiscounts = discounts.Applied
	premium.TotalDiscount = discounts.Total
	premium.FinalPremium = discounts.FinalPremium

	uw, err := e.underwrite(ctx, req, tctx, premium)
	if err != nil {
		return nil, err
	}

	outcome := &QuoteOutcome{
		QuoteID:      uuid.NewString(),
		Warnings:     quote.Warnings(findings),
		Premium:      premium,
		Underwriting: &uw,
	}

	e.record(ctx, req, outcome)
	return outcome, nil
}

// underwrite assembles the rule input from the request and the validated
// context, reusing derived values instead of recomputing them.
func (e *Engine) underwrite(ctx context.Context, req *quote.Request, tctx *quote.TripContext, premium *quote.PremiumResult) (quote.UnderwritingResult, error) {
	age := quote.AgeAt(req.BirthDate, req.TripStart)
	if tctx.Age != nil {
		age = *tctx.Age
	}
	days := premium.Days

	country, err := e.Repo.CountryByCode(ctx, req.CountryCode, req.AsOf())
	if err != nil {
		return quote.UnderwritingResult{}, err
	}
	if country == nil {
		// Validation vouched for the country; this is a contract breach.
		return quote.UnderwritingResult{}, &quote.ReferenceError{Kind: "country", Code: req.CountryCode, Err: quote.ErrCountryNotFound}
	}

	var coverage *decimal.Decimal
	if premium.CoverageAmount != nil {
		c := *premium.CoverageAmount
		coverage = &c
	}

	in := underwriting.Input{
		Age:            age,
		TripDays:       days,
		CoverageAmount: coverage,
		Country:        country,
		RiskCodes:      req.RiskCodes,
		AsOf:           req.AsOf(),
	}
	return e.Underwriting.Evaluate(ctx, in), nil
}

// record appends the rendered decision to the audit log. Failures are
// logged and never fail the quote.
func (e *Engine) record(ctx context.Context, req *quote.Request, outcome *QuoteOutcome) {
	if e.Decisions == nil {
		return
	}
	entry := refdata.DecisionEntry{
		QuoteID:     outcome.QuoteID,
		At:          time.Now().UTC(),
		PersonName:  req.PersonName,
		CountryCode: req.CountryCode,
		Decision:    string(outcome.Underwriting.Decision),
		Reason:      outcome.Underwriting.Reason,
		Premium:     outcome.Premium.FinalPremium.StringFixed(2),
		Currency:    outcome.Premium.Currency,
	}
	if err := e.Decisions.AppendDecision(ctx, entry); err != nil {
		log.Printf("%v: %v", quote.ErrDecisionLogFailed, err)
	}
}

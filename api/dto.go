/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal core types from the external API contract: dates travel as
  ISO "2006-01-02" strings, money and coefficients as decimal strings.

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *DTO: Response types returned to clients

VALIDATION:
  Shape validation (parsable dates) happens at decode time; everything
  else is the validation pipeline's job. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - engine/engine.go: QuoteOutcome, the internal counterpart
*/
package api

import (
	"fmt"
	"time"

	"github.com/warp/premium-engine/engine"
	"github.com/warp/premium-engine/quote"
	"github.com/warp/premium-engine/refdata"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// QuoteRequest is the wire form of a premium determination request.
type QuoteRequest struct {
	PersonName        string   `json:"person_name"`
	BirthDate         string   `json:"birth_date"`
	TripStart         string   `json:"trip_start"`
	TripEnd           string   `json:"trip_end"`
	CountryCode       string   `json:"country_code"`
	CoverageLevelCode string   `json:"coverage_level_code,omitempty"`
	UseCountryDefault bool     `json:"use_country_default,omitempty"`
	AgeCoefficient    *bool    `json:"age_coefficient_enabled,omitempty"`
	RiskCodes         []string `json:"risk_codes,omitempty"`
	Currency          string   `json:"currency,omitempty"`
	PromoCode         string   `json:"promo_code,omitempty"`
	PersonsCount      int      `json:"persons_count,omitempty"`
	Corporate         bool     `json:"corporate,omitempty"`
}

// ToCore converts the wire request into the immutable core request.
// Unparsable dates are reported as field errors; absent dates stay zero for
// the structural rules to flag.
func (r QuoteRequest) ToCore() (*quote.Request, []ValidationErrorDTO) {
	var fieldErrs []ValidationErrorDTO

	parse := func(field, value string) time.Time {
		if value == "" {
			return time.Time{}
		}
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			fieldErrs = append(fieldErrs, ValidationErrorDTO{
				Field:    field,
				Message:  fmt.Sprintf("must be an ISO date (2006-01-02), got %q", value),
				Severity: string(quote.SeverityCritical),
			})
		}
		return t
	}

	req := &quote.Request{
		PersonName:            r.PersonName,
		BirthDate:             parse("birth_date", r.BirthDate),
		TripStart:             parse("trip_start", r.TripStart),
		TripEnd:               parse("trip_end", r.TripEnd),
		CountryCode:           r.CountryCode,
		CoverageLevelCode:     r.CoverageLevelCode,
		UseCountryDefault:     r.UseCountryDefault,
		AgeCoefficientEnabled: r.AgeCoefficient,
		RiskCodes:             r.RiskCodes,
		Currency:              r.Currency,
		PromoCode:             r.PromoCode,
		PersonsCount:          r.PersonsCount,
		Corporate:             r.Corporate,
	}
	return req, fieldErrs
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ValidationErrorDTO is one validation finding on the wire.
type ValidationErrorDTO struct {
	Field    string            `json:"field"`
	Message  string            `json:"message"`
	Severity string            `json:"severity"`
	Params   map[string]string `json:"params,omitempty"`
}

// ValidationFailureDTO is the 400 response body.
type ValidationFailureDTO struct {
	Errors []ValidationErrorDTO `json:"errors"`
}

// RiskLoadDTO is the per-risk premium contribution.
type RiskLoadDTO struct {
	Code            string `json:"code"`
	BaseCoefficient string `json:"base_coefficient"`
	AgeMultiplier   string `json:"age_multiplier"`
	Effective       string `json:"effective_coefficient"`
}

// AppliedDiscountDTO is one applied discount.
type AppliedDiscountDTO struct {
	Kind   string `json:"kind"`
	Code   string `json:"code,omitempty"`
	Amount string `json:"amount"`
}

// PremiumDTO is the full pricing breakdown on the wire.
type PremiumDTO struct {
	Strategy               string               `json:"strategy"`
	BaseRate               string               `json:"base_rate"`
	CoverageAmount         *string              `json:"coverage_amount,omitempty"`
	AgeCoefficient         string               `json:"age_coefficient"`
	AgeDescription         string               `json:"age_description,omitempty"`
	CountryCoefficient     string               `json:"country_coefficient"`
	DurationCoefficient    string               `json:"duration_coefficient"`
	RiskCoefficient        string               `json:"risk_coefficient"`
	TotalCoefficient       string               `json:"total_coefficient"`
	Days                   int                  `json:"days"`
	RiskBreakdown          []RiskLoadDTO        `json:"risk_breakdown,omitempty"`
	PayoutLimitApplied     bool                 `json:"payout_limit_applied"`
	BundleCode             string               `json:"bundle_code,omitempty"`
	BundleDiscount         string               `json:"bundle_discount"`
	PremiumBeforeDiscounts string               `json:"premium_before_discounts"`
	AppliedDiscounts       []AppliedDiscountDTO `json:"applied_discounts,omitempty"`
	TotalDiscount          string               `json:"total_discount"`
	FinalPremium           string               `json:"final_premium"`
	Currency               string               `json:"currency"`
}

// QuoteResponseDTO is the success response (200/202/422 share this shape).
type QuoteResponseDTO struct {
	QuoteID  string               `json:"quote_id"`
	Decision string               `json:"decision"`
	Reason   string               `json:"reason,omitempty"`
	Premium  *PremiumDTO          `json:"premium,omitempty"`
	Warnings []ValidationErrorDTO `json:"warnings,omitempty"`
}

// CountryDTO, CoverageLevelDTO, RiskTypeDTO back the reference listings.
type CountryDTO struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	RiskGroup       string `json:"risk_group"`
	RiskCoefficient string `json:"risk_coefficient"`
}

type CoverageLevelDTO struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	CoverageAmount string  `json:"coverage_amount"`
	DailyRate      string  `json:"daily_rate"`
	MaxPayout      *string `json:"max_payout_amount,omitempty"`
}

type RiskTypeDTO struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	BaseCoefficient string `json:"base_coefficient"`
	Mandatory       bool   `json:"mandatory"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toValidationDTOs(errs []quote.ValidationError) []ValidationErrorDTO {
	out := make([]ValidationErrorDTO, 0, len(errs))
	for _, e := range errs {
		out = append(out, ValidationErrorDTO{
			Field:    e.Field,
			Message:  e.Message,
			Severity: string(e.Severity),
			Params:   e.Params,
		})
	}
	return out
}

func toPremiumDTO(p *quote.PremiumResult) *PremiumDTO {
	if p == nil {
		return nil
	}

	dto := &PremiumDTO{
		Strategy:               string(p.Strategy),
		BaseRate:               p.BaseRate.StringFixed(2),
		AgeCoefficient:         p.AgeCoefficient.String(),
		AgeDescription:         p.AgeDescription,
		CountryCoefficient:     p.CountryCoefficient.String(),
		DurationCoefficient:    p.DurationCoefficient.String(),
		RiskCoefficient:        p.RiskCoefficient.String(),
		TotalCoefficient:       p.TotalCoefficient.String(),
		Days:                   p.Days,
		PayoutLimitApplied:     p.PayoutLimitApplied,
		BundleCode:             p.BundleCode,
		BundleDiscount:         p.BundleDiscount.StringFixed(2),
		PremiumBeforeDiscounts: p.PremiumBeforeDiscounts.StringFixed(2),
		TotalDiscount:          p.TotalDiscount.StringFixed(2),
		FinalPremium:           p.FinalPremium.StringFixed(2),
		Currency:               p.Currency,
	}
	if p.CoverageAmount != nil {
		s := p.CoverageAmount.StringFixed(2)
		dto.CoverageAmount = &s
	}
	for _, rl := range p.RiskBreakdown {
		dto.RiskBreakdown = append(dto.RiskBreakdown, RiskLoadDTO{
			Code:            rl.Code,
			BaseCoefficient: rl.BaseCoefficient.String(),
			AgeMultiplier:   rl.AgeMultiplier.String(),
			Effective:       rl.Effective.String(),
		})
	}
	for _, d := range p.AppliedDiscounts {
		dto.AppliedDiscounts = append(dto.AppliedDiscounts, AppliedDiscountDTO{
			Kind:   d.Kind,
			Code:   d.Code,
			Amount: d.Amount.StringFixed(2),
		})
	}
	return dto
}

func toQuoteResponse(o *engine.QuoteOutcome) QuoteResponseDTO {
	return QuoteResponseDTO{
		QuoteID:  o.QuoteID,
		Decision: string(o.Underwriting.Decision),
		Reason:   o.Underwriting.Reason,
		Premium:  toPremiumDTO(o.Premium),
		Warnings: toValidationDTOs(o.Warnings),
	}
}

func toCountryDTOs(countries []refdata.Country, asOf time.Time) []CountryDTO {
	out := []CountryDTO{}
	for _, c := range countries {
		if !c.ActiveOn(asOf) {
			continue
		}
		out = append(out, CountryDTO{
			Code:            c.Code,
			Name:            c.Name,
			RiskGroup:       string(c.RiskGroup),
			RiskCoefficient: c.RiskCoefficient.String(),
		})
	}
	return out
}

func toCoverageLevelDTOs(levels []refdata.CoverageLevel, asOf time.Time) []CoverageLevelDTO {
	out := []CoverageLevelDTO{}
	for _, l := range levels {
		if !l.ActiveOn(asOf) {
			continue
		}
		dto := CoverageLevelDTO{
			Code:           l.Code,
			Name:           l.Name,
			CoverageAmount: l.CoverageAmount.StringFixed(2),
			DailyRate:      l.DailyRate.StringFixed(2),
		}
		if l.MaxPayoutAmount != nil {
			s := l.MaxPayoutAmount.StringFixed(2)
			dto.MaxPayout = &s
		}
		out = append(out, dto)
	}
	return out
}

func toRiskTypeDTOs(risks []refdata.RiskType, asOf time.Time) []RiskTypeDTO {
	out := []RiskTypeDTO{}
	for _, r := range risks {
		if !r.ActiveOn(asOf) {
			continue
		}
		out = append(out, RiskTypeDTO{
			Code:            r.Code,
			Name:            r.Name,
			BaseCoefficient: r.BaseCoefficient.String(),
			Mandatory:       r.Mandatory,
		})
	}
	return out
}

// Package domain defines the quote engine boundary: the rating request, the
// immutable quote record, and the decline contract.
package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/covara/internal/eligibility"
	ratingdomain "github.com/smallbiznis/covara/internal/rating/domain"
	refdatadomain "github.com/smallbiznis/covara/internal/refdata/domain"
)

// Validity is how long an issued quote can be accepted.
const Validity = 30 * 24 * time.Hour

// Request carries the caller's rating inputs. A VIN may stand in for
// make/model/year; decoded fields never override ones the caller supplied.
type Request struct {
	VIN             string                       `json:"vin,omitempty"`
	Make            string                       `json:"make"`
	Model           string                       `json:"model,omitempty"`
	Year            int                          `json:"year"`
	Mileage         int                          `json:"mileage"`
	CoverageLevel   string                       `json:"coverage_level"`
	TermMonths      int                          `json:"term_months"`
	Deductible      int                          `json:"deductible"`
	CustomerSegment ratingdomain.CustomerSegment `json:"customer_segment,omitempty"`
	Jurisdiction    string                       `json:"jurisdiction,omitempty"`
}

// EligibilityRequest is the standalone gate check input.
type EligibilityRequest struct {
	Make    string `json:"make"`
	Year    int    `json:"year"`
	Mileage int    `json:"mileage"`
}

// Vehicle echoes the vehicle the quote was priced for.
type Vehicle struct {
	VIN     string `json:"vin,omitempty"`
	Make    string `json:"make"`
	Model   string `json:"model,omitempty"`
	Year    int    `json:"year"`
	Age     int    `json:"age"`
	Mileage int    `json:"mileage"`
}

// Breakdown is the priced result, rounded to cents for presentation.
type Breakdown struct {
	BasePrice      decimal.Decimal `json:"base_price"`
	AdminFee       decimal.Decimal `json:"admin_fee"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
}

// Provenance flags where each priced component came from.
type Provenance struct {
	Rate     refdatadomain.Source `json:"rate"`
	AdminFee refdatadomain.Source `json:"admin_fee"`
	TaxRate  refdatadomain.Source `json:"tax_rate"`
}

// Quote is the immutable successful output record.
type Quote struct {
	QuoteID         string                       `json:"quote_id"`
	Eligible        bool                         `json:"eligible"`
	VehicleClass    refdatadomain.RiskClass      `json:"vehicle_class"`
	PricingMethod   ratingdomain.PricingMethod   `json:"pricing_method"`
	Vehicle         Vehicle                      `json:"vehicle"`
	CoverageLevel   string                       `json:"coverage_level"`
	TermMonths      int                          `json:"term_months"`
	Deductible      int                          `json:"deductible"`
	CustomerSegment ratingdomain.CustomerSegment `json:"customer_segment"`
	Breakdown       Breakdown                    `json:"breakdown"`
	Factors         ratingdomain.Factors         `json:"factors"`
	Provenance      Provenance                   `json:"provenance"`
	Warnings        []string                     `json:"warnings,omitempty"`
	IssuedAt        time.Time                    `json:"issued_at"`
	ValidUntil      time.Time                    `json:"valid_until"`
}

// Decline reason codes.
const (
	ReasonValidation = "validation_error"
	ReasonIneligible = "ineligible_vehicle"
)

// Decline is a declined rating: a business outcome, not an error.
type Decline struct {
	Eligible     bool     `json:"eligible"`
	ReasonCode   string   `json:"reason_code"`
	Message      string   `json:"message"`
	MaxAgeYears  int      `json:"max_age_years,omitempty"`
	MaxMileage   int      `json:"max_mileage,omitempty"`
	VehicleAge   int      `json:"vehicle_age,omitempty"`
	Mileage      int      `json:"mileage,omitempty"`
	Restrictions []string `json:"restrictions,omitempty"`
	Errors       []string `json:"errors,omitempty"`
}

// Result is the engine's answer; exactly one field is set.
type Result struct {
	Quote   *Quote   `json:"quote,omitempty"`
	Decline *Decline `json:"decline,omitempty"`
}

// EligibilityReport is the standalone gate check output.
type EligibilityReport struct {
	Status            eligibility.Status `json:"status"`
	Eligible          bool               `json:"eligible"`
	VehicleAge        int                `json:"vehicle_age"`
	Mileage           int                `json:"mileage"`
	MaxAgeYears       int                `json:"max_age_years"`
	MaxMileage        int                `json:"max_mileage"`
	Message           string             `json:"message,omitempty"`
	Warnings          []string           `json:"warnings,omitempty"`
	Restrictions      []string           `json:"restrictions,omitempty"`
	Advisories        []string           `json:"advisories,omitempty"`
	AgeMultiplier     float64            `json:"age_multiplier,omitempty"`
	MileageMultiplier float64            `json:"mileage_multiplier,omitempty"`
}

// CoverageOptions lists the sellable coverage tiers and the term and
// deductible choices the multiplier tables know about.
type CoverageOptions struct {
	Levels      []refdatadomain.CoverageLevel `json:"coverage_levels"`
	TermMonths  []int                         `json:"term_months"`
	Deductibles []int                         `json:"deductibles"`
	Degraded    bool                          `json:"degraded,omitempty"`
}

// Service is the rating engine boundary.
type Service interface {
	GenerateQuote(ctx context.Context, req Request) (*Result, error)
	CheckEligibility(ctx context.Context, req EligibilityRequest) (*EligibilityReport, error)
	CoverageOptions(ctx context.Context) (*CoverageOptions, error)
}

// Package domain holds the rate resolution types shared by the rating
// service and the quote engine.
package domain

import (
	"errors"

	refdatadomain "github.com/smallbiznis/covara/internal/refdata/domain"
	"github.com/shopspring/decimal"
)

// PricingMethod says which path produced a base price.
type PricingMethod string

const (
	PricingMethodExact    PricingMethod = "exact"
	PricingMethodComputed PricingMethod = "computed"
)

// CustomerSegment selects the customer discount.
type CustomerSegment string

const (
	SegmentRetail    CustomerSegment = "retail"
	SegmentWholesale CustomerSegment = "wholesale"
)

// WholesaleDiscount is the flat discount applied to wholesale pricing.
const WholesaleDiscount = 0.85

// ErrBrokenRateData marks a structurally broken rate or multiplier row, e.g.
// a non-positive value, that cannot be recovered by any fallback. It is the
// only resolver outcome that surfaces as a hard failure.
var ErrBrokenRateData = errors.New("broken_rate_data")

// Input is everything the resolver needs for one price.
type Input struct {
	VehicleClass    refdatadomain.RiskClass
	CoverageLevel   string
	TermMonths      int
	Deductible      int
	Mileage         int
	VehicleAge      int
	CustomerSegment CustomerSegment
}

// Factors are the multipliers applied to reach the final base price. The
// exact-match path carries neutral age/mileage/term factors because the
// matrix rate already embeds them.
type Factors struct {
	AgeMultiplier        float64 `json:"age_multiplier"`
	MileageMultiplier    float64 `json:"mileage_multiplier"`
	TermMultiplier       float64 `json:"term_multiplier"`
	DeductibleMultiplier float64 `json:"deductible_multiplier"`
	CustomerDiscount     float64 `json:"customer_discount"`
}

// Resolution is the resolver's answer: the fully multiplied base price plus
// enough metadata to reproduce it.
type Resolution struct {
	Method       PricingMethod
	VehicleClass refdatadomain.RiskClass

	// Rate is the pre-factor amount: the matrix rate_amount on the exact
	// path, the per-(class, coverage) base rate on the computed path.
	Rate decimal.Decimal

	// BasePrice is Rate with every applicable factor applied, unrounded.
	BasePrice decimal.Decimal

	Factors    Factors
	RateSource refdatadomain.Source
}

package service

import (
	"context"
	"sort"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/covara/internal/classifier"
	"github.com/smallbiznis/covara/internal/clock"
	"github.com/smallbiznis/covara/internal/eligibility"
	"github.com/smallbiznis/covara/internal/observability/metrics"
	"github.com/smallbiznis/covara/internal/quote/domain"
	ratingdomain "github.com/smallbiznis/covara/internal/rating/domain"
	ratingservice "github.com/smallbiznis/covara/internal/rating/service"
	refdatadomain "github.com/smallbiznis/covara/internal/refdata/domain"
	settingsdomain "github.com/smallbiznis/covara/internal/settings/domain"
	"github.com/smallbiznis/covara/internal/vin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ProductTypeVSC keys the admin fee for vehicle service contracts.
const ProductTypeVSC = "vsc"

type service struct {
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	classifier *classifier.Classifier
	resolver   *ratingservice.Resolver
	tables     refdatadomain.Tables
	settings   settingsdomain.Provider
	decoder    vin.Decoder
	metrics    *metrics.Metrics
}

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Classifier *classifier.Classifier
	Resolver   *ratingservice.Resolver
	Tables     refdatadomain.Tables
	Settings   settingsdomain.Provider
	Decoder    vin.Decoder
	Metrics    *metrics.Metrics `optional:"true"`
}

func NewService(p ServiceParam) domain.Service {
	return &service{
		log:        p.Log.Named("quote.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		classifier: p.Classifier,
		resolver:   p.Resolver,
		tables:     p.Tables,
		settings:   p.Settings,
		decoder:    p.Decoder,
		metrics:    p.Metrics,
	}
}

// GenerateQuote runs the full rating sequence: decode, validate, gate,
// resolve, assemble. Declines and validation failures are returned values;
// an error means the rate data itself is broken.
func (s *service) GenerateQuote(ctx context.Context, req domain.Request) (*domain.Result, error) {
	req = s.applyVIN(ctx, req)

	if errs := s.validate(ctx, req); len(errs) > 0 {
		s.metrics.QuoteDeclined(domain.ReasonValidation)
		return &domain.Result{Decline: &domain.Decline{
			ReasonCode: domain.ReasonValidation,
			Message:    "Request failed validation",
			Errors:     errs,
		}}, nil
	}
	if req.CustomerSegment == "" {
		req.CustomerSegment = ratingdomain.SegmentRetail
	}

	age := s.vehicleAge(req.Year)
	gate := eligibility.Evaluate(age, req.Mileage)
	if !gate.Eligible() {
		s.metrics.QuoteDeclined(domain.ReasonIneligible)
		s.log.Info("quote declined",
			zap.Int("vehicle_age", age),
			zap.Int("mileage", req.Mileage),
		)
		return &domain.Result{Decline: &domain.Decline{
			ReasonCode:   domain.ReasonIneligible,
			Message:      eligibility.DeclineMessage,
			MaxAgeYears:  eligibility.MaxAgeYears,
			MaxMileage:   eligibility.MaxMileage,
			VehicleAge:   age,
			Mileage:      req.Mileage,
			Restrictions: gate.Restrictions,
		}}, nil
	}

	class := s.classifier.Classify(ctx, req.Make)
	res, err := s.resolver.Resolve(ctx, ratingdomain.Input{
		VehicleClass:    class,
		CoverageLevel:   req.CoverageLevel,
		TermMonths:      req.TermMonths,
		Deductible:      req.Deductible,
		Mileage:         req.Mileage,
		VehicleAge:      age,
		CustomerSegment: req.CustomerSegment,
	})
	if err != nil {
		return nil, err
	}

	adminFee, feeSource := s.settings.AdminFee(ctx, ProductTypeVSC)
	taxRate, taxSource := s.settings.TaxRate(ctx, req.Jurisdiction)

	subtotal := res.BasePrice.Add(adminFee)
	taxAmount := subtotal.Mul(taxRate)
	total := subtotal.Add(taxAmount)
	monthly := total
	if req.TermMonths > 0 {
		monthly = total.Div(decimal.NewFromInt(int64(req.TermMonths)))
	}

	now := s.clock.Now()
	quote := &domain.Quote{
		QuoteID:       "VSC-" + s.genID.Generate().String(),
		Eligible:      true,
		VehicleClass:  class,
		PricingMethod: res.Method,
		Vehicle: domain.Vehicle{
			VIN:     req.VIN,
			Make:    req.Make,
			Model:   req.Model,
			Year:    req.Year,
			Age:     age,
			Mileage: req.Mileage,
		},
		CoverageLevel:   req.CoverageLevel,
		TermMonths:      req.TermMonths,
		Deductible:      req.Deductible,
		CustomerSegment: req.CustomerSegment,
		// Rounding to cents happens here and only here; every intermediate
		// value above is exact.
		Breakdown: domain.Breakdown{
			BasePrice:      res.BasePrice.Round(2),
			AdminFee:       adminFee.Round(2),
			Subtotal:       subtotal.Round(2),
			TaxAmount:      taxAmount.Round(2),
			TotalPrice:     total.Round(2),
			MonthlyPayment: monthly.Round(2),
		},
		Factors: res.Factors,
		Provenance: domain.Provenance{
			Rate:     res.RateSource,
			AdminFee: feeSource,
			TaxRate:  taxSource,
		},
		Warnings:   append(gate.Warnings, eligibility.BrandAdvisories(req.Make)...),
		IssuedAt:   now,
		ValidUntil: now.Add(domain.Validity),
	}

	s.metrics.QuoteGenerated(string(res.Method))
	s.log.Info("quote generated",
		zap.String("quote_id", quote.QuoteID),
		zap.String("vehicle_class", string(class)),
		zap.String("pricing_method", string(res.Method)),
		zap.String("total_price", quote.Breakdown.TotalPrice.String()),
	)
	return &domain.Result{Quote: quote}, nil
}

// CheckEligibility runs the hard gate without pricing.
func (s *service) CheckEligibility(ctx context.Context, req domain.EligibilityRequest) (*domain.EligibilityReport, error) {
	age := s.vehicleAge(req.Year)
	gate := eligibility.Evaluate(age, req.Mileage)

	report := &domain.EligibilityReport{
		Status:       gate.Status,
		Eligible:     gate.Eligible(),
		VehicleAge:   age,
		Mileage:      req.Mileage,
		MaxAgeYears:  eligibility.MaxAgeYears,
		MaxMileage:   eligibility.MaxMileage,
		Warnings:     gate.Warnings,
		Restrictions: gate.Restrictions,
		Advisories:   eligibility.BrandAdvisories(req.Make),
	}
	if !gate.Eligible() {
		report.Message = eligibility.DeclineMessage
		return report, nil
	}
	report.AgeMultiplier = ratingservice.AgeMultiplier(s.tables.AgeBrackets(ctx), age)
	report.MileageMultiplier = ratingservice.MileageMultiplier(s.tables.MileageBrackets(ctx), req.Mileage)
	return report, nil
}

// CoverageOptions lists the purchasable coverage tiers and the term and
// deductible keys currently priced.
func (s *service) CoverageOptions(ctx context.Context) (*domain.CoverageOptions, error) {
	coverage := s.tables.CoverageLevels(ctx)
	return &domain.CoverageOptions{
		Levels:      coverage.Levels,
		TermMonths:  sortedIntKeys(s.tables.TermMultipliers(ctx).Multipliers),
		Deductibles: sortedIntKeys(s.tables.DeductibleMultipliers(ctx).Multipliers),
		Degraded:    coverage.Degraded,
	}, nil
}

// applyVIN fills vehicle fields from a decoded VIN. Decode trouble never
// fails the quote; the caller's own fields win.
func (s *service) applyVIN(ctx context.Context, req domain.Request) domain.Request {
	if req.VIN == "" {
		return req
	}
	v, err := s.decoder.Decode(ctx, req.VIN)
	if err != nil {
		s.log.Warn("vin decode unavailable, using caller-supplied vehicle fields",
			zap.Error(err),
		)
		return req
	}
	req.VIN = v.VIN
	if req.Make == "" {
		req.Make = v.Make
	}
	if req.Model == "" {
		req.Model = v.Model
	}
	if req.Year == 0 && v.Year > 0 {
		req.Year = v.Year
	}
	return req
}

func (s *service) vehicleAge(year int) int {
	if age := s.clock.Now().Year() - year; age > 0 {
		return age
	}
	return 0
}

func sortedIntKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

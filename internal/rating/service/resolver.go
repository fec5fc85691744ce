package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/covara/internal/clock"
	"github.com/smallbiznis/covara/internal/config"
	ratematrixdomain "github.com/smallbiznis/covara/internal/ratematrix/domain"
	"github.com/smallbiznis/covara/internal/rating/domain"
	refdatadomain "github.com/smallbiznis/covara/internal/refdata/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Resolver produces a base price for an eligible vehicle. It is stateless:
// given the same inputs and the same reference data it always returns the
// same price.
type Resolver struct {
	log          *zap.Logger
	repo         ratematrixdomain.Repository
	tables       refdatadomain.Tables
	clock        clock.Clock
	storeTimeout time.Duration
}

type ResolverParam struct {
	fx.In

	Log    *zap.Logger
	Repo   ratematrixdomain.Repository
	Tables refdatadomain.Tables
	Clock  clock.Clock
	Cfg    config.Config
}

func NewResolver(p ResolverParam) *Resolver {
	timeout := p.Cfg.StoreTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Resolver{
		log:          p.Log.Named("rating.resolver"),
		repo:         p.Repo,
		tables:       p.Tables,
		clock:        p.Clock,
		storeTimeout: timeout,
	}
}

// Resolve runs the pricing algorithm: exact matrix match first, computed
// fallback second, then the deductible multiplier and customer discount on
// top of either path, in that order. All arithmetic stays unrounded;
// rounding belongs to presentation.
func (r *Resolver) Resolve(ctx context.Context, in domain.Input) (*domain.Resolution, error) {
	res, err := r.resolveBase(ctx, in)
	if err != nil {
		return nil, err
	}

	deductibles := r.tables.DeductibleMultipliers(ctx)
	dedMult, ok := deductibles.Multipliers[in.Deductible]
	if !ok {
		dedMult = 1.0
	}
	if dedMult <= 0 {
		return nil, fmt.Errorf("deductible multiplier for %d is %v: %w", in.Deductible, dedMult, domain.ErrBrokenRateData)
	}

	discount := 1.0
	if in.CustomerSegment == domain.SegmentWholesale {
		discount = domain.WholesaleDiscount
	}

	res.Factors.DeductibleMultiplier = dedMult
	res.Factors.CustomerDiscount = discount
	res.BasePrice = res.BasePrice.
		Mul(decimal.NewFromFloat(dedMult)).
		Mul(decimal.NewFromFloat(discount))
	return res, nil
}

// resolveBase runs steps 1 and 2: exact matrix lookup, then the computed
// formula when no matrix entry covers the request.
func (r *Resolver) resolveBase(ctx context.Context, in domain.Input) (*domain.Resolution, error) {
	if entry, err := r.findExact(ctx, in); err != nil {
		return nil, err
	} else if entry != nil {
		rate := decimal.NewFromFloat(entry.RateAmount)
		return &domain.Resolution{
			Method:       domain.PricingMethodExact,
			VehicleClass: in.VehicleClass,
			Rate:         rate,
			BasePrice:    rate,
			RateSource:   refdatadomain.SourceStore,
			Factors: domain.Factors{
				AgeMultiplier:     1.0,
				MileageMultiplier: 1.0,
				TermMultiplier:    1.0,
			},
		}, nil
	}

	rate, source, err := r.baseRate(ctx, in)
	if err != nil {
		return nil, err
	}

	ageMult := AgeMultiplier(r.tables.AgeBrackets(ctx), in.VehicleAge)
	mileageMult := MileageMultiplier(r.tables.MileageBrackets(ctx), in.Mileage)
	termMult, ok := r.tables.TermMultipliers(ctx).Multipliers[in.TermMonths]
	if !ok {
		termMult = 1.0
	}
	for name, mult := range map[string]float64{
		"age": ageMult, "mileage": mileageMult, "term": termMult,
	} {
		if mult <= 0 {
			return nil, fmt.Errorf("%s multiplier is %v: %w", name, mult, domain.ErrBrokenRateData)
		}
	}

	return &domain.Resolution{
		Method:       domain.PricingMethodComputed,
		VehicleClass: in.VehicleClass,
		Rate:         rate,
		BasePrice: rate.
			Mul(decimal.NewFromFloat(ageMult)).
			Mul(decimal.NewFromFloat(mileageMult)).
			Mul(decimal.NewFromFloat(termMult)),
		RateSource: source,
		Factors: domain.Factors{
			AgeMultiplier:     ageMult,
			MileageMultiplier: mileageMult,
			TermMultiplier:    termMult,
		},
	}, nil
}

// findExact returns the matrix entry whose mileage bracket covers the
// request, preferring the latest effective_date. A store error is treated as
// a miss so pricing degrades to the computed path instead of failing.
func (r *Resolver) findExact(ctx context.Context, in domain.Input) (*ratematrixdomain.RateMatrixEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	defer cancel()

	entries, err := r.repo.FindActiveEntries(ctx, in.VehicleClass, in.CoverageLevel, in.TermMonths, r.clock.Now())
	if err != nil {
		r.log.Warn("rate matrix lookup failed, falling back to computed pricing",
			zap.String("vehicle_class", string(in.VehicleClass)),
			zap.String("coverage_level", in.CoverageLevel),
			zap.Int("term_months", in.TermMonths),
			zap.Error(err),
		)
		return nil, nil
	}
	for i := range entries {
		if entries[i].Covers(in.Mileage) {
			if entries[i].RateAmount <= 0 {
				return nil, fmt.Errorf("rate matrix entry %s has rate %v: %w",
					entries[i].ID, entries[i].RateAmount, domain.ErrBrokenRateData)
			}
			return &entries[i], nil
		}
	}
	return nil, nil
}

// baseRate resolves the per-(class, coverage) base rate for the computed
// path, falling back to the built-in table when the store has no usable row.
func (r *Resolver) baseRate(ctx context.Context, in domain.Input) (decimal.Decimal, refdatadomain.Source, error) {
	ctx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	defer cancel()

	row, err := r.repo.FindBaseRate(ctx, in.VehicleClass, in.CoverageLevel, r.clock.Now())
	if err != nil {
		r.log.Warn("base rate lookup failed, serving fallback",
			zap.String("vehicle_class", string(in.VehicleClass)),
			zap.String("coverage_level", in.CoverageLevel),
			zap.Error(err),
		)
	} else if row != nil {
		if row.Rate <= 0 {
			return decimal.Zero, "", fmt.Errorf("base rate %s is %v: %w", row.ID, row.Rate, domain.ErrBrokenRateData)
		}
		return decimal.NewFromFloat(row.Rate), refdatadomain.SourceStore, nil
	}

	rate := float64(refdatadomain.DefaultBaseRate)
	if byCoverage, ok := refdatadomain.DefaultBaseRates()[in.VehicleClass]; ok {
		if v, ok := byCoverage[in.CoverageLevel]; ok {
			rate = v
		}
	}
	return decimal.NewFromFloat(rate), refdatadomain.SourceFallback, nil
}

// AgeMultiplier picks the bracket covering age, extrapolating past the
// highest defined bracket.
func AgeMultiplier(t refdatadomain.AgeTable, age int) float64 {
	for _, b := range t.Brackets {
		if age <= b.MaxAge {
			return b.Multiplier
		}
	}
	// Beyond every bracket: extrapolate from the highest one.
	if n := len(t.Brackets); n > 0 {
		return t.Brackets[n-1].Multiplier
	}
	return 1.0
}

// MileageMultiplier picks the bracket covering mileage, extrapolating past
// the highest defined bracket.
func MileageMultiplier(t refdatadomain.MileageTable, mileage int) float64 {
	for _, b := range t.Brackets {
		if mileage <= b.MaxMileage {
			return b.Multiplier
		}
	}
	if n := len(t.Brackets); n > 0 {
		return t.Brackets[n-1].Multiplier
	}
	return 1.0
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smallbiznis/covara/internal/clock"
	ratematrixdomain "github.com/smallbiznis/covara/internal/ratematrix/domain"
	"github.com/smallbiznis/covara/internal/rating/domain"
	refdatadomain "github.com/smallbiznis/covara/internal/refdata/domain"
)

type stubRepo struct {
	entries    []ratematrixdomain.RateMatrixEntry
	entriesErr error
	baseRate   *ratematrixdomain.BaseRate
	baseErr    error
}

func (s *stubRepo) FindActiveEntries(context.Context, refdatadomain.RiskClass, string, int, time.Time) ([]ratematrixdomain.RateMatrixEntry, error) {
	return s.entries, s.entriesErr
}

func (s *stubRepo) FindBaseRate(context.Context, refdatadomain.RiskClass, string, time.Time) (*ratematrixdomain.BaseRate, error) {
	return s.baseRate, s.baseErr
}

type defaultTables struct{}

func (defaultTables) Classifications(context.Context) refdatadomain.ClassificationTable {
	return refdatadomain.DefaultClassifications()
}
func (defaultTables) CoverageLevels(context.Context) refdatadomain.CoverageTable {
	return refdatadomain.DefaultCoverageLevels()
}
func (defaultTables) TermMultipliers(context.Context) refdatadomain.TermTable {
	return refdatadomain.DefaultTermMultipliers()
}
func (defaultTables) DeductibleMultipliers(context.Context) refdatadomain.DeductibleTable {
	return refdatadomain.DefaultDeductibleMultipliers()
}
func (defaultTables) MileageBrackets(context.Context) refdatadomain.MileageTable {
	return refdatadomain.DefaultMileageBrackets()
}
func (defaultTables) AgeBrackets(context.Context) refdatadomain.AgeTable {
	return refdatadomain.DefaultAgeBrackets()
}
func (defaultTables) Clear() {}

func newTestResolver(repo ratematrixdomain.Repository) *Resolver {
	return &Resolver{
		log:          zap.NewNop(),
		repo:         repo,
		tables:       defaultTables{},
		clock:        clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		storeTimeout: time.Second,
	}
}

func matrixEntry(rate float64, minMileage, maxMileage int) ratematrixdomain.RateMatrixEntry {
	return ratematrixdomain.RateMatrixEntry{
		VehicleClass:    refdatadomain.RiskClassB,
		CoverageLevel:   "gold",
		TermMonths:      36,
		MileageRangeKey: "50000_to_75000",
		MinMileage:      minMileage,
		MaxMileage:      maxMileage,
		RateAmount:      rate,
		EffectiveDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:          true,
	}
}

func TestResolveExactMatchPriority(t *testing.T) {
	repo := &stubRepo{entries: []ratematrixdomain.RateMatrixEntry{matrixEntry(1234.56, 50000, 75000)}}
	r := newTestResolver(repo)

	res, err := r.Resolve(context.Background(), domain.Input{
		VehicleClass:    refdatadomain.RiskClassB,
		CoverageLevel:   "gold",
		TermMonths:      36,
		Deductible:      100,
		Mileage:         60000,
		VehicleAge:      4,
		CustomerSegment: domain.SegmentRetail,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PricingMethodExact, res.Method)
	assert.Equal(t, "1234.56", res.BasePrice.String())
	assert.Equal(t, refdatadomain.SourceStore, res.RateSource)
	assert.Equal(t, 1.0, res.Factors.AgeMultiplier)
	assert.Equal(t, 1.0, res.Factors.TermMultiplier)
}

func TestResolveExactMatchAppliesDeductibleAndDiscount(t *testing.T) {
	repo := &stubRepo{entries: []ratematrixdomain.RateMatrixEntry{matrixEntry(1000, 50000, 75000)}}
	r := newTestResolver(repo)

	res, err := r.Resolve(context.Background(), domain.Input{
		VehicleClass:    refdatadomain.RiskClassB,
		CoverageLevel:   "gold",
		TermMonths:      36,
		Deductible:      500,
		Mileage:         60000,
		VehicleAge:      4,
		CustomerSegment: domain.SegmentWholesale,
	})
	require.NoError(t, err)

	// 1000 x 0.75 deductible x 0.85 wholesale, applied exactly once.
	assert.Equal(t, "637.5", res.BasePrice.String())
	assert.Equal(t, 0.75, res.Factors.DeductibleMultiplier)
	assert.Equal(t, 0.85, res.Factors.CustomerDiscount)
}

func TestResolveMatrixMissUsesComputedFormula(t *testing.T) {
	repo := &stubRepo{entries: []ratematrixdomain.RateMatrixEntry{matrixEntry(1000, 0, 15000)}}
	r := newTestResolver(repo)

	res, err := r.Resolve(context.Background(), domain.Input{
		VehicleClass:    refdatadomain.RiskClassB,
		CoverageLevel:   "gold",
		TermMonths:      36,
		Deductible:      100,
		Mileage:         60000,
		VehicleAge:      4,
		CustomerSegment: domain.SegmentRetail,
	})
	require.NoError(t, err)

	// 1500 base x 1.15 age x 1.15 mileage x 1.00 term.
	assert.Equal(t, domain.PricingMethodComputed, res.Method)
	assert.Equal(t, "1983.75", res.BasePrice.String())
	assert.Equal(t, refdatadomain.SourceFallback, res.RateSource)
}

func TestResolvePrefersStoredBaseRate(t *testing.T) {
	repo := &stubRepo{baseRate: &ratematrixdomain.BaseRate{
		VehicleClass:  refdatadomain.RiskClassB,
		CoverageLevel: "gold",
		Rate:          1700,
		EffectiveDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	r := newTestResolver(repo)

	res, err := r.Resolve(context.Background(), domain.Input{
		VehicleClass:    refdatadomain.RiskClassB,
		CoverageLevel:   "gold",
		TermMonths:      36,
		Deductible:      100,
		Mileage:         40000,
		VehicleAge:      2,
		CustomerSegment: domain.SegmentRetail,
	})
	require.NoError(t, err)

	assert.Equal(t, "1700", res.Rate.String())
	assert.Equal(t, refdatadomain.SourceStore, res.RateSource)
	assert.Equal(t, "1700", res.BasePrice.String())
}

func TestResolveUnknownKeysDefaultToNeutral(t *testing.T) {
	r := newTestResolver(&stubRepo{})

	res, err := r.Resolve(context.Background(), domain.Input{
		VehicleClass:    refdatadomain.RiskClassB,
		CoverageLevel:   "gold",
		TermMonths:      18,
		Deductible:      250,
		Mileage:         40000,
		VehicleAge:      2,
		CustomerSegment: domain.SegmentRetail,
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, res.Factors.TermMultiplier)
	assert.Equal(t, 1.0, res.Factors.DeductibleMultiplier)
	assert.Equal(t, "1500", res.BasePrice.String())
}

func TestResolveOutOfRangeUsesHighestBracket(t *testing.T) {
	r := newTestResolver(&stubRepo{})

	res, err := r.Resolve(context.Background(), domain.Input{
		VehicleClass:    refdatadomain.RiskClassB,
		CoverageLevel:   "gold",
		TermMonths:      36,
		Deductible:      100,
		Mileage:         180000,
		VehicleAge:      19,
		CustomerSegment: domain.SegmentRetail,
	})
	require.NoError(t, err)

	assert.Equal(t, 1.60, res.Factors.AgeMultiplier)
	assert.Equal(t, 1.75, res.Factors.MileageMultiplier)
}

func TestResolveRepoErrorFallsBackToComputed(t *testing.T) {
	repo := &stubRepo{entriesErr: errors.New("store down"), baseErr: errors.New("store down")}
	r := newTestResolver(repo)

	res, err := r.Resolve(context.Background(), domain.Input{
		VehicleClass:    refdatadomain.RiskClassA,
		CoverageLevel:   "silver",
		TermMonths:      36,
		Deductible:      100,
		Mileage:         40000,
		VehicleAge:      2,
		CustomerSegment: domain.SegmentRetail,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PricingMethodComputed, res.Method)
	assert.Equal(t, refdatadomain.SourceFallback, res.RateSource)
	assert.Equal(t, "800", res.BasePrice.String())
}

func TestResolveBrokenMatrixRate(t *testing.T) {
	repo := &stubRepo{entries: []ratematrixdomain.RateMatrixEntry{matrixEntry(0, 50000, 75000)}}
	r := newTestResolver(repo)

	_, err := r.Resolve(context.Background(), domain.Input{
		VehicleClass:    refdatadomain.RiskClassB,
		CoverageLevel:   "gold",
		TermMonths:      36,
		Deductible:      100,
		Mileage:         60000,
		VehicleAge:      4,
		CustomerSegment: domain.SegmentRetail,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBrokenRateData))
}

// deadlineRepo records whether each lookup arrived with a deadline attached.
type deadlineRepo struct {
	stubRepo
	entriesBounded bool
	baseBounded    bool
}

func (d *deadlineRepo) FindActiveEntries(ctx context.Context, class refdatadomain.RiskClass, coverage string, term int, asOf time.Time) ([]ratematrixdomain.RateMatrixEntry, error) {
	_, d.entriesBounded = ctx.Deadline()
	return d.stubRepo.FindActiveEntries(ctx, class, coverage, term, asOf)
}

func (d *deadlineRepo) FindBaseRate(ctx context.Context, class refdatadomain.RiskClass, coverage string, asOf time.Time) (*ratematrixdomain.BaseRate, error) {
	_, d.baseBounded = ctx.Deadline()
	return d.stubRepo.FindBaseRate(ctx, class, coverage, asOf)
}

func TestResolveStoreLookupsCarryDeadline(t *testing.T) {
	repo := &deadlineRepo{}
	r := newTestResolver(repo)

	// A caller context without a deadline must still reach the store bounded.
	_, err := r.Resolve(context.Background(), domain.Input{
		VehicleClass:    refdatadomain.RiskClassB,
		CoverageLevel:   "gold",
		TermMonths:      36,
		Deductible:      100,
		Mileage:         60000,
		VehicleAge:      4,
		CustomerSegment: domain.SegmentRetail,
	})
	require.NoError(t, err)

	assert.True(t, repo.entriesBounded)
	assert.True(t, repo.baseBounded)
}

func TestResolveWholesaleIsRetailTimesDiscount(t *testing.T) {
	base := domain.Input{
		VehicleClass:    refdatadomain.RiskClassB,
		CoverageLevel:   "gold",
		TermMonths:      36,
		Deductible:      100,
		Mileage:         60000,
		VehicleAge:      4,
	}
	r := newTestResolver(&stubRepo{})

	retailIn, wholesaleIn := base, base
	retailIn.CustomerSegment = domain.SegmentRetail
	wholesaleIn.CustomerSegment = domain.SegmentWholesale

	retail, err := r.Resolve(context.Background(), retailIn)
	require.NoError(t, err)
	wholesale, err := r.Resolve(context.Background(), wholesaleIn)
	require.NoError(t, err)

	want := retail.BasePrice.Mul(decimal.NewFromFloat(0.85))
	assert.True(t, wholesale.BasePrice.Equal(want),
		"wholesale %s != retail x 0.85 %s", wholesale.BasePrice, want)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smallbiznis/covara/internal/classifier"
	"github.com/smallbiznis/covara/internal/clock"
	"github.com/smallbiznis/covara/internal/eligibility"
	"github.com/smallbiznis/covara/internal/quote/domain"
	ratematrixdomain "github.com/smallbiznis/covara/internal/ratematrix/domain"
	ratingdomain "github.com/smallbiznis/covara/internal/rating/domain"
	ratingservice "github.com/smallbiznis/covara/internal/rating/service"
	refdatadomain "github.com/smallbiznis/covara/internal/refdata/domain"
	"github.com/smallbiznis/covara/internal/vin"
)

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

type stubMatrixRepo struct {
	entries []ratematrixdomain.RateMatrixEntry
}

func (s *stubMatrixRepo) FindActiveEntries(context.Context, refdatadomain.RiskClass, string, int, time.Time) ([]ratematrixdomain.RateMatrixEntry, error) {
	return s.entries, nil
}

func (s *stubMatrixRepo) FindBaseRate(context.Context, refdatadomain.RiskClass, string, time.Time) (*ratematrixdomain.BaseRate, error) {
	return nil, nil
}

type fakeSettings struct{}

func (fakeSettings) AdminFee(context.Context, string) (decimal.Decimal, refdatadomain.Source) {
	return decimal.NewFromInt(50), refdatadomain.SourceStore
}

func (fakeSettings) TaxRate(context.Context, string) (decimal.Decimal, refdatadomain.Source) {
	return decimal.NewFromFloat(0.07), refdatadomain.SourceStore
}

type stubDecoder struct {
	vehicle *vin.Vehicle
	err     error
}

func (s *stubDecoder) Decode(context.Context, string) (*vin.Vehicle, error) {
	return s.vehicle, s.err
}

func newTestService(t *testing.T, repo ratematrixdomain.Repository, decoder vin.Decoder) domain.Service {
	t.Helper()

	log := zap.NewNop()
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	tables := defaultTables{}
	if decoder == nil {
		decoder = &stubDecoder{err: vin.ErrInvalidVIN}
	}
	return NewService(ServiceParam{
		Log:   log,
		GenID: node,
		Clock: clk,
		Classifier: classifier.NewClassifier(classifier.ClassifierParam{
			Log:    log,
			Tables: tables,
		}),
		Resolver: ratingservice.NewResolver(ratingservice.ResolverParam{
			Log:    log,
			Repo:   repo,
			Tables: tables,
			Clock:  clk,
		}),
		Tables:   tables,
		Settings: fakeSettings{},
		Decoder:  decoder,
	})
}

func toyotaRequest() domain.Request {
	return domain.Request{
		Make:            "Toyota",
		Year:            2020,
		Mileage:         40000,
		CoverageLevel:   "gold",
		TermMonths:      36,
		Deductible:      100,
		CustomerSegment: ratingdomain.SegmentRetail,
	}
}

func TestGenerateQuoteComputedPath(t *testing.T) {
	svc := newTestService(t, &stubMatrixRepo{}, nil)

	res, err := svc.GenerateQuote(context.Background(), toyotaRequest())
	require.NoError(t, err)
	require.NotNil(t, res.Quote)
	require.Nil(t, res.Decline)

	q := res.Quote
	assert.True(t, q.Eligible)
	assert.Equal(t, refdatadomain.RiskClassA, q.VehicleClass)
	assert.Equal(t, ratingdomain.PricingMethodComputed, q.PricingMethod)

	// Class A gold base 1200 x 1.15 age(5) x 1.00 mileage x 1.00 term.
	assert.Equal(t, "1380", q.Breakdown.BasePrice.String())
	assert.Equal(t, "50", q.Breakdown.AdminFee.String())
	assert.Equal(t, "1430", q.Breakdown.Subtotal.String())
	assert.Equal(t, "100.1", q.Breakdown.TaxAmount.String())
	assert.Equal(t, "1530.1", q.Breakdown.TotalPrice.String())
	assert.Equal(t, "42.5", q.Breakdown.MonthlyPayment.String())

	assert.Contains(t, q.QuoteID, "VSC-")
	assert.Equal(t, q.IssuedAt.Add(30*24*time.Hour), q.ValidUntil)
	assert.Equal(t, refdatadomain.SourceFallback, q.Provenance.Rate)
	assert.Equal(t, refdatadomain.SourceStore, q.Provenance.AdminFee)
}

func TestGenerateQuoteDeclinesOldVehicle(t *testing.T) {
	svc := newTestService(t, &stubMatrixRepo{}, nil)

	res, err := svc.GenerateQuote(context.Background(), domain.Request{
		Make:          "BMW",
		Year:          1995,
		Mileage:       50000,
		CoverageLevel: "gold",
		TermMonths:    36,
		Deductible:    100,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Decline)
	require.Nil(t, res.Quote)

	d := res.Decline
	assert.False(t, d.Eligible)
	assert.Equal(t, domain.ReasonIneligible, d.ReasonCode)
	assert.Equal(t, eligibility.DeclineMessage, d.Message)
	assert.Equal(t, 20, d.MaxAgeYears)
	assert.Equal(t, 200000, d.MaxMileage)
	assert.Equal(t, 30, d.VehicleAge)
}

func TestGenerateQuoteDeclinesMileageBoundary(t *testing.T) {
	svc := newTestService(t, &stubMatrixRepo{}, nil)

	req := toyotaRequest()
	req.Mileage = 200000
	res, err := svc.GenerateQuote(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res.Decline)
	assert.Equal(t, domain.ReasonIneligible, res.Decline.ReasonCode)
}

func TestGenerateQuoteUnknownMakeClassifiesB(t *testing.T) {
	svc := newTestService(t, &stubMatrixRepo{}, nil)

	req := toyotaRequest()
	req.Make = "Zigzagmobile"
	res, err := svc.GenerateQuote(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res.Quote)
	assert.Equal(t, refdatadomain.RiskClassB, res.Quote.VehicleClass)
}

func TestGenerateQuoteExactMatchPriority(t *testing.T) {
	repo := &stubMatrixRepo{entries: []ratematrixdomain.RateMatrixEntry{{
		VehicleClass:    refdatadomain.RiskClassA,
		CoverageLevel:   "gold",
		TermMonths:      36,
		MileageRangeKey: "15000_to_50000",
		MinMileage:      15000,
		MaxMileage:      50000,
		RateAmount:      1150,
		EffectiveDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:          true,
	}}}
	svc := newTestService(t, repo, nil)

	res, err := svc.GenerateQuote(context.Background(), toyotaRequest())
	require.NoError(t, err)
	require.NotNil(t, res.Quote)

	assert.Equal(t, ratingdomain.PricingMethodExact, res.Quote.PricingMethod)
	assert.Equal(t, "1150", res.Quote.Breakdown.BasePrice.String())
	assert.Equal(t, refdatadomain.SourceStore, res.Quote.Provenance.Rate)
}

func TestGenerateQuoteIdempotentPricing(t *testing.T) {
	svc := newTestService(t, &stubMatrixRepo{}, nil)

	first, err := svc.GenerateQuote(context.Background(), toyotaRequest())
	require.NoError(t, err)
	second, err := svc.GenerateQuote(context.Background(), toyotaRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.Quote.QuoteID, second.Quote.QuoteID)
	assert.Equal(t, first.Quote.Breakdown, second.Quote.Breakdown)
	assert.Equal(t, first.Quote.Factors, second.Quote.Factors)
	assert.Equal(t, first.Quote.VehicleClass, second.Quote.VehicleClass)
}

func TestGenerateQuoteWholesaleDiscount(t *testing.T) {
	svc := newTestService(t, &stubMatrixRepo{}, nil)

	retailReq := toyotaRequest()
	wholesaleReq := toyotaRequest()
	wholesaleReq.CustomerSegment = ratingdomain.SegmentWholesale

	retail, err := svc.GenerateQuote(context.Background(), retailReq)
	require.NoError(t, err)
	wholesale, err := svc.GenerateQuote(context.Background(), wholesaleReq)
	require.NoError(t, err)

	want := retail.Quote.Breakdown.BasePrice.Mul(decimal.NewFromFloat(0.85)).Round(2)
	assert.True(t, wholesale.Quote.Breakdown.BasePrice.Equal(want),
		"wholesale base %s != retail base x 0.85 %s", wholesale.Quote.Breakdown.BasePrice, want)
	assert.Equal(t, 0.85, wholesale.Quote.Factors.CustomerDiscount)
	assert.Equal(t, 1.0, retail.Quote.Factors.CustomerDiscount)
}

func TestGenerateQuoteValidationDecline(t *testing.T) {
	svc := newTestService(t, &stubMatrixRepo{}, nil)

	res, err := svc.GenerateQuote(context.Background(), domain.Request{
		Year:          1980,
		Mileage:       -1,
		CoverageLevel: "diamond",
		TermMonths:    13,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Decline)

	assert.Equal(t, domain.ReasonValidation, res.Decline.ReasonCode)
	assert.NotEmpty(t, res.Decline.Errors)
}

func TestGenerateQuoteFromVIN(t *testing.T) {
	decoder := &stubDecoder{vehicle: &vin.Vehicle{
		VIN:          "1HGCM82633A004352",
		Make:         "Honda",
		Model:        "Accord",
		Year:         2020,
		DecodeMethod: vin.DecodeMethodExternal,
	}}
	svc := newTestService(t, &stubMatrixRepo{}, decoder)

	res, err := svc.GenerateQuote(context.Background(), domain.Request{
		VIN:           "1HGCM82633A004352",
		Mileage:       40000,
		CoverageLevel: "gold",
		TermMonths:    36,
		Deductible:    100,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Quote)

	assert.Equal(t, "Honda", res.Quote.Vehicle.Make)
	assert.Equal(t, "Accord", res.Quote.Vehicle.Model)
	assert.Equal(t, 2020, res.Quote.Vehicle.Year)
	assert.Equal(t, refdatadomain.RiskClassA, res.Quote.VehicleClass)
}

func TestGenerateQuoteVINDecodeFailsSoft(t *testing.T) {
	svc := newTestService(t, &stubMatrixRepo{}, &stubDecoder{err: vin.ErrInvalidVIN})

	req := toyotaRequest()
	req.VIN = "not-a-vin"
	res, err := svc.GenerateQuote(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res.Quote)
	assert.Equal(t, "Toyota", res.Quote.Vehicle.Make)
}

func TestCheckEligibility(t *testing.T) {
	svc := newTestService(t, &stubMatrixRepo{}, nil)

	report, err := svc.CheckEligibility(context.Background(), domain.EligibilityRequest{
		Make:    "Porsche",
		Year:    2008,
		Mileage: 160000,
	})
	require.NoError(t, err)

	assert.True(t, report.Eligible)
	assert.Equal(t, eligibility.StatusEligibleWarning, report.Status)
	assert.NotEmpty(t, report.Warnings)
	assert.NotEmpty(t, report.Advisories)
	assert.Equal(t, 1.60, report.AgeMultiplier)
	assert.Equal(t, 1.75, report.MileageMultiplier)
}

func TestCheckEligibilityDecline(t *testing.T) {
	svc := newTestService(t, &stubMatrixRepo{}, nil)

	report, err := svc.CheckEligibility(context.Background(), domain.EligibilityRequest{
		Make:    "Ford",
		Year:    2000,
		Mileage: 30000,
	})
	require.NoError(t, err)

	assert.False(t, report.Eligible)
	assert.Equal(t, eligibility.DeclineMessage, report.Message)
}

func TestCoverageOptions(t *testing.T) {
	svc := newTestService(t, &stubMatrixRepo{}, nil)

	opts, err := svc.CoverageOptions(context.Background())
	require.NoError(t, err)

	assert.Len(t, opts.Levels, 3)
	assert.Equal(t, []int{12, 24, 36, 48, 60, 72}, opts.TermMonths)
	assert.Equal(t, []int{0, 50, 100, 200, 500, 1000}, opts.Deductibles)
}

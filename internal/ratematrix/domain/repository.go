package domain

import (
	"context"
	"time"

	refdatadomain "github.com/smallbiznis/covara/internal/refdata/domain"
)

// Repository reads the rate matrix and base rate tables.
type Repository interface {
	// FindActiveEntries returns active entries for the composite key whose
	// effective_date is on or before asOf, ordered latest effective_date
	// first and then ascending min_mileage.
	FindActiveEntries(ctx context.Context, class refdatadomain.RiskClass, coverageLevel string, termMonths int, asOf time.Time) ([]RateMatrixEntry, error)

	// FindBaseRate returns the latest base rate effective on or before asOf,
	// or nil when the table has no matching row.
	FindBaseRate(ctx context.Context, class refdatadomain.RiskClass, coverageLevel string, asOf time.Time) (*BaseRate, error)
}

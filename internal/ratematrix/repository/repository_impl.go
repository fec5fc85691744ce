package repository

import (
	"context"
	"time"

	"github.com/smallbiznis/covara/internal/ratematrix/domain"
	refdatadomain "github.com/smallbiznis/covara/internal/refdata/domain"
	"github.com/smallbiznis/covara/pkg/db/option"
	"github.com/smallbiznis/covara/pkg/repository"
	"gorm.io/gorm"
)

type repositoryImpl struct {
	entries   repository.Repository[domain.RateMatrixEntry]
	baseRates repository.Repository[domain.BaseRate]
}

// NewRepository returns a gorm-backed rate matrix repository.
func NewRepository(db *gorm.DB) domain.Repository {
	return &repositoryImpl{
		entries:   repository.ProvideStore[domain.RateMatrixEntry](db),
		baseRates: repository.ProvideStore[domain.BaseRate](db),
	}
}

func (r *repositoryImpl) FindActiveEntries(
	ctx context.Context,
	class refdatadomain.RiskClass,
	coverageLevel string,
	termMonths int,
	asOf time.Time,
) ([]domain.RateMatrixEntry, error) {
	rows, err := r.entries.Find(ctx,
		&domain.RateMatrixEntry{
			VehicleClass:  class,
			CoverageLevel: coverageLevel,
			TermMonths:    termMonths,
			Active:        true,
		},
		option.WithCondition("effective_date <= ?", asOf),
		option.WithOrderBy("effective_date DESC, min_mileage ASC"),
	)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.RateMatrixEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, *row)
	}
	return entries, nil
}

func (r *repositoryImpl) FindBaseRate(
	ctx context.Context,
	class refdatadomain.RiskClass,
	coverageLevel string,
	asOf time.Time,
) (*domain.BaseRate, error) {
	return r.baseRates.FindOne(ctx,
		&domain.BaseRate{
			VehicleClass:  class,
			CoverageLevel: coverageLevel,
		},
		option.WithCondition("effective_date <= ?", asOf),
		option.WithOrderBy("effective_date DESC"),
	)
}

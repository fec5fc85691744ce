package repository

import (
	"context"

	"github.com/smallbiznis/covara/internal/refdata/domain"
	"github.com/smallbiznis/covara/pkg/repository"
	"gorm.io/gorm"
)

type repositoryImpl struct {
	classifications repository.Repository[domain.VehicleClassification]
	coverageLevels  repository.Repository[domain.CoverageLevel]
	terms           repository.Repository[domain.TermMultiplier]
	deductibles     repository.Repository[domain.DeductibleMultiplier]
	mileage         repository.Repository[domain.MileageBracket]
	age             repository.Repository[domain.AgeBracket]
}

// NewRepository returns a gorm-backed reference data repository.
func NewRepository(db *gorm.DB) domain.Repository {
	return &repositoryImpl{
		classifications: repository.ProvideStore[domain.VehicleClassification](db),
		coverageLevels:  repository.ProvideStore[domain.CoverageLevel](db),
		terms:           repository.ProvideStore[domain.TermMultiplier](db),
		deductibles:     repository.ProvideStore[domain.DeductibleMultiplier](db),
		mileage:         repository.ProvideStore[domain.MileageBracket](db),
		age:             repository.ProvideStore[domain.AgeBracket](db),
	}
}

func (r *repositoryImpl) ListClassifications(ctx context.Context) ([]domain.VehicleClassification, error) {
	return deref(r.classifications.Find(ctx, &domain.VehicleClassification{}))
}

func (r *repositoryImpl) ListCoverageLevels(ctx context.Context) ([]domain.CoverageLevel, error) {
	return deref(r.coverageLevels.Find(ctx, &domain.CoverageLevel{}))
}

func (r *repositoryImpl) ListTermMultipliers(ctx context.Context) ([]domain.TermMultiplier, error) {
	return deref(r.terms.Find(ctx, &domain.TermMultiplier{}))
}

func (r *repositoryImpl) ListDeductibleMultipliers(ctx context.Context) ([]domain.DeductibleMultiplier, error) {
	return deref(r.deductibles.Find(ctx, &domain.DeductibleMultiplier{}))
}

func (r *repositoryImpl) ListMileageBrackets(ctx context.Context) ([]domain.MileageBracket, error) {
	return deref(r.mileage.Find(ctx, &domain.MileageBracket{}))
}

func (r *repositoryImpl) ListAgeBrackets(ctx context.Context) ([]domain.AgeBracket, error) {
	return deref(r.age.Find(ctx, &domain.AgeBracket{}))
}

func deref[T any](rows []*T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			out = append(out, *row)
		}
	}
	return out, nil
}

package domain

import "context"

// Repository reads the six reference tables from the persistent store.
type Repository interface {
	ListClassifications(ctx context.Context) ([]VehicleClassification, error)
	ListCoverageLevels(ctx context.Context) ([]CoverageLevel, error)
	ListTermMultipliers(ctx context.Context) ([]TermMultiplier, error)
	ListDeductibleMultipliers(ctx context.Context) ([]DeductibleMultiplier, error)
	ListMileageBrackets(ctx context.Context) ([]MileageBracket, error)
	ListAgeBrackets(ctx context.Context) ([]AgeBracket, error)
}

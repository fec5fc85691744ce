package domain

import "context"

// Tables is the single access point for cached reference data. Lookups never
// fail: on store trouble a table is served from the versioned defaults and
// flagged Degraded so callers can mark provenance.
type Tables interface {
	Classifications(ctx context.Context) ClassificationTable
	CoverageLevels(ctx context.Context) CoverageTable
	TermMultipliers(ctx context.Context) TermTable
	DeductibleMultipliers(ctx context.Context) DeductibleTable
	MileageBrackets(ctx context.Context) MileageTable
	AgeBrackets(ctx context.Context) AgeTable

	// Clear drops every cached table; each is reloaded on next access.
	Clear()
}

// ClassificationTable maps normalized make names to risk classes.
type ClassificationTable struct {
	Classes  map[string]RiskClass
	Degraded bool
}

// CoverageTable lists sellable coverage tiers.
type CoverageTable struct {
	Levels   []CoverageLevel
	Degraded bool
}

// TermTable maps term months to multipliers.
type TermTable struct {
	Multipliers map[int]float64
	Degraded    bool
}

// DeductibleTable maps deductible amounts to multipliers.
type DeductibleTable struct {
	Multipliers map[int]float64
	Degraded    bool
}

// MileageTable holds mileage brackets sorted by ascending MaxMileage.
type MileageTable struct {
	Brackets []MileageBracket
	Degraded bool
}

// AgeTable holds age brackets sorted by ascending MaxAge.
type AgeTable struct {
	Brackets []AgeBracket
	Degraded bool
}

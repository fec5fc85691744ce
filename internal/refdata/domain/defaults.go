package domain

// DefaultsVersion identifies the built-in fallback data set. Bump it whenever
// any of the tables below change so degraded-mode quotes can be traced to the
// exact defaults that priced them.
const DefaultsVersion = "2025.2"

// DefaultClassifications is the fallback make-to-class table.
func DefaultClassifications() ClassificationTable {
	return ClassificationTable{
		Degraded: true,
		Classes: map[string]RiskClass{
			"honda": RiskClassA, "acura": RiskClassA, "toyota": RiskClassA,
			"lexus": RiskClassA, "nissan": RiskClassA, "infiniti": RiskClassA,
			"hyundai": RiskClassA, "kia": RiskClassA, "mazda": RiskClassA,
			"mitsubishi": RiskClassA, "scion": RiskClassA, "subaru": RiskClassA,

			"buick": RiskClassB, "chevrolet": RiskClassB, "chrysler": RiskClassB,
			"dodge": RiskClassB, "ford": RiskClassB, "gmc": RiskClassB,
			"jeep": RiskClassB, "mercury": RiskClassB, "oldsmobile": RiskClassB,
			"plymouth": RiskClassB, "pontiac": RiskClassB, "saturn": RiskClassB,
			"ram": RiskClassB,

			"cadillac": RiskClassC, "lincoln": RiskClassC, "volkswagen": RiskClassC,
			"volvo": RiskClassC, "bmw": RiskClassC, "mercedes-benz": RiskClassC,
			"mercedes": RiskClassC, "audi": RiskClassC, "jaguar": RiskClassC,
			"land rover": RiskClassC, "porsche": RiskClassC, "saab": RiskClassC,
			"mini": RiskClassC,
		},
	}
}

// DefaultCoverageLevels is the fallback coverage catalog.
func DefaultCoverageLevels() CoverageTable {
	return CoverageTable{
		Degraded: true,
		Levels: []CoverageLevel{
			{Code: "silver", Name: "Silver Coverage", Description: "Basic powertrain protection"},
			{Code: "gold", Name: "Gold Coverage", Description: "Enhanced component protection"},
			{Code: "platinum", Name: "Platinum Coverage", Description: "Comprehensive exclusionary coverage"},
		},
	}
}

// DefaultTermMultipliers is the fallback term multiplier table; 36 months is
// the base term.
func DefaultTermMultipliers() TermTable {
	return TermTable{
		Degraded: true,
		Multipliers: map[int]float64{
			12: 0.40,
			24: 0.70,
			36: 1.00,
			48: 1.25,
			60: 1.45,
			72: 1.60,
		},
	}
}

// DefaultDeductibleMultipliers is the fallback deductible table; $100 is the
// base deductible.
func DefaultDeductibleMultipliers() DeductibleTable {
	return DeductibleTable{
		Degraded: true,
		Multipliers: map[int]float64{
			0:    1.25,
			50:   1.15,
			100:  1.00,
			200:  0.90,
			500:  0.75,
			1000: 0.65,
		},
	}
}

// DefaultMileageBrackets is the fallback mileage bracket table, ascending.
func DefaultMileageBrackets() MileageTable {
	return MileageTable{
		Degraded: true,
		Brackets: []MileageBracket{
			{Label: "low", MaxMileage: 50000, Multiplier: 1.00},
			{Label: "medium", MaxMileage: 75000, Multiplier: 1.15},
			{Label: "high", MaxMileage: 100000, Multiplier: 1.30},
			{Label: "very_high", MaxMileage: 125000, Multiplier: 1.50},
			{Label: "extreme", MaxMileage: 999999, Multiplier: 1.75},
		},
	}
}

// DefaultAgeBrackets is the fallback vehicle-age bracket table, ascending.
func DefaultAgeBrackets() AgeTable {
	return AgeTable{
		Degraded: true,
		Brackets: []AgeBracket{
			{Label: "new", MaxAge: 3, Multiplier: 1.00},
			{Label: "recent", MaxAge: 6, Multiplier: 1.15},
			{Label: "older", MaxAge: 10, Multiplier: 1.35},
			{Label: "old", MaxAge: 999, Multiplier: 1.60},
		},
	}
}

// DefaultBaseRates is the fallback per-(class, coverage) base rate table used
// by the computed pricing path when the base rate store is empty.
func DefaultBaseRates() map[RiskClass]map[string]float64 {
	return map[RiskClass]map[string]float64{
		RiskClassA: {"silver": 800, "gold": 1200, "platinum": 1600},
		RiskClassB: {"silver": 1000, "gold": 1500, "platinum": 2000},
		RiskClassC: {"silver": 1400, "gold": 2100, "platinum": 2800},
	}
}

// DefaultBaseRate prices unknown class/coverage combinations.
const DefaultBaseRate = 1500

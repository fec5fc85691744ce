// Package domain contains the persisted reference tables consumed by the
// rating engine. The tables are authored by an external administrative
// process and are read-only here.
package domain

import "time"

// RiskClass buckets manufacturers by expected claim cost.
type RiskClass string

const (
	RiskClassA RiskClass = "A"
	RiskClassB RiskClass = "B"
	RiskClassC RiskClass = "C"
)

// VehicleClassification maps a normalized manufacturer name to a risk class.
type VehicleClassification struct {
	Make      string    `gorm:"type:text;primaryKey;column:make"`
	RiskClass RiskClass `gorm:"type:char(1);not null;column:risk_class"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (VehicleClassification) TableName() string { return "vehicle_classifications" }

// CoverageLevel describes a sellable coverage tier.
type CoverageLevel struct {
	Code        string    `gorm:"type:text;primaryKey;column:code"`
	Name        string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CoverageLevel) TableName() string { return "vsc_coverage_levels" }

// TermMultiplier scales the base rate for a contract term.
type TermMultiplier struct {
	TermMonths int       `gorm:"primaryKey;column:term_months"`
	Multiplier float64   `gorm:"type:numeric(6,4);not null"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (TermMultiplier) TableName() string { return "vsc_term_multipliers" }

// DeductibleMultiplier scales the price for a chosen deductible amount.
type DeductibleMultiplier struct {
	Amount     int       `gorm:"primaryKey;column:amount"`
	Multiplier float64   `gorm:"type:numeric(6,4);not null"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (DeductibleMultiplier) TableName() string { return "vsc_deductible_multipliers" }

// MileageBracket is an inclusive upper-bounded mileage band with its
// multiplier. Brackets are evaluated in ascending MaxMileage order; mileage
// above the highest bracket extrapolates to that bracket's multiplier.
type MileageBracket struct {
	Label      string    `gorm:"type:text;primaryKey;column:label"`
	MaxMileage int       `gorm:"not null;column:max_mileage"`
	Multiplier float64   `gorm:"type:numeric(6,4);not null"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (MileageBracket) TableName() string { return "vsc_mileage_brackets" }

// AgeBracket is the vehicle-age analogue of MileageBracket.
type AgeBracket struct {
	Label      string    `gorm:"type:text;primaryKey;column:label"`
	MaxAge     int       `gorm:"not null;column:max_age"`
	Multiplier float64   `gorm:"type:numeric(6,4);not null"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (AgeBracket) TableName() string { return "vsc_age_brackets" }

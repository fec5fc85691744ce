// Package domain contains the authoritative rate matrix models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	refdatadomain "github.com/smallbiznis/covara/internal/refdata/domain"
)

// RateMatrixEntry is one historical exact rate. Entries are immutable once
// effective: a rate change inserts a new row with a later effective_date,
// never an in-place edit.
type RateMatrixEntry struct {
	ID              snowflake.ID            `gorm:"primaryKey"`
	VehicleClass    refdatadomain.RiskClass `gorm:"type:char(1);not null;uniqueIndex:ux_rate_matrix_key;column:vehicle_class"`
	CoverageLevel   string                  `gorm:"type:text;not null;uniqueIndex:ux_rate_matrix_key"`
	TermMonths      int                     `gorm:"not null;uniqueIndex:ux_rate_matrix_key"`
	MileageRangeKey string                  `gorm:"type:text;not null;uniqueIndex:ux_rate_matrix_key"`
	MinMileage      int                     `gorm:"not null"`
	MaxMileage      int                     `gorm:"not null"`
	RateAmount      float64                 `gorm:"type:numeric(10,2);not null"`
	EffectiveDate   time.Time               `gorm:"not null;uniqueIndex:ux_rate_matrix_key"`
	Active          bool                    `gorm:"not null;default:true"`
	CreatedAt       time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (RateMatrixEntry) TableName() string { return "vsc_rate_matrix" }

// Covers reports whether mileage falls inside the entry's bracket.
func (e RateMatrixEntry) Covers(mileage int) bool {
	return mileage >= e.MinMileage && mileage <= e.MaxMileage
}

// BaseRate is the per-(class, coverage) rate used by the computed pricing
// path when no exact matrix entry applies.
type BaseRate struct {
	ID            snowflake.ID            `gorm:"primaryKey"`
	VehicleClass  refdatadomain.RiskClass `gorm:"type:char(1);not null;uniqueIndex:ux_base_rate_key;column:vehicle_class"`
	CoverageLevel string                  `gorm:"type:text;not null;uniqueIndex:ux_base_rate_key"`
	Rate          float64                 `gorm:"type:numeric(10,2);not null;column:base_rate"`
	EffectiveDate time.Time               `gorm:"not null;uniqueIndex:ux_base_rate_key"`
	CreatedAt     time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (BaseRate) TableName() string { return "vsc_base_rates" }

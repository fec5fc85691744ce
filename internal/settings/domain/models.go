// Package domain defines the admin settings consumed by price assembly.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	refdatadomain "github.com/smallbiznis/covara/internal/refdata/domain"
)

// AdminSetting is one numeric operational setting, addressed by (category,
// key). Fees live under category "fees" keyed by product type; tax rates
// under "tax" keyed by jurisdiction.
type AdminSetting struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Category  string       `gorm:"type:text;not null;uniqueIndex:ux_admin_setting"`
	Key       string       `gorm:"type:text;not null;uniqueIndex:ux_admin_setting;column:setting_key"`
	Value     float64      `gorm:"type:numeric(10,4);not null"`
	UpdatedAt time.Time
}

func (AdminSetting) TableName() string { return "admin_settings" }

const (
	CategoryFees = "fees"
	CategoryTax  = "tax"

	// DefaultJurisdiction keys the tax rate used when the caller supplies
	// no jurisdiction.
	DefaultJurisdiction = "default"
)

// Fallback constants used when the store has no usable row.
var (
	FallbackAdminFee = decimal.NewFromInt(50)
	FallbackTaxRate  = decimal.NewFromFloat(0.07)
)

// Provider serves fee and tax settings. Lookups never fail: on store trouble
// the documented fallback constant is returned with Source set to fallback.
type Provider interface {
	AdminFee(ctx context.Context, productType string) (decimal.Decimal, refdatadomain.Source)
	TaxRate(ctx context.Context, jurisdiction string) (decimal.Decimal, refdatadomain.Source)
}

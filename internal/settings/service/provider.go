package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/covara/internal/config"
	refdatadomain "github.com/smallbiznis/covara/internal/refdata/domain"
	"github.com/smallbiznis/covara/internal/settings/domain"
	"github.com/smallbiznis/covara/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Provider reads admin settings from the store with per-call fallbacks. It
// does not cache: settings are read once per quote and the table is tiny.
type Provider struct {
	log          *zap.Logger
	settings     repository.Repository[domain.AdminSetting]
	storeTimeout time.Duration
}

type ProviderParam struct {
	fx.In

	Log *zap.Logger
	DB  *gorm.DB
	Cfg config.Config
}

func NewProvider(p ProviderParam) domain.Provider {
	timeout := p.Cfg.StoreTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Provider{
		log:          p.Log.Named("settings.provider"),
		settings:     repository.ProvideStore[domain.AdminSetting](p.DB),
		storeTimeout: timeout,
	}
}

func (p *Provider) AdminFee(ctx context.Context, productType string) (decimal.Decimal, refdatadomain.Source) {
	return p.lookup(ctx, domain.CategoryFees, productType, domain.FallbackAdminFee)
}

func (p *Provider) TaxRate(ctx context.Context, jurisdiction string) (decimal.Decimal, refdatadomain.Source) {
	if jurisdiction == "" {
		jurisdiction = domain.DefaultJurisdiction
	}
	return p.lookup(ctx, domain.CategoryTax, jurisdiction, domain.FallbackTaxRate)
}

func (p *Provider) lookup(ctx context.Context, category, key string, fallback decimal.Decimal) (decimal.Decimal, refdatadomain.Source) {
	ctx, cancel := context.WithTimeout(ctx, p.storeTimeout)
	defer cancel()

	row, err := p.settings.FindOne(ctx, &domain.AdminSetting{Category: category, Key: key})
	if err != nil || row == nil || row.Value < 0 {
		fields := []zap.Field{
			zap.String("category", category),
			zap.String("key", key),
			zap.String("fallback", fallback.String()),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		p.log.Warn("serving fallback admin setting", fields...)
		return fallback, refdatadomain.SourceFallback
	}
	return decimal.NewFromFloat(row.Value), refdatadomain.SourceStore
}

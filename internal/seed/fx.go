package seed

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/covara/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("seed",
	fx.Invoke(func(db *gorm.DB, cfg config.Config, log *zap.Logger, node *snowflake.Node) error {
		if !cfg.SeedOnStart {
			return nil
		}
		if err := Run(context.Background(), db, node); err != nil {
			return err
		}
		log.Info("reference data seeded")
		return nil
	}),
)

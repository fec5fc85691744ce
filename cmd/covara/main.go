package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/covara/internal/classifier"
	"github.com/smallbiznis/covara/internal/clock"
	"github.com/smallbiznis/covara/internal/config"
	"github.com/smallbiznis/covara/internal/observability/metrics"
	"github.com/smallbiznis/covara/internal/quote"
	"github.com/smallbiznis/covara/internal/ratematrix"
	"github.com/smallbiznis/covara/internal/rating"
	"github.com/smallbiznis/covara/internal/refdata"
	"github.com/smallbiznis/covara/internal/seed"
	"github.com/smallbiznis/covara/internal/server"
	"github.com/smallbiznis/covara/internal/settings"
	"github.com/smallbiznis/covara/internal/vin"
	"github.com/smallbiznis/covara/pkg/db"
	"github.com/smallbiznis/covara/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		metrics.Module,

		// Rating domains
		refdata.Module,
		classifier.Module,
		ratematrix.Module,
		rating.Module,
		settings.Module,
		vin.Module,
		quote.Module,

		seed.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

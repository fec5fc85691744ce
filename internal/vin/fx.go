package vin

import "go.uber.org/fx"

var Module = fx.Module("vin.decoder",
	fx.Provide(NewDecoder),
)

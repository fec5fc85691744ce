package refdata

import (
	"github.com/smallbiznis/covara/internal/refdata/repository"
	"github.com/smallbiznis/covara/internal/refdata/service"
	"go.uber.org/fx"
)

var Module = fx.Module("refdata.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewStore),
)

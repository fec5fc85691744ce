package ratematrix

import (
	"github.com/smallbiznis/covara/internal/ratematrix/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("ratematrix.service",
	fx.Provide(repository.NewRepository),
)

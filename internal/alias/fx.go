package alias

import (
	"github.com/smallbiznis/granary/internal/alias/repository"
	"github.com/smallbiznis/granary/internal/alias/service"
	"go.uber.org/fx"
)

var Module = fx.Module("alias.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package dimension

import (
	"github.com/smallbiznis/granary/internal/dimension/repository"
	"github.com/smallbiznis/granary/internal/dimension/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dimension.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package loader

import (
	"github.com/smallbiznis/granary/internal/loader/repository"
	"github.com/smallbiznis/granary/internal/loader/service"
	"go.uber.org/fx"
)

var Module = fx.Module("loader.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package ingest

import (
	"github.com/smallbiznis/granary/internal/ingest/repository"
	"github.com/smallbiznis/granary/internal/ingest/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ingest.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

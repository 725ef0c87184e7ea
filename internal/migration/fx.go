package migration

import (
	"context"

	aliasdomain "github.com/smallbiznis/granary/internal/alias/domain"
	"github.com/smallbiznis/granary/internal/config"
	"github.com/smallbiznis/granary/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, aliases *config.AliasSeedHolder, aliasSvc aliasdomain.Service) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := AutoMigrate(conn); err != nil {
				return err
			}
		}

		return seed.EnsureAliasMappings(context.Background(), aliasSvc, aliases.Get())
	}),
)

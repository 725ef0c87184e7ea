package seed

import (
	"context"

	aliasdomain "github.com/smallbiznis/granary/internal/alias/domain"
	"github.com/smallbiznis/granary/internal/config"
)

// EnsureAliasMappings applies the alias seed file to the alias tables on
// startup. Upserts are idempotent, so re-seeding on every boot is harmless.
func EnsureAliasMappings(ctx context.Context, svc aliasdomain.Service, cfg config.AliasSeedConfig) error {
	if cfg.Empty() {
		return nil
	}

	return svc.Seed(ctx, aliasdomain.SeedRequest{
		FactoryAliases:  cfg.Factory,
		EmployeeAliases: cfg.Employee,
	})
}

package domain

import (
	"context"

	"gorm.io/gorm"
)

// Snapshot is an in-memory copy of both alias tables, read once per batch
// transaction. A mapping landing mid-batch is observed on the next batch.
type Snapshot struct {
	Factory  map[string]string
	Employee map[string]string
}

// SeedRequest carries alias→canonical mappings to upsert. Nil or empty maps
// are no-ops.
type SeedRequest struct {
	FactoryAliases  map[string]string `json:"factory_aliases"`
	EmployeeAliases map[string]string `json:"employee_aliases"`
}

type Service interface {
	// Load reads both alias tables through the supplied handle, which may be
	// an open batch transaction.
	Load(ctx context.Context, db *gorm.DB) (Snapshot, error)

	// Seed upserts alias mappings, normalizing both sides the same way the
	// read path will (factory values uppercased, employee values trimmed).
	Seed(ctx context.Context, req SeedRequest) error
}

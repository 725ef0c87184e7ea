package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	InsertOperations(ctx context.Context, db *gorm.DB, row *FactOperations) error
	InsertKPI(ctx context.Context, db *gorm.DB, row *FactKPI) error
	CountOperations(ctx context.Context, db *gorm.DB) (int64, error)
	CountKPI(ctx context.Context, db *gorm.DB) (int64, error)
}

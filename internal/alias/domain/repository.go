package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListFactoryAliases(ctx context.Context, db *gorm.DB) ([]FactoryCodeAlias, error)
	ListEmployeeAliases(ctx context.Context, db *gorm.DB) ([]EmployeeIDAlias, error)
	UpsertFactoryAliases(ctx context.Context, db *gorm.DB, rows []FactoryCodeAlias) error
	UpsertEmployeeAliases(ctx context.Context, db *gorm.DB, rows []EmployeeIDAlias) error
}

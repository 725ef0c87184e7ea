package repository

import (
	"context"

	aliasdomain "github.com/smallbiznis/granary/internal/alias/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() aliasdomain.Repository {
	return &repo{}
}

func (r *repo) ListFactoryAliases(ctx context.Context, db *gorm.DB) ([]aliasdomain.FactoryCodeAlias, error) {
	var rows []aliasdomain.FactoryCodeAlias
	err := db.WithContext(ctx).Raw(
		`SELECT alias, factory_code FROM factory_code_alias`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ListEmployeeAliases(ctx context.Context, db *gorm.DB) ([]aliasdomain.EmployeeIDAlias, error) {
	var rows []aliasdomain.EmployeeIDAlias
	err := db.WithContext(ctx).Raw(
		`SELECT alias, employee_id FROM employee_id_alias`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) UpsertFactoryAliases(ctx context.Context, db *gorm.DB, rows []aliasdomain.FactoryCodeAlias) error {
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "alias"}},
		DoUpdates: clause.AssignmentColumns([]string{"factory_code"}),
	}).Create(&rows).Error
}

func (r *repo) UpsertEmployeeAliases(ctx context.Context, db *gorm.DB, rows []aliasdomain.EmployeeIDAlias) error {
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "alias"}},
		DoUpdates: clause.AssignmentColumns([]string{"employee_id"}),
	}).Create(&rows).Error
}

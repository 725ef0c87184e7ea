package domain

import (
	"context"

	"gorm.io/gorm"
)

// Repository looks up dimension rows by natural key and inserts new ones.
// Find methods return (nil, nil) when the row is absent.
type Repository interface {
	FindFactoryByCode(ctx context.Context, db *gorm.DB, code string) (*Factory, error)
	InsertFactory(ctx context.Context, db *gorm.DB, row *Factory) error

	FindEmployeeByID(ctx context.Context, db *gorm.DB, employeeID string) (*Employee, error)
	InsertEmployee(ctx context.Context, db *gorm.DB, row *Employee) error

	FindPeriod(ctx context.Context, db *gorm.DB, year, month int) (*Period, error)
	InsertPeriod(ctx context.Context, db *gorm.DB, row *Period) error
}

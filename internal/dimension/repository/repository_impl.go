package repository

import (
	"context"

	dimensiondomain "github.com/smallbiznis/granary/internal/dimension/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() dimensiondomain.Repository {
	return &repo{}
}

func (r *repo) FindFactoryByCode(ctx context.Context, db *gorm.DB, code string) (*dimensiondomain.Factory, error) {
	var row dimensiondomain.Factory
	err := db.WithContext(ctx).Raw(
		`SELECT factory_key, factory_code, region, line_of_business, created_at
		 FROM dim_factory WHERE factory_code = ?`,
		code,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.FactoryKey == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *repo) InsertFactory(ctx context.Context, db *gorm.DB, row *dimensiondomain.Factory) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO dim_factory (factory_key, factory_code, region, line_of_business, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		row.FactoryKey,
		row.FactoryCode,
		row.Region,
		row.LineOfBusiness,
		row.CreatedAt,
	).Error
}

func (r *repo) FindEmployeeByID(ctx context.Context, db *gorm.DB, employeeID string) (*dimensiondomain.Employee, error) {
	var row dimensiondomain.Employee
	err := db.WithContext(ctx).Raw(
		`SELECT employee_key, employee_id, factory_key, dept, title, manager_id, created_at
		 FROM dim_employee WHERE employee_id = ?`,
		employeeID,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.EmployeeKey == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *repo) InsertEmployee(ctx context.Context, db *gorm.DB, row *dimensiondomain.Employee) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO dim_employee (employee_key, employee_id, factory_key, dept, title, manager_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.EmployeeKey,
		row.EmployeeID,
		row.FactoryKey,
		row.Dept,
		row.Title,
		row.ManagerID,
		row.CreatedAt,
	).Error
}

func (r *repo) FindPeriod(ctx context.Context, db *gorm.DB, year, month int) (*dimensiondomain.Period, error) {
	var row dimensiondomain.Period
	err := db.WithContext(ctx).Raw(
		`SELECT period_key, month, quarter, year, created_at
		 FROM dim_period WHERE year = ? AND month = ?`,
		year,
		month,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.PeriodKey == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *repo) InsertPeriod(ctx context.Context, db *gorm.DB, row *dimensiondomain.Period) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO dim_period (period_key, month, quarter, year, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		row.PeriodKey,
		row.Month,
		row.Quarter,
		row.Year,
		row.CreatedAt,
	).Error
}

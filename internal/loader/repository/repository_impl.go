package repository

import (
	"context"

	loaderdomain "github.com/smallbiznis/granary/internal/loader/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() loaderdomain.Repository {
	return &repo{}
}

func (r *repo) InsertOperations(ctx context.Context, db *gorm.DB, row *loaderdomain.FactOperations) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO fact_operations (id, factory_key, period_key, revenue, cost, output_qty, downtime_hours, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID,
		row.FactoryKey,
		row.PeriodKey,
		row.Revenue,
		row.Cost,
		row.OutputQty,
		row.DowntimeHours,
		row.CreatedAt,
	).Error
}

func (r *repo) InsertKPI(ctx context.Context, db *gorm.DB, row *loaderdomain.FactKPI) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO fact_kpi (id, employee_key, period_key, metric_code, value, target, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.ID,
		row.EmployeeKey,
		row.PeriodKey,
		row.MetricCode,
		row.Value,
		row.Target,
		row.CreatedAt,
	).Error
}

func (r *repo) CountOperations(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM fact_operations`).Scan(&count).Error
	return count, err
}

func (r *repo) CountKPI(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM fact_kpi`).Scan(&count).Error
	return count, err
}

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// FactOperations is one (factory, period) observation. Append-only: repeated
// loads of the same source batch append rows, deduplication happens upstream
// at the file level.
type FactOperations struct {
	ID            snowflake.ID `json:"id" gorm:"primaryKey"`
	FactoryKey    snowflake.ID `json:"factory_key" gorm:"column:factory_key;not null;index"`
	PeriodKey     snowflake.ID `json:"period_key" gorm:"column:period_key;not null;index"`
	Revenue       *float64     `json:"revenue"`
	Cost          *float64     `json:"cost"`
	OutputQty     *float64     `json:"output_qty" gorm:"column:output_qty"`
	DowntimeHours *float64     `json:"downtime_hours"`
	CreatedAt     time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (FactOperations) TableName() string { return "fact_operations" }

// FactKPI is one (employee, period, metric) observation. Same append-only
// semantics as FactOperations.
type FactKPI struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	EmployeeKey snowflake.ID `json:"employee_key" gorm:"column:employee_key;not null;index"`
	PeriodKey   snowflake.ID `json:"period_key" gorm:"column:period_key;not null;index"`
	MetricCode  string       `json:"metric_code" gorm:"type:text;not null"`
	Value       *float64     `json:"value"`
	Target      *float64     `json:"target"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (FactKPI) TableName() string { return "fact_kpi" }

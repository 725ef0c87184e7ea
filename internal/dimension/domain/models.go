package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Factory is a dimension row keyed by canonical factory code. Descriptive
// attributes are first-write-wins; the loader never updates them.
type Factory struct {
	FactoryKey     snowflake.ID `json:"factory_key" gorm:"column:factory_key;primaryKey"`
	FactoryCode    string       `json:"factory_code" gorm:"type:text;not null;uniqueIndex:ux_dim_factory_code"`
	Region         *string      `json:"region" gorm:"type:text"`
	LineOfBusiness *string      `json:"line_of_business" gorm:"type:text"`
	CreatedAt      time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Factory) TableName() string { return "dim_factory" }

// Employee is a dimension row keyed by canonical employee ID.
type Employee struct {
	EmployeeKey snowflake.ID  `json:"employee_key" gorm:"column:employee_key;primaryKey"`
	EmployeeID  string        `json:"employee_id" gorm:"type:text;not null;uniqueIndex:ux_dim_employee_id"`
	FactoryKey  *snowflake.ID `json:"factory_key" gorm:"column:factory_key"`
	Dept        *string       `json:"dept" gorm:"type:text"`
	Title       *string       `json:"title" gorm:"type:text"`
	ManagerID   *string       `json:"manager_id" gorm:"type:text"`
	CreatedAt   time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Employee) TableName() string { return "dim_employee" }

// Period is a calendar dimension row keyed by (year, month). Quarter is
// derived at insert time and never recomputed.
type Period struct {
	PeriodKey snowflake.ID `json:"period_key" gorm:"column:period_key;primaryKey"`
	Month     int          `json:"month" gorm:"not null;uniqueIndex:ux_dim_period_year_month,priority:2"`
	Quarter   int          `json:"quarter" gorm:"not null"`
	Year      int          `json:"year" gorm:"not null;uniqueIndex:ux_dim_period_year_month,priority:1"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Period) TableName() string { return "dim_period" }

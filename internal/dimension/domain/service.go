package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	aliasdomain "github.com/smallbiznis/granary/internal/alias/domain"
	"gorm.io/gorm"
)

// Service resolves natural keys to surrogate keys, creating dimension rows on
// first reference. All methods accept the database handle explicitly so the
// fact loader can resolve against its open batch transaction; passing nil
// falls back to the service's own connection.
type Service interface {
	GetOrCreateFactory(ctx context.Context, db *gorm.DB, snap aliasdomain.Snapshot, req FactoryRequest) (snowflake.ID, error)
	GetOrCreateEmployee(ctx context.Context, db *gorm.DB, snap aliasdomain.Snapshot, req EmployeeRequest) (snowflake.ID, error)
	GetOrCreatePeriod(ctx context.Context, db *gorm.DB, month, year int) (snowflake.ID, error)
}

type FactoryRequest struct {
	FactoryCode    string
	Region         *string
	LineOfBusiness *string
}

type EmployeeRequest struct {
	EmployeeID string
	FactoryKey *snowflake.ID
	Dept       *string
	Title      *string
	ManagerID  *string
}

var (
	ErrFactoryCodeRequired = errors.New("factory_code_required")
	ErrEmployeeIDRequired  = errors.New("employee_id_required")
	ErrMonthOutOfRange     = errors.New("month_out_of_range")
	ErrYearRequired        = errors.New("year_required")
)

package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Service loads fact batches. Each call is one transaction: dimension and
// fact rows commit together, and any failing record rolls back the whole
// batch. The database handle may be an already-open transaction so callers
// can commit a batch together with their own writes; passing nil falls back
// to the service's own connection.
type Service interface {
	LoadOperations(ctx context.Context, db *gorm.DB, records []Record) (BatchResult, error)
	LoadKPI(ctx context.Context, db *gorm.DB, records []Record) (BatchResult, error)
}

type BatchResult struct {
	RowsLoaded int `json:"rows_loaded"`
}

var (
	ErrMonthInvalid       = errors.New("month_invalid")
	ErrYearInvalid        = errors.New("year_invalid")
	ErrMetricCodeRequired = errors.New("metric_code_required")
	ErrMeasureInvalid     = errors.New("measure_invalid")
)

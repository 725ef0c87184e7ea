package domain

import (
	"context"
	"errors"
	"time"
)

const (
	DatasetOperations = "operations"
	DatasetKPI        = "kpi"
)

// ValidDataset guards every dataset-addressed operation; dataset names reach
// the API as path parameters.
func ValidDataset(name string) bool {
	return name == DatasetOperations || name == DatasetKPI
}

type Service interface {
	// Upload parses a spreadsheet, rejects byte-identical re-uploads, loads
	// the parsed records into the warehouse and archives the raw rows.
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)

	ListRows(ctx context.Context, req ListRowsRequest) (*ListRowsResponse, error)
	GetRow(ctx context.Context, dataset string, id string) (*RowResponse, error)
	UpdateRow(ctx context.Context, dataset string, id string, data map[string]any) (*RowResponse, error)
	Stats(ctx context.Context) (StatsResponse, error)
}

type UploadRequest struct {
	Dataset  string
	FileName string
	Content  []byte
}

type UploadResult struct {
	UploadID   string `json:"upload_id"`
	Dataset    string `json:"dataset"`
	FileName   string `json:"file_name"`
	RowsLoaded int    `json:"rows_loaded"`
}

type ListRowsRequest struct {
	Dataset string
	Limit   int
	Offset  int
}

type ListRowsResponse struct {
	Dataset string        `json:"dataset"`
	Total   int64         `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
	Rows    []RowResponse `json:"rows"`
}

type RowResponse struct {
	ID        string         `json:"id"`
	Dataset   string         `json:"dataset"`
	FileName  string         `json:"file_name"`
	RowNumber int            `json:"row_number"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type StatsResponse struct {
	ImportFiles int64            `json:"import_files"`
	ImportRows  map[string]int64 `json:"import_rows"`
	FactRows    map[string]int64 `json:"fact_rows"`
}

var (
	ErrInvalidDataset  = errors.New("invalid_dataset")
	ErrDuplicateFile   = errors.New("duplicate_file")
	ErrWorkbookInvalid = errors.New("workbook_invalid")
	ErrEmptyWorkbook   = errors.New("workbook_empty")
	ErrRowNotFound     = errors.New("row_not_found")
	ErrInvalidRowID    = errors.New("invalid_row_id")
)

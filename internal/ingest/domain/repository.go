package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Repository interface {
	FindFileByHash(ctx context.Context, db *gorm.DB, hash string) (*ImportFile, error)
	InsertFile(ctx context.Context, db *gorm.DB, file *ImportFile) error
	CountFiles(ctx context.Context, db *gorm.DB) (int64, error)

	InsertRows(ctx context.Context, db *gorm.DB, rows []ImportRow) error
	ListRows(ctx context.Context, db *gorm.DB, dataset string, limit, offset int) ([]ImportRow, error)
	CountRows(ctx context.Context, db *gorm.DB, dataset string) (int64, error)
	FindRowByID(ctx context.Context, db *gorm.DB, dataset string, id snowflake.ID) (*ImportRow, error)
	UpdateRowData(ctx context.Context, db *gorm.DB, id snowflake.ID, data datatypes.JSON, updatedAt time.Time) error
}

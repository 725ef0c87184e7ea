package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	ingestdomain "github.com/smallbiznis/granary/internal/ingest/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() ingestdomain.Repository {
	return &repo{}
}

func (r *repo) FindFileByHash(ctx context.Context, db *gorm.DB, hash string) (*ingestdomain.ImportFile, error) {
	var file ingestdomain.ImportFile
	err := db.WithContext(ctx).Raw(
		`SELECT id, upload_id, dataset, file_name, content_hash, row_count, created_at
		 FROM import_files WHERE content_hash = ?`,
		hash,
	).Scan(&file).Error
	if err != nil {
		return nil, err
	}
	if file.ID == 0 {
		return nil, nil
	}
	return &file, nil
}

func (r *repo) InsertFile(ctx context.Context, db *gorm.DB, file *ingestdomain.ImportFile) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO import_files (id, upload_id, dataset, file_name, content_hash, row_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		file.ID,
		file.UploadID,
		file.Dataset,
		file.FileName,
		file.ContentHash,
		file.RowCount,
		file.CreatedAt,
	).Error
}

func (r *repo) CountFiles(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM import_files`).Scan(&count).Error
	return count, err
}

func (r *repo) InsertRows(ctx context.Context, db *gorm.DB, rows []ingestdomain.ImportRow) error {
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&rows).Error
}

func (r *repo) ListRows(ctx context.Context, db *gorm.DB, dataset string, limit, offset int) ([]ingestdomain.ImportRow, error) {
	var rows []ingestdomain.ImportRow
	err := db.WithContext(ctx).Raw(
		`SELECT id, file_id, dataset, file_name, row_number, data, created_at, updated_at
		 FROM import_rows WHERE dataset = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		dataset,
		limit,
		offset,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) CountRows(ctx context.Context, db *gorm.DB, dataset string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM import_rows WHERE dataset = ?`,
		dataset,
	).Scan(&count).Error
	return count, err
}

func (r *repo) FindRowByID(ctx context.Context, db *gorm.DB, dataset string, id snowflake.ID) (*ingestdomain.ImportRow, error) {
	var row ingestdomain.ImportRow
	err := db.WithContext(ctx).Raw(
		`SELECT id, file_id, dataset, file_name, row_number, data, created_at, updated_at
		 FROM import_rows WHERE dataset = ? AND id = ?`,
		dataset,
		id,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *repo) UpdateRowData(ctx context.Context, db *gorm.DB, id snowflake.ID, data datatypes.JSON, updatedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE import_rows SET data = ?, updated_at = ? WHERE id = ?`,
		data,
		updatedAt,
		id,
	).Error
}

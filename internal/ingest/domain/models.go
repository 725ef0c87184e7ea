package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ImportFile records one accepted upload. ContentHash is the xxh3-128 digest
// of the raw bytes; its unique index is the duplicate-file gate.
type ImportFile struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	UploadID    string       `json:"upload_id" gorm:"type:text;not null"`
	Dataset     string       `json:"dataset" gorm:"type:text;not null;index"`
	FileName    string       `json:"file_name" gorm:"type:text;not null"`
	ContentHash string       `json:"content_hash" gorm:"type:text;not null;uniqueIndex:ux_import_files_content_hash"`
	RowCount    int          `json:"row_count" gorm:"not null"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ImportFile) TableName() string { return "import_files" }

// ImportRow keeps the raw parsed payload of one sheet row for audit and
// manual repair. The warehouse load works from these same payloads, so a
// corrected row can be replayed later.
type ImportRow struct {
	ID        snowflake.ID   `json:"id" gorm:"primaryKey"`
	FileID    snowflake.ID   `json:"file_id" gorm:"column:file_id;not null;index"`
	Dataset   string         `json:"dataset" gorm:"type:text;not null;index"`
	FileName  string         `json:"file_name" gorm:"type:text;not null"`
	RowNumber int            `json:"row_number" gorm:"not null"`
	Data      datatypes.JSON `json:"data"`
	CreatedAt time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ImportRow) TableName() string { return "import_rows" }

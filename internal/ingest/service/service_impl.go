package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	ingestdomain "github.com/smallbiznis/granary/internal/ingest/domain"
	"github.com/smallbiznis/granary/internal/ingest/sheet"
	loaderdomain "github.com/smallbiznis/granary/internal/loader/domain"
	"github.com/smallbiznis/granary/internal/metrics"
	pkgdb "github.com/smallbiznis/granary/pkg/db"
	"github.com/zeebo/xxh3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     ingestdomain.Repository
	Loader   loaderdomain.Service
	FactRepo loaderdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     ingestdomain.Repository
	loader   loaderdomain.Service
	factRepo loaderdomain.Repository
}

func New(p Params) ingestdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("ingest.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		loader:   p.Loader,
		factRepo: p.FactRepo,
	}
}

func (s *Service) Upload(ctx context.Context, req ingestdomain.UploadRequest) (*ingestdomain.UploadResult, error) {
	if !ingestdomain.ValidDataset(req.Dataset) {
		return nil, ingestdomain.ErrInvalidDataset
	}

	records, err := sheet.Parse(bytes.NewReader(req.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ingestdomain.ErrWorkbookInvalid, err)
	}
	if len(records) == 0 {
		return nil, ingestdomain.ErrEmptyWorkbook
	}

	hash := contentHash(req.Content)
	existing, err := s.repo.FindFileByHash(ctx, s.db, hash)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		metrics.DuplicateUploads.Inc()
		s.log.Info("duplicate upload rejected",
			zap.String("file_name", req.FileName),
			zap.String("content_hash", hash),
		)
		return nil, ingestdomain.ErrDuplicateFile
	}

	uploadID := uuid.New().String()
	var result loaderdomain.BatchResult

	// Claiming the content hash, loading the facts and archiving the raw rows
	// commit together: a failed upload leaves neither facts nor a hash claim
	// behind, so the same bytes can be retried cleanly.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.archive(ctx, tx, req, records, hash, uploadID); err != nil {
			if pkgdb.IsDuplicateKeyErr(err) {
				// Another writer claimed the same bytes between the gate
				// check and here.
				return ingestdomain.ErrDuplicateFile
			}
			return err
		}

		var loadErr error
		switch req.Dataset {
		case ingestdomain.DatasetOperations:
			result, loadErr = s.loader.LoadOperations(ctx, tx, records)
		case ingestdomain.DatasetKPI:
			result, loadErr = s.loader.LoadKPI(ctx, tx, records)
		}
		return loadErr
	})
	if err != nil {
		if errors.Is(err, ingestdomain.ErrDuplicateFile) {
			metrics.DuplicateUploads.Inc()
		}
		return nil, err
	}

	s.log.Info("upload accepted",
		zap.String("dataset", req.Dataset),
		zap.String("file_name", req.FileName),
		zap.Int("rows", result.RowsLoaded),
	)

	return &ingestdomain.UploadResult{
		UploadID:   uploadID,
		Dataset:    req.Dataset,
		FileName:   req.FileName,
		RowsLoaded: result.RowsLoaded,
	}, nil
}

func (s *Service) archive(ctx context.Context, tx *gorm.DB, req ingestdomain.UploadRequest, records []loaderdomain.Record, hash, uploadID string) error {
	now := time.Now().UTC()

	file := &ingestdomain.ImportFile{
		ID:          s.genID.Generate(),
		UploadID:    uploadID,
		Dataset:     req.Dataset,
		FileName:    req.FileName,
		ContentHash: hash,
		RowCount:    len(records),
		CreatedAt:   now,
	}

	rows := make([]ingestdomain.ImportRow, 0, len(records))
	for i, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return err
		}
		rows = append(rows, ingestdomain.ImportRow{
			ID:        s.genID.Generate(),
			FileID:    file.ID,
			Dataset:   req.Dataset,
			FileName:  req.FileName,
			RowNumber: i + 1,
			Data:      payload,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.repo.InsertFile(ctx, tx, file); err != nil {
		return err
	}
	return s.repo.InsertRows(ctx, tx, rows)
}

func (s *Service) ListRows(ctx context.Context, req ingestdomain.ListRowsRequest) (*ingestdomain.ListRowsResponse, error) {
	if !ingestdomain.ValidDataset(req.Dataset) {
		return nil, ingestdomain.ErrInvalidDataset
	}

	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	total, err := s.repo.CountRows(ctx, s.db, req.Dataset)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListRows(ctx, s.db, req.Dataset, limit, offset)
	if err != nil {
		return nil, err
	}

	resp := &ingestdomain.ListRowsResponse{
		Dataset: req.Dataset,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		Rows:    make([]ingestdomain.RowResponse, 0, len(rows)),
	}
	for i := range rows {
		item, err := toRowResponse(&rows[i])
		if err != nil {
			return nil, err
		}
		resp.Rows = append(resp.Rows, *item)
	}

	return resp, nil
}

func (s *Service) GetRow(ctx context.Context, dataset string, id string) (*ingestdomain.RowResponse, error) {
	if !ingestdomain.ValidDataset(dataset) {
		return nil, ingestdomain.ErrInvalidDataset
	}

	rowID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, ingestdomain.ErrInvalidRowID
	}

	row, err := s.repo.FindRowByID(ctx, s.db, dataset, rowID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ingestdomain.ErrRowNotFound
	}

	return toRowResponse(row)
}

func (s *Service) UpdateRow(ctx context.Context, dataset string, id string, data map[string]any) (*ingestdomain.RowResponse, error) {
	if !ingestdomain.ValidDataset(dataset) {
		return nil, ingestdomain.ErrInvalidDataset
	}

	rowID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, ingestdomain.ErrInvalidRowID
	}

	row, err := s.repo.FindRowByID(ctx, s.db, dataset, rowID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ingestdomain.ErrRowNotFound
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateRowData(ctx, s.db, rowID, payload, now); err != nil {
		return nil, err
	}

	row.Data = payload
	row.UpdatedAt = now
	return toRowResponse(row)
}

func (s *Service) Stats(ctx context.Context) (ingestdomain.StatsResponse, error) {
	resp := ingestdomain.StatsResponse{
		ImportRows: make(map[string]int64, 2),
		FactRows:   make(map[string]int64, 2),
	}

	files, err := s.repo.CountFiles(ctx, s.db)
	if err != nil {
		return ingestdomain.StatsResponse{}, err
	}
	resp.ImportFiles = files

	for _, dataset := range []string{ingestdomain.DatasetOperations, ingestdomain.DatasetKPI} {
		count, err := s.repo.CountRows(ctx, s.db, dataset)
		if err != nil {
			return ingestdomain.StatsResponse{}, err
		}
		resp.ImportRows[dataset] = count
	}

	operations, err := s.factRepo.CountOperations(ctx, s.db)
	if err != nil {
		return ingestdomain.StatsResponse{}, err
	}
	resp.FactRows[ingestdomain.DatasetOperations] = operations

	kpi, err := s.factRepo.CountKPI(ctx, s.db)
	if err != nil {
		return ingestdomain.StatsResponse{}, err
	}
	resp.FactRows[ingestdomain.DatasetKPI] = kpi

	return resp, nil
}

func toRowResponse(row *ingestdomain.ImportRow) (*ingestdomain.RowResponse, error) {
	data := make(map[string]any)
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &data); err != nil {
			return nil, err
		}
	}
	return &ingestdomain.RowResponse{
		ID:        row.ID.String(),
		Dataset:   row.Dataset,
		FileName:  row.FileName,
		RowNumber: row.RowNumber,
		Data:      data,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func contentHash(content []byte) string {
	sum := xxh3.Hash128(content)
	return fmt.Sprintf("%016x%016x", sum.Hi, sum.Lo)
}

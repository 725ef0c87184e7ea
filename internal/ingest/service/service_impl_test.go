package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	aliasdomain "github.com/smallbiznis/granary/internal/alias/domain"
	aliasrepository "github.com/smallbiznis/granary/internal/alias/repository"
	aliasservice "github.com/smallbiznis/granary/internal/alias/service"
	dimensiondomain "github.com/smallbiznis/granary/internal/dimension/domain"
	dimensionrepository "github.com/smallbiznis/granary/internal/dimension/repository"
	dimensionservice "github.com/smallbiznis/granary/internal/dimension/service"
	ingestdomain "github.com/smallbiznis/granary/internal/ingest/domain"
	"github.com/smallbiznis/granary/internal/ingest/repository"
	loaderdomain "github.com/smallbiznis/granary/internal/loader/domain"
	loaderrepository "github.com/smallbiznis/granary/internal/loader/repository"
	loaderservice "github.com/smallbiznis/granary/internal/loader/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (ingestdomain.Service, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&dimensiondomain.Factory{},
		&dimensiondomain.Employee{},
		&dimensiondomain.Period{},
		&loaderdomain.FactOperations{},
		&loaderdomain.FactKPI{},
		&aliasdomain.FactoryCodeAlias{},
		&aliasdomain.EmployeeIDAlias{},
		&ingestdomain.ImportFile{},
		&ingestdomain.ImportRow{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	aliasSvc := aliasservice.New(aliasservice.Params{
		DB:   conn,
		Log:  log,
		Repo: aliasrepository.Provide(),
	})
	dimensionSvc := dimensionservice.New(dimensionservice.Params{
		DB:    conn,
		Log:   log,
		GenID: node,
		Repo:  dimensionrepository.Provide(),
	})
	loaderSvc := loaderservice.New(loaderservice.Params{
		DB:         conn,
		Log:        log,
		GenID:      node,
		Repo:       loaderrepository.Provide(),
		Aliases:    aliasSvc,
		Dimensions: dimensionSvc,
	})
	svc := New(Params{
		DB:       conn,
		Log:      log,
		GenID:    node,
		Repo:     repository.Provide(),
		Loader:   loaderSvc,
		FactRepo: loaderrepository.Provide(),
	})

	return svc, conn
}

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheetName, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.Clone(buf.Bytes())
}

func operationsWorkbook(t *testing.T) []byte {
	return buildWorkbook(t, [][]any{
		{"factory_code", "month", "year", "revenue"},
		{"A1", "1", "2024", "1250.50"},
		{"B2", "1", "2024", "900"},
	})
}

func TestUploadLoadsAndArchives(t *testing.T) {
	svc, conn := newTestService(t)

	result, err := svc.Upload(context.Background(), ingestdomain.UploadRequest{
		Dataset:  ingestdomain.DatasetOperations,
		FileName: "ops.xlsx",
		Content:  operationsWorkbook(t),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.RowsLoaded)
	assert.NotEmpty(t, result.UploadID)

	var facts, files, rows int64
	require.NoError(t, conn.Model(&loaderdomain.FactOperations{}).Count(&facts).Error)
	require.NoError(t, conn.Model(&ingestdomain.ImportFile{}).Count(&files).Error)
	require.NoError(t, conn.Model(&ingestdomain.ImportRow{}).Count(&rows).Error)
	assert.EqualValues(t, 2, facts)
	assert.EqualValues(t, 1, files)
	assert.EqualValues(t, 2, rows)
}

func TestUploadRejectsDuplicateContent(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	content := operationsWorkbook(t)

	_, err := svc.Upload(ctx, ingestdomain.UploadRequest{
		Dataset:  ingestdomain.DatasetOperations,
		FileName: "ops.xlsx",
		Content:  content,
	})
	require.NoError(t, err)

	// Same bytes under a different name still trip the gate.
	_, err = svc.Upload(ctx, ingestdomain.UploadRequest{
		Dataset:  ingestdomain.DatasetOperations,
		FileName: "ops-again.xlsx",
		Content:  content,
	})
	assert.ErrorIs(t, err, ingestdomain.ErrDuplicateFile)

	var facts int64
	require.NoError(t, conn.Model(&loaderdomain.FactOperations{}).Count(&facts).Error)
	assert.EqualValues(t, 2, facts)
}

func TestUploadArchiveFailureLeavesNoFacts(t *testing.T) {
	svc, conn := newTestService(t)

	// Losing the raw-row table mid-flight fails the archive step; the fact
	// load and the content-hash claim must roll back with it so the same
	// bytes can be retried.
	require.NoError(t, conn.Migrator().DropTable(&ingestdomain.ImportRow{}))

	_, err := svc.Upload(context.Background(), ingestdomain.UploadRequest{
		Dataset:  ingestdomain.DatasetOperations,
		FileName: "ops.xlsx",
		Content:  operationsWorkbook(t),
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ingestdomain.ErrDuplicateFile)

	var facts, files int64
	require.NoError(t, conn.Model(&loaderdomain.FactOperations{}).Count(&facts).Error)
	require.NoError(t, conn.Model(&ingestdomain.ImportFile{}).Count(&files).Error)
	assert.EqualValues(t, 0, facts)
	assert.EqualValues(t, 0, files)
}

func TestUploadLeavesNoHashClaimWhenLoadFails(t *testing.T) {
	svc, conn := newTestService(t)

	content := buildWorkbook(t, [][]any{
		{"factory_code", "month", "year"},
		{"A1", "13", "2024"},
	})

	_, err := svc.Upload(context.Background(), ingestdomain.UploadRequest{
		Dataset:  ingestdomain.DatasetOperations,
		FileName: "bad.xlsx",
		Content:  content,
	})
	require.Error(t, err)

	var files, rows, facts int64
	require.NoError(t, conn.Model(&ingestdomain.ImportFile{}).Count(&files).Error)
	require.NoError(t, conn.Model(&ingestdomain.ImportRow{}).Count(&rows).Error)
	require.NoError(t, conn.Model(&loaderdomain.FactOperations{}).Count(&facts).Error)
	assert.EqualValues(t, 0, files)
	assert.EqualValues(t, 0, rows)
	assert.EqualValues(t, 0, facts)
}

func TestUploadInvalidDataset(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Upload(context.Background(), ingestdomain.UploadRequest{
		Dataset:  "payroll",
		FileName: "x.xlsx",
		Content:  operationsWorkbook(t),
	})
	assert.ErrorIs(t, err, ingestdomain.ErrInvalidDataset)
}

func TestUploadEmptyWorkbook(t *testing.T) {
	svc, _ := newTestService(t)

	content := buildWorkbook(t, [][]any{
		{"factory_code", "month", "year"},
	})

	_, err := svc.Upload(context.Background(), ingestdomain.UploadRequest{
		Dataset:  ingestdomain.DatasetOperations,
		FileName: "empty.xlsx",
		Content:  content,
	})
	assert.ErrorIs(t, err, ingestdomain.ErrEmptyWorkbook)
}

func TestUploadInvalidWorkbook(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Upload(context.Background(), ingestdomain.UploadRequest{
		Dataset:  ingestdomain.DatasetOperations,
		FileName: "junk.xlsx",
		Content:  []byte("not a workbook"),
	})
	assert.ErrorIs(t, err, ingestdomain.ErrWorkbookInvalid)
}

func TestRowAdminRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, ingestdomain.UploadRequest{
		Dataset:  ingestdomain.DatasetOperations,
		FileName: "ops.xlsx",
		Content:  operationsWorkbook(t),
	})
	require.NoError(t, err)

	list, err := svc.ListRows(ctx, ingestdomain.ListRowsRequest{Dataset: ingestdomain.DatasetOperations})
	require.NoError(t, err)
	require.EqualValues(t, 2, list.Total)
	require.Len(t, list.Rows, 2)
	// Newest row first.
	assert.Equal(t, 2, list.Rows[0].RowNumber)
	assert.Equal(t, "B2", list.Rows[0].Data["factory_code"])

	got, err := svc.GetRow(ctx, ingestdomain.DatasetOperations, list.Rows[0].ID)
	require.NoError(t, err)
	assert.Equal(t, list.Rows[0].Data, got.Data)

	updated, err := svc.UpdateRow(ctx, ingestdomain.DatasetOperations, got.ID, map[string]any{
		"factory_code": "A1",
		"note":         "corrected",
	})
	require.NoError(t, err)
	assert.Equal(t, "corrected", updated.Data["note"])

	reread, err := svc.GetRow(ctx, ingestdomain.DatasetOperations, got.ID)
	require.NoError(t, err)
	assert.Equal(t, "corrected", reread.Data["note"])
}

func TestGetRowErrors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetRow(ctx, ingestdomain.DatasetOperations, "not-a-snowflake")
	assert.ErrorIs(t, err, ingestdomain.ErrInvalidRowID)

	_, err = svc.GetRow(ctx, ingestdomain.DatasetOperations, "123456789")
	assert.ErrorIs(t, err, ingestdomain.ErrRowNotFound)

	_, err = svc.GetRow(ctx, "payroll", "123456789")
	assert.ErrorIs(t, err, ingestdomain.ErrInvalidDataset)
}

func TestStats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, ingestdomain.UploadRequest{
		Dataset:  ingestdomain.DatasetOperations,
		FileName: "ops.xlsx",
		Content:  operationsWorkbook(t),
	})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.ImportFiles)
	assert.EqualValues(t, 2, stats.ImportRows[ingestdomain.DatasetOperations])
	assert.EqualValues(t, 0, stats.ImportRows[ingestdomain.DatasetKPI])
	assert.EqualValues(t, 2, stats.FactRows[ingestdomain.DatasetOperations])
	assert.EqualValues(t, 0, stats.FactRows[ingestdomain.DatasetKPI])
}

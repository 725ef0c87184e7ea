package service

import (
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
	loaderdomain "github.com/smallbiznis/granary/internal/loader/domain"
	"github.com/smallbiznis/granary/internal/loader/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db      *gorm.DB
	aliases aliasdomain.Service
	loader  loaderdomain.Service
}

func newTestEnv(t *testing.T) *testEnv {
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
	loaderSvc := New(Params{
		DB:         conn,
		Log:        log,
		GenID:      node,
		Repo:       repository.Provide(),
		Aliases:    aliasSvc,
		Dimensions: dimensionSvc,
	})

	return &testEnv{db: conn, aliases: aliasSvc, loader: loaderSvc}
}

func (e *testEnv) count(t *testing.T, model any) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(model).Count(&count).Error)
	return count
}

func operationsRecord(factory string) loaderdomain.Record {
	return loaderdomain.Record{
		"factory_code": factory,
		"month":        "1",
		"year":         "2024",
		"revenue":      "1250.50",
		"cost":         "800",
	}
}

func TestLoadOperationsMergesFactoryVariants(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.loader.LoadOperations(context.Background(), nil, []loaderdomain.Record{
		operationsRecord(" a1 "),
		operationsRecord("A1"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.RowsLoaded)

	assert.EqualValues(t, 1, env.count(t, &dimensiondomain.Factory{}))
	assert.EqualValues(t, 1, env.count(t, &dimensiondomain.Period{}))
	assert.EqualValues(t, 2, env.count(t, &loaderdomain.FactOperations{}))
}

func TestLoadOperationsAppendsOnReplay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	batch := []loaderdomain.Record{operationsRecord("A1")}

	_, err := env.loader.LoadOperations(ctx, nil, batch)
	require.NoError(t, err)
	_, err = env.loader.LoadOperations(ctx, nil, batch)
	require.NoError(t, err)

	// Facts append; dimensions stay deduplicated.
	assert.EqualValues(t, 2, env.count(t, &loaderdomain.FactOperations{}))
	assert.EqualValues(t, 1, env.count(t, &dimensiondomain.Factory{}))
	assert.EqualValues(t, 1, env.count(t, &dimensiondomain.Period{}))
}

func TestLoadOperationsRollsBackWholeBatch(t *testing.T) {
	env := newTestEnv(t)

	bad := operationsRecord("B2")
	bad["month"] = "13"

	_, err := env.loader.LoadOperations(context.Background(), nil, []loaderdomain.Record{
		operationsRecord("A1"),
		bad,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, dimensiondomain.ErrMonthOutOfRange)

	assert.EqualValues(t, 0, env.count(t, &loaderdomain.FactOperations{}))
	assert.EqualValues(t, 0, env.count(t, &dimensiondomain.Factory{}))
	assert.EqualValues(t, 0, env.count(t, &dimensiondomain.Period{}))
}

func TestLoadOperationsInvalidMeasure(t *testing.T) {
	env := newTestEnv(t)

	record := operationsRecord("A1")
	record["revenue"] = "not-a-number"

	_, err := env.loader.LoadOperations(context.Background(), nil, []loaderdomain.Record{record})
	assert.ErrorIs(t, err, loaderdomain.ErrMeasureInvalid)
}

func TestLoadOperationsNullMeasures(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.loader.LoadOperations(context.Background(), nil, []loaderdomain.Record{
		{
			"factory_code": "A1",
			"month":        "2",
			"year":         "2024",
		},
	})
	require.NoError(t, err)

	var fact loaderdomain.FactOperations
	require.NoError(t, env.db.First(&fact).Error)
	assert.Nil(t, fact.Revenue)
	assert.Nil(t, fact.Cost)
	assert.Nil(t, fact.OutputQty)
	assert.Nil(t, fact.DowntimeHours)
}

func TestLoadOperationsMissingPeriod(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.loader.LoadOperations(ctx, nil, []loaderdomain.Record{
		{"factory_code": "A1", "year": "2024"},
	})
	assert.ErrorIs(t, err, loaderdomain.ErrMonthInvalid)

	_, err = env.loader.LoadOperations(ctx, nil, []loaderdomain.Record{
		{"factory_code": "A1", "month": "1"},
	})
	assert.ErrorIs(t, err, loaderdomain.ErrYearInvalid)
}

func kpiRecord(employee string) loaderdomain.Record {
	return loaderdomain.Record{
		"employee_id": employee,
		"month":       "3",
		"year":        "2024",
		"metric_code": "OEE",
		"value":       "0.87",
		"target":      "0.9",
	}
}

func TestLoadKPIEmployeeAliasConverges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.aliases.Seed(ctx, aliasdomain.SeedRequest{
		EmployeeAliases: map[string]string{"E-099": "99"},
	}))

	result, err := env.loader.LoadKPI(ctx, nil, []loaderdomain.Record{
		kpiRecord("E-099"),
		kpiRecord("099"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.RowsLoaded)

	assert.EqualValues(t, 1, env.count(t, &dimensiondomain.Employee{}))
	assert.EqualValues(t, 2, env.count(t, &loaderdomain.FactKPI{}))

	var row dimensiondomain.Employee
	require.NoError(t, env.db.First(&row).Error)
	assert.Equal(t, "99", row.EmployeeID)
}

func TestLoadKPIMetricCodeRequired(t *testing.T) {
	env := newTestEnv(t)

	record := kpiRecord("42")
	delete(record, "metric_code")

	_, err := env.loader.LoadKPI(context.Background(), nil, []loaderdomain.Record{record})
	assert.ErrorIs(t, err, loaderdomain.ErrMetricCodeRequired)
}

func TestLoadKPIFactoryLink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	linked := kpiRecord("7")
	linked["factory_code"] = "A1"

	_, err := env.loader.LoadKPI(ctx, nil, []loaderdomain.Record{linked})
	require.NoError(t, err)

	var withFactory dimensiondomain.Employee
	require.NoError(t, env.db.First(&withFactory, "employee_id = ?", "7").Error)
	require.NotNil(t, withFactory.FactoryKey)

	var factory dimensiondomain.Factory
	require.NoError(t, env.db.First(&factory, "factory_code = ?", "A1").Error)
	assert.Equal(t, factory.FactoryKey, *withFactory.FactoryKey)

	_, err = env.loader.LoadKPI(ctx, nil, []loaderdomain.Record{kpiRecord("8")})
	require.NoError(t, err)

	var withoutFactory dimensiondomain.Employee
	require.NoError(t, env.db.First(&withoutFactory, "employee_id = ?", "8").Error)
	assert.Nil(t, withoutFactory.FactoryKey)
}

func TestLoadKPIRecordErrorNamesPosition(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.loader.LoadKPI(context.Background(), nil, []loaderdomain.Record{
		kpiRecord("42"),
		{"employee_id": "", "month": "3", "year": "2024", "metric_code": "OEE"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, dimensiondomain.ErrEmployeeIDRequired)
	assert.Contains(t, err.Error(), "record 2")
}

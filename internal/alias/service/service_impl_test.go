package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	aliasdomain "github.com/smallbiznis/granary/internal/alias/domain"
	"github.com/smallbiznis/granary/internal/alias/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (aliasdomain.Service, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&aliasdomain.FactoryCodeAlias{},
		&aliasdomain.EmployeeIDAlias{},
	))

	svc := New(Params{
		DB:   conn,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
	return svc, conn
}

func TestSeedAndLoad(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	err := svc.Seed(ctx, aliasdomain.SeedRequest{
		FactoryAliases: map[string]string{
			" tpe-1 ": "tpe1",
			"TAIPEI1": "TPE1",
		},
		EmployeeAliases: map[string]string{
			" E-099 ": " 99 ",
		},
	})
	require.NoError(t, err)

	snap, err := svc.Load(ctx, nil)
	require.NoError(t, err)

	// Factory mappings are uppercased on both sides so lookups after casefold
	// hit them.
	assert.Equal(t, "TPE1", snap.Factory["TPE-1"])
	assert.Equal(t, "TPE1", snap.Factory["TAIPEI1"])

	// Employee mappings are trimmed but case is preserved.
	assert.Equal(t, "99", snap.Employee["E-099"])
}

func TestSeedSkipsEmptyEntries(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	err := svc.Seed(ctx, aliasdomain.SeedRequest{
		FactoryAliases: map[string]string{
			"":     "TPE1",
			"  ":   "TPE1",
			"TPE2": "",
		},
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, conn.Model(&aliasdomain.FactoryCodeAlias{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSeedEmptyRequestIsNoop(t *testing.T) {
	svc, _ := newTestService(t)

	assert.NoError(t, svc.Seed(context.Background(), aliasdomain.SeedRequest{}))
}

func TestSeedUpsertsExistingAlias(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx, aliasdomain.SeedRequest{
		FactoryAliases: map[string]string{"TPE-1": "TPE1"},
	}))
	require.NoError(t, svc.Seed(ctx, aliasdomain.SeedRequest{
		FactoryAliases: map[string]string{"TPE-1": "TPE9"},
	}))

	snap, err := svc.Load(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "TPE9", snap.Factory["TPE-1"])
}

func TestLoadEmptyTables(t *testing.T) {
	svc, _ := newTestService(t)

	snap, err := svc.Load(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, snap.Factory)
	assert.Empty(t, snap.Employee)
}

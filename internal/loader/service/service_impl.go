package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	aliasdomain "github.com/smallbiznis/granary/internal/alias/domain"
	dimensiondomain "github.com/smallbiznis/granary/internal/dimension/domain"
	loaderdomain "github.com/smallbiznis/granary/internal/loader/domain"
	"github.com/smallbiznis/granary/internal/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       loaderdomain.Repository
	Aliases    aliasdomain.Service
	Dimensions dimensiondomain.Service
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       loaderdomain.Repository
	aliases    aliasdomain.Service
	dimensions dimensiondomain.Service
}

func New(p Params) loaderdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("loader.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		aliases:    p.Aliases,
		dimensions: p.Dimensions,
	}
}

func (s *Service) LoadOperations(ctx context.Context, conn *gorm.DB, records []loaderdomain.Record) (loaderdomain.BatchResult, error) {
	result := loaderdomain.BatchResult{}

	err := s.inTransaction(ctx, conn, func(tx *gorm.DB) error {
		// One alias snapshot per batch; a rename landing mid-batch is
		// observed on the next batch.
		snap, err := s.aliases.Load(ctx, tx)
		if err != nil {
			return err
		}

		for i, record := range records {
			if err := s.loadOperationsRecord(ctx, tx, snap, record); err != nil {
				return fmt.Errorf("record %d: %w", i+1, err)
			}
			result.RowsLoaded++
		}
		return nil
	})
	if err != nil {
		metrics.LoadBatches.WithLabelValues("operations", "failed").Inc()
		return loaderdomain.BatchResult{}, err
	}

	metrics.LoadBatches.WithLabelValues("operations", "ok").Inc()
	metrics.FactRowsLoaded.WithLabelValues("operations").Add(float64(result.RowsLoaded))
	s.log.Info("operations batch loaded", zap.Int("rows", result.RowsLoaded))
	return result, nil
}

func (s *Service) LoadKPI(ctx context.Context, conn *gorm.DB, records []loaderdomain.Record) (loaderdomain.BatchResult, error) {
	result := loaderdomain.BatchResult{}

	err := s.inTransaction(ctx, conn, func(tx *gorm.DB) error {
		snap, err := s.aliases.Load(ctx, tx)
		if err != nil {
			return err
		}

		for i, record := range records {
			if err := s.loadKPIRecord(ctx, tx, snap, record); err != nil {
				return fmt.Errorf("record %d: %w", i+1, err)
			}
			result.RowsLoaded++
		}
		return nil
	})
	if err != nil {
		metrics.LoadBatches.WithLabelValues("kpi", "failed").Inc()
		return loaderdomain.BatchResult{}, err
	}

	metrics.LoadBatches.WithLabelValues("kpi", "ok").Inc()
	metrics.FactRowsLoaded.WithLabelValues("kpi").Add(float64(result.RowsLoaded))
	s.log.Info("kpi batch loaded", zap.Int("rows", result.RowsLoaded))
	return result, nil
}

// inTransaction runs fn inside conn when the caller already holds a
// transaction (gorm nests it as a savepoint), otherwise inside a fresh one.
func (s *Service) inTransaction(ctx context.Context, conn *gorm.DB, fn func(tx *gorm.DB) error) error {
	if conn == nil {
		conn = s.db
	}
	return conn.WithContext(ctx).Transaction(fn)
}

func (s *Service) loadOperationsRecord(ctx context.Context, tx *gorm.DB, snap aliasdomain.Snapshot, record loaderdomain.Record) error {
	factoryKey, err := s.dimensions.GetOrCreateFactory(ctx, tx, snap, dimensiondomain.FactoryRequest{
		FactoryCode:    record.StringVal("factory_code"),
		Region:         record.StringPtr("region"),
		LineOfBusiness: record.StringPtr("line_of_business"),
	})
	if err != nil {
		return err
	}

	periodKey, err := s.resolvePeriod(ctx, tx, record)
	if err != nil {
		return err
	}

	measures := make(map[string]*float64, 4)
	for _, field := range []string{"revenue", "cost", "output_qty", "downtime_hours"} {
		value, ok := record.FloatPtr(field)
		if !ok {
			return fmt.Errorf("%w: %s", loaderdomain.ErrMeasureInvalid, field)
		}
		measures[field] = value
	}

	return s.repo.InsertOperations(ctx, tx, &loaderdomain.FactOperations{
		ID:            s.genID.Generate(),
		FactoryKey:    factoryKey,
		PeriodKey:     periodKey,
		Revenue:       measures["revenue"],
		Cost:          measures["cost"],
		OutputQty:     measures["output_qty"],
		DowntimeHours: measures["downtime_hours"],
		CreatedAt:     time.Now().UTC(),
	})
}

func (s *Service) loadKPIRecord(ctx context.Context, tx *gorm.DB, snap aliasdomain.Snapshot, record loaderdomain.Record) error {
	var factoryKey *snowflake.ID
	if record.Has("factory_code") {
		key, err := s.dimensions.GetOrCreateFactory(ctx, tx, snap, dimensiondomain.FactoryRequest{
			FactoryCode:    record.StringVal("factory_code"),
			Region:         record.StringPtr("region"),
			LineOfBusiness: record.StringPtr("line_of_business"),
		})
		if err != nil {
			return err
		}
		factoryKey = &key
	}

	employeeKey, err := s.dimensions.GetOrCreateEmployee(ctx, tx, snap, dimensiondomain.EmployeeRequest{
		EmployeeID: record.StringVal("employee_id"),
		FactoryKey: factoryKey,
		Dept:       record.StringPtr("dept"),
		Title:      record.StringPtr("title"),
		ManagerID:  record.StringPtr("manager_id"),
	})
	if err != nil {
		return err
	}

	periodKey, err := s.resolvePeriod(ctx, tx, record)
	if err != nil {
		return err
	}

	metricCode := record.StringVal("metric_code")
	if metricCode == "" {
		return loaderdomain.ErrMetricCodeRequired
	}

	value, ok := record.FloatPtr("value")
	if !ok {
		return fmt.Errorf("%w: value", loaderdomain.ErrMeasureInvalid)
	}
	target, ok := record.FloatPtr("target")
	if !ok {
		return fmt.Errorf("%w: target", loaderdomain.ErrMeasureInvalid)
	}

	return s.repo.InsertKPI(ctx, tx, &loaderdomain.FactKPI{
		ID:          s.genID.Generate(),
		EmployeeKey: employeeKey,
		PeriodKey:   periodKey,
		MetricCode:  metricCode,
		Value:       value,
		Target:      target,
		CreatedAt:   time.Now().UTC(),
	})
}

func (s *Service) resolvePeriod(ctx context.Context, tx *gorm.DB, record loaderdomain.Record) (snowflake.ID, error) {
	month, ok := record.IntVal("month")
	if !ok {
		return 0, loaderdomain.ErrMonthInvalid
	}
	year, ok := record.IntVal("year")
	if !ok {
		return 0, loaderdomain.ErrYearInvalid
	}
	return s.dimensions.GetOrCreatePeriod(ctx, tx, month, year)
}

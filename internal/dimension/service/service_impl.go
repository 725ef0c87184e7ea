package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	aliasdomain "github.com/smallbiznis/granary/internal/alias/domain"
	dimensiondomain "github.com/smallbiznis/granary/internal/dimension/domain"
	"github.com/smallbiznis/granary/internal/metrics"
	"github.com/smallbiznis/granary/internal/normalize"
	"github.com/smallbiznis/granary/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  dimensiondomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  dimensiondomain.Repository
}

func New(p Params) dimensiondomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("dimension.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) GetOrCreateFactory(ctx context.Context, conn *gorm.DB, snap aliasdomain.Snapshot, req dimensiondomain.FactoryRequest) (snowflake.ID, error) {
	if conn == nil {
		conn = s.db
	}

	code := normalize.FactoryCode(req.FactoryCode, snap.Factory)
	if code == "" {
		return 0, dimensiondomain.ErrFactoryCodeRequired
	}

	existing, err := s.repo.FindFactoryByCode(ctx, conn, code)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		// First write wins; attributes supplied here are not applied.
		return existing.FactoryKey, nil
	}

	row := &dimensiondomain.Factory{
		FactoryKey:     s.genID.Generate(),
		FactoryCode:    code,
		Region:         req.Region,
		LineOfBusiness: req.LineOfBusiness,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.insert(conn, func(tx *gorm.DB) error {
		return s.repo.InsertFactory(ctx, tx, row)
	}); err != nil {
		return s.recoverRace(err, "factory", func() (snowflake.ID, error) {
			winner, ferr := s.repo.FindFactoryByCode(ctx, conn, code)
			if ferr != nil {
				return 0, ferr
			}
			if winner == nil {
				return 0, err
			}
			return winner.FactoryKey, nil
		})
	}

	metrics.DimensionRowsCreated.WithLabelValues("factory").Inc()
	return row.FactoryKey, nil
}

func (s *Service) GetOrCreateEmployee(ctx context.Context, conn *gorm.DB, snap aliasdomain.Snapshot, req dimensiondomain.EmployeeRequest) (snowflake.ID, error) {
	if conn == nil {
		conn = s.db
	}

	id := normalize.EmployeeID(req.EmployeeID, snap.Employee)
	if id == "" {
		return 0, dimensiondomain.ErrEmployeeIDRequired
	}

	existing, err := s.repo.FindEmployeeByID(ctx, conn, id)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.EmployeeKey, nil
	}

	row := &dimensiondomain.Employee{
		EmployeeKey: s.genID.Generate(),
		EmployeeID:  id,
		FactoryKey:  req.FactoryKey,
		Dept:        req.Dept,
		Title:       req.Title,
		ManagerID:   req.ManagerID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.insert(conn, func(tx *gorm.DB) error {
		return s.repo.InsertEmployee(ctx, tx, row)
	}); err != nil {
		return s.recoverRace(err, "employee", func() (snowflake.ID, error) {
			winner, ferr := s.repo.FindEmployeeByID(ctx, conn, id)
			if ferr != nil {
				return 0, ferr
			}
			if winner == nil {
				return 0, err
			}
			return winner.EmployeeKey, nil
		})
	}

	metrics.DimensionRowsCreated.WithLabelValues("employee").Inc()
	return row.EmployeeKey, nil
}

func (s *Service) GetOrCreatePeriod(ctx context.Context, conn *gorm.DB, month, year int) (snowflake.ID, error) {
	if conn == nil {
		conn = s.db
	}

	if month < 1 || month > 12 {
		return 0, dimensiondomain.ErrMonthOutOfRange
	}
	if year < 1 {
		return 0, dimensiondomain.ErrYearRequired
	}

	existing, err := s.repo.FindPeriod(ctx, conn, year, month)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.PeriodKey, nil
	}

	row := &dimensiondomain.Period{
		PeriodKey: s.genID.Generate(),
		Month:     month,
		Quarter:   (month-1)/3 + 1,
		Year:      year,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.insert(conn, func(tx *gorm.DB) error {
		return s.repo.InsertPeriod(ctx, tx, row)
	}); err != nil {
		return s.recoverRace(err, "period", func() (snowflake.ID, error) {
			winner, ferr := s.repo.FindPeriod(ctx, conn, year, month)
			if ferr != nil {
				return 0, ferr
			}
			if winner == nil {
				return 0, err
			}
			return winner.PeriodKey, nil
		})
	}

	metrics.DimensionRowsCreated.WithLabelValues("period").Inc()
	return row.PeriodKey, nil
}

// insert runs an attempted dimension insert in its own nested transaction.
// On postgres a failed INSERT aborts the enclosing transaction, so the
// attempt needs a savepoint for the re-fetch to run afterwards.
func (s *Service) insert(conn *gorm.DB, fn func(tx *gorm.DB) error) error {
	return conn.Transaction(fn)
}

// recoverRace turns a unique-constraint violation on insert into a re-fetch
// of the row the concurrent writer won with. Any other error propagates.
func (s *Service) recoverRace(insertErr error, dimension string, refetch func() (snowflake.ID, error)) (snowflake.ID, error) {
	if !db.IsDuplicateKeyErr(insertErr) {
		return 0, insertErr
	}

	s.log.Debug("dimension insert lost race, re-fetching", zap.String("dimension", dimension))
	metrics.DimensionInsertConflicts.WithLabelValues(dimension).Inc()
	return refetch()
}

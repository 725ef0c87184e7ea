package service

import (
	"context"
	"strings"

	aliasdomain "github.com/smallbiznis/granary/internal/alias/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo aliasdomain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo aliasdomain.Repository
}

func New(p Params) aliasdomain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("alias.service"),
		repo: p.Repo,
	}
}

func (s *Service) Load(ctx context.Context, db *gorm.DB) (aliasdomain.Snapshot, error) {
	if db == nil {
		db = s.db
	}

	factoryRows, err := s.repo.ListFactoryAliases(ctx, db)
	if err != nil {
		return aliasdomain.Snapshot{}, err
	}
	employeeRows, err := s.repo.ListEmployeeAliases(ctx, db)
	if err != nil {
		return aliasdomain.Snapshot{}, err
	}

	snapshot := aliasdomain.Snapshot{
		Factory:  make(map[string]string, len(factoryRows)),
		Employee: make(map[string]string, len(employeeRows)),
	}
	for _, row := range factoryRows {
		snapshot.Factory[row.Alias] = row.FactoryCode
	}
	for _, row := range employeeRows {
		snapshot.Employee[row.Alias] = row.EmployeeID
	}

	return snapshot, nil
}

func (s *Service) Seed(ctx context.Context, req aliasdomain.SeedRequest) error {
	factoryRows := make([]aliasdomain.FactoryCodeAlias, 0, len(req.FactoryAliases))
	for alias, code := range req.FactoryAliases {
		alias = strings.ToUpper(strings.TrimSpace(alias))
		code = strings.ToUpper(strings.TrimSpace(code))
		if alias == "" || code == "" {
			continue
		}
		factoryRows = append(factoryRows, aliasdomain.FactoryCodeAlias{
			Alias:       alias,
			FactoryCode: code,
		})
	}

	employeeRows := make([]aliasdomain.EmployeeIDAlias, 0, len(req.EmployeeAliases))
	for alias, id := range req.EmployeeAliases {
		alias = strings.TrimSpace(alias)
		id = strings.TrimSpace(id)
		if alias == "" || id == "" {
			continue
		}
		employeeRows = append(employeeRows, aliasdomain.EmployeeIDAlias{
			Alias:      alias,
			EmployeeID: id,
		})
	}

	if len(factoryRows) == 0 && len(employeeRows) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpsertFactoryAliases(ctx, tx, factoryRows); err != nil {
			return err
		}
		if err := s.repo.UpsertEmployeeAliases(ctx, tx, employeeRows); err != nil {
			return err
		}
		s.log.Info("alias mappings seeded",
			zap.Int("factory", len(factoryRows)),
			zap.Int("employee", len(employeeRows)),
		)
		return nil
	})
}

package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	aliasdomain "github.com/smallbiznis/granary/internal/alias/domain"
	dimensiondomain "github.com/smallbiznis/granary/internal/dimension/domain"
	ingestdomain "github.com/smallbiznis/granary/internal/ingest/domain"
	loaderdomain "github.com/smallbiznis/granary/internal/loader/domain"
	"gorm.io/gorm"
)

// RunMigrations applies the embedded warehouse DDL against postgres. Every
// statement is create-if-not-exists, so invoking it on each process start is
// safe regardless of existing schema state.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// AutoMigrate initializes the schema through gorm for the non-postgres
// dialects (sqlite dev mode, mysql).
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&dimensiondomain.Factory{},
		&dimensiondomain.Employee{},
		&dimensiondomain.Period{},
		&loaderdomain.FactOperations{},
		&loaderdomain.FactKPI{},
		&aliasdomain.FactoryCodeAlias{},
		&aliasdomain.EmployeeIDAlias{},
		&ingestdomain.ImportFile{},
		&ingestdomain.ImportRow{},
	)
}

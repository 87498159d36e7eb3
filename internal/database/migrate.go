package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/chefbotpro/backend/internal/model"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations brings the plan tables up to date. Postgres uses the versioned SQL
// migrations; sqlite is only used locally and in tests and is auto-migrated.
func RunMigrations(db *gorm.DB, log *zap.Logger) error {
	if db.Dialector.Name() != "postgres" {
		if err := db.AutoMigrate(&model.PlanRecord{}); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", db.Dialector.Name(), err)
		}
		return nil
	}

	m, err := newMigrate(db)
	if err != nil {
		return err
	}
	defer closeMigrate(m, log)

	from, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to run", zap.Uint("version", from))
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	to, _, _ := m.Version()
	log.Info("migrations applied", zap.Uint("from_version", from), zap.Uint("to_version", to))
	return nil
}

// RollbackMigration reverts the most recent postgres migration
func RollbackMigration(db *gorm.DB, log *zap.Logger) error {
	if db.Dialector.Name() != "postgres" {
		return fmt.Errorf("rollback is not supported for %s", db.Dialector.Name())
	}
	m, err := newMigrate(db)
	if err != nil {
		return err
	}
	defer closeMigrate(m, log)

	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}
	log.Info("migration rolled back")
	return nil
}

// newMigrate opens a dedicated connection for the migrator, since closing the
// migrator closes its database handle
func newMigrate(db *gorm.DB) (*migrate.Migrate, error) {
	dialector, ok := db.Dialector.(*postgres.Dialector)
	if !ok || dialector.Config == nil {
		return nil, errors.New("database is not a postgres connection")
	}
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}
	sqlDB, err := sql.Open("pgx", dialector.DSN)
	if err != nil {
		return nil, fmt.Errorf("error opening migration connection: %w", err)
	}
	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{MigrationsTable: "schema_migrations"})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

func closeMigrate(m *migrate.Migrate, log *zap.Logger) {
	if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
		log.Warn("failed to close migrator", zap.NamedError("source", sourceErr), zap.NamedError("database", dbErr))
	}
}

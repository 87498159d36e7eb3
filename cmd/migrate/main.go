package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/chefbotpro/backend/config"
	"github.com/chefbotpro/backend/internal/database"
	"github.com/chefbotpro/backend/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Database.DSN == "" {
		return fmt.Errorf("database.dsn is not set")
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if *rollback {
		return database.RollbackMigration(db, log)
	}
	if err := database.RunMigrations(db, log); err != nil {
		return err
	}
	log.Info("database is up to date", zap.String("driver", cfg.Database.Driver))
	return nil
}

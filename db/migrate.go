package db

import (
	"fmt"
	"go-booking-api/config"
	"go-booking-api/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies any pending schema migrations at startup.
func RunMigrations(cfg *config.Config, migrationPath string) error {
	mig, err := migrate.New(migrationPath, URL(cfg))
	if err != nil {
		return fmt.Errorf("cannot create migrate instance: %w", err)
	}
	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrate up: %w", err)
	}
	logger.Log.Info("Database migrations applied")
	return nil
}

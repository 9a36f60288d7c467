package app

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"flock/internal/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies every pending schema migration.
func Migrate(db *sql.DB, log logger.Logger) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to apply")
			return nil
		}
		return fmt.Errorf("migration up: %w", err)
	}

	version, _, _ := m.Version()
	log.Info("migrations applied", logger.Int("version", int(version)))
	return nil
}

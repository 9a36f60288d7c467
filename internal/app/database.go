package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/newrelic/go-agent/v3/integrations/nrpq" // Registers "nrpostgres" driver
	"github.com/newrelic/go-agent/v3/newrelic"

	"flock/internal/config"
)

// DSN builds the lib/pq connection string for cfg.
func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
}

// NewDatabase opens the PostgreSQL pool. When nrApp is set the New Relic
// instrumented driver is used so queries show up as datastore segments.
func NewDatabase(ctx context.Context, cfg config.DatabaseConfig, nrApp *newrelic.Application) (*sql.DB, error) {
	driver := "postgres"
	if nrApp != nil {
		driver = "nrpostgres"
	}

	db, err := sql.Open(driver, DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database with %s: %w", driver, err)
	}

	// Request handlers hold a connection for at most one short transaction;
	// accept/reject/withdraw keep a row lock for its duration.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

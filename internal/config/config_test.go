package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "SERVER_PORT", "DB_AUTO_MIGRATE", "SWEEP_INTERVAL", "REDIS_DB", "RABBITMQ_URL", "S3_BUCKET"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Env != "development" || cfg.IsProduction() {
		t.Errorf("Expected development env, got %q", cfg.Env)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if !cfg.Database.AutoMigrate {
		t.Error("Expected auto-migrate on by default")
	}
	if cfg.Sweeper.Interval != 5*time.Minute {
		t.Errorf("Expected 5m sweep interval, got %v", cfg.Sweeper.Interval)
	}
	if cfg.Broker.URL != "" || cfg.Storage.Bucket != "" {
		t.Error("Expected broker and S3 to be disabled by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("JWT_TTL", "not-a-duration")

	cfg := Load()

	if !cfg.IsProduction() {
		t.Error("Expected production")
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Database.AutoMigrate {
		t.Error("Expected auto-migrate off")
	}
	if cfg.Sweeper.Interval != 30*time.Second {
		t.Errorf("Expected 30s, got %v", cfg.Sweeper.Interval)
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("Expected redis db 3, got %d", cfg.Redis.DB)
	}
	if cfg.Auth.TokenTTL != 7*24*time.Hour {
		t.Errorf("Expected invalid TTL to fall back to the default, got %v", cfg.Auth.TokenTTL)
	}
}

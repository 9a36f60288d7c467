package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Config holds all configuration for the application.
type Config struct {
	Env      string
	LogLevel string
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Broker   BrokerConfig
	Sweeper  SweeperConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// AuthConfig holds token signing and verification-flow settings.
type AuthConfig struct {
	JWTSecret               string
	TokenTTL                time.Duration
	ExposeVerificationCodes bool
}

// StorageConfig selects where uploaded profile photos are kept.
// S3 is used when Bucket is set, the local directory otherwise.
type StorageConfig struct {
	LocalDir  string
	BaseURL   string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// BrokerConfig holds RabbitMQ configuration. An empty URL disables publishing.
type BrokerConfig struct {
	URL      string
	Exchange string
}

// SweeperConfig controls the background auto-complete sweep.
type SweeperConfig struct {
	Interval time.Duration
	LockTTL  time.Duration
}

// Load loads configuration from environment variables.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "flock"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: getBoolEnv("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "flock-backend"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Auth: AuthConfig{
			JWTSecret:               getEnv("JWT_SECRET", ""),
			TokenTTL:                getDurationEnv("JWT_TTL", 7*24*time.Hour),
			ExposeVerificationCodes: getBoolEnv("EXPOSE_VERIFICATION_CODES", false),
		},
		Storage: StorageConfig{
			LocalDir:  getEnv("UPLOAD_DIR", "./uploads"),
			BaseURL:   getEnv("BASE_URL", "http://localhost:8080"),
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("AWS_REGION", ""),
			AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		Broker: BrokerConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "notifications"),
		},
		Sweeper: SweeperConfig{
			Interval: getDurationEnv("SWEEP_INTERVAL", 5*time.Minute),
			LockTTL:  getDurationEnv("SWEEP_LOCK_TTL", time.Minute),
		},
	}
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := cast.ToIntE(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := cast.ToBoolE(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := cast.ToDurationE(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

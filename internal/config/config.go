package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config is populated from environment variables at startup.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	MinIO    MinIOConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	SecretKey   string // signs the session cookie token
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// SessionConfig holds the session lifecycle policy knobs.
// Idle timeout is per-user (clamped), absolute lifetime is server-wide.
type SessionConfig struct {
	DefaultIdleMinutes   int // applied when the user picks nothing
	MaxIdleMinutes       int // clamp ceiling for user-chosen idle minutes
	AbsoluteLifetimeHrs  int // hard cap since login, regardless of activity
	RefreshDebounceSecs  int // minimum gap between last_active rewrites
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Studio API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			SecretKey:   getEnv("SECRET_KEY", "change-me-in-production"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "studio"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "studio"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			DefaultIdleMinutes:  getEnvInt("SESSION_TIMEOUT_DEFAULT_MIN", 60),
			MaxIdleMinutes:      getEnvInt("SESSION_TIMEOUT_MAX_MIN", 720),
			AbsoluteLifetimeHrs: getEnvInt("SESSION_ABSOLUTE_LIFETIME_HRS", 24),
			RefreshDebounceSecs: getEnvInt("SESSION_UPDATE_GRACE_SEC", 30),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "studio"),
			UseSSL:    false,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations that cannot run safely.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.App.SecretKey == "change-me-in-production" {
			return fmt.Errorf("SECRET_KEY must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	if c.Session.MaxIdleMinutes < 1 {
		return fmt.Errorf("SESSION_TIMEOUT_MAX_MIN must be >= 1")
	}
	if c.Session.AbsoluteLifetimeHrs < 1 {
		return fmt.Errorf("SESSION_ABSOLUTE_LIFETIME_HRS must be >= 1")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

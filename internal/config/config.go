package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv                string
	DBPath                string
	DBDriver              string
	RedisAddr             string
	CacheTTL              time.Duration
	GRPCPort              int
	GRPCReflectionEnabled bool
	HTTPPort              int
	JWTSecret             string
	Location              *time.Location
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	loc, err := time.LoadLocation(getEnv("STATS_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATS_TIMEZONE: %w", err)
	}

	return &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		DBPath:                getEnv("DB_PATH", "./data/database.db"),
		DBDriver:              getEnv("DB_DRIVER", "sqlite3"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		CacheTTL:              getDuration("CACHE_TTL", 10*time.Minute),
		GRPCPort:              getInt("GRPC_PORT", 50051),
		GRPCReflectionEnabled: getBool("GRPC_REFLECTION_ENABLED", false),
		HTTPPort:              getInt("HTTP_PORT", 8080),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		Location:              loc,
	}, nil
}

// CacheEnabled reports whether a Redis address was configured.
func (c *Config) CacheEnabled() bool { return c.RedisAddr != "" }

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

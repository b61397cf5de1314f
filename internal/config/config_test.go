package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "DB_PATH", "DB_DRIVER", "REDIS_ADDR", "CACHE_TTL", "GRPC_PORT",
		"GRPC_REFLECTION_ENABLED", "HTTP_PORT", "JWT_SECRET", "STATS_TIMEZONE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadFromEnv()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, "./data/database.db", cfg.DBPath)
	assert.False(t, cfg.CacheEnabled())
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.False(t, cfg.GRPCReflectionEnabled)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("GRPC_PORT", "6000")
	t.Setenv("GRPC_REFLECTION_ENABLED", "true")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STATS_TIMEZONE", "Europe/Berlin")

	cfg, err := LoadFromEnv()

	require.NoError(t, err)
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 6000, cfg.GRPCPort)
	assert.True(t, cfg.GRPCReflectionEnabled)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "Europe/Berlin", cfg.Location.String())

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestLoadFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("GRPC_PORT", "not-a-port")
	t.Setenv("CACHE_TTL", "-5m")
	t.Setenv("GRPC_REFLECTION_ENABLED", "maybe")
	t.Setenv("STATS_TIMEZONE", "")

	cfg, err := LoadFromEnv()

	require.NoError(t, err)
	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.GRPCReflectionEnabled)
}

func TestLoadFromEnv_UnknownTimezone(t *testing.T) {
	t.Setenv("STATS_TIMEZONE", "Mars/Olympus_Mons")

	_, err := LoadFromEnv()

	assert.Error(t, err)
}

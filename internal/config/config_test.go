package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"ENVIRONMENT", "HTTP_PORT", "REQUIRE_AUTH", "POSTGRES_HOST",
		"REDIS_HOST", "GOOGLE_MAPS_API_KEY", "RATE_LIMIT_RPS",
	} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.False(t, cfg.HTTP.RequireAuth)
	assert.Empty(t, cfg.Postgres.Host, "expected memory store by default")
	assert.Empty(t, cfg.Redis.Addr())
	assert.Equal(t, 2.0, cfg.RateLimit.RequestsPerSecond)
}

func TestLoadReadsEnvOverrides(t *testing.T) {
	os.Setenv("HTTP_PORT", "9090")
	os.Setenv("REQUIRE_AUTH", "true")
	os.Setenv("REDIS_HOST", "redis.internal")
	os.Setenv("REDIS_PORT", "6380")
	os.Setenv("HTTP_READ_TIMEOUT", "3s")
	defer func() {
		os.Unsetenv("HTTP_PORT")
		os.Unsetenv("REQUIRE_AUTH")
		os.Unsetenv("REDIS_HOST")
		os.Unsetenv("REDIS_PORT")
		os.Unsetenv("HTTP_READ_TIMEOUT")
	}()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.True(t, cfg.HTTP.RequireAuth)
	assert.Equal(t, "redis.internal:6380", cfg.Redis.Addr())
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
}

func TestRedisAddrEmptyWithoutHost(t *testing.T) {
	r := RedisConfig{Port: 6379}
	assert.Empty(t, r.Addr())
}

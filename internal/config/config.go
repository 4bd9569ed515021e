// Package config loads the itinerary service's configuration from
// environment variables, covering the planner, cache, oracle, and
// auth settings.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything cmd/server needs to wire up a running
// instance.
type Config struct {
	Environment string
	HTTP        HTTPConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	Oracle      OracleConfig
	RateLimit   RateLimitConfig
	Auth        AuthConfig
	Encryption  EncryptionConfig
}

// HTTPConfig controls the listener.
type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	RequireAuth  bool
}

// PostgresConfig holds the location catalog's database settings. An
// empty Host means the service runs against the in-memory store
// instead of Postgres.
type PostgresConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds the shared plan cache and rate limiter's Redis
// settings. An empty Addr means both run purely on their in-process
// fallbacks.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the Redis address in host:port form, or "" when Redis
// is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + strconv.Itoa(r.Port)
}

// OracleConfig holds the routing and weather oracle credentials. An
// empty key leaves the corresponding oracle nil: without a routing
// oracle the planner attaches no travel legs, and without a weather
// oracle days carry no forecast.
type OracleConfig struct {
	GoogleMapsAPIKey       string
	GoogleMapsMaxFailures  int
	GoogleMapsResetTimeout time.Duration
	WeatherAPIKey          string
	WeatherBaseURL         string
	WeatherTimeout         time.Duration
}

// RateLimitConfig controls the per-client token bucket and, when
// Redis is configured, the shared fixed-window counter.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	SharedLimit       int64
	SharedWindow      time.Duration
}

// AuthConfig holds the bearer-token issuer settings used when
// HTTPConfig.RequireAuth is enabled.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	Expiry    time.Duration
}

// EncryptionConfig holds the passphrase the at-rest cache encryptor
// derives its key from. An empty Key leaves cached entries unsealed.
type EncryptionConfig struct {
	Key string
}

// Load reads configuration from environment variables with sensible
// defaults for local development.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		HTTP: HTTPConfig{
			Host:         getEnv("HTTP_HOST", "0.0.0.0"),
			Port:         getEnv("HTTP_PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			RequireAuth:  getEnvAsBool("REQUIRE_AUTH", false),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", ""),
			Port:            getEnvAsInt("POSTGRES_PORT", 5432),
			User:            getEnv("POSTGRES_USER", "tabiplan"),
			Password:        getEnv("POSTGRES_PASSWORD", ""),
			DBName:          getEnv("POSTGRES_DB", "tabiplan"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("POSTGRES_CONN_MAX_LIFETIME", time.Hour),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Oracle: OracleConfig{
			GoogleMapsAPIKey:       getEnv("GOOGLE_MAPS_API_KEY", ""),
			GoogleMapsMaxFailures:  getEnvAsInt("GOOGLE_MAPS_MAX_FAILURES", 5),
			GoogleMapsResetTimeout: getEnvAsDuration("GOOGLE_MAPS_RESET_TIMEOUT", 30*time.Second),
			WeatherAPIKey:          getEnv("WEATHER_API_KEY", ""),
			WeatherBaseURL:         getEnv("WEATHER_BASE_URL", ""),
			WeatherTimeout:         getEnvAsDuration("WEATHER_TIMEOUT", 5*time.Second),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 2),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 10),
			SharedLimit:       int64(getEnvAsInt("RATE_LIMIT_SHARED_LIMIT", 120)),
			SharedWindow:      getEnvAsDuration("RATE_LIMIT_SHARED_WINDOW", time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),
			Issuer:    getEnv("JWT_ISSUER", "tabiplan"),
			Expiry:    getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),
		},
		Encryption: EncryptionConfig{
			Key: getEnv("CACHE_ENCRYPTION_KEY", ""),
		},
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

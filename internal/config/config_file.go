package config

import (
	"time"

	"github.com/spf13/viper"
)

// LoadFromFile reads configuration from a .env-style file at path.
// An environment variable overrides the file's value for the same key,
// and keys set in neither place keep their defaults. Use Load instead when no config file is expected, such
// as in a container that only receives environment variables.
func LoadFromFile(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	return &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		HTTP: HTTPConfig{
			Host:         viper.GetString("HTTP_HOST"),
			Port:         viper.GetString("HTTP_PORT"),
			ReadTimeout:  viper.GetDuration("HTTP_READ_TIMEOUT"),
			WriteTimeout: viper.GetDuration("HTTP_WRITE_TIMEOUT"),
			IdleTimeout:  viper.GetDuration("HTTP_IDLE_TIMEOUT"),
			RequireAuth:  viper.GetBool("REQUIRE_AUTH"),
		},
		Postgres: PostgresConfig{
			Host:            viper.GetString("POSTGRES_HOST"),
			Port:            viper.GetInt("POSTGRES_PORT"),
			User:            viper.GetString("POSTGRES_USER"),
			Password:        viper.GetString("POSTGRES_PASSWORD"),
			DBName:          viper.GetString("POSTGRES_DB"),
			SSLMode:         viper.GetString("POSTGRES_SSLMODE"),
			MaxOpenConns:    viper.GetInt("POSTGRES_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("POSTGRES_MAX_IDLE_CONNS"),
			ConnMaxLifetime: viper.GetDuration("POSTGRES_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Oracle: OracleConfig{
			GoogleMapsAPIKey:       viper.GetString("GOOGLE_MAPS_API_KEY"),
			GoogleMapsMaxFailures:  viper.GetInt("GOOGLE_MAPS_MAX_FAILURES"),
			GoogleMapsResetTimeout: viper.GetDuration("GOOGLE_MAPS_RESET_TIMEOUT"),
			WeatherAPIKey:          viper.GetString("WEATHER_API_KEY"),
			WeatherBaseURL:         viper.GetString("WEATHER_BASE_URL"),
			WeatherTimeout:         viper.GetDuration("WEATHER_TIMEOUT"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             viper.GetInt("RATE_LIMIT_BURST"),
			SharedLimit:       int64(viper.GetInt("RATE_LIMIT_SHARED_LIMIT")),
			SharedWindow:      viper.GetDuration("RATE_LIMIT_SHARED_WINDOW"),
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("JWT_SECRET"),
			Issuer:    viper.GetString("JWT_ISSUER"),
			Expiry:    viper.GetDuration("JWT_EXPIRY"),
		},
		Encryption: EncryptionConfig{
			Key: viper.GetString("CACHE_ENCRYPTION_KEY"),
		},
	}, nil
}

func setDefaults() {
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("HTTP_HOST", "0.0.0.0")
	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("HTTP_READ_TIMEOUT", 15*time.Second)
	viper.SetDefault("HTTP_WRITE_TIMEOUT", 30*time.Second)
	viper.SetDefault("HTTP_IDLE_TIMEOUT", 60*time.Second)
	viper.SetDefault("REQUIRE_AUTH", false)

	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "tabiplan")
	viper.SetDefault("POSTGRES_DB", "tabiplan")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("POSTGRES_MAX_OPEN_CONNS", 25)
	viper.SetDefault("POSTGRES_MAX_IDLE_CONNS", 5)
	viper.SetDefault("POSTGRES_CONN_MAX_LIFETIME", time.Hour)

	viper.SetDefault("REDIS_PORT", 6379)
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("GOOGLE_MAPS_MAX_FAILURES", 5)
	viper.SetDefault("GOOGLE_MAPS_RESET_TIMEOUT", 30*time.Second)
	viper.SetDefault("WEATHER_TIMEOUT", 5*time.Second)

	viper.SetDefault("RATE_LIMIT_RPS", 2)
	viper.SetDefault("RATE_LIMIT_BURST", 10)
	viper.SetDefault("RATE_LIMIT_SHARED_LIMIT", 120)
	viper.SetDefault("RATE_LIMIT_SHARED_WINDOW", time.Minute)

	viper.SetDefault("JWT_SECRET", "change-me-in-production")
	viper.SetDefault("JWT_ISSUER", "tabiplan")
	viper.SetDefault("JWT_EXPIRY", 24*time.Hour)
}

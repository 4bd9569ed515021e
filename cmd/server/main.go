package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tabiplan/backend/internal/config"
	"github.com/tabiplan/backend/internal/dbpool"
	"github.com/tabiplan/backend/internal/httpapi"
	"github.com/tabiplan/backend/internal/metrics"
	"github.com/tabiplan/backend/internal/observability"
	"github.com/tabiplan/backend/internal/oracle"
	"github.com/tabiplan/backend/internal/oracle/routing"
	"github.com/tabiplan/backend/internal/oracle/weather"
	"github.com/tabiplan/backend/internal/plancache"
	"github.com/tabiplan/backend/internal/planner"
	"github.com/tabiplan/backend/internal/ratelimit"
	"github.com/tabiplan/backend/internal/security"
	"github.com/tabiplan/backend/internal/store"
	"github.com/tabiplan/backend/internal/store/memory"
	"github.com/tabiplan/backend/internal/store/postgres"
	pkgauth "github.com/tabiplan/backend/pkg/auth"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	cleanup, err := observability.InitTracing("tabiplan", cfg.Environment)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer cleanup()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	metricsCollector := metrics.NewCollector()
	metricsCollector.Start(15 * time.Second)
	defer metricsCollector.Stop()

	locationStore, closeStore := buildLocationStore(cfg, logger)
	defer closeStore()

	routingOracle := buildRoutingOracle(cfg, metricsCollector, logger)
	weatherOracle := buildWeatherOracle(cfg)

	redisClient := buildRedisClient(cfg, logger)

	cache := plancache.New(redisClient, buildEncryptor(cfg, logger))
	resolver := plancache.NewResolver(cache)

	p := planner.New(locationStore, routingOracle, weatherOracle, metricsCollector)

	rateGuard := buildRateGuard(cfg, redisClient)
	authManager := buildAuthManager(cfg)

	srv := httpapi.New(httpapi.Config{
		Host:         cfg.HTTP.Host,
		Port:         cfg.HTTP.Port,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		RequireAuth:  cfg.HTTP.RequireAuth,
	}, p, resolver, locationStore, rateGuard, authManager, metricsCollector, logger)

	go func() {
		if err := srv.Start(); err != nil {
			logger.WithError(err).Fatal("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		logger.WithError(err).Fatal("server forced to shutdown")
	}

	logger.Info("server exited")
}

// buildLocationStore opens a Postgres-backed catalog when
// cfg.Postgres.Host is set, otherwise falls back to a fixture-seeded
// in-memory store. The returned close func is always safe to defer.
func buildLocationStore(cfg *config.Config, logger *logrus.Logger) (store.LocationStore, func()) {
	if cfg.Postgres.Host == "" {
		logger.Warn("POSTGRES_HOST not set; running on the in-memory location store")
		return memory.New(nil), func() {}
	}

	pool, err := dbpool.NewPool(dbpool.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	return postgres.New(pool), func() { pool.Close() }
}

// buildRoutingOracle wires the Google Maps distance matrix client when
// an API key is configured; otherwise the planner runs with no
// routing oracle and every leg goes unestimated.
func buildRoutingOracle(cfg *config.Config, collector *metrics.Collector, logger *logrus.Logger) oracle.RoutingOracle {
	if cfg.Oracle.GoogleMapsAPIKey == "" {
		logger.Warn("GOOGLE_MAPS_API_KEY not set; travel legs will be unestimated")
		return nil
	}
	g, err := routing.NewGoogleMaps(cfg.Oracle.GoogleMapsAPIKey, cfg.Oracle.GoogleMapsMaxFailures, cfg.Oracle.GoogleMapsResetTimeout, collector)
	if err != nil {
		logger.WithError(err).Fatal("failed to build routing oracle")
	}
	return g
}

// buildWeatherOracle wires the weather HTTP client when an API key is
// configured; otherwise day intros carry no weather.
func buildWeatherOracle(cfg *config.Config) oracle.WeatherOracle {
	if cfg.Oracle.WeatherAPIKey == "" {
		return nil
	}
	return weather.NewHTTPClient(cfg.Oracle.WeatherBaseURL, cfg.Oracle.WeatherAPIKey, cfg.Oracle.WeatherTimeout)
}

// buildRedisClient connects the shared Redis tier used by the plan
// cache and rate limiter, or returns nil when Redis isn't configured.
func buildRedisClient(cfg *config.Config, logger *logrus.Logger) *redis.Client {
	addr := cfg.Redis.Addr()
	if addr == "" {
		logger.Warn("REDIS_HOST not set; plan cache and rate limiting run in-process only")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("failed to reach redis; falling back to in-process tiers")
		return nil
	}
	return client
}

// buildEncryptor derives the at-rest cache encryptor from
// CACHE_ENCRYPTION_KEY, or returns nil to leave cached payloads
// unsealed.
func buildEncryptor(cfg *config.Config, logger *logrus.Logger) *security.Encryptor {
	if cfg.Encryption.Key == "" {
		logger.Warn("CACHE_ENCRYPTION_KEY not set; cached itineraries are stored unsealed")
		return nil
	}
	enc, err := security.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		logger.WithError(err).Fatal("failed to build cache encryptor")
	}
	return enc
}

// buildRateGuard assembles the rate limiter: a shared Redis counter
// when Redis is reachable, backstopped by a per-process token bucket.
func buildRateGuard(cfg *config.Config, redisClient *redis.Client) *ratelimit.Guard {
	local := ratelimit.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	if redisClient == nil {
		return ratelimit.NewGuard(nil, local)
	}
	shared := ratelimit.NewCounterLimiter(redisClient, cfg.RateLimit.SharedLimit, cfg.RateLimit.SharedWindow)
	return ratelimit.NewGuard(shared, local)
}

// buildAuthManager wires bearer-token issuance when RequireAuth is
// enabled; otherwise the server runs with no auth layer at all.
func buildAuthManager(cfg *config.Config) *pkgauth.Manager {
	if !cfg.HTTP.RequireAuth {
		return nil
	}
	return pkgauth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Expiry)
}

// Package httpapi exposes the itinerary generator over HTTP. It owns
// request plumbing only — rate limiting, body limits, auth, deadlines,
// response shaping — and delegates all
// generation logic to internal/planner.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	pkgauth "github.com/tabiplan/backend/pkg/auth"

	"github.com/tabiplan/backend/internal/metrics"
	"github.com/tabiplan/backend/internal/plancache"
	"github.com/tabiplan/backend/internal/planner"
	"github.com/tabiplan/backend/internal/ratelimit"
	"github.com/tabiplan/backend/internal/store"
)

// Config controls the listener and per-request timeouts.
type Config struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// RequireAuth, when true, rejects requests without a valid bearer
	// token. Optional: most deployments can leave this unset.
	RequireAuth bool
}

// DefaultConfig mirrors internal/api/server.go's GetDefaultConfig.
func DefaultConfig() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         "8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Server wires the planner, cache, rate limiter, and optional auth
// manager into a runnable http.Server.
type Server struct {
	httpServer *http.Server
	planner    *planner.Planner
	resolver   *plancache.Resolver
	store      store.LocationStore
	rateGuard  *ratelimit.Guard
	auth       *pkgauth.Manager
	metrics    *metrics.Collector
	config     Config
	log        *logrus.Logger
}

// New builds a Server. auth and metricsCollector may both be nil to
// run without bearer auth and without metrics collection.
func New(cfg Config, p *planner.Planner, resolver *plancache.Resolver, locationStore store.LocationStore, rateGuard *ratelimit.Guard, authManager *pkgauth.Manager, metricsCollector *metrics.Collector, log *logrus.Logger) *Server {
	s := &Server{
		planner:   p,
		resolver:  resolver,
		store:     locationStore,
		rateGuard: rateGuard,
		auth:      authManager,
		metrics:   metricsCollector,
		config:    cfg,
		log:       log,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Start runs the HTTP server until it errors or is shut down.
func (s *Server) Start() error {
	s.log.WithField("addr", s.httpServer.Addr).Info("starting http server")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down, waiting for in-flight
// requests to finish or ctx to expire.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("stopping http server")
	return s.httpServer.Shutdown(ctx)
}

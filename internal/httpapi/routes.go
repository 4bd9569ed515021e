package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/tabiplan/backend/internal/planner"
)

// routes builds the full middleware-wrapped handler.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/itinerary/plan", s.handlePlan)
	mux.HandleFunc("/itinerary/availability", s.handleAvailability)
	mux.HandleFunc("/itinerary/replacements", s.handleReplacements)
	mux.HandleFunc("/locations", s.handleListLocations)
	mux.HandleFunc("/locations/", s.handleGetLocation)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/metrics", s.handleMetrics)

	chain := []Middleware{
		SecurityHeaders(),
		CORS(),
		RequestID(),
		Recovery(s.log),
		Logging(s.log),
		Metrics(s.metrics),
		RequestSizeLimit(),
		Timeout(planner.GenerationDeadline + 5*time.Second),
	}
	if s.rateGuard != nil {
		chain = append(chain, RateLimit(s.rateGuard, s.metrics))
	}
	if s.config.RequireAuth {
		chain = append(chain, s.RequireAuth())
	}

	return Chain(mux, chain...)
}

// healthChecker is implemented by store backends that have a live
// connection worth pinging; a store without it (the in-memory one) is
// skipped. The cache is always checked through the resolver, and a
// Redis-less cache reports "ok".
type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if hc, ok := s.store.(healthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			checks["store"] = err.Error()
			healthy = false
		} else {
			checks["store"] = "ok"
		}
	}
	if s.resolver != nil {
		if err := s.resolver.HealthCheck(ctx); err != nil {
			checks["cache"] = err.Error()
			healthy = false
		} else {
			checks["cache"] = "ok"
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]interface{}{
		"status": map[bool]string{true: "ok", false: "degraded"}[healthy],
		"checks": checks,
	})
}

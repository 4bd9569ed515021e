package routing

import (
	"context"
	"fmt"
	"time"

	gmaps "googlemaps.github.io/maps"

	"github.com/tabiplan/backend/internal/metrics"
	"github.com/tabiplan/backend/internal/oracle"
)

// GoogleMaps is the production RoutingOracle, backed by the Distance
// Matrix API. It is wrapped in a circuit breaker and falls back to a
// Haversine estimate on any failure, open breaker, or timeout.
type GoogleMaps struct {
	client   *gmaps.Client
	breaker  *oracle.Breaker
	fallback *Fallback
	metrics  *metrics.Collector
}

// NewGoogleMaps constructs a GoogleMaps routing oracle. maxFailures
// and resetTime configure the circuit breaker guarding the upstream
// client. collector may be nil to skip fallback-rate recording.
func NewGoogleMaps(apiKey string, maxFailures int, resetTime time.Duration, collector *metrics.Collector) (*GoogleMaps, error) {
	c, err := gmaps.NewClient(gmaps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleMaps{
		client:   c,
		breaker:  oracle.NewBreaker(maxFailures, resetTime),
		fallback: NewFallback(),
		metrics:  collector,
	}, nil
}

// Estimate implements oracle.RoutingOracle.
func (g *GoogleMaps) Estimate(ctx context.Context, origin, destination oracle.LatLng, mode oracle.TravelMode) (oracle.RouteEstimate, error) {
	if !g.breaker.Allow() {
		return g.recordFallback(ctx, origin, destination, mode)
	}

	callCtx, cancel := context.WithTimeout(ctx, oracle.PerCallTimeout)
	defer cancel()

	req := &gmaps.DistanceMatrixRequest{
		Origins:      []string{fmt.Sprintf("%f,%f", origin.Lat, origin.Lng)},
		Destinations: []string{fmt.Sprintf("%f,%f", destination.Lat, destination.Lng)},
		Mode:         toGoogleMode(mode),
	}

	resp, err := g.client.DistanceMatrix(callCtx, req)
	if err != nil || len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		g.breaker.RecordFailure()
		return g.recordFallback(ctx, origin, destination, mode)
	}

	elem := resp.Rows[0].Elements[0]
	if elem.Status != "OK" {
		g.breaker.RecordFailure()
		return g.recordFallback(ctx, origin, destination, mode)
	}

	g.breaker.RecordSuccess()
	return oracle.RouteEstimate{
		DurationSeconds: elem.Duration.Seconds(),
		DistanceMeters:  float64(elem.Distance.Meters),
	}, nil
}

func (g *GoogleMaps) recordFallback(ctx context.Context, origin, destination oracle.LatLng, mode oracle.TravelMode) (oracle.RouteEstimate, error) {
	if g.metrics != nil {
		g.metrics.RecordRoutingFallback()
	}
	return g.fallback.Estimate(ctx, origin, destination, mode)
}

func toGoogleMode(mode oracle.TravelMode) gmaps.Mode {
	switch mode {
	case oracle.ModeWalking:
		return gmaps.TravelModeWalking
	case oracle.ModeCycling:
		return gmaps.TravelModeBicycling
	case oracle.ModeTransit:
		return gmaps.TravelModeTransit
	default:
		return gmaps.TravelModeDriving
	}
}

// Package fake provides deterministic RoutingOracle and WeatherOracle
// implementations for planner tests, so tests never depend on live
// external providers.
package fake

import (
	"context"

	"github.com/tabiplan/backend/internal/geo"
	"github.com/tabiplan/backend/internal/oracle"
)

// Routing is a deterministic RoutingOracle that computes estimates
// from Haversine distance, exactly like the production fallback, so
// tests don't need network access but still exercise realistic
// numbers.
type Routing struct {
	// FailFor, when non-nil, reports failure for any call matching it,
	// exercising the planner's fallback path in tests.
	FailFor func(origin, destination oracle.LatLng) bool
}

// Estimate implements oracle.RoutingOracle.
func (r *Routing) Estimate(_ context.Context, origin, destination oracle.LatLng, mode oracle.TravelMode) (oracle.RouteEstimate, error) {
	if r.FailFor != nil && r.FailFor(origin, destination) {
		return oracle.RouteEstimate{}, oracle.ErrOracleUnavailable
	}
	distanceMeters := geo.HaversineMeters(
		geo.Point{Lat: origin.Lat, Lng: origin.Lng},
		geo.Point{Lat: destination.Lat, Lng: destination.Lng},
	)
	speedKmh := geo.AverageSpeedKmh(string(mode))
	hours := (distanceMeters / 1000.0) / speedKmh
	return oracle.RouteEstimate{
		DurationSeconds: hours * 3600,
		DistanceMeters:  distanceMeters,
	}, nil
}

// Weather is a deterministic WeatherOracle returning a fixed forecast
// unless configured to fail.
type Weather struct {
	Fixed   oracle.Forecast
	FailAll bool
}

// Forecast implements oracle.WeatherOracle.
func (w *Weather) Forecast(_ context.Context, _ string, _ string) (oracle.Forecast, error) {
	if w.FailAll {
		return oracle.Forecast{}, oracle.ErrOracleUnavailable
	}
	if w.Fixed.Condition == "" {
		return oracle.Forecast{Condition: "sunny", PrecipitationPercent: 10, HighC: 22, LowC: 14}, nil
	}
	return w.Fixed, nil
}

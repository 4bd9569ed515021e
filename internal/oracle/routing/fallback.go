// Package routing provides RoutingOracle implementations: a
// production client backed by the Google Maps Distance Matrix API,
// and a Haversine-based fallback used when that call fails or times
// out.
package routing

import (
	"context"

	"github.com/tabiplan/backend/internal/geo"
	"github.com/tabiplan/backend/internal/oracle"
)

// Fallback estimates travel time from great-circle distance and a
// mode-specific average speed. It never fails.
type Fallback struct{}

// NewFallback constructs a Fallback routing oracle.
func NewFallback() *Fallback {
	return &Fallback{}
}

// Estimate implements oracle.RoutingOracle.
func (f *Fallback) Estimate(_ context.Context, origin, destination oracle.LatLng, mode oracle.TravelMode) (oracle.RouteEstimate, error) {
	distanceMeters := geo.HaversineMeters(
		geo.Point{Lat: origin.Lat, Lng: origin.Lng},
		geo.Point{Lat: destination.Lat, Lng: destination.Lng},
	)
	speedKmh := geo.AverageSpeedKmh(string(mode))
	hours := (distanceMeters / 1000.0) / speedKmh
	return oracle.RouteEstimate{
		DurationSeconds: hours * 3600,
		DistanceMeters:  distanceMeters,
		Fallback:        true,
	}, nil
}

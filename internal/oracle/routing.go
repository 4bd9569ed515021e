// Package oracle declares the routing and weather capabilities the
// planner depends on (component oracle boundary of §4.6). Both are
// pure request/response capabilities injected into the planner; the
// planner never holds a handle to a concrete provider.
package oracle

import (
	"context"
	"errors"
	"time"
)

// ErrOracleUnavailable marks a non-fatal oracle failure. Routing
// callers fall back to a Haversine estimate; weather callers omit the
// forecast instead of failing the request.
var ErrOracleUnavailable = errors.New("oracle unavailable")

// TravelMode mirrors models.TravelMode to keep this package free of a
// models import; the two are kept in lockstep by the planner's glue.
type TravelMode string

const (
	ModeDriving TravelMode = "driving"
	ModeWalking TravelMode = "walking"
	ModeTransit TravelMode = "transit"
	ModeCycling TravelMode = "cycling"
)

// LatLng is a bare coordinate pair, independent of models.Coordinates
// so this package has no upward dependency on the domain model.
type LatLng struct {
	Lat float64
	Lng float64
}

// RouteEstimate is the routing oracle's response shape.
type RouteEstimate struct {
	DurationSeconds float64
	DistanceMeters  float64
	Fallback        bool // true when computed locally instead of fetched
}

// RoutingOracle estimates travel time/distance between two points for
// a given mode. Implementations must respect ctx's deadline; the
// planner applies a 30s per-call budget within its own 25s overall
// generation deadline.
type RoutingOracle interface {
	Estimate(ctx context.Context, origin, destination LatLng, mode TravelMode) (RouteEstimate, error)
}

// PerCallTimeout is the upstream budget for a single routing call,
// independent of the planner's overall generation deadline.
const PerCallTimeout = 30 * time.Second

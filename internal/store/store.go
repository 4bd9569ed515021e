// Package store defines the location catalog adapter (component L):
// the only boundary through which the planner reads location data.
// Results are a read-only snapshot; implementations must never mutate
// a Location they hand back to a caller.
package store

import (
	"context"
	"errors"

	"github.com/tabiplan/backend/internal/models"
)

// ErrStoreUnavailable surfaces a transient backend failure. The
// planner treats this as fatal for the whole request: no partial plan
// is returned.
var ErrStoreUnavailable = errors.New("location store unavailable")

// LocationStore is the read-only adapter the planner depends on.
type LocationStore interface {
	// ListByFilter pages the catalog. Ordering is rating desc NULLS
	// LAST, reviewCount desc NULLS LAST, id asc. At most filter.Limit
	// records are returned.
	ListByFilter(ctx context.Context, filter models.LocationFilter) ([]*models.Location, error)

	// BulkByIDs looks up a batch of ids. Missing ids are omitted, not
	// an error. The returned map's key order carries no meaning.
	BulkByIDs(ctx context.Context, ids []string) (map[string]*models.Location, error)

	// Nearby filters clients of radiusKm by Haversine distance from
	// (lat, lng), applying the same filter semantics as ListByFilter.
	Nearby(ctx context.Context, lat, lng, radiusKm float64, filter models.LocationFilter, limit int) ([]*models.Location, error)
}

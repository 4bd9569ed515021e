// Package memory provides an in-memory LocationStore used by tests
// and by deployments too small to warrant Postgres. It implements the
// same filter/ordering/pagination contract as the Postgres adapter.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tabiplan/backend/internal/geo"
	"github.com/tabiplan/backend/internal/models"
)

// Store is a fixture-seeded, read-only LocationStore.
type Store struct {
	mu        sync.RWMutex
	locations map[string]*models.Location
}

// New creates a Store seeded with the given locations, keyed by id.
// Later entries with a duplicate id overwrite earlier ones.
func New(seed []*models.Location) *Store {
	s := &Store{locations: make(map[string]*models.Location, len(seed))}
	for _, l := range seed {
		cp := *l
		s.locations[l.ID] = &cp
	}
	return s
}

func matches(l *models.Location, f models.LocationFilter) bool {
	if f.Region != "" && l.Region != f.Region {
		return false
	}
	if f.City != "" && !strings.EqualFold(l.City, f.City) {
		return false
	}
	if f.Category != "" && l.Category != f.Category {
		return false
	}
	if f.ExcludeIDs != nil && f.ExcludeIDs[l.ID] {
		return false
	}
	if f.RadiusKmFrom != nil {
		if l.Coordinates == nil {
			return false
		}
		d := geo.HaversineMeters(
			geo.Point{Lat: f.RadiusKmFrom.Lat, Lng: f.RadiusKmFrom.Lng},
			geo.Point{Lat: l.Coordinates.Lat, Lng: l.Coordinates.Lng},
		)
		if d/1000.0 > f.RadiusKm {
			return false
		}
	}
	if f.OpenNow {
		at := time.Now()
		if f.At != "" {
			if parsed, err := time.Parse(time.RFC3339, f.At); err == nil {
				at = parsed
			}
		}
		if !l.IsOpenAt(at) {
			return false
		}
	}
	return true
}

func orderedCopy(in map[string]*models.Location, f models.LocationFilter) []*models.Location {
	out := make([]*models.Location, 0, len(in))
	for _, l := range in {
		if matches(l, f) {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		ar, br := ratingOrNeg1(a), ratingOrNeg1(b)
		if ar != br {
			return ar > br
		}
		ac, bc := reviewsOrNeg1(a), reviewsOrNeg1(b)
		if ac != bc {
			return ac > bc
		}
		return a.ID < b.ID
	})
	return out
}

func ratingOrNeg1(l *models.Location) float64 {
	if l.Rating == nil {
		return -1
	}
	return *l.Rating
}

func reviewsOrNeg1(l *models.Location) int {
	if l.ReviewCount == nil {
		return -1
	}
	return *l.ReviewCount
}

func paginate(items []*models.Location, limit, offset int) []*models.Location {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// ListByFilter implements store.LocationStore.
func (s *Store) ListByFilter(ctx context.Context, filter models.LocationFilter) ([]*models.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := orderedCopy(s.locations, filter)
	return paginate(items, filter.Limit, filter.Offset), nil
}

// BulkByIDs implements store.LocationStore.
func (s *Store) BulkByIDs(ctx context.Context, ids []string) (map[string]*models.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*models.Location, len(ids))
	for _, id := range ids {
		if l, ok := s.locations[id]; ok {
			cp := *l
			out[id] = &cp
		}
	}
	return out, nil
}

// Nearby implements store.LocationStore.
func (s *Store) Nearby(ctx context.Context, lat, lng, radiusKm float64, filter models.LocationFilter, limit int) ([]*models.Location, error) {
	filter.RadiusKmFrom = &models.Coordinates{Lat: lat, Lng: lng}
	filter.RadiusKm = radiusKm
	filter.Limit = limit
	return s.ListByFilter(ctx, filter)
}

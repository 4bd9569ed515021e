// Package postgres is the production store.LocationStore, backed by
// the location catalog table.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/tabiplan/backend/internal/dbpool"
	"github.com/tabiplan/backend/internal/geo"
	"github.com/tabiplan/backend/internal/models"
	"github.com/tabiplan/backend/internal/store"
)

// Store is a Postgres-backed store.LocationStore.
type Store struct {
	db *dbpool.Pool
}

// New wraps an open connection pool as a location store.
func New(db *dbpool.Pool) *Store {
	return &Store{db: db}
}

// HealthCheck verifies the underlying connection pool can reach the
// database.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.HealthCheck(ctx)
}

const baseSelect = `
	SELECT id, name, category, city, prefecture, region,
	       lat, lng, rating, review_count, operating_hours,
	       price_level, tags, recommended_visit_minutes, place_id
	FROM locations`

// ListByFilter implements store.LocationStore. Ordering matches the
// contract memory.Store enforces: rating desc NULLS LAST, review_count
// desc NULLS LAST, id asc.
func (s *Store) ListByFilter(ctx context.Context, filter models.LocationFilter) ([]*models.Location, error) {
	query := baseSelect + ` WHERE 1=1`
	var args []interface{}
	argCount := 0

	if filter.Region != "" {
		argCount++
		query += fmt.Sprintf(" AND region = $%d", argCount)
		args = append(args, filter.Region)
	}
	if filter.City != "" {
		argCount++
		query += fmt.Sprintf(" AND lower(city) = lower($%d)", argCount)
		args = append(args, filter.City)
	}
	if filter.Category != "" {
		argCount++
		query += fmt.Sprintf(" AND category = $%d", argCount)
		args = append(args, string(filter.Category))
	}
	if len(filter.ExcludeIDs) > 0 {
		ids := make([]string, 0, len(filter.ExcludeIDs))
		for id := range filter.ExcludeIDs {
			ids = append(ids, id)
		}
		argCount++
		query += fmt.Sprintf(" AND NOT (id = ANY($%d))", argCount)
		args = append(args, pq.Array(ids))
	}
	if filter.RadiusKmFrom != nil && filter.RadiusKm > 0 {
		// Cheap bounding-box pre-filter in SQL; the exact Haversine
		// cut happens in Go once rows are loaded.
		degPad := filter.RadiusKm / 111.0
		argCount++
		query += fmt.Sprintf(" AND lat BETWEEN $%d AND $%d", argCount, argCount+1)
		args = append(args, filter.RadiusKmFrom.Lat-degPad, filter.RadiusKmFrom.Lat+degPad)
		argCount++
		argCount++
		query += fmt.Sprintf(" AND lng BETWEEN $%d AND $%d", argCount, argCount+1)
		args = append(args, filter.RadiusKmFrom.Lng-degPad, filter.RadiusKmFrom.Lng+degPad)
		argCount++
	}

	query += " ORDER BY rating DESC NULLS LAST, review_count DESC NULLS LAST, id ASC"

	if filter.Limit > 0 {
		argCount++
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		argCount++
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filter.Offset)
	}

	locations, err := s.queryLocations(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	out := locations[:0]
	for _, l := range locations {
		if filter.RadiusKmFrom != nil && filter.RadiusKm > 0 {
			if l.Coordinates == nil {
				continue
			}
			d := geo.HaversineMeters(
				geo.Point{Lat: filter.RadiusKmFrom.Lat, Lng: filter.RadiusKmFrom.Lng},
				geo.Point{Lat: l.Coordinates.Lat, Lng: l.Coordinates.Lng},
			)
			if d/1000.0 > filter.RadiusKm {
				continue
			}
		}
		if filter.OpenNow {
			at := time.Now()
			if filter.At != "" {
				if parsed, err := time.Parse(time.RFC3339, filter.At); err == nil {
					at = parsed
				}
			}
			if !l.IsOpenAt(at) {
				continue
			}
		}
		out = append(out, l)
	}
	return out, nil
}

// BulkByIDs implements store.LocationStore.
func (s *Store) BulkByIDs(ctx context.Context, ids []string) (map[string]*models.Location, error) {
	if len(ids) == 0 {
		return map[string]*models.Location{}, nil
	}
	query := baseSelect + ` WHERE id = ANY($1)`
	locations, err := s.queryLocations(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	out := make(map[string]*models.Location, len(locations))
	for _, l := range locations {
		out[l.ID] = l
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

func (s *Store) queryLocations(ctx context.Context, query string, args ...interface{}) ([]*models.Location, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", store.ErrStoreUnavailable)
	}
	defer rows.Close()

	var out []*models.Location
	for rows.Next() {
		l := &models.Location{}
		var lat, lng sql.NullFloat64
		var hoursJSON sql.NullString
		var tags []string

		err := rows.Scan(
			&l.ID, &l.Name, &l.Category, &l.City, &l.Prefecture, &l.Region,
			&lat, &lng, &l.Rating, &l.ReviewCount, &hoursJSON,
			&l.PriceLevel, pq.Array(&tags), &l.RecommendedVisitMinutes, &l.PlaceID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}

		if lat.Valid && lng.Valid {
			l.Coordinates = &models.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
		}
		l.Tags = tags

		if hoursJSON.Valid && hoursJSON.String != "" {
			var hours models.OperatingHours
			if err := json.Unmarshal([]byte(hoursJSON.String), &hours); err == nil {
				l.OperatingHours = &hours
			}
		}

		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate locations: %w", err)
	}
	return out, nil
}

// Package planner wires the geo, store, scoring, and oracle packages
// into the itinerary generation pipeline: city sequencing → candidate
// retrieval and scoring-driven day packing → travel-leg and weather
// enrichment → post-generation validation.
package planner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tabiplan/backend/internal/geo"
	"github.com/tabiplan/backend/internal/metrics"
	"github.com/tabiplan/backend/internal/models"
	"github.com/tabiplan/backend/internal/oracle"
	"github.com/tabiplan/backend/internal/store"
)

// GenerationDeadline is the hard deadline the HTTP entrypoint applies
// to a single generation call.
const GenerationDeadline = 25 * time.Second

const (
	candidatePoolSize  = 60
	thinPoolThreshold  = 15
	secondaryRingKm    = 20.0
)

// Planner holds only interfaces for its dependencies — a store and
// two oracles — never a concrete provider.
type Planner struct {
	Store   store.LocationStore
	Router  oracle.RoutingOracle
	Weather oracle.WeatherOracle
	Metrics *metrics.Collector
}

// New constructs a Planner. A nil metrics collector disables fallback
// rate recording.
func New(locationStore store.LocationStore, router oracle.RoutingOracle, weather oracle.WeatherOracle, metricsCollector *metrics.Collector) *Planner {
	return &Planner{Store: locationStore, Router: router, Weather: weather, Metrics: metricsCollector}
}

// Result is everything a successful generation produces.
type Result struct {
	Trip      models.Trip
	Itinerary models.Itinerary
	DayIntros []models.DayIntro
}

// Generate runs the full pipeline for one request. Errors are
// classified via this package's Kind taxonomy so the HTTP layer can
// map them to the right status code.
func (p *Planner) Generate(ctx context.Context, req models.TripRequest, savedIDs []string) (*Result, error) {
	cities, err := resolveCities(req)
	if err != nil {
		return nil, Wrap(KindBadRequest, err)
	}

	seq := sequenceCities(cities, req.Duration)

	savedSet := make(map[string]bool, len(savedIDs))
	for _, id := range savedIDs {
		savedSet[id] = true
	}

	placed := map[string]bool{}
	days := make([]models.Day, len(seq.Days))
	locationCache := map[string]*models.Location{}

	for i, city := range seq.Days {
		select {
		case <-ctx.Done():
			return nil, Wrap(KindTimeout, fmt.Errorf("%w: %w", ErrTimeout, ctx.Err()))
		default:
		}

		pool, err := p.fetchCandidatePool(ctx, city)
		if err != nil {
			return nil, Wrap(KindStoreUnavailable, err)
		}
		for _, loc := range pool {
			locationCache[loc.ID] = loc
		}
		days[i] = packDay(i, city, pool, &req, placed, savedSet)
	}

	if p.Router != nil {
		attachTravelLegs(ctx, days, locationCache, p.Router)
	}

	itinerary := models.Itinerary{Days: days}
	dayIntros := enrichDays(ctx, itinerary.Days, seq, req.StartDate, p.Weather, p.Metrics)

	validation := Validate(itinerary, locationCache)

	tripID := req.TripID
	if tripID == "" {
		tripID = uuid.NewString()
	}

	trip := models.Trip{ID: tripID, Itinerary: itinerary, Validation: validation}

	return &Result{Trip: trip, Itinerary: itinerary, DayIntros: dayIntros}, nil
}

// resolveCities turns a request's cities or regions into a concrete,
// normalized city list. At least one of req.Cities or req.Regions must
// resolve to something, or generation cannot proceed.
func resolveCities(req models.TripRequest) ([]string, error) {
	if len(req.Cities) > 0 {
		out := make([]string, 0, len(req.Cities))
		for _, c := range req.Cities {
			out = append(out, geo.NormalizeCity(c, ""))
		}
		return out, nil
	}

	if len(req.Regions) > 0 {
		seen := map[string]bool{}
		var out []string
		for _, r := range req.Regions {
			for city, region := range geo.CityRegion {
				if string(region) == r && !seen[city] {
					seen[city] = true
					out = append(out, city)
				}
			}
		}
		sort.Strings(out)
		if len(out) == 0 {
			return nil, fmt.Errorf("no known cities for regions %v", req.Regions)
		}
		return out, nil
	}

	return nil, fmt.Errorf("trip request must specify at least one city or region")
}

// fetchCandidatePool pages the store for a city's candidates,
// widening to a secondary ring around the city center when the direct
// pool is thin.
func (p *Planner) fetchCandidatePool(ctx context.Context, city string) ([]*models.Location, error) {
	pool, err := p.Store.ListByFilter(ctx, models.LocationFilter{City: city, Limit: candidatePoolSize})
	if err != nil {
		return nil, err
	}
	if len(pool) >= thinPoolThreshold {
		return pool, nil
	}

	lat, lng, ok := geo.CityCenter(city)
	if !ok {
		return pool, nil
	}

	ring, err := p.Store.Nearby(ctx, lat, lng, secondaryRingKm, models.LocationFilter{}, candidatePoolSize)
	if err != nil {
		// A thin primary pool is recoverable on its own; a failed
		// secondary ring lookup should not fail the whole request.
		return pool, nil
	}

	seen := make(map[string]bool, len(pool))
	for _, l := range pool {
		seen[l.ID] = true
	}
	for _, l := range ring {
		if !seen[l.ID] {
			pool = append(pool, l)
			seen[l.ID] = true
		}
	}
	return pool, nil
}

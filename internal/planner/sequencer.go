package planner

import (
	"context"
	"sort"

	"github.com/tabiplan/backend/internal/geo"
	"github.com/tabiplan/backend/internal/models"
	"github.com/tabiplan/backend/internal/oracle"
)

// CitySequence is the resolved per-day city assignment: len(Days)
// equals the trip's duration, and Days[i] names the city the day's
// candidates are drawn from.
type CitySequence struct {
	Days []string
	// Transitions[i] is true when day i starts in a different city
	// than day i-1.
	Transitions []bool
}

// sequenceCities orders the selected cities across duration days,
// grouping same-region cities contiguously and allocating days
// proportional to city count.
func sequenceCities(cities []string, duration int) CitySequence {
	ordered := groupByRegionContiguous(cities)
	allocation := allocateDays(ordered, duration)

	days := make([]string, 0, duration)
	for i, city := range ordered {
		for j := 0; j < allocation[i]; j++ {
			days = append(days, city)
		}
	}
	// allocateDays already sums to duration; padding or trimming
	// against the last city is a guard so the day count always matches
	// duration exactly.
	for len(days) < duration {
		days = append(days, ordered[len(ordered)-1])
	}
	if len(days) > duration {
		days = days[:duration]
	}

	transitions := make([]bool, len(days))
	for i := 1; i < len(days); i++ {
		transitions[i] = days[i] != days[i-1]
	}

	return CitySequence{Days: days, Transitions: transitions}
}

// groupByRegionContiguous orders cities so that cities sharing a
// region are adjacent, visiting one region fully before moving to the
// next. Region order follows first-occurrence in the input to keep
// the result deterministic for a fixed request.
func groupByRegionContiguous(cities []string) []string {
	type regionGroup struct {
		region geo.Region
		cities []string
	}
	var groups []regionGroup
	index := map[geo.Region]int{}

	for _, city := range cities {
		region := geo.RegionOfCity(city)
		idx, ok := index[region]
		if !ok {
			idx = len(groups)
			index[region] = idx
			groups = append(groups, regionGroup{region: region})
		}
		groups[idx].cities = append(groups[idx].cities, city)
	}

	out := make([]string, 0, len(cities))
	for _, g := range groups {
		out = append(out, g.cities...)
	}
	return out
}

// allocateDays splits duration days evenly across cities, giving the
// remainder days one each to the earliest cities in input order, so
// every city gets at least one day when duration >= len(cities).
func allocateDays(cities []string, duration int) []int {
	n := len(cities)
	if n == 0 {
		return nil
	}
	if n >= duration {
		// More (or equal) cities than days: earliest cities get a day
		// each until days run out.
		alloc := make([]int, n)
		remaining := duration
		for i := 0; i < n && remaining > 0; i++ {
			alloc[i] = 1
			remaining--
		}
		return alloc
	}

	base := duration / n
	remainder := duration % n
	alloc := make([]int, n)
	for i := range alloc {
		alloc[i] = base
	}
	// Remainders go to the cities that would otherwise have the
	// smallest share; since all base shares are equal here, assign by
	// input order for determinism.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i] < order[j] })
	for i := 0; i < remainder; i++ {
		alloc[order[i]]++
	}

	for i := range alloc {
		if alloc[i] == 0 {
			alloc[i] = 1
		}
	}
	return alloc
}

// attachTravelLegs walks every place activity across the itinerary in
// order and, for each place-to-place pair (within a day or across a
// city-transition day boundary), asks the routing oracle for an
// estimate and attaches it as travelFromPrevious on the later
// activity.
func attachTravelLegs(ctx context.Context, days []models.Day, locations map[string]*models.Location, router oracle.RoutingOracle) {
	var prevLoc *models.Location
	var prevDayIdx = -1

	for dayIdx := range days {
		day := &days[dayIdx]
		for actIdx := range day.Activities {
			act := &day.Activities[actIdx]
			if act.Kind != models.ActivityPlace {
				continue
			}
			loc, ok := locations[act.LocationID]
			if !ok || loc.Coordinates == nil {
				continue
			}

			if prevLoc != nil && prevLoc.Coordinates != nil {
				crossDay := dayIdx != prevDayIdx
				if !crossDay || days[prevDayIdx].CityID != day.CityID {
					mode := chooseMode(prevLoc.Coordinates, loc.Coordinates, crossDay)
					estimate, err := router.Estimate(ctx,
						oracle.LatLng{Lat: prevLoc.Coordinates.Lat, Lng: prevLoc.Coordinates.Lng},
						oracle.LatLng{Lat: loc.Coordinates.Lat, Lng: loc.Coordinates.Lng},
						mode,
					)
					if err == nil {
						act.TravelFromPrevious = &models.TravelLeg{
							Mode:            toModelMode(mode),
							DurationMinutes: estimate.DurationSeconds / 60.0,
							DistanceMeters:  estimate.DistanceMeters,
						}
					}
				}
			}

			prevLoc = loc
			prevDayIdx = dayIdx
		}
	}
}

func chooseMode(a, b *models.Coordinates, crossDay bool) oracle.TravelMode {
	if crossDay {
		return oracle.ModeTransit
	}
	distance := geo.HaversineMeters(geo.Point{Lat: a.Lat, Lng: a.Lng}, geo.Point{Lat: b.Lat, Lng: b.Lng})
	if distance <= 1500 {
		return oracle.ModeWalking
	}
	return oracle.ModeDriving
}

func toModelMode(mode oracle.TravelMode) models.TravelMode {
	switch mode {
	case oracle.ModeWalking:
		return models.ModeWalking
	case oracle.ModeTransit:
		return models.ModeTransit
	case oracle.ModeCycling:
		return models.ModeCycling
	default:
		return models.ModeDriving
	}
}

// Package scoring implements the candidate-ranking engine (component
// S): a pure, deterministic function from (location, context) to a
// scalar score plus the short list of reasons that produced it.
package scoring

import (
	"math"

	"github.com/tabiplan/backend/internal/geo"
	"github.com/tabiplan/backend/internal/models"
)

// Context carries everything Score needs beyond the candidate itself.
type Context struct {
	Interests []models.Category
	Pace      models.Pace
	Budget    *models.Budget
	Party     models.PartyProfile
	// SavedIDs is the set of user-pinned location ids (§3 savedIds).
	SavedIDs map[string]bool
	// Placed is the set of location ids already placed anywhere in the
	// trip being built; any match disqualifies the candidate outright.
	Placed map[string]bool
	// Anchor is the current day anchor: the coordinates of the first
	// activity placed in the day, or nil before the first slot.
	Anchor *models.Coordinates
	// City is the city currently being packed.
	City string
}

const paceFitBaselineMinutes = 90.0

// Score combines the factor table into a single additive value plus
// the reasons that contributed a non-zero amount. Equal inputs always
// produce the same value and the same reasons, in the same order.
func Score(loc *models.Location, ctx Context) (float64, []string) {
	if ctx.Placed != nil && ctx.Placed[loc.ID] {
		return math.Inf(-1), []string{"duplicate"}
	}

	var total float64
	var reasons []string

	if categoryFit(loc, ctx.Interests) {
		total += 3
		reasons = append(reasons, "category fit")
	}

	if loc.Rating != nil {
		if v := clamp((*loc.Rating-3)*1.0, 0, 2); v != 0 {
			total += v
			reasons = append(reasons, "rating")
		}
	}

	if loc.ReviewCount != nil && *loc.ReviewCount > 0 {
		if v := clamp(math.Log10(1+float64(*loc.ReviewCount))/4, 0, 1); v != 0 {
			total += v
			reasons = append(reasons, "review weight")
		}
	}

	if loc.RecommendedVisitMinutes != nil {
		if v := paceFit(ctx.Pace, *loc.RecommendedVisitMinutes); v != 0 {
			total += v
			reasons = append(reasons, "pace fit")
		}
	}

	if ctx.Budget != nil && loc.PriceLevel != nil {
		if v := budgetFit(ctx.Budget.MaxPriceLevel, *loc.PriceLevel); v != 0 {
			total += v
			reasons = append(reasons, "budget fit")
		}
	}

	if v := partyFit(ctx.Party, loc); v != 0 {
		total += v
		reasons = append(reasons, "party fit")
	}

	if ctx.Anchor != nil && loc.Coordinates != nil {
		distanceKm := geo.HaversineMeters(
			geo.Point{Lat: ctx.Anchor.Lat, Lng: ctx.Anchor.Lng},
			geo.Point{Lat: loc.Coordinates.Lat, Lng: loc.Coordinates.Lng},
		) / 1000.0
		if v := -math.Min(2, distanceKm/10); v != 0 {
			total += v
			reasons = append(reasons, "distance from anchor")
		}
	}

	if ctx.SavedIDs != nil && ctx.SavedIDs[loc.ID] {
		total += 5
		reasons = append(reasons, "saved-id boost")
	}

	return total, reasons
}

func categoryFit(loc *models.Location, interests []models.Category) bool {
	for _, interest := range interests {
		if loc.Category == interest {
			return true
		}
	}
	return false
}

// paceFit favors shorter visits for a fast pace and longer visits for
// a relaxed one; balanced pace is neutral.
func paceFit(pace models.Pace, minutes int) float64 {
	delta := (paceFitBaselineMinutes - float64(minutes)) / paceFitBaselineMinutes
	switch pace {
	case models.PaceFast:
		return clamp(delta, -1, 1)
	case models.PaceRelaxed:
		return clamp(-delta, -1, 1)
	default:
		return 0
	}
}

// budgetFit rewards candidates within the selected max price level and
// penalizes ones above it, scaling with how far over they are.
func budgetFit(maxLevel, locLevel int) float64 {
	if maxLevel <= 0 {
		return 0
	}
	diff := locLevel - maxLevel
	switch {
	case diff <= 0:
		return 1
	case diff == 1:
		return -1
	default:
		return -2
	}
}

// partyFit applies light heuristics from tags: family parties
// down-weight bars and nightlife, solo travelers up-weight cafés.
func partyFit(party models.PartyProfile, loc *models.Location) float64 {
	var fit float64
	if party.Family {
		if hasAnyTag(loc.Tags, "bar", "nightlife", "club") {
			fit -= 1
		}
		if loc.Category == models.CategoryFood && hasAnyTag(loc.Tags, "kid-friendly", "family-friendly") {
			fit += 1
		}
	}
	if party.Solo && hasAnyTag(loc.Tags, "cafe", "café", "coffee") {
		fit += 1
	}
	return clamp(fit, -1, 1)
}

func hasAnyTag(tags []string, wanted ...string) bool {
	for _, t := range tags {
		for _, w := range wanted {
			if t == w {
				return true
			}
		}
	}
	return false
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

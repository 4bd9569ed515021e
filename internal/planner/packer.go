package planner

import (
	"math"
	"time"

	"github.com/tabiplan/backend/internal/models"
	"github.com/tabiplan/backend/internal/scoring"
)

var slotWindows = map[models.TimeOfDay][2]string{
	models.Morning:   {"09:00", "11:30"},
	models.Afternoon: {"12:30", "16:00"},
	models.Evening:   {"18:00", "20:30"},
}

// packDay fills one day's morning/afternoon/evening slots plus
// overflow. placedGlobally tracks ids already
// placed anywhere in the trip so far; it is mutated as activities are
// placed, so day packing must run in trip order.
func packDay(dayIndex int, cityID string, pool []*models.Location, req *models.TripRequest, placedGlobally map[string]bool, savedIDs map[string]bool) models.Day {
	day := models.Day{CityID: cityID}
	_, target := req.Pace.SlotTarget()

	categoryCounts := map[models.Category]int{}
	categoryCap := int(math.Ceil(0.5 * float64(target)))

	var anchor *models.Coordinates
	remaining := make([]*models.Location, len(pool))
	copy(remaining, pool)

	slotCounts := map[models.TimeOfDay]int{
		models.Morning:   0,
		models.Afternoon: 0,
		models.Evening:   0,
	}

	placeInSlot := func(slot models.TimeOfDay, interestSet []models.Category) bool {
		ctx := scoring.Context{
			Interests: interestSet,
			Pace:      req.Pace,
			Budget:    req.Budget,
			Party:     req.Party,
			SavedIDs:  savedIDs,
			Placed:    placedGlobally,
			Anchor:    anchor,
			City:      cityID,
		}

		best := pickBest(remaining, ctx, categoryCounts, categoryCap)
		if best == nil {
			return false
		}

		day.Activities = append(day.Activities, buildPlaceActivity(best, slot))
		categoryCounts[best.Category]++
		slotCounts[slot]++
		placedGlobally[best.ID] = true
		if anchor == nil && best.Coordinates != nil {
			anchor = best.Coordinates
		}
		remaining = removeLocation(remaining, best.ID)
		return true
	}

	for slotIdx, slot := range models.SlotOrder {
		interestSet := rotatedInterests(req.Interests, dayIndex, slotIdx)
		if !placeInSlot(slot, interestSet) {
			day.Activities = append(day.Activities, models.NewNoteActivity(slot, "No more suitable places found nearby."))
			slotCounts[slot]++
		}
	}

	for day.PlaceCount() < target && len(remaining) > 0 {
		slot := smallestSlot(slotCounts)
		interestSet := rotatedInterests(req.Interests, dayIndex, slotIndexOf(slot))
		if !placeInSlot(slot, interestSet) {
			break
		}
	}

	return day
}

func pickBest(candidates []*models.Location, ctx scoring.Context, categoryCounts map[models.Category]int, categoryCap int) *models.Location {
	var best *models.Location
	var bestScore float64
	for _, c := range candidates {
		if categoryCounts[c.Category] >= categoryCap {
			continue
		}
		val, _ := scoring.Score(c, ctx)
		if math.IsInf(val, -1) {
			continue
		}
		if best == nil || betterCandidate(c, val, best, bestScore) {
			best = c
			bestScore = val
		}
	}
	return best
}

// betterCandidate breaks score ties by reviewCount desc, id asc, for
// deterministic output given the same inputs.
func betterCandidate(cand *models.Location, candScore float64, cur *models.Location, curScore float64) bool {
	if candScore != curScore {
		return candScore > curScore
	}
	candReviews, curReviews := reviewsOrNeg1(cand), reviewsOrNeg1(cur)
	if candReviews != curReviews {
		return candReviews > curReviews
	}
	return cand.ID < cur.ID
}

func reviewsOrNeg1(l *models.Location) int {
	if l.ReviewCount == nil {
		return -1
	}
	return *l.ReviewCount
}

func buildPlaceActivity(loc *models.Location, slot models.TimeOfDay) models.Activity {
	window := slotWindows[slot]
	start, end := window[0], window[1]
	if loc.RecommendedVisitMinutes != nil {
		if adjusted, ok := addMinutesClipped(start, *loc.RecommendedVisitMinutes, end); ok {
			end = adjusted
		}
	}
	return models.NewPlaceActivity(loc.ID, slot, start, end, loc.Tags)
}

func addMinutesClipped(startHHMM string, minutes int, capHHMM string) (string, bool) {
	start, err := time.Parse("15:04", startHHMM)
	if err != nil {
		return "", false
	}
	cap, err := time.Parse("15:04", capHHMM)
	if err != nil {
		return "", false
	}
	end := start.Add(time.Duration(minutes) * time.Minute)
	if end.After(cap) {
		end = cap
	}
	return end.Format("15:04"), true
}

// rotatedInterests returns the single interest targeted for this
// slot: round-robin over selected interests, offset by day index, so
// interest categories cycle across a single day. Empty interests
// return nil so scoring falls back to rating-weighted selection.
func rotatedInterests(interests []models.Category, dayIndex, slotIdx int) []models.Category {
	if len(interests) == 0 {
		return nil
	}
	idx := (dayIndex + slotIdx) % len(interests)
	return []models.Category{interests[idx]}
}

func removeLocation(list []*models.Location, id string) []*models.Location {
	out := list[:0]
	for _, l := range list {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}

func smallestSlot(counts map[models.TimeOfDay]int) models.TimeOfDay {
	best := models.SlotOrder[0]
	bestCount := counts[best]
	for _, slot := range models.SlotOrder[1:] {
		if counts[slot] < bestCount {
			best = slot
			bestCount = counts[slot]
		}
	}
	return best
}

func slotIndexOf(slot models.TimeOfDay) int {
	for i, s := range models.SlotOrder {
		if s == slot {
			return i
		}
	}
	return 0
}

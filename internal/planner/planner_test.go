package planner

import (
	"context"
	"fmt"
	"testing"

	"github.com/tabiplan/backend/internal/models"
	"github.com/tabiplan/backend/internal/oracle/fake"
	"github.com/tabiplan/backend/internal/store/memory"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }

// fixtureLocations builds a generous pool of locations for a city so
// packing never starves for candidates in these tests.
func fixtureLocations(city, prefecture, region string, baseLat, baseLng float64, categories []models.Category, count int) []*models.Location {
	out := make([]*models.Location, 0, count)
	for i := 0; i < count; i++ {
		cat := categories[i%len(categories)]
		rating := 3.5 + float64(i%5)*0.3
		reviews := 50 + i*37
		out = append(out, &models.Location{
			ID:                      fmt.Sprintf("%s-%d", city, i),
			Name:                    fmt.Sprintf("%s place %d", city, i),
			Category:                cat,
			City:                    city,
			Prefecture:              prefecture,
			Region:                  region,
			Coordinates:             &models.Coordinates{Lat: baseLat + float64(i%7)*0.002, Lng: baseLng + float64(i%5)*0.002},
			Rating:                  ptrF(rating),
			ReviewCount:             ptrI(reviews),
			RecommendedVisitMinutes: ptrI(60 + (i%4)*30),
		})
	}
	return out
}

func kyotoSeed() []*models.Location {
	return fixtureLocations("kyoto", "Kyoto", "Kansai", 35.0116, 135.7681,
		[]models.Category{models.CategoryCulture, models.CategoryFood, models.CategoryNature}, 40)
}

func osakaSeed() []*models.Location {
	return fixtureLocations("osaka", "Osaka", "Kansai", 34.6937, 135.5023,
		[]models.Category{models.CategoryCulture, models.CategoryFood, models.CategoryShopping}, 40)
}

func tokyoSeed() []*models.Location {
	return fixtureLocations("tokyo", "Tokyo", "Kanto", 35.6762, 139.6503,
		[]models.Category{models.CategoryCulture, models.CategoryFood, models.CategoryAttraction}, 40)
}

func newTestPlanner(seed []*models.Location) *Planner {
	st := memory.New(seed)
	return New(st, &fake.Routing{}, &fake.Weather{}, nil)
}

func TestGenerateThreeDaysKyoto(t *testing.T) {
	p := newTestPlanner(kyotoSeed())
	req := models.TripRequest{
		Duration:  3,
		Cities:    []string{"kyoto"},
		Interests: []models.Category{models.CategoryCulture, models.CategoryFood, models.CategoryNature},
		Pace:      models.PaceBalanced,
	}

	result, err := p.Generate(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Itinerary.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(result.Itinerary.Days))
	}

	seenIDs := map[string]bool{}
	for _, day := range result.Itinerary.Days {
		for _, tod := range models.SlotOrder {
			if day.CountBySlot(tod) == 0 {
				t.Errorf("day %s missing slot %s", day.CityID, tod)
			}
		}
		for _, act := range day.Activities {
			if act.Kind != models.ActivityPlace {
				continue
			}
			if seenIDs[act.LocationID] {
				t.Errorf("duplicate location id %s across itinerary", act.LocationID)
			}
			seenIDs[act.LocationID] = true
		}
	}

	for _, issue := range result.Trip.Validation.Issues {
		if issue.Category == "city-region-consistency" {
			t.Errorf("unexpected region-consistency issue: %+v", issue)
		}
	}
}

func TestGenerateSingleDayInterestRotation(t *testing.T) {
	p := newTestPlanner(kyotoSeed())
	req := models.TripRequest{
		Duration:  1,
		Cities:    []string{"kyoto"},
		Interests: []models.Category{models.CategoryFood, models.CategoryCulture},
		Pace:      models.PaceBalanced,
	}

	result, err := p.Generate(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	day := result.Itinerary.Days[0]
	if len(day.Activities) < 3 {
		t.Fatalf("expected at least 3 activities, got %d", len(day.Activities))
	}
	for _, tod := range models.SlotOrder {
		if day.CountBySlot(tod) == 0 {
			t.Errorf("missing activity for slot %s", tod)
		}
	}
}

func TestGenerateMultiCityRegionOrdering(t *testing.T) {
	var seed []*models.Location
	seed = append(seed, kyotoSeed()...)
	seed = append(seed, osakaSeed()...)
	seed = append(seed, tokyoSeed()...)
	p := newTestPlanner(seed)

	req := models.TripRequest{
		Duration:  10,
		Cities:    []string{"kyoto", "osaka", "tokyo"},
		Interests: []models.Category{models.CategoryCulture, models.CategoryFood},
		Pace:      models.PaceBalanced,
	}

	result, err := p.Generate(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var regionSeq []string
	for _, day := range result.Itinerary.Days {
		switch day.CityID {
		case "kyoto", "osaka":
			regionSeq = append(regionSeq, "Kansai")
		case "tokyo":
			regionSeq = append(regionSeq, "Kanto")
		}
	}

	transitions := 0
	for i := 1; i < len(regionSeq); i++ {
		if regionSeq[i] != regionSeq[i-1] {
			transitions++
		}
	}
	if transitions > 1 {
		t.Errorf("expected at most one region transition, got %d (%v)", transitions, regionSeq)
	}
}

func TestGenerateCacheDeterminism(t *testing.T) {
	seed := kyotoSeed()
	req := models.TripRequest{
		Duration:  2,
		Cities:    []string{"kyoto"},
		Interests: []models.Category{models.CategoryCulture, models.CategoryFood},
		Pace:      models.PaceBalanced,
	}

	p1 := newTestPlanner(seed)
	p2 := newTestPlanner(seed)

	r1, err := p1.Generate(context.Background(), req, nil)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := p2.Generate(context.Background(), req, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(r1.Itinerary.Days) != len(r2.Itinerary.Days) {
		t.Fatalf("day count mismatch")
	}
	for d := range r1.Itinerary.Days {
		a1, a2 := r1.Itinerary.Days[d].Activities, r2.Itinerary.Days[d].Activities
		if len(a1) != len(a2) {
			t.Fatalf("day %d activity count mismatch", d)
		}
		for i := range a1 {
			if a1[i].LocationID != a2[i].LocationID || a1[i].Kind != a2[i].Kind {
				t.Errorf("day %d activity %d diverged between runs", d, i)
			}
		}
	}
}

func TestGenerateFastPaceDenserThanRelaxed(t *testing.T) {
	seed := kyotoSeed()

	fastReq := models.TripRequest{Duration: 3, Cities: []string{"kyoto"}, Interests: []models.Category{models.CategoryCulture}, Pace: models.PaceFast}
	relaxedReq := models.TripRequest{Duration: 3, Cities: []string{"kyoto"}, Interests: []models.Category{models.CategoryCulture}, Pace: models.PaceRelaxed}

	fastResult, err := newTestPlanner(seed).Generate(context.Background(), fastReq, nil)
	if err != nil {
		t.Fatal(err)
	}
	relaxedResult, err := newTestPlanner(seed).Generate(context.Background(), relaxedReq, nil)
	if err != nil {
		t.Fatal(err)
	}

	avg := func(it models.Itinerary) float64 {
		total := 0
		for _, d := range it.Days {
			total += d.PlaceCount()
		}
		return float64(total) / float64(len(it.Days))
	}

	if avg(fastResult.Itinerary) < avg(relaxedResult.Itinerary) {
		t.Errorf("fast pace average places/day (%v) should be >= relaxed (%v)", avg(fastResult.Itinerary), avg(relaxedResult.Itinerary))
	}
}

func TestGenerateSingleCityNoTransitions(t *testing.T) {
	p := newTestPlanner(kyotoSeed())
	req := models.TripRequest{Duration: 4, Cities: []string{"kyoto"}, Interests: []models.Category{models.CategoryCulture}, Pace: models.PaceBalanced}

	result, err := p.Generate(context.Background(), req, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, day := range result.Itinerary.Days {
		if day.CityID != "kyoto" {
			t.Errorf("expected all days in kyoto, got %s", day.CityID)
		}
		if day.CityTransition {
			t.Errorf("single-city trip should never flag a city transition")
		}
	}
}

func TestGenerateThinPoolFallsBackToNotes(t *testing.T) {
	// Only 2 locations for a 3-slot day: expect note placeholders, not
	// an error.
	seed := fixtureLocations("kyoto", "Kyoto", "Kansai", 35.0116, 135.7681, []models.Category{models.CategoryCulture}, 2)
	p := newTestPlanner(seed)
	req := models.TripRequest{Duration: 1, Cities: []string{"kyoto"}, Pace: models.PaceBalanced}

	result, err := p.Generate(context.Background(), req, nil)
	if err != nil {
		t.Fatal(err)
	}
	day := result.Itinerary.Days[0]
	noteCount := 0
	for _, act := range day.Activities {
		if act.Kind == models.ActivityNote {
			noteCount++
		}
	}
	if noteCount == 0 {
		t.Error("expected at least one note placeholder for the exhausted pool")
	}
}

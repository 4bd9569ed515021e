package memory

import (
	"context"
	"testing"

	"github.com/tabiplan/backend/internal/models"
)

func rating(v float64) *float64 { return &v }
func reviews(v int) *int        { return &v }

func seedFixtures() []*models.Location {
	return []*models.Location{
		{ID: "a", Name: "Kinkaku-ji", City: "kyoto", Region: "Kansai", Category: models.CategoryCulture, Rating: rating(4.6), ReviewCount: reviews(1000), Coordinates: &models.Coordinates{Lat: 35.0394, Lng: 135.7292}},
		{ID: "b", Name: "Nishiki Market", City: "kyoto", Region: "Kansai", Category: models.CategoryFood, Rating: rating(4.4), ReviewCount: reviews(500), Coordinates: &models.Coordinates{Lat: 35.005, Lng: 135.765}},
		{ID: "c", Name: "No Rating Cafe", City: "kyoto", Region: "Kansai", Category: models.CategoryFood, Coordinates: &models.Coordinates{Lat: 35.01, Lng: 135.77}},
	}
}

func TestListByFilterOrdering(t *testing.T) {
	s := New(seedFixtures())
	got, err := s.ListByFilter(context.Background(), models.LocationFilter{City: "kyoto", Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	// rating desc, NULLS LAST, then id asc tiebreak.
	if got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Errorf("unexpected order: %v %v %v", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestListByFilterLimitOffset(t *testing.T) {
	s := New(seedFixtures())
	got, err := s.ListByFilter(context.Background(), models.LocationFilter{City: "kyoto", Limit: 1, Offset: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("expected single result 'b', got %v", got)
	}
}

func TestBulkByIDsOmitsMissing(t *testing.T) {
	s := New(seedFixtures())
	got, err := s.BulkByIDs(context.Background(), []string{"a", "zzz"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 found, got %d", len(got))
	}
	if _, ok := got["zzz"]; ok {
		t.Error("missing id should be omitted, not present")
	}
}

func TestNearbyFiltersByRadius(t *testing.T) {
	s := New(seedFixtures())
	got, err := s.Nearby(context.Background(), 35.0394, 135.7292, 1, models.LocationFilter{}, 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range got {
		if l.ID != "a" {
			// others are ~5km away, beyond a 1km radius
			t.Errorf("unexpected location %s within 1km radius", l.ID)
		}
	}
}

func TestReturnedSnapshotIsCopy(t *testing.T) {
	s := New(seedFixtures())
	got, _ := s.ListByFilter(context.Background(), models.LocationFilter{City: "kyoto", Limit: 1})
	got[0].Name = "mutated"

	again, _ := s.ListByFilter(context.Background(), models.LocationFilter{City: "kyoto", Limit: 1})
	if again[0].Name == "mutated" {
		t.Error("store returned a live reference instead of a snapshot copy")
	}
}

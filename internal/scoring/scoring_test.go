package scoring

import (
	"math"
	"testing"

	"github.com/tabiplan/backend/internal/models"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }

func TestScoreDuplicateIsDisqualified(t *testing.T) {
	loc := &models.Location{ID: "a", Category: models.CategoryCulture}
	ctx := Context{Placed: map[string]bool{"a": true}}
	val, reasons := Score(loc, ctx)
	if !math.IsInf(val, -1) {
		t.Fatalf("expected -Inf for duplicate, got %v", val)
	}
	if len(reasons) != 1 || reasons[0] != "duplicate" {
		t.Errorf("expected single 'duplicate' reason, got %v", reasons)
	}
}

func TestScoreCategoryFit(t *testing.T) {
	loc := &models.Location{ID: "a", Category: models.CategoryCulture}
	ctx := Context{Interests: []models.Category{models.CategoryCulture, models.CategoryFood}}
	val, reasons := Score(loc, ctx)
	if val != 3 {
		t.Errorf("expected +3 for category fit, got %v", val)
	}
	if !contains(reasons, "category fit") {
		t.Errorf("expected 'category fit' reason, got %v", reasons)
	}
}

func TestScoreRatingClamped(t *testing.T) {
	loc := &models.Location{ID: "a", Rating: ptrF(5.0)}
	val, reasons := Score(loc, Context{})
	// (5-3)*1.0 = 2, within [0,2], no clamping needed here
	if val != 2 {
		t.Errorf("expected rating contribution of 2, got %v", val)
	}
	if !contains(reasons, "rating") {
		t.Errorf("expected 'rating' reason, got %v", reasons)
	}

	low := &models.Location{ID: "b", Rating: ptrF(2.0)}
	val2, reasons2 := Score(low, Context{})
	if val2 != 0 {
		t.Errorf("expected rating below 3 to clamp to 0, got %v", val2)
	}
	if contains(reasons2, "rating") {
		t.Errorf("zero-contribution rating should not appear in reasons")
	}
}

func TestScoreReviewWeight(t *testing.T) {
	loc := &models.Location{ID: "a", ReviewCount: ptrI(9999)}
	val, reasons := Score(loc, Context{})
	if val <= 0 || val > 1 {
		t.Errorf("expected review weight in (0,1], got %v", val)
	}
	if !contains(reasons, "review weight") {
		t.Errorf("expected 'review weight' reason, got %v", reasons)
	}
}

func TestScorePaceFitFastFavorsShort(t *testing.T) {
	short := &models.Location{ID: "a", RecommendedVisitMinutes: ptrI(30)}
	long := &models.Location{ID: "b", RecommendedVisitMinutes: ptrI(180)}
	ctx := Context{Pace: models.PaceFast}

	shortVal, _ := Score(short, ctx)
	longVal, _ := Score(long, ctx)
	if shortVal <= longVal {
		t.Errorf("fast pace should favor shorter visits: short=%v long=%v", shortVal, longVal)
	}
}

func TestScorePaceFitRelaxedFavorsLong(t *testing.T) {
	short := &models.Location{ID: "a", RecommendedVisitMinutes: ptrI(30)}
	long := &models.Location{ID: "b", RecommendedVisitMinutes: ptrI(180)}
	ctx := Context{Pace: models.PaceRelaxed}

	shortVal, _ := Score(short, ctx)
	longVal, _ := Score(long, ctx)
	if longVal <= shortVal {
		t.Errorf("relaxed pace should favor longer visits: short=%v long=%v", shortVal, longVal)
	}
}

func TestScoreBudgetFit(t *testing.T) {
	inBudget := &models.Location{ID: "a", PriceLevel: ptrI(2)}
	oneOver := &models.Location{ID: "b", PriceLevel: ptrI(3)}
	twoOver := &models.Location{ID: "c", PriceLevel: ptrI(4)}
	budget := &models.Budget{MaxPriceLevel: 2}

	v1, _ := Score(inBudget, Context{Budget: budget})
	v2, _ := Score(oneOver, Context{Budget: budget})
	v3, _ := Score(twoOver, Context{Budget: budget})

	if v1 != 1 {
		t.Errorf("in-budget expected +1, got %v", v1)
	}
	if v2 != -1 {
		t.Errorf("one-over expected -1, got %v", v2)
	}
	if v3 != -2 {
		t.Errorf("two-over expected -2, got %v", v3)
	}
}

func TestScoreDistanceFromAnchor(t *testing.T) {
	anchor := &models.Coordinates{Lat: 35.0116, Lng: 135.7681} // kyoto
	near := &models.Location{ID: "a", Coordinates: &models.Coordinates{Lat: 35.0116, Lng: 135.7681}}
	far := &models.Location{ID: "b", Coordinates: &models.Coordinates{Lat: 34.6937, Lng: 135.5023}} // osaka, ~40km

	nearVal, _ := Score(near, Context{Anchor: anchor})
	farVal, _ := Score(far, Context{Anchor: anchor})

	if nearVal != 0 {
		t.Errorf("zero-distance should contribute 0 penalty, got %v", nearVal)
	}
	if farVal != -2 {
		t.Errorf("40km away should clamp penalty to -2, got %v", farVal)
	}
}

func TestScoreSavedIDBoost(t *testing.T) {
	loc := &models.Location{ID: "a"}
	val, reasons := Score(loc, Context{SavedIDs: map[string]bool{"a": true}})
	if val != 5 {
		t.Errorf("expected +5 saved-id boost, got %v", val)
	}
	if !contains(reasons, "saved-id boost") {
		t.Errorf("expected 'saved-id boost' reason, got %v", reasons)
	}
}

func TestScoreDeterministic(t *testing.T) {
	loc := &models.Location{ID: "a", Category: models.CategoryCulture, Rating: ptrF(4.5), ReviewCount: ptrI(200)}
	ctx := Context{Interests: []models.Category{models.CategoryCulture}, Pace: models.PaceBalanced}

	v1, r1 := Score(loc, ctx)
	v2, r2 := Score(loc, ctx)
	if v1 != v2 {
		t.Errorf("expected deterministic score, got %v then %v", v1, v2)
	}
	if len(r1) != len(r2) {
		t.Fatalf("expected deterministic reasons, got %v then %v", r1, r2)
	}
	for i := range r1 {
		if r1[i] != r2[i] {
			t.Errorf("reasons diverged at %d: %q vs %q", i, r1[i], r2[i])
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

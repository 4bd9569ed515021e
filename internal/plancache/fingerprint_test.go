package plancache

import (
	"testing"

	"github.com/tabiplan/backend/internal/models"
)

func TestFingerprintOrderInsensitive(t *testing.T) {
	a := models.TripRequest{
		Duration:  3,
		Cities:    []string{"Kyoto", "Osaka"},
		Interests: []models.Category{models.CategoryFood, models.CategoryCulture},
		Pace:      models.PaceBalanced,
	}
	b := models.TripRequest{
		Duration:  3,
		Cities:    []string{"osaka", "kyoto"},
		Interests: []models.Category{models.CategoryCulture, models.CategoryFood},
		Pace:      models.PaceBalanced,
	}
	if Fingerprint(a) != Fingerprint(b) {
		t.Error("expected reordered cities/interests to fingerprint identically")
	}
}

func TestFingerprintIgnoresSavedIDsAndContentContext(t *testing.T) {
	base := models.TripRequest{Duration: 2, Cities: []string{"kyoto"}, Pace: models.PaceBalanced}
	withSaved := base
	withSaved.SavedIDs = []string{"kyoto-1"}
	withContext := base
	withContext.ContentContext = "honeymoon"

	if Fingerprint(base) != Fingerprint(withSaved) {
		t.Error("savedIds must not change the fingerprint")
	}
	if Fingerprint(base) != Fingerprint(withContext) {
		t.Error("contentContext must not change the fingerprint")
	}
}

func TestFingerprintDiffersOnMeaningfulChange(t *testing.T) {
	a := models.TripRequest{Duration: 3, Cities: []string{"kyoto"}, Pace: models.PaceBalanced}
	b := models.TripRequest{Duration: 4, Cities: []string{"kyoto"}, Pace: models.PaceBalanced}
	if Fingerprint(a) == Fingerprint(b) {
		t.Error("expected different duration to change the fingerprint")
	}
}

func TestBypassesSavedIDsOrContentContext(t *testing.T) {
	if Bypasses(models.TripRequest{}) {
		t.Error("plain request should not bypass the cache")
	}
	if !Bypasses(models.TripRequest{SavedIDs: []string{"x"}}) {
		t.Error("savedIds should bypass the cache")
	}
	if !Bypasses(models.TripRequest{ContentContext: "honeymoon"}) {
		t.Error("contentContext should bypass the cache")
	}
}

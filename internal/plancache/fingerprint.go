// Package plancache memoizes generated itineraries behind a stable
// request fingerprint.
package plancache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/tabiplan/backend/internal/models"
)

// Fingerprint canonicalizes a trip request into a stable cache key. Two
// requests that differ only in field order, city or region case, or ContentContext
// hash identically; savedIds and contentContext never enter the hash,
// since both bypass the cache.
func Fingerprint(req models.TripRequest) string {
	cities := make([]string, len(req.Cities))
	for i, c := range req.Cities {
		cities[i] = strings.ToLower(strings.TrimSpace(c))
	}
	sort.Strings(cities)

	regions := make([]string, len(req.Regions))
	for i, r := range req.Regions {
		regions[i] = strings.ToLower(strings.TrimSpace(r))
	}
	sort.Strings(regions)

	interests := make([]string, len(req.Interests))
	for i, c := range req.Interests {
		interests[i] = string(c)
	}
	sort.Strings(interests)

	budgetBucket := -1
	if req.Budget != nil {
		budgetBucket = req.Budget.MaxPriceLevel
	}

	parts := []string{
		fmt.Sprintf("d=%d", req.Duration),
		fmt.Sprintf("start=%s", req.StartDate),
		fmt.Sprintf("cities=%s", strings.Join(cities, ",")),
		fmt.Sprintf("regions=%s", strings.Join(regions, ",")),
		fmt.Sprintf("interests=%s", strings.Join(interests, ",")),
		fmt.Sprintf("pace=%s", req.Pace),
		fmt.Sprintf("budget=%d", budgetBucket),
		fmt.Sprintf("party=%d/%d/%t/%t", req.Party.Adults, req.Party.Children, req.Party.Solo, req.Party.Family),
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// Bypasses reports whether a request must skip the cache entirely:
// personalized by saved ids, or steering a different content context.
func Bypasses(req models.TripRequest) bool {
	return len(req.SavedIDs) > 0 || req.ContentContext != ""
}

package geo

import "strings"

// administrativeSuffixes are stripped from a raw city string before
// ward lookup; the first suffix in this list that matches is removed.
var administrativeSuffixes = []string{
	"-shi", "-ku", "-cho", "-machi", "-mura", " City", " Ward", " city", " ward",
}

// WardToCity maps a sub-city ward name to its parent city. Wards
// listed in AmbiguousWards require a prefecture hint before this
// mapping may be applied.
var WardToCity = map[string]string{
	"shibuya":   "tokyo",
	"shinjuku":  "tokyo",
	"minato":    "tokyo",
	"chiyoda":   "tokyo",
	"taito":     "tokyo",
	"sumida":    "tokyo",
	"kita":      "osaka",
	"chuo":      "osaka",
	"naniwa":    "osaka",
	"higashi":   "hiroshima",
	"nishi":     "fukuoka",
	"hakata":    "fukuoka",
}

// AmbiguousWards names wards that are also independent city names in
// a different region; normalizing them requires a prefecture signal.
// "kita" ("north") and "naka" ("middle") are generic ward names reused
// across many cities, and "chuo" similarly recurs in Osaka, Tokyo, and
// Sapporo with different parents.
var AmbiguousWards = map[string]bool{
	"kita":  true,
	"chuo":  true,
	"naka":  true,
	"nishi": true,
}

// wardPrefectureParent disambiguates an ambiguous ward once a
// prefecture is known.
var wardPrefectureParent = map[string]map[string]string{
	"kita": {
		"Osaka":    "osaka",
		"Tokyo":    "tokyo",
		"Hokkaido": "sapporo",
	},
	"chuo": {
		"Osaka":    "osaka",
		"Tokyo":    "tokyo",
		"Hokkaido": "sapporo",
		"Fukuoka":  "fukuoka",
	},
	"naka": {
		"Hiroshima": "hiroshima",
		"Kanagawa":  "yokohama",
	},
	"nishi": {
		"Fukuoka": "fukuoka",
		"Osaka":   "osaka",
	},
}

func stripAdministrativeSuffix(raw string) string {
	s := strings.TrimSpace(raw)
	for _, suffix := range administrativeSuffixes {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSpace(strings.TrimSuffix(s, suffix))
		}
	}
	return s
}

// NormalizeCity strips administrative suffixes and resolves ward
// names to their parent city. If the residue is an ambiguous ward
// name, a prefecture is required to resolve it; without one the
// residue is returned unchanged (conservative: never guess). The
// function is idempotent: NormalizeCity(NormalizeCity(x)) == NormalizeCity(x).
func NormalizeCity(raw string, prefecture string) string {
	residue := stripAdministrativeSuffix(raw)
	key := strings.ToLower(residue)

	if AmbiguousWards[key] {
		if prefecture == "" {
			return residue
		}
		if parents, ok := wardPrefectureParent[key]; ok {
			if parent, ok := parents[prefecture]; ok {
				return parent
			}
		}
		return residue
	}

	if parent, ok := WardToCity[key]; ok {
		return parent
	}

	return residue
}

// ConflictReason explains why ValidateCityAgainstRegion rejected a
// normalization.
type ConflictReason string

const (
	ReasonNone             ConflictReason = ""
	ReasonRegionMismatch   ConflictReason = "region_mismatch"
	ReasonCoordinatesOutOfRegion ConflictReason = "coordinates_out_of_region"
	ReasonAmbiguousWithoutPrefecture ConflictReason = "ambiguous_ward_without_prefecture"
)

// ValidationOutcome is the result of ValidateCityAgainstRegion.
type ValidationOutcome struct {
	OK     bool
	Reason ConflictReason
}

// ValidateCityAgainstRegion checks a (city, region) pair for
// cross-region corruption before it is written back to the catalog.
// This is advisory: callers decide whether to skip or hard-fail on a
// conflict.
func ValidateCityAgainstRegion(city string, region Region, coords *Point) ValidationOutcome {
	key := strings.ToLower(strings.TrimSpace(city))

	if AmbiguousWards[key] {
		return ValidationOutcome{OK: false, Reason: ReasonAmbiguousWithoutPrefecture}
	}

	if expected, ok := CityRegion[key]; ok && expected != region {
		return ValidationOutcome{OK: false, Reason: ReasonRegionMismatch}
	}

	if coords != nil {
		if bounds, ok := RegionBounds[region]; ok && !bounds.Contains(coords.Lat, coords.Lng) {
			return ValidationOutcome{OK: false, Reason: ReasonCoordinatesOutOfRegion}
		}
	}

	return ValidationOutcome{OK: true}
}

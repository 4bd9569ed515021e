// Package geo implements the planner's pure geographic model: the
// prefecture-to-region table, region bounding boxes, city centers, and
// ward normalization. Every function here is total and side-effect
// free; unknown inputs resolve to a zero value rather than an error.
package geo

import "strings"

// Region is one of the nine top-level geographic divisions.
type Region string

const (
	Hokkaido Region = "Hokkaido"
	Tohoku   Region = "Tohoku"
	Kanto    Region = "Kanto"
	Chubu    Region = "Chubu"
	Kansai   Region = "Kansai"
	Chugoku  Region = "Chugoku"
	Shikoku  Region = "Shikoku"
	Kyushu   Region = "Kyushu"
	Okinawa  Region = "Okinawa"
)

// Bounds is an inclusive lat/lng bounding box.
type Bounds struct {
	North, South, East, West float64
}

// Contains reports whether (lat, lng) falls inside the box.
func (b Bounds) Contains(lat, lng float64) bool {
	return lat <= b.North && lat >= b.South && lng <= b.East && lng >= b.West
}

// PrefectureToRegion maps all 47 Japanese prefectures to one of the
// nine regions.
var PrefectureToRegion = map[string]Region{
	"Hokkaido": Hokkaido,

	"Aomori": Tohoku, "Iwate": Tohoku, "Miyagi": Tohoku, "Akita": Tohoku,
	"Yamagata": Tohoku, "Fukushima": Tohoku,

	"Ibaraki": Kanto, "Tochigi": Kanto, "Gunma": Kanto, "Saitama": Kanto,
	"Chiba": Kanto, "Tokyo": Kanto, "Kanagawa": Kanto,

	"Niigata": Chubu, "Toyama": Chubu, "Ishikawa": Chubu, "Fukui": Chubu,
	"Yamanashi": Chubu, "Nagano": Chubu, "Gifu": Chubu, "Shizuoka": Chubu,
	"Aichi": Chubu,

	"Mie": Kansai, "Shiga": Kansai, "Kyoto": Kansai, "Osaka": Kansai,
	"Hyogo": Kansai, "Nara": Kansai, "Wakayama": Kansai,

	"Tottori": Chugoku, "Shimane": Chugoku, "Okayama": Chugoku,
	"Hiroshima": Chugoku, "Yamaguchi": Chugoku,

	"Tokushima": Shikoku, "Kagawa": Shikoku, "Ehime": Shikoku, "Kochi": Shikoku,

	"Fukuoka": Kyushu, "Saga": Kyushu, "Nagasaki": Kyushu, "Kumamoto": Kyushu,
	"Oita": Kyushu, "Miyazaki": Kyushu, "Kagoshima": Kyushu,

	"Okinawa": Okinawa,
}

// RegionBounds gives each region's bounding box. Regions are disjoint
// in practice; when boxes overlap at their edges RegionContains
// returns the first listed match.
var RegionBounds = map[Region]Bounds{
	Hokkaido: {North: 45.6, South: 41.3, East: 145.9, West: 139.3},
	Tohoku:   {North: 41.6, South: 36.7, East: 142.1, West: 139.3},
	Kanto:    {North: 37.2, South: 34.8, East: 140.9, West: 138.3},
	Chubu:    {North: 38.6, South: 34.5, East: 139.9, West: 135.9},
	Kansai:   {North: 35.8, South: 33.3, East: 136.3, West: 134.2},
	Chugoku:  {North: 35.8, South: 33.7, East: 134.4, West: 130.8},
	Shikoku:  {North: 34.4, South: 32.6, East: 134.8, West: 132.0},
	Kyushu:   {North: 34.0, South: 27.0, East: 131.5, West: 128.0},
	Okinawa:  {North: 27.9, South: 24.0, East: 131.4, West: 122.9},
}

// regionOrder fixes the iteration order for RegionContains so overlap
// resolution is deterministic.
var regionOrder = []Region{Hokkaido, Tohoku, Kanto, Chubu, Kansai, Chugoku, Shikoku, Kyushu, Okinawa}

// CityCenters maps known (lowercased) city names to a representative
// coordinate, used as an anchor fallback and for route sequencing.
var CityCenters = map[string]struct{ Lat, Lng float64 }{
	"sapporo":   {43.0618, 141.3545},
	"sendai":    {38.2682, 140.8694},
	"tokyo":     {35.6762, 139.6503},
	"yokohama":  {35.4437, 139.6380},
	"nagoya":    {35.1815, 136.9066},
	"kanazawa":  {36.5613, 136.6562},
	"kyoto":     {35.0116, 135.7681},
	"osaka":     {34.6937, 135.5023},
	"kobe":      {34.6901, 135.1955},
	"nara":      {34.6851, 135.8048},
	"hiroshima": {34.3853, 132.4553},
	"okayama":   {34.6551, 133.9195},
	"takamatsu": {34.3401, 134.0434},
	"matsuyama": {33.8392, 132.7657},
	"fukuoka":   {33.5904, 130.4017},
	"nagasaki":  {32.7503, 129.8779},
	"kumamoto":  {32.8032, 130.7079},
	"naha":      {26.2124, 127.6792},
}

// CityRegion maps known cities to their region, for request normalization
// when a TripRequest names a city without specifying a prefecture.
var CityRegion = map[string]Region{
	"sapporo": Hokkaido, "sendai": Tohoku, "tokyo": Kanto, "yokohama": Kanto,
	"nagoya": Chubu, "kanazawa": Chubu, "kyoto": Kansai, "osaka": Kansai,
	"kobe": Kansai, "nara": Kansai, "hiroshima": Chugoku, "okayama": Chugoku,
	"takamatsu": Shikoku, "matsuyama": Shikoku, "fukuoka": Kyushu,
	"nagasaki": Kyushu, "kumamoto": Kyushu, "naha": Okinawa,
}

// RegionOf returns the region for a prefecture name, or "" if unknown.
func RegionOf(prefecture string) Region {
	return PrefectureToRegion[prefecture]
}

// RegionContains returns the first region whose bounding box contains
// the point, or "" if none do.
func RegionContains(lat, lng float64) Region {
	for _, r := range regionOrder {
		if RegionBounds[r].Contains(lat, lng) {
			return r
		}
	}
	return ""
}

// RegionOfCity resolves a region from a known city name, case-insensitive.
func RegionOfCity(city string) Region {
	return CityRegion[strings.ToLower(strings.TrimSpace(city))]
}

// CityCenter returns the representative coordinate of a known city.
func CityCenter(city string) (lat, lng float64, ok bool) {
	c, ok := CityCenters[strings.ToLower(strings.TrimSpace(city))]
	if !ok {
		return 0, 0, false
	}
	return c.Lat, c.Lng, true
}

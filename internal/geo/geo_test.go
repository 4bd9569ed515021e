package geo

import "testing"

func TestRegionOf(t *testing.T) {
	if got := RegionOf("Kyoto"); got != Kansai {
		t.Errorf("RegionOf(Kyoto) = %v, want %v", got, Kansai)
	}
	if got := RegionOf("Unknown"); got != "" {
		t.Errorf("RegionOf(Unknown) = %v, want empty", got)
	}
}

func TestRegionContains(t *testing.T) {
	lat, lng, ok := CityCenter("kyoto")
	if !ok {
		t.Fatal("expected kyoto city center")
	}
	if got := RegionContains(lat, lng); got != Kansai {
		t.Errorf("RegionContains(kyoto center) = %v, want %v", got, Kansai)
	}
}

func TestHaversineMeters(t *testing.T) {
	kyoto := Point{Lat: 35.0116, Lng: 135.7681}
	osaka := Point{Lat: 34.6937, Lng: 135.5023}
	d := HaversineMeters(kyoto, osaka)
	if d < 35000 || d > 45000 {
		t.Errorf("HaversineMeters(kyoto, osaka) = %.0f, want ~40km", d)
	}
	if HaversineMeters(kyoto, kyoto) != 0 {
		t.Errorf("HaversineMeters(kyoto, kyoto) should be 0")
	}
}

func TestNormalizeCityIdempotent(t *testing.T) {
	cases := []struct{ raw, prefecture string }{
		{"Shibuya-ku", ""},
		{"Osaka City", ""},
		{"Kita-ku", "Osaka"},
		{"Kita", ""},
		{"Naha-shi", ""},
	}
	for _, c := range cases {
		once := NormalizeCity(c.raw, c.prefecture)
		twice := NormalizeCity(once, c.prefecture)
		if once != twice {
			t.Errorf("NormalizeCity not idempotent for %q: once=%q twice=%q", c.raw, once, twice)
		}
	}
}

func TestNormalizeCityWard(t *testing.T) {
	if got := NormalizeCity("Shibuya-ku", ""); got != "tokyo" {
		t.Errorf("NormalizeCity(Shibuya-ku) = %q, want tokyo", got)
	}
}

func TestNormalizeCityAmbiguousWardRequiresPrefecture(t *testing.T) {
	if got := NormalizeCity("Kita-ku", ""); got != "Kita" {
		t.Errorf("ambiguous ward without prefecture should be returned unchanged, got %q", got)
	}
	if got := NormalizeCity("Kita-ku", "Osaka"); got != "osaka" {
		t.Errorf("NormalizeCity(Kita-ku, Osaka) = %q, want osaka", got)
	}
	if got := NormalizeCity("Kita-ku", "Tokyo"); got != "tokyo" {
		t.Errorf("NormalizeCity(Kita-ku, Tokyo) = %q, want tokyo", got)
	}
}

func TestValidateCityAgainstRegion(t *testing.T) {
	out := ValidateCityAgainstRegion("kyoto", Kanto, nil)
	if out.OK {
		t.Error("expected conflict for kyoto claimed in Kanto")
	}
	if out.Reason != ReasonRegionMismatch {
		t.Errorf("reason = %v, want %v", out.Reason, ReasonRegionMismatch)
	}

	out = ValidateCityAgainstRegion("kyoto", Kansai, nil)
	if !out.OK {
		t.Errorf("expected ok, got conflict: %v", out.Reason)
	}

	out = ValidateCityAgainstRegion("kita", Kansai, nil)
	if out.OK || out.Reason != ReasonAmbiguousWithoutPrefecture {
		t.Errorf("expected ambiguous-ward conflict, got %+v", out)
	}
}

package models

import "time"

// IsOpenAt reports whether the location is open at t, interpreted in
// the operating hours' declared timezone when possible. Locations
// without operating hours are treated as always open. This is a
// best-effort open-now check, not a guarantee.
func (l *Location) IsOpenAt(t time.Time) bool {
	if l.OperatingHours == nil || len(l.OperatingHours.Periods) == 0 {
		return true
	}

	loc := time.UTC
	if l.OperatingHours.Timezone != "" {
		if tz, err := time.LoadLocation(l.OperatingHours.Timezone); err == nil {
			loc = tz
		}
	}
	local := t.In(loc)
	weekday := int(local.Weekday())
	minutesNow := local.Hour()*60 + local.Minute()

	for _, p := range l.OperatingHours.Periods {
		openMin, ok1 := parseHHMM(p.Open)
		closeMin, ok2 := parseHHMM(p.Close)
		if !ok1 || !ok2 {
			continue
		}

		if p.Overnight {
			// Open window spans midnight: active either from
			// weekday's open time through midnight, or from midnight
			// through the following day's close time.
			if weekday == p.Weekday && minutesNow >= openMin {
				return true
			}
			prevWeekday := (p.Weekday + 1) % 7
			if weekday == prevWeekday && minutesNow < closeMin {
				return true
			}
			continue
		}

		if weekday == p.Weekday && minutesNow >= openMin && minutesNow < closeMin {
			return true
		}
	}
	return false
}

func parseHHMM(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

package oracle

import "context"

// Forecast is the weather oracle's per-day response shape.
type Forecast struct {
	Condition             string // bucketed: sunny, cloudy, rain, snow, storm
	PrecipitationPercent  float64
	HighC                 float64
	LowC                  float64
}

// WeatherOracle forecasts a single day for a city. Failures are
// non-fatal: callers omit the day's weather rather than failing
// generation.
type WeatherOracle interface {
	Forecast(ctx context.Context, city string, date string) (Forecast, error)
}

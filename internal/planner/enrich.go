package planner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tabiplan/backend/internal/metrics"
	"github.com/tabiplan/backend/internal/models"
	"github.com/tabiplan/backend/internal/oracle"
)

// enrichDays sets each day's cityTransition flag and date, then
// fetches a weather forecast per day. Forecasts are independent of
// each other, so they are fetched in parallel; a
// forecast failure is non-fatal and simply omits that day's weather,
// recorded as a weather fallback when a collector is configured.
func enrichDays(ctx context.Context, days []models.Day, seq CitySequence, startDate string, weatherOracle oracle.WeatherOracle, collector *metrics.Collector) []models.DayIntro {
	for i := range days {
		if i < len(seq.Transitions) {
			days[i].CityTransition = seq.Transitions[i]
		}
		days[i].Date = offsetDate(startDate, i)
	}

	forecasts := make([]*oracle.Forecast, len(days))
	if weatherOracle != nil {
		var wg sync.WaitGroup
		for i := range days {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				f, err := weatherOracle.Forecast(ctx, days[i].CityID, days[i].Date)
				if err == nil {
					forecasts[i] = &f
				} else if collector != nil {
					collector.RecordWeatherFallback()
				}
			}(i)
		}
		wg.Wait()
	}

	intros := make([]models.DayIntro, len(days))
	for i := range days {
		intros[i] = buildDayIntro(i, &days[i], forecasts[i])
	}
	return intros
}

func offsetDate(startDate string, dayOffset int) string {
	if startDate == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, dayOffset).Format("2006-01-02")
}

func buildDayIntro(dayIndex int, day *models.Day, forecast *oracle.Forecast) models.DayIntro {
	intro := fmt.Sprintf("Day %d explores %s.", dayIndex+1, day.CityID)

	var tips []string
	if day.CityTransition {
		tips = append(tips, fmt.Sprintf("Travel day: the itinerary moves to %s.", day.CityID))
	}

	var weather *models.Weather
	if forecast != nil {
		weather = &models.Weather{
			Condition:             forecast.Condition,
			PrecipitationPercent:  forecast.PrecipitationPercent,
			HighC:                 forecast.HighC,
			LowC:                  forecast.LowC,
		}
		if forecast.PrecipitationPercent >= 50 {
			tips = append(tips, "Rain is likely; bring a compact umbrella.")
		}
	}

	return models.DayIntro{DayIndex: dayIndex, Intro: intro, Tips: tips, Weather: weather}
}

// Package weather provides the production WeatherOracle: a thin JSON
// HTTP client over a configurable weather API endpoint.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tabiplan/backend/internal/oracle"
)

// HTTPClient is a WeatherOracle backed by a WeatherAPI.com-shaped
// forecast endpoint. Any compatible provider can be pointed at via
// BaseURL.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient constructs a weather oracle HTTP client with the
// given base URL, API key, and per-call timeout.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	if baseURL == "" {
		baseURL = "https://api.weatherapi.com/v1"
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type forecastResponse struct {
	Forecast struct {
		Forecastday []struct {
			Day struct {
				MaxtempC      float64 `json:"maxtemp_c"`
				MintempC      float64 `json:"mintemp_c"`
				DailyChanceRain float64 `json:"daily_chance_of_rain"`
				Condition     struct {
					Text string `json:"text"`
				} `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// Forecast implements oracle.WeatherOracle.
func (c *HTTPClient) Forecast(ctx context.Context, city string, date string) (oracle.Forecast, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", city)
	q.Set("dt", date)
	reqURL := fmt.Sprintf("%s/forecast.json?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return oracle.Forecast{}, fmt.Errorf("%w: %v", oracle.ErrOracleUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return oracle.Forecast{}, fmt.Errorf("%w: %v", oracle.ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return oracle.Forecast{}, fmt.Errorf("%w: status %d", oracle.ErrOracleUnavailable, resp.StatusCode)
	}

	var parsed forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return oracle.Forecast{}, fmt.Errorf("%w: %v", oracle.ErrOracleUnavailable, err)
	}
	if len(parsed.Forecast.Forecastday) == 0 {
		return oracle.Forecast{}, fmt.Errorf("%w: no forecast day returned", oracle.ErrOracleUnavailable)
	}

	day := parsed.Forecast.Forecastday[0].Day
	return oracle.Forecast{
		Condition:            bucketCondition(day.Condition.Text),
		PrecipitationPercent: day.DailyChanceRain,
		HighC:                day.MaxtempC,
		LowC:                 day.MintempC,
	}, nil
}

func bucketCondition(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "thunder") || strings.Contains(lower, "storm"):
		return "storm"
	case strings.Contains(lower, "snow"):
		return "snow"
	case strings.Contains(lower, "rain") || strings.Contains(lower, "drizzle"):
		return "rain"
	case strings.Contains(lower, "cloud") || strings.Contains(lower, "overcast"):
		return "cloudy"
	default:
		return "sunny"
	}
}

// Package weather talks to OpenWeatherMap and derives the display-only bits of a
// snapshot: wind cardinal direction and condition icon.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gometeo/cityweather/internal/model"
)

const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// ErrLookup marks transport, status and decode failures of the weather service.
var ErrLookup = errors.New("weather lookup failed")

// Fetcher returns current weather for a city in the given unit system.
type Fetcher interface {
	Fetch(ctx context.Context, units model.UnitSystem, city model.CityRecord) (*model.WeatherSnapshot, error)
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch queries current weather by city id. The call is not retried.
func (c *Client) Fetch(ctx context.Context, units model.UnitSystem, city model.CityRecord) (*model.WeatherSnapshot, error) {
	if !units.Valid() {
		return nil, fmt.Errorf("unknown unit system %q", units)
	}

	params := url.Values{}
	params.Set("id", strconv.Itoa(city.ID))
	params.Set("appid", c.apiKey)
	params.Set("units", string(units))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrLookup, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: execute request: %w", ErrLookup, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %w", ErrLookup, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrLookup, resp.StatusCode, truncate(body, 200))
	}

	var snap model.WeatherSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("%w: parse response: %w", ErrLookup, err)
	}

	snap.Wind.Dir = ""
	if snap.Wind.Deg != nil {
		snap.Wind.Dir = WindDirection(*snap.Wind.Deg)
	}

	c.logger.Debug("weather fetched",
		"city_id", city.ID,
		"units", units,
		"condition", snap.ConditionCode(),
		"duration_ms", time.Since(start).Milliseconds())

	return &snap, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

var _ Fetcher = (*Client)(nil)

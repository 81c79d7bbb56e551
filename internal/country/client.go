// Package country fetches country details from the REST Countries service.
package country

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gometeo/cityweather/internal/model"
)

const DefaultBaseURL = "https://restcountries.com/v2"

// ErrLookup marks transport, status and decode failures of the country service.
var ErrLookup = errors.New("country lookup failed")

// Fetcher returns the country-info payload for an ISO country code.
type Fetcher interface {
	Fetch(ctx context.Context, code string) (model.CountryInfo, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Fetch calls GET {base}/alpha/{code}. The payload is only checked to be a JSON
// object; its fields are not interpreted. Cities without a country code get an
// empty CountryInfo and no upstream call.
func (c *Client) Fetch(ctx context.Context, code string) (model.CountryInfo, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return model.CountryInfo{}, nil
	}

	endpoint := fmt.Sprintf("%s/alpha/%s", c.baseURL, url.PathEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrLookup, err)
	}

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
		return nil, fmt.Errorf("%w: status %d for %s", ErrLookup, resp.StatusCode, code)
	}

	var info model.CountryInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("%w: parse response: %w", ErrLookup, err)
	}

	c.logger.Debug("country fetched", "code", code, "fields", len(info))
	return info, nil
}

var _ Fetcher = (*Client)(nil)

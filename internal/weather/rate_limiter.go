package weather

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/gometeo/cityweather/internal/model"
)

// RateLimitedFetcher keeps outbound calls under the provider's quota. The
// OpenWeatherMap free tier allows 60 calls a minute.
type RateLimitedFetcher struct {
	fetcher Fetcher
	limiter *rate.Limiter
}

// NewRateLimitedFetcher wraps f. rps may be fractional; burst is the bucket size.
func NewRateLimitedFetcher(f Fetcher, rps float64, burst int) *RateLimitedFetcher {
	return &RateLimitedFetcher{
		fetcher: f,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Fetch waits for a token, or for ctx to end, then forwards the call.
func (r *RateLimitedFetcher) Fetch(ctx context.Context, units model.UnitSystem, city model.CityRecord) (*model.WeatherSnapshot, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %w", ErrLookup, err)
	}
	return r.fetcher.Fetch(ctx, units, city)
}

var _ Fetcher = (*RateLimitedFetcher)(nil)

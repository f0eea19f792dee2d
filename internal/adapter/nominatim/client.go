// Package nominatim resolves place names with the OpenStreetMap Nominatim
// search API.
package nominatim

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/outbreak-etl/internal/domain"
	"github.com/couchcryptid/outbreak-etl/internal/observability"
)

const (
	// DefaultBaseURL is the public Nominatim instance.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	provider        = "nominatim"
	defaultAttempts = 3
	defaultDelay    = 500 * time.Millisecond
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	UserAgent string
	// RequestsPerSecond caps outgoing requests; the public instance allows 1.
	RequestsPerSecond float64
	Timeout           time.Duration
	Attempts          uint
	RetryDelay        time.Duration
}

// Client implements domain.GeoResolver against a Nominatim server. Requests
// are rate limited and transient failures (network errors, 429, 5xx) are
// retried.
type Client struct {
	http       *resty.Client
	limiter    *rate.Limiter
	attempts   uint
	retryDelay time.Duration
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim client. Zero option values fall back to defaults.
func NewClient(opts Options, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 1
	}
	if opts.Attempts == 0 {
		opts.Attempts = defaultAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultDelay
	}

	httpClient := resty.New().
		SetBaseURL(opts.BaseURL).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}

	return &Client{
		http:       httpClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		attempts:   opts.Attempts,
		retryDelay: opts.RetryDelay,
		metrics:    metrics,
		logger:     logger,
	}
}

// Resolve looks up the best match for searchTerm.
func (c *Client) Resolve(ctx context.Context, searchTerm string) (domain.GeocodingResult, error) {
	start := time.Now()
	result, err := c.search(ctx, searchTerm)
	c.metrics.GeocodeAPIDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.GeocodeRequests.WithLabelValues(provider, "error").Inc()
	case !result.Found():
		c.metrics.GeocodeRequests.WithLabelValues(provider, "empty").Inc()
	default:
		c.metrics.GeocodeRequests.WithLabelValues(provider, "success").Inc()
	}
	return result, err
}

func (c *Client) search(ctx context.Context, searchTerm string) (domain.GeocodingResult, error) {
	var places []place
	err := retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}
			places = nil
			resp, err := c.http.R().
				SetContext(ctx).
				SetQueryParams(map[string]string{
					"q":      searchTerm,
					"format": "json",
					"limit":  "1",
				}).
				SetResult(&places).
				Get("/search")
			if err != nil {
				return fmt.Errorf("nominatim request: %w", err)
			}
			if status := resp.StatusCode(); status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
				return fmt.Errorf("nominatim API error: status %d", status)
			}
			if resp.IsError() {
				return retry.Unrecoverable(fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode(), resp.String()))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying nominatim lookup", "attempt", n+1, "search_term", searchTerm, "error", err)
		}),
	)
	if err != nil {
		return domain.GeocodingResult{}, err
	}
	if len(places) == 0 {
		return domain.GeocodingResult{}, nil
	}
	return places[0].result()
}

// place is one entry of a Nominatim search response. Coordinates arrive as strings.
type place struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
}

func (p place) result() (domain.GeocodingResult, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("parse latitude %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("parse longitude %q: %w", p.Lon, err)
	}
	return domain.GeocodingResult{
		Lat:         lat,
		Lon:         lon,
		DisplayName: p.DisplayName,
		Confidence:  p.Importance,
	}, nil
}

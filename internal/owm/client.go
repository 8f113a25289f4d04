// Package owm is the OpenWeatherMap client: current conditions, the
// 5-day/3-hour forecast, and geocoding. Transport units are fixed to
// metric; display conversion happens in the format package.
package owm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/skycast/skycast/internal/weather"
)

const (
	defaultBaseURL = "https://api.openweathermap.org/data/2.5"
	defaultGeoURL  = "https://api.openweathermap.org/geo/1.0"

	// DefaultTimeout bounds each outbound request.
	DefaultTimeout = 8 * time.Second

	// DefaultSearchLimit caps geocoding results per query.
	DefaultSearchLimit = 5

	// minQueryLen guards search-as-you-type: shorter queries are never
	// sent to the provider.
	minQueryLen = 3
)

// Client talks to OpenWeatherMap.
type Client struct {
	apiKey  string
	baseURL string
	geoURL  string
	client  *http.Client
	timeout time.Duration

	// searchLimiter bounds geocoding request volume during typing.
	searchLimiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURLs overrides the weather and geocoding endpoints, used in
// tests against a local server.
func WithBaseURLs(base, geo string) Option {
	return func(c *Client) {
		c.baseURL = base
		c.geoURL = geo
	}
}

// WithTimeout overrides the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New creates a Client. The API key may be empty; every request then
// fails with ErrMissingAPIKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:        apiKey,
		baseURL:       defaultBaseURL,
		geoURL:        defaultGeoURL,
		client:        &http.Client{},
		timeout:       DefaultTimeout,
		searchLimiter: rate.NewLimiter(rate.Limit(2), 2),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON performs one bounded request and decodes the response into v,
// classifying every failure mode.
func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrProvider, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrProvider, err)
	}
	return nil
}

func (c *Client) weatherURL(endpoint string, query url.Values) string {
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")
	query.Set("lang", "en")
	return c.baseURL + endpoint + "?" + query.Encode()
}

func coordQuery(lat, lon float64) url.Values {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%g", lat))
	q.Set("lon", fmt.Sprintf("%g", lon))
	return q
}

func cityQuery(name string) url.Values {
	q := url.Values{}
	q.Set("q", name)
	return q
}

// FetchByCoords retrieves current conditions and the aggregated daily
// forecast for the given coordinates. The two provider requests are
// issued concurrently; if either fails the whole operation fails.
func (c *Client) FetchByCoords(ctx context.Context, lat, lon float64) (weather.Bundle, error) {
	return c.fetch(ctx, coordQuery(lat, lon), func(cur currentResponse) weather.Location {
		return weather.At(cur.Name, cur.Sys.Country, lat, lon)
	})
}

// FetchByCity is FetchByCoords for a free-text place name; the provider's
// own name resolution yields the coordinates.
func (c *Client) FetchByCity(ctx context.Context, name string) (weather.Bundle, error) {
	return c.fetch(ctx, cityQuery(name), func(cur currentResponse) weather.Location {
		return weather.At(cur.Name, cur.Sys.Country, cur.Coord.Lat, cur.Coord.Lon)
	})
}

func (c *Client) fetch(ctx context.Context, query url.Values, resolve func(currentResponse) weather.Location) (weather.Bundle, error) {
	var (
		cur currentResponse
		fc  forecastResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.getJSON(gctx, c.weatherURL("/weather", cloneValues(query)), &cur)
	})
	g.Go(func() error {
		return c.getJSON(gctx, c.weatherURL("/forecast", cloneValues(query)), &fc)
	})
	if err := g.Wait(); err != nil {
		return weather.Bundle{}, err
	}

	return weather.Bundle{
		Current:  cur.current(),
		Forecast: weather.GroupDaily(fc.samples()),
		Location: resolve(cur),
	}, nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// SearchCities resolves a partial query to candidate locations. Errors
// are logged and swallowed to an empty result so search-as-you-type never
// surfaces an error state; queries shorter than three characters are
// never sent to the provider.
func (c *Client) SearchCities(ctx context.Context, query string, limit int) []weather.Location {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryLen {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if c.apiKey == "" {
		return nil
	}

	if err := c.searchLimiter.Wait(ctx); err != nil {
		return nil
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("appid", c.apiKey)

	var results []geoResult
	if err := c.getJSON(ctx, c.geoURL+"/direct?"+q.Encode(), &results); err != nil {
		log.Printf("city search %q failed: %v", query, err)
		return nil
	}

	locs := make([]weather.Location, 0, len(results))
	for _, r := range results {
		locs = append(locs, r.location())
	}
	return locs
}

// ReverseGeocode resolves device coordinates to a canonical location.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (weather.Location, error) {
	if c.apiKey == "" {
		return weather.Location{}, ErrMissingAPIKey
	}

	q := coordQuery(lat, lon)
	q.Set("limit", "1")
	q.Set("appid", c.apiKey)

	var results []geoResult
	if err := c.getJSON(ctx, c.geoURL+"/reverse?"+q.Encode(), &results); err != nil {
		return weather.Location{}, err
	}
	if len(results) == 0 {
		return weather.Location{}, ErrNotFound
	}
	return results[0].location(), nil
}

// Package weather looks up current conditions from OpenWeatherMap and turns
// them into a routine recommendation and a coach-score penalty.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
)

const defaultBaseURL = "https://api.openweathermap.org"

var (
	// ErrUnavailable covers a missing key, network failures and bad responses
	ErrUnavailable = errors.New("weather unavailable")
	// ErrLocationNotFound is returned when geocoding finds no match for the city
	ErrLocationNotFound = errors.New("location not found")
)

// Summary is the subset of current conditions the app displays.
type Summary struct {
	City        string   `json:"city"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Temp        *float64 `json:"temp,omitempty"` // Celsius, nil when the provider omitted it
	FeelsLike   float64  `json:"feels_like"`
	Humidity    int      `json:"humidity"`
	WindSpeed   float64  `json:"wind_speed"` // m/s
}

// Client queries OpenWeatherMap. Lookups are cached per city for
// constants.WeatherCacheTTL.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	now     func() time.Time

	mu    sync.Mutex
	cache map[string]cached
}

type cached struct {
	summary *Summary
	at      time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithClock replaces time.Now for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: constants.ProviderTimeout},
		now:     time.Now,
		cache:   make(map[string]cached),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

type geoResult struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type currentResponse struct {
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      *float64 `json:"temp"`
		FeelsLike float64  `json:"feels_like"`
		Humidity  int      `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Lookup geocodes city and fetches its current weather.
func (c *Client) Lookup(ctx context.Context, city string) (*Summary, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: no OpenWeatherMap API key configured", ErrUnavailable)
	}
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("%w: empty city", ErrLocationNotFound)
	}

	key := strings.ToLower(city)
	c.mu.Lock()
	if hit, ok := c.cache[key]; ok && c.now().Sub(hit.at) < constants.WeatherCacheTTL {
		c.mu.Unlock()
		return hit.summary, nil
	}
	c.mu.Unlock()

	summary, err := c.lookup(ctx, city)
	if err != nil {
		logger.ProviderFailure("openweathermap", "weather lookup", err, "city", city)
		return nil, err
	}

	c.mu.Lock()
	c.cache[key] = cached{summary: summary, at: c.now()}
	c.mu.Unlock()
	return summary, nil
}

func (c *Client) lookup(ctx context.Context, city string) (*Summary, error) {
	var places []geoResult
	err := c.getJSON(ctx, "/geo/1.0/direct", url.Values{
		"q":     {city},
		"limit": {"1"},
	}, &places)
	if err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrLocationNotFound, city)
	}
	place := places[0]

	var cur currentResponse
	err = c.getJSON(ctx, "/data/2.5/weather", url.Values{
		"lat":   {fmt.Sprintf("%f", place.Lat)},
		"lon":   {fmt.Sprintf("%f", place.Lon)},
		"units": {"metric"},
	}, &cur)
	if err != nil {
		return nil, err
	}

	label := strings.TrimSpace(place.Name + " " + place.Country)
	if place.Name == "" {
		label = city
	}
	s := &Summary{
		City:      label,
		Temp:      cur.Main.Temp,
		FeelsLike: cur.Main.FeelsLike,
		Humidity:  cur.Main.Humidity,
		WindSpeed: cur.Wind.Speed,
	}
	if len(cur.Weather) > 0 {
		s.Description = cur.Weather[0].Description
		s.Icon = cur.Weather[0].Icon
	}
	return s, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("appid", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: HTTP request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: OpenWeatherMap error (%d): %s", ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}
	return nil
}

package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shashanksGitHub/charlie-sub010/internal/config"
	"github.com/shashanksGitHub/charlie-sub010/internal/infra/httpclient"
)

// Client calls the external forward-geocoding and timezone services.
// Construct it only when an API key is configured; without a key the
// resolver skips live lookups entirely.
type Client struct {
	cfg  config.GeocoderConfig
	http *http.Client
}

func NewClient(cfg config.GeocoderConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 4 * time.Second
	}

	return &Client{
		cfg:  cfg,
		http: httpclient.New(timeout),
	}
}

type forwardResponse struct {
	Results []struct {
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
		City    string  `json:"city"`
		Country string  `json:"country"`
	} `json:"results"`
}

type timezoneResponse struct {
	Timezone  string  `json:"timezone"`
	UTCOffset float64 `json:"utc_offset"`
}

func (c *Client) Forward(ctx context.Context, query string) (GeocodeResult, error) {
	endpoint, err := c.buildURL(c.cfg.BaseURL, url.Values{"q": {query}})
	if err != nil {
		return GeocodeResult{}, err
	}

	var decoded forwardResponse
	if err := c.getJSON(ctx, endpoint, &decoded); err != nil {
		return GeocodeResult{}, err
	}
	if len(decoded.Results) == 0 {
		return GeocodeResult{}, fmt.Errorf("no geocode results for %q", query)
	}

	first := decoded.Results[0]
	return GeocodeResult{
		Lat:     first.Lat,
		Lon:     first.Lon,
		City:    first.City,
		Country: first.Country,
	}, nil
}

func (c *Client) TimezoneAt(ctx context.Context, lat, lon float64) (TimezoneResult, error) {
	endpoint, err := c.buildURL(c.cfg.TimezoneURL, url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon": {strconv.FormatFloat(lon, 'f', -1, 64)},
	})
	if err != nil {
		return TimezoneResult{}, err
	}

	var decoded timezoneResponse
	if err := c.getJSON(ctx, endpoint, &decoded); err != nil {
		return TimezoneResult{}, err
	}
	if decoded.Timezone == "" {
		return TimezoneResult{}, fmt.Errorf("empty timezone for %.4f,%.4f", lat, lon)
	}

	return TimezoneResult{ID: decoded.Timezone, UTCOffsetHours: decoded.UTCOffset}, nil
}

func (c *Client) buildURL(base string, params url.Values) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse geocoder url: %w", err)
	}

	params.Set("api_key", c.cfg.APIKey)
	parsed.RawQuery = params.Encode()
	return parsed.String(), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build geocoder request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("geocoder request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("geocoder status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode geocoder response: %w", err)
	}
	return nil
}

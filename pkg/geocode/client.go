// Package geocode resolves free-text locations to coordinates.
package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Client resolves a location string to a latitude/longitude pair.
type Client interface {
	Geocode(ctx context.Context, location string) (*Point, error)
}

// Point is a resolved coordinate pair.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default endpoint URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a geocoding client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type geocodeResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status string `json:"status"`
}

// Geocode resolves a location string, returning the first candidate's
// coordinates. An empty candidate list is an error; the pipeline treats any
// error here as "no bias available".
func (c *httpClient) Geocode(ctx context.Context, location string) (*Point, error) {
	params := url.Values{
		"address": {location},
		"key":     {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var result geocodeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "geocode: unmarshal response")
	}

	if result.Status != "OK" || len(result.Results) == 0 {
		return nil, eris.Errorf("geocode: no results for %q (status %s)", location, result.Status)
	}

	loc := result.Results[0].Geometry.Location
	return &Point{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}

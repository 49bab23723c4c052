// Package places wraps the places text-search and details HTTP endpoints.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api"

// detailsFields limits the details response to the fields used downstream.
const detailsFields = "formatted_phone_number,international_phone_number,website,types,formatted_address"

// Client performs places API operations.
type Client interface {
	// TextSearch runs one text query, optionally biased toward a coordinate,
	// and returns at most maxResults summaries. A provider error is returned
	// as an error, never as an empty list.
	TextSearch(ctx context.Context, query string, opts SearchOptions) ([]Summary, error)

	// Details fetches enriched attributes for a place id. Every field of the
	// result is optional.
	Details(ctx context.Context, placeID string) (*Details, error)
}

// Bias is a coordinate the text search should prefer results near.
type Bias struct {
	Latitude  float64
	Longitude float64
}

// SearchOptions tunes a single TextSearch call.
type SearchOptions struct {
	Bias         *Bias
	RadiusMeters int // used only when Bias is set; 0 means the default 40km
	MaxResults   int // 0 means no truncation
}

// Summary is one place as returned by text search.
type Summary struct {
	PlaceID     string   `json:"place_id"`
	Name        string   `json:"name"`
	Types       []string `json:"types"`
	Address     string   `json:"formatted_address"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"user_ratings_total"`
}

// Details holds the enriched attributes of a place. The endpoint may omit
// any of them.
type Details struct {
	Phone              string   `json:"formatted_phone_number"`
	InternationalPhone string   `json:"international_phone_number"`
	Website            string   `json:"website"`
	Types              []string `json:"types"`
	Address            string   `json:"formatted_address"`
}

// BestPhone returns the formatted phone, falling back to the international
// form when the formatted one is absent.
func (d *Details) BestPhone() string {
	if d.Phone != "" {
		return d.Phone
	}
	return d.InternationalPhone
}

// ExternalURL builds the public deep link for a place id.
func ExternalURL(placeID string) string {
	return "https://www.google.com/maps/place/?q=place_id:" + placeID
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
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

// NewClient creates a places API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type textSearchResponse struct {
	Results      []Summary `json:"results"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message"`
}

func (c *httpClient) TextSearch(ctx context.Context, query string, opts SearchOptions) ([]Summary, error) {
	params := url.Values{
		"query": {query},
		"key":   {c.apiKey},
	}
	if opts.Bias != nil {
		radius := opts.RadiusMeters
		if radius <= 0 {
			radius = 40000
		}
		params.Set("location", fmt.Sprintf("%f,%f", opts.Bias.Latitude, opts.Bias.Longitude))
		params.Set("radius", fmt.Sprintf("%d", radius))
	}

	var result textSearchResponse
	if err := c.get(ctx, "/place/textsearch/json", params, &result); err != nil {
		return nil, err
	}

	// ZERO_RESULTS is a valid empty answer; anything else non-OK is a
	// provider failure and must surface as one.
	if result.Status != "OK" && result.Status != "ZERO_RESULTS" {
		if result.ErrorMessage != "" {
			return nil, eris.Errorf("places: text search status %s: %s", result.Status, result.ErrorMessage)
		}
		return nil, eris.Errorf("places: text search status %s", result.Status)
	}

	summaries := result.Results
	if opts.MaxResults > 0 && len(summaries) > opts.MaxResults {
		summaries = summaries[:opts.MaxResults]
	}
	return summaries, nil
}

type detailsResponse struct {
	Result Details `json:"result"`
	Status string  `json:"status"`
}

func (c *httpClient) Details(ctx context.Context, placeID string) (*Details, error) {
	params := url.Values{
		"place_id": {placeID},
		"fields":   {detailsFields},
		"key":      {c.apiKey},
	}

	var result detailsResponse
	if err := c.get(ctx, "/place/details/json", params, &result); err != nil {
		return nil, err
	}
	if result.Status != "OK" {
		return nil, eris.Errorf("places: details status %s for %s", result.Status, placeID)
	}
	return &result.Result, nil
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return eris.Wrap(err, "places: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "places: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "places: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("places: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "places: unmarshal response")
	}
	return nil
}

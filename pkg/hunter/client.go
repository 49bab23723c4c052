// Package hunter wraps the verified-contact-lookup (domain search) API.
package hunter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.hunter.io/v2"

// ErrRateLimited is returned when the provider answers 429. Callers treat it
// as "no result" for flow purposes but should log it distinctly.
var ErrRateLimited = eris.New("hunter: rate limited (429)")

// Client looks up verified contact emails for a domain.
type Client interface {
	DomainSearch(ctx context.Context, domain string) ([]Contact, error)
}

// Contact is one verified contact returned by domain search.
type Contact struct {
	Email    string `json:"value"`
	Position string `json:"position"`
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

// WithLimit caps how many contacts one lookup requests.
func WithLimit(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithRateLimit paces DomainSearch calls to stay under the provider's
// requests-per-second ceiling. The wait happens before each request and is a
// visible latency cost across records, not a retry mechanism.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	limit   int
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a domain-search client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		limit:   3,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		// Default pacing matches the 1.5s inter-call delay the provider's
		// free tier tolerates.
		limiter: rate.NewLimiter(rate.Limit(0.66), 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type domainSearchResponse struct {
	Data struct {
		Emails []Contact `json:"emails"`
	} `json:"data"`
}

func (c *httpClient) DomainSearch(ctx context.Context, domain string) ([]Contact, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "hunter: rate limiter wait")
	}

	params := url.Values{
		"domain":  {domain},
		"api_key": {c.apiKey},
		"limit":   {fmt.Sprintf("%d", c.limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/domain-search?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "hunter: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "hunter: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "hunter: read response")
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("hunter: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result domainSearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "hunter: unmarshal response")
	}

	contacts := make([]Contact, 0, len(result.Data.Emails))
	for _, c := range result.Data.Emails {
		if c.Email != "" {
			contacts = append(contacts, c)
		}
	}
	return contacts, nil
}

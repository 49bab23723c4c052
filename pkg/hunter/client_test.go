package hunter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/domain-search", r.URL.Path)
		assert.Equal(t, "acme.com", r.URL.Query().Get("domain"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		w.Write([]byte(`{
			"data": {
				"emails": [
					{"value": "jane@acme.com", "position": "Operations Manager"},
					{"value": "", "position": "ghost entry"},
					{"value": "info@acme.com"}
				]
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1000))
	contacts, err := c.DomainSearch(context.Background(), "acme.com")
	require.NoError(t, err)

	// Entries without an email are dropped, order preserved.
	require.Len(t, contacts, 2)
	assert.Equal(t, "jane@acme.com", contacts[0].Email)
	assert.Equal(t, "Operations Manager", contacts[0].Position)
	assert.Equal(t, "info@acme.com", contacts[1].Email)
}

func TestDomainSearchRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1000))
	_, err := c.DomainSearch(context.Background(), "acme.com")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrRateLimited))
}

func TestDomainSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1000))
	_, err := c.DomainSearch(context.Background(), "acme.com")
	require.Error(t, err)
	assert.False(t, eris.Is(err, ErrRateLimited))
	assert.Contains(t, err.Error(), "500")
}

func TestDomainSearchLimitOption(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"data": {"emails": []}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithLimit(5), WithRateLimit(1000))
	contacts, err := c.DomainSearch(context.Background(), "acme.com")
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestDomainSearchRespectsContext(t *testing.T) {
	c := NewClient("test-key", WithRateLimit(0.0001))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.DomainSearch(ctx, "acme.com")
	require.Error(t, err)
}

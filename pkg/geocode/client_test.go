package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Austin, TX", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write([]byte(`{
			"status": "OK",
			"results": [
				{"geometry": {"location": {"lat": 30.2672, "lng": -97.7431}}},
				{"geometry": {"location": {"lat": 1.0, "lng": 2.0}}}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	pt, err := c.Geocode(context.Background(), "Austin, TX")
	require.NoError(t, err)

	// First candidate wins.
	assert.InDelta(t, 30.2672, pt.Latitude, 0.0001)
	assert.InDelta(t, -97.7431, pt.Longitude, 0.0001)
}

func TestGeocodeNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := c.Geocode(context.Background(), "Nowhereville")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ZERO_RESULTS")
}

func TestGeocodeHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := c.Geocode(context.Background(), "Austin, TX")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

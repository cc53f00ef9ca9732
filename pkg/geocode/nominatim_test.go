package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominatimReverseGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "19.0968", r.URL.Query().Get("lat"))
		assert.Equal(t, "72.8265", r.URL.Query().Get("lon"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"display_name": "Juhu Beach, Mumbai, Maharashtra, India"}`))
	}))
	defer server.Close()

	provider := NewNominatimProvider(server.URL, "test-agent", 5*time.Second)

	name, err := provider.ReverseGeocode(context.Background(), 19.0968, 72.8265)
	require.NoError(t, err)
	assert.Equal(t, "Juhu Beach, Mumbai, Maharashtra, India", name)
}

func TestNominatimReverseGeocodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, ""},
		{"rate limited", http.StatusTooManyRequests, ""},
		{"empty display name", http.StatusOK, `{"display_name": ""}`},
		{"malformed body", http.StatusOK, `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider := NewNominatimProvider(server.URL, "test-agent", 5*time.Second)

			_, err := provider.ReverseGeocode(context.Background(), 19.0, 72.8)
			assert.Error(t, err)
		})
	}
}

func TestNominatimContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	provider := NewNominatimProvider(server.URL, "test-agent", 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := provider.ReverseGeocode(ctx, 19.0, 72.8)
	assert.Error(t, err)
}

package currency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Rate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/2023-06-30", r.URL.Path)
		assert.Equal(t, "inr", r.URL.Query().Get("base"))
		assert.Equal(t, "usd", r.URL.Query().Get("symbols"))
		assert.Equal(t, "1", r.URL.Query().Get("amount"))
		w.Write([]byte(`{"rates":{"USD":0.012}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	rate, err := client.Rate(context.Background(), "2023-06-30", "INR", "USD")
	require.NoError(t, err)
	assert.Equal(t, 0.012, rate)
}

func TestClient_RateUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no rates for date", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Rate(context.Background(), "1800-01-01", "INR", "USD")
	assert.ErrorContains(t, err, "404")
}

func TestClient_RateMissingSymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Rate(context.Background(), "latest", "INR", "USD")
	assert.ErrorContains(t, err, "missing symbol")
}

func TestClient_Convert(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{"INR":83.5}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	amount, err := client.Convert(context.Background(), "latest", "USD", "INR", 2)
	require.NoError(t, err)
	assert.InDelta(t, 167.0, amount, 1e-9)
}

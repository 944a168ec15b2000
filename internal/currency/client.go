// Package currency talks to the exchange-rate microservice and annotates
// metric records with converted values.
package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client fetches conversion rates from the exchange-rate service.
// Lookups are idempotent and side-effect free.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a rate-lookup client for the given service base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// rateResponse is the service's wire shape: {"rates": {"USD": 0.012}}.
type rateResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// Rate returns how much one unit of base is worth in symbol on the given
// date ("latest" for the current rate).
func (c *Client) Rate(ctx context.Context, date, base, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/v1/%s?base=%s&symbols=%s&amount=1",
		c.baseURL,
		url.PathEscape(date),
		url.QueryEscape(strings.ToLower(base)),
		url.QueryEscape(strings.ToLower(symbol)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rate lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("rate lookup returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("failed to decode rate response: %w", err)
	}

	rate, ok := decoded.Rates[strings.ToUpper(symbol)]
	if !ok {
		return 0, fmt.Errorf("rate response missing symbol %s", strings.ToUpper(symbol))
	}
	return rate, nil
}

// Convert returns amount converted from base into symbol at the given date.
func (c *Client) Convert(ctx context.Context, date, base, symbol string, amount float64) (float64, error) {
	rate, err := c.Rate(ctx, date, base, symbol)
	if err != nil {
		return 0, err
	}
	return amount * rate, nil
}

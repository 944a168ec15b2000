// Package graphql provides a thin client for the Hasura data warehouse.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/portfolio-insights/internal/circuitbreaker"
	"github.com/portfolio-insights/internal/logging"
)

// Client executes queries against a Hasura GraphQL endpoint. Calls are
// guarded by a circuit breaker so a degraded warehouse fails fast instead
// of tying up request handlers.
type Client struct {
	endpoint    string
	adminSecret string
	httpClient  *http.Client
	breaker     *circuitbreaker.CircuitBreaker
}

// NewClient creates a new warehouse client
func NewClient(endpoint, adminSecret string) *Client {
	return &Client{
		endpoint:    endpoint,
		adminSecret: adminSecret,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		breaker:     circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("graphql")),
	}
}

// Error is a single error entry in a GraphQL response body
type Error struct {
	Message string `json:"message"`
}

func (e Error) Error() string {
	return e.Message
}

// Response is the standard GraphQL response envelope
type Response struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []Error                    `json:"errors,omitempty"`
}

// Records returns the rows under the given entity key as generic maps.
// An absent key yields an empty slice, never nil.
func (r *Response) Records(entity string) []map[string]interface{} {
	rows := []map[string]interface{}{}
	raw, ok := r.Data[entity]
	if !ok {
		return rows
	}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return []map[string]interface{}{}
	}
	return rows
}

// Decode unmarshals the rows under the given entity key into out.
// An absent key leaves out untouched and returns nil.
func (r *Response) Decode(entity string, out interface{}) error {
	raw, ok := r.Data[entity]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s rows: %w", entity, err)
	}
	return nil
}

type request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// Query posts a query with variables and returns the decoded envelope.
// Response-body errors are logged and surfaced as an error alongside
// whatever data the warehouse returned.
func (c *Client) Query(ctx context.Context, query string, variables map[string]interface{}) (*Response, error) {
	if variables == nil {
		variables = map[string]interface{}{}
	}

	var response *Response
	err := c.breaker.Execute(ctx, func() error {
		var execErr error
		response, execErr = c.post(ctx, query, variables)
		return execErr
	})
	if err != nil {
		return nil, err
	}

	if len(response.Errors) > 0 {
		logging.FromContext(ctx).WithField("errors", response.Errors).Error("GraphQL query returned errors")
		return response, fmt.Errorf("graphql query failed: %s", response.Errors[0].Message)
	}

	return response, nil
}

func (c *Client) post(ctx context.Context, query string, variables map[string]interface{}) (*Response, error) {
	payload, err := json.Marshal(request{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.adminSecret != "" {
		req.Header.Set("x-hasura-admin-secret", c.adminSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graphql request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graphql endpoint returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var response Response
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &response, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// BuildEntityQuery generates the standard single-entity query: all given
// fields, optionally filtered by equality on whereField. The variable name
// matches the field name, the way the warehouse tables are queried
// everywhere in this service.
//
//	query Getasset_details($Asset_Name: String!) {
//	  asset_details(where: {Asset_Name: {_eq: $Asset_Name}}) {
//	    ...
//	  }
//	}
func BuildEntityQuery(entity string, fields []string, whereField string) string {
	body := strings.Join(fields, "\n        ")
	if whereField == "" {
		return fmt.Sprintf(`
    query Get%s {
      %s {
        %s
      }
    }
  `, entity, entity, body)
	}

	return fmt.Sprintf(`
    query Get%s($%s: String!) {
      %s(where: {%s: {_eq: $%s}}) {
        %s
      }
    }
  `, entity, whereField, entity, whereField, whereField, body)
}

// BuildDistinctQuery generates a distinct_on listing of one field,
// optionally filtered by equality on filterField.
func BuildDistinctQuery(entity, distinctField, filterField string) string {
	if filterField == "" {
		return fmt.Sprintf(`
    query Get%s {
      %s(distinct_on: %s) {
        %s
      }
    }
  `, entity, entity, distinctField, distinctField)
	}

	return fmt.Sprintf(`
    query Get%s($%s: String!) {
      %s(distinct_on: %s, where: {%s: {_eq: $%s}}) {
        %s
      }
    }
  `, entity, filterField, entity, distinctField, filterField, filterField, distinctField)
}

// Package sparql provides the client for the triplestore's SPARQL
// endpoint: SELECT queries over the JSON results protocol, updates, a
// typed triple-pattern query builder and batched pagination of large
// result sets. All values embedded into query text are escaped through
// this package and the rdf package, never by hand.
package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "enrich_submission_sparql_requests_total",
	Help: "SPARQL requests issued against the triplestore, by kind and outcome.",
}, []string{"kind", "outcome"})

// Client talks to a single SPARQL endpoint. It identifies itself as a
// sudo service so the triplestore bypasses per-session authorization,
// mirroring how the rest of the automatic submission flow operates.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the given SPARQL endpoint URL.
func NewClient(endpoint string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// SetHTTPClient replaces the underlying HTTP client, mainly for tests
// and for callers that need different timeout behavior.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// Query executes a SELECT query and returns the parsed JSON results.
func (c *Client) Query(ctx context.Context, query string) (*Results, error) {
	body, err := c.post(ctx, "query", query, "application/sparql-results+json")
	if err != nil {
		queriesTotal.WithLabelValues("query", "error").Inc()
		return nil, err
	}
	queriesTotal.WithLabelValues("query", "ok").Inc()

	var results Results
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("parse query results: %w", err)
	}
	return &results, nil
}

// Update executes an INSERT/DELETE update against the endpoint.
func (c *Client) Update(ctx context.Context, update string) error {
	if _, err := c.post(ctx, "update", update, ""); err != nil {
		queriesTotal.WithLabelValues("update", "error").Inc()
		return err
	}
	queriesTotal.WithLabelValues("update", "ok").Inc()
	return nil
}

func (c *Client) post(ctx context.Context, param, text, accept string) ([]byte, error) {
	form := url.Values{}
	form.Set(param, text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", param, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("mu-auth-sudo", "true")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute %s: %w", param, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", param, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("SPARQL request rejected",
			"status", resp.StatusCode,
			"body", truncate(string(body), 500))
		return nil, fmt.Errorf("%s rejected with status %d", param, resp.StatusCode)
	}
	return body, nil
}

// QueryCount executes a query whose single binding is a ?count variable
// and returns its integer value.
func (c *Client) QueryCount(ctx context.Context, query string) (int, error) {
	results, err := c.Query(ctx, query)
	if err != nil {
		return 0, err
	}
	if len(results.Results.Bindings) == 0 {
		return 0, fmt.Errorf("count query returned no rows")
	}
	raw := results.Results.Bindings[0].Literal("count")
	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse count %q: %w", raw, err)
	}
	return count, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

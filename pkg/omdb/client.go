// Package omdb is the client for the upstream OMDb metadata API.
//
// Every request carries the configured API key. Transient failures
// (network errors, per-attempt timeouts, and a fixed set of HTTP status
// codes) are retried with exponential backoff; a well-formed response
// that signals failure in its payload is surfaced immediately as an
// *APIError and never retried.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/alicanaksel/Cineseek/pkg/config"
	"github.com/alicanaksel/Cineseek/pkg/metrics"
	"github.com/alicanaksel/Cineseek/pkg/models"
)

// APIError is a logical upstream failure: HTTP 200 with a payload
// marking the request unsuccessful (not found, invalid key, rate limit
// reported in-band).
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "omdb: " + e.Message
}

// StatusError is a non-success HTTP status from upstream, surfaced
// after any applicable retries.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("omdb: upstream status %d", e.Code)
}

// Client issues authenticated GET requests against the OMDb API.
// Construct once at process start and inject everywhere; there is no
// package-level session state.
type Client struct {
	apiKey     string
	baseURL    string
	httpc      *http.Client
	maxRetries int
	backoff    time.Duration
}

// New creates a Client from config. A nil httpc gets a client bound by
// the configured per-attempt timeout.
func New(cfg config.OMDbConfig, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: cfg.Timeout}
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 300 * time.Millisecond
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpc:      httpc,
		maxRetries: cfg.MaxRetries,
		backoff:    backoff,
	}
}

// retryable reports whether an HTTP status warrants another attempt.
func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Fetch calls the API with the given query parameters and returns the
// raw JSON payload of a successful response.
func (c *Client) Fetch(ctx context.Context, params url.Values) ([]byte, error) {
	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("apikey", c.apiKey)
	target := c.baseURL + "?" + q.Encode()

	start := time.Now()
	body, err := c.fetchWithRetry(ctx, target)
	metrics.UpstreamDuration.Observe(time.Since(start).Seconds())

	var apiErr *APIError
	switch {
	case err == nil:
		metrics.UpstreamRequests.WithLabelValues(models.OutcomeOK).Inc()
	case errors.As(err, &apiErr):
		metrics.UpstreamRequests.WithLabelValues(models.OutcomeNotFound).Inc()
	default:
		metrics.UpstreamRequests.WithLabelValues(models.OutcomeError).Inc()
	}
	return body, err
}

func (c *Client) fetchWithRetry(ctx context.Context, target string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			metrics.UpstreamRetries.Inc()
			wait := c.backoff * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, retry, err := c.do(ctx, target)
		if err == nil {
			return body, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("retries exhausted: %w", lastErr)
}

// do performs a single attempt. The second return value reports whether
// the failure is transient.
func (c *Client) do(ctx context.Context, target string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		// Network errors and timeouts are transient.
		return nil, true, fmt.Errorf("omdb: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("omdb: read response: %w", err)
	}

	if retryable(resp.StatusCode) {
		return nil, true, &StatusError{Code: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, &StatusError{Code: resp.StatusCode}
	}

	// A 200 can still be a logical failure.
	var probe struct {
		Response string `json:"Response"`
		Error    string `json:"Error"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, false, fmt.Errorf("omdb: decode response: %w", err)
	}
	if probe.Response == "False" {
		msg := probe.Error
		if msg == "" {
			msg = "Not found"
		}
		return nil, false, &APIError{Message: msg}
	}

	return body, false, nil
}

// DecodeSearch parses a raw search payload.
func DecodeSearch(data []byte) (*models.SearchPayload, error) {
	var p models.SearchPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("omdb: decode search: %w", err)
	}
	return &p, nil
}

// DecodeTitle parses a raw detail payload.
func DecodeTitle(data []byte) (*models.Title, error) {
	var t models.Title
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("omdb: decode title: %w", err)
	}
	return &t, nil
}

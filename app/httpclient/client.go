package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"time"
)

const (
	DefaultMaxAttempts = 3

	baseDelay     = 500 * time.Millisecond
	maxDelay      = 10 * time.Second
	backoffFactor = 2.0
	jitterFactor  = 0.3
)

// Client wraps a pooled http.Client with bounded retry on transient
// failures (network errors, 429 and 5xx responses) and a browser-like
// User-Agent applied to every outbound request. All components share a
// single instance.
type Client struct {
	httpClient  *http.Client
	userAgent   string
	maxAttempts int
}

func New(timeout time.Duration, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent:   userAgent,
		maxAttempts: DefaultMaxAttempts,
	}
}

// Do executes the request, retrying transient failures with exponential
// backoff. Request bodies are buffered up front so each attempt replays
// the same payload.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	var body []byte
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to buffer request body: %w", err)
		}
		body = data
	}

	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if body != nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		resp, err := c.httpClient.Do(req)
		if err == nil && !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
			// Drain so the connection can be reused for the retry
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		if attempt == c.maxAttempts {
			break
		}

		delay := backoffDelay(attempt)
		slog.Debug("Retrying request",
			"method", req.Method,
			"url", req.URL.String(),
			"attempt", attempt,
			"delay", delay,
			"error", lastErr)

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *Client) Get(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.Do(req)
}

func (c *Client) PostJSON(url string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.Do(req)
}

func (c *Client) PostJSONWithAuth(url string, payload []byte, bearer string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)
	return c.Do(req)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

func backoffDelay(attempt int) time.Duration {
	delay := float64(baseDelay) * math.Pow(backoffFactor, float64(attempt-1))

	if delay > float64(maxDelay) {
		delay = float64(maxDelay)
	}

	jitter := 1.0 + (rand.Float64()-0.5)*jitterFactor
	delay *= jitter

	return time.Duration(delay)
}

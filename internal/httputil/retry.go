package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

var DefaultRetry = RetryConfig{
	MaxAttempts: 3,
	BaseDelay:   1 * time.Second,
	MaxDelay:    10 * time.Second,
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultRetry.MaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = DefaultRetry.BaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = DefaultRetry.MaxDelay
	}
	return c
}

// backoff returns the delay before the given retry (1-based), doubling
// from BaseDelay and capped at MaxDelay.
func (c RetryConfig) backoff(retry int) time.Duration {
	d := c.BaseDelay
	for i := 1; i < retry; i++ {
		d *= 2
		if d >= c.MaxDelay {
			return c.MaxDelay
		}
	}
	if d > c.MaxDelay {
		return c.MaxDelay
	}
	return d
}

// Do executes an HTTP request with exponential backoff retry. Responses
// below 500 are returned as-is; 5xx responses and transport errors are
// retried. The buildReq function produces a fresh request per attempt
// since request bodies are consumed on send.
func Do(ctx context.Context, client *http.Client, cfg RetryConfig, buildReq func() (*http.Request, error)) (*http.Response, error) {
	cfg = cfg.withDefaults()

	var lastErr error
	for attempt := 1; ; attempt++ {
		req, err := buildReq()
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := client.Do(req)
		switch {
		case err != nil:
			lastErr = err
		case resp.StatusCode >= 500:
			lastErr = drainError(resp)
		default:
			return resp, nil
		}

		if attempt >= cfg.MaxAttempts {
			return nil, fmt.Errorf("all %d attempts failed, last error: %w", cfg.MaxAttempts, lastErr)
		}

		delay := cfg.backoff(attempt)
		fmt.Printf("[RETRY] Attempt %d/%d failed: %v - retrying in %s\n",
			attempt, cfg.MaxAttempts, lastErr, delay)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

func drainError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	resp.Body.Close()
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
}

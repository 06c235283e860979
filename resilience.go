package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"syscall"
	"time"

	"github.com/voocel/gemini/providers"
)

// ResilienceConfig and defaults are sourced from providers; re-exported here to keep the public API small.
type ResilienceConfig = providers.ResilienceConfig

// DefaultResilienceConfig disables retries.
func DefaultResilienceConfig() ResilienceConfig {
	return providers.DefaultResilienceConfig()
}

// ResilientHTTPClient retries failed calls with exponential backoff. With
// MaxRetries at zero it is a plain pass-through.
type ResilientHTTPClient struct {
	client providers.HTTPDoer
	config ResilienceConfig
}

// NewResilientHTTPClient creates a pooled client that retries per config.
func NewResilientHTTPClient(config ResilienceConfig) *ResilientHTTPClient {
	return WrapResilient(providers.NewHTTPClient(config), config)
}

// WrapResilient adds retries to an existing doer.
func WrapResilient(client providers.HTTPDoer, config ResilienceConfig) *ResilientHTTPClient {
	return &ResilientHTTPClient{client: client, config: config}
}

// Do executes req, retrying network failures and retryable statuses. The
// response of the last attempt is returned as is, so that callers see the
// backend's own status and body.
func (c *ResilientHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if c.config.MaxRetries <= 0 {
		return c.client.Do(req)
	}
	if req.Body != nil && req.GetBody == nil {
		return nil, fmt.Errorf("request body cannot be replayed for retries")
	}

	for attempt := 0; ; attempt++ {
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("failed to get request body: %w", err)
			}
			req.Body = body
		}

		resp, err := c.client.Do(req)
		last := attempt == c.config.MaxRetries
		switch {
		case err == nil && (!isRetryableStatusCode(resp.StatusCode) || last):
			return resp, nil
		case err != nil && (!isRetryableError(err) || last):
			return nil, err
		}

		// Prefer server-provided Retry-After over exponential backoff
		delay := parseRetryAfter(resp)
		if delay == 0 {
			delay = c.calculateDelay(attempt)
		}
		if resp != nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-req.Context().Done():
			timer.Stop()
			return nil, req.Context().Err()
		}
	}
}

// calculateDelay calculates retry delay with exponential backoff and jitter
func (c *ResilientHTTPClient) calculateDelay(attempt int) time.Duration {
	delay := float64(c.config.InitialDelay) * math.Pow(c.config.Multiplier, float64(attempt))
	if c.config.MaxDelay > 0 && delay > float64(c.config.MaxDelay) {
		delay = float64(c.config.MaxDelay)
	}

	if c.config.Jitter {
		// +/-25%
		jitter := delay * 0.25 * (2*rand.Float64() - 1)
		delay += jitter
		if delay < 0 {
			delay = float64(c.config.InitialDelay)
		}
	}

	return time.Duration(delay)
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Checked before net.Error: context.DeadlineExceeded implements it.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func isRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// parseRetryAfter reads a Retry-After header in delta-seconds or HTTP-date
// form. It returns 0 when the header is absent or unusable.
func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	val := resp.Header.Get("Retry-After")
	if val == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(val); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(val); err == nil {
		if delay := time.Until(t); delay > 0 {
			return delay
		}
	}
	return 0
}

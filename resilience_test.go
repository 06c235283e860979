package gemini

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetries(n int) ResilienceConfig {
	cfg := DefaultResilienceConfig()
	cfg.MaxRetries = n
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond
	return cfg
}

func post(t *testing.T, url string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader([]byte(`{"a":1}`)))
	require.NoError(t, err)
	return req
}

func TestResilientHTTPClient_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(data))
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	client := WrapResilient(srv.Client(), fastRetries(3))
	resp, err := client.Do(post(t, srv.URL))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 3, calls.Load())
	assert.Equal(t, []string{`{"a":1}`, `{"a":1}`, `{"a":1}`}, bodies, "body is replayed on each attempt")
}

func TestResilientHTTPClient_LastResponseReturned(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, "overloaded")
	}))
	defer srv.Close()

	resp, err := WrapResilient(srv.Client(), fastRetries(2)).Do(post(t, srv.URL))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "overloaded", string(body))
	assert.EqualValues(t, 3, calls.Load())
}

func TestResilientHTTPClient_PassThrough(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	resp, err := WrapResilient(srv.Client(), DefaultResilienceConfig()).Do(post(t, srv.URL))
	require.NoError(t, err)
	resp.Body.Close()

	assert.EqualValues(t, 1, calls.Load())
}

func TestResilientHTTPClient_NonRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	resp, err := WrapResilient(srv.Client(), fastRetries(3)).Do(post(t, srv.URL))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.EqualValues(t, 1, calls.Load())
}

func TestResilientHTTPClient_ContextCanceledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := post(t, srv.URL).WithContext(ctx)

	_, err := WrapResilient(srv.Client(), fastRetries(3)).Do(req)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestParseRetryAfter(t *testing.T) {
	header := func(v string) *http.Response {
		return &http.Response{Header: http.Header{"Retry-After": []string{v}}}
	}

	assert.Equal(t, 3*time.Second, parseRetryAfter(header("3")))
	assert.Zero(t, parseRetryAfter(header("0")))
	assert.Zero(t, parseRetryAfter(header("soon")))
	assert.Zero(t, parseRetryAfter(&http.Response{Header: http.Header{}}))
	assert.Zero(t, parseRetryAfter(nil))

	future := time.Now().Add(time.Minute).UTC().Format(http.TimeFormat)
	d := parseRetryAfter(header(future))
	assert.Greater(t, d, 50*time.Second)
	assert.LessOrEqual(t, d, time.Minute)
}

func TestCalculateDelay(t *testing.T) {
	cfg := fastRetries(5)
	cfg.Jitter = false
	c := WrapResilient(http.DefaultClient, cfg)

	assert.Equal(t, time.Millisecond, c.calculateDelay(0))
	assert.Equal(t, 2*time.Millisecond, c.calculateDelay(1))
	assert.Equal(t, 4*time.Millisecond, c.calculateDelay(2))
	assert.Equal(t, 5*time.Millisecond, c.calculateDelay(5), "capped at MaxDelay")
}

func TestIsRetryableStatusCode(t *testing.T) {
	for _, code := range []int{429, 500, 502, 503, 504} {
		assert.True(t, isRetryableStatusCode(code), code)
	}
	for _, code := range []int{200, 400, 401, 404} {
		assert.False(t, isRetryableStatusCode(code), code)
	}
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, isRetryableError(nil))
	assert.False(t, isRetryableError(context.Canceled))
	assert.False(t, isRetryableError(context.DeadlineExceeded))
}

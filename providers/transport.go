package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PendingResponse is a dispatched call whose body has not been consumed.
// The caller owns Body and must close it.
type PendingResponse struct {
	CallID     string
	StatusCode int
	Body       io.ReadCloser
}

// OK reports a 2xx status.
func (r *PendingResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport posts compiled requests to a Backend.
type Transport struct {
	backend Backend
	client  HTTPDoer
	logger  *slog.Logger
}

// NewTransport creates a transport for backend. A nil client or logger is
// replaced with the defaults.
func NewTransport(backend Backend, client HTTPDoer, logger *slog.Logger) *Transport {
	if client == nil {
		client = NewHTTPClient(DefaultResilienceConfig())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{backend: backend, client: client, logger: logger}
}

// Dispatch sends wire to endpoint. A positive timeout bounds the whole call,
// including reading the body; the deadline is released when Body is closed.
// Authorization failures and I/O errors come back as *Error values.
func (t *Transport) Dispatch(ctx context.Context, endpoint string, wire any, timeout time.Duration) (*PendingResponse, error) {
	name := backendName(t.backend)

	payload, err := json.Marshal(wire)
	if err != nil {
		return nil, NewErrorWithCause(ErrorTypeInternal, fmt.Sprintf("%s: marshal request: %v", name, err), err)
	}

	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		cancel()
		return nil, NewErrorWithCause(ErrorTypeInternal, fmt.Sprintf("%s: create request: %v", name, err), err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if strings.Contains(endpoint, "alt=sse") {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	if err := t.backend.Authorize(ctx, httpReq); err != nil {
		cancel()
		return nil, wrapTransportError(name, err)
	}

	callID := uuid.NewString()
	start := time.Now()
	resp, err := t.client.Do(httpReq)
	if err != nil {
		cancel()
		t.logger.Debug("dispatch failed", "call_id", callID, "error", err)
		return nil, wrapTransportError(name, err)
	}
	t.logger.Debug("dispatched",
		"call_id", callID,
		"endpoint", redactEndpoint(endpoint),
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	return &PendingResponse{
		CallID:     callID,
		StatusCode: resp.StatusCode,
		Body:       &cancelOnClose{ReadCloser: resp.Body, cancel: cancel},
	}, nil
}

// readFailure drains a non-2xx response into a transport error.
func (t *Transport) readFailure(resp *PendingResponse) error {
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	name := backendName(t.backend)
	t.logger.Warn("request failed", "call_id", resp.CallID, "status", resp.StatusCode)
	return NewHTTPError(name, resp.StatusCode, string(body))
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

// redactEndpoint drops the query string from logged endpoints.
func redactEndpoint(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		return endpoint[:i]
	}
	return endpoint
}

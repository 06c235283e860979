package providers

import (
	"context"
	"fmt"
	"io"
	"time"
)

// GeminiProvider runs completions against a Gemini Backend.
type GeminiProvider struct {
	*BaseProvider
	backend   Backend
	transport *Transport
}

// NewGemini creates a provider for backend. The provider's name follows the
// backend so that errors say which deployment failed.
func NewGemini(backend Backend, config ProviderConfig) *GeminiProvider {
	base := NewBaseProvider(backendName(backend), config)
	return &GeminiProvider{
		BaseProvider: base,
		backend:      backend,
		transport:    NewTransport(backend, base.HTTPClient(), base.Logger()),
	}
}

func (p *GeminiProvider) Validate() error {
	if p.backend == nil {
		return NewValidationError(p.Name(), "backend is required")
	}
	if v, ok := p.backend.(Validator); ok {
		return v.Validate()
	}
	return nil
}

// Complete performs one generateContent call and decodes the result.
func (p *GeminiProvider) Complete(ctx context.Context, req Request, model string) (*Completion, error) {
	resp, err := p.dispatch(ctx, req, model, MethodGenerateContent)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapTransportError(p.Name(), fmt.Errorf("read response: %w", err))
	}

	completion, err := DecodeCompletion(body)
	if err != nil {
		p.Logger().Debug("decode failed", "call_id", resp.CallID, "model", model, "error", err)
		derr := NewDecodeError(p.Name(), err)
		derr.Model = model
		return nil, derr
	}
	p.Logger().Debug("completion",
		"call_id", resp.CallID,
		"model", model,
		"prompt_tokens", completion.PromptTokens,
		"completion_tokens", completion.CompletionTokens,
		"finish_reason", completion.FinishReason,
	)
	return completion, nil
}

// Stream performs one streamGenerateContent call. The returned stream owns
// the response body; the caller must drain or Close it.
func (p *GeminiProvider) Stream(ctx context.Context, req Request, model string) (*EventStream, error) {
	resp, err := p.dispatch(ctx, req, model, MethodStreamGenerateContent)
	if err != nil {
		return nil, err
	}

	stream := NewEventStream(resp.Body)
	stream.provider = p.Name()
	logger := p.Logger()
	callID := resp.CallID
	start := time.Now()
	stream.onDone = func(emitted int) {
		logger.Debug("stream finished",
			"call_id", callID,
			"model", model,
			"events", emitted,
			"elapsed", time.Since(start),
		)
	}
	return stream, nil
}

func (p *GeminiProvider) dispatch(ctx context.Context, req Request, model, method string) (*PendingResponse, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := p.ValidateRequest(req, model); err != nil {
		return nil, err
	}

	wire := Compile(req, model)
	endpoint := p.backend.Endpoint(model, method)

	resp, err := p.transport.Dispatch(ctx, endpoint, wire, p.timeout(req))
	if err != nil {
		return nil, withModel(err, model)
	}
	if !resp.OK() {
		return nil, withModel(p.transport.readFailure(resp), model)
	}
	return resp, nil
}

// timeout picks the per-request setting over the provider default.
func (p *GeminiProvider) timeout(req Request) time.Duration {
	if req.Settings != nil && req.Settings.Timeout != nil {
		return *req.Settings.Timeout
	}
	return p.Config().Timeout
}

func withModel(err error, model string) error {
	if e, ok := err.(*Error); ok && e.Model == "" {
		e.Model = model
	}
	return err
}

var _ Provider = (*GeminiProvider)(nil)

package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"

	"github.com/voocel/gemini/providers"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Client is bound to one backend and one model.
type Client struct {
	provider Provider
	model    string
	defaults *Settings

	backend Backend
	config  ProviderConfig
}

// ClientOption defines options for configuring the client
type ClientOption func(*Client) error

// New creates a client. Exactly one of WithAPIKey, WithVertex, WithBackend or
// WithProvider must be given.
func New(opts ...ClientOption) (*Client, error) {
	c := &Client{
		model: DefaultModel,
		config: ProviderConfig{
			Resilience: DefaultResilienceConfig(),
		},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if c.provider == nil {
		if c.backend == nil {
			return nil, errors.New("no backend configured: use WithAPIKey(), WithVertex() or WithBackend()")
		}
		if c.config.HTTPClient == nil {
			c.config.HTTPClient = NewResilientHTTPClient(c.config.Resilience)
		}
		c.provider = providers.NewGemini(c.backend, c.config)
	}
	if err := c.provider.Validate(); err != nil {
		return nil, fmt.Errorf("%s provider validation: %w", c.provider.Name(), err)
	}
	return c, nil
}

// WithAPIKey targets the public Generative Language API.
func WithAPIKey(apiKey string, baseURL ...string) ClientOption {
	return func(c *Client) error {
		b := &APIKeyBackend{APIKey: apiKey}
		if len(baseURL) > 0 {
			b.BaseURL = baseURL[0]
		}
		c.backend = b
		return nil
	}
}

// WithVertex targets a Vertex AI region. tokens is asked for a bearer token
// before every call; see package auth for ready-made sources.
func WithVertex(region, project string, tokens oauth2.TokenSource) ClientOption {
	return func(c *Client) error {
		c.backend = &VertexBackend{Region: region, Project: project, Tokens: tokens}
		return nil
	}
}

// WithBackend uses a custom Backend.
func WithBackend(backend Backend) ClientOption {
	return func(c *Client) error {
		if backend == nil {
			return errors.New("backend cannot be nil")
		}
		c.backend = backend
		return nil
	}
}

// WithProvider bypasses backend construction entirely.
func WithProvider(provider Provider) ClientOption {
	return func(c *Client) error {
		if provider == nil {
			return errors.New("provider cannot be nil")
		}
		c.provider = provider
		return nil
	}
}

// WithModel sets the model identifier used for every call.
func WithModel(model string) ClientOption {
	return func(c *Client) error {
		if model == "" {
			return errors.New("model cannot be empty")
		}
		c.model = model
		return nil
	}
}

// WithDefaultSettings seeds every RequestBuilder created by the client.
func WithDefaultSettings(settings Settings) ClientOption {
	return func(c *Client) error {
		s := settings.Clone()
		c.defaults = &s
		return nil
	}
}

// WithHTTPClient replaces the default resilient HTTP client.
func WithHTTPClient(client providers.HTTPDoer) ClientOption {
	return func(c *Client) error {
		c.config.HTTPClient = client
		return nil
	}
}

// WithLogger sets the logger for dispatch and error events.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) error {
		c.config.Logger = logger
		return nil
	}
}

// WithTimeout bounds calls whose settings carry no timeout of their own.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) error {
		c.config.Timeout = timeout
		return nil
	}
}

// WithResilience sets retry and connection behaviour of the default HTTP
// client. It has no effect together with WithHTTPClient.
func WithResilience(config ResilienceConfig) ClientOption {
	return func(c *Client) error {
		c.config.Resilience = config
		return nil
	}
}

// WithRetries enables transport-level retries.
func WithRetries(maxRetries int, initialDelay time.Duration) ClientOption {
	return func(c *Client) error {
		c.config.Resilience.MaxRetries = maxRetries
		c.config.Resilience.InitialDelay = initialDelay
		return nil
	}
}

// Complete performs a single-shot call with req.
func (c *Client) Complete(ctx context.Context, req Request) (*Completion, error) {
	return c.provider.Complete(ctx, req, c.model)
}

// Stream performs a streaming call with req. The caller must drain or Close
// the returned stream.
func (c *Client) Stream(ctx context.Context, req Request) (*EventStream, error) {
	return c.provider.Stream(ctx, req, c.model)
}

// Model returns the model the client is bound to.
func (c *Client) Model() string {
	return c.model
}

// Provider returns the underlying provider.
func (c *Client) Provider() Provider {
	return c.provider
}

// ForModel returns a client sharing c's backend but bound to model.
func (c *Client) ForModel(model string) *Client {
	cp := *c
	cp.model = model
	return &cp
}

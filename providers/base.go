package providers

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// HTTPDoer is the subset of *http.Client used to send requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ProviderConfig holds configuration shared by every backend flavour.
type ProviderConfig struct {
	// Timeout is applied to a call only when the request settings carry none.
	Timeout    time.Duration    `json:"timeout,omitempty"`
	Resilience ResilienceConfig `json:"resilience,omitempty"`
	HTTPClient HTTPDoer         `json:"-"`
	Logger     *slog.Logger     `json:"-"`
}

// ResilienceConfig holds network resilience configuration for providers
type ResilienceConfig struct {
	MaxRetries     int           `json:"max_retries"`
	InitialDelay   time.Duration `json:"initial_delay"`
	MaxDelay       time.Duration `json:"max_delay"`
	Multiplier     float64       `json:"multiplier"`
	Jitter         bool          `json:"jitter"`
	RequestTimeout time.Duration `json:"request_timeout"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
}

// DefaultResilienceConfig returns default resilience configuration. Retries
// are off: a failed call surfaces to the caller unchanged.
func DefaultResilienceConfig() ResilienceConfig {
	return ResilienceConfig{
		MaxRetries:     0,
		InitialDelay:   1 * time.Second,
		MaxDelay:       30 * time.Second,
		Multiplier:     2.0,
		Jitter:         true,
		RequestTimeout: 0,
		ConnectTimeout: 10 * time.Second,
	}
}

// ResolveResilienceConfig applies defaults when config is empty.
func ResolveResilienceConfig(config ResilienceConfig) ResilienceConfig {
	if config == (ResilienceConfig{}) {
		return DefaultResilienceConfig()
	}
	return config
}

// NewHTTPClient builds the default pooled client. RequestTimeout is left to
// the per-call context so that streams are not cut off mid-body.
func NewHTTPClient(config ResilienceConfig) *http.Client {
	return &http.Client{
		Timeout: config.RequestTimeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: config.ConnectTimeout,
			}).DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// BaseProvider provides common functionality for all providers
type BaseProvider struct {
	name       string
	config     ProviderConfig
	httpClient HTTPDoer
	logger     *slog.Logger
}

// NewBaseProvider fills in the HTTP client and logger when the config
// leaves them unset.
func NewBaseProvider(name string, config ProviderConfig) *BaseProvider {
	resilienceConfig := ResolveResilienceConfig(config.Resilience)

	if config.HTTPClient == nil {
		config.HTTPClient = NewHTTPClient(resilienceConfig)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &BaseProvider{
		name:       name,
		config:     config,
		httpClient: config.HTTPClient,
		logger:     logger.With("provider", name),
	}
}

func (p *BaseProvider) Name() string {
	return p.name
}

func (p *BaseProvider) Config() ProviderConfig {
	return p.config
}

func (p *BaseProvider) HTTPClient() HTTPDoer {
	return p.httpClient
}

func (p *BaseProvider) Logger() *slog.Logger {
	return p.logger
}

// ValidateRequest rejects requests that cannot be addressed at all. Field
// values are left to the backend.
func (p *BaseProvider) ValidateRequest(req Request, model string) error {
	if model == "" {
		return NewValidationError(p.name, "model is required")
	}
	for i, t := range req.Tools {
		if t.Name == "" {
			return NewValidationError(p.name, fmt.Sprintf("tool %d has no name", i))
		}
	}
	return nil
}

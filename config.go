package gemini

import (
	"fmt"

	"golang.org/x/oauth2"

	"github.com/voocel/gemini/auth"
	"github.com/voocel/gemini/config"
)

// NewFromConfig builds a client from a validated configuration. Extra
// options are applied after the ones derived from cfg.
//
// A Vertex configuration without an access token uses auth.Default.
func NewFromConfig(cfg *config.Config, opts ...ClientOption) (*Client, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	var base []ClientOption
	switch cfg.ResolvedBackend() {
	case config.BackendVertex:
		var tokens oauth2.TokenSource
		if cfg.AccessToken != "" {
			tokens = auth.Static(cfg.AccessToken)
		} else {
			tokens = auth.Default()
		}
		base = append(base, WithBackend(&VertexBackend{
			Region:  cfg.Region,
			Project: cfg.Project,
			BaseURL: cfg.BaseURL,
			Tokens:  tokens,
		}))
	case config.BackendAPIKey:
		base = append(base, WithAPIKey(cfg.APIKey, cfg.BaseURL))
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	if cfg.Model != "" {
		base = append(base, WithModel(cfg.Model))
	}
	if settings := cfg.ProviderSettings(); settings != (Settings{}) {
		base = append(base, WithDefaultSettings(settings))
	}
	base = append(base, WithResilience(cfg.ProviderResilience()))

	return New(append(base, opts...)...)
}

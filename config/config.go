// Package config loads client configuration from a YAML or TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/voocel/gemini/providers"
)

// Backend names.
const (
	BackendAPIKey = "api-key"
	BackendVertex = "vertex"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvAPIKey  = "GEMINI_API_KEY"
	EnvBaseURL = "GEMINI_BASE_URL"
	EnvModel   = "GEMINI_MODEL"
	EnvRegion  = "VERTEX_REGION"
	EnvProject = "VERTEX_PROJECT"
)

// Config describes one client: which backend, which model, and the default
// generation settings.
type Config struct {
	// Backend is "api-key" or "vertex". Empty means "api-key", or "vertex"
	// when only a project is set.
	Backend string `yaml:"backend,omitempty" toml:"backend,omitempty"`
	APIKey  string `yaml:"api_key,omitempty" toml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty" toml:"base_url,omitempty"`
	Region  string `yaml:"region,omitempty" toml:"region,omitempty"`
	Project string `yaml:"project,omitempty" toml:"project,omitempty"`
	// AccessToken pins a Vertex bearer token instead of discovering one.
	AccessToken string `yaml:"access_token,omitempty" toml:"access_token,omitempty"`
	Model       string `yaml:"model,omitempty" toml:"model,omitempty"`

	Settings   Settings   `yaml:"settings,omitempty" toml:"settings,omitempty"`
	Resilience Resilience `yaml:"resilience,omitempty" toml:"resilience,omitempty"`
}

// Settings are the default generation settings. Durations use
// time.ParseDuration syntax ("30s", "2m").
type Settings struct {
	MaxTokens      *int     `yaml:"max_tokens,omitempty" toml:"max_tokens,omitempty"`
	Temperature    *float64 `yaml:"temperature,omitempty" toml:"temperature,omitempty"`
	ThinkingBudget *int     `yaml:"thinking_budget,omitempty" toml:"thinking_budget,omitempty"`
	Timeout        string   `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
}

// Resilience configures transport retries. Zero values keep the defaults.
type Resilience struct {
	MaxRetries     int    `yaml:"max_retries,omitempty" toml:"max_retries,omitempty"`
	InitialDelay   string `yaml:"initial_delay,omitempty" toml:"initial_delay,omitempty"`
	MaxDelay       string `yaml:"max_delay,omitempty" toml:"max_delay,omitempty"`
	ConnectTimeout string `yaml:"connect_timeout,omitempty" toml:"connect_timeout,omitempty"`
}

// Load reads the config file at path, choosing the decoder by extension
// (.yaml, .yml or .toml). If the file does not exist, it returns a
// zero-value Config and nil error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes data in the format named by ext.
func Parse(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parse toml config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", ext)
	}
	return &cfg, nil
}

// Write marshals the config to YAML and writes it to w.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close() //nolint:errcheck // best-effort close
	enc.SetIndent(2)
	return enc.Encode(cfg)
}

// ApplyEnv overlays non-empty environment variables on cfg.
func ApplyEnv(cfg *Config) {
	ApplyLookup(cfg, os.LookupEnv)
}

// ApplyLookup is ApplyEnv with a custom lookup function.
func ApplyLookup(cfg *Config, lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(&cfg.APIKey, EnvAPIKey)
	set(&cfg.BaseURL, EnvBaseURL)
	set(&cfg.Model, EnvModel)
	set(&cfg.Region, EnvRegion)
	set(&cfg.Project, EnvProject)
}

// ResolvedBackend returns the backend name with the default applied.
func (c *Config) ResolvedBackend() string {
	if c.Backend != "" {
		return c.Backend
	}
	if c.APIKey == "" && c.Project != "" {
		return BackendVertex
	}
	return BackendAPIKey
}

// Validate checks all fields in the config and returns all errors at once.
func Validate(cfg *Config) error {
	var errs []string

	switch cfg.ResolvedBackend() {
	case BackendAPIKey:
		if cfg.APIKey == "" {
			errs = append(errs, fmt.Sprintf("api_key: required for the api-key backend (or set %s)", EnvAPIKey))
		}
	case BackendVertex:
		if cfg.Region == "" {
			errs = append(errs, fmt.Sprintf("region: required for the vertex backend (or set %s)", EnvRegion))
		}
		if cfg.Project == "" {
			errs = append(errs, fmt.Sprintf("project: required for the vertex backend (or set %s)", EnvProject))
		}
	default:
		errs = append(errs, fmt.Sprintf("backend: invalid value %q (must be api-key or vertex)", cfg.Backend))
	}

	s := cfg.Settings
	if s.MaxTokens != nil && *s.MaxTokens <= 0 {
		errs = append(errs, fmt.Sprintf("settings.max_tokens: must be positive, got %d", *s.MaxTokens))
	}
	if s.Temperature != nil && (*s.Temperature < 0 || *s.Temperature > 2) {
		errs = append(errs, fmt.Sprintf("settings.temperature: must be between 0.0 and 2.0, got %g", *s.Temperature))
	}
	for name, v := range map[string]string{
		"settings.timeout":           s.Timeout,
		"resilience.initial_delay":   cfg.Resilience.InitialDelay,
		"resilience.max_delay":       cfg.Resilience.MaxDelay,
		"resilience.connect_timeout": cfg.Resilience.ConnectTimeout,
	} {
		if _, err := parseDuration(v); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", name, err))
		}
	}
	if cfg.Resilience.MaxRetries < 0 {
		errs = append(errs, fmt.Sprintf("resilience.max_retries: must be non-negative, got %d", cfg.Resilience.MaxRetries))
	}

	if len(errs) > 0 {
		slices.Sort(errs)
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// ProviderSettings converts the default settings. Call Validate first; an
// unparseable timeout is ignored here.
func (c *Config) ProviderSettings() providers.Settings {
	out := providers.Settings{
		MaxTokens:      c.Settings.MaxTokens,
		Temperature:    c.Settings.Temperature,
		ThinkingBudget: c.Settings.ThinkingBudget,
	}
	if d, err := parseDuration(c.Settings.Timeout); err == nil && d > 0 {
		out.Timeout = &d
	}
	return out.Clone()
}

// ProviderResilience overlays the configured values on the defaults.
func (c *Config) ProviderResilience() providers.ResilienceConfig {
	out := providers.DefaultResilienceConfig()
	out.MaxRetries = c.Resilience.MaxRetries
	if d, err := parseDuration(c.Resilience.InitialDelay); err == nil && d > 0 {
		out.InitialDelay = d
	}
	if d, err := parseDuration(c.Resilience.MaxDelay); err == nil && d > 0 {
		out.MaxDelay = d
	}
	if d, err := parseDuration(c.Resilience.ConnectTimeout); err == nil && d > 0 {
		out.ConnectTimeout = d
	}
	return out
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative, got %s", s)
	}
	return d, nil
}

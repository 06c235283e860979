package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// Method suffixes appended to a model endpoint.
const (
	MethodGenerateContent       = "generateContent"
	MethodStreamGenerateContent = "streamGenerateContent?alt=sse"
)

const (
	DefaultAPIBaseURL = "https://generativelanguage.googleapis.com"
	apiKeyHeader      = "x-goog-api-key"
)

// Backend addresses a deployment of the model API and authenticates calls
// to it. The engine treats both concerns as opaque.
type Backend interface {
	Endpoint(model, method string) string
	Authorize(ctx context.Context, req *http.Request) error
}

// Namer is implemented by backends that report a name for logs and errors.
type Namer interface {
	Name() string
}

// Validator is implemented by backends that can check their own settings.
type Validator interface {
	Validate() error
}

func backendName(b Backend) string {
	if n, ok := b.(Namer); ok {
		return n.Name()
	}
	return "gemini"
}

// APIKeyBackend calls the public Generative Language API with a static key.
type APIKeyBackend struct {
	APIKey  string
	BaseURL string
}

// Name returns "gemini".
func (b *APIKeyBackend) Name() string { return "gemini" }

// Validate requires a non-empty API key.
func (b *APIKeyBackend) Validate() error {
	if b.APIKey == "" {
		return NewAuthError(b.Name(), "API key is required", nil)
	}
	return nil
}

// Endpoint returns the models URL for model and method under BaseURL.
func (b *APIKeyBackend) Endpoint(model, method string) string {
	base := b.BaseURL
	if base == "" {
		base = DefaultAPIBaseURL
	}
	return fmt.Sprintf("%s/v1beta/models/%s:%s", strings.TrimRight(base, "/"), url.PathEscape(model), method)
}

// Authorize sets the x-goog-api-key header.
func (b *APIKeyBackend) Authorize(_ context.Context, req *http.Request) error {
	req.Header.Set(apiKeyHeader, b.APIKey)
	return nil
}

// VertexBackend calls a Vertex AI regional endpoint with a bearer token.
// A token is requested from Tokens before every call; caching is the token
// source's business.
type VertexBackend struct {
	Region  string
	Project string
	// BaseURL overrides the regional host, mostly for tests.
	BaseURL string
	Tokens  oauth2.TokenSource
}

// Name returns "vertex".
func (b *VertexBackend) Name() string { return "vertex" }

// Validate requires a region, a project and a token source.
func (b *VertexBackend) Validate() error {
	switch {
	case b.Region == "":
		return NewValidationError(b.Name(), "region is required")
	case b.Project == "":
		return NewValidationError(b.Name(), "project is required")
	case b.Tokens == nil:
		return NewAuthError(b.Name(), "token source is required", nil)
	}
	return nil
}

// Endpoint returns the publisher model URL for the configured region and
// project.
func (b *VertexBackend) Endpoint(model, method string) string {
	base := b.BaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s-aiplatform.googleapis.com", b.Region)
	}
	return fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/google/models/%s:%s",
		strings.TrimRight(base, "/"), b.Project, b.Region, url.PathEscape(model), method)
}

// Authorize sets a bearer token obtained from Tokens.
func (b *VertexBackend) Authorize(_ context.Context, req *http.Request) error {
	if b.Tokens == nil {
		return NewAuthError(b.Name(), "no token source configured", nil)
	}
	token, err := b.Tokens.Token()
	if err != nil {
		return NewAuthError(b.Name(), fmt.Sprintf("acquire access token: %v", err), err)
	}
	token.SetAuthHeader(req)
	return nil
}

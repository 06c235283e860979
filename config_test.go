package gemini

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voocel/gemini/config"
)

func TestNewFromConfig_APIKey(t *testing.T) {
	var gotConfig string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotConfig = string(data)
		io.WriteString(w, okBody)
	}))
	defer srv.Close()

	maxTokens := 64
	cfg := &config.Config{
		APIKey:   "k",
		BaseURL:  srv.URL,
		Model:    "gemini-2.0-flash",
		Settings: config.Settings{MaxTokens: &maxTokens, Timeout: "5s"},
	}
	c, err := NewFromConfig(cfg, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", c.Model())

	req := c.Request().Build()
	require.NotNil(t, req.Settings)
	assert.Equal(t, 64, *req.Settings.MaxTokens)
	assert.Equal(t, 5*time.Second, *req.Settings.Timeout)

	_, err = c.Request().WithMessage(UserMessage("hi")).Completion(context.Background())
	require.NoError(t, err)
	assert.Contains(t, gotConfig, `"maxOutputTokens":64`)
}

func TestNewFromConfig_VertexStaticToken(t *testing.T) {
	var authz, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz, path = r.Header.Get("Authorization"), r.URL.Path
		io.WriteString(w, okBody)
	}))
	defer srv.Close()

	cfg := &config.Config{
		Project:     "proj",
		Region:      "europe-west1",
		BaseURL:     srv.URL,
		AccessToken: "pinned",
	}
	c, err := NewFromConfig(cfg, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	assert.Equal(t, "vertex", c.Provider().Name())
	assert.Nil(t, c.Request().Build().Settings)

	_, err = c.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer pinned", authz)
	assert.Equal(t, "/v1/projects/proj/locations/europe-west1/publishers/google/models/"+DefaultModel+":generateContent", path)
}

func TestNewFromConfig_Invalid(t *testing.T) {
	_, err := NewFromConfig(&config.Config{Backend: "vertex"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "region: required")
	assert.Contains(t, err.Error(), "project: required")
}

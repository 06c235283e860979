package gemini

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const okBody = `{"candidates":[{"content":{"parts":[{"text":"pong"}]}}],"usageMetadata":{"promptTokenCount":1,"candidatesTokenCount":1,"totalTokenCount":2}}`

func TestNew_RequiresBackend(t *testing.T) {
	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no backend configured")
}

func TestNew_RejectsEmptyAPIKey(t *testing.T) {
	_, err := New(WithAPIKey(""))
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestNew_RejectsIncompleteVertex(t *testing.T) {
	_, err := New(WithVertex("", "proj", oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "t"})))
	assert.Error(t, err)
}

func TestNew_OptionErrors(t *testing.T) {
	tests := map[string]ClientOption{
		"empty model":  WithModel(""),
		"nil backend":  WithBackend(nil),
		"nil provider": WithProvider(nil),
	}
	for name, opt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := New(WithAPIKey("k"), opt)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to apply option")
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(WithAPIKey("k"))
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, c.Model())
	assert.Equal(t, "gemini", c.Provider().Name())
}

func TestClient_CompleteAgainstServer(t *testing.T) {
	var path, key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, key = r.URL.Path, r.Header.Get("x-goog-api-key")
		io.WriteString(w, okBody)
	}))
	defer srv.Close()

	c, err := New(WithAPIKey("secret", srv.URL), WithHTTPClient(srv.Client()), WithModel("gemini-2.0-flash"))
	require.NoError(t, err)

	got, err := c.Request().WithMessage(UserMessage("ping")).Completion(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "pong", got.Text)
	assert.Equal(t, 2, got.TotalTokens)
	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", path)
	assert.Equal(t, "secret", key)
}

func TestClient_DefaultHTTPClientRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, okBody)
	}))
	defer srv.Close()

	c, err := New(WithAPIKey("k", srv.URL), WithRetries(2, time.Millisecond))
	require.NoError(t, err)

	got, err := c.Complete(context.Background(), Request{Messages: []Message{UserMessage("hi")}})
	require.NoError(t, err)
	assert.Equal(t, "pong", got.Text)
	assert.EqualValues(t, 2, calls.Load())
}

func TestClient_ForModel(t *testing.T) {
	c, p := newRecordingClient(t, WithModel("gemini-2.5-pro"))
	other := c.ForModel("gemini-2.0-flash")

	_, err := other.Complete(context.Background(), Request{})
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), Request{})
	require.NoError(t, err)

	assert.Equal(t, []string{"gemini-2.0-flash", "gemini-2.5-pro"}, p.models)
	assert.Same(t, c.Provider(), other.Provider())
}

func TestClient_ProviderErrorPassesThrough(t *testing.T) {
	c, p := newRecordingClient(t)
	p.err = errors.New("boom")

	_, err := c.Request().Completion(context.Background())
	assert.EqualError(t, err, "boom")
}

func TestClient_VertexStaticToken(t *testing.T) {
	var authz string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz = r.Header.Get("Authorization")
		io.WriteString(w, okBody)
	}))
	defer srv.Close()

	c, err := New(
		WithBackend(&VertexBackend{
			Region:  "us-central1",
			Project: "p",
			BaseURL: srv.URL,
			Tokens:  oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "abc", TokenType: "Bearer"}),
		}),
		WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	assert.Equal(t, "vertex", c.Provider().Name())

	_, err = c.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", authz)
}

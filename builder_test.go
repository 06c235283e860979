package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingProvider stores every request it is asked to run.
type recordingProvider struct {
	requests []Request
	models   []string
	resp     *Completion
	err      error
}

func (p *recordingProvider) Name() string    { return "recording" }
func (p *recordingProvider) Validate() error { return nil }

func (p *recordingProvider) Complete(_ context.Context, req Request, model string) (*Completion, error) {
	p.requests = append(p.requests, req)
	p.models = append(p.models, model)
	if p.err != nil {
		return nil, p.err
	}
	if p.resp != nil {
		return p.resp, nil
	}
	return &Completion{Text: "ok"}, nil
}

func (p *recordingProvider) Stream(_ context.Context, req Request, model string) (*EventStream, error) {
	p.requests = append(p.requests, req)
	p.models = append(p.models, model)
	return nil, p.err
}

func newRecordingClient(t *testing.T, opts ...ClientOption) (*Client, *recordingProvider) {
	t.Helper()
	p := &recordingProvider{}
	c, err := New(append([]ClientOption{WithProvider(p)}, opts...)...)
	require.NoError(t, err)
	return c, p
}

func TestRequestBuilder_ScalarsLastWriteWins(t *testing.T) {
	c, _ := newRecordingClient(t)

	req := c.Request().
		WithSystem("first").
		WithSystem("second").
		WithSettings(Settings{MaxTokens: IntPtr(10), Temperature: Float64Ptr(0.5)}).
		WithSettings(Settings{MaxTokens: IntPtr(20)}).
		Build()

	assert.Equal(t, "second", req.System)
	require.NotNil(t, req.Settings)
	assert.Equal(t, 20, *req.Settings.MaxTokens)
	assert.Nil(t, req.Settings.Temperature, "settings are replaced, not merged")
}

func TestRequestBuilder_ListsAppend(t *testing.T) {
	c, _ := newRecordingClient(t)

	req := c.Request().
		WithMessage(UserMessage("a")).
		WithMessages(ModelMessage("b"), UserMessage("c")).
		WithMessage(UserMessage("d")).
		WithTool(NewTool("t1", "")).
		WithTools(NewTool("t2", ""), NewTool("t3", "")).
		Build()

	var contents []string
	for _, m := range req.Messages {
		contents = append(contents, m.Content)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, contents)
	assert.Equal(t, RoleModel, req.Messages[1].Role)

	require.Len(t, req.Tools, 3)
	assert.Equal(t, "t3", req.Tools[2].Name)
}

func TestRequestBuilder_AppendGrouping(t *testing.T) {
	c, _ := newRecordingClient(t)
	a, b, d := UserMessage("a"), UserMessage("b"), UserMessage("d")

	one := c.Request().WithMessages(a, b).WithMessage(d).Build()
	two := c.Request().WithMessage(a).WithMessages(b, d).Build()

	assert.Equal(t, one.Messages, two.Messages)
}

func TestRequestBuilder_EmptyBuild(t *testing.T) {
	c, _ := newRecordingClient(t)
	req := c.Request().Build()

	assert.Equal(t, "", req.System)
	assert.Nil(t, req.Messages)
	assert.Nil(t, req.Settings)
	assert.Nil(t, req.Tools)
}

func TestRequestBuilder_SnapshotOnDispatch(t *testing.T) {
	c, p := newRecordingClient(t)
	b := c.Request().WithSystem("sys").WithMessage(UserMessage("one"))

	_, err := b.Completion(context.Background())
	require.NoError(t, err)

	b.WithMessage(UserMessage("two")).WithSystem("changed")
	_, err = b.Completion(context.Background())
	require.NoError(t, err)

	require.Len(t, p.requests, 2)
	assert.Equal(t, "sys", p.requests[0].System)
	assert.Len(t, p.requests[0].Messages, 1, "later mutations do not reach a dispatched request")
	assert.Equal(t, "changed", p.requests[1].System)
	assert.Len(t, p.requests[1].Messages, 2)
}

func TestRequestBuilder_SettingsNotAliased(t *testing.T) {
	c, _ := newRecordingClient(t)
	n := 10
	settings := Settings{MaxTokens: &n}

	b := c.Request().WithSettings(settings)
	n = 99

	assert.Equal(t, 10, *b.Build().Settings.MaxTokens)
}

func TestRequestBuilder_StreamForwardsSnapshot(t *testing.T) {
	c, p := newRecordingClient(t, WithModel("gemini-2.0-flash"))

	_, err := c.Request().WithMessage(UserMessage("hi")).Stream(context.Background())
	require.NoError(t, err)

	require.Len(t, p.requests, 1)
	assert.Equal(t, "hi", p.requests[0].Messages[0].Content)
	assert.Equal(t, "gemini-2.0-flash", p.models[0])
}

func TestRequestBuilder_DefaultSettingsSeed(t *testing.T) {
	c, _ := newRecordingClient(t, WithDefaultSettings(Settings{Temperature: Float64Ptr(0.2)}))

	req := c.Request().Build()
	require.NotNil(t, req.Settings)
	assert.Equal(t, 0.2, *req.Settings.Temperature)

	req = c.Request().WithSettings(Settings{MaxTokens: IntPtr(5)}).Build()
	assert.Nil(t, req.Settings.Temperature)
}

func TestToolParameters_FirstWriteWins(t *testing.T) {
	tool := NewTool("search", "").
		WithParameters(NewParameters().Property("q", map[string]any{"type": "string"}, true)).
		WithParameters(NewParameters().Property("other", map[string]any{"type": "string"}, true))

	assert.Equal(t, []string{"q"}, tool.Parameters.Required)
}

package gemini

import "context"

// RequestBuilder stages one request against a Client. Scalar fields (system
// text, settings) keep the last value written; list fields (messages, tools)
// grow with every call.
//
// Completion and Stream dispatch a snapshot of the current state, so the
// builder can keep being mutated and reused afterwards without affecting
// calls already made. A RequestBuilder is owned by one goroutine.
type RequestBuilder struct {
	client *Client
	req    Request
}

// Request starts a new builder bound to c. The client's default settings,
// if any, seed the builder.
func (c *Client) Request() *RequestBuilder {
	b := &RequestBuilder{client: c}
	if c.defaults != nil {
		s := c.defaults.Clone()
		b.req.Settings = &s
	}
	return b
}

// WithSystem sets the system instruction.
func (b *RequestBuilder) WithSystem(text string) *RequestBuilder {
	b.req.System = text
	return b
}

// WithMessage appends one message.
func (b *RequestBuilder) WithMessage(msg Message) *RequestBuilder {
	b.req.Messages = append(b.req.Messages, msg)
	return b
}

// WithMessages appends messages in order.
func (b *RequestBuilder) WithMessages(msgs ...Message) *RequestBuilder {
	b.req.Messages = append(b.req.Messages, msgs...)
	return b
}

// WithSettings replaces the generation settings.
func (b *RequestBuilder) WithSettings(settings Settings) *RequestBuilder {
	s := settings.Clone()
	b.req.Settings = &s
	return b
}

// WithTool appends one tool declaration.
func (b *RequestBuilder) WithTool(tool ToolDeclaration) *RequestBuilder {
	b.req.Tools = append(b.req.Tools, tool.Clone())
	return b
}

// WithTools appends tool declarations in order.
func (b *RequestBuilder) WithTools(tools ...ToolDeclaration) *RequestBuilder {
	for _, t := range tools {
		b.req.Tools = append(b.req.Tools, t.Clone())
	}
	return b
}

// Build returns a snapshot of the staged request.
func (b *RequestBuilder) Build() Request {
	return b.req.Clone()
}

// Completion dispatches the staged request as a single-shot call.
func (b *RequestBuilder) Completion(ctx context.Context) (*Completion, error) {
	return b.client.Complete(ctx, b.Build())
}

// Stream dispatches the staged request as a streaming call.
func (b *RequestBuilder) Stream(ctx context.Context) (*EventStream, error) {
	return b.client.Stream(ctx, b.Build())
}

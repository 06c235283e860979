package providers

import (
	"context"
	"maps"
	"slices"
	"time"
)

// ---------------------------------------------------------------------------
// Conversation model: messages, settings, tools and the generic request
// ---------------------------------------------------------------------------

// Role identifies the author of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is a single conversational turn. An empty Role is resolved to
// RoleUser when the request is compiled.
type Message struct {
	Content string
	Role    Role
}

// Settings are the tunable generation parameters. A nil field means
// "use the backend default", never zero.
type Settings struct {
	MaxTokens      *int
	Timeout        *time.Duration
	Temperature    *float64
	ThinkingBudget *int
}

// Clone returns a copy that shares no pointers with s.
func (s Settings) Clone() Settings {
	out := Settings{}
	if s.MaxTokens != nil {
		v := *s.MaxTokens
		out.MaxTokens = &v
	}
	if s.Timeout != nil {
		v := *s.Timeout
		out.Timeout = &v
	}
	if s.Temperature != nil {
		v := *s.Temperature
		out.Temperature = &v
	}
	if s.ThinkingBudget != nil {
		v := *s.ThinkingBudget
		out.ThinkingBudget = &v
	}
	return out
}

// ParameterSchema is the JSON-schema-like description of a tool's arguments.
type ParameterSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Required   []string       `json:"required,omitempty"`
}

// NewParameters returns an empty object schema.
func NewParameters() *ParameterSchema {
	return &ParameterSchema{Type: "object", Properties: map[string]any{}}
}

// Property adds a named property. Required properties are also appended to
// the required list.
func (p *ParameterSchema) Property(name string, schema map[string]any, required bool) *ParameterSchema {
	if p.Properties == nil {
		p.Properties = map[string]any{}
	}
	p.Properties[name] = schema
	if required && !slices.Contains(p.Required, name) {
		p.Required = append(p.Required, name)
	}
	return p
}

func (p *ParameterSchema) clone() *ParameterSchema {
	if p == nil {
		return nil
	}
	return &ParameterSchema{
		Type:       p.Type,
		Properties: maps.Clone(p.Properties),
		Required:   slices.Clone(p.Required),
	}
}

// ToolDeclaration describes a function the model may call.
type ToolDeclaration struct {
	Name        string
	Description string
	Parameters  *ParameterSchema
}

// WithParameters attaches a parameter schema. Once a declaration carries
// parameters, later calls leave it unchanged.
//
// TODO: decide whether a second schema should replace the first; callers
// currently have to build a fresh declaration to change parameters.
func (t ToolDeclaration) WithParameters(schema *ParameterSchema) ToolDeclaration {
	if t.Parameters != nil || schema == nil {
		return t
	}
	t.Parameters = schema.clone()
	return t
}

// Clone returns a deep copy of the declaration.
func (t ToolDeclaration) Clone() ToolDeclaration {
	t.Parameters = t.Parameters.clone()
	return t
}

// Request is the backend-independent request. Every field is optional:
// an empty System means no system instruction, nil slices compile as empty.
type Request struct {
	System   string
	Messages []Message
	Settings *Settings
	Tools    []ToolDeclaration
}

// Clone returns a snapshot that shares no mutable state with r.
func (r Request) Clone() Request {
	out := Request{System: r.System}
	if r.Messages != nil {
		out.Messages = slices.Clone(r.Messages)
	}
	if r.Settings != nil {
		s := r.Settings.Clone()
		out.Settings = &s
	}
	if r.Tools != nil {
		out.Tools = make([]ToolDeclaration, len(r.Tools))
		for i, t := range r.Tools {
			out.Tools[i] = t.Clone()
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Normalized results
// ---------------------------------------------------------------------------

// FunctionCall is a tool invocation requested by the model.
type FunctionCall struct {
	Name string
	Args map[string]any
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the normalized result of a non-streaming call.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	FunctionCall     *FunctionCall
	FinishReason     string
}

// Usage returns the token counts as a Usage value.
func (c *Completion) Usage() Usage {
	return Usage{
		PromptTokens:     c.PromptTokens,
		CompletionTokens: c.CompletionTokens,
		TotalTokens:      c.TotalTokens,
	}
}

// EventKind tags a StreamEvent.
type EventKind string

const (
	EventDelta        EventKind = "delta"
	EventUsage        EventKind = "usage"
	EventFunctionCall EventKind = "function_call"
	EventError        EventKind = "error"
)

// StreamEvent is one normalized streaming event. Exactly one of Text,
// Usage, FunctionCall or Message is meaningful, selected by Kind.
type StreamEvent struct {
	Kind         EventKind
	Text         string
	Usage        *Usage
	FunctionCall *FunctionCall

	// FinishReason is set on every event decoded from the frame that ended
	// the candidate, normalized like Completion.FinishReason.
	FinishReason string

	// Message and Err describe an EventError. Err is the underlying cause.
	Message string
	Err     error
}

// ---------------------------------------------------------------------------
// Provider surface
// ---------------------------------------------------------------------------

// Provider is implemented by every backend flavour of the engine.
type Provider interface {
	Name() string
	Validate() error
	Complete(ctx context.Context, req Request, model string) (*Completion, error)
	Stream(ctx context.Context, req Request, model string) (*EventStream, error)
}

package gemini

import "github.com/voocel/gemini/providers"

// Core types are sourced from providers; gemini re-exports them.
type (
	Role            = providers.Role
	Message         = providers.Message
	Settings        = providers.Settings
	ParameterSchema = providers.ParameterSchema
	ToolDeclaration = providers.ToolDeclaration
	Request         = providers.Request

	Completion   = providers.Completion
	FunctionCall = providers.FunctionCall
	Usage        = providers.Usage

	EventKind   = providers.EventKind
	StreamEvent = providers.StreamEvent
	EventStream = providers.EventStream

	Provider       = providers.Provider
	ProviderConfig = providers.ProviderConfig
	Backend        = providers.Backend
	APIKeyBackend  = providers.APIKeyBackend
	VertexBackend  = providers.VertexBackend

	ModelInfo         = providers.ModelInfo
	ModelCapabilities = providers.ModelCapabilities
)

const (
	RoleUser  = providers.RoleUser
	RoleModel = providers.RoleModel
)

const (
	EventDelta        = providers.EventDelta
	EventUsage        = providers.EventUsage
	EventFunctionCall = providers.EventFunctionCall
	EventError        = providers.EventError
)

// UserMessage creates a user turn.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// ModelMessage creates a model turn, used to replay earlier answers.
func ModelMessage(content string) Message {
	return Message{Role: RoleModel, Content: content}
}

// NewTool creates a tool declaration without parameters.
//
// Example:
//
//	tool := gemini.NewTool("get_weather", "Current weather for a city").
//	    WithParameters(gemini.NewParameters().
//	        Property("city", map[string]any{"type": "string"}, true))
func NewTool(name, description string) ToolDeclaration {
	return ToolDeclaration{Name: name, Description: description}
}

// NewParameters returns an empty object schema.
func NewParameters() *ParameterSchema {
	return providers.NewParameters()
}

// Models lists the known models and their capabilities.
func Models() []ModelInfo {
	return providers.Models()
}

// RegisterModel adds or replaces the capabilities of one model identifier.
func RegisterModel(id string, caps ModelCapabilities) {
	providers.RegisterModel(id, caps)
}

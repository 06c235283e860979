package providers

import (
	"slices"
	"strings"
	"sync"
)

// ModelCapabilities contains capability and limit metadata for a model.
type ModelCapabilities struct {
	Thinking        bool `json:"supports_thinking" yaml:"supports_thinking"`
	FunctionCalling bool `json:"supports_function_calling" yaml:"supports_function_calling"`
	MaxOutputTokens int  `json:"max_output_tokens" yaml:"max_output_tokens"`
}

// ModelInfo is one row of the capability table.
type ModelInfo struct {
	ID           string            `json:"id"`
	Family       string            `json:"family,omitempty"`
	Capabilities ModelCapabilities `json:"capabilities"`
}

// modelFamily groups every model whose identifier carries the version token.
type modelFamily struct {
	version      string
	capabilities ModelCapabilities
}

// Families are matched in order; the first version token found in the model
// identifier wins.
var modelFamilies = []modelFamily{
	{version: "1.5", capabilities: ModelCapabilities{Thinking: false, FunctionCalling: true, MaxOutputTokens: 8192}},
	{version: "2.0", capabilities: ModelCapabilities{Thinking: false, FunctionCalling: true, MaxOutputTokens: 8192}},
	{version: "2.5", capabilities: ModelCapabilities{Thinking: true, FunctionCalling: true, MaxOutputTokens: 65536}},
	{version: "3", capabilities: ModelCapabilities{Thinking: true, FunctionCalling: true, MaxOutputTokens: 65536}},
}

// defaultCapabilities apply to identifiers that match no family.
var defaultCapabilities = ModelCapabilities{Thinking: true, FunctionCalling: true}

var (
	registeredModels = map[string]ModelCapabilities{
		"gemini-1.5-flash":      {Thinking: false, FunctionCalling: true, MaxOutputTokens: 8192},
		"gemini-1.5-pro":        {Thinking: false, FunctionCalling: true, MaxOutputTokens: 8192},
		"gemini-2.0-flash":      {Thinking: false, FunctionCalling: true, MaxOutputTokens: 8192},
		"gemini-2.0-flash-lite": {Thinking: false, FunctionCalling: true, MaxOutputTokens: 8192},
		"gemini-2.5-flash":      {Thinking: true, FunctionCalling: true, MaxOutputTokens: 65536},
		"gemini-2.5-flash-lite": {Thinking: true, FunctionCalling: true, MaxOutputTokens: 65536},
		"gemini-2.5-pro":        {Thinking: true, FunctionCalling: true, MaxOutputTokens: 65536},
	}
	registryMu sync.RWMutex
)

// RegisterModel adds or replaces an exact-identifier entry. Exact entries
// take precedence over family matching, except that identifiers in a family
// without thinking support never gain it.
func RegisterModel(id string, caps ModelCapabilities) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registeredModels[id] = caps
}

// LookupModel resolves the capabilities of a model identifier.
func LookupModel(model string) ModelCapabilities {
	registryMu.RLock()
	caps, ok := registeredModels[model]
	registryMu.RUnlock()
	family, inFamily := familyOf(model)
	if ok {
		return withVersionFloor(caps, family, inFamily)
	}
	if inFamily {
		return family.capabilities
	}
	return defaultCapabilities
}

// withVersionFloor clears Thinking for models whose family cannot think.
func withVersionFloor(caps ModelCapabilities, family modelFamily, inFamily bool) ModelCapabilities {
	if inFamily && !family.capabilities.Thinking {
		caps.Thinking = false
	}
	return caps
}

// SupportsThinking reports whether the compiled request for model may carry
// a thinking configuration.
func SupportsThinking(model string) bool {
	return LookupModel(model).Thinking
}

// Models lists the exact entries of the capability table sorted by ID.
func Models() []ModelInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]ModelInfo, 0, len(registeredModels))
	for id, caps := range registeredModels {
		family, inFamily := familyOf(id)
		info := ModelInfo{ID: id, Capabilities: withVersionFloor(caps, family, inFamily)}
		if inFamily {
			info.Family = family.version
		}
		out = append(out, info)
	}
	slices.SortFunc(out, func(a, b ModelInfo) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// familyOf finds the family for a model. The bare "3" token only matches as
// a dash-delimited version component so "gemini-2.5-flash-003" stays in 2.5.
func familyOf(model string) (modelFamily, bool) {
	for _, f := range modelFamilies {
		if strings.Contains(f.version, ".") {
			if strings.Contains(model, f.version) {
				return f, true
			}
			continue
		}
		for _, part := range strings.Split(model, "-") {
			if part == f.version || strings.HasPrefix(part, f.version+".") {
				return f, true
			}
		}
	}
	return modelFamily{}, false
}

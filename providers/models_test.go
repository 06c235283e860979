package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupModel_Families(t *testing.T) {
	tests := []struct {
		model    string
		thinking bool
		maxOut   int
	}{
		{"gemini-1.5-flash-8b", false, 8192},
		{"gemini-2.0-pro-exp", false, 8192},
		{"gemini-2.5-flash-preview-09-2025", true, 65536},
		{"gemini-2.5-flash-003", true, 65536},
		{"gemini-3-flash", true, 65536},
		{"gemini-3.1-pro", true, 65536},
		{"gemini-exp-1206", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			caps := LookupModel(tt.model)
			assert.Equal(t, tt.thinking, caps.Thinking)
			assert.Equal(t, tt.maxOut, caps.MaxOutputTokens)
			assert.True(t, caps.FunctionCalling)
		})
	}
}

func TestRegisterModel_ExactEntryOverridesFamily(t *testing.T) {
	const id = "gemini-2.5-flash-no-think-test"
	require.True(t, SupportsThinking(id))

	RegisterModel(id, ModelCapabilities{Thinking: false, FunctionCalling: true})
	t.Cleanup(func() {
		registryMu.Lock()
		delete(registeredModels, id)
		registryMu.Unlock()
	})

	assert.False(t, SupportsThinking(id))
	assert.Nil(t, Compile(Request{}, id).GenerationConfig.ThinkingConfig)
}

func TestRegisterModel_CannotEnableThinkingForOlderFamilies(t *testing.T) {
	for _, id := range []string{"gemini-2.0-flash-thinking-exp", "gemini-1.5-pro-thinking-test"} {
		t.Run(id, func(t *testing.T) {
			RegisterModel(id, ModelCapabilities{Thinking: true, FunctionCalling: true, MaxOutputTokens: 1024})
			t.Cleanup(func() {
				registryMu.Lock()
				delete(registeredModels, id)
				registryMu.Unlock()
			})

			caps := LookupModel(id)
			assert.False(t, caps.Thinking)
			assert.Equal(t, 1024, caps.MaxOutputTokens, "other registered fields are kept")
			assert.False(t, SupportsThinking(id))

			budget := 512
			wire := Compile(Request{Settings: &Settings{ThinkingBudget: &budget}}, id)
			assert.Nil(t, wire.GenerationConfig.ThinkingConfig)

			for _, m := range Models() {
				if m.ID == id {
					assert.False(t, m.Capabilities.Thinking)
				}
			}
		})
	}
}

func TestModels_SortedWithFamilies(t *testing.T) {
	models := Models()
	require.NotEmpty(t, models)

	for i := 1; i < len(models); i++ {
		assert.Less(t, models[i-1].ID, models[i].ID)
	}

	byID := map[string]ModelInfo{}
	for _, m := range models {
		byID[m.ID] = m
	}
	assert.Equal(t, "2.5", byID["gemini-2.5-flash"].Family)
	assert.Equal(t, "1.5", byID["gemini-1.5-pro"].Family)
	assert.False(t, byID["gemini-2.0-flash"].Capabilities.Thinking)
}

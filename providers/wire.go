package providers

// ---------------------------------------------------------------------------
// Gemini wire format: request side
// ---------------------------------------------------------------------------

// WireRequest is the generateContent request body.
type WireRequest struct {
	SystemInstruction *WireSystemInstruction `json:"systemInstruction,omitempty"`
	Contents          []WireContent          `json:"contents"`
	GenerationConfig  WireGenerationConfig   `json:"generationConfig"`
	Tools             []WireTool             `json:"tools,omitempty"`
}

type WireSystemInstruction struct {
	Parts []WireTextPart `json:"parts"`
}

// WireContent holds one message: exactly one text part and its role.
type WireContent struct {
	Role  Role           `json:"role"`
	Parts []WireTextPart `json:"parts"`
}

type WireTextPart struct {
	Text string `json:"text"`
}

type WireGenerationConfig struct {
	MaxOutputTokens *int                `json:"maxOutputTokens,omitempty"`
	Temperature     float64             `json:"temperature"`
	ThinkingConfig  *WireThinkingConfig `json:"thinkingConfig,omitempty"`
}

type WireThinkingConfig struct {
	ThinkingBudget int `json:"thinkingBudget"`
}

type WireTool struct {
	FunctionDeclarations []WireFunctionDeclaration `json:"functionDeclarations"`
}

type WireFunctionDeclaration struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Parameters  *ParameterSchema `json:"parameters,omitempty"`
}

// ---------------------------------------------------------------------------
// Gemini wire format: response side, shared by both decoders
// ---------------------------------------------------------------------------

type wireResponse struct {
	Candidates    []wireCandidate    `json:"candidates"`
	UsageMetadata *wireUsageMetadata `json:"usageMetadata,omitempty"`
}

type wireCandidate struct {
	Content      wireResponseContent `json:"content"`
	FinishReason string              `json:"finishReason,omitempty"`
	Index        int                 `json:"index,omitempty"`
}

type wireResponseContent struct {
	Parts []wireResponsePart `json:"parts"`
	Role  string             `json:"role,omitempty"`
}

// wireResponsePart distinguishes an absent text field from an empty one.
type wireResponsePart struct {
	Text         *string           `json:"text,omitempty"`
	FunctionCall *wireFunctionCall `json:"functionCall,omitempty"`
}

type wireFunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

type wireUsageMetadata struct {
	PromptTokenCount     *int `json:"promptTokenCount,omitempty"`
	CandidatesTokenCount *int `json:"candidatesTokenCount,omitempty"`
	TotalTokenCount      *int `json:"totalTokenCount,omitempty"`
}

// text concatenates every text-bearing part in order. ok is false when no
// part carries a text field.
func (c wireCandidate) text() (text string, ok bool) {
	for _, part := range c.Content.Parts {
		if part.Text != nil {
			text += *part.Text
			ok = true
		}
	}
	return text, ok
}

// functionCall returns the last function call in the candidate.
func (c wireCandidate) functionCall() *FunctionCall {
	var call *FunctionCall
	for _, part := range c.Content.Parts {
		if part.FunctionCall != nil {
			call = &FunctionCall{Name: part.FunctionCall.Name, Args: part.FunctionCall.Args}
		}
	}
	return call
}

// usage returns the usage block only when all three counts are present.
func (u *wireUsageMetadata) usage() (*Usage, bool) {
	if u == nil || u.PromptTokenCount == nil || u.CandidatesTokenCount == nil || u.TotalTokenCount == nil {
		return nil, false
	}
	return &Usage{
		PromptTokens:     *u.PromptTokenCount,
		CompletionTokens: *u.CandidatesTokenCount,
		TotalTokens:      *u.TotalTokenCount,
	}, true
}

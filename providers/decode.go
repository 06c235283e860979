package providers

import (
	"encoding/json"
	"fmt"
)

// DecodeCompletion normalizes one complete generateContent response body.
//
// Only the first candidate is read. Text parts are concatenated in order and
// the last function-call part wins. Every token count is required; a missing
// count fails with the sentinel naming it.
func DecodeCompletion(body []byte) (*Completion, error) {
	var resp wireResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, ErrNoCompletion
	}

	candidate := resp.Candidates[0]
	text, hasText := candidate.text()
	call := candidate.functionCall()
	if !hasText && call == nil {
		return nil, ErrMissingText
	}

	usage := resp.UsageMetadata
	if usage == nil || usage.PromptTokenCount == nil {
		return nil, ErrMissingPromptTokens
	}
	if usage.CandidatesTokenCount == nil {
		return nil, ErrMissingCompletionTokens
	}
	if usage.TotalTokenCount == nil {
		return nil, ErrMissingTotalTokens
	}

	return &Completion{
		Text:             text,
		PromptTokens:     *usage.PromptTokenCount,
		CompletionTokens: *usage.CandidatesTokenCount,
		TotalTokens:      *usage.TotalTokenCount,
		FunctionCall:     call,
		FinishReason:     NormalizeFinishReason(candidate.FinishReason),
	}, nil
}

// DecodeFrame turns one SSE payload into its events, in the fixed order
// delta, function call, usage. A frame yields at most one of each.
func DecodeFrame(payload string) ([]StreamEvent, error) {
	var resp wireResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, err
	}

	var (
		events []StreamEvent
		reason string
	)
	if len(resp.Candidates) > 0 {
		candidate := resp.Candidates[0]
		reason = NormalizeFinishReason(candidate.FinishReason)
		if text, _ := candidate.text(); text != "" {
			events = append(events, StreamEvent{Kind: EventDelta, Text: text})
		}
		if call := candidate.functionCall(); call != nil {
			events = append(events, StreamEvent{Kind: EventFunctionCall, FunctionCall: call})
		}
	}
	if usage, ok := resp.UsageMetadata.usage(); ok {
		events = append(events, StreamEvent{Kind: EventUsage, Usage: usage})
	}
	for i := range events {
		events[i].FinishReason = reason
	}
	return events, nil
}

const (
	FinishReasonStop     = "stop"
	FinishReasonLength   = "length"
	FinishReasonToolCall = "tool_calls"
	FinishReasonSafety   = "safety"
)

// NormalizeFinishReason maps Gemini stop reasons to canonical constants.
// Unknown values pass through unchanged.
func NormalizeFinishReason(raw string) string {
	switch raw {
	case "STOP":
		return FinishReasonStop
	case "MAX_TOKENS":
		return FinishReasonLength
	case "FUNCTION_CALLING", "MALFORMED_FUNCTION_CALL":
		return FinishReasonToolCall
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT", "SPII":
		return FinishReasonSafety
	default:
		return raw
	}
}

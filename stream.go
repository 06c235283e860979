package gemini

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// StreamCallbacks provides optional per-event handlers during stream collection.
type StreamCallbacks struct {
	OnEvent        func(StreamEvent)
	OnDelta        func(string)
	OnFunctionCall func(*FunctionCall)
	OnUsage        func(Usage)
	OnError        func(message string)
}

// CollectStream drains stream into a Completion and closes it.
//
// Deltas are concatenated in order, the last function call, usage report
// and finish reason win. An error event ends collection with an error wrapping
// the event's cause. The returned Completion carries zero token counts when
// the stream never reported usage.
func CollectStream(stream *EventStream) (*Completion, error) {
	return CollectStreamWithCallbacks(stream, StreamCallbacks{})
}

// CollectStreamWithCallbacks is CollectStream with per-event callbacks.
func CollectStreamWithCallbacks(stream *EventStream, callbacks StreamCallbacks) (*Completion, error) {
	if stream == nil {
		return nil, errors.New("stream cannot be nil")
	}
	defer stream.Close()

	var (
		text strings.Builder
		resp Completion
	)
	for {
		ev, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if callbacks.OnEvent != nil {
			callbacks.OnEvent(ev)
		}
		if ev.FinishReason != "" {
			resp.FinishReason = ev.FinishReason
		}

		switch ev.Kind {
		case EventDelta:
			text.WriteString(ev.Text)
			if callbacks.OnDelta != nil {
				callbacks.OnDelta(ev.Text)
			}
		case EventFunctionCall:
			resp.FunctionCall = ev.FunctionCall
			if callbacks.OnFunctionCall != nil {
				callbacks.OnFunctionCall(ev.FunctionCall)
			}
		case EventUsage:
			resp.PromptTokens = ev.Usage.PromptTokens
			resp.CompletionTokens = ev.Usage.CompletionTokens
			resp.TotalTokens = ev.Usage.TotalTokens
			if callbacks.OnUsage != nil {
				callbacks.OnUsage(*ev.Usage)
			}
		case EventError:
			if callbacks.OnError != nil {
				callbacks.OnError(ev.Message)
			}
			if ev.Err != nil {
				return nil, fmt.Errorf("%s: %w", ev.Message, ev.Err)
			}
			return nil, errors.New(ev.Message)
		}
	}

	resp.Text = text.String()
	return &resp, nil
}

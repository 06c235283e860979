package providers

import (
	"errors"
	"fmt"
	"io"
	"iter"
)

// ErrStreamClosed is returned by Next after Close.
var ErrStreamClosed = errors.New("stream closed")

// chunkSize bounds one read from the transport.
const chunkSize = 4096

// EventStream decodes a streamGenerateContent SSE body into StreamEvents.
//
// The stream is pull-based: bytes are read from the transport only while
// Next has no decoded event to hand out, and at most one frame is decoded
// ahead of the consumer. A payload that fails to parse or a transport read
// failure produces one terminal EventError; Next then returns io.EOF.
//
// EventStream is not safe for concurrent use. Close must be called when the
// consumer stops early; All does so automatically.
type EventStream struct {
	body     io.ReadCloser
	provider string
	reasm    Reassembler
	chunk    []byte
	queue    []StreamEvent

	readErr  error // deferred until buffered frames are drained
	eof      bool
	done     bool
	closed   bool
	released bool

	emitted int
	onDone  func(emitted int)
}

// NewEventStream wraps a streaming response body.
func NewEventStream(body io.ReadCloser) *EventStream {
	return &EventStream{
		body:  body,
		chunk: make([]byte, chunkSize),
	}
}

// Next returns the next event, or io.EOF once the stream is exhausted.
func (s *EventStream) Next() (StreamEvent, error) {
	if s.closed {
		return StreamEvent{}, ErrStreamClosed
	}
	for {
		if len(s.queue) > 0 {
			ev := s.queue[0]
			s.queue = s.queue[1:]
			s.emitted++
			return ev, nil
		}
		if s.done {
			s.release()
			return StreamEvent{}, io.EOF
		}

		if frame, ok := s.reasm.NextFrame(); ok {
			payload := FramePayload(frame)
			if payload == "" {
				continue
			}
			events, err := DecodeFrame(payload)
			if err != nil {
				s.fail(payloadErrorMessage(payload), err)
				continue
			}
			s.queue = events
			continue
		}

		if s.readErr != nil {
			s.fail(fmt.Sprintf("stream read error: %v", s.readErr), wrapTransportError(s.provider, s.readErr))
			continue
		}
		if s.eof {
			// An undelimited remainder is never emitted.
			s.reasm.Reset()
			s.done = true
			continue
		}

		n, err := s.body.Read(s.chunk)
		if n > 0 {
			s.reasm.Write(s.chunk[:n])
		}
		switch {
		case errors.Is(err, io.EOF):
			s.eof = true
		case err != nil:
			s.readErr = err
		}
	}
}

// All returns an iterator over the remaining events. The stream is closed
// when the loop ends, including on break.
func (s *EventStream) All() iter.Seq[StreamEvent] {
	return func(yield func(StreamEvent) bool) {
		defer s.Close()
		for {
			ev, err := s.Next()
			if err != nil {
				return
			}
			if !yield(ev) {
				return
			}
		}
	}
}

// Close releases the transport body. It is safe to call more than once.
func (s *EventStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.queue = nil
	s.reasm.Reset()
	return s.release()
}

// fail queues the terminal error event and stops reading.
func (s *EventStream) fail(message string, cause error) {
	s.queue = append(s.queue, StreamEvent{Kind: EventError, Message: message, Err: cause})
	s.done = true
	s.reasm.Reset()
	s.release()
}

func (s *EventStream) release() error {
	if s.released {
		return nil
	}
	s.released = true
	if s.onDone != nil {
		s.onDone(s.emitted)
	}
	if s.body == nil {
		return nil
	}
	return s.body.Close()
}

func payloadErrorMessage(payload string) string {
	if isTruncatedJSON(payload) {
		return "truncated stream payload"
	}
	return "malformed stream payload"
}

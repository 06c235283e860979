package providers

import (
	"bytes"
	"strings"
)

// dataPrefix marks payload lines inside a frame.
const dataPrefix = "data: "

// Reassembler rebuilds SSE frames from arbitrarily chunked bytes. Frames are
// delimited by a blank line ("\n\n" or "\r\n\r\n"). Between writes the buffer
// holds at most the one frame that is still incomplete.
//
// A Reassembler belongs to a single stream and is not safe for concurrent use.
type Reassembler struct {
	buf []byte
}

// Write appends a chunk. It never fails.
func (r *Reassembler) Write(p []byte) (int, error) {
	r.buf = append(r.buf, p...)
	return len(p), nil
}

// NextFrame splits off the oldest complete frame. ok is false when no
// delimiter is buffered yet.
func (r *Reassembler) NextFrame() (frame string, ok bool) {
	idx, width := frameDelimiter(r.buf)
	if idx < 0 {
		return "", false
	}
	frame = strings.ToValidUTF8(string(r.buf[:idx]), "\uFFFD")
	r.buf = append(r.buf[:0], r.buf[idx+width:]...)
	return frame, true
}

// Buffered reports the number of bytes of the incomplete trailing frame.
func (r *Reassembler) Buffered() int { return len(r.buf) }

// Reset discards any buffered bytes.
func (r *Reassembler) Reset() { r.buf = nil }

// frameDelimiter returns the position and width of the earliest blank line.
func frameDelimiter(buf []byte) (int, int) {
	lf := bytes.Index(buf, []byte("\n\n"))
	crlf := bytes.Index(buf, []byte("\r\n\r\n"))
	switch {
	case lf < 0 && crlf < 0:
		return -1, 0
	case crlf < 0 || (lf >= 0 && lf < crlf):
		return lf, 2
	default:
		return crlf, 4
	}
}

// FramePayload concatenates, without separator, every "data: " line of the
// frame with the prefix stripped. Frames without data lines yield "".
func FramePayload(frame string) string {
	var b strings.Builder
	for line := range strings.SplitSeq(frame, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if rest, ok := strings.CutPrefix(line, dataPrefix); ok {
			b.WriteString(rest)
		}
	}
	return b.String()
}

package providers

import (
	"encoding/json"
	"strings"
)

// isTruncatedJSON reports whether data is invalid as-is but becomes valid
// once open strings, arrays and objects are closed.
func isTruncatedJSON(data string) bool {
	if data == "" || json.Valid([]byte(data)) {
		return false
	}
	return json.Valid([]byte(completeJSON(data)))
}

// completeJSON attempts to close truncated JSON by tracking parse state
// and appending the necessary closing tokens. A literal or number cut off
// mid-token is finished before the containers are closed.
func completeJSON(s string) string {
	var (
		inString bool
		escaped  bool
		stack    []byte // tracks open '{' and '['
	)

	end := len(s)
	for end > 0 && (s[end-1] == ' ' || s[end-1] == '\t' || s[end-1] == '\n' || s[end-1] == '\r') {
		end--
	}
	if end == 0 {
		return "{}"
	}
	s = s[:end]

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}

		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 && stack[len(stack)-1] == c {
				stack = stack[:len(stack)-1]
			}
		}
	}

	buf := make([]byte, 0, len(s)+len(stack)+2)
	buf = append(buf, s...)

	if escaped {
		buf = buf[:len(buf)-1]
	}
	if inString {
		buf = append(buf, '"')
	} else {
		buf = completeScalar(buf)
	}

	// Trim trailing fragments that cannot end a value: separators and bare
	// object keys.
	for {
		n := len(buf)
		if n == 0 {
			break
		}
		last := buf[n-1]

		if last == ',' || last == ':' {
			buf = buf[:n-1]
			continue
		}

		if last == '"' {
			i := n - 2
			for i >= 0 {
				if buf[i] == '"' && (i == 0 || buf[i-1] != '\\') {
					break
				}
				i--
			}
			if i >= 0 {
				before := i - 1
				for before >= 0 && (buf[before] == ' ' || buf[before] == '\t' || buf[before] == '\n' || buf[before] == '\r') {
					before--
				}
				if before >= 0 && buf[before] == ',' {
					buf = buf[:before]
					continue
				}
				if before >= 0 && buf[before] == '{' {
					buf = buf[:before+1]
					continue
				}
			}
		}

		break
	}

	for i := len(stack) - 1; i >= 0; i-- {
		buf = append(buf, stack[i])
	}

	return string(buf)
}

var literals = []string{"true", "false", "null"}

// completeScalar finishes a trailing literal prefix ("tru", "nul") or a
// number that stops at a sign, decimal point or exponent marker.
func completeScalar(buf []byte) []byte {
	start := len(buf)
	for start > 0 && buf[start-1] >= 'a' && buf[start-1] <= 'z' {
		start--
	}
	if word := string(buf[start:]); word != "" {
		for _, lit := range literals {
			if strings.HasPrefix(lit, word) {
				return append(buf, lit[len(word):]...)
			}
		}
		if word != "e" {
			return buf
		}
	}

	if n := len(buf); n > 0 {
		switch buf[n-1] {
		case '-', '+', '.', 'e', 'E':
			return append(buf, '0')
		}
	}
	return buf
}

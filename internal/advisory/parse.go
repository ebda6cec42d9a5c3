package advisory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// FormatError reports a reply that does not satisfy the response contract.
type FormatError struct {
	Reason string
	Reply  string
}

func (e *FormatError) Error() string {
	return "invalid AI response format: " + e.Reason
}

// Error is the single failure signal of every advisory operation.
// It wraps transport errors, API errors and *FormatError alike.
type Error struct {
	Err error
	Op  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("ai %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// extractJSON returns the first balanced JSON value in text that opens with
// the given delimiter ('{' or '['). Brackets inside string literals are
// ignored. Candidates that never balance are skipped.
func extractJSON(text string, open byte) (string, bool) {
	for start := strings.IndexByte(text, open); start >= 0; {
		if end, ok := balancedEnd(text, start); ok {
			return text[start : end+1], true
		}
		next := strings.IndexByte(text[start+1:], open)
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// balancedEnd returns the index of the bracket closing the one at start.
func balancedEnd(text string, start int) (int, bool) {
	var stack []byte
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
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
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return 0, false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// decodeStrict extracts the first JSON value opening with open and decodes
// it into v, rejecting unknown fields and trailing data.
func decodeStrict(reply string, open byte, v any) error {
	raw, ok := extractJSON(reply, open)
	if !ok {
		kind := "object"
		if open == '[' {
			kind = "array"
		}
		return &FormatError{Reason: "no JSON " + kind + " found", Reply: reply}
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &FormatError{Reason: err.Error(), Reply: reply}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return &FormatError{Reason: "trailing data after JSON value", Reply: reply}
	}
	return nil
}

// leadingInt parses the integer at the start of s, ignoring surrounding
// whitespace and anything after the digits.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (unicode.IsDigit(rune(s[end])) || (end == 0 && (s[0] == '-' || s[0] == '+'))) {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

package generation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const fence = "```"

// StripCodeFence removes a surrounding Markdown code fence, with or without
// a json language tag, along with surrounding whitespace.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, fence) {
		s = s[len(fence):]
		if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
			s = s[4:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), fence)
	return strings.TrimSpace(s)
}

// ParseSuggestion decodes model output into a Suggestion. The output must be
// a JSON object (optionally inside a code fence) carrying the string fields
// meaning, example and personalNote. A missing field or a field of any other
// JSON type is an error wrapping ErrInvalidResponse.
func ParseSuggestion(raw string) (Suggestion, error) {
	body := StripCodeFence(raw)
	if body == "" {
		return Suggestion{}, fmt.Errorf("%w: empty content", ErrInvalidResponse)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return Suggestion{}, fmt.Errorf("%w: not a JSON object: %v", ErrInvalidResponse, err)
	}

	var s Suggestion
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"meaning", &s.Meaning},
		{"example", &s.Example},
		{"personalNote", &s.PersonalNote},
	} {
		value, ok := fields[f.name]
		if !ok {
			return Suggestion{}, fmt.Errorf("%w: missing field %q", ErrInvalidResponse, f.name)
		}
		if err := decodeString(value, f.dst); err != nil {
			return Suggestion{}, fmt.Errorf("%w: field %q: %v", ErrInvalidResponse, f.name, err)
		}
	}

	return s, nil
}

// decodeString accepts only a JSON string; null and other types are rejected.
func decodeString(value json.RawMessage, dst *string) error {
	value = bytes.TrimSpace(value)
	if len(value) == 0 || value[0] != '"' {
		return fmt.Errorf("expected string, got %s", value)
	}
	return json.Unmarshal(value, dst)
}

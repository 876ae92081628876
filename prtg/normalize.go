package prtg

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// PRTG's table API is inconsistently typed: object IDs and count columns
// arrive as numbers or strings depending on server version, and tags are a
// single space-delimited string. The helper types below absorb those quirks
// during decoding so the exported models carry stable types.

// flexString decodes a JSON string, number or bool into its trimmed string
// form. Absent and null values decode to the empty string.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(strings.TrimSpace(str))
		return nil
	}
	// Numbers and bools keep their literal form.
	*s = flexString(string(data))
	return nil
}

// tagList decodes PRTG tags: a space-delimited string is split into trimmed
// tokens, an array passes through, anything else becomes an empty list.
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case string:
		*t = strings.Fields(val)
	case []any:
		tags := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				tags = append(tags, s)
			}
		}
		*t = tags
	default:
		*t = nil
	}
	return nil
}

// parseCount converts a sensor-count column to an int. Non-numeric input
// returns nil: the raw string is kept either way and a bad count must never
// fail the decode.
func parseCount(raw string) *int {
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

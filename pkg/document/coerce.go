package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Coercion helpers used by renderers and the session when reading loosely
// typed record values. They never mutate the record.

// String reads a scalar value as its string form. Non-string scalars are
// formatted; list and map shapes yield the empty string.
func String(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case []any, map[string]any, Item:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// StringSlice reads a list-valued field as strings, preserving order.
func StringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, entry := range v {
			out = append(out, String(entry))
		}
		return out
	default:
		return nil
	}
}

// Items reads a structured-list value as element records. Non-map entries
// are skipped rather than failing the read.
func Items(value any) []Item {
	entries, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]Item, 0, len(entries))
	for _, raw := range entries {
		switch item := raw.(type) {
		case map[string]any:
			out = append(out, Item(item))
		case Item:
			out = append(out, item)
		}
	}
	return out
}

// Number reads a numeric value. The second return reports whether a number
// was actually present; absent or malformed values are not numbers.
func Number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// Bool reads a toggle value; anything but true is false.
func Bool(value any) bool {
	b, _ := value.(bool)
	return b
}

// ParseNumber converts operator input into a number value, failing closed to
// nil on non-numeric input so a stale value never survives a bad edit.
func ParseNumber(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return parsed
}

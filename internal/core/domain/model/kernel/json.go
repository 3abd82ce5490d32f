package kernel

import "time"

// Coercion helpers for wire payloads decoded into map[string]any by
// encoding/json. Numbers arrive as float64, nested objects as
// map[string]any, arrays as []any. Each helper reports whether the value
// had a usable shape.

// AsString returns v as a string.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsNumber returns v as a float64.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// AsInteger returns v as an int64, accepting only whole numbers.
func AsInteger(v any) (int64, bool) {
	n, ok := AsNumber(v)
	if !ok || n != float64(int64(n)) {
		return 0, false
	}
	return int64(n), true
}

// AsObject returns v as a JSON object.
func AsObject(v any) (map[string]any, bool) {
	o, ok := v.(map[string]any)
	return o, ok
}

// AsArray returns v as a JSON array.
func AsArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

// AsTimestamp returns v as epoch milliseconds. It accepts raw numbers and
// RFC 3339 strings, mirroring the two date encodings the wire format allows.
func AsTimestamp(v any) (int64, bool) {
	if n, ok := AsInteger(v); ok {
		return n, true
	}
	if s, ok := v.(string); ok {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return 0, false
		}
		return t.UnixMilli(), true
	}
	return 0, false
}

package intake

import (
	"fmt"
	"strings"
)

// The provider's analysis engine is not consistent about value shapes: the
// same logical field arrives as a bare string, the literal text "null", a
// wrapper object like {"value": "...", "rationale": "..."}, or a boolean
// rendered as "True"/"False". Every function in this file is total — it has
// a defined result for any input shape — so nothing downstream ever touches
// a raw provider value.

// wrapperKeys are the property names the provider uses when it wraps a
// value in a metadata object.
var wrapperKeys = []string{"value", "result", "data"}

// unwrap digs through provider wrapper objects until it reaches a
// non-object value. Returns the value and whether anything usable was found.
func unwrap(v any) (any, bool) {
	const maxDepth = 8
	for i := 0; i < maxDepth; i++ {
		obj, ok := v.(map[string]any)
		if !ok {
			return v, v != nil
		}
		var inner any
		found := false
		for _, k := range wrapperKeys {
			if candidate, ok := obj[k]; ok {
				inner = candidate
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
		v = inner
	}
	return nil, false
}

// CoerceString normalizes a provider value to a trimmed string, or "" when
// the value is absent, null-ish, or an unusable wrapper. The empty string is
// the "no value" sentinel throughout the intake pipeline.
func CoerceString(v any) string {
	inner, ok := unwrap(v)
	if !ok {
		return ""
	}
	switch t := inner.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" || strings.EqualFold(s, "null") {
			return ""
		}
		return s
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// CoerceBool normalizes a provider value to a boolean. Absent, null-ish and
// unrecognized values are false.
func CoerceBool(v any) bool {
	inner, ok := unwrap(v)
	if !ok {
		return false
	}
	switch t := inner.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		switch s {
		case "true", "yes", "1":
			return true
		default:
			return false
		}
	default:
		return false
	}
}

// CoerceStringSlice normalizes a provider value to a slice of coerced
// strings, or nil when the value is absent, null-ish, or not an array.
func CoerceStringSlice(v any) []string {
	inner, ok := unwrap(v)
	if !ok {
		return nil
	}
	switch t := inner.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := CoerceString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := CoerceString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		// the literal "null", "" or any other scalar means no list was collected
		return nil
	}
}

// Get returns the coerced string for a field bag key.
func (b FieldBag) Get(key string) string {
	if b == nil {
		return ""
	}
	return CoerceString(b[key])
}

// GetBool returns the coerced boolean for a field bag key.
func (b FieldBag) GetBool(key string) bool {
	if b == nil {
		return false
	}
	return CoerceBool(b[key])
}

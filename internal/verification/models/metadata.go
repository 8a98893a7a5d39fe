package models

import (
	"strconv"
	"strings"
)

// Metadata holds the letter details supplied by the citizen. Values are
// restricted to JSON scalars: string, number, bool or null.
type Metadata map[string]any

// Merge returns the union of m and incoming. Incoming keys override
// existing ones; keys absent from incoming are kept.
func (m Metadata) Merge(incoming Metadata) Metadata {
	out := make(Metadata, len(m)+len(incoming))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range incoming {
		out[k] = v
	}
	return out
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, float64, float32, int, int32, int64:
		return true
	}
	return false
}

// NonScalarKeys lists keys whose values are objects or arrays.
func (m Metadata) NonScalarKeys() []string {
	var keys []string
	for k, v := range m {
		if !isScalar(v) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Text is the value under key as trimmed text. Absent, null and blank
// values read as "".
func (m Metadata) Text(key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

// Present reports whether key holds a non-null, non-blank value.
func (m Metadata) Present(key string) bool {
	return m.Text(key) != ""
}

// Clone returns a shallow copy. Scalar values make it a full copy.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	return m.Merge(nil)
}

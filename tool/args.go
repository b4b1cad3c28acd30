package tool

// Argument accessors tolerant of JSON decoding, where numbers arrive as
// float64 and arrays as []any.

// String returns args[key] as a string, or "" when absent or mistyped.
func String(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// Bool returns args[key] as a bool, or false.
func Bool(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}

// Int returns args[key] as an int, accepting JSON float64 and native int.
func Int(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Float returns args[key] as a float64.
func Float(args map[string]any, key string) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Strings returns args[key] as a string slice, accepting []string and
// JSON []any.
func Strings(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Object returns args[key] as a map, or nil.
func Object(args map[string]any, key string) map[string]any {
	m, _ := args[key].(map[string]any)
	return m
}

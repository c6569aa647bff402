package xml

import (
	"fmt"
	"strconv"
	"strings"
)

// ItemsAt navigates a dot-notation path and returns the element(s) found
// there as a slice. A single element is wrapped in a one-item slice.
func ItemsAt(data map[string]interface{}, path string) ([]map[string]interface{}, error) {
	parts := strings.Split(path, ".")

	var current interface{} = data
	for i, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			// Repeated containers: descend into the first occurrence
			if arr, isArr := current.([]interface{}); isArr && len(arr) > 0 {
				m, ok = arr[0].(map[string]interface{})
			}
		}
		if !ok {
			return nil, fmt.Errorf("cannot navigate through %T at '%s'", current, parts[i-1])
		}

		value, found := lookup(m, part)
		if !found {
			return nil, fmt.Errorf("path segment '%s' not found", part)
		}
		current = value
	}

	return toItemSlice(current)
}

// ValueAt retrieves a value at a dot-notation path relative to item
func ValueAt(item map[string]interface{}, path string) interface{} {
	if path == "" {
		return item
	}
	var current interface{} = item
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			if arr, isArr := current.([]interface{}); isArr && len(arr) > 0 {
				m, ok = arr[0].(map[string]interface{})
			}
		}
		if !ok {
			return nil
		}
		var found bool
		current, found = lookup(m, part)
		if !found {
			return nil
		}
	}
	return current
}

// StringsAt returns the text of every element at path, for repeated tags
func StringsAt(item map[string]interface{}, path string) []string {
	value := ValueAt(item, path)
	if value == nil {
		return nil
	}
	arr, ok := value.([]interface{})
	if !ok {
		arr = []interface{}{value}
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s := StringValue(v); s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// lookup finds key in m, falling back to a case-insensitive match
func lookup(m map[string]interface{}, key string) (interface{}, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// toItemSlice converts a value to a slice of maps
func toItemSlice(value interface{}) ([]map[string]interface{}, error) {
	switch v := value.(type) {
	case []interface{}:
		result := make([]map[string]interface{}, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok {
				result = append(result, m)
			}
		}
		return result, nil
	case map[string]interface{}:
		return []map[string]interface{}{v}, nil
	default:
		return nil, fmt.Errorf("expected array or map, got %T", value)
	}
}

// StringValue converts a tree value to its trimmed text, or nil when empty
func StringValue(value interface{}) *string {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		return &trimmed
	case float64:
		str := strconv.FormatFloat(v, 'f', -1, 64)
		return &str
	case int:
		str := strconv.Itoa(v)
		return &str
	case bool:
		str := strconv.FormatBool(v)
		return &str
	case []interface{}:
		if len(v) == 0 {
			return nil
		}
		return StringValue(v[0])
	case map[string]interface{}:
		if text, ok := v[TextKey]; ok {
			return StringValue(text)
		}
		return nil
	default:
		str := strings.TrimSpace(fmt.Sprintf("%v", v))
		if str == "" {
			return nil
		}
		return &str
	}
}

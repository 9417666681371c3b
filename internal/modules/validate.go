package modules

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidateParams checks params against InputSchema.
//   - Required fields: returns error if missing or empty-string
//   - Type check: verifies value matches declared property type
//   - Numeric coercion: integer and number params accept float64,
//     json.Number, and numeric strings (epoch dates are commonly sent as
//     strings); coerced values are normalized to json.Number so handlers
//     keep full precision on large ClickUp IDs and timestamps
//
// Returns a shallow copy of params with coerced values, or an error.
func ValidateParams(schema InputSchema, params map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}

	var missing []string
	for _, key := range schema.Required {
		val, exists := out[key]
		if !exists || val == nil {
			missing = append(missing, key)
			continue
		}
		if s, ok := val.(string); ok && s == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required parameter(s): %s", strings.Join(missing, ", "))
	}

	for key, val := range out {
		prop, declared := schema.Properties[key]
		if !declared {
			// Extra params not in schema are passed through (lenient)
			continue
		}
		if val == nil {
			continue
		}
		coerced, err := coerceValue(key, val, prop.Type)
		if err != nil {
			return nil, err
		}
		out[key] = coerced
	}

	return out, nil
}

// coerceValue verifies val against the declared JSON Schema type and
// normalizes numeric representations.
func coerceValue(key string, val any, expectedType string) (any, error) {
	switch expectedType {
	case "string":
		if _, ok := val.(string); !ok {
			return nil, fmt.Errorf("parameter %q: expected string, got %T", key, val)
		}
	case "number", "integer":
		switch v := val.(type) {
		case float64, json.Number:
			return val, nil
		case string:
			n := json.Number(v)
			if _, err := n.Float64(); err != nil {
				return nil, fmt.Errorf("parameter %q: expected number, got non-numeric string %q", key, v)
			}
			return n, nil
		default:
			return nil, fmt.Errorf("parameter %q: expected number, got %T", key, val)
		}
	case "boolean":
		if _, ok := val.(bool); !ok {
			return nil, fmt.Errorf("parameter %q: expected boolean, got %T", key, val)
		}
	case "array":
		if _, ok := val.([]interface{}); !ok {
			return nil, fmt.Errorf("parameter %q: expected array, got %T", key, val)
		}
	case "object":
		if _, ok := val.(map[string]interface{}); !ok {
			return nil, fmt.Errorf("parameter %q: expected object, got %T", key, val)
		}
		// "" or unknown types: skip check (lenient)
	}
	return val, nil
}

// findTool looks up a tool by name from a tool list.
func findTool(tools []Tool, name string) (Tool, bool) {
	for _, t := range tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

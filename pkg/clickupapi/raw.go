package clickupapi

import (
	"encoding/json"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Raw response decoding.
//
// ClickUp identifiers are large integers that do not survive a float64
// round trip, so response bodies are decoded with jx and numbers are
// kept as json.Number (raw digit text) instead of float64.

// DecodeObject decodes a JSON object into a nested map. Numbers become
// json.Number, objects map[string]any, arrays []any.
func DecodeObject(data []byte) (map[string]any, error) {
	d := jx.DecodeBytes(data)
	v, err := decodeValue(d)
	if err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("response is not a JSON object")
	}
	return m, nil
}

func decodeValue(d *jx.Decoder) (any, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return nil, err
		}
		return json.Number(n.String()), nil
	case jx.Bool:
		return d.Bool()
	case jx.Null:
		return nil, d.Null()
	case jx.Array:
		var arr []any
		err := d.Arr(func(d *jx.Decoder) error {
			v, err := decodeValue(d)
			if err != nil {
				return err
			}
			arr = append(arr, v)
			return nil
		})
		return arr, err
	case jx.Object:
		m := make(map[string]any)
		err := d.Obj(func(d *jx.Decoder, key string) error {
			v, err := decodeValue(d)
			if err != nil {
				return err
			}
			m[key] = v
			return nil
		})
		return m, err
	default:
		return nil, errors.Errorf("unexpected JSON token %q", d.Next())
	}
}

// Permissive field accessors. A missing or wrong-typed field yields a
// type-appropriate zero value: upstream payload shape is a third-party
// contract that cannot be enforced locally.

func strField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// idField stringifies an identifier regardless of whether upstream sent
// it as a JSON string or number.
func idField(m map[string]any, key string) string {
	return idString(m[key])
}

func idString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func int64Field(m map[string]any, key string) int64 {
	switch t := m[key].(type) {
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0
		}
		return n
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case float64:
		return int64(t)
	default:
		return 0
	}
}

func intField(m map[string]any, key string) int {
	return int(int64Field(m, key))
}

func boolField(m map[string]any, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

func mapField(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return nil
}

func sliceField(m map[string]any, key string) []any {
	if v, ok := m[key].([]any); ok {
		return v
	}
	return nil
}

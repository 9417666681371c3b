package clickupapi

import (
	"encoding/json"

	"github.com/go-faster/jx"
)

// RawFields holds upstream fields the flattened models have no slot
// for, keyed by their original wire name and kept as raw JSON.
type RawFields map[string]jx.Raw

func keySet(keys ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// extraFields collects the entries of raw whose keys are not in the
// known set. Values that cannot be re-encoded are dropped.
func extraFields(raw map[string]any, known map[string]struct{}) RawFields {
	var extra RawFields
	for k, v := range raw {
		if _, ok := known[k]; ok {
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			continue
		}
		if extra == nil {
			extra = make(RawFields)
		}
		extra[k] = jx.Raw(b)
	}
	return extra
}

// marshalWithExtra serializes v and merges in the retained raw fields.
// Known fields win on key collision; extra keys keep their original
// wire names untranslated.
func marshalWithExtra(v any, extra RawFields) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return b, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for k, raw := range extra {
		if _, exists := m[k]; !exists {
			m[k] = json.RawMessage(raw)
		}
	}
	return json.Marshal(m)
}

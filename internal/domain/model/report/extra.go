package report

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// Extra holds object keys this package does not model. They are written
// back unchanged so other consumers of the report keep their data.
type Extra map[string]json.RawMessage

var knownKeysCache sync.Map

// knownKeys returns the json names declared on struct type t.
func knownKeys(t reflect.Type) map[string]bool {
	if v, ok := knownKeysCache.Load(t); ok {
		return v.(map[string]bool)
	}
	keys := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		keys[name] = true
	}
	knownKeysCache.Store(t, keys)
	return keys
}

// decodeWithExtra unmarshals data into v (a pointer to a struct without
// custom unmarshalers) and returns the keys v does not declare.
// Raw values are compacted so a save/load cycle compares equal.
func decodeWithExtra(data []byte, v interface{}) (Extra, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	known := knownKeys(reflect.TypeOf(v).Elem())
	var extra Extra
	for k, msg := range raw {
		if known[k] {
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, msg); err != nil {
			return nil, err
		}
		if extra == nil {
			extra = make(Extra)
		}
		extra[k] = buf.Bytes()
	}
	return extra, nil
}

// encodeWithExtra marshals v and merges extra keys into the resulting object.
// Declared fields win over extra keys of the same name.
func encodeWithExtra(v interface{}, extra Extra) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, msg := range extra {
		if _, ok := merged[k]; !ok {
			merged[k] = msg
		}
	}
	return json.Marshal(merged)
}

// keepZeros records keys present in data with a literal 0 value. Fields
// tagged omitempty would otherwise drop them on save.
func keepZeros(data []byte, extra Extra, keys ...string) (Extra, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for _, k := range keys {
		if msg, ok := raw[k]; ok && string(bytes.TrimSpace(msg)) == "0" {
			if extra == nil {
				extra = make(Extra)
			}
			extra[k] = json.RawMessage("0")
		}
	}
	return extra, nil
}

// without returns a copy of e lacking keys, or nil when nothing remains.
func (e Extra) without(keys ...string) Extra {
	var out Extra
	for k, msg := range e {
		drop := false
		for _, d := range keys {
			if k == d {
				drop = true
				break
			}
		}
		if drop {
			continue
		}
		if out == nil {
			out = make(Extra, len(e))
		}
		out[k] = msg
	}
	return out
}

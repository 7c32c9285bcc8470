// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// parseFields splits a fields=a,b,c query value. Empty names are dropped;
// a nil result selects every field.
func parseFields(raw string) []string {
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// project keeps only the named keys of v's JSON objects. v is an object or
// a list of objects. Unknown names are ignored.
func project(v any, fields []string) (any, error) {
	if len(fields) == 0 {
		return v, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	keep := make(map[string]bool, len(fields))
	for _, f := range fields {
		keep[f] = true
	}

	switch t := decoded.(type) {
	case map[string]any:
		return pick(t, keep), nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			if obj, ok := item.(map[string]any); ok {
				out[i] = pick(obj, keep)
			} else {
				out[i] = item
			}
		}
		return out, nil
	default:
		return decoded, nil
	}
}

func pick(obj map[string]any, keep map[string]bool) map[string]any {
	out := make(map[string]any, len(keep))
	for k, v := range obj {
		if keep[k] {
			out[k] = v
		}
	}
	return out
}

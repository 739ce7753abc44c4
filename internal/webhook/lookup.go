package webhook

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// The automation webhook contract is loose: senders disagree on field names,
// so every lookup walks an ordered alias list and the first hit wins. The
// alias orders encoded by the callers in this package are the de-facto
// contract with upstream workflows and must not be reordered.

// firstValue returns the first non-nil value among the given keys.
func firstValue(obj *Object, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := obj.Get(key); ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// firstString returns the first alias whose value stringifies to a non-empty
// string. Non-string scalars are stringified; objects and arrays are skipped.
func firstString(obj *Object, keys ...string) string {
	for _, key := range keys {
		v, ok := obj.Get(key)
		if !ok || v == nil {
			continue
		}
		if s := stringifyScalar(v); s != "" {
			return s
		}
	}
	return ""
}

// toNumber coerces a JSON value to a finite float64.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// stringifyScalar renders a scalar as a string, leaving composites empty.
func stringifyScalar(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

// stringify renders any JSON value as a string, falling back to its JSON
// encoding for objects and arrays. Mirrors the String()/JSON.stringify mix
// the upstream workflows expect.
func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if s := stringifyScalar(v); s != "" {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// asObject narrows a JSON value to an object, or nil.
func asObject(v any) *Object {
	switch o := v.(type) {
	case *Object:
		return o
	case map[string]any:
		// Values decoded outside this package lose key order; tolerate
		// them for probing.
		obj := &Object{}
		for k, val := range o {
			obj.set(k, val)
		}
		return obj
	}
	return nil
}

// asArray narrows a JSON value to an array, or nil.
func asArray(v any) []any {
	arr, _ := v.([]any)
	return arr
}

// truthy reports whether a JSON value would be truthy to a JavaScript
// sender: non-zero numbers, non-empty strings, true, and any composite.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	}
	return true
}

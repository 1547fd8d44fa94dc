// Package ofx normalizes an already-decoded brokerage statement tree into the
// typed ledger model. It does not parse the OFX wire syntax itself; the
// upstream decoder hands it a generic tree of maps, lists and scalars
// (the shape encoding/json produces for untyped documents).
package ofx

import (
	"strconv"
)

// child returns the named child of a map node.
func child(node any, key string) (any, bool) {
	m, ok := node.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

// asList normalizes a node that may hold either a single record or a sequence
// of records into a slice. Nil nodes yield an empty slice.
func asList(node any) []any {
	switch v := node.(type) {
	case nil:
		return nil
	case []any:
		return v
	default:
		return []any{v}
	}
}

// text returns the scalar child of a map node rendered as a string.
// Numbers decoded as float64 are formatted without exponent so tag values
// like NUMERATOR survive either decoding.
func text(node any, key string) string {
	v, ok := child(node, key)
	if !ok {
		return ""
	}
	return scalarString(v)
}

func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// number returns the named child parsed as a float64. The second return is
// false when the child is absent or not a number.
func number(node any, key string) (float64, bool) {
	v, ok := child(node, key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// numberOrZero returns the named child parsed as a float64, defaulting to 0
// when absent or unparseable.
func numberOrZero(node any, key string) float64 {
	f, ok := number(node, key)
	if !ok {
		return 0
	}
	return f
}

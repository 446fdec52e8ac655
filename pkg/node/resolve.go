package node

import (
	"encoding/json"
	"math/big"
)

// Truthy reports whether v counts as a usable value under the engine's
// value-resolution rule. Null, false, numeric zero and the empty string are
// falsy; everything else is truthy.
//
// This is deliberately a truthiness check, not a presence check: a connected
// upstream value of false or 0 falls through to config and then to the
// declared default. Node behavior depends on this precedence.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case uint:
		return x != 0
	case uint32:
		return x != 0
	case uint64:
		return x != 0
	case float32:
		return x != 0
	case float64:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case *big.Int:
		return x != nil && x.Sign() != 0
	}
	return true
}

// Resolve returns the effective value of a field: the connected input if
// truthy, else the node's configured value if truthy, else the declared
// default.
func Resolve(field string, inputs, config map[string]any, spec FieldSpec) any {
	if v, ok := inputs[field]; ok && Truthy(v) {
		return v
	}
	if v, ok := config[field]; ok && Truthy(v) {
		return v
	}
	return spec.Default
}

// ResolveAll applies Resolve to every declared field and returns the
// effective value map.
func ResolveAll(inputs, config map[string]any, specs map[string]FieldSpec) map[string]any {
	out := make(map[string]any, len(specs))
	for name, spec := range specs {
		out[name] = Resolve(name, inputs, config, spec)
	}
	return out
}

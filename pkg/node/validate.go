package node

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"sort"
)

// ValidateField checks one resolved value against its port descriptor.
//
// An absent value is acceptable for connection-only ports (the field is fed
// by an edge; graph validation owns the wiring check) and for ports with a
// declared default; otherwise it is a
// required-field failure. A present value is checked against the scalar,
// enum and list rules for the declared type.
func ValidateField(name string, value any, spec FieldSpec) error {
	if value == nil {
		if spec.Type.IsConnectionOnly() {
			return nil
		}
		if spec.Default != nil {
			return nil
		}
		return &FieldError{Kind: ErrRequiredField, Field: name}
	}

	if typeAccepts(spec, value) {
		return nil
	}
	return &FieldError{
		Kind:     ErrFieldTypeMismatch,
		Field:    name,
		Expected: string(spec.Type.Normalize()),
		Actual:   valueTypeName(value),
	}
}

// ValidateInputs resolves the effective value of every declared field using
// the same precedence rule node execution uses, then validates each one.
// It short-circuits on the first failure; fields are visited in name order
// so the failure reported is deterministic.
func ValidateInputs(inputs, config map[string]any, specs map[string]FieldSpec) error {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := specs[name]
		if err := ValidateField(name, Resolve(name, inputs, config, spec), spec); err != nil {
			return err
		}
	}
	return nil
}

// typeAccepts reports whether a present value satisfies the declared type.
func typeAccepts(spec FieldSpec, value any) bool {
	t := spec.Type.Normalize()
	switch {
	case t == TypeAny:
		return true
	case t == TypeString:
		_, ok := value.(string)
		return ok
	case t == TypeBoolean:
		_, ok := value.(bool)
		return ok
	case t == TypeFloat:
		_, ok := asFloat(value)
		return ok
	case t == TypeInteger:
		return isIntegral(value)
	case t == TypeBigInt:
		return acceptsBigInt(value)
	case t == TypeEnum:
		return enumAccepts(spec.Options, value)
	case t.IsList():
		return listAccepts(spec, t.Elem(), value)
	}
	// Connection-only tags carry opaque handles the engine cannot inspect.
	return true
}

func enumAccepts(options []Option, value any) bool {
	if len(options) == 0 {
		return true
	}
	for _, opt := range options {
		if valuesEqual(opt.Value, value) {
			return true
		}
	}
	return false
}

func listAccepts(spec FieldSpec, elem DataType, value any) bool {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false
	}
	elemSpec := FieldSpec{Type: elem, Options: spec.Options}
	for i := 0; i < rv.Len(); i++ {
		ev := rv.Index(i).Interface()
		if ev == nil || !typeAccepts(elemSpec, ev) {
			return false
		}
	}
	return true
}

func acceptsBigInt(value any) bool {
	switch x := value.(type) {
	case *big.Int:
		return x != nil
	case string:
		_, ok := new(big.Int).SetString(x, 10)
		return ok
	}
	return isIntegral(value)
}

// valuesEqual compares an enum option value against a candidate, treating
// all numeric representations as equivalent.
func valuesEqual(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		if fb, ok2 := asFloat(b); ok2 {
			return fa == fb
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func isIntegral(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	if f, ok := asFloat(v); ok {
		return f == math.Trunc(f) && !math.IsInf(f, 0)
	}
	return false
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

func valueTypeName(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float32, float64, json.Number:
		if isIntegral(x) {
			return "integer"
		}
		return "float"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	case *big.Int:
		return "bigint"
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return "list"
	}
	return reflect.TypeOf(v).String()
}

package builtin

import (
	"context"
	"fmt"

	"github.com/leaxer/engine/pkg/node"
)

// primitive is a constant-value node. The whole String/Integer/Float/
// Boolean/BigInt family is generated by newPrimitive rather than written out
// per type; only the data type, the default and any extra field options
// differ between members.
type primitive struct {
	typ       string
	label     string
	valueSpec node.FieldSpec
}

// fieldOption tweaks the generated value port of a primitive.
type fieldOption func(*node.FieldSpec)

func withMultiline() fieldOption {
	return func(fs *node.FieldSpec) { fs.Multiline = true }
}

func withRange(min, max float64) fieldOption {
	return func(fs *node.FieldSpec) { fs.Min, fs.Max = &min, &max }
}

// newPrimitive builds a fully-formed constant node of the given data type.
// Defaults pass through untouched, so negative numeric defaults stay
// negative literals.
func newPrimitive(typ, label string, dt node.DataType, defaultVal any, opts ...fieldOption) node.Node {
	fs := node.FieldSpec{
		Type:         dt,
		Label:        "Value",
		Default:      defaultVal,
		Configurable: true,
	}
	for _, opt := range opts {
		opt(&fs)
	}
	return &primitive{typ: typ, label: label, valueSpec: fs}
}

func (p *primitive) Type() string     { return p.typ }
func (p *primitive) Label() string    { return p.label }
func (p *primitive) Category() string { return "Primitives" }

func (p *primitive) Description() string {
	return fmt.Sprintf("A constant %s value", p.valueSpec.Type)
}

func (p *primitive) InputSpec() map[string]node.FieldSpec {
	return map[string]node.FieldSpec{"value": p.valueSpec}
}

func (p *primitive) OutputSpec() map[string]node.FieldSpec {
	return map[string]node.FieldSpec{"value": {Type: p.valueSpec.Type, Label: p.valueSpec.Label}}
}

func (p *primitive) Process(_ context.Context, inputs, config map[string]any) (map[string]any, error) {
	return map[string]any{
		"value": node.Resolve("value", inputs, config, p.valueSpec),
	}, nil
}

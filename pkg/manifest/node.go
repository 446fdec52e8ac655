package manifest

import (
	"context"

	"github.com/leaxer/engine/pkg/node"
)

// manifestNode is a declaratively defined node type. It has no compiled
// process body: execution resolves every declared input with the standard
// precedence rule and maps the resolved values onto same-named output
// handles. Outputs with no matching input yield null.
type manifestNode struct {
	typ         string
	label       string
	category    string
	description string
	inputs      map[string]node.FieldSpec
	outputs     map[string]node.FieldSpec
}

func (m *manifestNode) Type() string { return m.typ }

func (m *manifestNode) Label() string {
	if m.label == "" {
		return m.typ
	}
	return m.label
}

func (m *manifestNode) Category() string    { return m.category }
func (m *manifestNode) Description() string { return m.description }

func (m *manifestNode) InputSpec() map[string]node.FieldSpec  { return m.inputs }
func (m *manifestNode) OutputSpec() map[string]node.FieldSpec { return m.outputs }

func (m *manifestNode) Process(_ context.Context, inputs, config map[string]any) (map[string]any, error) {
	resolved := node.ResolveAll(inputs, config, m.inputs)
	out := make(map[string]any, len(m.outputs))
	for name := range m.outputs {
		out[name] = resolved[name]
	}
	return out, nil
}

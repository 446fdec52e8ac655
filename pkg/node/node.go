// Package node defines the processing-unit contract shared by builtin and
// custom node types: the capability interface, port descriptors, the data
// type lattice, and the field-level validation rules the graph validator
// builds on.
package node

import "context"

// Node is the polymorphic contract every node type implements.
//
// The engine calls only the metadata methods during validation and
// scheduling; Process is invoked per node by the runner once the node's
// execution layer is released, with inputs resolved from upstream outputs by
// handle name and config taken from the node's stored data.
type Node interface {
	Type() string
	Label() string
	Category() string
	Description() string
	InputSpec() map[string]FieldSpec
	OutputSpec() map[string]FieldSpec

	// Process executes the node. Implementations resolve each field with
	// Resolve (inputs over config over declared default) and return their
	// outputs keyed by output handle.
	Process(ctx context.Context, inputs, config map[string]any) (map[string]any, error)
}

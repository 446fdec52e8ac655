package workflow

import (
	"github.com/leaxer/engine/pkg/node"
)

// SpecResolver supplies node type descriptors during validation.
// *registry.Registry satisfies it.
type SpecResolver interface {
	GetSpec(nodeType string) (*node.NodeSpec, bool)
}

// Validate checks a graph for structural and type-level well-formedness.
// It runs an ordered pipeline of checks (shape, edge referential integrity,
// handle direction, fan-in uniqueness, type compatibility) and returns the
// first violation found as a structured *Error. No partially valid graph is
// ever scheduled.
//
// A node type unknown to the resolver degrades permissively: its ports
// resolve to the wildcard type and its handles are not checked, mirroring
// the permissive normalization type compatibility applies to unresolvable
// specs. A handle name that does not correspond to any declared port on a
// known type is a clean validation failure, never a crash, regardless of
// what garbage the string contains.
func Validate(g *Graph, specs SpecResolver) error {
	if g == nil || g.Nodes == nil || g.Edges == nil {
		return &Error{Kind: ErrInvalidGraphFormat, Meta: map[string]any{
			"cause": "graph requires a nodes map and an edges sequence",
		}}
	}

	// Edge referential integrity.
	for _, e := range g.Edges {
		if _, ok := g.Nodes[e.Source]; !ok {
			return &Error{Kind: ErrInvalidEdgeReference, Meta: map[string]any{
				"source": e.Source, "target": e.Target,
			}}
		}
		if _, ok := g.Nodes[e.Target]; !ok {
			return &Error{Kind: ErrInvalidEdgeReference, Meta: map[string]any{
				"source": e.Source, "target": e.Target,
			}}
		}
	}

	// Handle direction: sourceHandle must be a declared output port of the
	// source type, targetHandle a declared input port of the target type.
	for _, e := range g.Edges {
		if !handleDeclared(specs, g.Nodes[e.Source].Type, e.SourceHandle, false) ||
			!handleDeclared(specs, g.Nodes[e.Target].Type, e.TargetHandle, true) {
			return &Error{Kind: ErrInvalidHandleDirection, Meta: map[string]any{
				"source":        e.Source,
				"source_handle": e.SourceHandle,
				"target":        e.Target,
				"target_handle": e.TargetHandle,
			}}
		}
	}

	// Fan-in uniqueness: an input port accepts at most one edge.
	seen := make(map[[2]string]bool, len(g.Edges))
	for _, e := range g.Edges {
		key := [2]string{e.Target, e.TargetHandle}
		if seen[key] {
			return &Error{Kind: ErrMultipleInputConnections, Meta: map[string]any{
				"target": e.Target, "target_handle": e.TargetHandle,
			}}
		}
		seen[key] = true
	}

	// Type compatibility across every edge.
	for _, e := range g.Edges {
		srcType := portType(specs, g.Nodes[e.Source].Type, e.SourceHandle, false)
		dstType := portType(specs, g.Nodes[e.Target].Type, e.TargetHandle, true)
		if !node.Compatible(srcType, dstType) {
			return &Error{Kind: ErrTypeMismatch, Meta: map[string]any{
				"source":        e.Source,
				"source_handle": e.SourceHandle,
				"source_type":   string(srcType),
				"target":        e.Target,
				"target_handle": e.TargetHandle,
				"target_type":   string(dstType),
			}}
		}
	}

	return nil
}

// handleDeclared reports whether handle names a declared port on nodeType.
// Unknown node types are not checkable and pass.
func handleDeclared(specs SpecResolver, nodeType, handle string, input bool) bool {
	spec, ok := specs.GetSpec(nodeType)
	if !ok || spec == nil {
		return true
	}
	ports := spec.OutputSpec
	if input {
		ports = spec.InputSpec
	}
	_, declared := ports[handle]
	return declared
}

// portType resolves the normalized data type of a port; anything that cannot
// be resolved normalizes permissively to the wildcard.
func portType(specs SpecResolver, nodeType, handle string, input bool) node.DataType {
	spec, ok := specs.GetSpec(nodeType)
	if !ok || spec == nil {
		return node.TypeAny
	}
	ports := spec.OutputSpec
	if input {
		ports = spec.InputSpec
	}
	fs, ok := ports[handle]
	if !ok {
		return node.TypeAny
	}
	return fs.Type.Normalize()
}

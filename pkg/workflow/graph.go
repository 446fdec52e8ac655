// Package workflow implements the graph execution core: the workflow data
// model, structural and type-level validation, and the dependency-aware
// scheduler that turns a validated graph into ordered parallel-execution
// layers.
package workflow

// Node is a single vertex of a workflow graph as produced by the editor.
// Data holds per-node configuration values keyed by field name and may carry
// a numeric created_at (milliseconds) used for scheduling tie-breaks.
// The top-level CreatedAt is a pointer so an explicit 0 on the wire is
// distinguishable from an absent field.
type Node struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	CreatedAt *float64       `json:"created_at,omitempty"`
}

// Edge is a directed, single-valued data dependency from one node's output
// port to another node's input port.
type Edge struct {
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle"`
	Target       string `json:"target"`
	TargetHandle string `json:"targetHandle"`
}

// Graph is the immutable input to validation and scheduling.
// A nil Nodes map or nil Edges slice marks a graph whose wire form was
// missing the corresponding key; Validate rejects that shape.
type Graph struct {
	Nodes map[string]*Node `json:"nodes"`
	Edges []*Edge          `json:"edges"`
}

// OutgoingEdges returns all edges leaving nodeID, in definition order.
func (g *Graph) OutgoingEdges(nodeID string) []*Edge {
	var out []*Edge
	for _, e := range g.Edges {
		if e.Source == nodeID {
			out = append(out, e)
		}
	}
	return out
}

// IncomingEdges returns all edges arriving at nodeID, in definition order.
func (g *Graph) IncomingEdges(nodeID string) []*Edge {
	var out []*Edge
	for _, e := range g.Edges {
		if e.Target == nodeID {
			out = append(out, e)
		}
	}
	return out
}

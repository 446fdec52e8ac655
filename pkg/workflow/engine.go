package workflow

import (
	"fmt"
	"log/slog"
)

// Engine is the facade over validation and scheduling: one entry point that
// turns a raw graph into ordered execution layers or a precise error.
type Engine struct {
	specs SpecResolver
}

// NewEngine creates an Engine backed by the given spec resolver.
func NewEngine(specs SpecResolver) (*Engine, error) {
	if specs == nil {
		return nil, fmt.Errorf("spec resolver must not be nil")
	}
	return &Engine{specs: specs}, nil
}

// Plan validates the graph and converts it into execution layers. Both
// stages are pure functions of the input graph and fail fast: the first
// violation aborts the pipeline and is returned unchanged.
func (e *Engine) Plan(g *Graph) (SortedPlan, error) {
	if err := Validate(g, e.specs); err != nil {
		return nil, err
	}
	slog.Debug("workflow validated", "nodes", len(g.Nodes), "edges", len(g.Edges))

	plan, err := Schedule(g)
	if err != nil {
		return nil, err
	}
	slog.Debug("workflow scheduled", "layers", len(plan))
	return plan, nil
}

// PlanJSON is a convenience that parses the editor wire form and plans it.
func (e *Engine) PlanJSON(src []byte) (SortedPlan, error) {
	g, err := ParseJSON(src)
	if err != nil {
		return nil, err
	}
	return e.Plan(g)
}

// Package runner is a reference executor for sorted plans: it releases one
// execution layer at a time, runs every node in the layer in parallel, and
// only moves on once the whole layer has finished. Production deployments
// with external worker pools replace this package; the engine itself never
// invokes Process.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/leaxer/engine/pkg/node"
	"github.com/leaxer/engine/pkg/workflow"
)

// ModuleResolver supplies node implementations by type identifier.
// *registry.Registry satisfies it.
type ModuleResolver interface {
	GetModule(nodeType string) (node.Node, bool)
}

// NodeError wraps a failure of one node's Process call.
type NodeError struct {
	NodeID string
	Err    error
}

func (e *NodeError) Error() string { return fmt.Sprintf("node %q: %v", e.NodeID, e.Err) }
func (e *NodeError) Unwrap() error { return e.Err }

// Runner executes a validated, scheduled workflow.
type Runner struct {
	modules ModuleResolver
}

// New creates a Runner backed by the given module resolver.
func New(modules ModuleResolver) *Runner {
	return &Runner{modules: modules}
}

// Run executes the plan layer by layer and returns every node's outputs
// keyed by node ID.
//
// All nodes of a layer run concurrently; the runner waits for each of them
// to finish, success or failure, before releasing the next layer, since the
// in-degree relaxation that produced later layers assumed full completion of
// earlier ones. If any node in a layer fails, the remaining layers are not
// released and the collected failures are returned along with the outputs
// produced so far.
func (r *Runner) Run(ctx context.Context, g *workflow.Graph, plan workflow.SortedPlan) (map[string]map[string]any, error) {
	outputs := make(map[string]map[string]any, len(g.Nodes))

	for layerIdx, layer := range plan {
		select {
		case <-ctx.Done():
			return outputs, fmt.Errorf("run cancelled before layer %d: %w", layerIdx, ctx.Err())
		default:
		}

		results := make([]error, len(layer))
		layerOut := make([]map[string]any, len(layer))

		var wg sync.WaitGroup
		for i, nodeID := range layer {
			wg.Add(1)
			go func() {
				defer wg.Done()
				out, err := r.runNode(ctx, g, nodeID, outputs)
				if err != nil {
					results[i] = &NodeError{NodeID: nodeID, Err: err}
					return
				}
				layerOut[i] = out
			}()
		}
		wg.Wait()

		var errs []error
		for i, nodeID := range layer {
			if results[i] != nil {
				errs = append(errs, results[i])
				continue
			}
			outputs[nodeID] = layerOut[i]
		}
		if len(errs) > 0 {
			return outputs, fmt.Errorf("layer %d: %w", layerIdx, errors.Join(errs...))
		}
		slog.Debug("layer complete", "layer", layerIdx, "nodes", len(layer))
	}

	return outputs, nil
}

// runNode gathers the node's inputs from upstream outputs, validates them
// against the input spec, and invokes Process.
func (r *Runner) runNode(ctx context.Context, g *workflow.Graph, nodeID string, outputs map[string]map[string]any) (map[string]any, error) {
	n := g.Nodes[nodeID]
	impl, ok := r.modules.GetModule(n.Type)
	if !ok {
		return nil, fmt.Errorf("node type %q not registered", n.Type)
	}

	inputs := make(map[string]any)
	for _, e := range g.IncomingEdges(nodeID) {
		if up, done := outputs[e.Source]; done {
			inputs[e.TargetHandle] = up[e.SourceHandle]
		}
	}

	if err := node.ValidateInputs(inputs, n.Data, impl.InputSpec()); err != nil {
		return nil, err
	}

	slog.Info("executing node", "node", nodeID, "type", n.Type)
	return impl.Process(ctx, inputs, n.Data)
}

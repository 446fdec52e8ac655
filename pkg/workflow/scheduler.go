package workflow

import (
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strconv"
)

// ExecutionLayer is an ordered group of node IDs with no dependency edges
// among them; the runner may execute all of them in parallel.
type ExecutionLayer []string

// SortedPlan is the ordered sequence of execution layers; concatenating the
// layers yields a valid topological order of the graph.
type SortedPlan []ExecutionLayer

// legacyNodeID matches editor-generated ids of the form
// node_<millisecond-timestamp>_<random>.
var legacyNodeID = regexp.MustCompile(`^node_(\d+)_`)

// Schedule converts a graph into execution layers using a layered variant of
// Kahn's algorithm.
//
// Within a layer, ready nodes are ordered by a tie-break heuristic that
// never overrides the dependency constraint: ascending depth first (distance
// in edges from the nearest sink, so nodes closer to an output run earlier),
// then newest creation timestamp first, then node id for determinism.
//
// Each layer's in-degree decrements are accumulated across the whole layer
// before the zero check, so a downstream node shared by several layer
// members is released exactly once, after all of them. If any nodes remain
// unprocessed when the ready set empties, they form a cycle and Schedule
// returns a cycle_detected error naming them.
func Schedule(g *Graph) (SortedPlan, error) {
	succ := make(map[string][]string, len(g.Nodes))
	indeg := make(map[string]int, len(g.Nodes))
	for id := range g.Nodes {
		indeg[id] = 0
	}
	for _, e := range g.Edges {
		if _, ok := g.Nodes[e.Source]; !ok {
			continue
		}
		if _, ok := g.Nodes[e.Target]; !ok {
			continue
		}
		succ[e.Source] = append(succ[e.Source], e.Target)
		indeg[e.Target]++
	}

	depth := sinkDepths(g, succ)
	stamp := make(map[string]int64, len(g.Nodes))
	for id, n := range g.Nodes {
		stamp[id] = priorityTimestamp(n)
	}

	less := func(a, b string) bool {
		if depth[a] != depth[b] {
			return depth[a] < depth[b]
		}
		if stamp[a] != stamp[b] {
			return stamp[a] > stamp[b]
		}
		return a < b
	}

	ready := make([]string, 0, len(g.Nodes))
	for id, d := range indeg {
		if d == 0 {
			ready = append(ready, id)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return less(ready[i], ready[j]) })

	var plan SortedPlan
	processed := 0
	for len(ready) > 0 {
		layer := make(ExecutionLayer, len(ready))
		copy(layer, ready)
		plan = append(plan, layer)
		processed += len(layer)

		// Accumulate decrements from every layer member before collecting
		// the next ready set.
		var next []string
		for _, id := range layer {
			for _, s := range succ[id] {
				indeg[s]--
				if indeg[s] == 0 {
					next = append(next, s)
				}
			}
		}
		sort.Slice(next, func(i, j int) bool { return less(next[i], next[j]) })
		ready = next
	}

	if processed != len(g.Nodes) {
		var remaining []string
		for id, d := range indeg {
			if d > 0 {
				remaining = append(remaining, id)
			}
		}
		sort.Strings(remaining)
		return nil, &Error{Kind: ErrCycleDetected, Meta: map[string]any{
			"remaining": remaining,
		}}
	}
	return plan, nil
}

// sinkDepths assigns each node its distance from the nearest sink: nodes
// with zero out-degree get depth 1, and depth relaxes backward along reverse
// edges as max(current, successor+1). Depth is capped at the node count so a
// cycle cannot relax forever; cyclic graphs are rejected later regardless.
func sinkDepths(g *Graph, succ map[string][]string) map[string]int {
	pred := make(map[string][]string, len(g.Nodes))
	for from, tos := range succ {
		for _, to := range tos {
			pred[to] = append(pred[to], from)
		}
	}

	depth := make(map[string]int, len(g.Nodes))
	var queue []string
	for id := range g.Nodes {
		if len(succ[id]) == 0 {
			depth[id] = 1
			queue = append(queue, id)
		}
	}

	maxDepth := len(g.Nodes)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, p := range pred[cur] {
			if d := depth[cur] + 1; d > depth[p] && d <= maxDepth {
				depth[p] = d
				queue = append(queue, p)
			}
		}
	}
	return depth
}

// priorityTimestamp extracts a node's scheduling timestamp: data.created_at
// when integral, else the node's top-level created_at when present and
// integral, else the timestamp embedded in a legacy
// node_<timestamp>_<random> id, else zero. A present created_at of 0 stops
// the chain; it does not fall through to the legacy-id parse.
func priorityTimestamp(n *Node) int64 {
	if ts, ok := integralMillis(n.Data["created_at"]); ok {
		return ts
	}
	if n.CreatedAt != nil {
		if ts, ok := integralMillis(*n.CreatedAt); ok {
			return ts
		}
	}
	if m := legacyNodeID.FindStringSubmatch(n.ID); m != nil {
		if ts, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return ts
		}
	}
	return 0
}

// integralMillis converts the numeric representations a decoded graph may
// carry into an integral millisecond count.
func integralMillis(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int64:
		return x, true
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return int64(x), true
		}
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, true
		}
		// Decimal forms like "123.0" fail Int64 but are still integral.
		if f, err := x.Float64(); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
			return int64(f), true
		}
	}
	return 0, false
}

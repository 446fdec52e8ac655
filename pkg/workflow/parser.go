package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseJSON decodes a workflow graph from its editor wire form:
// an object with a "nodes" map keyed by node id and an "edges" array.
//
// Malformed JSON is reported as an invalid_graph_format error; a missing
// "nodes" or "edges" key is left for Validate to reject so that all shape
// diagnostics flow through the same error taxonomy.
func ParseJSON(src []byte) (*Graph, error) {
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()

	var g Graph
	if err := dec.Decode(&g); err != nil {
		return nil, &Error{
			Kind: ErrInvalidGraphFormat,
			Meta: map[string]any{"cause": err.Error()},
		}
	}

	// The node id lives in the map key on the wire; backfill the struct so
	// downstream code never has to look at both.
	for id, n := range g.Nodes {
		if n == nil {
			g.Nodes[id] = &Node{ID: id}
			continue
		}
		if n.ID == "" {
			n.ID = id
		} else if n.ID != id {
			return nil, &Error{
				Kind: ErrInvalidGraphFormat,
				Meta: map[string]any{"cause": fmt.Sprintf("node key %q does not match node id %q", id, n.ID)},
			}
		}
	}

	for i, e := range g.Edges {
		if e == nil {
			return nil, &Error{
				Kind: ErrInvalidGraphFormat,
				Meta: map[string]any{"cause": fmt.Sprintf("edge %d is null", i)},
			}
		}
	}

	return &g, nil
}

package workflow_test

import (
	"errors"
	"testing"

	"github.com/leaxer/engine/pkg/node"
	"github.com/leaxer/engine/pkg/workflow"
)

// specTable is a minimal SpecResolver for tests.
type specTable map[string]*node.NodeSpec

func (t specTable) GetSpec(nodeType string) (*node.NodeSpec, bool) {
	s, ok := t[nodeType]
	return s, ok
}

func testSpecs() specTable {
	return specTable{
		"emit.int": {
			Type:       "emit.int",
			OutputSpec: map[string]node.FieldSpec{"out": {Type: node.TypeInteger}},
		},
		"take.int": {
			Type:       "take.int",
			InputSpec:  map[string]node.FieldSpec{"in": {Type: node.TypeInteger}},
			OutputSpec: map[string]node.FieldSpec{"out": {Type: node.TypeInteger}},
		},
		"emit.image": {
			Type:       "emit.image",
			OutputSpec: map[string]node.FieldSpec{"image": {Type: node.TypeImage}},
		},
		"take.string": {
			Type:      "take.string",
			InputSpec: map[string]node.FieldSpec{"text": {Type: node.TypeString}},
		},
		"take.any": {
			Type:      "take.any",
			InputSpec: map[string]node.FieldSpec{"in": {Type: node.TypeAny}},
		},
	}
}

func mkNode(id, typ string) *workflow.Node {
	return &workflow.Node{ID: id, Type: typ, Data: map[string]any{}}
}

// ─── Parser tests ─────────────────────────────────────────────────────────────

func TestParseJSON_Minimal(t *testing.T) {
	src := `{
		"nodes": {
			"a": {"type": "emit.int", "data": {}},
			"b": {"type": "take.int", "data": {"in": 5}}
		},
		"edges": [
			{"source": "a", "sourceHandle": "out", "target": "b", "targetHandle": "in"}
		]
	}`
	g, err := workflow.ParseJSON([]byte(src))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(g.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(g.Nodes))
	}
	if len(g.Edges) != 1 {
		t.Errorf("edges = %d, want 1", len(g.Edges))
	}
	if g.Nodes["a"].ID != "a" {
		t.Errorf("node id not backfilled from map key: %q", g.Nodes["a"].ID)
	}
}

func TestParseJSON_MalformedJSON(t *testing.T) {
	_, err := workflow.ParseJSON([]byte(`{"nodes": `))
	if workflow.KindOf(err) != workflow.ErrInvalidGraphFormat {
		t.Fatalf("kind = %q, want invalid_graph_format (err=%v)", workflow.KindOf(err), err)
	}
}

func TestParseJSON_IDMismatch(t *testing.T) {
	src := `{"nodes": {"a": {"id": "zzz", "type": "emit.int"}}, "edges": []}`
	_, err := workflow.ParseJSON([]byte(src))
	if workflow.KindOf(err) != workflow.ErrInvalidGraphFormat {
		t.Fatalf("expected invalid_graph_format, got %v", err)
	}
}

// ─── Validator tests ──────────────────────────────────────────────────────────

func TestValidate_OK(t *testing.T) {
	g := &workflow.Graph{
		Nodes: map[string]*workflow.Node{
			"A": mkNode("A", "emit.int"),
			"B": mkNode("B", "take.int"),
		},
		Edges: []*workflow.Edge{
			{Source: "A", SourceHandle: "out", Target: "B", TargetHandle: "in"},
		},
	}
	if err := workflow.Validate(g, testSpecs()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_MissingEdges(t *testing.T) {
	g := &workflow.Graph{Nodes: map[string]*workflow.Node{"A": mkNode("A", "emit.int")}}
	err := workflow.Validate(g, testSpecs())
	if workflow.KindOf(err) != workflow.ErrInvalidGraphFormat {
		t.Fatalf("kind = %q, want invalid_graph_format", workflow.KindOf(err))
	}
}

func TestValidate_EdgeReference(t *testing.T) {
	g := &workflow.Graph{
		Nodes: map[string]*workflow.Node{"A": mkNode("A", "emit.int")},
		Edges: []*workflow.Edge{
			{Source: "A", SourceHandle: "out", Target: "C", TargetHandle: "in"},
		},
	}
	err := workflow.Validate(g, testSpecs())
	if workflow.KindOf(err) != workflow.ErrInvalidEdgeReference {
		t.Fatalf("kind = %q, want invalid_edge_reference", workflow.KindOf(err))
	}
	var we *workflow.Error
	if !errors.As(err, &we) {
		t.Fatal("expected *workflow.Error")
	}
	if we.Meta["source"] != "A" || we.Meta["target"] != "C" {
		t.Errorf("meta = %v, want source=A target=C", we.Meta)
	}
}

func TestValidate_HandleDirection(t *testing.T) {
	g := &workflow.Graph{
		Nodes: map[string]*workflow.Node{
			"A": mkNode("A", "emit.int"),
			"B": mkNode("B", "take.int"),
		},
		Edges: []*workflow.Edge{
			{Source: "A", SourceHandle: "nope", Target: "B", TargetHandle: "in"},
		},
	}
	err := workflow.Validate(g, testSpecs())
	if workflow.KindOf(err) != workflow.ErrInvalidHandleDirection {
		t.Fatalf("kind = %q, want invalid_handle_direction", workflow.KindOf(err))
	}
}

func TestValidate_GarbageHandleFailsCleanly(t *testing.T) {
	// Adversarial handle strings must produce a validation error, never a
	// panic.
	g := &workflow.Graph{
		Nodes: map[string]*workflow.Node{
			"A": mkNode("A", "emit.int"),
			"B": mkNode("B", "take.int"),
		},
		Edges: []*workflow.Edge{
			{Source: "A", SourceHandle: "out", Target: "B", TargetHandle: "\x00\xff not-a-port '; --"},
		},
	}
	err := workflow.Validate(g, testSpecs())
	if workflow.KindOf(err) != workflow.ErrInvalidHandleDirection {
		t.Fatalf("kind = %q, want invalid_handle_direction", workflow.KindOf(err))
	}
}

func TestValidate_FanIn(t *testing.T) {
	edges := []*workflow.Edge{
		{Source: "A", SourceHandle: "out", Target: "C", TargetHandle: "in"},
		{Source: "B", SourceHandle: "out", Target: "C", TargetHandle: "in"},
	}
	// The failure must not depend on edge ordering.
	for _, order := range [][]*workflow.Edge{edges, {edges[1], edges[0]}} {
		g := &workflow.Graph{
			Nodes: map[string]*workflow.Node{
				"A": mkNode("A", "emit.int"),
				"B": mkNode("B", "emit.int"),
				"C": mkNode("C", "take.int"),
			},
			Edges: order,
		}
		err := workflow.Validate(g, testSpecs())
		if workflow.KindOf(err) != workflow.ErrMultipleInputConnections {
			t.Fatalf("kind = %q, want multiple_input_connections", workflow.KindOf(err))
		}
	}
}

func TestValidate_TypeMismatch(t *testing.T) {
	g := &workflow.Graph{
		Nodes: map[string]*workflow.Node{
			"A": mkNode("A", "emit.image"),
			"B": mkNode("B", "take.string"),
		},
		Edges: []*workflow.Edge{
			{Source: "A", SourceHandle: "image", Target: "B", TargetHandle: "text"},
		},
	}
	err := workflow.Validate(g, testSpecs())
	if workflow.KindOf(err) != workflow.ErrTypeMismatch {
		t.Fatalf("kind = %q, want type_mismatch", workflow.KindOf(err))
	}
}

func TestValidate_AnyInputAcceptsAnything(t *testing.T) {
	g := &workflow.Graph{
		Nodes: map[string]*workflow.Node{
			"A": mkNode("A", "emit.image"),
			"B": mkNode("B", "take.any"),
		},
		Edges: []*workflow.Edge{
			{Source: "A", SourceHandle: "image", Target: "B", TargetHandle: "in"},
		},
	}
	if err := workflow.Validate(g, testSpecs()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_UnknownTypeIsPermissive(t *testing.T) {
	g := &workflow.Graph{
		Nodes: map[string]*workflow.Node{
			"A": mkNode("A", "mystery"),
			"B": mkNode("B", "take.string"),
		},
		Edges: []*workflow.Edge{
			{Source: "A", SourceHandle: "whatever", Target: "B", TargetHandle: "text"},
		},
	}
	if err := workflow.Validate(g, testSpecs()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

// ─── Engine facade tests ──────────────────────────────────────────────────────

func TestEngine_PlanEndToEnd(t *testing.T) {
	eng, err := workflow.NewEngine(testSpecs())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	g := &workflow.Graph{
		Nodes: map[string]*workflow.Node{
			"A": mkNode("A", "emit.int"),
			"B": mkNode("B", "take.int"),
		},
		Edges: []*workflow.Edge{
			{Source: "A", SourceHandle: "out", Target: "B", TargetHandle: "in"},
		},
	}
	plan, err := eng.Plan(g)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	want := workflow.SortedPlan{{"A"}, {"B"}}
	assertPlanEqual(t, plan, want)
}

func TestEngine_PlanRejectsInvalid(t *testing.T) {
	eng, _ := workflow.NewEngine(testSpecs())
	g := &workflow.Graph{
		Nodes: map[string]*workflow.Node{"A": mkNode("A", "emit.int")},
		Edges: []*workflow.Edge{
			{Source: "A", SourceHandle: "out", Target: "missing", TargetHandle: "in"},
		},
	}
	if _, err := eng.Plan(g); workflow.KindOf(err) != workflow.ErrInvalidEdgeReference {
		t.Fatalf("expected invalid_edge_reference, got %v", err)
	}
}

func assertPlanEqual(t *testing.T, got, want workflow.SortedPlan) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("plan layers = %d, want %d (got %v)", len(got), len(want), got)
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("layer %d = %v, want %v", i, got[i], want[i])
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("layer %d = %v, want %v", i, got[i], want[i])
			}
		}
	}
}

package transform

import (
	"slices"
	"testing"

	"github.com/archrip/archrip/pkg/dag"
)

func TestCompactRows(t *testing.T) {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "a", Row: 10})
	_ = g.AddNode(dag.Node{ID: "b", Row: 3})
	_ = g.AddNode(dag.Node{ID: "c", Row: 50})
	_ = g.AddNode(dag.Node{ID: "d", Row: 3})

	CompactRows(g)

	want := map[string]int{"a": 1, "b": 0, "c": 2, "d": 0}
	for id, row := range want {
		n, _ := g.Node(id)
		if n.Row != row {
			t.Errorf("row(%s) = %d, want %d", id, n.Row, row)
		}
	}
	if got := g.RowIDs(); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("RowIDs = %v", got)
	}
}

func TestCompactRows_Empty(t *testing.T) {
	g := dag.New()
	CompactRows(g)
	if g.RowCount() != 0 {
		t.Errorf("RowCount = %d", g.RowCount())
	}
}

func TestOrientEdges(t *testing.T) {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "top", Row: 0})
	_ = g.AddNode(dag.Node{ID: "peer", Row: 0})
	_ = g.AddNode(dag.Node{ID: "bottom", Row: 1})
	_ = g.AddEdge(dag.Edge{From: "bottom", To: "top"})
	_ = g.AddEdge(dag.Edge{From: "top", To: "bottom"})
	_ = g.AddEdge(dag.Edge{From: "top", To: "peer"})

	reversed := OrientEdges(g)

	if reversed != 1 {
		t.Errorf("reversed = %d, want 1", reversed)
	}
	edges := g.Edges()
	if len(edges) != 1 {
		t.Fatalf("edges = %v, want a single top→bottom edge", edges)
	}
	if edges[0].From != "top" || edges[0].To != "bottom" {
		t.Errorf("edge = %s→%s", edges[0].From, edges[0].To)
	}
	if edges[0].Meta[MetaReversed] != true {
		t.Error("first occurrence was the reversed edge and should keep its tag")
	}
}

func TestSubdivide(t *testing.T) {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "api", Row: 0})
	_ = g.AddNode(dag.Node{ID: "mid", Row: 1})
	_ = g.AddNode(dag.Node{ID: "db", Row: 3})
	_ = g.AddEdge(dag.Edge{From: "api", To: "db", Meta: dag.Metadata{"label": "reads"}})
	_ = g.AddEdge(dag.Edge{From: "api", To: "mid"})

	Subdivide(g)

	if err := g.Validate(); err != nil {
		t.Fatalf("Validate after Subdivide: %v", err)
	}
	if g.NodeCount() != 5 {
		t.Errorf("NodeCount = %d, want 5", g.NodeCount())
	}
	for _, id := range []string{"api_sub_1", "api_sub_2"} {
		n, ok := g.Node(id)
		if !ok {
			t.Fatalf("missing subdivider %s", id)
		}
		if !n.IsSubdivider() || n.MasterID != "api" {
			t.Errorf("%s: kind=%v master=%q", id, n.Kind, n.MasterID)
		}
	}
	if got := g.Parents("db"); !slices.Equal(got, []string{"api_sub_2"}) {
		t.Errorf("Parents(db) = %v", got)
	}
	for _, e := range g.Edges() {
		if e.To == "db" && e.Meta["label"] != "reads" {
			t.Error("metadata should move to the final hop")
		}
	}
}

func TestSubdivide_IDCollision(t *testing.T) {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "a", Row: 0})
	_ = g.AddNode(dag.Node{ID: "a_sub_1", Row: 1})
	_ = g.AddNode(dag.Node{ID: "b", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "a", To: "b"})

	Subdivide(g)

	if _, ok := g.Node("a_sub_1__1"); !ok {
		t.Errorf("expected suffixed subdivider, nodes = %v", dag.NodeIDs(g.Nodes()))
	}
}

func TestNormalize(t *testing.T) {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "model", Row: 40})
	_ = g.AddNode(dag.Node{ID: "service", Row: 20})
	_ = g.AddNode(dag.Node{ID: "controller", Row: 0})
	_ = g.AddEdge(dag.Edge{From: "model", To: "controller"})
	_ = g.AddEdge(dag.Edge{From: "service", To: "model"})

	Normalize(g)

	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if g.RowCount() != 3 {
		t.Errorf("RowCount = %d, want 3", g.RowCount())
	}
	if g.NodeCount() != 4 {
		t.Errorf("NodeCount = %d, want 4 (one subdivider)", g.NodeCount())
	}
}

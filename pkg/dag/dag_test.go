package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestAddNode_Errors(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty id: err = %v", err)
	}
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate: err = %v", err)
	}
	n, _ := g.Node("a")
	if n.Meta == nil {
		t.Error("Meta should be initialized")
	}
}

func TestAddEdge_Errors(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	if err := g.AddEdge(Edge{From: "x", To: "a"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("unknown source: err = %v", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "x"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("unknown target: err = %v", err)
	}
}

func TestInsertionOrder(t *testing.T) {
	g := New()
	ids := []string{"q", "b", "z", "a", "m"}
	for i, id := range ids {
		_ = g.AddNode(Node{ID: id, Row: i % 2})
	}

	if got := NodeIDs(g.Nodes()); !slices.Equal(got, ids) {
		t.Errorf("Nodes() = %v, want %v", got, ids)
	}
	if got := NodeIDs(g.NodesInRow(0)); !slices.Equal(got, []string{"q", "z", "m"}) {
		t.Errorf("row 0 = %v", got)
	}

	g.SetRows(map[string]int{"q": 1, "b": 0})
	if got := NodeIDs(g.NodesInRow(0)); !slices.Equal(got, []string{"b", "z", "m"}) {
		t.Errorf("row 0 after SetRows = %v", got)
	}
	if got := NodeIDs(g.NodesInRow(1)); !slices.Equal(got, []string{"q", "a"}) {
		t.Errorf("row 1 after SetRows = %v", got)
	}
}

func TestRemoveEdge(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a", Row: 0})
	_ = g.AddNode(Node{ID: "b", Row: 1})
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	g.RemoveEdge("a", "b")
	g.RemoveEdge("a", "missing")

	if g.EdgeCount() != 0 || len(g.Children("a")) != 0 || len(g.Parents("b")) != 0 {
		t.Errorf("edge not removed: edges=%d children=%v parents=%v", g.EdgeCount(), g.Children("a"), g.Parents("b"))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		build func() *DAG
		want  error
	}{
		{
			name: "valid",
			build: func() *DAG {
				g := New()
				_ = g.AddNode(Node{ID: "a", Row: 0})
				_ = g.AddNode(Node{ID: "b", Row: 1})
				_ = g.AddEdge(Edge{From: "a", To: "b"})
				return g
			},
		},
		{
			name: "skips a row",
			build: func() *DAG {
				g := New()
				_ = g.AddNode(Node{ID: "a", Row: 0})
				_ = g.AddNode(Node{ID: "b", Row: 2})
				_ = g.AddEdge(Edge{From: "a", To: "b"})
				return g
			},
			want: ErrNonConsecutiveRows,
		},
		{
			name: "upward edge",
			build: func() *DAG {
				g := New()
				_ = g.AddNode(Node{ID: "a", Row: 0})
				_ = g.AddNode(Node{ID: "b", Row: 1})
				_ = g.AddEdge(Edge{From: "a", To: "b"})
				_ = g.AddEdge(Edge{From: "b", To: "a"})
				return g
			},
			want: ErrNonConsecutiveRows,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.build().Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDetectCycles(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "b", To: "a"})
	if err := g.detectCycles(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("detectCycles() = %v, want %v", err, ErrGraphHasCycle)
	}
}

func TestCountCrossings(t *testing.T) {
	g := New()
	for _, n := range []Node{{ID: "a"}, {ID: "b"}, {ID: "c", Row: 1}, {ID: "d", Row: 1}, {ID: "e", Row: 2}, {ID: "f", Row: 2}} {
		_ = g.AddNode(n)
	}
	_ = g.AddEdge(Edge{From: "a", To: "d"})
	_ = g.AddEdge(Edge{From: "b", To: "c"})
	_ = g.AddEdge(Edge{From: "c", To: "f"})
	_ = g.AddEdge(Edge{From: "d", To: "e"})

	rows := [][]string{{"a", "b"}, {"c", "d"}, {"e", "f"}}
	if got := CountCrossings(g, rows); got != 2 {
		t.Errorf("CountCrossings = %d, want 2", got)
	}
	rows[0] = []string{"b", "a"}
	if got := CountCrossings(g, rows); got != 1 {
		t.Errorf("CountCrossings after swap = %d, want 1", got)
	}
}

func TestCountPairCrossings(t *testing.T) {
	g := New()
	for _, n := range []Node{{ID: "a"}, {ID: "b"}, {ID: "x", Row: 1}, {ID: "y", Row: 1}} {
		_ = g.AddNode(n)
	}
	_ = g.AddEdge(Edge{From: "a", To: "y"})
	_ = g.AddEdge(Edge{From: "b", To: "x"})

	pos := PosMap([]string{"x", "y"})
	if got := CountPairCrossings(g, "a", "b", pos, false); got != 1 {
		t.Errorf("a,b = %d, want 1", got)
	}
	if got := CountPairCrossings(g, "b", "a", pos, false); got != 0 {
		t.Errorf("b,a = %d, want 0", got)
	}
}

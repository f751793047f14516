package reduce

import (
	"slices"
	"testing"

	"github.com/archrip/archrip/pkg/graph"
)

func intPtr(v int) *int { return &v }

func node(id, category string, layer, depth int) graph.Node {
	return graph.Node{ID: id, Category: category, Label: id, Layer: intPtr(layer), Depth: intPtr(depth)}
}

func ids(nodes []graph.ViewNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func pairs(edges []graph.Edge) [][2]string {
	out := make([][2]string, len(edges))
	for i, e := range edges {
		out[i] = [2]string{e.Source, e.Target}
	}
	return out
}

func TestReduce_SingletonKeepsInputPosition(t *testing.T) {
	nodes := []graph.Node{
		node("orders", "service", 1, 2),
		node("api", "controller", 0, 0),
		node("order", "model", 2, 2),
		node("invoice", "model", 2, 2),
	}
	r := Reduce(nodes, nil, 0)

	if got := ids(r.Nodes); !slices.Equal(got, []string{"orders", "api", "group:model"}) {
		t.Errorf("nodes = %v", got)
	}
}

func TestReduce_SingletonIsKept(t *testing.T) {
	nodes := []graph.Node{
		node("api", "controller", 0, 0),
		node("orders", "service", 1, 2),
	}
	r := Reduce(nodes, []graph.Edge{{Source: "api", Target: "orders"}}, 0)

	if got := ids(r.Nodes); !slices.Equal(got, []string{"api", "orders"}) {
		t.Errorf("nodes = %v", got)
	}
	if len(r.Groups()) != 0 {
		t.Errorf("singleton should not become a group: %v", r.Groups())
	}
	if len(r.Edges) != 1 {
		t.Errorf("edges = %v", pairs(r.Edges))
	}
}

func TestReduce_GroupsByCategory(t *testing.T) {
	nodes := []graph.Node{
		node("api", "controller", 0, 0),
		node("users", "service", 2, 1),
		node("orders", "service", 3, 1),
		node("billing", "service", 3, 1),
		node("user-repo", "adapter", 4, 2),
		node("order-repo", "adapter", 4, 2),
	}
	nodes[1].UseCases = []string{"signup", "login"}
	nodes[2].UseCases = []string{"checkout", "login"}

	r := Reduce(nodes, nil, 0)

	if got := ids(r.Nodes); !slices.Equal(got, []string{"api", "group:service", "group:adapter"}) {
		t.Fatalf("nodes = %v", got)
	}
	svc := r.Nodes[1]
	if !svc.IsGroup || svc.MemberCount != 3 || len(svc.Members) != 3 {
		t.Errorf("service group = %+v", svc)
	}
	if svc.Label != "Service (3)" || svc.Description != "3 service nodes" {
		t.Errorf("label/description = %q / %q", svc.Label, svc.Description)
	}
	if svc.Layer != 3 {
		t.Errorf("layer = %d, want mode 3", svc.Layer)
	}
	if !slices.Equal(svc.UseCases, []string{"signup", "login", "checkout"}) {
		t.Errorf("use cases = %v", svc.UseCases)
	}
	if r.GroupOf["orders"] != "group:service" || r.GroupOf["user-repo"] != "group:adapter" {
		t.Errorf("GroupOf = %v", r.GroupOf)
	}
	if _, ok := r.GroupOf["api"]; ok {
		t.Error("kept node should not be mapped")
	}
}

func TestReduce_Edges(t *testing.T) {
	nodes := []graph.Node{
		node("api", "controller", 0, 0),
		node("s1", "service", 1, 1),
		node("s2", "service", 1, 1),
		node("a1", "adapter", 2, 2),
		node("a2", "adapter", 2, 2),
	}
	edges := []graph.Edge{
		{Source: "api", Target: "s1", Label: "first"},
		{Source: "api", Target: "s2", Label: "second"},
		{Source: "s1", Target: "s2"},
		{Source: "s1", Target: "a1"},
		{Source: "s2", Target: "a2"},
		{Source: "a1", Target: "ghost"},
	}
	r := Reduce(nodes, edges, 0)

	want := [][2]string{{"api", "group:service"}, {"group:service", "group:adapter"}}
	if got := pairs(r.Edges); !slices.Equal(got, want) {
		t.Fatalf("edges = %v, want %v", got, want)
	}
	if r.Edges[0].Label != "first" {
		t.Errorf("first occurrence should win, label = %q", r.Edges[0].Label)
	}
}

func TestReduce_Levels(t *testing.T) {
	nodes := []graph.Node{
		node("a", "service", 0, 0),
		node("b", "service", 1, 1),
		node("c", "service", 1, 1),
		node("d", "service", 2, 2),
		node("e", "service", 2, 2),
	}
	tests := []struct {
		level int
		want  []string
	}{
		{-3, []string{"a", "group:service"}},
		{0, []string{"a", "group:service"}},
		{1, []string{"a", "b", "c", "group:service"}},
		{2, []string{"a", "b", "c", "d", "e"}},
		{9, []string{"a", "b", "c", "d", "e"}},
	}
	for _, tt := range tests {
		r := Reduce(nodes, nil, tt.level)
		if got := ids(r.Nodes); !slices.Equal(got, tt.want) {
			t.Errorf("level %d: nodes = %v, want %v", tt.level, got, tt.want)
		}
		if r.Level != graph.ClampDepth(tt.level) {
			t.Errorf("level %d: Level = %d", tt.level, r.Level)
		}
	}
}

func TestReduce_DetailPassesEdgesThrough(t *testing.T) {
	nodes := []graph.Node{node("a", "service", 0, 0), node("b", "service", 1, 2)}
	edges := []graph.Edge{{Source: "a", Target: "b"}, {Source: "a", Target: "b"}}
	r := Reduce(nodes, edges, graph.DepthDetail)
	if len(r.Edges) != 2 {
		t.Errorf("detail level should not touch edges: %v", pairs(r.Edges))
	}
}

func TestReduce_ModeLayerTieGoesToFirstSeen(t *testing.T) {
	nodes := []graph.Node{
		node("x1", "job", 7, 2),
		node("x2", "job", 2, 2),
		node("x3", "job", 2, 2),
		node("x4", "job", 7, 2),
	}
	if g := Reduce(nodes, nil, 1).Groups()[0]; g.Layer != 7 {
		t.Errorf("layer = %d, want 7", g.Layer)
	}
}

func TestReduce_MissingDepthUsesLayerSpan(t *testing.T) {
	nodes := []graph.Node{
		{ID: "top", Category: "controller", Layer: intPtr(0)},
		{ID: "low1", Category: "model", Layer: intPtr(9)},
		{ID: "low2", Category: "model", Layer: intPtr(8)},
	}
	r := Reduce(nodes, nil, 0)
	if got := ids(r.Nodes); !slices.Equal(got, []string{"top", "group:model"}) {
		t.Errorf("nodes = %v", got)
	}
}

func TestReduce_GroupIDCollision(t *testing.T) {
	nodes := []graph.Node{
		node("group:service", "controller", 0, 0),
		node("s1", "service", 1, 2),
		node("s2", "service", 1, 2),
	}
	r := Reduce(nodes, nil, 0)
	if got := ids(r.Nodes); !slices.Equal(got, []string{"group:service", "group:service~2"}) {
		t.Errorf("nodes = %v", got)
	}
}

func TestReduceDocument_MemberSourceURLs(t *testing.T) {
	doc := &graph.Document{
		Project: graph.Project{Name: "shop", SourceURL: "https://example.com/blob/main/{filePath}"},
		Nodes: []graph.Node{
			node("api", "controller", 0, 0),
			node("s1", "service", 1, 2),
			node("s2", "service", 1, 2),
		},
	}
	doc.Nodes[1].FilePath = "src/orders service.go"

	g := ReduceDocument(doc, 0).Groups()[0]
	if got := g.Members[0].SourceURL; got != "https://example.com/blob/main/src/orders%20service.go" {
		t.Errorf("source url = %q", got)
	}
	if g.Members[1].SourceURL != "" {
		t.Errorf("member without a file path should have no link, got %q", g.Members[1].SourceURL)
	}
}

func TestReduce_Idempotent(t *testing.T) {
	nodes := []graph.Node{
		node("a", "service", 0, 1),
		node("b", "service", 1, 1),
		node("c", "adapter", 2, 2),
		node("d", "adapter", 2, 2),
	}
	edges := []graph.Edge{{Source: "a", Target: "c"}, {Source: "b", Target: "d"}}
	first := Reduce(nodes, edges, 0)
	second := Reduce(nodes, edges, 0)
	if !slices.Equal(ids(first.Nodes), ids(second.Nodes)) || !slices.Equal(pairs(first.Edges), pairs(second.Edges)) {
		t.Errorf("results differ: %v %v vs %v %v", ids(first.Nodes), pairs(first.Edges), ids(second.Nodes), pairs(second.Edges))
	}
}

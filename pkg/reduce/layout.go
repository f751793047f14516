package reduce

import (
	"github.com/archrip/archrip/pkg/graph"
	"github.com/archrip/archrip/pkg/layout"
)

// LayoutInput converts a reduced graph into layout nodes and edges.
func (r *Result) LayoutInput() ([]layout.Node, []layout.Edge) {
	nodes := make([]layout.Node, len(r.Nodes))
	for i, n := range r.Nodes {
		nodes[i] = layout.Node{ID: n.ID, Category: n.Category, Layer: n.Layer, Group: n.IsGroup}
	}
	edges := make([]layout.Edge, len(r.Edges))
	for i, e := range r.Edges {
		edges[i] = layout.Edge{Source: e.Source, Target: e.Target}
	}
	return nodes, edges
}

// Layout places the reduced graph with the given algorithm and records each
// node's box size on r.Nodes.
func (r *Result) Layout(kind layout.Kind, p layout.Params) map[string]layout.Box {
	nodes, edges := r.LayoutInput()
	boxes := layout.Compute(kind, nodes, edges, p)
	for i := range r.Nodes {
		if b, ok := boxes[r.Nodes[i].ID]; ok {
			r.Nodes[i].Width, r.Nodes[i].Height = b.Width, b.Height
		}
	}
	return boxes
}

// View reduces doc at level and lays out the result, producing a
// self-contained view.
func View(doc *graph.Document, level int, kind layout.Kind, p layout.Params) graph.View {
	r := ReduceDocument(doc, level)
	boxes := r.Layout(kind, p)
	return graph.View{
		Depth:     r.Level,
		Layout:    kind.String(),
		Nodes:     r.Nodes,
		Edges:     r.Edges,
		Positions: Positions(boxes),
	}
}

// Positions strips boxes down to their top-left corners.
func Positions(boxes map[string]layout.Box) map[string]graph.Position {
	out := make(map[string]graph.Position, len(boxes))
	for id, b := range boxes {
		out[id] = graph.Position{X: b.X, Y: b.Y}
	}
	return out
}

// DocumentInput converts a whole document, unreduced, into layout input.
func DocumentInput(doc *graph.Document) ([]layout.Node, []layout.Edge) {
	return Reduce(doc.Nodes, doc.Edges, graph.DepthDetail).LayoutInput()
}

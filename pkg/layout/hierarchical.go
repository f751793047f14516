package layout

import (
	"github.com/archrip/archrip/pkg/dag"
	"github.com/archrip/archrip/pkg/dag/transform"
)

// Hierarchical places nodes in horizontal rows, top to bottom.
//
// A node's row comes from its Layer: distinct layer values are sorted and
// each becomes one row, so a lower layer is always drawn strictly above a
// higher one, whatever the edges say. Within a row, nodes are ordered to
// reduce edge crossings and then pulled toward their neighbours' x
// positions without ever closing the NodeSep gap. Nodes without edges stay
// on their own layer's row.
//
// The drawing's left and top edges sit at MarginX and MarginY. Box
// coordinates are top-left corners.
func Hierarchical(nodes []Node, edges []Edge, p Params) map[string]Box {
	out := make(map[string]Box, len(nodes))
	if len(nodes) == 0 {
		return out
	}
	p = p.WithDefaults()

	g := dag.New()
	sizes := make(map[string]size, len(nodes))
	for _, n := range nodes {
		if err := g.AddNode(dag.Node{ID: n.ID, Row: n.Layer}); err != nil {
			continue
		}
		w, h := p.Size(n)
		sizes[n.ID] = size{w, h}
	}
	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}
		// Unknown endpoints are rejected by AddEdge and skipped.
		_ = g.AddEdge(dag.Edge{From: e.Source, To: e.Target})
	}
	transform.Normalize(g)

	orders := orderRows(g, p.OrderingSweeps)
	xs := placeX(g, orders, sizes, p)
	ys := placeY(orders, sizes, p)

	for _, n := range nodes {
		if _, done := out[n.ID]; done {
			continue
		}
		s := sizes[n.ID]
		out[n.ID] = Box{
			ID:     n.ID,
			X:      xs[n.ID] - s.w/2,
			Y:      ys[n.ID] - s.h/2,
			Width:  s.w,
			Height: s.h,
		}
	}
	return out
}

type size struct{ w, h float64 }

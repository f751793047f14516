package transform

import "github.com/archrip/archrip/pkg/dag"

// MetaReversed is set on edges that [OrientEdges] flipped.
const MetaReversed = "reversed"

// OrientEdges makes every edge point from a lower row index to a higher one.
//
// Upward edges are reversed and tagged with [MetaReversed]. Edges between
// nodes of the same row are removed, since they impose no vertical
// constraint. Parallel edges that coincide after reversal are merged.
// Returns the number of edges reversed.
func OrientEdges(g *dag.DAG) int {
	type pair struct{ from, to string }

	edges := g.Edges()
	for _, e := range edges {
		g.RemoveEdge(e.From, e.To)
	}

	seen := make(map[pair]bool, len(edges))
	reversed := 0
	for _, e := range edges {
		src, okS := g.Node(e.From)
		dst, okD := g.Node(e.To)
		if !okS || !okD || src.Row == dst.Row {
			continue
		}
		if src.Row > dst.Row {
			e.From, e.To = e.To, e.From
			meta := dag.Metadata{MetaReversed: true}
			for k, v := range e.Meta {
				meta[k] = v
			}
			e.Meta = meta
			reversed++
		}
		p := pair{e.From, e.To}
		if seen[p] {
			continue
		}
		seen[p] = true
		if err := g.AddEdge(e); err != nil {
			panic(err)
		}
	}
	return reversed
}

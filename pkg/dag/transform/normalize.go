package transform

import "github.com/archrip/archrip/pkg/dag"

// Normalize applies [CompactRows], [OrientEdges] and [Subdivide] to g and
// returns it.
func Normalize(g *dag.DAG) *dag.DAG {
	CompactRows(g)
	OrientEdges(g)
	Subdivide(g)
	return g
}

package transform

import "github.com/archrip/archrip/pkg/dag"

// CompactRows renumbers the graph's distinct row values to consecutive
// indices starting at 0. Relative order is preserved, so a node above
// another stays above it.
func CompactRows(g *dag.DAG) {
	rowIDs := g.RowIDs()
	if len(rowIDs) == 0 {
		return
	}
	index := make(map[int]int, len(rowIDs))
	for i, r := range rowIDs {
		index[r] = i
	}
	rows := make(map[string]int, g.NodeCount())
	for _, n := range g.Nodes() {
		rows[n.ID] = index[n.Row]
	}
	g.SetRows(rows)
}

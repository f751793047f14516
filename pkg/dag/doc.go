// Package dag provides the row-indexed directed graph that backs the
// hierarchical layout.
//
// Nodes carry a Row (rank); the layout engine fills rows from the layer
// values of the architecture document, then uses the transforms in
// dag/transform to orient edges downward and split edges that span more than
// one row. After that every edge connects consecutive rows, which is what
// the crossing counter in this package expects.
//
// Unlike a map-backed graph, a [DAG] remembers insertion order and reports
// nodes, rows and edges in that order. Layout determinism depends on
// it.
//
//	g := dag.New()
//	_ = g.AddNode(dag.Node{ID: "api", Row: 0})
//	_ = g.AddNode(dag.Node{ID: "db", Row: 1})
//	_ = g.AddEdge(dag.Edge{From: "api", To: "db"})
//	fmt.Println(dag.CountLayerCrossings(g, []string{"api"}, []string{"db"}))
package dag

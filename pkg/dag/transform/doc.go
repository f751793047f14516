// Package transform prepares a [dag.DAG] for the hierarchical layout.
//
// The layout takes each node's row from its layer value. Those rows are
// sparse (layers 0, 3, 10, ...), edges may point upward, and edges may skip
// several rows. [Normalize] fixes all three, in this order:
//
//   - [CompactRows] renumbers the distinct rows to 0..k-1, keeping their order.
//   - [OrientEdges] reverses edges that point upward and drops edges whose
//     endpoints share a row, so every edge points strictly down.
//   - [Subdivide] replaces each edge spanning more than one row with a chain
//     of single-row hops through [dag.NodeKindSubdivider] nodes.
//
// Afterwards [dag.DAG.Validate] succeeds: every edge joins consecutive rows
// and the graph is acyclic by construction.
package transform

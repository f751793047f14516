// Package layout computes node positions for architecture diagrams.
//
// Two algorithms share the [Func] signature:
//
//   - [Hierarchical] stacks nodes in rows by their Layer, orders each row to
//     reduce edge crossings, and aligns nodes with their neighbours.
//   - [Concentric] places nodes on rings around the origin, innermost ring
//     first, keyed by [RingKey].
//
// Both accept any node and edge slices: unknown edge endpoints and
// self-loops are ignored and the output always holds exactly one [Box] per
// distinct node ID. Results are deterministic for a given input.
//
// # Geometry
//
// [Params] holds box sizes and spacing. [DefaultParams] matches the viewer's
// 180x80 node boxes and 200x90 group boxes.
package layout

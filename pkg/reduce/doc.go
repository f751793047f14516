// Package reduce collapses an architecture graph to a coarser depth level.
//
// Every node has a depth of 0 (overview), 1 (standard) or 2 (detail). At a
// given level, nodes deeper than the level are merged into synthetic group
// nodes, one per category, and edges are rewritten to connect the groups.
// The reduced graph is then handed to a [layout.Func].
//
// Group IDs take the form "group:<category>". Real node IDs cannot contain a
// colon, so they never clash with a valid document; if an input does hold
// the same ID, the group ID gains a "~2", "~3", ... suffix.
package reduce

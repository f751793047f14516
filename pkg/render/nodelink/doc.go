// Package nodelink draws a laid-out architecture view as a Graphviz
// diagram.
//
// [ToDOT] converts a [graph.View] to DOT source with every node pinned to
// its computed position and coloured by category:
//
//	dot := nodelink.ToDOT(view, nodelink.Options{Title: "shop"})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Group nodes are drawn with a dashed outline. implements edges are dashed
// with a hollow arrowhead and relation edges are dotted without one.
//
// Rendering uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process, so no system Graphviz install is needed.
package nodelink

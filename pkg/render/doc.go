// Package render groups the output renderers for laid-out views.
//
// Layout happens before rendering: renderers never move nodes. They draw a
// [graph.View] whose Positions are already final.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage emits Graphviz DOT with every node pinned to its
// computed position and coloured by category, and turns that DOT into SVG
// with the embedded Graphviz.
//
//	dot := nodelink.ToDOT(view, nodelink.Options{Title: "shop"})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [graph.View]: github.com/archrip/archrip/pkg/graph.View
// [nodelink]: github.com/archrip/archrip/pkg/render/nodelink
package render

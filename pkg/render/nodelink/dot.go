package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/archrip/archrip/pkg/graph"
)

// pointsPerInch converts pixel box sizes to Graphviz inches. One pixel is
// drawn as one point.
const pointsPerInch = 72

// Options configures DOT output.
type Options struct {
	// Title is drawn above the diagram when set.
	Title string

	// Detailed adds the category label under each node label.
	Detailed bool
}

// ToDOT writes a view as a Graphviz graph with every node pinned to its
// computed position. Graphviz's y axis points up, so y is negated. Nodes
// without a position are left for Graphviz to place.
func ToDOT(v graph.View, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  overlap=true;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=28;\n", opts.Title)
	}
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=14, fixedsize=true];\n")
	buf.WriteString("  edge [color=\"#94a3b8\", arrowsize=0.7];\n\n")

	for _, n := range v.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, v.Positions, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range v.Edges {
		attrs := edgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graph.ViewNode, positions map[string]graph.Position, opts Options) []string {
	c := graph.LookupCategory(n.Category)
	label := n.Label
	if opts.Detailed {
		label += "\n" + c.Label
	}

	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", c.Style.Background),
		fmt.Sprintf("color=%q", c.Style.Border),
		fmt.Sprintf("fontcolor=%q", c.Style.Text),
	}
	if n.Width > 0 && n.Height > 0 {
		attrs = append(attrs,
			"width="+fmtFloat(n.Width/pointsPerInch),
			"height="+fmtFloat(n.Height/pointsPerInch))
	}
	if n.IsGroup {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "penwidth=2")
	}
	if p, ok := positions[n.ID]; ok {
		cx, cy := p.X+n.Width/2, p.Y+n.Height/2
		attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(cx), fmtFloat(-cy)))
	}
	return attrs
}

func edgeAttrs(e graph.Edge) []string {
	var attrs []string
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	switch e.Type {
	case graph.EdgeImplements:
		attrs = append(attrs, "style=dashed", "arrowhead=empty")
	case graph.EdgeRelation:
		attrs = append(attrs, "style=dotted", "dir=none")
	}
	return attrs
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderSVG renders DOT source to SVG. Pinned positions are honoured by
// using the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized svg header with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	head := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(head))
}

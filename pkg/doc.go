// Package pkg provides the core libraries for archrip architecture diagrams.
//
// # Overview
//
// archrip turns a description of a software system (components with a
// category, a layer and dependencies between them) into diagram layouts.
// The pkg directory is organized into these areas:
//
//  1. [graph] - The architecture document, validation, categories and depth levels
//  2. [dag] and [dag/transform] - Row-indexed graphs used by the layered layout
//  3. [layout] - The hierarchical and concentric layout algorithms
//  4. [reduce] - Depth reduction: collapsing detail into per-category groups
//  5. [pipeline] - Orchestration (validate → reduce → layout → render) with caching
//  6. [cache], [errors], [observability], [buildinfo] - Infrastructure
//  7. [render/nodelink] - DOT and SVG output
//
// # Architecture
//
// The typical data flow:
//
//	architecture.json / .yaml
//	         ↓
//	    [graph] package (read + validate)
//	         ↓
//	    [reduce] package (collapse to depth 0, 1 or 2)
//	         ↓
//	    [layout] package (dagre rows or concentric rings)
//	         ↓
//	    _layout / _views, DOT, SVG
//
// # Quick Start
//
//	doc, err := graph.ReadFile("architecture.json")
//	if err != nil {
//	    return err
//	}
//	if err := graph.Validate(doc).Err(); err != nil {
//	    return err
//	}
//	view := reduce.View(doc, graph.DepthOverview, layout.KindConcentric, layout.DefaultParams())
//	for _, n := range view.Nodes {
//	    fmt.Println(n.ID, view.Positions[n.ID])
//	}
//
// Or let the pipeline handle validation, every view and caching:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Build(ctx, doc, pipeline.Options{Views: true})
//
// The layout packages are pure: no I/O, no logging, no errors. Everything
// that touches disks, networks or terminals lives in pipeline, cache and the
// internal packages.
//
// [graph]: github.com/archrip/archrip/pkg/graph
// [dag]: github.com/archrip/archrip/pkg/dag
// [dag/transform]: github.com/archrip/archrip/pkg/dag/transform
// [layout]: github.com/archrip/archrip/pkg/layout
// [reduce]: github.com/archrip/archrip/pkg/reduce
// [pipeline]: github.com/archrip/archrip/pkg/pipeline
// [cache]: github.com/archrip/archrip/pkg/cache
// [errors]: github.com/archrip/archrip/pkg/errors
// [observability]: github.com/archrip/archrip/pkg/observability
// [buildinfo]: github.com/archrip/archrip/pkg/buildinfo
// [render/nodelink]: github.com/archrip/archrip/pkg/render/nodelink
package pkg

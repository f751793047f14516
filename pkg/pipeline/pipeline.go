// Package pipeline turns an architecture document into laid-out views and
// rendered artifacts.
//
// It is shared by the CLI and the HTTP server so that both validate,
// reduce, lay out and cache in exactly the same way.
//
// # Stages
//
//  1. Validate: [graph.Validate] rejects malformed documents.
//  2. Layout: the document is reduced to the requested depth and placed
//     with the requested [layout.Kind].
//  3. Render: a laid-out view is drawn as DOT, SVG or JSON.
//
// [Runner.Build] runs all three to produce the document written by
// "archrip build", with _layout filled in and, optionally, every depth and
// layout kind precomputed under _views.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Build(ctx, doc, pipeline.Options{Views: true})
package pipeline

import (
	"github.com/archrip/archrip/pkg/cache"
	"github.com/archrip/archrip/pkg/errors"
	"github.com/archrip/archrip/pkg/graph"
	"github.com/archrip/archrip/pkg/layout"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported render formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// DefaultFormat is used when Options.Formats is empty.
const DefaultFormat = FormatSVG

// Options configures a pipeline run.
type Options struct {
	// Layout selects the algorithm. Empty uses the project's layout mode.
	Layout string `json:"layout,omitempty"`

	// Depth is the level views are reduced to. Out-of-range values are
	// clamped. Build always lays out _layout at full detail.
	Depth int `json:"depth"`

	// Views precomputes every depth and layout kind into _views.
	Views bool `json:"views,omitempty"`

	Params  layout.Params `json:"params"`
	Formats []string      `json:"formats,omitempty"`

	// Refresh skips cache reads but still writes results.
	Refresh bool `json:"refresh,omitempty"`
}

// SetDefaults fills zero-valued fields.
func (o *Options) SetDefaults() {
	o.Params = o.Params.WithDefaults()
	o.Depth = graph.ClampDepth(o.Depth)
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
}

// Validate checks the fields that have no sensible fallback.
func (o *Options) Validate() error {
	if o.Layout != "" {
		if _, err := layout.ParseKind(o.Layout); err != nil {
			return err
		}
	}
	return ValidateFormats(o.Formats)
}

// ValidateAndSetDefaults applies defaults and then validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// Kind resolves the layout kind for doc.
func (o *Options) Kind(doc *graph.Document) layout.Kind {
	name := o.Layout
	if name == "" {
		name = doc.Project.LayoutMode()
	}
	k, err := layout.ParseKind(name)
	if err != nil {
		return layout.KindHierarchical
	}
	return k
}

// LayoutKeyOpts returns the cache key inputs for one view.
func (o *Options) LayoutKeyOpts(kind layout.Kind, depth int) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Kind: kind.String(), Depth: depth, Params: o.Params}
}

// ValidateFormat checks a single render format.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be one of: svg, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

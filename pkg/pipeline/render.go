package pipeline

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/archrip/archrip/pkg/cache"
	"github.com/archrip/archrip/pkg/graph"
	"github.com/archrip/archrip/pkg/observability"
	"github.com/archrip/archrip/pkg/render/nodelink"
)

// Render draws a laid-out view in the given format. SVG output is cached by
// the view's content.
func (r *Runner) Render(ctx context.Context, v graph.View, format, title string) ([]byte, bool, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, false, err
	}

	viewData, err := json.Marshal(v)
	if err != nil {
		return nil, false, fmt.Errorf("serialize view: %w", err)
	}
	if format == FormatJSON {
		out, err := json.MarshalIndent(v, "", "  ")
		return out, false, err
	}

	dot := nodelink.ToDOT(v, nodelink.Options{Title: title})
	if format == FormatDOT {
		return []byte(dot), false, nil
	}

	key := r.Keyer.RenderKey(cache.Hash(viewData), cache.RenderKeyOpts{Format: format, Title: title})
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "render")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	start := r.now()
	svg, err := nodelink.RenderSVG(ctx, dot)
	observability.Pipeline().OnRenderComplete(ctx, format, len(svg), r.now().Sub(start), err)
	if err != nil {
		return nil, false, fmt.Errorf("render %s: %w", format, err)
	}

	if err := r.Cache.Set(ctx, key, svg, cache.TTLRender); err == nil {
		observability.Cache().OnCacheSet(ctx, "render", len(svg))
	}
	return svg, false, nil
}

// RenderAll renders v in each of opts.Formats.
func (r *Runner) RenderAll(ctx context.Context, v graph.View, title string, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		data, _, err := r.Render(ctx, v, f, title)
		if err != nil {
			return nil, err
		}
		out[f] = data
	}
	return out, nil
}

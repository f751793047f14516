package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/archrip/archrip/pkg/buildinfo"
	"github.com/archrip/archrip/pkg/cache"
	"github.com/archrip/archrip/pkg/graph"
	"github.com/archrip/archrip/pkg/layout"
	"github.com/archrip/archrip/pkg/observability"
	"github.com/archrip/archrip/pkg/reduce"
)

// Runner executes pipeline stages with caching.
//
// A Runner holds no per-run state and may be shared by concurrent callers.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// ScopeProjects prefixes layout keys with the project's slug, keeping
	// projects apart in a cache shared between checkouts.
	ScopeProjects bool

	now func() time.Time
}

// NewRunner returns a runner. A nil cache disables caching, a nil keyer
// uses [cache.NewDefaultKeyer] and a nil logger discards output.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger, now: time.Now}
}

// Result is the output of [Runner.Build].
type Result struct {
	// Document is a copy of the input with _layout, _build and, when
	// requested, _views filled in.
	Document *graph.Document

	// Report holds the validation warnings. Builds with errors fail.
	Report *graph.Report

	// Hash is the content hash of the input, ignoring generated fields.
	Hash string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats describes a build.
type Stats struct {
	NodeCount int
	EdgeCount int
	ViewCount int
	Duration  time.Duration
}

// CacheInfo counts cache traffic during a build.
type CacheInfo struct {
	Hits   int
	Misses int
}

// Build validates doc and lays it out.
func (r *Runner) Build(ctx context.Context, doc *graph.Document, opts Options) (res *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	start := r.now()
	observability.Pipeline().OnBuildStart(ctx, doc.Project.Name, len(doc.Nodes))
	defer func() {
		observability.Pipeline().OnBuildComplete(ctx, doc.Project.Name, r.now().Sub(start), err)
	}()

	report := graph.Validate(doc)
	for _, w := range report.Warnings {
		r.Logger.Debug("validation warning", "path", w.Path, "msg", w.Message)
	}
	if err := report.Err(); err != nil {
		return nil, err
	}

	hash, err := DocumentHash(doc)
	if err != nil {
		return nil, err
	}
	out, err := doc.Clone()
	if err != nil {
		return nil, fmt.Errorf("copy document: %w", err)
	}
	res = &Result{Document: out, Report: report, Hash: hash}
	res.Stats.NodeCount = len(doc.Nodes)
	res.Stats.EdgeCount = len(doc.Edges)

	kind := opts.Kind(doc)
	full, hit, err := r.view(ctx, doc, hash, kind, graph.DepthDetail, opts)
	if err != nil {
		return nil, err
	}
	res.CacheInfo.record(hit)
	out.Layout = full.Positions

	out.Views = nil
	if opts.Views {
		views, info, err := r.allViews(ctx, doc, hash, opts)
		if err != nil {
			return nil, err
		}
		out.Views = views
		res.CacheInfo.Hits += info.Hits
		res.CacheInfo.Misses += info.Misses
		res.Stats.ViewCount = len(views)
	}

	out.Build = &graph.BuildInfo{
		ID:        uuid.NewString(),
		Version:   buildinfo.Resolved(),
		Layout:    kind.String(),
		Generated: r.now().UTC().Format(time.RFC3339),
	}
	res.Stats.Duration = r.now().Sub(start)

	r.Logger.Info("built layout",
		"project", doc.Project.Name,
		"build", out.Build.ID,
		"layout", kind,
		"nodes", res.Stats.NodeCount,
		"edges", res.Stats.EdgeCount,
		"views", res.Stats.ViewCount,
		"cache_hits", res.CacheInfo.Hits,
		"duration", res.Stats.Duration)
	return res, nil
}

func (c *CacheInfo) record(hit bool) {
	if hit {
		c.Hits++
	} else {
		c.Misses++
	}
}

// allViews computes every (depth, kind) view concurrently. The result is
// ordered by depth, then by the order of [layout.Kinds].
func (r *Runner) allViews(ctx context.Context, doc *graph.Document, hash string, opts Options) ([]graph.View, CacheInfo, error) {
	depths := []int{graph.DepthOverview, graph.DepthStandard, graph.DepthDetail}
	views := make([]graph.View, len(depths)*len(layout.Kinds))
	hits := make([]bool, len(views))

	g, gctx := errgroup.WithContext(ctx)
	for i, depth := range depths {
		for j, kind := range layout.Kinds {
			idx := i*len(layout.Kinds) + j
			g.Go(func() error {
				v, hit, err := r.view(gctx, doc, hash, kind, depth, opts)
				if err != nil {
					return fmt.Errorf("view %s/%d: %w", kind, depth, err)
				}
				views[idx], hits[idx] = v, hit
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, CacheInfo{}, err
	}

	var info CacheInfo
	for _, h := range hits {
		info.record(h)
	}
	return views, info, nil
}

// View reduces doc to depth and lays it out with kind, consulting the cache.
// The document is assumed to be valid.
func (r *Runner) View(ctx context.Context, doc *graph.Document, kind layout.Kind, depth int, opts Options) (graph.View, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.View{}, false, fmt.Errorf("invalid options: %w", err)
	}
	hash, err := DocumentHash(doc)
	if err != nil {
		return graph.View{}, false, err
	}
	return r.view(ctx, doc, hash, kind, depth, opts)
}

func (r *Runner) view(ctx context.Context, doc *graph.Document, hash string, kind layout.Kind, depth int, opts Options) (graph.View, bool, error) {
	depth = graph.ClampDepth(depth)
	key := r.keyer(doc).LayoutKey(hash, opts.LayoutKeyOpts(kind, depth))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var v graph.View
			if err := json.Unmarshal(data, &v); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return v, true, nil
			}
		} else if err != nil {
			r.Logger.Debug("cache read failed", "key", key, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	if err := ctx.Err(); err != nil {
		return graph.View{}, false, err
	}

	start := r.now()
	observability.Pipeline().OnLayoutStart(ctx, kind.String(), depth, len(doc.Nodes))
	v := reduce.View(doc, depth, kind, opts.Params)
	elapsed := r.now().Sub(start)
	observability.Pipeline().OnLayoutComplete(ctx, kind.String(), depth, elapsed)
	r.Logger.Debug("computed layout", "layout", kind, "depth", depth, "nodes", len(v.Nodes), "duration", elapsed)

	if data, err := json.Marshal(v); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			r.Logger.Debug("cache write failed", "key", key, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return v, false, nil
}

func (r *Runner) keyer(doc *graph.Document) cache.Keyer {
	if !r.ScopeProjects {
		return r.Keyer
	}
	slug := projectSlug(doc.Project.Name)
	if slug == "" {
		return r.Keyer
	}
	return cache.NewScopedKeyer(r.Keyer, slug+":")
}

// projectSlug lowercases name and joins its words with dashes.
func projectSlug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// DocumentHash hashes doc's authored content. Generated fields (_layout,
// _views, _build) are excluded so rebuilding a built document hits the
// cache.
func DocumentHash(doc *graph.Document) (string, error) {
	stripped := *doc
	stripped.Layout, stripped.Views, stripped.Build = nil, nil, nil
	data, err := graph.Marshal(&stripped)
	if err != nil {
		return "", fmt.Errorf("hash document: %w", err)
	}
	return cache.Hash(data), nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

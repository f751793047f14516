package pipeline

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/archrip/archrip/pkg/cache"
	"github.com/archrip/archrip/pkg/errors"
	"github.com/archrip/archrip/pkg/graph"
	"github.com/archrip/archrip/pkg/layout"
)

func intPtr(v int) *int { return &v }

func testDoc() *graph.Document {
	return &graph.Document{
		Version: graph.SchemaVersion,
		Project: graph.Project{Name: "shop"},
		Nodes: []graph.Node{
			{ID: "orders-api", Category: "controller", Label: "OrdersController", Layer: intPtr(0), Depth: intPtr(0)},
			{ID: "orders", Category: "service", Label: "OrderService", Layer: intPtr(1), Depth: intPtr(1)},
			{ID: "billing", Category: "service", Label: "BillingService", Layer: intPtr(1), Depth: intPtr(1)},
			{ID: "order", Category: "model", Label: "Order", Layer: intPtr(2), Depth: intPtr(2)},
			{ID: "invoice", Category: "model", Label: "Invoice", Layer: intPtr(2), Depth: intPtr(2)},
		},
		Edges: []graph.Edge{
			{Source: "orders-api", Target: "orders"},
			{Source: "orders-api", Target: "billing"},
			{Source: "orders", Target: "order"},
			{Source: "billing", Target: "invoice"},
		},
	}
}

// countingCache wraps a cache and counts hits.
type countingCache struct {
	cache.Cache
	mu   sync.Mutex
	hits int
	sets int
	keys []string
}

func (c *countingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	c.mu.Lock()
	defer c.mu.Unlock()
	if hit {
		c.hits++
	}
	return data, hit, err
}

func (c *countingCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.sets++
	c.keys = append(c.keys, key)
	c.mu.Unlock()
	return c.Cache.Set(ctx, key, data, ttl)
}

func newFileRunner(t *testing.T) (*Runner, *countingCache) {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cc := &countingCache{Cache: fc}
	return NewRunner(cc, nil, nil), cc
}

func TestBuild(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	doc := testDoc()

	res, err := r.Build(context.Background(), doc, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	out := res.Document
	if len(out.Layout) != len(doc.Nodes) {
		t.Errorf("_layout has %d entries, want %d", len(out.Layout), len(doc.Nodes))
	}
	if out.Layout["orders-api"].Y >= out.Layout["order"].Y {
		t.Errorf("controller should sit above the model: %v vs %v", out.Layout["orders-api"], out.Layout["order"])
	}
	if out.Build == nil || out.Build.ID == "" || out.Build.Layout != "dagre" {
		t.Errorf("_build = %+v", out.Build)
	}
	if out.Views != nil {
		t.Errorf("views should be omitted unless requested")
	}
	if doc.Layout != nil {
		t.Error("Build must not modify its input")
	}
	if res.Stats.NodeCount != 5 || res.Stats.EdgeCount != 4 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestBuild_Views(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Build(context.Background(), testDoc(), Options{Views: true})
	if err != nil {
		t.Fatal(err)
	}
	views := res.Document.Views
	if len(views) != 6 {
		t.Fatalf("got %d views, want 6", len(views))
	}
	for i, v := range views {
		if wantDepth := i / len(layout.Kinds); v.Depth != wantDepth {
			t.Errorf("views[%d].Depth = %d, want %d", i, v.Depth, wantDepth)
		}
		if len(v.Positions) != len(v.Nodes) {
			t.Errorf("views[%d]: %d positions for %d nodes", i, len(v.Positions), len(v.Nodes))
		}
	}
	// Depth 0 merges both services and both models.
	if n := len(views[0].Nodes); n != 3 {
		t.Errorf("overview has %d nodes, want 3", n)
	}
}

func TestBuild_ConcentricProject(t *testing.T) {
	doc := testDoc()
	doc.Project.Layout = graph.LayoutConcentric
	res, err := NewRunner(nil, nil, nil).Build(context.Background(), doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Document.Build.Layout != "concentric" {
		t.Errorf("layout = %s", res.Document.Build.Layout)
	}
}

func TestBuild_InvalidDocument(t *testing.T) {
	doc := testDoc()
	doc.Edges = append(doc.Edges, graph.Edge{Source: "order", Target: "missing"})

	_, err := NewRunner(nil, nil, nil).Build(context.Background(), doc, Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsInputError(err) {
		t.Errorf("error should be an input error: %v", err)
	}
}

func TestBuild_InvalidOptions(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Build(context.Background(), testDoc(), Options{Layout: "radial"})
	if errors.GetCode(err) != errors.ErrCodeInvalidLayout {
		t.Errorf("err = %v", err)
	}
}

func TestBuild_Cache(t *testing.T) {
	r, cc := newFileRunner(t)
	ctx := context.Background()

	first, err := r.Build(ctx, testDoc(), Options{Views: true})
	if err != nil {
		t.Fatal(err)
	}
	// The detail/dagre view reuses the _layout entry computed just before.
	if first.CacheInfo.Hits != 1 || first.CacheInfo.Misses != 6 {
		t.Errorf("first build cache info = %+v", first.CacheInfo)
	}

	// Rebuilding the built output hits the cache: generated fields are
	// excluded from the hash.
	second, err := r.Build(ctx, first.Document, Options{Views: true})
	if err != nil {
		t.Fatal(err)
	}
	if second.CacheInfo.Hits != 7 {
		t.Errorf("second build cache info = %+v", second.CacheInfo)
	}
	for id, p := range first.Document.Layout {
		if second.Document.Layout[id] != p {
			t.Errorf("%s moved: %v -> %v", id, p, second.Document.Layout[id])
		}
	}
	if first.Document.Build.ID == second.Document.Build.ID {
		t.Error("each build should get a fresh id")
	}

	hits := cc.hits
	if _, err := r.Build(ctx, testDoc(), Options{Refresh: true}); err != nil {
		t.Fatal(err)
	}
	if cc.hits != hits {
		t.Error("Refresh should bypass cache reads")
	}
}

func TestDocumentHash(t *testing.T) {
	a, err := DocumentHash(testDoc())
	if err != nil {
		t.Fatal(err)
	}
	built := testDoc()
	built.Layout = map[string]graph.Position{"order": {X: 1, Y: 2}}
	built.Build = &graph.BuildInfo{ID: "x"}
	b, _ := DocumentHash(built)
	if a != b {
		t.Error("generated fields should not change the hash")
	}
	changed := testDoc()
	changed.Nodes[0].Label = "Changed"
	c, _ := DocumentHash(changed)
	if a == c {
		t.Error("authored content should change the hash")
	}
}

func TestRunner_View(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	v, hit, err := r.View(context.Background(), testDoc(), layout.KindConcentric, 1, Options{})
	if err != nil || hit {
		t.Fatalf("View: hit=%v err=%v", hit, err)
	}
	if v.Layout != "concentric" || v.Depth != 1 {
		t.Errorf("view = %s/%d", v.Layout, v.Depth)
	}
	// Depth 1 keeps controller and services, merges the two models.
	if len(v.Nodes) != 4 || !v.Nodes[3].IsGroup {
		t.Errorf("nodes = %+v", v.Nodes)
	}
}

func TestRunner_ViewCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := NewRunner(nil, nil, nil).View(ctx, testDoc(), layout.KindHierarchical, 2, Options{}); err == nil {
		t.Error("expected context error")
	}
}

func TestRunner_Render(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()
	v, _, err := r.View(ctx, testDoc(), layout.KindHierarchical, 2, Options{})
	if err != nil {
		t.Fatal(err)
	}

	dot, _, err := r.Render(ctx, v, FormatDOT, "shop")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(dot), `"orders-api" -> "orders"`) {
		t.Errorf("DOT missing edge:\n%s", dot)
	}

	js, _, err := r.Render(ctx, v, FormatJSON, "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(js), `"positions"`) {
		t.Errorf("JSON missing positions: %s", js)
	}

	if _, _, err := r.Render(ctx, v, "gif", ""); errors.GetCode(err) != errors.ErrCodeInvalidFormat {
		t.Errorf("bad format err = %v", err)
	}
}

func TestRunner_RenderAll(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()
	v, _, _ := r.View(ctx, testDoc(), layout.KindHierarchical, 0, Options{})

	out, err := r.RenderAll(ctx, v, "shop", Options{Formats: []string{FormatDOT, FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || len(out[FormatDOT]) == 0 || len(out[FormatJSON]) == 0 {
		t.Errorf("artifacts = %v", out)
	}
}

func TestNewRunner_NilLogger(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Logger == log.Default() {
		t.Error("nil logger should discard, not fall back to the default logger")
	}
}

func TestBuild_WarningsNotLoggedAsWarn(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(nil, nil, log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))
	doc := testDoc()
	doc.Nodes = append(doc.Nodes, graph.Node{ID: "audit", Category: "job", Label: "AuditJob", Layer: intPtr(3)})

	res, err := r.Build(context.Background(), doc, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(res.Report.Warnings) == 0 {
		t.Fatal("expected an orphan warning")
	}
	if strings.Contains(buf.String(), "orphan") {
		t.Errorf("warnings belong to the caller, got log output:\n%s", buf.String())
	}
}

func TestRunner_ScopeProjects(t *testing.T) {
	tests := []struct {
		name    string
		scope   bool
		project string
		prefix  string
	}{
		{"unscoped", false, "Shop Front", "layout:"},
		{"scoped", true, "Shop Front", "shop-front:layout:"},
		{"scoped without name", true, "  ", "layout:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := &countingCache{Cache: cache.NewNullCache()}
			r := NewRunner(cc, nil, log.New(io.Discard))
			r.ScopeProjects = tt.scope
			doc := testDoc()
			doc.Project.Name = tt.project

			if _, _, err := r.View(context.Background(), doc, layout.KindHierarchical, graph.DepthDetail, Options{}); err != nil {
				t.Fatalf("View: %v", err)
			}
			if len(cc.keys) != 1 || !strings.HasPrefix(cc.keys[0], tt.prefix) {
				t.Errorf("keys = %v, want prefix %q", cc.keys, tt.prefix)
			}
		})
	}
}

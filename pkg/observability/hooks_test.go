package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnBuildStart(ctx, "shop", 12)
	p.OnBuildComplete(ctx, "shop", time.Second, nil)
	p.OnLayoutStart(ctx, "dagre", 2, 12)
	p.OnLayoutComplete(ctx, "dagre", 2, time.Millisecond)
	p.OnRenderComplete(ctx, "svg", 2048, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "render", 1024)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "GET", "/api/layout")
	s.OnResponse(ctx, "GET", "/api/layout", 200, time.Millisecond)
}

type recordingCacheHooks struct {
	NoopCacheHooks
	mu   sync.Mutex
	hits []string
}

func (r *recordingCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits = append(r.hits, keyType)
}

type countingServerHooks struct {
	NoopServerHooks
	requests int
}

func (c *countingServerHooks) OnRequest(context.Context, string, string) { c.requests++ }

func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should default to no-op")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should default to no-op")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should default to no-op")
	}

	rec := &recordingCacheHooks{}
	SetCacheHooks(rec)
	Cache().OnCacheHit(context.Background(), "layout")
	if len(rec.hits) != 1 || rec.hits[0] != "layout" {
		t.Errorf("hits = %v", rec.hits)
	}

	srv := &countingServerHooks{}
	SetServerHooks(srv)
	SetServerHooks(nil)
	Server().OnRequest(context.Background(), "GET", "/")
	if srv.requests != 1 {
		t.Errorf("nil registration should be ignored, requests = %d", srv.requests)
	}

	Reset()
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset should restore no-op hooks")
	}
}

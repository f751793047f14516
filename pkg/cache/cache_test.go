package cache

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("empty cache should miss")
	}
	if err := c.Set(ctx, "layout:1", []byte(`{"a":1}`), 0); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "layout:1")
	if err != nil || !hit || string(data) != `{"a":1}` {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "layout:1"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "layout:1"); hit {
		t.Error("deleted entry should miss")
	}
	if err := c.Delete(ctx, "layout:1"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestFileCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("fresh entry should hit")
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Errorf("expired entry should be removed, stat err = %v", err)
	}
}

func TestFileCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
}

func TestFileCache_Clear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Clear = %d, %v; want 3", n, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache dir not empty: %v", entries)
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte("hello"))
	if h != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h == Hash([]byte("world")) {
		t.Error("different inputs should hash differently")
	}
	if len(h) != 64 {
		t.Errorf("len = %d, want 64", len(h))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	a := k.LayoutKey("doc", LayoutKeyOpts{Kind: "dagre", Depth: 2})
	b := k.LayoutKey("doc", LayoutKeyOpts{Kind: "concentric", Depth: 2})
	c := k.LayoutKey("doc", LayoutKeyOpts{Kind: "dagre", Depth: 1})
	if a == b || a == c {
		t.Error("layout options should change the key")
	}
	if !strings.HasPrefix(a, "layout:") {
		t.Errorf("key = %s", a)
	}
	if k.RenderKey("l", RenderKeyOpts{Format: "svg"}) == k.RenderKey("l", RenderKeyOpts{Format: "dot"}) {
		t.Error("format should change the render key")
	}
}

func TestScopedKeyer(t *testing.T) {
	k := NewScopedKeyer(nil, "shop:")
	if key := k.LayoutKey("doc", LayoutKeyOpts{}); !strings.HasPrefix(key, "shop:layout:") {
		t.Errorf("key = %s", key)
	}
	if key := k.RenderKey("l", RenderKeyOpts{}); !strings.HasPrefix(key, "shop:render:") {
		t.Errorf("key = %s", key)
	}
}

func TestNewRedisCache_BadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "http://not-redis"); err == nil {
		t.Error("expected error for non-redis scheme")
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestRedisCache_Retry(t *testing.T) {
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{}), WithRetry(3, time.Millisecond))
	defer c.Close()
	ctx := context.Background()

	calls := 0
	err := c.retry(ctx, func() error {
		calls++
		if calls < 2 {
			return timeoutErr{}
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("transient failure: err=%v calls=%d", err, calls)
	}

	calls = 0
	permanent := errors.New("WRONGTYPE")
	if err := c.retry(ctx, func() error { calls++; return permanent }); err != permanent || calls != 1 {
		t.Errorf("permanent failure: err=%v calls=%d", err, calls)
	}

	calls = 0
	if err := c.retry(ctx, func() error { calls++; return timeoutErr{} }); calls != 3 || err == nil {
		t.Errorf("exhausted retries: err=%v calls=%d", err, calls)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if err := c.retry(cctx, func() error { return timeoutErr{} }); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: err=%v", err)
	}
}

func TestTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil reply", redis.Nil, false},
		{"timeout", timeoutErr{}, true},
		{"cancelled", context.Canceled, false},
		{"other", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := transient(tt.err); got != tt.want {
				t.Errorf("transient = %v, want %v", got, tt.want)
			}
		})
	}
}

// Package cache stores computed layouts and renders between runs.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for sharing results between machines or server replicas, and [NullCache]
// when caching is disabled. Keys come from a [Keyer] so that every backend
// agrees on what a cached entry means.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Expired and unreadable entries count as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Default lifetimes.
const (
	TTLLayout = 7 * 24 * time.Hour
	TTLRender = 7 * 24 * time.Hour
)

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies a laid-out view of a document.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// RenderKey identifies a rendered artifact of a laid-out view.
	RenderKey(layoutHash string, opts RenderKeyOpts) string
}

// LayoutKeyOpts are the inputs, besides the document, that change a layout.
type LayoutKeyOpts struct {
	Kind   string `json:"kind"`
	Depth  int    `json:"depth"`
	Params any    `json:"params,omitempty"`
}

// RenderKeyOpts are the inputs that change a rendered artifact.
type RenderKeyOpts struct {
	Format string `json:"format"`
	Title  string `json:"title,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

// RenderKey returns "render:<sha256>".
func (DefaultKeyer) RenderKey(layoutHash string, opts RenderKeyOpts) string {
	return hashKey("render", layoutHash, opts)
}

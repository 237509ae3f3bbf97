// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about alignment parsing, tile uploads, and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetParseHooks(&myParseHooks{})
//	    observability.SetTileHooks(&myTileHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Parse().OnParseStart(ctx, len(raw))
//	// ... parse FASTA ...
//	observability.Parse().OnParseComplete(ctx, rows, cols, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Parse Hooks
// =============================================================================

// ParseHooks receives events from FASTA parsing.
type ParseHooks interface {
	// OnParseStart is called before parsing size bytes of input.
	OnParseStart(ctx context.Context, size int)

	// OnParseComplete is called with the resulting alignment shape.
	// rows includes the consensus row.
	OnParseComplete(ctx context.Context, rows, cols int, duration time.Duration, err error)
}

// =============================================================================
// Tile Hooks
// =============================================================================

// TileHooks receives events from tile extraction and upload.
type TileHooks interface {
	// OnTileBuilt records the extraction of one residue tile.
	OnTileBuilt(ctx context.Context, index int, size int)

	// OnUploadComplete records the end of a full tile upload pass.
	OnUploadComplete(ctx context.Context, tiles int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopParseHooks is a no-op implementation of ParseHooks.
type NoopParseHooks struct{}

func (NoopParseHooks) OnParseStart(context.Context, int)                              {}
func (NoopParseHooks) OnParseComplete(context.Context, int, int, time.Duration, error) {}

// NoopTileHooks is a no-op implementation of TileHooks.
type NoopTileHooks struct{}

func (NoopTileHooks) OnTileBuilt(context.Context, int, int)                     {}
func (NoopTileHooks) OnUploadComplete(context.Context, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	parseHooks ParseHooks = NoopParseHooks{}
	tileHooks  TileHooks  = NoopTileHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetParseHooks registers custom parse hooks.
// This should be called once at application startup before any parsing.
func SetParseHooks(h ParseHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		parseHooks = h
	}
}

// SetTileHooks registers custom tile hooks.
func SetTileHooks(h TileHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		tileHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Parse returns the registered parse hooks.
func Parse() ParseHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return parseHooks
}

// Tile returns the registered tile hooks.
func Tile() TileHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return tileHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	parseHooks = NoopParseHooks{}
	tileHooks = NoopTileHooks{}
	cacheHooks = NoopCacheHooks{}
}

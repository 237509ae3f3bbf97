// Package cache provides byte caches for extracted alignment tiles.
//
// Tile extraction walks every residue of a tile, which is the expensive part
// of opening a large alignment. Because tiles depend only on the alignment
// content and the tile size, they are keyed by a content hash and can be
// shared across sessions and processes.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one file per entry below a directory, for CLI usage
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//
// # Keys
//
// A [Keyer] derives cache keys from the alignment hash and the tile geometry.
// [ScopedKeyer] prefixes every key for namespace isolation.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
//
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

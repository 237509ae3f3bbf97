package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Several servers can share one Redis instance this way.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "msaview:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TileKey generates a prefixed key for a residue tile.
func (k *ScopedKeyer) TileKey(hash string, tileWidth, tileHeight, index int) string {
	return k.prefix + k.inner.TileKey(hash, tileWidth, tileHeight, index)
}

// ConsensusKey generates a prefixed key for a consensus chunk.
func (k *ScopedKeyer) ConsensusKey(hash string, tileWidth, tileHeight, index int) string {
	return k.prefix + k.inner.ConsensusKey(hash, tileWidth, tileHeight, index)
}

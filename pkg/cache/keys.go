package cache

import (
	"fmt"
	"strings"
)

// Key type prefixes, reported to cache hooks.
const (
	KeyTypeTile      = "tile"
	KeyTypeConsensus = "consensus"
)

// Keyer generates cache keys for alignment artifacts.
type Keyer interface {
	// TileKey identifies residue tile index of an alignment with the given
	// content hash, cut with tileWidth x tileHeight tiles.
	TileKey(hash string, tileWidth, tileHeight, index int) string

	// ConsensusKey identifies consensus chunk index of an alignment.
	ConsensusKey(hash string, tileWidth, tileHeight, index int) string
}

// DefaultKeyer generates plain, human-readable keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TileKey returns "tile:<hash>:<w>x<h>:<index>".
func (DefaultKeyer) TileKey(hash string, tileWidth, tileHeight, index int) string {
	return fmt.Sprintf("%s:%s:%dx%d:%d", KeyTypeTile, hash, tileWidth, tileHeight, index)
}

// ConsensusKey returns "consensus:<hash>:<w>x<h>:<index>".
func (DefaultKeyer) ConsensusKey(hash string, tileWidth, tileHeight, index int) string {
	return fmt.Sprintf("%s:%s:%dx%d:%d", KeyTypeConsensus, hash, tileWidth, tileHeight, index)
}

// KeyType extracts the key type from a key built by a Keyer, skipping any
// scope prefix. Unknown keys report "other".
func KeyType(key string) string {
	for _, kt := range []string{KeyTypeTile, KeyTypeConsensus} {
		if strings.HasPrefix(key, kt+":") || strings.Contains(key, ":"+kt+":") {
			return kt
		}
	}
	return "other"
}

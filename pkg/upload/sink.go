package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/matzehuels/msaview/pkg/tilemap"
)

// ManifestFile is the name of the index DirSink writes on Flush.
const ManifestFile = "manifest.json"

// Manifest describes the files a DirSink wrote.
type Manifest struct {
	Hash        string          `json:"hash,omitempty"`
	TileWidth   int             `json:"tile_width"`
	TileHeight  int             `json:"tile_height"`
	TotalWidth  int             `json:"total_width"`
	TotalHeight int             `json:"total_height"`
	Tiles       []ManifestTile  `json:"tiles"`
	Consensus   []ManifestChunk `json:"consensus"`
}

// ManifestTile locates one tile file.
type ManifestTile struct {
	Index  int    `json:"index"`
	StartX int    `json:"start_x"`
	StartY int    `json:"start_y"`
	File   string `json:"file"`
}

// ManifestChunk locates one consensus chunk file.
type ManifestChunk struct {
	Index  int    `json:"index"`
	StartX int    `json:"start_x"`
	File   string `json:"file"`
}

// DirSink writes each tile and consensus chunk to its own file below Dir.
type DirSink struct {
	Dir      string
	manifest Manifest
}

// NewDirSink creates dir if needed and returns a sink writing into it.
// The manifest header is taken from tm.
func NewDirSink(dir, hash string, tm *tilemap.TileMap) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DirSink{
		Dir: dir,
		manifest: Manifest{
			Hash:        hash,
			TileWidth:   tm.TileWidth,
			TileHeight:  tm.TileHeight,
			TotalWidth:  tm.TotalWidth,
			TotalHeight: tm.TotalHeight,
		},
	}, nil
}

// UploadTile implements Sink.
func (s *DirSink) UploadTile(_ context.Context, index int, tile tilemap.Tile, data []byte) error {
	name := fmt.Sprintf("tile-%05d.bin", index)
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0644); err != nil {
		return err
	}
	s.manifest.Tiles = append(s.manifest.Tiles, ManifestTile{
		Index: index, StartX: tile.StartX, StartY: tile.StartY, File: name,
	})
	return nil
}

// UploadConsensus implements Sink.
func (s *DirSink) UploadConsensus(_ context.Context, index int, startX int, data []byte) error {
	name := fmt.Sprintf("consensus-%05d.bin", index)
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0644); err != nil {
		return err
	}
	s.manifest.Consensus = append(s.manifest.Consensus, ManifestChunk{
		Index: index, StartX: startX, File: name,
	})
	return nil
}

// Flush writes the manifest, with tiles sorted by index.
func (s *DirSink) Flush() error {
	sort.Slice(s.manifest.Tiles, func(i, j int) bool {
		return s.manifest.Tiles[i].Index < s.manifest.Tiles[j].Index
	})
	data, err := json.MarshalIndent(s.manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.Dir, ManifestFile), data, 0644)
}

// Manifest returns the entries recorded so far.
func (s *DirSink) Manifest() Manifest {
	return s.manifest
}

// MemorySink keeps uploaded data in maps, keyed by index.
type MemorySink struct {
	Tiles     map[int][]byte
	Consensus map[int][]byte
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{Tiles: map[int][]byte{}, Consensus: map[int][]byte{}}
}

// UploadTile implements Sink.
func (s *MemorySink) UploadTile(_ context.Context, index int, _ tilemap.Tile, data []byte) error {
	s.Tiles[index] = data
	return nil
}

// UploadConsensus implements Sink.
func (s *MemorySink) UploadConsensus(_ context.Context, index int, _ int, data []byte) error {
	s.Consensus[index] = data
	return nil
}

var (
	_ Sink = (*DirSink)(nil)
	_ Sink = (*MemorySink)(nil)
)

// Package tilemap partitions a width×height cell matrix into a row-major grid
// of fixed-size tiles.
//
// Tiles are the unit of upload to a rendering device: each [Tile] names an
// inclusive rectangle of the global column/row space and a sequential index.
// The tiles of a [TileMap] cover [0,TotalWidth)×[0,TotalHeight) exactly, with
// no gaps and no overlaps.
//
// [New] never rounds. Callers pad their dimensions with [RoundUp] first:
//
//	w := tilemap.RoundUp(aln.MaxSequenceLength(), 1024)
//	h := tilemap.RoundUp(aln.SequenceCount(), 1024)
//	tm, err := tilemap.New(w, h, 1024, 1024)
//
// A TileMap is immutable and safe for concurrent use.
package tilemap

import (
	"github.com/matzehuels/msaview/pkg/errors"
)

// Tile is one rectangle of the grid. EndX and EndY are inclusive.
type Tile struct {
	Index  int
	StartX int
	StartY int
	EndX   int
	EndY   int
}

// Contains reports whether the cell (x, y) lies inside the tile.
func (t Tile) Contains(x, y int) bool {
	return x >= t.StartX && x <= t.EndX && y >= t.StartY && y <= t.EndY
}

// Width returns the tile width in cells.
func (t Tile) Width() int { return t.EndX - t.StartX + 1 }

// Height returns the tile height in cells.
func (t Tile) Height() int { return t.EndY - t.StartY + 1 }

// TileMap is an immutable grid of tiles.
type TileMap struct {
	TotalWidth  int
	TotalHeight int
	TileWidth   int
	TileHeight  int
	Stride      int // tiles per tile row

	tiles []Tile
}

// New builds the tile grid. It fails with ErrCodeNotMultiple when a total is
// not an exact multiple of its tile dimension.
func New(totalWidth, totalHeight, tileWidth, tileHeight int) (*TileMap, error) {
	if err := errors.ValidateDimension("tile width", tileWidth); err != nil {
		return nil, err
	}
	if err := errors.ValidateDimension("tile height", tileHeight); err != nil {
		return nil, err
	}
	if totalWidth < 0 || totalHeight < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "negative total size %dx%d", totalWidth, totalHeight)
	}
	if totalWidth%tileWidth != 0 {
		return nil, errors.New(errors.ErrCodeNotMultiple, "total width %d is not a multiple of tile width %d", totalWidth, tileWidth)
	}
	if totalHeight%tileHeight != 0 {
		return nil, errors.New(errors.ErrCodeNotMultiple, "total height %d is not a multiple of tile height %d", totalHeight, tileHeight)
	}

	m := &TileMap{
		TotalWidth:  totalWidth,
		TotalHeight: totalHeight,
		TileWidth:   tileWidth,
		TileHeight:  tileHeight,
		Stride:      totalWidth / tileWidth,
	}
	m.tiles = make([]Tile, 0, m.Stride*(totalHeight/tileHeight))
	for y := 0; y < totalHeight; y += tileHeight {
		for x := 0; x < totalWidth; x += tileWidth {
			m.tiles = append(m.tiles, Tile{
				Index:  len(m.tiles),
				StartX: x,
				StartY: y,
				EndX:   x + tileWidth - 1,
				EndY:   y + tileHeight - 1,
			})
		}
	}
	return m, nil
}

// RoundUp returns the smallest multiple of multiple that is >= n.
// Zero stays zero.
func RoundUp(n, multiple int) int {
	if multiple <= 0 || n%multiple == 0 {
		return n
	}
	return (n/multiple + 1) * multiple
}

// Len returns the number of tiles.
func (m *TileMap) Len() int { return len(m.tiles) }

// Rows returns the number of tile rows.
func (m *TileMap) Rows() int { return m.TotalHeight / m.TileHeight }

// Tiles returns a copy of all tiles in index order.
func (m *TileMap) Tiles() []Tile {
	out := make([]Tile, len(m.tiles))
	copy(out, m.tiles)
	return out
}

// Tile returns the tile with the given index.
func (m *TileMap) Tile(index int) (Tile, error) {
	if index < 0 || index >= len(m.tiles) {
		return Tile{}, errors.New(errors.ErrCodeOutOfRange, "tile index %d out of range [0,%d)", index, len(m.tiles))
	}
	return m.tiles[index], nil
}

// At returns the tile containing cell (x, y).
//
// Coordinates outside the grid are a caller bug and yield ErrCodeOutOfRange.
// The selected tile is checked to contain the cell; a mismatch returns
// ErrCodeInternal.
func (m *TileMap) At(x, y int) (Tile, error) {
	if x < 0 || x >= m.TotalWidth {
		return Tile{}, errors.New(errors.ErrCodeOutOfRange, "x %d outside [0,%d)", x, m.TotalWidth)
	}
	if y < 0 || y >= m.TotalHeight {
		return Tile{}, errors.New(errors.ErrCodeOutOfRange, "y %d outside [0,%d)", y, m.TotalHeight)
	}
	index := (y/m.TileHeight)*m.Stride + x/m.TileWidth
	t := m.tiles[index]
	if !t.Contains(x, y) {
		return Tile{}, errors.New(errors.ErrCodeInternal, "tile %d [%d,%d]x[%d,%d] does not contain (%d,%d)",
			t.Index, t.StartX, t.EndX, t.StartY, t.EndY, x, y)
	}
	return t, nil
}

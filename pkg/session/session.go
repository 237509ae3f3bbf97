// Package session ties one loaded alignment to its tile map and viewport.
//
// A [Session] is the explicit owner of everything that belongs to one
// loaded alignment: the parsed [alignment.Alignment], the [tilemap.TileMap]
// that partitions it and the [viewport.Viewport] that looks at it. Loading
// another alignment builds a new Session; nothing is reused.
//
// # Usage
//
//	sess, err := session.New(ctx, raw, session.Options{
//	    CanvasWidth:  1920,
//	    CanvasHeight: 1080,
//	})
//	if err != nil {
//	    return err
//	}
//	info, ok := sess.Hover(x, y)
//
// Sessions shared between goroutines (for example by the HTTP server) are
// kept in a [Store] and must be locked around every use.
package session

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/msaview/pkg/alignment"
	"github.com/matzehuels/msaview/pkg/cache"
	"github.com/matzehuels/msaview/pkg/errors"
	"github.com/matzehuels/msaview/pkg/geometry"
	"github.com/matzehuels/msaview/pkg/observability"
	"github.com/matzehuels/msaview/pkg/tilemap"
	"github.com/matzehuels/msaview/pkg/viewport"
)

// Defaults applied by Options.SetDefaults.
const (
	DefaultTileSize        = 1024
	DefaultInitialCellSize = 24
	DefaultLabelCharWidth  = 0.6
	DefaultCanvasWidth     = 1920
	DefaultCanvasHeight    = 1080
)

// maxHoverLabel is the longest label Hover returns before truncating.
const maxHoverLabel = 80

// Options configures a new Session.
type Options struct {
	TileSize        int     // tile edge in cells
	InitialCellSize float64 // on-screen cell width after a reset, in pixels
	LabelCharWidth  float64 // label glyph advance in cells
	MinZoom         float64
	MaxZoom         float64

	CanvasWidth  float64
	CanvasHeight float64
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.TileSize == 0 {
		o.TileSize = DefaultTileSize
	}
	if o.InitialCellSize == 0 {
		o.InitialCellSize = DefaultInitialCellSize
	}
	if o.LabelCharWidth == 0 {
		o.LabelCharWidth = DefaultLabelCharWidth
	}
	if o.MinZoom == 0 {
		o.MinZoom = viewport.DefaultMinZoom
	}
	if o.MaxZoom == 0 {
		o.MaxZoom = viewport.DefaultMaxZoom
	}
	if o.CanvasWidth == 0 {
		o.CanvasWidth = DefaultCanvasWidth
	}
	if o.CanvasHeight == 0 {
		o.CanvasHeight = DefaultCanvasHeight
	}
}

// Session owns the state of one loaded alignment.
//
// Methods do not lock; callers that share a Session hold its embedded
// mutex.
type Session struct {
	sync.Mutex

	id        string
	hash      string
	createdAt time.Time

	aln   *alignment.Alignment
	tiles *tilemap.TileMap
	view  *viewport.Viewport
}

// New parses raw FASTA bytes and builds a Session around the result.
// Input without any header is rejected with ErrCodeNoHeaderFound.
func New(ctx context.Context, raw []byte, opts Options) (*Session, error) {
	hooks := observability.Parse()
	hooks.OnParseStart(ctx, len(raw))
	start := time.Now()

	aln, err := alignment.ParseReader(ctx, bytes.NewReader(raw))
	rows, cols := 0, 0
	if aln != nil {
		rows, cols = aln.SequenceCount(), aln.MaxSequenceLength()
	}
	hooks.OnParseComplete(ctx, rows, cols, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("parse alignment: %w", err)
	}

	s, err := FromAlignment(aln, opts)
	if err != nil {
		return nil, err
	}
	s.hash = cache.Hash(raw)
	return s, nil
}

// FromAlignment builds a Session around an already parsed alignment. The
// content hash stays empty unless the Session came from New.
func FromAlignment(aln *alignment.Alignment, opts Options) (*Session, error) {
	opts.SetDefaults()
	if err := errors.ValidateDimension("tile size", opts.TileSize); err != nil {
		return nil, err
	}

	width := tilemap.RoundUp(max(aln.MaxSequenceLength(), 1), opts.TileSize)
	height := tilemap.RoundUp(aln.SequenceCount(), opts.TileSize)
	tm, err := tilemap.New(width, height, opts.TileSize, opts.TileSize)
	if err != nil {
		return nil, fmt.Errorf("build tile map: %w", err)
	}

	view, err := viewport.New(tm, viewport.Config{
		Columns:         aln.MaxSequenceLength(),
		Rows:            aln.SequenceCount(),
		LabelWidth:      float64(labelColumns(aln)) * opts.LabelCharWidth,
		InitialCellSize: opts.InitialCellSize,
		MinZoom:         opts.MinZoom,
		MaxZoom:         opts.MaxZoom,
	}, opts.CanvasWidth, opts.CanvasHeight)
	if err != nil {
		return nil, fmt.Errorf("build viewport: %w", err)
	}

	return &Session{
		id:        uuid.NewString(),
		createdAt: time.Now(),
		aln:       aln,
		tiles:     tm,
		view:      view,
	}, nil
}

// labelColumns is the label pane width in characters. The pane also draws
// the consensus row, whose label can be the longest.
func labelColumns(aln *alignment.Alignment) int {
	return max(aln.MaxLabelLength(), len(aln.Consensus().Label))
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Hash returns the content hash of the raw input, used in cache keys.
func (s *Session) Hash() string { return s.hash }

// CreatedAt returns when the session was built.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Alignment returns the parsed alignment.
func (s *Session) Alignment() *alignment.Alignment { return s.aln }

// TileMap returns the tile grid.
func (s *Session) TileMap() *tilemap.TileMap { return s.tiles }

// Viewport returns the camera.
func (s *Session) Viewport() *viewport.Viewport { return s.view }

// Layout returns the current canvas layout.
func (s *Session) Layout() geometry.Layout { return s.view.Layout() }

// HoverInfo describes the cell under the pointer.
type HoverInfo struct {
	Column  int
	Row     int
	Label   string
	Residue byte // 0 past the end of the row

	Consensus    float64 // percent, two decimals
	HasConsensus bool
}

// String formats the hover text shown next to the pointer.
func (h HoverInfo) String() string {
	if !h.HasConsensus {
		return h.Label
	}
	return fmt.Sprintf("%s (%g%% Consensus)", h.Label, h.Consensus)
}

// Hover describes the alignment cell under canvas point (x, y). ok is false
// when the point is not over alignment content.
func (s *Session) Hover(x, y float64) (HoverInfo, bool) {
	l := s.view.Layout()
	if l.HitTest(x, y) != geometry.RegionAlignment {
		return HoverInfo{}, false
	}
	col, row, ok := s.view.CellAt(viewport.PaneAlignment, l.Alignment.Local(geometry.Point{X: x, Y: y}))
	if !ok {
		return HoverInfo{}, false
	}
	seq, err := s.aln.Sequence(row)
	if err != nil {
		return HoverInfo{}, false
	}

	info := HoverInfo{Column: col, Row: row, Label: string(seq.Label)}
	if len(info.Label) > maxHoverLabel {
		info.Label = info.Label[:maxHoverLabel] + "..."
	}
	if col < len(seq.Residues) {
		info.Residue = seq.Residues[col]
	}
	if score, err := s.aln.ConsensusScore(col); err == nil {
		info.Consensus = formatPercent(float64(score), 2)
		info.HasConsensus = true
	}
	return info, true
}

func formatPercent(v float64, decimals int) float64 {
	shift := math.Pow(10, float64(decimals))
	return math.Round(v*100*shift) / shift
}

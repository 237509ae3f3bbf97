package viewport

import (
	"math"

	"github.com/matzehuels/msaview/pkg/errors"
	"github.com/matzehuels/msaview/pkg/geometry"
	"github.com/matzehuels/msaview/pkg/linalg"
	"github.com/matzehuels/msaview/pkg/tilemap"
)

// Camera constants.
const (
	fieldOfView = math.Pi / 2
	nearPlane   = 1e-4
	farPlane    = 1e5

	// clampEpsilon absorbs rounding so that clamping an already clamped
	// view is a no-op.
	clampEpsilon = 1e-9
)

// Zoom bounds used when Config leaves them unset.
const (
	DefaultMinZoom = 0.005
	DefaultMaxZoom = 3.0
)

var up = linalg.Vec3{X: 0, Y: 1, Z: 0}

// Pane selects one of the two camera panes.
type Pane int

const (
	PaneAlignment Pane = iota
	PaneLabels
)

// String returns the pane name.
func (p Pane) String() string {
	if p == PaneLabels {
		return "labels"
	}
	return "alignment"
}

// Config describes the content a Viewport shows.
type Config struct {
	Columns    int     // content width in cells (longest sequence)
	Rows       int     // content height in cells (sequences including consensus)
	LabelWidth float64 // label pane content width in cells

	InitialCellSize float64 // on-screen cell width after Reset, in pixels
	MinZoom         float64
	MaxZoom         float64
}

// Matrices is a value copy of one pane's camera matrices.
type Matrices struct {
	View          linalg.Mat4
	Projection    linalg.Mat4
	WorldToScreen linalg.Mat4
	ScreenToWorld linalg.Mat4
}

type paneState struct {
	m        Matrices
	singular bool

	topLeft     linalg.Vec3
	bottomRight linalg.Vec3
}

// Viewport holds the camera of both panes.
type Viewport struct {
	cfg        Config
	tileWidth  float64
	tileHeight float64
	layout     geometry.Layout

	alignPos linalg.Vec3
	labelX   float64

	align  paneState
	labels paneState
}

// New creates a Viewport for the content described by cfg, tiled by tm and
// shown on a canvas of the given pixel size. The view starts in the
// [Viewport.Reset] position.
func New(tm *tilemap.TileMap, cfg Config, canvasWidth, canvasHeight float64) (*Viewport, error) {
	if tm == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tile map is required")
	}
	if cfg.Columns < 0 || cfg.Rows < 0 || cfg.LabelWidth < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "negative content size %dx%d", cfg.Columns, cfg.Rows)
	}
	if cfg.MinZoom == 0 {
		cfg.MinZoom = DefaultMinZoom
	}
	if cfg.MaxZoom == 0 {
		cfg.MaxZoom = DefaultMaxZoom
	}
	if err := errors.ValidateZoomRange(cfg.MinZoom, cfg.MaxZoom); err != nil {
		return nil, err
	}
	if cfg.InitialCellSize <= 0 {
		cfg.InitialCellSize = 24
	}

	v := &Viewport{
		cfg:        cfg,
		tileWidth:  float64(tm.TileWidth),
		tileHeight: float64(tm.TileHeight),
	}
	if err := v.setLayout(geometry.Compute(canvasWidth, canvasHeight, 0, true)); err != nil {
		return nil, err
	}
	v.Reset()
	return v, nil
}

func (v *Viewport) setLayout(l geometry.Layout) error {
	if err := errors.ValidateCanvas(l.CanvasWidth, l.CanvasHeight); err != nil {
		return err
	}
	if !l.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "canvas %gx%g too small for the viewer layout", l.CanvasWidth, l.CanvasHeight)
	}
	v.layout = l
	return nil
}

// Layout returns the current pixel layout.
func (v *Viewport) Layout() geometry.Layout { return v.layout }

// Config returns the content configuration.
func (v *Viewport) Config() Config { return v.cfg }

// PanePosition returns the camera position of a pane. The label pane's y and
// z always equal the alignment pane's.
func (v *Viewport) PanePosition(p Pane) linalg.Vec3 {
	if p == PaneLabels {
		return linalg.Vec3{X: v.labelX, Y: v.alignPos.Y, Z: v.alignPos.Z}
	}
	return v.alignPos
}

// CameraZ returns the current camera z (inverse zoom).
func (v *Viewport) CameraZ() float64 { return v.alignPos.Z }

// MaxWorldPosition returns the content extent of a pane in world units.
// y is negative because world y decreases downward.
func (v *Viewport) MaxWorldPosition(p Pane) linalg.Vec3 {
	y := -float64(v.cfg.Rows) / v.tileHeight
	if p == PaneLabels {
		return linalg.Vec3{X: v.cfg.LabelWidth / v.tileWidth, Y: y}
	}
	return linalg.Vec3{X: float64(v.cfg.Columns) / v.tileWidth, Y: y}
}

// TopLeft returns the world position of a pane's top-left pixel as of the
// last matrix update.
func (v *Viewport) TopLeft(p Pane) linalg.Vec3 { return v.pane(p).topLeft }

// BottomRight returns the world position of a pane's bottom-right pixel as
// of the last matrix update.
func (v *Viewport) BottomRight(p Pane) linalg.Vec3 { return v.pane(p).bottomRight }

// Matrices returns a copy of a pane's matrices.
func (v *Viewport) Matrices(p Pane) Matrices { return v.pane(p).m }

// ScreenToWorld maps a pane-local pixel to world space on the z=0 plane.
func (v *Viewport) ScreenToWorld(p Pane, pt geometry.Point) linalg.Vec3 {
	return linalg.TransformPoint(v.pane(p).m.ScreenToWorld, linalg.Vec3{X: pt.X, Y: pt.Y})
}

// WorldToScreen maps a world position to pane-local pixels.
func (v *Viewport) WorldToScreen(p Pane, w linalg.Vec3) geometry.Point {
	s := linalg.TransformPoint(v.pane(p).m.WorldToScreen, w)
	return geometry.Point{X: s.X, Y: s.Y}
}

// CellAt returns the cell under a pane-local pixel. For the label pane the
// column counts cells from the label start. ok is false outside the content.
func (v *Viewport) CellAt(p Pane, pt geometry.Point) (column, row int, ok bool) {
	w := v.ScreenToWorld(p, pt)
	cx := math.Floor(w.X * v.tileWidth)
	cy := math.Floor(-w.Y * v.tileHeight)
	if !(cx >= 0 && cy >= 0 && cy < float64(v.cfg.Rows)) {
		return 0, 0, false
	}
	limit := float64(v.cfg.Columns)
	if p == PaneLabels {
		limit = math.Ceil(v.cfg.LabelWidth)
	}
	if cx >= limit {
		return 0, 0, false
	}
	return int(cx), int(cy), true
}

// Validate returns ErrCodeNonFinite if any pane matrix is singular or holds
// NaN or Inf values.
func (v *Viewport) Validate() error {
	for _, p := range []Pane{PaneAlignment, PaneLabels} {
		s := v.pane(p)
		if s.singular {
			return errors.New(errors.ErrCodeNonFinite, "%s world-to-screen matrix is singular", p)
		}
		if !s.m.View.IsFinite() || !s.m.Projection.IsFinite() ||
			!s.m.WorldToScreen.IsFinite() || !s.m.ScreenToWorld.IsFinite() {
			return errors.New(errors.ErrCodeNonFinite, "%s matrices contain non-finite values", p)
		}
	}
	return nil
}

// State is an opaque copy of the camera and layout, taken with Snapshot.
type State struct {
	layout   geometry.Layout
	alignPos linalg.Vec3
	labelX   float64
}

// Snapshot captures the current camera and layout.
func (v *Viewport) Snapshot() State {
	return State{layout: v.layout, alignPos: v.alignPos, labelX: v.labelX}
}

// Restore returns the camera and layout to a snapshot and rebuilds the
// matrices.
func (v *Viewport) Restore(s State) {
	v.layout = s.layout
	v.alignPos = s.alignPos
	v.labelX = s.labelX
	v.RecomputeMatrices(true)
}

func (v *Viewport) pane(p Pane) *paneState {
	if p == PaneLabels {
		return &v.labels
	}
	return &v.align
}

func (v *Viewport) paneRect(p Pane) geometry.Rect {
	if p == PaneLabels {
		return v.layout.Labels
	}
	return v.layout.Alignment
}

// =============================================================================
// Matrices and clamping
// =============================================================================

func buildMatrices(pos linalg.Vec3, w, h float64) (Matrices, bool) {
	view := linalg.LookAt(pos, linalg.Vec3{X: pos.X, Y: pos.Y}, up)
	proj := linalg.Perspective(fieldOfView, w/h, nearPlane, farPlane)
	mvp := linalg.Mul(proj, view)

	depth := linalg.TransformPoint(mvp, linalg.Vec3{}).Z
	wts := linalg.Mul(
		linalg.Mul(
			linalg.Scale(linalg.Vec3{X: w / 2, Y: -h / 2, Z: 1}),
			linalg.Translate(linalg.Vec3{X: 1, Y: -1, Z: -depth}),
		),
		mvp,
	)
	stw, ok := linalg.Invert(wts)
	return Matrices{View: view, Projection: proj, WorldToScreen: wts, ScreenToWorld: stw}, ok
}

func (v *Viewport) computeAll() {
	for _, p := range []Pane{PaneAlignment, PaneLabels} {
		r := v.paneRect(p)
		s := v.pane(p)
		var ok bool
		s.m, ok = buildMatrices(v.PanePosition(p), r.W, r.H)
		s.singular = !ok
	}
}

// corners maps a pane's pixel corners through its current screen→world
// matrix.
func (v *Viewport) corners(p Pane) (tl, br linalg.Vec3) {
	r := v.paneRect(p)
	stw := v.pane(p).m.ScreenToWorld
	return linalg.TransformPoint(stw, linalg.Vec3{}),
		linalg.TransformPoint(stw, linalg.Vec3{X: r.W, Y: r.H})
}

func (v *Viewport) updateCorners() {
	for _, p := range []Pane{PaneAlignment, PaneLabels} {
		s := v.pane(p)
		s.topLeft, s.bottomRight = v.corners(p)
	}
}

// RecomputeMatrices rebuilds both panes' matrices from the current camera
// positions. With applyClamp the positions are first pinned to the content
// extents and the matrices rebuilt if anything moved.
func (v *Viewport) RecomputeMatrices(applyClamp bool) {
	v.computeAll()
	if applyClamp {
		if v.clampAlignment() {
			v.computeAll()
		}
		if v.clampLabels() {
			v.computeAll()
		}
	}
	v.updateCorners()
}

func (v *Viewport) clampAlignment() bool {
	moved := false
	tl, br := v.corners(PaneAlignment)
	limit := v.MaxWorldPosition(PaneAlignment)

	furthest := clamp(limit.X-(br.X-tl.X), 0, limit.X)
	if shift, ok := clampShift(tl.X, 0, furthest); ok {
		v.alignPos.X -= shift
		moved = true
	}

	// World y runs negative, so the content origin is the upper bound.
	furthest = clamp(limit.Y-(br.Y-tl.Y), limit.Y, 0)
	if tl.Y > clampEpsilon {
		v.alignPos.Y -= tl.Y
		moved = true
	} else if tl.Y < furthest-clampEpsilon {
		v.alignPos.Y -= tl.Y - furthest
		moved = true
	}
	return moved
}

func (v *Viewport) clampLabels() bool {
	tl, br := v.corners(PaneLabels)
	limit := v.MaxWorldPosition(PaneLabels)
	furthest := clamp(limit.X-(br.X-tl.X), 0, limit.X)
	if shift, ok := clampShift(tl.X, 0, furthest); ok {
		v.labelX -= shift
		return true
	}
	return false
}

// clampShift returns how far x must move back to land in [lo, hi].
func clampShift(x, lo, hi float64) (float64, bool) {
	switch {
	case x < lo-clampEpsilon:
		return x - lo, true
	case x > hi+clampEpsilon:
		return x - hi, true
	}
	return 0, false
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(x, hi))
}

package viewport

import (
	"math"

	"github.com/matzehuels/msaview/pkg/errors"
	"github.com/matzehuels/msaview/pkg/geometry"
	"github.com/matzehuels/msaview/pkg/linalg"
)

// Target selects what a pan gesture moves.
type Target int

const (
	// TargetAlignment moves the alignment camera on both axes.
	TargetAlignment Target = iota
	// TargetLabels moves the label camera on x and the shared y.
	TargetLabels
	// TargetSeparator moves the split between the panes.
	TargetSeparator
)

// TargetFor maps a layout region to the pan target it drives.
func TargetFor(r geometry.Region) (Target, bool) {
	switch r {
	case geometry.RegionAlignment:
		return TargetAlignment, true
	case geometry.RegionLabels:
		return TargetLabels, true
	case geometry.RegionSeparator:
		return TargetSeparator, true
	}
	return 0, false
}

// worldDelta converts a pixel delta to a world delta with the alignment
// pane's current matrices.
func (v *Viewport) worldDelta(delta geometry.Point) linalg.Vec3 {
	return v.ScreenToWorld(PaneAlignment, delta).Sub(v.ScreenToWorld(PaneAlignment, geometry.Point{}))
}

// Pan moves the camera by the world equivalent of a pixel delta. A pointer
// drag that should drag the content along passes the negated pointer motion.
//
// For TargetSeparator the separator moves by delta.X pixels, within the
// layout bounds, and both panes shift by half the equivalent world distance
// of the actual move so the visible content stays put.
func (v *Viewport) Pan(target Target, delta geometry.Point) error {
	if !finite(delta.X) || !finite(delta.Y) {
		return errors.New(errors.ErrCodeInvalidInput, "pan delta must be finite")
	}
	w := v.worldDelta(delta)

	switch target {
	case TargetAlignment:
		v.alignPos.X += w.X
		v.alignPos.Y += w.Y
	case TargetLabels:
		v.labelX += w.X
		v.alignPos.Y += w.Y
	case TargetSeparator:
		from := v.layout.Separator.X
		l := geometry.Compute(v.layout.CanvasWidth, v.layout.CanvasHeight, from+delta.X, false)
		if err := v.setLayout(l); err != nil {
			return err
		}
		// The separator stops at its bounds; shift by what it actually moved.
		w = v.worldDelta(geometry.Point{X: l.Separator.X - from})
		v.labelX += w.X / 2
		v.alignPos.X -= w.X / 2
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown pan target %d", target)
	}

	v.RecomputeMatrices(true)
	return nil
}

// Zoom divides the camera z by scale, clamped to the configured zoom range.
// The world point under anchor (alignment pane pixels) stays in place; the
// label pane keeps its left edge.
func (v *Viewport) Zoom(scale float64, anchor geometry.Point) error {
	if !finite(scale) || scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "zoom scale must be positive and finite, got %g", scale)
	}
	startAlign := v.ScreenToWorld(PaneAlignment, anchor)
	startLabel := v.ScreenToWorld(PaneLabels, geometry.Point{})

	v.alignPos.Z = clamp(v.alignPos.Z/scale, v.cfg.MinZoom, v.cfg.MaxZoom)
	v.RecomputeMatrices(false)

	end := v.ScreenToWorld(PaneAlignment, anchor)
	v.alignPos.X -= end.X - startAlign.X
	v.alignPos.Y -= end.Y - startAlign.Y
	v.RecomputeMatrices(false)

	end = v.ScreenToWorld(PaneLabels, geometry.Point{})
	v.labelX -= end.X - startLabel.X
	v.RecomputeMatrices(true)
	return nil
}

// SetAbsolutePosition zooms so that about zoom rows fill the pane height and
// then moves the alignment pane's top-left to (column, row).
func (v *Viewport) SetAbsolutePosition(column, row, zoom int) error {
	if column < 0 || row < 0 || zoom <= 0 {
		return errors.New(errors.ErrCodeInvalidPosition, "position %d,%d,%d must be non-negative with a positive zoom", column, row, zoom)
	}

	v.alignPos.Z = clamp(float64(zoom)/(2*v.tileHeight), v.cfg.MinZoom, v.cfg.MaxZoom)
	v.RecomputeMatrices(true)

	tl := v.align.topLeft
	v.alignPos.X += float64(column)/v.tileWidth - tl.X
	v.alignPos.Y -= float64(row)/v.tileHeight + tl.Y
	v.RecomputeMatrices(true)
	return nil
}

// Position returns the deep-link triple of the current view. The zoom is at
// least 1 so that the triple can always be applied again.
func (v *Viewport) Position() Position {
	tl := v.align.topLeft
	return Position{
		Column: max(0, int(math.Round(tl.X*v.tileWidth))),
		Row:    max(0, int(math.Round(-tl.Y*v.tileHeight))),
		Zoom:   max(1, int(math.Round(v.alignPos.Z*v.tileHeight*2))),
	}
}

// Reset zooms so that a cell is about InitialCellSize pixels wide and pins
// the content to the top-left corner of both panes.
func (v *Viewport) Reset() {
	v.alignPos = linalg.Vec3{Z: 1}
	v.labelX = 0
	v.RecomputeMatrices(false)

	// World width of the canvas at z=1.
	left := v.ScreenToWorld(PaneAlignment, geometry.Point{})
	right := v.ScreenToWorld(PaneAlignment, geometry.Point{X: v.layout.CanvasWidth})
	cells := math.Max(1, math.Round(v.layout.CanvasWidth/v.cfg.InitialCellSize))
	v.alignPos.Z = clamp(cells/v.tileWidth/(right.X-left.X), v.cfg.MinZoom, v.cfg.MaxZoom)
	v.RecomputeMatrices(false)

	v.pinTopLeft()
}

// pinTopLeft moves both cameras so that the world origin sits at the
// top-left pixel of each pane.
func (v *Viewport) pinTopLeft() {
	tl := v.ScreenToWorld(PaneAlignment, geometry.Point{})
	v.alignPos.X -= tl.X
	v.alignPos.Y -= tl.Y
	v.RecomputeMatrices(false)

	tl = v.ScreenToWorld(PaneLabels, geometry.Point{})
	v.labelX -= tl.X
	v.RecomputeMatrices(true)
}

// Resize lays out a new canvas size, keeping the separator where it was and
// the visible top-left of both panes stable.
func (v *Viewport) Resize(canvasWidth, canvasHeight float64) error {
	l := geometry.Compute(canvasWidth, canvasHeight, v.layout.Separator.X, false)
	if err := v.setLayout(l); err != nil {
		return err
	}
	prevAlign, prevLabel := v.align.topLeft, v.labels.topLeft

	v.RecomputeMatrices(true)
	v.alignPos.X += prevAlign.X - v.align.topLeft.X
	v.alignPos.Y += prevAlign.Y - v.align.topLeft.Y
	v.labelX += prevLabel.X - v.labels.topLeft.X
	v.RecomputeMatrices(true)
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Package geometry lays out the viewer canvas: the label pane, the draggable
// separator, the alignment pane and the scrollbar tracks.
//
// [Compute] is a pure function of the canvas size and the separator
// position. All rectangles use a top-left origin with y growing downward,
// the same convention as pointer events.
//
//	+--------+--+-------------------+--+
//	| Labels |  | Alignment         |V |
//	|        |S |                   |  |
//	+--------+  +-------------------+  |
//	| LabelsH|  | AlignmentH        |  |
//	+--------+--+-------------------+--+
package geometry

import "math"

// Thickness floor and reference width for separator and scrollbars.
const (
	MinBarThickness = 16
	referenceWidth  = 1920
)

// minPaneWidth keeps both panes at least one pixel wide when the separator
// is dragged against an edge.
const minPaneWidth = 1

// Point is a pixel position.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned pixel rectangle.
type Rect struct {
	X, Y float64 // top-left corner
	W, H float64
}

// Right returns the x coordinate just past the rectangle.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate just past the rectangle.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether (x, y) lies inside r. The left and top edges are
// inside, the right and bottom edges are not.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Local converts a canvas point to coordinates relative to r's corner.
func (r Rect) Local(p Point) Point {
	return Point{X: p.X - r.X, Y: p.Y - r.Y}
}

// Region names a part of the layout.
type Region int

const (
	RegionNone Region = iota
	RegionLabels
	RegionSeparator
	RegionAlignment
	RegionLabelsHScroll
	RegionAlignmentHScroll
	RegionAlignmentVScroll
)

var regionNames = [...]string{
	RegionNone:             "none",
	RegionLabels:           "labels",
	RegionSeparator:        "separator",
	RegionAlignment:        "alignment",
	RegionLabelsHScroll:    "labels-hscroll",
	RegionAlignmentHScroll: "alignment-hscroll",
	RegionAlignmentVScroll: "alignment-vscroll",
}

// String returns the region name.
func (r Region) String() string {
	if r < 0 || int(r) >= len(regionNames) {
		return "unknown"
	}
	return regionNames[r]
}

// Layout holds the pixel rectangles of one canvas configuration.
type Layout struct {
	CanvasWidth  float64
	CanvasHeight float64
	Thickness    float64 // separator and scrollbar thickness

	Labels           Rect
	Separator        Rect
	Alignment        Rect
	LabelsHScroll    Rect
	AlignmentHScroll Rect
	AlignmentVScroll Rect
}

// Compute lays out a canvas. separatorX is the left edge of the separator;
// with initial set it is ignored and the separator's right edge is placed
// at one sixth of the canvas width.
func Compute(canvasWidth, canvasHeight, separatorX float64, initial bool) Layout {
	t := math.Max(math.Ceil(canvasWidth*MinBarThickness/referenceWidth), MinBarThickness)

	sepStart := separatorX
	if initial {
		sepStart = math.Round(canvasWidth/6) - t
	}
	maxStart := canvasWidth - t - t - minPaneWidth
	sepStart = math.Max(math.Min(sepStart, maxStart), minPaneWidth)
	sepEnd := sepStart + t

	paneHeight := canvasHeight - t
	alignWidth := canvasWidth - t - sepEnd

	return Layout{
		CanvasWidth:  canvasWidth,
		CanvasHeight: canvasHeight,
		Thickness:    t,

		Labels:           Rect{X: 0, Y: 0, W: sepStart, H: paneHeight},
		Separator:        Rect{X: sepStart, Y: 0, W: t, H: canvasHeight},
		Alignment:        Rect{X: sepEnd, Y: 0, W: alignWidth, H: paneHeight},
		LabelsHScroll:    Rect{X: 0, Y: paneHeight, W: sepStart, H: t},
		AlignmentHScroll: Rect{X: sepEnd, Y: paneHeight, W: alignWidth, H: t},
		AlignmentVScroll: Rect{X: canvasWidth - t, Y: 0, W: t, H: paneHeight},
	}
}

// Valid reports whether both panes have a positive area.
func (l Layout) Valid() bool {
	return !l.Labels.Empty() && !l.Alignment.Empty()
}

// Rect returns the rectangle of region r.
func (l Layout) Rect(r Region) Rect {
	switch r {
	case RegionLabels:
		return l.Labels
	case RegionSeparator:
		return l.Separator
	case RegionAlignment:
		return l.Alignment
	case RegionLabelsHScroll:
		return l.LabelsHScroll
	case RegionAlignmentHScroll:
		return l.AlignmentHScroll
	case RegionAlignmentVScroll:
		return l.AlignmentVScroll
	}
	return Rect{}
}

// HitTest returns the region containing the canvas point (x, y).
func (l Layout) HitTest(x, y float64) Region {
	for _, r := range []Region{
		RegionAlignmentVScroll,
		RegionSeparator,
		RegionAlignment,
		RegionLabels,
		RegionAlignmentHScroll,
		RegionLabelsHScroll,
	} {
		if l.Rect(r).Contains(x, y) {
			return r
		}
	}
	return RegionNone
}

package viewport

import (
	"math"

	"github.com/matzehuels/msaview/pkg/errors"
	"github.com/matzehuels/msaview/pkg/geometry"
)

// Scrollbar selects one of the three scrollbar tracks.
type Scrollbar int

const (
	ScrollbarLabels Scrollbar = iota
	ScrollbarAlignmentHorizontal
	ScrollbarAlignmentVertical
)

// ScrollbarFor maps a layout region to its scrollbar.
func ScrollbarFor(r geometry.Region) (Scrollbar, bool) {
	switch r {
	case geometry.RegionLabelsHScroll:
		return ScrollbarLabels, true
	case geometry.RegionAlignmentHScroll:
		return ScrollbarAlignmentHorizontal, true
	case geometry.RegionAlignmentVScroll:
		return ScrollbarAlignmentVertical, true
	}
	return 0, false
}

// minThumbRatio is the shortest thumb length in track thicknesses.
const minThumbRatio = 2.618

func (s Scrollbar) vertical() bool { return s == ScrollbarAlignmentVertical }

func (v *Viewport) track(s Scrollbar) geometry.Rect {
	switch s {
	case ScrollbarLabels:
		return v.layout.LabelsHScroll
	case ScrollbarAlignmentVertical:
		return v.layout.AlignmentVScroll
	}
	return v.layout.AlignmentHScroll
}

// extent returns the visible window [lo, hi] and content length along a
// scrollbar's axis, in world units measured away from the content origin.
func (v *Viewport) extent(s Scrollbar) (lo, hi, total float64) {
	switch s {
	case ScrollbarLabels:
		return v.labels.topLeft.X, v.labels.bottomRight.X, v.MaxWorldPosition(PaneLabels).X
	case ScrollbarAlignmentVertical:
		return -v.align.topLeft.Y, -v.align.bottomRight.Y, -v.MaxWorldPosition(PaneAlignment).Y
	}
	return v.align.topLeft.X, v.align.bottomRight.X, v.MaxWorldPosition(PaneAlignment).X
}

// Thumb returns the canvas rectangle of a scrollbar's handle.
//
// The handle length is the visible fraction of the track, never shorter
// than 2.618 track thicknesses. The handle follows the visible window's
// start while the window centre is in the first half of the content and
// its end otherwise.
func (v *Viewport) Thumb(s Scrollbar) geometry.Rect {
	track := v.track(s)
	length, thickness := track.W, track.H
	if s.vertical() {
		length, thickness = track.H, track.W
	}

	lo, hi, total := v.extent(s)
	size := length
	start := 0.0
	if total > 0 {
		size = (hi - lo) / total * length
		size = math.Min(math.Max(size, thickness*minThumbRatio), length)
		if pivot := (lo + (hi-lo)/2) / total; pivot < 0.5 {
			start = lo / total * length
		} else {
			start = hi/total*length - size
		}
		start = clamp(start, 0, length-size)
	}

	if s.vertical() {
		return geometry.Rect{X: track.X, Y: track.Y + start, W: track.W, H: size}
	}
	return geometry.Rect{X: track.X + start, Y: track.Y, W: size, H: track.H}
}

// DragThumb moves the view as if the handle of s were dragged by pixels
// along its track.
func (v *Viewport) DragThumb(s Scrollbar, pixels float64) error {
	if !finite(pixels) {
		return errors.New(errors.ErrCodeInvalidInput, "drag distance must be finite")
	}
	v.scrollBy(s, pixels/v.trackLength(s))
	return nil
}

// PageTrack handles a tap on a scrollbar track at canvas point p: the view
// moves by half a handle towards the tap.
func (v *Viewport) PageTrack(s Scrollbar, p geometry.Point) {
	thumb := v.Thumb(s)
	dist, size := p.X-thumb.X, thumb.W
	if s.vertical() {
		dist, size = p.Y-thumb.Y, thumb.H
	}
	step := size / 2 / v.trackLength(s)
	if dist <= 0 {
		step = -step
	}
	v.scrollBy(s, step)
}

func (v *Viewport) trackLength(s Scrollbar) float64 {
	if s.vertical() {
		return v.track(s).H
	}
	return v.track(s).W
}

// scrollBy moves the view by fraction of the content length along s.
func (v *Viewport) scrollBy(s Scrollbar, fraction float64) {
	_, _, total := v.extent(s)
	w := fraction * total
	switch s {
	case ScrollbarLabels:
		v.labelX += w
	case ScrollbarAlignmentVertical:
		v.alignPos.Y -= w
	default:
		v.alignPos.X += w
	}
	v.RecomputeMatrices(true)
}

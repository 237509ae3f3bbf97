package geometry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComputeInitial(t *testing.T) {
	got := Compute(1920, 1080, 0, true)
	want := Layout{
		CanvasWidth:  1920,
		CanvasHeight: 1080,
		Thickness:    16,

		Labels:           Rect{X: 0, Y: 0, W: 304, H: 1064},
		Separator:        Rect{X: 304, Y: 0, W: 16, H: 1080},
		Alignment:        Rect{X: 320, Y: 0, W: 1584, H: 1064},
		LabelsHScroll:    Rect{X: 0, Y: 1064, W: 304, H: 16},
		AlignmentHScroll: Rect{X: 320, Y: 1064, W: 1584, H: 16},
		AlignmentVScroll: Rect{X: 1904, Y: 0, W: 16, H: 1064},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
	}
	if !got.Valid() {
		t.Error("Valid() = false")
	}
}

func TestThicknessScales(t *testing.T) {
	tests := []struct {
		width float64
		want  float64
	}{
		{800, 16},
		{1920, 16},
		{1921, 17},
		{3840, 32},
	}
	for _, tt := range tests {
		if got := Compute(tt.width, 600, 0, true).Thickness; got != tt.want {
			t.Errorf("Compute(%v).Thickness = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestComputeIsPure(t *testing.T) {
	a := Compute(1280, 720, 200, false)
	b := Compute(1280, 720, 200, false)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Compute() not deterministic:\n%s", diff)
	}
	if a.Separator.X != 200 {
		t.Errorf("Separator.X = %v, want 200", a.Separator.X)
	}
}

func TestNoOverlap(t *testing.T) {
	for _, sep := range []float64{-50, 1, 200, 640, 5000} {
		l := Compute(1280, 720, sep, false)
		regions := []Region{
			RegionLabels, RegionSeparator, RegionAlignment,
			RegionLabelsHScroll, RegionAlignmentHScroll, RegionAlignmentVScroll,
		}
		area := 0.0
		for i, a := range regions {
			ra := l.Rect(a)
			area += ra.W * ra.H
			if ra.Empty() {
				t.Errorf("sep=%v: %s is empty", sep, a)
			}
			for _, b := range regions[i+1:] {
				rb := l.Rect(b)
				if ra.X < rb.Right() && rb.X < ra.Right() && ra.Y < rb.Bottom() && rb.Y < ra.Bottom() {
					t.Errorf("sep=%v: %s %+v overlaps %s %+v", sep, a, ra, b, rb)
				}
			}
		}
		// The only uncovered area is the corner below the vertical scrollbar.
		if want := 1280*720 - l.Thickness*l.Thickness; area != want {
			t.Errorf("sep=%v: covered area %v, want %v", sep, area, want)
		}
	}
}

func TestHitTest(t *testing.T) {
	l := Compute(1920, 1080, 0, true)
	tests := []struct {
		x, y float64
		want Region
	}{
		{10, 10, RegionLabels},
		{303.9, 500, RegionLabels},
		{304, 500, RegionSeparator},
		{310, 1075, RegionSeparator},
		{320, 0, RegionAlignment},
		{1000, 1070, RegionAlignmentHScroll},
		{100, 1070, RegionLabelsHScroll},
		{1910, 10, RegionAlignmentVScroll},
		{1910, 1070, RegionNone},
		{-1, 10, RegionNone},
	}
	for _, tt := range tests {
		if got := l.HitTest(tt.x, tt.y); got != tt.want {
			t.Errorf("HitTest(%v, %v) = %s, want %s", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRect(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}
	if r.Right() != 40 || r.Bottom() != 60 {
		t.Errorf("Right/Bottom = %v/%v, want 40/60", r.Right(), r.Bottom())
	}
	if got := r.Local(Point{X: 15, Y: 25}); got != (Point{X: 5, Y: 5}) {
		t.Errorf("Local() = %+v", got)
	}
	if !r.Contains(10, 20) || r.Contains(40, 30) || r.Contains(20, 60) {
		t.Error("Contains() edge handling wrong")
	}
}

func TestTinyCanvasInvalid(t *testing.T) {
	if Compute(20, 10, 0, true).Valid() {
		t.Error("20x10 canvas should not produce a valid layout")
	}
}

func TestRegionString(t *testing.T) {
	if RegionAlignmentVScroll.String() != "alignment-vscroll" {
		t.Errorf("String() = %q", RegionAlignmentVScroll.String())
	}
	if Region(99).String() != "unknown" {
		t.Errorf("String() = %q", Region(99).String())
	}
}

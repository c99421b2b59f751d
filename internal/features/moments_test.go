package features

import (
	"math"
	"testing"

	"github.com/virAditya/tabletop-object-detector/internal/segmentation"
)

func rectMask(w, h, left, top, rectW, rectH int) *segmentation.Mask {
	m := segmentation.NewMask(w, h)
	for y := top; y < top+rectH; y++ {
		for x := left; x < left+rectW; x++ {
			m.Set(x, y, true)
		}
	}
	return m
}

func circleMask(w, h, cx, cy, radius int) *segmentation.Mask {
	m := segmentation.NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

func TestMaskMoments_ZeroMass(t *testing.T) {
	mom := MaskMoments(segmentation.NewMask(10, 10))
	if mom.M00 != 0 {
		t.Errorf("M00: got %g, want 0", mom.M00)
	}
	if mom.Orientation() != 0 {
		t.Errorf("Zero-mass orientation: got %g, want 0", mom.Orientation())
	}
}

func TestMaskMoments_Centroid(t *testing.T) {
	mom := MaskMoments(rectMask(60, 40, 10, 5, 20, 10))
	if mom.M00 != 200 {
		t.Errorf("M00: got %g, want 200", mom.M00)
	}
	cx := mom.M10 / mom.M00
	cy := mom.M01 / mom.M00
	if cx != 19.5 || cy != 9.5 {
		t.Errorf("Centroid: got (%g,%g), want (19.5,9.5)", cx, cy)
	}
}

func TestOrientation_HorizontalRectangle(t *testing.T) {
	mom := MaskMoments(rectMask(80, 40, 10, 10, 40, 10))
	if got := mom.Orientation(); got != 0 {
		t.Errorf("Horizontal rectangle orientation: got %g, want 0", got)
	}
}

func TestOrientation_VerticalRectangle(t *testing.T) {
	// Mu20 < Mu02 and Mu11 = 0, so the arctangent lands exactly on 90.
	mom := MaskMoments(rectMask(40, 80, 10, 10, 10, 40))
	if got := mom.Orientation(); got != 90 {
		t.Errorf("Vertical rectangle orientation: got %g, want exactly 90", got)
	}
}

func TestOrientation_CircleIsAmbiguous(t *testing.T) {
	// The rasterized disc is symmetric under swapping x and y, so
	// Mu20 == Mu02 exactly and the ambiguity branch reports 0.
	mom := MaskMoments(circleMask(60, 60, 30, 30, 15))
	if got := mom.Orientation(); got != 0 {
		t.Errorf("Circle orientation: got %g, want exactly 0", got)
	}
}

func TestOrientation_DiagonalLine(t *testing.T) {
	// Points (i, 2i) lie on a line of slope 2 in image coordinates.
	// Expected angle: atan2(2, 1) in degrees.
	m := segmentation.NewMask(100, 100)
	for i := 0; i < 40; i++ {
		m.Set(i, 2*i, true)
	}
	mom := MaskMoments(m)

	want := math.Atan2(2, 1) * 180 / math.Pi // 63.4349...
	if got := mom.Orientation(); math.Abs(got-want) > 1e-9 {
		t.Errorf("Diagonal orientation: got %g, want %g", got, want)
	}
}

func TestOrientation_TranslationInvariant(t *testing.T) {
	a := MaskMoments(rectMask(100, 100, 5, 5, 30, 12))
	b := MaskMoments(rectMask(100, 100, 50, 60, 30, 12))
	if a.Orientation() != b.Orientation() {
		t.Errorf("Orientation changed under translation: %g vs %g", a.Orientation(), b.Orientation())
	}
	if math.Abs(a.Mu20-b.Mu20) > 1e-6 || math.Abs(a.Mu02-b.Mu02) > 1e-6 {
		t.Error("Central moments must be translation invariant")
	}
}

func TestOrientation_WithinRange(t *testing.T) {
	masks := []*segmentation.Mask{
		rectMask(60, 60, 5, 5, 30, 10),
		rectMask(60, 60, 5, 5, 10, 30),
		circleMask(60, 60, 30, 30, 12),
	}
	diag := segmentation.NewMask(60, 60)
	for i := 0; i < 30; i++ {
		diag.Set(50-i, i, true) // negative slope
	}
	masks = append(masks, diag)

	for i, m := range masks {
		got := MaskMoments(m).Orientation()
		if got <= -90 || got > 90 {
			t.Errorf("Mask %d: orientation %g outside (-90, 90]", i, got)
		}
	}
}

func TestPolygonMoments_Rectangle(t *testing.T) {
	poly := []segmentation.Point{
		{X: 0, Y: 0}, {X: 9, Y: 0}, {X: 9, Y: 4}, {X: 0, Y: 4},
	}
	mom := PolygonMoments(poly)

	if math.Abs(mom.M00-36) > 1e-9 {
		t.Errorf("M00: got %g, want 36", mom.M00)
	}
	cx := mom.M10 / mom.M00
	cy := mom.M01 / mom.M00
	if math.Abs(cx-4.5) > 1e-9 || math.Abs(cy-2) > 1e-9 {
		t.Errorf("Centroid: got (%g,%g), want (4.5,2)", cx, cy)
	}
	if got := mom.Orientation(); got != 0 {
		t.Errorf("Wide rectangle orientation: got %g, want 0", got)
	}
}

func TestPolygonMoments_WindingIndependent(t *testing.T) {
	cw := []segmentation.Point{
		{X: 2, Y: 1}, {X: 2, Y: 7}, {X: 5, Y: 7}, {X: 5, Y: 1},
	}
	ccw := []segmentation.Point{
		{X: 2, Y: 1}, {X: 5, Y: 1}, {X: 5, Y: 7}, {X: 2, Y: 7},
	}
	a, b := PolygonMoments(cw), PolygonMoments(ccw)

	if math.Abs(a.M00-b.M00) > 1e-9 || a.M00 <= 0 {
		t.Errorf("Signed area must resolve positive either way: %g vs %g", a.M00, b.M00)
	}
	if math.Abs(a.Orientation()-b.Orientation()) > 1e-9 {
		t.Errorf("Orientation depends on winding: %g vs %g", a.Orientation(), b.Orientation())
	}
}

func TestPolygonMoments_Degenerate(t *testing.T) {
	twoPoints := []segmentation.Point{{X: 1, Y: 1}, {X: 5, Y: 5}}
	mom := PolygonMoments(twoPoints)
	if mom.M00 != 0 {
		t.Errorf("Two-point polygon M00: got %g, want 0", mom.M00)
	}
	if mom.Orientation() != 0 {
		t.Errorf("Degenerate polygon orientation: got %g, want 0", mom.Orientation())
	}

	collinear := []segmentation.Point{{X: 0, Y: 0}, {X: 3, Y: 3}, {X: 6, Y: 6}}
	if got := PolygonMoments(collinear).M00; got != 0 {
		t.Errorf("Collinear polygon M00: got %g, want 0", got)
	}
}

package features

import (
	"math"

	"github.com/virAditya/tabletop-object-detector/internal/segmentation"
)

// Moments holds raw image moments through second order plus the central
// second-order moments taken about the mass centroid.
//
// A zero-mass input produces the zero value; callers relying on the
// centroid must check M00 first.
type Moments struct {
	M00 float64
	M10 float64
	M01 float64
	M20 float64
	M02 float64
	M11 float64

	Mu20 float64
	Mu02 float64
	Mu11 float64
}

// MaskMoments computes the moments of a binary mask, treating each
// foreground pixel as unit mass at its integer coordinate.
func MaskMoments(m *segmentation.Mask) Moments {
	var mom Moments
	for y := 0; y < m.Height; y++ {
		fy := float64(y)
		for x := 0; x < m.Width; x++ {
			if !m.At(x, y) {
				continue
			}
			fx := float64(x)
			mom.M00++
			mom.M10 += fx
			mom.M01 += fy
			mom.M20 += fx * fx
			mom.M02 += fy * fy
			mom.M11 += fx * fy
		}
	}
	return mom.centralize()
}

// PolygonMoments computes the moments of the area enclosed by a closed
// polygon via Green's theorem. The vertex winding does not matter: a
// negative signed area is resolved to positive before the central moments
// are derived.
func PolygonMoments(polygon []segmentation.Point) Moments {
	var mom Moments
	n := len(polygon)
	if n < 3 {
		return mom
	}

	for i := 0; i < n; i++ {
		p, q := polygon[i], polygon[(i+1)%n]
		cross := p.X*q.Y - q.X*p.Y
		mom.M00 += cross
		mom.M10 += cross * (p.X + q.X)
		mom.M01 += cross * (p.Y + q.Y)
		mom.M20 += cross * (p.X*p.X + p.X*q.X + q.X*q.X)
		mom.M02 += cross * (p.Y*p.Y + p.Y*q.Y + q.Y*q.Y)
		mom.M11 += cross * (2*p.X*p.Y + p.X*q.Y + q.X*p.Y + 2*q.X*q.Y)
	}
	mom.M00 /= 2
	mom.M10 /= 6
	mom.M01 /= 6
	mom.M20 /= 12
	mom.M02 /= 12
	mom.M11 /= 24

	if mom.M00 < 0 {
		mom.M00, mom.M10, mom.M01 = -mom.M00, -mom.M10, -mom.M01
		mom.M20, mom.M02, mom.M11 = -mom.M20, -mom.M02, -mom.M11
	}
	return mom.centralize()
}

// centralize derives the second-order central moments about the centroid.
func (mom Moments) centralize() Moments {
	if mom.M00 == 0 {
		return mom
	}
	cx := mom.M10 / mom.M00
	cy := mom.M01 / mom.M00
	mom.Mu20 = mom.M20 - cx*mom.M10
	mom.Mu02 = mom.M02 - cy*mom.M01
	mom.Mu11 = mom.M11 - cx*mom.M01
	return mom
}

// Orientation returns the principal-axis angle in degrees within
// (-90, 90].
//
// When the two second-order central moments are exactly equal the axis is
// ambiguous and the angle is reported as 0. That branch also covers the
// zero-mass case, where all moments are zero.
func (mom Moments) Orientation() float64 {
	if mom.Mu20 == mom.Mu02 {
		return 0
	}
	angle := 0.5 * math.Atan2(2*mom.Mu11, mom.Mu20-mom.Mu02)
	return angle * 180 / math.Pi
}

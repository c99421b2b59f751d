package segmentation

import (
	"fmt"
	"math"
)

// Point is a 2D pixel-center coordinate. Boundary polygons use float64 so
// they share a representation with centroids and moment math downstream.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// mooreOffsets lists the 8 neighbors of a pixel in clockwise order on
// screen (Y grows downward), starting at the western neighbor.
var mooreOffsets = [8][2]int{
	{-1, 0},  // W
	{-1, -1}, // NW
	{0, -1},  // N
	{1, -1},  // NE
	{1, 0},   // E
	{1, 1},   // SE
	{0, 1},   // S
	{-1, 1},  // SW
}

// TraceContours finds the outer boundary of every foreground blob in the
// mask and returns one Region per blob with a non-degenerate boundary.
//
// Returns ErrEmptyMask for a zero-dimension mask. A mask with no foreground
// yields an empty slice.
//
// # Algorithm
//
//  1. Raster scan for the first unvisited foreground pixel of each blob
//     (blobs are 8-connected, holes are never entered).
//  2. Moore-neighbor tracing walks the outer boundary clockwise from that
//     pixel, using Jacob's stopping criterion (terminate on re-entering the
//     start pixel from the original backtrack direction). Collinear runs
//     are compressed so straight edges contribute only their endpoints.
//  3. Area, centroid and perimeter come from the closed polygon: signed
//     shoelace area resolved to positive, first-order polygon moments for
//     the centroid, and the closed polyline length for the perimeter.
//
// A blob whose boundary encloses zero area (single pixels, 1-pixel-wide
// lines) is dropped, but still consumes a position in trace order so that
// identifier assignment is stable regardless of how many candidates
// survive.
func TraceContours(m *Mask) ([]Region, error) {
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("trace contours: %w", err)
	}

	visited := make([]bool, m.Width*m.Height)
	regions := make([]Region, 0)
	traceIndex := 0

	stack := make([][2]int, 0, 256)

	for sy := 0; sy < m.Height; sy++ {
		for sx := 0; sx < m.Width; sx++ {
			if !m.At(sx, sy) || visited[sy*m.Width+sx] {
				continue
			}

			// Mark the whole blob so later scan rows skip it. Blobs are
			// 8-connected here to match outer-boundary semantics.
			floodMark(m, visited, sx, sy, stack)

			traceIndex++
			polygon := traceBoundary(m, sx, sy)
			region, ok := polygonRegion(polygon, traceIndex)
			if !ok {
				continue
			}
			regions = append(regions, region)
		}
	}

	return regions, nil
}

// floodMark marks every pixel of the 8-connected blob containing (sx, sy).
func floodMark(m *Mask, visited []bool, sx, sy int, stack [][2]int) {
	stack = append(stack[:0], [2]int{sx, sy})
	visited[sy*m.Width+sx] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range mooreOffsets {
			nx, ny := p[0]+d[0], p[1]+d[1]
			if !m.At(nx, ny) || visited[ny*m.Width+nx] {
				continue
			}
			visited[ny*m.Width+nx] = true
			stack = append(stack, [2]int{nx, ny})
		}
	}
}

// traceBoundary runs Moore-neighbor tracing from the blob's topmost-leftmost
// pixel. (sx, sy) must be the first pixel of the blob in raster order, which
// guarantees its western and northern neighbors are background.
func traceBoundary(m *Mask, sx, sy int) []Point {
	pts := make([]Point, 0, 32)
	push := func(x, y int) {
		p := Point{X: float64(x), Y: float64(y)}
		n := len(pts)
		if n > 0 && pts[n-1] == p {
			return
		}
		if n >= 2 {
			a, b := pts[n-2], pts[n-1]
			cross := (b.X-a.X)*(p.Y-b.Y) - (b.Y-a.Y)*(p.X-b.X)
			if cross == 0 {
				pts = pts[:n-1]
			}
		}
		pts = append(pts, p)
	}

	cx, cy := sx, sy
	bx, by := sx-1, sy
	push(cx, cy)

	startCx, startCy := cx, cy
	startBx, startBy := bx, by
	maxSteps := 4*m.Width*m.Height + 8

	for step := 0; step < maxSteps; step++ {
		// Locate the backtrack pixel in the Moore neighborhood of the
		// current pixel, then scan clockwise from the position after it.
		base := offsetIndex(bx-cx, by-cy)
		found := false
		for k := 1; k <= 8; k++ {
			d := mooreOffsets[(base+k)%8]
			nx, ny := cx+d[0], cy+d[1]
			if m.At(nx, ny) {
				prev := mooreOffsets[(base+k-1)%8]
				bx, by = cx+prev[0], cy+prev[1]
				cx, cy = nx, ny
				found = true
				break
			}
		}
		if !found {
			// Isolated pixel.
			break
		}

		if cx == startCx && cy == startCy && bx == startBx && by == startBy {
			break
		}
		push(cx, cy)
	}

	// The trace may close back onto the start point.
	if len(pts) >= 2 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	return pts
}

func offsetIndex(dx, dy int) int {
	for i, d := range mooreOffsets {
		if d[0] == dx && d[1] == dy {
			return i
		}
	}
	// Unreachable: the backtrack pixel is always Moore-adjacent.
	return 0
}

// polygonRegion derives region statistics from a closed boundary polygon.
// Returns false for degenerate polygons enclosing zero area.
func polygonRegion(polygon []Point, label int) (Region, bool) {
	if len(polygon) < 3 {
		return Region{}, false
	}

	// Signed shoelace moments through first order.
	var a00, a10, a01 float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		p, q := polygon[i], polygon[(i+1)%n]
		cross := p.X*q.Y - q.X*p.Y
		a00 += cross
		a10 += cross * (p.X + q.X)
		a01 += cross * (p.Y + q.Y)
	}
	a00 /= 2
	a10 /= 6
	a01 /= 6

	if a00 == 0 {
		return Region{}, false
	}
	if a00 < 0 {
		a00, a10, a01 = -a00, -a10, -a01
	}

	minX, minY := polygon[0].X, polygon[0].Y
	maxX, maxY := polygon[0].X, polygon[0].Y
	for _, p := range polygon[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	perimeter := 0.0
	for i := 0; i < n; i++ {
		p, q := polygon[i], polygon[(i+1)%n]
		perimeter += math.Hypot(q.X-p.X, q.Y-p.Y)
	}

	return Region{
		Label:     label,
		Area:      int(a00),
		Left:      int(minX),
		Top:       int(minY),
		Width:     int(maxX-minX) + 1,
		Height:    int(maxY-minY) + 1,
		CentroidX: a10 / a00,
		CentroidY: a01 / a00,
		Polygon:   polygon,
		Perimeter: perimeter,
	}, true
}

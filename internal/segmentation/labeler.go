package segmentation

import "fmt"

// Connectivity selects which pixels count as neighbors during
// connected-component labeling.
type Connectivity int

const (
	// Connect4 treats only the horizontal and vertical neighbors as adjacent.
	Connect4 Connectivity = 4
	// Connect8 additionally treats the four diagonal neighbors as adjacent.
	Connect8 Connectivity = 8
)

// Region is a discrete foreground area found by one of the segmentation
// strategies. Label identifies the region within a single segmentation run.
//
// Exactly one representation backs a Region: label-map regions leave Polygon
// nil and are resolved against the LabelResult that produced them, while
// contour regions carry their closed boundary in Polygon along with its
// Perimeter.
type Region struct {
	Label int

	// Area is the foreground pixel count for label-map regions, or the
	// polygon-enclosed area for contour regions.
	Area int

	// Bounding box, inclusive pixel extents.
	Left   int
	Top    int
	Width  int
	Height int

	// Centroid is the mean pixel coordinate of the region's mass.
	CentroidX float64
	CentroidY float64

	// Polygon is the closed outer boundary, contour regions only.
	Polygon []Point

	// Perimeter is the closed boundary length, contour regions only.
	Perimeter float64
}

// LabelResult holds the outcome of connected-component labeling.
//
// Labels is a Height×Width map where background pixels hold 0 and each
// foreground pixel holds the positive label of its region. The map and the
// Regions slice always agree: every positive label in the map has exactly
// one entry in Regions, and its Area equals the number of map pixels
// holding that label.
type LabelResult struct {
	Labels  [][]int
	Regions []Region
}

// LabelComponents performs connected-component labeling of the mask.
//
// Each group of adjacent foreground pixels (per the given connectivity)
// becomes one region with a positive label. Labels are assigned in
// raster-scan discovery order starting at 1; background pixels stay 0.
//
// Returns ErrEmptyMask for a zero-dimension mask and an error for a
// connectivity other than 4 or 8. A mask with no foreground pixels yields
// an empty region list, not an error.
func LabelComponents(m *Mask, conn Connectivity) (*LabelResult, error) {
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("label components: %w", err)
	}
	if conn != Connect4 && conn != Connect8 {
		return nil, fmt.Errorf("label components: connectivity must be 4 or 8, got %d", int(conn))
	}

	labels := make([][]int, m.Height)
	for y := range labels {
		labels[y] = make([]int, m.Width)
	}

	offsets := neighborOffsets(conn)
	regions := make([]Region, 0)
	next := 1

	// Reused across components to avoid per-region allocations.
	stack := make([][2]int, 0, 256)

	for sy := 0; sy < m.Height; sy++ {
		for sx := 0; sx < m.Width; sx++ {
			if !m.At(sx, sy) || labels[sy][sx] != 0 {
				continue
			}

			label := next
			next++

			// Iterative flood fill; a recursive version would overflow the
			// stack on large blobs.
			stack = append(stack[:0], [2]int{sx, sy})
			labels[sy][sx] = label

			area := 0
			minX, minY := sx, sy
			maxX, maxY := sx, sy
			var sumX, sumY float64

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				x, y := p[0], p[1]

				area++
				sumX += float64(x)
				sumY += float64(y)
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}

				for _, d := range offsets {
					nx, ny := x+d[0], y+d[1]
					if !m.At(nx, ny) {
						continue
					}
					if labels[ny][nx] != 0 {
						continue
					}
					labels[ny][nx] = label
					stack = append(stack, [2]int{nx, ny})
				}
			}

			regions = append(regions, Region{
				Label:     label,
				Area:      area,
				Left:      minX,
				Top:       minY,
				Width:     maxX - minX + 1,
				Height:    maxY - minY + 1,
				CentroidX: sumX / float64(area),
				CentroidY: sumY / float64(area),
			})
		}
	}

	return &LabelResult{Labels: labels, Regions: regions}, nil
}

// RegionMask materializes the binary mask of a single labeled region: a
// full-size mask whose foreground is exactly the pixels holding the given
// label. An unknown label produces an all-background mask.
func (r *LabelResult) RegionMask(label int) *Mask {
	h := len(r.Labels)
	w := 0
	if h > 0 {
		w = len(r.Labels[0])
	}
	m := NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if r.Labels[y][x] == label {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

func neighborOffsets(conn Connectivity) [][2]int {
	four := [][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}
	if conn == Connect4 {
		return four
	}
	return append(four, [2]int{-1, -1}, [2]int{1, -1}, [2]int{-1, 1}, [2]int{1, 1})
}

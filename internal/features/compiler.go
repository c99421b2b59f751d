package features

import (
	"sync"

	"github.com/virAditya/tabletop-object-detector/internal/segmentation"
)

// Centroid is the mean pixel coordinate of an object's mass.
type Centroid struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BBox is an axis-aligned bounding box in pixel coordinates.
type BBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Object is the final per-object feature record consumed by visualization
// and logging. Records are immutable once compiled. Perimeter is populated
// for contour-derived objects only.
type Object struct {
	ID          int     `json:"id"`
	Centroid    Centroid `json:"centroid"`
	Area        int     `json:"area"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	Orientation float64 `json:"orientation_degrees"`
	BBox        BBox    `json:"bounding_box"`
	Perimeter   float64 `json:"perimeter,omitempty"`
}

// FromComponents compiles feature records for regions produced by
// connected-component labeling. res must be the LabelResult the regions
// came from; each object's moments are taken over the pixels holding its
// label. Object IDs reuse the region labels.
func FromComponents(res *segmentation.LabelResult, accepted []segmentation.Region) []Object {
	return compile(accepted, func(r segmentation.Region) Moments {
		return MaskMoments(res.RegionMask(r.Label))
	})
}

// FromContours compiles feature records for regions produced by boundary
// tracing. Moments are taken over each region's boundary polygon, and the
// boundary's perimeter is carried into the record. Object IDs are 1 + the
// region's position in trace order, which the tracer already assigned as
// the region label.
func FromContours(accepted []segmentation.Region) []Object {
	return compile(accepted, func(r segmentation.Region) Moments {
		return PolygonMoments(r.Polygon)
	})
}

// compile is the shared downstream path for both entry points. Moment
// computation fans out across goroutines, one per region; each result
// lands at its region's index so the output order always matches the
// accepted order.
func compile(accepted []segmentation.Region, moments func(segmentation.Region) Moments) []Object {
	orientations := make([]float64, len(accepted))

	var wg sync.WaitGroup
	for i, r := range accepted {
		wg.Add(1)
		go func(i int, r segmentation.Region) {
			defer wg.Done()
			orientations[i] = moments(r).Orientation()
		}(i, r)
	}
	wg.Wait()

	objects := make([]Object, 0, len(accepted))
	for i, r := range accepted {
		// Aspect ratio is always recomputed from the bounding box.
		aspect := 0.0
		if r.Height > 0 {
			aspect = float64(r.Width) / float64(r.Height)
		}

		objects = append(objects, Object{
			ID:          r.Label,
			Centroid:    Centroid{X: r.CentroidX, Y: r.CentroidY},
			Area:        r.Area,
			Width:       r.Width,
			Height:      r.Height,
			AspectRatio: aspect,
			Orientation: orientations[i],
			BBox:        BBox{X: r.Left, Y: r.Top, Width: r.Width, Height: r.Height},
			Perimeter:   r.Perimeter,
		})
	}
	return objects
}

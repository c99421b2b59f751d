// Package segmentation turns a binary foreground mask into discrete object
// regions ready for feature extraction.
//
// Two interchangeable strategies are provided:
//
//   - LabelComponents: connected-component labeling (4- or 8-connectivity)
//     producing a label map plus per-region statistics
//   - TraceContours: Moore-neighbor boundary tracing producing closed outer
//     polygons plus statistics derived from polygon moments
//
// Both return []Region with the same statistics (area, bounding box,
// centroid), so downstream code does not branch on which strategy ran.
// FilterRegions then applies the ordered inclusion criteria (minimum area,
// top exclusion band, aspect-ratio band) and reports why each rejected
// region was dropped.
//
// # Coordinate System
//
// All coordinates are 0-based with the origin at the top-left corner:
// X increases rightward, Y increases downward. Region bounding boxes are
// inclusive pixel extents (Left, Top, Width, Height).
//
// # Determinism
//
// Regions are emitted in raster-scan discovery order. Running either
// strategy twice on the same mask yields identical label assignment and
// region order, which keeps downstream identifier assignment stable.
//
// # Error Handling
//
// A mask with zero width or height is a caller error and is rejected with
// ErrEmptyMask. A mask with no foreground pixels is not an error; it
// produces an empty region list.
package segmentation

// Package features compiles geometric descriptors for segmented regions.
//
// For every accepted region the package produces one Object holding the
// centroid, area, bounding box, aspect ratio and principal-axis orientation.
// Orientation is derived from the second-order central image moments of the
// region's pixel mass (label-map regions) or its boundary polygon (contour
// regions); both paths feed the same compile step, so the two entry points
// FromComponents and FromContours emit field-for-field identical records.
//
// # Orientation
//
// The principal axis angle is
//
//	θ = 0.5 · atan2(2·μ11, μ20 − μ02)
//
// reported in degrees within (-90, 90]. Angles are measured from the
// image X axis, positive toward +Y (downward on screen). When μ20 equals
// μ02 exactly (a circularly symmetric mass, or the degenerate zero-mass
// case) the orientation is defined as 0°. The equality check is exact, not
// a tolerance, so near-symmetric regions may flip discontinuously between
// small positive and negative angles.
package features

// Package preprocess converts a color tabletop photo into the binary
// foreground mask the segmentation engine consumes.
//
// The pipeline is grayscale conversion, Gaussian blur, thresholding and
// morphological cleanup. Two threshold methods are available:
//
//   - "otsu": a global level chosen by maximizing between-class variance
//     of the grayscale histogram
//   - "adaptive": a per-pixel level from the local block mean minus a
//     constant, for scenes with uneven lighting
//
// Both produce an inverted binary image: objects are assumed darker than
// the table surface, so pixels at or below the threshold become white
// foreground. An unrecognized method name is a configuration error and is
// never silently defaulted.
package preprocess

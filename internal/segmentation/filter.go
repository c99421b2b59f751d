package segmentation

import "fmt"

// FilterOptions configures the region inclusion criteria.
//
// Criteria are evaluated per region in a fixed order (minimum area, top
// exclusion band, aspect-ratio band) and evaluation stops at the first
// failing criterion. The order is observable: it decides which rejection
// reason a region failing several criteria is reported with.
type FilterOptions struct {
	// MinArea rejects regions smaller than this many pixels. Must be positive.
	MinArea int

	// ExcludeTop enables rejection of regions whose centroid lies inside
	// the top band of the image. The band height is TopPercent percent of
	// the image height. Used to drop camera overlay artifacts near the top.
	ExcludeTop bool
	TopPercent float64

	// AspectFilter enables rejection of regions whose width/height ratio
	// falls outside the inclusive [MinAspect, MaxAspect] band. Regions with
	// zero height skip this criterion.
	AspectFilter bool
	MinAspect    float64
	MaxAspect    float64
}

// Validate reports a configuration error for out-of-range option values.
// Invalid options are never silently defaulted.
func (o FilterOptions) Validate() error {
	if o.MinArea <= 0 {
		return fmt.Errorf("filter options: min area must be positive, got %d", o.MinArea)
	}
	if o.ExcludeTop && (o.TopPercent < 0 || o.TopPercent > 100) {
		return fmt.Errorf("filter options: top percent must be in [0,100], got %g", o.TopPercent)
	}
	if o.AspectFilter {
		if o.MinAspect <= 0 || o.MaxAspect <= 0 {
			return fmt.Errorf("filter options: aspect band limits must be positive, got [%g,%g]", o.MinAspect, o.MaxAspect)
		}
		if o.MinAspect > o.MaxAspect {
			return fmt.Errorf("filter options: aspect band min %g exceeds max %g", o.MinAspect, o.MaxAspect)
		}
	}
	return nil
}

// FilterResult holds the accepted subset of regions plus one reason string
// per rejected region. Accepted preserves the relative order of the input.
type FilterResult struct {
	Accepted []Region
	Rejected []string
}

// RejectedCount returns the number of regions dropped by the filter.
func (r *FilterResult) RejectedCount() int {
	return len(r.Rejected)
}

// FilterRegions applies the inclusion criteria to each region in order.
//
// imageHeight is the height of the source image in pixels; it anchors the
// top exclusion band. The function is pure: it never mutates its inputs
// and the same inputs always produce the same result.
func FilterRegions(regions []Region, imageHeight int, opts FilterOptions) (*FilterResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	excludeBelow := float64(imageHeight) * opts.TopPercent / 100

	result := &FilterResult{
		Accepted: make([]Region, 0, len(regions)),
		Rejected: make([]string, 0),
	}

	for _, r := range regions {
		if r.Area < opts.MinArea {
			result.Rejected = append(result.Rejected,
				fmt.Sprintf("region %d: too small (%dpx)", r.Label, r.Area))
			continue
		}

		if opts.ExcludeTop && r.CentroidY < excludeBelow {
			result.Rejected = append(result.Rejected,
				fmt.Sprintf("region %d: inside top band (y=%.0f)", r.Label, r.CentroidY))
			continue
		}

		if opts.AspectFilter && r.Height > 0 {
			aspect := float64(r.Width) / float64(r.Height)
			if aspect < opts.MinAspect || aspect > opts.MaxAspect {
				result.Rejected = append(result.Rejected,
					fmt.Sprintf("region %d: elongated (aspect %.1f)", r.Label, aspect))
				continue
			}
		}

		result.Accepted = append(result.Accepted, r)
	}

	return result, nil
}

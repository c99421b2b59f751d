// Package pipeline runs the full tabletop detection sequence: load the
// scene image, binarize it, segment foreground regions, filter them,
// compile per-object features, then annotate and log the results.
//
// The engine itself is pure and synchronous; this package is the only
// place that touches the filesystem. Zero detected objects is a normal,
// empty result; callers must treat it as "no objects detected", not as a
// failure.
package pipeline

import (
	"errors"
	"fmt"
	"image"

	"github.com/virAditya/tabletop-object-detector/internal/features"
	"github.com/virAditya/tabletop-object-detector/internal/imgio"
	"github.com/virAditya/tabletop-object-detector/internal/preprocess"
	"github.com/virAditya/tabletop-object-detector/internal/report"
	"github.com/virAditya/tabletop-object-detector/internal/segmentation"
	"github.com/virAditya/tabletop-object-detector/internal/visualize"
)

// Segmentation method names accepted by Config.SegmentationMethod.
const (
	MethodComponents = "components"
	MethodContours   = "contours"
)

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every knob for one detection run. There is no ambient
// configuration: everything reaches the engine through this struct.
type Config struct {
	ImagePath string
	OutputDir string

	// SegmentationMethod is MethodComponents or MethodContours.
	SegmentationMethod string

	// Connectivity is 4 or 8, MethodComponents only.
	Connectivity int

	// CropTop removes this many rows from the top of the frame before
	// analysis (camera overlay strip).
	CropTop int

	Binarization preprocess.Options
	Filter       segmentation.FilterOptions

	Style      visualize.Style
	SaveImages bool
	WriteLogs  bool
}

// DefaultConfig returns a runnable configuration; ImagePath must still be
// set by the caller.
func DefaultConfig() Config {
	return Config{
		OutputDir:          "output",
		SegmentationMethod: MethodComponents,
		Connectivity:       8,
		Binarization:       preprocess.DefaultOptions(),
		Filter: segmentation.FilterOptions{
			MinArea:      500,
			ExcludeTop:   true,
			TopPercent:   10,
			AspectFilter: true,
			MinAspect:    0.2,
			MaxAspect:    5.0,
		},
		Style:      visualize.DefaultStyle(),
		SaveImages: true,
		WriteLogs:  true,
	}
}

// Validate rejects unknown method names and out-of-range settings.
// Nothing is ever silently defaulted.
func (c *Config) Validate() error {
	if c.ImagePath == "" {
		return fmt.Errorf("%w: image path is required", ErrInvalidConfig)
	}
	switch c.SegmentationMethod {
	case MethodComponents, MethodContours:
	default:
		return fmt.Errorf("%w: unknown segmentation method %q", ErrInvalidConfig, c.SegmentationMethod)
	}
	if c.SegmentationMethod == MethodComponents && c.Connectivity != 4 && c.Connectivity != 8 {
		return fmt.Errorf("%w: connectivity must be 4 or 8, got %d", ErrInvalidConfig, c.Connectivity)
	}
	if c.CropTop < 0 {
		return fmt.Errorf("%w: crop top must not be negative, got %d", ErrInvalidConfig, c.CropTop)
	}
	if err := c.Binarization.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Filter.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Result summarizes one detection run.
type Result struct {
	// Objects are the detected objects in acceptance order. Empty when
	// nothing survived filtering.
	Objects []features.Object

	// RejectedReasons explains every region dropped by the filter.
	RejectedReasons []string

	// TotalRegions counts raw regions before filtering.
	TotalRegions int

	ImageWidth  int
	ImageHeight int

	// OtsuLevel is the chosen global threshold when Otsu binarization ran.
	OtsuLevel uint8
}

// Runner executes detection pipelines, reusing one image cache across runs.
type Runner struct {
	cache *imgio.Cache
}

// New creates a Runner.
func New() *Runner {
	return &Runner{cache: imgio.NewCache()}
}

// Run executes the full pipeline for one scene image.
func (r *Runner) Run(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	img, err := r.cache.Load(cfg.ImagePath)
	if err != nil {
		return nil, err
	}
	if cfg.CropTop > 0 {
		img, err = imgio.CropTop(img, cfg.CropTop)
		if err != nil {
			return nil, err
		}
	}

	pre, err := preprocess.Binarize(img, cfg.Binarization)
	if err != nil {
		return nil, err
	}
	mask := segmentation.MaskFromGray(pre.Binary)

	objects, filtered, total, err := r.segment(mask, cfg)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Objects:         objects,
		RejectedReasons: filtered.Rejected,
		TotalRegions:    total,
		ImageWidth:      mask.Width,
		ImageHeight:     mask.Height,
		OtsuLevel:       pre.OtsuLevel,
	}

	if cfg.SaveImages {
		annotated, err := visualize.Annotate(img, objects, cfg.Style)
		if err != nil {
			return nil, err
		}
		err = visualize.SaveImages(cfg.OutputDir, map[string]image.Image{
			"original":  img,
			"binary":    pre.Binary,
			"annotated": annotated,
		})
		if err != nil {
			return nil, err
		}
	}

	if cfg.WriteLogs {
		writer, err := report.NewWriter(cfg.OutputDir)
		if err != nil {
			return nil, err
		}
		meta := &report.Metadata{
			BinarizationMethod: cfg.Binarization.Method,
			SegmentationMethod: cfg.SegmentationMethod,
			MinAreaThreshold:   cfg.Filter.MinArea,
			ImageWidth:         mask.Width,
			ImageHeight:        mask.Height,
			PositionFilter:     cfg.Filter.ExcludeTop,
			AspectRatioFilter:  cfg.Filter.AspectFilter,
		}
		if err := writer.WriteAll(objects, meta); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// segment runs the configured segmentation strategy and compiles features.
// Both strategies share the filter and produce identical record shapes.
func (r *Runner) segment(mask *segmentation.Mask, cfg Config) ([]features.Object, *segmentation.FilterResult, int, error) {
	switch cfg.SegmentationMethod {
	case MethodComponents:
		labeled, err := segmentation.LabelComponents(mask, segmentation.Connectivity(cfg.Connectivity))
		if err != nil {
			return nil, nil, 0, err
		}
		filtered, err := segmentation.FilterRegions(labeled.Regions, mask.Height, cfg.Filter)
		if err != nil {
			return nil, nil, 0, err
		}
		return features.FromComponents(labeled, filtered.Accepted), filtered, len(labeled.Regions), nil

	case MethodContours:
		regions, err := segmentation.TraceContours(mask)
		if err != nil {
			return nil, nil, 0, err
		}
		filtered, err := segmentation.FilterRegions(regions, mask.Height, cfg.Filter)
		if err != nil {
			return nil, nil, 0, err
		}
		return features.FromContours(filtered.Accepted), filtered, len(regions), nil
	}
	// Validate already rejected anything else.
	return nil, nil, 0, fmt.Errorf("%w: unknown segmentation method %q", ErrInvalidConfig, cfg.SegmentationMethod)
}

package preprocess

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
)

// Threshold method names accepted by Options.Method.
const (
	MethodOtsu     = "otsu"
	MethodAdaptive = "adaptive"
)

// Options configures the binarization pipeline.
type Options struct {
	// Method selects the threshold algorithm: MethodOtsu or MethodAdaptive.
	Method string

	// BlurRadius is the Gaussian blur radius applied before thresholding.
	// Zero disables blurring.
	BlurRadius float64

	// MorphRadius and MorphPasses control the morphological cleanup:
	// MorphPasses erosions then dilations (opening, removes speckle noise)
	// followed by MorphPasses dilations then erosions (closing, fills small
	// holes). A zero radius or zero passes disables cleanup.
	MorphRadius float64
	MorphPasses int

	// AdaptiveBlock is the odd window size for the adaptive local mean.
	// AdaptiveC is subtracted from the local mean before comparison.
	AdaptiveBlock int
	AdaptiveC     int
}

// DefaultOptions returns the pipeline defaults tuned for a top-down
// tabletop scene under reasonable lighting.
func DefaultOptions() Options {
	return Options{
		Method:        MethodOtsu,
		BlurRadius:    2,
		MorphRadius:   1,
		MorphPasses:   2,
		AdaptiveBlock: 11,
		AdaptiveC:     2,
	}
}

// Validate reports a configuration error for an unknown method name or
// out-of-range parameters.
func (o Options) Validate() error {
	switch o.Method {
	case MethodOtsu, MethodAdaptive:
	default:
		return fmt.Errorf("preprocess: unknown binarization method %q", o.Method)
	}
	if o.BlurRadius < 0 {
		return fmt.Errorf("preprocess: blur radius must not be negative, got %g", o.BlurRadius)
	}
	if o.Method == MethodAdaptive {
		if o.AdaptiveBlock < 3 || o.AdaptiveBlock%2 == 0 {
			return fmt.Errorf("preprocess: adaptive block size must be odd and >= 3, got %d", o.AdaptiveBlock)
		}
	}
	return nil
}

// Result holds the intermediate and final stages of preprocessing so
// callers can save or display them.
type Result struct {
	Gray    *image.Gray
	Blurred *image.Gray

	// Binary is the cleaned foreground mask: objects white, table black.
	Binary *image.Gray

	// OtsuLevel is the chosen global threshold, MethodOtsu only.
	OtsuLevel uint8
}

// Binarize runs the full preprocessing pipeline on a color image.
func Binarize(img image.Image, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("preprocess: image has zero width or height")
	}

	res := &Result{}
	res.Gray = toGray(effect.Grayscale(img))

	res.Blurred = res.Gray
	if opts.BlurRadius > 0 {
		res.Blurred = toGray(blur.Gaussian(res.Gray, opts.BlurRadius))
	}

	var binary *image.Gray
	switch opts.Method {
	case MethodOtsu:
		res.OtsuLevel = OtsuLevel(res.Blurred)
		// segment.Threshold marks pixels >= level white. The dark class is
		// inclusive of the level itself, so threshold one above it and
		// invert to get white objects on a black table.
		cut := res.OtsuLevel
		if cut < 255 {
			cut++
		}
		binary = toGray(effect.Invert(segment.Threshold(res.Blurred, cut)))
	case MethodAdaptive:
		binary = adaptiveThreshold(res.Blurred, opts.AdaptiveBlock, opts.AdaptiveC)
	}

	if opts.MorphRadius > 0 && opts.MorphPasses > 0 {
		binary = openClose(binary, opts.MorphRadius, opts.MorphPasses)
	}
	res.Binary = binary
	return res, nil
}

// OtsuLevel picks the global threshold that maximizes between-class
// variance of the grayscale histogram. Pixels below the returned level form
// the darker class.
func OtsuLevel(img *image.Gray) uint8 {
	var hist [256]int
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[img.GrayAt(x, y).Y]++
		}
	}

	var sum float64
	for i, n := range hist {
		sum += float64(i) * float64(n)
	}

	var sumB, wB float64
	var maxVariance float64
	level := 0
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		meanB := sumB / wB
		meanF := (sum - sumB) / wF
		variance := wB * wF * (meanB - meanF) * (meanB - meanF)
		if variance > maxVariance {
			maxVariance = variance
			level = t
		}
	}
	return uint8(level)
}

// adaptiveThreshold marks a pixel foreground when it is darker than the
// mean of its block-sized neighborhood minus the constant c. Neighborhood
// sums come from an integral image so the cost is independent of block
// size. Windows are clamped at the image border.
func adaptiveThreshold(img *image.Gray, block, c int) *image.Gray {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))

	// integral[y][x] = sum of all pixels above and left of (x, y).
	integral := make([][]int64, h+1)
	for y := range integral {
		integral[y] = make([]int64, w+1)
	}
	for y := 0; y < h; y++ {
		var rowSum int64
		for x := 0; x < w; x++ {
			rowSum += int64(img.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)
			integral[y+1][x+1] = integral[y][x+1] + rowSum
		}
	}

	half := block / 2
	for y := 0; y < h; y++ {
		y0 := max(0, y-half)
		y1 := min(h-1, y+half)
		for x := 0; x < w; x++ {
			x0 := max(0, x-half)
			x1 := min(w-1, x+half)

			area := int64((x1 - x0 + 1) * (y1 - y0 + 1))
			sum := integral[y1+1][x1+1] - integral[y0][x1+1] - integral[y1+1][x0] + integral[y0][x0]
			mean := float64(sum) / float64(area)

			if float64(img.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y) < mean-float64(c) {
				out.SetGray(x, y, grayWhite)
			}
		}
	}
	return out
}

// openClose removes speckle noise (opening) then fills small holes
// (closing) on a white-foreground binary image.
func openClose(binary *image.Gray, radius float64, passes int) *image.Gray {
	img := image.Image(binary)
	for i := 0; i < passes; i++ {
		img = effect.Erode(img, radius)
	}
	for i := 0; i < passes*2; i++ {
		img = effect.Dilate(img, radius)
	}
	for i := 0; i < passes; i++ {
		img = effect.Erode(img, radius)
	}
	return toGray(img)
}

var grayWhite = color.Gray{Y: 255}

func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)
	return out
}

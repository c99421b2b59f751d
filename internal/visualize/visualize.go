// Package visualize renders detection results onto the scene image.
//
// For each detected object it draws the bounding box, a centroid marker,
// the principal-axis orientation line and an ID label. The annotated image
// is what an operator looks at to judge a run, so colors for each element
// are configurable as hex strings.
package visualize

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/virAditya/tabletop-object-detector/internal/features"
)

// Style configures annotation colors and geometry. Colors are "#RRGGBB"
// hex strings.
type Style struct {
	BBoxColor     string
	CentroidColor string
	LabelColor    string
	AxisColor     string

	// Thickness is the bounding-box line width in pixels.
	Thickness int

	// AxisLength is the orientation line length in pixels.
	AxisLength int

	// CentroidRadius is the filled centroid marker radius in pixels.
	CentroidRadius int
}

// DefaultStyle matches the conventional overlay scheme: green boxes, red
// centroids, blue labels, magenta axis lines.
func DefaultStyle() Style {
	return Style{
		BBoxColor:      "#00FF00",
		CentroidColor:  "#FF0000",
		LabelColor:     "#0000FF",
		AxisColor:      "#FF00FF",
		Thickness:      2,
		AxisLength:     30,
		CentroidRadius: 5,
	}
}

// Annotate draws every object's overlay onto a copy of the scene image.
// The input image is never modified.
func Annotate(img image.Image, objects []features.Object, style Style) (*image.RGBA, error) {
	boxColor, err := parseHex(style.BBoxColor)
	if err != nil {
		return nil, fmt.Errorf("bbox color: %w", err)
	}
	centroidColor, err := parseHex(style.CentroidColor)
	if err != nil {
		return nil, fmt.Errorf("centroid color: %w", err)
	}
	labelColor, err := parseHex(style.LabelColor)
	if err != nil {
		return nil, fmt.Errorf("label color: %w", err)
	}
	axisColor, err := parseHex(style.AxisColor)
	if err != nil {
		return nil, fmt.Errorf("axis color: %w", err)
	}

	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	for _, obj := range objects {
		drawRect(out, obj.BBox, boxColor, style.Thickness)

		cx := int(math.Round(obj.Centroid.X))
		cy := int(math.Round(obj.Centroid.Y))
		fillCircle(out, cx, cy, style.CentroidRadius, centroidColor)

		// Orientation line from the centroid along the principal axis.
		// Angles are measured from +X toward +Y, so positive angles point
		// down-right on screen.
		rad := obj.Orientation * math.Pi / 180
		ex := cx + int(math.Round(float64(style.AxisLength)*math.Cos(rad)))
		ey := cy + int(math.Round(float64(style.AxisLength)*math.Sin(rad)))
		drawLine(out, cx, cy, ex, ey, axisColor)

		drawLabel(out, obj.BBox.X, obj.BBox.Y-4, fmt.Sprintf("ID:%d", obj.ID), labelColor)
	}

	return out, nil
}

// SaveImages writes each named image as a JPEG under dir, creating the
// directory if needed.
func SaveImages(dir string, images map[string]image.Image) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for name, img := range images {
		path := filepath.Join(dir, name+".jpg")
		if err := imaging.Save(img, path); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
	}
	return nil
}

func parseHex(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func drawRect(img *image.RGBA, box features.BBox, c color.RGBA, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	x1, y1 := box.X, box.Y
	x2, y2 := box.X+box.Width-1, box.Y+box.Height-1
	for t := 0; t < thickness; t++ {
		for x := x1 - t; x <= x2+t; x++ {
			setPixel(img, x, y1-t, c)
			setPixel(img, x, y2+t, c)
		}
		for y := y1 - t; y <= y2+t; y++ {
			setPixel(img, x1-t, y, c)
			setPixel(img, x2+t, y, c)
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				setPixel(img, cx+dx, cy+dy, c)
			}
		}
	}
}

func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	dx, dy := x2-x1, y2-y1
	steps := abs(dx)
	if abs(dy) > steps {
		steps = abs(dy)
	}
	if steps == 0 {
		setPixel(img, x1, y1, c)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x1 + dx*i/steps
		y := y1 + dy*i/steps
		setPixel(img, x, y, c)
	}
}

func drawLabel(img *image.RGBA, x, y int, text string, c color.RGBA) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func setPixel(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

package segmentation

import (
	"errors"
	"image"
)

// ErrEmptyMask is returned when a mask with zero width or height is passed
// to a segmentation operation.
var ErrEmptyMask = errors.New("mask has zero width or height")

// Mask is a binary foreground/background image. Foreground pixels are true.
//
// The zero coordinate is the top-left corner. Pixels outside the mask are
// treated as background by At, which keeps neighborhood checks free of
// explicit bounds tests.
type Mask struct {
	Width  int
	Height int
	bits   []bool
}

// NewMask creates an all-background mask of the given dimensions.
func NewMask(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{
		Width:  width,
		Height: height,
		bits:   make([]bool, width*height),
	}
}

// MaskFromGray builds a mask from a grayscale image, treating pixels with
// luminance >= 128 as foreground. This matches the white-foreground
// convention produced by binarization.
func MaskFromGray(img *image.Gray) *Mask {
	bounds := img.Bounds()
	m := NewMask(bounds.Dx(), bounds.Dy())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if img.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y >= 128 {
				m.bits[y*m.Width+x] = true
			}
		}
	}
	return m
}

// At reports whether the pixel at (x, y) is foreground.
// Coordinates outside the mask are background.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.bits[y*m.Width+x]
}

// Set marks the pixel at (x, y) as foreground or background.
// Out-of-bounds coordinates are ignored.
func (m *Mask) Set(x, y int, foreground bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.bits[y*m.Width+x] = foreground
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

func (m *Mask) validate() error {
	if m == nil || m.Width == 0 || m.Height == 0 {
		return ErrEmptyMask
	}
	return nil
}

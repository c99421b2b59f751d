// Package imgio loads tabletop scene images from disk and prepares them
// for analysis.
//
// The Cache keeps decoded images in memory keyed by path, so a pipeline
// run that needs the same frame for preprocessing, annotation and saving
// decodes it once. The cache is safe for concurrent use.
package imgio

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// Cache is a thread-safe store of decoded images keyed by file path.
type Cache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewCache returns an empty, ready-to-use image cache.
func NewCache() *Cache {
	return &Cache{images: make(map[string]image.Image)}
}

// Load returns the image at path, decoding it on first use and serving it
// from memory afterwards. PNG, JPEG, GIF, TIFF and BMP are supported.
func (c *Cache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()
	return img, nil
}

// Evict removes one cached image; unknown paths are ignored.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Info describes a scene image file.
type Info struct {
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Format        string `json:"format"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// LoadInfo loads an image through the cache and reports its dimensions,
// extension-derived format and file size.
func LoadInfo(c *Cache, path string) (*Info, error) {
	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "jpg" {
		format = "jpeg"
	}
	if format == "" {
		format = "unknown"
	}

	bounds := img.Bounds()
	return &Info{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		FileSizeBytes: stat.Size(),
	}, nil
}

// CropTop removes the given number of pixel rows from the top of the
// image. Phone-camera apps stamp a status overlay along the top edge of
// the frame; cropping it before analysis keeps it out of segmentation.
func CropTop(img image.Image, pixels int) (image.Image, error) {
	if pixels < 0 {
		return nil, fmt.Errorf("crop top: pixel count must not be negative, got %d", pixels)
	}
	if pixels == 0 {
		return img, nil
	}
	bounds := img.Bounds()
	if pixels >= bounds.Dy() {
		return nil, fmt.Errorf("crop top: %d rows leaves no image (height %d)", pixels, bounds.Dy())
	}
	rect := image.Rect(bounds.Min.X, bounds.Min.Y+pixels, bounds.Max.X, bounds.Max.Y)
	return imaging.Crop(img, rect), nil
}

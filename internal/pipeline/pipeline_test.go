package pipeline

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/virAditya/tabletop-object-detector/internal/preprocess"
)

// writeScene creates a PNG of a light table with dark rectangles and
// returns its path. Each rect is {left, top, w, h}.
func writeScene(t *testing.T, w, h int, rects [][4]int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	light := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	dark := color.RGBA{R: 30, G: 30, B: 30, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, light)
		}
	}
	for _, r := range rects {
		for y := r[1]; y < r[1]+r[3]; y++ {
			for x := r[0]; x < r[0]+r[2]; x++ {
				img.SetRGBA(x, y, dark)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "scene.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create scene: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode scene: %v", err)
	}
	return path
}

// exactConfig disables blur and morphology so mask edges match the drawn
// rectangles exactly.
func exactConfig(imagePath, outputDir string) Config {
	cfg := DefaultConfig()
	cfg.ImagePath = imagePath
	cfg.OutputDir = outputDir
	cfg.Binarization = preprocess.Options{Method: preprocess.MethodOtsu}
	return cfg
}

func TestRun_Components(t *testing.T) {
	path := writeScene(t, 200, 200, [][4]int{{30, 30, 100, 50}})
	outDir := t.TempDir()

	res, err := New().Run(exactConfig(path, outDir))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.ImageWidth != 200 || res.ImageHeight != 200 {
		t.Errorf("Image size: got %dx%d, want 200x200", res.ImageWidth, res.ImageHeight)
	}
	if res.TotalRegions != 1 {
		t.Errorf("TotalRegions: got %d, want 1", res.TotalRegions)
	}
	if len(res.Objects) != 1 {
		t.Fatalf("Expected 1 object, got %d", len(res.Objects))
	}

	obj := res.Objects[0]
	if obj.Area != 5000 {
		t.Errorf("Area: got %d, want 5000", obj.Area)
	}
	if obj.BBox.X != 30 || obj.BBox.Y != 30 || obj.BBox.Width != 100 || obj.BBox.Height != 50 {
		t.Errorf("BBox: got %+v, want (30,30,100,50)", obj.BBox)
	}
	if obj.Centroid.X != 79.5 || obj.Centroid.Y != 54.5 {
		t.Errorf("Centroid: got (%g,%g), want (79.5,54.5)", obj.Centroid.X, obj.Centroid.Y)
	}
	if obj.AspectRatio != 2.0 {
		t.Errorf("AspectRatio: got %g, want 2.0", obj.AspectRatio)
	}
	if obj.Orientation != 0 {
		t.Errorf("Orientation: got %g, want 0", obj.Orientation)
	}

	for _, name := range []string{"original.jpg", "binary.jpg", "annotated.jpg", "log.txt", "log.json", "log.csv"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("Missing output %s: %v", name, err)
		}
	}
}

func TestRun_Contours(t *testing.T) {
	path := writeScene(t, 200, 200, [][4]int{{30, 30, 100, 50}})

	cfg := exactConfig(path, t.TempDir())
	cfg.SegmentationMethod = MethodContours
	cfg.SaveImages = false
	cfg.WriteLogs = false

	res, err := New().Run(cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Objects) != 1 {
		t.Fatalf("Expected 1 object, got %d", len(res.Objects))
	}

	obj := res.Objects[0]
	// The boundary polygon runs through pixel centers: area (w-1)*(h-1),
	// perimeter 2*((w-1)+(h-1)).
	if obj.Area != 4851 {
		t.Errorf("Area: got %d, want 4851", obj.Area)
	}
	if obj.Perimeter != 296 {
		t.Errorf("Perimeter: got %g, want 296", obj.Perimeter)
	}
	if obj.BBox.X != 30 || obj.BBox.Y != 30 || obj.BBox.Width != 100 || obj.BBox.Height != 50 {
		t.Errorf("BBox: got %+v, want (30,30,100,50)", obj.BBox)
	}
}

func TestRun_FiltersSmallRegions(t *testing.T) {
	path := writeScene(t, 200, 200, [][4]int{
		{30, 30, 100, 50},
		{150, 150, 10, 10}, // 100px, below the 500px default
	})

	cfg := exactConfig(path, t.TempDir())
	cfg.SaveImages = false
	cfg.WriteLogs = false

	res, err := New().Run(cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.TotalRegions != 2 {
		t.Errorf("TotalRegions: got %d, want 2", res.TotalRegions)
	}
	if len(res.Objects) != 1 {
		t.Errorf("Expected 1 object after filtering, got %d", len(res.Objects))
	}
	if len(res.RejectedReasons) != 1 {
		t.Errorf("Expected 1 rejection reason, got %d", len(res.RejectedReasons))
	}
}

func TestRun_CropTop(t *testing.T) {
	// The object sits at y=50; cropping 20 rows shifts it to y=30.
	path := writeScene(t, 200, 220, [][4]int{{30, 50, 100, 50}})

	cfg := exactConfig(path, t.TempDir())
	cfg.CropTop = 20
	cfg.SaveImages = false
	cfg.WriteLogs = false

	res, err := New().Run(cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.ImageHeight != 200 {
		t.Errorf("ImageHeight after crop: got %d, want 200", res.ImageHeight)
	}
	if len(res.Objects) != 1 {
		t.Fatalf("Expected 1 object, got %d", len(res.Objects))
	}
	if res.Objects[0].BBox.Y != 30 {
		t.Errorf("BBox.Y after crop: got %d, want 30", res.Objects[0].BBox.Y)
	}
}

func TestRun_EmptyScene(t *testing.T) {
	path := writeScene(t, 100, 100, nil)

	cfg := exactConfig(path, t.TempDir())
	cfg.SaveImages = false
	cfg.WriteLogs = false

	res, err := New().Run(cfg)
	if err != nil {
		t.Fatalf("An empty scene is not an error: %v", err)
	}
	if len(res.Objects) != 0 {
		t.Errorf("Expected 0 objects, got %d", len(res.Objects))
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing image path", func(c *Config) { c.ImagePath = "" }},
		{"unknown method", func(c *Config) { c.SegmentationMethod = "watershed" }},
		{"bad connectivity", func(c *Config) { c.Connectivity = 6 }},
		{"negative crop", func(c *Config) { c.CropTop = -5 }},
		{"bad binarization", func(c *Config) { c.Binarization.Method = "magic" }},
		{"bad filter", func(c *Config) { c.Filter.MinArea = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ImagePath = "scene.png"
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected a validation error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Error must wrap ErrInvalidConfig, got %v", err)
			}

			if _, err := New().Run(cfg); err == nil {
				t.Error("Run must refuse an invalid configuration")
			}
		})
	}
}

func TestRun_MissingImage(t *testing.T) {
	cfg := exactConfig(filepath.Join(t.TempDir(), "missing.png"), t.TempDir())
	if _, err := New().Run(cfg); err == nil {
		t.Error("Expected an error for a missing image")
	}
}

func TestRun_ContoursIgnoreConnectivity(t *testing.T) {
	// Connectivity only applies to component labeling; the contour method
	// must not reject it.
	path := writeScene(t, 100, 100, [][4]int{{20, 30, 40, 30}})

	cfg := exactConfig(path, t.TempDir())
	cfg.SegmentationMethod = MethodContours
	cfg.Connectivity = 0
	cfg.SaveImages = false
	cfg.WriteLogs = false

	if _, err := New().Run(cfg); err != nil {
		t.Errorf("Contour method must ignore connectivity, got %v", err)
	}
}

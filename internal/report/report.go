// Package report serializes detection results to text, JSON and CSV logs.
//
// All three formats carry the same records: the text log is for humans,
// the JSON log for downstream tooling and the CSV log for spreadsheet
// analysis. Numeric fields serialize losslessly: areas and dimensions as
// integers, centroids, aspect ratios and orientations as reals.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/virAditya/tabletop-object-detector/internal/features"
)

// Metadata describes the run configuration recorded alongside the objects.
type Metadata struct {
	BinarizationMethod string `json:"binarization_method"`
	SegmentationMethod string `json:"segmentation_method"`
	MinAreaThreshold   int    `json:"min_area_threshold"`
	ImageWidth         int    `json:"image_width"`
	ImageHeight        int    `json:"image_height"`
	PositionFilter     bool   `json:"position_filter"`
	AspectRatioFilter  bool   `json:"aspect_ratio_filter"`
}

// Writer emits detection logs into a single output directory.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates the output directory if needed and returns a Writer
// targeting it.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Writer{dir: dir, now: time.Now}, nil
}

// WriteText writes the human-readable log.txt.
func (w *Writer) WriteText(objects []features.Object) error {
	var b strings.Builder
	rule := strings.Repeat("=", 70)

	b.WriteString(rule + "\n")
	b.WriteString("TABLETOP OBJECT DETECTION ANALYSIS LOG\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Timestamp: %s\n", w.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Total Objects Detected: %d\n", len(objects))
	b.WriteString(rule + "\n\n")

	for _, obj := range objects {
		fmt.Fprintf(&b, "--- Object ID: %d ---\n", obj.ID)
		fmt.Fprintf(&b, "  Centroid (x, y):      (%.2f, %.2f)\n", obj.Centroid.X, obj.Centroid.Y)
		fmt.Fprintf(&b, "  Area (pixels):        %d\n", obj.Area)
		fmt.Fprintf(&b, "  Dimensions (W x H):   %d x %d\n", obj.Width, obj.Height)
		fmt.Fprintf(&b, "  Aspect Ratio:         %.2f\n", obj.AspectRatio)
		fmt.Fprintf(&b, "  Orientation (deg):    %.2f\n", obj.Orientation)
		fmt.Fprintf(&b, "  Bounding Box:         (%d, %d, %d, %d)\n",
			obj.BBox.X, obj.BBox.Y, obj.BBox.Width, obj.BBox.Height)
		b.WriteString("\n")
	}

	b.WriteString(rule + "\n")
	b.WriteString("END OF LOG\n")
	b.WriteString(rule + "\n")

	return w.writeFile("log.txt", []byte(b.String()))
}

// jsonLog is the top-level structure of log.json.
type jsonLog struct {
	Timestamp    string            `json:"timestamp"`
	TotalObjects int               `json:"total_objects"`
	Metadata     *Metadata         `json:"metadata,omitempty"`
	Objects      []features.Object `json:"objects"`
}

// WriteJSON writes the machine-readable log.json.
func (w *Writer) WriteJSON(objects []features.Object, meta *Metadata) error {
	if objects == nil {
		objects = []features.Object{}
	}
	data, err := json.MarshalIndent(jsonLog{
		Timestamp:    w.now().Format(time.RFC3339),
		TotalObjects: len(objects),
		Metadata:     meta,
		Objects:      objects,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode json log: %w", err)
	}
	return w.writeFile("log.json", append(data, '\n'))
}

// WriteCSV writes log.csv, one row per object.
func (w *Writer) WriteCSV(objects []features.Object) error {
	var b strings.Builder
	cw := csv.NewWriter(&b)

	header := []string{
		"ID", "Centroid_X", "Centroid_Y", "Area", "Width", "Height",
		"Aspect_Ratio", "Orientation", "BBox_X", "BBox_Y", "BBox_W", "BBox_H",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, obj := range objects {
		row := []string{
			strconv.Itoa(obj.ID),
			strconv.FormatFloat(obj.Centroid.X, 'f', 2, 64),
			strconv.FormatFloat(obj.Centroid.Y, 'f', 2, 64),
			strconv.Itoa(obj.Area),
			strconv.Itoa(obj.Width),
			strconv.Itoa(obj.Height),
			strconv.FormatFloat(obj.AspectRatio, 'f', 2, 64),
			strconv.FormatFloat(obj.Orientation, 'f', 2, 64),
			strconv.Itoa(obj.BBox.X),
			strconv.Itoa(obj.BBox.Y),
			strconv.Itoa(obj.BBox.Width),
			strconv.Itoa(obj.BBox.Height),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return w.writeFile("log.csv", []byte(b.String()))
}

// WriteAll writes all three log formats.
func (w *Writer) WriteAll(objects []features.Object, meta *Metadata) error {
	if err := w.WriteText(objects); err != nil {
		return err
	}
	if err := w.WriteJSON(objects, meta); err != nil {
		return err
	}
	return w.WriteCSV(objects)
}

func (w *Writer) writeFile(name string, data []byte) error {
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

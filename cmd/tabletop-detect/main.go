package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/virAditya/tabletop-object-detector/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "tabletop-detect",
	Short: "Detect and measure objects in a top-down tabletop photo",
	Long: "Analyzes a single top-down image of a tabletop scene, segments the discrete " +
		"objects on it and reports their geometry: position, size, orientation and shape.",
}

var detectCmd = &cobra.Command{
	Use:   "detect [image-path]",
	Short: "Run the detection pipeline on an image",
	Long: "Binarizes the image, segments foreground regions, filters them and compiles " +
		"per-object geometric features. Writes an annotated image plus text/JSON/CSV logs " +
		"to the output directory and prints the object list as JSON on stdout.",
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tabletop-detect %s (commit %s)\n", Version, GitCommit)
	},
}

var (
	flagOutput       string
	flagMethod       string
	flagBinarize     string
	flagConnectivity int
	flagCropTop      int
	flagMinArea      int
	flagExcludeTop   bool
	flagTopPercent   float64
	flagAspectFilter bool
	flagMinAspect    float64
	flagMaxAspect    float64
	flagNoImages     bool
	flagNoLogs       bool
)

func init() {
	defaults := pipeline.DefaultConfig()

	detectCmd.Flags().StringVarP(&flagOutput, "output", "o", defaults.OutputDir, "output directory for images and logs")
	detectCmd.Flags().StringVar(&flagMethod, "method", defaults.SegmentationMethod, "segmentation method: components or contours")
	detectCmd.Flags().StringVar(&flagBinarize, "binarize", defaults.Binarization.Method, "binarization method: otsu or adaptive")
	detectCmd.Flags().IntVar(&flagConnectivity, "connectivity", defaults.Connectivity, "pixel connectivity for component labeling: 4 or 8")
	detectCmd.Flags().IntVar(&flagCropTop, "crop-top", 0, "rows to crop from the top of the frame before analysis")
	detectCmd.Flags().IntVar(&flagMinArea, "min-area", defaults.Filter.MinArea, "minimum object area in pixels")
	detectCmd.Flags().BoolVar(&flagExcludeTop, "exclude-top", defaults.Filter.ExcludeTop, "reject objects whose centroid lies in the top band")
	detectCmd.Flags().Float64Var(&flagTopPercent, "top-percent", defaults.Filter.TopPercent, "top exclusion band height, percent of image height")
	detectCmd.Flags().BoolVar(&flagAspectFilter, "aspect-filter", defaults.Filter.AspectFilter, "reject objects outside the aspect-ratio band")
	detectCmd.Flags().Float64Var(&flagMinAspect, "min-aspect", defaults.Filter.MinAspect, "aspect-ratio band lower bound")
	detectCmd.Flags().Float64Var(&flagMaxAspect, "max-aspect", defaults.Filter.MaxAspect, "aspect-ratio band upper bound")
	detectCmd.Flags().BoolVar(&flagNoImages, "no-images", false, "skip writing original/binary/annotated images")
	detectCmd.Flags().BoolVar(&flagNoLogs, "no-logs", false, "skip writing text/JSON/CSV logs")

	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(versionCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg := pipeline.DefaultConfig()
	cfg.ImagePath = args[0]
	cfg.OutputDir = flagOutput
	cfg.SegmentationMethod = flagMethod
	cfg.Binarization.Method = flagBinarize
	cfg.Connectivity = flagConnectivity
	cfg.CropTop = flagCropTop
	cfg.Filter.MinArea = flagMinArea
	cfg.Filter.ExcludeTop = flagExcludeTop
	cfg.Filter.TopPercent = flagTopPercent
	cfg.Filter.AspectFilter = flagAspectFilter
	cfg.Filter.MinAspect = flagMinAspect
	cfg.Filter.MaxAspect = flagMaxAspect
	cfg.SaveImages = !flagNoImages
	cfg.WriteLogs = !flagNoLogs

	res, err := pipeline.New().Run(cfg)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	if len(res.Objects) == 0 {
		log.Println("no objects detected")
		log.Println("  - check that the scene has enough contrast")
		log.Println("  - try lowering --min-area")
		log.Println("  - ensure the lighting is even, or try --binarize adaptive")
		fmt.Println("[]")
		return nil
	}

	log.Printf("detected %d objects (%d regions filtered out)", len(res.Objects), len(res.RejectedReasons))
	for i, reason := range res.RejectedReasons {
		// Keep the console readable; the JSON log carries every reason.
		if i == 3 {
			log.Printf("  ... and %d more", len(res.RejectedReasons)-i)
			break
		}
		log.Printf("  %s", reason)
	}
	for _, obj := range res.Objects {
		log.Printf("object %d: centroid=(%.1f, %.1f) area=%dpx angle=%.1f°",
			obj.ID, obj.Centroid.X, obj.Centroid.Y, obj.Area, obj.Orientation)
	}

	out, err := json.MarshalIndent(res.Objects, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	// Diagnostics go to stderr; stdout carries only the JSON result.
	log.SetOutput(os.Stderr)
	log.SetFlags(0)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

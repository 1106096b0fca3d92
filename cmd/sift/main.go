package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	sift "github.com/caomw/SIFT-implementation"
	"github.com/caomw/SIFT-implementation/utils"
)

const HelpBanner = `
┌─┐┬┌─┐┌┬┐
└─┐│├┤  │
└─┘┴└   ┴

Scale invariant feature detection library.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source")
	destination = flag.String("out", pipeName, "Destination")
	octaves     = flag.Int("oct", sift.DefaultOctaves, "Number of pyramid octaves")
	intervals   = flag.Int("int", sift.DefaultIntervals, "Number of intervals per octave")
	contrast    = flag.Float64("contrast", sift.DefaultContrastThreshold, "Contrast rejection threshold")
	curvature   = flag.Float64("curv", sift.DefaultCurvatureThreshold, "Curvature rejection threshold")
	maxSize     = flag.Int("max", 0, "Rescale images larger than this size before detection")
	marker      = flag.String("color", "#fd2f24", "Keypoint marker color")
	features    = flag.String("features", "", "Export the keypoints and descriptors as JSON")
	unoriented  = flag.Bool("unoriented", false, "Keep keypoints without an assigned orientation")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *octaves < 1 || *intervals < 1 {
		flag.Usage()
		log.Fatal(fmt.Sprintf("%s%s",
			utils.DecorateText("\nPlease provide at least one octave and one interval!", utils.ErrorMessage),
			utils.DefaultColor,
		))
	}

	d := &sift.Detector{
		Octaves:            *octaves,
		Intervals:          *intervals,
		ContrastThreshold:  *contrast,
		CurvatureThreshold: *curvature,
		MaxSize:            *maxSize,
		MarkerColor:        *marker,
		KeepUnoriented:     *unoriented,
	}

	d.Execute(&sift.Ops{
		Src:          *source,
		Dst:          *destination,
		PipeName:     pipeName,
		FeaturesPath: *features,
		Workers:      *workers,
	})
}

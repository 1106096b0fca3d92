package sift

import (
	"encoding/json"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/caomw/SIFT-implementation/utils"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
)

// Default pyramid size used when the detector fields are left unset.
const (
	DefaultOctaves   = 4
	DefaultIntervals = 2
)

// Detector options
type Detector struct {
	Octaves            int
	Intervals          int
	ContrastThreshold  float64
	CurvatureThreshold float64
	MaxSize            int
	MarkerColor        string
	Spinner            *utils.Spinner
	KeepUnoriented     bool
}

// Feature is the final output of the pipeline: a keypoint together with its
// descriptor vector. The descriptor is nil only for keypoints retained with
// an unset orientation.
type Feature struct {
	Keypoint
	Descriptor Descriptor `json:"descriptor"`
}

// Detect runs the full pipeline over a normalized grayscale image: Gaussian
// pyramid, DoG pyramid, extrema search, orientation assignment and descriptor
// assembly. Keypoints whose orientation window falls outside their source
// interval are dropped, unless KeepUnoriented retains them with Angle -1 and
// a nil descriptor. A featureless input yields an empty slice and no error.
func (d *Detector) Detect(img *Image) ([]Feature, error) {
	if img.Empty() {
		return nil, ErrEmptyImage
	}
	octaves, intervals := d.Octaves, d.Intervals
	if octaves == 0 {
		octaves = DefaultOctaves
	}
	if intervals == 0 {
		intervals = DefaultIntervals
	}
	contrast, curvature := d.ContrastThreshold, d.CurvatureThreshold
	if contrast == 0 {
		contrast = DefaultContrastThreshold
	}
	if curvature == 0 {
		curvature = DefaultCurvatureThreshold
	}

	pyr, err := BuildGaussianPyramid(img, octaves, intervals)
	if err != nil {
		return nil, errors.Wrap(err, "building the Gaussian pyramid")
	}
	dog, err := BuildDogPyramid(pyr)
	if err != nil {
		return nil, errors.Wrap(err, "building the DoG pyramid")
	}
	keypoints, err := ScaleSpaceExtrema(dog, contrast, curvature)
	if err != nil {
		return nil, errors.Wrap(err, "scanning for extrema")
	}

	oriented := ComputeOrientations(dog, keypoints)
	descriptors := ComputeDescriptors(oriented)

	features := make([]Feature, 0, len(oriented))
	for z, kp := range oriented {
		if kp.Map == nil && !d.KeepUnoriented {
			continue
		}
		features = append(features, Feature{Keypoint: kp.Keypoint, Descriptor: descriptors[z]})
	}
	return features, nil
}

// Process decodes the source image, detects the keypoints and encodes a copy
// of the source annotated with the detected markers into the output writer.
// We are using the io package, since we can provide different input and output
// types, as long as they implement the io.Reader and io.Writer interface.
func (d *Detector) Process(r io.Reader, w io.Writer) error {
	annotated, _, err := d.process(r)
	if err != nil {
		return err
	}
	return encodeImg(w, annotated)
}

// process runs the detection over a decoded source image and returns the
// annotated image together with the detected features.
func (d *Detector) process(r io.Reader) (*image.NRGBA, []Feature, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, nil, err
	}
	img := imgToNRGBA(src)

	// Rescale oversized inputs before detection, preserving the aspect ratio.
	if d.MaxSize > 0 {
		dx, dy := img.Bounds().Dx(), img.Bounds().Dy()
		if dx > d.MaxSize || dy > d.MaxSize {
			if dx >= dy {
				img = imaging.Resize(img, d.MaxSize, 0, imaging.Lanczos)
			} else {
				img = imaging.Resize(img, 0, d.MaxSize, imaging.Lanczos)
			}
		}
	}

	features, err := d.Detect(Normalize(Grayscale(img)))
	if err != nil {
		return nil, nil, err
	}

	return DrawKeypoints(img, features, d.MarkerColor), features, nil
}

// WriteFeatures encodes the detected features as JSON.
func WriteFeatures(w io.Writer, features []Feature) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(features)
}

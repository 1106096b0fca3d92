package sift

import (
	"math"

	"golang.org/x/sync/errgroup"
)

const (
	// imgBorder is the margin around the image edges excluded from the
	// extrema scan, keeping every neighborhood read inside the image.
	imgBorder = 5
	// detThreshold rejects candidates whose Hessian determinant is zero or
	// near singular, before the curvature ratio is formed.
	detThreshold = 1e-12
)

// Default detection thresholds.
const (
	DefaultContrastThreshold  = 0.03
	DefaultCurvatureThreshold = 10.0
)

// Keypoint is a scale space extremum. X and Y are pixel coordinates local to
// the keypoint's octave; multiply by 2^Octave to map back onto the base image.
// Angle is the dominant gradient orientation in degrees and stays -1 until
// the orientation stage assigns it.
type Keypoint struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Octave   int     `json:"octave"`
	Interval int     `json:"interval"`
	Angle    float64 `json:"angle"`
}

// ScaleSpaceExtrema scans the DoG pyramid for strict local extrema and filters
// out low contrast and edge-like candidates. Only the interior intervals of
// every octave are scanned, since the first and last one lack a scale neighbor.
func ScaleSpaceExtrema(dog Pyramid, contrastThr, curvatureThr float64) ([]Keypoint, error) {
	if len(dog) == 0 || len(dog[0]) == 0 {
		return nil, ErrEmptyPyramid
	}

	// Every (octave, interval) slab is scanned independently; the per slab
	// result slots keep the output order deterministic.
	found := make([][][]Keypoint, len(dog))
	g := new(errgroup.Group)

	for i := range dog {
		if len(dog[i]) < 3 {
			continue
		}
		found[i] = make([][]Keypoint, len(dog[i])-1)
		for j := 1; j < len(dog[i])-1; j++ {
			i, j := i, j
			g.Go(func() error {
				var kps []Keypoint
				img := dog[i][j]
				for y := imgBorder; y < img.Height-imgBorder; y++ {
					for x := imgBorder; x < img.Width-imgBorder; x++ {
						if !isExtremum(dog, i, j, x, y) {
							continue
						}
						if !cleanPoint(img, x, y, contrastThr, curvatureThr) {
							continue
						}
						kps = append(kps, Keypoint{X: x, Y: y, Octave: i, Interval: j, Angle: -1})
					}
				}
				found[i][j] = kps
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var keypoints []Keypoint
	for _, oct := range found {
		for _, kps := range oct {
			keypoints = append(keypoints, kps...)
		}
	}
	return keypoints, nil
}

// isExtremum reports whether the pixel value is strictly greater (positive
// center) or strictly smaller (non-positive center) than all of its 26 scale
// space neighbors: the 3x3 spatial window in its own interval and the full
// 3x3 windows in the intervals above and below, the center pixel excepted.
func isExtremum(dog Pyramid, octave, interval, x, y int) bool {
	v := dog[octave][interval].At(x, y)

	if v > 0 {
		for i := -1; i <= 1; i++ {
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if i == 0 && dx == 0 && dy == 0 {
						continue
					}
					if v <= dog[octave][interval+i].At(x+dx, y+dy) {
						return false
					}
				}
			}
		}
	} else {
		for i := -1; i <= 1; i++ {
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if i == 0 && dx == 0 && dy == 0 {
						continue
					}
					if v >= dog[octave][interval+i].At(x+dx, y+dy) {
						return false
					}
				}
			}
		}
	}
	return true
}

// cleanPoint rejects low contrast candidates and edge-like responses. The
// Hessian is estimated with finite differences: fxx along the x axis, fyy
// along the y axis and fxy from the four diagonal neighbors. A determinant
// below detThreshold counts as degenerate geometry and drops the point
// without ever forming the curvature ratio.
func cleanPoint(img *Image, x, y int, contrastThr, curvatureThr float64) bool {
	v := img.At(x, y)
	if math.Abs(v) < contrastThr {
		return false
	}

	fxx := img.At(x-1, y) + img.At(x+1, y) - 2*v
	fyy := img.At(x, y-1) + img.At(x, y+1) - 2*v
	fxy := img.At(x-1, y-1) + img.At(x+1, y+1) - img.At(x-1, y+1) - img.At(x+1, y-1)

	trace := fxx + fyy
	det := fxx*fyy - fxy*fxy

	if det < detThreshold || trace*trace/det > curvatureThr {
		return false
	}
	return true
}

package sift

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// histBorder is the half width of the orientation window; every retained
// keypoint owns a 2*histBorder square gradient map centered on it.
const histBorder = 8

// Orientation histogram layout: 36 bins of 10 degrees.
const (
	orientationBinWidth = 10
	angleRange          = 360
)

// OrientationMap holds the gradient magnitudes and directions of the square
// window around a single keypoint. The map is owned exclusively by the
// keypoint that produced it and is consumed by the descriptor stage.
type OrientationMap struct {
	Size      int
	Magnitude []float64
	Direction []float64 // degrees in [0, 360)
}

// dir returns the gradient direction at the (i, j) window offset, where i
// runs along the x axis and j along the y axis.
func (m *OrientationMap) dir(i, j int) float64 {
	return m.Direction[i*m.Size+j]
}

// OrientedKeypoint pairs a keypoint with its gradient window. Map is nil when
// the window would read outside the source interval image; such keypoints keep
// an unset Angle of -1.
type OrientedKeypoint struct {
	Keypoint
	Map *OrientationMap
}

// ComputeOrientations assigns each keypoint a dominant gradient orientation.
// The stage is a pure transformation: the input keypoints are left untouched
// and a new record carrying the updated angle and the gradient window is
// returned for each of them, in input order.
func ComputeOrientations(dog Pyramid, keypoints []Keypoint) []OrientedKeypoint {
	oriented := make([]OrientedKeypoint, len(keypoints))

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())

	for z := range keypoints {
		z := z
		g.Go(func() error {
			oriented[z] = orientKeypoint(dog[keypoints[z].Octave][keypoints[z].Interval], keypoints[z])
			return nil
		})
	}
	// The workers never fail, the group only bounds the fan-out.
	_ = g.Wait()

	return oriented
}

// orientKeypoint computes the gradient window of a single keypoint and derives
// its dominant orientation from a 36 bin direction histogram. The bin counts
// are plain occurrence counts, the gradient magnitude is not used as a weight.
func orientKeypoint(img *Image, kp Keypoint) OrientedKeypoint {
	if kp.X-histBorder-1 < 0 || kp.X+histBorder+1 > img.Width ||
		kp.Y-histBorder-1 < 0 || kp.Y+histBorder+1 > img.Height {
		return OrientedKeypoint{Keypoint: kp}
	}

	size := histBorder * 2
	m := &OrientationMap{
		Size:      size,
		Magnitude: make([]float64, size*size),
		Direction: make([]float64, size*size),
	}

	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			x := kp.X - histBorder + i
			y := kp.Y - histBorder + j

			diffx := img.At(x+1, y) - img.At(x-1, y)
			diffy := img.At(x, y+1) - img.At(x, y-1)

			m.Magnitude[i*size+j] = math.Sqrt(diffx*diffx + diffy*diffy)
			m.Direction[i*size+j] = rad2deg(math.Atan2(diffy, diffx))
		}
	}

	histogram := buildHistogram(m.Direction, orientationBinWidth, angleRange)
	_, indexMax := histogramMax(histogram)

	kp.Angle = float64(indexMax*orientationBinWidth + orientationBinWidth/2)
	return OrientedKeypoint{Keypoint: kp, Map: m}
}

// buildHistogram counts the given angular values into equal width bins
// spanning [0, maximum) degrees. The counts are kept as float64 throughout
// so that locating the maximum bin never truncates.
func buildHistogram(values []float64, binWidth, maximum int) []float64 {
	histogram := make([]float64, maximum/binWidth)

	for _, v := range values {
		index := int(v) / binWidth
		// Rounding in the radian conversion can land exactly on the upper bound.
		if index >= len(histogram) {
			index = len(histogram) - 1
		}
		histogram[index]++
	}
	return histogram
}

// histogramMax returns the largest bin count and its index; ties resolve to
// the first occurrence in bin order.
func histogramMax(histogram []float64) (maximum float64, indexMax int) {
	maximum = histogram[0]
	for i, v := range histogram {
		if v > maximum {
			maximum = v
			indexMax = i
		}
	}
	return maximum, indexMax
}

// rad2deg converts an angle from radians to degrees in [0, 360), wrapping
// negative angles by a full turn first.
func rad2deg(rad float64) float64 {
	if rad < 0 {
		rad += 2 * math.Pi
	}
	return rad * 360 / (2 * math.Pi)
}

// deg2rad converts an angle from degrees to radians.
func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180
}

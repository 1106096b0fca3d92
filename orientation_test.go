package sift

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// makeRampDog builds a single octave DoG stack whose middle interval holds a
// vertical intensity ramp of the given slope.
func makeRampDog(width, height int, slope float64) Pyramid {
	dog := makeDog(width, height, 3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dog[0][1].Set(x, y, slope*float64(y))
		}
	}
	return dog
}

func TestOrientation_VerticalGradient(t *testing.T) {
	assert := assert.New(t)

	dog := makeRampDog(32, 32, 0.01)
	kps := []Keypoint{{X: 16, Y: 16, Octave: 0, Interval: 1, Angle: -1}}

	oriented := ComputeOrientations(dog, kps)
	assert.Len(oriented, 1)

	res := oriented[0]
	assert.NotNil(res.Map)
	assert.Equal(2*histBorder, res.Map.Size)

	// Every window pixel points straight down the ramp, the histogram
	// maximum lands in the 90-100 degree bin whose center is 95.
	assert.Equal(95.0, res.Angle)
	for _, dir := range res.Map.Direction {
		assert.InDelta(90.0, dir, 1e-9)
	}
	for _, mag := range res.Map.Magnitude {
		assert.InDelta(0.02, mag, 1e-9)
	}
}

func TestOrientation_GradientSignFlips(t *testing.T) {
	assert := assert.New(t)

	dog := makeRampDog(32, 32, -0.01)
	kps := []Keypoint{{X: 16, Y: 16, Octave: 0, Interval: 1, Angle: -1}}

	oriented := ComputeOrientations(dog, kps)
	assert.Equal(275.0, oriented[0].Angle)
}

func TestOrientation_SkipsOutOfWindowKeypoint(t *testing.T) {
	assert := assert.New(t)

	dog := makeRampDog(32, 32, 0.01)
	kps := []Keypoint{{X: 3, Y: 16, Octave: 0, Interval: 1, Angle: -1}}

	oriented := ComputeOrientations(dog, kps)
	assert.Len(oriented, 1)

	// The window would read outside the image: the keypoint is kept but
	// its orientation remains unset.
	assert.Nil(oriented[0].Map)
	assert.Equal(-1.0, oriented[0].Angle)
}

func TestOrientation_InputLeftUntouched(t *testing.T) {
	dog := makeRampDog(32, 32, 0.01)
	kps := []Keypoint{{X: 16, Y: 16, Octave: 0, Interval: 1, Angle: -1}}

	ComputeOrientations(dog, kps)

	if kps[0].Angle != -1 {
		t.Errorf("The input keypoint expected to stay untouched. Got angle %v", kps[0].Angle)
	}
}

func TestBuildHistogram_CountsIntoBins(t *testing.T) {
	assert := assert.New(t)

	values := []float64{5, 15, 15, 355, 359.9999}
	histogram := buildHistogram(values, 10, 360)

	assert.Len(histogram, 36)
	assert.Equal(1.0, histogram[0])
	assert.Equal(2.0, histogram[1])
	assert.Equal(2.0, histogram[35])

	// A value rounded up to the full turn clamps into the last bin.
	histogram = buildHistogram([]float64{360.0}, 10, 360)
	assert.Equal(1.0, histogram[35])
}

func TestHistogramMax_FirstOccurrenceWins(t *testing.T) {
	assert := assert.New(t)

	maximum, index := histogramMax([]float64{1, 4, 2, 4, 0})
	assert.Equal(4.0, maximum)
	assert.Equal(1, index)

	maximum, index = histogramMax([]float64{3})
	assert.Equal(3.0, maximum)
	assert.Equal(0, index)
}

func TestRad2Deg_WrapsNegativeAngles(t *testing.T) {
	assert := assert.New(t)

	assert.InDelta(0.0, rad2deg(0), 1e-9)
	assert.InDelta(90.0, rad2deg(1.5707963267948966), 1e-9)
	assert.InDelta(270.0, rad2deg(-1.5707963267948966), 1e-9)
	assert.InDelta(180.0, rad2deg(3.141592653589793), 1e-9)
}

package sift

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestPyramid_GaussianShape(t *testing.T) {
	assert := assert.New(t)

	base := NewImage(64, 48)
	pyr, err := BuildGaussianPyramid(base, 2, 2)
	assert.NoError(err)

	assert.Len(pyr, 2)
	for i, oct := range pyr {
		// Every octave holds intervals+3 images.
		assert.Len(oct, 5, "octave %d", i)

		for _, img := range oct {
			assert.Equal(64>>i, img.Width)
			assert.Equal(48>>i, img.Height)
		}
	}
}

func TestPyramid_DogShape(t *testing.T) {
	assert := assert.New(t)

	base := NewImage(64, 64)
	pyr, err := BuildGaussianPyramid(base, 2, 1)
	assert.NoError(err)

	dog, err := BuildDogPyramid(pyr)
	assert.NoError(err)

	assert.Len(dog, len(pyr))
	for i, oct := range dog {
		// One fewer interval than the Gaussian octave.
		assert.Len(oct, len(pyr[i])-1)

		for j, img := range oct {
			assert.Equal(pyr[i][j].Width, img.Width)
			assert.Equal(pyr[i][j].Height, img.Height)
		}
	}
}

func TestPyramid_DogSubtractsAdjacentIntervals(t *testing.T) {
	a := NewImage(8, 8)
	b := NewImage(8, 8)
	for i := range a.Pix {
		a.Pix[i] = 0.75
		b.Pix[i] = 0.25
	}

	dog, err := BuildDogPyramid(Pyramid{{a, b}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := dog[0][0].At(3, 3); got != 0.5 {
		t.Errorf("DoG value expected to be interval[j]-interval[j+1] = 0.5. Got %v", got)
	}
}

func TestPyramid_DownSampleDimensions(t *testing.T) {
	img := NewImage(11, 7)
	res := DownSample(img)

	if res.Width != 5 || res.Height != 3 {
		t.Errorf("Downsampled image expected to be 5x3. Got %dx%d", res.Width, res.Height)
	}
}

func TestPyramid_DecimationOrder(t *testing.T) {
	assert := assert.New(t)

	// Encode each coordinate into the sample value so that the surviving
	// pixels identify exactly which columns and rows were kept.
	img := NewImage(8, 6)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			img.Set(x, y, float64(x)+100*float64(y))
		}
	}

	cols := decimateCols(img)
	assert.Equal(4, cols.Width)
	assert.Equal(6, cols.Height)
	for y := 0; y < cols.Height; y++ {
		for x := 0; x < cols.Width; x++ {
			assert.Equal(float64(2*x)+100*float64(y), cols.At(x, y))
		}
	}

	rows := decimateRows(cols)
	assert.Equal(4, rows.Width)
	assert.Equal(3, rows.Height)
	for y := 0; y < rows.Height; y++ {
		for x := 0; x < rows.Width; x++ {
			assert.Equal(float64(2*x)+200*float64(y), rows.At(x, y))
		}
	}
}

func TestPyramid_InvalidArguments(t *testing.T) {
	assert := assert.New(t)

	_, err := BuildGaussianPyramid(nil, 1, 1)
	assert.ErrorIs(err, ErrEmptyImage)

	base := NewImage(64, 64)
	_, err = BuildGaussianPyramid(base, 0, 1)
	assert.Error(err)

	_, err = BuildGaussianPyramid(base, 1, 0)
	assert.Error(err)

	// A 16px image cannot host 4 octaves: the last one would be 2px,
	// smaller than the scan border.
	_, err = BuildGaussianPyramid(NewImage(16, 16), 4, 1)
	assert.True(errors.Is(err, ErrInvalidDimension))

	_, err = BuildDogPyramid(nil)
	assert.ErrorIs(err, ErrEmptyPyramid)

	_, err = BuildDogPyramid(Pyramid{{NewImage(4, 4)}})
	assert.ErrorIs(err, ErrEmptyPyramid)
}

func Benchmark_GaussianPyramid(b *testing.B) {
	base := NewImage(128, 128)
	for y := 0; y < base.Height; y++ {
		for x := 0; x < base.Width; x++ {
			base.Set(x, y, float64((x*7+y*13)%256)/255.0)
		}
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		pyr, err := BuildGaussianPyramid(base, 3, 2)
		if err != nil {
			b.FailNow()
		}
		if _, err := BuildDogPyramid(pyr); err != nil {
			b.FailNow()
		}
	}
}

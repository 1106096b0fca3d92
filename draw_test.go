package sift

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrawKeypoints_MarksScaledPosition(t *testing.T) {
	assert := assert.New(t)

	src := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	features := []Feature{
		{Keypoint: Keypoint{X: 10, Y: 12, Octave: 1, Angle: 95}},
	}

	dst := DrawKeypoints(src, features, "#ff0000")

	// The octave local position maps onto the base image through 2^octave.
	assert.Equal(color.NRGBA{R: 0xff, A: 0xff}, dst.NRGBAAt(20, 24))

	// The source image must stay untouched.
	assert.Equal(color.NRGBA{}, src.NRGBAAt(20, 24))
}

func TestDrawKeypoints_ClipsOutOfBoundsMarkers(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	features := []Feature{
		{Keypoint: Keypoint{X: 15, Y: 15, Octave: 1, Angle: 45}},
	}

	// Must not panic even though the scaled marker lies outside the image.
	DrawKeypoints(src, features, "#00ff00")
}

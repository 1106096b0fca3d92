package sift

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	imgWidth  = 10
	imgHeight = 10
)

func TestImage_SetAtRoundtrip(t *testing.T) {
	img := NewImage(imgWidth, imgHeight)
	img.Set(3, 7, 0.25)

	if got := img.At(3, 7); got != 0.25 {
		t.Errorf("Sample value expected to be 0.25. Got %v", got)
	}
	if got := img.At(7, 3); got != 0 {
		t.Errorf("Transposed coordinate expected to stay 0. Got %v", got)
	}
}

func TestImage_CloneDoesNotAlias(t *testing.T) {
	assert := assert.New(t)

	img := NewImage(imgWidth, imgHeight)
	img.Set(2, 2, 0.5)

	dst := img.Clone()
	dst.Set(2, 2, 0.9)

	assert.Equal(0.5, img.At(2, 2))
	assert.Equal(0.9, dst.At(2, 2))
}

func TestImage_Empty(t *testing.T) {
	assert := assert.New(t)

	var nilImg *Image
	assert.True(nilImg.Empty())
	assert.True(NewImage(0, 0).Empty())
	assert.False(NewImage(1, 1).Empty())
}

func TestImage_Subtract(t *testing.T) {
	a := NewImage(4, 4)
	b := NewImage(4, 4)
	a.Set(1, 1, 0.8)
	b.Set(1, 1, 0.3)
	b.Set(2, 2, 0.4)

	res := subtract(a, b)
	if got := res.At(1, 1); got != 0.5 {
		t.Errorf("Difference expected to be 0.5. Got %v", got)
	}
	if got := res.At(2, 2); got != -0.4 {
		t.Errorf("Difference expected to be -0.4. Got %v", got)
	}
}

func TestImgToNRGBA_TranslatesBounds(t *testing.T) {
	assert := assert.New(t)

	src := image.NewNRGBA(image.Rect(2, 3, 12, 13))
	dst := imgToNRGBA(src)

	assert.Equal(image.Pt(0, 0), dst.Bounds().Min)
	assert.Equal(10, dst.Bounds().Dx())
	assert.Equal(10, dst.Bounds().Dy())
}

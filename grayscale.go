package sift

import (
	"image"

	"github.com/disintegration/imaging"
)

// Grayscale converts the image to a single channel floating point image.
// The luminance weighting is delegated to the imaging package, the red
// channel of its output carries the gray level.
func Grayscale(src image.Image) *Image {
	gray := imaging.Grayscale(imgToNRGBA(src))
	dx, dy := gray.Bounds().Dx(), gray.Bounds().Dy()
	dst := NewImage(dx, dy)

	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			dst.Set(x, y, float64(gray.Pix[y*gray.Stride+x*4])/255.0)
		}
	}
	return dst
}

// Normalize rescales the sample values into the [0, 1] range using the
// min-max rule. A constant valued image maps to all zeros.
func Normalize(src *Image) *Image {
	dst := NewImage(src.Width, src.Height)
	if len(src.Pix) == 0 {
		return dst
	}

	min, max := src.Pix[0], src.Pix[0]
	for _, v := range src.Pix {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max == min {
		return dst
	}

	scale := 1.0 / (max - min)
	for i, v := range src.Pix {
		dst.Pix[i] = (v - min) * scale
	}
	return dst
}

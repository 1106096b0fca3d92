package sift

import "math"

// GaussianBlur applies a separable Gaussian filter of the given standard
// deviation and returns a new image of identical dimensions. The kernel is
// truncated at three standard deviations and renormalized, image borders
// are handled by mirroring. A non-positive sigma returns a plain copy.
//
// The 8-bit blur implementations from the image processing libraries cannot
// be used here, since the pyramid operates on [0, 1] floating point samples
// where the quantization error would leak into the DoG differences.
func GaussianBlur(src *Image, sigma float64) *Image {
	if sigma <= 0 {
		return src.Clone()
	}

	kernel := gaussianKernel(sigma)
	radius := len(kernel) / 2

	// Horizontal pass.
	tmp := NewImage(src.Width, src.Height)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sum += kernel[k+radius] * src.At(mirror(x+k, src.Width), y)
			}
			tmp.Set(x, y, sum)
		}
	}

	// Vertical pass.
	dst := NewImage(src.Width, src.Height)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sum += kernel[k+radius] * tmp.At(x, mirror(y+k, src.Height))
			}
			dst.Set(x, y, sum)
		}
	}
	return dst
}

// gaussianKernel builds a normalized 1D Gaussian kernel of width 2*ceil(3*sigma)+1.
func gaussianKernel(sigma float64) []float64 {
	radius := int(math.Ceil(3 * sigma))
	kernel := make([]float64, 2*radius+1)

	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// mirror reflects an out of range coordinate back into [0, n).
func mirror(i, n int) int {
	if i < 0 {
		i = -i
	}
	if i >= n {
		i = 2*n - i - 2
	}
	if i < 0 || i >= n {
		// Degenerate case of a kernel wider than the image.
		if i < 0 {
			return 0
		}
		return n - 1
	}
	return i
}

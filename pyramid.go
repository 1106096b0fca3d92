package sift

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Scale space constants. The sigma sequence restarts at initSigma at the
// beginning of every octave, it is not accumulated across octaves.
const (
	// initSigma is the blur level of the first interval of every octave.
	initSigma = 1.6
	// stepSigma is the per interval sigma multiplier.
	stepSigma = math.Sqrt2
	// interpolationSigma is the anti-aliasing blur applied before decimation.
	interpolationSigma = 0.5
)

var (
	// ErrInvalidDimension is returned when the image is too small for the
	// configured octave count.
	ErrInvalidDimension = errors.New("image dimensions too small for the requested octaves")
	// ErrEmptyPyramid is returned when a pyramid operation receives no octaves
	// or no intervals.
	ErrEmptyPyramid = errors.New("pyramid has no octaves or intervals")
)

// Pyramid is an ordered sequence of octaves, each octave being an ordered
// sequence of equally sized images with successively increasing blur.
type Pyramid [][]*Image

// BuildGaussianPyramid constructs the Gaussian scale space pyramid of the base
// image. Every octave holds intervals+3 blurred copies of the octave's working
// image; each subsequent octave starts from a decimated copy of the previous
// octave's working image, not from its most blurred interval.
func BuildGaussianPyramid(base *Image, octaves, intervals int) (Pyramid, error) {
	if base.Empty() {
		return nil, ErrEmptyImage
	}
	if octaves < 1 || intervals < 1 {
		return nil, errors.Errorf("invalid pyramid size: %d octaves, %d intervals", octaves, intervals)
	}
	// The smallest octave must retain an interior beyond the scan border.
	minDim := base.Width
	if base.Height < minDim {
		minDim = base.Height
	}
	if minDim>>(octaves-1) <= 2*imgBorder {
		return nil, errors.Wrapf(ErrInvalidDimension,
			"%dx%d image cannot hold %d octaves", base.Width, base.Height, octaves)
	}

	pyr := make(Pyramid, octaves)
	work := base.Clone()

	for i := 0; i < octaves; i++ {
		oct := make([]*Image, intervals+3)

		// The intervals all blur the same working image, which makes them
		// independent of each other and safe to compute concurrently.
		g := new(errgroup.Group)
		for j := range oct {
			j := j
			g.Go(func() error {
				sigma := initSigma * math.Pow(stepSigma, float64(j))
				oct[j] = GaussianBlur(work, sigma)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		pyr[i] = oct
		if i < octaves-1 {
			work = DownSample(work)
		}
	}
	return pyr, nil
}

// BuildDogPyramid derives the difference of Gaussians pyramid by subtracting
// every pair of adjacent intervals. Each octave of the result holds one fewer
// image than its Gaussian counterpart.
func BuildDogPyramid(gauss Pyramid) (Pyramid, error) {
	if len(gauss) == 0 || len(gauss[0]) < 2 {
		return nil, ErrEmptyPyramid
	}

	dog := make(Pyramid, len(gauss))
	for i, oct := range gauss {
		if len(oct) < 2 {
			return nil, errors.Wrapf(ErrEmptyPyramid, "octave %d", i)
		}
		intervals := make([]*Image, len(oct)-1)
		for j := 0; j < len(oct)-1; j++ {
			if oct[j].Width != oct[j+1].Width || oct[j].Height != oct[j+1].Height {
				return nil, errors.Errorf("octave %d intervals %d and %d differ in size", i, j, j+1)
			}
			intervals[j] = subtract(oct[j], oct[j+1])
		}
		dog[i] = intervals
	}
	return dog, nil
}

// DownSample halves the image in each dimension. The image is first blurred
// at the interpolation sigma, then the columns are decimated and the rows of
// that result are decimated in a second, independent pass.
func DownSample(src *Image) *Image {
	return decimateRows(decimateCols(GaussianBlur(src, interpolationSigma)))
}

// decimateCols keeps every second column, halving the width.
func decimateCols(src *Image) *Image {
	dst := NewImage(src.Width/2, src.Height)
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			dst.Set(x, y, src.At(x*2, y))
		}
	}
	return dst
}

// decimateRows keeps every second row, halving the height.
func decimateRows(src *Image) *Image {
	dst := NewImage(src.Width, src.Height/2)
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			dst.Set(x, y, src.At(x, y*2))
		}
	}
	return dst
}

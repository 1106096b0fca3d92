package sift

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/caomw/SIFT-implementation/utils"
)

// markerRadius is the radius of the keypoint marker dot.
const markerRadius = 3

// DrawKeypoints overlays the detected keypoints onto a copy of the source
// image. Every keypoint is mapped back onto the base resolution by scaling
// its octave local coordinates with 2^octave; a dot marks the position and a
// ray of the same scale indicates the assigned orientation. Keypoints with an
// unset orientation are drawn without a ray.
func DrawKeypoints(src *image.NRGBA, features []Feature, hexColor string) *image.NRGBA {
	dst := image.NewNRGBA(src.Bounds())
	draw.Draw(dst, src.Bounds(), src, image.Point{}, draw.Src)

	col := utils.HexToRGBA(hexColor)
	for _, f := range features {
		scale := 1 << f.Octave
		cx, cy := f.X*scale, f.Y*scale

		if f.Angle >= 0 {
			ex := cx + int(math.Round(math.Cos(deg2rad(f.Angle))*float64(scale)))
			ey := cy + int(math.Round(math.Sin(deg2rad(f.Angle))*float64(scale)))
			drawLine(dst, cx, cy, ex, ey, col)
		}
		drawDisc(dst, cx, cy, markerRadius, col)
	}
	return dst
}

// drawDisc fills a circle of the given radius centered at (cx, cy).
func drawDisc(img *image.NRGBA, cx, cy, radius int, col color.NRGBA) {
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius && image.Pt(x, y).In(img.Bounds()) {
				img.SetNRGBA(x, y, col)
			}
		}
	}
}

// drawLine plots a line between two points using the Bresenham walk.
func drawLine(img *image.NRGBA, x0, y0, x1, y1 int, col color.NRGBA) {
	dx := utils.Abs(x1 - x0)
	dy := -utils.Abs(y1 - y0)

	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}

	err := dx + dy
	for {
		if image.Pt(x0, y0).In(img.Bounds()) {
			img.SetNRGBA(x0, y0, col)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

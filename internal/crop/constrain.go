// Package crop holds the crop-rectangle geometry: validity constraints,
// the default centered selection, mapping between original, display and
// screen coordinates, and projection of the selection for drawing.
//
// Everything here is a pure function of its arguments and is safe to call
// from concurrent batch workers.
package crop

import (
	"math"

	"image-cropper/pkg/geometry"
)

// MinSize is the smallest width or height a crop rectangle may have.
const MinSize = 10

// DefaultSize is the side of the default centered selection.
const DefaultSize = 100

// Image is the pixel size of an original image.
type Image struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether both dimensions are positive.
func (im Image) Valid() bool {
	return im.Width > 0 && im.Height > 0
}

// Size returns the image dimensions as a geometry.Size.
func (im Image) Size() geometry.Size {
	return geometry.NewSize(float64(im.Width), float64(im.Height))
}

// Constrain normalizes r so it lies inside img and is at least MinSize on
// each axis. On images smaller than MinSize the minimum wins over the
// bounds. Constrain(Constrain(r)) == Constrain(r).
func Constrain(r geometry.Rect, img Image) geometry.Rect {
	w, h := float64(img.Width), float64(img.Height)

	r.Width = math.Max(MinSize, r.Width)
	r.Height = math.Max(MinSize, r.Height)

	r.X = math.Max(0, r.X)
	r.Y = math.Max(0, r.Y)

	if r.X+r.Width > w {
		r.X = math.Max(0, w-r.Width)
	}
	if r.Y+r.Height > h {
		r.Y = math.Max(0, h-r.Height)
	}

	r.Width = math.Min(r.Width, w-r.X)
	r.Height = math.Min(r.Height, h-r.Y)

	r.Width = math.Max(MinSize, r.Width)
	r.Height = math.Max(MinSize, r.Height)
	return r
}

// DefaultRect returns a size x size selection centered in img, shrunk to
// the image on small images.
func DefaultRect(img Image, size int) geometry.Rect {
	x := max(0, floorDiv(img.Width-size, 2))
	y := max(0, floorDiv(img.Height-size, 2))
	return geometry.NewRect(
		float64(x),
		float64(y),
		float64(min(size, img.Width)),
		float64(min(size, img.Height)),
	)
}

// Finalize is applied when a drag ends.
func Finalize(r geometry.Rect, img Image) geometry.Rect {
	r.Width = math.Max(MinSize, r.Width)
	r.Height = math.Max(MinSize, r.Height)
	return Constrain(r, img)
}

// Nudge moves r by (dx, dy) original pixels and constrains the result.
func Nudge(r geometry.Rect, img Image, dx, dy float64) geometry.Rect {
	return Constrain(r.Translate(geometry.NewPoint2D(dx, dy)), img)
}

// PixelRect constrains r to img and returns it in integer pixels, ready
// for a crop backend.
func PixelRect(r geometry.Rect, img Image) geometry.Rect {
	r = Constrain(r, img)
	return geometry.NewRect(math.Floor(r.X), math.Floor(r.Y), math.Floor(r.Width), math.Floor(r.Height))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

package canvas

import (
	"image"
	"image/color"
	"math"

	"image-cropper/internal/crop"
	"image-cropper/internal/interaction"
	"image-cropper/pkg/geometry"
)

// HandleSize is the drawn size of a resize handle in screen units. The hit
// box is larger.
const HandleSize = 8

var (
	backgroundColor = color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xFF}
	handleBorder    = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// Scene is one frame of the crop view in device pixels.
type Scene struct {
	Source   *image.NRGBA
	ToSource geometry.AffineTransform // device pixel to source pixel
	Crop     image.Rectangle          // selection in device pixels
	HasCrop  bool
	Handle   int // handle square side in device pixels
	Color    color.RGBA
}

// DeviceTransform maps device pixel centers to original pixels. scale is
// device pixels per screen unit and offset is the image origin within the
// widget in screen units.
func DeviceTransform(f crop.Frame, scale float64, offset geometry.Point2D) (geometry.AffineTransform, bool) {
	if !f.Valid() || scale <= 0 {
		return geometry.AffineTransform{}, false
	}
	inv, ok := f.ScreenMatrix().Inverse()
	if !ok {
		return geometry.AffineTransform{}, false
	}
	return inv.
		Compose(geometry.Translation(-offset.X, -offset.Y)).
		Compose(geometry.Scale(1/scale, 1/scale)).
		Compose(geometry.Translation(0.5, 0.5)), true
}

// DeviceRect maps a projected selection into device pixels.
func DeviceRect(r crop.ScreenRect, scale float64, offset geometry.Point2D) image.Rectangle {
	x0 := int(math.Floor((float64(r.Left) + offset.X) * scale))
	y0 := int(math.Floor((float64(r.Top) + offset.Y) * scale))
	x1 := int(math.Floor((float64(r.Left+r.Width) + offset.X) * scale))
	y1 := int(math.Floor((float64(r.Top+r.Height) + offset.Y) * scale))
	return image.Rect(x0, y0, x1, y1)
}

// Render draws the scene into a w x h image: the source resampled through
// ToSource, the area outside the selection dimmed, then the dashed outline
// and handles.
func Render(w, h int, sc Scene) *image.RGBA {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(output.Pix); i += 4 {
		output.Pix[i+0] = backgroundColor.R
		output.Pix[i+1] = backgroundColor.G
		output.Pix[i+2] = backgroundColor.B
		output.Pix[i+3] = backgroundColor.A
	}
	if sc.Source == nil {
		return output
	}

	src := sc.Source
	sb := src.Bounds()
	m := sc.ToSource
	for y := 0; y < h; y++ {
		// Step along the row instead of applying the full transform per pixel.
		p := m.Apply(geometry.NewPoint2D(0, float64(y)))
		for x := 0; x < w; x++ {
			sx := int(math.Floor(p.X)) + sb.Min.X
			sy := int(math.Floor(p.Y)) + sb.Min.Y
			p.X += m.A
			p.Y += m.C
			if sx < sb.Min.X || sx >= sb.Max.X || sy < sb.Min.Y || sy >= sb.Max.Y {
				continue
			}
			si := src.PixOffset(sx, sy)
			di := output.PixOffset(x, y)
			a := uint32(src.Pix[si+3])
			dim := sc.HasCrop && !image.Pt(x, y).In(sc.Crop)
			for c := 0; c < 3; c++ {
				v := (uint32(src.Pix[si+c])*a + uint32(output.Pix[di+c])*(255-a)) / 255
				if dim {
					v /= 2
				}
				output.Pix[di+c] = uint8(v)
			}
		}
	}

	if sc.HasCrop {
		drawDashedRect(output, sc.Crop, sc.Color)
		for _, pt := range handlePoints(sc.Crop) {
			drawHandle(output, pt, sc.Handle, sc.Color)
		}
	}
	return output
}

// handlePoints returns the handle anchors of r in hit-test order.
func handlePoints(r image.Rectangle) []image.Point {
	fr := geometry.NewRect(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	handles := interaction.Handles()
	pts := make([]image.Point, len(handles))
	for i, h := range handles {
		a := h.Anchor(fr)
		pts[i] = image.Pt(int(a.X), int(a.Y))
	}
	return pts
}

func drawDashedRect(output *image.RGBA, r image.Rectangle, col color.RGBA) {
	bounds := output.Bounds()
	set := func(x, y int) {
		if (x+y)%8 < 5 && image.Pt(x, y).In(bounds) {
			output.SetRGBA(x, y, col)
		}
	}
	for x := r.Min.X; x <= r.Max.X; x++ {
		set(x, r.Min.Y)
		set(x, r.Max.Y)
	}
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		set(r.Min.X, y)
		set(r.Max.X, y)
	}
}

func drawHandle(output *image.RGBA, c image.Point, size int, col color.RGBA) {
	if size <= 0 {
		return
	}
	half := size / 2
	box := image.Rect(c.X-half, c.Y-half, c.X-half+size, c.Y-half+size).Intersect(output.Bounds())
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			edge := x == c.X-half || y == c.Y-half || x == c.X-half+size-1 || y == c.Y-half+size-1
			if edge {
				output.SetRGBA(x, y, handleBorder)
			} else {
				output.SetRGBA(x, y, col)
			}
		}
	}
}

package crop

import (
	"math"

	"image-cropper/internal/viewport"
	"image-cropper/pkg/geometry"
)

// ContainerMargin is subtracted from each container dimension before fitting.
const ContainerMargin = 40

// fallbackDisplay is used when fitting produces an empty size.
var fallbackDisplay = geometry.NewSize(300, 200)

// floorSnap absorbs float error so exact pixel boundaries survive a round trip.
const floorSnap = 1e-9

// Frame is everything needed to map between coordinate spaces: the
// original image, its base display size and the viewport on top.
type Frame struct {
	Image    Image
	Display  geometry.Size
	Viewport viewport.Transform
}

// NewFrame creates a Frame with an identity viewport.
func NewFrame(img Image, display geometry.Size) Frame {
	return Frame{Image: img, Display: display, Viewport: viewport.Identity()}
}

// Valid reports whether the frame has geometry to map through.
func (f Frame) Valid() bool {
	return f.Image.Valid() && !f.Display.Empty()
}

func (f Frame) ratio() (sx, sy float64) {
	return f.Display.Width / float64(f.Image.Width), f.Display.Height / float64(f.Image.Height)
}

// OriginalToDisplay maps an original pixel position to base display space.
func (f Frame) OriginalToDisplay(p geometry.Point2D) geometry.Point2D {
	sx, sy := f.ratio()
	return geometry.Point2D{X: p.X * sx, Y: p.Y * sy}
}

// DisplayToOriginal maps a base display position to an original pixel,
// flooring to whole pixels.
func (f Frame) DisplayToOriginal(p geometry.Point2D) geometry.Point2D {
	sx := float64(f.Image.Width) / f.Display.Width
	sy := float64(f.Image.Height) / f.Display.Height
	return geometry.Point2D{
		X: math.Floor(p.X*sx + floorSnap),
		Y: math.Floor(p.Y*sy + floorSnap),
	}
}

// DisplayToScreen applies the viewport to a base display position.
func (f Frame) DisplayToScreen(p geometry.Point2D) geometry.Point2D {
	return f.Viewport.Matrix(f.Display).Apply(p)
}

// ScreenToDisplay undoes the viewport: subtract the origin, divide by the
// scale, add the origin back.
func (f Frame) ScreenToDisplay(p geometry.Point2D) geometry.Point2D {
	vp := f.Viewport.OrIdentity()
	o := vp.Origin(f.Display)
	return geometry.Point2D{
		X: (p.X-o.X)/vp.Scale + o.X - vp.TranslateX,
		Y: (p.Y-o.Y)/vp.Scale + o.Y - vp.TranslateY,
	}
}

// ToScreen maps an original pixel position to screen space.
func (f Frame) ToScreen(p geometry.Point2D) geometry.Point2D {
	return f.DisplayToScreen(f.OriginalToDisplay(p))
}

// ToOriginal maps a screen position to an original pixel.
func (f Frame) ToOriginal(p geometry.Point2D) geometry.Point2D {
	return f.DisplayToOriginal(f.ScreenToDisplay(p))
}

// ScreenMatrix returns the full original-to-screen transform.
func (f Frame) ScreenMatrix() geometry.AffineTransform {
	sx, sy := f.ratio()
	return f.Viewport.Matrix(f.Display).Compose(geometry.Scale(sx, sy))
}

// FitScale returns the scale that fits img inside container less the
// margin, never enlarging past the original size.
func FitScale(img Image, container geometry.Size) float64 {
	if !img.Valid() {
		return 0
	}
	sx := (container.Width - ContainerMargin) / float64(img.Width)
	sy := (container.Height - ContainerMargin) / float64(img.Height)
	return math.Min(math.Min(sx, sy), 1)
}

// DisplaySize returns the base display size of img in container with an
// extra user scale applied on top of the fit. Sizes are whole pixels; an
// empty result falls back to 300x200.
func DisplaySize(img Image, container geometry.Size, userScale float64) geometry.Size {
	s := FitScale(img, container) * userScale
	w := roundHalfUp(float64(img.Width) * s)
	h := roundHalfUp(float64(img.Height) * s)
	if w <= 0 || h <= 0 {
		return fallbackDisplay
	}
	return geometry.NewSize(w, h)
}

// roundHalfUp rounds to the nearest integer with halves going toward +inf.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

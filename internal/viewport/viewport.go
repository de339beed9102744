// Package viewport models the zoom layer applied on top of the base display
// of an image: a scale factor about an origin expressed in percent of the
// display size.
package viewport

import (
	"strconv"

	"image-cropper/pkg/geometry"
)

// Scale limits.
const (
	MinScale = 0.1
	MaxScale = 5.0
)

// Transform is the viewport state. All transitions return a new value.
type Transform struct {
	Scale      float64 `json:"scale"`
	OriginX    float64 `json:"origin_x"` // percent of display width
	OriginY    float64 `json:"origin_y"` // percent of display height
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
}

// Identity returns the untransformed viewport.
func Identity() Transform {
	return Transform{Scale: 1, OriginX: 50, OriginY: 50}
}

// IsZero reports whether t is the uninitialized zero value.
func (t Transform) IsZero() bool {
	return t == Transform{}
}

// OrIdentity returns t, or Identity if t is the zero value.
func (t Transform) OrIdentity() Transform {
	if t.IsZero() {
		return Identity()
	}
	return t
}

// ZoomAtPoint scales by factor keeping the pointer (in display pixels) as
// the zoom origin. When the clamped scale does not change, t is returned
// as is. An axis with a non-positive display size keeps its origin.
func (t Transform) ZoomAtPoint(factor, px, py, displayW, displayH float64) Transform {
	next := clampScale(t.Scale * factor)
	if next == t.Scale {
		return t
	}
	if displayW > 0 {
		t.OriginX = geometry.Clamp(px/displayW*100, 0, 100)
	}
	if displayH > 0 {
		t.OriginY = geometry.Clamp(py/displayH*100, 0, 100)
	}
	t.Scale = next
	return t
}

// ZoomByStep scales by factor about the display center, clearing any translation.
func (t Transform) ZoomByStep(factor float64) Transform {
	return Transform{
		Scale:   clampScale(t.Scale * factor),
		OriginX: 50,
		OriginY: 50,
	}
}

// Reset returns the identity transform.
func (t Transform) Reset() Transform {
	return Identity()
}

// Origin returns the zoom origin in display pixels.
func (t Transform) Origin(display geometry.Size) geometry.Point2D {
	return geometry.Point2D{
		X: t.OriginX / 100 * display.Width,
		Y: t.OriginY / 100 * display.Height,
	}
}

// Matrix returns the display-to-screen transform for the given display size.
func (t Transform) Matrix(display geometry.Size) geometry.AffineTransform {
	t = t.OrIdentity()
	m := geometry.ScaleAbout(t.Origin(display), t.Scale, t.Scale)
	return m.Compose(geometry.Translation(t.TranslateX, t.TranslateY))
}

// Descriptor is a render-ready form of a Transform.
type Descriptor struct {
	Scale          float64
	OriginX        float64
	OriginY        float64
	TranslateX     float64
	TranslateY     float64
	TransformStyle string // "scale(S) translate(Xpx, Ypx)"
	OriginStyle    string // "X% Y%"
}

// Descriptor returns the render descriptor for t.
func (t Transform) Descriptor() Descriptor {
	return Descriptor{
		Scale:      t.Scale,
		OriginX:    t.OriginX,
		OriginY:    t.OriginY,
		TranslateX: t.TranslateX,
		TranslateY: t.TranslateY,
		TransformStyle: "scale(" + formatNumber(t.Scale) + ") translate(" +
			formatNumber(t.TranslateX) + "px, " + formatNumber(t.TranslateY) + "px)",
		OriginStyle: formatNumber(t.OriginX) + "% " + formatNumber(t.OriginY) + "%",
	}
}

// Percent returns the scale as a whole-number percentage for display.
func (t Transform) Percent() int {
	return int(t.Scale*100 + 0.5)
}

func clampScale(s float64) float64 {
	return geometry.Clamp(s, MinScale, MaxScale)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

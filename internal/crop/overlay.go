package crop

import "image-cropper/pkg/geometry"

// ScreenRect is a projected selection in whole screen pixels.
type ScreenRect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ProjectExact maps r from original to screen space without rounding.
// It reports false when there is nothing to draw.
func ProjectExact(f Frame, r geometry.Rect) (geometry.Rect, bool) {
	if !f.Valid() || r.Width <= 0 || r.Height <= 0 {
		return geometry.Rect{}, false
	}
	tl := f.ToScreen(r.TopLeft())
	br := f.ToScreen(r.BottomRight())
	out := geometry.NewRect(tl.X, tl.Y, br.X-tl.X, br.Y-tl.Y)
	if out.Width < 1 || out.Height < 1 {
		return geometry.Rect{}, false
	}
	return out, true
}

// Project maps r to screen space and rounds to whole pixels as the last step.
func Project(f Frame, r geometry.Rect) (ScreenRect, bool) {
	exact, ok := ProjectExact(f, r)
	if !ok {
		return ScreenRect{}, false
	}
	return ScreenRect{
		Left:   int(roundHalfUp(exact.X)),
		Top:    int(roundHalfUp(exact.Y)),
		Width:  int(roundHalfUp(exact.Width)),
		Height: int(roundHalfUp(exact.Height)),
	}, true
}

package interaction

import (
	"image-cropper/internal/crop"
	"image-cropper/pkg/geometry"
)

// Session is one pointer drag, from press to release.
type Session struct {
	Mode   Mode
	Handle Handle
	Anchor geometry.Point2D // press position in original pixels
	Start  geometry.Rect    // selection at press time
}

// Begin classifies the press at screen point p and starts a session.
// It reports false when the frame has no geometry.
func Begin(p geometry.Point2D, rect geometry.Rect, f crop.Frame) (*Session, bool) {
	if !f.Valid() {
		return nil, false
	}
	c := Classify(p, rect, f)
	return &Session{
		Mode:   c.Mode,
		Handle: c.Handle,
		Anchor: f.ToOriginal(p),
		Start:  rect,
	}, true
}

// Update returns the constrained selection for the pointer at screen point
// p. A nil session or a frame without geometry yields false.
func (s *Session) Update(p geometry.Point2D, f crop.Frame) (geometry.Rect, bool) {
	if s == nil || !f.Valid() {
		return geometry.Rect{}, false
	}
	current := f.ToOriginal(p)
	var next geometry.Rect
	switch s.Mode {
	case ModeMove:
		next = MoveRect(s.Start, current.Sub(s.Anchor))
	case ModeResize:
		next = ResizeRect(s.Start, s.Handle, current.Sub(s.Anchor))
	default:
		next = CreateRect(s.Anchor, current)
	}
	return crop.Constrain(next, f.Image), true
}

// End finalizes rect for img. A nil session returns rect unchanged.
func (s *Session) End(rect geometry.Rect, img crop.Image) geometry.Rect {
	if s == nil {
		return rect
	}
	return crop.Finalize(rect, img)
}

// CreateRect spans the two points.
func CreateRect(anchor, current geometry.Point2D) geometry.Rect {
	return geometry.BoundingBox(anchor, current)
}

// MoveRect translates start by delta.
func MoveRect(start geometry.Rect, delta geometry.Point2D) geometry.Rect {
	return start.Translate(delta)
}

// ResizeRect moves the edges owned by h by delta. Each axis is clamped to
// crop.MinSize independently; when clamped the moving edge stops MinSize
// away from the fixed one so the rect never inverts.
func ResizeRect(start geometry.Rect, h Handle, delta geometry.Point2D) geometry.Rect {
	r := start
	switch {
	case h.movesLeft():
		r.X = start.X + delta.X
		r.Width = start.Width - delta.X
		if r.Width < crop.MinSize {
			r.Width = crop.MinSize
			r.X = start.Right() - crop.MinSize
		}
	case h.movesRight():
		r.Width = start.Width + delta.X
		if r.Width < crop.MinSize {
			r.Width = crop.MinSize
		}
	}
	switch {
	case h.movesTop():
		r.Y = start.Y + delta.Y
		r.Height = start.Height - delta.Y
		if r.Height < crop.MinSize {
			r.Height = crop.MinSize
			r.Y = start.Bottom() - crop.MinSize
		}
	case h.movesBottom():
		r.Height = start.Height + delta.Y
		if r.Height < crop.MinSize {
			r.Height = crop.MinSize
		}
	}
	return r
}

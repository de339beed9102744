// Package interaction implements pointer handling for the crop selection:
// hit testing against the selection and its handles, and the drag
// session that turns pointer movement into create, move and resize edits.
//
// Hit testing happens in screen space so handle boxes keep the same
// on-screen size at every zoom level. Drag arithmetic happens in original
// image pixels.
package interaction

import (
	"math"

	"image-cropper/internal/crop"
	"image-cropper/pkg/geometry"
)

// HandleHit is the side of a handle hit box in screen pixels.
const HandleHit = 12

// Mode is what a drag does to the selection.
type Mode int

const (
	ModeCreate Mode = iota
	ModeMove
	ModeResize
)

func (m Mode) String() string {
	switch m {
	case ModeMove:
		return "move"
	case ModeResize:
		return "resize"
	default:
		return "create"
	}
}

// Handle identifies one of the eight resize handles.
type Handle int

const (
	HandleNone Handle = iota
	HandleNW
	HandleNE
	HandleSW
	HandleSE
	HandleN
	HandleS
	HandleW
	HandleE
)

// hitOrder is the order handles are tested in; corners win over edges.
var hitOrder = []Handle{HandleNW, HandleNE, HandleSW, HandleSE, HandleN, HandleS, HandleW, HandleE}

var handleNames = map[Handle]string{
	HandleNW: "nw",
	HandleNE: "ne",
	HandleSW: "sw",
	HandleSE: "se",
	HandleN:  "n",
	HandleS:  "s",
	HandleW:  "w",
	HandleE:  "e",
}

func (h Handle) String() string {
	if name, ok := handleNames[h]; ok {
		return name
	}
	return "none"
}

// Handles returns all handles in hit-test order.
func Handles() []Handle {
	return append([]Handle(nil), hitOrder...)
}

func (h Handle) movesLeft() bool   { return h == HandleNW || h == HandleSW || h == HandleW }
func (h Handle) movesRight() bool  { return h == HandleNE || h == HandleSE || h == HandleE }
func (h Handle) movesTop() bool    { return h == HandleNW || h == HandleNE || h == HandleN }
func (h Handle) movesBottom() bool { return h == HandleSW || h == HandleSE || h == HandleS }

// Anchor returns the point on r the handle sits on.
func (h Handle) Anchor(r geometry.Rect) geometry.Point2D {
	c := r.Center()
	p := c
	switch {
	case h.movesLeft():
		p.X = r.X
	case h.movesRight():
		p.X = r.Right()
	}
	switch {
	case h.movesTop():
		p.Y = r.Y
	case h.movesBottom():
		p.Y = r.Bottom()
	}
	return p
}

// Box returns the hit box of the handle on a screen-space rect.
func (h Handle) Box(screen geometry.Rect) geometry.Rect {
	a := h.Anchor(screen)
	return geometry.NewRect(a.X-HandleHit/2, a.Y-HandleHit/2, HandleHit, HandleHit)
}

// Cursor is a pointer shape hint.
type Cursor string

const (
	CursorCrosshair Cursor = "crosshair"
	CursorMove      Cursor = "move"
	CursorDefault   Cursor = "default"
)

// Cursor returns the resize cursor for the handle, e.g. "nw-resize".
func (h Handle) Cursor() Cursor {
	if h == HandleNone {
		return CursorDefault
	}
	return Cursor(h.String() + "-resize")
}

// Classification is the result of hit testing a pointer position.
type Classification struct {
	Mode   Mode
	Handle Handle
	Cursor Cursor
}

var createZone = Classification{Mode: ModeCreate, Handle: HandleNone, Cursor: CursorCrosshair}

// Classify hit tests a screen point against the selection. Handles are
// checked first, then the body; anything else starts a new selection. A
// selection too small to be drawn has no zones.
func Classify(p geometry.Point2D, rect geometry.Rect, f crop.Frame) Classification {
	screen, ok := crop.ProjectExact(f, rect)
	if !ok {
		return createZone
	}
	for _, h := range hitOrder {
		a := h.Anchor(screen)
		if math.Abs(p.X-a.X) <= HandleHit/2 && math.Abs(p.Y-a.Y) <= HandleHit/2 {
			return Classification{Mode: ModeResize, Handle: h, Cursor: h.Cursor()}
		}
	}
	if screen.Contains(p) {
		return Classification{Mode: ModeMove, Handle: HandleNone, Cursor: CursorMove}
	}
	return createZone
}

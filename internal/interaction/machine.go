package interaction

import (
	"image-cropper/internal/crop"
	"image-cropper/pkg/geometry"
)

// EventKind is a pointer event type.
type EventKind int

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
	PointerLeave
)

func (k EventKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerLeave:
		return "leave"
	default:
		return "unknown"
	}
}

// Event is a pointer event at a screen position.
type Event struct {
	Kind  EventKind
	Point geometry.Point2D
}

// Result is the outcome of feeding one event to a Machine.
type Result struct {
	Rect    geometry.Rect // selection after the event
	Changed bool          // Rect differs from the input selection
	Cursor  Cursor
}

// Machine is the Idle / Dragging state of the selection. The zero value is
// Idle. Step never mutates the receiver.
type Machine struct {
	dragging bool
	session  Session
}

// Dragging reports whether a drag is in progress.
func (m Machine) Dragging() bool {
	return m.dragging
}

// Session returns the active drag, if any.
func (m Machine) Session() (Session, bool) {
	return m.session, m.dragging
}

// Step applies ev to the current selection rect within frame f.
func (m Machine) Step(ev Event, rect geometry.Rect, f crop.Frame) (Machine, Result) {
	res := Result{Rect: rect, Cursor: CursorCrosshair}

	switch ev.Kind {
	case PointerDown:
		if m.dragging {
			res.Cursor = m.dragCursor()
			return m, res
		}
		s, ok := Begin(ev.Point, rect, f)
		if !ok {
			return m, res
		}
		next := Machine{dragging: true, session: *s}
		res.Cursor = next.dragCursor()
		return next, res

	case PointerMove:
		if !m.dragging {
			res.Cursor = Classify(ev.Point, rect, f).Cursor
			return m, res
		}
		res.Cursor = m.dragCursor()
		if r, ok := m.session.Update(ev.Point, f); ok {
			res.Rect = r
			res.Changed = r != rect
		}
		return m, res

	case PointerUp, PointerLeave:
		if !m.dragging {
			// Leave carries no position worth classifying.
			if ev.Kind == PointerLeave {
				res.Cursor = CursorDefault
			} else {
				res.Cursor = Classify(ev.Point, rect, f).Cursor
			}
			return m, res
		}
		res.Rect = m.session.End(rect, f.Image)
		res.Changed = res.Rect != rect
		return Machine{}, res
	}
	return m, res
}

func (m Machine) dragCursor() Cursor {
	switch m.session.Mode {
	case ModeMove:
		return CursorMove
	case ModeResize:
		return m.session.Handle.Cursor()
	default:
		return CursorCrosshair
	}
}

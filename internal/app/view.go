package app

import (
	"image-cropper/internal/crop"
	"image-cropper/internal/interaction"
	"image-cropper/internal/viewport"
	"image-cropper/pkg/geometry"
)

// Zoom factors.
const (
	ButtonZoomFactor = 1.2
	WheelZoomFactor  = 1.1
)

// SetContainerSize records the space available for the image and refits it.
func (s *State) SetContainerSize(size geometry.Size) {
	s.mu.Lock()
	if s.container == size {
		s.mu.Unlock()
		return
	}
	s.container = size
	display := s.recomputeDisplayLocked()
	s.mu.Unlock()

	s.Emit(EventViewportChanged, display)
}

// recomputeDisplayLocked refits the base display; s.mu must be held.
func (s *State) recomputeDisplayLocked() geometry.Size {
	if s.current == nil {
		s.display = geometry.Size{}
		return s.display
	}
	s.display = crop.DisplaySize(s.current.Dimensions(), s.container, s.userScale)
	return s.display
}

// DisplaySize returns the base display size of the shown image.
func (s *State) DisplaySize() geometry.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.display
}

// Viewport returns the current viewport transform.
func (s *State) Viewport() viewport.Transform {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewport
}

// UserScale returns the zoom applied on top of the fit-to-container scale.
func (s *State) UserScale() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userScale
}

// ZoomIn enlarges the base display by one step.
func (s *State) ZoomIn() { s.scaleDisplay(ButtonZoomFactor) }

// ZoomOut shrinks the base display by one step.
func (s *State) ZoomOut() { s.scaleDisplay(1 / ButtonZoomFactor) }

func (s *State) scaleDisplay(factor float64) {
	s.setUserScale(func(cur float64) float64 { return cur * factor })
}

// ResetZoom returns to the fitted display with an identity viewport.
func (s *State) ResetZoom() {
	s.mu.Lock()
	s.viewport = viewport.Identity()
	s.mu.Unlock()
	s.setUserScale(func(float64) float64 { return 1 })
}

// FitToWindow is ResetZoom.
func (s *State) FitToWindow() {
	s.ResetZoom()
}

// ActualSize shows the image at one display pixel per original pixel.
func (s *State) ActualSize() {
	s.mu.Lock()
	s.viewport = viewport.Identity()
	s.mu.Unlock()
	s.setUserScale(func(cur float64) float64 {
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.current == nil {
			return cur
		}
		fit := crop.FitScale(s.current.Dimensions(), s.container)
		if fit <= 0 {
			return cur
		}
		return 1 / fit
	})
}

func (s *State) setUserScale(next func(float64) float64) {
	scale := geometry.Clamp(next(s.UserScale()), viewport.MinScale, viewport.MaxScale)

	s.mu.Lock()
	s.userScale = scale
	display := s.recomputeDisplayLocked()
	s.mu.Unlock()

	s.Emit(EventViewportChanged, display)
}

// ZoomViewport scales the viewport about the display center.
func (s *State) ZoomViewport(factor float64) {
	s.updateViewport(func(vp viewport.Transform, _ geometry.Size) viewport.Transform {
		return vp.ZoomByStep(factor)
	})
}

// WheelZoom zooms the viewport at screen point p. Positive dy zooms in.
func (s *State) WheelZoom(dy float64, p geometry.Point2D) {
	if dy == 0 {
		return
	}
	factor := WheelZoomFactor
	if dy < 0 {
		factor = 1 / WheelZoomFactor
	}
	s.updateViewport(func(vp viewport.Transform, display geometry.Size) viewport.Transform {
		// The pointer is in screen space; the origin is expressed against the
		// untransformed display.
		f := crop.Frame{Display: display, Viewport: vp}
		d := f.ScreenToDisplay(p)
		return vp.ZoomAtPoint(factor, d.X, d.Y, display.Width, display.Height)
	})
}

func (s *State) updateViewport(fn func(viewport.Transform, geometry.Size) viewport.Transform) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	next := fn(s.viewport, s.display)
	changed := next != s.viewport
	s.viewport = next
	s.mu.Unlock()

	if changed {
		s.Emit(EventViewportChanged, next)
	}
}

// Cursor returns the pointer shape for the last pointer position.
func (s *State) Cursor() interaction.Cursor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

// Dragging reports whether a pointer drag is in progress.
func (s *State) Dragging() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.machine.Dragging()
}

// PointerDown starts a drag at screen point p.
func (s *State) PointerDown(p geometry.Point2D) {
	s.step(interaction.Event{Kind: interaction.PointerDown, Point: p})
}

// PointerMove updates a drag, or the hover cursor when idle.
func (s *State) PointerMove(p geometry.Point2D) {
	s.step(interaction.Event{Kind: interaction.PointerMove, Point: p})
}

// PointerUp ends a drag.
func (s *State) PointerUp(p geometry.Point2D) {
	s.step(interaction.Event{Kind: interaction.PointerUp, Point: p})
}

// PointerLeave ends a drag when the pointer leaves the image.
func (s *State) PointerLeave() {
	s.step(interaction.Event{Kind: interaction.PointerLeave})
}

func (s *State) step(ev interaction.Event) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	wasDragging := s.machine.Dragging()
	next, res := s.machine.Step(ev, s.rect, s.frameLocked())
	s.machine = next
	s.rect = res.Rect
	cursorChanged := res.Cursor != s.cursor
	s.cursor = res.Cursor
	finished := wasDragging && !next.Dragging()
	rect := s.rect
	s.mu.Unlock()

	if res.Changed {
		s.Emit(EventCropChanged, rect)
	}
	if cursorChanged {
		s.Emit(EventCursorChanged, res.Cursor)
	}
	if finished {
		s.AddStatus(LevelSuccess, formatRect("Crop area set", rect))
	}
}

// Package canvas provides the crop view: the current image drawn through
// the viewport with the selection overlay, and pointer input routed to the
// application state.
package canvas

import (
	"image"
	"image/color"
	"sync"

	"image-cropper/internal/app"
	cropimage "image-cropper/internal/image"
	"image-cropper/internal/interaction"
	"image-cropper/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/disintegration/imaging"
)

// CropCanvas displays the current image and edits the crop selection.
type CropCanvas struct {
	widget.BaseWidget

	state  *app.State
	raster *fynecanvas.Raster

	mu        sync.Mutex
	source    *cropimage.Source
	pixels    *image.NRGBA
	lastPoint fyne.Position
}

var (
	_ desktop.Mouseable  = (*CropCanvas)(nil)
	_ desktop.Hoverable  = (*CropCanvas)(nil)
	_ desktop.Cursorable = (*CropCanvas)(nil)
	_ fyne.Draggable     = (*CropCanvas)(nil)
	_ fyne.Scrollable    = (*CropCanvas)(nil)
)

// NewCropCanvas creates a canvas bound to state. It redraws on selection,
// viewport and image changes.
func NewCropCanvas(state *app.State) *CropCanvas {
	cc := &CropCanvas{state: state}
	cc.raster = fynecanvas.NewRaster(cc.draw)
	cc.raster.ScaleMode = fynecanvas.ImageScalePixels
	cc.ExtendBaseWidget(cc)

	state.On(app.EventImageSelected, func(data interface{}) {
		src, _ := data.(*cropimage.Source)
		cc.setSource(src)
		cc.Refresh()
	})
	refresh := func(interface{}) { cc.Refresh() }
	state.On(app.EventCropChanged, refresh)
	state.On(app.EventViewportChanged, refresh)
	return cc
}

// setSource decodes src for drawing. The decoded image is cached on the
// Source, and the NRGBA copy is kept for the fast sampling path.
func (cc *CropCanvas) setSource(src *cropimage.Source) {
	var pixels *image.NRGBA
	if src != nil {
		img, err := src.Load()
		if err != nil {
			cc.state.AddStatus(app.LevelError, "Cannot load image: "+err.Error())
			src = nil
		} else {
			pixels = imaging.Clone(img)
		}
	}
	cc.mu.Lock()
	cc.source = src
	cc.pixels = pixels
	cc.mu.Unlock()
}

// Resize records the new size as the image container.
func (cc *CropCanvas) Resize(size fyne.Size) {
	cc.BaseWidget.Resize(size)
	cc.state.SetContainerSize(geometry.NewSize(float64(size.Width), float64(size.Height)))
}

// MinSize keeps room for the fallback display.
func (cc *CropCanvas) MinSize() fyne.Size {
	return fyne.NewSize(200, 150)
}

// Refresh redraws the raster.
func (cc *CropCanvas) Refresh() {
	cc.raster.Refresh()
}

// offset is the top-left of the base display within the widget. The
// display is centered and may overflow on either side.
func (cc *CropCanvas) offset() geometry.Point2D {
	size := cc.Size()
	display := cc.state.DisplaySize()
	return geometry.NewPoint2D(
		(float64(size.Width)-display.Width)/2,
		(float64(size.Height)-display.Height)/2,
	)
}

// toScreen converts a widget position into the image's screen space.
func (cc *CropCanvas) toScreen(pos fyne.Position) geometry.Point2D {
	o := cc.offset()
	return geometry.NewPoint2D(float64(pos.X)-o.X, float64(pos.Y)-o.Y)
}

func (cc *CropCanvas) draw(w, h int) image.Image {
	cc.mu.Lock()
	pixels := cc.pixels
	cc.mu.Unlock()

	size := cc.Size()
	scene := Scene{Color: color.RGBA(app.SelectionColor)}
	if pixels == nil || size.Width <= 0 {
		return Render(w, h, scene)
	}

	scale := float64(w) / float64(size.Width)
	offset := cc.offset()
	m, ok := DeviceTransform(cc.state.Frame(), scale, offset)
	if !ok {
		return Render(w, h, scene)
	}
	scene.Source = pixels
	scene.ToSource = m
	if r, ok := cc.state.Overlay(); ok {
		scene.Crop = DeviceRect(r, scale, offset)
		scene.HasCrop = true
		scene.Handle = int(HandleSize * scale)
	}
	return Render(w, h, scene)
}

// MouseDown starts a drag with the primary button.
func (cc *CropCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	cc.setLast(ev.Position)
	cc.state.PointerDown(cc.toScreen(ev.Position))
}

// MouseUp finishes the drag.
func (cc *CropCanvas) MouseUp(ev *desktop.MouseEvent) {
	cc.setLast(ev.Position)
	cc.state.PointerUp(cc.toScreen(ev.Position))
}

// MouseIn updates the hover cursor.
func (cc *CropCanvas) MouseIn(ev *desktop.MouseEvent) {
	cc.MouseMoved(ev)
}

// MouseMoved feeds hover movement to the state.
func (cc *CropCanvas) MouseMoved(ev *desktop.MouseEvent) {
	cc.setLast(ev.Position)
	cc.state.PointerMove(cc.toScreen(ev.Position))
}

// MouseOut ends any drag in progress.
func (cc *CropCanvas) MouseOut() {
	cc.state.PointerLeave()
}

// Dragged is delivered instead of MouseMoved while a button is held.
func (cc *CropCanvas) Dragged(ev *fyne.DragEvent) {
	cc.setLast(ev.Position)
	cc.state.PointerMove(cc.toScreen(ev.Position))
}

// DragEnd finishes the drag at the last known position. A later MouseUp
// is ignored by the idle state machine.
func (cc *CropCanvas) DragEnd() {
	cc.mu.Lock()
	last := cc.lastPoint
	cc.mu.Unlock()
	cc.state.PointerUp(cc.toScreen(last))
}

// Scrolled zooms the viewport at the pointer.
func (cc *CropCanvas) Scrolled(ev *fyne.ScrollEvent) {
	cc.state.WheelZoom(float64(ev.Scrolled.DY), cc.toScreen(ev.Position))
}

// Cursor implements desktop.Cursorable.
func (cc *CropCanvas) Cursor() desktop.Cursor {
	return DesktopCursor(cc.state.Cursor())
}

func (cc *CropCanvas) setLast(pos fyne.Position) {
	cc.mu.Lock()
	cc.lastPoint = pos
	cc.mu.Unlock()
}

// DesktopCursor maps a pointer shape hint onto the cursors fyne provides.
// fyne has no diagonal resize cursors, so corners use the crosshair.
func DesktopCursor(c interaction.Cursor) desktop.Cursor {
	switch c {
	case interaction.CursorMove:
		return desktop.PointerCursor
	case interaction.HandleN.Cursor(), interaction.HandleS.Cursor():
		return desktop.VResizeCursor
	case interaction.HandleE.Cursor(), interaction.HandleW.Cursor():
		return desktop.HResizeCursor
	case interaction.CursorDefault:
		return desktop.DefaultCursor
	default:
		return desktop.CrosshairCursor
	}
}

// CreateRenderer implements fyne.Widget.
func (cc *CropCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(cc.raster)
}

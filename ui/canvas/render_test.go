package canvas

import (
	"image"
	"image/color"
	"testing"

	"image-cropper/internal/crop"
	"image-cropper/internal/interaction"
	"image-cropper/pkg/geometry"

	"fyne.io/fyne/v2/driver/desktop"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestDeviceTransformHiDPI(t *testing.T) {
	// 200x100 image shown at 100x50, two device pixels per unit, image
	// placed 10 units from the widget edge.
	f := crop.NewFrame(crop.Image{Width: 200, Height: 100}, geometry.NewSize(100, 50))
	m, ok := DeviceTransform(f, 2, geometry.NewPoint2D(10, 10))
	if !ok {
		t.Fatal("transform not invertible")
	}

	tests := []struct {
		device geometry.Point2D
		want   geometry.Point2D
	}{
		{geometry.NewPoint2D(20, 20), geometry.NewPoint2D(0.5, 0.5)},
		{geometry.NewPoint2D(21, 20), geometry.NewPoint2D(1.5, 0.5)},
		{geometry.NewPoint2D(219, 119), geometry.NewPoint2D(199.5, 99.5)},
	}
	for _, tt := range tests {
		got := m.Apply(tt.device)
		if got.Distance(tt.want) > 1e-9 {
			t.Errorf("Apply(%v) = %v, want %v", tt.device, got, tt.want)
		}
	}
}

func TestDeviceTransformInvalidFrame(t *testing.T) {
	if _, ok := DeviceTransform(crop.Frame{}, 1, geometry.Point2D{}); ok {
		t.Error("expected failure for empty frame")
	}
}

func TestDeviceRect(t *testing.T) {
	r := crop.ScreenRect{Left: 5, Top: 10, Width: 20, Height: 30}
	got := DeviceRect(r, 2, geometry.NewPoint2D(1, 1))
	if want := image.Rect(12, 22, 52, 82); got != want {
		t.Errorf("DeviceRect = %v, want %v", got, want)
	}
}

func TestRenderDimsOutsideSelection(t *testing.T) {
	src := solid(10, 10, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	scene := Scene{
		Source:   src,
		ToSource: geometry.Identity().Compose(geometry.Translation(0.5, 0.5)),
		Crop:     image.Rect(2, 2, 8, 8),
		HasCrop:  true,
		Color:    color.RGBA{R: 0, G: 0, B: 255, A: 255},
	}
	out := Render(12, 12, scene)

	if got := out.RGBAAt(5, 5); got != (color.RGBA{R: 200, G: 100, B: 50, A: 255}) {
		t.Errorf("inside = %v", got)
	}
	if got := out.RGBAAt(0, 0); got != (color.RGBA{R: 100, G: 50, B: 25, A: 255}) {
		t.Errorf("outside = %v", got)
	}
	if got := out.RGBAAt(11, 11); got != backgroundColor {
		t.Errorf("beyond image = %v", got)
	}
	// (2,2) is x+y=4, inside a dash.
	if got := out.RGBAAt(2, 2); got != scene.Color {
		t.Errorf("outline = %v", got)
	}
}

func TestRenderWithoutSource(t *testing.T) {
	out := Render(4, 3, Scene{})
	if out.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if got := out.RGBAAt(2, 1); got != backgroundColor {
		t.Errorf("pixel = %v", got)
	}
}

func TestRenderHandles(t *testing.T) {
	scene := Scene{
		Source:   solid(40, 40, color.NRGBA{A: 255}),
		ToSource: geometry.Translation(0.5, 0.5),
		Crop:     image.Rect(10, 10, 30, 30),
		HasCrop:  true,
		Handle:   4,
		Color:    color.RGBA{G: 255, A: 255},
	}
	out := Render(40, 40, scene)
	// Handle square around (10,10) spans 8..11, border white, inside colored.
	if got := out.RGBAAt(8, 8); got != handleBorder {
		t.Errorf("handle border = %v", got)
	}
	if got := out.RGBAAt(9, 9); got != scene.Color {
		t.Errorf("handle fill = %v", got)
	}
	if got := out.RGBAAt(20, 9); got != scene.Color {
		t.Errorf("north handle fill = %v", got)
	}
}

func TestHandlePoints(t *testing.T) {
	got := handlePoints(image.Rect(10, 20, 31, 40))
	want := []image.Point{
		{10, 20}, {31, 20}, {10, 40}, {31, 40}, // nw ne sw se
		{20, 20}, {20, 40}, {10, 30}, {31, 30}, // n s w e
	}
	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDesktopCursor(t *testing.T) {
	tests := []struct {
		in   interaction.Cursor
		want desktop.Cursor
	}{
		{interaction.CursorMove, desktop.PointerCursor},
		{interaction.CursorCrosshair, desktop.CrosshairCursor},
		{interaction.HandleN.Cursor(), desktop.VResizeCursor},
		{interaction.HandleW.Cursor(), desktop.HResizeCursor},
		{interaction.HandleSE.Cursor(), desktop.CrosshairCursor},
		{interaction.CursorDefault, desktop.DefaultCursor},
	}
	for _, tt := range tests {
		if got := DesktopCursor(tt.in); got != tt.want {
			t.Errorf("DesktopCursor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

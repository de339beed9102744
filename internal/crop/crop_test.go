package crop

import (
	"math"
	"testing"

	"image-cropper/internal/viewport"
	"image-cropper/pkg/geometry"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func assertWithin(t *testing.T, r geometry.Rect, img Image) {
	t.Helper()
	if r.Width < MinSize || r.Height < MinSize {
		t.Errorf("%+v smaller than minimum", r)
	}
	if r.X < 0 || r.Y < 0 {
		t.Errorf("%+v has negative origin", r)
	}
	if r.Right() > float64(img.Width) || r.Bottom() > float64(img.Height) {
		t.Errorf("%+v exceeds image %dx%d", r, img.Width, img.Height)
	}
}

func TestDefaultRect(t *testing.T) {
	tests := []struct {
		name string
		img  Image
		size int
		want geometry.Rect
	}{
		{"centered", Image{1000, 800}, 100, geometry.NewRect(450, 350, 100, 100)},
		{"odd remainder floors", Image{101, 101}, 100, geometry.NewRect(0, 0, 100, 100)},
		{"odd larger", Image{1001, 803}, 100, geometry.NewRect(450, 351, 100, 100)},
		{"small image", Image{60, 40}, 100, geometry.NewRect(0, 0, 60, 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultRect(tt.img, tt.size); got != tt.want {
				t.Errorf("DefaultRect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConstrain(t *testing.T) {
	img := Image{1000, 800}
	tests := []struct {
		name string
		in   geometry.Rect
		want geometry.Rect
	}{
		{"overflow right shifts left", geometry.NewRect(950, 0, 100, 100), geometry.NewRect(900, 0, 100, 100)},
		{"negative origin", geometry.NewRect(-20, -5, 50, 50), geometry.NewRect(0, 0, 50, 50)},
		{"too small grows", geometry.NewRect(10, 10, 3, 0), geometry.NewRect(10, 10, 10, 10)},
		{"too big shrinks", geometry.NewRect(0, 0, 5000, 5000), geometry.NewRect(0, 0, 1000, 800)},
		{"overflow bottom", geometry.NewRect(10, 795, 20, 20), geometry.NewRect(10, 780, 20, 20)},
		{"already valid", geometry.NewRect(1, 2, 30, 40), geometry.NewRect(1, 2, 30, 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Constrain(tt.in, img)
			if got != tt.want {
				t.Errorf("Constrain(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
			assertWithin(t, got, img)
		})
	}
}

func TestConstrainIdempotent(t *testing.T) {
	imgs := []Image{{1000, 800}, {10, 10}, {37, 2000}, {4, 3}}
	rects := []geometry.Rect{
		geometry.NewRect(-100, -100, 5, 5),
		geometry.NewRect(990, 790, 100, 100),
		geometry.NewRect(3.5, 7.25, 12.5, 11),
		geometry.NewRect(0, 0, 1e6, 1e6),
		geometry.NewRect(500, 500, -40, 0),
	}
	for _, img := range imgs {
		for _, r := range rects {
			once := Constrain(r, img)
			twice := Constrain(once, img)
			if once != twice {
				t.Errorf("img %v rect %+v: Constrain not idempotent: %+v then %+v", img, r, once, twice)
			}
			if img.Width >= MinSize && img.Height >= MinSize {
				assertWithin(t, once, img)
			}
		}
	}
}

func TestConstrainDegenerateImageKeepsMinimum(t *testing.T) {
	got := Constrain(geometry.NewRect(2, 2, 50, 50), Image{4, 3})
	if got.Width != MinSize || got.Height != MinSize || got.X != 0 || got.Y != 0 {
		t.Errorf("Constrain on 4x3 = %+v, want {0 0 10 10}", got)
	}
}

func TestNudge(t *testing.T) {
	img := Image{200, 200}
	r := geometry.NewRect(185, 0, 10, 10)
	got := Nudge(r, img, 10, -1)
	want := geometry.NewRect(190, 0, 10, 10)
	if got != want {
		t.Errorf("Nudge = %+v, want %+v", got, want)
	}
}

func TestPixelRect(t *testing.T) {
	got := PixelRect(geometry.NewRect(3.7, 4.2, 20.9, 15.5), Image{100, 100})
	want := geometry.NewRect(3, 4, 20, 15)
	if got != want {
		t.Errorf("PixelRect = %+v, want %+v", got, want)
	}
}

func TestMappingRoundTrip(t *testing.T) {
	frames := []Frame{
		NewFrame(Image{1000, 800}, geometry.NewSize(500, 400)),
		NewFrame(Image{3000, 2000}, geometry.NewSize(333, 222)),
		NewFrame(Image{640, 480}, geometry.NewSize(640, 480)),
	}
	for _, f := range frames {
		for _, p := range []geometry.Point2D{{}, {X: 17, Y: 3}, {X: 299, Y: 199}, {X: 639, Y: 479}} {
			if p.X >= float64(f.Image.Width) || p.Y >= float64(f.Image.Height) {
				continue
			}
			d := f.OriginalToDisplay(p)
			back := f.OriginalToDisplay(f.DisplayToOriginal(d))
			if math.Abs(back.X-d.X) > 1 || math.Abs(back.Y-d.Y) > 1 {
				t.Errorf("frame %v: %v -> %v -> %v drifted more than 1px", f.Image, p, d, back)
			}
			if got := f.DisplayToOriginal(d); got != p {
				t.Errorf("frame %v: integer pixel %v mapped back to %v", f.Image, p, got)
			}
		}
	}
}

func TestDisplayToOriginalFloors(t *testing.T) {
	f := NewFrame(Image{1000, 1000}, geometry.NewSize(500, 500))
	got := f.DisplayToOriginal(geometry.NewPoint2D(50.9, 0.4))
	if got.X != 101 || got.Y != 0 {
		t.Errorf("DisplayToOriginal = %v, want (101, 0)", got)
	}
}

func TestViewportMappingIdentity(t *testing.T) {
	f := NewFrame(Image{1000, 800}, geometry.NewSize(500, 400))
	p := geometry.NewPoint2D(123, 77)
	if got, want := f.ToOriginal(p), f.DisplayToOriginal(p); got != want {
		t.Errorf("ToOriginal with identity = %v, want %v", got, want)
	}
	f.Viewport = viewport.Transform{}
	if got, want := f.ToOriginal(p), f.DisplayToOriginal(p); got != want {
		t.Errorf("ToOriginal with zero viewport = %v, want %v", got, want)
	}
}

func TestViewportMappingZoomed(t *testing.T) {
	f := NewFrame(Image{1000, 1000}, geometry.NewSize(500, 500))
	f.Viewport = viewport.Identity().ZoomAtPoint(2, 100, 100, 500, 500)

	// The zoom origin is fixed.
	if got := f.ToOriginal(geometry.NewPoint2D(100, 100)); got != geometry.NewPoint2D(200, 200) {
		t.Errorf("ToOriginal(origin) = %v, want (200, 200)", got)
	}
	// 100 screen px right of the origin is 50 display px, 100 original px.
	if got := f.ToOriginal(geometry.NewPoint2D(200, 100)); got != geometry.NewPoint2D(300, 200) {
		t.Errorf("ToOriginal(200,100) = %v, want (300, 200)", got)
	}

	s := f.ToScreen(geometry.NewPoint2D(300, 200))
	if !approxEqual(s.X, 200, 1e-9) || !approxEqual(s.Y, 100, 1e-9) {
		t.Errorf("ToScreen = %v, want (200, 100)", s)
	}
	m := f.ScreenMatrix().Apply(geometry.NewPoint2D(300, 200))
	if !approxEqual(m.X, s.X, 1e-9) || !approxEqual(m.Y, s.Y, 1e-9) {
		t.Errorf("ScreenMatrix = %v, want %v", m, s)
	}
}

func TestDisplaySize(t *testing.T) {
	tests := []struct {
		name      string
		img       Image
		container geometry.Size
		user      float64
		want      geometry.Size
	}{
		{"fit down", Image{2000, 1000}, geometry.NewSize(1040, 1040), 1, geometry.NewSize(1000, 500)},
		{"never enlarges", Image{200, 100}, geometry.NewSize(1040, 1040), 1, geometry.NewSize(200, 100)},
		{"user scale", Image{200, 100}, geometry.NewSize(1040, 1040), 1.5, geometry.NewSize(300, 150)},
		{"rounds", Image{3, 3}, geometry.NewSize(41.5, 1000), 1, geometry.NewSize(2, 2)},
		{"empty container falls back", Image{200, 100}, geometry.NewSize(10, 10), 1, geometry.NewSize(300, 200)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplaySize(tt.img, tt.container, tt.user); got != tt.want {
				t.Errorf("DisplaySize = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestProject(t *testing.T) {
	f := NewFrame(Image{1000, 800}, geometry.NewSize(500, 400))
	tests := []struct {
		name   string
		frame  Frame
		rect   geometry.Rect
		want   ScreenRect
		wantOK bool
	}{
		{"base scale", f, geometry.NewRect(450, 350, 100, 100), ScreenRect{225, 175, 50, 50}, true},
		{"half rounds up", f, geometry.NewRect(1, 1, 11, 11), ScreenRect{1, 1, 6, 6}, true},
		{"zero width", f, geometry.NewRect(0, 0, 0, 10), ScreenRect{}, false},
		{"no display", NewFrame(Image{1000, 800}, geometry.Size{}), geometry.NewRect(0, 0, 100, 100), ScreenRect{}, false},
		{"no image", NewFrame(Image{}, geometry.NewSize(500, 400)), geometry.NewRect(0, 0, 100, 100), ScreenRect{}, false},
		{"below one pixel", NewFrame(Image{10000, 10000}, geometry.NewSize(50, 50)), geometry.NewRect(0, 0, 100, 100), ScreenRect{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Project(tt.frame, tt.rect)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Project = %+v, %v, want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestProjectZoomed(t *testing.T) {
	f := NewFrame(Image{1000, 1000}, geometry.NewSize(500, 500))
	f.Viewport = viewport.Identity().ZoomByStep(2)
	got, ok := Project(f, geometry.NewRect(400, 400, 200, 200))
	// Display rect (200,200,100,100) scaled 2x about (250,250).
	want := ScreenRect{150, 150, 200, 200}
	if !ok || got != want {
		t.Errorf("Project = %+v, %v, want %+v", got, ok, want)
	}
}

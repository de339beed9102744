package image

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestReadInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	writePNG(t, path, 64, 32)

	src, err := ReadInfo(path)
	if err != nil {
		t.Fatalf("ReadInfo: %v", err)
	}
	if src.Width != 64 || src.Height != 32 || src.Name != "photo.png" || src.Size <= 0 {
		t.Errorf("ReadInfo = %+v", src)
	}
	img, err := src.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Bounds().Dx() != 64 {
		t.Errorf("Load width = %d, want 64", img.Bounds().Dx())
	}
}

func TestReadInfoRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadInfo(path); err == nil {
		t.Error("ReadInfo succeeded on garbage")
	}
	if _, err := ReadInfo(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("ReadInfo succeeded on missing file")
	}
}

func TestFileList(t *testing.T) {
	a := &Source{Path: "/a.png"}
	b := &Source{Path: "/b.png"}
	c := &Source{Path: "/c.png"}

	l := NewFileList()
	if l.Current() != nil || l.Index() != -1 {
		t.Fatal("new list should have no current file")
	}
	l.Set([]*Source{a, b})
	if l.Current() != a || l.Index() != 0 {
		t.Errorf("after Set current = %v", l.Current())
	}
	if n := l.Add([]*Source{b, c}); n != 1 {
		t.Errorf("Add = %d, want 1", n)
	}
	if got := l.Paths(); !reflect.DeepEqual(got, []string{"/a.png", "/b.png", "/c.png"}) {
		t.Errorf("Paths = %v", got)
	}
	if l.Select(2) != c || l.Index() != 2 {
		t.Error("Select(2) failed")
	}
	if l.Select(5) != nil || l.Index() != 2 {
		t.Error("out of range Select changed selection")
	}
	l.Clear()
	if l.Len() != 0 || l.Index() != -1 {
		t.Error("Clear left files behind")
	}
	l.Set(nil)
	if l.Index() != -1 {
		t.Errorf("Set(nil) index = %d", l.Index())
	}
	l.Add([]*Source{a})
	if l.Current() != a {
		t.Error("Add to empty list should select first file")
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 10, 10)
	writePNG(t, filepath.Join(dir, "a.PNG"), 10, 10)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	single := filepath.Join(t.TempDir(), "single.jpg")
	if err := os.WriteFile(single, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ExpandPaths([]string{dir, single})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a.PNG"), filepath.Join(dir, "b.png"), single}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandPaths = %v, want %v", got, want)
	}
	if _, err := ExpandPaths([]string{filepath.Join(dir, "nope")}); err == nil {
		t.Error("ExpandPaths accepted a missing path")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, dir, suffix, want string
	}{
		{"/in/photo.jpg", "/out", "_cropped", "/out/photo_cropped.jpg"},
		{"/in/photo.tar.png", "/out", "_c", "/out/photo.tar_c.png"},
		{"/in/noext", "/out", "_cropped", "/out/noext_cropped"},
		{"/in/photo.jpg", "", "_x", "/in/photo_x.jpg"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.input, tt.dir, tt.suffix); got != filepath.FromSlash(tt.want) {
			t.Errorf("OutputPath(%q, %q, %q) = %q, want %q", tt.input, tt.dir, tt.suffix, got, tt.want)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5 MB"},
		{3 * 1024 * 1024 * 1024 * 1024, "3072 GB"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.in); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsSupportedFormat(t *testing.T) {
	for _, p := range []string{"a.JPG", "b.tif", "c.webp", "d.bmp"} {
		if !IsSupportedFormat(p) {
			t.Errorf("IsSupportedFormat(%q) = false", p)
		}
	}
	if IsSupportedFormat("e.txt") {
		t.Error("txt should not be supported")
	}
}

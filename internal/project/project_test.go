package project

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"image-cropper/pkg/geometry"
)

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	presetPath := filepath.Join(dir, "batch"+Extension)
	images := []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "sub", "b.jpg")}

	p := New("thumbs", geometry.NewRect(10, 20, 300, 200))
	p.Suffix = "_thumb"
	p.SetFiles(presetPath, images)
	if p.Files[0] != "a.png" || p.Files[1] != filepath.Join("sub", "b.jpg") {
		t.Errorf("expected relative paths, got %v", p.Files)
	}
	if err := p.Save(presetPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load(presetPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Name != "thumbs" || got.Rect != p.Rect || got.Suffix != "_thumb" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if paths := got.FilePaths(presetPath); !reflect.DeepEqual(paths, images) {
		t.Errorf("FilePaths = %v, want %v", paths, images)
	}
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future"+Extension)
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected version error")
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none"+Extension)); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

package cli

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"image-cropper/internal/batch"
	"image-cropper/internal/config"
	"image-cropper/internal/project"
	"image-cropper/pkg/geometry"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
}

// resetFlags restores the crop flag variables after a test.
func resetFlags(t *testing.T) {
	t.Cleanup(func() {
		cropRect, cropCenter, cropPreset = "", 0, ""
		cropOutputDir, cropSuffix, cropBackend = "", "", ""
		cropWorkers, cropQuality, cropQuiet = 0, 0, false
	})
}

func TestSetVersion(t *testing.T) {
	oldVersion := version
	defer func() { version = oldVersion }()

	SetVersion("1.2.3")
	if version != "1.2.3" {
		t.Errorf("expected version '1.2.3', got '%s'", version)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "batchcrop" {
		t.Errorf("expected Use 'batchcrop', got '%s'", rootCmd.Use)
	}
	if rootCmd.PersistentFlags().Lookup("config") == nil {
		t.Error("expected persistent flag 'config'")
	}
	for _, name := range []string{"crop", "info", "backends", "config", "version"} {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestCropCommandFlags(t *testing.T) {
	flags := []string{"rect", "center", "preset", "output-dir", "suffix", "backend", "workers", "quality", "quiet"}
	for _, flag := range flags {
		if cropCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected flag '%s' to exist", flag)
		}
	}
}

func TestParseRect(t *testing.T) {
	tests := []struct {
		in      string
		want    geometry.Rect
		wantErr bool
	}{
		{"10,20,300,200", geometry.NewRect(10, 20, 300, 200), false},
		{" 0, 0, 5.5, 6 ", geometry.NewRect(0, 0, 5.5, 6), false},
		{"1,2,3", geometry.Rect{}, true},
		{"a,b,c,d", geometry.Rect{}, true},
		{"0,0,0,10", geometry.Rect{}, true},
		{"0,0,10,-1", geometry.Rect{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseRect(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveCropOptions(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 50, 40)
	writePNG(t, filepath.Join(dir, "b.png"), 50, 40)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.OutputDir = "/cfg/out"

	cropRect = "1,2,30,20"
	cropSuffix = "_x"
	opts, err := resolveCropOptions(cfg, []string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(opts.Job.Files) != 2 {
		t.Errorf("files = %v", opts.Job.Files)
	}
	if opts.Job.Rect != geometry.NewRect(1, 2, 30, 20) {
		t.Errorf("rect = %+v", opts.Job.Rect)
	}
	if opts.Job.Suffix != "_x" || opts.Job.OutputDir != "/cfg/out" {
		t.Errorf("suffix %q dir %q", opts.Job.Suffix, opts.Job.OutputDir)
	}
	if opts.Quality != 95 || opts.Backend != "auto" {
		t.Errorf("quality %d backend %q", opts.Quality, opts.Backend)
	}
}

func TestResolveCropOptionsRequiresRect(t *testing.T) {
	resetFlags(t)
	if _, err := resolveCropOptions(config.DefaultConfig(), []string{t.TempDir()}); err == nil {
		t.Error("expected error without --rect, --center or --preset")
	}
}

func TestResolveCropOptionsFromPreset(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	img := filepath.Join(dir, "scan.png")
	writePNG(t, img, 80, 60)

	presetPath := filepath.Join(dir, "scans"+project.Extension)
	preset := project.New("scans", geometry.NewRect(5, 5, 20, 20))
	preset.Suffix = "_p"
	preset.OutputDir = filepath.Join(dir, "out")
	preset.SetFiles(presetPath, []string{img})
	if err := preset.Save(presetPath); err != nil {
		t.Fatal(err)
	}

	cropPreset = presetPath
	opts, err := resolveCropOptions(config.DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(opts.Job.Files) != 1 || opts.Job.Files[0] != img {
		t.Errorf("files = %v", opts.Job.Files)
	}
	if opts.Job.Rect != geometry.NewRect(5, 5, 20, 20) || opts.Job.Suffix != "_p" {
		t.Errorf("job = %+v", opts.Job)
	}
}

func TestCropFilesWithImaging(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a.png")
	writePNG(t, in, 100, 80)
	out := filepath.Join(dir, "out")

	runner := &batch.Runner{Primary: batch.NewImaging(batch.DefaultOptions()), Workers: 1}
	opts := cropOptions{Job: batch.Job{
		Files:     []string{in},
		Rect:      geometry.NewRect(90, 70, 40, 40),
		OutputDir: out,
		Suffix:    "_c",
	}}
	var buf bytes.Buffer
	results, err := cropFiles(context.Background(), runner, opts, &buf)
	if err != nil {
		t.Fatalf("cropFiles: %v\n%s", err, buf.String())
	}
	if len(results) != 1 || !results[0].OK() {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Rect != image.Rect(60, 40, 100, 80) {
		t.Errorf("clamped rect = %v", results[0].Rect)
	}
	if !strings.Contains(buf.String(), "1 processed, 0 failed") {
		t.Errorf("output:\n%s", buf.String())
	}

	f, err := os.Open(filepath.Join(out, "a_c.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 40 || cfg.Height != 40 {
		t.Errorf("output size = %dx%d", cfg.Width, cfg.Height)
	}
}

func TestCropFilesReportsFailures(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(bad, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	runner := &batch.Runner{Primary: batch.NewImaging(batch.DefaultOptions())}
	opts := cropOptions{Job: batch.Job{Files: []string{bad}, Rect: geometry.NewRect(0, 0, 10, 10)}, Quiet: true}
	var buf bytes.Buffer
	if _, err := cropFiles(context.Background(), runner, opts, &buf); err == nil {
		t.Error("expected error when a file fails")
	}
	if !strings.Contains(buf.String(), "FAILED") {
		t.Errorf("output:\n%s", buf.String())
	}
}

func TestPrintInfo(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 12, 34)
	var buf bytes.Buffer
	if err := printInfo(&buf, []string{dir}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "12x34") || !strings.Contains(buf.String(), "png") {
		t.Errorf("output:\n%s", buf.String())
	}
}

func TestPrintBackends(t *testing.T) {
	var buf bytes.Buffer
	printBackends(&buf, listBackends(batch.DefaultOptions()))
	if !strings.Contains(buf.String(), "imaging") || !strings.Contains(buf.String(), "available") {
		t.Errorf("output:\n%s", buf.String())
	}
}

func TestShowConfig(t *testing.T) {
	loader := config.NewLoaderWithPath(filepath.Join(t.TempDir(), "config.yaml"))
	var buf bytes.Buffer
	if err := showConfig(&buf, loader, config.DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"(defaults)", "suffix: _cropped", config.EnvBackend} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

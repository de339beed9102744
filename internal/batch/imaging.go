package batch

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Imaging crops with the pure Go disintegration/imaging package.
type Imaging struct {
	opts Options
}

// NewImaging creates the imaging backend.
func NewImaging(opts Options) *Imaging {
	return &Imaging{opts: opts}
}

// Name implements Cropper.
func (b *Imaging) Name() string { return "imaging" }

// Available implements Cropper. The backend has no native dependencies.
func (b *Imaging) Available() error { return nil }

// Crop implements Cropper. Output formats imaging cannot encode are
// written as PNG next to the requested path.
func (b *Imaging) Crop(ctx context.Context, input, output string, rect image.Rectangle) (string, error) {
	if err := checkRect(rect); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := imaging.Open(input)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", filepath.Base(input), err)
	}
	out := imaging.Crop(src, rect.Add(src.Bounds().Min))

	if _, err := imaging.FormatFromFilename(output); err != nil {
		output = strings.TrimSuffix(output, filepath.Ext(output)) + ".png"
	}
	if err := imaging.Save(out, output, imaging.JPEGQuality(b.opts.JPEGQuality)); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", filepath.Base(output), err)
	}
	return output, nil
}

// Package opencv is the gocv crop backend. It is kept apart from package
// batch so the batch pipeline builds without OpenCV installed.
package opencv

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"image-cropper/internal/batch"

	"gocv.io/x/gocv"
)

// Name is the backend name used in configuration.
const Name = "opencv"

// Backend crops with gocv.
type Backend struct {
	opts batch.Options
}

// New creates the OpenCV backend.
func New(opts batch.Options) *Backend {
	return &Backend{opts: opts}
}

// Name implements batch.Cropper.
func (b *Backend) Name() string { return Name }

// Available implements batch.Cropper.
func (b *Backend) Available() error {
	if gocv.OpenCVVersion() == "" {
		return errors.New("opencv not linked")
	}
	return nil
}

// Crop implements batch.Cropper.
func (b *Backend) Crop(ctx context.Context, input, output string, rect image.Rectangle) (string, error) {
	if rect.Empty() {
		return "", fmt.Errorf("empty crop rectangle %v", rect)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mat := gocv.IMRead(input, gocv.IMReadUnchanged)
	if mat.Empty() {
		mat.Close()
		return "", fmt.Errorf("failed to read %s", filepath.Base(input))
	}
	defer mat.Close()

	bounds := image.Rect(0, 0, mat.Cols(), mat.Rows())
	if !rect.In(bounds) {
		return "", fmt.Errorf("crop %v outside image %v", rect, bounds)
	}

	region := mat.Region(rect)
	defer region.Close()

	params := []int{int(gocv.IMWriteJpegQuality), b.opts.JPEGQuality}
	if !gocv.IMWriteWithParams(output, region, params) {
		return "", fmt.Errorf("failed to write %s", filepath.Base(output))
	}
	return output, nil
}

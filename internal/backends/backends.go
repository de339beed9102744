// Package backends lists the built-in crop backends in priority order.
package backends

import (
	"image-cropper/internal/batch"
	"image-cropper/internal/batch/opencv"
)

// All returns every built-in backend, most preferred first.
func All(opts batch.Options) []batch.Cropper {
	return []batch.Cropper{opencv.New(opts), batch.NewImaging(opts)}
}

// Runner builds a batch runner for the named backend ("auto" picks the
// best available) with the next available backend as fallback.
func Runner(name string, workers int, opts batch.Options) (*batch.Runner, error) {
	return batch.NewRunner(name, workers, All(opts))
}

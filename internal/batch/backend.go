// Package batch applies one crop rectangle to many image files using a
// pluggable crop backend.
package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"strings"
)

// ErrNoBackend is returned when no crop backend is usable.
var ErrNoBackend = errors.New("no crop backend available")

// BackendAuto selects the first available backend in priority order.
const BackendAuto = "auto"

// Cropper writes the rect region of input to output.
type Cropper interface {
	// Name identifies the backend in results and configuration.
	Name() string
	// Available returns nil if the backend can run on this machine.
	Available() error
	// Crop writes the region and returns the path actually written, which
	// may differ from output when the format is not supported.
	Crop(ctx context.Context, input, output string, rect image.Rectangle) (string, error)
}

// Options are shared encoder settings.
type Options struct {
	JPEGQuality int
}

// DefaultOptions returns the encoder defaults.
func DefaultOptions() Options {
	return Options{JPEGQuality: 95}
}

// SelectBackend picks a backend by name from candidates. BackendAuto (or
// "") returns the first available one.
func SelectBackend(name string, candidates []Cropper) (Cropper, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == BackendAuto {
		for _, c := range candidates {
			if err := c.Available(); err != nil {
				log.Printf("crop backend %s unavailable: %v", c.Name(), err)
				continue
			}
			return c, nil
		}
		return nil, ErrNoBackend
	}
	for _, c := range candidates {
		if c.Name() != name {
			continue
		}
		if err := c.Available(); err != nil {
			return nil, fmt.Errorf("backend %s: %w", name, err)
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown backend %q", name)
}

// FallbackFor returns the first available candidate other than primary, or nil.
func FallbackFor(primary Cropper, candidates []Cropper) Cropper {
	for _, c := range candidates {
		if primary != nil && c.Name() == primary.Name() {
			continue
		}
		if c.Available() == nil {
			return c
		}
	}
	return nil
}

// NewRunner builds a runner for the named backend with the next available
// candidate as fallback.
func NewRunner(name string, workers int, candidates []Cropper) (*Runner, error) {
	primary, err := SelectBackend(name, candidates)
	if err != nil {
		return nil, err
	}
	fallback := FallbackFor(primary, candidates)
	if fallback != nil {
		log.Printf("crop backend: %s (fallback %s)", primary.Name(), fallback.Name())
	} else {
		log.Printf("crop backend: %s", primary.Name())
	}
	return &Runner{Primary: primary, Fallback: fallback, Workers: workers}, nil
}

func checkRect(rect image.Rectangle) error {
	if rect.Empty() {
		return fmt.Errorf("empty crop rectangle %v", rect)
	}
	return nil
}

// Package image provides image file discovery, metadata and loading.
package image

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"image-cropper/internal/crop"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNoImage is returned when an operation needs a current image and there is none.
var ErrNoImage = errors.New("no image selected")

// Source is an image file on disk with its pixel dimensions.
type Source struct {
	Path   string // absolute or caller-relative file path
	Name   string // base name
	Size   int64  // file size in bytes
	Width  int
	Height int

	once sync.Once
	img  image.Image
	err  error
}

// ReadInfo reads the dimensions of the image at path without decoding pixels.
func ReadInfo(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	st, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header %s: %w", filepath.Base(path), err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image %s has no pixels", filepath.Base(path))
	}

	return &Source{
		Path:   path,
		Name:   filepath.Base(path),
		Size:   st.Size(),
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

// Dimensions returns the pixel size for crop geometry.
func (s *Source) Dimensions() crop.Image {
	return crop.Image{Width: s.Width, Height: s.Height}
}

// Load decodes the full image. The result is cached.
func (s *Source) Load() (image.Image, error) {
	s.once.Do(func() {
		s.img, s.err = Load(s.Path)
	})
	return s.img, s.err
}

// Load decodes the image at path.
func Load(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".tif", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// FileFilter returns the extensions for use in file dialogs.
func FileFilter() []string {
	return SupportedFormats()
}

// ExpandPaths replaces directories with the supported image files they
// contain (not recursive, sorted by name) and drops unsupported files.
func ExpandPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !st.IsDir() {
			if IsSupportedFormat(p) {
				out = append(out, p)
			}
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", p, err)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() || !IsSupportedFormat(e.Name()) {
				continue
			}
			found = append(found, filepath.Join(p, e.Name()))
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}

// OutputPath returns dir/<name><suffix><ext> for input. An empty dir
// writes next to the input.
func OutputPath(input, dir, suffix string) string {
	if dir == "" {
		dir = filepath.Dir(input)
	}
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+suffix+ext)
}

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatFileSize renders a byte count with one decimal, e.g. "1.5 KB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	v = math.Round(v*10) / 10
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}

// Package project provides crop preset files: a saved selection, output
// settings and the image list, persisted as JSON.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"image-cropper/pkg/geometry"
)

// Extension is the preset file extension.
const Extension = ".cropproj"

// CurrentVersion is written into new presets.
const CurrentVersion = 1

// File represents a crop preset (.cropproj).
type File struct {
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	// Selection in original pixels of the reference image.
	Rect geometry.Rect `json:"rect"`

	Suffix    string `json:"suffix,omitempty"`
	OutputDir string `json:"output_dir,omitempty"`

	// Image paths (relative to the preset file when possible)
	Files []string `json:"files,omitempty"`
}

// New creates a preset for rect.
func New(name string, rect geometry.Rect) *File {
	now := time.Now()
	return &File{
		Version:  CurrentVersion,
		Name:     name,
		Created:  now,
		Modified: now,
		Rect:     rect,
	}
}

// Load loads a preset from a .cropproj file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("failed to parse preset %s: %w", filepath.Base(path), err)
	}
	if proj.Version > CurrentVersion {
		return nil, fmt.Errorf("preset %s has unsupported version %d", filepath.Base(path), proj.Version)
	}
	return &proj, nil
}

// Save saves the preset to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SetFiles stores image paths relative to the preset at presetPath.
func (p *File) SetFiles(presetPath string, paths []string) {
	p.Files = make([]string, len(paths))
	for i, path := range paths {
		rel, err := filepath.Rel(filepath.Dir(presetPath), path)
		if err != nil {
			p.Files[i] = path
		} else {
			p.Files[i] = rel
		}
	}
	p.Modified = time.Now()
}

// FilePaths returns the image paths resolved against presetPath.
func (p *File) FilePaths(presetPath string) []string {
	out := make([]string, len(p.Files))
	for i, f := range p.Files {
		if filepath.IsAbs(f) {
			out[i] = f
		} else {
			out[i] = filepath.Join(filepath.Dir(presetPath), f)
		}
	}
	return out
}

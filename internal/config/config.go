// Package config manages application configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Environment overrides.
const (
	EnvBackend   = "IMAGECROP_BACKEND"
	EnvOutputDir = "IMAGECROP_OUTPUT_DIR"
)

// Config represents the application configuration.
type Config struct {
	OutputDir       string `yaml:"output_dir"`
	Suffix          string `yaml:"suffix"`
	Backend         string `yaml:"backend"` // auto, opencv or imaging
	Workers         int    `yaml:"workers"` // 0 uses all CPUs
	DefaultCropSize int    `yaml:"default_crop_size"`
	JPEGQuality     int    `yaml:"jpeg_quality"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:       "${HOME}/Pictures/ImageCrop_Output",
		Suffix:          "_cropped",
		Backend:         "auto",
		Workers:         0,
		DefaultCropSize: 100,
		JPEGQuality:     95,
	}
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.DefaultCropSize <= 0 {
		c.DefaultCropSize = def.DefaultCropSize
	}
	if c.JPEGQuality <= 0 || c.JPEGQuality > 100 {
		c.JPEGQuality = def.JPEGQuality
	}
	if c.Workers < 0 {
		c.Workers = 0
	}
}

// applyEnv lets environment variables win over the file.
func (c *Config) applyEnv() {
	c.Backend = GetEnvOrDefault(EnvBackend, c.Backend)
	c.OutputDir = GetEnvOrDefault(EnvOutputDir, c.OutputDir)
}

// ResolvedOutputDir returns OutputDir with ~ and environment variables expanded.
func (c *Config) ResolvedOutputDir() string {
	dir := expandEnvVars(c.OutputDir)
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
		}
	}
	return dir
}

package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"image-cropper/internal/batch"
	"image-cropper/internal/project"
)

// ErrBusy is returned when a batch is already running.
var ErrBusy = errors.New("batch already running")

// BatchCrop crops every listed file with the current selection. Progress
// and per-file outcomes are emitted as events and status messages.
func (s *State) BatchCrop(ctx context.Context, runner *batch.Runner) ([]batch.Result, error) {
	s.mu.Lock()
	if s.processing {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if s.files.Len() == 0 || s.rect.Width <= 0 || s.rect.Height <= 0 {
		s.mu.Unlock()
		return nil, errors.New("nothing to crop")
	}
	s.processing = true
	s.progress = 0
	job := batch.Job{
		Files:     s.files.Paths(),
		Rect:      s.rect,
		OutputDir: s.settings.OutputDir,
		Suffix:    s.settings.Suffix,
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.processing = false
		s.mu.Unlock()
	}()

	s.Emit(EventBatchStarted, job)
	s.AddStatus(LevelInfo, "Starting batch crop...")

	r := *runner
	r.OnProgress = func(p batch.Progress) {
		s.mu.Lock()
		s.progress = p.Percent
		s.mu.Unlock()
		s.Emit(EventBatchProgress, p)
		if runner.OnProgress != nil {
			runner.OnProgress(p)
		}
	}

	results, err := r.Run(ctx, job)
	if err != nil {
		s.AddStatus(LevelError, "Batch processing failed: "+err.Error())
		return nil, err
	}

	for _, res := range results {
		if res.OK() {
			s.AddStatus(LevelSuccess, "Saved: "+res.Output)
		} else {
			s.AddStatus(LevelError, fmt.Sprintf("%s: %v", filepath.Base(res.Input), res.Err))
		}
	}
	ok, failed := batch.Summary(results)
	s.AddStatus(LevelSuccess, fmt.Sprintf("Batch crop complete: %d processed, %d failed", ok, failed))
	s.Emit(EventBatchComplete, results)
	return results, nil
}

// Progress returns the percent complete of the running or last batch.
func (s *State) Progress() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress
}

// SavePreset writes the selection, output settings and file list to path.
func (s *State) SavePreset(path string) error {
	if filepath.Ext(path) == "" {
		path += project.Extension
	}
	s.mu.RLock()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	preset := project.New(name, s.rect)
	preset.Suffix = s.settings.Suffix
	preset.OutputDir = s.settings.OutputDir
	preset.SetFiles(path, s.files.Paths())
	s.mu.RUnlock()

	if err := preset.Save(path); err != nil {
		return fmt.Errorf("failed to save preset: %w", err)
	}
	s.Emit(EventPresetSaved, path)
	s.AddStatus(LevelSuccess, "Preset saved: "+path)
	return nil
}

// LoadPreset restores a preset: its files become the image list and its
// selection is applied to the first image.
func (s *State) LoadPreset(path string) error {
	preset, err := project.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load preset: %w", err)
	}

	settings := s.Settings()
	if preset.Suffix != "" {
		settings.Suffix = preset.Suffix
	}
	if preset.OutputDir != "" {
		settings.OutputDir = preset.OutputDir
	}
	s.SetSettings(settings)

	if files := preset.FilePaths(path); len(files) > 0 {
		if err := s.SetFiles(files); err != nil {
			return err
		}
	}
	if s.Current() != nil && preset.Rect.Width > 0 && preset.Rect.Height > 0 {
		if err := s.SetCropRect(preset.Rect); err != nil {
			return err
		}
	}
	s.Emit(EventPresetLoaded, preset)
	s.AddStatus(LevelInfo, "Preset loaded: "+preset.Name)
	return nil
}

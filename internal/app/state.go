// Package app holds the application state shared by the UI and the batch
// pipeline: the image list, the current selection and viewport, and the
// event bus that keeps views in sync.
package app

import (
	"fmt"
	"log"
	"sync"

	"image-cropper/internal/config"
	"image-cropper/internal/crop"
	cropimage "image-cropper/internal/image"
	"image-cropper/internal/interaction"
	"image-cropper/internal/viewport"
	"image-cropper/pkg/geometry"
)

// Settings are the user-editable output options.
type Settings struct {
	Suffix          string
	OutputDir       string
	DefaultCropSize int
}

// State holds the application state. All methods are safe for concurrent use.
type State struct {
	mu sync.RWMutex

	cfg      *config.Config
	settings Settings

	files   *cropimage.FileList
	current *cropimage.Source

	rect      geometry.Rect
	viewport  viewport.Transform
	container geometry.Size
	display   geometry.Size
	userScale float64

	machine interaction.Machine
	cursor  interaction.Cursor

	processing bool
	progress   int
	messages   []StatusMessage

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventFilesChanged EventType = iota
	EventImageSelected
	EventCropChanged
	EventViewportChanged
	EventCursorChanged
	EventBatchStarted
	EventBatchProgress
	EventBatchComplete
	EventStatus
	EventPresetLoaded
	EventPresetSaved
	EventConfigChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// SettingsFromConfig extracts the output settings from cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	size := cfg.DefaultCropSize
	if size <= 0 {
		size = crop.DefaultSize
	}
	return Settings{
		Suffix:          cfg.Suffix,
		OutputDir:       cfg.ResolvedOutputDir(),
		DefaultCropSize: size,
	}
}

// NewState creates a new application state using cfg for defaults.
func NewState(cfg *config.Config) *State {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &State{
		cfg:       cfg,
		settings:  SettingsFromConfig(cfg),
		files:     cropimage.NewFileList(),
		viewport:  viewport.Identity(),
		userScale: 1,
		cursor:    interaction.CursorCrosshair,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Settings returns the output settings.
func (s *State) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetSettings replaces the output settings.
func (s *State) SetSettings(settings Settings) {
	if settings.DefaultCropSize <= 0 {
		settings.DefaultCropSize = crop.DefaultSize
	}
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
}

// Config returns the configuration the state was created with or last
// reloaded from.
func (s *State) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// ApplyConfig replaces the configuration and resets the output settings
// from it. Runners built after this call use the new backend settings.
func (s *State) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.SetSettings(SettingsFromConfig(cfg))
	s.Emit(EventConfigChanged, cfg)
}

// SetFiles replaces the image list with paths (directories are expanded)
// and shows the first image. Unreadable files are reported and skipped.
func (s *State) SetFiles(paths []string) error {
	sources, err := s.readSources(paths)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.files.Set(sources)
	s.mu.Unlock()

	s.Emit(EventFilesChanged, len(sources))
	s.AddStatus(LevelSuccess, fmt.Sprintf("Loaded %d image files", len(sources)))
	if len(sources) > 0 {
		s.SelectFile(0)
	} else {
		s.clearCurrent()
	}
	return nil
}

// AddFiles appends paths to the image list, skipping duplicates.
func (s *State) AddFiles(paths []string) error {
	sources, err := s.readSources(paths)
	if err != nil {
		return err
	}
	s.mu.Lock()
	hadCurrent := s.current != nil
	added := s.files.Add(sources)
	s.mu.Unlock()

	s.Emit(EventFilesChanged, added)
	s.AddStatus(LevelInfo, fmt.Sprintf("Added %d image files", added))
	if !hadCurrent && added > 0 {
		s.SelectFile(0)
	}
	return nil
}

func (s *State) readSources(paths []string) ([]*cropimage.Source, error) {
	expanded, err := cropimage.ExpandPaths(paths)
	if err != nil {
		return nil, err
	}
	sources := make([]*cropimage.Source, 0, len(expanded))
	for _, p := range expanded {
		src, err := cropimage.ReadInfo(p)
		if err != nil {
			log.Printf("skipping %s: %v", p, err)
			s.AddStatus(LevelError, fmt.Sprintf("Cannot load image: %v", err))
			continue
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// SelectFile shows the image at index i. The viewport and user zoom are
// reset and the selection returns to the centered default.
func (s *State) SelectFile(i int) bool {
	s.mu.Lock()
	src := s.files.Select(i)
	if src == nil {
		s.mu.Unlock()
		return false
	}
	s.current = src
	s.viewport = viewport.Identity()
	s.userScale = 1
	s.machine = interaction.Machine{}
	s.recomputeDisplayLocked()
	s.rect = crop.DefaultRect(src.Dimensions(), s.settings.DefaultCropSize)
	rect := s.rect
	s.mu.Unlock()

	s.Emit(EventImageSelected, src)
	s.Emit(EventViewportChanged, viewport.Identity())
	s.Emit(EventCropChanged, rect)
	s.AddStatus(LevelInfo, "Switched to image: "+src.Name)
	return true
}

// ClearAll empties the image list and the status log.
func (s *State) ClearAll() {
	s.mu.Lock()
	s.files.Clear()
	s.messages = nil
	s.mu.Unlock()

	s.clearCurrent()
	s.Emit(EventFilesChanged, 0)
	s.AddStatus(LevelInfo, "Cleared all files")
}

func (s *State) clearCurrent() {
	s.mu.Lock()
	s.current = nil
	s.rect = geometry.Rect{}
	s.display = geometry.Size{}
	s.viewport = viewport.Identity()
	s.userScale = 1
	s.machine = interaction.Machine{}
	s.mu.Unlock()
	s.Emit(EventImageSelected, (*cropimage.Source)(nil))
}

// Files returns the image list.
func (s *State) Files() []*cropimage.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files.Files()
}

// CurrentIndex returns the index of the shown image, or -1.
func (s *State) CurrentIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return -1
	}
	return s.files.Index()
}

// Current returns the shown image or nil.
func (s *State) Current() *cropimage.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// CropRect returns the selection in original pixels.
func (s *State) CropRect() geometry.Rect {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rect
}

// SetCropRect replaces the selection, constrained to the current image.
func (s *State) SetCropRect(r geometry.Rect) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return cropimage.ErrNoImage
	}
	s.rect = crop.Constrain(r, s.current.Dimensions())
	rect := s.rect
	s.mu.Unlock()

	s.Emit(EventCropChanged, rect)
	return nil
}

// ResetCropToCenter restores the default centered selection.
func (s *State) ResetCropToCenter() {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	s.rect = crop.DefaultRect(s.current.Dimensions(), s.settings.DefaultCropSize)
	rect := s.rect
	s.mu.Unlock()

	s.Emit(EventCropChanged, rect)
	s.AddStatus(LevelInfo, "Crop area reset to image center")
}

// Nudge moves the selection by whole pixels; large moves 10 px per step.
func (s *State) Nudge(dx, dy int, large bool) {
	step := 1
	if large {
		step = 10
	}
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	next := crop.Nudge(s.rect, s.current.Dimensions(), float64(dx*step), float64(dy*step))
	changed := next != s.rect
	s.rect = next
	s.mu.Unlock()

	if changed {
		s.Emit(EventCropChanged, next)
	}
}

// Frame returns the mapping frame for the shown image.
func (s *State) Frame() crop.Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frameLocked()
}

func (s *State) frameLocked() crop.Frame {
	if s.current == nil {
		return crop.Frame{}
	}
	return crop.Frame{Image: s.current.Dimensions(), Display: s.display, Viewport: s.viewport}
}

// Overlay returns the selection projected to screen pixels for drawing.
func (s *State) Overlay() (crop.ScreenRect, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return crop.Project(s.frameLocked(), s.rect)
}

// CanStartCrop reports whether a batch can be started.
func (s *State) CanStartCrop() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files.Len() > 0 && s.rect.Width > 0 && s.rect.Height > 0 && !s.processing
}

// Processing reports whether a batch is running.
func (s *State) Processing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processing
}

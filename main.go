// Package main provides the entry point for the Image Cropper application.
package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"image-cropper/internal/app"
	"image-cropper/internal/backends"
	"image-cropper/internal/batch"
	"image-cropper/internal/config"
	"image-cropper/internal/project"
	"image-cropper/internal/version"
	"image-cropper/ui/mainwindow"
	"image-cropper/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appID = "io.github.image-cropper"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting Image Cropper %s", version.String())

	loader, err := config.NewLoader()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		log.Printf("Failed to load config %s, using defaults: %v", loader.ConfigPath(), err)
		cfg = config.DefaultConfig()
	}

	a := fyneapp.NewWithID(appID)
	a.Settings().SetTheme(&app.CropperTheme{})

	appState := app.NewState(cfg)
	appPrefs := prefs.Load()

	win := mainwindow.New(a, appState, appPrefs, newRunner)

	// Command line arguments are images, folders or a preset.
	if args := os.Args[1:]; len(args) > 0 {
		if len(args) == 1 && filepath.Ext(args[0]) == project.Extension {
			if err := appState.LoadPreset(args[0]); err != nil {
				log.Printf("Failed to load preset %s: %v", args[0], err)
			}
		} else if err := appState.SetFiles(args); err != nil {
			log.Printf("Failed to open %v: %v", args, err)
		}
	}

	watcher := watchConfig(loader, appState)
	defer watcher.Stop()

	win.ShowAndRun()
}

func newRunner(cfg *config.Config) (*batch.Runner, error) {
	return backends.Runner(cfg.Backend, cfg.Workers, batch.Options{JPEGQuality: cfg.JPEGQuality})
}

// watchConfig reapplies the config when the file is edited. Output settings
// change at once, backend settings with the next batch.
func watchConfig(loader *config.Loader, state *app.State) *app.FileWatcher {
	watcher := app.NewFileWatcher(loader.ConfigPath(), 2*time.Second)
	watcher.OnChange(func() {
		cfg, err := loader.Load()
		if err != nil {
			log.Printf("Config reload: %v", err)
			return
		}
		state.ApplyConfig(cfg)
		state.AddStatus(app.LevelInfo, "Configuration reloaded")
	})
	watcher.Start()
	log.Printf("Config reload: watching %s", loader.ConfigPath())
	return watcher
}

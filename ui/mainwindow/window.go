// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"image-cropper/internal/app"
	"image-cropper/internal/batch"
	"image-cropper/internal/config"
	cropimage "image-cropper/internal/image"
	"image-cropper/internal/project"
	"image-cropper/internal/version"
	"image-cropper/ui/canvas"
	"image-cropper/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const appTitle = "Image Cropper"

// RunnerFactory builds the batch runner when a crop starts.
type RunnerFactory func(cfg *config.Config) (*batch.Runner, error)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	newRunner RunnerFactory

	canvas    *canvas.CropCanvas
	fileList  *widget.List
	infoLabel *widget.Label
	zoomLabel *widget.Label
	cropLabel *widget.Label
	progress  *widget.ProgressBar
	statusLog *widget.List
	suffix    *widget.Entry
	outputDir *widget.Entry
	startBtn  *widget.Button

	keys keyState
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs, newRunner RunnerFactory) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,

		newRunner: newRunner,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.setupKeys()

	win.Resize(fyne.NewSize(
		float32(p.FloatWithFallback(prefs.KeyWindowWidth, 1200)),
		float32(p.FloatWithFallback(prefs.KeyWindowHeight, 800)),
	))
	win.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		paths := make([]string, 0, len(uris))
		for _, u := range uris {
			paths = append(paths, u.Path())
		}
		mw.addFiles(paths)
	})
	win.SetOnClosed(mw.SavePreferences)
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewCropCanvas(mw.state)

	mw.infoLabel = widget.NewLabel("No image loaded")
	mw.zoomLabel = widget.NewLabel("100%")
	mw.cropLabel = widget.NewLabel("")
	mw.progress = widget.NewProgressBar()

	mw.fileList = widget.NewList(
		func() int { return len(mw.state.Files()) },
		func() fyne.CanvasObject { return widget.NewLabel("template.png") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			files := mw.state.Files()
			if id < 0 || id >= len(files) {
				return
			}
			f := files[id]
			obj.(*widget.Label).SetText(fmt.Sprintf("%s (%s)", f.Name, cropimage.FormatFileSize(f.Size)))
		},
	)
	mw.fileList.OnSelected = func(id widget.ListItemID) {
		if id != mw.state.CurrentIndex() {
			mw.state.SelectFile(id)
		}
	}

	mw.statusLog = widget.NewList(
		func() int { return len(mw.state.Messages()) },
		func() fyne.CanvasObject { return widget.NewLabel("00:00:00 status") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			msgs := mw.state.Messages()
			if id < 0 || id >= len(msgs) {
				return
			}
			label := obj.(*widget.Label)
			label.SetText(msgs[id].String())
			switch msgs[id].Level {
			case app.LevelError:
				label.Importance = widget.DangerImportance
			case app.LevelSuccess:
				label.Importance = widget.SuccessImportance
			default:
				label.Importance = widget.MediumImportance
			}
			label.Refresh()
		},
	)

	settings := mw.state.Settings()
	mw.suffix = widget.NewEntry()
	mw.suffix.SetText(settings.Suffix)
	mw.suffix.OnChanged = func(s string) {
		cur := mw.state.Settings()
		cur.Suffix = s
		mw.state.SetSettings(cur)
	}
	mw.outputDir = widget.NewEntry()
	mw.outputDir.SetText(settings.OutputDir)
	mw.outputDir.OnChanged = func(s string) {
		cur := mw.state.Settings()
		cur.OutputDir = s
		mw.state.SetSettings(cur)
	}
	browseBtn := widget.NewButton("...", mw.onChooseOutputDir)

	mw.startBtn = widget.NewButton("Start Crop", mw.onStartCrop)
	mw.startBtn.Importance = widget.HighImportance
	mw.startBtn.Disable()

	form := widget.NewForm(
		widget.NewFormItem("Suffix", mw.suffix),
		widget.NewFormItem("Output", container.NewBorder(nil, nil, nil, browseBtn, mw.outputDir)),
	)
	side := container.NewBorder(
		container.NewVBox(widget.NewLabelWithStyle("Files", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), mw.infoLabel),
		container.NewVBox(form, mw.cropLabel, mw.startBtn, mw.progress),
		nil, nil,
		mw.fileList,
	)

	canvasArea := container.NewBorder(mw.createToolbar(), nil, nil, nil, mw.canvas)

	split := container.NewHSplit(side, canvasArea)
	split.SetOffset(0.25)

	statusArea := container.NewGridWrap(fyne.NewSize(1200, 120), mw.statusLog)
	content := container.NewBorder(nil, statusArea, nil, nil, split)
	mw.SetContent(content)
}

// createToolbar creates the toolbar with file and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	return container.NewHBox(
		widget.NewButton("Open...", mw.onOpenFiles),
		widget.NewButton("Folder...", mw.onOpenFolder),
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", mw.state.ZoomOut),
		widget.NewButton("+", mw.state.ZoomIn),
		widget.NewButton("Fit", mw.state.FitToWindow),
		widget.NewButton("1:1", mw.state.ActualSize),
		mw.zoomLabel,
		widget.NewSeparator(),
		widget.NewButton("Reset Crop", mw.state.ResetCropToCenter),
		widget.NewButton("Clear", mw.state.ClearAll),
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Images...", mw.onOpenFiles),
		fyne.NewMenuItem("Open Folder...", mw.onOpenFolder),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Load Preset...", mw.onLoadPreset),
		fyne.NewMenuItem("Save Preset As...", mw.onSavePreset),
		mw.recentPresetsItem(),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Start Crop", mw.onStartCrop),
		fyne.NewMenuItem("Clear All", mw.state.ClearAll),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.state.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.state.ZoomOut),
		fyne.NewMenuItem("Fit to Window", mw.state.FitToWindow),
		fyne.NewMenuItem("Actual Size", mw.state.ActualSize),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Magnify", func() { mw.state.ZoomViewport(app.ButtonZoomFactor) }),
		fyne.NewMenuItem("Reduce", func() { mw.state.ZoomViewport(1 / app.ButtonZoomFactor) }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

func (mw *MainWindow) recentPresetsItem() *fyne.MenuItem {
	item := fyne.NewMenuItem("Recent Presets", nil)
	var children []*fyne.MenuItem
	for _, path := range mw.prefs.Strings(prefs.KeyRecentPresets) {
		path := path
		children = append(children, fyne.NewMenuItem(filepath.Base(path), func() { mw.loadPreset(path) }))
	}
	if len(children) == 0 {
		item.Disabled = true
		return item
	}
	item.ChildMenu = fyne.NewMenu("", children...)
	return item
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventFilesChanged, func(interface{}) {
		mw.fileList.Refresh()
		mw.updateControls()
	})

	mw.state.On(app.EventImageSelected, func(data interface{}) {
		src, _ := data.(*cropimage.Source)
		if src == nil {
			mw.fileList.UnselectAll()
			mw.infoLabel.SetText("No image loaded")
			mw.SetTitle(appTitle)
			mw.updateControls()
			return
		}
		mw.fileList.Select(mw.state.CurrentIndex())
		mw.infoLabel.SetText(fmt.Sprintf("%s\n%d × %d px, %s", src.Name, src.Width, src.Height, cropimage.FormatFileSize(src.Size)))
		mw.SetTitle(appTitle + " - " + src.Name)
		mw.updateControls()
	})

	mw.state.On(app.EventCropChanged, func(interface{}) {
		mw.updateControls()
	})

	mw.state.On(app.EventViewportChanged, func(interface{}) {
		percent := int(mw.state.UserScale()*mw.state.Viewport().Scale*100 + 0.5)
		mw.zoomLabel.SetText(fmt.Sprintf("%d%%", percent))
	})

	mw.state.On(app.EventCursorChanged, func(interface{}) {
		mw.canvas.Refresh()
	})

	mw.state.On(app.EventStatus, func(interface{}) {
		mw.statusLog.Refresh()
	})

	mw.state.On(app.EventBatchStarted, func(interface{}) {
		mw.progress.SetValue(0)
		mw.updateControls()
	})

	mw.state.On(app.EventBatchProgress, func(data interface{}) {
		if p, ok := data.(batch.Progress); ok {
			mw.progress.SetValue(float64(p.Percent) / 100)
		}
	})

	mw.state.On(app.EventBatchComplete, func(interface{}) {
		mw.progress.SetValue(1)
		mw.updateControls()
	})

	syncSettings := func(interface{}) {
		settings := mw.state.Settings()
		mw.suffix.SetText(settings.Suffix)
		mw.outputDir.SetText(settings.OutputDir)
	}
	mw.state.On(app.EventPresetLoaded, syncSettings)
	mw.state.On(app.EventConfigChanged, syncSettings)
}

// updateControls syncs the crop readout and the start button.
func (mw *MainWindow) updateControls() {
	if mw.state.Current() != nil {
		r := mw.state.CropRect()
		mw.cropLabel.SetText(fmt.Sprintf("Crop: %g, %g  %g × %g", r.X, r.Y, r.Width, r.Height))
	} else {
		mw.cropLabel.SetText("")
	}
	if mw.state.CanStartCrop() {
		mw.startBtn.Enable()
	} else {
		mw.startBtn.Disable()
	}
}

// SavePreferences writes the window size to disk.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	if err := mw.prefs.Save(); err != nil {
		log.Printf("failed to save preferences: %v", err)
	}
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) saveLastDir(dir string) {
	mw.prefs.SetString(prefs.KeyLastDir, dir)
}

func (mw *MainWindow) addFiles(paths []string) {
	if len(paths) == 0 {
		return
	}
	if err := mw.state.AddFiles(paths); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

// Action handlers

func (mw *MainWindow) onOpenFiles() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(filepath.Dir(path))
		mw.addFiles([]string{path})
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(cropimage.FileFilter()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenFolder() {
	fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		mw.saveLastDir(uri.Path())
		mw.addFiles([]string{uri.Path()})
	}, mw.Window)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onChooseOutputDir() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		mw.outputDir.SetText(uri.Path())
	}, mw.Window)
}

func (mw *MainWindow) onLoadPreset() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		mw.loadPreset(reader.URI().Path())
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{project.Extension}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) loadPreset(path string) {
	if err := mw.state.LoadPreset(path); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.rememberPreset(path)
}

func (mw *MainWindow) onSavePreset() {
	if mw.state.Current() == nil {
		dialog.ShowInformation("Save Preset", "Load an image and select a crop area first.", mw.Window)
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != project.Extension {
			path += project.Extension
		}
		if err := mw.state.SavePreset(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.rememberPreset(path)
	}, mw.Window)
	fd.SetFileName("crop" + project.Extension)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) rememberPreset(path string) {
	mw.prefs.AddRecent(prefs.KeyRecentPresets, path)
	mw.saveLastDir(filepath.Dir(path))
	mw.setupMenus()
}

func (mw *MainWindow) onStartCrop() {
	if !mw.state.CanStartCrop() {
		return
	}
	runner, err := mw.newRunner(mw.state.Config())
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	go func() {
		results, err := mw.state.BatchCrop(context.Background(), runner)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		ok, failed := batch.Summary(results)
		dialog.ShowInformation("Batch Crop",
			fmt.Sprintf("Processed %d files, %d failed.\nOutput: %s", ok, failed, mw.state.Settings().OutputDir),
			mw.Window)
	}()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"Select a region on one image and crop a whole batch.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, version.BuildTime, version.Commit()),
		mw.Window)
}

package mainwindow

import (
	"sync"

	"image-cropper/internal/app"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// keyState tracks held modifier keys; typed key events carry no modifiers.
type keyState struct {
	mu    sync.Mutex
	shift bool
}

func (k *keyState) set(name fyne.KeyName, down bool) {
	if name != desktop.KeyShiftLeft && name != desktop.KeyShiftRight {
		return
	}
	k.mu.Lock()
	k.shift = down
	k.mu.Unlock()
}

func (k *keyState) shiftHeld() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.shift
}

// nudgeFor returns the unit direction an arrow key moves the selection.
func nudgeFor(name fyne.KeyName) (dx, dy int, ok bool) {
	switch name {
	case fyne.KeyLeft:
		return -1, 0, true
	case fyne.KeyRight:
		return 1, 0, true
	case fyne.KeyUp:
		return 0, -1, true
	case fyne.KeyDown:
		return 0, 1, true
	}
	return 0, 0, false
}

// viewportFor returns the viewport action bound to a typed rune.
func viewportFor(r rune) (factor float64, reset, ok bool) {
	switch r {
	case '+', '=':
		return app.ButtonZoomFactor, false, true
	case '-', '_':
		return 1 / app.ButtonZoomFactor, false, true
	case '0':
		return 0, true, true
	}
	return 0, false, false
}

// setupKeys binds arrow nudging, viewport zoom keys and shortcuts.
func (mw *MainWindow) setupKeys() {
	c := mw.Canvas()
	if dc, ok := c.(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(ev *fyne.KeyEvent) { mw.keys.set(ev.Name, true) })
		dc.SetOnKeyUp(func(ev *fyne.KeyEvent) { mw.keys.set(ev.Name, false) })
	}

	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if dx, dy, ok := nudgeFor(ev.Name); ok {
			mw.state.Nudge(dx, dy, mw.keys.shiftHeld())
		}
	})
	c.SetOnTypedRune(func(r rune) {
		factor, reset, ok := viewportFor(r)
		switch {
		case !ok:
		case reset:
			mw.state.ResetZoom()
		default:
			mw.state.ZoomViewport(factor)
		}
	})

	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { mw.onOpenFiles() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { mw.onSavePreset() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyReturn, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { mw.onStartCrop() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { mw.state.ResetCropToCenter() })
}

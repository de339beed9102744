package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// SelectionColor is the crop outline and handle color.
var SelectionColor = color.NRGBA{R: 0x21, G: 0x96, B: 0xF3, A: 0xFF}

// CropperTheme is the default theme with the selection blue as primary
// color. Images are easier to judge on a dark surround, so the dark variant
// is used unless Light is set.
type CropperTheme struct {
	Light bool
}

var _ fyne.Theme = (*CropperTheme)(nil)

func (t *CropperTheme) variant() fyne.ThemeVariant {
	if t.Light {
		return theme.VariantLight
	}
	return theme.VariantDark
}

func (t *CropperTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return SelectionColor
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x21, G: 0x96, B: 0xF3, A: 0x60}
	case theme.ColorNameSuccess:
		return color.NRGBA{R: 0x43, G: 0xA0, B: 0x47, A: 0xFF}
	case theme.ColorNameError:
		return color.NRGBA{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF}
	}
	return theme.DefaultTheme().Color(name, t.variant())
}

func (t *CropperTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *CropperTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size tightens list padding so the status log shows more lines.
func (t *CropperTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	default:
		return theme.DefaultTheme().Size(name)
	}
}

package render

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/kk-code-lab/vimview/internal/config"
)

// ColorTheme defines application colors.
type ColorTheme struct {
	Background  tcell.Color
	Foreground  tcell.Color
	Surface     tcell.Color
	DimFg       tcell.Color
	Accent      tcell.Color
	Border      tcell.Color
	SelectionBg tcell.Color
	SelectionFg tcell.Color
	MatchFg     tcell.Color
	ErrorFg     tcell.Color

	// canvas is the background transparent pixels are blended onto.
	canvas colorful.Color
}

// ThemeFromConfig builds the theme from the configured colour slots.
func ThemeFromConfig(cfg *config.Config) ColorTheme {
	accent := cfg.Color("accent")
	background := cfg.Color("background")
	text := cfg.Color("text")

	return ColorTheme{
		Background:  toTcell(background),
		Foreground:  toTcell(text),
		Surface:     toTcell(cfg.Color("surface")),
		DimFg:       toTcell(cfg.Color("dim_text")),
		Accent:      toTcell(accent),
		Border:      toTcell(cfg.Color("border")),
		SelectionBg: toTcell(accent),
		SelectionFg: toTcell(readableOn(accent)),
		MatchFg:     toTcell(accent.BlendLab(text, 0.35)),
		ErrorFg:     toTcell(accent),
		canvas:      background,
	}
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// readableOn picks black or white text for a background colour.
func readableOn(bg colorful.Color) colorful.Color {
	l, _, _ := bg.Lab()
	if l > 0.6 {
		return colorful.Color{}
	}
	return colorful.Color{R: 1, G: 1, B: 1}
}

// pixelColor composites an image pixel over the canvas colour. Pixels are
// alpha-premultiplied as produced by the image package.
func (t ColorTheme) pixelColor(c color.RGBA) tcell.Color {
	switch c.A {
	case 0:
		return toTcell(t.canvas)
	case 255:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
	a := float64(c.A) / 255
	fg := colorful.Color{
		R: float64(c.R) / 255 / a,
		G: float64(c.G) / 255 / a,
		B: float64(c.B) / 255 / a,
	}
	return toTcell(t.canvas.BlendRgb(fg.Clamped(), a))
}

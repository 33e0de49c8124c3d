package render

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/vimview/internal/imaging"
	"github.com/kk-code-lab/vimview/internal/keymap"
	statepkg "github.com/kk-code-lab/vimview/internal/state"
)

// Options configures a Renderer. Images may be nil, in which case the image
// area stays empty.
type Options struct {
	Theme            ColorTheme
	Bindings         keymap.Bindings
	Images           *imaging.Cache
	DefaultDirectory string
}

// Renderer handles all UI rendering
type Renderer struct {
	screen           tcell.Screen
	theme            ColorTheme
	bindings         keymap.Bindings
	images           *imaging.Cache
	defaultDir       string
	runeWidthCache   [128]int // ASCII cache (0-127)
	runeWidthCacheMu sync.RWMutex
	runeWidthWide    sync.Map // For non-ASCII runes

	// meta describes the image drawn last; the status line shows it.
	meta imaging.Meta
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen, opts Options) *Renderer {
	return &Renderer{
		screen:     screen,
		theme:      opts.Theme,
		bindings:   opts.Bindings,
		images:     opts.Images,
		defaultDir: opts.DefaultDirectory,
	}
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *statepkg.ViewerState) {
	r.screen.Clear()
	w, h := r.screen.Size()
	if w <= 0 || h <= 0 {
		r.screen.Show()
		return
	}

	base := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	r.screen.Fill(' ', base)

	if state.Listing == nil {
		r.drawHome(state, w, h)
	} else {
		r.drawViewer(state, w, h)
	}

	switch state.Mode {
	case keymap.Search:
		r.drawSearchOverlay(state, w, h)
	case keymap.QuickMove:
		r.drawQuickMoveOverlay(w, h)
	case keymap.Confirm:
		r.drawConfirmOverlay(state, w, h)
	case keymap.Prompt:
		r.drawPromptOverlay(state, w, h)
	}

	if state.ShowHelp {
		r.drawHelpOverlay(state, w, h)
	}

	r.screen.Show()
}

// drawHome renders the start screen with the three ways into the viewer.
func (r *Renderer) drawHome(state *statepkg.ViewerState, w, h int) {
	base := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	dim := base.Foreground(r.theme.DimFg)
	accent := base.Foreground(r.theme.Accent).Bold(true)

	lines := buildHomeLines(r.defaultDir)
	top := (h - len(lines) - 2) / 2
	if top < 0 {
		top = 0
	}

	r.drawCentered(0, w, top, "vimview", accent)
	for i, line := range lines {
		y := top + 2 + i
		if y >= h-1 {
			break
		}
		style := base
		if line.dim {
			style = dim
		}
		r.drawCentered(0, w, y, line.text, style)
	}

	r.drawNoticeLine(state, 0, h-1, w, base)
}

type homeLine struct {
	text string
	dim  bool
}

func buildHomeLines(defaultDir string) []homeLine {
	lines := []homeLine{
		{text: "v      open default folder"},
	}
	if defaultDir != "" {
		lines = append(lines, homeLine{text: defaultDir, dim: true})
	}
	lines = append(lines,
		homeLine{text: "o      open folder…"},
		homeLine{text: "␣      restore last session"},
		homeLine{text: "e      edit config"},
		homeLine{text: "q      quit"},
	)
	return lines
}

// drawViewer renders the image with its header, filmstrip and status line.
func (r *Renderer) drawViewer(state *statepkg.ViewerState, w, h int) {
	layout := computeLayout(w, h, state)

	if layout.headerY >= 0 {
		r.drawHeader(state, w, layout.headerY)
	}
	if layout.imageRows > 0 {
		r.drawImage(state, 0, layout.imageTop, w, layout.imageRows)
		if state.ShowFilename {
			r.drawFilenameBanner(state, w, layout.imageTop+layout.imageRows-1)
		}
	}
	if layout.filmY >= 0 {
		r.drawFilmstrip(state, w, layout.filmY)
	}
	if layout.statusY >= 0 {
		r.drawStatusLine(state, w, layout.statusY)
	} else if state.Notice.Text != "" {
		style := tcell.StyleDefault.Background(r.theme.Surface).Foreground(r.theme.Foreground)
		r.drawNoticeLine(state, 0, h-1, w, style)
	}
}

// drawHeader renders the top bar with position, directory and filter.
func (r *Renderer) drawHeader(state *statepkg.ViewerState, w, y int) {
	style := tcell.StyleDefault.Background(r.theme.Surface).Foreground(r.theme.Foreground)
	r.fillRow(0, w, y, style)

	position := formatPosition(state)
	endX := r.drawTextLine(1, y, w-1, position, style.Bold(true))

	right := ""
	if state.FilterActive() {
		right = formatFilterLabel(state.Filter.Query, state.Filter.Len())
	}
	rightWidth := r.measureTextWidth(right)
	rightX := w - rightWidth - 1

	limit := w - endX - 3
	if right != "" {
		limit = rightX - endX - 3
	}
	if limit > 0 {
		dir := r.fitPath(sanitize(state.Directory()), limit)
		r.drawTextLine(endX+2, y, limit, dir, style.Foreground(r.theme.DimFg))
	}
	if right != "" && rightX > 0 {
		r.drawTextLine(rightX, y, rightWidth, right, style.Foreground(r.theme.Accent))
	}
}

// fitPath trims a path from the left, keeping its most specific end.
func (r *Renderer) fitPath(path string, width int) string {
	if width <= 0 {
		return ""
	}
	if r.measureTextWidth(path) <= width {
		return path
	}
	runes := []rune(path)
	used := r.measureTextWidth("…")
	start := len(runes)
	for i := len(runes) - 1; i >= 0; i-- {
		rw := r.cachedRuneWidth(runes[i])
		if used+rw > width {
			break
		}
		used += rw
		start = i
	}
	return "…" + string(runes[start:])
}

// drawStatusLine renders the bottom line: the notice when there is one,
// otherwise details about the current image, with key hints on the right.
func (r *Renderer) drawStatusLine(state *statepkg.ViewerState, w, y int) {
	style := tcell.StyleDefault.Background(r.theme.Surface).Foreground(r.theme.Foreground)
	r.fillRow(0, w, y, style)

	hint := buildFooterHelpText(state, r.bindings)
	hintWidth := r.measureTextWidth(hint)
	leftWidth := w - hintWidth
	if leftWidth < w/2 {
		hint = ""
		leftWidth = w
	}

	if state.Notice.Text != "" {
		r.drawNoticeLine(state, 0, y, leftWidth, style)
	} else {
		info := formatImageInfo(state.Current(), r.meta, state.View)
		r.drawTextLine(1, y, leftWidth-1, r.truncateTextToWidth(info, leftWidth-1), style.Foreground(r.theme.DimFg))
	}
	if hint != "" {
		r.drawTextLine(w-hintWidth, y, hintWidth, hint, style.Foreground(r.theme.DimFg))
	}
}

func (r *Renderer) drawNoticeLine(state *statepkg.ViewerState, x, y, width int, style tcell.Style) {
	if state.Notice.Text == "" || width <= 1 {
		return
	}
	noticeStyle := style
	if state.Notice.Error {
		noticeStyle = style.Foreground(r.theme.ErrorFg).Bold(true)
	}
	r.fillRow(x, x+width, y, style)
	text := r.truncateTextToWidth(sanitize(state.Notice.Text), width-1)
	r.drawTextLine(x+1, y, width-1, text, noticeStyle)
}

// drawFilenameBanner overlays the file name on the last image row.
func (r *Renderer) drawFilenameBanner(state *statepkg.ViewerState, w, y int) {
	cur := state.Current()
	if cur == nil || y < 0 {
		return
	}
	name := " " + truncateName(cur.Name, w-4) + " "
	style := tcell.StyleDefault.Background(r.theme.Surface).Foreground(r.theme.Foreground)
	r.drawTextLine(1, y, w-1, name, style)
}

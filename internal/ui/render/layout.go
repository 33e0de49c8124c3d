package render

import (
	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/vimview/internal/state"
)

// viewerLayout assigns screen rows. A negative row means the part is hidden.
type viewerLayout struct {
	headerY   int
	imageTop  int
	imageRows int
	filmY     int
	statusY   int
}

const (
	minImageRows     = 3
	filmstripNameCap = 28
)

func computeLayout(w, h int, state *statepkg.ViewerState) viewerLayout {
	layout := viewerLayout{headerY: -1, filmY: -1, statusY: -1}
	if w <= 0 || h <= 0 {
		return layout
	}
	if state.Fullscreen {
		layout.imageRows = h
		return layout
	}

	top, bottom := 0, h
	if h >= minImageRows+2 {
		layout.headerY = 0
		top = 1
		layout.statusY = h - 1
		bottom = h - 1
	}
	if state.ShowFilmstrip && bottom-top >= minImageRows+1 {
		layout.filmY = bottom - 1
		bottom--
	}
	layout.imageTop = top
	layout.imageRows = bottom - top
	if layout.imageRows < 0 {
		layout.imageRows = 0
	}
	return layout
}

// filmstripWindow picks which matches fit on one row around the current
// one. It returns the half-open range [start, end).
func filmstripWindow(widths []int, current, available int) (int, int) {
	if current < 0 || current >= len(widths) || available <= 0 {
		return 0, 0
	}
	const gap = 2
	start, end := current, current+1
	used := widths[current]
	for {
		grew := false
		if end < len(widths) && used+gap+widths[end] <= available {
			used += gap + widths[end]
			end++
			grew = true
		}
		if start > 0 && used+gap+widths[start-1] <= available {
			used += gap + widths[start-1]
			start--
			grew = true
		}
		if !grew {
			return start, end
		}
	}
}

// drawFilmstrip lists neighbouring images on one row, current highlighted.
func (r *Renderer) drawFilmstrip(state *statepkg.ViewerState, w, y int) {
	style := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.DimFg)
	r.fillRow(0, w, y, style)

	matches := state.Entries()
	if len(matches) == 0 || state.Index < 0 {
		return
	}

	// Only names near the current entry can possibly fit.
	lo := state.Index - w/4
	if lo < 0 {
		lo = 0
	}
	hi := state.Index + w/4 + 1
	if hi > len(matches) {
		hi = len(matches)
	}
	names := make([]string, hi-lo)
	widths := make([]int, hi-lo)
	for i := lo; i < hi; i++ {
		names[i-lo] = truncateName(matches[i].Name, filmstripNameCap)
		widths[i-lo] = r.measureTextWidth(names[i-lo])
	}

	start, end := filmstripWindow(widths, state.Index-lo, w-2)
	used := 0
	for i := start; i < end; i++ {
		used += widths[i]
		if i > start {
			used += 2
		}
	}
	x := (w - used) / 2
	selected := tcell.StyleDefault.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
	for i := start; i < end; i++ {
		if i > start {
			x += 2
		}
		s := style
		if i == state.Index-lo {
			s = selected
		}
		x = r.drawTextLine(x, y, w-x, names[i], s)
	}
}

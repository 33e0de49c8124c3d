package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kk-code-lab/vimview/internal/search"
	"github.com/kk-code-lab/vimview/internal/textutil"
)

func (r *Renderer) cachedRuneWidth(ru rune) int {
	if ru < 128 {
		r.runeWidthCacheMu.RLock()
		width := r.runeWidthCache[ru]
		r.runeWidthCacheMu.RUnlock()

		if width == 0 && ru != 0 {
			actualWidth := runewidth.RuneWidth(ru)
			if actualWidth < 0 {
				actualWidth = 0
			}
			r.runeWidthCacheMu.Lock()
			r.runeWidthCache[ru] = actualWidth + 1
			r.runeWidthCacheMu.Unlock()
			return actualWidth
		}
		return width - 1
	}

	if cached, ok := r.runeWidthWide.Load(ru); ok {
		return cached.(int)
	}

	width := runewidth.RuneWidth(ru)
	if width < 0 {
		width = 0
	}
	r.runeWidthWide.Store(ru, width)
	return width
}

func (r *Renderer) measureTextWidth(text string) int {
	width := 0
	for _, ru := range text {
		runeWidth := r.cachedRuneWidth(ru)
		if runeWidth < 0 {
			runeWidth = 0
		}
		width += runeWidth
	}
	return width
}

func (r *Renderer) truncateTextToWidth(text string, maxWidth int) string {
	return textutil.Truncate(text, maxWidth)
}

func (r *Renderer) drawTextLine(startX, y, maxWidth int, text string, style tcell.Style) int {
	x := startX
	runes := []rune(text)
	i := 0

	for i < len(runes) {
		if x-startX >= maxWidth {
			break
		}

		mainc := runes[i]
		i++

		var combc []rune
		// Zero-width runes (combining marks, variation selectors) ride along
		// with the cell they modify.
		for i < len(runes) && r.cachedRuneWidth(runes[i]) == 0 {
			combc = append(combc, runes[i])
			i++
		}

		r.screen.SetContent(x, y, mainc, combc, style)

		w := r.cachedRuneWidth(mainc)
		if w <= 0 {
			w = 1
		}
		x += w
	}

	return x
}

func (r *Renderer) drawStyledRune(x, y, maxX int, ru rune, style tcell.Style) int {
	if x >= maxX {
		return x
	}

	width := r.cachedRuneWidth(ru)
	if width <= 0 {
		width = 1
	}

	r.screen.SetContent(x, y, ru, nil, style)
	for w := 1; w < width && x+w < maxX; w++ {
		r.screen.SetContent(x+w, y, ' ', nil, style)
	}
	return x + width
}

func (r *Renderer) drawStyledStringClipped(startX, y, maxX int, text string, style tcell.Style) int {
	if maxX <= startX {
		return startX
	}

	x := startX
	for _, ru := range text {
		if x >= maxX {
			break
		}
		x = r.drawStyledRune(x, y, maxX, ru, style)
	}
	return x
}

func (r *Renderer) drawHighlightedText(startX, y, maxX int, text string, spans []search.MatchSpan, offset int, baseStyle, highlightStyle tcell.Style) (int, int) {
	runes := []rune(text)
	if maxX <= startX {
		return startX, offset + len(runes)
	}

	x := startX
	spanIdx := 0

	for idx, ru := range runes {
		if x >= maxX {
			return x, offset + len(runes)
		}

		globalIdx := offset + idx
		for spanIdx < len(spans) && globalIdx >= spans[spanIdx].End {
			spanIdx++
		}

		style := baseStyle
		if spanIdx < len(spans) && globalIdx >= spans[spanIdx].Start && globalIdx < spans[spanIdx].End {
			style = highlightStyle
		}

		x = r.drawStyledRune(x, y, maxX, ru, style)
	}

	return x, offset + len(runes)
}

// fillRow paints columns [startX, endX) of row y.
func (r *Renderer) fillRow(startX, endX, y int, style tcell.Style) {
	for x := startX; x < endX; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}

// drawCentered draws text centred within [startX, startX+width) on row y.
func (r *Renderer) drawCentered(startX, width, y int, text string, style tcell.Style) {
	text = r.truncateTextToWidth(text, width)
	offset := (width - r.measureTextWidth(text)) / 2
	if offset < 0 {
		offset = 0
	}
	r.drawTextLine(startX+offset, y, width-offset, text, style)
}

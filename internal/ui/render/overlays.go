package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/vimview/internal/search"
	statepkg "github.com/kk-code-lab/vimview/internal/state"
)

const overlayMaxWidth = 64

// box is an overlay rectangle including its border.
type box struct {
	x, y, w, h int
}

func (b box) innerX() int     { return b.x + 2 }
func (b box) innerWidth() int { return b.w - 4 }

// bottomBox places a box of the given inner height just above the last row.
func bottomBox(w, h, innerRows int) box {
	bw := w - 4
	if bw > overlayMaxWidth {
		bw = overlayMaxWidth
	}
	if bw < 10 {
		bw = w
	}
	bh := innerRows + 2
	y := h - 1 - bh
	if y < 0 {
		y = 0
	}
	return box{x: (w - bw) / 2, y: y, w: bw, h: bh}
}

func centeredBox(w, h, innerRows int) box {
	b := bottomBox(w, h, innerRows)
	b.y = (h - b.h) / 2
	if b.y < 0 {
		b.y = 0
	}
	return b
}

// drawBox clears b and draws its border with an optional title.
func (r *Renderer) drawBox(b box, title string) tcell.Style {
	fill := tcell.StyleDefault.Background(r.theme.Surface).Foreground(r.theme.Foreground)
	border := fill.Foreground(r.theme.Border)

	for y := b.y; y < b.y+b.h; y++ {
		r.fillRow(b.x, b.x+b.w, y, fill)
	}
	right, bottom := b.x+b.w-1, b.y+b.h-1
	for x := b.x + 1; x < right; x++ {
		r.screen.SetContent(x, b.y, '─', nil, border)
		r.screen.SetContent(x, bottom, '─', nil, border)
	}
	for y := b.y + 1; y < bottom; y++ {
		r.screen.SetContent(b.x, y, '│', nil, border)
		r.screen.SetContent(right, y, '│', nil, border)
	}
	r.screen.SetContent(b.x, b.y, '┌', nil, border)
	r.screen.SetContent(right, b.y, '┐', nil, border)
	r.screen.SetContent(b.x, bottom, '└', nil, border)
	r.screen.SetContent(right, bottom, '┘', nil, border)

	if title != "" {
		label := " " + title + " "
		r.drawTextLine(b.x+2, b.y, b.w-4, r.truncateTextToWidth(label, b.w-4), border.Foreground(r.theme.Accent).Bold(true))
	}
	return fill
}

// drawInputLine draws label, text and a block cursor, scrolling the text so
// the cursor stays visible.
func (r *Renderer) drawInputLine(x, y, width int, label string, text []rune, style tcell.Style) {
	x = r.drawTextLine(x, y, width, label, style.Foreground(r.theme.DimFg))
	avail := width - r.measureTextWidth(label) - 1
	if avail <= 0 {
		return
	}
	shown := sanitize(string(text))
	for r.measureTextWidth(shown) > avail {
		runes := []rune(shown)
		shown = string(runes[1:])
	}
	x = r.drawTextLine(x, y, avail, shown, style)
	cursor := tcell.StyleDefault.Background(r.theme.Foreground).Foreground(r.theme.Surface)
	r.screen.SetContent(x, y, ' ', nil, cursor)
}

// drawSearchOverlay shows the query with the match count and a page of
// suggestions around the highlighted match.
func (r *Renderer) drawSearchOverlay(state *statepkg.ViewerState, w, h int) {
	suggestions := state.Suggestions()
	rows := 2 + len(suggestions)
	b := bottomBox(w, h, rows)
	fill := r.drawBox(b, "search")

	r.drawInputLine(b.innerX(), b.y+1, b.innerWidth(), "/", state.SearchQuery, fill)

	count := ""
	switch {
	case len(state.SearchQuery) == 0:
		count = "type to filter"
	case state.Filter.Len() == 0:
		count = "no matches"
	default:
		count = fmt.Sprintf("%d of %d", state.Filter.Len(), state.Total())
	}
	countWidth := r.measureTextWidth(count)
	r.drawTextLine(b.x+b.w-2-countWidth, b.y+1, countWidth, count, fill.Foreground(r.theme.DimFg))

	selected := tcell.StyleDefault.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
	for i, sug := range suggestions {
		y := b.y + 2 + i
		style := fill
		matchStyle := fill.Foreground(r.theme.MatchFg).Bold(true)
		if sug.Position == state.Index {
			style = selected
			matchStyle = selected.Bold(true).Underline(true)
			r.fillRow(b.x+1, b.x+b.w-1, y, selected)
		}
		r.drawSuggestion(b.innerX(), y, b.innerWidth(), sug, style, matchStyle)
	}
}

func (r *Renderer) drawSuggestion(x, y, width int, sug search.Suggestion, style, matchStyle tcell.Style) {
	name := sanitize(sug.Entry.Name)
	if r.measureTextWidth(name) > width {
		// Highlight offsets refer to the full name; truncating from the
		// end keeps them valid for the visible prefix.
		name = r.truncateTextToWidth(name, width)
	}
	var spans []search.MatchSpan
	if sug.HasSpan {
		spans = []search.MatchSpan{sug.Span}
	}
	r.drawHighlightedText(x, y, x+width, name, spans, 0, style, matchStyle)
}

// drawQuickMoveOverlay lists the quick-folder keys.
func (r *Renderer) drawQuickMoveOverlay(w, h int) {
	folders := r.bindings.QuickFolders()
	b := centeredBox(w, h, len(folders)+2)
	fill := r.drawBox(b, "move to")

	keyStyle := fill.Foreground(r.theme.Accent).Bold(true)
	for i, pair := range folders {
		y := b.y + 1 + i
		x := r.drawTextLine(b.innerX(), y, b.innerWidth(), pair[0], keyStyle) + 2
		avail := b.innerX() + b.innerWidth() - x
		r.drawTextLine(x, y, avail, r.truncateTextToWidth(sanitize(pair[1]), avail), fill)
	}
	r.drawTextLine(b.innerX(), b.y+b.h-2, b.innerWidth(), "any other key cancels", fill.Foreground(r.theme.DimFg))
}

// drawConfirmOverlay asks to confirm the pending operation.
func (r *Renderer) drawConfirmOverlay(state *statepkg.ViewerState, w, h int) {
	if state.Pending == nil {
		return
	}
	b := centeredBox(w, h, 3)
	fill := r.drawBox(b, "confirm")
	r.drawCentered(b.innerX(), b.innerWidth(), b.y+1, sanitize(state.Pending.Message), fill.Bold(true))
	r.drawCentered(b.innerX(), b.innerWidth(), b.y+3, "↵ confirm · Esc/␣ cancel", fill.Foreground(r.theme.DimFg))
}

// drawPromptOverlay draws the single-line text prompt.
func (r *Renderer) drawPromptOverlay(state *statepkg.ViewerState, w, h int) {
	b := bottomBox(w, h, 1)
	fill := r.drawBox(b, "")
	r.drawInputLine(b.innerX(), b.y+1, b.innerWidth(), state.Prompt.Label+" ", state.Prompt.Buffer, fill)
}

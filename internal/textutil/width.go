package textutil

import (
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const Ellipsis = "…"

// DisplayWidth reports the terminal width of text, measured per grapheme
// cluster so emoji sequences and combining marks count once.
func DisplayWidth(text string) int {
	return uniseg.StringWidth(text)
}

// Truncate shortens text to at most width columns, ending in an ellipsis
// when something was cut. Grapheme clusters are never split.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if DisplayWidth(text) <= width {
		return text
	}
	if width <= 1 {
		return Ellipsis
	}
	return takeWidth(text, width-1) + Ellipsis
}

// TruncateName shortens a file name by cutting from the middle of the stem
// so the extension stays readable: "a_very_long_na….png".
func TruncateName(name string, width int) string {
	if width <= 0 {
		return ""
	}
	if DisplayWidth(name) <= width {
		return name
	}
	ext := filepath.Ext(name)
	extWidth := DisplayWidth(ext)
	// Not enough room to keep the extension and some stem; plain truncation.
	if ext == "" || extWidth+3 > width {
		return Truncate(name, width)
	}

	stem := strings.TrimSuffix(name, ext)
	avail := width - extWidth - 1
	left := (avail + 1) / 2
	right := avail - left
	return takeWidth(stem, left) + Ellipsis + takeLastWidth(stem, right) + ext
}

// PadRight pads text with spaces to exactly width columns, truncating when
// it is wider.
func PadRight(text string, width int) string {
	w := DisplayWidth(text)
	if w > width {
		text = Truncate(text, width)
		w = DisplayWidth(text)
	}
	if w >= width {
		return text
	}
	return text + strings.Repeat(" ", width-w)
}

// RuneWidth is the width of a single rune as cells are laid out on screen.
func RuneWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

func takeWidth(text string, width int) string {
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		w := g.Width()
		if used+w > width {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	return b.String()
}

func takeLastWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	var clusters []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}
	used := 0
	start := len(clusters)
	for i := len(clusters) - 1; i >= 0; i-- {
		w := uniseg.StringWidth(clusters[i])
		if used+w > width {
			break
		}
		used += w
		start = i
	}
	return strings.Join(clusters[start:], "")
}

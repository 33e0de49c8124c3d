package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/vimview/internal/keymap"
	statepkg "github.com/kk-code-lab/vimview/internal/state"
	"github.com/kk-code-lab/vimview/internal/textutil"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

type boundCommand struct {
	cmd  keymap.Command
	desc string
}

var helpSections = []struct {
	title    string
	commands []boundCommand
}{
	{"Navigation", []boundCommand{
		{keymap.Next, "Next image"},
		{keymap.Prev, "Previous image"},
		{keymap.StartSearch, "Search / filter"},
	}},
	{"Files", []boundCommand{
		{keymap.Copy, "Copy image to clipboard"},
		{keymap.Cut, "Cut image (copy, then trash)"},
		{keymap.CopyPath, "Copy path"},
		{keymap.Delete, "Move to trash"},
		{keymap.Rename, "Rename"},
		{keymap.MoveMode, "Move to quick folder"},
		{keymap.MoveCustom, "Move to folder…"},
		{keymap.Undo, "Undo last operation"},
	}},
	{"View", []boundCommand{
		{keymap.ZoomIn, "Zoom in"},
		{keymap.ZoomOut, "Zoom out"},
		{keymap.ZoomReal, "Actual size"},
		{keymap.RotateLeft, "Rotate left"},
		{keymap.RotateRight, "Rotate right"},
		{keymap.ToggleFilmstrip, "Toggle filmstrip"},
		{keymap.ToggleFilename, "Toggle file name"},
		{keymap.Fullscreen, "Toggle fullscreen"},
	}},
	{"Other", []boundCommand{
		{keymap.ShowKeys, "Show / hide keys"},
		{keymap.EditConfig, "Edit config"},
		{keymap.Quit, "Back to home"},
	}},
}

func buildHelpOverlayLines(bindings keymap.Bindings) []string {
	sections := make([]helpOverlaySection, 0, len(helpSections)+1)
	for _, group := range helpSections {
		section := helpOverlaySection{title: group.title}
		for _, bc := range group.commands {
			key := bindings.KeyFor(bc.cmd)
			if key == "" {
				continue
			}
			section.entries = append(section.entries, helpOverlayEntry{keys: key, desc: bc.desc})
		}
		if len(section.entries) > 0 {
			sections = append(sections, section)
		}
	}

	reserved := helpOverlaySection{
		title: "Always",
		entries: []helpOverlayEntry{
			{keys: "←/→", desc: "Previous / next image"},
			{keys: "Esc or ␣", desc: "Clear filter, then back to home"},
			{keys: "Ctrl+C", desc: "Quit immediately"},
		},
	}
	sections = append(sections, reserved)

	lines := make([]string, 0, 40)
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, formatHelpOverlayEntry(entry))
		}
	}

	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	return "  " + textutil.PadRight(sanitize(entry.keys), 10) + " " + sanitize(entry.desc)
}

func (r *Renderer) drawHelpOverlay(state *statepkg.ViewerState, w, h int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	r.screen.Fill(' ', baseStyle)

	title := " Keys "
	headerStyle := baseStyle.Background(r.theme.Surface).Foreground(r.theme.Foreground).Bold(true)
	r.fillRow(0, w, 0, headerStyle)
	r.drawCentered(0, w, 0, title, headerStyle)

	lines := buildHelpOverlayLines(r.bindings)
	// Two columns when the terminal is too short for one.
	columns := 1
	if len(lines) > h-3 && w >= 80 {
		columns = 2
	}
	colWidth := (w - 4) / columns
	perColumn := (len(lines) + columns - 1) / columns

	for i, line := range lines {
		col := i / perColumn
		row := 2 + i%perColumn
		if row >= h-1 {
			continue
		}
		style := baseStyle
		if line != "" && !strings.HasPrefix(line, " ") {
			style = baseStyle.Foreground(r.theme.Accent).Bold(true)
		}
		text := r.truncateTextToWidth(strings.TrimRight(line, " "), colWidth-1)
		r.drawTextLine(2+col*colWidth, row, colWidth-1, text, style)
	}

	footer := "any key closes"
	if key := r.bindings.KeyFor(keymap.ShowKeys); key != "" {
		footer = key + " or Esc closes"
	}
	r.fillRow(0, w, h-1, headerStyle)
	r.drawCentered(0, w, h-1, footer, headerStyle)
}

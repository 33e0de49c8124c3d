package render

import (
	"strings"

	"github.com/kk-code-lab/vimview/internal/keymap"
	statepkg "github.com/kk-code-lab/vimview/internal/state"
)

// buildFooterHelpText returns the contextual footer hint string with leading/trailing padding.
func buildFooterHelpText(state *statepkg.ViewerState, bindings keymap.Bindings) string {
	parts := buildFooterHelpSegments(state, bindings)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

// buildFooterHelpSegments assembles context-aware help hints for the footer.
func buildFooterHelpSegments(state *statepkg.ViewerState, bindings keymap.Bindings) []string {
	if state == nil {
		return nil
	}

	switch state.Mode {
	case keymap.Search:
		return []string{"↵: filter", "Esc: cancel", "↑↓: select"}
	case keymap.QuickMove:
		return []string{"key: move", "other: cancel"}
	case keymap.Confirm:
		return []string{"↵: confirm", "Esc/␣: cancel"}
	case keymap.Prompt:
		return []string{"↵: accept", "Esc: cancel"}
	}

	segments := []string{}
	if key := bindings.KeyFor(keymap.ShowKeys); key != "" {
		segments = append(segments, key+": keys")
	}
	if state.FilterActive() {
		segments = append(segments, "Esc: clear filter")
	} else if state.Listing != nil {
		segments = append(segments, "Esc: home")
	}
	return segments
}

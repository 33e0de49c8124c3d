package render

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/kk-code-lab/vimview/internal/imaging"
	statepkg "github.com/kk-code-lab/vimview/internal/state"
	"github.com/kk-code-lab/vimview/internal/textutil"
)

func sanitize(text string) string {
	return textutil.SanitizeName(text)
}

func truncateName(name string, width int) string {
	return textutil.TruncateName(sanitize(name), width)
}

// formatPosition renders "3/12", or "3/5 of 12" while a filter narrows the
// listing.
func formatPosition(state *statepkg.ViewerState) string {
	matches := state.Filter.Len()
	if matches == 0 || state.Index < 0 {
		return fmt.Sprintf("0/%d", matches)
	}
	if state.FilterActive() {
		return fmt.Sprintf("%d/%d of %d", state.Index+1, matches, state.Total())
	}
	return fmt.Sprintf("%d/%d", state.Index+1, matches)
}

func formatFilterLabel(query string, matches int) string {
	return fmt.Sprintf("/%s (%d)", sanitize(query), matches)
}

func formatZoom(view statepkg.ViewState) string {
	if view.Fit() {
		return "fit"
	}
	return fmt.Sprintf("%d%%", view.ZoomPercent())
}

// formatImageInfo joins the details shown for the current image.
func formatImageInfo(entry *statepkg.FileEntry, meta imaging.Meta, view statepkg.ViewState) string {
	if entry == nil {
		return ""
	}
	parts := []string{}
	if desc := meta.Describe(); desc != "" {
		parts = append(parts, desc)
	}
	parts = append(parts, humanize.IBytes(uint64(entry.Size)))
	if !entry.Modified.IsZero() {
		parts = append(parts, humanize.Time(entry.Modified))
	}
	parts = append(parts, formatZoom(view))
	if view.Rotation != 0 {
		parts = append(parts, fmt.Sprintf("%d°", view.Rotation))
	}
	return strings.Join(parts, " · ")
}

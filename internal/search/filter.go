// Package search derives filtered views over a directory listing. Matching is
// a case-folded substring test on the display name; the listing itself is
// never modified.
package search

import (
	"strings"

	"golang.org/x/text/cases"

	fsutil "github.com/kk-code-lab/vimview/internal/fs"
)

type FileEntry = fsutil.Entry

// FilterState is the result of applying a query to a listing.
type FilterState struct {
	Query   string
	Matches []FileEntry
	// Indices maps each match back to its position in the listing.
	Indices []int
}

// Suggestion is a match prepared for display with its highlighted range.
type Suggestion struct {
	Entry    FileEntry
	Position int // index into Matches
	Span     MatchSpan
	HasSpan  bool
}

// Apply filters entries by query. An empty query yields every entry in the
// original order.
func Apply(entries []FileEntry, query string) FilterState {
	state := FilterState{Query: query}
	needle := foldString(query)

	state.Matches = make([]FileEntry, 0, len(entries))
	state.Indices = make([]int, 0, len(entries))
	for idx, entry := range entries {
		if needle != "" && !strings.Contains(foldString(entry.Name), needle) {
			continue
		}
		state.Matches = append(state.Matches, entry)
		state.Indices = append(state.Indices, idx)
	}
	return state
}

// Active reports whether the state narrows the listing.
func (f FilterState) Active() bool {
	return f.Query != ""
}

// Len returns the number of matches.
func (f FilterState) Len() int {
	return len(f.Matches)
}

// IndexOf locates path among the matches, or -1.
func (f FilterState) IndexOf(path string) int {
	return fsutil.IndexOfPath(f.Matches, path)
}

// ListingIndex converts a match position to a listing position, or -1.
func (f FilterState) ListingIndex(pos int) int {
	if pos < 0 || pos >= len(f.Indices) {
		return -1
	}
	return f.Indices[pos]
}

// Suggestions returns up to limit matches starting at the page that contains
// highlight, so the highlighted match is always visible.
func Suggestions(state FilterState, highlight, limit int) []Suggestion {
	if limit <= 0 || len(state.Matches) == 0 {
		return nil
	}
	start := 0
	if highlight >= limit {
		start = highlight - limit + 1
	}
	end := min(start+limit, len(state.Matches))

	out := make([]Suggestion, 0, end-start)
	for pos := start; pos < end; pos++ {
		entry := state.Matches[pos]
		span, ok := FindMatchSpan(entry.Name, state.Query)
		out = append(out, Suggestion{Entry: entry, Position: pos, Span: span, HasSpan: ok})
	}
	return out
}

func foldString(s string) string {
	return cases.Fold().String(s)
}

package state

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/vimview/internal/keymap"
	search "github.com/kk-code-lab/vimview/internal/search"
)

func searchQuery(runes []rune) string {
	return strings.TrimSpace(string(runes))
}

func (e *Engine) startSearch() {
	s := e.state
	current := s.CurrentPath()
	s.searchSaved = searchSnapshot{query: s.Filter.Query, path: current, focus: current}
	if !s.Filter.Active() {
		s.preSearchPath = current
	}
	s.SearchQuery = nil
	s.ShowHelp = false
	s.Mode = keymap.Search
}

// recomputeSearch re-filters the full listing. The viewed entry stays
// selected while it still matches, even across a query that matched nothing;
// otherwise the first match is selected.
func (e *Engine) recomputeSearch() {
	s := e.state
	current := s.anchorPath()
	s.Filter = search.Apply(s.Listing.Entries, searchQuery(s.SearchQuery))

	switch idx := s.Filter.IndexOf(current); {
	case idx >= 0:
		s.Index = idx
	case s.Filter.Len() > 0:
		s.Index = 0
	default:
		s.Index = -1
	}
	if s.CurrentPath() != current {
		s.resetView()
	}
	if path := s.CurrentPath(); path != "" {
		s.searchSaved.focus = path
	}
}

func (e *Engine) moveHighlight(delta int) {
	s := e.state
	if s.Filter.Len() == 0 {
		return
	}
	next := clampIndex(s.Index+delta, s.Filter.Len())
	if next != s.Index {
		s.Index = next
		s.resetView()
	}
	s.searchSaved.focus = s.CurrentPath()
}

// acceptSearch commits the query at the highlighted match. An empty query
// clears the filter; a query without matches restores the previous view.
func (e *Engine) acceptSearch() error {
	s := e.state
	query := searchQuery(s.SearchQuery)
	s.SearchQuery = nil
	s.Mode = keymap.Normal

	switch {
	case query == "":
		current := s.CurrentPath()
		s.Filter = search.Apply(s.Listing.Entries, "")
		e.relocate(0, current, s.searchSaved.path)
		s.preSearchPath = ""
		if s.searchSaved.query != "" {
			s.setNotice("search cleared")
		}
	case s.Filter.Len() == 0:
		e.restoreSearchSnapshot()
		s.setNotice("no matches found")
	default:
		s.setNotice(fmt.Sprintf("filtered: %d images", s.Filter.Len()))
	}
	s.searchSaved = searchSnapshot{}
	return nil
}

// cancelSearch discards the query and restores the filter and position that
// were active when the search started.
func (e *Engine) cancelSearch() {
	s := e.state
	s.SearchQuery = nil
	s.Mode = keymap.Normal
	e.restoreSearchSnapshot()
	s.searchSaved = searchSnapshot{}
}

func (e *Engine) restoreSearchSnapshot() {
	s := e.state
	saved := s.searchSaved
	s.Filter = search.Apply(s.Listing.Entries, saved.query)
	if !s.Filter.Active() {
		s.preSearchPath = ""
	}
	e.relocate(0, saved.path)
}

package state

import (
	"os"

	"github.com/kk-code-lab/vimview/internal/apperr"
	fsutil "github.com/kk-code-lab/vimview/internal/fs"
	"github.com/kk-code-lab/vimview/internal/keymap"
	search "github.com/kk-code-lab/vimview/internal/search"
	"github.com/kk-code-lab/vimview/internal/session"
)

func (e *Engine) openDirectory(path string) error {
	listing, err := fsutil.ReadListing(path)
	if err != nil {
		return err
	}
	if listing.Len() == 0 {
		return apperr.New(apperr.Filesystem, "open", ErrEmptyDirectory, listing.Directory, nil)
	}
	e.enterListing(listing, 0)
	logAction("open", listing.Directory)
	return nil
}

func (e *Engine) restoreSession() error {
	if e.sessions == nil {
		return apperr.New(apperr.Session, "restore session", session.ErrNoSession, "", nil)
	}
	rec, err := e.sessions.Load()
	if err != nil {
		return err
	}

	listing, err := fsutil.ReadListing(rec.Directory)
	if err != nil {
		return apperr.New(apperr.Session, "restore session", session.ErrStaleSession, rec.Directory, err)
	}
	if listing.Len() == 0 {
		return apperr.New(apperr.Session, "restore session", session.ErrStaleSession, rec.Directory, ErrEmptyDirectory)
	}

	e.enterListing(listing, clampIndex(rec.Index, listing.Len()))
	logAction("restore session", listing.Directory)
	return nil
}

func (e *Engine) enterListing(listing *fsutil.Listing, index int) {
	s := e.state
	s.Listing = listing
	s.Filter = search.Apply(listing.Entries, "")
	s.Index = clampIndex(index, s.Filter.Len())
	s.Mode = keymap.Normal
	s.SearchQuery = nil
	s.Pending = nil
	s.Prompt = PromptState{}
	s.ShowHelp = false
	s.preSearchPath = ""
	s.searchSaved = searchSnapshot{}
	s.resetView()
}

// step moves within the matches, clamped at both ends.
func (e *Engine) step(delta int) {
	s := e.state
	next := s.Index + delta
	if next < 0 || next >= s.Filter.Len() {
		return
	}
	s.Index = next
	s.resetView()
}

func (e *Engine) back() error {
	s := e.state
	if s.Filter.Active() {
		current := s.CurrentPath()
		s.Filter = search.Apply(s.Listing.Entries, "")
		e.relocate(-1, s.preSearchPath, current)
		s.preSearchPath = ""
		s.setNotice("search cleared")
		return nil
	}
	return e.goHome()
}

// goHome persists the session and returns to the home screen. The
// transition happens even when persisting fails.
func (e *Engine) goHome() error {
	err := e.persist()
	e.leaveToHome()
	return err
}

func (e *Engine) leaveToHome() {
	s := e.state
	s.Listing = nil
	s.Filter = FilterState{}
	s.Index = -1
	s.Mode = keymap.Home
	s.SearchQuery = nil
	s.Pending = nil
	s.Prompt = PromptState{}
	s.ShowHelp = false
	s.preSearchPath = ""
	s.searchSaved = searchSnapshot{}
	s.resetView()
}

// persist saves the viewed entry's position in the unfiltered listing. A
// search with no matches saves the entry viewed before the matches ran out.
func (e *Engine) persist() error {
	s := e.state
	if e.sessions == nil || s.Listing == nil {
		return nil
	}
	index := s.Filter.ListingIndex(s.Index)
	if index < 0 {
		anchor := s.anchorPath()
		if anchor == "" {
			return nil
		}
		index = s.Listing.IndexOf(anchor)
	}
	if index < 0 {
		index = 0
	}
	return e.sessions.Save(session.Record{Directory: s.Listing.Directory, Index: index})
}

// reload re-enumerates the directory, re-applies the committed filter and
// re-locates the position by path. A directory that can no longer be read
// sends the viewer home.
func (e *Engine) reload(preferred ...string) error {
	s := e.state
	if s.Listing == nil {
		return nil
	}
	fallback := s.Index
	if err := s.Listing.Refresh(); err != nil {
		e.leaveToHome()
		return err
	}

	query := s.Filter.Query
	if s.Mode == keymap.Search {
		query = searchQuery(s.SearchQuery)
	}
	s.Filter = search.Apply(s.Listing.Entries, query)
	e.relocate(fallback, preferred...)
	return nil
}

// relocate points the index at the first preferred path still present.
// Otherwise the fallback index is clamped into range. An emptied filter is
// dropped; an emptied listing sends the viewer home.
func (e *Engine) relocate(fallback int, preferred ...string) {
	s := e.state
	before := s.CurrentPath()

	if s.Filter.Len() == 0 && s.Filter.Active() && s.Mode != keymap.Search && s.Listing.Len() > 0 {
		s.Filter = search.Apply(s.Listing.Entries, "")
		s.preSearchPath = ""
		s.setNotice("filter cleared")
	}
	if s.Listing.Len() == 0 {
		e.leaveToHome()
		s.setNotice("no images left")
		return
	}

	index := -1
	for _, path := range preferred {
		if idx := s.Filter.IndexOf(path); idx >= 0 {
			index = idx
			break
		}
	}
	if index < 0 {
		if fallback < 0 {
			fallback = 0
		}
		index = clampIndex(fallback, s.Filter.Len())
	}
	s.Index = index

	if s.CurrentPath() != before {
		s.resetView()
	}
}

// ensureCurrent verifies that path is still listed and present on disk. A
// vanished file triggers a full reload and ErrStaleEntry.
func (e *Engine) ensureCurrent(op, path string) (int, error) {
	s := e.state
	index := s.Filter.IndexOf(path)
	if _, err := os.Lstat(path); err != nil || index < 0 {
		current := s.CurrentPath()
		if reloadErr := e.reload(current); reloadErr != nil {
			return -1, reloadErr
		}
		return -1, apperr.New(apperr.Filesystem, op, ErrStaleEntry, path, err)
	}
	return index, nil
}

// neighbours returns the paths after and before index in the matches.
func (e *Engine) neighbours(index int) (next, prev string) {
	matches := e.state.Filter.Matches
	if index+1 < len(matches) {
		next = matches[index+1].Path
	}
	if index-1 >= 0 && index-1 < len(matches) {
		prev = matches[index-1].Path
	}
	return next, prev
}

func clampIndex(index, n int) int {
	if n <= 0 {
		return -1
	}
	if index < 0 {
		return 0
	}
	if index >= n {
		return n - 1
	}
	return index
}

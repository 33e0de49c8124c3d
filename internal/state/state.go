package state

import (
	"math"

	fsutil "github.com/kk-code-lab/vimview/internal/fs"
	"github.com/kk-code-lab/vimview/internal/keymap"
	search "github.com/kk-code-lab/vimview/internal/search"
)

// FileEntry mirrors fs.Entry so UI code can rely on a stable type.
type FileEntry = fsutil.Entry
type FilterState = search.FilterState
type Mode = keymap.Mode

const (
	zoomStep = 1.25
	minZoom  = 1.0 / 64
	maxZoom  = 64.0
)

// SuggestionPage is how many search suggestions are shown at once.
const SuggestionPage = 6

// ViewState is the transient presentation state of the current image.
// Zoom 0 means fit to screen.
type ViewState struct {
	Zoom     float64
	Rotation int
}

// Fit reports whether the image is scaled to fit.
func (v ViewState) Fit() bool {
	return v.Zoom == 0
}

// ZoomPercent returns the zoom as a whole percentage, or 0 for fit.
func (v ViewState) ZoomPercent() int {
	if v.Fit() {
		return 0
	}
	return int(math.Round(v.Zoom * 100))
}

// PendingKind is the operation awaiting confirmation.
type PendingKind int

const (
	PendingDelete PendingKind = iota
	PendingRename
	PendingMove
)

// Pending is an operation waiting for the user to confirm.
type Pending struct {
	Kind PendingKind
	Path string
	// Target is the new name for a rename or the destination directory for a
	// move.
	Target string
	// CreateTarget allows a missing quick-folder destination to be created.
	CreateTarget bool
	Message      string
}

// PromptPurpose says what a text prompt is collecting.
type PromptPurpose int

const (
	PromptRename PromptPurpose = iota
	PromptMoveDestination
	PromptOpenDirectory
)

// PromptState is an active single-line text prompt.
type PromptState struct {
	Purpose PromptPurpose
	Label   string
	Buffer  []rune
	// returnMode is restored when the prompt closes.
	returnMode Mode
}

// Text returns the prompt buffer.
func (p PromptState) Text() string {
	return string(p.Buffer)
}

// Notice is a short, non-blocking message for the status line.
type Notice struct {
	Text  string
	Error bool
}

// searchSnapshot holds what cancel restores.
type searchSnapshot struct {
	query string
	path  string
	// focus is the last entry viewed while the query had matches.
	focus string
}

// ViewerState is the single source of truth read by the renderer.
type ViewerState struct {
	Mode keymap.Mode

	// Listing is nil on the home screen.
	Listing *fsutil.Listing
	Filter  FilterState
	// Index points into Filter.Matches; -1 when there is no position.
	Index int

	// SearchQuery is the query being typed while Mode is Search.
	SearchQuery []rune

	View          ViewState
	ShowFilmstrip bool
	ShowFilename  bool
	Fullscreen    bool
	ShowHelp      bool

	Notice  Notice
	Pending *Pending
	Prompt  PromptState

	ScreenWidth  int
	ScreenHeight int

	// preSearchPath is the entry viewed before a filter was committed; back
	// returns to it.
	preSearchPath string
	searchSaved   searchSnapshot
}

// Directory returns the viewed directory, or "" on the home screen.
func (s *ViewerState) Directory() string {
	if s.Listing == nil {
		return ""
	}
	return s.Listing.Directory
}

// Entries returns the entries currently navigable.
func (s *ViewerState) Entries() []FileEntry {
	return s.Filter.Matches
}

// Current returns the viewed entry, or nil.
func (s *ViewerState) Current() *FileEntry {
	if s.Index < 0 || s.Index >= len(s.Filter.Matches) {
		return nil
	}
	return &s.Filter.Matches[s.Index]
}

// CurrentPath returns the viewed entry's path, or "".
func (s *ViewerState) CurrentPath() string {
	if cur := s.Current(); cur != nil {
		return cur.Path
	}
	return ""
}

// anchorPath is the entry the viewer stands on. During a search without
// matches it falls back to the last entry viewed before the matches ran out.
func (s *ViewerState) anchorPath() string {
	if path := s.CurrentPath(); path != "" {
		return path
	}
	if s.Mode != keymap.Search {
		return ""
	}
	for _, path := range []string{s.searchSaved.focus, s.searchSaved.path, s.preSearchPath} {
		if path != "" {
			return path
		}
	}
	return ""
}

// Total returns the size of the unfiltered listing.
func (s *ViewerState) Total() int {
	return s.Listing.Len()
}

// FilterActive reports whether a committed filter narrows the view.
func (s *ViewerState) FilterActive() bool {
	return s.Filter.Active()
}

// Suggestions returns the search suggestions around the highlight.
func (s *ViewerState) Suggestions() []search.Suggestion {
	if s.Mode != keymap.Search || len(s.SearchQuery) == 0 {
		return nil
	}
	return search.Suggestions(s.Filter, s.Index, SuggestionPage)
}

func (s *ViewerState) setNotice(text string) {
	s.Notice = Notice{Text: text}
}

func (s *ViewerState) setError(text string) {
	s.Notice = Notice{Text: text, Error: true}
}

func (s *ViewerState) resetView() {
	s.View = ViewState{}
}

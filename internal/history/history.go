// Package history records reversible file operations and applies their
// inverses on undo.
package history

import (
	"errors"
	"time"

	"github.com/kk-code-lab/vimview/internal/apperr"
	fsutil "github.com/kk-code-lab/vimview/internal/fs"
)

var (
	ErrEmptyHistory  = errors.New("nothing to undo")
	ErrInverseFailed = errors.New("undo failed")
)

// Kind identifies the recorded operation.
type Kind int

const (
	Delete Kind = iota
	Move
	Rename
)

func (k Kind) String() string {
	switch k {
	case Delete:
		return "delete"
	case Move:
		return "move"
	case Rename:
		return "rename"
	default:
		return "unknown"
	}
}

// Entry is one undoable operation.
type Entry struct {
	Kind         Kind
	OriginalPath string
	// ResultPath is where the file ended up. Empty for Delete.
	ResultPath  string
	TrashHandle fsutil.Handle
	PerformedAt time.Time
}

// Stack is a LIFO of entries. A limit of 0 keeps every entry; otherwise the
// oldest entries are dropped once the limit is reached.
type Stack struct {
	entries []Entry
	limit   int
	trash   fsutil.Trash
	now     func() time.Time
}

// NewStack builds a stack whose delete inverses go through trash.
func NewStack(trash fsutil.Trash, limit int) *Stack {
	if limit < 0 {
		limit = 0
	}
	return &Stack{
		limit: limit,
		trash: trash,
		now:   time.Now,
	}
}

// Record pushes entry. A zero PerformedAt is filled with the current time.
func (s *Stack) Record(entry Entry) {
	if entry.PerformedAt.IsZero() {
		entry.PerformedAt = s.now()
	}
	s.entries = append(s.entries, entry)
	if s.limit > 0 && len(s.entries) > s.limit {
		s.entries = s.entries[len(s.entries)-s.limit:]
	}
}

// Undo pops the newest entry and applies its inverse. The entry is consumed
// even when the inverse fails; the file stays wherever it currently is.
func (s *Stack) Undo() (Entry, error) {
	if len(s.entries) == 0 {
		return Entry{}, apperr.New(apperr.Undo, "undo", ErrEmptyHistory, "", nil)
	}
	last := s.entries[len(s.entries)-1]
	s.entries[len(s.entries)-1] = Entry{}
	s.entries = s.entries[:len(s.entries)-1]

	if err := s.inverse(last); err != nil {
		return last, apperr.New(apperr.Undo, "undo "+last.Kind.String(), ErrInverseFailed, last.OriginalPath, err)
	}
	return last, nil
}

func (s *Stack) inverse(entry Entry) error {
	switch entry.Kind {
	case Delete:
		if s.trash == nil {
			return errors.New("no trash configured")
		}
		return s.trash.Restore(entry.TrashHandle, entry.OriginalPath)
	case Move, Rename:
		return fsutil.MoveFile(entry.ResultPath, entry.OriginalPath)
	default:
		return errors.New("unknown history entry")
	}
}

// Len returns the number of entries.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Clear drops every entry.
func (s *Stack) Clear() {
	s.entries = nil
}

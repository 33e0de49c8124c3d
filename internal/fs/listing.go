package fs

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/kk-code-lab/vimview/internal/apperr"
)

var (
	ErrNotADirectory    = errors.New("not a directory")
	ErrPermissionDenied = errors.New("permission denied")
)

// Listing is the ordered set of images in one directory.
type Listing struct {
	Directory string
	Entries   []Entry
}

// ReadListing enumerates the images in dir. The directory is made absolute
// with symlinks resolved, so one directory always has one identity.
func ReadListing(dir string) (*Listing, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, apperr.New(apperr.Filesystem, "read listing", ErrNotADirectory, dir, err)
	}
	// A missing directory is reported by readImages.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	entries, err := readImages(abs)
	if err != nil {
		return nil, err
	}
	return &Listing{Directory: abs, Entries: entries}, nil
}

// Refresh re-enumerates the directory. On error the previous entries are
// kept so a failed refresh never leaves a partial listing behind.
func (l *Listing) Refresh() error {
	entries, err := readImages(l.Directory)
	if err != nil {
		return err
	}
	l.Entries = entries
	return nil
}

// IndexOf locates path in the listing, or -1.
func (l *Listing) IndexOf(path string) int {
	return IndexOfPath(l.Entries, path)
}

// Len returns the number of entries.
func (l *Listing) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Entries)
}

// IndexOfPath locates path in entries, or -1.
func IndexOfPath(entries []Entry, path string) int {
	if path == "" {
		return -1
	}
	for idx := range entries {
		if entries[idx].Path == path {
			return idx
		}
	}
	return -1
}

func readImages(dir string) ([]Entry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, classifyDirError(dir, err)
	}
	if !info.IsDir() {
		return nil, apperr.New(apperr.Filesystem, "read listing", ErrNotADirectory, dir, nil)
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, classifyDirError(dir, err)
	}

	images := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if IsHidden(name) || !IsImageName(name) {
			continue
		}
		fi, err := de.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		if fi.Mode()&os.ModeSymlink != 0 {
			target, err := os.Stat(filepath.Join(dir, name))
			if err != nil || target.IsDir() {
				continue
			}
		} else if fi.IsDir() {
			continue
		}
		images = append(images, newEntry(dir, fi))
	}

	sortEntries(images)
	return images, nil
}

// sortEntries orders by case-folded name; the raw name breaks ties so the
// order is total and deterministic.
func sortEntries(entries []Entry) {
	keys := make(map[string]string, len(entries))
	for _, e := range entries {
		keys[e.Path] = FoldKey(e.Name)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		ki, kj := keys[entries[i].Path], keys[entries[j].Path]
		if ki != kj {
			return ki < kj
		}
		return entries[i].Name < entries[j].Name
	})
}

func classifyDirError(dir string, err error) error {
	switch {
	case errors.Is(err, os.ErrPermission):
		return apperr.New(apperr.Filesystem, "read listing", ErrPermissionDenied, dir, err)
	default:
		return apperr.New(apperr.Filesystem, "read listing", ErrNotADirectory, dir, err)
	}
}

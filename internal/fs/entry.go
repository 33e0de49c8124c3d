package fs

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Entry represents a single image file on disk. Identity is Path.
type Entry struct {
	Name     string // NFC-normalised display name
	Path     string // absolute, cleaned
	Size     int64
	Modified time.Time
	Mode     os.FileMode
}

// imagePattern is matched against the lower-cased file name.
var imagePattern = glob.MustCompile("*.{png,jpg,jpeg,gif,bmp,webp}")

var folder = cases.Fold()

// IsImageName reports whether name carries a recognised image extension.
func IsImageName(name string) bool {
	return imagePattern.Match(strings.ToLower(name))
}

// IsHidden reports whether name is a dot-file. Hidden entries never appear
// in listings, which also keeps the trash directory out of view.
func IsHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}

// DisplayName normalises a raw directory entry name for display and matching.
func DisplayName(raw string) string {
	return norm.NFC.String(raw)
}

// FoldKey returns the case-folded form used for ordering and matching.
func FoldKey(name string) string {
	return folder.String(name)
}

func newEntry(dir string, info os.FileInfo) Entry {
	return Entry{
		Name:     DisplayName(info.Name()),
		Path:     filepath.Join(dir, info.Name()),
		Size:     info.Size(),
		Modified: info.ModTime(),
		Mode:     info.Mode(),
	}
}

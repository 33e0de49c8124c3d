package fs

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/kk-code-lab/vimview/internal/apperr"
)

// TrashDirName is created inside each directory that has had files deleted.
const TrashDirName = ".vimview_trash"

var ErrTrashMissing = errors.New("trashed file missing")

// Handle identifies a trashed file.
type Handle struct {
	TrashPath    string
	OriginalPath string
}

// Trash is the recoverable-delete capability.
type Trash interface {
	MoveToTrash(path string) (Handle, error)
	Restore(h Handle, destination string) error
}

// DirTrash keeps trashed files in a hidden directory next to the original.
type DirTrash struct{}

// NewDirTrash returns the per-directory trash.
func NewDirTrash() *DirTrash {
	return &DirTrash{}
}

// MoveToTrash moves path into its directory's trash under a unique name.
func (t *DirTrash) MoveToTrash(path string) (Handle, error) {
	trashDir := filepath.Join(filepath.Dir(path), TrashDirName)
	if err := os.MkdirAll(trashDir, 0o755); err != nil {
		return Handle{}, apperr.New(apperr.Filesystem, "trash", classifyOpSentinel(err), trashDir, err)
	}

	target := filepath.Join(trashDir, uuid.NewString()+"_"+filepath.Base(path))
	if err := MoveFile(path, target); err != nil {
		return Handle{}, err
	}
	return Handle{TrashPath: target, OriginalPath: path}, nil
}

// Restore moves a trashed file back to destination. It refuses to overwrite.
func (t *DirTrash) Restore(h Handle, destination string) error {
	if _, err := os.Lstat(h.TrashPath); err != nil {
		return apperr.New(apperr.Filesystem, "restore", ErrTrashMissing, h.TrashPath, err)
	}
	if err := MoveFile(h.TrashPath, destination); err != nil {
		return err
	}
	// The trash directory is left in place when other files remain in it.
	_ = os.Remove(filepath.Dir(h.TrashPath))
	return nil
}

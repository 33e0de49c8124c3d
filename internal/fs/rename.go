package fs

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/kk-code-lab/vimview/internal/apperr"
)

var (
	ErrInvalidName         = errors.New("invalid name")
	ErrNameCollision       = errors.New("name already in use")
	ErrDestinationNotFound = errors.New("destination not found")
)

// NormalizeRename turns user input into a file name for src. A missing
// extension is taken from the current name. The result must stay a visible
// image so the renamed entry remains in the listing.
func NormalizeRename(src, input string) (string, error) {
	name := strings.TrimSpace(input)
	switch {
	case name == "", name == ".", name == "..":
		return "", apperr.New(apperr.Validation, "rename", ErrInvalidName, input, nil)
	case strings.ContainsAny(name, `/\`), strings.ContainsRune(name, 0):
		return "", apperr.New(apperr.Validation, "rename", ErrInvalidName, input, nil)
	case IsHidden(name):
		return "", apperr.New(apperr.Validation, "rename", ErrInvalidName, input, nil)
	}

	if filepath.Ext(name) == "" {
		name += filepath.Ext(src)
	}
	if !IsImageName(name) {
		return "", apperr.New(apperr.Validation, "rename", ErrInvalidName, input, nil)
	}
	return name, nil
}

// RenameFile renames src to newName within the same directory and returns
// the resulting path. Renaming to the current name returns src and does
// nothing.
func RenameFile(src, newName string) (string, error) {
	name, err := NormalizeRename(src, newName)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(filepath.Dir(src), name)
	if dst == src {
		return src, nil
	}
	if taken, err := Occupied(src, dst); err != nil {
		return "", apperr.New(apperr.Filesystem, "rename", classifyOpSentinel(err), dst, err)
	} else if taken {
		return "", apperr.New(apperr.Validation, "rename", ErrNameCollision, dst, nil)
	}
	if err := MoveFile(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// ResolveDestination validates a move target directory. Relative paths are
// taken relative to base.
func ResolveDestination(base, target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", apperr.New(apperr.Validation, "move", ErrDestinationNotFound, target, nil)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(base, target)
	}
	target = filepath.Clean(target)
	info, err := statDir(target)
	if err != nil || !info {
		return "", apperr.New(apperr.Validation, "move", ErrDestinationNotFound, target, err)
	}
	return target, nil
}

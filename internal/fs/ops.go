package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kk-code-lab/vimview/internal/apperr"
)

var (
	ErrTargetExists  = errors.New("target already exists")
	ErrSourceMissing = errors.New("source missing")
)

// maxUniqueAttempts bounds the stem_N search in UniqueDestination.
const maxUniqueAttempts = 1000

// MoveFile moves src to dst without ever overwriting dst. A plain rename is
// tried first; cross-device moves fall back to copy and remove.
func MoveFile(src, dst string) error {
	if _, err := os.Lstat(src); err != nil {
		if os.IsNotExist(err) {
			return apperr.New(apperr.Filesystem, "move", ErrSourceMissing, src, err)
		}
		return apperr.New(apperr.Filesystem, "move", classifyOpSentinel(err), src, err)
	}
	if exists, err := Occupied(src, dst); err != nil {
		return apperr.New(apperr.Filesystem, "move", classifyOpSentinel(err), dst, err)
	} else if exists {
		return apperr.New(apperr.Filesystem, "move", ErrTargetExists, dst, nil)
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	} else if !isCrossDevice(err) {
		return apperr.New(apperr.Filesystem, "move", classifyOpSentinel(err), src, err)
	}

	if err := copyFile(src, dst); err != nil {
		_ = os.Remove(dst)
		return apperr.New(apperr.Filesystem, "move", classifyOpSentinel(err), src, err)
	}
	if err := os.Remove(src); err != nil {
		_ = os.Remove(dst)
		return apperr.New(apperr.Filesystem, "move", classifyOpSentinel(err), src, err)
	}
	return nil
}

// Occupied reports whether dst is taken by a file other than src. A
// case-only rename on a case-insensitive filesystem resolves dst to src
// itself, which does not count.
func Occupied(src, dst string) (bool, error) {
	dstInfo, err := os.Lstat(dst)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	srcInfo, err := os.Lstat(src)
	if err == nil && os.SameFile(srcInfo, dstInfo) {
		return false, nil
	}
	return true, nil
}

// UniqueDestination returns dir/name, or dir/stem_N.ext for the first free N.
func UniqueDestination(dir, name string) (string, error) {
	candidate := filepath.Join(dir, name)
	if _, err := os.Lstat(candidate); os.IsNotExist(err) {
		return candidate, nil
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for counter := 1; counter <= maxUniqueAttempts; counter++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", apperr.New(apperr.Filesystem, "unique name", ErrTargetExists, filepath.Join(dir, name),
		fmt.Errorf("no free name after %d attempts", maxUniqueAttempts))
}

// Exists reports whether path is present (without following symlinks).
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return false
	}
	return strings.Contains(strings.ToLower(linkErr.Err.Error()), "cross-device") ||
		strings.Contains(strings.ToLower(linkErr.Err.Error()), "not same device")
}

func classifyOpSentinel(err error) error {
	switch {
	case errors.Is(err, os.ErrPermission):
		return ErrPermissionDenied
	case errors.Is(err, os.ErrNotExist):
		return ErrSourceMissing
	case errors.Is(err, os.ErrExist):
		return ErrTargetExists
	default:
		return nil
	}
}

func statDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// EnsureDir creates path (and parents) when missing.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return apperr.New(apperr.Filesystem, "mkdir", classifyOpSentinel(err), path, err)
	}
	return nil
}

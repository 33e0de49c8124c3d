package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kk-code-lab/vimview/internal/apperr"
)

func TestMoveFileRefusesOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "a.png", "b.png")

	err := MoveFile(filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png"))
	if !errors.Is(err, ErrTargetExists) {
		t.Fatalf("expected ErrTargetExists, got %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "b.png"))
	if string(data) != "b.png" {
		t.Fatalf("target was overwritten")
	}
	if !Exists(filepath.Join(dir, "a.png")) {
		t.Fatalf("source must stay in place after a failed move")
	}
}

func TestMoveFileMissingSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := MoveFile(filepath.Join(dir, "gone.png"), filepath.Join(dir, "x.png"))
	if !errors.Is(err, ErrSourceMissing) {
		t.Fatalf("expected ErrSourceMissing, got %v", err)
	}
}

func TestUniqueDestination(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got, err := UniqueDestination(dir, "a.png")
	if err != nil || got != filepath.Join(dir, "a.png") {
		t.Fatalf("expected free name, got %q, %v", got, err)
	}

	touch(t, dir, "a.png", "a_1.png")
	got, err = UniqueDestination(dir, "a.png")
	if err != nil {
		t.Fatalf("UniqueDestination failed: %v", err)
	}
	if got != filepath.Join(dir, "a_2.png") {
		t.Fatalf("expected a_2.png, got %q", got)
	}
}

func TestRenameFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "a.png", "taken.png")
	src := filepath.Join(dir, "a.png")

	dst, err := RenameFile(src, "holiday")
	if err != nil {
		t.Fatalf("RenameFile failed: %v", err)
	}
	if dst != filepath.Join(dir, "holiday.png") {
		t.Fatalf("expected extension to be appended, got %q", dst)
	}
	if Exists(src) || !Exists(dst) {
		t.Fatalf("rename did not move the file")
	}

	if _, err := RenameFile(dst, "taken.png"); !errors.Is(err, ErrNameCollision) {
		t.Fatalf("expected ErrNameCollision, got %v", err)
	}

	same, err := RenameFile(dst, "holiday.png")
	if err != nil || same != dst {
		t.Fatalf("same-name rename should be a no-op, got %q, %v", same, err)
	}
}

func TestNormalizeRenameRejectsBadInput(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "..", "sub/dir.png", ".hidden.png", "notes.txt"} {
		_, err := NormalizeRename("/pics/a.png", input)
		if !errors.Is(err, ErrInvalidName) {
			t.Errorf("input %q: expected ErrInvalidName, got %v", input, err)
			continue
		}
		if !apperr.IsKind(err, apperr.Validation) {
			t.Errorf("input %q: expected validation kind", input)
		}
	}
}

func TestResolveDestination(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "keep"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := ResolveDestination(dir, "keep")
	if err != nil || got != filepath.Join(dir, "keep") {
		t.Fatalf("expected relative destination to resolve, got %q, %v", got, err)
	}
	if _, err := ResolveDestination(dir, "missing"); !errors.Is(err, ErrDestinationNotFound) {
		t.Fatalf("expected ErrDestinationNotFound, got %v", err)
	}
}

func TestTrashRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "a.png")
	src := filepath.Join(dir, "a.png")
	trash := NewDirTrash()

	handle, err := trash.MoveToTrash(src)
	if err != nil {
		t.Fatalf("MoveToTrash failed: %v", err)
	}
	if Exists(src) {
		t.Fatalf("file should have left its directory")
	}
	if filepath.Dir(handle.TrashPath) != filepath.Join(dir, TrashDirName) {
		t.Fatalf("unexpected trash location %q", handle.TrashPath)
	}
	if !strings.HasSuffix(handle.TrashPath, "_a.png") {
		t.Fatalf("trash name should keep the original name, got %q", handle.TrashPath)
	}

	listing, err := ReadListing(dir)
	if err != nil {
		t.Fatalf("ReadListing failed: %v", err)
	}
	if listing.Len() != 0 {
		t.Fatalf("trash directory must stay hidden, got %v", entryNames(listing.Entries))
	}

	if err := trash.Restore(handle, src); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !Exists(src) {
		t.Fatalf("file not restored")
	}
	if Exists(filepath.Join(dir, TrashDirName)) {
		t.Fatalf("empty trash directory should be removed")
	}
}

func TestTrashRestoreRefusesOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "a.png")
	src := filepath.Join(dir, "a.png")
	trash := NewDirTrash()

	handle, err := trash.MoveToTrash(src)
	if err != nil {
		t.Fatalf("MoveToTrash failed: %v", err)
	}
	touch(t, dir, "a.png")

	if err := trash.Restore(handle, src); !errors.Is(err, ErrTargetExists) {
		t.Fatalf("expected ErrTargetExists, got %v", err)
	}
	if !Exists(handle.TrashPath) {
		t.Fatalf("trashed file must stay in the trash")
	}
}

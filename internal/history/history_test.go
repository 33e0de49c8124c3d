package history

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kk-code-lab/vimview/internal/apperr"
	fsutil "github.com/kk-code-lab/vimview/internal/fs"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(filepath.Base(path)), 0o644); err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
}

func TestUndoEmptyHistory(t *testing.T) {
	t.Parallel()

	stack := NewStack(fsutil.NewDirTrash(), 0)
	_, err := stack.Undo()
	if !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("expected ErrEmptyHistory, got %v", err)
	}
	if !apperr.IsKind(err, apperr.Undo) {
		t.Fatalf("expected undo kind")
	}
}

func TestUndoDeleteRestoresFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	writeFile(t, path)

	trash := fsutil.NewDirTrash()
	handle, err := trash.MoveToTrash(path)
	if err != nil {
		t.Fatalf("MoveToTrash failed: %v", err)
	}

	stack := NewStack(trash, 0)
	stack.Record(Entry{Kind: Delete, OriginalPath: path, TrashHandle: handle})

	entry, err := stack.Undo()
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if entry.Kind != Delete || entry.OriginalPath != path {
		t.Fatalf("unexpected undone entry %+v", entry)
	}
	if !fsutil.Exists(path) {
		t.Fatalf("file was not restored")
	}
	if stack.Len() != 0 {
		t.Fatalf("entry should be consumed")
	}
}

func TestUndoMoveAndRenameAreLIFO(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	orig := filepath.Join(dir, "a.png")
	renamed := filepath.Join(dir, "b.png")
	sub := filepath.Join(dir, "folder_1")
	moved := filepath.Join(sub, "b.png")
	writeFile(t, orig)
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	stack := NewStack(fsutil.NewDirTrash(), 0)
	if err := fsutil.MoveFile(orig, renamed); err != nil {
		t.Fatalf("rename: %v", err)
	}
	stack.Record(Entry{Kind: Rename, OriginalPath: orig, ResultPath: renamed})
	if err := fsutil.MoveFile(renamed, moved); err != nil {
		t.Fatalf("move: %v", err)
	}
	stack.Record(Entry{Kind: Move, OriginalPath: renamed, ResultPath: moved})

	if top := stack.entries[stack.Len()-1]; top.Kind != Move {
		t.Fatalf("expected move on top, got %+v", top)
	}

	if _, err := stack.Undo(); err != nil {
		t.Fatalf("undo move: %v", err)
	}
	if !fsutil.Exists(renamed) || fsutil.Exists(moved) {
		t.Fatalf("move not reverted")
	}
	if _, err := stack.Undo(); err != nil {
		t.Fatalf("undo rename: %v", err)
	}
	if !fsutil.Exists(orig) || fsutil.Exists(renamed) {
		t.Fatalf("rename not reverted")
	}
}

func TestUndoInverseFailureConsumesEntry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	orig := filepath.Join(dir, "a.png")
	result := filepath.Join(dir, "b.png")
	writeFile(t, result)
	writeFile(t, orig) // occupies the inverse target

	stack := NewStack(fsutil.NewDirTrash(), 0)
	stack.Record(Entry{Kind: Rename, OriginalPath: orig, ResultPath: result})

	_, err := stack.Undo()
	if !errors.Is(err, ErrInverseFailed) {
		t.Fatalf("expected ErrInverseFailed, got %v", err)
	}
	if !errors.Is(err, fsutil.ErrTargetExists) {
		t.Fatalf("cause should be preserved, got %v", err)
	}
	if stack.Len() != 0 {
		t.Fatalf("failed entry must not be re-pushed")
	}
	if !fsutil.Exists(result) {
		t.Fatalf("file must stay where it was")
	}
}

func TestRecordRespectsLimit(t *testing.T) {
	t.Parallel()

	stack := NewStack(nil, 2)
	for _, name := range []string{"a", "b", "c"} {
		stack.Record(Entry{Kind: Move, OriginalPath: name})
	}
	if stack.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", stack.Len())
	}
	if top := stack.entries[stack.Len()-1]; top.OriginalPath != "c" {
		t.Fatalf("newest entry should survive, got %q", top.OriginalPath)
	}
	if stack.entries[0].OriginalPath != "b" {
		t.Fatalf("oldest entry should be dropped, got %q", stack.entries[0].OriginalPath)
	}
	if stack.entries[0].PerformedAt.IsZero() {
		t.Fatalf("PerformedAt should be filled")
	}

	stack.Clear()
	if stack.Len() != 0 {
		t.Fatalf("Clear should empty the stack")
	}
}

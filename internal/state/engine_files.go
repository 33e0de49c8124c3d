package state

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kk-code-lab/vimview/internal/apperr"
	"github.com/kk-code-lab/vimview/internal/config"
	fsutil "github.com/kk-code-lab/vimview/internal/fs"
	"github.com/kk-code-lab/vimview/internal/history"
	"github.com/kk-code-lab/vimview/internal/keymap"
)

// ===== DELETE =====

func (e *Engine) requestDelete() error {
	cur := e.state.Current()
	if cur == nil {
		return nil
	}
	if e.cfg.Settings.RequireConfirmation {
		e.confirm(&Pending{
			Kind:    PendingDelete,
			Path:    cur.Path,
			Message: fmt.Sprintf("trash %s?", cur.Name),
		})
		return nil
	}
	return e.performDelete(cur.Path)
}

func (e *Engine) performDelete(path string) error {
	index, err := e.ensureCurrent("delete", path)
	if err != nil {
		return err
	}
	next, prev := e.neighbours(index)

	handle, err := e.trash.MoveToTrash(path)
	if err != nil {
		return err
	}
	e.history.Record(history.Entry{
		Kind:         history.Delete,
		OriginalPath: path,
		TrashHandle:  handle,
	})
	logAction("delete", path)

	e.state.Index = index
	if err := e.reload(next, prev); err != nil {
		return err
	}
	if e.state.Notice.Text == "" {
		e.state.setNotice("trashed " + filepath.Base(path))
	}
	return nil
}

// ===== CLIPBOARD =====

func (e *Engine) copyImage() error {
	cur := e.state.Current()
	if cur == nil {
		return nil
	}
	if err := e.putImage(cur.Path); err != nil {
		return err
	}
	e.state.setNotice("copied to clipboard")
	return nil
}

// cut writes the image to the clipboard and then deletes it with the usual
// confirmation and undo rules. Nothing is deleted if the clipboard fails.
func (e *Engine) cut() error {
	cur := e.state.Current()
	if cur == nil {
		return nil
	}
	if err := e.putImage(cur.Path); err != nil {
		return err
	}
	if err := e.requestDelete(); err != nil {
		return err
	}
	if e.state.Mode == keymap.Normal {
		e.state.setNotice("cut to clipboard")
	}
	return nil
}

func (e *Engine) copyPath() error {
	cur := e.state.Current()
	if cur == nil {
		return nil
	}
	if e.clipboard == nil {
		return apperr.New(apperr.External, "copy path", ErrClipboardUnavailable, "", nil)
	}
	if err := e.clipboard.PutText(cur.Path); err != nil {
		return apperr.New(apperr.External, "copy path", ErrClipboardUnavailable, cur.Path, err)
	}
	e.state.setNotice("path copied to clipboard")
	return nil
}

func (e *Engine) putImage(path string) error {
	if e.clipboard == nil {
		return apperr.New(apperr.External, "copy", ErrClipboardUnavailable, "", nil)
	}
	data, err := e.readFile(path)
	if err != nil {
		return apperr.New(apperr.Filesystem, "copy", fsutil.ErrSourceMissing, path, err)
	}
	if err := e.clipboard.PutImage(data); err != nil {
		return apperr.New(apperr.External, "copy", ErrClipboardUnavailable, path, err)
	}
	return nil
}

// ===== RENAME =====

func (e *Engine) startRename() {
	cur := e.state.Current()
	if cur == nil {
		return
	}
	stem := strings.TrimSuffix(cur.Name, filepath.Ext(cur.Name))
	e.openPrompt(PromptRename, "new file name:", stem)
}

// acceptRename validates the prompt text. Validation failures keep the
// prompt open so the user can correct the name.
func (e *Engine) acceptRename(text string) error {
	s := e.state
	cur := s.Current()
	if cur == nil {
		e.closePrompt()
		return nil
	}
	path := cur.Path

	name, err := fsutil.NormalizeRename(path, text)
	if err != nil {
		return err
	}
	if name == filepath.Base(path) {
		e.closePrompt()
		s.setNotice("name unchanged")
		return nil
	}
	target := filepath.Join(filepath.Dir(path), name)
	if taken, err := fsutil.Occupied(path, target); err != nil {
		return apperr.New(apperr.Filesystem, "rename", nil, target, err)
	} else if taken {
		return apperr.New(apperr.Validation, "rename", fsutil.ErrNameCollision, target, nil)
	}

	e.closePrompt()
	if e.cfg.Settings.RequireConfirmation {
		e.confirm(&Pending{
			Kind:    PendingRename,
			Path:    path,
			Target:  name,
			Message: fmt.Sprintf("rename to %s?", name),
		})
		return nil
	}
	return e.performRename(path, name)
}

func (e *Engine) performRename(path, name string) error {
	if _, err := e.ensureCurrent("rename", path); err != nil {
		return err
	}

	dst, err := fsutil.RenameFile(path, name)
	if err != nil {
		return err
	}
	if dst == path {
		e.state.setNotice("name unchanged")
		return nil
	}
	e.history.Record(history.Entry{
		Kind:         history.Rename,
		OriginalPath: path,
		ResultPath:   dst,
	})
	logAction("rename", dst)

	if err := e.reload(dst); err != nil {
		return err
	}
	e.state.setNotice("renamed to " + filepath.Base(dst))
	return nil
}

// ===== MOVE =====

func (e *Engine) acceptMoveDestination(text string) error {
	s := e.state
	cur := s.Current()
	if cur == nil {
		e.closePrompt()
		return nil
	}

	expanded, err := config.ExpandHome(strings.TrimSpace(text))
	if err != nil {
		expanded = text
	}
	dest, err := fsutil.ResolveDestination(s.Directory(), expanded)
	if err != nil {
		return err
	}
	if dest == s.Directory() {
		return apperr.New(apperr.Validation, "move", ErrSameDirectory, dest, nil)
	}

	e.closePrompt()
	return e.requestMove(cur.Path, dest, false)
}

func (e *Engine) quickMove(folder string) error {
	s := e.state
	cur := s.Current()
	if cur == nil {
		return nil
	}

	target, err := config.ExpandHome(folder)
	if err != nil {
		target = folder
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(s.Directory(), target)
	}
	target = filepath.Clean(target)
	if target == s.Directory() {
		return apperr.New(apperr.Validation, "move", ErrSameDirectory, target, nil)
	}

	create := e.cfg.Settings.CreateQuickFolders
	if !create {
		if _, err := fsutil.ResolveDestination(s.Directory(), target); err != nil {
			return err
		}
	}
	return e.requestMove(cur.Path, target, create)
}

func (e *Engine) requestMove(path, dest string, create bool) error {
	if e.cfg.Settings.RequireConfirmation {
		e.confirm(&Pending{
			Kind:         PendingMove,
			Path:         path,
			Target:       dest,
			CreateTarget: create,
			Message:      fmt.Sprintf("move to %s?", filepath.Base(dest)),
		})
		return nil
	}
	return e.performMove(path, dest, create)
}

func (e *Engine) performMove(path, dest string, create bool) error {
	index, err := e.ensureCurrent("move", path)
	if err != nil {
		return err
	}
	if create {
		if err := fsutil.EnsureDir(dest); err != nil {
			return err
		}
	} else if _, err := fsutil.ResolveDestination(dest, dest); err != nil {
		return err
	}
	next, prev := e.neighbours(index)

	dst, err := fsutil.UniqueDestination(dest, filepath.Base(path))
	if err != nil {
		return err
	}
	if err := fsutil.MoveFile(path, dst); err != nil {
		return err
	}
	e.history.Record(history.Entry{
		Kind:         history.Move,
		OriginalPath: path,
		ResultPath:   dst,
	})
	logAction("move", dst)

	e.state.Index = index
	if err := e.reload(next, prev); err != nil {
		return err
	}
	if e.state.Notice.Text == "" {
		e.state.setNotice("moved to " + filepath.Base(dest))
	}
	return nil
}

// ===== UNDO =====

// undo reverts the newest operation and points at the restored file when it
// is visible; otherwise the current image stays selected.
func (e *Engine) undo() error {
	current := e.state.CurrentPath()
	entry, err := e.history.Undo()
	if err != nil {
		if e.state.Listing != nil && entry.OriginalPath != "" {
			_ = e.reload(current)
		}
		return err
	}
	logAction("undo "+entry.Kind.String(), entry.OriginalPath)

	if err := e.reload(entry.OriginalPath, current); err != nil {
		return err
	}
	e.state.setNotice(fmt.Sprintf("undo: %s reverted", entry.Kind))
	return nil
}

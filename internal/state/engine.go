package state

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/kk-code-lab/vimview/internal/apperr"
	"github.com/kk-code-lab/vimview/internal/config"
	fsutil "github.com/kk-code-lab/vimview/internal/fs"
	"github.com/kk-code-lab/vimview/internal/history"
	"github.com/kk-code-lab/vimview/internal/keymap"
	"github.com/kk-code-lab/vimview/internal/logging"
	"github.com/kk-code-lab/vimview/internal/session"
)

var (
	ErrEmptyDirectory       = errors.New("no images in directory")
	ErrStaleEntry           = errors.New("image changed on disk")
	ErrSameDirectory        = errors.New("already in that folder")
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
)

// Clipboard is the clipboard capability used by copy, cut and copy-path.
type Clipboard interface {
	PutText(text string) error
	PutImage(data []byte) error
}

// Options wires the engine to its collaborators. Nil fields get defaults
// where one exists; a nil Sessions store disables persistence.
type Options struct {
	Config     *config.Config
	Sessions   session.Store
	Trash      fsutil.Trash
	Clipboard  Clipboard
	SaveConfig func(*config.Config) error
}

// Engine owns the viewer state and applies actions to it. It is not safe
// for concurrent use; the app loop serialises every action.
type Engine struct {
	state      *ViewerState
	cfg        *config.Config
	history    *history.Stack
	sessions   session.Store
	trash      fsutil.Trash
	clipboard  Clipboard
	saveConfig func(*config.Config) error
	readFile   func(string) ([]byte, error)
}

// NewEngine builds an engine on the home screen.
func NewEngine(opts Options) *Engine {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	trash := opts.Trash
	if trash == nil {
		trash = fsutil.NewDirTrash()
	}

	return &Engine{
		state: &ViewerState{
			Mode:          keymap.Home,
			Index:         -1,
			ShowFilmstrip: true,
			ShowFilename:  cfg.Settings.ShowFilename,
		},
		cfg:        cfg,
		history:    history.NewStack(trash, cfg.Settings.UndoLimit),
		sessions:   opts.Sessions,
		trash:      trash,
		clipboard:  opts.Clipboard,
		saveConfig: opts.SaveConfig,
		readFile:   os.ReadFile,
	}
}

// State returns the current state. Callers must treat it as read-only.
func (e *Engine) State() *ViewerState {
	return e.state
}

// Shutdown persists the session as quitting would.
func (e *Engine) Shutdown() error {
	return e.persist()
}

// Reduce applies action. Recoverable failures leave a notice in the state
// and are returned for logging; the state stays consistent either way.
func (e *Engine) Reduce(action Action) error {
	switch action.(type) {
	case ResizeAction, DirectoryChangedAction, TerminateAction, SuspendAction:
	default:
		e.state.Notice = Notice{}
	}

	err := e.reduce(action)
	if err != nil {
		e.state.setError(noticeFor(err))
	}
	return err
}

func (e *Engine) reduce(action Action) error {
	s := e.state

	switch a := action.(type) {

	// ===== HOME =====

	case OpenDefaultAction:
		if s.Mode != keymap.Home {
			return nil
		}
		dir, err := e.cfg.ResolveDefaultDirectory()
		if err != nil {
			return apperr.New(apperr.Config, "default directory", nil, e.cfg.Settings.DefaultDirectory, err)
		}
		return e.openDirectory(dir)

	case OpenDialogAction:
		if s.Mode != keymap.Home {
			return nil
		}
		start, _ := e.cfg.ResolveDefaultDirectory()
		if start != "" {
			start = filepath.Dir(start) + string(filepath.Separator)
		}
		e.openPrompt(PromptOpenDirectory, "open directory:", start)
		return nil

	case OpenDirectoryAction:
		return e.openDirectory(a.Path)

	case RestoreSessionAction:
		if s.Mode != keymap.Home {
			return nil
		}
		return e.restoreSession()

	// ===== NAVIGATION =====

	case NextAction:
		if e.viewing() {
			e.step(1)
		}
		return nil

	case PrevAction:
		if e.viewing() {
			e.step(-1)
		}
		return nil

	case BackAction:
		if !e.viewing() {
			return nil
		}
		return e.back()

	case QuitAction:
		if s.Mode == keymap.Home {
			return nil
		}
		return e.goHome()

	// ===== FILE OPERATIONS =====

	case DeleteAction:
		if !e.viewing() {
			return nil
		}
		return e.requestDelete()

	case CutAction:
		if !e.viewing() {
			return nil
		}
		return e.cut()

	case CopyAction:
		if !e.viewing() {
			return nil
		}
		return e.copyImage()

	case CopyPathAction:
		if !e.viewing() {
			return nil
		}
		return e.copyPath()

	case RenameAction:
		if !e.viewing() {
			return nil
		}
		e.startRename()
		return nil

	case MoveCustomAction:
		if !e.viewing() || s.Current() == nil {
			return nil
		}
		e.openPrompt(PromptMoveDestination, "move to folder:", s.Directory()+string(filepath.Separator))
		return nil

	case MoveModeAction:
		if !e.viewing() || s.Current() == nil {
			return nil
		}
		if len(e.cfg.QuickFolders) == 0 {
			s.setNotice("no quick folders configured")
			return nil
		}
		s.Mode = keymap.QuickMove
		return nil

	case QuickFolderAction:
		if s.Mode != keymap.QuickMove {
			return nil
		}
		s.Mode = keymap.Normal
		return e.quickMove(a.Folder)

	case UndoAction:
		if !e.viewing() {
			return nil
		}
		return e.undo()

	// ===== TEXT ENTRY =====

	case SearchStartAction:
		if !e.viewing() {
			return nil
		}
		e.startSearch()
		return nil

	case TextCharAction:
		switch s.Mode {
		case keymap.Search:
			s.SearchQuery = append(s.SearchQuery, a.Char)
			e.recomputeSearch()
		case keymap.Prompt:
			s.Prompt.Buffer = append(s.Prompt.Buffer, a.Char)
		}
		return nil

	case TextBackspaceAction:
		switch s.Mode {
		case keymap.Search:
			if len(s.SearchQuery) > 0 {
				s.SearchQuery = s.SearchQuery[:len(s.SearchQuery)-1]
				e.recomputeSearch()
			}
		case keymap.Prompt:
			if len(s.Prompt.Buffer) > 0 {
				s.Prompt.Buffer = s.Prompt.Buffer[:len(s.Prompt.Buffer)-1]
			}
		}
		return nil

	case SuggestionMoveAction:
		if s.Mode == keymap.Search {
			e.moveHighlight(a.Delta)
		}
		return nil

	case AcceptAction:
		switch s.Mode {
		case keymap.Search:
			return e.acceptSearch()
		case keymap.Prompt:
			return e.acceptPrompt()
		case keymap.Confirm:
			return e.acceptPending()
		}
		return nil

	case CancelAction:
		switch s.Mode {
		case keymap.Search:
			e.cancelSearch()
		case keymap.Prompt:
			e.closePrompt()
		case keymap.Confirm:
			s.Pending = nil
			s.Mode = keymap.Normal
			s.setNotice("cancelled")
		case keymap.QuickMove:
			s.Mode = keymap.Normal
		}
		return nil

	// ===== VIEW =====

	case ZoomInAction, ZoomOutAction, ZoomRealAction, RotateLeftAction, RotateRightAction,
		ToggleFilmstripAction, FullscreenAction, ShowKeysAction, HideKeysAction:
		e.applyView(action)
		return nil

	case ToggleFilenameAction:
		if !e.viewing() {
			return nil
		}
		return e.toggleFilename()

	case ResizeAction:
		s.ScreenWidth = a.Width
		s.ScreenHeight = a.Height
		return nil

	// ===== APPLICATION =====

	case EditConfigAction:
		s.setNotice("config opened; restart after saving")
		return nil

	case NoticeAction:
		if a.Error {
			s.setError(a.Text)
		} else {
			s.setNotice(a.Text)
		}
		return nil

	case DirectoryChangedAction:
		if s.Listing == nil || a.Directory != s.Listing.Directory {
			return nil
		}
		return e.reload(s.CurrentPath())

	case TerminateAction, SuspendAction:
		return nil
	}

	return nil
}

// viewing reports whether viewer commands apply.
func (e *Engine) viewing() bool {
	return e.state.Mode == keymap.Normal && e.state.Listing != nil
}

func (e *Engine) openPrompt(purpose PromptPurpose, label, initial string) {
	s := e.state
	s.Prompt = PromptState{
		Purpose:    purpose,
		Label:      label,
		Buffer:     []rune(initial),
		returnMode: s.Mode,
	}
	s.Mode = keymap.Prompt
}

func (e *Engine) closePrompt() {
	s := e.state
	s.Mode = s.Prompt.returnMode
	s.Prompt = PromptState{}
}

func (e *Engine) acceptPrompt() error {
	s := e.state
	text := s.Prompt.Text()

	switch s.Prompt.Purpose {
	case PromptOpenDirectory:
		e.closePrompt()
		path, err := config.ExpandHome(text)
		if err != nil {
			return apperr.New(apperr.Validation, "open", fsutil.ErrNotADirectory, text, err)
		}
		return e.openDirectory(path)

	case PromptRename:
		return e.acceptRename(text)

	case PromptMoveDestination:
		return e.acceptMoveDestination(text)
	}

	e.closePrompt()
	return nil
}

func (e *Engine) acceptPending() error {
	s := e.state
	pending := s.Pending
	s.Pending = nil
	s.Mode = keymap.Normal
	if pending == nil {
		return nil
	}

	switch pending.Kind {
	case PendingDelete:
		return e.performDelete(pending.Path)
	case PendingRename:
		return e.performRename(pending.Path, pending.Target)
	case PendingMove:
		return e.performMove(pending.Path, pending.Target, pending.CreateTarget)
	}
	return nil
}

func (e *Engine) confirm(p *Pending) {
	e.state.Pending = p
	e.state.Mode = keymap.Confirm
}

// noticeFor renders err as a short status-line message.
func noticeFor(err error) string {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return err.Error()
	}
	msg := appErr.Op
	if appErr.Sentinel != nil {
		msg = appErr.Sentinel.Error()
	} else if appErr.Err != nil {
		msg += ": " + appErr.Err.Error()
	}
	if appErr.Path != "" && appErr.Sentinel != nil {
		msg += ": " + filepath.Base(appErr.Path)
	}
	return msg
}

func logAction(op, path string) {
	logging.WithOp(op).WithField("path", path).Debug("applied")
}

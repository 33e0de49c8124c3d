package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/vimview/internal/keymap"
	statepkg "github.com/kk-code-lab/vimview/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	bindings   keymap.Bindings
	state      *statepkg.ViewerState // Reference to current state for mode checking
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action, bindings keymap.Bindings) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
		bindings:   bindings,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *statepkg.ViewerState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false once
// the event ends the program.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) mode() keymap.Mode {
	if ih.state == nil {
		return keymap.Home
	}
	return ih.state.Mode
}

// processKeyEvent handles keyboard input
func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		ih.actionChan <- statepkg.TerminateAction{}
		return false
	}
	if ev.Key() == tcell.KeyCtrlZ {
		ih.actionChan <- statepkg.SuspendAction{}
		return true
	}

	// The key overlay swallows the next key.
	if ih.state != nil && ih.state.ShowHelp {
		ih.actionChan <- statepkg.HideKeysAction{}
		return true
	}

	mode := ih.mode()
	cmd, ok := keymap.Resolve(mode, ev, ih.bindings)
	if !ok {
		return true
	}

	if cmd == keymap.Quit && mode == keymap.Home {
		ih.actionChan <- statepkg.QuitAction{}
		return false
	}

	action := ih.actionFor(cmd, ev)
	if action != nil {
		ih.actionChan <- action
	}
	return true
}

// actionFor translates a resolved command. Commands without an action
// (keymap.None) return nil.
func (ih *InputHandler) actionFor(cmd keymap.Command, ev *tcell.EventKey) statepkg.Action {
	switch cmd {
	case keymap.OpenDefault:
		return statepkg.OpenDefaultAction{}
	case keymap.OpenDialog:
		return statepkg.OpenDialogAction{}
	case keymap.RestoreSession:
		return statepkg.RestoreSessionAction{}

	case keymap.Next:
		return statepkg.NextAction{}
	case keymap.Prev:
		return statepkg.PrevAction{}
	case keymap.Back:
		return statepkg.BackAction{}
	case keymap.Quit:
		return statepkg.QuitAction{}

	case keymap.Copy:
		return statepkg.CopyAction{}
	case keymap.Cut:
		return statepkg.CutAction{}
	case keymap.CopyPath:
		return statepkg.CopyPathAction{}
	case keymap.Delete:
		return statepkg.DeleteAction{}
	case keymap.Rename:
		return statepkg.RenameAction{}
	case keymap.MoveMode:
		return statepkg.MoveModeAction{}
	case keymap.MoveCustom:
		return statepkg.MoveCustomAction{}
	case keymap.Undo:
		return statepkg.UndoAction{}

	case keymap.ZoomIn:
		return statepkg.ZoomInAction{}
	case keymap.ZoomOut:
		return statepkg.ZoomOutAction{}
	case keymap.ZoomReal:
		return statepkg.ZoomRealAction{}
	case keymap.RotateLeft:
		return statepkg.RotateLeftAction{}
	case keymap.RotateRight:
		return statepkg.RotateRightAction{}
	case keymap.ToggleFilmstrip:
		return statepkg.ToggleFilmstripAction{}
	case keymap.ToggleFilename:
		return statepkg.ToggleFilenameAction{}
	case keymap.Fullscreen:
		return statepkg.FullscreenAction{}
	case keymap.ShowKeys:
		return statepkg.ShowKeysAction{}
	case keymap.EditConfig:
		return statepkg.EditConfigAction{}

	case keymap.StartSearch:
		return statepkg.SearchStartAction{}
	case keymap.QueryAppend:
		return statepkg.TextCharAction{Char: ev.Rune()}
	case keymap.QueryDelete:
		return statepkg.TextBackspaceAction{}
	case keymap.SuggestionUp:
		return statepkg.SuggestionMoveAction{Delta: -1}
	case keymap.SuggestionDown:
		return statepkg.SuggestionMoveAction{Delta: 1}
	case keymap.SuggestionPageUp:
		return statepkg.SuggestionMoveAction{Delta: -statepkg.SuggestionPage}
	case keymap.SuggestionPageDown:
		return statepkg.SuggestionMoveAction{Delta: statepkg.SuggestionPage}
	case keymap.Accept:
		return statepkg.AcceptAction{}
	case keymap.Cancel:
		return statepkg.CancelAction{}

	case keymap.QuickFolder:
		if folder, ok := ih.bindings.QuickFolderFor(ev); ok {
			return statepkg.QuickFolderAction{Folder: folder}
		}
		return statepkg.CancelAction{}
	}
	return nil
}

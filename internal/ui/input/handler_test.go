package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/vimview/internal/config"
	"github.com/kk-code-lab/vimview/internal/keymap"
	statepkg "github.com/kk-code-lab/vimview/internal/state"
)

func newTestHandler(state *statepkg.ViewerState) (*InputHandler, chan statepkg.Action) {
	actionChan := make(chan statepkg.Action, 4)
	handler := NewInputHandler(actionChan, keymap.NewBindings(config.Default()))
	handler.SetState(state)
	return handler, actionChan
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func expectAction[T statepkg.Action](t *testing.T, actionChan chan statepkg.Action) T {
	t.Helper()
	select {
	case action := <-actionChan:
		typed, ok := action.(T)
		if !ok {
			var zero T
			t.Fatalf("expected %T, got %T", zero, action)
		}
		return typed
	default:
		var zero T
		t.Fatalf("expected %T to be emitted", zero)
		return zero
	}
}

func expectNoAction(t *testing.T, actionChan chan statepkg.Action) {
	t.Helper()
	select {
	case action := <-actionChan:
		t.Fatalf("expected no action, got %T", action)
	default:
	}
}

func TestHomeKeys(t *testing.T) {
	tests := []struct {
		key  rune
		want statepkg.Action
	}{
		{'v', statepkg.OpenDefaultAction{}},
		{'o', statepkg.OpenDialogAction{}},
		{' ', statepkg.RestoreSessionAction{}},
		{'e', statepkg.EditConfigAction{}},
	}
	for _, tt := range tests {
		handler, actionChan := newTestHandler(&statepkg.ViewerState{Mode: keymap.Home})
		if !handler.ProcessEvent(runeKey(tt.key)) {
			t.Fatalf("%q should not end the program", tt.key)
		}
		got := <-actionChan
		if got != tt.want {
			t.Fatalf("%q: expected %T, got %T", tt.key, tt.want, got)
		}
	}
}

func TestQuitOnHomeEndsProgram(t *testing.T) {
	handler, actionChan := newTestHandler(&statepkg.ViewerState{Mode: keymap.Home})

	if handler.ProcessEvent(runeKey('q')) {
		t.Fatalf("q on the home screen should end the program")
	}
	expectAction[statepkg.QuitAction](t, actionChan)

	if handler.ProcessEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatalf("Esc on the home screen should end the program")
	}
	expectAction[statepkg.QuitAction](t, actionChan)
}

func TestQuitInViewerReturnsHome(t *testing.T) {
	handler, actionChan := newTestHandler(&statepkg.ViewerState{Mode: keymap.Normal})

	if !handler.ProcessEvent(runeKey('q')) {
		t.Fatalf("q while viewing should only go home")
	}
	expectAction[statepkg.QuitAction](t, actionChan)
}

func TestCtrlCTerminatesFromAnyMode(t *testing.T) {
	for _, mode := range []keymap.Mode{keymap.Home, keymap.Normal, keymap.Search, keymap.Prompt, keymap.Confirm} {
		handler, actionChan := newTestHandler(&statepkg.ViewerState{Mode: mode, ShowHelp: true})
		if handler.ProcessEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)) {
			t.Fatalf("Ctrl+C in %s should end the program", mode)
		}
		expectAction[statepkg.TerminateAction](t, actionChan)
	}
}

func TestNormalModeUsesKeymap(t *testing.T) {
	handler, actionChan := newTestHandler(&statepkg.ViewerState{Mode: keymap.Normal})

	handler.ProcessEvent(runeKey('l'))
	expectAction[statepkg.NextAction](t, actionChan)

	handler.ProcessEvent(runeKey('D'))
	expectAction[statepkg.DeleteAction](t, actionChan)

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	expectAction[statepkg.PrevAction](t, actionChan)

	handler.ProcessEvent(runeKey(' '))
	expectAction[statepkg.BackAction](t, actionChan)

	handler.ProcessEvent(runeKey('z'))
	expectNoAction(t, actionChan)
}

func TestRemappedKeys(t *testing.T) {
	cfg := config.Default()
	cfg.Keymap["delete"] = "z"
	actionChan := make(chan statepkg.Action, 1)
	handler := NewInputHandler(actionChan, keymap.NewBindings(cfg))
	handler.SetState(&statepkg.ViewerState{Mode: keymap.Normal})

	handler.ProcessEvent(runeKey('z'))
	expectAction[statepkg.DeleteAction](t, actionChan)
}

func TestSearchModeTreatsRunesAsQuery(t *testing.T) {
	handler, actionChan := newTestHandler(&statepkg.ViewerState{Mode: keymap.Search})

	handler.ProcessEvent(runeKey('q'))
	if got := expectAction[statepkg.TextCharAction](t, actionChan); got.Char != 'q' {
		t.Fatalf("expected 'q' appended, got %q", got.Char)
	}

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	expectAction[statepkg.TextBackspaceAction](t, actionChan)

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	if got := expectAction[statepkg.SuggestionMoveAction](t, actionChan); got.Delta != 1 {
		t.Fatalf("expected delta 1, got %d", got.Delta)
	}

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyPgUp, 0, tcell.ModNone))
	if got := expectAction[statepkg.SuggestionMoveAction](t, actionChan); got.Delta != -statepkg.SuggestionPage {
		t.Fatalf("expected a page up, got %d", got.Delta)
	}

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	expectAction[statepkg.AcceptAction](t, actionChan)

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	expectAction[statepkg.CancelAction](t, actionChan)
}

func TestPromptIgnoresSuggestionKeys(t *testing.T) {
	handler, actionChan := newTestHandler(&statepkg.ViewerState{Mode: keymap.Prompt})

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	expectNoAction(t, actionChan)
}

func TestQuickMoveKeys(t *testing.T) {
	handler, actionChan := newTestHandler(&statepkg.ViewerState{Mode: keymap.QuickMove})

	handler.ProcessEvent(runeKey('b'))
	if got := expectAction[statepkg.QuickFolderAction](t, actionChan); got.Folder != "folder_1" {
		t.Fatalf("expected folder_1, got %q", got.Folder)
	}

	handler.ProcessEvent(runeKey('x'))
	expectAction[statepkg.CancelAction](t, actionChan)
}

func TestConfirmKeys(t *testing.T) {
	handler, actionChan := newTestHandler(&statepkg.ViewerState{Mode: keymap.Confirm})

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	expectAction[statepkg.AcceptAction](t, actionChan)

	handler.ProcessEvent(runeKey(' '))
	expectAction[statepkg.CancelAction](t, actionChan)

	handler.ProcessEvent(runeKey('d'))
	expectNoAction(t, actionChan)
}

func TestAnyKeyHidesKeyOverlay(t *testing.T) {
	handler, actionChan := newTestHandler(&statepkg.ViewerState{Mode: keymap.Normal, ShowHelp: true})

	handler.ProcessEvent(runeKey('d'))
	expectAction[statepkg.HideKeysAction](t, actionChan)
	expectNoAction(t, actionChan)
}

func TestResizeEmitsResizeAction(t *testing.T) {
	handler, actionChan := newTestHandler(nil)

	handler.ProcessEvent(tcell.NewEventResize(120, 40))
	got := expectAction[statepkg.ResizeAction](t, actionChan)
	if got.Width != 120 || got.Height != 40 {
		t.Fatalf("unexpected size %dx%d", got.Width, got.Height)
	}
}

func TestNilStateBehavesLikeHome(t *testing.T) {
	handler, actionChan := newTestHandler(nil)

	handler.ProcessEvent(runeKey('v'))
	expectAction[statepkg.OpenDefaultAction](t, actionChan)
}

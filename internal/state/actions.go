package state

// Action is the base interface for all state mutations
type Action interface{}

// ===== HOME ACTIONS =====

type OpenDefaultAction struct{}
type OpenDialogAction struct{}
type RestoreSessionAction struct{}

// OpenDirectoryAction opens Path directly, as the command-line argument does.
type OpenDirectoryAction struct {
	Path string
}

// ===== NAVIGATION ACTIONS =====

type NextAction struct{}
type PrevAction struct{}

// BackAction clears a committed filter, or saves the session and goes home.
type BackAction struct{}

// QuitAction saves the session; from the home screen it ends the process.
type QuitAction struct{}

// ===== FILE ACTIONS =====

type DeleteAction struct{}
type CutAction struct{}
type CopyAction struct{}
type CopyPathAction struct{}
type RenameAction struct{}
type MoveCustomAction struct{}
type MoveModeAction struct{}

// QuickFolderAction moves the current image into Folder (relative to the
// current directory unless absolute).
type QuickFolderAction struct {
	Folder string
}

type UndoAction struct{}

// ===== TEXT ENTRY ACTIONS =====

type SearchStartAction struct{}

// TextCharAction appends to the active search query or prompt buffer.
type TextCharAction struct {
	Char rune
}
type TextBackspaceAction struct{}

// SuggestionMoveAction moves the search highlight by Delta matches.
type SuggestionMoveAction struct {
	Delta int
}

// AcceptAction confirms the active search, prompt or pending confirmation.
type AcceptAction struct{}

// CancelAction dismisses the active search, prompt, quick-move or
// confirmation.
type CancelAction struct{}

// ===== VIEW ACTIONS =====

type ZoomInAction struct{}
type ZoomOutAction struct{}
type ZoomRealAction struct{}
type RotateLeftAction struct{}
type RotateRightAction struct{}
type ToggleFilmstripAction struct{}
type ToggleFilenameAction struct{}
type FullscreenAction struct{}
type ShowKeysAction struct{}
type HideKeysAction struct{}

type ResizeAction struct {
	Width  int
	Height int
}

// ===== APPLICATION ACTIONS =====

// EditConfigAction is handled by the app layer, which opens the config file
// in an editor; the engine only records a notice.
type EditConfigAction struct{}

// DirectoryChangedAction is posted by the watcher when the viewed directory
// changed outside the viewer.
type DirectoryChangedAction struct {
	Directory string
}

// NoticeAction shows Text in the status line. The app layer uses it for
// failures of work the engine does not do itself, such as opening an editor.
type NoticeAction struct {
	Text  string
	Error bool
}

// TerminateAction ends the process from any mode.
type TerminateAction struct{}

type SuspendAction struct{}

// Package keymap resolves raw key events into viewer commands. Resolution is
// a pure function of the active mode, the event and the bindings built from
// the configuration.
package keymap

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/vimview/internal/config"
)

// Mode selects which commands a key can produce.
type Mode int

const (
	Home Mode = iota
	Normal
	Search
	QuickMove
	Confirm
	Prompt
)

func (m Mode) String() string {
	switch m {
	case Home:
		return "home"
	case Normal:
		return "normal"
	case Search:
		return "search"
	case QuickMove:
		return "quick-move"
	case Confirm:
		return "confirm"
	case Prompt:
		return "prompt"
	default:
		return "unknown"
	}
}

// Command is a semantic viewer command.
type Command int

const (
	None Command = iota

	// Home screen
	OpenDefault
	OpenDialog
	RestoreSession

	// Configurable viewer commands
	Next
	Prev
	Copy
	Cut
	CopyPath
	ZoomIn
	ZoomOut
	ZoomReal
	Delete
	Rename
	MoveMode
	MoveCustom
	StartSearch
	ToggleFilmstrip
	ToggleFilename
	RotateLeft
	RotateRight
	Fullscreen
	Undo
	ShowKeys
	EditConfig
	Quit

	// Reserved keys
	Back
	Terminate

	// Text entry and overlays
	QueryAppend
	QueryDelete
	SuggestionUp
	SuggestionDown
	SuggestionPageUp
	SuggestionPageDown
	Accept
	Cancel
	QuickFolder
)

// configNames maps keymap entries in the config file to commands.
var configNames = map[string]Command{
	"next":             Next,
	"prev":             Prev,
	"copy":             Copy,
	"cut":              Cut,
	"copy_path":        CopyPath,
	"zoom_in":          ZoomIn,
	"zoom_out":         ZoomOut,
	"zoom_real":        ZoomReal,
	"delete":           Delete,
	"rename":           Rename,
	"move_mode":        MoveMode,
	"move_custom":      MoveCustom,
	"search":           StartSearch,
	"toggle_filmstrip": ToggleFilmstrip,
	"toggle_filename":  ToggleFilename,
	"rotate_left":      RotateLeft,
	"rotate_right":     RotateRight,
	"fullscreen":       Fullscreen,
	"undo":             Undo,
	"show_keys":        ShowKeys,
	"edit_config":      EditConfig,
	"quit":             Quit,
}

var commandNames = map[Command]string{
	OpenDefault:        "open_default",
	OpenDialog:         "open_dialog",
	RestoreSession:     "restore_session",
	Back:               "back",
	Terminate:          "terminate",
	QueryAppend:        "query_append",
	QueryDelete:        "query_delete",
	SuggestionUp:       "suggestion_up",
	SuggestionDown:     "suggestion_down",
	SuggestionPageUp:   "suggestion_page_up",
	SuggestionPageDown: "suggestion_page_down",
	Accept:             "confirm",
	Cancel:             "cancel",
	QuickFolder:        "quick_folder",
}

func init() {
	for name, cmd := range configNames {
		commandNames[cmd] = name
	}
}

// String returns the config-file name of the command.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "none"
}

// CommandByName looks up a configurable command by its config-file name.
func CommandByName(name string) (Command, bool) {
	cmd, ok := configNames[name]
	return cmd, ok
}

// Bindings holds lookup tables built once from the configuration.
type Bindings struct {
	normal map[rune]Command
	keys   map[Command]rune
	quick  map[rune]string
}

// NewBindings builds the lookup tables. Keys are matched lower-cased.
func NewBindings(cfg *config.Config) Bindings {
	b := Bindings{
		normal: make(map[rune]Command, len(cfg.Keymap)),
		keys:   make(map[Command]rune, len(cfg.Keymap)),
		quick:  make(map[rune]string, len(cfg.QuickFolders)),
	}
	for name := range cfg.Keymap {
		cmd, ok := CommandByName(name)
		r, ok2 := singleRune(cfg.Key(name))
		if !ok || !ok2 {
			continue
		}
		b.normal[r] = cmd
		b.keys[cmd] = r
	}
	for _, key := range cfg.QuickFolderKeys() {
		folder, ok := cfg.QuickFolder(key)
		r, ok2 := singleRune(key)
		if ok && ok2 {
			b.quick[r] = folder
		}
	}
	return b
}

// KeyFor returns the key bound to cmd for display, or "".
func (b Bindings) KeyFor(cmd Command) string {
	if r, ok := b.keys[cmd]; ok {
		return string(r)
	}
	return ""
}

// QuickFolderFor returns the folder bound to the event's key.
func (b Bindings) QuickFolderFor(ev *tcell.EventKey) (string, bool) {
	if ev == nil || ev.Key() != tcell.KeyRune {
		return "", false
	}
	folder, ok := b.quick[unicode.ToLower(ev.Rune())]
	return folder, ok
}

// QuickFolders lists the bound (key, folder) pairs sorted by key.
func (b Bindings) QuickFolders() [][2]string {
	out := make([][2]string, 0, len(b.quick))
	for r, folder := range b.quick {
		out = append(out, [2]string{string(r), folder})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// Resolve maps ev to a command for mode. The second result is false when the
// key means nothing in that mode.
func Resolve(mode Mode, ev *tcell.EventKey, b Bindings) (Command, bool) {
	if ev == nil {
		return None, false
	}
	if ev.Key() == tcell.KeyCtrlC {
		return Terminate, true
	}

	switch mode {
	case Home:
		return resolveHome(ev)
	case Normal:
		return resolveNormal(ev, b)
	case Search:
		return resolveText(ev, true)
	case Prompt:
		return resolveText(ev, false)
	case QuickMove:
		return resolveQuickMove(ev, b)
	case Confirm:
		return resolveConfirm(ev)
	default:
		return None, false
	}
}

func resolveHome(ev *tcell.EventKey) (Command, bool) {
	switch ev.Key() {
	case tcell.KeyEscape:
		return Quit, true
	case tcell.KeyRune:
		switch unicode.ToLower(ev.Rune()) {
		case 'v':
			return OpenDefault, true
		case 'o':
			return OpenDialog, true
		case 'e':
			return EditConfig, true
		case ' ':
			return RestoreSession, true
		case 'q':
			return Quit, true
		}
	}
	return None, false
}

func resolveNormal(ev *tcell.EventKey, b Bindings) (Command, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return Prev, true
	case tcell.KeyRight:
		return Next, true
	case tcell.KeyEscape:
		return Back, true
	case tcell.KeyRune:
		r := unicode.ToLower(ev.Rune())
		if r == ' ' {
			return Back, true
		}
		if cmd, ok := b.normal[r]; ok {
			return cmd, true
		}
	}
	return None, false
}

func resolveText(ev *tcell.EventKey, suggestions bool) (Command, bool) {
	switch ev.Key() {
	case tcell.KeyEnter:
		return Accept, true
	case tcell.KeyEscape:
		return Cancel, true
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		return QueryDelete, true
	case tcell.KeyRune:
		if unicode.IsPrint(ev.Rune()) {
			return QueryAppend, true
		}
		return None, false
	}
	if !suggestions {
		return None, false
	}
	switch ev.Key() {
	case tcell.KeyUp:
		return SuggestionUp, true
	case tcell.KeyDown:
		return SuggestionDown, true
	case tcell.KeyPgUp:
		return SuggestionPageUp, true
	case tcell.KeyPgDn:
		return SuggestionPageDown, true
	}
	return None, false
}

// resolveQuickMove treats every key that is not a quick folder as cancel so
// a stray key never leaves the viewer stuck in quick-move mode.
func resolveQuickMove(ev *tcell.EventKey, b Bindings) (Command, bool) {
	if _, ok := b.QuickFolderFor(ev); ok {
		return QuickFolder, true
	}
	return Cancel, true
}

func resolveConfirm(ev *tcell.EventKey) (Command, bool) {
	switch ev.Key() {
	case tcell.KeyEnter:
		return Accept, true
	case tcell.KeyEscape:
		return Cancel, true
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return Cancel, true
		}
	}
	return None, false
}

func singleRune(key string) (rune, bool) {
	if utf8.RuneCountInString(key) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(key)
	return unicode.ToLower(r), true
}

// Package config loads, validates and saves the viewer configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kk-code-lab/vimview/internal/apperr"
	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

const (
	appDirName      = "vimview"
	configFileName  = "config.json"
	sessionFileName = "session.json"
	logFileName     = "vimview.log"
)

var (
	ErrMalformed        = errors.New("malformed config file")
	ErrDuplicateBinding = errors.New("key bound to more than one command")
	ErrInvalidBinding   = errors.New("invalid key binding")
	ErrInvalidColor     = errors.New("invalid theme color")
	ErrInvalidFolder    = errors.New("invalid quick folder")
)

var userConfigDirFn = os.UserConfigDir
var userHomeDirFn = os.UserHomeDir

// Settings are the boolean and scalar knobs under "settings".
type Settings struct {
	RequireConfirmation bool   `yaml:"require_confirmation" json:"require_confirmation"`
	ShowFilename        bool   `yaml:"show_filename" json:"show_filename"`
	DefaultDirectory    string `yaml:"default_directory" json:"default_directory"`
	CreateQuickFolders  bool   `yaml:"create_quick_folders" json:"create_quick_folders"`
	UndoLimit           int    `yaml:"undo_limit" json:"undo_limit"`
}

// Config is the loaded configuration value.
type Config struct {
	Settings     Settings          `yaml:"settings" json:"settings"`
	Keymap       map[string]string `yaml:"keymap" json:"keymap"`
	QuickFolders map[string]string `yaml:"quick_folders" json:"quick_folders"`
	Theme        map[string]string `yaml:"theme" json:"theme"`
}

// rawConfig mirrors Config with pointer settings so absent keys can be told
// apart from explicit zero values during the merge.
type rawConfig struct {
	Settings struct {
		RequireConfirmation *bool   `yaml:"require_confirmation"`
		ShowFilename        *bool   `yaml:"show_filename"`
		DefaultDirectory    *string `yaml:"default_directory"`
		CreateQuickFolders  *bool   `yaml:"create_quick_folders"`
		UndoLimit           *int    `yaml:"undo_limit"`
	} `yaml:"settings"`
	Keymap       map[string]string `yaml:"keymap"`
	QuickFolders map[string]string `yaml:"quick_folders"`
	Theme        map[string]string `yaml:"theme"`
}

// Dir returns the directory holding config, session and log files.
func Dir() (string, error) {
	base, err := userConfigDirFn()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDirName), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// SessionPath returns the session file location next to the config file.
func SessionPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFileName), nil
}

// LogPath returns the log file location.
func LogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logFileName), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		Settings: Settings{
			RequireConfirmation: false,
			ShowFilename:        true,
			DefaultDirectory:    filepath.Join("~", "Pictures", "Photo"),
			CreateQuickFolders:  true,
			UndoLimit:           0,
		},
		Keymap:       make(map[string]string, len(defaultKeymap)),
		QuickFolders: map[string]string{"b": "folder_1", "n": "folder_2"},
		Theme:        make(map[string]string, len(defaultTheme)),
	}
	for k, v := range defaultKeymap {
		cfg.Keymap[k] = v
	}
	for k, v := range defaultTheme {
		cfg.Theme[k] = v
	}
	return cfg
}

var defaultKeymap = map[string]string{
	"next":             "l",
	"prev":             "h",
	"copy":             "y",
	"cut":              "x",
	"copy_path":        "t",
	"zoom_in":          "i",
	"zoom_out":         "c",
	"zoom_real":        "w",
	"delete":           "d",
	"rename":           "r",
	"move_mode":        "a",
	"move_custom":      "m",
	"search":           "s",
	"toggle_filmstrip": "j",
	"toggle_filename":  "g",
	"rotate_left":      "[",
	"rotate_right":     "]",
	"fullscreen":       "f",
	"undo":             "u",
	"show_keys":        "k",
	"edit_config":      "e",
	"quit":             "q",
}

var defaultTheme = map[string]string{
	"accent":     "#ea0000",
	"background": "#000000",
	"surface":    "#050505",
	"text":       "#ffffff",
	"dim_text":   "#666666",
	"border":     "#333333",
}

// DefaultKeymap returns a copy of the built-in command → key map.
func DefaultKeymap() map[string]string {
	out := make(map[string]string, len(defaultKeymap))
	for k, v := range defaultKeymap {
		out[k] = v
	}
	return out
}

// Load reads the config at path. A missing file yields the defaults and is
// written out so the user has something to edit. Problems inside the file
// never block startup: the returned config is always usable and the error
// (kind apperr.Config) describes what fell back to defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if saveErr := Save(cfg, path); saveErr != nil {
				return cfg, apperr.New(apperr.Config, "write default config", nil, path, saveErr)
			}
			return cfg, nil
		}
		return cfg, apperr.New(apperr.Config, "read config", nil, path, err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, apperr.New(apperr.Config, "parse config", ErrMalformed, path, err)
	}

	return cfg, cfg.merge(&raw)
}

// merge overlays raw onto the defaults section by section. Invalid sections
// keep their defaults; all problems are joined into one error.
func (c *Config) merge(raw *rawConfig) error {
	var errs []error

	s := raw.Settings
	if s.RequireConfirmation != nil {
		c.Settings.RequireConfirmation = *s.RequireConfirmation
	}
	if s.ShowFilename != nil {
		c.Settings.ShowFilename = *s.ShowFilename
	}
	if s.DefaultDirectory != nil && strings.TrimSpace(*s.DefaultDirectory) != "" {
		c.Settings.DefaultDirectory = *s.DefaultDirectory
	}
	if s.CreateQuickFolders != nil {
		c.Settings.CreateQuickFolders = *s.CreateQuickFolders
	}
	if s.UndoLimit != nil {
		if *s.UndoLimit < 0 {
			errs = append(errs, apperr.New(apperr.Config, "settings", nil, "undo_limit",
				fmt.Errorf("must be >= 0, got %d", *s.UndoLimit)))
		} else {
			c.Settings.UndoLimit = *s.UndoLimit
		}
	}

	if len(raw.Keymap) > 0 {
		merged := DefaultKeymap()
		for command, key := range raw.Keymap {
			if _, known := defaultKeymap[command]; !known {
				// Forward compatibility: commands from newer versions are ignored.
				continue
			}
			merged[command] = strings.ToLower(key)
		}
		if err := ValidateKeymap(merged); err != nil {
			errs = append(errs, err)
		} else {
			c.Keymap = merged
		}
	}

	if raw.QuickFolders != nil {
		folders := make(map[string]string, len(raw.QuickFolders))
		for key, folder := range raw.QuickFolders {
			folders[strings.ToLower(key)] = folder
		}
		if err := ValidateQuickFolders(folders); err != nil {
			errs = append(errs, err)
		} else {
			c.QuickFolders = folders
		}
	}

	for slot, value := range raw.Theme {
		if _, err := ParseColor(value); err != nil {
			errs = append(errs, apperr.New(apperr.Config, "theme", ErrInvalidColor, slot, err))
			continue
		}
		c.Theme[slot] = value
	}

	return errors.Join(errs...)
}

// ValidateKeymap checks that every binding is a single non-space rune and
// that no key is bound twice.
func ValidateKeymap(keymap map[string]string) error {
	commands := make([]string, 0, len(keymap))
	for command := range keymap {
		commands = append(commands, command)
	}
	sort.Strings(commands)

	owner := make(map[string]string, len(keymap))
	for _, command := range commands {
		key := keymap[command]
		if !isSingleKey(key) {
			return apperr.New(apperr.Config, "keymap", ErrInvalidBinding, command, fmt.Errorf("%q", key))
		}
		if prev, dup := owner[key]; dup {
			return apperr.New(apperr.Config, "keymap", ErrDuplicateBinding, key,
				fmt.Errorf("%s and %s", prev, command))
		}
		owner[key] = command
	}
	return nil
}

// ValidateQuickFolders checks quick-folder keys and folder names.
func ValidateQuickFolders(folders map[string]string) error {
	for key, folder := range folders {
		if !isSingleKey(key) {
			return apperr.New(apperr.Config, "quick_folders", ErrInvalidBinding, key, nil)
		}
		if strings.TrimSpace(folder) == "" {
			return apperr.New(apperr.Config, "quick_folders", ErrInvalidFolder, key, errors.New("empty folder name"))
		}
	}
	return nil
}

func isSingleKey(key string) bool {
	if utf8.RuneCountInString(key) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(key)
	return unicode.IsPrint(r) && !unicode.IsSpace(r)
}

// ParseColor accepts "#rrggbb" or "#rgb" theme values.
func ParseColor(value string) (colorful.Color, error) {
	return colorful.Hex(strings.TrimSpace(value))
}

// Save writes cfg as indented JSON, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Key returns the key bound to command, or "" when unbound.
func (c *Config) Key(command string) string {
	return c.Keymap[command]
}

// QuickFolder returns the folder bound to key.
func (c *Config) QuickFolder(key string) (string, bool) {
	folder, ok := c.QuickFolders[strings.ToLower(key)]
	return folder, ok
}

// QuickFolderKeys returns the bound keys in sorted order.
func (c *Config) QuickFolderKeys() []string {
	keys := make([]string, 0, len(c.QuickFolders))
	for k := range c.QuickFolders {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Color returns the theme colour for slot, falling back to the default.
func (c *Config) Color(slot string) colorful.Color {
	if value, ok := c.Theme[slot]; ok {
		if col, err := ParseColor(value); err == nil {
			return col
		}
	}
	col, _ := ParseColor(defaultTheme[slot])
	return col
}

// ResolveDefaultDirectory expands a leading "~" in the default directory.
func (c *Config) ResolveDefaultDirectory() (string, error) {
	return ExpandHome(c.Settings.DefaultDirectory)
}

// ExpandHome expands "~" and "~/..." using the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	if len(path) > 1 && path[1] != '/' && path[1] != '\\' {
		return path, nil
	}
	home, err := userHomeDirFn()
	if err != nil {
		return "", err
	}
	if len(path) == 1 {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

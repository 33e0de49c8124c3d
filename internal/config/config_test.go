package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kk-code-lab/vimview/internal/apperr"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Key("next") != "l" || cfg.Key("prev") != "h" {
		t.Fatalf("expected default keymap, got %v", cfg.Keymap)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected default config to be written: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reloaded.Settings.ShowFilename || reloaded.QuickFolders["b"] != "folder_1" {
		t.Fatalf("written defaults did not round-trip: %+v", reloaded)
	}
}

func TestLoadMergesPartialSections(t *testing.T) {
	path := writeConfig(t, `{
    "settings": {"require_confirmation": true},
    "keymap": {"next": "N", "future_command": "z"},
    "quick_folders": {"P": "portraits"},
    "unknown_section": {"x": 1}
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Settings.RequireConfirmation {
		t.Fatalf("require_confirmation should be true")
	}
	if !cfg.Settings.ShowFilename {
		t.Fatalf("show_filename should keep its default when absent")
	}
	if cfg.Key("next") != "n" {
		t.Fatalf("expected lower-cased override, got %q", cfg.Key("next"))
	}
	if cfg.Key("prev") != "h" {
		t.Fatalf("unspecified bindings should keep defaults")
	}
	if _, ok := cfg.Keymap["future_command"]; ok {
		t.Fatalf("unknown commands must be ignored")
	}
	if folder, ok := cfg.QuickFolder("p"); !ok || folder != "portraits" {
		t.Fatalf("quick folders should replace defaults, got %v", cfg.QuickFolders)
	}
	if _, ok := cfg.QuickFolder("b"); ok {
		t.Fatalf("default quick folders should be replaced, not merged")
	}
}

func TestLoadRejectsDuplicateBindings(t *testing.T) {
	path := writeConfig(t, `{"settings": {"show_filename": false}, "keymap": {"next": "h"}}`)

	cfg, err := Load(path)
	if err == nil {
		t.Fatalf("expected duplicate binding error")
	}
	if !errors.Is(err, ErrDuplicateBinding) {
		t.Fatalf("expected ErrDuplicateBinding, got %v", err)
	}
	if !apperr.IsKind(err, apperr.Config) {
		t.Fatalf("expected config kind, got %v", apperr.KindOf(err))
	}
	if cfg.Key("next") != "l" || cfg.Key("prev") != "h" {
		t.Fatalf("keymap should fall back to defaults, got %v", cfg.Keymap)
	}
	if cfg.Settings.ShowFilename {
		t.Fatalf("valid sections should still apply")
	}
}

func TestLoadMalformedFallsBackToDefaults(t *testing.T) {
	path := writeConfig(t, `{"settings": {`)

	cfg, err := Load(path)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if cfg == nil || cfg.Key("quit") != "q" {
		t.Fatalf("expected defaults on malformed file")
	}
}

func TestLoadAcceptsYAMLSyntax(t *testing.T) {
	path := writeConfig(t, "settings:\n  require_confirmation: true\nkeymap:\n  undo: z\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Settings.RequireConfirmation || cfg.Key("undo") != "z" {
		t.Fatalf("yaml config not applied: %+v", cfg)
	}
}

func TestLoadInvalidThemeColorKeepsDefault(t *testing.T) {
	path := writeConfig(t, `{"theme": {"accent": "not-a-color", "text": "#00ff00"}}`)

	cfg, err := Load(path)
	if !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}
	if cfg.Theme["accent"] != "#ea0000" {
		t.Fatalf("invalid color should keep default, got %q", cfg.Theme["accent"])
	}
	if cfg.Theme["text"] != "#00ff00" {
		t.Fatalf("valid color should apply, got %q", cfg.Theme["text"])
	}
	if r, g, b := cfg.Color("text").RGB255(); r != 0 || g != 255 || b != 0 {
		t.Fatalf("unexpected parsed colour %d,%d,%d", r, g, b)
	}
}

func TestValidateKeymap(t *testing.T) {
	tests := []struct {
		name    string
		keymap  map[string]string
		wantErr error
	}{
		{"defaults", DefaultKeymap(), nil},
		{"multi rune", map[string]string{"next": "ll"}, ErrInvalidBinding},
		{"space", map[string]string{"next": " "}, ErrInvalidBinding},
		{"empty", map[string]string{"next": ""}, ErrInvalidBinding},
		{"duplicate", map[string]string{"next": "x", "cut": "x"}, ErrDuplicateBinding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKeymap(tt.keymap)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	orig := userHomeDirFn
	userHomeDirFn = func() (string, error) { return "/home/tester", nil }
	t.Cleanup(func() { userHomeDirFn = orig })

	cases := map[string]string{
		"~":                "/home/tester",
		"~/Pictures/Photo": filepath.Join("/home/tester", "Pictures/Photo"),
		"/abs/path":        "/abs/path",
		"~other":           "~other",
	}
	for in, want := range cases {
		got, err := ExpandHome(in)
		if err != nil {
			t.Fatalf("ExpandHome(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ExpandHome(%q) = %q, want %q", in, got, want)
		}
	}
}

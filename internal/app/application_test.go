package app

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDetectEditorCommandWindowsFallbacks(t *testing.T) {
	lookPath := func(cmd string) (string, error) {
		switch cmd {
		case "code":
			return "", errors.New("not found")
		case "notepad++.exe":
			return `C:\Program Files\Notepad++\notepad++.exe`, nil
		default:
			return "", errors.New("not found")
		}
	}
	getenv := func(string) string { return "" }
	args, ok := detectEditorCommandInternal("windows", getenv, lookPath)
	if !ok {
		t.Fatalf("expected editor fallback")
	}
	expected := []string{`C:\Program Files\Notepad++\notepad++.exe`}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectEditorCommandUnixFallbacks(t *testing.T) {
	lookPath := func(cmd string) (string, error) {
		if cmd == "vim" {
			return "/usr/bin/vim", nil
		}
		return "", errors.New("not found")
	}
	getenv := func(string) string { return "" }
	args, ok := detectEditorCommandInternal("linux", getenv, lookPath)
	if !ok {
		t.Fatalf("expected editor fallback")
	}
	expected := []string{"/usr/bin/vim"}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectEditorCommandPrefersVisual(t *testing.T) {
	lookPath := func(cmd string) (string, error) {
		switch cmd {
		case "code":
			return "/usr/local/bin/code", nil
		case "nano":
			return "/usr/bin/nano", nil
		}
		return "", errors.New("not found")
	}
	getenv := func(key string) string {
		switch key {
		case "VISUAL":
			return "code --wait"
		case "EDITOR":
			return "nano"
		}
		return ""
	}
	args, ok := detectEditorCommandInternal("linux", getenv, lookPath)
	if !ok {
		t.Fatalf("expected editor from $VISUAL")
	}
	expected := []string{"/usr/local/bin/code", "--wait"}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectEditorCommandSkipsMissingEnvEditor(t *testing.T) {
	lookPath := func(cmd string) (string, error) {
		if cmd == "nano" {
			return "/usr/bin/nano", nil
		}
		return "", errors.New("not found")
	}
	getenv := func(key string) string {
		if key == "EDITOR" {
			return "missing-editor"
		}
		return ""
	}
	args, ok := detectEditorCommandInternal("linux", getenv, lookPath)
	if !ok || !reflect.DeepEqual(args, []string{"/usr/bin/nano"}) {
		t.Fatalf("expected nano fallback, got %v (%v)", args, ok)
	}
}

func TestDetectEditorCommandNoneAvailable(t *testing.T) {
	lookPath := func(string) (string, error) { return "", errors.New("not found") }
	getenv := func(string) string { return "" }
	if args, ok := detectEditorCommandInternal("linux", getenv, lookPath); ok {
		t.Fatalf("expected no editor, got %v", args)
	}
}

func TestParseEditorCommand(t *testing.T) {
	tests := []struct {
		input  string
		expect []string
	}{
		{"", nil},
		{"vim", []string{"vim"}},
		{"code --wait", []string{"code", "--wait"}},
		{`"/opt/My Editor/bin/edit" -n`, []string{"/opt/My Editor/bin/edit", "-n"}},
		{`emacsclient -a ''`, []string{"emacsclient", "-a"}},
		{`sh -c 'vim "$1"'`, []string{"sh", "-c", `vim "$1"`}},
	}
	for _, tt := range tests {
		got := parseEditorCommand(tt.input)
		if !reflect.DeepEqual(got, tt.expect) {
			t.Fatalf("parseEditorCommand(%q) = %#v, want %#v", tt.input, got, tt.expect)
		}
	}
}

func TestExpandUserPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	if got := expandUserPath("~/bin/edit"); got != filepath.Join("/home/tester", "bin", "edit") {
		t.Fatalf("unexpected expansion %q", got)
	}
	if got := expandUserPath("~other/bin"); got != "~other/bin" {
		t.Fatalf("~user paths should be left alone, got %q", got)
	}
	if got := expandUserPath("/usr/bin/vim"); got != "/usr/bin/vim" {
		t.Fatalf("absolute paths should be unchanged, got %q", got)
	}
}

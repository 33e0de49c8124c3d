package app

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
	"unicode"

	"github.com/kk-code-lab/vimview/internal/config"
)

func detectEditorCommand() ([]string, bool) {
	return detectEditorCommandInternal(runtime.GOOS, os.Getenv, exec.LookPath)
}

func detectEditorCommandInternal(goos string, getenv func(string) string, lookPath func(string) (string, error)) ([]string, bool) {
	candidates := []string{getenv("VISUAL"), getenv("EDITOR")}

	for _, candidate := range candidates {
		args := parseEditorCommand(candidate)
		if len(args) == 0 {
			continue
		}
		if resolved, ok := resolveEditorExecutableWithLookup(args[0], lookPath); ok {
			args[0] = resolved
			return args, true
		}
	}

	var defaults [][]string
	if strings.EqualFold(goos, "windows") {
		defaults = [][]string{
			{"code", "--wait"},
			{"notepad++.exe"},
			{"notepad.exe"},
		}
	} else {
		defaults = [][]string{
			{"vim"},
			{"nano"},
		}
	}

	for _, def := range defaults {
		if len(def) == 0 {
			continue
		}
		if resolved, ok := resolveEditorExecutableWithLookup(def[0], lookPath); ok {
			args := append([]string{resolved}, def[1:]...)
			return args, true
		}
	}

	return nil, false
}

func parseEditorCommand(cmd string) []string {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return nil
	}

	var args []string
	var current strings.Builder
	inSingle := false
	inDouble := false

	for _, r := range cmd {
		switch r {
		case '\'':
			if inDouble {
				current.WriteRune(r)
			} else {
				inSingle = !inSingle
			}
			continue
		case '"':
			if inSingle {
				current.WriteRune(r)
			} else {
				inDouble = !inDouble
			}
			continue
		default:
			if !inSingle && !inDouble && unicode.IsSpace(r) {
				if current.Len() > 0 {
					args = append(args, current.String())
					current.Reset()
				}
				continue
			}
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	if len(args) > 0 {
		args[0] = expandUserPath(args[0])
	}

	return args
}

// expandUserPath expands a leading "~", leaving the path as typed when the
// home directory is unknown.
func expandUserPath(path string) string {
	expanded, err := config.ExpandHome(path)
	if err != nil {
		return path
	}
	return expanded
}

func resolveEditorExecutableWithLookup(cmd string, lookPath func(string) (string, error)) (string, bool) {
	if cmd == "" {
		return "", false
	}

	if expanded := expandUserPath(cmd); expanded != cmd {
		cmd = expanded
	}

	path, err := lookPath(cmd)
	if err != nil {
		return "", false
	}
	return path, true
}

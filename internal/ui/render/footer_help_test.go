package render

import (
	"slices"
	"strings"
	"testing"

	"github.com/kk-code-lab/vimview/internal/config"
	fsutil "github.com/kk-code-lab/vimview/internal/fs"
	"github.com/kk-code-lab/vimview/internal/keymap"
	statepkg "github.com/kk-code-lab/vimview/internal/state"
)

func defaultBindings() keymap.Bindings {
	return keymap.NewBindings(config.Default())
}

func TestBuildFooterHelpSegments_Viewing(t *testing.T) {
	state := &statepkg.ViewerState{Mode: keymap.Normal, Listing: &fsutil.Listing{}}

	got := buildFooterHelpSegments(state, defaultBindings())
	want := []string{"k: keys", "Esc: home"}
	if !slices.Equal(got, want) {
		t.Fatalf("viewer help mismatch\nwant: %#v\n got: %#v", want, got)
	}
}

func TestBuildFooterHelpSegments_SearchMode(t *testing.T) {
	state := &statepkg.ViewerState{Mode: keymap.Search}

	got := buildFooterHelpSegments(state, defaultBindings())
	if len(got) == 0 || got[0] != "↵: filter" {
		t.Fatalf("unexpected search help %#v", got)
	}
}

func TestBuildFooterHelpSegments_FollowsKeymap(t *testing.T) {
	cfg := config.Default()
	cfg.Keymap["show_keys"] = "?"
	state := &statepkg.ViewerState{Mode: keymap.Home}

	got := buildFooterHelpSegments(state, keymap.NewBindings(cfg))
	if len(got) != 1 || got[0] != "?: keys" {
		t.Fatalf("expected remapped key, got %#v", got)
	}
}

func TestBuildFooterHelpTextPadding(t *testing.T) {
	state := &statepkg.ViewerState{Mode: keymap.Confirm}
	text := buildFooterHelpText(state, defaultBindings())
	if !strings.HasPrefix(text, " ") || !strings.HasSuffix(text, " ") {
		t.Fatalf("expected padded help text, got %q", text)
	}
	if buildFooterHelpText(nil, defaultBindings()) != "" {
		t.Fatalf("nil state should produce no help")
	}
}

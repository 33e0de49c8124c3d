package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/vimview/internal/config"
	"github.com/kk-code-lab/vimview/internal/imaging"
	"github.com/kk-code-lab/vimview/internal/keymap"
	statepkg "github.com/kk-code-lab/vimview/internal/state"
)

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func newTestRenderer(screen tcell.Screen) *Renderer {
	cfg := config.Default()
	return NewRenderer(screen, Options{
		Theme:            ThemeFromConfig(cfg),
		Bindings:         keymap.NewBindings(cfg),
		Images:           imaging.NewCache(4),
		DefaultDirectory: "~/Pictures/Photo",
	})
}

func rowText(screen tcell.SimulationScreen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		mainc, combc, _, _ := screen.GetContent(x, y)
		if mainc == 0 {
			mainc = ' '
		}
		b.WriteRune(mainc)
		for _, c := range combc {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func screenText(screen tcell.SimulationScreen) string {
	_, h := screen.Size()
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		lines[y] = rowText(screen, y)
	}
	return strings.Join(lines, "\n")
}

func writeTestPNG(t *testing.T, dir, name string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	file, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func viewingState(t *testing.T, names ...string) (*statepkg.Engine, string) {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		writeTestPNG(t, dir, name)
	}
	engine := statepkg.NewEngine(statepkg.Options{Config: config.Default()})
	if err := engine.Reduce(statepkg.OpenDirectoryAction{Path: dir}); err != nil {
		t.Fatalf("open: %v", err)
	}
	return engine, dir
}

func TestTruncateTextToWidth(t *testing.T) {
	r := NewRenderer(nil, Options{})

	tests := []struct {
		name   string
		text   string
		width  int
		expect string
	}{
		{"fits without truncation", "file.png", 20, "file.png"},
		{"adds ellipsis when needed", "verylongname", 6, "veryl…"},
		{"only ellipsis when width too small", "example", 1, "…"},
		{"multi-byte characters respected", "你好世界", 5, "你好…"},
		{"returns empty when width is zero", "anything", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := r.truncateTextToWidth(tt.text, tt.width)
			if actual != tt.expect {
				t.Fatalf("expected %q, got %q (width %d)", tt.expect, actual, tt.width)
			}
		})
	}
}

func TestMeasureTextWidth(t *testing.T) {
	r := NewRenderer(nil, Options{})
	if got := r.measureTextWidth("ab你"); got != 4 {
		t.Fatalf("expected width 4, got %d", got)
	}
}

func TestComputeLayout(t *testing.T) {
	state := &statepkg.ViewerState{ShowFilmstrip: true}
	l := computeLayout(80, 24, state)
	if l.headerY != 0 || l.statusY != 23 || l.filmY != 22 || l.imageTop != 1 || l.imageRows != 21 {
		t.Fatalf("unexpected layout %+v", l)
	}

	state.ShowFilmstrip = false
	l = computeLayout(80, 24, state)
	if l.filmY != -1 || l.imageRows != 22 {
		t.Fatalf("unexpected layout without filmstrip %+v", l)
	}

	state.Fullscreen = true
	l = computeLayout(80, 24, state)
	if l.headerY != -1 || l.statusY != -1 || l.imageTop != 0 || l.imageRows != 24 {
		t.Fatalf("fullscreen should use every row, got %+v", l)
	}

	state.Fullscreen = false
	state.ShowFilmstrip = true
	l = computeLayout(80, 4, state)
	if l.headerY != -1 || l.imageRows != 4 {
		t.Fatalf("tiny terminals should drop chrome, got %+v", l)
	}
}

func TestFilmstripWindowCentresCurrent(t *testing.T) {
	widths := []int{5, 5, 5, 5, 5}
	start, end := filmstripWindow(widths, 2, 19)
	if start != 1 || end != 4 {
		t.Fatalf("expected [1,4), got [%d,%d)", start, end)
	}
	start, end = filmstripWindow(widths, 0, 100)
	if start != 0 || end != 5 {
		t.Fatalf("expected everything, got [%d,%d)", start, end)
	}
	if s, e := filmstripWindow(widths, -1, 100); s != 0 || e != 0 {
		t.Fatalf("no current entry should show nothing")
	}
}

func TestRenderHomeScreen(t *testing.T) {
	screen := newTestScreen(t, 60, 20)
	r := newTestRenderer(screen)
	engine := statepkg.NewEngine(statepkg.Options{Config: config.Default()})

	r.Render(engine.State())

	text := screenText(screen)
	for _, want := range []string{"vimview", "open default folder", "~/Pictures/Photo", "restore last session"} {
		if !strings.Contains(text, want) {
			t.Fatalf("home screen missing %q:\n%s", want, text)
		}
	}
}

func TestRenderViewerDrawsImageAndChrome(t *testing.T) {
	screen := newTestScreen(t, 60, 20)
	r := newTestRenderer(screen)
	engine, _ := viewingState(t, "a.png", "b.png")

	r.Render(engine.State())

	if header := rowText(screen, 0); !strings.Contains(header, "1/2") {
		t.Fatalf("header should show position, got %q", header)
	}
	if film := rowText(screen, 18); !strings.Contains(film, "a.png") || !strings.Contains(film, "b.png") {
		t.Fatalf("filmstrip should list both images, got %q", film)
	}
	if status := rowText(screen, 19); !strings.Contains(status, "16×8 png") || !strings.Contains(status, "fit") {
		t.Fatalf("status should describe the image, got %q", status)
	}

	blocks := 0
	for y := 1; y < 18; y++ {
		blocks += strings.Count(rowText(screen, y), string(upperHalf))
	}
	if blocks == 0 {
		t.Fatalf("expected image cells to be drawn")
	}
}

func TestRenderNoticeReplacesImageInfo(t *testing.T) {
	screen := newTestScreen(t, 60, 20)
	r := newTestRenderer(screen)
	engine, _ := viewingState(t, "a.png")

	_ = engine.Reduce(statepkg.UndoAction{})
	r.Render(engine.State())

	if status := rowText(screen, 19); !strings.Contains(status, "nothing to undo") {
		t.Fatalf("expected the undo notice in the status line, got %q", status)
	}
}

func TestRenderSearchOverlay(t *testing.T) {
	screen := newTestScreen(t, 60, 20)
	r := newTestRenderer(screen)
	engine, _ := viewingState(t, "beach.png", "city.png", "beach2.png")

	for _, action := range []statepkg.Action{
		statepkg.SearchStartAction{},
		statepkg.TextCharAction{Char: 'b'},
		statepkg.TextCharAction{Char: 'e'},
	} {
		if err := engine.Reduce(action); err != nil {
			t.Fatalf("reduce: %v", err)
		}
	}
	r.Render(engine.State())

	text := screenText(screen)
	if !strings.Contains(text, "/be") || !strings.Contains(text, "2 of 3") {
		t.Fatalf("search overlay missing query or count:\n%s", text)
	}
	if !strings.Contains(text, "beach.png") || !strings.Contains(text, "beach2.png") {
		t.Fatalf("search overlay missing suggestions:\n%s", text)
	}
}

func TestRenderConfirmOverlay(t *testing.T) {
	screen := newTestScreen(t, 60, 20)
	r := newTestRenderer(screen)

	cfg := config.Default()
	cfg.Settings.RequireConfirmation = true
	dir := t.TempDir()
	writeTestPNG(t, dir, "a.png")
	engine := statepkg.NewEngine(statepkg.Options{Config: cfg})
	if err := engine.Reduce(statepkg.OpenDirectoryAction{Path: dir}); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := engine.Reduce(statepkg.DeleteAction{}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	r.Render(engine.State())
	if text := screenText(screen); !strings.Contains(text, "trash a.png?") {
		t.Fatalf("confirm overlay missing message:\n%s", text)
	}
}

func TestPixelColorBlendsAlpha(t *testing.T) {
	theme := ThemeFromConfig(config.Default())

	if got := theme.pixelColor(color.RGBA{}); got != theme.Background {
		t.Fatalf("transparent pixels should show the background")
	}
	opaque := theme.pixelColor(color.RGBA{R: 255, A: 255})
	if opaque != tcell.NewRGBColor(255, 0, 0) {
		t.Fatalf("opaque pixels should pass through, got %v", opaque)
	}
	// Half-transparent white over the black default canvas is mid grey.
	half := theme.pixelColor(color.RGBA{R: 128, G: 128, B: 128, A: 128})
	r, g, b := half.RGB()
	if r < 120 || r > 136 || g != r || b != r {
		t.Fatalf("expected mid grey, got %d,%d,%d", r, g, b)
	}
}

func TestFormatImageInfo(t *testing.T) {
	entry := &statepkg.FileEntry{Name: "a.png", Size: 2048, Modified: time.Now().Add(-time.Hour)}
	info := formatImageInfo(entry, imaging.Meta{Width: 10, Height: 5, Format: "png"}, statepkg.ViewState{Zoom: 1.25, Rotation: 90})
	for _, want := range []string{"10×5 png", "2.0 KiB", "1 hour ago", "125%", "90°"} {
		if !strings.Contains(info, want) {
			t.Fatalf("expected %q in %q", want, info)
		}
	}
	if formatImageInfo(nil, imaging.Meta{}, statepkg.ViewState{}) != "" {
		t.Fatalf("no entry should give no info")
	}
}

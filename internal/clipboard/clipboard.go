package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	atotto "github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNotImage   = errors.New("data is not an image")
	ErrNoImageCmd = errors.New("no image clipboard tool found (install wl-clipboard or xclip)")
)

// System writes to the desktop clipboard. Text goes through atotto/clipboard
// and falls back to an OSC 52 escape on the terminal; images are piped to
// the first image-capable tool on PATH.
type System struct {
	goos      string
	lookPath  func(string) (string, error)
	writeText func(string) error
	run       func(args []string, stdin []byte) error
	terminal  func() (io.WriteCloser, error)
}

func New() *System {
	return &System{
		goos:      runtime.GOOS,
		lookPath:  exec.LookPath,
		writeText: atotto.WriteAll,
		run:       runCommand,
		terminal:  openTerminal,
	}
}

// PutText copies text. When no native clipboard is reachable the text is
// sent to the terminal as OSC 52, which most emulators honour over SSH.
func (s *System) PutText(text string) error {
	if !atotto.Unsupported {
		if err := s.writeText(text); err == nil {
			return nil
		}
	}
	tty, err := s.terminal()
	if err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	defer tty.Close()

	seq := osc52.New(text)
	if os.Getenv("TMUX") != "" {
		seq = seq.Tmux()
	}
	_, err = seq.WriteTo(tty)
	return err
}

// PutImage copies encoded image bytes with their sniffed MIME type.
func (s *System) PutImage(data []byte) error {
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return ErrNotImage
	}
	args, ok := detectImageCommandInternal(s.goos, mime.String(), s.lookPath)
	if !ok {
		return ErrNoImageCmd
	}
	return s.run(args, data)
}

// detectImageCommandInternal picks the clipboard tool for an image of the
// given MIME type. Wayland is preferred over X11 when both are installed.
func detectImageCommandInternal(goos, mime string, lookPath func(string) (string, error)) ([]string, bool) {
	if strings.EqualFold(goos, "windows") || strings.EqualFold(goos, "darwin") {
		return nil, false
	}

	if path, err := lookPath("wl-copy"); err == nil && path != "" {
		return []string{path, "--type", mime}, true
	}
	if path, err := lookPath("xclip"); err == nil && path != "" {
		return []string{path, "-selection", "clipboard", "-t", mime, "-i"}, true
	}
	return nil, false
}

func runCommand(args []string, stdin []byte) error {
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = bytes.NewReader(stdin)
	output, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(output))
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", filepath.Base(args[0]), err, msg)
		}
		return fmt.Errorf("%s: %w", filepath.Base(args[0]), err)
	}
	return nil
}

func openTerminal() (io.WriteCloser, error) {
	return os.OpenFile("/dev/tty", os.O_WRONLY, 0)
}

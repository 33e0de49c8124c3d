package app

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/kk-code-lab/vimview/internal/config"
	statepkg "github.com/kk-code-lab/vimview/internal/state"
)

var commandBuilder = exec.Command

// editConfig opens the configuration file in the user's editor while the
// screen is suspended. Failures are reported in the status line.
func (app *Application) editConfig() error {
	path := app.configPath
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			app.reportError(err)
			return err
		}
		path = defaultPath
	}
	if len(app.editorCmd) == 0 {
		err := fmt.Errorf("no editor found; set $EDITOR")
		app.reportError(err)
		return err
	}
	if err := app.openFileInEditor(path); err != nil {
		app.reportError(err)
		return err
	}
	return nil
}

func (app *Application) reportError(err error) {
	_ = app.engine.Reduce(statepkg.NoticeAction{Text: err.Error(), Error: true})
}

func (app *Application) openFileInEditor(filePath string) error {
	if len(app.editorCmd) == 0 {
		return fmt.Errorf("no editor configured")
	}

	editorArgs := app.editorArgsWithFile(filePath)
	useTTY := runtime.GOOS != "windows"
	var tty *os.File
	var err error

	if useTTY {
		tty, err = os.OpenFile("/dev/tty", os.O_RDWR, 0)
		if err != nil {
			return app.openFileInEditorFallback(editorArgs)
		}
		defer func() {
			_ = tty.Close()
		}()
	}

	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}

	cmd := commandBuilder(editorArgs[0], editorArgs[1:]...)
	if useTTY {
		cmd.Stdin = tty
		cmd.Stdout = tty
		cmd.Stderr = tty
	} else {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	runErr := cmd.Run()

	if err := app.screen.Resume(); err != nil {
		return fmt.Errorf("failed to resume screen: %w", err)
	}
	app.screen.Sync()
	if runErr != nil {
		return fmt.Errorf("%s: %w", editorArgs[0], runErr)
	}
	return nil
}

func (app *Application) openFileInEditorFallback(args []string) error {
	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}
	defer func() {
		_ = app.screen.Resume()
		app.screen.Sync()
	}()

	cmd := commandBuilder(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return nil
}

func (app *Application) editorArgsWithFile(filePath string) []string {
	args := make([]string, len(app.editorCmd)+1)
	copy(args, app.editorCmd)
	args[len(app.editorCmd)] = filePath
	return args
}

// actionName turns statepkg.DeleteAction into "delete" for log fields.
func actionName(action statepkg.Action) string {
	name := fmt.Sprintf("%T", action)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(strings.TrimSuffix(name, "Action"))
}

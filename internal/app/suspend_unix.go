//go:build !windows

package app

import (
	"syscall"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/vimview/internal/state"
)

func (app *Application) suspendToShell() {
	// Return terminal control to the shell before stopping the process.
	_ = app.screen.Suspend()
	// Stop only this process; signalling the whole group would also stop the
	// shell wrapper that launched the viewer and break `fg`.
	_ = syscall.Kill(syscall.Getpid(), syscall.SIGTSTP)
}

func (app *Application) resumeAfterStop() bool {
	if err := app.screen.Resume(); err != nil {
		return false
	}
	app.screen.Sync()
	_ = app.screen.PostEvent(tcell.NewEventInterrupt("resume"))
	if w, h := app.screen.Size(); w > 0 && h > 0 {
		app.apply(statepkg.ResizeAction{Width: w, Height: h})
	}
	return true
}

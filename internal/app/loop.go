package app

import (
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	fsutil "github.com/kk-code-lab/vimview/internal/fs"
	"github.com/kk-code-lab/vimview/internal/logging"
	statepkg "github.com/kk-code-lab/vimview/internal/state"
)

// Run processes terminal events and queued actions until the user quits.
func (app *Application) Run() {
	app.renderer.Render(app.engine.State())
	renderPending := false

	eventChan := make(chan tcell.Event)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-quit:
				return
			}
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	for !app.shouldQuit {
		if renderPending {
			app.renderer.Render(app.engine.State())
			renderPending = false
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventResize:
		app.screen.Sync()
		app.input.ProcessEvent(ev)
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

// handleAction intercepts the actions that need the terminal and hands the
// rest to the engine.
func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.TerminateAction:
		app.shouldQuit = true
		return false
	case statepkg.QuitAction:
		if app.engine.State().Listing == nil {
			app.shouldQuit = true
			return false
		}
	case statepkg.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	case statepkg.EditConfigAction:
		if err := app.editConfig(); err != nil {
			logging.LogError("edit config", err)
			return true
		}
	}

	app.apply(action)
	return true
}

// apply reduces action, logs failures and keeps the watcher on the viewed
// directory. A viewed file that moved away is dropped from the image cache.
func (app *Application) apply(action statepkg.Action) {
	before := app.engine.State().CurrentPath()
	if err := app.engine.Reduce(action); err != nil {
		logging.LogError(actionName(action), err)
	}
	if before != "" && before != app.engine.State().CurrentPath() && !fsutil.Exists(before) {
		app.images.Forget(before)
	}
	app.syncWatcher()
}

func (app *Application) syncWatcher() {
	if app.watcher == nil {
		return
	}
	dir := app.engine.State().Directory()
	if dir == app.watcher.Dir() {
		return
	}
	if err := app.watcher.Watch(dir); err != nil {
		logging.LogError("watch", err)
	}
}

package app

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/vimview/internal/clipboard"
	"github.com/kk-code-lab/vimview/internal/config"
	"github.com/kk-code-lab/vimview/internal/imaging"
	"github.com/kk-code-lab/vimview/internal/keymap"
	"github.com/kk-code-lab/vimview/internal/logging"
	"github.com/kk-code-lab/vimview/internal/session"
	statepkg "github.com/kk-code-lab/vimview/internal/state"
	inputui "github.com/kk-code-lab/vimview/internal/ui/input"
	renderui "github.com/kk-code-lab/vimview/internal/ui/render"
	"github.com/kk-code-lab/vimview/internal/watch"
)

// Options configures a new Application.
type Options struct {
	Config     *config.Config
	ConfigPath string
	// SessionPath overrides the default session file location.
	SessionPath string
	// Directory, when set, is opened directly instead of showing Home.
	Directory string
}

// Application represents the running app.
type Application struct {
	screen     tcell.Screen
	engine     *statepkg.Engine
	renderer   *renderui.Renderer
	input      *inputui.InputHandler
	images     *imaging.Cache
	watcher    *watch.Watcher
	actionCh   chan statepkg.Action
	shouldQuit bool
	configPath string
	editorCmd  []string

	mu        sync.Mutex
	closed    bool
	done      chan struct{}
	closeOnce sync.Once
	// senders tracks dispatches parked on a full action channel.
	senders sync.WaitGroup
}

// NewApplication opens the terminal and builds the viewer around it.
func NewApplication(opts Options) (*Application, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}

	app, err := newApplication(screen, opts, clipboard.New())
	if err != nil {
		screen.Fini()
		return nil, err
	}
	return app, nil
}

// newApplication wires the app to an initialised screen.
func newApplication(screen tcell.Screen, opts Options, clip statepkg.Clipboard) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	sessionPath := opts.SessionPath
	if sessionPath == "" {
		path, err := config.SessionPath()
		if err != nil {
			return nil, fmt.Errorf("session path: %w", err)
		}
		sessionPath = path
	}

	configPath := opts.ConfigPath
	engine := statepkg.NewEngine(statepkg.Options{
		Config:    cfg,
		Sessions:  session.NewFileStore(sessionPath),
		Clipboard: clip,
		SaveConfig: func(c *config.Config) error {
			if configPath == "" {
				return nil
			}
			return config.Save(c, configPath)
		},
	})

	actionCh := make(chan statepkg.Action, 10)
	app := &Application{
		screen:     screen,
		engine:     engine,
		images:     imaging.NewCache(imaging.DefaultCacheSize),
		actionCh:   actionCh,
		configPath: configPath,
		done:       make(chan struct{}),
	}
	if editor, ok := detectEditorCommand(); ok {
		app.editorCmd = editor
	}

	watcher, err := watch.New(func(dir string) {
		app.dispatch(statepkg.DirectoryChangedAction{Directory: dir})
	}, watch.DefaultDebounce)
	if err != nil {
		// The viewer still works without live refresh.
		logging.LogError("watch", err)
	} else {
		app.watcher = watcher
	}

	bindings := keymap.NewBindings(cfg)
	defaultDir, _ := config.ExpandHome(cfg.Settings.DefaultDirectory)
	app.renderer = renderui.NewRenderer(screen, renderui.Options{
		Theme:            renderui.ThemeFromConfig(cfg),
		Bindings:         bindings,
		Images:           app.images,
		DefaultDirectory: defaultDir,
	})
	app.input = inputui.NewInputHandler(actionCh, bindings)
	app.input.SetState(engine.State())

	w, h := screen.Size()
	app.apply(statepkg.ResizeAction{Width: w, Height: h})
	if opts.Directory != "" {
		app.apply(statepkg.OpenDirectoryAction{Path: opts.Directory})
	}
	return app, nil
}

// dispatch queues an action from any goroutine without blocking the sender.
// Actions dispatched after Close are dropped.
func (app *Application) dispatch(action statepkg.Action) {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.closed {
		return
	}
	select {
	case app.actionCh <- action:
	default:
		app.senders.Add(1)
		go func() {
			defer app.senders.Done()
			select {
			case app.actionCh <- action:
			case <-app.done:
			}
		}()
	}
}

// State exposes the viewer state for inspection.
func (app *Application) State() *statepkg.ViewerState {
	return app.engine.State()
}

// Close persists the session and releases the terminal.
func (app *Application) Close() error {
	var err error
	app.closeOnce.Do(func() {
		app.mu.Lock()
		app.closed = true
		close(app.done)
		app.mu.Unlock()
		if app.watcher != nil {
			_ = app.watcher.Close()
		}
		app.senders.Wait()
		err = app.engine.Shutdown()
		if err != nil {
			logging.LogError("shutdown", err)
		}
		app.screen.Fini()
	})
	return err
}

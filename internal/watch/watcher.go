package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	fsutil "github.com/kk-code-lab/vimview/internal/fs"
	"github.com/kk-code-lab/vimview/internal/logging"
)

// DefaultDebounce collapses bursts such as a batch copy into one refresh.
const DefaultDebounce = 150 * time.Millisecond

// Watcher follows a single directory and reports image changes in it. Events
// are debounced and delivered on the watcher goroutine via notify.
type Watcher struct {
	fsw      *fsnotify.Watcher
	notify   func(dir string)
	debounce time.Duration

	mu    sync.Mutex
	dir   string
	timer *time.Timer

	done      chan struct{}
	closeOnce sync.Once
}

func New(notify func(dir string), debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		fsw:      fsw,
		notify:   notify,
		debounce: debounce,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Watch switches to dir. An empty dir stops watching. Watching the current
// directory again is a no-op.
func (w *Watcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dir == w.dir {
		return nil
	}
	if w.dir != "" {
		_ = w.fsw.Remove(w.dir)
	}
	w.stopTimerLocked()
	w.dir = ""
	if dir == "" {
		return nil
	}

	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.dir = dir
	logging.WithOp("watch").WithField("dir", dir).Debug("watching directory")
	return nil
}

// Dir returns the directory being watched.
func (w *Watcher) Dir() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		w.stopTimerLocked()
		w.mu.Unlock()
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if relevant(event) {
				w.schedule(filepath.Dir(event.Name))
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.WithOp("watch").WithError(err).Warn("fsnotify watcher error")

		case <-w.done:
			return
		}
	}
}

// relevant filters out events that cannot change the image listing.
func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Base(event.Name)
	if fsutil.IsHidden(name) {
		return false
	}
	return fsutil.IsImageName(name)
}

func (w *Watcher) schedule(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dir != w.dir {
		return
	}
	w.stopTimerLocked()
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		current := w.dir
		w.timer = nil
		w.mu.Unlock()

		select {
		case <-w.done:
			return
		default:
		}
		if current == dir && w.notify != nil {
			w.notify(dir)
		}
	})
}

func (w *Watcher) stopTimerLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

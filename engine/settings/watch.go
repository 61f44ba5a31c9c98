package settings

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last change before reloading.
const DefaultDebounce = 100 * time.Millisecond

// WatcherBuilderOption is a functional option for configuring a Watcher during construction.
type WatcherBuilderOption func(*Watcher)

// WithDebounce is an option builder that sets the quiet period before a reload.
//
// Parameters:
//   - d: the debounce duration
//
// Returns:
//   - WatcherBuilderOption: a function that applies the debounce option to a watcher
func WithDebounce(d time.Duration) WatcherBuilderOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// Watcher reloads a settings file into a Store whenever the file changes.
// Editors often replace files instead of writing them, so the parent directory is watched.
type Watcher struct {
	watcher  *fsnotify.Watcher
	store    *Store
	path     string
	debounce time.Duration

	// Events receives the settings after every successful reload.
	Events chan Settings

	// Errors receives reload and watch failures.
	Errors chan error

	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher starts watching path and applies every change to store.
//
// Parameters:
//   - store: the store to update
//   - path: the settings file
//   - options: a variadic list of WatcherBuilderOption functions
//
// Returns:
//   - *Watcher: the running watcher
//   - error: error if the directory cannot be watched
func NewWatcher(store *Store, path string, options ...WatcherBuilderOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("settings: resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		store:    store,
		path:     abs,
		debounce: DefaultDebounce,
		Events:   make(chan Settings, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, option := range options {
		option(w)
	}

	go w.run()
	return w, nil
}

// Close stops the watcher. It is safe to call more than once.
//
// Returns:
//   - error: error from the underlying fsnotify watcher
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) reload() {
	if err := w.store.Load(w.path); err != nil {
		log.Printf("[Settings] reload failed: %v", err)
		w.report(err)
		return
	}
	select {
	case w.Events <- w.store.Snapshot():
	default:
	}
}

// report delivers err without blocking; a full channel drops it.
func (w *Watcher) report(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}

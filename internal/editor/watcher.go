package editor

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"lumen/internal/logging"
)

// Watcher reports writes to one file. It watches the file's directory so
// that editors which save by renaming a temporary file are seen too.
// Changes are queued from the watcher goroutine and drained by the render
// thread between frames.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup

	closeOnce sync.Once
	closeErr  error

	mu      sync.Mutex
	pending bool
	notify  chan struct{}
}

// NewWatcher starts watching path, which need not exist yet.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("editor: watch %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("editor: watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("editor: watch %s: %w", path, err)
	}

	w := &Watcher{
		path:    abs,
		watcher: fw,
		done:    make(chan struct{}),
		notify:  make(chan struct{}, 1),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.mu.Lock()
				w.pending = true
				w.mu.Unlock()
				select {
				case w.notify <- struct{}{}:
				default:
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Logger().Warn("editor: file watcher error", "path", w.path, "err", err)
		}
	}
}

// Path is the watched file.
func (w *Watcher) Path() string { return w.path }

// Drain returns the watched path once if it changed since the last call.
// Bursts of writes collapse into a single change.
func (w *Watcher) Drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.pending {
		return nil
	}
	w.pending = false
	return []string{w.path}
}

// Changed is signalled after a change is queued, for hosts that block
// waiting for one.
func (w *Watcher) Changed() <-chan struct{} { return w.notify }

// Close stops the watcher goroutine. Later calls return the first
// call's result.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
		w.closeErr = w.watcher.Close()
		w.wg.Wait()
	})
	return w.closeErr
}

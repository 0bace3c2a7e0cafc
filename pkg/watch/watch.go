// Package watch reloads a timeline when its file changes on disk.
package watch

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/debounce"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher calls onChange once per burst of writes to any watched file.
type Watcher struct {
	files    map[string]bool
	watcher  *fsnotify.Watcher
	debounce *debounce.Debouncer
	logger   *log.Logger

	done chan struct{}
	once sync.Once
}

// New watches paths. The parent directories are watched so that editors
// replacing files via rename are still observed.
func New(paths []string, interval time.Duration, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		files:    make(map[string]bool),
		watcher:  fw,
		debounce: debounce.New(interval, onChange),
		logger:   log.New(io.Discard, "", 0),
		done:     make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	go w.loop()
	return w, nil
}

// SetLogger sets a custom logger for watch errors.
func (w *Watcher) SetLogger(logger *log.Logger) {
	w.logger = logger
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.debounce.Trigger()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Printf("watch: %v", err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

// Close stops watching. Pending reloads are dropped.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.debounce.Stop()
		err = w.watcher.Close()
	})
	return err
}

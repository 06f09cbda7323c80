package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"circuit-sketch/internal/logging"
)

// Watcher reloads the config file whenever it is written, created or
// replaced, and hands valid results to a callback.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	stopOnce sync.Once
	onChange func(Config)
	log      *slog.Logger
}

// NewWatcher watches path. The containing directory must exist; it is
// watched instead of the file so editors that replace the file are seen.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:    abs,
		watcher: fw,
		stopCh:  make(chan struct{}),
		log:     logging.WithComponent("config"),
	}, nil
}

// OnChange sets the callback run after a successful reload. It is called
// from the watcher goroutine.
func (w *Watcher) OnChange(callback func(Config)) {
	w.onChange = callback
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop ends the watch and releases the underlying watcher.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", slog.Any("err", err))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		// keep the previous settings until the file is fixed
		w.log.Warn("reload failed", slog.String("path", w.path), slog.Any("err", err))
		return
	}
	w.log.Info("config reloaded", slog.String("path", w.path))
	if w.onChange != nil {
		w.onChange(cfg)
	}
}

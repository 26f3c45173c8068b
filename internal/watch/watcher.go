// Package watch reports batches of changed documents in a directory.
package watch

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when no positive debounce is configured.
const DefaultDebounce = 200 * time.Millisecond

// Watcher monitors a directory for changes to documents with one extension.
// Files that change within the debounce window are reported together.
type Watcher struct {
	Dir      string
	Ext      string
	Debounce time.Duration
	Changes  <-chan []string // Read-only external channel

	changes chan []string
	stop    chan struct{}
	done    chan struct{}
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// New creates a watcher for dir. A nil logger discards watch errors.
func New(dir, ext string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ch := make(chan []string, 4)
	return &Watcher{
		Dir:      dir,
		Ext:      ext,
		Debounce: debounce,
		Changes:  ch,
		changes:  ch,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		watcher:  fw,
		logger:   logger,
	}, nil
}

// Start begins watching the directory.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

// Run starts the watcher and calls handle for every batch until ctx is
// done. handle runs on the caller's goroutine, so batches never overlap.
func (w *Watcher) Run(ctx context.Context, handle func(files []string)) error {
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case files := <-w.Changes:
			handle(files)
		}
	}
}

func (w *Watcher) loop() {
	defer close(w.done)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.Debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.isDocument(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = time.Now()
			}

		case <-ticker.C:
			if len(pending) == 0 {
				continue
			}
			now := time.Now()
			quiet := true
			for _, t := range pending {
				if now.Sub(t) < w.Debounce {
					quiet = false
					break
				}
			}
			if !quiet {
				continue
			}
			batch := make([]string, 0, len(pending))
			for file := range pending {
				batch = append(batch, file)
			}
			sort.Strings(batch)
			clear(pending)
			select {
			case w.changes <- batch:
			case <-w.stop:
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "dir", w.Dir, "err", err)
		}
	}
}

// isDocument reports whether name has the watched extension. Hidden files,
// such as the temporary files of atomic writes, are ignored.
func (w *Watcher) isDocument(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.HasSuffix(base, w.Ext)
}

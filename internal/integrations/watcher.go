// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package integrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/steptrail/internal/logging"
)

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// Watcher caches a FileStore's parse and drops the cache whenever the file
// changes on disk. The parent directory is watched so atomic renames and
// late creation are seen.
type Watcher struct {
	store   *FileStore
	watcher *fsnotify.Watcher
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	changes chan struct{}

	mu     sync.Mutex
	cached []Connection
	err    error
	valid  bool

	// onInvalidate is called after each cache drop; used by tests.
	onInvalidate func()
}

// NewWatcher starts watching store's file.
func NewWatcher(store *FileStore) (*Watcher, error) {
	if store.Path() == "" {
		return nil, fmt.Errorf("%w: no path configured", ErrStoreUnavailable)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(store.Path())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		fw.Close()
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		store:   store,
		watcher: fw,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		changes: make(chan struct{}, 1),
	}
	go w.processEvents()
	return w, nil
}

// Connections returns the cached parse, reading the file on a miss.
// Errors are cached too, until the next change event.
func (w *Watcher) Connections(ctx context.Context) ([]Connection, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.valid {
		return append([]Connection(nil), w.cached...), w.err
	}
	conns, err := w.store.Connections(ctx)
	if ctx.Err() != nil {
		return nil, err
	}
	w.cached, w.err, w.valid = conns, err, true
	return append([]Connection(nil), conns...), err
}

// Put writes through to the file and drops the cache.
func (w *Watcher) Put(ctx context.Context, conns []Connection) error {
	err := w.store.Put(ctx, conns)
	w.invalidate()
	return err
}

// Changes signals after the cache is dropped. Signals coalesce: a reader
// that falls behind sees one pending signal, not one per event.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) invalidate() {
	w.mu.Lock()
	w.valid = false
	w.cached = nil
	w.err = nil
	hook := w.onInvalidate
	w.mu.Unlock()
	select {
	case w.changes <- struct{}{}:
	default:
	}
	if hook != nil {
		hook()
	}
}

func (w *Watcher) processEvents() {
	defer close(w.done)
	target := filepath.Clean(w.store.Path())

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				logging.WithField("path", event.Name).Debugf("integration store changed: %s", event.Op)
				w.invalidate()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.WithError(err).Warn("integration store watcher error")
			w.invalidate()
		}
	}
}

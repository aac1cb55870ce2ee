// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"log/slog"
	"path/filepath"
	"sync"

	"cogentcore.org/stage/base/errors"
	"github.com/fsnotify/fsnotify"
)

// Watcher watches asset files on disk and makes the [Loader] forget
// them when they change, so that the next load picks up the new
// content. Handles that were already returned never revert; the
// caller decides when to load again, typically in OnChange.
type Watcher struct {

	// OnChange is called with the asset path after the loader has
	// forgotten it. It is called on the watcher goroutine.
	OnChange func(path string)

	loader  *Loader
	root    string
	watcher *fsnotify.Watcher
	done    chan struct{}

	mu    sync.Mutex
	paths map[string]string // absolute file path -> asset path
}

// NewWatcher returns a new [Watcher] for assets that the loader
// resolves relative to the given root directory.
func NewWatcher(loader *Loader, root string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{loader: loader, root: root, watcher: fw, done: make(chan struct{}), paths: make(map[string]string)}
	go w.watch()
	return w, nil
}

// Add starts watching the given asset path. The directory containing
// the file is watched, so editors that replace files are handled.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(filepath.Join(w.root, path))
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.paths[abs] = path
	w.mu.Unlock()
	return w.watcher.Add(filepath.Dir(abs))
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) watch() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.mu.Lock()
			path, watched := w.paths[filepath.Clean(ev.Name)]
			w.mu.Unlock()
			if !watched {
				continue
			}
			slog.Info("asset changed", "path", path, "op", ev.Op.String())
			w.loader.Forget(path)
			if w.OnChange != nil {
				w.OnChange(path)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			errors.Log(err)
		}
	}
}

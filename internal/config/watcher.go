// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG FILE WATCHER
// =============================================================================

// DefaultDebounce is the delay between a file change and the reload.
// Editors often write config files in multiple steps (truncate, write,
// chmod), so changes are coalesced before reloading.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches the config directory and reloads the global config
// when config.toml or config.json changes on disk.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onReload func(*Config)

	mu      sync.Mutex
	pending map[string]time.Time
	done    chan struct{}
	once    sync.Once
}

// NewWatcher creates a watcher for the config directory.
// The onReload callback is invoked with the freshly loaded config after
// each successful reload; it may be nil.
func NewWatcher(onReload func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		watcher:  fw,
		debounce: DefaultDebounce,
		onReload: onReload,
		pending:  make(map[string]time.Time),
		done:     make(chan struct{}),
	}, nil
}

// Watch starts watching the config directory. Returns an error if the
// directory cannot be watched; events are then processed in background
// goroutines until Close is called.
func (w *Watcher) Watch() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	go w.processEvents()
	go w.processPending()
	return nil
}

// isConfigFile reports whether path is one of the watched config files.
func isConfigFile(path string) bool {
	base := filepath.Base(path)
	return base == "config.toml" || base == "config.json"
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isConfigFile(event.Name) {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create ||
				event.Op&fsnotify.Rename == fsnotify.Rename {
				w.mu.Lock()
				w.pending[event.Name] = time.Now()
				w.mu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "Warning: config watcher error: %v\n", err)
		}
	}
}

// processPending reloads the config once pending changes settle.
func (w *Watcher) processPending() {
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return

		case <-ticker.C:
			now := time.Now()
			reload := false

			w.mu.Lock()
			for path, changed := range w.pending {
				if now.Sub(changed) >= w.debounce {
					delete(w.pending, path)
					reload = true
				}
			}
			w.mu.Unlock()

			if reload {
				w.reload()
			}
		}
	}
}

func (w *Watcher) reload() {
	if err := ReloadGlobal(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config reload failed: %v\n", err)
		return
	}
	if w.onReload != nil {
		w.onReload(Global())
	}
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

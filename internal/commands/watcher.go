// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the message command system.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// LIVE REGISTRY
// =============================================================================

// Live holds the registry currently in use. Registries are never modified;
// a reload builds a new one and swaps the pointer, so a parse that already
// loaded the old registry finishes against it.
type Live struct {
	current atomic.Pointer[Registry]
}

// NewLive creates a holder serving r.
func NewLive(r *Registry) *Live {
	l := &Live{}
	l.current.Store(r)
	return l
}

// Load returns the current registry.
func (l *Live) Load() *Registry {
	return l.current.Load()
}

// Store replaces the current registry.
func (l *Live) Store(r *Registry) {
	l.current.Store(r)
}

// =============================================================================
// DEFINITIONS WATCHER
// =============================================================================

// LoadFunc builds a fresh registry, typically from a definitions file.
type LoadFunc func() (*Registry, error)

// Watcher reloads a Live registry when its definitions file changes.
type Watcher struct {
	live     *Live
	path     string
	load     LoadFunc
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	pending time.Time // Zero when no change is waiting

	// OnReload, if set, is called after every reload attempt
	OnReload func(*Registry, error)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher for path. Changes are applied once no
// further event has arrived for debounce.
func NewWatcher(live *Live, path string, load LoadFunc, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		live:     live,
		path:     filepath.Clean(path),
		load:     load,
		watcher:  watcher,
		debounce: debounce,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching. The parent directory is watched rather than the
// file so that editors replacing the file by rename are still noticed.
func (w *Watcher) Watch() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}

	w.wg.Add(2)
	go w.processEvents()
	go w.processPending()
	return nil
}

// Reload loads and swaps in a new registry now. On failure the current
// registry is kept.
func (w *Watcher) Reload() error {
	r, err := w.load()
	if err == nil {
		w.live.Store(r)
		w.logger.Info("command definitions reloaded", "path", w.path)
	} else {
		w.logger.Warn("command definitions reload failed, keeping previous", "path", w.path, "error", err)
	}
	if w.OnReload != nil {
		w.OnReload(r, err)
	}
	return err
}

// Close stops watching and waits for the background goroutines.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

// processEvents marks the file dirty on every relevant event.
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.mu.Lock()
				w.pending = time.Now()
				w.mu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "path", w.path, "error", err)
		}
	}
}

// processPending reloads once the file has been quiet for the debounce period.
func (w *Watcher) processPending() {
	defer w.wg.Done()

	tick := w.debounce / 2
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case now := <-ticker.C:
			w.mu.Lock()
			due := !w.pending.IsZero() && now.Sub(w.pending) >= w.debounce
			if due {
				w.pending = time.Time{}
			}
			w.mu.Unlock()

			if due {
				_ = w.Reload()
			}
		}
	}
}

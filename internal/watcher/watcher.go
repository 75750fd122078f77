// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watcher turns a drop directory into upload batches: files copied
// into the directory are collected, debounced, and handed off together.
package watcher

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/jeranaias/docchat-tui/internal/uploader"
)

// settleDelay is how long the directory must stay quiet before the pending
// files are dispatched as one batch. Copying several files at once fires a
// burst of events; the delay folds the burst into a single batch.
const settleDelay = 500 * time.Millisecond

// =============================================================================
// WATCHER
// =============================================================================

// Watcher monitors one directory and dispatches batches of newly dropped
// files with a supported extension.
type Watcher struct {
	dir     string
	handler func(paths []string)
	logger  *slog.Logger
	// Batch dispatches are paced so a misbehaving producer cannot flood
	// the backend with upload batches.
	limiter *rate.Limiter
}

// New creates a watcher for dir. The handler receives the absolute paths of
// each dispatched batch, sorted for deterministic upload order.
func New(dir string, handler func(paths []string), logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		dir:     dir,
		handler: handler,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

// Run watches the directory until the context is cancelled. Returns an
// error only if the watch cannot be established.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return err
	}
	w.logger.Info("watching drop directory", "dir", w.dir)

	pending := make(map[string]struct{})
	// The timer stays stopped until the first interesting event.
	settle := time.NewTimer(settleDelay)
	if !settle.Stop() {
		<-settle.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !uploader.Supported(event.Name) {
				continue
			}
			pending[event.Name] = struct{}{}
			settle.Reset(settleDelay)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-settle.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			sort.Strings(paths)
			pending = make(map[string]struct{})

			if err := w.limiter.Wait(ctx); err != nil {
				return nil
			}
			w.logger.Info("dispatching drop batch", "files", len(paths))
			w.handler(paths)
		}
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the application logger.
//
// The TUI owns stdout, so logs go to a file under ~/.docchat/ as JSON
// lines. Before Setup runs, the package falls back to a discard logger so
// library code can always log safely.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
)

// Logger returns the application logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Setup opens the log file and installs a JSON handler at the given level.
// The caller should close the returned file on shutdown.
func Setup(path, level string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}

	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: ParseLevel(level)})

	mu.Lock()
	logger = slog.New(handler)
	mu.Unlock()

	return f, nil
}

// SetupStderr installs a text handler on stderr, used by plain CLI
// commands where a log file would hide problems from the user.
func SetupStderr(level string) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: ParseLevel(level)})

	mu.Lock()
	logger = slog.New(handler)
	mu.Unlock()
}

// ParseLevel maps a config level string to a slog.Level. Unknown strings
// fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

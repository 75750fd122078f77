// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watcher

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcher_DispatchesSupportedFilesAsOneBatch(t *testing.T) {
	dir := t.TempDir()

	batches := make(chan []string, 1)
	w := New(dir, func(paths []string) {
		batches <- paths
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()

	// Give the watch time to establish before dropping files.
	time.Sleep(200 * time.Millisecond)

	writeFile(t, filepath.Join(dir, "notes.txt"))
	writeFile(t, filepath.Join(dir, "scan.pdf"))
	writeFile(t, filepath.Join(dir, "ignored.zip"))

	select {
	case paths := <-batches:
		want := []string{
			filepath.Join(dir, "notes.txt"),
			filepath.Join(dir, "scan.pdf"),
		}
		if !reflect.DeepEqual(paths, want) {
			t.Errorf("batch = %v, want %v", paths, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no batch dispatched")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestWatcher_NoBatchForUnsupportedFiles(t *testing.T) {
	dir := t.TempDir()

	batches := make(chan []string, 1)
	w := New(dir, func(paths []string) {
		batches <- paths
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(200 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "archive.zip"))

	select {
	case paths := <-batches:
		t.Errorf("unexpected batch %v for unsupported file", paths)
	case <-time.After(1500 * time.Millisecond):
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "does-not-exist"), func([]string) {}, nil)

	err := w.Run(context.Background())
	if err == nil {
		t.Error("Run() should fail for a missing directory")
	}
}

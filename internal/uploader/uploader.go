// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package uploader sends documents to the backend for indexing, one batch
// at a time.
package uploader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/registry"
)

// NetworkErrorMessage is recorded as the outcome error when an upload fails
// at the transport level rather than being rejected by the backend.
const NetworkErrorMessage = "Network error — is the backend running?"

// DefaultErrorMessage is recorded when the backend rejects an upload
// without a detail message.
const DefaultErrorMessage = "Upload failed"

// supportedExtensions mirrors what the backend can index.
var supportedExtensions = map[string]bool{
	".txt":  true,
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Supported reports whether the file's extension is accepted for upload.
func Supported(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// =============================================================================
// FILE AND OUTCOME TYPES
// =============================================================================

// File is one document queued for upload. Open is called exactly once, when
// the file's turn in the batch comes up.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// FromPath builds a File from a path on disk, deriving the content type
// from the extension.
func FromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// Outcome is the result of one upload attempt. Err is empty on success.
type Outcome struct {
	ID          string
	Filename    string
	ContentType string
	SizeBytes   int64
	Chunks      int
	Err         string
	UploadedAt  time.Time
}

// Succeeded reports whether the upload was indexed.
func (o Outcome) Succeeded() bool {
	return o.Err == ""
}

// Log persists upload outcomes across runs.
type Log interface {
	SaveBatch(outcomes []Outcome) error
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator uploads document batches sequentially and keeps a
// most-recent-first results list. After every batch it triggers exactly one
// registry refresh, whether or not any upload succeeded.
type Orchestrator struct {
	client   *api.Client
	registry *registry.Cache
	log      Log // optional
	logger   *slog.Logger

	mu        sync.Mutex
	results   []Outcome
	observers []func()
}

// NewOrchestrator creates an orchestrator. log may be nil when outcomes
// should not be persisted.
func NewOrchestrator(client *api.Client, reg *registry.Cache, log Log, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		client:   client,
		registry: reg,
		log:      log,
		logger:   logger,
	}
}

// Subscribe registers an observer called after each batch lands in the
// results list.
func (o *Orchestrator) Subscribe(fn func()) {
	o.mu.Lock()
	o.observers = append(o.observers, fn)
	o.mu.Unlock()
}

// Seed preloads the results list, most recent first. Used to restore the
// persisted outcome history at startup.
func (o *Orchestrator) Seed(outcomes []Outcome) {
	o.mu.Lock()
	o.results = append(o.results[:0], outcomes...)
	o.mu.Unlock()
}

// Results returns a snapshot of all recorded outcomes, most recent batch
// first.
func (o *Orchestrator) Results() []Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Outcome, len(o.results))
	copy(out, o.results)
	return out
}

// UploadBatch uploads the files strictly in order, one at a time, and
// returns one outcome per input file in the same order. A failure never
// stops the batch. The outcomes are prepended to the results list, then the
// registry is refreshed exactly once; a refresh failure is logged and
// otherwise ignored. An empty batch is a no-op.
//
// Blocks until the whole batch is done; run it in its own goroutine when
// the caller must stay responsive.
func (o *Orchestrator) UploadBatch(ctx context.Context, files []File) []Outcome {
	if len(files) == 0 {
		return nil
	}

	batch := make([]Outcome, 0, len(files))
	for _, file := range files {
		batch = append(batch, o.uploadOne(ctx, file))
	}

	o.mu.Lock()
	o.results = append(batch, o.results...)
	observers := o.observers
	o.mu.Unlock()

	if o.log != nil {
		if err := o.log.SaveBatch(batch); err != nil {
			o.logger.Warn("failed to persist upload outcomes", "error", err)
		}
	}

	for _, fn := range observers {
		fn()
	}

	if err := o.registry.Refresh(ctx); err != nil {
		o.logger.Warn("registry refresh after batch failed", "error", err)
	}

	return batch
}

// uploadOne uploads a single file and maps the result or error to an
// Outcome.
func (o *Orchestrator) uploadOne(ctx context.Context, file File) Outcome {
	outcome := Outcome{
		ID:          uuid.NewString(),
		Filename:    file.Name,
		ContentType: file.ContentType,
		SizeBytes:   file.Size,
		UploadedAt:  time.Now(),
	}

	content, err := file.Open()
	if err != nil {
		o.logger.Warn("cannot open file for upload", "file", file.Name, "error", err)
		outcome.Err = err.Error()
		return outcome
	}
	defer content.Close()

	result, err := o.client.Upload(ctx, file.Name, file.ContentType, content)
	if err != nil {
		var rejected *api.UploadRejectedError
		if errors.As(err, &rejected) {
			outcome.Err = rejected.Detail
			if outcome.Err == "" {
				outcome.Err = DefaultErrorMessage
			}
		} else {
			outcome.Err = NetworkErrorMessage
		}
		o.logger.Warn("upload failed", "file", file.Name, "error", err)
		return outcome
	}

	// Success: describe the file as the backend indexed it.
	outcome.Filename = result.Filename
	outcome.ContentType = result.ContentType
	outcome.SizeBytes = result.SizeBytes
	outcome.Chunks = result.ChunksEmbedded
	return outcome
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package uploader

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/registry"
)

func memFile(name, contentType, content string) File {
	return File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

// testBackend records upload order and lets individual files fail.
type testBackend struct {
	t          *testing.T
	uploads    []string
	filesCalls int
	failWith   map[string]int    // filename -> status
	failDetail map[string]string // filename -> detail body
}

func (b *testBackend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/upload":
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				b.t.Fatalf("ParseMultipartForm: %v", err)
			}
			_, header, err := r.FormFile("file")
			if err != nil {
				b.t.Fatalf("FormFile: %v", err)
			}
			b.uploads = append(b.uploads, header.Filename)

			if status, ok := b.failWith[header.Filename]; ok {
				w.WriteHeader(status)
				if detail, ok := b.failDetail[header.Filename]; ok {
					json.NewEncoder(w).Encode(map[string]string{"detail": detail})
				}
				return
			}
			json.NewEncoder(w).Encode(api.UploadResult{
				Filename:       header.Filename,
				ContentType:    header.Header.Get("Content-Type"),
				SizeBytes:      header.Size,
				ChunksEmbedded: 5,
			})
		case "/files":
			b.filesCalls++
			json.NewEncoder(w).Encode(api.ListFilesResponse{})
		default:
			b.t.Errorf("unexpected path %q", r.URL.Path)
		}
	}
}

func newTestOrchestrator(t *testing.T, backend *testBackend) (*Orchestrator, func()) {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: server.URL})
	reg := registry.NewCache(client)
	return NewOrchestrator(client, reg, nil, nil), server.Close
}

// =============================================================================
// BATCH TESTS
// =============================================================================

func TestUploadBatch_SequentialInInputOrder(t *testing.T) {
	backend := &testBackend{t: t}
	orch, cleanup := newTestOrchestrator(t, backend)
	defer cleanup()

	outcomes := orch.UploadBatch(context.Background(), []File{
		memFile("one.txt", "text/plain", "1"),
		memFile("two.txt", "text/plain", "2"),
		memFile("three.txt", "text/plain", "3"),
	})

	wantOrder := []string{"one.txt", "two.txt", "three.txt"}
	for i, name := range wantOrder {
		if backend.uploads[i] != name {
			t.Errorf("upload %d = %q, want %q", i, backend.uploads[i], name)
		}
		if outcomes[i].Filename != name {
			t.Errorf("outcome %d = %q, want %q", i, outcomes[i].Filename, name)
		}
	}
}

func TestUploadBatch_MiddleFailureDoesNotStopBatch(t *testing.T) {
	backend := &testBackend{
		t:          t,
		failWith:   map[string]int{"report.pdf": http.StatusRequestEntityTooLarge},
		failDetail: map[string]string{"report.pdf": "too large"},
	}
	orch, cleanup := newTestOrchestrator(t, backend)
	defer cleanup()

	outcomes := orch.UploadBatch(context.Background(), []File{
		memFile("a.txt", "text/plain", "aaa"),
		memFile("report.pdf", "application/pdf", "pdfpdf"),
		memFile("b.txt", "text/plain", "bbb"),
	})

	if len(outcomes) != 3 {
		t.Fatalf("len(outcomes) = %d, want one per input file", len(outcomes))
	}
	if !outcomes[0].Succeeded() || !outcomes[2].Succeeded() {
		t.Error("surrounding uploads should succeed")
	}

	failed := outcomes[1]
	if failed.Succeeded() {
		t.Fatal("middle upload should have failed")
	}
	if failed.Err != "too large" {
		t.Errorf("Err = %q, want server detail", failed.Err)
	}
	// Failure outcomes keep the local file description.
	if failed.Filename != "report.pdf" || failed.ContentType != "application/pdf" {
		t.Errorf("failed outcome = %+v, want local file info", failed)
	}
	if failed.SizeBytes != int64(len("pdfpdf")) {
		t.Errorf("SizeBytes = %d, want local size", failed.SizeBytes)
	}
	if failed.Chunks != 0 {
		t.Errorf("Chunks = %d, want 0 for a failed upload", failed.Chunks)
	}
}

func TestUploadBatch_RejectionWithoutDetailUsesDefault(t *testing.T) {
	backend := &testBackend{
		t:        t,
		failWith: map[string]int{"a.txt": http.StatusBadRequest},
	}
	orch, cleanup := newTestOrchestrator(t, backend)
	defer cleanup()

	outcomes := orch.UploadBatch(context.Background(), []File{
		memFile("a.txt", "text/plain", "x"),
	})

	if outcomes[0].Err != DefaultErrorMessage {
		t.Errorf("Err = %q, want %q", outcomes[0].Err, DefaultErrorMessage)
	}
}

func TestUploadBatch_TransportFailureUsesNetworkMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: server.URL})
	orch := NewOrchestrator(client, registry.NewCache(client), nil, nil)

	outcomes := orch.UploadBatch(context.Background(), []File{
		memFile("a.txt", "text/plain", "x"),
	})

	if outcomes[0].Err != NetworkErrorMessage {
		t.Errorf("Err = %q, want %q", outcomes[0].Err, NetworkErrorMessage)
	}
}

func TestUploadBatch_ExactlyOneRegistryRefresh(t *testing.T) {
	tests := []struct {
		name  string
		files []File
	}{
		{
			name: "all succeed",
			files: []File{
				memFile("a.txt", "text/plain", "a"),
				memFile("b.txt", "text/plain", "b"),
			},
		},
		{
			name: "all fail",
			files: []File{
				memFile("bad.txt", "text/plain", "x"),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			backend := &testBackend{
				t:        t,
				failWith: map[string]int{"bad.txt": http.StatusBadRequest},
			}
			orch, cleanup := newTestOrchestrator(t, backend)
			defer cleanup()

			orch.UploadBatch(context.Background(), tc.files)

			if backend.filesCalls != 1 {
				t.Errorf("registry refreshes = %d, want exactly 1", backend.filesCalls)
			}
		})
	}
}

func TestUploadBatch_EmptyBatchIsNoOp(t *testing.T) {
	backend := &testBackend{t: t}
	orch, cleanup := newTestOrchestrator(t, backend)
	defer cleanup()

	outcomes := orch.UploadBatch(context.Background(), nil)

	if outcomes != nil {
		t.Errorf("outcomes = %v, want nil", outcomes)
	}
	if backend.filesCalls != 0 {
		t.Errorf("registry refreshes = %d, want 0 for empty batch", backend.filesCalls)
	}
}

// =============================================================================
// RESULTS LIST TESTS
// =============================================================================

func TestResults_MostRecentBatchFirst(t *testing.T) {
	backend := &testBackend{t: t}
	orch, cleanup := newTestOrchestrator(t, backend)
	defer cleanup()

	orch.UploadBatch(context.Background(), []File{memFile("old.txt", "text/plain", "1")})
	orch.UploadBatch(context.Background(), []File{
		memFile("new1.txt", "text/plain", "2"),
		memFile("new2.txt", "text/plain", "3"),
	})

	results := orch.Results()
	wantOrder := []string{"new1.txt", "new2.txt", "old.txt"}
	if len(results) != len(wantOrder) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(wantOrder))
	}
	for i, name := range wantOrder {
		if results[i].Filename != name {
			t.Errorf("results[%d] = %q, want %q", i, results[i].Filename, name)
		}
	}
}

func TestOrchestrator_ObserverNotifiedPerBatch(t *testing.T) {
	backend := &testBackend{t: t}
	orch, cleanup := newTestOrchestrator(t, backend)
	defer cleanup()

	calls := 0
	orch.Subscribe(func() { calls++ })

	orch.UploadBatch(context.Background(), []File{memFile("a.txt", "text/plain", "a")})
	orch.UploadBatch(context.Background(), nil)

	if calls != 1 {
		t.Errorf("observer calls = %d, want 1", calls)
	}
}

// =============================================================================
// EXTENSION FILTER TESTS
// =============================================================================

func TestSupported(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"notes.txt", true},
		{"scan.PDF", true},
		{"photo.jpeg", true},
		{"photo.webp", true},
		{"archive.zip", false},
		{"script.sh", false},
		{"noextension", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Supported(tc.name); got != tc.want {
				t.Errorf("Supported(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

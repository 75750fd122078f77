// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for communicating with the docchat backend.
package api

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// UploadResult is the backend's answer to a successful POST /upload.
type UploadResult struct {
	Filename       string `json:"filename"`
	ContentType    string `json:"content_type"`
	SizeBytes      int64  `json:"size_bytes"`
	ChunksEmbedded int    `json:"chunks_embedded"`
}

// FileRecord is one indexed document as reported by GET /files.
type FileRecord struct {
	FileID      string `json:"file_id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	UploadedAt  string `json:"uploaded_at"`
}

// ListFilesResponse is the body of GET /files.
type ListFilesResponse struct {
	Files []FileRecord `json:"files"`
}

// errorResponse is the backend's JSON error envelope.
type errorResponse struct {
	Detail string `json:"detail"`
}

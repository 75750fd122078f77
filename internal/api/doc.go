// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for communicating with the docchat
// backend.
//
// The backend exposes three endpoints:
//
//   - POST /chat: accepts {"message": "..."} and answers with a stream of
//     newline-terminated frames of the form "data: <json>". Each frame
//     carries either the retrieval sources for the answer or a single
//     generated token.
//   - POST /upload: accepts one document as a multipart form and answers
//     with the indexing result, or {"detail": "..."} on rejection.
//   - GET /files: lists every document currently indexed by the backend.
//
// Streaming is split into two layers: FrameDecoder turns arbitrary byte
// chunks into complete frame payloads, and StreamReader drives a decoder
// over a response body, parsing payloads into Events.
package api

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for communicating with the docchat backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// =============================================================================
// UPLOAD
// =============================================================================

// Upload sends one document to POST /upload as a multipart form with a
// single "file" field and returns the backend's indexing result.
//
// A non-success status yields an *UploadRejectedError carrying the server's
// detail message; transport failures yield a *ClientError.
func (c *Client) Upload(ctx context.Context, filename, contentType string, content io.Reader) (*UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := createFilePart(writer, filename, contentType)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to build upload form", Cause: err}
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read file content", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to finalize upload form", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/upload", &body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.streamClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, &ClientError{Type: ErrTypeConnection, Message: "upload request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		rejected := &UploadRejectedError{StatusCode: resp.StatusCode}
		var errBody errorResponse
		// A body without a detail field leaves Detail empty; callers
		// supply their own fallback text.
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil {
			rejected.Detail = errBody.Detail
		}
		return nil, rejected
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode upload response", Cause: err}
	}

	return &result, nil
}

// createFilePart adds the "file" field with an explicit content type, which
// CreateFormFile cannot set.
func createFilePart(writer *multipart.Writer, filename, contentType string) (io.Writer, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+escapeQuotes(filename)+`"`)
	header.Set("Content-Type", contentType)
	return writer.CreatePart(header)
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

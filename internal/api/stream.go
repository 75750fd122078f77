// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for communicating with the docchat backend.
package api

import (
	"context"
	"encoding/json"
	"io"
)

// =============================================================================
// STREAM EVENTS
// =============================================================================

// EventKind identifies what a chat stream frame carries.
type EventKind int

const (
	// EventSources replaces the citation list for the answer in progress.
	EventSources EventKind = iota
	// EventToken appends one generated token to the answer in progress.
	EventToken
)

// Event is one decoded chat stream frame.
type Event struct {
	Kind    EventKind
	Sources []string // set for EventSources
	Token   string   // set for EventToken
}

// EventCallback receives events in arrival order.
type EventCallback func(Event)

// =============================================================================
// STREAM READER
// =============================================================================

// StreamReader drives a FrameDecoder over a chat response body and parses
// frame payloads into Events.
type StreamReader struct {
	reader  io.Reader
	decoder FrameDecoder
	frames  int
}

// NewStreamReader creates a stream reader from an io.Reader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{reader: r}
}

// Process reads the stream to completion, calling the callback for each
// event in arrival order. Frames that are not valid JSON, or whose type is
// unknown, are skipped without error. A payload left unterminated when the
// stream ends is discarded.
//
// Blocks until the stream ends or the context is cancelled.
func (s *StreamReader) Process(ctx context.Context, callback EventCallback) error {
	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			n, err := s.reader.Read(buf)
			if n > 0 {
				for _, payload := range s.decoder.Decode(buf[:n]) {
					s.frames++
					if ev, ok := parseEvent(payload); ok {
						callback(ev)
					}
				}
			}
			if err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}
		}
	}
}

// FrameCount returns the number of complete frames decoded so far,
// including frames that were skipped as malformed or unknown.
func (s *StreamReader) FrameCount() int {
	return s.frames
}

// parseEvent parses one frame payload. Returns ok=false for payloads that
// should be skipped.
func parseEvent(payload string) (Event, bool) {
	var frame struct {
		Type    string   `json:"type"`
		Sources []string `json:"sources"`
		Content string   `json:"content"`
	}
	if err := json.Unmarshal([]byte(payload), &frame); err != nil {
		// Skip malformed frames
		return Event{}, false
	}

	switch frame.Type {
	case "sources":
		sources := frame.Sources
		if sources == nil {
			sources = []string{}
		}
		return Event{Kind: EventSources, Sources: sources}, true
	case "token":
		return Event{Kind: EventToken, Token: frame.Content}, true
	default:
		return Event{}, false
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat drives a conversation against the backend, folding the
// streamed answer into the transcript.
package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/transcript"
)

// ConnectFailureMessage is shown in place of the answer when the chat
// request fails before any frame arrives.
const ConnectFailureMessage = "Sorry, I couldn't connect to the server. Make sure the backend and LM Studio are running."

// =============================================================================
// SESSION
// =============================================================================

// Session owns one conversation: it submits user messages and streams the
// backend's answer into the transcript, one turn pair at a time.
//
// Send is safe to call from any goroutine, but only one send streams at a
// time; calls made while an answer is streaming are dropped.
type Session struct {
	client     *api.Client
	transcript *transcript.Store
	streaming  atomic.Bool
	logger     *slog.Logger
}

// NewSession creates a session over the given client and transcript.
func NewSession(client *api.Client, store *transcript.Store, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		client:     client,
		transcript: store,
		logger:     logger,
	}
}

// Transcript returns the session's transcript store.
func (s *Session) Transcript() *transcript.Store {
	return s.transcript
}

// Streaming reports whether an answer is currently being streamed.
func (s *Session) Streaming() bool {
	return s.streaming.Load()
}

// Send submits a user message and streams the answer into the transcript.
// Blocks until the answer is complete; run it in its own goroutine when the
// caller must stay responsive.
//
// A message that trims to empty is dropped, as is any call made while a
// previous send is still streaming. Either way the transcript is untouched.
func (s *Session) Send(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if !s.streaming.CompareAndSwap(false, true) {
		return
	}
	defer s.streaming.Store(false)

	s.transcript.AppendUser(text)
	s.transcript.OpenAssistant()
	defer s.transcript.CloseTurn()

	body, err := s.client.Chat(ctx, text)
	if err != nil {
		s.logger.Warn("chat request failed", "error", err)
		s.transcript.ReplaceContent(ConnectFailureMessage)
		return
	}
	defer body.Close()

	reader := api.NewStreamReader(body)
	err = reader.Process(ctx, func(ev api.Event) {
		switch ev.Kind {
		case api.EventSources:
			s.transcript.SetCitations(ev.Sources)
		case api.EventToken:
			s.transcript.AppendToken(ev.Token)
		}
	})
	if err != nil {
		s.logger.Warn("chat stream interrupted", "error", err, "frames", reader.FrameCount())
		if reader.FrameCount() == 0 {
			// The stream died before delivering anything; treat it the
			// same as a failed request. A partial answer is kept as-is.
			s.transcript.ReplaceContent(ConnectFailureMessage)
		}
	}
}

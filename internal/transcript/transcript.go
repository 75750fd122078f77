// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript holds the in-memory conversation transcript.
package transcript

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrTurnOpen is returned when a new turn is appended while the assistant
// turn is still streaming.
var ErrTurnOpen = errors.New("transcript: a turn is still open")

// =============================================================================
// TURN TYPE
// =============================================================================

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry in the transcript. While Open is true the turn is still
// receiving streamed content; closed turns never change again.
type Turn struct {
	ID        string
	Role      Role
	Content   string
	Citations []string
	Open      bool
	CreatedAt time.Time
}

// =============================================================================
// STORE
// =============================================================================

// Store is an append-only ordered list of turns. At most one turn — always
// the last — is open for mutation at a time.
//
// The store is not synchronized: all mutation must happen from a single
// goroutine. Observers are invoked synchronously after every applied
// mutation, so each one sees the transcript with that mutation fully
// applied before control returns to the mutator.
type Store struct {
	turns []Turn
	// PERFORMANCE: strings.Builder avoids quadratic allocations while the
	// open turn accumulates tokens.
	content   strings.Builder
	observers []func()
}

// NewStore creates an empty transcript.
func NewStore() *Store {
	return &Store{}
}

// Subscribe registers an observer called after every applied mutation.
func (s *Store) Subscribe(fn func()) {
	s.observers = append(s.observers, fn)
}

func (s *Store) notify() {
	for _, fn := range s.observers {
		fn()
	}
}

// =============================================================================
// MUTATION
// =============================================================================

// AppendUser appends a closed user turn. Fails if a turn is still open.
func (s *Store) AppendUser(content string) error {
	if s.IsOpen() {
		return ErrTurnOpen
	}
	s.turns = append(s.turns, Turn{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	})
	s.notify()
	return nil
}

// OpenAssistant appends an empty assistant turn and leaves it open for
// streaming. Fails if a turn is still open.
func (s *Store) OpenAssistant() error {
	if s.IsOpen() {
		return ErrTurnOpen
	}
	s.content.Reset()
	s.turns = append(s.turns, Turn{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Open:      true,
		CreatedAt: time.Now(),
	})
	s.notify()
	return nil
}

// AppendToken appends a token to the open turn's content. No-op when no
// turn is open; closed turns are immutable.
func (s *Store) AppendToken(token string) {
	if !s.IsOpen() {
		return
	}
	s.content.WriteString(token)
	s.turns[len(s.turns)-1].Content = s.content.String()
	s.notify()
}

// SetCitations replaces the open turn's citation list wholesale. No-op when
// no turn is open.
func (s *Store) SetCitations(citations []string) {
	if !s.IsOpen() {
		return
	}
	copied := make([]string, len(citations))
	copy(copied, citations)
	s.turns[len(s.turns)-1].Citations = copied
	s.notify()
}

// ReplaceContent overwrites the open turn's accumulated content. Used when
// the answer has to be substituted with an error notice. No-op when no turn
// is open.
func (s *Store) ReplaceContent(content string) {
	if !s.IsOpen() {
		return
	}
	s.content.Reset()
	s.content.WriteString(content)
	s.turns[len(s.turns)-1].Content = content
	s.notify()
}

// CloseTurn closes the open turn, freezing its content. No-op when no turn
// is open.
func (s *Store) CloseTurn() {
	if !s.IsOpen() {
		return
	}
	s.turns[len(s.turns)-1].Open = false
	s.notify()
}

// =============================================================================
// READ ACCESS
// =============================================================================

// IsOpen reports whether the last turn is still receiving content.
func (s *Store) IsOpen() bool {
	return len(s.turns) > 0 && s.turns[len(s.turns)-1].Open
}

// Len returns the number of turns.
func (s *Store) Len() int {
	return len(s.turns)
}

// Turns returns a snapshot copy of all turns in order.
func (s *Store) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	for i := range out {
		if out[i].Citations != nil {
			cites := make([]string, len(out[i].Citations))
			copy(cites, out[i].Citations)
			out[i].Citations = cites
		}
	}
	return out
}

// Last returns a copy of the most recent turn. ok is false when the
// transcript is empty.
func (s *Store) Last() (Turn, bool) {
	if len(s.turns) == 0 {
		return Turn{}, false
	}
	return s.turns[len(s.turns)-1], true
}

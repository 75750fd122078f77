// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	chatcore "github.com/jeranaias/docchat-tui/internal/chat"
	"github.com/jeranaias/docchat-tui/internal/transcript"
	"github.com/jeranaias/docchat-tui/internal/ui/styles"
)

func newReadyModel(t *testing.T) Model {
	t.Helper()
	m := New(styles.New("dark"), true)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

// collectMsg runs a command tree and returns the first concrete message.
func collectMsg(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if inner := collectMsg(c); inner != nil {
				if _, isSubmit := inner.(SubmitMsg); isSubmit {
					return inner
				}
			}
		}
		return nil
	}
	return msg
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestModel_EnterSubmitsTypedText(t *testing.T) {
	m := newReadyModel(t)
	m = typeText(m, "hello docs")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	msg := collectMsg(cmd)
	submit, ok := msg.(SubmitMsg)
	if !ok {
		t.Fatalf("enter produced %T, want SubmitMsg", msg)
	}
	if submit.Text != "hello docs" {
		t.Errorf("SubmitMsg.Text = %q, want typed text", submit.Text)
	}
	if m.input.Value() != "" {
		t.Errorf("input should be cleared after submit, got %q", m.input.Value())
	}
}

func TestModel_EnterWhileStreamingIsIgnored(t *testing.T) {
	m := newReadyModel(t)
	m, _ = m.Update(TranscriptMsg{Streaming: true})
	m = typeText(m, "impatient")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if msg := collectMsg(cmd); msg != nil {
		if _, ok := msg.(SubmitMsg); ok {
			t.Error("enter while streaming should not submit")
		}
	}
}

func TestModel_EnterWithEmptyInputIsIgnored(t *testing.T) {
	m := newReadyModel(t)
	m = typeText(m, "   ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if msg := collectMsg(cmd); msg != nil {
		if _, ok := msg.(SubmitMsg); ok {
			t.Error("enter with blank input should not submit")
		}
	}
}

func TestModel_ViewShowsTranscript(t *testing.T) {
	m := newReadyModel(t)
	m, _ = m.Update(TranscriptMsg{
		Turns: []transcript.Turn{
			{Role: transcript.RoleUser, Content: "what about vacation?"},
			{Role: transcript.RoleAssistant, Content: "20 days.", Citations: []string{"handbook.pdf"}},
		},
	})

	view := m.View()
	if !strings.Contains(view, "vacation") {
		t.Error("view should contain the user message")
	}
	if !strings.Contains(view, "20 days") {
		t.Error("view should contain the answer")
	}
	if !strings.Contains(view, "handbook.pdf") {
		t.Error("view should contain the citation")
	}
}

func TestModel_RenderStreamingUnterminatedFence(t *testing.T) {
	m := newReadyModel(t)

	out := m.renderStreaming("here is the loop:\n```go\nfor i := range xs {")
	if !strings.Contains(out, "here is the loop:") {
		t.Error("prose before an unterminated fence should be rendered")
	}
	if !strings.Contains(out, "for i := range xs {") {
		t.Error("content after an unterminated fence should be rendered raw")
	}
}

func TestModel_RenderStreamingCompletedFence(t *testing.T) {
	m := newReadyModel(t)

	out := m.renderStreaming("before\n```go\nx := 1\n```\nafter")
	if !strings.Contains(out, "before") || !strings.Contains(out, "after") {
		t.Error("prose around a completed fence should be rendered")
	}
	if !strings.Contains(out, "x") {
		t.Error("completed fence should render its code")
	}
	if strings.Contains(out, "```") {
		t.Error("fence markers should not leak into the rendered block")
	}
}

func TestModel_ConnectFailureRenderedAsError(t *testing.T) {
	m := newReadyModel(t)
	m, _ = m.Update(TranscriptMsg{
		Turns: []transcript.Turn{
			{Role: transcript.RoleAssistant, Content: chatcore.ConnectFailureMessage},
		},
	})

	if !strings.Contains(m.View(), "couldn't connect") {
		t.Error("view should contain the connectivity failure message")
	}
}

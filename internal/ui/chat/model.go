// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation view of the docchat TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	chatcore "github.com/jeranaias/docchat-tui/internal/chat"
	"github.com/jeranaias/docchat-tui/internal/transcript"
	"github.com/jeranaias/docchat-tui/internal/ui/components"
	"github.com/jeranaias/docchat-tui/internal/ui/styles"
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat view: a scrollback viewport over the transcript and an
// input box. While an answer streams, input is disabled and a spinner runs.
type Model struct {
	theme *styles.Theme

	viewport viewport.Model
	input    textarea.Model
	spin     spinner.Model

	turns         []transcript.Turn
	streaming     bool
	showCitations bool

	width  int
	height int
	ready  bool

	renderer *glamour.TermRenderer
}

// New creates the chat view.
func New(theme *styles.Theme, showCitations bool) Model {
	input := textarea.New()
	input.Placeholder = "Ask about your documents..."
	input.Prompt = "> "
	input.SetHeight(1)
	input.ShowLineNumbers = false
	input.CharLimit = 4000
	input.Focus()

	return Model{
		theme:         theme,
		input:         input,
		spin:          components.NewSpinner(theme),
		showCitations: showCitations,
	}
}

// Init starts the spinner ticker.
func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the chat view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refreshViewport()

	case TranscriptMsg:
		m.turns = msg.Turns
		m.streaming = msg.Streaming
		m.refreshViewport()
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			// Input is gated while an answer is streaming.
			if text != "" && !m.streaming {
				m.input.Reset()
				return m, tea.Batch(append(cmds, func() tea.Msg {
					return SubmitMsg{Text: text}
				})...)
			}
			return m, tea.Batch(cmds...)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	inputHeight := 3
	viewportHeight := height - inputHeight - 2
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = viewportHeight
	}
	m.input.SetWidth(width - 6)

	wrap := width - 6
	if wrap < 20 {
		wrap = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err == nil {
		m.renderer = renderer
	}
}

// Streaming reports whether the view believes an answer is in flight.
func (m Model) Streaming() bool {
	return m.streaming
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat view.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.streaming {
		b.WriteString(m.spin.View() + " " + m.theme.ThinkingText.Render("answering..."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.theme.InputContainer.Width(m.width - 2).Render(m.input.View()))
		b.WriteString("\n")
	}

	return b.String()
}

// refreshViewport re-renders the transcript into the viewport.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	var b strings.Builder
	for i, turn := range m.turns {
		if i > 0 {
			b.WriteString("\n")
		}
		switch turn.Role {
		case transcript.RoleUser:
			b.WriteString(m.theme.UserLabel.Render("You"))
			b.WriteString("\n")
			b.WriteString(m.theme.UserText.Render(turn.Content))
			b.WriteString("\n")
		case transcript.RoleAssistant:
			b.WriteString(m.theme.AssistantLabel.Render("docchat"))
			b.WriteString("\n")
			b.WriteString(m.renderAnswer(turn))
		}
	}
	m.viewport.SetContent(b.String())
}

// renderAnswer renders one assistant turn. Streaming turns show raw text
// so tokens appear instantly; closed turns get full markdown rendering.
func (m *Model) renderAnswer(turn transcript.Turn) string {
	var b strings.Builder

	switch {
	case turn.Content == chatcore.ConnectFailureMessage:
		b.WriteString(m.theme.ErrorText.Render(turn.Content))
		b.WriteString("\n")
	case turn.Open || m.renderer == nil:
		b.WriteString(m.renderStreaming(turn.Content))
		b.WriteString("\n")
	default:
		if out, err := m.renderer.Render(turn.Content); err == nil {
			b.WriteString(strings.TrimRight(out, "\n"))
			b.WriteString("\n")
		} else {
			b.WriteString(m.theme.AssistantText.Render(turn.Content))
			b.WriteString("\n")
		}
	}

	if m.showCitations && !turn.Open && len(turn.Citations) > 0 {
		b.WriteString(m.theme.CitationLine.Render("Sources: " + strings.Join(turn.Citations, ", ")))
		b.WriteString("\n")
	}

	return b.String()
}

// renderStreaming renders an in-flight answer. Completed fenced code blocks
// are highlighted immediately; everything after an unterminated fence stays
// raw until the closing fence arrives.
func (m *Model) renderStreaming(content string) string {
	parts := strings.Split(content, "```")
	if len(parts) < 2 {
		return m.theme.AssistantText.Render(content)
	}

	var b strings.Builder
	for i := 0; i < len(parts); i++ {
		if i%2 == 0 || i == len(parts)-1 {
			// Plain prose, or the tail of an unterminated block.
			b.WriteString(m.theme.AssistantText.Render(parts[i]))
			continue
		}
		language, code, _ := strings.Cut(parts[i], "\n")
		block := components.NewCodeBlock(strings.TrimSpace(language), code)
		block.MaxWidth = m.width - 4
		b.WriteString("\n" + block.Render() + "\n")
	}
	return b.String()
}

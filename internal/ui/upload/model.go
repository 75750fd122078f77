// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package upload implements the document library view of the docchat TUI:
// recent upload results on top, the full indexed listing below.
package upload

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/ui/styles"
	"github.com/jeranaias/docchat-tui/internal/uploader"
	"github.com/jeranaias/docchat-tui/internal/util"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// OutcomesMsg delivers the current upload results list, newest batch first.
type OutcomesMsg struct {
	Outcomes []uploader.Outcome
}

// FilesMsg delivers the current indexed-file listing.
type FilesMsg struct {
	Files []api.FileRecord
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the document library view.
type Model struct {
	theme *styles.Theme

	viewport viewport.Model
	outcomes []uploader.Outcome
	files    []api.FileRecord
	dropDir  string

	width  int
	height int
	ready  bool
}

// New creates the upload view. dropDir may be empty when no watcher is
// configured.
func New(theme *styles.Theme, dropDir string) Model {
	return Model{
		theme:   theme,
		dropDir: dropDir,
	}
}

// Update handles messages for the upload view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		viewportHeight := msg.Height - 3
		if viewportHeight < 1 {
			viewportHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewportHeight
		}
		m.refresh()

	case OutcomesMsg:
		m.outcomes = msg.Outcomes
		m.refresh()

	case FilesMsg:
		m.files = msg.Files
		m.refresh()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the upload view.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	return m.viewport.View() + "\n"
}

// =============================================================================
// RENDERING
// =============================================================================

func (m *Model) refresh() {
	if !m.ready {
		return
	}

	var b strings.Builder

	if m.dropDir != "" {
		b.WriteString(m.theme.FileMeta.Render("Drop files into " + m.dropDir + " to upload them."))
		b.WriteString("\n\n")
	}

	b.WriteString(m.theme.SectionTitle.Render("Just Uploaded"))
	b.WriteString("\n")
	if len(m.outcomes) == 0 {
		b.WriteString(m.theme.EmptyState.Render("Nothing uploaded yet."))
		b.WriteString("\n")
	}
	for _, o := range m.outcomes {
		b.WriteString(m.renderOutcome(o))
	}

	b.WriteString("\n")
	b.WriteString(m.theme.SectionTitle.Render("All Documents (" + strconv.Itoa(len(m.files)) + ")"))
	b.WriteString("\n")
	if len(m.files) == 0 {
		b.WriteString(m.theme.EmptyState.Render("No documents indexed yet."))
		b.WriteString("\n")
	}
	for _, f := range m.files {
		b.WriteString(m.renderFile(f))
	}

	m.viewport.SetContent(b.String())
}

func (m *Model) renderOutcome(o uploader.Outcome) string {
	icon := fileIcon(o.ContentType)
	name := util.TruncateWidth(o.Filename, 40)

	if o.Succeeded() {
		return icon + " " + m.theme.FileRow.Render(name) + "  " +
			m.theme.FileMeta.Render(util.FormatBytes(o.SizeBytes)) + "  " +
			m.theme.ChunksBadge.Render(strconv.Itoa(o.Chunks)+" chunks") + "\n"
	}
	return icon + " " + m.theme.FileRow.Render(name) + "  " +
		m.theme.FailBadge.Render(o.Err) + "\n"
}

func (m *Model) renderFile(f api.FileRecord) string {
	age := f.UploadedAt
	if t, ok := util.ParseTimestamp(f.UploadedAt); ok {
		age = util.TimeAgo(t)
	}
	return fileIcon(f.ContentType) + " " +
		m.theme.FileRow.Render(util.TruncateWidth(f.Filename, 40)) + "  " +
		m.theme.FileMeta.Render(util.FormatBytes(f.SizeBytes)+"  "+age) + "\n"
}

// fileIcon picks a glyph for the document's media type.
func fileIcon(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "🖼"
	case contentType == "application/pdf":
		return "📕"
	case strings.HasPrefix(contentType, "text/"):
		return "📄"
	default:
		return "📎"
	}
}

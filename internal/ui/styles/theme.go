// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the docchat TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// COLOR PALETTE
// =============================================================================

var (
	// Base surfaces
	Surface    = lipgloss.Color("#1e1e2e")
	SurfaceDim = lipgloss.Color("#181825")
	Overlay    = lipgloss.Color("#45475a")
	OverlayDim = lipgloss.Color("#313244")

	// Text
	Text      = lipgloss.Color("#cdd6f4")
	TextMuted = lipgloss.Color("#6c7086")

	// Accents
	Blue   = lipgloss.Color("#89b4fa")
	Green  = lipgloss.Color("#a6e3a1")
	Red    = lipgloss.Color("#f38ba8")
	Yellow = lipgloss.Color("#f9e2af")
	Cyan   = lipgloss.Color("#94e2d5")
	Mauve  = lipgloss.Color("#cba6f7")
)

// =============================================================================
// THEME
// =============================================================================

// Theme holds the styled components for the application. It detects the
// terminal's color capability and adjusts accordingly.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// Application container
	App    lipgloss.Style
	Header lipgloss.Style

	// Chat view
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserText       lipgloss.Style
	AssistantText  lipgloss.Style
	CitationLine   lipgloss.Style
	ErrorText      lipgloss.Style

	// Input area
	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// Upload view
	SectionTitle lipgloss.Style
	FileRow      lipgloss.Style
	FileMeta     lipgloss.Style
	ChunksBadge  lipgloss.Style
	FailBadge    lipgloss.Style
	EmptyState   lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// Spinner
	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
}

// New builds a theme for the given variant ("dark" or "light").
func New(variant string) *Theme {
	t := &Theme{
		IsDark:       variant != "light",
		ColorProfile: termenv.ColorProfile(),
	}

	text := Text
	muted := TextMuted
	if !t.IsDark {
		text = lipgloss.Color("#4c4f69")
		muted = lipgloss.Color("#8c8fa1")
	}

	t.App = lipgloss.NewStyle().Padding(0, 1)
	t.Header = lipgloss.NewStyle().Foreground(Mauve).Bold(true)

	t.UserLabel = lipgloss.NewStyle().Foreground(Blue).Bold(true)
	t.AssistantLabel = lipgloss.NewStyle().Foreground(Green).Bold(true)
	t.UserText = lipgloss.NewStyle().Foreground(text)
	t.AssistantText = lipgloss.NewStyle().Foreground(text)
	t.CitationLine = lipgloss.NewStyle().Foreground(Cyan).Italic(true)
	t.ErrorText = lipgloss.NewStyle().Foreground(Red)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().Foreground(Blue).Bold(true)

	t.SectionTitle = lipgloss.NewStyle().Foreground(Mauve).Bold(true)
	t.FileRow = lipgloss.NewStyle().Foreground(text)
	t.FileMeta = lipgloss.NewStyle().Foreground(muted)
	t.ChunksBadge = lipgloss.NewStyle().Foreground(Green)
	t.FailBadge = lipgloss.NewStyle().Foreground(Red).Bold(true)
	t.EmptyState = lipgloss.NewStyle().Foreground(muted).Italic(true)

	t.StatusBar = lipgloss.NewStyle().Foreground(muted)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(muted)

	t.Spinner = lipgloss.NewStyle().Foreground(Mauve)
	t.ThinkingText = lipgloss.NewStyle().Foreground(muted).Italic(true)

	return t
}

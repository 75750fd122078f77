// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the docchat TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docchat-tui/internal/ui/styles"
	"github.com/jeranaias/docchat-tui/internal/util"
)

// Shortcut is one key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// RenderStatusBar renders the bottom status bar: connection state on the
// left, key hints on the right, truncated to the terminal width.
func RenderStatusBar(theme *styles.Theme, width int, status string, shortcuts []Shortcut) string {
	var hints []string
	for _, s := range shortcuts {
		hints = append(hints,
			theme.ShortcutKey.Render(s.Key)+" "+theme.ShortcutDesc.Render(s.Desc))
	}
	right := strings.Join(hints, "  ")
	left := theme.StatusBar.Render(status)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return util.TruncateWidth(status, width)
	}
	return left + strings.Repeat(" ", gap) + right
}

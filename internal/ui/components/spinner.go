// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the docchat TUI.
package components

import (
	"github.com/charmbracelet/bubbles/spinner"

	"github.com/jeranaias/docchat-tui/internal/ui/styles"
)

// NewSpinner creates the spinner shown while an answer streams in.
func NewSpinner(theme *styles.Theme) spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = theme.Spinner
	return s
}

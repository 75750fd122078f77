// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation view of the docchat TUI.
package chat

import "github.com/jeranaias/docchat-tui/internal/transcript"

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// TranscriptMsg delivers a fresh transcript snapshot to the view. It is
// sent from the transcript observer for every applied mutation, so the view
// sees each token as it lands.
type TranscriptMsg struct {
	Turns     []transcript.Turn
	Streaming bool
}

// SubmitMsg asks the application to send the typed message.
type SubmitMsg struct {
	Text string
}

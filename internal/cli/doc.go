// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the docchat command-line interface: argument
// parsing plus the ask, chat, upload, and files commands. The TUI itself
// lives in main and internal/ui.
package cli

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - interactive plain-terminal chat (no TUI).
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/docchat-tui/internal/chat"
	"github.com/jeranaias/docchat-tui/internal/config"
	"github.com/jeranaias/docchat-tui/internal/logging"
	"github.com/jeranaias/docchat-tui/internal/transcript"
)

// RunChat runs a line-oriented chat loop against the backend. Exit with
// /quit, Ctrl-D, or Ctrl-C.
func RunChat(cfg *config.Config, args *Args) int {
	client := newClient(cfg, args)
	store := transcript.NewStore()
	session := chat.NewSession(client, store, logging.Logger())

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := chatHistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	printer := newStreamPrinter(store)
	store.Subscribe(printer.update)

	fmt.Println("docchat - ask about your documents. /quit to exit.")

	for {
		input, err := line.Prompt("you> ")
		if err != nil {
			// Ctrl-C or Ctrl-D ends the session.
			fmt.Println()
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "/quit" || input == "/exit" {
			break
		}

		line.AppendHistory(input)
		printer.reset()
		fmt.Print("\ndocchat> ")
		session.Send(context.Background(), input)
		fmt.Println()

		if answer, ok := store.Last(); ok && cfg.UI.ShowCitations && len(answer.Citations) > 0 {
			fmt.Printf("[sources: %s]\n", strings.Join(answer.Citations, ", "))
		}
		fmt.Println()
	}

	if historyPath != "" {
		if f, err := os.Create(historyPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}

	return 0
}

// chatHistoryPath returns the REPL history file path, or "" when the
// config directory cannot be determined.
func chatHistoryPath() string {
	dir, err := config.Dir()
	if err != nil {
		return ""
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - one-shot question command.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/chat"
	"github.com/jeranaias/docchat-tui/internal/config"
	"github.com/jeranaias/docchat-tui/internal/logging"
	"github.com/jeranaias/docchat-tui/internal/transcript"
)

// newClient builds the backend client from config plus CLI overrides.
func newClient(cfg *config.Config, args *Args) *api.Client {
	baseURL := cfg.API.BaseURL
	if args.APIURL != "" {
		baseURL = args.APIURL
	}
	return api.NewClientWithConfig(&api.ClientConfig{
		BaseURL: baseURL,
		Timeout: time.Duration(cfg.API.TimeoutSecs) * time.Second,
	})
}

// RunAsk asks a single question, streams the answer to stdout, and prints
// the source documents.
func RunAsk(cfg *config.Config, args *Args) int {
	question := strings.TrimSpace(args.Query)
	if question == "" {
		return Fail(fmt.Errorf("ask requires a non-empty question"))
	}

	client := newClient(cfg, args)
	store := transcript.NewStore()
	session := chat.NewSession(client, store, logging.Logger())

	// Pretty mode buffers the answer and renders it as markdown at the
	// end; plain mode (or a pipe) streams tokens as they arrive.
	pretty := !args.Plain && term.IsTerminal(int(os.Stdout.Fd()))
	if !pretty {
		printer := newStreamPrinter(store)
		store.Subscribe(printer.update)
	}

	session.Send(context.Background(), question)

	answer, ok := store.Last()
	if !ok {
		return Fail(fmt.Errorf("no answer received"))
	}

	if pretty {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			if out, rerr := renderer.Render(answer.Content); rerr == nil {
				fmt.Print(out)
			} else {
				fmt.Println(answer.Content)
			}
		} else {
			fmt.Println(answer.Content)
		}
	} else {
		fmt.Println()
	}

	if cfg.UI.ShowCitations && len(answer.Citations) > 0 {
		fmt.Printf("\nSources: %s\n", strings.Join(answer.Citations, ", "))
	}

	if answer.Content == chat.ConnectFailureMessage {
		return 1
	}
	return 0
}

// streamPrinter writes each token delta of the open answer turn to stdout.
type streamPrinter struct {
	store   *transcript.Store
	printed int
}

func newStreamPrinter(store *transcript.Store) *streamPrinter {
	return &streamPrinter{store: store}
}

func (p *streamPrinter) update() {
	last, ok := p.store.Last()
	if !ok || last.Role != transcript.RoleAssistant || !last.Open {
		return
	}
	if len(last.Content) > p.printed {
		fmt.Print(last.Content[p.printed:])
		p.printed = len(last.Content)
	} else if len(last.Content) < p.printed {
		// Content was replaced (error notice); start over on a new line.
		fmt.Println()
		fmt.Print(last.Content)
		p.printed = len(last.Content)
	}
}

// reset prepares the printer for the next answer turn.
func (p *streamPrinter) reset() {
	p.printed = 0
}

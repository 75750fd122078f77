// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for docchat.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdUpload
	CmdFiles
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	APIURL string // --api overrides the configured backend URL
	Plain  bool   // --plain disables markdown rendering and the REPL line editor

	// Command-specific
	Query string   // ask: the question
	Paths []string // upload: files to send
}

const usageText = `docchat - chat with your documents from the terminal

Docchat is a terminal client for a local document-chat backend. Upload
documents, then ask questions; answers stream in with the source documents
they were retrieved from.

Usage:
  docchat                    Start the TUI (default)
  docchat ask "question"     Ask a single question and print the answer
  docchat chat               Interactive chat in plain terminal mode
  docchat upload <files...>  Upload documents for indexing
  docchat files              List indexed documents
  docchat version            Show version information
  docchat help               Show this help

Flags:
  --api URL                  Backend base URL (default http://localhost:8000)
  --plain                    Plain output: no markdown rendering

Environment:
  DOCCHAT_API_URL            Backend base URL
  DOCCHAT_DROP_DIR           Directory watched for documents to upload
  DOCCHAT_THEME              TUI theme: dark or light

Examples:
  docchat ask "what does the contract say about renewal?"
  docchat upload handbook.pdf notes.txt
  DOCCHAT_API_URL=http://10.0.0.5:8000 docchat
`

// Parse parses command-line arguments (without the program name).
func Parse(argv []string) (Command, *Args, error) {
	args := &Args{}
	cmd := CmdTUI

	var positional []string
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--api":
			if i+1 >= len(argv) {
				return CmdHelp, nil, fmt.Errorf("--api requires a URL")
			}
			i++
			args.APIURL = argv[i]
		case strings.HasPrefix(arg, "--api="):
			args.APIURL = strings.TrimPrefix(arg, "--api=")
		case arg == "--plain":
			args.Plain = true
		case arg == "--help" || arg == "-h":
			return CmdHelp, args, nil
		case arg == "--version":
			return CmdVersion, args, nil
		case strings.HasPrefix(arg, "-"):
			return CmdHelp, nil, fmt.Errorf("unknown flag %q", arg)
		default:
			positional = append(positional, arg)
		}
	}

	if len(positional) == 0 {
		return cmd, args, nil
	}

	rest := positional[1:]
	switch positional[0] {
	case "ask":
		if len(rest) == 0 {
			return CmdHelp, nil, fmt.Errorf("ask requires a question")
		}
		args.Query = strings.Join(rest, " ")
		return CmdAsk, args, nil
	case "chat":
		return CmdChat, args, nil
	case "upload":
		if len(rest) == 0 {
			return CmdHelp, nil, fmt.Errorf("upload requires at least one file")
		}
		args.Paths = rest
		return CmdUpload, args, nil
	case "files", "ls":
		return CmdFiles, args, nil
	case "version":
		return CmdVersion, args, nil
	case "help":
		return CmdHelp, args, nil
	default:
		return CmdHelp, nil, fmt.Errorf("unknown command %q", positional[0])
	}
}

// PrintUsage writes the usage text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes version information to stdout.
func PrintVersion() {
	fmt.Printf("docchat %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}

// Fail prints an error with usage hint and returns a non-zero exit code.
func Fail(err error) int {
	fmt.Fprintf(os.Stderr, "docchat: %v\n", err)
	fmt.Fprintln(os.Stderr, "Run 'docchat help' for usage.")
	return 2
}

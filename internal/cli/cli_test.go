// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"reflect"
	"testing"
)

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParse_Commands(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		wantCmd Command
		wantErr bool
	}{
		{"no args is TUI", nil, CmdTUI, false},
		{"ask with question", []string{"ask", "what", "is", "this"}, CmdAsk, false},
		{"ask without question", []string{"ask"}, CmdHelp, true},
		{"chat", []string{"chat"}, CmdChat, false},
		{"upload with files", []string{"upload", "a.txt"}, CmdUpload, false},
		{"upload without files", []string{"upload"}, CmdHelp, true},
		{"files", []string{"files"}, CmdFiles, false},
		{"files alias", []string{"ls"}, CmdFiles, false},
		{"version", []string{"version"}, CmdVersion, false},
		{"version flag", []string{"--version"}, CmdVersion, false},
		{"help", []string{"help"}, CmdHelp, false},
		{"help flag", []string{"-h"}, CmdHelp, false},
		{"unknown command", []string{"bogus"}, CmdHelp, true},
		{"unknown flag", []string{"--bogus"}, CmdHelp, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd, _, err := Parse(tc.argv)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%v) error = %v, wantErr %v", tc.argv, err, tc.wantErr)
			}
			if cmd != tc.wantCmd {
				t.Errorf("Parse(%v) = %v, want %v", tc.argv, cmd, tc.wantCmd)
			}
		})
	}
}

func TestParse_AskJoinsWords(t *testing.T) {
	_, args, err := Parse([]string{"ask", "what", "about", "renewal?"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if args.Query != "what about renewal?" {
		t.Errorf("Query = %q, want joined words", args.Query)
	}
}

func TestParse_UploadPaths(t *testing.T) {
	_, args, err := Parse([]string{"upload", "a.pdf", "b.txt"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !reflect.DeepEqual(args.Paths, []string{"a.pdf", "b.txt"}) {
		t.Errorf("Paths = %v", args.Paths)
	}
}

func TestParse_Flags(t *testing.T) {
	_, args, err := Parse([]string{"--api", "http://other:9000", "--plain", "chat"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if args.APIURL != "http://other:9000" {
		t.Errorf("APIURL = %q", args.APIURL)
	}
	if !args.Plain {
		t.Error("Plain should be set")
	}
}

func TestParse_APIEqualsForm(t *testing.T) {
	_, args, err := Parse([]string{"--api=http://x:1", "files"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if args.APIURL != "http://x:1" {
		t.Errorf("APIURL = %q", args.APIURL)
	}
}

func TestParse_APIWithoutValue(t *testing.T) {
	if _, _, err := Parse([]string{"--api"}); err == nil {
		t.Error("Parse(--api) should fail without a value")
	}
}

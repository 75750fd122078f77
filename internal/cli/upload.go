// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// upload.go - upload and files commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jeranaias/docchat-tui/internal/config"
	"github.com/jeranaias/docchat-tui/internal/logging"
	"github.com/jeranaias/docchat-tui/internal/registry"
	"github.com/jeranaias/docchat-tui/internal/uploader"
	"github.com/jeranaias/docchat-tui/internal/util"
)

// RunUpload uploads the given files in order and prints one result line per
// file. Exits non-zero if any upload failed.
func RunUpload(cfg *config.Config, args *Args) int {
	client := newClient(cfg, args)
	reg := registry.NewCache(client)
	orch := uploader.NewOrchestrator(client, reg, nil, logging.Logger())

	var files []uploader.File
	for _, path := range args.Paths {
		if !uploader.Supported(path) {
			fmt.Fprintf(os.Stderr, "docchat: skipping %s: unsupported file type\n", path)
			continue
		}
		file, err := uploader.FromPath(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "docchat: skipping %s: %v\n", path, err)
			continue
		}
		files = append(files, file)
	}
	if len(files) == 0 {
		return Fail(fmt.Errorf("nothing to upload"))
	}

	outcomes := orch.UploadBatch(context.Background(), files)

	failures := 0
	for _, o := range outcomes {
		if o.Succeeded() {
			fmt.Printf("  ok   %s (%s, %d chunks)\n", o.Filename, util.FormatBytes(o.SizeBytes), o.Chunks)
		} else {
			failures++
			fmt.Printf("  FAIL %s: %s\n", o.Filename, o.Err)
		}
	}
	fmt.Printf("%d uploaded, %d failed, %d indexed documents\n",
		len(outcomes)-failures, failures, reg.Count())

	if failures > 0 {
		return 1
	}
	return 0
}

// RunFiles prints the backend's indexed document listing.
func RunFiles(cfg *config.Config, args *Args) int {
	client := newClient(cfg, args)
	reg := registry.NewCache(client)

	if err := reg.Refresh(context.Background()); err != nil {
		return Fail(fmt.Errorf("cannot list files: %w", err))
	}

	files := reg.Files()
	if len(files) == 0 {
		fmt.Println("No documents indexed yet. Upload some with 'docchat upload'.")
		return 0
	}

	fmt.Printf("All Documents (%d)\n", len(files))
	for _, f := range files {
		age := f.UploadedAt
		if t, ok := util.ParseTimestamp(f.UploadedAt); ok {
			age = util.TimeAgo(t)
		}
		fmt.Printf("  %-40s %10s  %s\n",
			util.TruncateWidth(f.Filename, 40),
			util.FormatBytes(f.SizeBytes),
			age)
	}
	return 0
}

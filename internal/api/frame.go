// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for communicating with the docchat backend.
package api

import "bytes"

// framePrefix marks lines that carry a protocol payload. Anything else on
// the stream (blank lines, keep-alive comments) is ignored.
const framePrefix = "data: "

// =============================================================================
// FRAME DECODER
// =============================================================================

// FrameDecoder splits a stream of arbitrary byte chunks into frame payloads.
//
// The wire format is line-oriented: a frame is a line terminated by '\n'
// whose text starts with "data: "; the payload is everything after the
// prefix. Chunk boundaries carry no meaning, so the decoder buffers the
// unterminated tail of each chunk and completes it with the next one.
//
// UNICODE: the buffer holds raw bytes and is only ever split at '\n', so a
// multi-byte UTF-8 sequence that straddles a chunk boundary is reassembled
// intact.
//
// A trailing payload that never receives its '\n' stays in the buffer; the
// caller discards it by dropping the decoder at end of stream.
type FrameDecoder struct {
	buf []byte
}

// Decode consumes one chunk and returns the payloads of every frame it
// completed, in order. Lines without the frame prefix produce nothing.
func (d *FrameDecoder) Decode(chunk []byte) []string {
	d.buf = append(d.buf, chunk...)

	var payloads []string
	for {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			break
		}
		line := d.buf[:i]
		d.buf = d.buf[i+1:]

		if payload, ok := bytes.CutPrefix(line, []byte(framePrefix)); ok {
			payloads = append(payloads, string(payload))
		}
	}
	return payloads
}

// Buffered returns the number of bytes held back waiting for a newline.
func (d *FrameDecoder) Buffered() int {
	return len(d.buf)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the docchat application.
package util

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatBytes renders a byte count for display: "0 B", "512 B", "1.5 KB",
// "2 MB". One decimal place, with a trailing ".0" trimmed.
func FormatBytes(n int64) string {
	if n <= 0 {
		return "0 B"
	}

	units := []string{"B", "KB", "MB", "GB"}
	exp := int(math.Log(float64(n)) / math.Log(1024))
	if exp >= len(units) {
		exp = len(units) - 1
	}

	value := float64(n) / math.Pow(1024, float64(exp))
	s := strconv.FormatFloat(value, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s + " " + units[exp]
}

// TimeAgo renders how long ago t was: "just now", "5m ago", "3h ago",
// "2d ago".
func TimeAgo(t time.Time) string {
	return timeAgoAt(t, time.Now())
}

func timeAgoAt(t, now time.Time) string {
	seconds := int64(now.Sub(t).Seconds())
	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return strconv.FormatInt(seconds/60, 10) + "m ago"
	case seconds < 86400:
		return strconv.FormatInt(seconds/3600, 10) + "h ago"
	default:
		return strconv.FormatInt(seconds/86400, 10) + "d ago"
	}
}

// ParseTimestamp parses a backend timestamp. Accepts RFC 3339 with or
// without a zone offset; ok is false when nothing matches.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

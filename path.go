// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package fusepatch

import (
	"fmt"
	"path"
	"strings"
)

// NormalizeEntryName converts an archive entry name to normalized slash-separated form.
// It trims spaces, accepts both "/" and "\", removes leading "./" and "/", and cleans "." segments.
// Trailing "/" of directory records is dropped.
func NormalizeEntryName(raw string) string {
	raw = normalizePathForMatching(raw)
	raw = strings.TrimPrefix(raw, "/")
	raw = path.Clean("/" + raw)
	raw = strings.TrimPrefix(raw, "/")
	if raw == "." {
		return ""
	}

	return strings.TrimSuffix(raw, "/")
}

// normalizePathForMatching normalizes user/input paths for matcher use.
func normalizePathForMatching(path string) string {
	path = strings.TrimSpace(path)
	path = strings.ReplaceAll(path, `\`, `/`)
	path = strings.TrimPrefix(path, "./")
	return path
}

// entryKey returns canonical lookup key for entry name.
func entryKey(raw string) (string, error) {
	key := NormalizeEntryName(raw)
	if key == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidEntryName, raw)
	}

	return key, nil
}

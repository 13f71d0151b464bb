// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package fusepatch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExtractOptions controls how entries are written to disk.
type ExtractOptions struct {
	// Overwrite replaces existing output files instead of failing.
	Overwrite bool `json:"overwrite,omitempty" yaml:"overwrite,omitempty"`
}

// ExtractEntry writes payload of entry name to dstPath and returns written size.
func (h *HostImage) ExtractEntry(name string, dstPath string, opts ExtractOptions) (int64, error) {
	content, err := h.ReadEntry(name)
	if err != nil {
		return 0, err
	}

	if err := writeExtractFile(dstPath, content, opts); err != nil {
		return 0, err
	}

	return int64(len(content)), nil
}

// ExtractAll writes every file entry under dstDir keeping archive layout.
// Entries with absolute or traversal paths fail with ErrInvalidExtractPath before anything is written.
func (h *HostImage) ExtractAll(dstDir string, opts ExtractOptions) (int, error) {
	entries, err := ReadEntries(h.Archive())
	if err != nil {
		return 0, err
	}

	rootAbs, err := filepath.Abs(dstDir)
	if err != nil {
		return 0, fmt.Errorf("resolve output dir: %w", err)
	}

	relPaths := make([]string, len(entries))
	for i := range entries {
		rel, err := normalizeExtractEntryPath(entries[i].Name)
		if err != nil {
			return 0, fmt.Errorf("entry %q: %w", entries[i].Name, err)
		}

		relPaths[i] = filepath.FromSlash(rel)
	}

	written := 0
	for i := range entries {
		outPath := filepath.Join(rootAbs, relPaths[i])
		if entries[i].IsDir() {
			if err := os.MkdirAll(outPath, 0o750); err != nil {
				return written, ioError("create output directory", err)
			}

			continue
		}

		if err := writeExtractFile(outPath, entries[i].Content, opts); err != nil {
			return written, err
		}

		written++
	}

	return written, nil
}

// writeExtractFile creates parent directories and writes content to path.
func writeExtractFile(path string, content []byte, opts ExtractOptions) error {
	if strings.TrimSpace(path) == "" {
		return ErrInvalidExtractPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return ioError("create output directory", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if opts.Overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return ioError("open output", err)
	}

	if _, err := file.Write(content); err != nil {
		_ = file.Close()
		return ioError("write output", err)
	}

	if err := file.Close(); err != nil {
		return ioError("close output", err)
	}

	return nil
}

// normalizeExtractEntryPath normalizes entry path and rejects absolute or traversal inputs.
func normalizeExtractEntryPath(entryPath string) (string, error) {
	raw := strings.TrimSpace(entryPath)
	if raw == "" || strings.ContainsRune(raw, 0) {
		return "", ErrInvalidExtractPath
	}
	if strings.HasPrefix(raw, `/`) || strings.HasPrefix(raw, `\`) {
		return "", ErrInvalidExtractPath
	}

	raw = strings.ReplaceAll(raw, `\`, `/`)
	if hasWindowsAbsDrivePrefix(raw) {
		return "", ErrInvalidExtractPath
	}

	parts := strings.Split(raw, `/`)
	cleanParts := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", ErrInvalidExtractPath
		default:
			cleanParts = append(cleanParts, part)
		}
	}
	if len(cleanParts) == 0 {
		return "", ErrInvalidExtractPath
	}

	return strings.Join(cleanParts, `/`), nil
}

// hasWindowsAbsDrivePrefix reports whether path starts with drive-root prefix like C:/.
func hasWindowsAbsDrivePrefix(path string) bool {
	if len(path) < 3 {
		return false
	}

	b := path[0]
	return ((b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')) && path[1] == ':' && path[2] == '/'
}

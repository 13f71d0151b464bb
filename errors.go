// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package fusepatch

import (
	"errors"
	"fmt"
)

// Sentinel errors for fused executable operations. Use errors.Is in callers.
var (
	// ErrNotFound means the host file, replacement file, or archive entry is missing.
	ErrNotFound = errors.New("not found")
	// ErrFormat means the host file does not carry a usable embedded archive.
	ErrFormat = errors.New("invalid embedded archive")
	// ErrIO means a read, write, or copy failed at the filesystem boundary.
	ErrIO = errors.New("i/o failure")

	// ErrEntryNotFound means the named entry is absent from the embedded archive.
	ErrEntryNotFound = fmt.Errorf("%w: archive entry", ErrNotFound)
	// ErrSignatureNotFound means no end of central directory record is present in the search window.
	ErrSignatureNotFound = fmt.Errorf("%w: signature not found", ErrFormat)
	// ErrNegativeStartOffset means trailer fields point before the beginning of the host file.
	ErrNegativeStartOffset = fmt.Errorf("%w: negative start offset", ErrFormat)
	// ErrDuplicateEntry means two archive entries resolve to the same name.
	ErrDuplicateEntry = fmt.Errorf("%w: duplicate entry name", ErrFormat)

	// ErrInvalidEntryName means the entry name is empty or invalid after normalization.
	ErrInvalidEntryName = errors.New("invalid entry name")
	// ErrInvalidHostPath means the host path is empty.
	ErrInvalidHostPath = errors.New("invalid host path")
	// ErrInvalidReplacementPath means the replacement content path is empty.
	ErrInvalidReplacementPath = errors.New("invalid replacement path")
	// ErrBackupIncomplete means the written backup does not match the host file size.
	ErrBackupIncomplete = errors.New("backup is incomplete")
	// ErrInvalidStoreRules means one or more store rules are invalid.
	ErrInvalidStoreRules = errors.New("invalid store rules")
	// ErrInvalidCompressionLevel means deflate level is out of range.
	ErrInvalidCompressionLevel = errors.New("invalid compression level")
	// ErrInvalidExtractPath means entry path is absolute or escapes the output directory.
	ErrInvalidExtractPath = errors.New("invalid extract path")
)

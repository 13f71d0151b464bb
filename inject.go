// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package fusepatch

import (
	"os"
	"strings"
	"time"
)

// Inject replaces entry name inside the archive embedded in hostPath with content.
// All archive work is done in memory before the host file is backed up and rewritten.
func Inject(hostPath string, name string, content []byte, opts InjectOptions) (*InjectResult, error) {
	startedAt := time.Now()

	opts.applyDefaults()

	if _, err := entryKey(name); err != nil {
		return nil, err
	}

	host, err := OpenHost(hostPath)
	if err != nil {
		return nil, err
	}

	prefix, archive, err := Split(host.data, host.start)
	if err != nil {
		return nil, err
	}

	replaced, err := replaceEntry(archive, name, content, opts.RepackOptions)
	if err != nil {
		return nil, err
	}

	backupPath, err := Commit(host.path, prefix, replaced.archive, opts.CommitOptions)
	if err != nil {
		return nil, err
	}

	return &InjectResult{
		HostPath:       host.path,
		BackupPath:     backupPath,
		EntryName:      replaced.name,
		PrefixSize:     int64(len(prefix)),
		ArchiveSize:    int64(len(archive)),
		NewArchiveSize: int64(len(replaced.archive)),
		OldEntrySize:   int64(replaced.oldSize),
		NewEntrySize:   int64(replaced.newSize),
		Entries:        replaced.entries,
		Duration:       time.Since(startedAt),
	}, nil
}

// InjectFile reads replacementPath fully and injects it as entry name into hostPath.
func InjectFile(hostPath string, name string, replacementPath string, opts InjectOptions) (*InjectResult, error) {
	if strings.TrimSpace(replacementPath) == "" {
		return nil, ErrInvalidReplacementPath
	}

	content, err := os.ReadFile(replacementPath)
	if err != nil {
		return nil, ioError("read replacement", err)
	}

	return Inject(hostPath, name, content, opts)
}

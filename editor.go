// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package fusepatch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Commit backs up the host file and rewrites it as prefix followed by archive.
// The host file is not opened for writing unless the backup was fully written and verified.
// On host write failure the returned backup path is still valid for recovery.
func Commit(hostPath string, prefix []byte, archive []byte, opts CommitOptions) (string, error) {
	if strings.TrimSpace(hostPath) == "" {
		return "", ErrInvalidHostPath
	}

	opts.applyDefaults()

	backupPath := BackupPath(hostPath, opts)
	if err := copyFileVerified(hostPath, backupPath); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	if err := commitWriteHost(hostPath, prefix, archive, opts.WriterBufferSize); err != nil {
		return backupPath, fmt.Errorf("%w (backup kept at %s)", err, backupPath)
	}

	return backupPath, nil
}

// Restore copies the backup of hostPath back over the host file.
// The backup itself is left in place.
func Restore(hostPath string, opts CommitOptions) (string, error) {
	if strings.TrimSpace(hostPath) == "" {
		return "", ErrInvalidHostPath
	}

	opts.applyDefaults()

	backupPath := BackupPath(hostPath, opts)
	if err := copyFileVerified(backupPath, hostPath); err != nil {
		return backupPath, fmt.Errorf("restore from backup: %w", err)
	}

	return backupPath, nil
}

// BackupPath returns backup location for host path.
func BackupPath(hostPath string, opts CommitOptions) string {
	opts.applyDefaults()
	return hostPath + opts.BackupSuffix
}

// commitWriteHost is the host write step of Commit; tests replace it to fail after the backup.
var commitWriteHost = writeHost

// writeHost truncates host file and writes prefix then archive.
func writeHost(path string, prefix []byte, archive []byte, bufSize int) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return ioError("open host for write", err)
	}

	w := bufio.NewWriterSize(f, bufSize)
	if _, err := w.Write(prefix); err != nil {
		_ = f.Close()
		return ioError("write host prefix", err)
	}

	if _, err := w.Write(archive); err != nil {
		_ = f.Close()
		return ioError("write host archive", err)
	}

	if err := w.Flush(); err != nil {
		_ = f.Close()
		return ioError("flush host", err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		return ioError("sync host", err)
	}

	if err := f.Close(); err != nil {
		return ioError("close host", err)
	}

	return nil
}

// copyFileVerified copies src to dst through a temporary sibling of dst.
// dst is replaced only after the copy is synced and its size equals source size;
// the temporary file is removed on any failure.
func copyFileVerified(src string, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return ioError("open "+src, err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return ioError("stat "+src, err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrIO, src)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return ioError("create temporary copy", err)
	}

	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = removeIfExists(tmpPath)
		}
	}()

	written, err := io.Copy(tmp, in)
	if err != nil {
		return ioError("copy "+src, err)
	}

	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		return ioError("chmod temporary copy", err)
	}

	if err = tmp.Sync(); err != nil {
		return ioError("sync temporary copy", err)
	}

	if err = tmp.Close(); err != nil {
		return ioError("close temporary copy", err)
	}

	if err = verifyCopySize(tmpPath, info.Size(), written); err != nil {
		return err
	}

	if err = os.Rename(tmpPath, dst); err != nil {
		return ioError("rename temporary copy to "+dst, err)
	}

	return nil
}

// verifyCopySize checks both copied byte count and on-disk size of the copy.
func verifyCopySize(path string, want int64, written int64) error {
	if written != want {
		return fmt.Errorf("%w: copied %d of %d bytes", ErrBackupIncomplete, written, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		return ioError("stat temporary copy", err)
	}

	if info.Size() != want {
		return fmt.Errorf("%w: size %d, want %d", ErrBackupIncomplete, info.Size(), want)
	}

	return nil
}

// removeIfExists removes file when present.
func removeIfExists(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) || err == nil {
		return nil
	}

	return fmt.Errorf("remove %s: %w", path, err)
}

// ioError wraps filesystem error with ErrIO, or ErrNotFound for missing files.
func ioError(op string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, op, err)
	}

	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}

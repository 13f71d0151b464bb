// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package fusepatch

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zip"
)

// WriteArchive packs entries into a fresh archive image in the given order.
func WriteArchive(entries []Entry, opts RepackOptions) ([]byte, error) {
	return writeArchive(entries, "", opts)
}

// writeArchive is shared pack core for WriteArchive and Replace.
func writeArchive(entries []Entry, comment string, opts RepackOptions) ([]byte, error) {
	opts.applyDefaults()

	matcher, err := newStoreMatcher(opts.Store, opts.StoreMatcherOptions)
	if err != nil {
		return nil, err
	}

	compressor, err := newDeflateCompressor(opts.CompressionLevel)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, compressor)

	if comment != "" {
		if err := zw.SetComment(comment); err != nil {
			return nil, fmt.Errorf("set archive comment: %w", err)
		}
	}

	for i := range entries {
		if err := writeEntry(zw, matcher, &entries[i]); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}

	return buf.Bytes(), nil
}

// writeEntry writes one entry header and payload.
func writeEntry(zw *zip.Writer, matcher *storeMatcher, entry *Entry) error {
	hdr := &zip.FileHeader{
		Name:           entry.Name,
		Comment:        entry.Comment,
		NonUTF8:        entry.NonUTF8,
		CreatorVersion: entry.CreatorVersion,
		ExternalAttrs:  entry.ExternalAttrs,
		Modified:       entry.Modified,
		Method:         entryMethod(matcher, entry),
	}

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("create entry %q: %w", entry.Name, err)
	}

	if entry.IsDir() {
		return nil
	}

	if _, err := w.Write(entry.Content); err != nil {
		return fmt.Errorf("write entry %q: %w", entry.Name, err)
	}

	return nil
}

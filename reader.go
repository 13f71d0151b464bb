// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package fusepatch

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
	"golang.org/x/text/encoding/charmap"
)

// archiveImage is fully unpacked embedded archive.
type archiveImage struct {
	// entries keep source central directory order.
	entries []Entry
	// index maps canonical entry key to position in entries.
	index map[string]int
	// comment is archive-level comment.
	comment string
}

// ReadEntries unpacks every member of archive bytes into memory in directory order.
func ReadEntries(archive []byte) ([]Entry, error) {
	img, err := readArchive(archive)
	if err != nil {
		return nil, err
	}

	return img.entries, nil
}

// ListArchive returns entry metadata of archive bytes without reading payloads.
func ListArchive(archive []byte) ([]EntryInfo, error) {
	zr, err := openZip(archive)
	if err != nil {
		return nil, err
	}

	out := make([]EntryInfo, 0, len(zr.File))
	for _, f := range zr.File {
		out = append(out, EntryInfo{
			Name:           f.Name,
			DisplayName:    displayName(f.Name, f.NonUTF8),
			Modified:       f.Modified,
			Method:         f.Method,
			CompressedSize: f.CompressedSize64,
			Size:           f.UncompressedSize64,
		})
	}

	return out, nil
}

// readArchive unpacks archive bytes and indexes entries by canonical name.
func readArchive(archive []byte) (*archiveImage, error) {
	zr, err := openZip(archive)
	if err != nil {
		return nil, err
	}

	img := &archiveImage{
		entries: make([]Entry, 0, len(zr.File)),
		index:   make(map[string]int, len(zr.File)),
		comment: zr.Comment,
	}

	for _, f := range zr.File {
		entry, err := readZipEntry(f)
		if err != nil {
			return nil, err
		}

		key := indexKey(&entry)
		if key != "" {
			if _, exists := img.index[key]; exists {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateEntry, entry.Name)
			}

			img.index[key] = len(img.entries)
		}

		img.entries = append(img.entries, entry)
	}

	return img, nil
}

// lookup returns position of entry with given name or -1.
func (img *archiveImage) lookup(name string) (int, error) {
	key, err := entryKey(name)
	if err != nil {
		return -1, err
	}

	idx, ok := img.index[key]
	if !ok {
		return -1, nil
	}

	return idx, nil
}

// openZip parses central directory of archive bytes.
func openZip(archive []byte) (*zip.Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	return zr, nil
}

// readZipEntry reads one member payload and header metadata.
func readZipEntry(f *zip.File) (Entry, error) {
	entry := Entry{
		Name:           f.Name,
		Comment:        f.Comment,
		Modified:       f.Modified,
		ExternalAttrs:  f.ExternalAttrs,
		CreatorVersion: f.CreatorVersion,
		Method:         f.Method,
		NonUTF8:        f.NonUTF8,
	}

	if entry.IsDir() {
		return entry, nil
	}

	rc, err := f.Open()
	if err != nil {
		return Entry{}, fmt.Errorf("%w: open entry %q: %w", ErrFormat, f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	content, err := io.ReadAll(rc)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: read entry %q: %w", ErrFormat, f.Name, err)
	}

	entry.Content = content
	return entry, nil
}

// indexKey returns canonical index key for entry; directories keep a trailing "/".
func indexKey(entry *Entry) string {
	key := NormalizeEntryName(entry.Name)
	if key == "" || !entry.IsDir() {
		return key
	}

	return key + "/"
}

// displayName decodes non UTF-8 entry names as IBM code page 437.
func displayName(name string, nonUTF8 bool) string {
	if !nonUTF8 {
		return name
	}

	decoded, err := charmap.CodePage437.NewDecoder().String(name)
	if err != nil {
		return name
	}

	return decoded
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package fusepatch

import (
	"os"
	"strings"
)

// HostImage is an in-memory fused executable split at embedded archive start.
type HostImage struct {
	// data is full host content as read.
	data []byte
	// path is source file path; empty for in-memory images.
	path string
	// trailer is decoded end of central directory record.
	trailer TrailerRecord
	// start is embedded archive start offset.
	start int64
}

// OpenHost reads host file fully and locates embedded archive.
func OpenHost(path string) (*HostImage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrInvalidHostPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError("read host", err)
	}

	h, err := NewHostImage(data)
	if err != nil {
		return nil, err
	}

	h.path = path
	return h, nil
}

// NewHostImage locates embedded archive in data. Data must not be modified afterwards.
func NewHostImage(data []byte) (*HostImage, error) {
	trailer, err := ReadTrailer(data)
	if err != nil {
		return nil, err
	}

	return &HostImage{
		data:    data,
		trailer: trailer,
		start:   trailer.ArchiveStart(),
	}, nil
}

// Path returns source path of host image.
func (h *HostImage) Path() string {
	return h.path
}

// Size returns full host size in bytes.
func (h *HostImage) Size() int64 {
	return int64(len(h.data))
}

// ArchiveStart returns embedded archive start offset.
func (h *HostImage) ArchiveStart() int64 {
	return h.start
}

// Trailer returns decoded end of central directory record.
func (h *HostImage) Trailer() TrailerRecord {
	return h.trailer
}

// Prefix returns native bytes before embedded archive.
func (h *HostImage) Prefix() []byte {
	return h.data[:h.start:h.start]
}

// Archive returns embedded archive bytes up to end of host.
func (h *HostImage) Archive() []byte {
	return h.data[h.start:]
}

// Entries lists embedded archive entries.
func (h *HostImage) Entries() ([]EntryInfo, error) {
	return ListArchive(h.Archive())
}

// ReadEntry returns payload of one embedded archive entry.
func (h *HostImage) ReadEntry(name string) ([]byte, error) {
	img, err := readArchive(h.Archive())
	if err != nil {
		return nil, err
	}

	idx, err := img.lookup(name)
	if err != nil {
		return nil, err
	}

	if idx < 0 || img.entries[idx].IsDir() {
		return nil, entryNotFound(name)
	}

	return img.entries[idx].Content, nil
}

// ListEntries opens host file and lists embedded archive entries.
func ListEntries(path string) ([]EntryInfo, error) {
	h, err := OpenHost(path)
	if err != nil {
		return nil, err
	}

	return h.Entries()
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package fusepatch

import (
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/woozymasta/pathrules"
)

// Internal binary layout and format limits.
const (
	eocdSignature    = 0x06054b50 // "PK\x05\x06" little-endian
	eocdSize         = 22         // fixed end of central directory record size
	maxCommentLen    = 0xffff     // max archive comment length
	eocdSearchWindow = eocdSize + maxCommentLen
)

// Default option values.
const (
	DefaultEntryName    = "main.lua"
	DefaultBackupSuffix = ".bak"
	DefaultWriteBuffer  = 1024 * 1024
)

// TrailerRecord is decoded end of central directory record of embedded archive.
type TrailerRecord struct {
	// Comment is archive comment bytes, truncated to buffer end.
	Comment []byte `json:"comment,omitempty" yaml:"comment,omitempty"`
	// Position is absolute offset of the record signature in host buffer.
	Position int64 `json:"position" yaml:"position"`
	// Signature is the raw record signature.
	Signature uint32 `json:"signature" yaml:"signature"`
	// DirectorySize is central directory size in bytes.
	DirectorySize uint32 `json:"directory_size" yaml:"directory_size"`
	// DirectoryOffset is central directory offset relative to archive start.
	DirectoryOffset uint32 `json:"directory_offset" yaml:"directory_offset"`
	// DiskNumber is number of this disk.
	DiskNumber uint16 `json:"disk_number,omitempty" yaml:"disk_number,omitempty"`
	// DirectoryDisk is disk where central directory starts.
	DirectoryDisk uint16 `json:"directory_disk,omitempty" yaml:"directory_disk,omitempty"`
	// DiskEntries is number of central directory records on this disk.
	DiskEntries uint16 `json:"disk_entries" yaml:"disk_entries"`
	// TotalEntries is total number of central directory records.
	TotalEntries uint16 `json:"total_entries" yaml:"total_entries"`
	// CommentLength is declared comment length.
	CommentLength uint16 `json:"comment_length,omitempty" yaml:"comment_length,omitempty"`
}

// ArchiveStart returns offset of embedded archive start computed from trailer fields.
func (t TrailerRecord) ArchiveStart() int64 {
	return t.Position - int64(t.DirectorySize) - int64(t.DirectoryOffset)
}

// Entry is one unpacked archive member with its content.
type Entry struct {
	// Modified is entry modification time.
	Modified time.Time `json:"modified" yaml:"modified"`
	// Name is entry name as stored in archive.
	Name string `json:"name" yaml:"name"`
	// Comment is per-entry comment.
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
	// Content is decompressed entry payload.
	Content []byte `json:"-" yaml:"-"`
	// ExternalAttrs are host-dependent file attributes.
	ExternalAttrs uint32 `json:"external_attrs,omitempty" yaml:"external_attrs,omitempty"`
	// CreatorVersion is "version made by" field.
	CreatorVersion uint16 `json:"creator_version,omitempty" yaml:"creator_version,omitempty"`
	// Method is compression method used in source archive.
	Method uint16 `json:"method" yaml:"method"`
	// NonUTF8 reports that name and comment are not UTF-8 encoded.
	NonUTF8 bool `json:"non_utf8,omitempty" yaml:"non_utf8,omitempty"`
}

// IsDir reports whether entry is a directory record.
func (e *Entry) IsDir() bool {
	return len(e.Name) > 0 && e.Name[len(e.Name)-1] == '/'
}

// EntryInfo describes one entry of embedded archive without payload.
type EntryInfo struct {
	// Modified is entry modification time.
	Modified time.Time `json:"modified" yaml:"modified"`
	// Name is entry name as stored in archive.
	Name string `json:"name" yaml:"name"`
	// DisplayName is Name decoded for display (IBM437 for non UTF-8 names).
	DisplayName string `json:"display_name" yaml:"display_name"`
	// CompressedSize is stored payload size in bytes.
	CompressedSize uint64 `json:"compressed_size" yaml:"compressed_size"`
	// Size is decompressed payload size in bytes.
	Size uint64 `json:"size" yaml:"size"`
	// Method is compression method.
	Method uint16 `json:"method" yaml:"method"`
}

// RepackOptions configures archive rebuild.
type RepackOptions struct {
	// Store defines ordered path rules for entries written without compression.
	// Empty rule set means every file entry is deflated.
	Store []pathrules.Rule `json:"store,omitempty" yaml:"store,omitempty"`
	// StoreMatcherOptions control store path rule matching.
	StoreMatcherOptions pathrules.MatcherOptions `json:"store_matcher_options,omitzero" yaml:"store_matcher_options,omitzero"`
	// CompressionLevel is deflate level; zero means flate.DefaultCompression.
	CompressionLevel int `json:"compression_level,omitempty" yaml:"compression_level,omitempty"`
}

// CommitOptions configures backup and host rewrite.
type CommitOptions struct {
	// BackupSuffix is appended to host path to build backup path. Default is ".bak".
	BackupSuffix string `json:"backup_suffix,omitempty" yaml:"backup_suffix,omitempty"`
	// WriterBufferSize is buffered writer size in bytes.
	WriterBufferSize int `json:"writer_buffer_size,omitempty" yaml:"writer_buffer_size,omitempty"`
}

// InjectOptions configures full inject pipeline.
type InjectOptions struct {
	// RepackOptions are applied when rebuilding embedded archive.
	RepackOptions RepackOptions `json:"repack_options,omitzero" yaml:"repack_options,omitzero"`
	// CommitOptions are applied when writing backup and host file.
	CommitOptions CommitOptions `json:"commit_options,omitzero" yaml:"commit_options,omitzero"`
}

// InjectResult contains inject pipeline statistics.
type InjectResult struct {
	// HostPath is rewritten host file path.
	HostPath string `json:"host_path" yaml:"host_path"`
	// BackupPath is path of the pre-write host copy.
	BackupPath string `json:"backup_path" yaml:"backup_path"`
	// EntryName is replaced entry name as stored in archive.
	EntryName string `json:"entry_name" yaml:"entry_name"`
	// PrefixSize is size of untouched native prefix.
	PrefixSize int64 `json:"prefix_size" yaml:"prefix_size"`
	// ArchiveSize is embedded archive size before rewrite.
	ArchiveSize int64 `json:"archive_size" yaml:"archive_size"`
	// NewArchiveSize is embedded archive size after rewrite.
	NewArchiveSize int64 `json:"new_archive_size" yaml:"new_archive_size"`
	// OldEntrySize is replaced entry size before rewrite.
	OldEntrySize int64 `json:"old_entry_size" yaml:"old_entry_size"`
	// NewEntrySize is replaced entry size after rewrite.
	NewEntrySize int64 `json:"new_entry_size" yaml:"new_entry_size"`
	// Entries is number of entries in rebuilt archive.
	Entries int `json:"entries" yaml:"entries"`
	// Duration is end-to-end pipeline duration.
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// applyDefaults fills zero-valued repack options with defaults.
func (opts *RepackOptions) applyDefaults() {
	if opts.CompressionLevel == 0 {
		opts.CompressionLevel = flate.DefaultCompression
	}

	if opts.StoreMatcherOptions == (pathrules.MatcherOptions{}) {
		opts.StoreMatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionExclude,
		}
	}

	if opts.StoreMatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.StoreMatcherOptions.DefaultAction = pathrules.ActionExclude
	}
}

// applyDefaults fills zero-valued commit options with defaults.
func (opts *CommitOptions) applyDefaults() {
	if opts.BackupSuffix == "" {
		opts.BackupSuffix = DefaultBackupSuffix
	}

	if opts.WriterBufferSize < 4096 {
		opts.WriterBufferSize = DefaultWriteBuffer
	}
}

// applyDefaults fills zero-valued inject options with defaults.
func (opts *InjectOptions) applyDefaults() {
	opts.RepackOptions.applyDefaults()
	opts.CommitOptions.applyDefaults()
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package fusepatch

import (
	"encoding/binary"
	"fmt"
)

// Locate returns offset where embedded archive starts in host buffer.
func Locate(buf []byte) (int64, error) {
	trailer, err := ReadTrailer(buf)
	if err != nil {
		return 0, err
	}

	return trailer.ArchiveStart(), nil
}

// ReadTrailer finds and decodes the last end of central directory record
// within the trailing search window of buf.
func ReadTrailer(buf []byte) (TrailerRecord, error) {
	pos := findTrailerSignature(buf)
	if pos < 0 {
		return TrailerRecord{}, ErrSignatureNotFound
	}

	trailer := decodeTrailer(buf, pos)
	if start := trailer.ArchiveStart(); start < 0 {
		return TrailerRecord{}, fmt.Errorf(
			"%w: position %d, directory size %d, directory offset %d",
			ErrNegativeStartOffset,
			trailer.Position,
			trailer.DirectorySize,
			trailer.DirectoryOffset,
		)
	}

	return trailer, nil
}

// findTrailerSignature scans backward for signature and returns its position or -1.
// Scan starts at the last position where a full fixed-size record fits.
func findTrailerSignature(buf []byte) int {
	last := len(buf) - eocdSize
	if last < 0 {
		return -1
	}

	first := len(buf) - eocdSearchWindow
	if first < 0 {
		first = 0
	}

	for i := last; i >= first; i-- {
		if binary.LittleEndian.Uint32(buf[i:i+4]) == eocdSignature {
			return i
		}
	}

	return -1
}

// decodeTrailer decodes fixed record fields at pos. Caller guarantees pos+eocdSize <= len(buf).
func decodeTrailer(buf []byte, pos int) TrailerRecord {
	rec := buf[pos : pos+eocdSize]
	trailer := TrailerRecord{
		Position:        int64(pos),
		Signature:       binary.LittleEndian.Uint32(rec[0:4]),
		DiskNumber:      binary.LittleEndian.Uint16(rec[4:6]),
		DirectoryDisk:   binary.LittleEndian.Uint16(rec[6:8]),
		DiskEntries:     binary.LittleEndian.Uint16(rec[8:10]),
		TotalEntries:    binary.LittleEndian.Uint16(rec[10:12]),
		DirectorySize:   binary.LittleEndian.Uint32(rec[12:16]),
		DirectoryOffset: binary.LittleEndian.Uint32(rec[16:20]),
		CommentLength:   binary.LittleEndian.Uint16(rec[20:22]),
	}

	commentEnd := pos + eocdSize + int(trailer.CommentLength)
	if commentEnd > len(buf) {
		commentEnd = len(buf)
	}

	if commentEnd > pos+eocdSize {
		trailer.Comment = append([]byte(nil), buf[pos+eocdSize:commentEnd]...)
	}

	return trailer
}

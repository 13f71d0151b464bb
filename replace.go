// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package fusepatch

import "fmt"

// replaceResult contains rebuilt archive and replaced entry details.
type replaceResult struct {
	archive []byte
	name    string
	oldSize int
	newSize int
	entries int
}

// Replace rebuilds archive with content of the named entry swapped for content.
// Every other entry keeps its name and payload. Archive input is not modified.
func Replace(archive []byte, name string, content []byte, opts RepackOptions) ([]byte, error) {
	res, err := replaceEntry(archive, name, content, opts)
	if err != nil {
		return nil, err
	}

	return res.archive, nil
}

// replaceEntry unpacks archive, swaps one entry payload, and repacks all entries.
func replaceEntry(archive []byte, name string, content []byte, opts RepackOptions) (*replaceResult, error) {
	img, err := readArchive(archive)
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

	target := &img.entries[idx]
	res := &replaceResult{
		name:    target.Name,
		oldSize: len(target.Content),
		newSize: len(content),
		entries: len(img.entries),
	}

	target.Content = append([]byte(nil), content...)

	res.archive, err = writeArchive(img.entries, img.comment, opts)
	if err != nil {
		return nil, err
	}

	return res, nil
}

// entryNotFound builds ErrEntryNotFound for name.
func entryNotFound(name string) error {
	return fmt.Errorf("%w: %q", ErrEntryNotFound, name)
}

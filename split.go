// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package fusepatch

import "fmt"

// Split divides host buffer into native prefix and embedded archive at start.
// Both results alias buf; prefix capacity is clipped so appends never reach archive bytes.
func Split(buf []byte, start int64) ([]byte, []byte, error) {
	if start < 0 {
		return nil, nil, fmt.Errorf("%w: start %d", ErrNegativeStartOffset, start)
	}

	if start > int64(len(buf)) {
		return nil, nil, fmt.Errorf("%w: start %d beyond buffer size %d", ErrFormat, start, len(buf))
	}

	return buf[:start:start], buf[start:], nil
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package fusepatch

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/woozymasta/pathrules"
)

// storeMatcher holds compiled rules selecting entries written without compression.
type storeMatcher struct {
	matcher *pathrules.Matcher
}

// newStoreMatcher compiles store path rules.
func newStoreMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*storeMatcher, error) {
	rules = normalizeStoreRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile store rules: %w", ErrInvalidStoreRules, err)
	}

	return &storeMatcher{matcher: matcher}, nil
}

// normalizeStoreRules normalizes rule patterns and drops empty patterns.
func normalizeStoreRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := normalizePathForMatching(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// Match reports whether entry name is included by store rules.
func (m *storeMatcher) Match(name string) bool {
	if m == nil || m.matcher == nil {
		return false
	}

	candidate := NormalizeEntryName(name)
	if candidate == "" {
		return false
	}

	return m.matcher.Included(candidate, false)
}

// entryMethod selects compression method for one rebuilt entry.
func entryMethod(matcher *storeMatcher, entry *Entry) uint16 {
	if entry.IsDir() || len(entry.Content) == 0 || matcher.Match(entry.Name) {
		return zip.Store
	}

	return zip.Deflate
}

// newDeflateCompressor returns zip compressor backed by klauspost flate at level.
func newDeflateCompressor(level int) (zip.Compressor, error) {
	// validate level once, before any entry is written
	if _, err := flate.NewWriter(io.Discard, level); err != nil {
		return nil, fmt.Errorf("%w: deflate level %d: %w", ErrInvalidCompressionLevel, level, err)
	}

	return func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	}, nil
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

// Package resolve picks game and replacement paths from ordered candidate lists.
package resolve

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoCandidate means no candidate in the list was accepted.
var ErrNoCandidate = errors.New("no candidate path accepted")

// Candidate is one possible location evaluated by First.
type Candidate struct {
	// Source names where the candidate came from, for diagnostics.
	Source string
	// Path is candidate location; empty candidates are skipped.
	Path string
	// Probe is a file whose existence selects the candidate; empty means Path itself.
	Probe string
	// Unconditional accepts the candidate without existence check.
	Unconditional bool
}

// First returns the first non-empty candidate that is unconditional or whose probe exists.
func First(candidates ...Candidate) (Candidate, error) {
	sources := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if strings.TrimSpace(c.Path) == "" {
			continue
		}

		sources = append(sources, c.Source)
		if c.Unconditional {
			return c, nil
		}

		probe := c.Probe
		if probe == "" {
			probe = c.Path
		}

		if _, err := os.Stat(probe); err == nil {
			return c, nil
		}
	}

	return Candidate{}, fmt.Errorf("%w (tried: %s)", ErrNoCandidate, strings.Join(sources, ", "))
}

// GameDirCandidates lists game directory candidates in priority order:
// explicit flag, parent of binDir when it holds exe, working directory.
func GameDirCandidates(explicit string, binDir string, workDir string, exe string) []Candidate {
	candidates := make([]Candidate, 0, 3)
	if explicit != "" {
		candidates = append(candidates, Candidate{Source: "flag", Path: absPath(explicit), Unconditional: true})
	}

	if binDir != "" {
		parent := filepath.Dir(binDir)
		candidates = append(candidates, Candidate{
			Source: "binary parent",
			Path:   parent,
			Probe:  filepath.Join(parent, exe),
		})
	}

	return append(candidates, Candidate{Source: "working directory", Path: workDir, Unconditional: true})
}

// ReplacementCandidates lists replacement file candidates in priority order:
// explicit flag, name next to binary, gameDir/export/name.
func ReplacementCandidates(explicit string, binDir string, gameDir string, name string) []Candidate {
	candidates := make([]Candidate, 0, 3)
	if explicit != "" {
		candidates = append(candidates, Candidate{Source: "flag", Path: absPath(explicit), Unconditional: true})
	}

	if binDir != "" {
		candidates = append(candidates, Candidate{Source: "binary directory", Path: filepath.Join(binDir, name)})
	}

	return append(candidates, Candidate{
		Source:        "game export",
		Path:          filepath.Join(gameDir, "export", name),
		Unconditional: true,
	})
}

// absPath returns absolute form of path, or path itself when it cannot be resolved.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return abs
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

// Command fusepatch replaces one file inside a fused game executable.
//
// A fused executable is a native program with a zip archive appended to it.
// fusepatch rewrites the archive with new content for one entry, keeps the
// native prefix untouched and leaves a byte copy of the original next to it.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command tree and maps the outcome to a process exit code.
func run(args []string, stdout io.Writer, stderr io.Writer) int {
	a := newApp(stdout, stderr)
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		if a.log != nil {
			a.log.WithError(err).Debug("command failed")
		}

		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

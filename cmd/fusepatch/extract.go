// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package main

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/woozymasta/fusepatch"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		output string
		all    bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Write an archive entry (or the whole archive with --all) to disk",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			entry, err := a.entryName()
			if err != nil && !all {
				return err
			}

			hostPath, err := a.hostPath()
			if err != nil {
				return err
			}

			host, err := fusepatch.OpenHost(hostPath)
			if err != nil {
				return err
			}

			opts := fusepatch.ExtractOptions{Overwrite: force}

			if all {
				dst := output
				if dst == "" {
					dst = filepath.Join(a.workDir, "export")
				}

				n, err := host.ExtractAll(dst, opts)
				if err != nil {
					return err
				}

				a.log.WithField("files", n).Info("archive extracted")
				_, _ = fmt.Fprintf(a.out, "Extracted %d files to %s\n", n, dst)
				return nil
			}

			dst := output
			if dst == "" {
				dst = filepath.Join(a.workDir, path.Base(entry))
			}

			n, err := host.ExtractEntry(entry, dst, opts)
			if err != nil {
				return err
			}

			a.log.WithField("bytes", n).Info("entry extracted")
			_, _ = fmt.Fprintf(a.out, "Extracted %s to %s\n", entry, dst)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "output file, or directory with --all (default: working directory)")
	flags.BoolVar(&all, "all", false, "extract every entry")
	flags.BoolVarP(&force, "force", "f", false, "overwrite existing files")
	flags.String("entry", "main.lua", "archive entry to extract")
	return cmd
}

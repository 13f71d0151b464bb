// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/cobra"
	"github.com/woozymasta/fusepatch"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List entries of the archive embedded in the executable",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			hostPath, err := a.hostPath()
			if err != nil {
				return err
			}

			host, err := fusepatch.OpenHost(hostPath)
			if err != nil {
				return err
			}

			entries, err := host.Entries()
			if err != nil {
				return err
			}

			a.log.WithField("start", host.ArchiveStart()).Debug("archive located")

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "SIZE\tPACKED\tMETHOD\tMODIFIED\tNAME")
			for _, e := range entries {
				_, _ = fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n",
					e.Size, e.CompressedSize, methodName(e.Method),
					e.Modified.Format("2006-01-02 15:04"), e.DisplayName)
			}

			return tw.Flush()
		},
	}
}

// methodName renders zip compression method.
func methodName(method uint16) string {
	switch method {
	case zip.Store:
		return "store"
	case zip.Deflate:
		return "deflate"
	default:
		return fmt.Sprintf("m%d", method)
	}
}

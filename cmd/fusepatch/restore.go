// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/woozymasta/fusepatch"
)

func newRestoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Copy the backup back over the executable",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			hostPath, err := a.hostPath()
			if err != nil {
				return err
			}

			backupPath, err := fusepatch.Restore(hostPath, a.cfg.commitOptions())
			if err != nil {
				return err
			}

			a.log.WithField("backup", backupPath).Info("executable restored")
			_, _ = fmt.Fprintf(a.out, "Restored %s from %s\n", hostPath, backupPath)
			return nil
		},
	}
}

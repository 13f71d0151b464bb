// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newRootCmd builds the command tree. Running without a subcommand injects.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "fusepatch",
		Short: "Replace a file inside a fused game executable",
		Long: `fusepatch replaces one entry of the zip archive appended to a fused
executable (for example a Love2D game) and writes a backup of the original
executable next to it before changing anything.

Running fusepatch without a subcommand is the same as "fusepatch inject".`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runInject(cmd)
		},
	}

	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default fusepatch.yaml next to binary or in working directory)")
	pf.String("log-level", "info", "log level: trace, debug, info, warn, error")
	pf.String("game-dir", "", "game directory (default: parent of binary directory if it holds the executable, else working directory)")
	pf.String("exe", defaultExe, "fused executable name inside game directory")

	addInjectFlags(root.Flags())

	root.AddCommand(newInjectCmd(a), newListCmd(a), newExtractCmd(a), newRestoreCmd(a))
	return root
}

// addInjectFlags registers flags used by inject.
func addInjectFlags(flags *pflag.FlagSet) {
	flags.String("main-lua", "", "replacement file (default: <binary dir>/<entry>, else <game dir>/export/<entry>)")
	flags.String("entry", "main.lua", "archive entry to replace")
	flags.String("mods-dir", "", "mods directory to sync into <game dir>/mods (default: <binary dir>/mods)")
	flags.Bool("no-mods", false, "skip mods directory sync")
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package main

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/woozymasta/fusepatch"
	"github.com/woozymasta/fusepatch/internal/modsync"
	"github.com/woozymasta/fusepatch/internal/resolve"
)

func newInjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inject",
		Short: "Sync mods and replace the archive entry with the replacement file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runInject(cmd)
		},
	}

	addInjectFlags(cmd.Flags())
	return cmd
}

// runInject syncs mods then rewrites the host executable.
func (a *app) runInject(cmd *cobra.Command) error {
	entry, err := a.entryName()
	if err != nil {
		return err
	}

	gameDir, err := a.gameDir()
	if err != nil {
		return err
	}

	if !a.cfg.NoMods {
		if err := a.syncMods(cmd, gameDir); err != nil {
			return err
		}
	}

	replacement, err := resolve.First(resolve.ReplacementCandidates(a.cfg.MainLua, a.binDir, gameDir, path.Base(entry))...)
	if err != nil {
		return fmt.Errorf("resolve replacement file: %w", err)
	}

	hostPath := filepath.Join(gameDir, a.cfg.Exe)
	a.log.WithFields(logrus.Fields{
		"host":        hostPath,
		"entry":       entry,
		"replacement": replacement.Path,
		"source":      replacement.Source,
	}).Debug("injecting")

	res, err := fusepatch.InjectFile(hostPath, a.cfg.Entry, replacement.Path, a.cfg.injectOptions())
	if err != nil {
		return err
	}

	a.log.WithFields(logrus.Fields{
		"prefix":      res.PrefixSize,
		"archive_old": res.ArchiveSize,
		"archive_new": res.NewArchiveSize,
		"entry_old":   res.OldEntrySize,
		"entry_new":   res.NewEntrySize,
		"entries":     res.Entries,
		"took":        res.Duration,
	}).Info("archive rewritten")

	_, _ = fmt.Fprintf(a.out, "Injected %s into %s\n", replacement.Path, res.HostPath)
	_, _ = fmt.Fprintf(a.out, "Backup saved to %s\n", res.BackupPath)
	return nil
}

// syncMods mirrors the mods directory into <gameDir>/mods when it exists.
func (a *app) syncMods(cmd *cobra.Command, gameDir string) error {
	src := a.cfg.ModsDir
	if src == "" {
		if a.binDir == "" {
			return nil
		}

		src = filepath.Join(a.binDir, "mods")
	}

	dst := filepath.Join(gameDir, "mods")
	res, err := modsync.Sync(cmd.Context(), src, dst, a.cfg.modsOptions())
	if err != nil {
		return fmt.Errorf("sync mods: %w", err)
	}

	if res.Skipped {
		a.log.WithField("dir", src).Debug("no mods directory, sync skipped")
		return nil
	}

	a.log.WithFields(logrus.Fields{
		"files": res.Files,
		"dirs":  res.Dirs,
		"bytes": res.Bytes,
	}).Info("mods synced")

	_, _ = fmt.Fprintf(a.out, "Synced mods to %s\n", dst)
	return nil
}

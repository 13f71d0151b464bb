// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/woozymasta/fusepatch"
	"github.com/woozymasta/fusepatch/internal/resolve"
)

// app carries state shared by all subcommands of one invocation.
type app struct {
	v       *viper.Viper
	log     *logrus.Logger
	logFile io.Closer
	out     io.Writer
	errOut  io.Writer

	cfg        Config
	configPath string
	binDir     string
	workDir    string
}

// newApp builds invocation state with binary and working directories resolved.
func newApp(stdout io.Writer, stderr io.Writer) *app {
	a := &app{
		v:      viper.New(),
		out:    stdout,
		errOut: stderr,
	}

	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}

		a.binDir = filepath.Dir(exe)
	}

	if wd, err := os.Getwd(); err == nil {
		a.workDir = wd
	}

	return a
}

// setup loads configuration for the executing command and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if err := a.loadConfig(cmd); err != nil {
		return err
	}

	log, closer, err := newLogger(a.cfg, a.errOut)
	if err != nil {
		return err
	}

	a.log = log
	a.logFile = closer

	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.WithField("file", used).Debug("config loaded")
	}

	return nil
}

// close releases the log file if one was opened.
func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

// gameDir resolves game directory from flag, binary location or working directory.
func (a *app) gameDir() (string, error) {
	c, err := resolve.First(resolve.GameDirCandidates(a.cfg.GameDir, a.binDir, a.workDir, a.cfg.Exe)...)
	if err != nil {
		return "", fmt.Errorf("resolve game directory: %w", err)
	}

	a.log.WithFields(logrus.Fields{"dir": c.Path, "source": c.Source}).Debug("game directory resolved")
	return c.Path, nil
}

// entryName returns normalized archive entry name from config.
func (a *app) entryName() (string, error) {
	entry := fusepatch.NormalizeEntryName(a.cfg.Entry)
	if entry == "" {
		return "", fmt.Errorf("%w: %q", fusepatch.ErrInvalidEntryName, a.cfg.Entry)
	}

	return entry, nil
}

// hostPath resolves the fused executable path.
func (a *app) hostPath() (string, error) {
	dir, err := a.gameDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, a.cfg.Exe), nil
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/woozymasta/fusepatch"
	"github.com/woozymasta/fusepatch/internal/modsync"
	"github.com/woozymasta/pathrules"
)

const (
	// configName is config file base name searched next to binary and in working directory.
	configName = "fusepatch"
	// envPrefix is environment variable prefix, e.g. FUSEPATCH_GAME_DIR.
	envPrefix = "FUSEPATCH"
	// defaultExe is fused executable name looked up in game directory.
	defaultExe = "Balatro.exe"
)

// Config is merged configuration from flags, environment and config file.
type Config struct {
	GameDir          string     `mapstructure:"game_dir"`
	Exe              string     `mapstructure:"exe"`
	Entry            string     `mapstructure:"entry"`
	MainLua          string     `mapstructure:"main_lua"`
	ModsDir          string     `mapstructure:"mods_dir"`
	LogLevel         string     `mapstructure:"log_level"`
	LogFilePath      string     `mapstructure:"log_file_path"`
	BackupSuffix     string     `mapstructure:"backup_suffix"`
	Store            []string   `mapstructure:"store"`
	Mods             ModsConfig `mapstructure:"mods"`
	CompressionLevel int        `mapstructure:"compression_level"`
	NoMods           bool       `mapstructure:"no_mods"`
}

// ModsConfig controls mods directory sync.
type ModsConfig struct {
	// Ignore lists exclude patterns; a leading "!" re-includes a path.
	Ignore  []string `mapstructure:"ignore"`
	Workers int      `mapstructure:"workers"`
}

// flagKeys maps config keys to command line flag names.
var flagKeys = map[string]string{
	"game_dir":  "game-dir",
	"exe":       "exe",
	"entry":     "entry",
	"main_lua":  "main-lua",
	"mods_dir":  "mods-dir",
	"no_mods":   "no-mods",
	"log_level": "log-level",
}

// setDefaults registers every known key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("game_dir", "")
	v.SetDefault("exe", defaultExe)
	v.SetDefault("entry", fusepatch.DefaultEntryName)
	v.SetDefault("main_lua", "")
	v.SetDefault("mods_dir", "")
	v.SetDefault("no_mods", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file_path", "")
	v.SetDefault("backup_suffix", fusepatch.DefaultBackupSuffix)
	v.SetDefault("compression_level", 0)
	v.SetDefault("store", []string{})
	v.SetDefault("mods.ignore", []string{".git/", ".DS_Store"})
	v.SetDefault("mods.workers", 0)
}

// loadConfig merges config file, FUSEPATCH_* environment and flags of cmd into a.cfg.
func (a *app) loadConfig(cmd *cobra.Command) error {
	v := a.v
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if a.configPath != "" {
		v.SetConfigFile(a.configPath)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		if a.binDir != "" {
			v.AddConfigPath(a.binDir)
		}
		if a.workDir != "" {
			v.AddConfigPath(a.workDir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.configPath != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	if strings.TrimSpace(cfg.Exe) == "" {
		cfg.Exe = defaultExe
	}

	a.cfg = cfg
	return nil
}

// bindFlags binds known flags present on the command flag set.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}

		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	return nil
}

// injectOptions converts config into library options.
func (cfg Config) injectOptions() fusepatch.InjectOptions {
	return fusepatch.InjectOptions{
		RepackOptions: fusepatch.RepackOptions{
			Store:            patternRules(cfg.Store, pathrules.ActionInclude),
			CompressionLevel: cfg.CompressionLevel,
		},
		CommitOptions: cfg.commitOptions(),
	}
}

// commitOptions converts config into backup options.
func (cfg Config) commitOptions() fusepatch.CommitOptions {
	return fusepatch.CommitOptions{BackupSuffix: cfg.BackupSuffix}
}

// modsOptions converts config into mods sync options.
func (cfg Config) modsOptions() modsync.Options {
	return modsync.Options{
		Exclude:    patternRules(cfg.Mods.Ignore, pathrules.ActionExclude),
		MaxWorkers: cfg.Mods.Workers,
	}
}

// patternRules turns patterns into rules with action; "!" flips action for one pattern.
func patternRules(patterns []string, action pathrules.Action) []pathrules.Rule {
	inverse := pathrules.ActionInclude
	if action == pathrules.ActionInclude {
		inverse = pathrules.ActionExclude
	}

	rules := make([]pathrules.Rule, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		ruleAction := action
		if rest, ok := strings.CutPrefix(pattern, "!"); ok {
			pattern = rest
			ruleAction = inverse
		}

		rules = append(rules, pathrules.Rule{Action: ruleAction, Pattern: pattern})
	}

	return rules
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

// Package modsync mirrors a project mods directory into the game directory.
//
// Top-level files are copied over their counterparts; top-level directories
// replace their counterparts entirely. Paths matched by exclude rules are skipped.
package modsync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/woozymasta/pathrules"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotDirectory means the source path exists but is not a directory.
	ErrNotDirectory = errors.New("mods source is not a directory")
	// ErrOverlap means one of source and destination lies inside the other.
	ErrOverlap = errors.New("mods source and destination overlap")
)

// Options configures Sync.
type Options struct {
	// Exclude defines ordered path rules; paths resolved as excluded are not copied.
	Exclude []pathrules.Rule `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	// MatcherOptions control exclude rule matching.
	MatcherOptions pathrules.MatcherOptions `json:"matcher_options,omitzero" yaml:"matcher_options,omitzero"`
	// MaxWorkers is number of copy workers (zero means GOMAXPROCS).
	MaxWorkers int `json:"max_workers,omitempty" yaml:"max_workers,omitempty"`
}

// Result contains sync statistics.
type Result struct {
	// Files is number of copied files.
	Files int `json:"files" yaml:"files"`
	// Dirs is number of replaced top-level directories.
	Dirs int `json:"dirs" yaml:"dirs"`
	// Bytes is total copied payload size.
	Bytes int64 `json:"bytes" yaml:"bytes"`
	// Skipped reports that source directory does not exist or is the destination itself.
	Skipped bool `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// copyJob is one file copy scheduled for workers.
type copyJob struct {
	src  string
	dst  string
	mode fs.FileMode
}

// applyDefaults fills zero-valued options with defaults.
func (opts *Options) applyDefaults() {
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = runtime.GOMAXPROCS(0)
	}

	if opts.MatcherOptions == (pathrules.MatcherOptions{}) {
		opts.MatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionInclude,
		}
	}

	if opts.MatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.MatcherOptions.DefaultAction = pathrules.ActionInclude
	}
}

// Sync copies src mods tree into dst. Missing src is not an error.
func Sync(ctx context.Context, src string, dst string, opts Options) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts.applyDefaults()

	info, err := os.Stat(src)
	if errors.Is(err, os.ErrNotExist) {
		return &Result{Skipped: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat mods source: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, src)
	}

	same, err := sameOrNested(src, info, dst)
	if err != nil {
		return nil, err
	}
	if same {
		return &Result{Skipped: true}, nil
	}

	var matcher *pathrules.Matcher
	if len(opts.Exclude) > 0 {
		matcher, err = pathrules.NewMatcher(opts.Exclude, opts.MatcherOptions)
		if err != nil {
			return nil, fmt.Errorf("compile exclude rules: %w", err)
		}
	}

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return nil, fmt.Errorf("create mods destination: %w", err)
	}

	res := &Result{}
	jobs, err := planSync(src, dst, matcher, res)
	if err != nil {
		return nil, err
	}

	written, err := runJobs(ctx, jobs, opts.MaxWorkers)
	if err != nil {
		return nil, err
	}

	res.Files = len(jobs)
	res.Bytes = written
	return res, nil
}

// sameOrNested reports whether src and dst are one directory.
// Nested trees fail with ErrOverlap since replacing one would destroy the other.
func sameOrNested(src string, srcInfo fs.FileInfo, dst string) (bool, error) {
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
		return true, nil
	}

	srcAbs, err := canonicalPath(src)
	if err != nil {
		return false, err
	}

	dstAbs, err := canonicalPath(dst)
	if err != nil {
		return false, err
	}

	if srcAbs == dstAbs {
		return true, nil
	}

	if isWithin(srcAbs, dstAbs) || isWithin(dstAbs, srcAbs) {
		return false, fmt.Errorf("%w: %s and %s", ErrOverlap, src, dst)
	}

	return false, nil
}

// canonicalPath returns absolute path with symlinks resolved for its deepest existing ancestor.
func canonicalPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}

	rest := ""
	for cur := abs; ; {
		if resolved, err := filepath.EvalSymlinks(cur); err == nil {
			return filepath.Join(resolved, rest), nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return abs, nil
		}

		rest = filepath.Join(filepath.Base(cur), rest)
		cur = parent
	}
}

// isWithin reports whether child is strictly below parent.
func isWithin(parent string, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil || rel == "." || rel == ".." {
		return false
	}

	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// planSync replaces top-level directories, creates the directory tree, and returns file copy jobs.
func planSync(src string, dst string, matcher *pathrules.Matcher, res *Result) ([]copyJob, error) {
	items, err := os.ReadDir(src)
	if err != nil {
		return nil, fmt.Errorf("read mods source: %w", err)
	}

	jobs := make([]copyJob, 0, len(items))
	for _, item := range items {
		if !included(matcher, item.Name(), item.IsDir()) {
			continue
		}

		srcPath := filepath.Join(src, item.Name())
		dstPath := filepath.Join(dst, item.Name())

		if !item.IsDir() {
			if !item.Type().IsRegular() {
				continue
			}

			info, err := item.Info()
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", srcPath, err)
			}

			jobs = append(jobs, copyJob{src: srcPath, dst: dstPath, mode: info.Mode().Perm()})
			continue
		}

		if err := os.RemoveAll(dstPath); err != nil {
			return nil, fmt.Errorf("remove %s: %w", dstPath, err)
		}

		treeJobs, err := planTree(src, srcPath, dst, matcher)
		if err != nil {
			return nil, err
		}

		jobs = append(jobs, treeJobs...)
		res.Dirs++
	}

	return jobs, nil
}

// planTree creates directories of one top-level tree and collects its file jobs.
func planTree(srcRoot string, treeRoot string, dstRoot string, matcher *pathrules.Matcher) ([]copyJob, error) {
	var jobs []copyJob

	err := filepath.WalkDir(treeRoot, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(srcRoot, p)
		if err != nil {
			return err
		}

		if !included(matcher, filepath.ToSlash(rel), d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		target := filepath.Join(dstRoot, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		jobs = append(jobs, copyJob{src: p, dst: target, mode: info.Mode().Perm()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", treeRoot, err)
	}

	return jobs, nil
}

// runJobs copies files with bounded parallelism and returns total written bytes.
func runJobs(ctx context.Context, jobs []copyJob, workers int) (int64, error) {
	var written atomic.Int64

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for _, job := range jobs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			n, err := copyFile(job)
			if err != nil {
				return err
			}

			written.Add(n)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return 0, err
	}

	return written.Load(), nil
}

// copyFile copies one file keeping permission bits and modification time.
func copyFile(job copyJob) (int64, error) {
	in, err := os.Open(job.src)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", job.src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(job.dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, job.mode)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", job.dst, err)
	}

	n, err := io.Copy(out, in)
	if err != nil {
		_ = out.Close()
		return 0, fmt.Errorf("copy %s: %w", job.src, err)
	}

	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", job.dst, err)
	}

	if info, err := in.Stat(); err == nil {
		_ = os.Chtimes(job.dst, info.ModTime(), info.ModTime())
	}

	return n, nil
}

// included reports whether relative slash path passes exclude rules.
func included(matcher *pathrules.Matcher, rel string, isDir bool) bool {
	if matcher == nil {
		return true
	}

	rel = strings.TrimPrefix(path.Clean(rel), "./")
	return matcher.Included(rel, isDir)
}

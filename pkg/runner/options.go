// Package runner discovers documents and processes them concurrently.
package runner

import "github.com/yaklabco/gonmc/pkg/config"

// Options controls a multi-file run.
type Options struct {
	// Paths are the user-specified files or directories.
	// If empty, defaults to the working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (with leading dot) picked up
	// when walking directories. Defaults to DefaultExtensions().
	Extensions []string

	// IncludeGlobs restrict discovery to matching paths, relative to
	// WorkingDir. Empty means everything with a matching extension.
	IncludeGlobs []string

	// ExcludeGlobs skip matching files and directories. The CLI merges
	// config ignore patterns and --ignore here.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs bounds the number of concurrent workers.
	// 0 or negative means runtime.NumCPU().
	Jobs int

	// MaxFileSize bounds each document. Zero means fsutil.DefaultMaxFileSize.
	MaxFileSize int64
}

// OptionsFromConfig fills the discovery options carried by cfg.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	opts := Options{Paths: paths}
	if cfg == nil {
		return opts
	}
	opts.Extensions = cfg.Extensions
	opts.ExcludeGlobs = append(opts.ExcludeGlobs, cfg.Ignore...)
	opts.Jobs = cfg.Jobs
	return opts
}

// DefaultExtensions returns the default document extensions.
func DefaultExtensions() []string {
	return []string{config.DefaultExtension}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

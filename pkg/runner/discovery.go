package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// matcher holds compiled include and exclude globs.
type matcher struct {
	include []glob.Glob
	exclude []glob.Glob
}

func newMatcher(opts Options) (*matcher, error) {
	include, err := compileGlobs(opts.IncludeGlobs)
	if err != nil {
		return nil, err
	}
	exclude, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}
	return &matcher{include: include, exclude: exclude}, nil
}

// compileGlobs compiles patterns with "/" as the separator, so "*" stays
// within one path element and "**" crosses elements.
func compileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// matchAny reports whether rel or its base name matches one of globs.
// Directories also try rel+"/" so "vendor/**" prunes "vendor".
func matchAny(globs []glob.Glob, rel string, dir bool) bool {
	rel = filepath.ToSlash(rel)
	base := filepath.Base(rel)
	for _, g := range globs {
		if g.Match(rel) || g.Match(base) || (dir && g.Match(rel+"/")) {
			return true
		}
	}
	return false
}

func (m *matcher) excluded(rel string, dir bool) bool {
	return matchAny(m.exclude, rel, dir)
}

func (m *matcher) included(rel string) bool {
	return len(m.include) == 0 || matchAny(m.include, rel, false)
}

// Discover finds documents matching opts. It returns a sorted,
// de-duplicated list of absolute paths. Explicit file paths are kept
// regardless of extension.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	m, err := newMatcher(opts)
	if err != nil {
		return nil, err
	}

	w := &walker{
		ctx:        ctx,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		match:      m,
		follow:     opts.FollowSymlinks,
		seen:       make(map[string]struct{}),
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if info.IsDir() {
			if err := w.walk(absPath); err != nil {
				return nil, err
			}
			continue
		}
		if !w.match.excluded(w.rel(absPath), false) {
			w.add(absPath)
		}
	}

	slices.Sort(w.files)
	return w.files, nil
}

type walker struct {
	ctx        context.Context //nolint:containedctx // Scoped to one Discover call.
	workDir    string
	extensions []string
	match      *matcher
	follow     bool
	seen       map[string]struct{}
	files      []string
}

func (w *walker) add(path string) {
	if _, ok := w.seen[path]; ok {
		return
	}
	w.seen[path] = struct{}{}
	w.files = append(w.files, path)
}

func (w *walker) rel(path string) string {
	rel, err := filepath.Rel(w.workDir, path)
	if err != nil {
		return path
	}
	return rel
}

func (w *walker) walk(root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		rel := w.rel(path)
		hidden := path != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || w.match.excluded(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			if target.IsDir() {
				if !w.follow {
					return nil
				}
				resolved, err := filepath.EvalSymlinks(path)
				if err != nil {
					return nil //nolint:nilerr // Unresolvable symlinks are skipped.
				}
				return w.walk(resolved)
			}
		}

		if w.hasExtension(path) && !w.match.excluded(rel, false) && w.match.included(rel) {
			w.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

func (w *walker) hasExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range w.extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

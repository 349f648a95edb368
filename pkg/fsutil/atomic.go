package fsutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode for generated files.
const DefaultFileMode os.FileMode = 0644

// WriteOptions controls WriteAtomic.
type WriteOptions struct {
	// Mode is the file mode. Zero means DefaultFileMode.
	Mode os.FileMode

	// Overwrite allows replacing an existing file.
	Overwrite bool
}

// WriteAtomic writes content to a temp file in the target directory, syncs
// it and renames it over path. Without opts.Overwrite an existing path is
// left alone and ErrExists is returned. On failure the temp file is removed.
func WriteAtomic(ctx context.Context, path string, content []byte, opts WriteOptions) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if !opts.Overwrite {
		if _, err := os.Lstat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}

	mode := opts.Mode
	if mode == 0 {
		mode = DefaultFileMode
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return classify(path, err)
	}
	tmpPath := tmp.Name()

	done := false
	defer func() {
		if !done {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	done = true
	return nil
}

// Package fsutil reads documents from disk or stdin and writes generated
// files safely.
package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// DefaultMaxFileSize bounds how much of one document is read.
const DefaultMaxFileSize int64 = 16 << 20

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrTooLarge indicates the content exceeds the size limit.
	ErrTooLarge = errors.New("file too large")

	// ErrExists indicates the target of a write already exists.
	ErrExists = errors.New("file already exists")
)

// FileInfo captures the state of a file when it was read.
type FileInfo struct {
	// Path is the absolute or relative path to the file.
	Path string

	// Mode is the file's permission and mode bits.
	Mode os.FileMode

	// ModTime is the file's modification time.
	ModTime time.Time

	// Size is the file size in bytes.
	Size int64
}

// ReadFile reads a document with DefaultMaxFileSize as the limit.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	return ReadFileLimit(ctx, path, DefaultMaxFileSize)
}

// ReadFileLimit reads a document and its metadata. A limit of zero or less
// disables the size check.
func ReadFileLimit(ctx context.Context, path string, limit int64) ([]byte, *FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	if limit > 0 && stat.Size() > limit {
		return nil, nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, path, stat.Size(), limit)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	info := &FileInfo{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    int64(len(content)),
	}
	return content, info, nil
}

// ReadAll reads r up to limit bytes, for documents piped on stdin.
func ReadAll(ctx context.Context, r io.Reader, limit int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if limit <= 0 {
		limit = DefaultMaxFileSize
	}

	content, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if int64(len(content)) > limit {
		return nil, fmt.Errorf("%w: input exceeds %d bytes", ErrTooLarge, limit)
	}
	return content, nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}

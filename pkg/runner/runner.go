package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/gonmc/internal/logging"
	"github.com/yaklabco/gonmc/pkg/engine"
	"github.com/yaklabco/gonmc/pkg/fsutil"
)

// Runner processes many documents with one engine.
type Runner struct {
	// Engine runs the pipeline for each document.
	Engine *engine.Engine
}

// New creates a Runner around eng.
func New(eng *engine.Engine) *Runner {
	return &Runner{Engine: eng}
}

// Run discovers documents under opts.Paths and processes them with a
// bounded worker pool. Outcomes are ordered by path regardless of
// completion order. Files not started before cancellation are left out.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = max(1, min(jobs, len(files)))

	outcomes := make([]FileOutcome, len(files))
	started := make([]bool, len(files))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)
	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		started[i] = true
		group.Go(func() error {
			outcomes[i] = r.ProcessFile(gctx, path, opts.MaxFileSize)
			return nil
		})
	}
	_ = group.Wait()

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)
	for i, outcome := range outcomes {
		if started[i] {
			result.accumulate(outcome)
		}
	}

	logger.Debug("run complete",
		logging.FieldJobs, jobs,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

// ProcessFile reads and processes one document.
func (r *Runner) ProcessFile(ctx context.Context, path string, limit int64) FileOutcome {
	content, _, err := fsutil.ReadFileLimit(ctx, path, orDefault(limit))
	if err != nil {
		logging.FromContext(ctx).Debug("read failed", logging.FieldPath, path, logging.FieldError, err)
		return FileOutcome{Path: path, Error: err}
	}
	return r.ProcessContent(ctx, path, content)
}

// ProcessContent processes an in-memory document, such as stdin.
func (r *Runner) ProcessContent(ctx context.Context, path string, content []byte) FileOutcome {
	res, err := r.Engine.Process(ctx, path, content)
	outcome := FileOutcome{Path: path, Result: res, Error: err}
	if errors.Is(err, engine.ErrReportFailed) {
		outcome.Rejected = true
	}
	if err != nil && !outcome.Rejected {
		outcome.Result = nil
	}
	return outcome
}

func orDefault(limit int64) int64 {
	if limit == 0 {
		return fsutil.DefaultMaxFileSize
	}
	return limit
}

// Package main is the entry point for the gonmc CLI.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/yaklabco/gonmc/internal/cli"
	"github.com/yaklabco/gonmc/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// ErrIssuesFound only selects the exit code.
		if !errors.Is(err, cli.ErrIssuesFound) {
			logging.Default().Error("command failed", logging.FieldError, err)
		}
		return cli.ExitCode(err)
	}

	return cli.ExitCode(nil)
}

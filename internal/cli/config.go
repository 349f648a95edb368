package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gonmc/internal/configloader"
	"github.com/yaklabco/gonmc/internal/logging"
	"github.com/yaklabco/gonmc/pkg/config"
	"github.com/yaklabco/gonmc/pkg/fsutil"
	"github.com/yaklabco/gonmc/pkg/validate"
)

// stdinArg selects standard input in place of a file path.
const stdinArg = "-"

// stdinName is the display path of a document read from standard input.
const stdinName = "<stdin>"

// commandContext returns the command context, never nil.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves the configuration for a command. cliCfg holds the
// values set by the command's flags.
func loadConfig(cmd *cobra.Command, globals *globalFlags, registry *validate.Registry, cliCfg *config.Config) (*config.Config, error) {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:          workDir,
		ExplicitPath:        globals.configPath,
		IgnoreSystemConfig:  globals.noConfig,
		IgnoreUserConfig:    globals.noConfig,
		IgnoreProjectConfig: globals.noConfig,
		Registry:            registry,
		CLIConfig:           cliCfg,
	})
	if err != nil {
		return nil, errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, result.LoadedFrom)
	}
	logger.Debug("configuration loaded",
		logging.FieldMode, result.Config.Mode,
		logging.FieldMaxDepth, result.Config.MaxDepth,
		logging.FieldJobs, result.Config.Jobs,
	)

	return result.Config, nil
}

// readInput reads one document named on the command line. "-" reads
// standard input.
func readInput(cmd *cobra.Command, arg string) (string, []byte, error) {
	ctx := commandContext(cmd)
	if arg == stdinArg {
		content, err := fsutil.ReadAll(ctx, cmd.InOrStdin(), fsutil.DefaultMaxFileSize)
		if err != nil {
			return "", nil, fmt.Errorf("read stdin: %w", err)
		}
		return stdinName, content, nil
	}

	content, _, err := fsutil.ReadFile(ctx, arg)
	if err != nil {
		return "", nil, err
	}
	return arg, content, nil
}

// stdinPiped reports whether r is a pipe or a redirected file rather than
// a terminal.
func stdinPiped(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	if term.IsTerminal(int(f.Fd())) {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeNamedPipe != 0 || info.Mode().IsRegular()
}

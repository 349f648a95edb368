package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gonmc/internal/logging"
	"github.com/yaklabco/gonmc/internal/ui/pretty"
	"github.com/yaklabco/gonmc/pkg/analysis"
	"github.com/yaklabco/gonmc/pkg/config"
	"github.com/yaklabco/gonmc/pkg/engine"
	"github.com/yaklabco/gonmc/pkg/reporter"
	"github.com/yaklabco/gonmc/pkg/runner"
	"github.com/yaklabco/gonmc/pkg/validate"
)

type checkFlags struct {
	format     string
	ruleFormat string
	ignore     []string
	enable     []string
	disable    []string
	noContext  bool
	compact    bool
	report     bool
	summary    bool
	sortBy     string
}

func newCheckCommand(globals *globalFlags) *cobra.Command {
	cfg := &config.Config{}
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check nomenic documents",
		Long:  checkLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, globals, cfg, flags)
		},
		Annotations: map[string]string{
			exitCodesAnnotation: "0=no errors; 1=errors, rejected or unreadable documents; " +
				"2=warnings with --strict; 65=invalid configuration",
		},
	}

	addCheckFlags(cmd, cfg, flags)

	return cmd
}

const checkLongDescription = `Check nomenic documents and report diagnostics.

By default, checks all .nmc files in the current directory and its
subdirectories. Specify paths to check specific files or directories, or
"-" to read a single document from standard input. Piped input is read
when no paths are given.

Examples:
  gonmc check                    # Check current directory
  gonmc check docs/              # Check docs directory
  gonmc check guide.nmc          # Check a single file
  cat guide.nmc | gonmc check -  # Check standard input
  gonmc check --report           # Stop each document at its first error
  gonmc check --format sarif     # Output SARIF for code scanning
  gonmc check --strict           # Fail on warnings`

func runCheck(cmd *cobra.Command, args []string, globals *globalFlags, cliCfg *config.Config, flags *checkFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	if cmd.Flags().Changed("format") {
		format, err := reporter.ParseFormat(flags.format)
		if err != nil {
			return fmt.Errorf("invalid format: %w", err)
		}
		cliCfg.Format = config.OutputFormat(format)
	}
	if cmd.Flags().Changed("rule-format") {
		cliCfg.RuleFormat = config.RuleFormat(flags.ruleFormat)
	}
	cliCfg.Ignore = flags.ignore
	cliCfg.EnableRules = flags.enable
	cliCfg.DisableRules = flags.disable
	if flags.report {
		cliCfg.Mode = config.ModeReport
	}
	sortBy, ok := analysis.ParseSortField(flags.sortBy)
	if !ok {
		return fmt.Errorf("invalid sort %q (valid: count, alpha, severity)", flags.sortBy)
	}

	registry := validate.NewDefaultRegistry()
	cfg, err := loadConfig(cmd, globals, registry, cliCfg)
	if err != nil {
		return err
	}

	eng, err := engine.FromConfig(cfg, registry)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	checkRunner := runner.New(eng)

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	var result *runner.Result
	if slices.Equal(args, []string{stdinArg}) || (len(args) == 0 && stdinPiped(cmd.InOrStdin())) {
		path, content, err := readInput(cmd, stdinArg)
		if err != nil {
			return err
		}
		result = runner.NewResult(checkRunner.ProcessContent(ctx, path, content))
	} else {
		runOpts := runner.OptionsFromConfig(cfg, args)
		runOpts.WorkingDir = workDir

		logger.Debug("starting check run",
			logging.FieldPaths, runOpts.Paths,
			logging.FieldWorkingDir, runOpts.WorkingDir,
			logging.FieldJobs, runOpts.Jobs,
		)

		result, err = checkRunner.Run(ctx, runOpts)
		if err != nil {
			return fmt.Errorf("check run failed: %w", err)
		}
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      reporter.Format(cfg.Format),
		Color:       globals.color,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		GroupByFile: true,
		Compact:     flags.compact,
		RuleFormat:  cfg.RuleFormat,
		Rules:       registry.Rules(),
		ToolVersion: cmd.Root().Version,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if flags.summary && cfg.Format == config.FormatText {
		breakdownOpts := analysis.Options{SortBy: sortBy, WorkingDir: workDir}
		if err := writeBreakdown(cmd, globals, result, cfg, registry, breakdownOpts); err != nil {
			return err
		}
	}

	return resultError(result, cfg.Strict)
}

func addCheckFlags(cmd *cobra.Command, cfg *config.Config, flags *checkFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, sarif")
	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "combined",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().BoolVar(&cfg.Strict, "strict", false, "treat warnings as failures for the exit code")
	cmd.Flags().BoolVar(&flags.report, "report", false, "stop each document at its first error")
	cmd.Flags().IntVar(&cfg.MaxDepth, "max-depth", 0, "maximum nesting depth (0 = default)")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rule IDs or names to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rule IDs or names to disable")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print issue breakdowns by source and by file (text format)")
	cmd.Flags().StringVar(&flags.sortBy, "sort", "count", "breakdown order: count, alpha, or severity")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON and SARIF output")
}

// writeBreakdown prints the per-source and per-file tables after the report.
func writeBreakdown(cmd *cobra.Command, globals *globalFlags, result *runner.Result, cfg *config.Config,
	registry *validate.Registry, opts analysis.Options) error {
	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(globals.color, out))
	label := func(ruleID string) string {
		rule, ok := registry.Get(ruleID)
		if !ok {
			return ruleID
		}
		return config.FormatRuleID(cfg.RuleFormat, rule.ID(), rule.Name())
	}

	text := styles.FormatSummary(result.Stats)
	if breakdown := styles.FormatBreakdown(analysis.Analyze(result, opts), label); breakdown != "" {
		text += "\n" + breakdown
	}
	if _, err := fmt.Fprint(out, text); err != nil {
		return fmt.Errorf("write breakdown: %w", err)
	}
	return nil
}

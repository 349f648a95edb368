package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gonmc/pkg/ast"
	"github.com/yaklabco/gonmc/pkg/config"
	"github.com/yaklabco/gonmc/pkg/engine"
	"github.com/yaklabco/gonmc/pkg/parser"
	"github.com/yaklabco/gonmc/pkg/validate"
)

type astFlags struct {
	format   string
	raw      bool
	noPos    bool
	report   bool
	maxDepth int
}

func newASTCommand(globals *globalFlags) *cobra.Command {
	flags := &astFlags{}

	cmd := &cobra.Command{
		Use:   "ast [path]",
		Short: "Print the syntax tree of a document",
		Long: `Print the syntax tree of one document as YAML or JSON.

The tree is normalized and optimized unless --raw is set. All diagnostics
are written to stderr. Use "-" to read standard input.

Examples:
  gonmc ast guide.nmc
  gonmc ast --format json --no-pos guide.nmc
  gonmc ast --raw guide.nmc`,
		Args: inspectArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAST(cmd, args, globals, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "yaml", "output format: yaml or json")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "print the parser output before normalization")
	cmd.Flags().BoolVar(&flags.noPos, "no-pos", false, "omit node positions")
	cmd.Flags().BoolVar(&flags.report, "report", false, "stop at the first error")
	cmd.Flags().IntVar(&flags.maxDepth, "max-depth", 0, "maximum nesting depth (0 = default)")

	return cmd
}

func runAST(cmd *cobra.Command, args []string, globals *globalFlags, flags *astFlags) error {
	if flags.format != "yaml" && flags.format != "json" {
		return fmt.Errorf("invalid format %q (valid: yaml, json)", flags.format)
	}

	cliCfg := &config.Config{MaxDepth: flags.maxDepth}
	if flags.report {
		cliCfg.Mode = config.ModeReport
	}

	registry := validate.NewDefaultRegistry()
	cfg, err := loadConfig(cmd, globals, registry, cliCfg)
	if err != nil {
		return err
	}

	mode, err := parser.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	eng := engine.New(engine.Options{
		Mode:     mode,
		MaxDepth: cfg.MaxDepth,
		Raw:      flags.raw,
	}, validate.New(registry, cfg))

	path, content, err := inspectInput(cmd, args)
	if err != nil {
		return err
	}

	result, procErr := eng.Process(commandContext(cmd), path, content)
	if procErr != nil && !errors.Is(procErr, engine.ErrReportFailed) {
		return procErr
	}

	if result.Root != nil {
		tree := ast.Dump(result.Root, !flags.noPos)
		out := cmd.OutOrStdout()
		if flags.format == "json" {
			if err := writeJSON(out, tree); err != nil {
				return err
			}
		} else {
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(tree); err != nil {
				return fmt.Errorf("encode YAML: %w", err)
			}
			if err := enc.Close(); err != nil {
				return fmt.Errorf("encode YAML: %w", err)
			}
		}
	}

	writeDiagnostics(cmd, globals, result.File, result.Diagnostics)
	if procErr != nil {
		return &issuesError{code: ExitErrors}
	}
	return diagnosticsError(result.Diagnostics)
}

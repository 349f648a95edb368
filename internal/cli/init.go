package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gonmc/internal/logging"
	"github.com/yaklabco/gonmc/pkg/config"
	"github.com/yaklabco/gonmc/pkg/fsutil"
	"github.com/yaklabco/gonmc/pkg/validate"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new gonmc configuration file",
		Long: `Create a new .gonmc.yml configuration file in the current directory
with sensible defaults. The file can be customized to enable or disable
rules, change severities, and configure other options.

Examples:
  gonmc init                      Create minimal .gonmc.yml
  gonmc init --full               Create full config with all rules documented
  gonmc init --format toml        Create .gonmc.toml instead
  gonmc init --output custom.yml  Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with all rules documented")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .gonmc.yml or .gonmc.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive(cmd.OutOrStdout())

	if flags.format != "yaml" && flags.format != "toml" {
		return fmt.Errorf("invalid format %q: must be yaml or toml", flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		if flags.format == "toml" {
			outputPath = ".gonmc.toml"
		} else {
			outputPath = ".gonmc.yml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
		Rules:  templateRules(validate.NewDefaultRegistry()),
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	err = fsutil.WriteAtomic(commandContext(cmd), absPath, content, fsutil.WriteOptions{Overwrite: flags.force})
	if errors.Is(err, fsutil.ErrExists) {
		return fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)
	}
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	if flags.full {
		logger.Info("full template includes all rules with documentation")
	}
	logger.Info("run 'gonmc rules' to see all available rules")

	return nil
}

func templateRules(registry *validate.Registry) []config.RuleInfo {
	rules := registry.Rules()
	infos := make([]config.RuleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, config.RuleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Enabled:     rule.DefaultEnabled(),
			Severity:    config.Severity(rule.DefaultSeverity().String()),
		})
	}
	return infos
}

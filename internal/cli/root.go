// Package cli provides the Cobra command structure for gonmc.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gonmc/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	debug      bool
	configPath string
	noConfig   bool
	color      string
}

// NewRootCommand creates the root gonmc command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	globals := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "gonmc",
		Short: "Parse and validate nomenic documents",
		Long: `gonmc parses nomenic documents, an indentation-structured plain text
format built from keyword lines such as "header:", "list:" and "code:".

Each document goes through the lexer, the parser, the normalizer, the
optimizer and the validator. Every problem found on the way is reported as
a diagnostic with its position, category and severity. In record mode all
diagnostics are collected; in report mode processing stops at the first
error.`,
		Version: info.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if globals.debug {
				logging.SetLevel("debug")
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logging.Default()))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&globals.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&globals.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&globals.noConfig, "no-config", false,
		"skip system, user and project config files")
	rootCmd.PersistentFlags().StringVar(&globals.color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newCheckCommand(globals))
	rootCmd.AddCommand(newTokensCommand(globals))
	rootCmd.AddCommand(newASTCommand(globals))
	rootCmd.AddCommand(newRulesCommand(globals))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(globals.color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

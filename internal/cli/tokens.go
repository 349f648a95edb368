package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gonmc/internal/ui/pretty"
	"github.com/yaklabco/gonmc/pkg/lexer"
	"github.com/yaklabco/gonmc/pkg/source"
	"github.com/yaklabco/gonmc/pkg/token"
)

func newTokensCommand(globals *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tokens [path]",
		Short: "Print the token stream of a document",
		Long: `Print the token stream produced by the lexer for one document.

Lexer diagnostics are written to stderr. Use "-" to read standard input.

Examples:
  gonmc tokens guide.nmc
  gonmc tokens --format json guide.nmc
  echo "header: Title" | gonmc tokens`,
		Args: inspectArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args, globals, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")

	return cmd
}

func runTokens(cmd *cobra.Command, args []string, globals *globalFlags, format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q (valid: text, json)", format)
	}

	path, content, err := inspectInput(cmd, args)
	if err != nil {
		return err
	}

	tokens, diags := lexer.New(token.DefaultKeywords()).Tokenize(string(content))

	out := cmd.OutOrStdout()
	if format == "json" {
		if err := writeJSON(out, tokens); err != nil {
			return err
		}
	} else {
		styles := pretty.NewStyles(pretty.IsColorEnabled(globals.color, out))
		fmt.Fprint(out, styles.FormatTokens(tokens))
	}

	writeDiagnostics(cmd, globals, source.NewFile(path, content), diags)
	return diagnosticsError(diags)
}

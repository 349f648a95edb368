package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gonmc/internal/ui/pretty"
	"github.com/yaklabco/gonmc/pkg/diag"
	"github.com/yaklabco/gonmc/pkg/source"
)

// inspectArgs accepts one path, or none when input is piped.
func inspectArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("accepts at most 1 arg, received %d", len(args))
	}
	if len(args) == 0 && !stdinPiped(cmd.InOrStdin()) {
		return fmt.Errorf("requires a file path or %q for standard input", stdinArg)
	}
	return nil
}

func inspectInput(cmd *cobra.Command, args []string) (string, []byte, error) {
	if len(args) == 0 {
		return readInput(cmd, stdinArg)
	}
	return readInput(cmd, args[0])
}

// writeDiagnostics prints diagnostics to stderr with source context.
func writeDiagnostics(cmd *cobra.Command, globals *globalFlags, file *source.File, diags diag.List) {
	if len(diags) == 0 {
		return
	}
	w := cmd.ErrOrStderr()
	styles := pretty.NewStyles(pretty.IsColorEnabled(globals.color, w))
	for _, d := range diags {
		view := pretty.DiagnosticView{Path: file.Path, Diagnostic: d}
		if line := file.LineContent(d.Line); line != nil {
			view.SourceLine = string(line)
		}
		fmt.Fprintln(w, styles.FormatDiagnostic(view))
	}
}

// diagnosticsError turns error diagnostics into a non-zero exit.
func diagnosticsError(diags diag.List) error {
	if diags.HasErrors() {
		return &issuesError{code: ExitErrors}
	}
	return nil
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

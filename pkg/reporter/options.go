package reporter

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/gonmc/pkg/config"
	"github.com/yaklabco/gonmc/pkg/validate"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// ErrorWriter is the destination for errors (typically os.Stderr).
	ErrorWriter io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ShowContext includes source line context in diagnostics.
	ShowContext bool

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// GroupByFile groups diagnostics by file (default: true for text format).
	GroupByFile bool

	// Compact uses compact/minified output where applicable.
	Compact bool

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat config.RuleFormat

	// Rules lists the validation rules of the run. It supplies rule names
	// for labels and the SARIF rule table.
	Rules []validate.Rule

	// ToolVersion is reported as the SARIF driver version.
	ToolVersion string

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Format:      FormatText,
		Color:       "auto",
		ShowContext: true,
		ShowSummary: true,
		GroupByFile: true,
		RuleFormat:  config.RuleFormatCombined,
		ToolVersion: "dev",
	}
}

// ruleLabel formats the rule that produced a diagnostic.
func (o Options) ruleLabel(ruleID string) string {
	if ruleID == "" {
		return ""
	}
	return config.FormatRuleID(o.RuleFormat, ruleID, o.ruleName(ruleID))
}

func (o Options) ruleName(ruleID string) string {
	for _, rule := range o.Rules {
		if rule.ID() == ruleID {
			return rule.Name()
		}
	}
	return ""
}

// displayPath makes path relative to WorkingDir when possible.
func (o Options) displayPath(path string) string {
	if o.WorkingDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(o.WorkingDir, path)
	if err != nil || filepath.IsAbs(rel) || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gonmc/pkg/diag"
)

// DiagnosticView is a diagnostic plus the context needed to print it.
type DiagnosticView struct {
	Path       string
	Diagnostic diag.Diagnostic

	// RuleLabel is the formatted rule identifier, empty for lexer and
	// parser diagnostics.
	RuleLabel string

	// SourceLine is the offending line, printed with a caret when set.
	SourceLine string
}

// FormatDiagnostic formats a single diagnostic for terminal output:
//
//	path:line:col  severity  message  [category] (rule) recovered
func (s *Styles) FormatDiagnostic(v DiagnosticView) string {
	var builder strings.Builder
	d := v.Diagnostic

	location := s.FilePath.Render(v.Path) + s.Location.Render(fmt.Sprintf(":%d:%d", d.Line, d.Column))

	builder.WriteString("  ")
	builder.WriteString(location)
	builder.WriteString("  ")
	builder.WriteString(s.FormatSeverity(d.Severity))
	builder.WriteString("  ")
	builder.WriteString(s.Message.Render(d.Message))
	builder.WriteString("  ")
	builder.WriteString(s.Category.Render("[" + string(d.Category) + "]"))
	if v.RuleLabel != "" {
		builder.WriteString(" ")
		builder.WriteString(s.RuleID.Render("(" + v.RuleLabel + ")"))
	}
	if d.Recovered {
		builder.WriteString(" ")
		builder.WriteString(s.Recovered.Render("recovered"))
	}
	builder.WriteString("\n")

	if v.SourceLine != "" {
		builder.WriteString(s.FormatSourceContext(v.SourceLine, d.Column))
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev diag.Severity) string {
	switch sev {
	case diag.SeverityError:
		return s.Error.Render("error")
	case diag.SeverityWarning:
		return s.Warning.Render("warning")
	default:
		return sev.String()
	}
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	const indent = "        "

	var builder strings.Builder
	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")
	if column > 0 {
		builder.WriteString(indent + strings.Repeat(" ", column-1) + s.Caret.Render("^") + "\n")
	}
	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case issueCount == 1:
		header += s.Dim.Render(" (1 issue)")
	case issueCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}

package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gonmc/pkg/diag"
	"github.com/yaklabco/gonmc/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "5 issues (3 errors, 2 warnings) in 2 files, 1 rejected".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.DiagnosticsTotal == 0 && stats.FilesErrored == 0 {
		return s.Success.Render("No issues found") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))) +
			"\n"
	}

	var parts []string

	var severityParts []string
	if n := stats.DiagnosticsBySeverity[diag.SeverityError.String()]; n > 0 {
		severityParts = append(severityParts, s.Error.Render(fmt.Sprintf("%d %s", n, plural(n, "error", "errors"))))
	}
	if n := stats.DiagnosticsBySeverity[diag.SeverityWarning.String()]; n > 0 {
		severityParts = append(severityParts, s.Warning.Render(fmt.Sprintf("%d %s", n, plural(n, "warning", "warnings"))))
	}

	head := fmt.Sprintf("%d %s", stats.DiagnosticsTotal, plural(stats.DiagnosticsTotal, "issue", "issues"))
	if len(severityParts) > 0 {
		head += " (" + strings.Join(severityParts, ", ") + ")"
	}
	parts = append(parts, head+fmt.Sprintf(" in %d %s", stats.FilesWithIssues, plural(stats.FilesWithIssues, wordFile, wordFiles)))

	if stats.FilesRejected > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d rejected", stats.FilesRejected)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d unreadable", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block with a
// breakdown by diagnostic class.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, value string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label+":", value))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files checked", s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)))
	if stats.FilesWithIssues > 0 {
		row("Files with issues", s.Failure.Render(strconv.Itoa(stats.FilesWithIssues)))
	}
	if stats.FilesRejected > 0 {
		row("Files rejected", s.Failure.Render(strconv.Itoa(stats.FilesRejected)))
	}
	builder.WriteString("\n")

	row("Total issues", s.SummaryValue.Render(strconv.Itoa(stats.DiagnosticsTotal)))
	for _, class := range []diag.Class{diag.ClassLexical, diag.ClassSyntactic, diag.ClassValidation, diag.ClassLimit} {
		if n := stats.DiagnosticsByClass[class]; n > 0 {
			row("  "+class.String(), s.SummaryValue.Render(strconv.Itoa(n)))
		}
	}
	builder.WriteString("\n")

	switch {
	case stats.DiagnosticsBySeverity[diag.SeverityError.String()] > 0 || stats.FilesRejected > 0:
		builder.WriteString(s.Failure.Render("Check failed with errors"))
	case stats.DiagnosticsBySeverity[diag.SeverityWarning.String()] > 0:
		builder.WriteString(s.Warning.Render("Check completed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Check passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}

package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gonmc/pkg/analysis"
)

// FormatBreakdown renders the per-source and per-file tables of a report.
// label formats rule IDs; category keys are printed as they are.
func (s *Styles) FormatBreakdown(report *analysis.Report, label func(ruleID string) string) string {
	if report == nil || !report.Totals.HasIssues() {
		return ""
	}

	var builder strings.Builder

	builder.WriteString(s.SummaryTitle.Render("By source"))
	builder.WriteString("\n")
	sources := NewTable(s, "SOURCE", "CLASS", "ISSUES", "ERRORS", "WARNINGS", "FILES")
	for _, src := range report.BySource {
		key := src.Key
		if src.Rule && label != nil {
			key = label(key)
		}
		sources.AddRow(
			Cell{Text: key, Style: s.RuleID},
			Cell{Text: src.Class.String(), Style: s.Category},
			Cell{Text: fmt.Sprint(src.Issues), Style: s.SummaryValue},
			Cell{Text: fmt.Sprint(src.Errors), Style: s.Error},
			Cell{Text: fmt.Sprint(src.Warnings), Style: s.Warning},
			Cell{Text: fmt.Sprint(len(src.Files)), Style: s.Dim},
		)
	}
	builder.WriteString(sources.String())

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("By file"))
	builder.WriteString("\n")
	files := NewTable(s, "FILE", "ISSUES", "ERRORS", "WARNINGS", "STATUS")
	for _, file := range report.ByFile {
		status := Cell{Text: "checked", Style: s.Dim}
		if file.Rejected {
			status = Cell{Text: "rejected", Style: s.Failure}
		}
		files.AddRow(
			Cell{Text: file.Path, Style: s.FilePath},
			Cell{Text: fmt.Sprint(file.Issues), Style: s.SummaryValue},
			Cell{Text: fmt.Sprint(file.Errors), Style: s.Error},
			Cell{Text: fmt.Sprint(file.Warnings), Style: s.Warning},
			status,
		)
	}
	builder.WriteString(files.String())

	return builder.String()
}

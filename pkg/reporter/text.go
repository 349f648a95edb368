package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gonmc/internal/ui/pretty"
	"github.com/yaklabco/gonmc/pkg/diag"
	"github.com/yaklabco/gonmc/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		total += r.reportFile(file)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

func (r *TextReporter) reportFile(file runner.FileOutcome) int {
	path := r.opts.displayPath(file.Path)

	if file.Error != nil && file.Result == nil {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
		)
		return 0
	}

	diagnostics := file.Diagnostics()
	if len(diagnostics) == 0 {
		return 0
	}

	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(diagnostics)))
	}

	for _, d := range diagnostics {
		fmt.Fprint(r.bw, r.styles.FormatDiagnostic(r.view(path, file, d)))
	}

	if file.Rejected {
		fmt.Fprintf(r.bw, "  %s\n", r.styles.Failure.Render("rejected: processing stopped at the first error"))
	}

	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw)
	}

	return len(diagnostics)
}

func (r *TextReporter) view(path string, file runner.FileOutcome, d diag.Diagnostic) pretty.DiagnosticView {
	v := pretty.DiagnosticView{
		Path:       path,
		Diagnostic: d,
		RuleLabel:  r.opts.ruleLabel(d.Rule),
	}
	if r.opts.ShowContext && file.Result != nil {
		v.SourceLine = string(file.Result.File.LineContent(d.Line))
	}
	return v
}

package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gonmc/pkg/runner"
)

// jsonOutputVersion is bumped when a field is removed or changes meaning.
const jsonOutputVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string           `json:"path"`
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
	Rejected    bool             `json:"rejected,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// JSONDiagnostic represents a single diagnostic.
type JSONDiagnostic struct {
	Severity  string `json:"severity"`
	Category  string `json:"category"`
	Class     string `json:"class"`
	Message   string `json:"message"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Recovered bool   `json:"recovered"`
	Rule      string `json:"rule,omitempty"`
	RuleName  string `json:"ruleName,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked    int            `json:"filesChecked"`
	FilesWithIssues int            `json:"filesWithIssues"`
	FilesRejected   int            `json:"filesRejected"`
	FilesErrored    int            `json:"filesErrored"`
	TotalIssues     int            `json:"totalIssues"`
	BySeverity      map[string]int `json:"bySeverity"`
	ByClass         map[string]int `json:"byClass"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalIssues, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonOutputVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			BySeverity: make(map[string]int),
			ByClass:    make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:        r.opts.displayPath(file.Path),
			Diagnostics: make([]JSONDiagnostic, 0, len(file.Diagnostics())),
			Rejected:    file.Rejected,
		}
		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}

		for _, d := range file.Diagnostics() {
			fileResult.Diagnostics = append(fileResult.Diagnostics, JSONDiagnostic{
				Severity:  d.Severity.String(),
				Category:  string(d.Category),
				Class:     d.Category.Class().String(),
				Message:   d.Message,
				Line:      d.Line,
				Column:    d.Column,
				Recovered: d.Recovered,
				Rule:      d.Rule,
				RuleName:  r.opts.ruleName(d.Rule),
			})
			output.Summary.BySeverity[d.Severity.String()]++
			output.Summary.ByClass[d.Category.Class().String()]++
		}

		output.Files = append(output.Files, fileResult)
	}

	output.Summary.FilesChecked = result.Stats.FilesProcessed
	output.Summary.FilesWithIssues = result.Stats.FilesWithIssues
	output.Summary.FilesRejected = result.Stats.FilesRejected
	output.Summary.FilesErrored = result.Stats.FilesErrored
	output.Summary.TotalIssues = result.Stats.DiagnosticsTotal

	return output
}

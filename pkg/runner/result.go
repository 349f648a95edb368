package runner

import (
	"github.com/yaklabco/gonmc/pkg/diag"
	"github.com/yaklabco/gonmc/pkg/engine"
)

// FileOutcome is the result of processing one document.
type FileOutcome struct {
	// Path is the document path.
	Path string

	// Result holds the engine output. It is nil when Error is an I/O
	// failure.
	Result *engine.Result

	// Rejected is true when a report-mode run stopped at an error.
	Rejected bool

	// Error is set if the document could not be processed.
	Error error
}

// Diagnostics returns the outcome's diagnostics, or nil.
func (o FileOutcome) Diagnostics() diag.List {
	if o.Result == nil {
		return nil
	}
	return o.Result.Diagnostics
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files that went through the engine.
	FilesProcessed int

	// FilesRejected is the number of report-mode failures.
	FilesRejected int

	// FilesErrored is the number of files that could not be read.
	FilesErrored int

	// FilesWithIssues is the number of files with at least one diagnostic.
	FilesWithIssues int

	// DiagnosticsTotal is the total number of diagnostics across all files.
	DiagnosticsTotal int

	// DiagnosticsBySeverity maps severity names to counts.
	DiagnosticsBySeverity map[string]int

	// DiagnosticsByClass maps diagnostic classes to counts.
	DiagnosticsByClass map[diag.Class]int
}

// Result is the overall runner result.
type Result struct {
	// Files holds one outcome per document, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// NewResult aggregates outcomes in the order given.
func NewResult(outcomes ...FileOutcome) *Result {
	r := &Result{
		Files: make([]FileOutcome, 0, len(outcomes)),
		Stats: newStats(),
	}
	for _, o := range outcomes {
		r.accumulate(o)
	}
	r.Stats.FilesDiscovered = len(outcomes)
	return r
}

// HasFailures reports whether any error diagnostic, rejection or file
// error occurred.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsBySeverity[diag.SeverityError.String()] > 0 ||
		r.Stats.FilesRejected > 0 ||
		r.Stats.FilesErrored > 0
}

// HasWarnings reports whether any warning diagnostic occurred.
func (r *Result) HasWarnings() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsBySeverity[diag.SeverityWarning.String()] > 0
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsTotal > 0
}

func newStats() Stats {
	return Stats{
		DiagnosticsBySeverity: make(map[string]int),
		DiagnosticsByClass:    make(map[diag.Class]int),
	}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil && outcome.Result == nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	r.Stats.FilesProcessed++
	if outcome.Rejected {
		r.Stats.FilesRejected++
	}

	diags := outcome.Result.Diagnostics
	r.Stats.DiagnosticsTotal += len(diags)
	if len(diags) > 0 {
		r.Stats.FilesWithIssues++
	}
	for _, d := range diags {
		r.Stats.DiagnosticsBySeverity[d.Severity.String()]++
		r.Stats.DiagnosticsByClass[d.Category.Class()]++
	}
}

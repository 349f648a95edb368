package analysis

import "github.com/yaklabco/gonmc/pkg/diag"

// Report is a breakdown of a check run's diagnostics.
type Report struct {
	// ByFile holds one row per file with at least one diagnostic.
	ByFile []FileAnalysis `json:"byFile"`

	// BySource holds one row per rule, or per category for lexer and
	// parser diagnostics.
	BySource []SourceAnalysis `json:"bySource"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files           int `json:"filesChecked"`
	FilesWithIssues int `json:"filesWithIssues"`
	Issues          int `json:"totalIssues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Recovered       int `json:"recovered"`
}

// HasIssues returns true if there are any issues.
func (t Totals) HasIssues() bool {
	return t.Issues > 0
}

// HasErrors returns true if there are any errors.
func (t Totals) HasErrors() bool {
	return t.Errors > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Path     string   `json:"path"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Rejected bool     `json:"rejected,omitempty"`
	Sources  []string `json:"sources,omitempty"`
}

// SourceAnalysis contains aggregated data for one diagnostic source.
type SourceAnalysis struct {
	// Key is the rule ID, or the category when no rule reported it.
	Key      string     `json:"key"`
	Rule     bool       `json:"rule"`
	Class    diag.Class `json:"-"`
	Issues   int        `json:"issues"`
	Errors   int        `json:"errors"`
	Warnings int        `json:"warnings"`
	Files    []string   `json:"files,omitempty"`
}

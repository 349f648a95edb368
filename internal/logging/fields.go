// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"

	// Pipeline fields.
	FieldMode     = "mode"
	FieldMaxDepth = "max_depth"
	FieldStage    = "stage"
	FieldTokens   = "tokens"
	FieldNodes    = "nodes"
	FieldJobs     = "jobs"
	FieldDiags    = "diagnostics"
	FieldElapsed  = "elapsed"

	// Statistics fields.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesWithIssues  = "files_with_issues"
	FieldDiagnosticsTotal = "diagnostics_total"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Rule fields.
	FieldName     = "name"
	FieldSeverity = "severity"
	FieldCategory = "category"
	FieldEnabled  = "enabled"
)

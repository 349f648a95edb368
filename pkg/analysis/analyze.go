// Package analysis aggregates check results into per-file and per-source
// breakdowns.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/gonmc/pkg/diag"
	"github.com/yaklabco/gonmc/pkg/runner"
)

// relativePath converts path to one relative to workDir. Paths outside
// workDir are returned unchanged.
func relativePath(path, workDir string) string {
	if workDir == "" {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	sources     map[string]*SourceAnalysis
	sourceFiles map[string]map[string]bool
	fileSources map[string]map[string]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		sources:     make(map[string]*SourceAnalysis),
		sourceFiles: make(map[string]map[string]bool),
		fileSources: make(map[string]map[string]bool),
	}
}

// sourceKey names where a diagnostic came from.
func sourceKey(d diag.Diagnostic) string {
	if d.Rule != "" {
		return d.Rule
	}
	return string(d.Category)
}

func (ctx *analysisContext) source(d diag.Diagnostic) *SourceAnalysis {
	key := sourceKey(d)
	if _, ok := ctx.sources[key]; !ok {
		ctx.sources[key] = &SourceAnalysis{Key: key, Rule: d.Rule != "", Class: d.Category.Class()}
		ctx.sourceFiles[key] = make(map[string]bool)
	}
	return ctx.sources[key]
}

// Analyze computes the breakdown of result in a single pass.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{}
	if result == nil {
		return report
	}

	ctx := newAnalysisContext()
	var files []FileAnalysis

	for _, file := range result.Files {
		report.Totals.Files++
		diags := file.Diagnostics()
		if len(diags) == 0 {
			continue
		}
		report.Totals.FilesWithIssues++

		path := relativePath(file.Path, opts.WorkingDir)
		fa := FileAnalysis{Path: path, Rejected: file.Rejected}
		ctx.fileSources[path] = make(map[string]bool)

		for _, d := range diags {
			report.Totals.Issues++
			fa.Issues++
			if d.Recovered {
				report.Totals.Recovered++
			}

			sa := ctx.source(d)
			sa.Issues++
			if d.IsError() {
				report.Totals.Errors++
				fa.Errors++
				sa.Errors++
			} else {
				report.Totals.Warnings++
				fa.Warnings++
				sa.Warnings++
			}

			ctx.fileSources[path][sa.Key] = true
			ctx.sourceFiles[sa.Key][path] = true
		}

		for key := range ctx.fileSources[path] {
			fa.Sources = append(fa.Sources, key)
		}
		slices.Sort(fa.Sources)
		files = append(files, fa)
	}

	report.ByFile = files
	report.BySource = make([]SourceAnalysis, 0, len(ctx.sources))
	for key, sa := range ctx.sources {
		for path := range ctx.sourceFiles[key] {
			sa.Files = append(sa.Files, path)
		}
		slices.Sort(sa.Files)
		report.BySource = append(report.BySource, *sa)
	}

	sortFiles(report.ByFile, opts.SortBy)
	sortSources(report.BySource, opts.SortBy)

	return report
}

// compareCounts orders rows for the count and severity sorts, highest
// first. Ties fall back to the row key.
func compareCounts(sortBy SortField, left, right [3]int) int {
	if sortBy == SortBySeverity {
		if c := cmp.Compare(right[1], left[1]); c != 0 {
			return c
		}
		if c := cmp.Compare(right[2], left[2]); c != 0 {
			return c
		}
	}
	return cmp.Compare(right[0], left[0])
}

func sortFiles(files []FileAnalysis, sortBy SortField) {
	slices.SortFunc(files, func(left, right FileAnalysis) int {
		if sortBy != SortByAlpha {
			c := compareCounts(sortBy,
				[3]int{left.Issues, left.Errors, left.Warnings},
				[3]int{right.Issues, right.Errors, right.Warnings})
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(left.Path, right.Path)
	})
}

func sortSources(sources []SourceAnalysis, sortBy SortField) {
	slices.SortFunc(sources, func(left, right SourceAnalysis) int {
		if sortBy != SortByAlpha {
			c := compareCounts(sortBy,
				[3]int{left.Issues, left.Errors, left.Warnings},
				[3]int{right.Issues, right.Errors, right.Warnings})
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(left.Key, right.Key)
	})
}

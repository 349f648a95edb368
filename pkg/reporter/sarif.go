package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/yaklabco/gonmc/pkg/diag"
	"github.com/yaklabco/gonmc/pkg/runner"
)

// SARIF version used by this reporter.
const sarifVersion = "2.1.0"

// SARIF schema URI.
const sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

const sarifToolName = "gonmc"

// SARIFOutput represents the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver contains tool metadata and rules.
type SARIFDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []SARIFRule `json:"rules"`
}

// SARIFRule describes a rule. Lexer and parser diagnostics are described
// by their category.
type SARIFRule struct {
	ID               string               `json:"id"`
	Name             string               `json:"name,omitempty"`
	ShortDescription SARIFMultiformatText `json:"shortDescription"`
	DefaultConfig    *SARIFRuleConfig     `json:"defaultConfiguration,omitempty"`
	Properties       map[string]any       `json:"properties,omitempty"`
}

// SARIFMultiformatText contains text in multiple formats.
type SARIFMultiformatText struct {
	Text string `json:"text"`
}

// SARIFRuleConfig contains rule configuration.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFResult represents a single diagnostic result.
type SARIFResult struct {
	RuleID     string          `json:"ruleId"`
	Level      string          `json:"level"`
	Message    SARIFMessage    `json:"message"`
	Locations  []SARIFLocation `json:"locations"`
	Properties map[string]any  `json:"properties,omitempty"`
}

// SARIFMessage contains the result message.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation contains file path and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           SARIFRegion           `json:"region"`
}

// SARIFArtifactLocation contains the file URI.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion describes the affected text region.
type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

// SARIFReporter formats results as SARIF.
type SARIFReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(opts Options) *SARIFReporter {
	return &SARIFReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
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
		return 0, fmt.Errorf("encode SARIF: %w", err)
	}

	return len(output.Runs[0].Results), nil
}

func (r *SARIFReporter) buildOutput(result *runner.Result) *SARIFOutput {
	version := r.opts.ToolVersion
	if version == "" {
		version = "dev"
	}

	run := SARIFRun{
		Tool: SARIFTool{
			Driver: SARIFDriver{
				Name:    sarifToolName,
				Version: version,
				Rules:   make([]SARIFRule, 0, len(r.opts.Rules)),
			},
		},
		Results: make([]SARIFResult, 0),
	}

	seen := make(map[string]bool)
	for _, rule := range r.opts.Rules {
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, SARIFRule{
			ID:               rule.ID(),
			Name:             rule.Name(),
			ShortDescription: SARIFMultiformatText{Text: rule.Description()},
			DefaultConfig:    &SARIFRuleConfig{Level: severityToSARIFLevel(rule.DefaultSeverity())},
			Properties:       map[string]any{"category": string(rule.Category())},
		})
		seen[rule.ID()] = true
	}

	if result != nil {
		for _, file := range result.Files {
			uri := r.opts.displayPath(file.Path)
			for _, d := range file.Diagnostics() {
				ruleID := sarifRuleID(d)
				if !seen[ruleID] {
					run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, SARIFRule{
						ID:               ruleID,
						ShortDescription: SARIFMultiformatText{Text: d.Category.Class().String() + " error: " + string(d.Category)},
						Properties:       map[string]any{"category": string(d.Category)},
					})
					seen[ruleID] = true
				}

				run.Results = append(run.Results, SARIFResult{
					RuleID:  ruleID,
					Level:   severityToSARIFLevel(d.Severity),
					Message: SARIFMessage{Text: d.Message},
					Locations: []SARIFLocation{{
						PhysicalLocation: SARIFPhysicalLocation{
							ArtifactLocation: SARIFArtifactLocation{URI: uri},
							Region:           SARIFRegion{StartLine: max(d.Line, 1), StartColumn: d.Column},
						},
					}},
					Properties: map[string]any{"recovered": d.Recovered},
				})
			}
		}
	}

	slices.SortStableFunc(run.Tool.Driver.Rules, func(a, b SARIFRule) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	return &SARIFOutput{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs:    []SARIFRun{run},
	}
}

// sarifRuleID returns the validation rule ID, or the category for lexer
// and parser diagnostics.
func sarifRuleID(d diag.Diagnostic) string {
	if d.Rule != "" {
		return d.Rule
	}
	return string(d.Category)
}

// severityToSARIFLevel converts a diagnostic severity to a SARIF level.
func severityToSARIFLevel(severity diag.Severity) string {
	switch severity {
	case diag.SeverityError:
		return "error"
	case diag.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

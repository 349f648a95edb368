// Package config defines core configuration types for gonmc.
// These types are pure data structures; discovery and merging live in
// internal/configloader.
package config

import "github.com/yaklabco/gonmc/pkg/diag"

// Severity is the configured severity of a validation rule.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diag converts the severity to a diagnostic severity. Unknown values map to
// warning and report false.
func (s Severity) Diag() (diag.Severity, bool) {
	return diag.ParseSeverity(string(s))
}

// RuleConfig holds per-rule configuration options.
type RuleConfig struct {
	Enabled  *bool          `mapstructure:"enabled"  yaml:"enabled,omitempty"  toml:"enabled"`
	Severity *string        `mapstructure:"severity" yaml:"severity,omitempty" toml:"severity"`
	Options  map[string]any `mapstructure:"options"  yaml:"options,omitempty"  toml:"options,omitempty"`
}

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatSARIF OutputFormat = "sarif"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSARIF:
		return true
	default:
		return false
	}
}

// RuleFormat controls how rule identifiers appear in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // "meta-version"
	RuleFormatID       RuleFormat = "id"       // "NMC001"
	RuleFormatCombined RuleFormat = "combined" // "NMC001/meta-version"
)

// Parse modes accepted in Mode.
const (
	ModeRecord = "record"
	ModeReport = "report"
)

// DefaultExtension is the document file extension.
const DefaultExtension = ".nmc"

// Config is the root configuration structure for gonmc.
type Config struct {
	// Mode is the parse mode: "record" or "report".
	Mode string `mapstructure:"mode" yaml:"mode" toml:"mode"`

	// MaxDepth bounds block and inline nesting. Zero uses the parser default.
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth,omitempty" toml:"max_depth,omitempty"`

	// SeverityDefault is the severity for rules that don't specify one.
	SeverityDefault string `mapstructure:"severity_default" yaml:"severity_default,omitempty" toml:"severity_default,omitempty"`

	// Rules contains per-rule configuration keyed by rule ID or name.
	Rules map[string]RuleConfig `mapstructure:"rules" yaml:"rules,omitempty" toml:"rules,omitempty"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `mapstructure:"ignore" yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// Extensions lists the file extensions picked up when walking directories.
	Extensions []string `mapstructure:"extensions" yaml:"extensions,omitempty" toml:"extensions,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-" toml:"-"`

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat RuleFormat `mapstructure:"-" yaml:"-" toml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-" toml:"-"`

	// EnableRules contains rule IDs to explicitly enable.
	EnableRules []string `mapstructure:"-" yaml:"-" toml:"-"`

	// DisableRules contains rule IDs to explicitly disable.
	DisableRules []string `mapstructure:"-" yaml:"-" toml:"-"`

	// Strict makes warnings fail the run.
	Strict bool `mapstructure:"-" yaml:"-" toml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Mode:       ModeRecord,
		Rules:      make(map[string]RuleConfig),
		Extensions: []string{DefaultExtension},
		Format:     FormatText,
		RuleFormat: RuleFormatCombined,
		Jobs:       0, // 0 means use GOMAXPROCS
	}
}

package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/gonmc/pkg/config"
	"github.com/yaklabco/gonmc/pkg/diag"
	"github.com/yaklabco/gonmc/pkg/validate"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "rules.NMC001.severity").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown rules).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) errorf(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warnf(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings. Rule keys are
// checked against registry; a nil registry means the built-in rules.
func Validate(cfg *config.Config, registry *validate.Registry) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}
	if registry == nil {
		registry = validate.NewDefaultRegistry()
	}

	switch cfg.Mode {
	case "", config.ModeRecord, config.ModeReport:
	default:
		result.errorf("mode", cfg.Mode, "invalid mode %q; must be one of: record, report", cfg.Mode)
	}

	if cfg.MaxDepth < 0 {
		result.errorf("max_depth", cfg.MaxDepth, "max_depth must be >= 0 (0 means default)")
	}

	if cfg.SeverityDefault != "" && !IsValidSeverity(cfg.SeverityDefault) {
		result.errorf("severity_default", cfg.SeverityDefault,
			"invalid severity %q; must be one of: error, warning", cfg.SeverityDefault)
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.errorf("format", cfg.Format, "invalid format %q; must be one of: text, json, sarif", cfg.Format)
	}

	switch cfg.RuleFormat {
	case "", config.RuleFormatName, config.RuleFormatID, config.RuleFormatCombined:
	default:
		result.errorf("rule_format", cfg.RuleFormat,
			"invalid rule format %q; must be one of: name, id, combined", cfg.RuleFormat)
	}

	if cfg.Jobs < 0 {
		result.errorf("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			result.errorf(fmt.Sprintf("extensions[%d]", i), ext, "extension %q must start with a dot", ext)
		}
	}

	validateRules(cfg, registry, result)
	validateIgnorePatterns(cfg, result)

	return result
}

// validateRules checks rule configurations and the CLI enable/disable lists.
func validateRules(cfg *config.Config, registry *validate.Registry, result *ValidationResult) {
	for key, ruleCfg := range cfg.Rules {
		if _, exists := registry.Get(key); !exists {
			result.warnf("rules."+key, key, "unknown rule %q; it will be ignored", key)
		}
		if ruleCfg.Severity != nil && !IsValidSeverity(*ruleCfg.Severity) {
			result.errorf("rules."+key+".severity", *ruleCfg.Severity,
				"invalid severity %q; must be one of: error, warning", *ruleCfg.Severity)
		}
	}

	for _, key := range cfg.EnableRules {
		if _, exists := registry.Get(key); !exists {
			result.warnf("enable", key, "unknown rule %q", key)
		}
	}
	for _, key := range cfg.DisableRules {
		if _, exists := registry.Get(key); !exists {
			result.warnf("disable", key, "unknown rule %q", key)
		}
	}
}

// validateIgnorePatterns checks that ignore patterns compile.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(filepath.ToSlash(pattern), '/'); err != nil {
			result.errorf(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, registry *validate.Registry, filePath string) *ValidationResult {
	result := Validate(cfg, registry)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}

// IsValidSeverity returns true if the severity string is valid.
func IsValidSeverity(s string) bool {
	_, ok := diag.ParseSeverity(s)
	return ok
}

// Package validate checks semantic constraints on normalized document trees.
//
// Each constraint is a Rule held in a Registry. A Validator resolves the rules
// against configuration once and can then validate any number of trees. The
// validator never modifies the tree.
package validate

import (
	"github.com/yaklabco/gonmc/pkg/diag"
)

// Rule defines the interface that all validation rules must implement.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "NMC001").
	ID() string

	// Name returns the human-readable name of the rule.
	Name() string

	// Description returns a detailed description of what the rule checks.
	Description() string

	// DefaultEnabled returns whether the rule is enabled by default.
	DefaultEnabled() bool

	// DefaultSeverity returns the default severity for this rule.
	DefaultSeverity() diag.Severity

	// Category returns the diagnostic category the rule reports under.
	Category() diag.Category

	// Apply inspects the tree and returns one diagnostic per violation.
	// Severity and Rule are filled in by the Validator.
	Apply(rc *RuleContext) []diag.Diagnostic
}

// BaseRule provides a default implementation of the Rule interface.
// Embed this in rule implementations and override methods as needed.
type BaseRule struct {
	id       string
	name     string
	desc     string
	category diag.Category
}

// NewBaseRule creates a BaseRule with the given properties.
func NewBaseRule(id, name, desc string, category diag.Category) BaseRule {
	return BaseRule{
		id:       id,
		name:     name,
		desc:     desc,
		category: category,
	}
}

// ID returns the unique identifier for this rule.
func (r *BaseRule) ID() string {
	return r.id
}

// Name returns the human-readable name of the rule.
func (r *BaseRule) Name() string {
	return r.name
}

// Description returns a detailed description of what the rule checks.
func (r *BaseRule) Description() string {
	return r.desc
}

// Category returns the diagnostic category.
func (r *BaseRule) Category() diag.Category {
	return r.category
}

// DefaultEnabled returns true. Override to make a rule opt-in.
func (r *BaseRule) DefaultEnabled() bool {
	return true
}

// DefaultSeverity returns warning. Override to change the default.
func (r *BaseRule) DefaultSeverity() diag.Severity {
	return diag.SeverityWarning
}

// Apply must be overridden by concrete rule implementations.
func (r *BaseRule) Apply(_ *RuleContext) []diag.Diagnostic {
	return nil
}

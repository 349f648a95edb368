package validate

import (
	"github.com/yaklabco/gonmc/pkg/ast"
	"github.com/yaklabco/gonmc/pkg/config"
	"github.com/yaklabco/gonmc/pkg/diag"
)

// Validator runs a resolved set of rules. It is safe for concurrent use.
type Validator struct {
	rules []ResolvedRule
}

// New resolves the rules of registry against cfg. A nil cfg uses each rule's
// defaults.
func New(registry *Registry, cfg *config.Config) *Validator {
	return &Validator{rules: ResolveRules(registry, cfg)}
}

// Rules returns the enabled rules in execution order.
func (v *Validator) Rules() []ResolvedRule {
	out := make([]ResolvedRule, len(v.rules))
	copy(out, v.rules)
	return out
}

// Validate runs every enabled rule over root and returns the diagnostics in
// document order. Rules see the tree read-only.
func (v *Validator) Validate(root *ast.Node) diag.List {
	if root == nil {
		return nil
	}

	var out diag.List
	for _, rr := range v.rules {
		rc := NewRuleContext(root, rr.Rule, rr.Config)
		for _, d := range rr.Rule.Apply(rc) {
			d.Severity = rr.Severity
			d.Rule = rr.Rule.ID()
			if d.Category == "" {
				d.Category = rr.Rule.Category()
			}
			out.Add(d)
		}
	}
	return out.Sorted()
}

// Validate checks root with the default-enabled built-in rules.
func Validate(root *ast.Node) diag.List {
	return New(NewDefaultRegistry(), nil).Validate(root)
}

package validate

import (
	"github.com/yaklabco/gonmc/pkg/ast"
	"github.com/yaklabco/gonmc/pkg/config"
	"github.com/yaklabco/gonmc/pkg/diag"
)

// RuleContext provides what a rule needs to inspect one tree.
type RuleContext struct {
	// Root is the document being validated.
	Root *ast.Node

	// RuleConfig is the rule-specific configuration (may be nil).
	RuleConfig *config.RuleConfig

	rule Rule
}

// NewRuleContext creates a RuleContext for rule over root.
func NewRuleContext(root *ast.Node, rule Rule, ruleCfg *config.RuleConfig) *RuleContext {
	return &RuleContext{
		Root:       root,
		RuleConfig: ruleCfg,
		rule:       rule,
	}
}

// Report builds a diagnostic for the current rule at n's position.
func (rc *RuleContext) Report(n *ast.Node, format string, args ...any) diag.Diagnostic {
	var line, col int
	if n != nil {
		line, col = n.Pos.Line, n.Pos.Column
	}
	d := diag.New(diag.SeverityWarning, rc.category(), line, col, format, args...)
	if rc.rule != nil {
		d.Rule = rc.rule.ID()
	}
	return d
}

func (rc *RuleContext) category() diag.Category {
	if rc.rule == nil {
		return ""
	}
	return rc.rule.Category()
}

// Option returns a rule-specific option value, or the default if not set.
func (rc *RuleContext) Option(key string, defaultValue any) any {
	if rc.RuleConfig == nil || rc.RuleConfig.Options == nil {
		return defaultValue
	}
	if v, ok := rc.RuleConfig.Options[key]; ok {
		return v
	}
	return defaultValue
}

// OptionInt returns a rule-specific integer option, or the default.
func (rc *RuleContext) OptionInt(key string, defaultValue int) int {
	switch val := rc.Option(key, defaultValue).(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	default:
		return defaultValue
	}
}

// OptionString returns a rule-specific string option, or the default.
func (rc *RuleContext) OptionString(key string, defaultValue string) string {
	if s, ok := rc.Option(key, defaultValue).(string); ok {
		return s
	}
	return defaultValue
}

// OptionStringSlice returns a rule-specific string slice option, or the
// default. YAML and TOML decode lists as []any.
func (rc *RuleContext) OptionStringSlice(key string, defaultValue []string) []string {
	v := rc.Option(key, defaultValue)
	if slice, ok := v.([]string); ok {
		return slice
	}
	if items, ok := v.([]any); ok {
		result := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

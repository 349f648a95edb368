package validate

import (
	"strings"

	"github.com/yaklabco/gonmc/pkg/config"
	"github.com/yaklabco/gonmc/pkg/diag"
)

// ResolvedRule pairs a Rule with its resolved configuration.
type ResolvedRule struct {
	// Rule is the underlying rule implementation.
	Rule Rule

	// Enabled indicates whether the rule should be run.
	Enabled bool

	// Severity is the resolved severity for diagnostics from this rule.
	Severity diag.Severity

	// Config is the rule-specific configuration (may be nil).
	Config *config.RuleConfig
}

// ResolveRules determines which rules to run based on registry and config.
// Returns only enabled rules, sorted by ID.
func ResolveRules(registry *Registry, cfg *config.Config) []ResolvedRule {
	var resolved []ResolvedRule

	for _, rule := range registry.Rules() {
		rr := resolveRule(rule, cfg)
		if rr.Enabled {
			resolved = append(resolved, rr)
		}
	}

	return resolved
}

// resolveRule resolves the configuration for a single rule. Later sources
// win: rule defaults, severity_default, the rules section, then the CLI
// enable and disable lists.
func resolveRule(rule Rule, cfg *config.Config) ResolvedRule {
	rr := ResolvedRule{
		Rule:     rule,
		Enabled:  rule.DefaultEnabled(),
		Severity: rule.DefaultSeverity(),
	}

	if cfg == nil {
		return rr
	}

	if sev, ok := diag.ParseSeverity(cfg.SeverityDefault); ok {
		rr.Severity = sev
	}

	if ruleCfg, ok := lookupRuleConfig(cfg.Rules, rule); ok {
		rr.Config = &ruleCfg

		if ruleCfg.Enabled != nil {
			rr.Enabled = *ruleCfg.Enabled
		}
		if ruleCfg.Severity != nil {
			if sev, ok := diag.ParseSeverity(*ruleCfg.Severity); ok {
				rr.Severity = sev
			}
		}
	}

	if matchesRule(cfg.EnableRules, rule) {
		rr.Enabled = true
	}
	if matchesRule(cfg.DisableRules, rule) {
		rr.Enabled = false
	}

	return rr
}

// lookupRuleConfig finds a rule's section by ID, then by name.
func lookupRuleConfig(rules map[string]config.RuleConfig, rule Rule) (config.RuleConfig, bool) {
	if rc, ok := rules[rule.ID()]; ok {
		return rc, true
	}
	rc, ok := rules[rule.Name()]
	return rc, ok
}

func matchesRule(keys []string, rule Rule) bool {
	for _, key := range keys {
		if strings.EqualFold(key, rule.ID()) || strings.EqualFold(key, rule.Name()) {
			return true
		}
	}
	return false
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gonmc/internal/logging"
	"github.com/yaklabco/gonmc/internal/ui/pretty"
	"github.com/yaklabco/gonmc/pkg/config"
	"github.com/yaklabco/gonmc/pkg/diag"
	"github.com/yaklabco/gonmc/pkg/validate"
)

type rulesFlags struct {
	ruleFormat string
	format     string
}

const formatJSON = "json"

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Enabled     bool   `json:"enabled"`
}

func newRulesCommand(globals *globalFlags) *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available validation rules",
		Long: `List all validation rules with their IDs, descriptions, and the
severity and enabled state they resolve to under the current configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRules(cmd, globals, flags)
		},
	}

	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "combined",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().StringVar(&flags.format, "format", "text",
		"output format: text, json")

	return cmd
}

func runRules(cmd *cobra.Command, globals *globalFlags, flags *rulesFlags) error {
	if flags.format != "text" && flags.format != formatJSON {
		return fmt.Errorf("invalid format %q (valid: text, json)", flags.format)
	}

	registry := validate.NewDefaultRegistry()
	cfg, err := loadConfig(cmd, globals, registry, &config.Config{})
	if err != nil {
		return err
	}
	infos := describeRules(registry, cfg)

	logger := logging.FromContext(commandContext(cmd))
	for _, info := range infos {
		logger.Debug("rule resolved",
			logging.FieldName, info.ID,
			logging.FieldCategory, info.Category,
			logging.FieldSeverity, info.Severity,
			logging.FieldEnabled, info.Enabled,
		)
	}

	out := cmd.OutOrStdout()
	if flags.format == formatJSON {
		return writeJSON(out, infos)
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(globals.color, out))
	ruleFormat := config.RuleFormat(flags.ruleFormat)
	table := pretty.NewTable(styles, "RULE", "SEVERITY", "ENABLED", "DESCRIPTION")
	for _, info := range infos {
		sevStyle := styles.Warning
		if info.Severity == diag.SeverityError.String() {
			sevStyle = styles.Error
		}
		enabled := pretty.Cell{Text: "no", Style: styles.Dim}
		if info.Enabled {
			enabled = pretty.Cell{Text: "yes", Style: styles.Success}
		}
		table.AddRow(
			pretty.Cell{Text: config.FormatRuleID(ruleFormat, info.ID, info.Name), Style: styles.RuleID},
			pretty.Cell{Text: info.Severity, Style: sevStyle},
			enabled,
			pretty.Cell{Text: info.Description, Style: styles.Message},
		)
	}
	fmt.Fprint(out, table.String())
	return nil
}

// describeRules lists every registered rule with its resolved state.
func describeRules(registry *validate.Registry, cfg *config.Config) []ruleInfo {
	resolved := make(map[string]validate.ResolvedRule)
	for _, rr := range validate.ResolveRules(registry, cfg) {
		resolved[rr.Rule.ID()] = rr
	}

	rules := registry.Rules()
	infos := make([]ruleInfo, 0, len(rules))
	for _, rule := range rules {
		info := ruleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Category:    string(rule.Category()),
			Severity:    rule.DefaultSeverity().String(),
		}
		if rr, ok := resolved[rule.ID()]; ok {
			info.Enabled = true
			info.Severity = rr.Severity.String()
		}
		infos = append(infos, info)
	}
	return infos
}

package config

// FormatRuleID formats a rule identifier based on the given format.
// Falls back to ID if name is empty.
func FormatRuleID(format RuleFormat, ruleID, ruleName string) string {
	if ruleName == "" {
		return ruleID
	}
	if ruleID == "" {
		return ruleName
	}

	switch format {
	case RuleFormatID:
		return ruleID
	case RuleFormatName:
		return ruleName
	default:
		return ruleID + "/" + ruleName
	}
}

package config

import (
	"bytes"
	"fmt"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes every rule in Rules with its documentation.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" (default) or "toml".
	Format string

	// Rules describes the available validation rules.
	Rules []RuleInfo
}

// RuleInfo contains rule metadata for template generation.
type RuleInfo struct {
	ID          string
	Name        string
	Description string
	Enabled     bool
	Severity    Severity
}

// GenerateTemplate creates a commented configuration file.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch opts.Format {
	case "", "yaml", "yml":
		return yamlTemplate(opts), nil
	case "toml":
		return tomlTemplate(opts), nil
	default:
		return nil, fmt.Errorf("unsupported template format %q", opts.Format)
	}
}

func yamlTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Parse mode: record (collect every problem) or report (stop at the first)
mode: record

# Maximum block and inline nesting depth (0 = built-in default)
# max_depth: 256

# Default severity for rules without one: error or warning
# severity_default: warning

# File extensions picked up when walking directories
# extensions:
#   - .nmc

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "**/testdata/**"
`)

	if !opts.Full || len(opts.Rules) == 0 {
		buf.WriteString(`
# Rule-specific configuration
# rules:
#   NMC001:
#     severity: error
#     options:
#       required_keys: [title]
#   code-language:
#     enabled: true
`)
		return buf.Bytes()
	}

	buf.WriteString("\nrules:\n")
	for _, r := range opts.Rules {
		fmt.Fprintf(&buf, "  # %s: %s\n", r.Name, wrapComment(r.Description, commentWrapWidth, "  # "))
		fmt.Fprintf(&buf, "  %s:\n", r.ID)
		fmt.Fprintf(&buf, "    enabled: %t\n", r.Enabled)
		fmt.Fprintf(&buf, "    severity: %s\n", r.Severity)
	}
	return buf.Bytes()
}

func tomlTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Parse mode: record (collect every problem) or report (stop at the first)
mode = "record"

# Maximum block and inline nesting depth (0 = built-in default)
# max_depth = 256

# Default severity for rules without one: error or warning
# severity_default = "warning"

# File extensions picked up when walking directories
# extensions = [".nmc"]

# File patterns to ignore (glob patterns)
# ignore = ["vendor/**", "**/testdata/**"]
`)

	if !opts.Full || len(opts.Rules) == 0 {
		buf.WriteString(`
# Rule-specific configuration
# [rules.NMC001]
# severity = "error"
# [rules.NMC001.options]
# required_keys = ["title"]
`)
		return buf.Bytes()
	}

	for _, r := range opts.Rules {
		fmt.Fprintf(&buf, "\n# %s: %s\n", r.Name, wrapComment(r.Description, commentWrapWidth, "# "))
		fmt.Fprintf(&buf, "[rules.%s]\n", r.ID)
		fmt.Fprintf(&buf, "enabled = %t\n", r.Enabled)
		fmt.Fprintf(&buf, "severity = %q\n", r.Severity)
	}
	return buf.Bytes()
}

// wrapComment wraps a comment to fit within maxWidth characters, starting
// continuation lines with prefix.
func wrapComment(text string, maxWidth int, prefix string) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+prefix)
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gonmc configuration
# See: https://github.com/yaklabco/gonmc`
}

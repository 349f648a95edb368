package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/gonmc/internal/configloader"
	"github.com/yaklabco/gonmc/internal/ui/pretty"
)

// exitCodesAnnotation lists a command's exit codes as "code=meaning" pairs
// separated by ";". The help output renders them as their own section.
const exitCodesAnnotation = "gonmc:exit-codes"

// HelpFormatter renders styled help and usage for every command.
type HelpFormatter struct {
	styles *pretty.Styles
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: pretty.NewStyles(pretty.IsColorEnabled(colorMode, writer))}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ examples .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- with exitCodes .}}

{{ heading "Exit Codes:" }}
{{ . }}
{{- end}}

{{- with environment .}}

{{ heading "Environment:" }}
{{ . }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{ command .CommandPath }}{{if .Version}} {{ dim .Version }}{{end}}

{{with (or .Long .Short)}}{{ trimLines . }}

{{end}}`

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"heading":     h.styles.SummaryTitle.Render,
		"command":     h.styles.Bold.Render,
		"subcommand":  h.styles.Keyword.Render,
		"dim":         h.styles.Dim.Render,
		"examples":    h.formatExamples,
		"flags":       h.formatFlags,
		"exitCodes":   h.formatExitCodes,
		"environment": h.formatEnvironment,
		"rpad":        rpad,
		"trimLines":   trimLines,
	}
}

// ApplyToCommand installs the styled help and usage on cmd and, through
// Cobra's inheritance, on all of its subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	usage := template.Must(template.New("usage").Funcs(h.funcs()).Parse(usageTemplate))
	help := template.Must(template.New("help").Funcs(h.funcs()).Parse(helpTemplate + usageTemplate))

	cmd.SetUsageFunc(func(c *cobra.Command) error {
		if err := usage.Execute(c.OutOrStderr(), c); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := help.Execute(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
}

// formatExamples dims the comment after "#" on each example line.
func (h *HelpFormatter) formatExamples(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		if idx := strings.Index(line, "  #"); idx >= 0 {
			lines[i] = line[:idx] + h.styles.Dim.Render(line[idx:])
		}
	}
	return strings.Join(lines, "\n")
}

// formatFlags renders a flag set as aligned name and usage columns.
func (h *HelpFormatter) formatFlags(set *pflag.FlagSet) string {
	type row struct{ name, usage string }
	var rows []row
	width := 0

	set.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := "    --" + f.Name
		if f.Shorthand != "" {
			name = "-" + f.Shorthand + ", --" + f.Name
		}
		if typ, _ := pflag.UnquoteUsage(f); typ != "" {
			name += " " + typ
		}
		usage := f.Usage
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" && f.DefValue != "[]" {
			usage += fmt.Sprintf(" (default %q)", f.DefValue)
		}
		rows = append(rows, row{name, usage})
		width = max(width, len(name))
	})

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, "  "+h.styles.Marker.Render(rpad(r.name, width))+"   "+r.usage)
	}
	return strings.Join(lines, "\n")
}

// formatExitCodes renders the exit codes annotation, if any.
func (h *HelpFormatter) formatExitCodes(cmd *cobra.Command) string {
	annotation := cmd.Annotations[exitCodesAnnotation]
	if annotation == "" {
		return ""
	}
	entries := strings.Split(annotation, ";")
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		code, meaning, _ := strings.Cut(strings.TrimSpace(entry), "=")
		lines = append(lines, "  "+h.styles.Keyword.Render(rpad(code, 3))+" "+meaning)
	}
	return strings.Join(lines, "\n")
}

// formatEnvironment lists the configuration environment variables on the
// root command only.
func (h *HelpFormatter) formatEnvironment(cmd *cobra.Command) string {
	if cmd.HasParent() {
		return ""
	}
	vars := configloader.ListEnvVars()
	names := make([]string, 0, len(vars))
	width := 0
	for name := range vars {
		names = append(names, name)
		width = max(width, len(name))
	}
	slices.Sort(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, "  "+h.styles.Keyword.Render(rpad(name, width))+"  "+vars[name])
	}
	return strings.Join(lines, "\n")
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color modes accepted by IsColorEnabled.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Severity styles
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Diagnostic components
	FilePath   lipgloss.Style
	Location   lipgloss.Style
	RuleID     lipgloss.Style
	Category   lipgloss.Style
	Message    lipgloss.Style
	Recovered  lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Table styles
	TableHeader    lipgloss.Style
	TableSeparator lipgloss.Style
	Keyword        lipgloss.Style
	Marker         lipgloss.Style
	Literal        lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),

		FilePath:   lipgloss.NewStyle().Bold(true),
		Location:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		RuleID:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Category:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Message:    lipgloss.NewStyle(),
		Recovered:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Italic(true),
		SourceLine: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Caret:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),

		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		TableHeader:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		TableSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Keyword:        lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		Marker:         lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Literal:        lipgloss.NewStyle(),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Error:          plain,
		Warning:        plain,
		FilePath:       plain,
		Location:       plain,
		RuleID:         plain,
		Category:       plain,
		Message:        plain,
		Recovered:      plain,
		SourceLine:     plain,
		Caret:          plain,
		SummaryTitle:   plain,
		SummaryValue:   plain,
		Success:        plain,
		Failure:        plain,
		TableHeader:    plain,
		TableSeparator: plain,
		Keyword:        plain,
		Marker:         plain,
		Literal:        plain,
		Dim:            plain,
		Bold:           plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		return IsTerminal(writer)
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

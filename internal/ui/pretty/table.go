package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/gonmc/pkg/token"
)

const (
	tablePadding   = 2
	lightSeparator = "-"
	maxCellWidth   = 60
	ellipsis       = "..."
)

// Cell is one table cell: its text and the style it is rendered with.
type Cell struct {
	Text  string
	Style lipgloss.Style
}

// Table is a left-aligned text table. Column widths are measured on the
// unstyled text so ANSI sequences never shift alignment.
type Table struct {
	styles  *Styles
	headers []string
	rows    [][]Cell
}

// NewTable creates a table with the given column headers.
func NewTable(styles *Styles, headers ...string) *Table {
	return &Table{styles: styles, headers: headers}
}

// AddRow appends a row. Missing cells are blank; extra cells are dropped.
func (t *Table) AddRow(cells ...Cell) {
	row := make([]Cell, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// String renders the table.
func (t *Table) String() string {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, c := range row {
			widths[i] = max(widths[i], lipgloss.Width(truncate(c.Text)))
		}
	}

	var builder strings.Builder

	header := make([]Cell, len(t.headers))
	for i, h := range t.headers {
		header[i] = Cell{Text: h, Style: t.styles.TableHeader}
	}
	t.writeRow(&builder, header, widths)

	total := 0
	for _, w := range widths {
		total += w
	}
	total += tablePadding * (len(widths) - 1)
	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(lightSeparator, total)))
	builder.WriteString("\n")

	for _, row := range t.rows {
		t.writeRow(&builder, row, widths)
	}
	return builder.String()
}

func (t *Table) writeRow(builder *strings.Builder, row []Cell, widths []int) {
	for i, c := range row {
		text := truncate(c.Text)
		builder.WriteString(c.Style.Render(text))
		if i < len(row)-1 {
			builder.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(text)+tablePadding))
		}
	}
	builder.WriteString("\n")
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxCellWidth {
		return text
	}
	return string(runes[:maxCellWidth-len(ellipsis)]) + ellipsis
}

// FormatTokens renders a token stream as a table of position, indent, kind
// and quoted text.
func (s *Styles) FormatTokens(tokens []token.Token) string {
	table := NewTable(s, "POS", "INDENT", "KIND", "TEXT")
	for _, tok := range tokens {
		kindStyle := s.Literal
		switch {
		case tok.Kind.IsKeyword():
			kindStyle = s.Keyword
		case tok.Kind.IsListMarker(), tok.Kind == token.KindBlockOpen, tok.Kind == token.KindBlockClose:
			kindStyle = s.Marker
		case tok.Kind == token.KindNewline, tok.Kind == token.KindIndent, tok.Kind == token.KindEOF:
			kindStyle = s.Dim
		}
		table.AddRow(
			Cell{Text: fmt.Sprintf("%d:%d", tok.Line, tok.Column), Style: s.Location},
			Cell{Text: fmt.Sprint(tok.Indent), Style: s.Dim},
			Cell{Text: tok.Kind.String(), Style: kindStyle},
			Cell{Text: fmt.Sprintf("%q", tok.Text), Style: s.Literal},
		)
	}
	return table.String()
}

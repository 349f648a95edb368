// Package lexer turns nomenic source text into a flat token stream.
//
// The lexer is line oriented. Every physical line yields an optional
// KindIndent, the line's tokens and a KindNewline; the stream always ends
// with KindEOF. Problems are reported as diagnostics and never stop the scan.
package lexer

import (
	"strings"

	"github.com/yaklabco/gonmc/pkg/diag"
	"github.com/yaklabco/gonmc/pkg/source"
	"github.com/yaklabco/gonmc/pkg/token"
)

// IndentUnit is the number of spaces that make up one indentation level.
const IndentUnit = 2

const (
	rawOpen  = ">>>"
	rawClose = "<<<"
)

// Lexer tokenizes documents using a keyword table. A Lexer holds no
// per-document state and is safe for concurrent use.
type Lexer struct {
	keywords token.KeywordTable
}

// New creates a lexer. A zero keyword table selects token.DefaultKeywords.
func New(keywords token.KeywordTable) *Lexer {
	if keywords.IsZero() {
		keywords = token.DefaultKeywords()
	}
	return &Lexer{keywords: keywords}
}

// Tokenize scans text and returns its tokens and lexical diagnostics.
func (l *Lexer) Tokenize(text string) ([]token.Token, diag.List) {
	s := &scanner{
		keywords: l.keywords,
		lines:    source.SplitLines([]byte(text)),
	}
	s.run()
	return s.tokens, s.diags
}

// Tokenize scans text with the default keyword table.
func Tokenize(text string) ([]token.Token, diag.List) {
	return New(token.KeywordTable{}).Tokenize(text)
}

type scanner struct {
	keywords token.KeywordTable
	lines    []string
	tokens   []token.Token
	diags    diag.List
}

// indentation describes the leading whitespace of a line.
type indentation struct {
	width int // bytes of leading whitespace
	depth int
}

func (s *scanner) emit(kind token.Kind, text string, line, col, depth int) {
	s.tokens = append(s.tokens, token.Token{
		Kind:   kind,
		Text:   text,
		Line:   line,
		Column: col,
		Indent: depth,
	})
}

func (s *scanner) run() {
	for idx := 0; idx < len(s.lines); {
		idx = s.scanLine(idx)
	}
	s.emit(token.KindEOF, "", len(s.lines)+1, 1, 0)
}

// scanLine scans the line at idx and returns the index of the next line to
// scan. Raw and code capture consume more than one line.
func (s *scanner) scanLine(idx int) int {
	raw := s.lines[idx]
	lineNo := idx + 1

	if isBlank(raw) {
		return idx + 1
	}

	ind := s.measure(raw, lineNo, true)
	content := raw[ind.width:]
	col := ind.width + 1

	if ind.depth > 0 {
		s.emit(token.KindIndent, raw[:ind.width], lineNo, 1, ind.depth)
	}

	switch {
	case strings.HasPrefix(content, "#"):
		s.emit(token.KindComment, content, lineNo, col, ind.depth)
	case strings.TrimRight(content, " \t") == rawOpen:
		s.emit(token.KindBlockOpen, rawOpen, lineNo, col, ind.depth)
		s.newline(raw, lineNo, ind.depth)
		return s.captureRaw(idx, ind)
	case strings.TrimRight(content, " \t") == rawClose:
		s.emit(token.KindBlockClose, rawClose, lineNo, col, ind.depth)
	default:
		if next, ok := s.scanKeyword(idx, content, col, ind); ok {
			return next
		}
		if !s.scanMarker(content, lineNo, col, ind.depth) {
			s.scanInline(content, lineNo, col, ind.depth, 0)
		}
	}

	s.newline(raw, lineNo, ind.depth)
	return idx + 1
}

func (s *scanner) newline(raw string, lineNo, depth int) {
	s.emit(token.KindNewline, "\n", lineNo, len(raw)+1, depth)
}

// measure computes the indentation of raw. Tabs count as a single column;
// a tab or an odd width yields an indentation diagnostic when report is set.
func (s *scanner) measure(raw string, lineNo int, report bool) indentation {
	width := 0
	tabAt := -1
	for width < len(raw) && (raw[width] == ' ' || raw[width] == '\t') {
		if raw[width] == '\t' && tabAt < 0 {
			tabAt = width
		}
		width++
	}

	if report {
		switch {
		case tabAt >= 0:
			s.diags.Add(diag.Errorf(diag.CategoryIndentation, lineNo, tabAt+1,
				"tab character in indentation; use %d spaces per level", IndentUnit).
				WithRecovered(true))
		case width%IndentUnit != 0:
			s.diags.Add(diag.Errorf(diag.CategoryIndentation, lineNo, 1,
				"indentation of %d spaces is not a multiple of %d", width, IndentUnit).
				WithRecovered(true))
		}
	}

	return indentation{width: width, depth: width / IndentUnit}
}

// captureRaw collects the lines after a ">>>" opener at idx until a "<<<"
// line. It returns the index of the line after the close.
func (s *scanner) captureRaw(idx int, opener indentation) int {
	openLine := idx + 1
	for next := idx + 1; next < len(s.lines); next++ {
		raw := s.lines[next]
		lineNo := next + 1
		if strings.TrimSpace(raw) == rawClose {
			ind := s.measure(raw, lineNo, true)
			s.emit(token.KindBlockClose, rawClose, lineNo, ind.width+1, ind.depth)
			s.newline(raw, lineNo, ind.depth)
			return next + 1
		}
		s.emit(token.KindRawLine, stripSpaces(raw, opener.width), lineNo, 1, opener.depth+1)
		s.newline(raw, lineNo, opener.depth+1)
	}

	s.diags.Add(diag.Errorf(diag.CategoryUnterminatedBlock, openLine, opener.width+1,
		"%s block is never closed with %s", rawOpen, rawClose).WithRecovered(true))
	s.emit(token.KindBlockClose, "", len(s.lines)+1, 1, opener.depth)
	s.emit(token.KindNewline, "\n", len(s.lines)+1, 1, opener.depth)
	return len(s.lines)
}

// scanKeyword recognizes "name:" at the start of content. It reports false
// when content is not a known keyword line.
func (s *scanner) scanKeyword(idx int, content string, col int, ind indentation) (int, bool) {
	name, ok := keywordName(content)
	if !ok {
		return 0, false
	}
	kind, ok := s.keywords.Lookup(name)
	if !ok {
		return 0, false
	}

	lineNo := idx + 1
	head := content[:len(name)+1]
	s.emit(kind, head, lineNo, col, ind.depth)

	rest := content[len(head):]
	trimmed := strings.TrimLeft(rest, " \t")
	restCol := col + len(head) + len(rest) - len(trimmed)
	trimmed = strings.TrimRight(trimmed, " \t")

	switch {
	case kind == token.KindCode:
		if trimmed != "" {
			s.emit(token.KindLiteral, trimmed, lineNo, restCol, ind.depth)
		}
		s.newline(s.lines[idx], lineNo, ind.depth)
		return s.captureCode(idx, ind), true
	case kind == token.KindMeta:
		if trimmed != "" {
			s.emit(token.KindLiteral, trimmed, lineNo, restCol, ind.depth)
		}
	case kind == token.KindText && trimmed == rawOpen:
		s.emit(token.KindBlockOpen, rawOpen, lineNo, restCol, ind.depth)
		s.newline(s.lines[idx], lineNo, ind.depth)
		return s.captureRaw(idx, ind), true
	case trimmed != "":
		s.scanInline(trimmed, lineNo, restCol, ind.depth, 0)
	}

	s.newline(s.lines[idx], lineNo, ind.depth)
	return idx + 1, true
}

// captureCode collects the body of a code block opened at idx: blank lines
// and lines indented deeper than the opener, minus trailing blank lines.
func (s *scanner) captureCode(idx int, opener indentation) int {
	last := idx
	for next := idx + 1; next < len(s.lines); next++ {
		raw := s.lines[next]
		if isBlank(raw) {
			continue
		}
		if leadingWhitespace(raw) <= opener.width {
			break
		}
		last = next
	}

	strip := opener.width + IndentUnit
	for next := idx + 1; next <= last; next++ {
		raw := s.lines[next]
		lineNo := next + 1
		text := stripSpaces(raw, strip)
		col := len(raw) - len(text) + 1
		if isBlank(raw) {
			text, col = "", 1
		}
		s.emit(token.KindCodeLine, text, lineNo, col, opener.depth+1)
		s.newline(raw, lineNo, opener.depth+1)
	}
	return last + 1
}

// scanMarker recognizes a list item marker and scans the item content.
func (s *scanner) scanMarker(content string, lineNo, col, depth int) bool {
	kind, width := listMarker(content)
	if width == 0 {
		return false
	}
	s.emit(kind, content[:width], lineNo, col, depth)

	rest := content[width:]
	trimmed := strings.TrimLeft(rest, " \t")
	if trimmed = strings.TrimRight(trimmed, " \t"); trimmed != "" {
		s.scanInline(trimmed, lineNo, col+width+len(rest)-len(strings.TrimLeft(rest, " \t")), depth, 0)
	}
	return true
}

// keywordName returns the name of a "name:" prefix followed by whitespace or
// end of line.
func keywordName(content string) (string, bool) {
	if content == "" || !isLetter(content[0]) {
		return "", false
	}
	end := 1
	for end < len(content) && isNameByte(content[end]) {
		end++
	}
	if end >= len(content) || content[end] != ':' {
		return "", false
	}
	if end+1 < len(content) && content[end+1] != ' ' && content[end+1] != '\t' {
		return "", false
	}
	return content[:end], true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNameByte(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_' || c == '-'
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func leadingWhitespace(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

// stripSpaces removes up to n leading whitespace bytes.
func stripSpaces(line string, n int) string {
	i := 0
	for i < n && i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[i:]
}

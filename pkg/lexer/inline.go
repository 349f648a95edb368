package lexer

import (
	"regexp"
	"strings"

	"github.com/yaklabco/gonmc/pkg/diag"
	"github.com/yaklabco/gonmc/pkg/token"
)

// maxInlineNesting bounds recursion into nested inline groups. Deeper groups
// are emitted as a single literal and left to the parser's depth limit.
const maxInlineNesting = 512

// group describes an inline construct introduced by an opener.
type group struct {
	opener   string
	kind     token.Kind
	verbatim bool // inner text is not scanned
}

// styleGroups are matched longest first so "@bold(" wins over "@b(".
//
//nolint:gochecknoglobals // Read-only lookup table.
var styleGroups = []group{
	{opener: "@italic(", kind: token.KindItalic},
	{opener: "@bold(", kind: token.KindBold},
	{opener: "@code(", kind: token.KindCodeSpan, verbatim: true},
	{opener: "@link(", kind: token.KindLink, verbatim: true},
	{opener: "@b(", kind: token.KindBold},
	{opener: "@i(", kind: token.KindItalic},
	{opener: "@c(", kind: token.KindCodeSpan, verbatim: true},
	{opener: "@l(", kind: token.KindLink, verbatim: true},
}

//nolint:gochecknoglobals // Compiled once.
var romanNumeral = regexp.MustCompile(`^(?i)m{0,3}(cm|cd|d?c{0,3})(xc|xl|l?x{0,3})(ix|iv|v?i{0,3})$`)

// groupAt reports the inline group starting at s[i], if any.
func groupAt(s string, i int) (group, bool) {
	switch s[i] {
	case '(':
		return group{opener: "(", kind: token.KindParen}, true
	case '[':
		return group{opener: "[", kind: token.KindBracket}, true
	case '{':
		return group{opener: "{", kind: token.KindBrace, verbatim: true}, true
	case '@':
		for _, g := range styleGroups {
			if strings.HasPrefix(s[i:], g.opener) {
				return g, true
			}
		}
	}
	return group{}, false
}

func closerFor(open byte) byte {
	switch open {
	case '[':
		return ']'
	case '{':
		return '}'
	default:
		return ')'
	}
}

// matchClose returns the index of the closer matching the opener just before
// from, honoring nesting of the same bracket type and backslash escapes.
func matchClose(s string, from int, open, closer byte) int {
	depth := 1
	for j := from; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// scanInline tokenizes inline content. col is the column of s[0].
func (s *scanner) scanInline(text string, lineNo, col, depth, nest int) {
	var lit strings.Builder
	litCol := col

	appendLit := func(str string, at int) {
		if lit.Len() == 0 {
			litCol = at
		}
		lit.WriteString(str)
	}
	flush := func() {
		if lit.Len() > 0 {
			s.emit(token.KindLiteral, lit.String(), lineNo, litCol, depth)
			lit.Reset()
		}
	}

	for i := 0; i < len(text); {
		c := text[i]

		if c == '\\' {
			switch {
			case i+1 >= len(text):
				s.diags.Add(diag.Warnf(diag.CategoryUnknownEscape, lineNo, col+i,
					"backslash at end of line escapes nothing").WithRecovered(true))
				appendLit(`\`, col+i)
				i++
			case strings.IndexByte(token.Escapable, text[i+1]) >= 0:
				flush()
				s.emit(token.KindEscape, text[i:i+2], lineNo, col+i, depth)
				i += 2
			default:
				s.diags.Add(diag.Warnf(diag.CategoryUnknownEscape, lineNo, col+i,
					"unknown escape sequence %q", text[i:i+2]).WithRecovered(true))
				appendLit(text[i:i+2], col+i)
				i += 2
			}
			continue
		}

		g, ok := groupAt(text, i)
		if !ok {
			appendLit(text[i:i+1], col+i)
			i++
			continue
		}

		open := g.opener[len(g.opener)-1]
		inner := i + len(g.opener)
		end := matchClose(text, inner, open, closerFor(open))
		if end < 0 {
			flush()
			s.diags.Add(diag.Errorf(diag.CategoryUnclosedDelimiter, lineNo, col+len(text),
				"%q opened at column %d is not closed before end of line", g.opener, col+i).
				WithRecovered(true))
			s.emit(token.KindIllegal, text[i:], lineNo, col+i, depth)
			return
		}

		flush()
		s.emit(g.kind, g.opener, lineNo, col+i, depth)
		body := text[inner:end]
		switch {
		case body == "":
		case g.verbatim || nest >= maxInlineNesting:
			s.emit(token.KindLiteral, body, lineNo, col+inner, depth)
		default:
			s.scanInline(body, lineNo, col+inner, depth, nest+1)
		}
		s.emit(token.KindClose, text[end:end+1], lineNo, col+end, depth)
		i = end + 1
	}

	flush()
}

// listMarker returns the marker kind and its width in bytes, or a zero width
// when content does not start with a list marker.
func listMarker(content string) (token.Kind, int) {
	if content == "-" || strings.HasPrefix(content, "- ") || strings.HasPrefix(content, "-\t") {
		return token.KindBullet, 1
	}

	end := 0
	switch {
	case content != "" && isDigit(content[0]):
		for end < len(content) && isDigit(content[end]) {
			end++
		}
	case content != "" && isLetter(content[0]):
		for end < len(content) && isLetter(content[end]) {
			end++
		}
		if end > 1 && !romanNumeral.MatchString(content[:end]) {
			return token.KindIllegal, 0
		}
	default:
		return token.KindIllegal, 0
	}

	if end >= len(content) || content[end] != '.' {
		return token.KindIllegal, 0
	}
	if end+1 < len(content) && content[end+1] != ' ' && content[end+1] != '\t' {
		return token.KindIllegal, 0
	}
	return token.KindOrdered, end + 1
}

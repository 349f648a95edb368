package parser

import (
	"strings"

	"github.com/yaklabco/gonmc/pkg/ast"
	"github.com/yaklabco/gonmc/pkg/diag"
	"github.com/yaklabco/gonmc/pkg/token"
)

// inline parses the tokens of one line into inline nodes. Adjacent literal
// tokens, escapes and anything that is not an inline group are merged into
// plain runs.
func (p *parser) inline(toks []token.Token) []*ast.Node {
	var (
		out  []*ast.Node
		run  *ast.Node
		text strings.Builder
		prev token.Token
	)

	flush := func() {
		if run != nil {
			run.Value = text.String()
			out = append(out, run)
			run = nil
			text.Reset()
		}
	}
	add := func(s string, tok token.Token) {
		if run == nil {
			run = ast.New(ast.NodeText, posOf(tok))
		}
		text.WriteString(s)
		run.End = endOf(tok)
	}

	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		if i > 0 && tok.Line == prev.Line {
			if gap := tok.Column - (prev.Column + len(prev.Text)); gap > 0 {
				add(strings.Repeat(" ", gap), tok)
			}
		}

		switch {
		case tok.Kind.IsGroupOpen():
			end := matchingClose(toks, i)
			if end < 0 {
				add(tok.Text, tok)
				break
			}
			flush()
			out = append(out, p.group(tok, toks[i+1:end], toks[end]))
			i = end
			tok = toks[end]
		case tok.Kind == token.KindEscape:
			add(tok.Text[1:], tok)
		default:
			add(tok.Text, tok)
		}
		prev = tok
	}

	flush()
	return out
}

// matchingClose returns the index of the KindClose that ends the group
// opened at toks[open], or -1.
func matchingClose(toks []token.Token, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch {
		case toks[i].Kind.IsGroupOpen():
			depth++
		case toks[i].Kind == token.KindClose:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (p *parser) group(open token.Token, inner []token.Token, closer token.Token) *ast.Node {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > p.maxDepth {
		p.errorAt(open, diag.CategoryNestingTooDeep,
			"inline nesting exceeds the maximum depth of %d", p.maxDepth)
		all := make([]token.Token, 0, len(inner)+2)
		all = append(all, open)
		all = append(all, inner...)
		all = append(all, closer)
		run := ast.NewRun(joinTokens(all), posOf(open), endOf(closer))
		run.Flagged = true
		return run
	}

	n := ast.New(ast.NodeText, posOf(open))
	switch open.Kind {
	case token.KindBold:
		n.Kind = ast.NodeBold
		n.Children = p.inline(inner)
	case token.KindItalic:
		n.Kind = ast.NodeItalic
		n.Children = p.inline(inner)
	case token.KindParen:
		n.Kind = ast.NodeAnnotation
		n.Name = "paren"
		n.Children = p.inline(inner)
	case token.KindBracket:
		n.Kind = ast.NodeAnnotation
		n.Name = "bracket"
		n.Children = p.inline(inner)
	case token.KindCodeSpan:
		n.Kind = ast.NodeCodeSpan
		n.Value = unescape(joinTokens(inner))
	case token.KindLink:
		n.Kind = ast.NodeLink
		fillLink(n, inner)
	case token.KindBrace:
		n.Kind = ast.NodeKeyValue
		fillPairs(n, inner)
	default:
		n.Value = joinTokens(inner)
	}
	n.End = endOf(closer)
	return n
}

// fillLink fills n from "text, url[, title]". A single part is both text and
// URL.
func fillLink(n *ast.Node, inner []token.Token) {
	parts := splitUnescaped(joinTokens(inner), ',')
	for i := range parts {
		parts[i] = strings.TrimSpace(unescape(parts[i]))
	}

	label := parts[0]
	n.URL = label
	if len(parts) > 1 {
		n.URL = parts[1]
	}
	if len(parts) > 2 {
		n.Title = strings.Join(parts[2:], ", ")
	}
	if label != "" && len(inner) > 0 {
		n.Children = []*ast.Node{ast.NewRun(label, posOf(inner[0]), endOf(inner[len(inner)-1]))}
	}
}

// fillPairs fills n.Pairs from "k=v, k2=v2". A key without "=" has an empty
// value.
func fillPairs(n *ast.Node, inner []token.Token) {
	if len(inner) == 0 {
		return
	}
	at := posOf(inner[0])
	for _, seg := range splitUnescaped(joinTokens(inner), ',') {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		key, value, _ := strings.Cut(seg, "=")
		n.Pairs = append(n.Pairs, ast.KeyValue{
			Key:   strings.TrimSpace(unescape(key)),
			Value: strings.TrimSpace(unescape(value)),
			Pos:   at,
		})
	}
}

// splitUnescaped splits s on sep, ignoring separators preceded by a
// backslash. It always returns at least one element.
func splitUnescaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// unescape removes the backslash from escape sequences. Backslashes before
// other characters are kept.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && strings.IndexByte(token.Escapable, s[i+1]) >= 0 {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

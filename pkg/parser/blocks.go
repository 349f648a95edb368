package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/gonmc/pkg/ast"
	"github.com/yaklabco/gonmc/pkg/diag"
	"github.com/yaklabco/gonmc/pkg/token"
)

// Invalid-node reasons that are not diagnostic categories.
const (
	ReasonMissingListMarker = "missing-list-marker"
	ReasonDirectiveName     = string(diag.CategoryDirectiveName)
)

//nolint:gochecknoglobals // Compiled once.
var langTag = regexp.MustCompile(`^[A-Za-z0-9_+#.-]+$`)

func (p *parser) document() *ast.Node {
	doc := ast.NewDocument()
	ast.AppendChild(doc, p.blocks(-1, false)...)
	return doc
}

// blocks parses consecutive blocks indented deeper than parent. Plain text
// lines become paragraphs when allowText is set and are errors otherwise.
func (p *parser) blocks(parent int, allowText bool) []*ast.Node {
	var out []*ast.Node
	for p.hasDeeper(parent) {
		out = append(out, p.block(allowText))
	}
	return out
}

// block parses one block. On failure it skips the block's scope and returns
// a placeholder, so the cursor always advances.
func (p *parser) block(allowText bool) *ast.Node {
	l := p.lines[p.pos]
	start := p.pos

	p.depth++
	defer func() { p.depth-- }()

	var node *ast.Node
	if p.depth > p.maxDepth {
		node = p.fail(l.first(), diag.CategoryNestingTooDeep,
			"nesting exceeds the maximum depth of %d", p.maxDepth)
	} else {
		node = p.dispatch(l, allowText)
	}
	if node != nil {
		return node
	}

	if p.pos == start {
		p.pos++
	}
	p.skipDeeper(l.indent, l.opensRaw())
	return p.placeholder(start, string(p.failed))
}

func (p *parser) dispatch(l line, allowText bool) *ast.Node {
	first := l.first()

	switch first.Kind {
	case token.KindMeta:
		return p.meta(l)
	case token.KindHeader:
		return p.header(l)
	case token.KindText:
		return p.text(l)
	case token.KindList:
		return p.list(l)
	case token.KindCode:
		return p.code(l)
	case token.KindTable:
		return p.table(l)
	case token.KindDefList:
		return p.defList(l)
	case token.KindBlockquote:
		return p.blockquote(l)
	case token.KindFigure:
		return p.figure(l)
	case token.KindDirective:
		return p.directive(l)
	case token.KindNote, token.KindWarn, token.KindTip:
		return p.callout(l)
	case token.KindDefTerm, token.KindDefDesc:
		p.pos++
		return p.fail(first, diag.CategoryUnexpectedToken, "%s is only valid inside a def-list", first.Text)
	case token.KindSrc, token.KindCaption:
		p.pos++
		return p.fail(first, diag.CategoryUnexpectedToken, "%s is only valid inside a figure", first.Text)
	case token.KindBullet, token.KindOrdered:
		if allowText {
			return p.implicitList(l)
		}
		p.pos++
		return p.fail(first, diag.CategoryUnexpectedToken, "list item %q outside of a list", first.Text)
	case token.KindBlockOpen:
		return p.strayRaw(l)
	case token.KindBlockClose:
		p.pos++
		return p.fail(first, diag.CategoryUnexpectedToken, "<<< without a matching >>>")
	default:
		if allowText {
			return p.paragraph(l)
		}
		p.pos++
		return p.fail(first, diag.CategoryUnexpectedToken,
			"unexpected text %q; expected a block keyword", clip(joinTokens(l.toks)))
	}
}

func (p *parser) meta(l line) *ast.Node {
	kw := l.first()
	p.pos++

	n := ast.New(ast.NodeMeta, posOf(kw))
	n.End = l.end()
	if len(l.toks) > 1 {
		p.pairs(n, l.toks[1:])
	}
	for p.hasDeeper(l.indent) {
		m := p.lines[p.pos]
		p.pos++
		p.pairs(n, m.toks)
		n.End = m.end()
	}

	if len(n.Pairs) == 0 && !n.Flagged {
		return p.fail(kw, diag.CategoryMissingContent, "%s requires key=value pairs", kw.Text)
	}
	return n
}

// pairs parses "k=v, k2=v2" into n.Pairs. A segment without "=" continues the
// previous value, so values may contain commas.
func (p *parser) pairs(n *ast.Node, toks []token.Token) {
	at := toks[0]
	for _, seg := range splitUnescaped(joinTokens(toks), ',') {
		key, value, ok := strings.Cut(seg, "=")
		switch {
		case strings.TrimSpace(seg) == "":
		case ok && strings.TrimSpace(key) != "":
			n.Pairs = append(n.Pairs, ast.KeyValue{
				Key:   strings.TrimSpace(unescape(key)),
				Value: strings.TrimSpace(unescape(value)),
				Pos:   posOf(at),
			})
		case !ok && len(n.Pairs) > 0:
			last := &n.Pairs[len(n.Pairs)-1]
			last.Value += "," + strings.TrimRight(unescape(seg), " \t")
		default:
			p.errorAt(at, diag.CategoryUnexpectedToken, "expected key=value in meta, got %q", clip(strings.TrimSpace(seg)))
			n.Flagged = true
		}
	}
}

func (p *parser) header(l line) *ast.Node {
	kw := l.first()
	p.pos++
	if len(l.toks) == 1 {
		return p.fail(kw, diag.CategoryMissingContent, "%s requires a title", kw.Text)
	}

	n := ast.New(ast.NodeHeader, posOf(kw))
	n.Level = p.headers + 1
	ast.AppendInline(n, p.inline(l.toks[1:])...)

	p.headers++
	ast.AppendChild(n, p.blocks(l.indent, true)...)
	p.headers--
	return n
}

func (p *parser) text(l line) *ast.Node {
	kw := l.first()
	p.pos++

	n := ast.New(ast.NodeText, posOf(kw))
	rest := l.toks[1:]

	if len(rest) == 1 && rest[0].Kind == token.KindBlockOpen {
		p.rawBody(n, l.indent)
		return n
	}
	if len(rest) == 0 {
		if next, ok := p.peek(); ok && next.kind() == token.KindBlockOpen {
			if next.indent != l.indent {
				p.errorAt(next.first(), diag.CategoryMisalignedDelimiter,
					">>> at depth %d does not line up with %s at depth %d", next.indent, kw.Text, l.indent)
			}
			p.pos++
			p.rawBody(n, l.indent)
			return n
		}
		if !p.hasDeeper(l.indent) {
			return p.fail(kw, diag.CategoryMissingContent, "%s requires content", kw.Text)
		}
	}

	ast.AppendChild(n, p.inline(rest)...)
	p.continuation(n, l.indent)
	return n
}

// rawBody consumes the raw lines and the close of a ">>>" block into n.
func (p *parser) rawBody(n *ast.Node, owner int) {
	var lines []string
	for {
		next, ok := p.peek()
		if !ok || next.kind() != token.KindRawLine {
			break
		}
		lines = append(lines, next.first().Text)
		n.End = next.end()
		p.pos++
	}

	if next, ok := p.peek(); ok && next.kind() == token.KindBlockClose {
		closer := next.first()
		if closer.Text != "" {
			if next.indent != owner {
				p.errorAt(closer, diag.CategoryMisalignedDelimiter,
					"<<< at depth %d does not line up with its block at depth %d", next.indent, owner)
			}
			n.End = next.end()
		}
		p.pos++
	}
	n.Value = strings.Join(lines, "\n")
}

// strayRaw handles a ">>>" that no text: block owns.
func (p *parser) strayRaw(l line) *ast.Node {
	start := p.pos
	p.pos++
	p.errorAt(l.first(), diag.CategoryUnexpectedToken, ">>> is only valid after text:")

	holder := ast.New(ast.NodeText, posOf(l.first()))
	p.rawBody(holder, l.indent)

	n := p.placeholder(start, string(diag.CategoryUnexpectedToken))
	n.Value = holder.Value
	return n
}

// continuation appends the lines deeper than indent to a text node.
func (p *parser) continuation(n *ast.Node, indent int) {
	for p.hasDeeper(indent) {
		m := p.lines[p.pos]
		p.pos++

		next := p.inline(m.toks)
		if len(next) == 0 {
			continue
		}
		if len(n.Children) > 0 {
			last := n.Children[len(n.Children)-1]
			if !last.IsPlainRun() || !next[0].IsPlainRun() {
				ast.AppendChild(n, ast.NewRun("\n", last.End, last.End))
			}
		}
		ast.AppendChild(n, next...)
	}
}

func (p *parser) paragraph(l line) *ast.Node {
	p.pos++
	n := ast.New(ast.NodeText, posOf(l.first()))
	ast.AppendChild(n, p.inline(l.toks)...)
	p.continuation(n, l.indent)
	return n
}

func (p *parser) list(l line) *ast.Node {
	kw := l.first()
	p.pos++

	n := ast.New(ast.NodeList, posOf(kw))
	if len(l.toks) > 1 {
		ast.AppendInline(n, p.inline(l.toks[1:])...)
	}

	next, ok := p.peek()
	flush := ok && next.indent == l.indent && next.isMarker()
	p.items(n, l.indent, flush, true, p.listItem)

	if countKind(n.Children, ast.NodeListItem) == 0 {
		return p.fail(kw, diag.CategoryMissingContent, "%s requires at least one item", kw.Text)
	}
	n.Ordered = firstMarker(n.Children) == token.KindOrdered
	return n
}

// implicitList groups marker lines that appear directly inside a container.
func (p *parser) implicitList(l line) *ast.Node {
	n := ast.New(ast.NodeList, posOf(l.first()))
	n.Ordered = l.kind() == token.KindOrdered
	p.items(n, l.indent, true, false, p.listItem)
	return n
}

// items parses the entries of a list or table into n. Entries are lines
// deeper than parent; with flush set, marker lines at parent's own
// indentation count too, plus plain lines when absorbPlain is set.
func (p *parser) items(n *ast.Node, parent int, flush, absorbPlain bool, entry func(line) *ast.Node) {
	for {
		m, ok := p.peek()
		if !ok || m.indent < parent || (m.indent == parent && !flush) {
			return
		}
		if m.indent == parent && !m.isMarker() && !(absorbPlain && m.isPlain()) {
			return
		}

		if m.isMarker() {
			ast.AppendChild(n, entry(m))
			continue
		}

		start := p.pos
		p.errorAt(m.first(), diag.CategoryMalformedListItem,
			"list item is missing its marker; expected \"- \" or a numbered marker")
		p.pos++
		p.skipDeeper(m.indent, m.opensRaw())
		ast.AppendChild(n, p.placeholder(start, ReasonMissingListMarker))
	}
}

func (p *parser) listItem(m line) *ast.Node {
	marker := m.first()
	p.pos++

	item := ast.New(ast.NodeListItem, posOf(marker))
	item.Marker = marker.Text
	item.End = endOf(marker)
	if len(m.toks) > 1 {
		ast.AppendInline(item, p.inline(m.toks[1:])...)
	}
	ast.AppendChild(item, p.blocks(m.indent, true)...)
	return item
}

func (p *parser) code(l line) *ast.Node {
	kw := l.first()
	p.pos++

	n := ast.New(ast.NodeCode, posOf(kw))
	n.End = l.end()

	info := ""
	if len(l.toks) > 1 {
		info = strings.TrimSpace(joinTokens(l.toks[1:]))
	}
	lang, inline := codeInfo(info)
	n.Lang = lang
	if inline != "" {
		n.Lines = append(n.Lines, inline)
	}

	for {
		next, ok := p.peek()
		if !ok || next.kind() != token.KindCodeLine {
			break
		}
		n.Lines = append(n.Lines, next.first().Text)
		n.End = next.end()
		p.pos++
	}

	if len(n.Lines) == 0 {
		return p.fail(kw, diag.CategoryMissingContent, "%s requires an indented body", kw.Text)
	}
	return n
}

// codeInfo splits the text after "code:" into a language tag or a single
// line of inline code. "lang", "lang |" and "|" are info strings.
func codeInfo(info string) (string, string) {
	tag := strings.TrimSpace(strings.TrimSuffix(info, "|"))
	switch {
	case tag == "":
		return "", ""
	case langTag.MatchString(tag):
		return tag, ""
	default:
		return "", info
	}
}

func (p *parser) table(l line) *ast.Node {
	kw := l.first()
	p.pos++

	n := ast.New(ast.NodeTable, posOf(kw))
	if len(l.toks) > 1 {
		ast.AppendInline(n, p.inline(l.toks[1:])...)
	}

	next, ok := p.peek()
	flush := ok && next.indent == l.indent && next.isMarker()
	p.items(n, l.indent, flush, true, p.tableRow)

	if countKind(n.Children, ast.NodeTableRow) == 0 {
		return p.fail(kw, diag.CategoryMissingContent, "%s requires at least one row", kw.Text)
	}
	return n
}

func (p *parser) tableRow(m line) *ast.Node {
	marker := m.first()
	p.pos++

	row := ast.New(ast.NodeTableRow, posOf(marker))
	row.End = m.end()

	text := strings.TrimSpace(joinTokens(m.toks[1:]))
	if len(text) >= 4 && strings.EqualFold(text[:4], "row:") {
		text = text[4:]
	}
	for _, cell := range splitUnescaped(text, ',') {
		row.Cells = append(row.Cells, strings.TrimSpace(unescape(cell)))
	}

	if p.unexpectedChildren(m, "table rows cannot contain nested content") != nil {
		row.Flagged = true
	}
	return row
}

func (p *parser) defList(l line) *ast.Node {
	kw := l.first()
	p.pos++

	n := ast.New(ast.NodeDefList, posOf(kw))
	for p.hasDeeper(l.indent) {
		m := p.lines[p.pos]
		switch m.kind() {
		case token.KindDefTerm:
			ast.AppendChild(n, p.defTerm(m))
		case token.KindDefDesc:
			ast.AppendChild(n, p.defDesc(m))
		default:
			ast.AppendChild(n, p.childError(m, diag.CategoryUnexpectedToken,
				"def-list entries must start with dt: or dd:"))
		}
	}

	if len(n.Children) == 0 {
		return p.fail(kw, diag.CategoryMissingContent, "%s requires dt: and dd: entries", kw.Text)
	}
	return n
}

func (p *parser) defTerm(m line) *ast.Node {
	kw := m.first()
	p.pos++

	term := ast.New(ast.NodeDefTerm, posOf(kw))
	term.End = m.end()
	if len(m.toks) == 1 {
		p.errorAt(kw, diag.CategoryMissingContent, "%s requires a term", kw.Text)
		term.Flagged = true
	}
	ast.AppendInline(term, p.inline(m.toks[1:])...)
	if p.unexpectedChildren(m, "a term cannot contain nested content") != nil {
		term.Flagged = true
	}
	return term
}

func (p *parser) defDesc(m line) *ast.Node {
	kw := m.first()
	p.pos++

	desc := ast.New(ast.NodeDefDesc, posOf(kw))
	desc.End = m.end()
	ast.AppendInline(desc, p.inline(m.toks[1:])...)
	ast.AppendChild(desc, p.blocks(m.indent, true)...)

	if !desc.HasChildren() {
		p.errorAt(kw, diag.CategoryMissingContent, "%s requires a description", kw.Text)
		desc.Flagged = true
	}
	return desc
}

func (p *parser) blockquote(l line) *ast.Node {
	kw := l.first()
	p.pos++

	n := ast.New(ast.NodeBlockquote, posOf(kw))
	if len(l.toks) > 1 {
		lead := ast.New(ast.NodeText, posOf(l.toks[1]))
		ast.AppendChild(lead, p.inline(l.toks[1:])...)
		ast.AppendChild(n, lead)
	}
	ast.AppendChild(n, p.blocks(l.indent, true)...)

	if len(n.Children) == 0 {
		return p.fail(kw, diag.CategoryMissingContent, "%s requires quoted content", kw.Text)
	}
	for _, child := range n.Children {
		stripQuoteMarker(child)
	}
	return n
}

// stripQuoteMarker removes a leading "> " written on a quoted paragraph.
func stripQuoteMarker(n *ast.Node) {
	if n.Kind != ast.NodeText || len(n.Children) == 0 || !n.Children[0].IsPlainRun() {
		return
	}
	run := n.Children[0]
	if trimmed, ok := strings.CutPrefix(run.Value, ">"); ok {
		run.Value = strings.TrimPrefix(trimmed, " ")
	}
}

func (p *parser) figure(l line) *ast.Node {
	kw := l.first()
	p.pos++

	n := ast.New(ast.NodeFigure, posOf(kw))
	n.End = l.end()
	if len(l.toks) > 1 {
		ast.AppendInline(n, p.inline(l.toks[1:])...)
	}

	for p.hasDeeper(l.indent) {
		m := p.lines[p.pos]
		switch m.kind() {
		case token.KindSrc:
			p.pos++
			src := strings.TrimSpace(unescape(joinTokens(m.toks[1:])))
			if src == "" {
				p.errorAt(m.first(), diag.CategoryMissingContent, "%s requires a path or URL", m.first().Text)
				n.Flagged = true
			}
			n.URL = src
			n.End = m.end()
			p.unexpectedChildren(m, "src: cannot contain nested content")
		case token.KindCaption:
			p.pos++
			if len(m.toks) == 1 {
				p.errorAt(m.first(), diag.CategoryMissingContent, "%s requires text", m.first().Text)
				n.Flagged = true
			}
			n.Inline = nil
			ast.AppendInline(n, p.inline(m.toks[1:])...)
			p.unexpectedChildren(m, "caption: cannot contain nested content")
		default:
			ast.AppendChild(n, p.childError(m, diag.CategoryUnexpectedToken,
				"figure entries must start with src: or caption:"))
		}
	}
	return n
}

func (p *parser) directive(l line) *ast.Node {
	kw := l.first()
	p.pos++

	n := ast.New(ast.NodeDirective, posOf(kw))
	n.Name = strings.TrimSuffix(kw.Text[len(token.DirectivePrefix):], ":")
	ast.AppendInline(n, p.inline(l.toks[1:])...)
	ast.AppendChild(n, p.blocks(l.indent, true)...)

	if !n.HasChildren() {
		return p.fail(kw, diag.CategoryMissingContent, "%s requires inline content or an indented block", kw.Text)
	}
	if n.Name == "" {
		n.Kind = ast.NodeInvalid
		n.Name = ReasonDirectiveName
		n.Flagged = true
	}
	return n
}

func (p *parser) callout(l line) *ast.Node {
	kw := l.first()
	p.pos++

	n := ast.New(ast.NodeCallout, posOf(kw))
	switch kw.Kind {
	case token.KindWarn:
		n.Name = "warn"
	case token.KindTip:
		n.Name = "tip"
	default:
		n.Name = "note"
	}
	ast.AppendInline(n, p.inline(l.toks[1:])...)
	ast.AppendChild(n, p.blocks(l.indent, true)...)

	if !n.HasChildren() {
		return p.fail(kw, diag.CategoryMissingContent, "%s requires content", kw.Text)
	}
	return n
}

// childError reports a bad entry inside a container, skips its scope and
// returns a placeholder for it.
func (p *parser) childError(m line, cat diag.Category, format string, args ...any) *ast.Node {
	start := p.pos
	p.errorAt(m.first(), cat, format, args...)
	p.pos++
	p.skipDeeper(m.indent, m.opensRaw())
	return p.placeholder(start, string(cat))
}

// unexpectedChildren reports and skips lines nested under an entry that
// takes no nested content.
func (p *parser) unexpectedChildren(m line, msg string) *ast.Node {
	next, ok := p.peek()
	if !ok || next.indent <= m.indent {
		return nil
	}
	start := p.pos
	p.errorAt(next.first(), diag.CategoryUnexpectedToken, "%s", msg)
	p.skipDeeper(m.indent, false)
	return p.placeholder(start, string(diag.CategoryUnexpectedToken))
}

func countKind(nodes []*ast.Node, kind ast.NodeKind) int {
	count := 0
	for _, n := range nodes {
		if n.Kind == kind {
			count++
		}
	}
	return count
}

func firstMarker(items []*ast.Node) token.Kind {
	for _, item := range items {
		if item.Kind != ast.NodeListItem {
			continue
		}
		if item.Marker == "-" {
			return token.KindBullet
		}
		return token.KindOrdered
	}
	return token.KindIllegal
}

// clip shortens text for use in a diagnostic message.
func clip(text string) string {
	const maxLen = 40
	if len(text) <= maxLen {
		return text
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

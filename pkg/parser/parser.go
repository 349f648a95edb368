// Package parser builds an ast.Node tree from a token stream.
//
// The parser is recursive descent with one rule per block keyword. A block's
// scope is the run of following lines indented deeper than its opener. In
// ModeRecord every error is recorded and parsing resumes at the next line
// that is not deeper than the failing block; in ModeReport the first error
// aborts the parse.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/gonmc/pkg/ast"
	"github.com/yaklabco/gonmc/pkg/diag"
	"github.com/yaklabco/gonmc/pkg/token"
)

// DefaultMaxDepth is the nesting limit used when Options.MaxDepth is zero.
const DefaultMaxDepth = 256

// Mode selects how the parser reacts to errors.
type Mode uint8

const (
	// ModeRecord records every diagnostic and returns a best-effort tree.
	ModeRecord Mode = iota

	// ModeReport stops at the first error and returns no tree.
	ModeReport
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeRecord:
		return "record"
	case ModeReport:
		return "report"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode converts a mode name to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "record":
		return ModeRecord, nil
	case "report":
		return ModeReport, nil
	default:
		return ModeRecord, fmt.Errorf("unknown parse mode %q (expected record or report)", name)
	}
}

// ErrReport is matched by errors returned from a ModeReport parse that hit
// an error.
var ErrReport = errors.New("document rejected")

// Error carries the diagnostic that stopped a ModeReport parse.
type Error struct {
	Diagnostic diag.Diagnostic
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", ErrReport, e.Diagnostic.Error())
}

// Unwrap makes errors.Is(err, ErrReport) hold.
func (e *Error) Unwrap() error {
	return ErrReport
}

// Options configures a parse.
type Options struct {
	Mode Mode

	// MaxDepth bounds block and inline nesting. Zero means DefaultMaxDepth.
	MaxDepth int
}

// DefaultOptions returns record mode with the default depth limit.
func DefaultOptions() Options {
	return Options{Mode: ModeRecord, MaxDepth: DefaultMaxDepth}
}

// bailout is the panic value used to unwind a ModeReport parse.
type bailout struct {
	diag diag.Diagnostic
}

// Parse builds a document tree from tokens produced by the lexer.
//
// In ModeRecord the returned error is always nil. In ModeReport a failed
// parse returns a nil tree, the single diagnostic that stopped it and an
// *Error.
func Parse(tokens []token.Token, opts Options) (root *ast.Node, diags diag.List, err error) {
	p := newParser(tokens, opts)

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			root, diags, err = nil, diag.List{b.diag}, &Error{Diagnostic: b.diag}
		}
	}()

	root = p.document()
	return root, p.diags, nil
}

// line is one source line's tokens, without indentation, comment and
// newline tokens.
type line struct {
	indent int
	toks   []token.Token
}

func (l line) first() token.Token {
	return l.toks[0]
}

func (l line) kind() token.Kind {
	return l.toks[0].Kind
}

func (l line) isMarker() bool {
	return l.kind().IsListMarker()
}

func (l line) isPlain() bool {
	return l.kind().IsInline()
}

func (l line) opensRaw() bool {
	return l.toks[len(l.toks)-1].Kind == token.KindBlockOpen
}

func (l line) end() ast.Position {
	return endOf(l.toks[len(l.toks)-1])
}

func groupLines(tokens []token.Token) []line {
	var (
		lines []line
		cur   line
	)
	for _, tok := range tokens {
		switch tok.Kind {
		case token.KindIndent, token.KindComment:
		case token.KindNewline, token.KindEOF:
			if len(cur.toks) > 0 {
				lines = append(lines, cur)
			}
			cur = line{}
		default:
			if len(cur.toks) == 0 {
				cur.indent = tok.Indent
			}
			cur.toks = append(cur.toks, tok)
		}
	}
	if len(cur.toks) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

type parser struct {
	lines    []line
	pos      int
	mode     Mode
	maxDepth int
	depth    int
	headers  int
	diags    diag.List

	// failed is the category of the most recent block failure.
	failed diag.Category
}

func newParser(tokens []token.Token, opts Options) *parser {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &parser{
		lines:    groupLines(tokens),
		mode:     opts.Mode,
		maxDepth: maxDepth,
	}
}

func (p *parser) report(d diag.Diagnostic) {
	if p.mode == ModeReport && d.IsError() {
		panic(bailout{diag: d})
	}
	p.diags.Add(d.WithRecovered(true))
}

func (p *parser) errorAt(tok token.Token, cat diag.Category, format string, args ...any) {
	p.report(diag.Errorf(cat, tok.Line, tok.Column, format, args...))
}

// fail reports a block-level error and returns nil so the caller can
// recover at the block's indentation.
func (p *parser) fail(tok token.Token, cat diag.Category, format string, args ...any) *ast.Node {
	p.errorAt(tok, cat, format, args...)
	p.failed = cat
	return nil
}

func (p *parser) peek() (line, bool) {
	if p.pos >= len(p.lines) {
		return line{}, false
	}
	return p.lines[p.pos], true
}

// hasDeeper reports whether the next line is indented deeper than indent.
func (p *parser) hasDeeper(indent int) bool {
	next, ok := p.peek()
	return ok && next.indent > indent
}

// skipDeeper advances past lines deeper than indent. Raw lines and the
// close of a raw block that was open when skipping started are skipped too.
func (p *parser) skipDeeper(indent int, inRaw bool) {
	for p.pos < len(p.lines) {
		l := p.lines[p.pos]
		switch {
		case l.kind() == token.KindRawLine:
		case inRaw && l.kind() == token.KindBlockClose:
			inRaw = false
		case l.indent > indent:
			inRaw = inRaw || l.opensRaw()
		default:
			return
		}
		p.pos++
	}
}

// placeholder builds a flagged invalid node holding the source text of
// lines[start:p.pos].
func (p *parser) placeholder(start int, reason string) *ast.Node {
	first := p.lines[start]
	n := ast.New(ast.NodeInvalid, posOf(first.first()))
	n.Name = reason
	n.Value = p.sourceText(start, p.pos)
	n.End = p.lines[max(start, p.pos-1)].end()
	n.Flagged = true
	return n
}

// sourceText reconstructs the text of lines[from:to], keeping indentation
// relative to the first line.
func (p *parser) sourceText(from, to int) string {
	base := p.lines[from].first().Column
	parts := make([]string, 0, to-from)
	for _, l := range p.lines[from:to] {
		pad := max(0, l.first().Column-base)
		parts = append(parts, strings.Repeat(" ", pad)+joinTokens(l.toks))
	}
	return strings.Join(parts, "\n")
}

// joinTokens reconstructs the source text covered by toks, which must all be
// on one line, restoring the spaces between them.
func joinTokens(toks []token.Token) string {
	if len(toks) == 0 {
		return ""
	}
	var sb strings.Builder
	col := toks[0].Column
	for _, tok := range toks {
		if tok.Column > col {
			sb.WriteString(strings.Repeat(" ", tok.Column-col))
		}
		sb.WriteString(tok.Text)
		col = tok.Column + len(tok.Text)
	}
	return sb.String()
}

func posOf(tok token.Token) ast.Position {
	return ast.Position{Line: tok.Line, Column: tok.Column}
}

func endOf(tok token.Token) ast.Position {
	return ast.Position{Line: tok.Line, Column: tok.Column + len(tok.Text)}
}

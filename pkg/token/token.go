// Package token defines the lexical vocabulary of nomenic documents.
package token

import "fmt"

// Kind classifies a token.
type Kind uint16

// Token kinds. The set is closed: the lexer never produces a kind outside it.
const (
	KindIllegal Kind = iota
	KindEOF
	KindNewline
	KindIndent
	KindComment

	// Block keywords.
	KindMeta
	KindHeader
	KindText
	KindList
	KindCode
	KindTable
	KindDefList
	KindDefTerm
	KindDefDesc
	KindBlockquote
	KindFigure
	KindSrc
	KindCaption
	KindNote
	KindWarn
	KindTip
	KindDirective // x-name:

	// Structural markers.
	KindBullet     // -
	KindOrdered    // 1. a. iv.
	KindBlockOpen  // >>>
	KindBlockClose // <<<
	KindRawLine    // verbatim line between >>> and <<<
	KindCodeLine   // verbatim line of a code block

	// Inline group openers. Each is followed by the group's inner tokens and
	// a KindClose. Code spans, links and braces carry their inner text as a
	// single KindLiteral.
	KindParen    // (
	KindBracket  // [
	KindBrace    // {
	KindBold     // @b( @bold(
	KindItalic   // @i( @italic(
	KindCodeSpan // @c( @code(
	KindLink     // @l( @link(
	KindClose    // ) ] }
	KindEscape   // \x

	KindLiteral
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = [...]string{
	KindIllegal:    "Illegal",
	KindEOF:        "EOF",
	KindNewline:    "Newline",
	KindIndent:     "Indent",
	KindComment:    "Comment",
	KindMeta:       "Meta",
	KindHeader:     "Header",
	KindText:       "Text",
	KindList:       "List",
	KindCode:       "Code",
	KindTable:      "Table",
	KindDefList:    "DefList",
	KindDefTerm:    "DefTerm",
	KindDefDesc:    "DefDesc",
	KindBlockquote: "Blockquote",
	KindFigure:     "Figure",
	KindSrc:        "Src",
	KindCaption:    "Caption",
	KindNote:       "Note",
	KindWarn:       "Warn",
	KindTip:        "Tip",
	KindDirective:  "Directive",
	KindBullet:     "Bullet",
	KindOrdered:    "Ordered",
	KindBlockOpen:  "BlockOpen",
	KindBlockClose: "BlockClose",
	KindRawLine:    "RawLine",
	KindCodeLine:   "CodeLine",
	KindParen:      "Paren",
	KindBracket:    "Bracket",
	KindBrace:      "Brace",
	KindBold:       "Bold",
	KindItalic:     "Italic",
	KindCodeSpan:   "CodeSpan",
	KindLink:       "Link",
	KindClose:      "Close",
	KindEscape:     "Escape",
	KindLiteral:    "Literal",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsKeyword reports whether k is a block keyword or a directive.
func (k Kind) IsKeyword() bool {
	return k >= KindMeta && k <= KindDirective
}

// IsCallout reports whether k opens a note, warn or tip block.
func (k Kind) IsCallout() bool {
	switch k {
	case KindNote, KindWarn, KindTip:
		return true
	default:
		return false
	}
}

// IsListMarker reports whether k is an unordered or ordered item marker.
func (k Kind) IsListMarker() bool {
	return k == KindBullet || k == KindOrdered
}

// IsInline reports whether k can appear inside inline content.
func (k Kind) IsInline() bool {
	switch k {
	case KindParen, KindBracket, KindBrace, KindBold, KindItalic, KindCodeSpan,
		KindLink, KindClose, KindEscape, KindLiteral, KindIllegal:
		return true
	default:
		return false
	}
}

// IsGroupOpen reports whether k opens an inline group closed by KindClose.
func (k Kind) IsGroupOpen() bool {
	return k >= KindParen && k <= KindLink
}

// Token is one lexical unit. Tokens are values and are never mutated after
// the lexer returns them.
type Token struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`

	// Line and Column are 1-based; Column is a byte offset within the line.
	Line   int `json:"line"`
	Column int `json:"column"`

	// Indent is the indentation depth, in units, of the token's line.
	Indent int `json:"indent"`
}

// String renders the token for debugging output.
func (t Token) String() string {
	return fmt.Sprintf("%d:%d %s %q", t.Line, t.Column, t.Kind, t.Text)
}

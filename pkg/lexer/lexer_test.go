package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gonmc/pkg/diag"
	"github.com/yaklabco/gonmc/pkg/lexer"
	"github.com/yaklabco/gonmc/pkg/token"
)

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Kind)
	}
	return out
}

func categories(list diag.List) []diag.Category {
	out := make([]diag.Category, 0, len(list))
	for _, d := range list {
		out = append(out, d.Category)
	}
	return out
}

func TestTokenizeHeaderWithText(t *testing.T) {
	t.Parallel()

	tokens, diags := lexer.Tokenize("header: Title\n  text: Hello\n")
	require.Empty(t, diags)

	expected := []token.Token{
		{Kind: token.KindHeader, Text: "header:", Line: 1, Column: 1},
		{Kind: token.KindLiteral, Text: "Title", Line: 1, Column: 9},
		{Kind: token.KindNewline, Text: "\n", Line: 1, Column: 14},
		{Kind: token.KindIndent, Text: "  ", Line: 2, Column: 1, Indent: 1},
		{Kind: token.KindText, Text: "text:", Line: 2, Column: 3, Indent: 1},
		{Kind: token.KindLiteral, Text: "Hello", Line: 2, Column: 9, Indent: 1},
		{Kind: token.KindNewline, Text: "\n", Line: 2, Column: 14, Indent: 1},
		{Kind: token.KindEOF, Line: 3, Column: 1},
	}
	assert.Equal(t, expected, tokens)
}

func TestTokenizeAlwaysEndsWithEOF(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "\n\n", "   ", "# only a comment"} {
		tokens, _ := lexer.Tokenize(input)
		require.NotEmpty(t, tokens, "input %q", input)
		assert.Equal(t, token.KindEOF, tokens[len(tokens)-1].Kind, "input %q", input)
	}
}

func TestTokenizeKeywords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		kind  token.Kind
	}{
		{name: "alias", input: "h: Title", kind: token.KindHeader},
		{name: "upper case", input: "TEXT: hi", kind: token.KindText},
		{name: "directive", input: "x-custom: value", kind: token.KindDirective},
		{name: "empty directive name", input: "x-: value", kind: token.KindDirective},
		{name: "keyword at end of line", input: "list:", kind: token.KindList},
		{name: "callout", input: "warn: careful", kind: token.KindWarn},
		{name: "unknown name is text", input: "Warning: careful", kind: token.KindLiteral},
		{name: "colon without space is text", input: "http://example.com", kind: token.KindLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens, diags := lexer.Tokenize(tt.input)
			assert.Empty(t, diags)
			require.NotEmpty(t, tokens)
			assert.Equal(t, tt.kind, tokens[0].Kind)
		})
	}
}

func TestTokenizeIndentation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		depth  int
		column int
	}{
		{name: "odd spaces round down", input: "   text: a", depth: 1, column: 1},
		{name: "single space", input: " text: a", depth: 0, column: 1},
		{name: "tab", input: "\ttext: a", depth: 0, column: 1},
		{name: "tab after spaces", input: "  \ttext: a", depth: 1, column: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens, diags := lexer.Tokenize(tt.input)
			require.Len(t, diags, 1)
			assert.Equal(t, diag.CategoryIndentation, diags[0].Category)
			assert.Equal(t, diag.SeverityError, diags[0].Severity)
			assert.Equal(t, 1, diags[0].Line)
			assert.Equal(t, tt.column, diags[0].Column)
			assert.True(t, diags[0].Recovered)

			for _, tok := range tokens {
				if tok.Kind == token.KindText {
					assert.Equal(t, tt.depth, tok.Indent)
				}
			}
		})
	}
}

func TestTokenizeBlankLinesAndComments(t *testing.T) {
	t.Parallel()

	tokens, diags := lexer.Tokenize("# note to self\n\n   \ntext: a\n")
	assert.Empty(t, diags)
	assert.Equal(t, []token.Kind{
		token.KindComment, token.KindNewline,
		token.KindText, token.KindLiteral, token.KindNewline,
		token.KindEOF,
	}, kinds(tokens))
	assert.Equal(t, 4, tokens[2].Line)
}

func TestTokenizeRawBlock(t *testing.T) {
	t.Parallel()

	input := "text:\n>>>\nfirst line\n\n  indented\n<<<\n"
	tokens, diags := lexer.Tokenize(input)
	require.Empty(t, diags)

	assert.Equal(t, []token.Kind{
		token.KindText, token.KindNewline,
		token.KindBlockOpen, token.KindNewline,
		token.KindRawLine, token.KindNewline,
		token.KindRawLine, token.KindNewline,
		token.KindRawLine, token.KindNewline,
		token.KindBlockClose, token.KindNewline,
		token.KindEOF,
	}, kinds(tokens))
	assert.Equal(t, "first line", tokens[4].Text)
	assert.Empty(t, tokens[6].Text)
	assert.Equal(t, "  indented", tokens[8].Text)
	assert.Equal(t, "<<<", tokens[10].Text)
	assert.Equal(t, 6, tokens[10].Line)
}

func TestTokenizeRawBlockStripsOpenerIndentation(t *testing.T) {
	t.Parallel()

	tokens, diags := lexer.Tokenize("  text: >>>\n  keep  this\n  <<<\n")
	require.Empty(t, diags)

	var raw []string
	for _, tok := range tokens {
		if tok.Kind == token.KindRawLine {
			raw = append(raw, tok.Text)
		}
	}
	assert.Equal(t, []string{"keep  this"}, raw)
}

func TestTokenizeUnterminatedRawBlock(t *testing.T) {
	t.Parallel()

	tokens, diags := lexer.Tokenize("text:\n>>>\nnever closed\nheader: not a header\n")
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CategoryUnterminatedBlock, diags[0].Category)
	assert.Equal(t, 2, diags[0].Line)
	assert.Equal(t, 1, diags[0].Column)

	var closes []token.Token
	for _, tok := range tokens {
		switch tok.Kind {
		case token.KindBlockClose:
			closes = append(closes, tok)
		case token.KindHeader:
			t.Errorf("raw content was tokenized as a keyword: %v", tok)
		}
	}
	require.Len(t, closes, 1)
	assert.Empty(t, closes[0].Text, "synthesized close has no text")
	assert.Equal(t, token.KindEOF, tokens[len(tokens)-1].Kind)
}

func TestTokenizeStrayClose(t *testing.T) {
	t.Parallel()

	tokens, diags := lexer.Tokenize("<<<")
	assert.Empty(t, diags)
	assert.Equal(t, token.KindBlockClose, tokens[0].Kind)
}

func TestTokenizeCodeBlock(t *testing.T) {
	t.Parallel()

	input := "code: python\n  def f():\n\n      pass\n\ntext: after\n"
	tokens, diags := lexer.Tokenize(input)
	require.Empty(t, diags)

	assert.Equal(t, []token.Kind{
		token.KindCode, token.KindLiteral, token.KindNewline,
		token.KindCodeLine, token.KindNewline,
		token.KindCodeLine, token.KindNewline,
		token.KindCodeLine, token.KindNewline,
		token.KindText, token.KindLiteral, token.KindNewline,
		token.KindEOF,
	}, kinds(tokens))

	assert.Equal(t, "python", tokens[1].Text)
	assert.Equal(t, "def f():", tokens[3].Text)
	assert.Equal(t, 3, tokens[3].Column)
	assert.Empty(t, tokens[5].Text)
	assert.Equal(t, "    pass", tokens[7].Text)
	assert.Equal(t, 1, tokens[7].Indent)
}

func TestTokenizeCodeLinesSkipIndentationChecks(t *testing.T) {
	t.Parallel()

	_, diags := lexer.Tokenize("code:\n   odd\n\tx := 1\n")
	assert.Empty(t, diags)
}

func TestTokenizeNestedCodeBlock(t *testing.T) {
	t.Parallel()

	tokens, diags := lexer.Tokenize("header: H\n  code: go\n    x := 1\n  text: t\n")
	require.Empty(t, diags)

	var code []token.Token
	for _, tok := range tokens {
		if tok.Kind == token.KindCodeLine {
			code = append(code, tok)
		}
	}
	require.Len(t, code, 1)
	assert.Equal(t, "x := 1", code[0].Text)
	assert.Equal(t, 2, code[0].Indent)
}

func TestTokenizeListMarkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		kind   token.Kind
		marker string
	}{
		{input: "- item", kind: token.KindBullet, marker: "-"},
		{input: "-", kind: token.KindBullet, marker: "-"},
		{input: "12. item", kind: token.KindOrdered, marker: "12."},
		{input: "b. item", kind: token.KindOrdered, marker: "b."},
		{input: "iv. item", kind: token.KindOrdered, marker: "iv."},
		{input: "XII. item", kind: token.KindOrdered, marker: "XII."},
		{input: "e.g. not a marker", kind: token.KindLiteral, marker: "e.g. not a marker"},
		{input: "--- rule", kind: token.KindLiteral, marker: "--- rule"},
		{input: "word. sentence", kind: token.KindLiteral, marker: "word. sentence"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			tokens, diags := lexer.Tokenize(tt.input)
			assert.Empty(t, diags)
			assert.Equal(t, tt.kind, tokens[0].Kind)
			assert.Equal(t, tt.marker, tokens[0].Text)
		})
	}
}

func TestTokenizeMarkerContentColumn(t *testing.T) {
	t.Parallel()

	tokens, _ := lexer.Tokenize("  -   spaced")
	require.GreaterOrEqual(t, len(tokens), 3)
	assert.Equal(t, token.KindBullet, tokens[1].Kind)
	assert.Equal(t, 3, tokens[1].Column)
	assert.Equal(t, "spaced", tokens[2].Text)
	assert.Equal(t, 7, tokens[2].Column)
}

func TestTokenizeInlineGroups(t *testing.T) {
	t.Parallel()

	tokens, diags := lexer.Tokenize(`text: a @b(bold @i(x)) (note) [ref] {k=v} @c(f(1)) @l(site, https://x.io)`)
	require.Empty(t, diags)

	assert.Equal(t, []token.Kind{
		token.KindText,
		token.KindLiteral, // "a "
		token.KindBold, token.KindLiteral, token.KindItalic, token.KindLiteral, token.KindClose, token.KindClose,
		token.KindLiteral,
		token.KindParen, token.KindLiteral, token.KindClose,
		token.KindLiteral,
		token.KindBracket, token.KindLiteral, token.KindClose,
		token.KindLiteral,
		token.KindBrace, token.KindLiteral, token.KindClose,
		token.KindLiteral,
		token.KindCodeSpan, token.KindLiteral, token.KindClose,
		token.KindLiteral,
		token.KindLink, token.KindLiteral, token.KindClose,
		token.KindNewline,
		token.KindEOF,
	}, kinds(tokens))

	assert.Equal(t, "@b(", tokens[2].Text)
	assert.Equal(t, 9, tokens[2].Column)
	assert.Equal(t, "bold ", tokens[3].Text)
	assert.Equal(t, 12, tokens[3].Column)
	assert.Equal(t, "f(1)", tokens[22].Text)
	assert.Equal(t, "site, https://x.io", tokens[26].Text)
}

func TestTokenizeEscapes(t *testing.T) {
	t.Parallel()

	tokens, diags := lexer.Tokenize(`text: \@ and \q`)

	require.Len(t, diags, 1)
	assert.Equal(t, diag.CategoryUnknownEscape, diags[0].Category)
	assert.Equal(t, diag.SeverityWarning, diags[0].Severity)
	assert.Equal(t, 14, diags[0].Column)

	assert.Equal(t, []token.Kind{
		token.KindText,
		token.KindEscape, token.KindLiteral,
		token.KindNewline, token.KindEOF,
	}, kinds(tokens))
	assert.Equal(t, `\@`, tokens[1].Text)
	assert.Equal(t, ` and \q`, tokens[2].Text)
}

func TestTokenizeUnclosedStyle(t *testing.T) {
	t.Parallel()

	tokens, diags := lexer.Tokenize("text: This has @b(unclosed style")

	require.Len(t, diags, 1)
	assert.Equal(t, diag.CategoryUnclosedDelimiter, diags[0].Category)
	assert.Equal(t, diag.ClassSyntactic, diags[0].Category.Class())
	assert.Equal(t, 1, diags[0].Line)
	assert.Equal(t, 33, diags[0].Column, "reported at end of line")

	assert.Equal(t, []token.Kind{
		token.KindText, token.KindLiteral, token.KindIllegal, token.KindNewline, token.KindEOF,
	}, kinds(tokens))
	assert.Equal(t, "This has ", tokens[1].Text)
	assert.Equal(t, "@b(unclosed style", tokens[2].Text)
}

func TestTokenizeCRLF(t *testing.T) {
	t.Parallel()

	tokens, diags := lexer.Tokenize("header: A\r\n  text: b\r\n")
	require.Empty(t, diags)
	assert.Equal(t, "A", tokens[1].Text)
	assert.Equal(t, "b", tokens[5].Text)
}

func TestTokenizeCustomKeywords(t *testing.T) {
	t.Parallel()

	lx := lexer.New(token.NewKeywordTable(token.Keyword{Name: "titel", Kind: token.KindHeader}))
	tokens, _ := lexer.Tokenize("titel: x")
	assert.Equal(t, token.KindLiteral, tokens[0].Kind, "default table does not know the keyword")

	tokens, _ = lx.Tokenize("titel: x")
	assert.Equal(t, token.KindHeader, tokens[0].Kind)
}

func TestTokenizeReportsEveryProblem(t *testing.T) {
	t.Parallel()

	tokens, diags := lexer.Tokenize("text: a\n   b \\q (x\n")
	assert.Equal(t, []diag.Category{
		diag.CategoryIndentation,
		diag.CategoryUnknownEscape,
		diag.CategoryUnclosedDelimiter,
	}, categories(diags))
	assert.Equal(t, token.KindEOF, tokens[len(tokens)-1].Kind)
}

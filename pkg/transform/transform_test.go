package transform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gonmc/pkg/ast"
	"github.com/yaklabco/gonmc/pkg/lexer"
	"github.com/yaklabco/gonmc/pkg/parser"
	"github.com/yaklabco/gonmc/pkg/transform"
)

//nolint:gochecknoglobals // Shared read-only test inputs.
var corpus = []string{
	"header: Title\n  text: Hello\n",
	"list:\n  - Item 1\n  Item 2\n  - Item 3\n",
	"code: python\n  def f():\n      pass\n",
	"text: This has @b(unclosed style\n",
	"x-custom: value\nx-: value\n",
	"text: first\n  second @b(x)\n  third\n",
	"meta: title=A\nmeta: title=B, version=1\ntext: body\n",
	"blockquote:\n  > To be\n  > or not\n",
	"text:\n>>>\n  raw  \n\n<<<\n",
	"header:   \n  text: lost\ntext: kept   \n",
	"note: @b(  ) lead  \n  - a\n  - b\n",
	"def-list:\n  dt: T\n  dd: D\n  dd:\n",
}

func parse(t *testing.T, src string) *ast.Node {
	t.Helper()
	tokens, _ := lexer.Tokenize(src)
	root, _, err := parser.Parse(tokens, parser.DefaultOptions())
	require.NoError(t, err)
	return root
}

func pos(line, col int) ast.Position {
	return ast.Position{Line: line, Column: col}
}

func run(value string, line, col int) *ast.Node {
	return ast.NewRun(value, pos(line, col), pos(line, col+len(value)))
}

func TestNormalizeHeaderWithText(t *testing.T) {
	t.Parallel()

	doc := transform.Normalize(parse(t, "header: Title\n  text: Hello\n"))

	require.Len(t, doc.Children, 1)
	header := doc.Children[0]
	require.Len(t, header.Inline, 1)
	assert.Equal(t, "Title", header.Inline[0].Value)

	require.Len(t, header.Children, 1)
	text := header.Children[0]
	assert.True(t, text.IsPlainRun())
	assert.Equal(t, "Hello", text.Value)
	assert.Equal(t, pos(2, 3), text.Pos)
}

func TestNormalizeTrimsInlineEdges(t *testing.T) {
	t.Parallel()

	bold := ast.New(ast.NodeBold, pos(1, 10))
	ast.AppendChild(bold, run("x", 1, 13), run("", 1, 14))

	text := ast.New(ast.NodeText, pos(1, 1))
	ast.AppendChild(text, run("  ", 1, 1), run("  lead ", 1, 3), bold, run(" tail  ", 1, 15), run(" ", 1, 22))

	doc := ast.NewDocument()
	ast.AppendChild(doc, text)

	out := transform.Normalize(doc)
	require.Len(t, out.Children, 1)
	got := out.Children[0]
	require.Len(t, got.Children, 3)
	assert.Equal(t, "lead ", got.Children[0].Value)
	assert.Equal(t, ast.NodeBold, got.Children[1].Kind)
	assert.Len(t, got.Children[1].Children, 1, "empty runs are dropped inside styles")
	assert.Equal(t, " tail", got.Children[2].Value)
}

func TestNormalizeBlockRuns(t *testing.T) {
	t.Parallel()

	flagged := run("   ", 3, 1)
	flagged.Flagged = true

	doc := ast.NewDocument()
	ast.AppendChild(doc,
		run("   ", 1, 1),
		run("  two  \n  lines  \n", 2, 1),
		flagged,
		ast.New(ast.NodeBlockquote, pos(4, 1)),
	)

	out := transform.Normalize(doc)
	require.Len(t, out.Children, 3)
	assert.Equal(t, "two\n  lines", out.Children[0].Value)
	assert.True(t, out.Children[1].Flagged, "flagged nodes survive")
	assert.Equal(t, ast.NodeBlockquote, out.Children[2].Kind, "empty containers survive")
}

func TestNormalizeCollapsesTextWrapper(t *testing.T) {
	t.Parallel()

	doc := transform.Normalize(parse(t, "text: first\n  second\n"))
	require.Len(t, doc.Children, 1)
	assert.False(t, doc.Children[0].IsPlainRun(), "two runs stay wrapped until the optimizer merges them")

	doc = transform.Optimize(doc)
	doc = transform.Normalize(doc)
	require.Len(t, doc.Children, 1)
	assert.True(t, doc.Children[0].IsPlainRun())
	assert.Equal(t, "first\nsecond", doc.Children[0].Value)
}

func TestNormalizeMergesAdjacentMeta(t *testing.T) {
	t.Parallel()

	doc := transform.Normalize(parse(t, "meta: title=A\nmeta: title=B, version=1\ntext: body\nmeta: lang=en\n"))

	assert.Equal(t, []ast.NodeKind{ast.NodeMeta, ast.NodeText, ast.NodeMeta}, kinds(doc.Children))

	first := doc.Children[0]
	title, _ := first.Pair("title")
	assert.Equal(t, "A", title)
	version, ok := first.Pair("version")
	assert.True(t, ok)
	assert.Equal(t, "1", version)
	assert.Equal(t, 2, first.End.Line)

	lang, ok := doc.Children[2].Pair("lang")
	assert.True(t, ok)
	assert.Equal(t, "en", lang)
}

func TestNormalizeKeepsInvalidNodes(t *testing.T) {
	t.Parallel()

	doc := transform.Normalize(parse(t, "list:\n  - Item 1\n  Item 2\n  - Item 3\n"))
	list := doc.Children[0]
	assert.Equal(t, []ast.NodeKind{ast.NodeListItem, ast.NodeInvalid, ast.NodeListItem}, kinds(list.Children))
	assert.Equal(t, "Item 2", list.Children[1].Value)
	assert.True(t, list.Children[1].Flagged)
}

func TestNormalizeDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	for _, src := range corpus {
		root := parse(t, src)
		before := ast.Clone(root)
		_ = transform.Normalize(root)
		_ = transform.Optimize(root)
		assert.True(t, ast.Equal(before, root), "input modified for %q", src)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	for _, src := range corpus {
		once := transform.Normalize(parse(t, src))
		twice := transform.Normalize(once)
		assert.True(t, ast.Equal(once, twice), "normalize is not idempotent for %q", src)
	}
}

func TestNormalizeNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, transform.Normalize(nil))
	assert.Nil(t, transform.Optimize(nil))
}

func TestOptimizeMergesRuns(t *testing.T) {
	t.Parallel()

	bold := ast.New(ast.NodeBold, pos(1, 6))
	ast.AppendChild(bold, run("b", 1, 9))

	text := ast.New(ast.NodeText, pos(1, 1))
	ast.AppendChild(text, run("a", 1, 1), run("b ", 1, 2), bold, run("c", 2, 3), run("d", 3, 3))

	doc := ast.NewDocument()
	ast.AppendChild(doc, text)

	out := transform.Optimize(doc)
	got := out.Children[0]
	require.Equal(t, []ast.NodeKind{ast.NodeText, ast.NodeBold, ast.NodeText}, kinds(got.Children))
	assert.Equal(t, "ab ", got.Children[0].Value)
	assert.Equal(t, pos(1, 1), got.Children[0].Pos)
	assert.Equal(t, pos(1, 4), got.Children[0].End)
	assert.Equal(t, "c\nd", got.Children[2].Value)
	assert.Equal(t, pos(2, 3), got.Children[2].Pos)
	assert.Equal(t, pos(3, 4), got.Children[2].End)
}

func TestOptimizeContinuationLines(t *testing.T) {
	t.Parallel()

	doc := transform.Optimize(transform.Normalize(parse(t, "text: first\n  second @b(x)\n  third\n")))

	text := doc.Children[0]
	require.Equal(t, []ast.NodeKind{ast.NodeText, ast.NodeBold, ast.NodeText}, kinds(text.Children))
	assert.Equal(t, "first\nsecond ", text.Children[0].Value)
	assert.Equal(t, "\nthird", text.Children[2].Value)
	assert.Equal(t, "first\nsecond x\nthird", ast.PlainText(text))
}

func TestOptimizeCollapsesMergedWrapper(t *testing.T) {
	t.Parallel()

	doc := transform.Optimize(transform.Normalize(parse(t, "header: T\n  text:   spaced  \n    more  \n")))

	header := doc.Children[0]
	require.Len(t, header.Children, 1)
	para := header.Children[0]
	assert.True(t, para.IsPlainRun())
	assert.Equal(t, "spaced\nmore", para.Value)
	assert.Equal(t, 2, para.Pos.Line)
}

func TestOptimizeIsIdempotentAndClosed(t *testing.T) {
	t.Parallel()

	for _, src := range corpus {
		once := transform.Optimize(transform.Normalize(parse(t, src)))
		twice := transform.Optimize(once)
		assert.True(t, ast.Equal(once, twice), "optimize is not idempotent for %q", src)

		ast.Inspect(once, func(n *ast.Node) bool {
			for _, seq := range [][]*ast.Node{n.Inline, n.Children} {
				for i := 1; i < len(seq); i++ {
					assert.False(t, seq[i-1].IsPlainRun() && seq[i].IsPlainRun(),
						"adjacent runs left under %s in %q", n.Kind, src)
				}
			}
			if n.Kind == ast.NodeText && len(n.Children) == 1 && len(n.Inline) == 0 {
				assert.False(t, n.Children[0].IsPlainRun(), "text wrapper around one run in %q", src)
			}
			return true
		})
	}
}

func TestOptimizePreservesOrder(t *testing.T) {
	t.Parallel()

	// Text nodes are left out: merging may collapse a wrapper into its run.
	structural := func(root *ast.Node) []ast.NodeKind {
		var out []ast.NodeKind
		ast.Inspect(root, func(n *ast.Node) bool {
			if n.Kind != ast.NodeText {
				out = append(out, n.Kind)
			}
			return true
		})
		return out
	}

	for _, src := range corpus {
		normalized := transform.Normalize(parse(t, src))
		optimized := transform.Optimize(normalized)
		assert.Equal(t, structural(normalized), structural(optimized), "order changed for %q", src)
	}
}

func kinds(nodes []*ast.Node) []ast.NodeKind {
	out := make([]ast.NodeKind, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Kind)
	}
	return out
}

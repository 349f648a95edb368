package ast_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gonmc/pkg/ast"
)

func pos(line, col int) ast.Position {
	return ast.Position{Line: line, Column: col}
}

// sample builds:
//
//	header: Title
//	  text: a @b(bold) c
//	  list:
//	    - item
func sample() *ast.Node {
	doc := ast.NewDocument()

	header := ast.New(ast.NodeHeader, pos(1, 1))
	header.Level = 1
	ast.AppendInline(header, ast.NewRun("Title", pos(1, 9), pos(1, 14)))

	text := ast.New(ast.NodeText, pos(2, 3))
	bold := ast.New(ast.NodeBold, pos(2, 11))
	ast.AppendChild(bold, ast.NewRun("bold", pos(2, 14), pos(2, 18)))
	ast.AppendChild(text,
		ast.NewRun("a ", pos(2, 9), pos(2, 11)),
		bold,
		ast.NewRun(" c", pos(2, 19), pos(2, 21)),
	)

	list := ast.New(ast.NodeList, pos(3, 3))
	item := ast.New(ast.NodeListItem, pos(4, 5))
	item.Marker = "-"
	ast.AppendInline(item, ast.NewRun("item", pos(4, 7), pos(4, 11)))
	ast.AppendChild(list, item)

	ast.AppendChild(header, text, list)
	ast.AppendChild(doc, header)
	return doc
}

type recorder struct {
	kinds []ast.NodeKind
	skip  ast.NodeKind
}

func (r *recorder) visit(n *ast.Node) ast.Action {
	r.kinds = append(r.kinds, n.Kind)
	if n.Kind == r.skip {
		return ast.Skip
	}
	return ast.Descend
}

func (r *recorder) VisitDocument(n *ast.Node) ast.Action   { return r.visit(n) }
func (r *recorder) VisitMeta(n *ast.Node) ast.Action       { return r.visit(n) }
func (r *recorder) VisitHeader(n *ast.Node) ast.Action     { return r.visit(n) }
func (r *recorder) VisitText(n *ast.Node) ast.Action       { return r.visit(n) }
func (r *recorder) VisitList(n *ast.Node) ast.Action       { return r.visit(n) }
func (r *recorder) VisitListItem(n *ast.Node) ast.Action   { return r.visit(n) }
func (r *recorder) VisitCode(n *ast.Node) ast.Action       { return r.visit(n) }
func (r *recorder) VisitTable(n *ast.Node) ast.Action      { return r.visit(n) }
func (r *recorder) VisitTableRow(n *ast.Node) ast.Action   { return r.visit(n) }
func (r *recorder) VisitDefList(n *ast.Node) ast.Action    { return r.visit(n) }
func (r *recorder) VisitDefTerm(n *ast.Node) ast.Action    { return r.visit(n) }
func (r *recorder) VisitDefDesc(n *ast.Node) ast.Action    { return r.visit(n) }
func (r *recorder) VisitBlockquote(n *ast.Node) ast.Action { return r.visit(n) }
func (r *recorder) VisitFigure(n *ast.Node) ast.Action     { return r.visit(n) }
func (r *recorder) VisitDirective(n *ast.Node) ast.Action  { return r.visit(n) }
func (r *recorder) VisitCallout(n *ast.Node) ast.Action    { return r.visit(n) }
func (r *recorder) VisitBold(n *ast.Node) ast.Action       { return r.visit(n) }
func (r *recorder) VisitItalic(n *ast.Node) ast.Action     { return r.visit(n) }
func (r *recorder) VisitCodeSpan(n *ast.Node) ast.Action   { return r.visit(n) }
func (r *recorder) VisitLink(n *ast.Node) ast.Action       { return r.visit(n) }
func (r *recorder) VisitAnnotation(n *ast.Node) ast.Action { return r.visit(n) }
func (r *recorder) VisitKeyValue(n *ast.Node) ast.Action   { return r.visit(n) }
func (r *recorder) VisitInvalid(n *ast.Node) ast.Action    { return r.visit(n) }

func TestAcceptDispatchesEveryKind(t *testing.T) {
	t.Parallel()

	for kind := ast.NodeDocument; kind <= ast.NodeInvalid; kind++ {
		rec := &recorder{skip: ast.NodeKind(255)}
		ast.Accept(ast.New(kind, pos(1, 1)), rec)
		assert.Equal(t, []ast.NodeKind{kind}, rec.kinds, "kind %s", kind)
	}
}

func TestAcceptDocumentOrder(t *testing.T) {
	t.Parallel()

	rec := &recorder{skip: ast.NodeKind(255)}
	ast.Accept(sample(), rec)

	assert.Equal(t, []ast.NodeKind{
		ast.NodeDocument,
		ast.NodeHeader,
		ast.NodeText, // title run
		ast.NodeText,
		ast.NodeText,
		ast.NodeBold,
		ast.NodeText,
		ast.NodeText,
		ast.NodeList,
		ast.NodeListItem,
		ast.NodeText,
	}, rec.kinds)
}

func TestAcceptSkip(t *testing.T) {
	t.Parallel()

	rec := &recorder{skip: ast.NodeHeader}
	ast.Accept(sample(), rec)
	assert.Equal(t, []ast.NodeKind{ast.NodeDocument, ast.NodeHeader}, rec.kinds)
}

type boldCounter struct {
	ast.BaseVisitor
	count int
}

func (b *boldCounter) VisitBold(*ast.Node) ast.Action {
	b.count++
	return ast.Descend
}

func TestBaseVisitorEmbedding(t *testing.T) {
	t.Parallel()

	counter := &boldCounter{}
	ast.Accept(sample(), counter)
	assert.Equal(t, 1, counter.count)
}

func TestWalkEnterLeave(t *testing.T) {
	t.Parallel()

	var order []string
	err := ast.Walk(sample(),
		func(n *ast.Node) error {
			order = append(order, "+"+n.Kind.String())
			if n.Kind == ast.NodeList {
				return ast.ErrSkipChildren
			}
			return nil
		},
		func(n *ast.Node) error {
			if n.Kind == ast.NodeList || n.Kind == ast.NodeDocument {
				order = append(order, "-"+n.Kind.String())
			}
			return nil
		},
	)
	require.NoError(t, err)
	assert.Contains(t, order, "+List")
	assert.Contains(t, order, "-List")
	assert.NotContains(t, order, "+ListItem")
	assert.Equal(t, "-Document", order[len(order)-1])
}

func TestFindHelpers(t *testing.T) {
	t.Parallel()

	doc := sample()
	assert.Len(t, ast.FindByKind(doc, ast.NodeText), 6)
	assert.Equal(t, 11, ast.Count(doc))

	first := ast.FindFirst(doc, func(n *ast.Node) bool { return n.Kind == ast.NodeListItem })
	require.NotNil(t, first)
	assert.Equal(t, "-", first.Marker)
	assert.Nil(t, ast.FindFirst(doc, func(n *ast.Node) bool { return n.Kind == ast.NodeCode }))
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	doc := sample()
	cp := ast.Clone(doc)
	require.True(t, ast.Equal(doc, cp))

	cp.Children[0].Inline[0].Value = "Changed"
	assert.Equal(t, "Title", doc.Children[0].Inline[0].Value)
	assert.False(t, ast.Equal(doc, cp))
}

func TestEqualTreatsNilAndEmptyAlike(t *testing.T) {
	t.Parallel()

	a := ast.New(ast.NodeList, pos(1, 1))
	b := ast.New(ast.NodeList, pos(1, 1))
	b.Children = []*ast.Node{}
	assert.True(t, ast.Equal(a, b))
	assert.False(t, ast.Equal(a, nil))
	assert.True(t, ast.Equal(nil, nil))
}

func TestRewriteDropsAndSplices(t *testing.T) {
	t.Parallel()

	doc := sample()
	out := ast.Rewrite(doc, func(n *ast.Node) []*ast.Node {
		if n.Kind == ast.NodeBold {
			return n.Children
		}
		if n.Kind == ast.NodeList {
			return nil
		}
		return []*ast.Node{n}
	})
	require.Len(t, out, 1)

	assert.Empty(t, ast.FindByKind(out[0], ast.NodeBold))
	assert.Empty(t, ast.FindByKind(out[0], ast.NodeList))
	assert.Equal(t, "a bold c", ast.PlainText(out[0].Children[0].Children[0]))

	assert.Len(t, ast.FindByKind(doc, ast.NodeBold), 1, "input is untouched")
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Titlea bold citem", ast.PlainText(sample()))
}

func TestHasFlagged(t *testing.T) {
	t.Parallel()

	doc := sample()
	assert.False(t, doc.HasFlagged())
	doc.Children[0].Children[1].Children[0].Flagged = true
	assert.True(t, doc.HasFlagged())
	assert.False(t, doc.Children[0].Children[0].HasFlagged())
}

func TestDump(t *testing.T) {
	t.Parallel()

	dump := ast.Dump(sample(), false)
	data, err := json.Marshal(dump)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"kind": "Document",
		"children": [{
			"kind": "Header",
			"level": 1,
			"inline": [{"kind": "Text", "value": "Title"}],
			"children": [
				{"kind": "Text", "children": [
					{"kind": "Text", "value": "a "},
					{"kind": "Bold", "children": [{"kind": "Text", "value": "bold"}]},
					{"kind": "Text", "value": " c"}
				]},
				{"kind": "List", "children": [
					{"kind": "ListItem", "marker": "-", "inline": [{"kind": "Text", "value": "item"}]}
				]}
			]
		}]
	}`, string(data))

	withPos := ast.Dump(sample(), true)
	assert.Equal(t, pos(1, 1), withPos["pos"])
}

func TestNodeKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ListItem", ast.NodeListItem.String())
	assert.Equal(t, "NodeKind(999)", ast.NodeKind(999).String())
}

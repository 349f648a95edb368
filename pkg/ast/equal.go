package ast

import (
	"slices"
	"strings"
)

// Equal reports whether two trees have the same shape, payload, positions
// and flags. Nil and empty slices compare equal.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Pos != b.Pos || a.End != b.End || a.Flagged != b.Flagged {
		return false
	}
	if !attrsEqual(&a.Attrs, &b.Attrs) {
		return false
	}
	return nodesEqual(a.Inline, b.Inline) && nodesEqual(a.Children, b.Children)
}

func nodesEqual(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func attrsEqual(a, b *Attrs) bool {
	return a.Value == b.Value &&
		a.Name == b.Name &&
		a.Level == b.Level &&
		a.Marker == b.Marker &&
		a.Ordered == b.Ordered &&
		a.Lang == b.Lang &&
		a.URL == b.URL &&
		a.Title == b.Title &&
		slices.Equal(a.Lines, b.Lines) &&
		slices.Equal(a.Cells, b.Cells) &&
		slices.Equal(a.Pairs, b.Pairs)
}

// Clone returns a deep copy of n.
func Clone(n *Node) *Node {
	out := Rewrite(n, func(m *Node) []*Node { return []*Node{m} })
	if len(out) == 0 {
		return nil
	}
	return out[0]
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

func clonePairs(p []KeyValue) []KeyValue {
	if p == nil {
		return nil
	}
	return slices.Clone(p)
}

// PlainText returns the textual content of n without markup: run values,
// code span and code block text, and link text, in document order.
func PlainText(n *Node) string {
	var sb strings.Builder
	Inspect(n, func(m *Node) bool {
		switch m.Kind {
		case NodeText, NodeInvalid, NodeCodeSpan:
			sb.WriteString(m.Value)
		case NodeCode:
			sb.WriteString(strings.Join(m.Lines, "\n"))
		case NodeTableRow:
			sb.WriteString(strings.Join(m.Cells, " "))
		default:
		}
		return true
	})
	return sb.String()
}

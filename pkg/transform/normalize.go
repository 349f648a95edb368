// Package transform canonicalizes parsed trees.
//
// Normalize removes incidental whitespace and grammar artifacts; Optimize
// merges adjacent text runs. Both return a new tree and leave their input
// untouched, and both are idempotent.
package transform

import (
	"strings"
	"unicode"

	"github.com/yaklabco/gonmc/pkg/ast"
)

// Normalize returns a canonical copy of root.
//
// Block-level text is trimmed and dropped when nothing remains, inline
// sequences lose empty runs and the whitespace at their edges, a text block
// holding a single run becomes that run, and adjacent meta blocks are merged
// into the first. Nodes that are flagged, or that contain a flagged node, are
// never dropped.
func Normalize(root *ast.Node) *ast.Node {
	out := ast.Rewrite(root, normalizeNode)
	if len(out) == 0 {
		return nil
	}
	return out[0]
}

// normalizeNode receives a copy whose subtrees are already normalized.
func normalizeNode(n *ast.Node) []*ast.Node {
	n.Inline = trimEdges(dropEmptyRuns(n.Inline))

	switch {
	case n.Kind == ast.NodeText && len(n.Children) > 0:
		n.Children = trimEdges(dropEmptyRuns(n.Children))
		if len(n.Children) == 1 && len(n.Inline) == 0 && n.Children[0].IsPlainRun() {
			return []*ast.Node{collapse(n)}
		}
	case holdsInline(n.Kind):
		n.Children = dropEmptyRuns(n.Children)
	default:
		n.Children = mergeMeta(trimBlockRuns(n.Children))
	}
	return []*ast.Node{n}
}

// holdsInline reports whether a node's children are inline runs rather than
// blocks.
func holdsInline(kind ast.NodeKind) bool {
	switch kind {
	case ast.NodeText, ast.NodeBold, ast.NodeItalic, ast.NodeAnnotation, ast.NodeLink:
		return true
	default:
		return false
	}
}

// collapse replaces a text wrapper by its only run. The run keeps the
// wrapper's span.
func collapse(wrapper *ast.Node) *ast.Node {
	run := wrapper.Children[0]
	run.Pos = wrapper.Pos
	run.End = wrapper.End
	run.Flagged = run.Flagged || wrapper.Flagged
	return run
}

func removable(n *ast.Node) bool {
	return n.IsPlainRun() && !n.Flagged
}

func dropEmptyRuns(nodes []*ast.Node) []*ast.Node {
	if nodes == nil {
		return nil
	}
	out := nodes[:0:0]
	for _, n := range nodes {
		if removable(n) && n.Value == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}

// trimEdges strips leading whitespace from the first run and trailing
// whitespace from the last, dropping edge runs that end up empty.
func trimEdges(nodes []*ast.Node) []*ast.Node {
	for len(nodes) > 0 && removable(nodes[0]) && strings.TrimSpace(nodes[0].Value) == "" {
		nodes = nodes[1:]
	}
	for len(nodes) > 0 && removable(nodes[len(nodes)-1]) && strings.TrimSpace(nodes[len(nodes)-1].Value) == "" {
		nodes = nodes[:len(nodes)-1]
	}
	if len(nodes) == 0 {
		return nil
	}
	if first := nodes[0]; first.IsPlainRun() {
		first.Value = strings.TrimLeftFunc(first.Value, unicode.IsSpace)
	}
	if last := nodes[len(nodes)-1]; last.IsPlainRun() {
		last.Value = strings.TrimRightFunc(last.Value, unicode.IsSpace)
	}
	return nodes
}

// trimBlockRuns trims block-level runs line by line and drops the ones left
// empty.
func trimBlockRuns(nodes []*ast.Node) []*ast.Node {
	if nodes == nil {
		return nil
	}
	out := nodes[:0:0]
	for _, n := range nodes {
		if n.IsPlainRun() {
			n.Value = trimText(n.Value)
			if n.Value == "" && !n.Flagged {
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

func trimText(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// mergeMeta folds a meta block into the meta block directly before it.
func mergeMeta(nodes []*ast.Node) []*ast.Node {
	if len(nodes) < 2 {
		return nodes
	}
	out := make([]*ast.Node, 0, len(nodes))
	for _, n := range nodes {
		if len(out) > 0 && n.Kind == ast.NodeMeta && !n.Flagged {
			if prev := out[len(out)-1]; prev.Kind == ast.NodeMeta {
				for _, kv := range n.Pairs {
					if _, ok := prev.Pair(kv.Key); !ok {
						prev.Pairs = append(prev.Pairs, kv)
					}
				}
				if prev.End.Before(n.End) {
					prev.End = n.End
				}
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

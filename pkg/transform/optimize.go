package transform

import (
	"strings"

	"github.com/yaklabco/gonmc/pkg/ast"
)

// Optimize returns a copy of root in which adjacent plain text runs are
// merged, in both inline and block sequences. Every node gets fresh slices;
// the input tree is not modified.
//
// Runs are joined with a newline when the right run starts on a later line
// than the left one ends and neither already has a line break at the
// boundary. The merged run spans both. A text block left holding a single
// run becomes that run, as in Normalize.
func Optimize(root *ast.Node) *ast.Node {
	out := ast.Rewrite(root, func(n *ast.Node) []*ast.Node {
		n.Inline = mergeRuns(n.Inline)
		n.Children = mergeRuns(n.Children)
		if n.Kind == ast.NodeText && len(n.Children) == 1 && len(n.Inline) == 0 && n.Children[0].IsPlainRun() {
			return []*ast.Node{collapse(n)}
		}
		return []*ast.Node{n}
	})
	if len(out) == 0 {
		return nil
	}
	return out[0]
}

func mergeRuns(nodes []*ast.Node) []*ast.Node {
	if len(nodes) < 2 {
		return nodes
	}
	out := make([]*ast.Node, 0, len(nodes))
	for _, n := range nodes {
		if len(out) > 0 {
			if left := out[len(out)-1]; left.IsPlainRun() && n.IsPlainRun() {
				out[len(out)-1] = join(left, n)
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

func join(left, right *ast.Node) *ast.Node {
	sep := ""
	if right.Pos.Line > left.End.Line &&
		!strings.HasSuffix(left.Value, "\n") && !strings.HasPrefix(right.Value, "\n") {
		sep = "\n"
	}
	merged := ast.NewRun(left.Value+sep+right.Value, left.Pos, right.End)
	merged.Flagged = left.Flagged || right.Flagged
	return merged
}

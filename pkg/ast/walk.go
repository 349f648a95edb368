package ast

import "errors"

// ErrSkipChildren may be returned by an enter callback to leave the node's
// subtree unvisited. The leave callback is still called for the node.
var ErrSkipChildren = errors.New("skip children")

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// Walk performs a depth-first traversal in document order: inline content
// first, then children. Either callback may be nil.
func Walk(root *Node, enter, leave WalkFunc) error {
	if root == nil {
		return nil
	}

	descend := true
	if enter != nil {
		if err := enter(root); err != nil {
			if !errors.Is(err, ErrSkipChildren) {
				return err
			}
			descend = false
		}
	}

	if descend {
		for _, child := range root.Inline {
			if err := Walk(child, enter, leave); err != nil {
				return err
			}
		}
		for _, child := range root.Children {
			if err := Walk(child, enter, leave); err != nil {
				return err
			}
		}
	}

	if leave != nil {
		return leave(root)
	}
	return nil
}

// Inspect calls fn for every node in document order. Returning false skips
// the node's subtree.
func Inspect(root *Node, fn func(n *Node) bool) {
	//nolint:errcheck,revive // Walk only returns ErrSkipChildren here, which it consumes.
	Walk(root, func(n *Node) error {
		if !fn(n) {
			return ErrSkipChildren
		}
		return nil
	}, nil)
}

// FindAll returns all nodes matching the predicate.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node
	Inspect(root, func(n *Node) bool {
		if predicate(n) {
			result = append(result, n)
		}
		return true
	})
	return result
}

// FindFirst returns the first node matching the predicate, or nil if none found.
func FindFirst(root *Node, predicate func(n *Node) bool) *Node {
	var found *Node

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(root, func(n *Node) error {
		if predicate(n) {
			found = n
			return errStopWalk
		}
		return nil
	}, nil)

	return found
}

// FindByKind returns all nodes of the specified kind.
func FindByKind(root *Node, kind NodeKind) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.Kind == kind
	})
}

// Count returns the number of nodes in the tree rooted at root.
func Count(root *Node) int {
	count := 0
	Inspect(root, func(*Node) bool {
		count++
		return true
	})
	return count
}

// Rewrite rebuilds the tree bottom-up. fn receives a shallow copy of each
// node whose Inline and Children slices already hold rewritten nodes, and
// returns the replacement nodes: none to drop it, several to splice. The
// input tree is not modified.
func Rewrite(root *Node, fn func(n *Node) []*Node) []*Node {
	if root == nil {
		return nil
	}
	cp := *root
	cp.Inline = rewriteAll(root.Inline, fn)
	cp.Children = rewriteAll(root.Children, fn)
	cp.Lines = cloneStrings(root.Lines)
	cp.Cells = cloneStrings(root.Cells)
	cp.Pairs = clonePairs(root.Pairs)
	return fn(&cp)
}

func rewriteAll(nodes []*Node, fn func(n *Node) []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Rewrite(n, fn)...)
	}
	return out
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{}

type stopWalkError struct{}

func (e *stopWalkError) Error() string {
	return "stop walk"
}

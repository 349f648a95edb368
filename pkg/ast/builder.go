package ast

// New creates a node of the given kind starting at pos.
func New(kind NodeKind, pos Position) *Node {
	return &Node{Kind: kind, Pos: pos, End: pos}
}

// NewDocument creates a document root.
func NewDocument() *Node {
	return New(NodeDocument, Position{Line: 1, Column: 1})
}

// NewRun creates a plain text run spanning pos..end.
func NewRun(value string, pos, end Position) *Node {
	return &Node{Kind: NodeText, Pos: pos, End: end, Attrs: Attrs{Value: value}}
}

// AppendChild appends children to a node and extends its end position.
func AppendChild(parent *Node, children ...*Node) {
	for _, child := range children {
		if child == nil {
			continue
		}
		parent.Children = append(parent.Children, child)
		parent.extend(child.End)
	}
}

// AppendInline appends inline nodes to a node and extends its end position.
func AppendInline(parent *Node, inline ...*Node) {
	for _, child := range inline {
		if child == nil {
			continue
		}
		parent.Inline = append(parent.Inline, child)
		parent.extend(child.End)
	}
}

func (n *Node) extend(end Position) {
	if n.End.Before(end) {
		n.End = end
	}
}

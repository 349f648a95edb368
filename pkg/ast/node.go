// Package ast defines the document tree built by the parser and consumed by
// the normalizer, optimizer and validator.
package ast

import "fmt"

// NodeKind classifies an AST node.
type NodeKind uint16

// Node kinds. Visitor has one method per kind.
const (
	NodeDocument NodeKind = iota

	// Block-level nodes.
	NodeMeta
	NodeHeader
	NodeText
	NodeList
	NodeListItem
	NodeCode
	NodeTable
	NodeTableRow
	NodeDefList
	NodeDefTerm
	NodeDefDesc
	NodeBlockquote
	NodeFigure
	NodeDirective
	NodeCallout

	// Inline-level nodes. NodeText is also used for inline runs.
	NodeBold
	NodeItalic
	NodeCodeSpan
	NodeLink
	NodeAnnotation
	NodeKeyValue

	// Placeholder for content a diagnostic was reported against.
	NodeInvalid

	nodeKindCount
)

//nolint:gochecknoglobals // Read-only lookup table.
var nodeKindNames = [...]string{
	NodeDocument:   "Document",
	NodeMeta:       "Meta",
	NodeHeader:     "Header",
	NodeText:       "Text",
	NodeList:       "List",
	NodeListItem:   "ListItem",
	NodeCode:       "Code",
	NodeTable:      "Table",
	NodeTableRow:   "TableRow",
	NodeDefList:    "DefList",
	NodeDefTerm:    "DefTerm",
	NodeDefDesc:    "DefDesc",
	NodeBlockquote: "Blockquote",
	NodeFigure:     "Figure",
	NodeDirective:  "Directive",
	NodeCallout:    "Callout",
	NodeBold:       "Bold",
	NodeItalic:     "Italic",
	NodeCodeSpan:   "CodeSpan",
	NodeLink:       "Link",
	NodeAnnotation: "Annotation",
	NodeKeyValue:   "KeyValue",
	NodeInvalid:    "Invalid",
}

// String returns the kind name.
func (k NodeKind) String() string {
	if k < nodeKindCount {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", uint16(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Position is a 1-based line and column in the source.
type Position struct {
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// Before reports whether p comes strictly before q.
func (p Position) Before(q Position) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Column < q.Column)
}

// KeyValue is one key=value pair of a meta block or an inline brace group.
type KeyValue struct {
	Key   string   `json:"key"   yaml:"key"`
	Value string   `json:"value" yaml:"value"`
	Pos   Position `json:"pos"   yaml:"pos"`
}

// Attrs carries the kind-specific payload of a node. Fields that do not
// apply to a node's kind are left zero.
type Attrs struct {
	// Value is the text of a run, code span or invalid placeholder.
	Value string

	// Name is the directive name, callout kind ("note", "warn", "tip"),
	// annotation style ("paren", "bracket") or invalid-node reason.
	Name string

	// Level is the header nesting level, starting at 1.
	Level int

	// Marker is the list item marker as written ("-", "1.", "iv.").
	Marker string

	// Ordered is true when a list's first item has an ordered marker.
	Ordered bool

	// Lang and Lines describe a code block.
	Lang  string
	Lines []string

	// Cells holds the cell texts of a table row.
	Cells []string

	// URL and Title belong to links; URL is also a figure's source.
	URL   string
	Title string

	// Pairs holds meta and brace key/value pairs.
	Pairs []KeyValue
}

// Node is one element of the document tree. Nodes own their children;
// there are no parent pointers.
type Node struct {
	Kind NodeKind

	// Pos is where the node starts; End is just past its last byte.
	Pos Position
	End Position

	// Inline holds inline content: a header title, list item text, figure
	// caption, callout or directive lead-in.
	Inline []*Node

	// Children holds nested blocks, or the inline runs of a styled node.
	Children []*Node

	Attrs

	// Flagged is set when a diagnostic was reported against this node.
	Flagged bool
}

// IsBlock returns true if this is a block-level node.
func (n *Node) IsBlock() bool {
	switch n.Kind {
	case NodeDocument, NodeMeta, NodeHeader, NodeList, NodeListItem, NodeCode,
		NodeTable, NodeTableRow, NodeDefList, NodeDefTerm, NodeDefDesc,
		NodeBlockquote, NodeFigure, NodeDirective, NodeCallout, NodeInvalid, NodeText:
		return true
	default:
		return false
	}
}

// IsInline returns true if this is an inline-level node.
func (n *Node) IsInline() bool {
	switch n.Kind {
	case NodeText, NodeBold, NodeItalic, NodeCodeSpan, NodeLink, NodeAnnotation, NodeKeyValue:
		return true
	default:
		return false
	}
}

// IsPlainRun reports whether n is a text run: a NodeText without inline
// children.
func (n *Node) IsPlainRun() bool {
	return n != nil && n.Kind == NodeText && len(n.Children) == 0 && len(n.Inline) == 0
}

// HasChildren returns true if this node has nested blocks or inline content.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0 || len(n.Inline) > 0
}

// Pair returns the value for key in a node's pairs.
func (n *Node) Pair(key string) (string, bool) {
	for _, kv := range n.Pairs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// HasFlagged reports whether n or any descendant is flagged.
func (n *Node) HasFlagged() bool {
	return FindFirst(n, func(m *Node) bool { return m.Flagged }) != nil
}

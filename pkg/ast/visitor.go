package ast

// Action tells Accept whether to descend into a node's content.
type Action uint8

const (
	// Descend visits the node's inline content and children.
	Descend Action = iota

	// Skip leaves the node's subtree unvisited.
	Skip
)

// Visitor has one method per node kind. Accept calls the method matching
// each node in document order.
type Visitor interface {
	VisitDocument(n *Node) Action
	VisitMeta(n *Node) Action
	VisitHeader(n *Node) Action
	VisitText(n *Node) Action
	VisitList(n *Node) Action
	VisitListItem(n *Node) Action
	VisitCode(n *Node) Action
	VisitTable(n *Node) Action
	VisitTableRow(n *Node) Action
	VisitDefList(n *Node) Action
	VisitDefTerm(n *Node) Action
	VisitDefDesc(n *Node) Action
	VisitBlockquote(n *Node) Action
	VisitFigure(n *Node) Action
	VisitDirective(n *Node) Action
	VisitCallout(n *Node) Action
	VisitBold(n *Node) Action
	VisitItalic(n *Node) Action
	VisitCodeSpan(n *Node) Action
	VisitLink(n *Node) Action
	VisitAnnotation(n *Node) Action
	VisitKeyValue(n *Node) Action
	VisitInvalid(n *Node) Action
}

// Accept dispatches n to v and recurses into the node's inline content and
// then its children, unless the visit method returns Skip.
func Accept(n *Node, v Visitor) {
	if n == nil {
		return
	}
	if dispatch(n, v) == Skip {
		return
	}
	for _, child := range n.Inline {
		Accept(child, v)
	}
	for _, child := range n.Children {
		Accept(child, v)
	}
}

func dispatch(n *Node, v Visitor) Action {
	switch n.Kind {
	case NodeDocument:
		return v.VisitDocument(n)
	case NodeMeta:
		return v.VisitMeta(n)
	case NodeHeader:
		return v.VisitHeader(n)
	case NodeText:
		return v.VisitText(n)
	case NodeList:
		return v.VisitList(n)
	case NodeListItem:
		return v.VisitListItem(n)
	case NodeCode:
		return v.VisitCode(n)
	case NodeTable:
		return v.VisitTable(n)
	case NodeTableRow:
		return v.VisitTableRow(n)
	case NodeDefList:
		return v.VisitDefList(n)
	case NodeDefTerm:
		return v.VisitDefTerm(n)
	case NodeDefDesc:
		return v.VisitDefDesc(n)
	case NodeBlockquote:
		return v.VisitBlockquote(n)
	case NodeFigure:
		return v.VisitFigure(n)
	case NodeDirective:
		return v.VisitDirective(n)
	case NodeCallout:
		return v.VisitCallout(n)
	case NodeBold:
		return v.VisitBold(n)
	case NodeItalic:
		return v.VisitItalic(n)
	case NodeCodeSpan:
		return v.VisitCodeSpan(n)
	case NodeLink:
		return v.VisitLink(n)
	case NodeAnnotation:
		return v.VisitAnnotation(n)
	case NodeKeyValue:
		return v.VisitKeyValue(n)
	case NodeInvalid:
		return v.VisitInvalid(n)
	case nodeKindCount:
		return Skip
	default:
		return Skip
	}
}

// BaseVisitor descends into every node. Embed it to implement only the
// methods you need.
type BaseVisitor struct{}

func (BaseVisitor) VisitDocument(*Node) Action   { return Descend }
func (BaseVisitor) VisitMeta(*Node) Action       { return Descend }
func (BaseVisitor) VisitHeader(*Node) Action     { return Descend }
func (BaseVisitor) VisitText(*Node) Action       { return Descend }
func (BaseVisitor) VisitList(*Node) Action       { return Descend }
func (BaseVisitor) VisitListItem(*Node) Action   { return Descend }
func (BaseVisitor) VisitCode(*Node) Action       { return Descend }
func (BaseVisitor) VisitTable(*Node) Action      { return Descend }
func (BaseVisitor) VisitTableRow(*Node) Action   { return Descend }
func (BaseVisitor) VisitDefList(*Node) Action    { return Descend }
func (BaseVisitor) VisitDefTerm(*Node) Action    { return Descend }
func (BaseVisitor) VisitDefDesc(*Node) Action    { return Descend }
func (BaseVisitor) VisitBlockquote(*Node) Action { return Descend }
func (BaseVisitor) VisitFigure(*Node) Action     { return Descend }
func (BaseVisitor) VisitDirective(*Node) Action  { return Descend }
func (BaseVisitor) VisitCallout(*Node) Action    { return Descend }
func (BaseVisitor) VisitBold(*Node) Action       { return Descend }
func (BaseVisitor) VisitItalic(*Node) Action     { return Descend }
func (BaseVisitor) VisitCodeSpan(*Node) Action   { return Descend }
func (BaseVisitor) VisitLink(*Node) Action       { return Descend }
func (BaseVisitor) VisitAnnotation(*Node) Action { return Descend }
func (BaseVisitor) VisitKeyValue(*Node) Action   { return Descend }
func (BaseVisitor) VisitInvalid(*Node) Action    { return Descend }

var _ Visitor = BaseVisitor{}

package xaml

// VisitResult controls traversal after visiting a node
type VisitResult int

const (
	// VisitContinue descends into the node's properties and children.
	VisitContinue VisitResult = iota
	// VisitSkipChildren visits the node's siblings but not its subtree.
	VisitSkipChildren
	// VisitStop abandons the traversal entirely.
	VisitStop
)

// Visitor visits unified AST nodes. Walk drives the traversal; a visitor
// only decides what happens at each node.
type Visitor interface {
	VisitElement(el *Element) VisitResult
	VisitProperty(prop *Property) VisitResult
	VisitMarkupExtension(ext *MarkupExtension) VisitResult
	VisitComment(comment *Comment) VisitResult
}

// BaseVisitor continues at every node. Embed it to implement only the
// methods a visitor cares about.
type BaseVisitor struct{}

// VisitElement continues traversal
func (BaseVisitor) VisitElement(*Element) VisitResult { return VisitContinue }

// VisitProperty continues traversal
func (BaseVisitor) VisitProperty(*Property) VisitResult { return VisitContinue }

// VisitMarkupExtension continues traversal
func (BaseVisitor) VisitMarkupExtension(*MarkupExtension) VisitResult { return VisitContinue }

// VisitComment continues traversal
func (BaseVisitor) VisitComment(*Comment) VisitResult { return VisitContinue }

// Walk traverses the tree rooted at el in pre-order: the element first, then
// its properties in declaration order, then its children. Property values
// that are elements or markup extensions are descended into as part of the
// property visit.
func Walk(el *Element, v Visitor) {
	walkElement(el, v)
}

// WalkDocument traverses a whole document, including the comments outside
// the root element.
func WalkDocument(doc *Document, v Visitor) {
	for _, c := range doc.LeadingComments {
		if v.VisitComment(c) == VisitStop {
			return
		}
	}
	if doc.Root != nil {
		if walkElement(doc.Root, v) == VisitStop {
			return
		}
	}
	for _, c := range doc.TrailingComments {
		if v.VisitComment(c) == VisitStop {
			return
		}
	}
}

func walkElement(el *Element, v Visitor) VisitResult {
	switch v.VisitElement(el) {
	case VisitStop:
		return VisitStop
	case VisitSkipChildren:
		return VisitContinue
	}

	for _, prop := range el.Properties {
		if walkProperty(prop, v) == VisitStop {
			return VisitStop
		}
	}
	for _, comment := range el.Comments {
		if v.VisitComment(comment) == VisitStop {
			return VisitStop
		}
	}
	for _, child := range el.Children {
		if walkElement(child, v) == VisitStop {
			return VisitStop
		}
	}
	return VisitContinue
}

func walkProperty(prop *Property, v Visitor) VisitResult {
	switch v.VisitProperty(prop) {
	case VisitStop:
		return VisitStop
	case VisitSkipChildren:
		return VisitContinue
	}

	if prop.Extension != nil {
		if walkExtension(prop.Extension, v) == VisitStop {
			return VisitStop
		}
	}
	if prop.ElementValue != nil {
		if walkElement(prop.ElementValue, v) == VisitStop {
			return VisitStop
		}
	}
	return VisitContinue
}

func walkExtension(ext *MarkupExtension, v Visitor) VisitResult {
	switch v.VisitMarkupExtension(ext) {
	case VisitStop:
		return VisitStop
	case VisitSkipChildren:
		return VisitContinue
	}
	for _, param := range ext.Parameters {
		if param.Nested != nil {
			if walkExtension(param.Nested, v) == VisitStop {
				return VisitStop
			}
		}
	}
	return VisitContinue
}

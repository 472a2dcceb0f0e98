package ml_parser

import "xmc-go/packages/converter/util"

// Node represents a node in the structural XML AST
type Node interface {
	SourceSpan() *util.ParseSourceSpan
	Visit(visitor Visitor, context interface{}) interface{}
}

// NodeBase carries the source span shared by all structural nodes
type NodeBase struct {
	sourceSpan *util.ParseSourceSpan
}

// SourceSpan returns the source span
func (n *NodeBase) SourceSpan() *util.ParseSourceSpan {
	return n.sourceSpan
}

// Text represents a text node
type Text struct {
	*NodeBase
	Value string
}

// NewText creates a new Text node
func NewText(value string, sourceSpan *util.ParseSourceSpan) *Text {
	return &Text{
		NodeBase: &NodeBase{sourceSpan: sourceSpan},
		Value:    value,
	}
}

// Visit implements the Node interface
func (t *Text) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitText(t, context)
}

// Attribute represents an attribute node
type Attribute struct {
	*NodeBase
	Name      string
	Prefix    string
	Value     string
	KeySpan   *util.ParseSourceSpan
	ValueSpan *util.ParseSourceSpan
}

// NewAttribute creates a new Attribute node
func NewAttribute(prefix, name, value string, sourceSpan, keySpan, valueSpan *util.ParseSourceSpan) *Attribute {
	return &Attribute{
		NodeBase:  &NodeBase{sourceSpan: sourceSpan},
		Name:      name,
		Prefix:    prefix,
		Value:     value,
		KeySpan:   keySpan,
		ValueSpan: valueSpan,
	}
}

// FullName returns the prefixed attribute name as written in source
func (a *Attribute) FullName() string {
	if a.Prefix == "" {
		return a.Name
	}
	return a.Prefix + ":" + a.Name
}

// Visit implements the Node interface
func (a *Attribute) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitAttribute(a, context)
}

// Element represents an element node
type Element struct {
	*NodeBase
	Name            string
	Prefix          string
	Attrs           []*Attribute
	Children        []Node
	IsSelfClosing   bool
	StartSourceSpan *util.ParseSourceSpan
	EndSourceSpan   *util.ParseSourceSpan
}

// NewElement creates a new Element node
func NewElement(prefix, name string, attrs []*Attribute, children []Node, isSelfClosing bool, sourceSpan, startSourceSpan, endSourceSpan *util.ParseSourceSpan) *Element {
	return &Element{
		NodeBase:        &NodeBase{sourceSpan: sourceSpan},
		Name:            name,
		Prefix:          prefix,
		Attrs:           attrs,
		Children:        children,
		IsSelfClosing:   isSelfClosing,
		StartSourceSpan: startSourceSpan,
		EndSourceSpan:   endSourceSpan,
	}
}

// FullName returns the prefixed element name as written in source
func (e *Element) FullName() string {
	if e.Prefix == "" {
		return e.Name
	}
	return e.Prefix + ":" + e.Name
}

// Visit implements the Node interface
func (e *Element) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitElement(e, context)
}

// Comment represents a comment node
type Comment struct {
	*NodeBase
	Value string
}

// NewComment creates a new Comment node
func NewComment(value string, sourceSpan *util.ParseSourceSpan) *Comment {
	return &Comment{
		NodeBase: &NodeBase{sourceSpan: sourceSpan},
		Value:    value,
	}
}

// Visit implements the Node interface
func (c *Comment) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitComment(c, context)
}

// Declaration represents an XML declaration or other processing instruction
type Declaration struct {
	*NodeBase
	Target string
	Body   string
}

// NewDeclaration creates a new Declaration node
func NewDeclaration(target, body string, sourceSpan *util.ParseSourceSpan) *Declaration {
	return &Declaration{
		NodeBase: &NodeBase{sourceSpan: sourceSpan},
		Target:   target,
		Body:     body,
	}
}

// Visit implements the Node interface
func (d *Declaration) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitDeclaration(d, context)
}

// Visitor interface for visiting structural AST nodes
type Visitor interface {
	VisitElement(element *Element, context interface{}) interface{}
	VisitAttribute(attribute *Attribute, context interface{}) interface{}
	VisitText(text *Text, context interface{}) interface{}
	VisitComment(comment *Comment, context interface{}) interface{}
	VisitDeclaration(declaration *Declaration, context interface{}) interface{}
}

// VisitAll visits all nodes with a visitor
func VisitAll(visitor Visitor, nodes []Node, context interface{}) []interface{} {
	var result []interface{}
	for _, node := range nodes {
		if r := node.Visit(visitor, context); r != nil {
			result = append(result, r)
		}
	}
	return result
}

// RecursiveVisitor is a base visitor that recursively visits children
type RecursiveVisitor struct{}

// VisitElement visits an element and its children
func (r *RecursiveVisitor) VisitElement(element *Element, context interface{}) interface{} {
	VisitAll(r, element.Children, context)
	return nil
}

// VisitAttribute visits an attribute
func (r *RecursiveVisitor) VisitAttribute(attribute *Attribute, context interface{}) interface{} {
	return nil
}

// VisitText visits a text node
func (r *RecursiveVisitor) VisitText(text *Text, context interface{}) interface{} {
	return nil
}

// VisitComment visits a comment node
func (r *RecursiveVisitor) VisitComment(comment *Comment, context interface{}) interface{} {
	return nil
}

// VisitDeclaration visits a declaration node
func (r *RecursiveVisitor) VisitDeclaration(declaration *Declaration, context interface{}) interface{} {
	return nil
}

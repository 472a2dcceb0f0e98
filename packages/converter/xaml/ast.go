// Package xaml defines the unified markup AST: a single mutable tree merging
// the structural view (exact text, whitespace, comments) and the semantic
// view (resolved types and property owners) of one XAML document, plus the
// converters that build it and the visitor framework that traverses it.
package xaml

import (
	"xmc-go/packages/converter/diagnostics"
	"xmc-go/packages/converter/util"
	"xmc-go/packages/converter/xaml/semantic"
)

// Namespace URIs recognized by the converter.
const (
	WpfPresentationNamespace = "http://schemas.microsoft.com/winfx/2006/xaml/presentation"
	XamlDirectiveNamespace   = "http://schemas.microsoft.com/winfx/2006/xaml"
	AvaloniaNamespace        = "https://github.com/avaloniaui"
)

// Location represents a 1-based line/column position in the source document
type Location struct {
	Line   int
	Column int
}

// FormattingHints carries the recorded source-text fragments that allow a
// node to be re-emitted byte-identically. Hints are owned by the node they
// decorate and are never shared.
type FormattingHints struct {
	LeadingWhitespace  string
	TrailingWhitespace string
	InnerWhitespace    string
	OriginalText       string
	PreserveLineBreak  bool

	// SelfCloseTail is the whitespace run between the last attribute and
	// the "/>" of a self-closing tag. Meaningful only when the decorated
	// element came from source with IsSelfClosing set.
	SelfCloseTail string
}

// Clone returns a copy of the hints
func (f *FormattingHints) Clone() *FormattingHints {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

// Declaration represents the optional XML prolog of a document
type Declaration struct {
	Version  string
	Encoding string
}

// Document is the root of one parsed unit
type Document struct {
	Declaration *Declaration
	Root        *Element
	// LeadingComments and TrailingComments are document-level comments
	// appearing before and after the root element.
	LeadingComments  []*Comment
	TrailingComments []*Comment
	Symbols          *SymbolTable
	Diagnostics      *diagnostics.Sink
	SourceURL        string
	// Index is the position index over the original source text. It is nil
	// for documents built without source text (fresh semantic conversion).
	Index *util.PositionIndex
	// CodeBehindClass is the resolved companion code-behind class symbol,
	// populated by callers that link markup to its code unit.
	CodeBehindClass string
}

// NewDocument creates a new empty Document
func NewDocument(sourceURL string) *Document {
	return &Document{
		Symbols:     NewSymbolTable(),
		Diagnostics: diagnostics.NewSink(),
		SourceURL:   sourceURL,
	}
}

// NamespaceDeclaration represents one xmlns declaration recorded on an
// element. Declarations are stripped from the property list during
// conversion; they are formatting policy, not data.
type NamespaceDeclaration struct {
	Prefix     string
	URI        string
	Formatting *FormattingHints
}

// Clone returns a deep copy of the declaration
func (n *NamespaceDeclaration) Clone() *NamespaceDeclaration {
	return &NamespaceDeclaration{
		Prefix:     n.Prefix,
		URI:        n.URI,
		Formatting: n.Formatting.Clone(),
	}
}

// Element represents one markup node
type Element struct {
	TypeName  string
	Namespace string
	Prefix    string

	// Properties and Children keep insertion order; order determines
	// re-serialization order.
	Properties []*Property
	Children   []*Element

	TextContent string
	HasText     bool

	ResolvedType *semantic.TypeInfo

	// Directive fields routed out of the ordinary property list.
	DirectiveName string
	Key           string
	Class         string
	FieldModifier string
	Shared        string

	// DirectiveFormatting keeps the whitespace hints of directive
	// attributes, keyed by directive name.
	DirectiveFormatting map[string]*FormattingHints

	Namespaces []*NamespaceDeclaration

	// NamespaceOverride, when non-empty, forces the serialized namespace of
	// this element regardless of its recorded namespace.
	NamespaceOverride string

	Formatting   *FormattingHints
	Location     Location
	Parent       *Element
	SiblingIndex int
	Comments     []*Comment
	Diagnostics  []*diagnostics.Diagnostic

	IsSelfClosing bool

	// IsSynthetic marks container elements fabricated during conversion to
	// hold multiple property-element children. Synthetic elements have no
	// source representation of their own and are skipped by the serializer.
	IsSynthetic bool
}

// NewElement creates a new Element
func NewElement(typeName string) *Element {
	return &Element{
		TypeName:   typeName,
		Formatting: &FormattingHints{},
	}
}

// AddChild appends a child element and fixes up its back-reference and
// sibling index
func (e *Element) AddChild(child *Element) {
	child.Parent = e
	child.SiblingIndex = len(e.Children)
	e.Children = append(e.Children, child)
}

// AddProperty appends a property and fixes up its back-reference
func (e *Element) AddProperty(p *Property) {
	p.Parent = e
	e.Properties = append(e.Properties, p)
}

// RemoveChild removes a child element, reindexing the remaining siblings
// and re-anchoring comments that pointed past the removed position
func (e *Element) RemoveChild(child *Element) {
	for i, c := range e.Children {
		if c == child {
			e.Children = append(e.Children[:i], e.Children[i+1:]...)
			for j := i; j < len(e.Children); j++ {
				e.Children[j].SiblingIndex = j
			}
			for _, cm := range e.Comments {
				if cm.BeforeSibling > i {
					cm.BeforeSibling--
				}
			}
			child.Parent = nil
			return
		}
	}
}

// RemoveProperty removes a property from the element
func (e *Element) RemoveProperty(p *Property) {
	for i, q := range e.Properties {
		if q == p {
			e.Properties = append(e.Properties[:i], e.Properties[i+1:]...)
			p.Parent = nil
			return
		}
	}
}

// FindProperty returns the property with the given name, or nil
func (e *Element) FindProperty(name string) *Property {
	for _, p := range e.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// QualifiedName returns TypeName prefixed with the recorded namespace prefix
func (e *Element) QualifiedName() string {
	if e.Prefix == "" {
		return e.TypeName
	}
	return e.Prefix + ":" + e.TypeName
}

// AddDiagnostic records a node-local diagnostic
func (e *Element) AddDiagnostic(d *diagnostics.Diagnostic) {
	e.Diagnostics = append(e.Diagnostics, d)
}

// Clone returns a deep copy of the element tree rooted here. The clone is a
// disjoint tree: no node is shared with the original.
func (e *Element) Clone() *Element {
	c := &Element{
		TypeName:          e.TypeName,
		Namespace:         e.Namespace,
		Prefix:            e.Prefix,
		TextContent:       e.TextContent,
		HasText:           e.HasText,
		ResolvedType:      e.ResolvedType,
		DirectiveName:     e.DirectiveName,
		Key:               e.Key,
		Class:             e.Class,
		FieldModifier:     e.FieldModifier,
		Shared:            e.Shared,
		NamespaceOverride: e.NamespaceOverride,
		Formatting:        e.Formatting.Clone(),
		Location:          e.Location,
		SiblingIndex:      e.SiblingIndex,
		IsSelfClosing:     e.IsSelfClosing,
		IsSynthetic:       e.IsSynthetic,
	}
	for _, ns := range e.Namespaces {
		c.Namespaces = append(c.Namespaces, ns.Clone())
	}
	if e.DirectiveFormatting != nil {
		c.DirectiveFormatting = make(map[string]*FormattingHints, len(e.DirectiveFormatting))
		for k, v := range e.DirectiveFormatting {
			c.DirectiveFormatting[k] = v.Clone()
		}
	}
	for _, p := range e.Properties {
		pc := p.Clone()
		pc.Parent = c
		c.Properties = append(c.Properties, pc)
	}
	for _, child := range e.Children {
		cc := child.Clone()
		cc.Parent = c
		c.Children = append(c.Children, cc)
	}
	for _, cm := range e.Comments {
		cmc := cm.Clone()
		cmc.Parent = c
		c.Comments = append(c.Comments, cmc)
	}
	c.Diagnostics = append(c.Diagnostics, e.Diagnostics...)
	return c
}

// PropertyKind represents the kind of a property
type PropertyKind int

const (
	PropertyKindAttribute PropertyKind = iota
	PropertyKindPropertyElement
	PropertyKindAttachedProperty
)

// String returns the display name of the property kind
func (k PropertyKind) String() string {
	switch k {
	case PropertyKindPropertyElement:
		return "property-element"
	case PropertyKindAttachedProperty:
		return "attached-property"
	default:
		return "attribute"
	}
}

// Property represents one element attribute or property-element value.
//
// The value is a tagged union: exactly one of Value (literal string),
// ElementValue or Extension is populated.
type Property struct {
	Name string
	Kind PropertyKind

	Value        string
	ElementValue *Element
	Extension    *MarkupExtension

	// AttachedOwnerType is non-empty exactly when Kind is
	// PropertyKindAttachedProperty.
	AttachedOwnerType string

	ResolvedProperty *semantic.PropertyInfo

	Formatting *FormattingHints
	Location   Location
	Parent     *Element
}

// NewProperty creates a new attribute-kind Property with a literal value
func NewProperty(name, value string) *Property {
	return &Property{
		Name:       name,
		Kind:       PropertyKindAttribute,
		Value:      value,
		Formatting: &FormattingHints{},
	}
}

// FullName returns the property name qualified by the attached owner type or
// the owning element type, e.g. "Grid.Row" or "Button.Content".
func (p *Property) FullName() string {
	if p.AttachedOwnerType != "" {
		return p.AttachedOwnerType + "." + p.Name
	}
	if p.Parent != nil {
		return p.Parent.TypeName + "." + p.Name
	}
	return p.Name
}

// OwnerTypeName returns the type the property is looked up against: the
// attached owner when present, the enclosing element type otherwise.
func (p *Property) OwnerTypeName() string {
	if p.AttachedOwnerType != "" {
		return p.AttachedOwnerType
	}
	if p.Parent != nil {
		return p.Parent.TypeName
	}
	return ""
}

// Clone returns a deep copy of the property
func (p *Property) Clone() *Property {
	c := &Property{
		Name:              p.Name,
		Kind:              p.Kind,
		Value:             p.Value,
		AttachedOwnerType: p.AttachedOwnerType,
		ResolvedProperty:  p.ResolvedProperty,
		Formatting:        p.Formatting.Clone(),
		Location:          p.Location,
	}
	if p.ElementValue != nil {
		c.ElementValue = p.ElementValue.Clone()
	}
	if p.Extension != nil {
		c.Extension = p.Extension.Clone()
	}
	return c
}

// Comment represents a comment node. Preserve reports whether the comment
// came from source; synthesized diagnostic comments have Preserve false and
// are dropped unless diagnostic-comment mode is on.
type Comment struct {
	Text     string
	Preserve bool
	Parent   *Element
	// BeforeSibling is the comment's anchor among the parent's children:
	// the index of the child element the comment precedes, or the child
	// count when the comment follows the last child.
	BeforeSibling int
	Location      Location
	Formatting    *FormattingHints
}

// NewComment creates a new source comment
func NewComment(text string) *Comment {
	return &Comment{
		Text:       text,
		Preserve:   true,
		Formatting: &FormattingHints{},
	}
}

// Clone returns a copy of the comment
func (c *Comment) Clone() *Comment {
	cc := *c
	cc.Parent = nil
	cc.Formatting = c.Formatting.Clone()
	return &cc
}

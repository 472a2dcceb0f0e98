package xaml

import (
	"regexp"
	"strings"

	"xmc-go/packages/converter/diagnostics"
	"xmc-go/packages/converter/ml_parser"
	"xmc-go/packages/converter/util"
)

// Directive attribute names routed to dedicated Element fields instead of
// the ordinary property list.
const (
	directiveName          = "Name"
	directiveKey           = "Key"
	directiveClass         = "Class"
	directiveFieldModifier = "FieldModifier"
	directiveShared        = "Shared"
)

// conventional directive prefix used when no namespace declaration resolves
// the prefix (fragments parsed without a root xmlns:x).
const conventionalDirectivePrefix = "x"

var xmlDeclarationAttr = regexp.MustCompile(`(\w+)\s*=\s*["']([^"']*)["']`)

// StructuralConverter converts the generic structural parse into the unified
// AST, attaching whitespace hints from the extractor and populating the
// document symbol table.
type StructuralConverter struct {
	source     string
	url        string
	index      *util.PositionIndex
	whitespace *WhitespaceExtractor
	doc        *Document
}

// NewStructuralConverter creates a converter over one source text
func NewStructuralConverter(source, url string) *StructuralConverter {
	index := util.NewPositionIndex(source)
	return &StructuralConverter{
		source:     source,
		url:        url,
		index:      index,
		whitespace: NewWhitespaceExtractor(index),
	}
}

// Convert builds a Document from the structural parse result. Parse errors
// are copied into the document diagnostics; a missing root element leaves
// Document.Root nil.
func (c *StructuralConverter) Convert(tree *ml_parser.ParseTreeResult) *Document {
	doc := NewDocument(c.url)
	doc.Index = c.index
	c.doc = doc

	for _, err := range tree.Errors {
		line, col := 0, 0
		if err.Span != nil && err.Span.Start != nil {
			line = err.Span.Start.Line + 1
			col = err.Span.Start.Col + 1
		}
		if err.Level == util.ParseErrorLevelError {
			doc.Diagnostics.AddError(diagnostics.CodeStructuralParseFailed, err.Msg, c.url, line, col)
		} else {
			doc.Diagnostics.AddWarning(diagnostics.CodeStructuralParseFailed, err.Msg, c.url, line, col)
		}
	}

	seenRoot := false
	for _, node := range tree.RootNodes {
		switch n := node.(type) {
		case *ml_parser.Declaration:
			if n.Target == "xml" {
				doc.Declaration = parseDeclaration(n.Body)
			}
		case *ml_parser.Comment:
			comment := c.convertComment(n, nil)
			if !seenRoot {
				doc.LeadingComments = append(doc.LeadingComments, comment)
			} else {
				doc.TrailingComments = append(doc.TrailingComments, comment)
			}
		case *ml_parser.Element:
			if seenRoot {
				doc.Diagnostics.AddWarning(diagnostics.CodeStructuralParseFailed,
					"multiple root elements; ignoring extras", c.url,
					n.SourceSpan().Start.Line+1, n.SourceSpan().Start.Col+1)
				continue
			}
			doc.Root = c.convertElement(n, nil)
			seenRoot = true
		}
	}

	if doc.Root != nil {
		c.populateSymbolTable(doc.Root)
		doc.CodeBehindClass = doc.Root.Class
	}
	return doc
}

func parseDeclaration(body string) *Declaration {
	decl := &Declaration{}
	for _, m := range xmlDeclarationAttr.FindAllStringSubmatch(body, -1) {
		switch m[1] {
		case "version":
			decl.Version = m[2]
		case "encoding":
			decl.Encoding = m[2]
		}
	}
	return decl
}

func (c *StructuralConverter) convertElement(src *ml_parser.Element, parent *Element) *Element {
	el := NewElement(src.Name)
	el.Prefix = src.Prefix
	el.IsSelfClosing = src.IsSelfClosing
	el.Parent = parent

	start := src.StartSourceSpan.Start
	el.Location = Location{Line: start.Line + 1, Column: start.Col + 2}
	c.attachElementHints(el, src)

	c.convertAttributes(el, src)
	el.Namespace = resolveNamespace(el)
	c.convertChildren(el, src)
	return el
}

// resolveNamespace resolves the element prefix against the in-scope xmlns
// declarations, nearest ancestor first.
func resolveNamespace(el *Element) string {
	for scope := el; scope != nil; scope = scope.Parent {
		for _, ns := range scope.Namespaces {
			if ns.Prefix == el.Prefix {
				return ns.URI
			}
		}
	}
	return ""
}

func (c *StructuralConverter) attachElementHints(el *Element, src *ml_parser.Element) {
	pos := c.index.CharacterPosition(el.Location.Line, el.Location.Column)
	if pos < 0 {
		return
	}
	el.Formatting.LeadingWhitespace = c.whitespace.LeadingWhitespace(pos)

	if src.SourceSpan() != nil {
		spanStart := src.SourceSpan().Start.Offset
		spanEnd := src.SourceSpan().End.Offset
		if spanStart >= 0 && spanEnd <= len(c.source) && spanStart < spanEnd {
			el.Formatting.OriginalText = c.source[spanStart:spanEnd]
		}
		el.Formatting.TrailingWhitespace = c.whitespace.TrailingWhitespace(spanEnd)
	}
	if src.StartSourceSpan != nil && len(src.Children) > 0 {
		el.Formatting.InnerWhitespace = c.whitespace.TrailingWhitespace(src.StartSourceSpan.End.Offset)
	}
	if src.IsSelfClosing {
		el.Formatting.SelfCloseTail = selfCloseWhitespace(el.Formatting.OriginalText)
	}
}

// selfCloseWhitespace returns the whitespace run between the last attribute
// and the "/>" of a self-closing open tag.
func selfCloseWhitespace(text string) string {
	body, ok := strings.CutSuffix(text, "/>")
	if !ok {
		return " "
	}
	return body[len(strings.TrimRight(body, " \t\r\n")):]
}

func (c *StructuralConverter) convertAttributes(el *Element, src *ml_parser.Element) {
	openStart, openEnd := 0, 0
	if src.StartSourceSpan != nil {
		openStart = src.StartSourceSpan.Start.Offset
		openEnd = src.StartSourceSpan.End.Offset
	}

	for _, attr := range src.Attrs {
		// Namespace declarations are formatting policy, not data.
		if attr.FullName() == "xmlns" || attr.Prefix == "xmlns" {
			prefix := ""
			if attr.Prefix == "xmlns" {
				prefix = attr.Name
			}
			ns := &NamespaceDeclaration{Prefix: prefix, URI: attr.Value, Formatting: &FormattingHints{}}
			ns.Formatting.LeadingWhitespace, ns.Formatting.PreserveLineBreak =
				c.whitespace.AttributeLeadingWhitespace(attr.FullName(), openStart, openEnd)
			el.Namespaces = append(el.Namespaces, ns)
			continue
		}

		if c.isDirective(attr, el) {
			c.routeDirective(el, attr)
			hints := &FormattingHints{}
			hints.LeadingWhitespace, hints.PreserveLineBreak =
				c.whitespace.AttributeLeadingWhitespace(attr.FullName(), openStart, openEnd)
			if el.DirectiveFormatting == nil {
				el.DirectiveFormatting = map[string]*FormattingHints{}
			}
			el.DirectiveFormatting[attr.Name] = hints
			continue
		}

		prop := c.convertAttribute(el, attr, openStart, openEnd)
		el.AddProperty(prop)
	}
}

// isDirective reports whether the attribute prefix is bound to the XAML
// directive namespace, falling back to the conventional "x" prefix when the
// prefix is undeclared.
func (c *StructuralConverter) isDirective(attr *ml_parser.Attribute, el *Element) bool {
	if attr.Prefix == "" {
		return false
	}
	switch attr.Name {
	case directiveName, directiveKey, directiveClass, directiveFieldModifier, directiveShared:
	default:
		return false
	}
	for scope := el; scope != nil; scope = scope.Parent {
		for _, ns := range scope.Namespaces {
			if ns.Prefix == attr.Prefix {
				return ns.URI == XamlDirectiveNamespace
			}
		}
	}
	return attr.Prefix == conventionalDirectivePrefix
}

func (c *StructuralConverter) routeDirective(el *Element, attr *ml_parser.Attribute) {
	switch attr.Name {
	case directiveName:
		el.DirectiveName = attr.Value
	case directiveKey:
		el.Key = attr.Value
	case directiveClass:
		el.Class = attr.Value
	case directiveFieldModifier:
		el.FieldModifier = attr.Value
	case directiveShared:
		el.Shared = attr.Value
	}
}

func (c *StructuralConverter) convertAttribute(el *Element, attr *ml_parser.Attribute, openStart, openEnd int) *Property {
	prop := NewProperty(attr.Name, attr.Value)
	if attr.KeySpan != nil {
		prop.Location = Location{Line: attr.KeySpan.Start.Line + 1, Column: attr.KeySpan.Start.Col + 1}
	}
	prop.Formatting.LeadingWhitespace, prop.Formatting.PreserveLineBreak =
		c.whitespace.AttributeLeadingWhitespace(attr.FullName(), openStart, openEnd)
	prop.Formatting.OriginalText = attr.Value

	// An attribute name with a separator before the property name is an
	// attached property, split on the first separator.
	if dot := strings.Index(attr.Name, "."); dot >= 0 {
		prop.Kind = PropertyKindAttachedProperty
		prop.AttachedOwnerType = attr.Name[:dot]
		prop.Name = attr.Name[dot+1:]
	}

	if IsMarkupExtensionLiteral(attr.Value) {
		ext, err := ParseMarkupExtension(attr.Value)
		if err != nil {
			c.doc.Diagnostics.AddWarning(diagnostics.CodeStructuralParseFailed,
				"malformed markup extension: "+err.Error(), c.url,
				prop.Location.Line, prop.Location.Column)
		} else {
			prop.Extension = ext
			prop.Value = ""
		}
	}
	return prop
}

func (c *StructuralConverter) convertChildren(el *Element, src *ml_parser.Element) {
	for _, child := range src.Children {
		switch n := child.(type) {
		case *ml_parser.Text:
			if strings.TrimSpace(n.Value) == "" {
				continue
			}
			el.TextContent = n.Value
			el.HasText = true
		case *ml_parser.Comment:
			comment := c.convertComment(n, el)
			comment.BeforeSibling = len(el.Children)
			el.Comments = append(el.Comments, comment)
		case *ml_parser.Element:
			if dot := strings.Index(n.Name, "."); dot >= 0 {
				el.AddProperty(c.convertPropertyElement(el, n, dot))
			} else {
				el.AddChild(c.convertElement(n, el))
			}
		}
	}
}

// convertPropertyElement converts <Owner.Property> child syntax. A single
// child element becomes the property value directly; multiple children are
// wrapped in a synthetic collection element, because collection properties
// need a container even though the source syntax implies a flat list.
func (c *StructuralConverter) convertPropertyElement(el *Element, src *ml_parser.Element, dot int) *Property {
	owner := src.Name[:dot]
	prop := &Property{
		Name:       src.Name[dot+1:],
		Kind:       PropertyKindPropertyElement,
		Formatting: &FormattingHints{},
	}
	if owner != el.TypeName {
		prop.Kind = PropertyKindAttachedProperty
		prop.AttachedOwnerType = owner
	}
	start := src.StartSourceSpan.Start
	prop.Location = Location{Line: start.Line + 1, Column: start.Col + 2}
	pos := c.index.CharacterPosition(prop.Location.Line, prop.Location.Column)
	prop.Formatting.LeadingWhitespace = c.whitespace.LeadingWhitespace(pos)

	var childElements []*ml_parser.Element
	text := ""
	for _, child := range src.Children {
		switch n := child.(type) {
		case *ml_parser.Element:
			childElements = append(childElements, n)
		case *ml_parser.Text:
			if strings.TrimSpace(n.Value) != "" {
				text = n.Value
			}
		}
	}

	switch {
	case len(childElements) == 1:
		prop.ElementValue = c.convertElement(childElements[0], el)
	case len(childElements) > 1:
		container := NewElement(prop.Name)
		container.IsSynthetic = true
		container.Parent = el
		for _, childEl := range childElements {
			container.AddChild(c.convertElement(childEl, container))
		}
		prop.ElementValue = container
	default:
		prop.Value = strings.TrimSpace(text)
	}
	return prop
}

func (c *StructuralConverter) convertComment(src *ml_parser.Comment, parent *Element) *Comment {
	comment := NewComment(src.Value)
	comment.Parent = parent
	if span := src.SourceSpan(); span != nil {
		comment.Location = Location{Line: span.Start.Line + 1, Column: span.Start.Col + 1}
		// The span covers the comment text; step back over "<!--" and
		// forward over "-->".
		pos := span.Start.Offset - len("<!--")
		comment.Formatting.LeadingWhitespace = c.whitespace.LeadingWhitespace(pos)
		comment.Formatting.TrailingWhitespace = c.whitespace.TrailingWhitespace(span.End.Offset + len("-->"))
	}
	return comment
}

// populateSymbolTable walks the finished tree once, post-order, registering
// named elements, namespace prefixes and type usages. Registration happens
// after the whole tree is built to avoid forward-reference ordering bugs.
func (c *StructuralConverter) populateSymbolTable(root *Element) {
	var walk func(el *Element)
	walk = func(el *Element) {
		for _, child := range el.Children {
			walk(child)
		}
		for _, prop := range el.Properties {
			if prop.ElementValue != nil {
				walk(prop.ElementValue)
			}
		}
		if el.IsSynthetic {
			return
		}
		c.doc.Symbols.RegisterNamedElement(el.DirectiveName, el)
		c.doc.Symbols.RegisterTypeUsage(el.TypeName, el)
		for _, ns := range el.Namespaces {
			c.doc.Symbols.RegisterPrefix(ns.Prefix, ns.URI)
		}
	}
	walk(root)
}

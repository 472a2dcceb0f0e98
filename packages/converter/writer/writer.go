// Package writer serializes the unified AST back to markup text. In
// formatting-preserving mode the recorded whitespace hints are replayed, so
// an untransformed document round-trips byte-identically; nodes without
// hints fall back to generated indentation.
package writer

import (
	"errors"
	"sort"
	"strings"

	"xmc-go/packages/converter/diagnostics"
	"xmc-go/packages/converter/xaml"
)

// Options controls serialization
type Options struct {
	// PreserveFormatting replays recorded whitespace hints instead of
	// generating indentation.
	PreserveFormatting bool

	// IndentSize is the indentation width used where no hint applies.
	IndentSize int

	// SortAttributes orders ordinary attributes alphabetically. Directive
	// fields and namespace declarations keep their fixed positions.
	SortAttributes bool

	// TargetNamespace, when non-empty, overrides the default namespace
	// declared on the root element.
	TargetNamespace string

	// EmitComments controls whether source comments are written out.
	EmitComments bool

	// Annotate appends a conversion report comment summarizing the
	// document diagnostics at the end of the output.
	Annotate bool
}

// DefaultOptions returns the options used by Serialize
func DefaultOptions() Options {
	return Options{
		PreserveFormatting: true,
		IndentSize:         4,
		EmitComments:       true,
	}
}

// ErrNoDocument is returned when there is nothing to serialize
var ErrNoDocument = errors.New("no document to serialize")

// XamlWriter serializes documents
type XamlWriter struct {
	opts Options
}

// NewXamlWriter creates a writer with the given options
func NewXamlWriter(opts Options) *XamlWriter {
	if opts.IndentSize <= 0 {
		opts.IndentSize = 4
	}
	return &XamlWriter{opts: opts}
}

// Serialize serializes doc with default options
func Serialize(doc *xaml.Document) (string, error) {
	return NewXamlWriter(DefaultOptions()).Serialize(doc)
}

// Serialize serializes the whole document
func (w *XamlWriter) Serialize(doc *xaml.Document) (string, error) {
	if doc == nil {
		return "", ErrNoDocument
	}
	if doc.Root == nil {
		doc.Diagnostics.AddError(diagnostics.CodeSerializationFailed,
			"document has no root element", doc.SourceURL, 0, 0)
		return "", ErrNoDocument
	}

	var sb strings.Builder
	wroteProlog := w.writeProlog(&sb, doc)

	for _, comment := range doc.LeadingComments {
		w.writeDocComment(&sb, comment, &wroteProlog)
	}

	if w.preserve() && doc.Root.Formatting.LeadingWhitespace != "" {
		sb.WriteString(doc.Root.Formatting.LeadingWhitespace)
	} else if wroteProlog {
		sb.WriteString("\n")
	}
	w.writeElement(&sb, doc.Root, 0)

	for _, comment := range doc.TrailingComments {
		if !comment.Preserve || !w.opts.EmitComments {
			continue
		}
		w.writeWhitespaceOr(&sb, comment.Formatting, "\n")
		writeCommentText(&sb, comment)
	}

	if w.opts.Annotate {
		if banner := buildAnnotation(doc); banner != "" {
			sb.WriteString("\n")
			sb.WriteString(banner)
		}
	}

	if w.preserve() && doc.Root.Formatting.TrailingWhitespace != "" {
		sb.WriteString(doc.Root.Formatting.TrailingWhitespace)
	} else {
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func (w *XamlWriter) preserve() bool {
	return w.opts.PreserveFormatting
}

func (w *XamlWriter) writeProlog(sb *strings.Builder, doc *xaml.Document) bool {
	if doc.Declaration == nil {
		return false
	}
	sb.WriteString("<?xml")
	if doc.Declaration.Version != "" {
		sb.WriteString(` version="` + doc.Declaration.Version + `"`)
	}
	if doc.Declaration.Encoding != "" {
		sb.WriteString(` encoding="` + doc.Declaration.Encoding + `"`)
	}
	sb.WriteString("?>")
	return true
}

func (w *XamlWriter) writeDocComment(sb *strings.Builder, comment *xaml.Comment, needSep *bool) {
	if !comment.Preserve || !w.opts.EmitComments {
		return
	}
	if w.preserve() && comment.Formatting.LeadingWhitespace != "" {
		sb.WriteString(comment.Formatting.LeadingWhitespace)
	} else if *needSep {
		sb.WriteString("\n")
	}
	writeCommentText(sb, comment)
	*needSep = true
}

func (w *XamlWriter) writeElement(sb *strings.Builder, el *xaml.Element, depth int) {
	if el.IsSynthetic {
		for _, child := range el.Children {
			w.writeChildLeading(sb, child, depth)
			w.writeElement(sb, child, depth)
		}
		return
	}

	name := qualifiedName(el)
	sb.WriteString("<")
	sb.WriteString(name)

	w.writeNamespaces(sb, el)
	w.writeDirectives(sb, el)
	w.writeAttributes(sb, el)

	propertyElements := propertyElementsOf(el)
	comments := w.preservedComments(el)
	hasBody := len(el.Children) > 0 || len(propertyElements) > 0 || el.HasText ||
		len(comments) > 0

	if !hasBody {
		if el.IsSelfClosing || !w.preserve() {
			sb.WriteString(w.selfCloseTail(el) + "/>")
		} else {
			sb.WriteString("></" + name + ">")
		}
		return
	}
	sb.WriteString(">")

	// The first body node without a leading hint falls back to the recorded
	// inner whitespace before generated indentation.
	firstBody := true
	lead := func(hints *xaml.FormattingHints, fallback string) {
		switch {
		case w.preserve() && hints != nil && hints.LeadingWhitespace != "":
			sb.WriteString(hints.LeadingWhitespace)
		case w.preserve() && firstBody && el.Formatting.InnerWhitespace != "":
			sb.WriteString(el.Formatting.InnerWhitespace)
		default:
			sb.WriteString(fallback)
		}
		firstBody = false
	}

	var lastComment *xaml.Comment
	writeComment := func(comment *xaml.Comment) {
		lead(comment.Formatting, "\n"+w.indent(depth+1))
		writeCommentText(sb, comment)
		lastComment = comment
	}

	for _, prop := range propertyElements {
		w.writePropertyElement(sb, el, prop, depth+1, lead)
		lastComment = nil
	}

	// Comments interleave with the children at their recorded anchors;
	// before any text the anchor-zero ones come first.
	ci := 0
	for ci < len(comments) && comments[ci].BeforeSibling == 0 {
		writeComment(comments[ci])
		ci++
	}
	if el.HasText {
		sb.WriteString(el.TextContent)
		firstBody = false
		lastComment = nil
	}
	for i, child := range el.Children {
		for ci < len(comments) && comments[ci].BeforeSibling <= i {
			writeComment(comments[ci])
			ci++
		}
		lead(child.Formatting, "\n"+w.indent(depth+1))
		w.writeElement(sb, child, depth+1)
		lastComment = nil
	}
	for ; ci < len(comments); ci++ {
		writeComment(comments[ci])
	}

	w.writeCloseLeading(sb, el, propertyElements, lastComment, depth)
	sb.WriteString("</" + name + ">")
}

// selfCloseTail returns the whitespace between the last attribute and the
// "/>": the recorded source run in preserve mode, a single space otherwise.
func (w *XamlWriter) selfCloseTail(el *xaml.Element) string {
	if w.preserve() && el.Formatting.OriginalText != "" {
		return el.Formatting.SelfCloseTail
	}
	return " "
}

func (w *XamlWriter) preservedComments(el *xaml.Element) []*xaml.Comment {
	if !w.opts.EmitComments {
		return nil
	}
	var kept []*xaml.Comment
	for _, c := range el.Comments {
		if c.Preserve {
			kept = append(kept, c)
		}
	}
	return kept
}

// writeChildLeading emits the whitespace before a child element: its
// recorded hint in preserve mode, generated indentation otherwise.
func (w *XamlWriter) writeChildLeading(sb *strings.Builder, child *xaml.Element, depth int) {
	if child.IsSynthetic {
		return
	}
	if w.preserve() && child.Formatting.LeadingWhitespace != "" {
		sb.WriteString(child.Formatting.LeadingWhitespace)
		return
	}
	sb.WriteString("\n" + w.indent(depth))
}

// writeCloseLeading emits the whitespace before a closing tag. The last
// body node's trailing hint is authoritative in preserve mode; leading
// hints of siblings already cover the gaps between them.
func (w *XamlWriter) writeCloseLeading(sb *strings.Builder, el *xaml.Element, propertyElements []*xaml.Property, lastComment *xaml.Comment, depth int) {
	if el.HasText && len(el.Children) == 0 && len(propertyElements) == 0 && lastComment == nil {
		// Text-only content closes inline.
		return
	}
	if w.preserve() {
		if lastComment != nil {
			if lastComment.Formatting.TrailingWhitespace != "" {
				sb.WriteString(lastComment.Formatting.TrailingWhitespace)
				return
			}
		} else if last := lastBodyElement(el, propertyElements); last != nil && last.Formatting.TrailingWhitespace != "" {
			sb.WriteString(last.Formatting.TrailingWhitespace)
			return
		}
	}
	sb.WriteString("\n" + w.indent(depth))
}

func lastBodyElement(el *xaml.Element, propertyElements []*xaml.Property) *xaml.Element {
	if n := len(el.Children); n > 0 {
		last := el.Children[n-1]
		if last.IsSynthetic {
			if m := len(last.Children); m > 0 {
				return last.Children[m-1]
			}
			return nil
		}
		return last
	}
	if n := len(propertyElements); n > 0 {
		return propertyElements[n-1].ElementValue
	}
	return nil
}

func (w *XamlWriter) writeNamespaces(sb *strings.Builder, el *xaml.Element) {
	if el.Parent == nil && w.opts.TargetNamespace != "" {
		w.writeTargetNamespaces(sb, el)
		return
	}
	for _, ns := range el.Namespaces {
		uri := ns.URI
		if ns.Prefix == "" && el.NamespaceOverride != "" {
			uri = el.NamespaceOverride
		}
		name := "xmlns"
		if ns.Prefix != "" {
			name += ":" + ns.Prefix
		}
		w.writeAttrSeparator(sb, ns.Formatting)
		sb.WriteString(name + `="` + uri + `"`)
	}
}

// writeTargetNamespaces replaces the root element's declarations with the
// configured default namespace plus the directive namespace. The directive
// declaration keeps the source prefix and is emitted even when the source
// never declared it, so rewritten directive fields always resolve.
func (w *XamlWriter) writeTargetNamespaces(sb *strings.Builder, el *xaml.Element) {
	sb.WriteString(` xmlns="` + w.opts.TargetNamespace + `"`)
	sb.WriteString(` xmlns:` + directivePrefix(el) + `="` + xaml.XamlDirectiveNamespace + `"`)
	for _, ns := range el.Namespaces {
		if ns.Prefix == "" || ns.URI == xaml.XamlDirectiveNamespace {
			continue
		}
		w.writeAttrSeparator(sb, ns.Formatting)
		sb.WriteString("xmlns:" + ns.Prefix + `="` + ns.URI + `"`)
	}
}

// Directive fields serialize first among non-namespace attributes, in a
// fixed order.
func (w *XamlWriter) writeDirectives(sb *strings.Builder, el *xaml.Element) {
	prefix := directivePrefix(el)
	for _, d := range []struct{ name, value string }{
		{"Name", el.DirectiveName},
		{"Key", el.Key},
		{"Class", el.Class},
		{"FieldModifier", el.FieldModifier},
		{"Shared", el.Shared},
	} {
		if d.value == "" {
			continue
		}
		w.writeAttrSeparator(sb, el.DirectiveFormatting[d.name])
		sb.WriteString(prefix + ":" + d.name + `="` + escapeAttr(d.value) + `"`)
	}
}

func (w *XamlWriter) writeAttributes(sb *strings.Builder, el *xaml.Element) {
	attrs := make([]*xaml.Property, 0, len(el.Properties))
	for _, prop := range el.Properties {
		if prop.Kind == xaml.PropertyKindPropertyElement ||
			(prop.Kind == xaml.PropertyKindAttachedProperty && prop.ElementValue != nil) {
			continue
		}
		attrs = append(attrs, prop)
	}
	if w.opts.SortAttributes {
		sort.SliceStable(attrs, func(i, j int) bool {
			return attrs[i].FullName() < attrs[j].FullName()
		})
	}
	for _, prop := range attrs {
		w.writeAttrSeparator(sb, prop.Formatting)
		value := prop.Value
		if prop.Extension != nil {
			value = prop.Extension.String()
		}
		sb.WriteString(prop.FullName() + `="` + escapeAttr(value) + `"`)
	}
}

func (w *XamlWriter) writeAttrSeparator(sb *strings.Builder, hints *xaml.FormattingHints) {
	if w.preserve() && hints != nil && hints.LeadingWhitespace != "" && !w.opts.SortAttributes {
		sb.WriteString(hints.LeadingWhitespace)
		return
	}
	sb.WriteString(" ")
}

func (w *XamlWriter) writePropertyElement(sb *strings.Builder, el *xaml.Element, prop *xaml.Property, depth int, lead func(*xaml.FormattingHints, string)) {
	owner := el.TypeName
	if prop.AttachedOwnerType != "" {
		owner = prop.AttachedOwnerType
	}
	name := owner + "." + prop.Name
	if el.Prefix != "" && prop.AttachedOwnerType == "" {
		name = el.Prefix + ":" + name
	}

	lead(prop.Formatting, "\n"+w.indent(depth))
	sb.WriteString("<" + name + ">")

	if prop.ElementValue != nil {
		w.writeChildLeading(sb, prop.ElementValue, depth+1)
		w.writeElement(sb, prop.ElementValue, depth+1)
		if w.preserve() {
			if last := lastNonSynthetic(prop.ElementValue); last != nil && last.Formatting.TrailingWhitespace != "" {
				sb.WriteString(last.Formatting.TrailingWhitespace)
			} else {
				sb.WriteString("\n" + w.indent(depth))
			}
		} else {
			sb.WriteString("\n" + w.indent(depth))
		}
	} else {
		sb.WriteString(prop.Value)
	}
	sb.WriteString("</" + name + ">")
}

// lastNonSynthetic resolves the element whose trailing hint precedes a
// property-element close tag, looking through synthetic containers.
func lastNonSynthetic(el *xaml.Element) *xaml.Element {
	if !el.IsSynthetic {
		return el
	}
	if n := len(el.Children); n > 0 {
		return el.Children[n-1]
	}
	return nil
}

func propertyElementsOf(el *xaml.Element) []*xaml.Property {
	var props []*xaml.Property
	for _, prop := range el.Properties {
		if prop.Kind == xaml.PropertyKindPropertyElement ||
			(prop.Kind == xaml.PropertyKindAttachedProperty && prop.ElementValue != nil) {
			props = append(props, prop)
		}
	}
	return props
}

func (w *XamlWriter) writeWhitespaceOr(sb *strings.Builder, hints *xaml.FormattingHints, fallback string) {
	if w.preserve() && hints != nil && hints.LeadingWhitespace != "" {
		sb.WriteString(hints.LeadingWhitespace)
		return
	}
	sb.WriteString(fallback)
}

func writeCommentText(sb *strings.Builder, comment *xaml.Comment) {
	sb.WriteString("<!--" + comment.Text + "-->")
}

func (w *XamlWriter) indent(depth int) string {
	return strings.Repeat(" ", depth*w.opts.IndentSize)
}

func qualifiedName(el *xaml.Element) string {
	if el.Prefix == "" {
		return el.TypeName
	}
	return el.Prefix + ":" + el.TypeName
}

// directivePrefix finds the prefix bound to the directive namespace in
// scope, defaulting to the conventional one.
func directivePrefix(el *xaml.Element) string {
	for scope := el; scope != nil; scope = scope.Parent {
		for _, ns := range scope.Namespaces {
			if ns.URI == xaml.XamlDirectiveNamespace && ns.Prefix != "" {
				return ns.Prefix
			}
		}
	}
	return "x"
}

// escapeAttr escapes the double quotes the writer itself introduces.
// Values are stored in source form, so entity escapes carry through as-is.
func escapeAttr(value string) string {
	return strings.ReplaceAll(value, `"`, "&quot;")
}

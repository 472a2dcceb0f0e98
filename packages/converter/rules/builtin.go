package rules

import (
	"fmt"
	"strings"

	"xmc-go/packages/converter/diagnostics"
	"xmc-go/packages/converter/mappings"
	"xmc-go/packages/converter/xaml"
)

// Rule priorities, descending. Gaps leave room for project-specific rules
// to slot between the built-ins.
const (
	PriorityNamespaceRewrite = 100
	PriorityTypeRename       = 90
	PriorityPropertyRename   = 80
	PriorityEventRename      = 70
	PriorityExtensionRename  = 60
	PriorityUnmappedType     = 10
)

// NewDefaultEngine builds an engine loaded with the built-in translation
// rules over repo.
func NewDefaultEngine(repo mappings.Repository) *Engine {
	e := NewEngine()
	e.AddDocumentRule(&NamespaceRewriteRule{repo: repo})
	e.AddElementRule(&TypeRenameRule{repo: repo})
	e.AddElementRule(&UnmappedTypeRule{repo: repo})
	e.AddPropertyRule(&PropertyRenameRule{repo: repo})
	e.AddPropertyRule(&EventRenameRule{repo: repo})
	e.AddExtensionRule(&ExtensionRenameRule{repo: repo})
	e.AddExtensionRule(&RelativeSourceReviewRule{})
	return e
}

// NamespaceRewriteRule rewrites every mapped xmlns declaration in the
// document and the recorded namespace of every element that used one.
// Unmapped non-directive namespaces get an informational diagnostic, since
// clr-namespace style declarations need project knowledge to translate.
type NamespaceRewriteRule struct {
	repo mappings.Repository
}

// Name returns the rule name
func (r *NamespaceRewriteRule) Name() string { return "namespace-rewrite" }

// Priority returns the rule priority
func (r *NamespaceRewriteRule) Priority() int { return PriorityNamespaceRewrite }

// Apply rewrites namespace declarations across the whole document
func (r *NamespaceRewriteRule) Apply(doc *xaml.Document, ctx *Context) {
	rewritten := map[string]string{}
	var walk func(el *xaml.Element)
	walk = func(el *xaml.Element) {
		for _, ns := range el.Namespaces {
			if m, ok := r.repo.FindNamespaceMapping(ns.URI); ok {
				rewritten[ns.URI] = m.TargetURI
				ns.URI = m.TargetURI
				ctx.RecordTransformation(r.Name(), "namespace",
					fmt.Sprintf("%s -> %s", m.SourceURI, m.TargetURI), el.Location)
				continue
			}
			if ns.URI != xaml.XamlDirectiveNamespace && !isAlreadyTarget(ns.URI, r.repo) {
				ctx.AddInfo(diagnostics.CodeNamespaceMappingNotFound,
					fmt.Sprintf("no mapping for namespace %q", ns.URI), el.Location)
			}
		}
		for _, prop := range el.Properties {
			if prop.ElementValue != nil {
				walk(prop.ElementValue)
			}
		}
		for _, child := range el.Children {
			walk(child)
		}
	}
	walk(doc.Root)

	// Recorded element namespaces follow their declarations.
	var fix func(el *xaml.Element)
	fix = func(el *xaml.Element) {
		if target, ok := rewritten[el.Namespace]; ok {
			el.Namespace = target
		}
		for _, prop := range el.Properties {
			if prop.ElementValue != nil {
				fix(prop.ElementValue)
			}
		}
		for _, child := range el.Children {
			fix(child)
		}
	}
	fix(doc.Root)
}

func isAlreadyTarget(uri string, repo mappings.Repository) bool {
	// A URI that appears as some mapping's target needs no rewrite and no
	// missing-mapping noise.
	if m, ok := repo.FindNamespaceMapping(uri); ok && m.TargetURI == uri {
		return true
	}
	return uri == mappings.AvaloniaURI
}

// TypeRenameRule renames elements whose type has a non-identity mapping, and
// flags near-equivalent translations for manual review.
type TypeRenameRule struct {
	repo mappings.Repository
}

// Name returns the rule name
func (r *TypeRenameRule) Name() string { return "type-rename" }

// Priority returns the rule priority
func (r *TypeRenameRule) Priority() int { return PriorityTypeRename }

// CanApply reports whether the element type has a mapping that changes it
func (r *TypeRenameRule) CanApply(el *xaml.Element, ctx *Context) bool {
	m, ok := r.repo.FindTypeMapping(el.TypeName)
	return ok && (m.TargetType != m.SourceType || m.RequiresManualReview)
}

// Apply renames the element type
func (r *TypeRenameRule) Apply(el *xaml.Element, ctx *Context) *xaml.Element {
	m, _ := r.repo.FindTypeMapping(el.TypeName)
	if m.TargetType != el.TypeName {
		ctx.RecordTransformation(r.Name(), "element",
			fmt.Sprintf("%s -> %s", el.TypeName, m.TargetType), el.Location)
		el.TypeName = m.TargetType
	}
	if m.RequiresManualReview {
		msg := fmt.Sprintf("type %s translated to %s needs review", m.SourceType, m.TargetType)
		if m.Note != "" {
			msg += ": " + m.Note
		}
		ctx.reviewDiagnostic(el, msg, el.Location)
	}
	return el
}

// UnmappedTypeRule reports source-framework elements with no mapping entry.
// Low priority, so it only fires when no rename rule claimed the element.
type UnmappedTypeRule struct {
	repo mappings.Repository
}

// Name returns the rule name
func (r *UnmappedTypeRule) Name() string { return "unmapped-type" }

// Priority returns the rule priority
func (r *UnmappedTypeRule) Priority() int { return PriorityUnmappedType }

// CanApply reports whether the element is an unmapped framework type. The
// namespace rewrite has already run by the time elements are visited, so
// framework elements are recognized by either side of the mapping.
func (r *UnmappedTypeRule) CanApply(el *xaml.Element, ctx *Context) bool {
	_, mapped := r.repo.FindNamespaceMapping(el.Namespace)
	if !mapped && !isAlreadyTarget(el.Namespace, r.repo) {
		return false
	}
	_, ok := r.repo.FindTypeMapping(el.TypeName)
	return !ok
}

// Apply records the missing mapping
func (r *UnmappedTypeRule) Apply(el *xaml.Element, ctx *Context) *xaml.Element {
	ctx.AddWarning(diagnostics.CodeTypeMappingNotFound,
		fmt.Sprintf("no mapping for type %q", el.TypeName), el.Location)
	return el
}

// PropertyRenameRule renames mapped properties and applies their value
// conversions.
type PropertyRenameRule struct {
	repo mappings.Repository
}

// Name returns the rule name
func (r *PropertyRenameRule) Name() string { return "property-rename" }

// Priority returns the rule priority
func (r *PropertyRenameRule) Priority() int { return PriorityPropertyRename }

// CanApply reports whether the property has a mapping entry
func (r *PropertyRenameRule) CanApply(prop *xaml.Property, ctx *Context) bool {
	_, ok := r.repo.FindPropertyMapping(propertyOwner(prop), prop.Name)
	return ok
}

// Apply renames the property and converts its value
func (r *PropertyRenameRule) Apply(prop *xaml.Property, ctx *Context) *xaml.Property {
	m, _ := r.repo.FindPropertyMapping(propertyOwner(prop), prop.Name)

	oldName := prop.FullName()
	if m.TargetProperty != prop.Name {
		// A target containing a separator turns the property into an
		// attached one, e.g. ToolTip becoming ToolTip.Tip.
		if dot := strings.Index(m.TargetProperty, "."); dot >= 0 {
			prop.Kind = xaml.PropertyKindAttachedProperty
			prop.AttachedOwnerType = m.TargetProperty[:dot]
			prop.Name = m.TargetProperty[dot+1:]
		} else {
			prop.Name = m.TargetProperty
		}
		ctx.RecordTransformation(r.Name(), "property",
			fmt.Sprintf("%s -> %s", oldName, prop.FullName()), prop.Location)
	}

	if m.ValueConversion != "" {
		r.convertValue(prop, m, ctx)
	}
	if m.RequiresManualReview {
		msg := fmt.Sprintf("property %s translated to %s needs review", oldName, prop.FullName())
		if m.Note != "" {
			msg += ": " + m.Note
		}
		ctx.reviewDiagnostic(prop.Parent, msg, prop.Location)
	}
	return prop
}

func (r *PropertyRenameRule) convertValue(prop *xaml.Property, m *mappings.PropertyMapping, ctx *Context) {
	if prop.Extension != nil {
		// Bound values cannot be converted textually; the binding needs a
		// converter on the target side.
		ctx.reviewDiagnostic(prop.Parent,
			fmt.Sprintf("property %s is bound; value conversion %q must move into the binding",
				prop.FullName(), m.ValueConversion), prop.Location)
		return
	}
	converter, ok := mappings.LookupValueConverter(m.ValueConversion)
	if !ok {
		ctx.AddWarning(diagnostics.CodePropertyMappingNotFound,
			fmt.Sprintf("unknown value converter %q", m.ValueConversion), prop.Location)
		return
	}
	converted, recognized := converter(prop.Value)
	if !recognized {
		ctx.reviewDiagnostic(prop.Parent,
			fmt.Sprintf("value %q of %s not recognized by converter %q",
				prop.Value, prop.FullName(), m.ValueConversion), prop.Location)
		return
	}
	if converted != prop.Value {
		ctx.RecordTransformation(r.Name(), "property-value",
			fmt.Sprintf("%s: %q -> %q", prop.FullName(), prop.Value, converted), prop.Location)
		prop.Value = converted
	}
}

// EventRenameRule renames mapped event attributes. Runs below the property
// rule so a property mapping with the same name wins.
type EventRenameRule struct {
	repo mappings.Repository
}

// Name returns the rule name
func (r *EventRenameRule) Name() string { return "event-rename" }

// Priority returns the rule priority
func (r *EventRenameRule) Priority() int { return PriorityEventRename }

// CanApply reports whether this attribute is a mapped event handler
func (r *EventRenameRule) CanApply(prop *xaml.Property, ctx *Context) bool {
	if prop.Kind != xaml.PropertyKindAttribute || prop.Extension != nil || prop.ResolvedProperty != nil {
		return false
	}
	_, ok := r.repo.FindEventMapping(propertyOwner(prop), prop.Name)
	return ok
}

// Apply renames the event
func (r *EventRenameRule) Apply(prop *xaml.Property, ctx *Context) *xaml.Property {
	m, _ := r.repo.FindEventMapping(propertyOwner(prop), prop.Name)
	if m.TargetEvent != prop.Name {
		ctx.RecordTransformation(r.Name(), "event",
			fmt.Sprintf("%s -> %s", prop.Name, m.TargetEvent), prop.Location)
		prop.Name = m.TargetEvent
	}
	if m.Note != "" {
		ctx.AddInfo(diagnostics.CodeEventMappingNotFound,
			fmt.Sprintf("event %s: %s", m.TargetEvent, m.Note), prop.Location)
	}
	return prop
}

// ExtensionRenameRule renames markup extensions whose name has a type
// mapping entry.
type ExtensionRenameRule struct {
	repo mappings.Repository
}

// Name returns the rule name
func (r *ExtensionRenameRule) Name() string { return "extension-rename" }

// Priority returns the rule priority
func (r *ExtensionRenameRule) Priority() int { return PriorityExtensionRename }

// CanApply reports whether the extension name has a non-identity mapping
func (r *ExtensionRenameRule) CanApply(ext *xaml.MarkupExtension, ctx *Context) bool {
	m, ok := r.repo.FindTypeMapping(ext.Name)
	return ok && m.TargetType != ext.Name
}

// Apply renames the extension
func (r *ExtensionRenameRule) Apply(ext *xaml.MarkupExtension, ctx *Context) {
	m, _ := r.repo.FindTypeMapping(ext.Name)
	ctx.RecordTransformation(r.Name(), "extension",
		fmt.Sprintf("{%s} -> {%s}", ext.Name, m.TargetType), xaml.Location{})
	ext.Name = m.TargetType
}

// RelativeSourceReviewRule flags bindings using RelativeSource, whose
// syntax differs too much between frameworks to rewrite mechanically.
type RelativeSourceReviewRule struct{}

// Name returns the rule name
func (r *RelativeSourceReviewRule) Name() string { return "relative-source-review" }

// Priority returns the rule priority
func (r *RelativeSourceReviewRule) Priority() int { return PriorityExtensionRename - 1 }

// CanApply reports whether the binding carries a RelativeSource parameter
func (r *RelativeSourceReviewRule) CanApply(ext *xaml.MarkupExtension, ctx *Context) bool {
	return ext.Binding != nil && ext.FindParameter("RelativeSource") != nil
}

// Apply records the review diagnostic
func (r *RelativeSourceReviewRule) Apply(ext *xaml.MarkupExtension, ctx *Context) {
	ctx.AddWarning(diagnostics.CodeManualReviewRequired,
		fmt.Sprintf("binding %s uses RelativeSource; rewrite with target binding syntax", ext.String()),
		xaml.Location{})
}

// propertyOwner resolves the owner type used for mapping lookups: the
// attached owner when present, otherwise the enclosing element type.
func propertyOwner(prop *xaml.Property) string {
	if prop.AttachedOwnerType != "" {
		return prop.AttachedOwnerType
	}
	if prop.Parent != nil {
		return prop.Parent.TypeName
	}
	return ""
}

package xaml

import "xmc-go/packages/converter/diagnostics"

// NamedElementCollector gathers every element carrying an x:Name directive
type NamedElementCollector struct {
	BaseVisitor
	Elements []*Element
}

// VisitElement records named elements
func (c *NamedElementCollector) VisitElement(el *Element) VisitResult {
	if el.DirectiveName != "" {
		c.Elements = append(c.Elements, el)
	}
	return VisitContinue
}

// ResourceReference is one StaticResource or DynamicResource usage site
type ResourceReference struct {
	Key      string
	Dynamic  bool
	Property *Property
}

// ResourceCollector gathers resource references from markup extensions
type ResourceCollector struct {
	BaseVisitor
	References []ResourceReference

	current *Property
}

// VisitProperty tracks the property owning the extensions visited next
func (c *ResourceCollector) VisitProperty(prop *Property) VisitResult {
	c.current = prop
	return VisitContinue
}

// VisitMarkupExtension records resource lookups
func (c *ResourceCollector) VisitMarkupExtension(ext *MarkupExtension) VisitResult {
	if ext.Resource != nil {
		c.References = append(c.References, ResourceReference{
			Key:      ext.Resource.Key,
			Dynamic:  ext.Resource.Dynamic,
			Property: c.current,
		})
	}
	return VisitContinue
}

// BindingReference is one binding usage site
type BindingReference struct {
	Binding  *BindingInfo
	Property *Property
}

// BindingCollector gathers bindings, including bindings nested inside other
// markup extensions.
type BindingCollector struct {
	BaseVisitor
	Bindings []BindingReference

	current *Property
}

// VisitProperty tracks the property owning the extensions visited next
func (c *BindingCollector) VisitProperty(prop *Property) VisitResult {
	c.current = prop
	return VisitContinue
}

// VisitMarkupExtension records binding extensions
func (c *BindingCollector) VisitMarkupExtension(ext *MarkupExtension) VisitResult {
	if ext.Binding != nil {
		c.Bindings = append(c.Bindings, BindingReference{Binding: ext.Binding, Property: c.current})
	}
	return VisitContinue
}

// DiagnosticCollector gathers node-local diagnostics scattered across the
// tree into one flat list.
type DiagnosticCollector struct {
	BaseVisitor
	Diagnostics []*diagnostics.Diagnostic
}

// VisitElement records node-local diagnostics
func (c *DiagnosticCollector) VisitElement(el *Element) VisitResult {
	c.Diagnostics = append(c.Diagnostics, el.Diagnostics...)
	return VisitContinue
}

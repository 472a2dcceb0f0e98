package xaml

import (
	"fmt"

	"xmc-go/packages/converter/diagnostics"
	"xmc-go/packages/converter/xaml/semantic"
)

// SemanticConverter maps the semantic object graph onto the unified AST.
// It runs in two modes: Convert builds a fresh tree from the graph alone,
// Enrich annotates an existing structurally-converted tree in place without
// disturbing its formatting hints.
type SemanticConverter struct {
	registry *semantic.Registry
}

// NewSemanticConverter creates a converter resolving against registry
func NewSemanticConverter(registry *semantic.Registry) *SemanticConverter {
	return &SemanticConverter{registry: registry}
}

// Convert builds a unified element tree from the object graph. The result
// carries resolved type information but no formatting hints; it serializes
// with generated indentation only.
func (c *SemanticConverter) Convert(obj *semantic.ObjectNode) *Element {
	el := NewElement(obj.TypeName)
	el.Prefix = obj.Prefix
	el.ResolvedType = obj.Type
	el.Location = Location{Line: obj.Line, Column: obj.Column}
	if obj.Text != "" {
		el.TextContent = obj.Text
		el.HasText = true
	}

	for _, member := range obj.Members {
		prop := c.convertMember(el, member)
		el.AddProperty(prop)
	}
	for _, child := range obj.Children {
		el.AddChild(c.Convert(child))
	}
	return el
}

func (c *SemanticConverter) convertMember(el *Element, member *semantic.MemberNode) *Property {
	prop := NewProperty(member.Name, member.Value)
	prop.ResolvedProperty = member.Property
	prop.Location = Location{Line: member.Line, Column: member.Column}

	if member.OwnerType != "" && member.OwnerType != el.TypeName {
		prop.Kind = PropertyKindAttachedProperty
		prop.AttachedOwnerType = member.OwnerType
	} else if member.Object != nil && !member.Object.IsExtension() {
		prop.Kind = PropertyKindPropertyElement
	}

	switch {
	case member.Object != nil && member.Object.IsExtension():
		if IsMarkupExtensionLiteral(member.Value) {
			if ext, err := ParseMarkupExtension(member.Value); err == nil {
				prop.Extension = ext
				prop.Extension.ResolvedType = member.Object.Type
				prop.Value = ""
			}
		}
	case member.Object != nil:
		prop.ElementValue = c.Convert(member.Object)
		prop.ElementValue.Parent = el
		prop.Value = ""
	}
	return prop
}

// Enrich annotates the structurally-converted tree rooted at doc.Root with
// resolved type and property information from the object graph. The
// structural tree is authoritative: enrichment only fills in semantic
// fields, it never reshapes the tree. Graph nodes that cannot be paired
// with a tree node produce a mismatch warning and are skipped.
func (c *SemanticConverter) Enrich(doc *Document, graph *semantic.ObjectNode) {
	if doc.Root == nil || graph == nil {
		return
	}
	c.enrichElement(doc, doc.Root, graph)
}

func (c *SemanticConverter) enrichElement(doc *Document, el *Element, obj *semantic.ObjectNode) {
	if el.TypeName != obj.TypeName {
		doc.Diagnostics.AddWarning(diagnostics.CodeEnrichmentMismatch,
			fmt.Sprintf("structural element %q does not match semantic object %q", el.TypeName, obj.TypeName),
			doc.SourceURL, el.Location.Line, el.Location.Column)
		return
	}
	el.ResolvedType = obj.Type

	for _, prop := range el.Properties {
		c.enrichProperty(doc, el, prop, obj)
	}

	// Children pair positionally. The two parsers agree on what counts as a
	// child element, so a count mismatch means something deeper went wrong;
	// flag it and leave the children unenriched rather than guessing pairs.
	if len(el.Children) != len(obj.Children) {
		doc.Diagnostics.AddWarning(diagnostics.CodeEnrichmentMismatch,
			fmt.Sprintf("element %q has %d structural children but %d semantic children",
				el.TypeName, len(el.Children), len(obj.Children)),
			doc.SourceURL, el.Location.Line, el.Location.Column)
		return
	}
	for i, child := range el.Children {
		c.enrichElement(doc, child, obj.Children[i])
	}
}

func (c *SemanticConverter) enrichProperty(doc *Document, el *Element, prop *Property, obj *semantic.ObjectNode) {
	member := findMember(obj, prop)
	if member == nil {
		// Fall back to a direct registry lookup so unmatched properties
		// still resolve when the owner type is known.
		owner := prop.OwnerTypeName()
		if owner == "" {
			owner = el.TypeName
		}
		if info, ok := c.registry.ResolveProperty(owner, prop.Name); ok {
			prop.ResolvedProperty = info
		}
		return
	}

	if member.Property != nil {
		prop.ResolvedProperty = member.Property
	}
	if prop.Extension != nil && member.Object != nil && member.Object.IsExtension() {
		prop.Extension.ResolvedType = member.Object.Type
	}
	if prop.ElementValue != nil && member.Object != nil {
		if prop.ElementValue.IsSynthetic {
			// Synthetic collection containers have no graph counterpart;
			// resolve their children by type name alone.
			for _, child := range prop.ElementValue.Children {
				c.resolveByName(child)
			}
		} else {
			c.enrichElement(doc, prop.ElementValue, member.Object)
		}
	}
}

// resolveByName resolves types for a subtree using the registry only, with
// no graph pairing. Used where the object graph cannot represent the shape.
func (c *SemanticConverter) resolveByName(el *Element) {
	if info, ok := c.registry.Resolve(el.TypeName); ok {
		el.ResolvedType = info
	}
	for _, prop := range el.Properties {
		owner := prop.OwnerTypeName()
		if owner == "" {
			owner = el.TypeName
		}
		if info, ok := c.registry.ResolveProperty(owner, prop.Name); ok {
			prop.ResolvedProperty = info
		}
		if prop.ElementValue != nil {
			c.resolveByName(prop.ElementValue)
		}
	}
	for _, child := range el.Children {
		c.resolveByName(child)
	}
}

// findMember pairs a unified property with its graph member, matching by
// name and, for attached properties, by owner type.
func findMember(obj *semantic.ObjectNode, prop *Property) *semantic.MemberNode {
	for _, member := range obj.Members {
		if member.Name != prop.Name {
			continue
		}
		if prop.Kind == PropertyKindAttachedProperty && member.OwnerType != prop.AttachedOwnerType {
			continue
		}
		return member
	}
	return nil
}

package rules

import (
	"sort"

	"xmc-go/packages/converter/xaml"
)

// ElementRule transforms whole elements. Apply may mutate the element in
// place and return it, return a replacement, or return nil to delete the
// element from its parent.
type ElementRule interface {
	Name() string
	Priority() int
	CanApply(el *xaml.Element, ctx *Context) bool
	Apply(el *xaml.Element, ctx *Context) *xaml.Element
}

// PropertyRule transforms properties, with the same replace-or-delete
// contract as ElementRule.
type PropertyRule interface {
	Name() string
	Priority() int
	CanApply(prop *xaml.Property, ctx *Context) bool
	Apply(prop *xaml.Property, ctx *Context) *xaml.Property
}

// ExtensionRule transforms markup extensions in place
type ExtensionRule interface {
	Name() string
	Priority() int
	CanApply(ext *xaml.MarkupExtension, ctx *Context) bool
	Apply(ext *xaml.MarkupExtension, ctx *Context)
}

// DocumentRule transforms document-wide state, namespace tables above all.
// Unlike node rules, every registered document rule runs, in descending
// priority, before the node traversal starts.
type DocumentRule interface {
	Name() string
	Priority() int
	Apply(doc *xaml.Document, ctx *Context)
}

// Engine applies rules over a document in one deterministic pass: the
// document rules run first, then each element is visited pre-order; at each
// element the element rules run first, then the property rules over its
// properties, then the children. Within the element, property and extension
// rule sets, rules are tried in descending priority and the first rule
// whose CanApply holds is the only one applied to that node.
type Engine struct {
	documentRules  []DocumentRule
	elementRules   []ElementRule
	propertyRules  []PropertyRule
	extensionRules []ExtensionRule
}

// NewEngine creates an empty engine
func NewEngine() *Engine {
	return &Engine{}
}

// AddDocumentRule registers a document rule
func (e *Engine) AddDocumentRule(r DocumentRule) {
	e.documentRules = append(e.documentRules, r)
	sort.SliceStable(e.documentRules, func(i, j int) bool {
		return e.documentRules[i].Priority() > e.documentRules[j].Priority()
	})
}

// AddElementRule registers an element rule
func (e *Engine) AddElementRule(r ElementRule) {
	e.elementRules = append(e.elementRules, r)
	sort.SliceStable(e.elementRules, func(i, j int) bool {
		return e.elementRules[i].Priority() > e.elementRules[j].Priority()
	})
}

// AddPropertyRule registers a property rule
func (e *Engine) AddPropertyRule(r PropertyRule) {
	e.propertyRules = append(e.propertyRules, r)
	sort.SliceStable(e.propertyRules, func(i, j int) bool {
		return e.propertyRules[i].Priority() > e.propertyRules[j].Priority()
	})
}

// AddExtensionRule registers a markup extension rule
func (e *Engine) AddExtensionRule(r ExtensionRule) {
	e.extensionRules = append(e.extensionRules, r)
	sort.SliceStable(e.extensionRules, func(i, j int) bool {
		return e.extensionRules[i].Priority() > e.extensionRules[j].Priority()
	})
}

// Transform applies the rule set to the whole document. Returns the context
// carrying the transformation trace.
func (e *Engine) Transform(doc *xaml.Document, ctx *Context) *Context {
	if ctx == nil {
		ctx = NewContext(doc, nil)
	}
	if doc.Root == nil {
		return ctx
	}
	for _, rule := range e.documentRules {
		rule.Apply(doc, ctx)
	}
	if replaced := e.transformElement(doc.Root, ctx); replaced != doc.Root {
		doc.Root = replaced
	}
	return ctx
}

// transformElement applies rules to el and its subtree. Returns the element
// that should take el's place, or nil when el was deleted.
func (e *Engine) transformElement(el *xaml.Element, ctx *Context) *xaml.Element {
	if !el.IsSynthetic {
		for _, rule := range e.elementRules {
			if !rule.CanApply(el, ctx) {
				continue
			}
			result := rule.Apply(el, ctx)
			if result == nil {
				return nil
			}
			if result != el {
				result.Parent = el.Parent
				result.SiblingIndex = el.SiblingIndex
			}
			el = result
			break
		}
	}

	e.transformProperties(el, ctx)

	kept := el.Children[:0]
	for _, child := range el.Children {
		if replaced := e.transformElement(child, ctx); replaced != nil {
			replaced.SiblingIndex = len(kept)
			kept = append(kept, replaced)
			continue
		}
		// A deleted child shifts the comment anchors behind it.
		for _, cm := range el.Comments {
			if cm.BeforeSibling > len(kept) {
				cm.BeforeSibling--
			}
		}
	}
	el.Children = kept
	return el
}

func (e *Engine) transformProperties(el *xaml.Element, ctx *Context) {
	kept := el.Properties[:0]
	for _, prop := range el.Properties {
		result := prop
		for _, rule := range e.propertyRules {
			if !rule.CanApply(prop, ctx) {
				continue
			}
			result = rule.Apply(prop, ctx)
			break
		}
		if result == nil {
			continue
		}
		if result != prop {
			result.Parent = el
		}
		if result.Extension != nil {
			e.transformExtension(result.Extension, ctx)
		}
		if result.ElementValue != nil {
			if replaced := e.transformElement(result.ElementValue, ctx); replaced != nil {
				result.ElementValue = replaced
			} else {
				result.ElementValue = nil
			}
		}
		kept = append(kept, result)
	}
	el.Properties = kept
}

func (e *Engine) transformExtension(ext *xaml.MarkupExtension, ctx *Context) {
	for _, rule := range e.extensionRules {
		if rule.CanApply(ext, ctx) {
			rule.Apply(ext, ctx)
			break
		}
	}
	for _, param := range ext.Parameters {
		if param.Nested != nil {
			e.transformExtension(param.Nested, ctx)
		}
	}
}

// Package rules drives the framework translation: an ordered set of
// transformation rules applied over the unified AST, backed by the mapping
// repository. Rules mutate or replace nodes; the engine owns traversal
// order and rule selection.
package rules

import (
	"xmc-go/packages/converter/diagnostics"
	"xmc-go/packages/converter/mappings"
	"xmc-go/packages/converter/xaml"
)

// TransformationRecord is one entry in the transformation trace
type TransformationRecord struct {
	RuleName    string
	NodeKind    string
	Description string
	Line        int
	Column      int
}

// Context carries the per-document state shared by all rules during one
// transformation run.
type Context struct {
	Document   *xaml.Document
	Repository mappings.Repository

	trace []TransformationRecord
}

// NewContext creates a context for transforming doc against repo
func NewContext(doc *xaml.Document, repo mappings.Repository) *Context {
	return &Context{Document: doc, Repository: repo}
}

// RecordTransformation appends one trace entry
func (c *Context) RecordTransformation(ruleName, nodeKind, description string, loc xaml.Location) {
	c.trace = append(c.trace, TransformationRecord{
		RuleName:    ruleName,
		NodeKind:    nodeKind,
		Description: description,
		Line:        loc.Line,
		Column:      loc.Column,
	})
}

// Trace returns the transformations recorded so far, in application order
func (c *Context) Trace() []TransformationRecord {
	return c.trace
}

// AddWarning records a warning on the document sink
func (c *Context) AddWarning(code, message string, loc xaml.Location) {
	c.Document.Diagnostics.AddWarning(code, message, c.Document.SourceURL, loc.Line, loc.Column)
}

// AddInfo records an info diagnostic on the document sink
func (c *Context) AddInfo(code, message string, loc xaml.Location) {
	c.Document.Diagnostics.AddInfo(code, message, c.Document.SourceURL, loc.Line, loc.Column)
}

// reviewDiagnostic attaches a manual-review warning both to the sink and to
// the node itself, so it survives into serialized annotations.
func (c *Context) reviewDiagnostic(el *xaml.Element, message string, loc xaml.Location) {
	c.AddWarning(diagnostics.CodeManualReviewRequired, message, loc)
	if el != nil {
		el.AddDiagnostic(&diagnostics.Diagnostic{
			Severity: diagnostics.SeverityWarning,
			Code:     diagnostics.CodeManualReviewRequired,
			Message:  message,
			FilePath: c.Document.SourceURL,
			Line:     loc.Line,
			Column:   loc.Column,
		})
	}
}
